package semantic

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compliance-auditor/backend/extraction"
)

func TestNewOrchestratorWeightValidation(t *testing.T) {
	enc := &fixedEncoder{similarity: 1.0}

	_, err := NewOrchestrator(enc, 0.5, 0.4, 0.3)
	assert.Error(t, err)

	_, err = NewOrchestrator(enc, 0.4, 0.4, 0.2)
	assert.NoError(t, err)

	// Within the ±0.01 tolerance.
	_, err = NewOrchestrator(enc, 0.4, 0.4, 0.205)
	assert.NoError(t, err)

	_, err = NewOrchestrator(enc, 0.1, 0.1, 0.1)
	assert.Error(t, err)
}

func TestAnalyzeWeightedGlobalScore(t *testing.T) {
	// Every section coherent at 0.8, every text clear, so the sub-scores are
	// predictable and the global score follows the weights exactly.
	orchestrator, err := NewDefaultOrchestrator(&fixedEncoder{similarity: 0.8})
	require.NoError(t, err)

	corpus := extraction.TextCorpus{
		LinkTexts: []string{"Consultar el estado de su solicitud"},
		Sections: []extraction.Section{
			{
				Heading: "Trámites y servicios",
				Content: "La entidad ofrece distintos servicios para la atención de la ciudadanía en sus sedes.",
			},
		},
	}

	report := orchestrator.Analyze(corpus)

	assert.InDelta(t, 100.0, report.AmbiguityScore, 0.001)
	assert.InDelta(t, 100.0, report.CoherenceScore, 0.001)

	expected := 0.40*report.CoherenceScore + 0.40*report.AmbiguityScore + 0.20*report.ClarityScore
	assert.InDelta(t, expected, report.GlobalScore, 0.001)
}

func TestAnalyzeWCAGFlags(t *testing.T) {
	orchestrator, err := NewDefaultOrchestrator(&fixedEncoder{similarity: 1.0})
	require.NoError(t, err)

	t.Run("clean page passes all flags", func(t *testing.T) {
		report := orchestrator.Analyze(extraction.TextCorpus{
			LinkTexts:  []string{"Descargar el informe de gestión"},
			LabelTexts: []string{"Número de documento de identidad"},
		})

		assert.True(t, report.WCAGCompliance[FlagLabelsInstructions])
		assert.True(t, report.WCAGCompliance[FlagLinkPurpose])
		assert.True(t, report.WCAGCompliance[FlagHeadingsLabels])
	})

	t.Run("ambiguous label fails 3.3.2", func(t *testing.T) {
		report := orchestrator.Analyze(extraction.TextCorpus{
			LabelTexts: []string{"Nombre"},
		})

		assert.False(t, report.WCAGCompliance[FlagLabelsInstructions])
		assert.True(t, report.WCAGCompliance[FlagLinkPurpose])
	})

	t.Run("generic link fails 2.4.4", func(t *testing.T) {
		report := orchestrator.Analyze(extraction.TextCorpus{
			LinkTexts: []string{"ver más"},
		})

		assert.False(t, report.WCAGCompliance[FlagLinkPurpose])
	})

	t.Run("acronym heading fails 2.4.6", func(t *testing.T) {
		report := orchestrator.Analyze(extraction.TextCorpus{
			Sections: []extraction.Section{{Heading: "SECOP", Content: "breve"}},
		})

		assert.False(t, report.WCAGCompliance[FlagHeadingsLabels])
	})
}

func TestAnalyzeClarityFallsBackToFullText(t *testing.T) {
	orchestrator, err := NewDefaultOrchestrator(&fixedEncoder{similarity: 1.0})
	require.NoError(t, err)

	report := orchestrator.Analyze(extraction.TextCorpus{
		FullText: "La alcaldía atiende de lunes a viernes en su sede principal.",
	})

	require.Len(t, report.Clarity, 1)
	assert.Equal(t, report.Clarity[0].ReadabilityScore, report.ClarityScore)
}

func TestAnalyzeEmptyCorpus(t *testing.T) {
	orchestrator, err := NewDefaultOrchestrator(&fixedEncoder{similarity: 1.0})
	require.NoError(t, err)

	report := orchestrator.Analyze(extraction.TextCorpus{})

	assert.InDelta(t, 100.0, report.AmbiguityScore, 0.001)
	assert.InDelta(t, 100.0, report.CoherenceScore, 0.001)
	assert.InDelta(t, 100.0, report.ClarityScore, 0.001)
	assert.InDelta(t, 100.0, report.GlobalScore, 0.001)
	assert.Empty(t, report.Recommendations)
}

func TestAnalyzeDegradedSectionsPropagate(t *testing.T) {
	orchestrator, err := NewDefaultOrchestrator(&fixedEncoder{err: fmt.Errorf("encoder down")})
	require.NoError(t, err)

	long := strings.Repeat("contenido de la sección institucional ", 5)
	report := orchestrator.Analyze(extraction.TextCorpus{
		Sections: []extraction.Section{{Heading: "Normatividad", Content: long}},
	})

	assert.Equal(t, 1, report.DegradedSections)
	// Degraded sections are assumed coherent, never penalized.
	assert.InDelta(t, 100.0, report.CoherenceScore, 0.001)
}

func TestRecommendationsCapAndOrder(t *testing.T) {
	orchestrator, err := NewDefaultOrchestrator(&fixedEncoder{similarity: 1.0})
	require.NoError(t, err)

	// 25 distinct problematic link texts exceed the cap of 20.
	links := make([]string, 25)
	for i := range links {
		links[i] = fmt.Sprintf("%c%c", 'a'+i/5, '0'+i%5) // two runes: too short
	}

	report := orchestrator.Analyze(extraction.TextCorpus{LinkTexts: links})

	assert.Len(t, report.Recommendations, 20)
	// Ambiguity findings come first and carry the offending text.
	assert.Contains(t, report.Recommendations[0], "a0")
}
