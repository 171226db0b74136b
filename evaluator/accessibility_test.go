package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compliance-auditor/backend/extraction"
)

func findVerdict(t *testing.T, verdicts []CriterionVerdict, id string) CriterionVerdict {
	t.Helper()
	for _, verdict := range verdicts {
		if verdict.CriteriaID == id {
			return verdict
		}
	}
	t.Fatalf("verdict %s not found", id)
	return CriterionVerdict{}
}

func TestAltTextCoverage(t *testing.T) {
	evaluator := NewAccessibilityEvaluator()

	t.Run("no images is not applicable with full credit", func(t *testing.T) {
		verdicts := evaluator.Evaluate(&extraction.ExtractionRecord{})
		verdict := findVerdict(t, verdicts, "ACC-01")

		assert.Equal(t, StatusNA, verdict.Status)
		assert.Equal(t, verdict.MaxScore, verdict.Score)
	})

	t.Run("full coverage passes", func(t *testing.T) {
		rec := &extraction.ExtractionRecord{
			Images: extraction.Images{Total: 5, WithAlt: 5},
		}
		verdict := findVerdict(t, evaluator.Evaluate(rec), "ACC-01")

		assert.Equal(t, StatusPass, verdict.Status)
		assert.Equal(t, 10.0, verdict.Score)
	})

	t.Run("80 percent coverage is partial and proportional", func(t *testing.T) {
		rec := &extraction.ExtractionRecord{
			Images: extraction.Images{Total: 5, WithAlt: 4},
		}
		verdict := findVerdict(t, evaluator.Evaluate(rec), "ACC-01")

		assert.Equal(t, StatusPartial, verdict.Status)
		assert.InDelta(t, 8.0, verdict.Score, 0.001)
	})

	t.Run("low coverage fails", func(t *testing.T) {
		rec := &extraction.ExtractionRecord{
			Images: extraction.Images{Total: 10, WithAlt: 3},
		}
		verdict := findVerdict(t, evaluator.Evaluate(rec), "ACC-01")

		assert.Equal(t, StatusFail, verdict.Status)
		assert.InDelta(t, 3.0, verdict.Score, 0.001)
	})
}

func TestFormLabels(t *testing.T) {
	evaluator := NewAccessibilityEvaluator()

	rec := &extraction.ExtractionRecord{
		Forms: extraction.Forms{
			Total: 1,
			Inputs: []extraction.FormInput{
				{Type: "text", Name: "nombre", LabelResolution: extraction.LabelFor},
				{Type: "email", Name: "correo", LabelResolution: extraction.LabelAria},
				{Type: "text", Name: "ciudad", LabelResolution: extraction.LabelPlaceholderOnly},
				{Type: "text", Name: "barrio", LabelResolution: extraction.LabelNone},
			},
		},
	}
	verdict := findVerdict(t, evaluator.Evaluate(rec), "ACC-02")

	// A placeholder is not an accessible name: 2 of 4 labeled.
	assert.Equal(t, StatusFail, verdict.Status)
	assert.InDelta(t, 5.0, verdict.Score, 0.001)
}

func TestDocumentLanguage(t *testing.T) {
	evaluator := NewAccessibilityEvaluator()

	tests := []struct {
		name     string
		language string
		status   Status
		score    float64
	}{
		{"valid code", "es", StatusPass, 5},
		{"valid regional code", "es-CO", StatusPass, 5},
		{"invalid value", "español colombiano", StatusPartial, 2.5},
		{"missing", "", StatusFail, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &extraction.ExtractionRecord{
				Metadata: extraction.Metadata{Language: tt.language},
			}
			verdict := findVerdict(t, evaluator.Evaluate(rec), "ACC-03")

			assert.Equal(t, tt.status, verdict.Status)
			assert.InDelta(t, tt.score, verdict.Score, 0.001)
		})
	}
}

func TestPageTitle(t *testing.T) {
	evaluator := NewAccessibilityEvaluator()

	missing := findVerdict(t, evaluator.Evaluate(&extraction.ExtractionRecord{}), "ACC-04")
	assert.Equal(t, StatusFail, missing.Status)

	short := findVerdict(t, evaluator.Evaluate(&extraction.ExtractionRecord{
		Metadata: extraction.Metadata{Title: "Inicio"},
	}), "ACC-04")
	assert.Equal(t, StatusPartial, short.Status)

	descriptive := findVerdict(t, evaluator.Evaluate(&extraction.ExtractionRecord{
		Metadata: extraction.Metadata{Title: "Alcaldía de Medellín - Trámites y servicios"},
	}), "ACC-04")
	assert.Equal(t, StatusPass, descriptive.Status)
}

func TestHeadingHierarchy(t *testing.T) {
	evaluator := NewAccessibilityEvaluator()

	items := []extraction.Heading{{Level: 1, Text: "Título"}, {Level: 2, Text: "Sección"}}

	t.Run("single h1 with valid hierarchy passes", func(t *testing.T) {
		rec := &extraction.ExtractionRecord{
			Headings: extraction.Headings{Items: items, H1Count: 1, HierarchyValid: true},
		}
		verdict := findVerdict(t, evaluator.Evaluate(rec), "ACC-05")
		assert.Equal(t, StatusPass, verdict.Status)
	})

	t.Run("multiple h1 is partial", func(t *testing.T) {
		rec := &extraction.ExtractionRecord{
			Headings: extraction.Headings{Items: items, H1Count: 3, HierarchyValid: true},
		}
		verdict := findVerdict(t, evaluator.Evaluate(rec), "ACC-05")
		assert.Equal(t, StatusPartial, verdict.Status)
		assert.InDelta(t, 4.0, verdict.Score, 0.001)
	})

	t.Run("both problems fail", func(t *testing.T) {
		rec := &extraction.ExtractionRecord{
			Headings: extraction.Headings{Items: items, H1Count: 0, HierarchyValid: false},
		}
		verdict := findVerdict(t, evaluator.Evaluate(rec), "ACC-05")
		assert.Equal(t, StatusFail, verdict.Status)
	})

	t.Run("no headings is not applicable", func(t *testing.T) {
		verdict := findVerdict(t, evaluator.Evaluate(&extraction.ExtractionRecord{}), "ACC-05")
		assert.Equal(t, StatusNA, verdict.Status)
		assert.Equal(t, verdict.MaxScore, verdict.Score)
	})
}

func TestViewport(t *testing.T) {
	evaluator := NewAccessibilityEvaluator()

	adaptive := findVerdict(t, evaluator.Evaluate(&extraction.ExtractionRecord{
		Metadata: extraction.Metadata{Viewport: "width=device-width, initial-scale=1"},
	}), "ACC-11")
	assert.Equal(t, StatusPass, adaptive.Status)

	fixed := findVerdict(t, evaluator.Evaluate(&extraction.ExtractionRecord{
		Metadata: extraction.Metadata{Viewport: "width=1024"},
	}), "ACC-11")
	assert.Equal(t, StatusPartial, fixed.Status)

	missing := findVerdict(t, evaluator.Evaluate(&extraction.ExtractionRecord{}), "ACC-11")
	assert.Equal(t, StatusFail, missing.Status)
}

func TestPendingCriteriaNeverPenalize(t *testing.T) {
	evaluator := NewAccessibilityEvaluator()
	verdicts := evaluator.Evaluate(&extraction.ExtractionRecord{})

	for _, id := range []string{"ACC-12", "ACC-13"} {
		verdict := findVerdict(t, verdicts, id)
		require.Equal(t, StatusNotImplemented, verdict.Status)
		assert.Equal(t, verdict.MaxScore, verdict.Score)
		// The public boundary reports them as not applicable.
		assert.Equal(t, StatusNA, verdict.Status.Public())
	}
}

func TestAccessibilityCatalogOrderAndIDs(t *testing.T) {
	evaluator := NewAccessibilityEvaluator()
	verdicts := evaluator.Evaluate(&extraction.ExtractionRecord{})

	require.Len(t, verdicts, 10)
	// ACC-07..ACC-09 belong to the semantic dimension and must not appear.
	for _, verdict := range verdicts {
		assert.NotContains(t, []string{"ACC-07", "ACC-08", "ACC-09"}, verdict.CriteriaID)
		assert.Equal(t, DimensionAccessibility, verdict.Dimension)
	}
}
