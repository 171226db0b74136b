package evaluator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/compliance-auditor/backend/extraction"
)

func fullStructureRecord() *extraction.ExtractionRecord {
	return &extraction.ExtractionRecord{
		SemanticElements: extraction.SemanticElements{
			Counts: map[string]int{
				"main": 1, "header": 1, "footer": 1, "nav": 1,
				"article": 2, "section": 3, "aside": 1,
			},
		},
		Structure: extraction.Structure{
			Hierarchy: extraction.HierarchyAnalysis{
				Valid:         true,
				MainCount:     1,
				MainTopLevel:  true,
				NavInLandmark: true,
				GenericRatio:  30,
			},
		},
	}
}

func TestDoctype(t *testing.T) {
	evaluator := NewTechnicalEvaluator()

	html5 := &extraction.ExtractionRecord{
		Structure: extraction.Structure{HasDoctype: true, HTML5Doctype: true},
	}
	assert.Equal(t, StatusPass, findVerdict(t, evaluator.Evaluate(html5), "TEC-01").Status)

	legacy := &extraction.ExtractionRecord{
		Structure: extraction.Structure{HasDoctype: true},
	}
	verdict := findVerdict(t, evaluator.Evaluate(legacy), "TEC-01")
	assert.Equal(t, StatusPartial, verdict.Status)
	assert.InDelta(t, 1.5, verdict.Score, 0.001)

	none := findVerdict(t, evaluator.Evaluate(&extraction.ExtractionRecord{}), "TEC-01")
	assert.Equal(t, StatusFail, none.Status)
}

func TestCharset(t *testing.T) {
	evaluator := NewTechnicalEvaluator()

	utf8 := &extraction.ExtractionRecord{Structure: extraction.Structure{Charset: "utf-8"}}
	assert.Equal(t, StatusPass, findVerdict(t, evaluator.Evaluate(utf8), "TEC-02").Status)

	latin := &extraction.ExtractionRecord{Structure: extraction.Structure{Charset: "iso-8859-1"}}
	assert.Equal(t, StatusPartial, findVerdict(t, evaluator.Evaluate(latin), "TEC-02").Status)

	missing := findVerdict(t, evaluator.Evaluate(&extraction.ExtractionRecord{}), "TEC-02")
	assert.Equal(t, StatusFail, missing.Status)
}

func TestSemanticStructureAllotments(t *testing.T) {
	evaluator := NewTechnicalEvaluator()

	t.Run("complete landmark layout earns the full score", func(t *testing.T) {
		verdict := findVerdict(t, evaluator.Evaluate(fullStructureRecord()), "TEC-03")

		// 3 + 2 + 2 + 2 + 1.5 + 1.5 + 2 = 14
		assert.InDelta(t, 14.0, verdict.Score, 0.001)
		assert.Equal(t, StatusPass, verdict.Status)
	})

	t.Run("duplicate main loses its allotment and takes a penalty", func(t *testing.T) {
		rec := fullStructureRecord()
		rec.SemanticElements.Counts["main"] = 2
		rec.Structure.Hierarchy.MainCount = 2

		verdict := findVerdict(t, evaluator.Evaluate(rec), "TEC-03")

		// 11 earned without main, minus the 2.0 duplicate penalty.
		assert.InDelta(t, 9.0, verdict.Score, 0.001)
		assert.Equal(t, StatusPartial, verdict.Status)
	})

	t.Run("nav outside a landmark region is penalized", func(t *testing.T) {
		rec := fullStructureRecord()
		rec.Structure.Hierarchy.NavInLandmark = false

		verdict := findVerdict(t, evaluator.Evaluate(rec), "TEC-03")

		// nav's 2 points not earned, plus a 1.0 floating-nav penalty.
		assert.InDelta(t, 11.0, verdict.Score, 0.001)
	})

	t.Run("div soup takes the generic container penalty", func(t *testing.T) {
		rec := fullStructureRecord()
		rec.Structure.Hierarchy.GenericRatio = 80

		verdict := findVerdict(t, evaluator.Evaluate(rec), "TEC-03")
		assert.InDelta(t, 11.0, verdict.Score, 0.001)

		rec.Structure.Hierarchy.GenericRatio = 65
		verdict = findVerdict(t, evaluator.Evaluate(rec), "TEC-03")
		assert.InDelta(t, 12.5, verdict.Score, 0.001)
	})

	t.Run("score clamps at zero", func(t *testing.T) {
		rec := &extraction.ExtractionRecord{
			SemanticElements: extraction.SemanticElements{
				Counts: map[string]int{"main": 3, "nav": 2},
			},
			Structure: extraction.Structure{
				Hierarchy: extraction.HierarchyAnalysis{
					MainCount:    3,
					GenericRatio: 95,
					Severity:     "severa",
				},
			},
		}

		verdict := findVerdict(t, evaluator.Evaluate(rec), "TEC-03")
		assert.Equal(t, 0.0, verdict.Score)
		assert.Equal(t, StatusFail, verdict.Status)
	})
}

func TestObsoleteMarkup(t *testing.T) {
	evaluator := NewTechnicalEvaluator()

	clean := findVerdict(t, evaluator.Evaluate(&extraction.ExtractionRecord{}), "TEC-04")
	assert.Equal(t, StatusPass, clean.Status)

	few := &extraction.ExtractionRecord{
		Structure: extraction.Structure{
			ObsoleteTags: []extraction.ObsoleteTag{{Tag: "center", Count: 2}},
		},
	}
	assert.Equal(t, StatusPartial, findVerdict(t, evaluator.Evaluate(few), "TEC-04").Status)

	many := &extraction.ExtractionRecord{
		Structure: extraction.Structure{
			ObsoleteTags: []extraction.ObsoleteTag{
				{Tag: "font", Count: 12},
				{Tag: "marquee", Count: 1},
			},
		},
	}
	verdict := findVerdict(t, evaluator.Evaluate(many), "TEC-04")
	assert.Equal(t, StatusFail, verdict.Status)
	assert.Contains(t, verdict.Message, "font")
}

func TestMetadataCompleteness(t *testing.T) {
	evaluator := NewTechnicalEvaluator()

	complete := &extraction.ExtractionRecord{
		Metadata: extraction.Metadata{
			Title:       "Alcaldía",
			Description: "Sitio oficial",
			Keywords:    "alcaldía, trámites",
			Viewport:    "width=device-width",
			Language:    "es",
		},
	}
	assert.Equal(t, StatusPass, findVerdict(t, evaluator.Evaluate(complete), "TEC-06").Status)

	partial := &extraction.ExtractionRecord{
		Metadata: extraction.Metadata{Title: "Alcaldía", Language: "es"},
	}
	verdict := findVerdict(t, evaluator.Evaluate(partial), "TEC-06")
	assert.Equal(t, StatusFail, verdict.Status) // 2 of 5 = 40%
	assert.Contains(t, verdict.Message, "description")
}

func TestContentDensity(t *testing.T) {
	evaluator := NewTechnicalEvaluator()

	rich := &extraction.ExtractionRecord{
		TextCorpus: extraction.TextCorpus{FullText: strings.Repeat("palabra ", 350)},
	}
	assert.Equal(t, StatusPass, findVerdict(t, evaluator.Evaluate(rich), "TEC-09").Status)

	medium := &extraction.ExtractionRecord{
		TextCorpus: extraction.TextCorpus{FullText: strings.Repeat("palabra ", 150)},
	}
	assert.Equal(t, StatusPartial, findVerdict(t, evaluator.Evaluate(medium), "TEC-09").Status)

	thin := &extraction.ExtractionRecord{
		TextCorpus: extraction.TextCorpus{FullText: "Bienvenidos"},
	}
	assert.Equal(t, StatusFail, findVerdict(t, evaluator.Evaluate(thin), "TEC-09").Status)
}

func TestIframeTitles(t *testing.T) {
	evaluator := NewTechnicalEvaluator()

	none := findVerdict(t, evaluator.Evaluate(&extraction.ExtractionRecord{}), "TEC-08")
	assert.Equal(t, StatusNA, none.Status)
	assert.Equal(t, none.MaxScore, none.Score)

	mixed := &extraction.ExtractionRecord{
		ExternalResources: extraction.ExternalResources{
			Iframes: []extraction.Iframe{
				{Src: "https://maps.example.co", Title: "Mapa de la sede"},
				{Src: "https://video.example.co"},
			},
		},
	}
	verdict := findVerdict(t, evaluator.Evaluate(mixed), "TEC-08")
	assert.Equal(t, StatusFail, verdict.Status)
	assert.InDelta(t, 2.0, verdict.Score, 0.001)
}
