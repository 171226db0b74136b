package semantic

import (
	"fmt"
	"math"

	"github.com/compliance-auditor/backend/extraction"
)

const (
	defaultCoherenceWeight = 0.40
	defaultAmbiguityWeight = 0.40
	defaultClarityWeight   = 0.20
	maxRecommendations     = 20
)

// WCAG flag keys as used by the evaluation engine. Each flag corresponds to
// one accessibility criterion evaluated semantically.
const (
	FlagLabelsInstructions = "ACC-07" // WCAG 3.3.2
	FlagLinkPurpose        = "ACC-08" // WCAG 2.4.4
	FlagHeadingsLabels     = "ACC-09" // WCAG 2.4.6
)

// Report is the combined semantic analysis of a page's text corpus.
type Report struct {
	GlobalScore      float64         `json:"globalScore"`
	CoherenceScore   float64         `json:"coherenceScore"`
	AmbiguityScore   float64         `json:"ambiguityScore"`
	ClarityScore     float64         `json:"clarityScore"`
	WCAGCompliance   map[string]bool `json:"wcagCompliance"`
	Recommendations  []string        `json:"recommendations"`
	Ambiguity        AmbiguityReport `json:"ambiguity"`
	Coherence        CoherenceReport `json:"coherence"`
	Clarity          []ClarityResult `json:"clarity"`
	DegradedSections int             `json:"degradedSections"`
}

// Orchestrator composes the ambiguity classifier, the coherence analyzer and
// the clarity analyzer into one weighted semantic report.
type Orchestrator struct {
	classifier *AmbiguityClassifier
	coherence  *CoherenceAnalyzer
	clarity    *ClarityAnalyzer

	coherenceWeight float64
	ambiguityWeight float64
	clarityWeight   float64
}

// NewOrchestrator builds an orchestrator with explicit sub-score weights.
// The three weights must sum to 1.0 within ±0.01; anything else is an
// invalid configuration and fails fast.
func NewOrchestrator(enc TextEncoder, coherenceWeight, ambiguityWeight, clarityWeight float64) (*Orchestrator, error) {
	sum := coherenceWeight + ambiguityWeight + clarityWeight
	if math.Abs(sum-1.0) > 0.01 {
		return nil, fmt.Errorf("semantic: weights sum to %.2f, expected 1.0", sum)
	}

	coherence, err := NewDefaultCoherenceAnalyzer(enc)
	if err != nil {
		return nil, err
	}

	return &Orchestrator{
		classifier:      NewAmbiguityClassifier(),
		coherence:       coherence,
		clarity:         NewClarityAnalyzer(),
		coherenceWeight: coherenceWeight,
		ambiguityWeight: ambiguityWeight,
		clarityWeight:   clarityWeight,
	}, nil
}

// NewDefaultOrchestrator builds an orchestrator with the standard
// 0.40/0.40/0.20 weights.
func NewDefaultOrchestrator(enc TextEncoder) (*Orchestrator, error) {
	return NewOrchestrator(enc, defaultCoherenceWeight, defaultAmbiguityWeight, defaultClarityWeight)
}

// Analyze runs the three analyzers over the corpus and combines their scores
// into the weighted global score.
func (o *Orchestrator) Analyze(corpus extraction.TextCorpus) *Report {
	report := &Report{WCAGCompliance: make(map[string]bool)}

	// Ambiguity over every short UI text on the page.
	items := make([]TextItem, 0,
		len(corpus.LinkTexts)+len(corpus.ButtonTexts)+len(corpus.LabelTexts)+len(corpus.Sections))
	for _, text := range corpus.LinkTexts {
		items = append(items, TextItem{Text: text, ElementType: "link"})
	}
	for _, text := range corpus.ButtonTexts {
		items = append(items, TextItem{Text: text, ElementType: "button"})
	}
	for _, text := range corpus.LabelTexts {
		items = append(items, TextItem{Text: text, ElementType: "label"})
	}
	for _, section := range corpus.Sections {
		items = append(items, TextItem{Text: section.Heading, ElementType: "heading"})
	}
	report.Ambiguity = o.classifier.AnalyzeMultiple(items)
	report.AmbiguityScore = report.Ambiguity.ClarityPercentage

	// Coherence of every heading against its content.
	sections := make([]SectionText, 0, len(corpus.Sections))
	for _, section := range corpus.Sections {
		sections = append(sections, SectionText{Heading: section.Heading, Content: section.Content})
	}
	report.Coherence = o.coherence.Analyze(sections)
	report.CoherenceScore = report.Coherence.Score
	report.DegradedSections = report.Coherence.DegradedSections

	// Clarity of the running text, averaged over sections. Pages without
	// sections fall back to the full visible text.
	clarityTotal := 0.0
	for _, section := range corpus.Sections {
		if section.Content == "" {
			continue
		}
		result := o.clarity.AnalyzeText(section.Content)
		report.Clarity = append(report.Clarity, result)
		clarityTotal += result.ReadabilityScore
	}
	if len(report.Clarity) == 0 && corpus.FullText != "" {
		result := o.clarity.AnalyzeText(corpus.FullText)
		report.Clarity = append(report.Clarity, result)
		clarityTotal = result.ReadabilityScore
	}
	report.ClarityScore = 100
	if len(report.Clarity) > 0 {
		report.ClarityScore = clarityTotal / float64(len(report.Clarity))
	}

	report.GlobalScore = o.coherenceWeight*report.CoherenceScore +
		o.ambiguityWeight*report.AmbiguityScore +
		o.clarityWeight*report.ClarityScore

	counts := report.Ambiguity.CountsByCategory
	report.WCAGCompliance[FlagLabelsInstructions] = counts[CategoryAmbiguous] == 0
	report.WCAGCompliance[FlagLinkPurpose] = counts[CategoryGeneric] == 0 && counts[CategoryTooShort] == 0
	report.WCAGCompliance[FlagHeadingsLabels] = counts[CategoryNonDescriptive] == 0 && counts[CategoryOverlyTechnical] == 0

	report.Recommendations = o.mergeRecommendations(report)
	return report
}

// mergeRecommendations collects findings in fixed priority order (ambiguity,
// then coherence, then clarity) and truncates to the cap.
func (o *Orchestrator) mergeRecommendations(report *Report) []string {
	merged := make([]string, 0, maxRecommendations)
	seen := make(map[string]bool)

	add := func(recommendation string) {
		if recommendation == "" || seen[recommendation] || len(merged) >= maxRecommendations {
			return
		}
		seen[recommendation] = true
		merged = append(merged, recommendation)
	}

	for _, result := range report.Ambiguity.Results {
		if result.IsProblematic {
			add(fmt.Sprintf("%q (%s): %s", result.Text, result.ElementType, result.Recommendation))
		}
	}
	for _, section := range report.Coherence.Sections {
		add(section.Recommendation)
	}
	for _, result := range report.Clarity {
		for _, recommendation := range result.Recommendations {
			add(recommendation)
		}
	}

	return merged
}
