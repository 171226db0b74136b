package semantic

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	defaultCoherenceThreshold = 0.7
	minCoherenceWords         = 10
	maxCoherenceChars         = 2000
)

// SectionResult is the coherence outcome for one heading/content pair.
type SectionResult struct {
	Heading        string  `json:"heading"`
	Similarity     float64 `json:"similarity"`
	IsCoherent     bool    `json:"isCoherent"`
	Degraded       bool    `json:"degraded,omitempty"`
	Recommendation string  `json:"recommendation,omitempty"`
}

// CoherenceReport aggregates section results for a page.
type CoherenceReport struct {
	Sections         []SectionResult `json:"sections"`
	CoherentSections int             `json:"coherentSections"`
	DegradedSections int             `json:"degradedSections"`
	TotalSections    int             `json:"totalSections"`
	Score            float64         `json:"score"`
}

// CoherenceAnalyzer checks that the text under each heading actually talks
// about what the heading announces.
type CoherenceAnalyzer struct {
	encoder   TextEncoder
	threshold float64
}

// NewCoherenceAnalyzer creates an analyzer using enc for similarity scoring.
// The threshold must lie in [0.5, 0.9]; values outside that range are a
// configuration error, never silently clamped.
func NewCoherenceAnalyzer(enc TextEncoder, threshold float64) (*CoherenceAnalyzer, error) {
	if enc == nil {
		return nil, fmt.Errorf("coherence: encoder is required")
	}
	if threshold < 0.5 || threshold > 0.9 {
		return nil, fmt.Errorf("coherence: threshold %.2f outside valid range [0.5, 0.9]", threshold)
	}
	return &CoherenceAnalyzer{encoder: enc, threshold: threshold}, nil
}

// NewDefaultCoherenceAnalyzer creates an analyzer with the default 0.7
// threshold.
func NewDefaultCoherenceAnalyzer(enc TextEncoder) (*CoherenceAnalyzer, error) {
	return NewCoherenceAnalyzer(enc, defaultCoherenceThreshold)
}

// AnalyzeSection scores one heading against its content. Sections shorter
// than the minimum word count are assumed coherent: a few words cannot
// meaningfully mislead. An encoder failure downgrades to coherent-assumed
// and is flagged as degraded rather than aborting the evaluation.
func (a *CoherenceAnalyzer) AnalyzeSection(heading, content string) SectionResult {
	result := SectionResult{Heading: heading}

	if strings.TrimSpace(heading) == "" {
		result.Recommendation = "La sección no tiene encabezado; agregue un título que describa su contenido."
		return result
	}
	if strings.TrimSpace(content) == "" {
		result.Recommendation = fmt.Sprintf("El encabezado %q no tiene contenido asociado.", heading)
		return result
	}

	if len(strings.Fields(content)) < minCoherenceWords {
		result.Similarity = 1.0
		result.IsCoherent = true
		return result
	}

	if len(content) > maxCoherenceChars {
		// Back off to a rune start so the encoder never sees a split
		// character.
		cut := maxCoherenceChars
		for cut > 0 && !utf8.RuneStart(content[cut]) {
			cut--
		}
		content = content[:cut]
	}

	similarity, err := a.encoder.Similarity(heading, content)
	if err != nil {
		result.Similarity = 1.0
		result.IsCoherent = true
		result.Degraded = true
		return result
	}

	result.Similarity = similarity
	result.IsCoherent = similarity >= a.threshold
	if !result.IsCoherent {
		result.Recommendation = fmt.Sprintf(
			"El contenido bajo %q no corresponde con el encabezado (similitud %.2f); revise el título o el texto.",
			heading, similarity)
	}

	return result
}

// SectionText is a heading/content pair to be analyzed.
type SectionText struct {
	Heading string
	Content string
}

// Analyze runs AnalyzeSection over every section and computes the site-level
// coherence score as the percentage of coherent sections. No sections means
// a perfect score: there is nothing to contradict.
func (a *CoherenceAnalyzer) Analyze(sections []SectionText) CoherenceReport {
	report := CoherenceReport{Score: 100}

	for _, section := range sections {
		result := a.AnalyzeSection(section.Heading, section.Content)
		report.Sections = append(report.Sections, result)
		report.TotalSections++
		if result.IsCoherent {
			report.CoherentSections++
		}
		if result.Degraded {
			report.DegradedSections++
		}
	}

	if report.TotalSections > 0 {
		report.Score = float64(report.CoherentSections) / float64(report.TotalSections) * 100
	}

	return report
}
