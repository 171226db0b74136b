package semantic

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	clarityTargetLow     = 60.0
	clarityTargetHigh    = 80.0
	longSentenceWords    = 40
	complexWordSyllables = 4
)

// ClarityResult is the readability outcome for a block of text.
type ClarityResult struct {
	ReadabilityScore    float64  `json:"readabilityScore"`
	Interpretation      string   `json:"interpretation"`
	AvgWordsPerSentence float64  `json:"avgWordsPerSentence"`
	AvgSyllablesPerWord float64  `json:"avgSyllablesPerWord"`
	LongSentences       int      `json:"longSentences"`
	ComplexWords        int      `json:"complexWords"`
	IsClear             bool     `json:"isClear"`
	Recommendations     []string `json:"recommendations,omitempty"`
}

// ClarityAnalyzer scores text readability with a syllable-based formula in
// the Fernández-Huerta family, tuned for Spanish administrative prose.
type ClarityAnalyzer struct {
	targetLow  float64
	targetHigh float64
}

// NewClarityAnalyzer creates an analyzer with the default [60, 80] target
// band.
func NewClarityAnalyzer() *ClarityAnalyzer {
	return &ClarityAnalyzer{targetLow: clarityTargetLow, targetHigh: clarityTargetHigh}
}

// NewClarityAnalyzerWithTargets creates an analyzer with a custom target
// band. The band must satisfy 0 <= low < high <= 100.
func NewClarityAnalyzerWithTargets(low, high float64) (*ClarityAnalyzer, error) {
	if low < 0 || high > 100 || low >= high {
		return nil, fmt.Errorf("clarity: target band [%.1f, %.1f] must satisfy 0 <= low < high <= 100", low, high)
	}
	return &ClarityAnalyzer{targetLow: low, targetHigh: high}, nil
}

// readabilityScore computes the raw, unclamped formula value:
// 206.84 - 0.60*S - 1.02*P, with S the average syllables per word and P the
// average words per sentence.
func readabilityScore(avgSyllables, avgWords float64) float64 {
	return 206.84 - 0.60*avgSyllables - 1.02*avgWords
}

// AnalyzeText computes sentence/word statistics and the clamped readability
// score for text. Empty text scores a neutral 100 with no findings.
func (a *ClarityAnalyzer) AnalyzeText(text string) ClarityResult {
	result := ClarityResult{ReadabilityScore: 100, Interpretation: "sin contenido", IsClear: true}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return result
	}

	totalWords := 0
	totalSyllables := 0
	for _, sentence := range sentences {
		words := strings.Fields(sentence)
		totalWords += len(words)
		if len(words) > longSentenceWords {
			result.LongSentences++
		}
		for _, word := range words {
			syllables := countSyllables(word)
			totalSyllables += syllables
			if syllables > complexWordSyllables {
				result.ComplexWords++
			}
		}
	}
	if totalWords == 0 {
		return result
	}

	result.AvgWordsPerSentence = float64(totalWords) / float64(len(sentences))
	result.AvgSyllablesPerWord = float64(totalSyllables) / float64(totalWords)

	raw := readabilityScore(result.AvgSyllablesPerWord, result.AvgWordsPerSentence)
	result.ReadabilityScore = clampScore(raw)
	result.Interpretation = interpretScore(result.ReadabilityScore)
	result.IsClear = result.ReadabilityScore >= a.targetLow && result.ReadabilityScore <= a.targetHigh

	if result.LongSentences > 0 {
		result.Recommendations = append(result.Recommendations, fmt.Sprintf(
			"Hay %d oración(es) de más de %d palabras; divídalas en frases más cortas.",
			result.LongSentences, longSentenceWords))
	}
	if result.ComplexWords > 0 {
		result.Recommendations = append(result.Recommendations, fmt.Sprintf(
			"Hay %d palabra(s) de más de %d sílabas; prefiera términos de uso común.",
			result.ComplexWords, complexWordSyllables))
	}
	if result.ReadabilityScore < a.targetLow {
		result.Recommendations = append(result.Recommendations,
			"El texto es difícil de leer; acorte las oraciones y simplifique el vocabulario.")
	}

	return result
}

func interpretScore(score float64) string {
	switch {
	case score >= 90:
		return "muy fácil"
	case score >= 80:
		return "fácil"
	case score >= 60:
		return "normal"
	case score >= 40:
		return "algo difícil"
	default:
		return "difícil"
	}
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// splitSentences breaks text on terminal punctuation, dropping fragments
// that carry no words.
func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})
	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		if len(strings.Fields(part)) > 0 {
			sentences = append(sentences, part)
		}
	}
	return sentences
}

// countSyllables approximates the syllable count of a word by counting
// groups of consecutive vowels, including accented Spanish vowels.
func countSyllables(word string) int {
	count := 0
	inVowelGroup := false
	for _, r := range strings.ToLower(word) {
		if isVowel(r) {
			if !inVowelGroup {
				count++
				inVowelGroup = true
			}
		} else {
			inVowelGroup = false
		}
	}
	if count == 0 && len(word) > 0 {
		count = 1
	}
	return count
}

func isVowel(r rune) bool {
	switch unicode.ToLower(r) {
	case 'a', 'e', 'i', 'o', 'u', 'á', 'é', 'í', 'ó', 'ú', 'ü':
		return true
	}
	return false
}
