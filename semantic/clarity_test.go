package semantic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadabilityScoreFormula(t *testing.T) {
	// 206.84 - 0.60*2 - 1.02*10 = 195.44
	assert.InDelta(t, 195.44, readabilityScore(2.0, 10.0), 0.001)

	// Dense prose pushes the raw value down.
	assert.InDelta(t, 206.84-0.60*3.5-1.02*45, readabilityScore(3.5, 45.0), 0.001)
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 100.0, clampScore(195.44))
	assert.Equal(t, 0.0, clampScore(-12.3))
	assert.Equal(t, 72.5, clampScore(72.5))
}

func TestAnalyzeTextEmpty(t *testing.T) {
	analyzer := NewClarityAnalyzer()

	result := analyzer.AnalyzeText("")
	assert.Equal(t, 100.0, result.ReadabilityScore)
	assert.Equal(t, "sin contenido", result.Interpretation)
	assert.True(t, result.IsClear)
	assert.Empty(t, result.Recommendations)
}

func TestAnalyzeTextSimpleProse(t *testing.T) {
	analyzer := NewClarityAnalyzer()

	result := analyzer.AnalyzeText("La alcaldía atiende de lunes a viernes. El horario va de ocho a cinco.")

	assert.Equal(t, 0, result.LongSentences)
	assert.Greater(t, result.AvgWordsPerSentence, 0.0)
	assert.Greater(t, result.AvgSyllablesPerWord, 0.0)
	assert.LessOrEqual(t, result.ReadabilityScore, 100.0)
	assert.GreaterOrEqual(t, result.ReadabilityScore, 0.0)
}

func TestAnalyzeTextLongSentence(t *testing.T) {
	analyzer := NewClarityAnalyzer()

	// One sentence of 50 words, no terminal punctuation until the end.
	sentence := strings.TrimSpace(strings.Repeat("palabra ", 50)) + "."
	result := analyzer.AnalyzeText(sentence)

	assert.Equal(t, 1, result.LongSentences)
	assert.InDelta(t, 50.0, result.AvgWordsPerSentence, 0.001)
	assert.NotEmpty(t, result.Recommendations)
}

func TestAnalyzeTextComplexWords(t *testing.T) {
	analyzer := NewClarityAnalyzer()

	// "interadministrativo" has well over four syllable groups.
	result := analyzer.AnalyzeText("El convenio interadministrativo correspondiente fue perfeccionado.")

	assert.Greater(t, result.ComplexWords, 0)
}

func TestCountSyllables(t *testing.T) {
	tests := []struct {
		word     string
		expected int
	}{
		{"casa", 2},
		{"sol", 1},
		{"alcaldía", 3}, // "ía" collapses into one vowel group
		{"trámite", 3},
		{"aéreo", 2}, // vowel groups, not true syllabification
		{"xyz", 1},   // no vowels still counts as one
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.expected, countSyllables(tt.word))
		})
	}
}

func TestSplitSentences(t *testing.T) {
	sentences := splitSentences("Primera frase. Segunda frase! ¿Tercera frase? \n Cuarta")
	assert.Len(t, sentences, 4)

	assert.Empty(t, splitSentences("... !!! ???"))
}

func TestNewClarityAnalyzerWithTargets(t *testing.T) {
	for _, band := range [][2]float64{{-1, 80}, {60, 101}, {80, 60}, {70, 70}} {
		_, err := NewClarityAnalyzerWithTargets(band[0], band[1])
		assert.Error(t, err, "band [%v, %v]", band[0], band[1])
	}

	analyzer, err := NewClarityAnalyzerWithTargets(40, 100)
	assert.NoError(t, err)

	// Short sentences clamp to 100, outside the default band but inside the
	// widened one.
	text := "La alcaldía publica sus trámites en línea."
	assert.False(t, NewClarityAnalyzer().AnalyzeText(text).IsClear)
	assert.True(t, analyzer.AnalyzeText(text).IsClear)
}
