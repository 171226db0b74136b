package semantic

import (
	"fmt"
	"strings"
	"unicode"
)

const defaultMinTextLength = 3

// Category is the taxonomy label assigned to a short UI text.
type Category string

const (
	CategoryClear           Category = "clear"
	CategoryTooShort        Category = "too_short"
	CategoryOverlyTechnical Category = "overly_technical"
	CategoryGeneric         Category = "generic"
	CategoryAmbiguous       Category = "ambiguous"
	CategoryNonDescriptive  Category = "non_descriptive"
)

// WCAG success criteria referenced by problematic categories.
const (
	RuleLinkPurpose        = "WCAG 2.4.4 Propósito de los enlaces"
	RuleLabelsInstructions = "WCAG 3.3.2 Etiquetas o instrucciones"
	RuleHeadingsLabels     = "WCAG 2.4.6 Encabezados y etiquetas"
)

// Classification is the outcome for a single text.
type Classification struct {
	Text           string   `json:"text"`
	ElementType    string   `json:"elementType"`
	Category       Category `json:"category"`
	IsProblematic  bool     `json:"isProblematic"`
	Recommendation string   `json:"recommendation,omitempty"`
	RuleReference  string   `json:"ruleReference,omitempty"`
}

// genericPhrases are navigation texts that say nothing about their target.
var genericPhrases = map[string]bool{
	"ver más":          true,
	"ver mas":          true,
	"leer más":         true,
	"leer mas":         true,
	"más información":  true,
	"mas información":  true,
	"mas informacion":  true,
	"clic aquí":        true,
	"haga clic aquí":   true,
	"haz clic aquí":    true,
	"aquí":             true,
	"aqui":             true,
	"ver":              true,
	"ir":               true,
	"entrar":           true,
	"continuar":        true,
	"siguiente":        true,
	"click here":       true,
	"see more":         true,
	"read more":        true,
	"more":             true,
}

// ambiguousPhrases name a datum without saying which one is meant.
var ambiguousPhrases = map[string]bool{
	"nombre":  true,
	"fecha":   true,
	"número":  true,
	"numero":  true,
	"valor":   true,
	"código":  true,
	"codigo":  true,
	"tipo":    true,
	"estado":  true,
	"name":    true,
	"date":    true,
	"number":  true,
}

// nonDescriptivePhrases are filler headings and labels.
var nonDescriptivePhrases = map[string]bool{
	"información": true,
	"informacion": true,
	"datos":       true,
	"contenido":   true,
	"documento":   true,
	"documentos":  true,
	"elemento":    true,
	"general":     true,
	"otros":       true,
	"varios":      true,
	"sección":     true,
	"seccion":     true,
	"information": true,
	"data":        true,
	"content":     true,
}

var categoryRecommendations = map[Category]string{
	CategoryTooShort:        "El texto es demasiado corto para transmitir su propósito; use una frase descriptiva.",
	CategoryOverlyTechnical: "La sigla puede no ser conocida por la ciudadanía; acompáñela de su nombre completo.",
	CategoryGeneric:         "Reemplace la frase genérica por un texto que describa el destino del enlace.",
	CategoryAmbiguous:       "La etiqueta es ambigua; indique exactamente qué dato se solicita o se muestra.",
	CategoryNonDescriptive:  "El texto no describe el contenido; use un encabezado o etiqueta específica.",
}

var categoryRules = map[Category]string{
	CategoryTooShort:        RuleLinkPurpose,
	CategoryGeneric:         RuleLinkPurpose,
	CategoryAmbiguous:       RuleLabelsInstructions,
	CategoryNonDescriptive:  RuleHeadingsLabels,
	CategoryOverlyTechnical: RuleHeadingsLabels,
}

// AmbiguityClassifier assigns short UI strings (links, labels, headings,
// buttons) to a problem category using fixed phrase catalogs.
type AmbiguityClassifier struct {
	minLength int
}

// NewAmbiguityClassifier creates a classifier with the default minimum text
// length of 3 runes.
func NewAmbiguityClassifier() *AmbiguityClassifier {
	return &AmbiguityClassifier{minLength: defaultMinTextLength}
}

// NewAmbiguityClassifierWithMinLength creates a classifier that treats texts
// shorter than minLength runes as too short. minLength must be at least 1.
func NewAmbiguityClassifierWithMinLength(minLength int) (*AmbiguityClassifier, error) {
	if minLength < 1 {
		return nil, fmt.Errorf("ambiguity: minimum length %d must be at least 1", minLength)
	}
	return &AmbiguityClassifier{minLength: minLength}, nil
}

// Classify assigns text to a category. The checks run in fixed order and the
// first match wins.
func (c *AmbiguityClassifier) Classify(text, elementType string) Classification {
	result := Classification{Text: text, ElementType: elementType, Category: CategoryClear}
	trimmed := strings.TrimSpace(text)
	normalized := strings.ToLower(trimmed)

	switch {
	case trimmed == "":
		result.Category = CategoryTooShort
	case len([]rune(trimmed)) < c.minLength:
		result.Category = CategoryTooShort
	case isAcronym(trimmed):
		result.Category = CategoryOverlyTechnical
	case genericPhrases[normalized]:
		result.Category = CategoryGeneric
	case ambiguousPhrases[normalized]:
		result.Category = CategoryAmbiguous
	case nonDescriptivePhrases[normalized]:
		result.Category = CategoryNonDescriptive
	}

	if result.Category != CategoryClear {
		result.IsProblematic = true
		result.Recommendation = categoryRecommendations[result.Category]
		result.RuleReference = categoryRules[result.Category]
	}

	return result
}

// isAcronym reports whether text is an all-uppercase alphabetic token of 2-6
// runes (SIGEP, DANE, SECOP...).
func isAcronym(text string) bool {
	runes := []rune(text)
	if len(runes) < 2 || len(runes) > 6 {
		return false
	}
	for _, r := range runes {
		if !unicode.IsLetter(r) || !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// TextItem is one string to be classified together with its element type.
type TextItem struct {
	Text        string
	ElementType string
}

// AmbiguityReport aggregates classifications over a page.
type AmbiguityReport struct {
	Results           []Classification   `json:"results"`
	CountsByCategory  map[Category]int   `json:"countsByCategory"`
	CountsByElement   map[string]int     `json:"countsByElement"`
	Total             int                `json:"total"`
	ProblematicCount  int                `json:"problematicCount"`
	ClarityPercentage float64            `json:"clarityPercentage"`
}

// AnalyzeMultiple classifies every item and aggregates counts by category and
// element type. Clarity percentage is the share of clear texts; an empty
// input yields 100.
func (c *AmbiguityClassifier) AnalyzeMultiple(items []TextItem) AmbiguityReport {
	report := AmbiguityReport{
		CountsByCategory:  make(map[Category]int),
		CountsByElement:   make(map[string]int),
		ClarityPercentage: 100,
	}

	for _, item := range items {
		classification := c.Classify(item.Text, item.ElementType)
		report.Results = append(report.Results, classification)
		report.Total++
		report.CountsByCategory[classification.Category]++
		if classification.IsProblematic {
			report.ProblematicCount++
			report.CountsByElement[item.ElementType]++
		}
	}

	if report.Total > 0 {
		clear := report.CountsByCategory[CategoryClear]
		report.ClarityPercentage = float64(clear) / float64(report.Total) * 100
	}

	return report
}
