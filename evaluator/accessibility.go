package evaluator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/compliance-auditor/backend/extraction"
)

// AccessibilityEvaluator runs the ten heuristic accessibility criteria.
type AccessibilityEvaluator struct{}

// NewAccessibilityEvaluator creates a new AccessibilityEvaluator instance
func NewAccessibilityEvaluator() *AccessibilityEvaluator {
	return &AccessibilityEvaluator{}
}

// Evaluate returns the catalog verdicts in fixed order.
func (e *AccessibilityEvaluator) Evaluate(rec *extraction.ExtractionRecord) []CriterionVerdict {
	return []CriterionVerdict{
		e.altTextCoverage(rec),
		e.formLabels(rec),
		e.documentLanguage(rec),
		e.pageTitle(rec),
		e.headingHierarchy(rec),
		e.linkText(rec),
		e.mediaAlternatives(rec),
		e.viewport(rec),
		e.colorContrast(rec),
		e.partLanguage(rec),
	}
}

func (e *AccessibilityEvaluator) altTextCoverage(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(accessibilityCatalog["ACC-01"], DimensionAccessibility)
	images := rec.Images

	verdict = applyPercentage(verdict, images.WithAlt, images.Total,
		"La página no contiene imágenes.")
	if verdict.Status == StatusNA {
		return verdict
	}

	verdict.Evidence["imagesWithAlt"] = images.WithAlt
	verdict.Evidence["imagesWithEmptyAlt"] = images.WithEmptyAlt
	verdict.Evidence["totalImages"] = images.Total

	switch verdict.Status {
	case StatusPass:
		verdict.Message = "Todas las imágenes tienen texto alternativo."
	default:
		verdict.Message = fmt.Sprintf("%d de %d imágenes tienen texto alternativo; agregue alt a las restantes.",
			images.WithAlt, images.Total)
	}
	return verdict
}

func (e *AccessibilityEvaluator) formLabels(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(accessibilityCatalog["ACC-02"], DimensionAccessibility)

	labeled := 0
	for _, input := range rec.Forms.Inputs {
		if input.Labeled() {
			labeled++
		}
	}

	verdict = applyPercentage(verdict, labeled, len(rec.Forms.Inputs),
		"La página no contiene campos de formulario.")
	if verdict.Status == StatusNA {
		return verdict
	}

	verdict.Evidence["labeledInputs"] = labeled
	verdict.Evidence["totalInputs"] = len(rec.Forms.Inputs)

	if verdict.Status == StatusPass {
		verdict.Message = "Todos los campos de formulario tienen etiqueta asociada."
	} else {
		verdict.Message = fmt.Sprintf("%d de %d campos tienen etiqueta; asocie un <label> a cada campo.",
			labeled, len(rec.Forms.Inputs))
	}
	return verdict
}

var languageCodePattern = regexp.MustCompile(`^[a-zA-Z]{2,3}(-[a-zA-Z0-9]{2,8})*$`)

func (e *AccessibilityEvaluator) documentLanguage(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(accessibilityCatalog["ACC-03"], DimensionAccessibility)
	lang := strings.TrimSpace(rec.Metadata.Language)

	switch {
	case lang == "":
		verdict.Status = StatusFail
		verdict.Message = "El documento no declara idioma; agregue el atributo lang al elemento html."
	case !languageCodePattern.MatchString(lang):
		verdict.Status = StatusPartial
		verdict.Score = verdict.MaxScore / 2
		verdict.Message = fmt.Sprintf("El valor de lang %q no es un código de idioma válido.", lang)
	default:
		verdict.Status = StatusPass
		verdict.Score = verdict.MaxScore
		verdict.Message = fmt.Sprintf("El documento declara el idioma %q.", lang)
	}

	verdict.Evidence["language"] = lang
	return verdict
}

func (e *AccessibilityEvaluator) pageTitle(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(accessibilityCatalog["ACC-04"], DimensionAccessibility)
	title := strings.TrimSpace(rec.Metadata.Title)

	switch {
	case title == "":
		verdict.Status = StatusFail
		verdict.Message = "La página no tiene título; agregue un elemento <title> descriptivo."
	case len([]rune(title)) < 10:
		verdict.Status = StatusPartial
		verdict.Score = verdict.MaxScore / 2
		verdict.Message = fmt.Sprintf("El título %q es demasiado corto para describir la página.", title)
	default:
		verdict.Status = StatusPass
		verdict.Score = verdict.MaxScore
		verdict.Message = "La página tiene un título descriptivo."
	}

	verdict.Evidence["title"] = title
	return verdict
}

func (e *AccessibilityEvaluator) headingHierarchy(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(accessibilityCatalog["ACC-05"], DimensionAccessibility)
	headings := rec.Headings

	if len(headings.Items) == 0 {
		verdict.Status = StatusNA
		verdict.Score = verdict.MaxScore
		verdict.Message = "La página no contiene encabezados."
		return verdict
	}

	verdict.Evidence["h1Count"] = headings.H1Count
	verdict.Evidence["hierarchyValid"] = headings.HierarchyValid
	verdict.Evidence["totalHeadings"] = len(headings.Items)

	singleH1 := headings.H1Count == 1
	switch {
	case singleH1 && headings.HierarchyValid:
		verdict.Status = StatusPass
		verdict.Score = verdict.MaxScore
		verdict.Message = "La jerarquía de encabezados es correcta y existe un único h1."
	case singleH1 || headings.HierarchyValid:
		verdict.Status = StatusPartial
		verdict.Score = verdict.MaxScore / 2
		if !singleH1 {
			verdict.Message = fmt.Sprintf("La página tiene %d encabezados h1; debe existir exactamente uno.", headings.H1Count)
		} else {
			verdict.Message = "La jerarquía de encabezados omite niveles; no salte de h2 a h4."
		}
	default:
		verdict.Status = StatusFail
		verdict.Message = "La jerarquía de encabezados es inválida y el número de h1 es incorrecto."
	}
	return verdict
}

func (e *AccessibilityEvaluator) linkText(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(accessibilityCatalog["ACC-06"], DimensionAccessibility)
	links := rec.Links

	withText := links.Total - len(links.Empty)
	verdict = applyPercentage(verdict, withText, links.Total,
		"La página no contiene enlaces.")
	if verdict.Status == StatusNA {
		return verdict
	}

	verdict.Evidence["emptyLinks"] = len(links.Empty)
	if verdict.Status == StatusPass {
		verdict.Message = "Todos los enlaces tienen texto perceptible."
	} else {
		verdict.Message = fmt.Sprintf("%d enlace(s) no tienen texto ni nombre accesible.", len(links.Empty))
	}
	return verdict
}

func (e *AccessibilityEvaluator) mediaAlternatives(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(accessibilityCatalog["ACC-10"], DimensionAccessibility)

	withAlternative := 0
	for _, item := range rec.Media.Items {
		if item.HasCaptions || item.HasTranscript {
			withAlternative++
		}
	}

	verdict = applyPercentage(verdict, withAlternative, len(rec.Media.Items),
		"La página no contiene contenido multimedia.")
	if verdict.Status == StatusNA {
		return verdict
	}

	if verdict.Status == StatusPass {
		verdict.Message = "Todo el contenido multimedia ofrece subtítulos o transcripción."
	} else {
		verdict.Message = fmt.Sprintf("%d de %d elementos multimedia ofrecen alternativa textual.",
			withAlternative, len(rec.Media.Items))
	}
	return verdict
}

func (e *AccessibilityEvaluator) viewport(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(accessibilityCatalog["ACC-11"], DimensionAccessibility)
	viewport := strings.ToLower(rec.Metadata.Viewport)

	if strings.Contains(viewport, "width=device-width") {
		verdict.Status = StatusPass
		verdict.Score = verdict.MaxScore
		verdict.Message = "La página declara una ventana gráfica adaptable."
	} else if viewport != "" {
		verdict.Status = StatusPartial
		verdict.Score = verdict.MaxScore / 2
		verdict.Message = "La metaetiqueta viewport existe pero no usa width=device-width."
	} else {
		verdict.Status = StatusFail
		verdict.Message = "La página no declara metaetiqueta viewport."
	}

	verdict.Evidence["viewport"] = rec.Metadata.Viewport
	return verdict
}

// colorContrast requires computed CSS, which the extraction record does not
// carry yet. Reported as NA with full credit until that capability lands.
func (e *AccessibilityEvaluator) colorContrast(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(accessibilityCatalog["ACC-12"], DimensionAccessibility)
	verdict.Status = StatusNotImplemented
	verdict.Score = verdict.MaxScore
	verdict.Message = "El análisis de contraste requiere estilos computados aún no disponibles en la extracción."
	return verdict
}

// partLanguage requires per-element language detection, not yet available
// from the extraction record. Reported as NA with full credit.
func (e *AccessibilityEvaluator) partLanguage(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(accessibilityCatalog["ACC-13"], DimensionAccessibility)
	verdict.Status = StatusNotImplemented
	verdict.Score = verdict.MaxScore
	verdict.Message = "La detección de idioma por elemento aún no está disponible en la extracción."
	return verdict
}
