package evaluator

import (
	"fmt"
	"strings"

	"github.com/compliance-auditor/backend/extraction"
)

// TechnicalEvaluator runs the ten technical-semantics criteria.
type TechnicalEvaluator struct{}

// NewTechnicalEvaluator creates a new TechnicalEvaluator instance
func NewTechnicalEvaluator() *TechnicalEvaluator {
	return &TechnicalEvaluator{}
}

// Evaluate returns the catalog verdicts in fixed order.
func (e *TechnicalEvaluator) Evaluate(rec *extraction.ExtractionRecord) []CriterionVerdict {
	return []CriterionVerdict{
		e.doctype(rec),
		e.charset(rec),
		e.semanticStructure(rec),
		e.obsoleteMarkup(rec),
		e.documentOutline(rec),
		e.metadataCompleteness(rec),
		e.semanticVariety(rec),
		e.iframeTitles(rec),
		e.contentDensity(rec),
		e.typedInputs(rec),
	}
}

func (e *TechnicalEvaluator) doctype(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(technicalCatalog["TEC-01"], DimensionTechnical)

	switch {
	case rec.Structure.HTML5Doctype:
		verdict.Status = StatusPass
		verdict.Score = verdict.MaxScore
		verdict.Message = "El documento declara el doctype de HTML5."
	case rec.Structure.HasDoctype:
		verdict.Status = StatusPartial
		verdict.Score = verdict.MaxScore / 2
		verdict.Message = "El documento declara un doctype heredado; migre a <!DOCTYPE html>."
	default:
		verdict.Status = StatusFail
		verdict.Message = "El documento no declara doctype."
	}
	return verdict
}

func (e *TechnicalEvaluator) charset(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(technicalCatalog["TEC-02"], DimensionTechnical)
	charset := rec.Structure.Charset
	verdict.Evidence["charset"] = charset

	switch {
	case charset == "utf-8":
		verdict.Status = StatusPass
		verdict.Score = verdict.MaxScore
		verdict.Message = "El documento declara codificación UTF-8."
	case charset != "":
		verdict.Status = StatusPartial
		verdict.Score = verdict.MaxScore / 2
		verdict.Message = fmt.Sprintf("El documento declara %q; se recomienda UTF-8.", charset)
	default:
		verdict.Status = StatusFail
		verdict.Message = "El documento no declara codificación de caracteres."
	}
	return verdict
}

// Point allotments per structural element for TEC-03.
var structureAllotments = []struct {
	tag    string
	points float64
}{
	{"main", 3},
	{"header", 2},
	{"footer", 2},
	{"nav", 2},
	{"article", 1.5},
	{"section", 1.5},
	{"aside", 2},
}

// semanticStructure awards fixed points per structural element present and
// then subtracts penalties for structural violations, clamped to
// [0, MaxScore].
func (e *TechnicalEvaluator) semanticStructure(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(technicalCatalog["TEC-03"], DimensionTechnical)
	hierarchy := rec.Structure.Hierarchy

	earned := 0.0
	present := make([]string, 0, len(structureAllotments))
	for _, allotment := range structureAllotments {
		count := rec.SemanticElements.Count(allotment.tag)
		if count == 0 {
			continue
		}
		switch allotment.tag {
		case "main":
			// <main> earns its points only when unique and top level.
			if hierarchy.MainCount <= 1 && hierarchy.MainTopLevel {
				earned += allotment.points
				present = append(present, allotment.tag)
			}
		case "nav":
			if hierarchy.NavInLandmark {
				earned += allotment.points
				present = append(present, allotment.tag)
			}
		default:
			earned += allotment.points
			present = append(present, allotment.tag)
		}
	}

	penalty := 0.0
	violations := make([]string, 0, 4)
	if hierarchy.MainCount > 1 {
		penalty += 2.0
		violations = append(violations, "elemento main duplicado")
	}
	if hierarchy.MainCount > 0 && !hierarchy.MainTopLevel {
		penalty += 1.5
		violations = append(violations, "elemento main anidado")
	}
	if rec.SemanticElements.Count("nav") > 0 && !hierarchy.NavInLandmark {
		penalty += 1.0
		violations = append(violations, "elemento nav fuera de toda región")
	}
	switch {
	case hierarchy.GenericRatio > 75 || hierarchy.Severity == "severa":
		penalty += 3.0
		violations = append(violations, "uso excesivo de contenedores genéricos")
	case hierarchy.GenericRatio > 60:
		penalty += 1.5
		violations = append(violations, "uso alto de contenedores genéricos")
	}

	score := earned - penalty
	if score < 0 {
		score = 0
	}
	if score > verdict.MaxScore {
		score = verdict.MaxScore
	}
	verdict.Score = score

	verdict.Details["earned"] = earned
	verdict.Details["penalty"] = penalty
	verdict.Details["genericRatio"] = hierarchy.GenericRatio
	verdict.Evidence["presentElements"] = present
	verdict.Evidence["violations"] = violations

	compliance := score / verdict.MaxScore * 100
	switch {
	case compliance >= 90:
		verdict.Status = StatusPass
		verdict.Message = "La estructura semántica del documento es adecuada."
	case compliance >= 50:
		verdict.Status = StatusPartial
		verdict.Message = fmt.Sprintf("La estructura semántica es parcial: %s.", strings.Join(missingOrViolations(present, violations), "; "))
	default:
		verdict.Status = StatusFail
		verdict.Message = "El documento carece de estructura semántica; use main, header, footer y nav."
	}
	return verdict
}

func missingOrViolations(present, violations []string) []string {
	if len(violations) > 0 {
		return violations
	}
	missing := make([]string, 0, len(structureAllotments))
	presentSet := make(map[string]bool, len(present))
	for _, tag := range present {
		presentSet[tag] = true
	}
	for _, allotment := range structureAllotments {
		if !presentSet[allotment.tag] {
			missing = append(missing, "falta <"+allotment.tag+">")
		}
	}
	return missing
}

func (e *TechnicalEvaluator) obsoleteMarkup(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(technicalCatalog["TEC-04"], DimensionTechnical)

	totalFindings := 0
	tags := make([]string, 0, len(rec.Structure.ObsoleteTags))
	for _, finding := range rec.Structure.ObsoleteTags {
		totalFindings += finding.Count
		tags = append(tags, finding.Tag)
	}
	verdict.Evidence["obsoleteTags"] = tags
	verdict.Details["findings"] = totalFindings

	switch {
	case totalFindings == 0:
		verdict.Status = StatusPass
		verdict.Score = verdict.MaxScore
		verdict.Message = "El documento no usa marcado obsoleto."
	case totalFindings <= 3:
		verdict.Status = StatusPartial
		verdict.Score = verdict.MaxScore / 2
		verdict.Message = fmt.Sprintf("Se detectaron %d usos de marcado obsoleto (%s).", totalFindings, strings.Join(tags, ", "))
	default:
		verdict.Status = StatusFail
		verdict.Message = fmt.Sprintf("El documento usa extensivamente marcado obsoleto (%s).", strings.Join(tags, ", "))
	}
	return verdict
}

func (e *TechnicalEvaluator) documentOutline(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(technicalCatalog["TEC-05"], DimensionTechnical)
	headings := rec.Headings

	if len(headings.Items) == 0 {
		verdict.Status = StatusNA
		verdict.Score = verdict.MaxScore
		verdict.Message = "La página no contiene encabezados."
		return verdict
	}

	valid := headings.HierarchyValid && headings.H1Count == 1
	verdict.Details["hierarchyValid"] = headings.HierarchyValid
	verdict.Details["h1Count"] = headings.H1Count

	switch {
	case valid:
		verdict.Status = StatusPass
		verdict.Score = verdict.MaxScore
		verdict.Message = "El esquema del documento es consistente."
	case headings.HierarchyValid || headings.H1Count == 1:
		verdict.Status = StatusPartial
		verdict.Score = verdict.MaxScore / 2
		verdict.Message = "El esquema del documento presenta inconsistencias menores."
	default:
		verdict.Status = StatusFail
		verdict.Message = "El esquema del documento es inconsistente."
	}
	return verdict
}

func (e *TechnicalEvaluator) metadataCompleteness(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(technicalCatalog["TEC-06"], DimensionTechnical)
	meta := rec.Metadata

	fields := []struct {
		name  string
		value string
	}{
		{"title", meta.Title},
		{"description", meta.Description},
		{"keywords", meta.Keywords},
		{"viewport", meta.Viewport},
		{"language", meta.Language},
	}

	present := 0
	missing := make([]string, 0, len(fields))
	for _, field := range fields {
		if strings.TrimSpace(field.value) != "" {
			present++
		} else {
			missing = append(missing, field.name)
		}
	}

	verdict = applyPercentage(verdict, present, len(fields), "")
	verdict.Evidence["missing"] = missing

	if verdict.Status == StatusPass {
		verdict.Message = "Los metadatos del documento están completos."
	} else {
		verdict.Message = fmt.Sprintf("Faltan metadatos: %s.", strings.Join(missing, ", "))
	}
	return verdict
}

func (e *TechnicalEvaluator) semanticVariety(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(technicalCatalog["TEC-07"], DimensionTechnical)

	distinct := 0
	for _, count := range rec.SemanticElements.Counts {
		if count > 0 {
			distinct++
		}
	}
	verdict.Details["distinctElements"] = distinct

	switch {
	case distinct >= 5:
		verdict.Status = StatusPass
		verdict.Score = verdict.MaxScore
		verdict.Message = "El documento usa una variedad adecuada de elementos semánticos."
	case distinct >= 3:
		verdict.Status = StatusPartial
		verdict.Score = verdict.MaxScore / 2
		verdict.Message = fmt.Sprintf("El documento usa %d tipos de elementos semánticos; se esperan al menos 5.", distinct)
	default:
		verdict.Status = StatusFail
		verdict.Message = "El documento apenas usa elementos semánticos."
	}
	return verdict
}

func (e *TechnicalEvaluator) iframeTitles(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(technicalCatalog["TEC-08"], DimensionTechnical)
	iframes := rec.ExternalResources.Iframes

	titled := 0
	for _, iframe := range iframes {
		if strings.TrimSpace(iframe.Title) != "" {
			titled++
		}
	}

	verdict = applyPercentage(verdict, titled, len(iframes),
		"La página no contiene iframes.")
	if verdict.Status == StatusNA {
		return verdict
	}

	if verdict.Status == StatusPass {
		verdict.Message = "Todos los iframes tienen título descriptivo."
	} else {
		verdict.Message = fmt.Sprintf("%d de %d iframes tienen título descriptivo.", titled, len(iframes))
	}
	return verdict
}

func (e *TechnicalEvaluator) contentDensity(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(technicalCatalog["TEC-09"], DimensionTechnical)

	words := len(strings.Fields(rec.TextCorpus.FullText))
	verdict.Details["wordCount"] = words

	switch {
	case words >= 300:
		verdict.Status = StatusPass
		verdict.Score = verdict.MaxScore
		verdict.Message = "La página ofrece contenido textual suficiente."
	case words >= 100:
		verdict.Status = StatusPartial
		verdict.Score = verdict.MaxScore / 2
		verdict.Message = fmt.Sprintf("La página tiene %d palabras; se recomiendan al menos 300.", words)
	default:
		verdict.Status = StatusFail
		verdict.Message = "La página carece de contenido textual sustantivo."
	}
	return verdict
}

func (e *TechnicalEvaluator) typedInputs(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(technicalCatalog["TEC-10"], DimensionTechnical)

	typed := 0
	for _, input := range rec.Forms.Inputs {
		if strings.TrimSpace(input.Type) != "" {
			typed++
		}
	}

	verdict = applyPercentage(verdict, typed, len(rec.Forms.Inputs),
		"La página no contiene campos de formulario.")
	if verdict.Status == StatusNA {
		return verdict
	}

	if verdict.Status == StatusPass {
		verdict.Message = "Todos los campos declaran su tipo de entrada."
	} else {
		verdict.Message = fmt.Sprintf("%d de %d campos declaran tipo de entrada.", typed, len(rec.Forms.Inputs))
	}
	return verdict
}
