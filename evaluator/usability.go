package evaluator

import (
	"fmt"
	"strings"

	"github.com/compliance-auditor/backend/extraction"
)

// UsabilityEvaluator runs the nine usability criteria.
type UsabilityEvaluator struct{}

// NewUsabilityEvaluator creates a new UsabilityEvaluator instance
func NewUsabilityEvaluator() *UsabilityEvaluator {
	return &UsabilityEvaluator{}
}

// Evaluate returns the catalog verdicts in fixed order.
func (e *UsabilityEvaluator) Evaluate(rec *extraction.ExtractionRecord) []CriterionVerdict {
	return []CriterionVerdict{
		e.socialPresence(rec),
		e.contactChannels(rec),
		e.messagingChannel(rec),
		e.descriptiveLinks(rec),
		e.navigationStructure(rec),
		e.searchMechanism(rec),
		e.shareButtons(rec),
		e.footerInformation(rec),
		e.metaDescription(rec),
	}
}

// socialPresence requires at least two distinct recognized platforms for
// full credit; exactly one earns half credit.
func (e *UsabilityEvaluator) socialPresence(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(usabilityCatalog["USA-01"], DimensionUsability)

	platforms := make(map[string]bool)
	for _, link := range rec.Links.Social {
		if link.Platform != "" {
			platforms[link.Platform] = true
		}
	}

	names := make([]string, 0, len(platforms))
	for platform := range platforms {
		names = append(names, platform)
	}
	verdict.Evidence["platforms"] = names
	verdict.Details["distinctPlatforms"] = len(platforms)

	switch {
	case len(platforms) >= 2:
		verdict.Status = StatusPass
		verdict.Score = verdict.MaxScore
		verdict.Message = fmt.Sprintf("La página enlaza %d redes sociales.", len(platforms))
	case len(platforms) == 1:
		verdict.Status = StatusPartial
		verdict.Score = verdict.MaxScore / 2
		verdict.Message = "La página enlaza una sola red social; se esperan al menos dos."
	default:
		verdict.Status = StatusFail
		verdict.Message = "La página no enlaza redes sociales oficiales."
	}
	return verdict
}

func (e *UsabilityEvaluator) contactChannels(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(usabilityCatalog["USA-02"], DimensionUsability)

	hasEmail := len(rec.Links.Email) > 0
	hasPhone := len(rec.Links.Phone) > 0
	verdict.Evidence["emailLinks"] = len(rec.Links.Email)
	verdict.Evidence["phoneLinks"] = len(rec.Links.Phone)

	switch {
	case hasEmail && hasPhone:
		verdict.Status = StatusPass
		verdict.Score = verdict.MaxScore
		verdict.Message = "La página ofrece contacto por correo y por teléfono."
	case hasEmail || hasPhone:
		verdict.Status = StatusPartial
		verdict.Score = verdict.MaxScore / 2
		verdict.Message = "La página ofrece un solo canal de contacto directo."
	default:
		verdict.Status = StatusFail
		verdict.Message = "La página no ofrece enlaces de contacto (mailto: o tel:)."
	}
	return verdict
}

func (e *UsabilityEvaluator) messagingChannel(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(usabilityCatalog["USA-03"], DimensionUsability)
	verdict.Evidence["messagingLinks"] = len(rec.Links.Messaging)

	if len(rec.Links.Messaging) > 0 {
		verdict.Status = StatusPass
		verdict.Score = verdict.MaxScore
		verdict.Message = "La página ofrece un canal de mensajería instantánea."
	} else {
		verdict.Status = StatusFail
		verdict.Message = "La página no ofrece canal de mensajería (WhatsApp, Telegram)."
	}
	return verdict
}

func (e *UsabilityEvaluator) descriptiveLinks(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(usabilityCatalog["USA-04"], DimensionUsability)
	links := rec.Links

	descriptive := links.Total - len(links.Generic) - len(links.Empty)
	if descriptive < 0 {
		descriptive = 0
	}

	verdict = applyPercentage(verdict, descriptive, links.Total,
		"La página no contiene enlaces.")
	if verdict.Status == StatusNA {
		return verdict
	}

	verdict.Evidence["genericLinks"] = len(links.Generic)
	verdict.Evidence["emptyLinks"] = len(links.Empty)

	if verdict.Status == StatusPass {
		verdict.Message = "Los textos de los enlaces describen su destino."
	} else {
		verdict.Message = fmt.Sprintf("%d enlace(s) usan textos genéricos o vacíos.",
			len(links.Generic)+len(links.Empty))
	}
	return verdict
}

func (e *UsabilityEvaluator) navigationStructure(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(usabilityCatalog["USA-05"], DimensionUsability)

	navCount := rec.SemanticElements.Count("nav")
	hasHeader := rec.SemanticElements.Count("header") > 0
	verdict.Evidence["navCount"] = navCount
	verdict.Evidence["hasHeader"] = hasHeader

	switch {
	case navCount > 0 && hasHeader:
		verdict.Status = StatusPass
		verdict.Score = verdict.MaxScore
		verdict.Message = "La página define navegación y cabecera estructuradas."
	case navCount > 0:
		verdict.Status = StatusPartial
		verdict.Score = verdict.MaxScore / 2
		verdict.Message = "Existe un elemento nav pero la página carece de cabecera estructural."
	default:
		verdict.Status = StatusFail
		verdict.Message = "La página no define un elemento de navegación."
	}
	return verdict
}

var searchInputNames = []string{"buscar", "busqueda", "search", "q"}

func (e *UsabilityEvaluator) searchMechanism(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(usabilityCatalog["USA-06"], DimensionUsability)

	found := false
	for _, input := range rec.Forms.Inputs {
		if input.Type == "search" {
			found = true
			break
		}
		name := strings.ToLower(input.Name)
		for _, candidate := range searchInputNames {
			if name == candidate {
				found = true
			}
		}
		if found {
			break
		}
	}

	verdict.Evidence["hasSearch"] = found
	if found {
		verdict.Status = StatusPass
		verdict.Score = verdict.MaxScore
		verdict.Message = "La página ofrece un mecanismo de búsqueda."
	} else {
		verdict.Status = StatusFail
		verdict.Message = "La página no ofrece un campo de búsqueda."
	}
	return verdict
}

func (e *UsabilityEvaluator) shareButtons(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(usabilityCatalog["USA-07"], DimensionUsability)
	verdict.Evidence["shareButtons"] = len(rec.Links.ShareButtons)

	if len(rec.Links.ShareButtons) > 0 {
		verdict.Status = StatusPass
		verdict.Score = verdict.MaxScore
		verdict.Message = "La página permite compartir su contenido."
	} else {
		verdict.Status = StatusFail
		verdict.Message = "La página no ofrece botones para compartir contenido."
	}
	return verdict
}

func (e *UsabilityEvaluator) footerInformation(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(usabilityCatalog["USA-08"], DimensionUsability)

	footer := strings.TrimSpace(rec.TextCorpus.FooterText)
	words := len(strings.Fields(footer))
	verdict.Details["footerWords"] = words

	switch {
	case words >= 20:
		verdict.Status = StatusPass
		verdict.Score = verdict.MaxScore
		verdict.Message = "El pie de página contiene información institucional."
	case words > 0:
		verdict.Status = StatusPartial
		verdict.Score = verdict.MaxScore / 2
		verdict.Message = "El pie de página existe pero su información es escasa."
	default:
		verdict.Status = StatusFail
		verdict.Message = "La página no tiene pie de página con información institucional."
	}
	return verdict
}

func (e *UsabilityEvaluator) metaDescription(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(usabilityCatalog["USA-09"], DimensionUsability)

	description := strings.TrimSpace(rec.Metadata.Description)
	length := len(description)
	verdict.Details["descriptionLength"] = length

	switch {
	case length >= 120 && length <= 160:
		verdict.Status = StatusPass
		verdict.Score = verdict.MaxScore
		verdict.Message = "La metadescripción tiene una longitud adecuada."
	case length > 0:
		verdict.Status = StatusPartial
		verdict.Score = verdict.MaxScore / 2
		verdict.Message = fmt.Sprintf("La metadescripción tiene %d caracteres; el rango recomendado es 120-160.", length)
	default:
		verdict.Status = StatusFail
		verdict.Message = "La página no define metadescripción."
	}
	return verdict
}
