package evaluator

import "strings"

// criterionSpec is the immutable identity of one rule: its ID, display name,
// the guideline it cites and the points it is worth.
type criterionSpec struct {
	ID          string
	Name        string
	Lineamiento string
	MaxScore    float64
}

// Accessibility catalog. ACC-07..ACC-09 are reserved for the WCAG
// text-quality rules evaluated by the semantic layer, so the heuristic
// catalog skips those numbers.
var accessibilityCatalog = map[string]criterionSpec{
	"ACC-01": {"ACC-01", "Texto alternativo en imágenes", "WCAG 2.1 – 1.1.1 Contenido no textual", 10},
	"ACC-02": {"ACC-02", "Etiquetas en campos de formulario", "WCAG 2.1 – 3.3.2 Etiquetas o instrucciones", 10},
	"ACC-03": {"ACC-03", "Idioma del documento", "WCAG 2.1 – 3.1.1 Idioma de la página", 5},
	"ACC-04": {"ACC-04", "Título de página descriptivo", "WCAG 2.1 – 2.4.2 Titulado de páginas", 5},
	"ACC-05": {"ACC-05", "Jerarquía de encabezados", "WCAG 2.1 – 1.3.1 Información y relaciones", 8},
	"ACC-06": {"ACC-06", "Enlaces con texto perceptible", "WCAG 2.1 – 2.4.4 Propósito de los enlaces", 8},
	"ACC-10": {"ACC-10", "Alternativas para contenido multimedia", "WCAG 2.1 – 1.2.2 Subtítulos", 8},
	"ACC-11": {"ACC-11", "Ventana gráfica adaptable", "WCAG 2.1 – 1.4.10 Reajuste del texto", 5},
	"ACC-12": {"ACC-12", "Contraste de color", "WCAG 2.1 – 1.4.3 Contraste mínimo", 5},
	"ACC-13": {"ACC-13", "Idioma de las partes", "WCAG 2.1 – 3.1.2 Idioma de las partes", 5},
}

var usabilityCatalog = map[string]criterionSpec{
	"USA-01": {"USA-01", "Presencia en redes sociales", "Lineamientos Gov.co – Presencia digital", 5},
	"USA-02": {"USA-02", "Canales de contacto", "Resolución 1519 de 2020 – Anexo 2", 5},
	"USA-03": {"USA-03", "Canal de mensajería instantánea", "Lineamientos Gov.co – Atención al ciudadano", 3},
	"USA-04": {"USA-04", "Enlaces descriptivos", "Resolución 1519 de 2020 – Anexo 1", 8},
	"USA-05": {"USA-05", "Estructura de navegación", "Resolución 1519 de 2020 – Anexo 2", 6},
	"USA-06": {"USA-06", "Mecanismo de búsqueda", "Resolución 1519 de 2020 – Anexo 2", 5},
	"USA-07": {"USA-07", "Botones para compartir contenido", "Lineamientos Gov.co – Presencia digital", 3},
	"USA-08": {"USA-08", "Información institucional en pie de página", "Resolución 1519 de 2020 – Anexo 2", 5},
	"USA-09": {"USA-09", "Metadescripción de calidad", "Lineamientos Gov.co – Posicionamiento", 5},
}

var technicalCatalog = map[string]criterionSpec{
	"TEC-01": {"TEC-01", "Declaración de doctype HTML5", "Estándares W3C – HTML Living Standard", 3},
	"TEC-02": {"TEC-02", "Codificación de caracteres UTF-8", "Estándares W3C – HTML Living Standard", 3},
	"TEC-03": {"TEC-03", "Estructura semántica del documento", "Estándares W3C – Elementos de seccionado", 14},
	"TEC-04": {"TEC-04", "Ausencia de marcado obsoleto", "Estándares W3C – Elementos obsoletos", 5},
	"TEC-05": {"TEC-05", "Esquema de encabezados del documento", "Estándares W3C – Document outline", 5},
	"TEC-06": {"TEC-06", "Metadatos completos", "Lineamientos Gov.co – Posicionamiento", 6},
	"TEC-07": {"TEC-07", "Variedad de elementos semánticos", "Estándares W3C – Elementos de seccionado", 5},
	"TEC-08": {"TEC-08", "Iframes con título descriptivo", "WCAG 2.1 – 4.1.2 Nombre, función, valor", 4},
	"TEC-09": {"TEC-09", "Densidad de contenido textual", "Lineamientos Gov.co – Calidad del contenido", 5},
	"TEC-10": {"TEC-10", "Campos de formulario tipados", "Estándares W3C – Tipos de entrada", 5},
}

var sovereigntyCatalog = map[string]criterionSpec{
	"SOB-01": {"SOB-01", "Sin rastreadores de analítica extranjeros", "CONPES 3975 – Soberanía digital", 10},
	"SOB-02": {"SOB-02", "Sin redes publicitarias", "CONPES 3975 – Soberanía digital", 5},
	"SOB-03": {"SOB-03", "Sin servicios extranjeros de fuentes y CDN", "CONPES 3975 – Soberanía digital", 5},
	"SOB-04": {"SOB-04", "Alojamiento de recursos en dominio nacional", "CONPES 3975 – Soberanía digital", 10},
}

// Semantic dimension catalog: the global score plus the three WCAG flags
// produced by the semantic orchestrator.
var semanticCatalog = map[string]criterionSpec{
	"SEM-01": {"SEM-01", "Puntaje semántico global", "Análisis semántico del lenguaje", 100},
	"ACC-07": {"ACC-07", "Etiquetas o instrucciones (análisis semántico)", "WCAG 2.1 – 3.3.2 Etiquetas o instrucciones", 5},
	"ACC-08": {"ACC-08", "Propósito de los enlaces (análisis semántico)", "WCAG 2.1 – 2.4.4 Propósito de los enlaces", 5},
	"ACC-09": {"ACC-09", "Encabezados y etiquetas (análisis semántico)", "WCAG 2.1 – 2.4.6 Encabezados y etiquetas", 5},
}

// Domain pattern tables for the sovereignty dimension. Matching is by host
// suffix so subdomains (www.google-analytics.com, region1.analytics...) are
// caught.
var foreignTrackerDomains = []string{
	"google-analytics.com",
	"googletagmanager.com",
	"analytics.google.com",
	"connect.facebook.net",
	"hotjar.com",
	"clarity.ms",
	"mixpanel.com",
	"segment.io",
	"mc.yandex.ru",
	"matomo.cloud",
}

var adNetworkDomains = []string{
	"doubleclick.net",
	"googlesyndication.com",
	"googleadservices.com",
	"amazon-adsystem.com",
	"criteo.com",
	"taboola.com",
	"outbrain.com",
	"adnxs.com",
}

var foreignFontDomains = []string{
	"fonts.googleapis.com",
	"fonts.gstatic.com",
	"use.typekit.net",
	"use.fontawesome.com",
	"cdn.jsdelivr.net",
	"cdnjs.cloudflare.com",
	"unpkg.com",
}

// nationalSuffixes mark a host as nationally hosted for the locality check.
var nationalSuffixes = []string{
	".gov.co",
	".edu.co",
	".mil.co",
	".com.co",
	".org.co",
	".co",
}

func hostMatchesAny(host string, patterns []string) bool {
	for _, pattern := range patterns {
		if host == pattern || strings.HasSuffix(host, "."+pattern) {
			return true
		}
	}
	return false
}

func isNationalHost(host string) bool {
	for _, suffix := range nationalSuffixes {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}

// newVerdict seeds a verdict from its catalog entry.
func newVerdict(spec criterionSpec, dimension string) CriterionVerdict {
	return CriterionVerdict{
		CriteriaID:   spec.ID,
		CriteriaName: spec.Name,
		Dimension:    dimension,
		Lineamiento:  spec.Lineamiento,
		MaxScore:     spec.MaxScore,
		Details:      make(map[string]interface{}),
		Evidence:     make(map[string]interface{}),
	}
}

// applyPercentage fills a verdict with the shared percentage-threshold
// pattern: pass only at 100% compliance, partial from 80%, fail below, and
// the score proportional to compliance. A zero denominator means the
// criterion does not apply and is credited in full.
func applyPercentage(verdict CriterionVerdict, matched, total int, naMessage string) CriterionVerdict {
	if total == 0 {
		verdict.Status = StatusNA
		verdict.Score = verdict.MaxScore
		verdict.Message = naMessage
		return verdict
	}

	compliance := float64(matched) / float64(total) * 100
	verdict.Score = compliance / 100 * verdict.MaxScore
	verdict.Details["compliance"] = compliance
	verdict.Details["matched"] = matched
	verdict.Details["total"] = total

	switch {
	case compliance == 100:
		verdict.Status = StatusPass
	case compliance >= 80:
		verdict.Status = StatusPartial
	default:
		verdict.Status = StatusFail
	}

	return verdict
}
