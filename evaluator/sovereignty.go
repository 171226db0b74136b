package evaluator

import (
	"fmt"

	"github.com/compliance-auditor/backend/extraction"
)

// SovereigntyEvaluator runs the four digital-sovereignty criteria. The three
// domain scans are zero-tolerance: a single match fails the criterion
// outright. Hosting locality is the exception and scores proportionally.
type SovereigntyEvaluator struct{}

// NewSovereigntyEvaluator creates a new SovereigntyEvaluator instance
func NewSovereigntyEvaluator() *SovereigntyEvaluator {
	return &SovereigntyEvaluator{}
}

// Evaluate returns the catalog verdicts in fixed order.
func (e *SovereigntyEvaluator) Evaluate(rec *extraction.ExtractionRecord) []CriterionVerdict {
	return []CriterionVerdict{
		e.foreignTrackers(rec),
		e.adNetworks(rec),
		e.foreignFonts(rec),
		e.hostingLocality(rec),
	}
}

// scanDomains applies a zero-tolerance pattern list over the page's external
// hosts.
func scanDomains(verdict CriterionVerdict, hosts []string, patterns []string, subject string) CriterionVerdict {
	matches := make([]string, 0, 2)
	for _, host := range hosts {
		if hostMatchesAny(host, patterns) {
			matches = append(matches, host)
		}
	}
	verdict.Evidence["matches"] = matches

	if len(hosts) == 0 {
		verdict.Status = StatusNA
		verdict.Score = verdict.MaxScore
		verdict.Message = "La página no carga recursos externos."
		return verdict
	}

	if len(matches) == 0 {
		verdict.Status = StatusPass
		verdict.Score = verdict.MaxScore
		verdict.Message = fmt.Sprintf("No se detectaron %s.", subject)
	} else {
		verdict.Status = StatusFail
		verdict.Message = fmt.Sprintf("Se detectaron %d dominios de %s: %v.", len(matches), subject, matches)
	}
	return verdict
}

func (e *SovereigntyEvaluator) foreignTrackers(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(sovereigntyCatalog["SOB-01"], DimensionSovereignty)
	return scanDomains(verdict, rec.ExternalResources.Domains, foreignTrackerDomains,
		"rastreadores de analítica extranjeros")
}

func (e *SovereigntyEvaluator) adNetworks(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(sovereigntyCatalog["SOB-02"], DimensionSovereignty)
	return scanDomains(verdict, rec.ExternalResources.Domains, adNetworkDomains,
		"redes publicitarias")
}

func (e *SovereigntyEvaluator) foreignFonts(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(sovereigntyCatalog["SOB-03"], DimensionSovereignty)
	return scanDomains(verdict, rec.ExternalResources.Domains, foreignFontDomains,
		"servicios extranjeros de fuentes y CDN")
}

// hostingLocality scores the share of external resources served from
// national domains: 90% for full compliance, 70% for partial.
func (e *SovereigntyEvaluator) hostingLocality(rec *extraction.ExtractionRecord) CriterionVerdict {
	verdict := newVerdict(sovereigntyCatalog["SOB-04"], DimensionSovereignty)
	hosts := rec.ExternalResources.Domains

	if len(hosts) == 0 {
		verdict.Status = StatusNA
		verdict.Score = verdict.MaxScore
		verdict.Message = "La página no carga recursos externos."
		return verdict
	}

	national := 0
	foreign := make([]string, 0, len(hosts))
	for _, host := range hosts {
		if isNationalHost(host) {
			national++
		} else {
			foreign = append(foreign, host)
		}
	}

	compliance := float64(national) / float64(len(hosts)) * 100
	verdict.Score = compliance / 100 * verdict.MaxScore
	verdict.Details["compliance"] = compliance
	verdict.Details["nationalHosts"] = national
	verdict.Details["totalHosts"] = len(hosts)
	verdict.Evidence["foreignHosts"] = foreign

	switch {
	case compliance >= 90:
		verdict.Status = StatusPass
		verdict.Message = "Los recursos externos se alojan mayoritariamente en dominio nacional."
	case compliance >= 70:
		verdict.Status = StatusPartial
		verdict.Message = fmt.Sprintf("El %.0f%% de los recursos externos se aloja en dominio nacional.", compliance)
	default:
		verdict.Status = StatusFail
		verdict.Message = fmt.Sprintf("Solo el %.0f%% de los recursos externos se aloja en dominio nacional.", compliance)
	}
	return verdict
}
