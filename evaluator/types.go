package evaluator

import (
	"time"

	"github.com/compliance-auditor/backend/semantic"
)

// Status is the verdict outcome for one criterion.
type Status string

const (
	StatusPass    Status = "pass"
	StatusPartial Status = "partial"
	StatusFail    Status = "fail"
	StatusNA      Status = "na"

	// StatusNotImplemented marks a criterion whose required capability is
	// not yet available from the extraction record. It is reported as NA at
	// the public boundary but kept distinct internally so the pending work
	// stays findable.
	StatusNotImplemented Status = "not_implemented"
)

// Public maps internal statuses to the four statuses exposed to callers.
func (s Status) Public() Status {
	if s == StatusNotImplemented {
		return StatusNA
	}
	return s
}

// Dimension names.
const (
	DimensionAccessibility = "accessibility"
	DimensionUsability     = "usability"
	DimensionTechnical     = "technical"
	DimensionSovereignty   = "sovereignty"
	DimensionSemantic      = "semantic"
)

// dimensionWeights are the fixed aggregation weights; they sum to 1.0.
var dimensionWeights = map[string]float64{
	DimensionAccessibility: 0.30,
	DimensionUsability:     0.30,
	DimensionTechnical:     0.15,
	DimensionSemantic:      0.15,
	DimensionSovereignty:   0.10,
}

// CriterionVerdict is the evaluated outcome of a single compliance rule.
// Score is always within [0, MaxScore]; a criterion that does not apply to
// the page is NA with full score so it never penalizes.
type CriterionVerdict struct {
	CriteriaID   string                 `json:"criteriaId"`
	CriteriaName string                 `json:"criteriaName"`
	Dimension    string                 `json:"dimension"`
	Lineamiento  string                 `json:"lineamiento"`
	Status       Status                 `json:"status"`
	Score        float64                `json:"score"`
	MaxScore     float64                `json:"maxScore"`
	Message      string                 `json:"message"`
	Details      map[string]interface{} `json:"details,omitempty"`
	Evidence     map[string]interface{} `json:"evidence,omitempty"`
}

// DimensionReport aggregates the verdicts of one dimension. It is built once
// per run and never mutated afterwards.
type DimensionReport struct {
	Dimension     string             `json:"dimension"`
	Criteria      []CriterionVerdict `json:"criteria"`
	TotalScore    float64            `json:"totalScore"`
	MaxScore      float64            `json:"maxScore"`
	Percentage    float64            `json:"percentage"`
	Passed        int                `json:"passed"`
	Failed        int                `json:"failed"`
	Partial       int                `json:"partial"`
	NotApplicable int                `json:"notApplicable"`
}

// newDimensionReport maps every verdict status to its public form, sums the
// scores and derives the percentage.
func newDimensionReport(dimension string, criteria []CriterionVerdict) DimensionReport {
	report := DimensionReport{Dimension: dimension, Criteria: criteria}

	for i := range report.Criteria {
		report.Criteria[i].Status = report.Criteria[i].Status.Public()

		verdict := report.Criteria[i]
		report.TotalScore += verdict.Score
		report.MaxScore += verdict.MaxScore

		switch verdict.Status {
		case StatusPass:
			report.Passed++
		case StatusPartial:
			report.Partial++
		case StatusFail:
			report.Failed++
		case StatusNA:
			report.NotApplicable++
		}
	}

	if report.MaxScore > 0 {
		report.Percentage = report.TotalScore / report.MaxScore * 100
	}

	return report
}

// RunStatus is the lifecycle state of one evaluation run.
type RunStatus string

const (
	RunPending    RunStatus = "pending"
	RunInProgress RunStatus = "in_progress"
	RunCompleted  RunStatus = "completed"
	RunFailed     RunStatus = "failed"
)

// Summary holds the roll-up counts across every dimension of a run.
type Summary struct {
	Passed            int `json:"passed"`
	Failed            int `json:"failed"`
	Partial           int `json:"partial"`
	NotApplicable     int `json:"notApplicable"`
	HeuristicCriteria int `json:"heuristicCriteria"`
	SemanticCriteria  int `json:"semanticCriteria"`
}

// FinalReport is the complete outcome of evaluating one page. It is owned by
// the caller; the engine keeps no reference to it across runs.
type FinalReport struct {
	ID                string                     `json:"id"`
	URL               string                     `json:"url"`
	Status            RunStatus                  `json:"status"`
	StartedAt         time.Time                  `json:"startedAt"`
	CompletedAt       time.Time                  `json:"completedAt"`
	Dimensions        map[string]DimensionReport `json:"dimensions"`
	Semantic          *semantic.Report           `json:"semantic,omitempty"`
	SemanticAvailable bool                       `json:"semanticAvailable"`
	OmittedWeights    map[string]float64         `json:"omittedWeights,omitempty"`
	TotalScore        float64                    `json:"totalScore"`
	Summary           Summary                    `json:"summary"`
	Error             string                     `json:"error,omitempty"`
}
