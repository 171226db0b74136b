package evaluator

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/compliance-auditor/backend/extraction"
	"github.com/compliance-auditor/backend/semantic"
)

// dimensionFunc produces the verdicts of one heuristic dimension.
type dimensionFunc func(*extraction.ExtractionRecord) []CriterionVerdict

// Engine orchestrates the four dimension evaluators plus the optional
// semantic pass and computes the weighted total. It holds no state across
// runs; concurrent Evaluate calls are safe.
type Engine struct {
	heuristics map[string]dimensionFunc
	semantic   *semantic.Orchestrator
}

// New creates an engine. orchestrator may be nil, in which case the engine
// runs in heuristic-only mode and the semantic dimension is reported as an
// omitted weight rather than silently absorbed.
func New(orchestrator *semantic.Orchestrator) *Engine {
	return &Engine{
		heuristics: map[string]dimensionFunc{
			DimensionAccessibility: NewAccessibilityEvaluator().Evaluate,
			DimensionUsability:     NewUsabilityEvaluator().Evaluate,
			DimensionTechnical:     NewTechnicalEvaluator().Evaluate,
			DimensionSovereignty:   NewSovereigntyEvaluator().Evaluate,
		},
		semantic: orchestrator,
	}
}

// Evaluate runs every dimension over the record and produces the final
// report. Dimensions run in parallel; a panic in any of them fails the whole
// run without emitting a partial total.
func (e *Engine) Evaluate(rec *extraction.ExtractionRecord) *FinalReport {
	report := &FinalReport{
		ID:         uuid.NewString(),
		URL:        rec.URL,
		Status:     RunPending,
		StartedAt:  time.Now(),
		Dimensions: make(map[string]DimensionReport, len(dimensionWeights)),
	}
	report.Status = RunInProgress

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		runErr    error
		semReport *semantic.Report
	)

	run := func(dimension string, evaluate dimensionFunc) {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				mu.Lock()
				runErr = fmt.Errorf("evaluator %s: %v", dimension, r)
				mu.Unlock()
			}
		}()

		verdicts := evaluate(rec)
		dimReport := newDimensionReport(dimension, verdicts)

		mu.Lock()
		report.Dimensions[dimension] = dimReport
		mu.Unlock()
	}

	wg.Add(len(e.heuristics))
	for dimension, evaluate := range e.heuristics {
		go run(dimension, evaluate)
	}

	if e.semantic != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					runErr = fmt.Errorf("semantic analysis: %v", r)
					mu.Unlock()
				}
			}()
			semReport = e.semantic.Analyze(rec.TextCorpus)
		}()
	}

	wg.Wait()

	if runErr != nil {
		report.Status = RunFailed
		report.Error = runErr.Error()
		report.CompletedAt = time.Now()
		return report
	}

	if semReport != nil {
		report.Semantic = semReport
		report.SemanticAvailable = true
		report.Dimensions[DimensionSemantic] = newDimensionReport(
			DimensionSemantic, semanticVerdicts(semReport))
	} else {
		report.OmittedWeights = map[string]float64{
			DimensionSemantic: dimensionWeights[DimensionSemantic],
		}
	}

	for dimension, weight := range dimensionWeights {
		if dimReport, ok := report.Dimensions[dimension]; ok {
			report.TotalScore += dimReport.Percentage * weight
		}
	}

	for dimension, dimReport := range report.Dimensions {
		report.Summary.Passed += dimReport.Passed
		report.Summary.Failed += dimReport.Failed
		report.Summary.Partial += dimReport.Partial
		report.Summary.NotApplicable += dimReport.NotApplicable
		if dimension == DimensionSemantic {
			report.Summary.SemanticCriteria += len(dimReport.Criteria)
		} else {
			report.Summary.HeuristicCriteria += len(dimReport.Criteria)
		}
	}

	report.Status = RunCompleted
	report.CompletedAt = time.Now()
	return report
}

// semanticVerdicts converts the orchestrator report into the semantic
// dimension's criteria: the weighted global score plus one verdict per WCAG
// flag.
func semanticVerdicts(semReport *semantic.Report) []CriterionVerdict {
	global := newVerdict(semanticCatalog["SEM-01"], DimensionSemantic)
	global.Score = semReport.GlobalScore
	global.Details["coherenceScore"] = semReport.CoherenceScore
	global.Details["ambiguityScore"] = semReport.AmbiguityScore
	global.Details["clarityScore"] = semReport.ClarityScore
	global.Details["degradedSections"] = semReport.DegradedSections
	switch {
	case semReport.GlobalScore >= 80:
		global.Status = StatusPass
		global.Message = "El lenguaje de la página es coherente, claro y específico."
	case semReport.GlobalScore >= 60:
		global.Status = StatusPartial
		global.Message = fmt.Sprintf("El puntaje semántico es %.1f; revise las recomendaciones de lenguaje.", semReport.GlobalScore)
	default:
		global.Status = StatusFail
		global.Message = fmt.Sprintf("El puntaje semántico es %.1f; el lenguaje de la página requiere revisión profunda.", semReport.GlobalScore)
	}

	verdicts := []CriterionVerdict{global}

	flags := []struct {
		key     string
		passMsg string
		failMsg string
	}{
		{semantic.FlagLabelsInstructions,
			"Las etiquetas de la página indican claramente qué se solicita.",
			"Se detectaron etiquetas ambiguas en la página."},
		{semantic.FlagLinkPurpose,
			"Los textos de los enlaces comunican su propósito.",
			"Se detectaron enlaces con textos genéricos o demasiado cortos."},
		{semantic.FlagHeadingsLabels,
			"Los encabezados y etiquetas describen su contenido.",
			"Se detectaron encabezados no descriptivos o siglas sin explicar."},
	}

	for _, flag := range flags {
		verdict := newVerdict(semanticCatalog[flag.key], DimensionSemantic)
		if semReport.WCAGCompliance[flag.key] {
			verdict.Status = StatusPass
			verdict.Score = verdict.MaxScore
			verdict.Message = flag.passMsg
		} else {
			verdict.Status = StatusFail
			verdict.Message = flag.failMsg
		}
		verdicts = append(verdicts, verdict)
	}

	return verdicts
}
