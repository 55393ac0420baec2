package app

import (
	"context"
	"sync"

	"godiag/domain/core"
	"godiag/domain/costs"
	"godiag/domain/diagnostics"
	"godiag/ports"

	"golang.org/x/sync/semaphore"
)

// maxConcurrentPairs bounds the pairwise kappa fan-out. Comparisons are
// cheap, but C(n,2) grows fast and callers may compare many experiments per
// request.
const maxConcurrentPairs = 8

// ComparisonResult is the output of a multi-technique comparison
type ComparisonResult struct {
	KappaResults map[string]*diagnostics.KappaResult `json:"kappa_results"`
	Ranking      []*costs.CostEffectiveness          `json:"cost_effectiveness_ranking,omitempty"`
	CreatedAt    core.Timestamp                      `json:"created_at"`
}

// ComparisonService runs multi-technique comparisons: pairwise agreement over
// synthesized rater sequences, plus cost-effectiveness ranking. All heavy
// lifting is delegated to the pure engine adapters.
type ComparisonService struct {
	calculator ports.DiagnosticsCalculator
	estimator  ports.AgreementEstimator
	corrector  ports.PValueCorrector
	analyzer   ports.CostAnalyzer
}

// NewComparisonService creates a comparison service
func NewComparisonService(
	calculator ports.DiagnosticsCalculator,
	estimator ports.AgreementEstimator,
	corrector ports.PValueCorrector,
	analyzer ports.CostAnalyzer,
) *ComparisonService {
	return &ComparisonService{
		calculator: calculator,
		estimator:  estimator,
		corrector:  corrector,
		analyzer:   analyzer,
	}
}

// Compare computes the pairwise kappa table and cost-effectiveness ranking
// for two or more experiments. The kappa table has exactly C(n,2) entries,
// one per unordered experiment pair, keyed "«nameA» vs «nameB»". Results are
// deterministic regardless of goroutine scheduling.
func (s *ComparisonService) Compare(ctx context.Context, experiments []diagnostics.Experiment) (*ComparisonResult, error) {
	if len(experiments) < 2 {
		return nil, core.ErrTooFewExperiments
	}
	for i := range experiments {
		if err := experiments[i].Counts.Validate(); err != nil {
			return nil, err
		}
	}

	type pair struct{ a, b int }
	pairs := make([]pair, 0, len(experiments)*(len(experiments)-1)/2)
	for i := 0; i < len(experiments)-1; i++ {
		for j := i + 1; j < len(experiments); j++ {
			pairs = append(pairs, pair{a: i, b: j})
		}
	}

	sem := semaphore.NewWeighted(maxConcurrentPairs)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	kappaResults := make(map[string]*diagnostics.KappaResult, len(pairs))

	for _, p := range pairs {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		wg.Add(1)
		go func(p pair) {
			defer wg.Done()
			defer sem.Release(1)

			expA, expB := experiments[p.a], experiments[p.b]
			raterA, raterB := synthesizeRaters(expA.Counts, expB.Counts)

			result, err := s.estimator.Kappa(raterA, raterB, expA.ConfidenceLevel)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			kappaResults[diagnostics.PairKey(expA.Name, expB.Name)] = result
		}(p)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	ranking, err := s.rankByCostEffectiveness(experiments)
	if err != nil && !core.IsInvalidInputError(err) {
		return nil, err
	}

	return &ComparisonResult{
		KappaResults: kappaResults,
		Ranking:      ranking,
		CreatedAt:    core.Now(),
	}, nil
}

// CorrectPValues adjusts a p-value set for multiple comparisons
func (s *ComparisonService) CorrectPValues(pValues []float64, method diagnostics.CorrectionMethod) (*diagnostics.CorrectionResult, error) {
	return s.corrector.Correct(pValues, method)
}

// rankByCostEffectiveness builds and ranks per-experiment cost-effectiveness
// records. Experiments whose technique is missing from the catalog are left
// out of the ranking rather than failing the comparison.
func (s *ComparisonService) rankByCostEffectiveness(experiments []diagnostics.Experiment) ([]*costs.CostEffectiveness, error) {
	records := make([]*costs.CostEffectiveness, 0, len(experiments))
	for i := range experiments {
		exp := &experiments[i]

		stats := exp.Statistics
		if stats == nil {
			computed, err := s.calculator.Compute(exp.Counts, exp.ConfidenceLevel)
			if err != nil {
				return nil, err
			}
			stats = computed
		}

		record, err := s.analyzer.CostEffectiveness(
			exp.Technique,
			stats.Sensitivity.Value,
			stats.Specificity.Value,
			exp.Counts.Total(),
		)
		if err != nil {
			continue
		}
		records = append(records, record)
	}

	return costs.Rank(records), nil
}

// synthesizeRaters expands two summarized confusion matrices into a pair of
// equal-length binary rating sequences for agreement estimation. The
// sequences are a proxy construction: the first experiment's stratum
// proportions are assumed to generalize to the shared minimum sample size,
// and each stratum's length is floor-truncated. This is a modeling
// simplification, not a re-derivation of the original paired observations.
func synthesizeRaters(a, b diagnostics.ConfusionCounts) ([]int, []int) {
	totalA := a.Total()
	totalB := b.Total()

	minTotal := totalA
	if totalB < minTotal {
		minTotal = totalB
	}

	// Stratum sizes from A's proportions, floor-truncated
	nTP := a.TP * minTotal / totalA
	nFP := a.FP * minTotal / totalA
	nFN := a.FN * minTotal / totalA
	nTN := a.TN * minTotal / totalA

	size := nTP + nFP + nFN + nTN
	raterA := make([]int, 0, size)
	raterB := make([]int, 0, size)

	appendStratum := func(count, labelA, labelB int) {
		for i := 0; i < count; i++ {
			raterA = append(raterA, labelA)
			raterB = append(raterB, labelB)
		}
	}

	appendStratum(nTP, 1, 1) // Both call positive
	appendStratum(nFP, 1, 0) // A positive, B negative
	appendStratum(nFN, 0, 1) // A negative, B positive
	appendStratum(nTN, 0, 0) // Both call negative

	return raterA, raterB
}
