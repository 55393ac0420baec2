package app

import (
	"context"
	"errors"
	"testing"

	costsadapter "godiag/adapters/costs"
	"godiag/adapters/stats/agreement"
	"godiag/adapters/stats/correction"
	"godiag/adapters/stats/engine"
	"godiag/domain/core"
	"godiag/domain/diagnostics"
)

func newTestService() *ComparisonService {
	return NewComparisonService(
		engine.NewCalculator(),
		agreement.NewEstimator(),
		correction.NewCorrector(),
		costsadapter.NewAnalyzer(costsadapter.NewDefaultCatalog()),
	)
}

func mustExperiment(t *testing.T, name, technique string, tp, fp, tn, fn int) diagnostics.Experiment {
	t.Helper()
	key, err := core.ParseTechniqueKey(technique)
	if err != nil {
		t.Fatalf("technique %s: %v", technique, err)
	}
	counts := diagnostics.MustNewConfusionCounts(tp, fp, tn, fn)
	exp, err := diagnostics.NewExperiment(name, key, counts, 0.95)
	if err != nil {
		t.Fatalf("experiment %s: %v", name, err)
	}
	return *exp
}

func TestCompare_PairCountAndKeys(t *testing.T) {
	svc := newTestService()

	experiments := []diagnostics.Experiment{
		mustExperiment(t, "A", "PCR", 85, 3, 92, 5),
		mustExperiment(t, "B", "LAMP", 80, 8, 87, 10),
		mustExperiment(t, "C", "RPA", 75, 12, 82, 16),
	}

	result, err := svc.Compare(context.Background(), experiments)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}

	// C(3,2) unordered pairs
	if len(result.KappaResults) != 3 {
		t.Fatalf("got %d kappa results, want 3", len(result.KappaResults))
	}
	for _, key := range []string{"A vs B", "A vs C", "B vs C"} {
		if _, ok := result.KappaResults[key]; !ok {
			t.Errorf("missing pair key %q (have %v)", key, keysOf(result.KappaResults))
		}
	}
}

func TestCompare_Deterministic(t *testing.T) {
	svc := newTestService()

	experiments := []diagnostics.Experiment{
		mustExperiment(t, "A", "PCR", 85, 3, 92, 5),
		mustExperiment(t, "B", "LAMP", 80, 8, 87, 10),
		mustExperiment(t, "C", "RPA", 75, 12, 82, 16),
		mustExperiment(t, "D", "NASBA", 70, 15, 78, 22),
	}

	first, err := svc.Compare(context.Background(), experiments)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	second, err := svc.Compare(context.Background(), experiments)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}

	if len(first.KappaResults) != 6 || len(second.KappaResults) != 6 {
		t.Fatalf("want 6 pairs each, got %d and %d", len(first.KappaResults), len(second.KappaResults))
	}
	for key, a := range first.KappaResults {
		b, ok := second.KappaResults[key]
		if !ok {
			t.Fatalf("second run missing key %q", key)
		}
		if a.Kappa != b.Kappa || a.StandardError != b.StandardError {
			t.Errorf("%q: runs diverged: %+v vs %+v", key, a, b)
		}
	}
}

func TestCompare_TooFewExperiments(t *testing.T) {
	svc := newTestService()

	single := []diagnostics.Experiment{mustExperiment(t, "A", "PCR", 85, 3, 92, 5)}
	_, err := svc.Compare(context.Background(), single)
	if !errors.Is(err, core.ErrTooFewExperiments) {
		t.Errorf("error = %v, want ErrTooFewExperiments", err)
	}
}

func TestCompare_RankingCoversKnownTechniques(t *testing.T) {
	svc := newTestService()

	experiments := []diagnostics.Experiment{
		mustExperiment(t, "A", "PCR", 85, 3, 92, 5),
		mustExperiment(t, "B", "UNKNOWN_ASSAY", 80, 8, 87, 10),
		mustExperiment(t, "C", "LAMP", 75, 12, 82, 16),
	}

	result, err := svc.Compare(context.Background(), experiments)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}

	// The unknown technique is left out of the ranking, not failed
	if len(result.Ranking) != 2 {
		t.Fatalf("got %d ranked records, want 2", len(result.Ranking))
	}
	for i, record := range result.Ranking {
		if record.Rank != i+1 {
			t.Errorf("rank[%d] = %d, want %d", i, record.Rank, i+1)
		}
	}
	if result.Ranking[0].TotalCostWithErrors > result.Ranking[1].TotalCostWithErrors {
		t.Error("ranking not ascending by total cost with errors")
	}
}

func TestSynthesizeRaters_FloorTruncatedStrata(t *testing.T) {
	a := diagnostics.MustNewConfusionCounts(6, 2, 8, 4) // total 20
	b := diagnostics.MustNewConfusionCounts(5, 1, 3, 1) // total 10

	raterA, raterB := synthesizeRaters(a, b)

	// Strata from A's proportions at the shared minimum of 10:
	// tp 6*10/20=3, fp 2*10/20=1, fn 4*10/20=2, tn 8*10/20=4
	if len(raterA) != 10 || len(raterB) != 10 {
		t.Fatalf("lengths = %d, %d, want 10, 10", len(raterA), len(raterB))
	}

	countPairs := map[[2]int]int{}
	for i := range raterA {
		countPairs[[2]int{raterA[i], raterB[i]}]++
	}
	if countPairs[[2]int{1, 1}] != 3 {
		t.Errorf("tp stratum = %d, want 3", countPairs[[2]int{1, 1}])
	}
	if countPairs[[2]int{1, 0}] != 1 {
		t.Errorf("fp stratum = %d, want 1", countPairs[[2]int{1, 0}])
	}
	if countPairs[[2]int{0, 1}] != 2 {
		t.Errorf("fn stratum = %d, want 2", countPairs[[2]int{0, 1}])
	}
	if countPairs[[2]int{0, 0}] != 4 {
		t.Errorf("tn stratum = %d, want 4", countPairs[[2]int{0, 0}])
	}
}

func TestCorrectPValues_Delegates(t *testing.T) {
	svc := newTestService()

	result, err := svc.CorrectPValues([]float64{0.01, 0.04}, diagnostics.MethodBonferroni)
	if err != nil {
		t.Fatalf("correct: %v", err)
	}
	if result.CorrectedPValues[0] != 0.02 || result.CorrectedPValues[1] != 0.08 {
		t.Errorf("corrected = %v, want [0.02 0.08]", result.CorrectedPValues)
	}
}

func keysOf(m map[string]*diagnostics.KappaResult) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
