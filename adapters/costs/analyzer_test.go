package costs

import (
	"errors"
	"math"
	"testing"

	"godiag/domain/core"
	"godiag/domain/costs"
)

func TestTotalCost_PCRArithmetic(t *testing.T) {
	analyzer := NewAnalyzer(NewDefaultCatalog())

	// PCR over one year with 100 samples:
	//   equipment 525000/5 = 105000
	//   reagents  87.5*100 = 8750
	//   maintenance        = 52500
	//   power 0.8kW * 2.5h * 100 * 4.2 THB = 840
	total, err := analyzer.TotalCost("PCR", 100, 1.0)
	if err != nil {
		t.Fatalf("total cost: %v", err)
	}

	want := 105000.0 + 8750.0 + 52500.0 + 840.0
	if math.Abs(total-want) > 0.01 {
		t.Errorf("total = %.2f, want %.2f", total, want)
	}
}

func TestBreakdown_ScalesWithStudyYears(t *testing.T) {
	analyzer := NewAnalyzer(NewDefaultCatalog())

	oneYear, err := analyzer.Breakdown("PCR", 100, 1.0)
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	twoYears, err := analyzer.Breakdown("PCR", 100, 2.0)
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}

	if math.Abs(twoYears.Equipment-2*oneYear.Equipment) > 1e-9 {
		t.Errorf("equipment did not double: %.2f vs %.2f", twoYears.Equipment, oneYear.Equipment)
	}
	if math.Abs(twoYears.Maintenance-2*oneYear.Maintenance) > 1e-9 {
		t.Errorf("maintenance did not double: %.2f vs %.2f", twoYears.Maintenance, oneYear.Maintenance)
	}
	// Reagents and power track sample count, not duration
	if twoYears.Reagents != oneYear.Reagents {
		t.Errorf("reagents changed with duration: %.2f vs %.2f", twoYears.Reagents, oneYear.Reagents)
	}
}

func TestBreakdown_UnknownTechnique(t *testing.T) {
	analyzer := NewAnalyzer(NewDefaultCatalog())
	_, err := analyzer.Breakdown("CRYSTAL_BALL", 100, 1.0)
	if !errors.Is(err, core.ErrUnknownTechnique) {
		t.Errorf("error = %v, want ErrUnknownTechnique", err)
	}
}

func TestCompare_SkipsUnknownTechniques(t *testing.T) {
	analyzer := NewAnalyzer(NewDefaultCatalog())

	comparisons := analyzer.Compare([]core.TechniqueKey{"PCR", "CRYSTAL_BALL", "LAMP"}, 100, 1.0)
	if len(comparisons) != 2 {
		t.Fatalf("got %d comparisons, want 2", len(comparisons))
	}
	for _, comparison := range comparisons {
		if comparison.Technique == "CRYSTAL_BALL" {
			t.Error("unknown technique leaked into comparison")
		}
		if comparison.CostPerSample <= 0 {
			t.Errorf("%s: cost per sample %.2f, want > 0", comparison.Technique, comparison.CostPerSample)
		}
	}
}

func TestCostEffectiveness_UtilityAndPenalties(t *testing.T) {
	analyzer := NewAnalyzer(NewDefaultCatalog())

	record, err := analyzer.CostEffectiveness("PCR", 0.9, 0.8, 100)
	if err != nil {
		t.Fatalf("cost effectiveness: %v", err)
	}

	if math.Abs(record.DiagnosticUtilityScore-0.85) > 1e-9 {
		t.Errorf("utility = %g, want 0.85", record.DiagnosticUtilityScore)
	}

	// Expected misclassification: (1-spec)*100 + (1-sens)*500
	wantFP := 0.2 * 100.0
	wantFN := 0.1 * 500.0
	if math.Abs(record.Misclassification.FalsePositiveCost-wantFP) > 1e-9 {
		t.Errorf("FP cost = %g, want %g", record.Misclassification.FalsePositiveCost, wantFP)
	}
	if math.Abs(record.Misclassification.FalseNegativeCost-wantFN) > 1e-9 {
		t.Errorf("FN cost = %g, want %g", record.Misclassification.FalseNegativeCost, wantFN)
	}
	if math.Abs(record.TotalCostWithErrors-(record.DirectCostPerSample+wantFP+wantFN)) > 1e-9 {
		t.Errorf("total with errors = %g inconsistent with parts", record.TotalCostWithErrors)
	}
}

func TestCostEffectiveness_ZeroUtility(t *testing.T) {
	analyzer := NewAnalyzer(NewDefaultCatalog())

	record, err := analyzer.CostEffectiveness("PCR", 0, 0, 100)
	if err != nil {
		t.Fatalf("cost effectiveness: %v", err)
	}
	if !math.IsInf(record.CostPerUtilityUnit, 1) {
		t.Errorf("cost per utility = %v, want +Inf", record.CostPerUtilityUnit)
	}
}

func TestRank_OrdersByTotalCostWithErrors(t *testing.T) {
	records := []*costs.CostEffectiveness{
		{Technique: "A", TotalCostWithErrors: 300},
		{Technique: "B", TotalCostWithErrors: 100},
		{Technique: "C", TotalCostWithErrors: 200},
	}

	ranked := costs.Rank(records)
	if ranked[0].Technique != "B" || ranked[1].Technique != "C" || ranked[2].Technique != "A" {
		t.Errorf("rank order = [%s %s %s], want [B C A]",
			ranked[0].Technique, ranked[1].Technique, ranked[2].Technique)
	}
	for i, record := range ranked {
		if record.Rank != i+1 {
			t.Errorf("rank[%d] = %d, want %d", i, record.Rank, i+1)
		}
	}
}

func TestCatalog_DefaultTechniques(t *testing.T) {
	catalog := NewDefaultCatalog()

	techniques := catalog.Techniques()
	if len(techniques) < 5 {
		t.Fatalf("got %d techniques, want at least 5", len(techniques))
	}

	// The keys come back sorted and every key resolves
	for i := 1; i < len(techniques); i++ {
		if techniques[i-1] >= techniques[i] {
			t.Errorf("techniques not sorted: %s before %s", techniques[i-1], techniques[i])
		}
	}
	for _, technique := range techniques {
		if _, err := catalog.Lookup(technique); err != nil {
			t.Errorf("lookup %s: %v", technique, err)
		}
	}
}
