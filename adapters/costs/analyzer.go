package costs

import (
	"math"

	"godiag/domain/core"
	"godiag/domain/costs"

	"github.com/montanaflynn/stats"
)

const (
	// Equipment is amortized over a typical 5-year lifespan
	equipmentLifespanYears = 5.0

	// Typical Thai electricity rate, THB per kWh
	powerCostPerKWh = 4.2

	// Simplified decision-analytic misclassification weights: a false
	// positive buys unnecessary follow-up, a false negative a missed
	// diagnosis. Not derived from real-world loss data.
	falsePositivePenalty = 100.0
	falseNegativePenalty = 500.0
)

// Analyzer computes total-cost-of-ownership and cost-effectiveness figures
// from an immutable catalog.
type Analyzer struct {
	catalog *Catalog
}

// NewAnalyzer creates an analyzer over the given catalog
func NewAnalyzer(catalog *Catalog) *Analyzer {
	return &Analyzer{catalog: catalog}
}

// Breakdown itemizes the total cost of ownership for a technique over a study
func (a *Analyzer) Breakdown(technique core.TechniqueKey, sampleCount int, studyYears float64) (costs.CostBreakdown, error) {
	profile, err := a.catalog.Lookup(technique)
	if err != nil {
		return costs.CostBreakdown{}, err
	}

	timePerTestHours := profile.TimePerTestMinutes / 60
	return costs.CostBreakdown{
		Equipment:   profile.EquipmentCost / equipmentLifespanYears * studyYears,
		Reagents:    profile.ReagentCostPerTest * float64(sampleCount),
		Maintenance: profile.MaintenanceCostAnnual * studyYears,
		Power:       profile.PowerConsumptionWatts / 1000 * timePerTestHours * float64(sampleCount) * powerCostPerKWh,
	}, nil
}

// TotalCost returns the rounded total cost of ownership in THB
func (a *Analyzer) TotalCost(technique core.TechniqueKey, sampleCount int, studyYears float64) (float64, error) {
	breakdown, err := a.Breakdown(technique, sampleCount, studyYears)
	if err != nil {
		return 0, err
	}
	return math.Round(breakdown.Total()*100) / 100, nil
}

// Compare builds per-technique cost summaries for a shared scenario. Unknown
// techniques are skipped rather than failing the whole comparison.
func (a *Analyzer) Compare(techniques []core.TechniqueKey, sampleCount int, studyYears float64) []costs.TechniqueComparison {
	comparisons := make([]costs.TechniqueComparison, 0, len(techniques))
	for _, technique := range techniques {
		breakdown, err := a.Breakdown(technique, sampleCount, studyYears)
		if err != nil {
			continue
		}
		total := math.Round(breakdown.Total()*100) / 100
		perSample := 0.0
		if sampleCount > 0 {
			perSample = total / float64(sampleCount)
		}
		comparisons = append(comparisons, costs.TechniqueComparison{
			Technique:     technique,
			TotalCost:     total,
			CostPerSample: perSample,
			Breakdown:     breakdown,
		})
	}
	return comparisons
}

// CostEffectiveness folds diagnostic performance into the cost picture for a
// single technique over a one-year study.
func (a *Analyzer) CostEffectiveness(technique core.TechniqueKey, sensitivity, specificity float64, sampleCount int) (*costs.CostEffectiveness, error) {
	total, err := a.TotalCost(technique, sampleCount, 1.0)
	if err != nil {
		return nil, err
	}

	perSample := 0.0
	if sampleCount > 0 {
		perSample = total / float64(sampleCount)
	}

	utility, err := stats.Mean([]float64{sensitivity, specificity})
	if err != nil {
		utility = 0
	}

	costPerUtility := math.Inf(1)
	if utility > 0 {
		costPerUtility = perSample / utility
	}

	expectedFPCost := (1 - specificity) * falsePositivePenalty
	expectedFNCost := (1 - sensitivity) * falseNegativePenalty

	return &costs.CostEffectiveness{
		Technique:              technique,
		DirectCostPerSample:    perSample,
		DiagnosticUtilityScore: utility,
		CostPerUtilityUnit:     costPerUtility,
		Misclassification: costs.MisclassificationCosts{
			FalsePositiveCost: expectedFPCost,
			FalseNegativeCost: expectedFNCost,
			TotalErrorCost:    expectedFPCost + expectedFNCost,
		},
		TotalCostWithErrors: perSample + expectedFPCost + expectedFNCost,
	}, nil
}
