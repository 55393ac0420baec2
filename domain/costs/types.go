package costs

import (
	"sort"

	"godiag/domain/core"
)

// SkillLevel describes operator skill demanded by a technique
type SkillLevel string

const (
	SkillLow    SkillLevel = "Low"
	SkillMedium SkillLevel = "Medium"
	SkillHigh   SkillLevel = "High"
)

// Suitability grades a qualitative capability (multiplexing, field use)
type Suitability string

const (
	SuitabilityPoor      Suitability = "Poor"
	SuitabilityLimited   Suitability = "Limited"
	SuitabilityModerate  Suitability = "Moderate"
	SuitabilityGood      Suitability = "Good"
	SuitabilityExcellent Suitability = "Excellent"
)

// Range is a (min, max) span for a cost figure
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// TechniqueCostProfile is the fixed per-technique cost and performance record.
// Monetary figures are in THB (~35 THB = 1 USD), reproduced from the market
// research behind the catalog so reports stay bit-compatible.
type TechniqueCostProfile struct {
	Technique              core.TechniqueKey `json:"technique"`
	EquipmentCost          float64           `json:"equipment_cost"`
	EquipmentCostRange     Range             `json:"equipment_cost_range"`
	ReagentCostPerTest     float64           `json:"reagent_cost_per_test"`
	ReagentCostRange       Range             `json:"reagent_cost_range"`
	MaintenanceCostAnnual  float64           `json:"maintenance_cost_annual"`
	PowerConsumptionWatts  float64           `json:"power_consumption_watts"`
	ThroughputPerHour      int               `json:"throughput_samples_per_hour"`
	OperatorSkillRequired  SkillLevel        `json:"operator_skill_required"`
	TemperatureRequirement string            `json:"temperature_requirement"`
	TimePerTestMinutes     float64           `json:"time_per_test_minutes"`
	MultiplexingCapability Suitability       `json:"multiplexing_capability"`
	FieldSuitability       Suitability       `json:"field_suitability"`
}

// CostBreakdown itemizes a total-cost-of-ownership figure
type CostBreakdown struct {
	Equipment   float64 `json:"equipment"`
	Reagents    float64 `json:"reagents"`
	Maintenance float64 `json:"maintenance"`
	Power       float64 `json:"power"`
}

// Total sums the breakdown components
func (b CostBreakdown) Total() float64 {
	return b.Equipment + b.Reagents + b.Maintenance + b.Power
}

// TechniqueComparison summarizes one technique within a cost comparison
type TechniqueComparison struct {
	Technique     core.TechniqueKey `json:"technique"`
	TotalCost     float64           `json:"total_cost"`
	CostPerSample float64           `json:"cost_per_sample"`
	Breakdown     CostBreakdown     `json:"cost_breakdown"`
}

// MisclassificationCosts models the expected per-sample penalty of errors.
// The penalties are simplified decision-analytic weights, not real-world
// loss figures.
type MisclassificationCosts struct {
	FalsePositiveCost float64 `json:"false_positive_cost"`
	FalseNegativeCost float64 `json:"false_negative_cost"`
	TotalErrorCost    float64 `json:"total_error_cost"`
}

// CostEffectiveness combines direct cost with diagnostic performance
type CostEffectiveness struct {
	Technique              core.TechniqueKey      `json:"technique"`
	DirectCostPerSample    float64                `json:"direct_cost_per_sample"`
	DiagnosticUtilityScore float64                `json:"diagnostic_utility_score"` // mean(sensitivity, specificity)
	CostPerUtilityUnit     float64                `json:"cost_per_utility_unit"`
	Misclassification      MisclassificationCosts `json:"misclassification_costs"`
	TotalCostWithErrors    float64                `json:"total_cost_with_errors"`
	Rank                   int                    `json:"cost_effectiveness_rank"` // 1 = best, assigned when ranked
}

// Rank orders records ascending by total cost including expected
// misclassification cost and assigns 1-based ranks. The input slice is not
// modified.
func Rank(records []*CostEffectiveness) []*CostEffectiveness {
	ranked := append([]*CostEffectiveness(nil), records...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalCostWithErrors < ranked[j].TotalCostWithErrors
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
