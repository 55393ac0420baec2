package costs

import (
	"sort"

	"godiag/domain/core"
	"godiag/domain/costs"
)

// Catalog is an immutable lookup of per-technique cost profiles. It is
// constructed with its data rather than read from package-level state so the
// analyzer stays independently testable.
type Catalog struct {
	profiles    map[core.TechniqueKey]costs.TechniqueCostProfile
	strengths   map[core.TechniqueKey][]string
	limitations map[core.TechniqueKey][]string
}

// NewCatalog creates a catalog from explicit profiles
func NewCatalog(profiles []costs.TechniqueCostProfile) *Catalog {
	m := make(map[core.TechniqueKey]costs.TechniqueCostProfile, len(profiles))
	for _, p := range profiles {
		m[p.Technique] = p
	}
	return &Catalog{
		profiles:    m,
		strengths:   defaultStrengths,
		limitations: defaultLimitations,
	}
}

// NewDefaultCatalog creates a catalog with the built-in market-research table
func NewDefaultCatalog() *Catalog {
	return NewCatalog(defaultProfiles)
}

// Lookup returns the cost profile for a technique
func (c *Catalog) Lookup(technique core.TechniqueKey) (costs.TechniqueCostProfile, error) {
	profile, ok := c.profiles[technique]
	if !ok {
		return costs.TechniqueCostProfile{}, core.NewUnknownTechniqueError(technique.String())
	}
	return profile, nil
}

// Techniques lists the catalog's technique keys in stable order
func (c *Catalog) Techniques() []core.TechniqueKey {
	keys := make([]core.TechniqueKey, 0, len(c.profiles))
	for k := range c.profiles {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Strengths returns the qualitative strengths text for a technique
func (c *Catalog) Strengths(technique core.TechniqueKey) []string {
	return c.strengths[technique]
}

// Limitations returns the qualitative limitations text for a technique
func (c *Catalog) Limitations(technique core.TechniqueKey) []string {
	return c.limitations[technique]
}

// Built-in cost data from market research (THB, ~35 THB = 1 USD). Figures are
// reproduced exactly so exported reports stay bit-compatible.
var defaultProfiles = []costs.TechniqueCostProfile{
	{
		Technique:              "PCR",
		EquipmentCost:          525000, // Basic PCR thermocycler
		EquipmentCostRange:     costs.Range{Min: 280000, Max: 875000},
		ReagentCostPerTest:     87.5,
		ReagentCostRange:       costs.Range{Min: 52.5, Max: 140},
		MaintenanceCostAnnual:  52500,
		PowerConsumptionWatts:  800,
		ThroughputPerHour:      48,
		OperatorSkillRequired:  costs.SkillMedium,
		TemperatureRequirement: "Thermal cycling (50-95°C)",
		TimePerTestMinutes:     150,
		MultiplexingCapability: costs.SuitabilityGood,
		FieldSuitability:       costs.SuitabilityPoor,
	},
	{
		Technique:              "qPCR",
		EquipmentCost:          1225000,
		EquipmentCostRange:     costs.Range{Min: 525000, Max: 1750000},
		ReagentCostPerTest:     192.5,
		ReagentCostRange:       costs.Range{Min: 105, Max: 280},
		MaintenanceCostAnnual:  122500,
		PowerConsumptionWatts:  1500, // High due to thermal cycling
		ThroughputPerHour:      96,
		OperatorSkillRequired:  costs.SkillHigh,
		TemperatureRequirement: "Thermal cycling (50-94°C)",
		TimePerTestMinutes:     120,
		MultiplexingCapability: costs.SuitabilityExcellent,
		FieldSuitability:       costs.SuitabilityPoor,
	},
	{
		Technique:              "LAMP",
		EquipmentCost:          87500,
		EquipmentCostRange:     costs.Range{Min: 5600, Max: 175000},
		ReagentCostPerTest:     105.0,
		ReagentCostRange:       costs.Range{Min: 70, Max: 140},
		MaintenanceCostAnnual:  8750,
		PowerConsumptionWatts:  50,
		ThroughputPerHour:      24,
		OperatorSkillRequired:  costs.SkillMedium,
		TemperatureRequirement: "Isothermal 60-65°C",
		TimePerTestMinutes:     45,
		MultiplexingCapability: costs.SuitabilityLimited,
		FieldSuitability:       costs.SuitabilityGood,
	},
	{
		Technique:              "RPA",
		EquipmentCost:          35000,
		EquipmentCostRange:     costs.Range{Min: 7000, Max: 70000},
		ReagentCostPerTest:     402.5, // Highest reagent cost (single-supplier enzymes)
		ReagentCostRange:       costs.Range{Min: 280, Max: 525},
		MaintenanceCostAnnual:  3500,
		PowerConsumptionWatts:  20,
		ThroughputPerHour:      12,
		OperatorSkillRequired:  costs.SkillLow,
		TemperatureRequirement: "Low isothermal 37-42°C",
		TimePerTestMinutes:     15,
		MultiplexingCapability: costs.SuitabilityGood,
		FieldSuitability:       costs.SuitabilityExcellent,
	},
	{
		Technique:              "NASBA",
		EquipmentCost:          52500,
		EquipmentCostRange:     costs.Range{Min: 17500, Max: 105000},
		ReagentCostPerTest:     297.5,
		ReagentCostRange:       costs.Range{Min: 175, Max: 420},
		MaintenanceCostAnnual:  10500,
		PowerConsumptionWatts:  100,
		ThroughputPerHour:      16,
		OperatorSkillRequired:  costs.SkillMedium,
		TemperatureRequirement: "Isothermal 41°C",
		TimePerTestMinutes:     90,
		MultiplexingCapability: costs.SuitabilityModerate,
		FieldSuitability:       costs.SuitabilityModerate,
	},
	{
		Technique:              "TMA",
		EquipmentCost:          280000,
		EquipmentCostRange:     costs.Range{Min: 175000, Max: 420000},
		ReagentCostPerTest:     245.0,
		ReagentCostRange:       costs.Range{Min: 175, Max: 350},
		MaintenanceCostAnnual:  14000,
		PowerConsumptionWatts:  200,
		ThroughputPerHour:      20,
		OperatorSkillRequired:  costs.SkillMedium,
		TemperatureRequirement: "Isothermal 42°C",
		TimePerTestMinutes:     60,
		MultiplexingCapability: costs.SuitabilityLimited,
		FieldSuitability:       costs.SuitabilityGood,
	},
	{
		Technique:              "HDA",
		EquipmentCost:          3000,
		EquipmentCostRange:     costs.Range{Min: 1500, Max: 5000},
		ReagentCostPerTest:     4.5,
		ReagentCostRange:       costs.Range{Min: 3, Max: 6},
		MaintenanceCostAnnual:  200,
		PowerConsumptionWatts:  80,
		ThroughputPerHour:      18,
		OperatorSkillRequired:  costs.SkillLow,
		TemperatureRequirement: "Isothermal 65°C",
		TimePerTestMinutes:     75,
		MultiplexingCapability: costs.SuitabilityModerate,
		FieldSuitability:       costs.SuitabilityGood,
	},
	{
		Technique:              "SDA",
		EquipmentCost:          4000,
		EquipmentCostRange:     costs.Range{Min: 2000, Max: 6000},
		ReagentCostPerTest:     6.0,
		ReagentCostRange:       costs.Range{Min: 4, Max: 8},
		MaintenanceCostAnnual:  300,
		PowerConsumptionWatts:  120,
		ThroughputPerHour:      15,
		OperatorSkillRequired:  costs.SkillMedium,
		TemperatureRequirement: "Isothermal 37°C",
		TimePerTestMinutes:     120,
		MultiplexingCapability: costs.SuitabilityLimited,
		FieldSuitability:       costs.SuitabilityModerate,
	},
	{
		Technique:              "NEAR",
		EquipmentCost:          2500,
		EquipmentCostRange:     costs.Range{Min: 1000, Max: 4000},
		ReagentCostPerTest:     5.5,
		ReagentCostRange:       costs.Range{Min: 4, Max: 7},
		MaintenanceCostAnnual:  150,
		PowerConsumptionWatts:  60,
		ThroughputPerHour:      12,
		OperatorSkillRequired:  costs.SkillLow,
		TemperatureRequirement: "Isothermal 55°C",
		TimePerTestMinutes:     90,
		MultiplexingCapability: costs.SuitabilityLimited,
		FieldSuitability:       costs.SuitabilityExcellent,
	},
}

var defaultStrengths = map[core.TechniqueKey][]string{
	"PCR": {
		"Well-established and widely used",
		"Simple and reliable",
		"Low equipment cost compared to qPCR",
		"Good for qualitative analysis",
		"Extensive literature and protocols",
	},
	"qPCR": {
		"Gold standard for sensitivity",
		"Excellent multiplexing capability",
		"Quantitative results",
		"Well-established protocols",
		"Wide acceptance in clinical settings",
	},
	"LAMP": {
		"Low equipment costs",
		"Good cost per test",
		"Simple isothermal operation",
		"Rapid results (15-60 min)",
		"Good field suitability",
	},
	"RPA": {
		"Fastest results (5-20 min)",
		"Works at body temperature",
		"Minimal equipment required",
		"Excellent portability",
		"High sensitivity",
	},
	"NASBA": {
		"RNA amplification without reverse transcription",
		"Isothermal operation",
		"Good for viral RNA detection",
		"Moderate equipment costs",
	},
	"TMA": {
		"RNA amplification at low temperature",
		"High sensitivity for RNA targets",
		"Simple automation potential",
		"Good for clinical diagnostics",
	},
	"HDA": {
		"Simple enzyme requirements",
		"Good temperature tolerance",
		"Fast amplification",
		"Cost-effective equipment",
	},
	"SDA": {
		"Isothermal amplification",
		"Good specificity",
		"Well-established protocols",
		"Suitable for automation",
	},
	"NEAR": {
		"Very simple equipment",
		"Visual detection possible",
		"Excellent portability",
		"Low power consumption",
	},
}

var defaultLimitations = map[core.TechniqueKey][]string{
	"PCR": {
		"No quantitative results",
		"Requires gel electrophoresis",
		"Thermal cycling required",
		"Time-consuming post-PCR analysis",
		"Limited throughput",
	},
	"qPCR": {
		"High equipment costs",
		"Requires thermal cycling",
		"High power consumption",
		"Not suitable for field use",
		"Requires skilled operators",
	},
	"LAMP": {
		"Complex primer design",
		"Limited multiplexing",
		"Potential for primer-dimer formation",
		"Less established than qPCR",
	},
	"RPA": {
		"Highest reagent costs",
		"Proprietary enzyme system",
		"Limited supplier options",
		"Temperature sensitive",
	},
	"NASBA": {
		"Limited to RNA targets",
		"Moderate equipment costs",
		"Less widely adopted",
		"Requires multiple enzymes",
	},
	"TMA": {
		"Limited to RNA targets",
		"Requires multiple enzymes",
		"Less established than other methods",
		"Moderate reagent costs",
	},
	"HDA": {
		"Slower than RPA",
		"Limited multiplexing",
		"Newer technology",
		"Requires helicase enzyme",
	},
	"SDA": {
		"Complex primer design",
		"Requires nicking enzymes",
		"Limited temperature range",
		"Moderate costs",
	},
	"NEAR": {
		"Limited commercial availability",
		"Newer technology",
		"Limited multiplexing",
		"Requires specialized primers",
	},
}
