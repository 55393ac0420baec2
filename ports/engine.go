package ports

import (
	"godiag/domain/core"
	"godiag/domain/costs"
	"godiag/domain/diagnostics"
)

// DiagnosticsCalculator derives diagnostic statistics from confusion counts
type DiagnosticsCalculator interface {
	Compute(counts diagnostics.ConfusionCounts, confidence float64) (*diagnostics.DiagnosticStatistics, error)
}

// AgreementEstimator computes Cohen's kappa for paired rating sequences
type AgreementEstimator interface {
	Kappa(raterA, raterB []int, confidence float64) (*diagnostics.KappaResult, error)
}

// PValueCorrector adjusts p-value sets for multiple comparisons
type PValueCorrector interface {
	Correct(pValues []float64, method diagnostics.CorrectionMethod) (*diagnostics.CorrectionResult, error)
}

// CostAnalyzer computes cost-of-ownership and cost-effectiveness figures
type CostAnalyzer interface {
	Breakdown(technique core.TechniqueKey, sampleCount int, studyYears float64) (costs.CostBreakdown, error)
	TotalCost(technique core.TechniqueKey, sampleCount int, studyYears float64) (float64, error)
	Compare(techniques []core.TechniqueKey, sampleCount int, studyYears float64) []costs.TechniqueComparison
	CostEffectiveness(technique core.TechniqueKey, sensitivity, specificity float64, sampleCount int) (*costs.CostEffectiveness, error)
}
