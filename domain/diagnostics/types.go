package diagnostics

import (
	"fmt"

	"godiag/domain/core"
)

// ============================================================================
// STABLE PRIMITIVES (Canonical, never change)
// ============================================================================

// ConfusionCounts holds the four cells of a binary confusion matrix.
// INVARIANTS:
// - All counts are non-negative
// - TP+FP+TN+FN > 0
type ConfusionCounts struct {
	TP int `json:"tp"`
	FP int `json:"fp"`
	TN int `json:"tn"`
	FN int `json:"fn"`
}

// NewConfusionCounts creates confusion counts with validation
func NewConfusionCounts(tp, fp, tn, fn int) (ConfusionCounts, error) {
	c := ConfusionCounts{TP: tp, FP: fp, TN: tn, FN: fn}
	if err := c.Validate(); err != nil {
		return ConfusionCounts{}, err
	}
	return c, nil
}

// MustNewConfusionCounts creates confusion counts (panics on invalid input)
// Use only in tests and development - production code should handle validation errors
func MustNewConfusionCounts(tp, fp, tn, fn int) ConfusionCounts {
	c, err := NewConfusionCounts(tp, fp, tn, fn)
	if err != nil {
		panic(err)
	}
	return c
}

// Validate checks the confusion matrix invariants
func (c ConfusionCounts) Validate() error {
	if c.TP < 0 || c.FP < 0 || c.TN < 0 || c.FN < 0 {
		return fmt.Errorf("%w: got tp=%d fp=%d tn=%d fn=%d", core.ErrNegativeCount, c.TP, c.FP, c.TN, c.FN)
	}
	if c.Total() == 0 {
		return core.ErrZeroMatrix
	}
	return nil
}

// Total returns the total sample count
func (c ConfusionCounts) Total() int {
	return c.TP + c.FP + c.TN + c.FN
}

// Positives returns the count of actual positives
func (c ConfusionCounts) Positives() int { return c.TP + c.FN }

// Negatives returns the count of actual negatives
func (c ConfusionCounts) Negatives() int { return c.TN + c.FP }

// ConfidenceInterval represents a two-sided confidence interval
type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Level float64 `json:"confidence_level"` // e.g. 0.95 for a 95% CI
}

// Contains reports whether the interval contains v
func (ci ConfidenceInterval) Contains(v float64) bool {
	return ci.Lower <= v && v <= ci.Upper
}

// ProportionEstimate is a point estimate of a proportion with its Wilson interval
type ProportionEstimate struct {
	Value      float64 `json:"value"`      // In [0,1]
	Percentage float64 `json:"percentage"` // Value * 100
	CILower    float64 `json:"ci_lower"`
	CIUpper    float64 `json:"ci_upper"`
}

// LikelihoodRatios holds the positive and negative likelihood ratios.
// Either may be +Inf when the corresponding denominator is zero.
type LikelihoodRatios struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
}

// ============================================================================
// AGREEMENT STATISTICS
// ============================================================================

// Interpretation is the qualitative agreement label on the Altman scale
type Interpretation string

const (
	AgreementPoor     Interpretation = "Poor agreement"
	AgreementFair     Interpretation = "Fair agreement"
	AgreementModerate Interpretation = "Moderate agreement"
	AgreementGood     Interpretation = "Good agreement"
	AgreementVeryGood Interpretation = "Very good agreement"

	// AgreementNotCalculated marks the degenerate case where chance
	// agreement saturates and the proxy is undefined.
	AgreementNotCalculated Interpretation = "Not calculated"
)

// InterpretKappa buckets a kappa value on the Altman scale.
// Used identically for true Cohen's kappa and the single-matrix kappa proxy.
func InterpretKappa(kappa float64) Interpretation {
	switch {
	case kappa < 0.20:
		return AgreementPoor
	case kappa < 0.40:
		return AgreementFair
	case kappa < 0.60:
		return AgreementModerate
	case kappa < 0.80:
		return AgreementGood
	default:
		return AgreementVeryGood
	}
}

// KappaResult is the output of an agreement estimation
type KappaResult struct {
	Kappa              float64            `json:"kappa"`
	ConfidenceInterval ConfidenceInterval `json:"confidence_interval"`
	StandardError      float64            `json:"standard_error"`
	Interpretation     Interpretation     `json:"interpretation"`
	SampleSize         int                `json:"sample_size"`
	ObservedAgreement  float64            `json:"observed_agreement"`
	ExpectedAgreement  float64            `json:"expected_agreement"`
}

// KappaProxy is the self-consistency score derived from a single confusion
// matrix. It is NOT a true inter-rater kappa: it scores the matrix's own
// observed agreement against chance agreement. Kept as a distinct type so the
// two operations cannot be conflated.
type KappaProxy struct {
	Value          float64        `json:"value"`
	CILower        float64        `json:"ci_lower"`
	CIUpper        float64        `json:"ci_upper"`
	StandardError  float64        `json:"standard_error"`
	Interpretation Interpretation `json:"interpretation"`
}

// ============================================================================
// DIAGNOSTIC STATISTICS (engine output record)
// ============================================================================

// DiagnosticStatistics is the complete result of a confusion-matrix
// computation. Pure value type, immutable after construction.
type DiagnosticStatistics struct {
	Sensitivity ProportionEstimate `json:"sensitivity"`
	Specificity ProportionEstimate `json:"specificity"`
	PPV         ProportionEstimate `json:"ppv"`
	NPV         ProportionEstimate `json:"npv"`
	Accuracy    ProportionEstimate `json:"accuracy"`
	Prevalence  ProportionEstimate `json:"prevalence"` // Point estimate only, no CI

	F1Score             float64          `json:"f1_score"`
	MCC                 float64          `json:"mcc"` // In [-1,1]
	LikelihoodRatios    LikelihoodRatios `json:"likelihood_ratios"`
	DiagnosticOddsRatio float64          `json:"diagnostic_odds_ratio"`

	CohensKappa KappaProxy `json:"cohens_kappa"` // Single-matrix proxy, see KappaProxy

	SampleSize      int     `json:"sample_size"`
	ConfidenceLevel float64 `json:"confidence_level"`
}

// ============================================================================
// MULTIPLE-COMPARISONS CORRECTION
// ============================================================================

// CorrectionMethod identifies a multiple-comparisons correction policy
type CorrectionMethod string

const (
	MethodBonferroni CorrectionMethod = "bonferroni"
	MethodHolm       CorrectionMethod = "holm"
	MethodFDRBH      CorrectionMethod = "fdr_bh"
)

// ParseCorrectionMethod validates a method tag
func ParseCorrectionMethod(s string) (CorrectionMethod, error) {
	switch CorrectionMethod(s) {
	case MethodBonferroni, MethodHolm, MethodFDRBH:
		return CorrectionMethod(s), nil
	default:
		return "", core.NewUnknownMethodError(s)
	}
}

// CorrectionResult holds corrected p-values in the original input order
type CorrectionResult struct {
	OriginalPValues  []float64        `json:"original_p_values"`
	CorrectedPValues []float64        `json:"corrected_p_values"`
	Method           CorrectionMethod `json:"method"`
	SignificantAt05  []bool           `json:"significant_at_05"`
	SignificantAt01  []bool           `json:"significant_at_01"`
}

// ============================================================================
// EXPERIMENTS
// ============================================================================

// Experiment is one summarized measurement run of a technique
type Experiment struct {
	ID              core.ExperimentID     `json:"id"`
	Name            string                `json:"name"`
	Description     string                `json:"description,omitempty"`
	Technique       core.TechniqueKey     `json:"technique"`
	Counts          ConfusionCounts       `json:"counts"`
	ConfidenceLevel float64               `json:"confidence_level"`
	Statistics      *DiagnosticStatistics `json:"statistics,omitempty"`
	CreatedAt       core.Timestamp        `json:"created_at"`
}

// NewExperiment creates an experiment with validated counts
func NewExperiment(name string, technique core.TechniqueKey, counts ConfusionCounts, confidence float64) (*Experiment, error) {
	if name == "" {
		return nil, core.NewValidationError("name", "cannot be empty")
	}
	if err := counts.Validate(); err != nil {
		return nil, err
	}
	if confidence <= 0 || confidence >= 1 {
		return nil, core.NewValidationError("confidence_level", fmt.Sprintf("must be in (0,1), got %g", confidence))
	}
	return &Experiment{
		ID:              core.ExperimentID(core.NewID()),
		Name:            name,
		Technique:       technique,
		Counts:          counts,
		ConfidenceLevel: confidence,
		CreatedAt:       core.Now(),
	}, nil
}

// PairKey builds the canonical map key for an unordered experiment pair
func PairKey(a, b string) string {
	return fmt.Sprintf("%s vs %s", a, b)
}
