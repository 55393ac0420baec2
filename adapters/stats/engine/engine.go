package engine

import (
	"math"

	"godiag/domain/diagnostics"
)

// DefaultConfidenceLevel is used when the caller passes 0
const DefaultConfidenceLevel = 0.95

// Calculator derives diagnostic-accuracy statistics from confusion-matrix
// counts. It is stateless and safe for concurrent use.
type Calculator struct{}

// NewCalculator creates a new diagnostic statistics calculator
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Compute calculates the full diagnostic statistics record for the given
// counts at the given two-sided confidence level. Fails before any
// computation if the counts are invalid; otherwise the result is complete,
// deterministic, and bit-identical across calls with the same inputs.
func (c *Calculator) Compute(counts diagnostics.ConfusionCounts, confidence float64) (*diagnostics.DiagnosticStatistics, error) {
	if err := counts.Validate(); err != nil {
		return nil, err
	}
	if confidence == 0 {
		confidence = DefaultConfidenceLevel
	}

	tp := float64(counts.TP)
	fp := float64(counts.FP)
	tn := float64(counts.TN)
	fn := float64(counts.FN)
	total := float64(counts.Total())

	sensitivity := ratio(tp, tp+fn)
	specificity := ratio(tn, tn+fp)
	ppv := ratio(tp, tp+fp)
	npv := ratio(tn, tn+fn)
	accuracy := (tp + tn) / total
	prevalence := (tp + fn) / total

	fpr := ratio(fp, fp+tn)
	fnr := ratio(fn, fn+tp)

	// Likelihood ratios go to +Inf on a zero denominator rather than
	// defaulting to 0: a perfect specificity makes LR+ unbounded, which the
	// interpretation downstream relies on.
	lrPositive := math.Inf(1)
	if fpr > 0 {
		lrPositive = sensitivity / fpr
	}
	lrNegative := math.Inf(1)
	if specificity > 0 {
		lrNegative = fnr / specificity
	}
	dor := math.Inf(1)
	if lrNegative > 0 {
		// Inf/Inf yields NaN here, matching the reference arithmetic.
		dor = lrPositive / lrNegative
	}

	f1 := 0.0
	if ppv+sensitivity > 0 {
		f1 = 2 * (ppv * sensitivity) / (ppv + sensitivity)
	}

	mcc := 0.0
	mccDenom := math.Sqrt((tp + fp) * (tp + fn) * (tn + fp) * (tn + fn))
	if mccDenom > 0 {
		mcc = (tp*tn - fp*fn) / mccDenom
	}

	z := zCritical(confidence)

	return &diagnostics.DiagnosticStatistics{
		Sensitivity: proportion(sensitivity, counts.TP, counts.TP+counts.FN, z),
		Specificity: proportion(specificity, counts.TN, counts.TN+counts.FP, z),
		PPV:         proportion(ppv, counts.TP, counts.TP+counts.FP, z),
		NPV:         proportion(npv, counts.TN, counts.TN+counts.FN, z),
		Accuracy:    proportion(accuracy, counts.TP+counts.TN, counts.Total(), z),
		Prevalence: diagnostics.ProportionEstimate{
			Value:      prevalence,
			Percentage: prevalence * 100,
		},
		F1Score: f1,
		MCC:     mcc,
		LikelihoodRatios: diagnostics.LikelihoodRatios{
			Positive: lrPositive,
			Negative: lrNegative,
		},
		DiagnosticOddsRatio: dor,
		CohensKappa:         c.kappaProxy(counts, z),
		SampleSize:          counts.Total(),
		ConfidenceLevel:     confidence,
	}, nil
}

// ComputeCounts is a convenience wrapper over Compute for raw integer counts
func (c *Calculator) ComputeCounts(tp, fp, tn, fn int, confidence float64) (*diagnostics.DiagnosticStatistics, error) {
	counts, err := diagnostics.NewConfusionCounts(tp, fp, tn, fn)
	if err != nil {
		return nil, err
	}
	return c.Compute(counts, confidence)
}

// kappaProxy scores the matrix's observed agreement against chance agreement.
// This is a self-consistency proxy over one matrix, not an inter-rater
// statistic; the agreement package holds the true two-rater Cohen's kappa.
func (c *Calculator) kappaProxy(counts diagnostics.ConfusionCounts, z float64) diagnostics.KappaProxy {
	tp := float64(counts.TP)
	fp := float64(counts.FP)
	tn := float64(counts.TN)
	fn := float64(counts.FN)
	total := float64(counts.Total())

	observed := (tp + tn) / total
	expected := ((tp+fn)*(tp+fp) + (tn+fp)*(tn+fn)) / (total * total)

	if expected >= 1.0 {
		// Chance agreement saturates when one margin holds every sample;
		// the proxy is undefined there.
		return diagnostics.KappaProxy{Interpretation: diagnostics.AgreementNotCalculated}
	}

	kappa := (observed - expected) / (1 - expected)
	se := math.Sqrt(expected / (total * (1 - expected) * (1 - expected)))

	return diagnostics.KappaProxy{
		Value:          kappa,
		CILower:        math.Max(-1.0, kappa-z*se),
		CIUpper:        math.Min(1.0, kappa+z*se),
		StandardError:  se,
		Interpretation: diagnostics.InterpretKappa(kappa),
	}
}

// ratio divides num by denom, defaulting to 0 on a zero denominator. The zero
// default is a numeric convention for well-defined ratios, not an error path.
func ratio(num, denom float64) float64 {
	if denom > 0 {
		return num / denom
	}
	return 0
}

// proportion packages a point estimate with its Wilson interval
func proportion(value float64, x, n int, z float64) diagnostics.ProportionEstimate {
	lower, upper := wilsonInterval(x, n, z)
	return diagnostics.ProportionEstimate{
		Value:      value,
		Percentage: value * 100,
		CILower:    lower,
		CIUpper:    upper,
	}
}
