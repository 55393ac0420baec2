package correction

import (
	"fmt"
	"math"
	"sort"

	"godiag/domain/core"
	"godiag/domain/diagnostics"
)

// Corrector adjusts p-value sets for multiple comparisons. Stateless and safe
// for concurrent use.
type Corrector struct{}

// NewCorrector creates a new multiple-comparisons corrector
func NewCorrector() *Corrector {
	return &Corrector{}
}

// Correct applies the given correction policy and returns corrected p-values
// in the original input order, with significance flags at 0.05 and 0.01.
func (c *Corrector) Correct(pValues []float64, method diagnostics.CorrectionMethod) (*diagnostics.CorrectionResult, error) {
	if len(pValues) == 0 {
		return nil, fmt.Errorf("%w: p-value set cannot be empty", core.ErrEmptyInput)
	}
	for i, p := range pValues {
		if p < 0 || p > 1 || math.IsNaN(p) {
			return nil, core.NewValidationError("p_values", fmt.Sprintf("p-value at index %d out of [0,1]: %g", i, p))
		}
	}

	var corrected []float64
	switch method {
	case diagnostics.MethodBonferroni:
		corrected = bonferroni(pValues)
	case diagnostics.MethodHolm:
		corrected = holm(pValues)
	case diagnostics.MethodFDRBH:
		corrected = fdrBH(pValues)
	default:
		return nil, core.NewUnknownMethodError(string(method))
	}

	result := &diagnostics.CorrectionResult{
		OriginalPValues:  append([]float64(nil), pValues...),
		CorrectedPValues: corrected,
		Method:           method,
		SignificantAt05:  make([]bool, len(corrected)),
		SignificantAt01:  make([]bool, len(corrected)),
	}
	for i, p := range corrected {
		result.SignificantAt05[i] = p < 0.05
		result.SignificantAt01[i] = p < 0.01
	}
	return result, nil
}

// bonferroni multiplies every p-value by the family size, capped at 1
func bonferroni(pValues []float64) []float64 {
	n := float64(len(pValues))
	corrected := make([]float64, len(pValues))
	for i, p := range pValues {
		corrected[i] = math.Min(1.0, p*n)
	}
	return corrected
}

// holm applies the Holm-Bonferroni step-down procedure: rank i (0-based,
// ascending p) gets p*(n-i), then a forward pass enforces non-decreasing
// corrected values in rank order.
func holm(pValues []float64) []float64 {
	n := len(pValues)
	order := sortedIndices(pValues)

	corrected := make([]float64, n)
	for rank, idx := range order {
		corrected[idx] = math.Min(1.0, pValues[idx]*float64(n-rank))
	}

	for rank := 1; rank < n; rank++ {
		prev := corrected[order[rank-1]]
		if corrected[order[rank]] < prev {
			corrected[order[rank]] = prev
		}
	}
	return corrected
}

// fdrBH applies the Benjamini-Hochberg FDR procedure: rank i gets
// p*n/(i+1), then a backward pass enforces non-increasing corrected values
// scanning from the largest rank down.
func fdrBH(pValues []float64) []float64 {
	n := len(pValues)
	order := sortedIndices(pValues)

	corrected := make([]float64, n)
	for rank, idx := range order {
		corrected[idx] = math.Min(1.0, pValues[idx]*float64(n)/float64(rank+1))
	}

	for rank := n - 2; rank >= 0; rank-- {
		next := corrected[order[rank+1]]
		if corrected[order[rank]] > next {
			corrected[order[rank]] = next
		}
	}
	return corrected
}

// sortedIndices returns input indices ordered by ascending p-value. Ties keep
// input order so the result is deterministic.
func sortedIndices(pValues []float64) []int {
	order := make([]int, len(pValues))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return pValues[order[a]] < pValues[order[b]]
	})
	return order
}
