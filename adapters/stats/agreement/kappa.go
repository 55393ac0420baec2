package agreement

import (
	"fmt"
	"math"
	"sort"

	"godiag/domain/core"
	"godiag/domain/diagnostics"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultConfidenceLevel is used when the caller passes 0
const DefaultConfidenceLevel = 0.95

// Estimator computes Cohen's kappa between two paired categorical rating
// sequences. Stateless and safe for concurrent use.
type Estimator struct{}

// NewEstimator creates a new agreement estimator
func NewEstimator() *Estimator {
	return &Estimator{}
}

// Kappa computes Cohen's kappa for two equal-length rating sequences with a
// large-sample confidence interval.
//
// The standard error is the simplified approximation
// sqrt(p_exp / (n * (1-p_exp)^2)), not the full asymptotic Fleiss variance.
// The CI upper bound is capped at 1.0; the lower bound is deliberately left
// uncapped and can fall below -1 for tiny samples. That asymmetry is carried
// over from the reference behavior rather than silently clamped.
func (e *Estimator) Kappa(raterA, raterB []int, confidence float64) (*diagnostics.KappaResult, error) {
	if len(raterA) != len(raterB) {
		return nil, fmt.Errorf("%w: got %d and %d", core.ErrLengthMismatch, len(raterA), len(raterB))
	}
	if len(raterA) == 0 {
		return nil, fmt.Errorf("%w: rater sequences cannot be empty", core.ErrEmptyInput)
	}
	if confidence == 0 {
		confidence = DefaultConfidenceLevel
	}

	n := len(raterA)
	table, k := contingencyTable(raterA, raterB)

	// Observed agreement: diagonal mass
	fn := float64(n)
	pObs := 0.0
	for i := 0; i < k; i++ {
		pObs += float64(table[i][i])
	}
	pObs /= fn

	// Expected agreement: matching row and column marginals
	pExp := 0.0
	for i := 0; i < k; i++ {
		rowSum, colSum := 0, 0
		for j := 0; j < k; j++ {
			rowSum += table[i][j]
			colSum += table[j][i]
		}
		pExp += (float64(rowSum) / fn) * (float64(colSum) / fn)
	}

	kappa, se := kappaWithSE(pObs, pExp, fn)

	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile((1 + confidence) / 2)
	lower := kappa - z*se
	upper := math.Min(1.0, kappa+z*se)

	return &diagnostics.KappaResult{
		Kappa: kappa,
		ConfidenceInterval: diagnostics.ConfidenceInterval{
			Lower: lower,
			Upper: upper,
			Level: confidence,
		},
		StandardError:     se,
		Interpretation:    diagnostics.InterpretKappa(kappa),
		SampleSize:        n,
		ObservedAgreement: pObs,
		ExpectedAgreement: pExp,
	}, nil
}

// kappaWithSE evaluates Cohen's formula, handling the degenerate case where
// expected agreement saturates (both raters constant). There kappa is 1 for
// perfect agreement and 0 otherwise, with SE pinned to 0.
func kappaWithSE(pObs, pExp, n float64) (float64, float64) {
	if pExp >= 1.0 {
		if pObs >= 1.0 {
			return 1.0, 0
		}
		return 0, 0
	}
	kappa := (pObs - pExp) / (1 - pExp)
	se := math.Sqrt(pExp / (n * (1 - pExp) * (1 - pExp)))
	return kappa, se
}

// contingencyTable builds the k x k cross-classification over the union of
// observed category labels. Labels are mapped to indices in ascending order
// so the table layout is deterministic.
func contingencyTable(raterA, raterB []int) ([][]int, int) {
	seen := make(map[int]struct{}, len(raterA))
	for i := range raterA {
		seen[raterA[i]] = struct{}{}
		seen[raterB[i]] = struct{}{}
	}

	labels := make([]int, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Ints(labels)

	index := make(map[int]int, len(labels))
	for i, label := range labels {
		index[label] = i
	}

	k := len(labels)
	table := make([][]int, k)
	for i := range table {
		table[i] = make([]int, k)
	}
	for i := range raterA {
		table[index[raterA[i]]][index[raterB[i]]]++
	}

	return table, k
}
