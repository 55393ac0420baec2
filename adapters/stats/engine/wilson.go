package engine

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// zCritical returns the two-sided critical value from the standard normal
// distribution for the given confidence level, i.e. the quantile at (1+c)/2.
func zCritical(confidence float64) float64 {
	norm := distuv.Normal{Mu: 0, Sigma: 1}
	return norm.Quantile((1 + confidence) / 2)
}

// wilsonInterval computes the Wilson score confidence interval for x successes
// out of n trials at the critical value z. The Wilson interval stays well
// behaved for small n and for proportions near 0 or 1, which diagnostic
// studies hit constantly (near-perfect sensitivity on small panels).
//
// Returns (0, 0) when n == 0.
func wilsonInterval(x, n int, z float64) (float64, float64) {
	if n == 0 {
		return 0, 0
	}

	fn := float64(n)
	p := float64(x) / fn
	z2 := z * z

	center := (p + z2/(2*fn)) / (1 + z2/fn)
	margin := z * math.Sqrt((p*(1-p)+z2/(4*fn))/fn) / (1 + z2/fn)

	return math.Max(0, center-margin), math.Min(1, center+margin)
}
