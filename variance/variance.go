// Package variance implements the stratified variance estimator (C7):
// the Bechtold & Patterson (2005) ratio-of-means variance, computed on
// the same zero-extended, domain-indicator-weighted plot values stage 2
// of the aggregator produces.
package variance

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/mihiarc/pyfia-sub006/aggregate"
)

// Result is the variance output attached to an estimate: the raw
// variance of the total, the standard error, and SE expressed as a
// percent of the estimate (spec.md §4.7's three reported quantities).
type Result struct {
	Variance   float64
	SE         float64
	SEPercent  float64
}

// StratumVariance is the per-stratum total variance and the Y/X
// covariance term a ratio estimate's variance needs.
type StratumVariance struct {
	StratumCN string
	VarY      float64
	VarX      float64
	CovYX     float64
}

// stratumStats computes the per-stratum sample variance/covariance of the
// numerator and denominator values and expands them to variance-of-total
// terms: Var(Total_h) = EXPNS_h^2 * n_h * s^2_yh, the simple-random-
// sampling-within-stratum formula FIA applies per estimation unit. A
// stratum with n_h <= 1 contributes exactly zero — not NaN, since a
// sample variance needs at least two observations (spec.md §4.7 edge
// case).
func stratumStats(st aggregate.StratumTotal) StratumVariance {
	n := len(st.NumeratorY)
	out := StratumVariance{StratumCN: st.StratumCN}
	if n <= 1 {
		return out
	}

	sYY := stat.Variance(st.NumeratorY, nil)
	sXX := stat.Variance(st.DenominatorX, nil)
	sYX := sampleCovariance(st.NumeratorY, st.DenominatorX)

	expnsSq := st.Expns * st.Expns
	out.VarY = expnsSq * float64(n) * sYY
	out.VarX = expnsSq * float64(n) * sXX
	out.CovYX = expnsSq * float64(n) * sYX
	return out
}

// sampleCovariance is the unbiased sample covariance of y and x, the
// counterpart to gonum's stat.Variance (which gonum does expose as
// stat.Covariance, used here directly to avoid a hand-rolled formula).
func sampleCovariance(y, x []float64) float64 {
	if len(y) <= 1 {
		return 0
	}
	return stat.Covariance(y, x, nil)
}

// TotalVariance computes the variance of a simple expanded total (e.g.
// total area, total volume) by summing each stratum's variance-of-total
// term — no ratio involved.
func TotalVariance(strata []aggregate.StratumTotal, total float64) Result {
	var varTotal float64
	for _, st := range strata {
		varTotal += stratumStats(st).VarY
	}
	return resultFrom(varTotal, total)
}

// RatioVariance computes the variance of a per-acre (or other per-unit)
// ratio estimate R = Y/X via the delta-method approximation standard to
// FIA's ratio-of-means estimator:
//
//	Var(R) ≈ (1/X²) * [Var(Y) - 2*R*Cov(Y,X) + R²*Var(X)]
//
// summed stratum-by-stratum before the outer division, since covariance
// and variance terms are both additive across independent strata.
func RatioVariance(strata []aggregate.StratumTotal, ratio, denominatorTotal float64) Result {
	if denominatorTotal == 0 {
		return Result{}
	}
	var varY, varX, covYX float64
	for _, st := range strata {
		s := stratumStats(st)
		varY += s.VarY
		varX += s.VarX
		covYX += s.CovYX
	}
	varRatio := (varY - 2*ratio*covYX + ratio*ratio*varX) / (denominatorTotal * denominatorTotal)
	if varRatio < 0 {
		// A negative variance can surface from floating-point roundoff
		// when Y and X are nearly collinear within a stratum; it is
		// never a meaningful negative variance.
		varRatio = 0
	}
	return resultFrom(varRatio, ratio)
}

func resultFrom(variance, estimate float64) Result {
	se := math.Sqrt(variance)
	r := Result{Variance: variance, SE: se}
	if estimate != 0 {
		r.SEPercent = (se / math.Abs(estimate)) * 100
	}
	return r
}
