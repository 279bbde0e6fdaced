package prophet

import (
	"math"

	"scicore/design"
	"scicore/numerics"

	"gonum.org/v1/gonum/mat"
)

// fitSeasonality detrends the residual series with an OLS line, builds a
// Fourier design matrix with K = clamp(log2(period), 3, 10) harmonics, and
// fits ridge regression with prior scale lambda (spec.md §4.6).
func fitSeasonality(t, residual []float64, cfg SeasonalityConfig, lambda float64) (seasonalFit, []float64) {
	a, b := olsLine(t, residual)
	detrended := make([]float64, len(residual))
	for i := range residual {
		detrended[i] = residual[i] - (a*t[i] + b)
	}

	harmonics := clampInt(int(math.Log2(cfg.Period)), 3, 10)
	cols := design.Fourier(t, cfg.Period, harmonics)
	X := design.Assemble(len(t), cols)
	coeffs := ridgeSolve(X, detrended, lambda)

	fit := seasonalFit{Name: cfg.Name, Period: cfg.Period, Harmonics: harmonics, Coeffs: coeffs, DetrendA: a, DetrendB: b}

	fitted := make([]float64, len(t))
	for i := range t {
		fitted[i] = seasonalAt(fit, t[i])
	}
	return fit, fitted
}

// ridgeSolve minimizes ||Xb-y||^2 + lambda||b||^2 via the augmented-design
// SVD trick, the same pattern impute's MICE-lite regression uses.
func ridgeSolve(X *mat.Dense, y []float64, lambda float64) []float64 {
	n, p := X.Dims()
	aug := mat.NewDense(n+p, p, nil)
	aug.Copy(X)
	bAug := mat.NewDense(n+p, 1, nil)
	for i := 0; i < n; i++ {
		bAug.Set(i, 0, y[i])
	}
	lambdaRoot := math.Sqrt(lambda)
	for i := 0; i < p; i++ {
		aug.Set(n+i, i, lambdaRoot)
	}
	sol, err := numerics.SolveLeastSquares(aug, bAug)
	if err != nil {
		return make([]float64, p)
	}
	out := make([]float64, p)
	for i := 0; i < p; i++ {
		out[i] = sol.At(i, 0)
	}
	return out
}

// seasonalAt evaluates a fitted Fourier seasonal component at t (periodic
// extension; the OLS detrend line is NOT re-added here — callers combine
// trend and seasonal components separately).
func seasonalAt(fit seasonalFit, t float64) float64 {
	sum := 0.0
	for k := 1; k <= fit.Harmonics; k++ {
		theta := 2 * math.Pi * float64(k) * t / fit.Period
		sum += fit.Coeffs[2*(k-1)]*math.Sin(theta) + fit.Coeffs[2*(k-1)+1]*math.Cos(theta)
	}
	return sum
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
