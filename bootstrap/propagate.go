package bootstrap

import (
	"math"

	"scicore/scierr"

	"gonum.org/v1/gonum/mat"
)

// fdStep is the relative step used for the central-difference gradient
// when no analytic gradient is supplied.
const fdStep = 1e-5

// Propagate computes sigma_output = sqrt(grad(f)^T * Sigma * grad(f)) at
// means (spec.md §4.8), where Sigma is built from per-variable standard
// deviations sigmas and an optional correlation matrix (nil means
// independent variables, i.e. Sigma is diagonal). grad, if non-nil, is the
// analytic gradient of f at means; otherwise a central finite-difference
// gradient is used.
func Propagate(f func([]float64) float64, means, sigmas []float64, correlation *mat.SymDense, grad func([]float64) []float64) (float64, error) {
	n := len(means)
	if n == 0 || len(sigmas) != n {
		return 0, scierr.New(scierr.Validation, "bootstrap.Propagate", errMismatchedLengths)
	}

	g := grad
	if g == nil {
		g = func(x []float64) []float64 { return finiteDifferenceGradient(f, x) }
	}
	gradient := g(means)

	sigma := buildCovariance(sigmas, correlation)

	gv := mat.NewVecDense(n, gradient)
	var sg mat.VecDense
	sg.MulVec(sigma, gv)
	variance := mat.Dot(gv, &sg)
	if variance < 0 {
		if variance < -1e-8 {
			return 0, scierr.New(scierr.Numerical, "bootstrap.Propagate", errSingularCovariance)
		}
		variance = 0
	}
	return math.Sqrt(variance), nil
}

func buildCovariance(sigmas []float64, correlation *mat.SymDense) *mat.SymDense {
	n := len(sigmas)
	cov := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			corr := 0.0
			if i == j {
				corr = 1.0
			} else if correlation != nil {
				corr = correlation.At(i, j)
			}
			cov.SetSym(i, j, corr*sigmas[i]*sigmas[j])
		}
	}
	return cov
}

func finiteDifferenceGradient(f func([]float64) float64, x []float64) []float64 {
	n := len(x)
	grad := make([]float64, n)
	for i := 0; i < n; i++ {
		h := fdStep * math.Max(1, math.Abs(x[i]))
		xPlus := append([]float64(nil), x...)
		xMinus := append([]float64(nil), x...)
		xPlus[i] += h
		xMinus[i] -= h
		grad[i] = (f(xPlus) - f(xMinus)) / (2 * h)
	}
	return grad
}
