// Package descstats is the L1 descriptive-statistics layer (spec.md §2):
// moments, quantiles, dispersion, MAD, and correlation matrices shared by
// the imputation, bootstrap, and hypothesis-testing engines. It is a thin
// idiomatic wrapper over gonum.org/v1/gonum/stat and
// gonum.org/v1/gonum/floats, the same pairing other_examples/
// d9caac32_deslum-gorse__model-svd.go.go uses.
package descstats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Moments bundles the first four sample moments of a data vector.
type Moments struct {
	Mean     float64
	Variance float64
	StdDev   float64
	Skewness float64
	Kurtosis float64
	N        int
}

// Describe computes the sample moments of x. Returns zero-value Moments
// with N=0 for an empty input.
func Describe(x []float64) Moments {
	n := len(x)
	if n == 0 {
		return Moments{}
	}
	mean := stat.Mean(x, nil)
	variance := stat.Variance(x, nil)
	sd := math.Sqrt(variance)
	var skew, kurt float64
	if n > 2 {
		skew = stat.Skew(x, nil)
	}
	if n > 3 {
		kurt = stat.ExKurtosis(x, nil)
	}
	return Moments{Mean: mean, Variance: variance, StdDev: sd, Skewness: skew, Kurtosis: kurt, N: n}
}

// Quantile returns the p-th quantile (p in [0,1]) of x using the empirical
// CDF method, matching gonum/stat's default interpolation.
func Quantile(x []float64, p float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// MAD returns the median absolute deviation of x, scaled by 1.4826 so it is
// a consistent estimator of the standard deviation under normality.
func MAD(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	med := Quantile(x, 0.5)
	devs := make([]float64, len(x))
	for i, v := range x {
		devs[i] = math.Abs(v - med)
	}
	return 1.4826 * Quantile(devs, 0.5)
}

// Range returns max(x) - min(x).
func Range(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	mn := floats.Min(x)
	mx := floats.Max(x)
	return mx - mn
}

// CorrelationMatrix builds the m×m Pearson correlation matrix of an n×m
// column-oriented dataset (columns[j] is variable j's n observations).
// Columns with zero variance produce a correlation of 0 against every other
// column (and 1 on the diagonal), avoiding a divide-by-zero NaN.
func CorrelationMatrix(columns [][]float64) *mat.SymDense {
	m := len(columns)
	out := mat.NewSymDense(m, nil)
	for i := 0; i < m; i++ {
		out.SetSym(i, i, 1)
		for j := i + 1; j < m; j++ {
			c := correlate(columns[i], columns[j])
			out.SetSym(i, j, c)
		}
	}
	return out
}

func correlate(a, b []float64) float64 {
	if len(a) != len(b) || len(a) < 2 {
		return 0
	}
	sa := stat.StdDev(a, nil)
	sb := stat.StdDev(b, nil)
	if sa == 0 || sb == 0 {
		return 0
	}
	return stat.Correlation(a, b, nil)
}
