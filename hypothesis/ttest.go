// Package hypothesis is the L2 hypothesis-testing and ANOVA engine
// (spec.md §4.7): t-tests, one-way and N-way (Type III SS) ANOVA, chi-
// square tests, and power/sample-size analysis.
package hypothesis

import (
	"math"

	"scicore/descstats"
	"scicore/numerics"
	"scicore/scierr"
)

// TTestResult is the common shape every t-test returns (spec.md §4.7).
type TTestResult struct {
	T             float64
	P             float64
	DF            float64
	MeanDiff      float64
	CILower       float64
	CIUpper       float64
	CohensD       float64
	Significant   bool
}

const alpha05 = 0.05

func buildTTestResult(t, df, meanDiff, se float64) TTestResult {
	p := twoSidedTPValue(t, df)
	tc := tQuantile(1-alpha05/2, df)
	return TTestResult{
		T:           t,
		P:           p,
		DF:          df,
		MeanDiff:    meanDiff,
		CILower:     meanDiff - tc*se,
		CIUpper:     meanDiff + tc*se,
		Significant: p < alpha05,
	}
}

// OneSampleTTest tests H0: mean(x) == mu.
func OneSampleTTest(x []float64, mu float64) (*TTestResult, error) {
	n := len(x)
	if n < 2 {
		return nil, scierr.New(scierr.Validation, "hypothesis.OneSampleTTest", errFewPoints)
	}
	m := descstats.Describe(x)
	se := m.StdDev / math.Sqrt(float64(n))
	if se == 0 {
		return nil, scierr.New(scierr.Numerical, "hypothesis.OneSampleTTest", errZeroVariance)
	}
	t := (m.Mean - mu) / se
	res := buildTTestResult(t, float64(n-1), m.Mean-mu, se)
	res.CohensD = (m.Mean - mu) / m.StdDev
	return &res, nil
}

// PairedTTest is a one-sample t-test on the elementwise difference a-b.
func PairedTTest(a, b []float64) (*TTestResult, error) {
	if len(a) != len(b) {
		return nil, scierr.New(scierr.Validation, "hypothesis.PairedTTest", errLengthMismatch)
	}
	diffs := make([]float64, len(a))
	for i := range a {
		diffs[i] = a[i] - b[i]
	}
	return OneSampleTTest(diffs, 0)
}

// TwoSampleTTest tests H0: mean(a) == mean(b). If equalVariance is false,
// the Welch correction is used (spec.md §4.7).
func TwoSampleTTest(a, b []float64, equalVariance bool) (*TTestResult, error) {
	na, nb := len(a), len(b)
	if na < 2 || nb < 2 {
		return nil, scierr.New(scierr.Validation, "hypothesis.TwoSampleTTest", errFewPoints)
	}
	ma, mb := descstats.Describe(a), descstats.Describe(b)
	meanDiff := ma.Mean - mb.Mean

	var t, df, se float64
	if equalVariance {
		dfLocal := float64(na + nb - 2)
		pooledVar := (float64(na-1)*ma.Variance + float64(nb-1)*mb.Variance) / dfLocal
		se = math.Sqrt(pooledVar * (1/float64(na) + 1/float64(nb)))
		df = dfLocal
	} else {
		va, vb := ma.Variance/float64(na), mb.Variance/float64(nb)
		se = math.Sqrt(va + vb)
		num := (va + vb) * (va + vb)
		den := va*va/float64(na-1) + vb*vb/float64(nb-1)
		if den == 0 {
			df = float64(na + nb - 2)
		} else {
			df = num / den
		}
	}
	if se == 0 {
		return nil, scierr.New(scierr.Numerical, "hypothesis.TwoSampleTTest", errZeroVariance)
	}
	t = meanDiff / se

	res := buildTTestResult(t, df, meanDiff, se)
	pooledSD := math.Sqrt(((float64(na-1)*ma.Variance + float64(nb-1)*mb.Variance)) / float64(na+nb-2))
	if pooledSD > 0 {
		res.CohensD = meanDiff / pooledSD
	}
	return &res, nil
}

// twoSidedTPValue computes P(|T|>|t|) for a Student-t distributed
// statistic with df degrees of freedom, via the regularized incomplete
// beta identity (same building block numerics.FCDF already uses).
func twoSidedTPValue(t, df float64) float64 {
	xPrime := df / (df + t*t)
	ib := numerics.RegularizedIncompleteBeta(df/2, 0.5, xPrime)
	return ib
}

// tQuantile inverts the two-sided t CDF by bisection for the critical
// value at cumulative probability p (0.5 < p < 1).
func tQuantile(p float64, df float64) float64 {
	lo, hi := 0.0, 1000.0
	target := 2 * (1 - p)
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		if twoSidedTPValue(mid, df) > target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}
