package hypothesis

import (
	"math"

	"scicore/numerics"
)

// PowerResult is the outcome of a power or sample-size computation.
type PowerResult struct {
	Power      float64
	SampleSize int
}

// criticalZ is the two-sided standard-normal critical value at alpha.
func criticalZ(alphaLevel float64) float64 {
	return normalQuantile(1 - alphaLevel/2)
}

// normalQuantile inverts the standard normal CDF by bisection over erf.
func normalQuantile(p float64) float64 {
	lo, hi := -10.0, 10.0
	for i := 0; i < 100; i++ {
		mid := (lo + hi) / 2
		cdf := 0.5 * (1 + numerics.Erf(mid/math.Sqrt2))
		if cdf < p {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// OneSampleTTestPower approximates power for a one-sample t-test using the
// normal approximation to the noncentral t distribution: noncentrality
// delta = effectSize*sqrt(n), power = P(Z > zAlpha - delta) (spec.md
// §4.7 "analytical ... approximations").
func OneSampleTTestPower(effectSize float64, n int, alphaLevel float64) float64 {
	delta := effectSize * math.Sqrt(float64(n))
	z := criticalZ(alphaLevel)
	return 0.5 * (1 + numerics.Erf((delta-z)/math.Sqrt2))
}

// TwoSampleTTestPower approximates power for a two-sample equal-n t-test.
func TwoSampleTTestPower(effectSize float64, nPerGroup int, alphaLevel float64) float64 {
	delta := effectSize * math.Sqrt(float64(nPerGroup)/2)
	z := criticalZ(alphaLevel)
	return 0.5 * (1 + numerics.Erf((delta-z)/math.Sqrt2))
}

// SampleSizeForTTestPower inverts OneSampleTTestPower / TwoSampleTTestPower
// for the smallest per-group n reaching targetPower, by linear search
// bounded at 100000 (these are small numerical inversions, not worth a
// root finder).
func SampleSizeForTTestPower(effectSize, targetPower, alphaLevel float64, twoSample bool) int {
	for n := 2; n <= 100000; n++ {
		var power float64
		if twoSample {
			power = TwoSampleTTestPower(effectSize, n, alphaLevel)
		} else {
			power = OneSampleTTestPower(effectSize, n, alphaLevel)
		}
		if power >= targetPower {
			return n
		}
	}
	return 100000
}

// OneWayANOVAPower approximates power for a one-way ANOVA with k groups,
// nPerGroup each, and Cohen's f effect size: noncentrality lambda =
// f^2*n*k, and the noncentral F is approximated by a central F scaled by
// (df1+lambda)/df1 with numerator df (df1+lambda)^2/(df1+2*lambda)
// (Patnaik's approximation; see numerics.FCDF).
func OneWayANOVAPower(cohensF float64, k, nPerGroup int, alphaLevel float64) float64 {
	df1 := float64(k - 1)
	df2 := float64(k*nPerGroup - k)
	lambda := cohensF * cohensF * float64(k*nPerGroup)
	fCrit := fQuantile(1-alphaLevel, df1, df2)
	shiftedF := fCrit * df1 / (df1 + lambda)
	return 1 - numerics.FCDF(shiftedF, df1+lambda*lambda/(df1+2*lambda), df2)
}

func fQuantile(p float64, df1, df2 float64) float64 {
	lo, hi := 0.0, 1000.0
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		if numerics.FCDF(mid, df1, df2) < p {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// ChiSquareTestPower approximates power for a chi-square test with df
// degrees of freedom and noncentrality lambda (effect size squared times
// N), via a normal approximation to the noncentral chi-square.
func ChiSquareTestPower(lambda float64, df int, alphaLevel float64) float64 {
	chiCrit := chiSquareQuantile(1-alphaLevel, float64(df))
	mean := float64(df) + lambda
	variance := 2*float64(df) + 4*lambda
	z := (chiCrit - mean) / math.Sqrt(variance)
	return 1 - (0.5 * (1 + numerics.Erf(z/math.Sqrt2)))
}

func chiSquareQuantile(p float64, df float64) float64 {
	lo, hi := 0.0, 10000.0
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		if numerics.ChiSquareCDF(mid, df) < p {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}
