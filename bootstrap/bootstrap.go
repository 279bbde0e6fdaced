// Package bootstrap is the L2 uncertainty engine (spec.md §4.8):
// percentile, BCa, and block bootstrap confidence intervals, a
// measurement-uncertainty bootstrap, and analytic uncertainty propagation.
package bootstrap

import (
	"math"
	"sort"

	"scicore/numerics"
	"scicore/scierr"
)

// Statistic summarizes a resample into a single scalar.
type Statistic func(sample []float64) float64

// Result bundles the bootstrap replicate set with the original-data
// statistic and a confidence interval.
type Result struct {
	Observed   float64
	Estimates  []float64
	CILower    float64
	CIUpper    float64
	Confidence float64
	Method     string
}

// Resample draws nSamples bootstrap resamples (with replacement) each of
// len(data), evaluates statistic on each, and returns the resulting values
// (spec.md §4.8). Parallel: independent child seeds are drawn from a single
// parent RNG, then one RNG per worker (spec.md §5), so results are
// reproducible for a fixed seed regardless of GOMAXPROCS.
func Resample(data []float64, statistic Statistic, nSamples int, seed uint64) ([]float64, error) {
	n := len(data)
	if n == 0 {
		return nil, scierr.New(scierr.Validation, "bootstrap.Resample", errEmptyData)
	}
	if nSamples <= 0 {
		return nil, scierr.New(scierr.Validation, "bootstrap.Resample", errFewSamples)
	}
	parent := numerics.NewRand(seed)
	seeds := numerics.ChildSeeds(parent, nSamples)
	estimates := make([]float64, nSamples)
	numerics.ParallelFor(nSamples, func(i int) {
		rng := numerics.NewRand(seeds[i])
		sample := make([]float64, n)
		for j := range sample {
			sample[j] = data[rng.Intn(n)]
		}
		estimates[i] = statistic(sample)
	})
	return estimates, nil
}

// PercentileCI is the alpha/2 and 1-alpha/2 order statistics of the
// bootstrap sample (spec.md §4.8).
func PercentileCI(estimates []float64, confidence float64) (lower, upper float64, err error) {
	if confidence <= 0 || confidence >= 1 {
		return 0, 0, scierr.New(scierr.ConfigError, "bootstrap.PercentileCI", errBadConfidence)
	}
	sorted := append([]float64(nil), estimates...)
	sort.Float64s(sorted)
	alpha := 1 - confidence
	lower = orderStatistic(sorted, alpha/2)
	upper = orderStatistic(sorted, 1-alpha/2)
	return lower, upper, nil
}

func orderStatistic(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo < 0 {
		lo = 0
	}
	if hi >= n {
		hi = n - 1
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

