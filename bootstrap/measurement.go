package bootstrap

import (
	"scicore/numerics"
	"scicore/scierr"
)

// MeasurementUncertainty draws nSamples resamples, each formed by
// perturbing every observed value by N(0, sigma[i]/z(confidence[i])),
// where z converts a per-point confidence level to a standard-normal
// quantile (spec.md §4.8) — i.e. sigma[i] is interpreted as the half-width
// of a confidence[i]-level interval around data[i], not a raw standard
// deviation, so it is rescaled to a 1-sigma draw before perturbing.
func MeasurementUncertainty(data, sigma, confidence []float64, statistic Statistic, nSamples int, seed uint64) ([]float64, error) {
	n := len(data)
	if n == 0 {
		return nil, scierr.New(scierr.Validation, "bootstrap.MeasurementUncertainty", errEmptyData)
	}
	if len(sigma) != n || len(confidence) != n {
		return nil, scierr.New(scierr.Validation, "bootstrap.MeasurementUncertainty", errMismatchedLengths)
	}
	if nSamples <= 0 {
		return nil, scierr.New(scierr.Validation, "bootstrap.MeasurementUncertainty", errFewSamples)
	}

	oneSigma := make([]float64, n)
	for i := range data {
		z := normalQuantileBootstrap(0.5 + confidence[i]/2)
		if z <= 0 {
			oneSigma[i] = 0
			continue
		}
		oneSigma[i] = sigma[i] / z
	}

	parent := numerics.NewRand(seed)
	seeds := numerics.ChildSeeds(parent, nSamples)
	estimates := make([]float64, nSamples)
	numerics.ParallelFor(nSamples, func(i int) {
		rng := numerics.NewRand(seeds[i])
		perturbed := make([]float64, n)
		for j := range data {
			perturbed[j] = data[j] + oneSigma[j]*rng.NormFloat64()
		}
		estimates[i] = statistic(perturbed)
	})
	return estimates, nil
}
