package distfit

import (
	"math"
	"sort"

	"scicore/descstats"
	"scicore/numerics"
	"scicore/scierr"
)

const mcReplicates = 100

// Fit runs maximum-likelihood estimation for the named distribution family
// against data, optionally refining parameter uncertainty via Monte Carlo
// perturbation when per-point measurement σ are supplied (spec.md §4.4).
func Fit(name string, data []float64, measurementSigma []float64) (*DistributionFit, error) {
	f, err := lookupFamily(name)
	if err != nil {
		return nil, err
	}
	return fitFamily(f, data, measurementSigma)
}

// FitAll fits every family in parallel, drops any with a non-finite AIC,
// and sorts ascending by AIC; the first entry is the best fit.
func FitAll(data []float64, measurementSigma []float64) ([]*DistributionFit, error) {
	if len(data) < 3 {
		return nil, scierr.New(scierr.Validation, "distfit.FitAll", errFewPoints)
	}
	fits := numerics.MapReduce(len(allFamilies), make([]*DistributionFit, 0, len(allFamilies)),
		func(i int) *DistributionFit {
			fit, err := fitFamily(allFamilies[i], data, measurementSigma)
			if err != nil {
				return nil
			}
			return fit
		},
		func(acc []*DistributionFit, v *DistributionFit) []*DistributionFit {
			if v == nil || !isFiniteF(v.AIC) {
				return acc
			}
			return append(acc, v)
		},
	)
	sort.Slice(fits, func(i, j int) bool { return fits[i].AIC < fits[j].AIC })
	if len(fits) == 0 {
		return nil, scierr.New(scierr.Numerical, "distfit.FitAll", errNoConverge)
	}
	return fits, nil
}

// FitBest returns the lowest-AIC fit across all families.
func FitBest(data []float64, measurementSigma []float64) (*DistributionFit, error) {
	fits, err := FitAll(data, measurementSigma)
	if err != nil {
		return nil, err
	}
	return fits[0], nil
}

func lookupFamily(name string) (family, error) {
	for _, f := range allFamilies {
		if f.name() == name {
			return f, nil
		}
	}
	return nil, scierr.New(scierr.Validation, "distfit.Fit", errUnknownFamily(name))
}

func fitFamily(f family, data []float64, measurementSigma []float64) (*DistributionFit, error) {
	if len(data) < 2 {
		return nil, scierr.New(scierr.Validation, f.name(), errFewPoints)
	}
	if !f.inSupport(data) {
		return nil, scierr.New(scierr.Validation, f.name(), errOutOfSupport)
	}

	seed := f.seed(data)
	params := boundedGradientDescent(f, data, seed)
	nll := f.negLogLikelihood(params, data)
	if !isFiniteF(nll) {
		return nil, scierr.New(scierr.Numerical, f.name(), errNonFiniteFit)
	}
	for _, p := range params {
		if !isFiniteF(p) {
			return nil, scierr.New(scierr.Numerical, f.name(), errNonFiniteFit)
		}
	}

	ll := -nll
	k := float64(len(params))
	n := float64(len(data))
	aic := 2*k - 2*ll
	bic := k*math.Log(n) - 2*ll
	ks := ksStatistic(f, params, data)

	fit := &DistributionFit{
		Name:          f.name(),
		LogLikelihood: ll,
		AIC:           aic,
		BIC:           bic,
		KSStatistic:   ks,
	}
	names := f.paramNames()
	fit.Parameters = make([]NamedParam, len(names))
	for i, nm := range names {
		fit.Parameters[i] = NamedParam{Name: nm, Value: params[i]}
	}

	if len(measurementSigma) == len(data) && len(data) > 0 && anyPositive(measurementSigma) {
		fit.ParameterSigma = measurementUncertainty(f, data, measurementSigma, params)
	}

	return fit, nil
}

// ksStatistic computes the Kolmogorov-Smirnov statistic sup|Fn(x)-F(x)|
// using the standard empirical-CDF step-function construction (checking
// both the left and right limit at every order statistic).
func ksStatistic(f family, params []float64, data []float64) float64 {
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	n := float64(len(sorted))
	maxDiff := 0.0
	for i, x := range sorted {
		fn := f.cdf(params, x)
		upper := float64(i+1) / n
		lower := float64(i) / n
		if d := math.Abs(upper - fn); d > maxDiff {
			maxDiff = d
		}
		if d := math.Abs(fn - lower); d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff
}

// measurementUncertainty perturbs each observation by N(0, sigma_i) across
// mcReplicates Monte Carlo trials, refits, and reports the sample standard
// deviation of each resulting parameter (spec.md §4.4).
func measurementUncertainty(f family, data, sigma, center []float64) []float64 {
	n := len(data)
	np := len(center)
	samples := make([][]float64, mcReplicates)
	numerics.ParallelFor(mcReplicates, func(r int) {
		rng := numerics.NewRand(uint64(r) + 1)
		perturbed := make([]float64, n)
		for i := 0; i < n; i++ {
			perturbed[i] = data[i] + rng.NormFloat64()*sigma[i]
		}
		if !f.inSupport(perturbed) {
			samples[r] = append([]float64(nil), center...)
			return
		}
		samples[r] = boundedGradientDescent(f, perturbed, center)
	})

	out := make([]float64, np)
	for j := 0; j < np; j++ {
		vals := make([]float64, mcReplicates)
		for r := 0; r < mcReplicates; r++ {
			vals[r] = samples[r][j]
		}
		out[j] = descstats.Describe(vals).StdDev
	}
	return out
}

func anyPositive(v []float64) bool {
	for _, x := range v {
		if x > 0 {
			return true
		}
	}
	return false
}
