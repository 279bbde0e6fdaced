package bootstrap

import "scicore/scierr"

const (
	MethodPercentile = "percentile"
	MethodBCa        = "bca"
	MethodBlock      = "block"
)

// ConfidenceInterval runs the bootstrap end to end: draws nSamples
// resamples with the requested method, then builds a confidence interval
// around the observed statistic (spec.md §4.8).
func ConfidenceInterval(data []float64, statistic Statistic, nSamples int, confidence float64, method string, seed uint64) (*Result, error) {
	observed := statistic(data)

	var estimates []float64
	var err error
	switch method {
	case MethodPercentile, MethodBCa, "":
		estimates, err = Resample(data, statistic, nSamples, seed)
	case MethodBlock:
		estimates, err = BlockBootstrap(data, statistic, nSamples, seed)
	default:
		return nil, scierr.New(scierr.ConfigError, "bootstrap.ConfidenceInterval", errUnknownMethod(method))
	}
	if err != nil {
		return nil, err
	}

	var lower, upper float64
	if method == MethodBCa {
		lower, upper, err = BCa(data, statistic, estimates, observed, confidence)
	} else {
		lower, upper, err = PercentileCI(estimates, confidence)
	}
	if err != nil {
		return nil, err
	}

	resolvedMethod := method
	if resolvedMethod == "" {
		resolvedMethod = MethodPercentile
	}
	return &Result{
		Observed:   observed,
		Estimates:  estimates,
		CILower:    lower,
		CIUpper:    upper,
		Confidence: confidence,
		Method:     resolvedMethod,
	}, nil
}
