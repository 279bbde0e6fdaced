package odr

import (
	"math"

	"scicore/numerics"
	"scicore/scierr"
)

const (
	defaultMaxIterations = 200
	minMaxIterations     = 5
	maxMaxIterations     = 5000
)

// Fit runs the full ODR pipeline: prepare data, compile-or-fetch the model,
// run Levenberg-Marquardt, and build the caller-facing response (spec.md
// §4.3 "Post-processing").
func Fit(req *OdrFitRequest) (*OdrFitResponse, error) {
	data, indepNames, depName, paramNames, err := prepareData(req)
	if err != nil {
		return nil, err
	}

	model, err := getOrCompile(req.Formula, indepNames, paramNames)
	if err != nil {
		return nil, err
	}

	maxIter := defaultMaxIterations
	if req.MaxIterations > 0 {
		maxIter = clampInt(req.MaxIterations, minMaxIterations, maxMaxIterations)
	}

	p0 := make([]float64, len(paramNames))
	if req.InitialGuess != nil {
		if len(req.InitialGuess) != len(paramNames) {
			return nil, scierr.New(scierr.Validation, "Fit: initial guess length mismatch", nil)
		}
		copy(p0, req.InitialGuess)
	}

	result, err := levenbergMarquardt(model, data, p0, maxIter)
	if err != nil {
		return nil, err
	}

	return buildResponse(model, data, result, depName, indepNames), nil
}

func buildResponse(model *CompiledModel, data *PreparedData, result *solveResult, depName string, indepNames []string) *OdrFitResponse {
	np := len(model.ParameterNames)
	n := data.N

	N, _ := normalEquations(result.eval.WeightedJacobian, result.eval.WeightedResiduals, np)
	dfInt := n - np
	df := float64(dfInt)

	var reducedChi2 float64
	if dfInt > 0 {
		reducedChi2 = result.eval.ChiSquare / df
	} else {
		reducedChi2 = math.NaN()
	}

	var sigma []float64
	var covWarning string
	cov, err := numerics.PseudoInverse(N)
	if err != nil {
		covWarning = "parameter covariance could not be computed"
		sigma = make([]float64, np)
		for i := range sigma {
			sigma[i] = math.NaN()
		}
	} else {
		scale := 1.0
		if dfInt > 0 {
			scale = math.Max(reducedChi2, 0)
		}
		sigma = make([]float64, np)
		for i := 0; i < np; i++ {
			v := cov.At(i, i) * scale
			if v < 0 {
				v = 0
			}
			sigma[i] = math.Sqrt(v)
		}
	}

	sumSqResid := 0.0
	for _, r := range result.eval.Residuals {
		sumSqResid += r * r
	}
	rmse := math.Sqrt(sumSqResid / float64(n))

	mean := 0.0
	for _, y := range data.Observed {
		mean += y
	}
	mean /= float64(n)
	totalSS := 0.0
	for _, y := range data.Observed {
		totalSS += (y - mean) * (y - mean)
	}
	var rSquared float64
	if totalSS == 0 {
		rSquared = 1
	} else {
		rSquared = 1 - sumSqResid/totalSS
	}

	warning := ""
	if data.Clamped {
		warning = appendWarning(warning, "uncertainties were clamped to the minimum variance floor")
	}
	if dfInt <= 0 {
		warning = appendWarning(warning, "degrees of freedom <= 0; reduced chi-square is undefined")
	}
	if covWarning != "" {
		warning = appendWarning(warning, covWarning)
	}

	return &OdrFitResponse{
		Success:          true,
		Warning:          warning,
		Iterations:       result.iterations,
		Formula:          model.Formula,
		DependentName:    depName,
		IndependentNames: indepNames,
		ParameterNames:   model.ParameterNames,
		ParameterValues:  result.params,
		ParameterSigma:   sigma,
		Residuals:        result.eval.Residuals,
		Fitted:           result.eval.Fitted,
		ChiSquare:        result.eval.ChiSquare,
		ReducedChiSquare: reducedChi2,
		RMSE:             rmse,
		RSquared:         rSquared,
	}
}

func appendWarning(existing, add string) string {
	if existing == "" {
		return add
	}
	return existing + "; " + add
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

