package odr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFit_LinearODR(t *testing.T) {
	n := 50
	xs := make([]float64, n)
	ys := make([]float64, n)
	sx := make([]float64, n)
	sy := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = float64(i)
		ys[i] = 2.5*xs[i] - 4
		sx[i] = 0.1
		sy[i] = 0.2
	}

	req := &OdrFitRequest{
		Formula:       "a*x + b",
		DependentName: "y",
		Independent: []IndependentVariable{
			{Name: "x", Values: xs, Uncertainty: sx},
		},
		Observed:            ys,
		ObservedUncertainty: sy,
		ParameterNames:      []string{"a", "b"},
		InitialGuess:        []float64{1, 0},
		MaxIterations:       120,
	}

	resp, err := Fit(req)
	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.InDelta(t, 2.5, resp.ParameterValues[0], 1e-6)
	assert.InDelta(t, -4.0, resp.ParameterValues[1], 1e-6)
	assert.Greater(t, resp.RSquared, 0.999999999)
}

func TestFit_GaussianLikeODR(t *testing.T) {
	var xs, ys, sy []float64
	for x := -2.0; x <= 2.0+1e-9; x += 0.05 {
		xs = append(xs, x)
		ys = append(ys, 2*math.Exp(-0.7*x*x)+0.5)
		sy = append(sy, 0.03)
	}

	req := &OdrFitRequest{
		Formula:       "a*exp(-b*x^2)+c",
		DependentName: "y",
		Independent: []IndependentVariable{
			{Name: "x", Values: xs},
		},
		Observed:            ys,
		ObservedUncertainty: sy,
		ParameterNames:      []string{"a", "b", "c"},
		InitialGuess:        []float64{1, 0.2, 0},
		MaxIterations:       600,
	}

	resp, err := Fit(req)
	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.InDelta(t, 2.0, resp.ParameterValues[0], 1e-3)
	assert.InDelta(t, 0.7, resp.ParameterValues[1], 1e-3)
	assert.InDelta(t, 0.5, resp.ParameterValues[2], 1e-3)
}

func TestFit_ZeroUncertaintyClamp(t *testing.T) {
	n := 20
	xs := make([]float64, n)
	ys := make([]float64, n)
	sx := make([]float64, n)
	sy := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = float64(i)
		ys[i] = 2.5*xs[i] - 4
	}

	req := &OdrFitRequest{
		Formula:       "a*x + b",
		DependentName: "y",
		Independent: []IndependentVariable{
			{Name: "x", Values: xs, Uncertainty: sx},
		},
		Observed:            ys,
		ObservedUncertainty: sy,
		ParameterNames:      []string{"a", "b"},
		InitialGuess:        []float64{1, 0},
		MaxIterations:       120,
	}

	resp, err := Fit(req)
	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.Contains(t, resp.Warning, "clamped")
}

func TestFit_InvalidCorrelationShape(t *testing.T) {
	n := 10
	xs := make([]float64, n)
	ys := make([]float64, n)
	badCorr := make([][][]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = float64(i)
		ys[i] = 2.5*xs[i] - 4
		badCorr[i] = [][]float64{{1.0}} // should be 2x2
	}

	req := &OdrFitRequest{
		Formula:       "a*x + b",
		DependentName: "y",
		Independent: []IndependentVariable{
			{Name: "x", Values: xs},
		},
		Observed:       ys,
		ParameterNames: []string{"a", "b"},
		Correlations:   badCorr,
	}

	_, err := Fit(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid shape")
}

func TestFit_OptimalParamsConvergeInOneIteration(t *testing.T) {
	n := 20
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = float64(i)
		ys[i] = 2.0*xs[i] + 3.0
	}

	req := &OdrFitRequest{
		Formula:        "a*x + b",
		DependentName:  "y",
		Independent:    []IndependentVariable{{Name: "x", Values: xs}},
		Observed:       ys,
		ParameterNames: []string{"a", "b"},
		InitialGuess:   []float64{2.0, 3.0},
	}

	resp, err := Fit(req)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Iterations)
	assert.InDelta(t, 2.0, resp.ParameterValues[0], 1e-8)
	assert.InDelta(t, 3.0, resp.ParameterValues[1], 1e-8)
}
