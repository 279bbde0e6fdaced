package distfit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scicore/numerics"
)

func weibullSample(n int, shape, scale float64, seed uint64) []float64 {
	rng := numerics.NewRand(seed)
	out := make([]float64, n)
	for i := range out {
		u := rng.Float64()
		out[i] = scale * math.Pow(-math.Log(1-u), 1/shape)
	}
	return out
}

func TestFitNormal(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	fit, err := Fit("normal", data, nil)
	require.NoError(t, err)
	assert.InDelta(t, 5.5, fit.Parameters[0].Value, 1e-6)
	assert.Greater(t, fit.Parameters[1].Value, 0.0)
	assert.True(t, fit.KSStatistic >= 0 && fit.KSStatistic <= 1)
}

func TestFitUnknownFamily(t *testing.T) {
	_, err := Fit("not_a_family", []float64{1, 2, 3}, nil)
	assert.Error(t, err)
}

func TestFitLogNormalRejectsNonPositive(t *testing.T) {
	_, err := Fit("lognormal", []float64{-1, 2, 3}, nil)
	assert.Error(t, err)
}

func TestWeibullBeatsNormalByAIC(t *testing.T) {
	data := weibullSample(500, 2, 3, 42)

	weibull, err := Fit("weibull", data, nil)
	require.NoError(t, err)
	normal, err := Fit("normal", data, nil)
	require.NoError(t, err)

	assert.Less(t, weibull.AIC, normal.AIC)
	assert.Greater(t, weibull.Parameters[0].Value, 0.0)
	assert.Greater(t, weibull.Parameters[1].Value, 0.0)
	assert.True(t, isFiniteF(weibull.Parameters[0].Value))
	assert.True(t, isFiniteF(weibull.Parameters[1].Value))
}

func TestFitAllSortsByAIC(t *testing.T) {
	data := weibullSample(200, 2, 3, 7)
	fits, err := FitAll(data, nil)
	require.NoError(t, err)
	require.NotEmpty(t, fits)
	for i := 1; i < len(fits); i++ {
		assert.LessOrEqual(t, fits[i-1].AIC, fits[i].AIC)
	}
}

func TestFitBestMatchesFitAllHead(t *testing.T) {
	data := weibullSample(200, 2, 3, 11)
	all, err := FitAll(data, nil)
	require.NoError(t, err)
	best, err := FitBest(data, nil)
	require.NoError(t, err)
	assert.Equal(t, all[0].Name, best.Name)
}

func TestFitMeasurementUncertainty(t *testing.T) {
	n := 60
	data := make([]float64, n)
	sigma := make([]float64, n)
	rng := numerics.NewRand(99)
	for i := range data {
		data[i] = 10 + rng.NormFloat64()*2
		sigma[i] = 0.5
	}
	fit, err := Fit("normal", data, sigma)
	require.NoError(t, err)
	require.Len(t, fit.ParameterSigma, 2)
	for _, s := range fit.ParameterSigma {
		assert.GreaterOrEqual(t, s, 0.0)
	}
}
