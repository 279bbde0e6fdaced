package prophet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func syntheticSeries(n int) ([]float64, []float64) {
	t := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		ti := float64(i)
		t[i] = ti
		y[i] = 0.1*ti + 3*math.Sin(2*math.Pi*ti/7) + 0.5*math.Sin(2*math.Pi*ti/30)
	}
	return t, y
}

func TestFitLinearTrendNoSeasonality(t *testing.T) {
	n := 40
	tt := make([]float64, n)
	yy := make([]float64, n)
	for i := 0; i < n; i++ {
		tt[i] = float64(i)
		yy[i] = 2*float64(i) + 5
	}
	m, err := Fit(tt, yy, Config{})
	require.NoError(t, err)
	assert.NotEmpty(t, m.Trend)

	pred := Predict(m, []float64{float64(n), float64(n + 1)}, false, 0, nil)
	assert.InDelta(t, 2*float64(n)+5, pred.Point[0], 2.0)
}

func TestFitWithWeeklySeasonality(t *testing.T) {
	tt, yy := syntheticSeries(90)
	cfg := Config{Seasonalities: []SeasonalityConfig{{Name: "weekly", Period: 7}}}
	m, err := Fit(tt, yy, cfg)
	require.NoError(t, err)
	require.Len(t, m.Seasonals, 1)

	future := []float64{90, 91, 92}
	pred := Predict(m, future, false, 0, nil)
	assert.Len(t, pred.Point, 3)
	for _, v := range pred.Point {
		assert.False(t, math.IsNaN(v))
	}
}

func TestPredictMCMCIntervalOrdering(t *testing.T) {
	tt, yy := syntheticSeries(60)
	cfg := Config{Seasonalities: []SeasonalityConfig{{Name: "weekly", Period: 7}}}
	m, err := Fit(tt, yy, cfg)
	require.NoError(t, err)

	future := []float64{60, 61}
	pred := Predict(m, future, true, 42, nil)
	require.NotEmpty(t, pred.Lower95)
	for i := range future {
		assert.LessOrEqual(t, pred.Lower95[i], pred.Lower80[i]+1e-9)
		assert.LessOrEqual(t, pred.Lower80[i], pred.Upper80[i]+1e-9)
		assert.LessOrEqual(t, pred.Upper80[i], pred.Upper95[i]+1e-9)
	}
}

func TestPeltDetectsObviousChangepoint(t *testing.T) {
	y := make([]float64, 40)
	for i := range y {
		if i < 20 {
			y[i] = 1
		} else {
			y[i] = 10
		}
	}
	cps := pelt(y, 1.0)
	assert.NotEmpty(t, cps)
	assert.InDelta(t, 20, cps[0], 3)
}

func TestHolidayEffectShrinksTowardZero(t *testing.T) {
	residual := []float64{0, 0, 5, 0, 0, 0, 5, 0}
	holidays := []HolidayConfig{{Name: "spike", Indices: []int{2, 6}}}
	fits, _ := fitHolidays(residual, holidays, 10)
	require.Len(t, fits, 1)
	assert.Greater(t, fits[0].Effect, 0.0)
	assert.Less(t, fits[0].Effect, 5.0)
}
