package prophet

import (
	"math"

	"scicore/descstats"
	"scicore/scierr"
)

// Fit trains a Prophet-style model on (t, y): PELT changepoint detection,
// piecewise trend, then sequential Fourier-seasonality and holiday fits on
// the trend residual (spec.md §4.6).
func Fit(t, y []float64, cfg Config) (*Model, error) {
	if len(t) != len(y) {
		return nil, scierr.New(scierr.Validation, "prophet.Fit", errLengthMismatch)
	}
	if len(t) < 4 {
		return nil, scierr.New(scierr.Validation, "prophet.Fit", errFewPoints)
	}
	cfg = cfg.withDefaults()

	changepoints := pelt(y, cfg.ChangepointPenalty)
	bounds := segmentBounds(len(y), changepoints)
	trendSegs := fitTrend(t, y, bounds, cfg)

	residual := make([]float64, len(y))
	for i := range y {
		residual[i] = y[i] - trendAt(trendSegs, t, t[i])
	}

	var seasonals []seasonalFit
	for _, sc := range cfg.Seasonalities {
		fit, fitted := fitSeasonality(t, residual, sc, cfg.SeasonalityScale)
		seasonals = append(seasonals, fit)
		for i := range residual {
			residual[i] -= fitted[i]
		}
	}

	holidayFits, afterHolidays := fitHolidays(residual, cfg.Holidays, cfg.HolidayPriorScale)
	residual = afterHolidays

	return &Model{
		Config:        cfg,
		T:             t,
		Y:             y,
		Changepoints:  changepoints,
		Trend:         trendSegs,
		Seasonals:     seasonals,
		Holidays:      holidayFits,
		Residuals:     residual,
		ResidualSigma: descstats.Describe(residual).StdDev,
	}, nil
}

// Predict evaluates trend + seasonality + holidays at each future
// timestamp, optionally with MCMC predictive intervals (spec.md §4.6).
// futureHolidayIndices maps a holiday name to the future-batch indices
// (into futureT) it falls on; holidays absent from the map contribute zero.
func Predict(m *Model, futureT []float64, withIntervals bool, mcmcSeed uint64, futureHolidayIndices map[string][]int) *Prediction {
	pred := &Prediction{T: futureT}
	pred.Trend = make([]float64, len(futureT))
	pred.Seasonal = make([]float64, len(futureT))
	pred.Holiday = make([]float64, len(futureT))
	pred.Point = make([]float64, len(futureT))

	for i, t := range futureT {
		trend := trendAt(m.Trend, m.T, t)
		seasonal := 0.0
		for _, fit := range m.Seasonals {
			seasonal += seasonalAt(fit, t)
		}
		holiday := holidayEffectAt(m.Holidays, futureHolidayIndices, i)

		pred.Trend[i] = trend
		pred.Seasonal[i] = seasonal
		pred.Holiday[i] = holiday
		pred.Point[i] = trend + seasonal + holiday
	}

	if withIntervals && len(m.Seasonals) > 0 {
		samples := runMCMC(m, futureT, mcmcSeed)
		qs := percentiles(samples, len(futureT), []float64{2.5, 10, 90, 97.5})
		pred.Lower95, pred.Lower80, pred.Upper80, pred.Upper95 = qs[0], qs[1], qs[2], qs[3]
	}
	return pred
}

// AutoTune grid-searches changepoint_scale x seasonality_scale over 3-fold
// forward-chained cross-validation, scoring by held-out MSE, and returns
// the configuration achieving the minimum (spec.md §4.6).
func AutoTune(t, y []float64, base Config) (Config, error) {
	changepointGrid := []float64{1e-3, 0.01, 0.1, 0.5}
	seasonalityGrid := []float64{0.1, 1, 10, 100}

	bestScore := math.Inf(1)
	best := base.withDefaults()
	for _, cp := range changepointGrid {
		for _, sc := range seasonalityGrid {
			cfg := base
			cfg.ChangepointPenalty = cp
			cfg.SeasonalityScale = sc
			cfg = cfg.withDefaults()
			score, ok := forwardChainedCV(t, y, cfg)
			if ok && score < bestScore {
				bestScore = score
				best = cfg
			}
		}
	}
	return best, nil
}

func forwardChainedCV(t, y []float64, cfg Config) (float64, bool) {
	const folds = 3
	n := len(t)
	if n < folds+2 {
		return 0, false
	}
	foldSize := n / (folds + 1)
	if foldSize < 2 {
		return 0, false
	}

	var sumSq float64
	count := 0
	for f := 1; f <= folds; f++ {
		trainEnd := foldSize * f
		testEnd := trainEnd + foldSize
		if testEnd > n {
			testEnd = n
		}
		if trainEnd >= testEnd {
			continue
		}
		model, err := Fit(t[:trainEnd], y[:trainEnd], cfg)
		if err != nil {
			continue
		}
		pred := Predict(model, t[trainEnd:testEnd], false, 0, nil)
		for i, yhat := range pred.Point {
			d := yhat - y[trainEnd+i]
			sumSq += d * d
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sumSq / float64(count), true
}
