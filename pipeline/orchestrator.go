package pipeline

import (
	"sort"

	"scicore/bootstrap"
	"scicore/descstats"
	"scicore/distfit"
	"scicore/hypothesis"
	"scicore/impute"
	"scicore/prophet"
	"scicore/scierr"
)

// Run sequences the L2 subsystems over ds and assembles a Report (spec.md
// §2: "the orchestrator receives a prepared dataset, dispatches to L2
// subsystems"). Steps, in order: impute missing cells across every numeric
// column jointly, then per-column descriptive stats + best-fit
// distribution + bootstrap mean CI, then (if a time column is configured)
// a Prophet-style forecast per remaining column, then (if factors are
// configured) group-comparison hypothesis tests and an N-way ANOVA.
func Run(ds *Dataset, opts Options) (*Report, error) {
	if ds == nil || len(ds.Columns) == 0 {
		return nil, scierr.New(scierr.Validation, "pipeline.Run", errEmptyDataset)
	}
	opts = opts.withDefaults()

	names := valueColumnNames(ds)
	if len(names) == 0 {
		return nil, scierr.New(scierr.Validation, "pipeline.Run", errNoValueColumns)
	}

	working, imputed, imputedNames, err := imputeAndCollect(ds, names, opts)
	if err != nil {
		return nil, err
	}

	report := &Report{Imputation: imputed, ImputedColumns: imputedNames}

	for _, name := range names {
		col := working[name]
		cr := ColumnReport{Name: name, Moments: descstats.Describe(col)}
		if !opts.SkipDistFit {
			if best, err := distfit.FitBest(col, nil); err == nil {
				cr.BestDistribution = best
			}
		}
		if !opts.SkipBootstrap {
			meanStat := func(sample []float64) float64 { return descstats.Describe(sample).Mean }
			if res, err := bootstrap.ConfidenceInterval(col, meanStat, opts.BootstrapB, opts.Confidence, bootstrap.MethodBCa, opts.Seed); err == nil {
				cr.MeanBootstrap = res
			}
		}
		report.Columns = append(report.Columns, cr)
	}

	if ds.TimeCol != "" && !opts.SkipForecast {
		t := working[ds.TimeCol]
		for _, name := range names {
			if name == ds.TimeCol {
				continue
			}
			y := working[name]
			cfg, err := prophet.AutoTune(t, y, prophet.Config{})
			if err != nil {
				continue
			}
			model, err := prophet.Fit(t, y, cfg)
			if err != nil {
				continue
			}
			fr := ForecastReport{ValueColumn: name, Model: model}
			if opts.ForecastHorizon > 0 {
				future := extrapolateTime(t, opts.ForecastHorizon)
				fr.Prediction = prophet.Predict(model, future, true, opts.Seed, nil)
			}
			report.Forecasts = append(report.Forecasts, fr)
		}
	}

	if len(ds.Factors) > 0 && !opts.SkipHypothesis {
		factorNames := sortedKeysInt(ds.Factors)
		responseCol := names[0]
		for _, name := range names {
			if !containsString(ds.Factors, name) {
				responseCol = name
				break
			}
		}
		y := working[responseCol]

		for _, fname := range factorNames {
			levels := ds.Factors[fname]
			groups := splitByLevel(y, levels)
			gc := GroupComparison{FactorName: fname, ValueColumn: responseCol}
			if len(groups) == 2 {
				if res, err := hypothesis.TwoSampleTTest(groups[0], groups[1], false); err == nil {
					gc.TTest = res
				}
			} else if len(groups) > 2 {
				if res, err := hypothesis.OneWayANOVA(groups); err == nil {
					gc.ANOVA = res
				}
			}
			report.GroupComparisons = append(report.GroupComparisons, gc)
		}

		if len(factorNames) >= 2 {
			var factors []hypothesis.Factor
			for _, fname := range factorNames {
				levels := ds.Factors[fname]
				factors = append(factors, hypothesis.Factor{
					Name:       fname,
					LevelIndex: levels,
					NumLevels:  maxLevel(levels) + 1,
				})
			}
			if nway, err := hypothesis.NWayANOVA(y, factors[:minInt(5, len(factors))]); err == nil {
				report.NWayANOVA = nway
			}
		}
	}

	return report, nil
}

func imputeAndCollect(ds *Dataset, names []string, opts Options) (map[string][]float64, *impute.Result, []string, error) {
	n := 0
	for _, name := range names {
		if len(ds.Columns[name]) > n {
			n = len(ds.Columns[name])
		}
	}
	mat := impute.NewMatrix(n, len(names))
	for j, name := range names {
		col := ds.Columns[name]
		for i := 0; i < n; i++ {
			if i < len(col) {
				mat.Set(i, j, col[i])
			}
		}
	}

	working := make(map[string][]float64, len(names))
	if opts.SkipImputation {
		for j, name := range names {
			col := make([]float64, n)
			for i := 0; i < n; i++ {
				col[i] = mat.At(i, j)
			}
			working[name] = col
		}
		return working, nil, nil, nil
	}

	result, err := impute.Impute(mat, "", opts.Seed)
	if err != nil {
		return nil, nil, nil, err
	}
	var imputedNames []string
	for j, name := range names {
		col := make([]float64, n)
		changed := false
		for i := 0; i < n; i++ {
			v := result.Imputed.At(i, j)
			col[i] = v
			if mat.At(i, j) != v {
				changed = true
			}
		}
		working[name] = col
		if changed {
			imputedNames = append(imputedNames, name)
		}
	}
	return working, result, imputedNames, nil
}

func valueColumnNames(ds *Dataset) []string {
	var names []string
	for name := range ds.Columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedKeysInt(m map[string][]int) []string {
	var keys []string
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func containsString(m map[string][]int, name string) bool {
	_, ok := m[name]
	return ok
}

func splitByLevel(y []float64, levels []int) [][]float64 {
	maxL := maxLevel(levels)
	groups := make([][]float64, maxL+1)
	for i, lvl := range levels {
		if i >= len(y) || lvl < 0 || lvl > maxL {
			continue
		}
		groups[lvl] = append(groups[lvl], y[i])
	}
	var nonEmpty [][]float64
	for _, g := range groups {
		if len(g) > 0 {
			nonEmpty = append(nonEmpty, g)
		}
	}
	return nonEmpty
}

func maxLevel(levels []int) int {
	m := 0
	for _, l := range levels {
		if l > m {
			m = l
		}
	}
	return m
}

func extrapolateTime(t []float64, horizon int) []float64 {
	n := len(t)
	if n < 2 {
		return nil
	}
	step := t[n-1] - t[n-2]
	future := make([]float64, horizon)
	for i := 0; i < horizon; i++ {
		future[i] = t[n-1] + step*float64(i+1)
	}
	return future
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
