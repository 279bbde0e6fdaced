// Package pipeline is the L3 orchestrator (spec.md §2, §6): it receives a
// prepared dataset, dispatches to the L2 subsystems, and assembles a
// comprehensive report. Besides the L2 engines it calls L1's descstats
// directly for per-column moments; data flows top-down and no lower layer
// imports pipeline.
package pipeline

// Dataset is the input contract: named numeric columns (NaN marks a
// missing cell), plus optional grouping factors for ANOVA/t-tests and an
// optional time column for the Prophet-style forecaster.
type Dataset struct {
	Columns map[string][]float64
	Factors map[string][]int // column name -> 0-based level per row
	TimeCol string           // name of the column holding timestamps, if any
}

// Options controls which subsystems the orchestrator engages. Zero value
// runs every applicable analysis the dataset supports.
type Options struct {
	SkipImputation bool
	SkipDistFit    bool
	SkipForecast   bool
	SkipHypothesis bool
	SkipBootstrap  bool
	BootstrapB     int     // default 1000
	Confidence     float64 // default 0.95
	Seed           uint64
	ForecastHorizon int    // number of future points to predict, default 0 (fit only)
}

func (o Options) withDefaults() Options {
	if o.BootstrapB <= 0 {
		o.BootstrapB = 1000
	}
	if o.Confidence <= 0 || o.Confidence >= 1 {
		o.Confidence = 0.95
	}
	return o
}
