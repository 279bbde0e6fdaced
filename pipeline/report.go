package pipeline

import (
	"scicore/bootstrap"
	"scicore/descstats"
	"scicore/distfit"
	"scicore/hypothesis"
	"scicore/impute"
	"scicore/prophet"
)

// ColumnReport bundles the per-column analyses the orchestrator ran.
type ColumnReport struct {
	Name             string
	Moments          descstats.Moments
	BestDistribution *distfit.DistributionFit
	MeanBootstrap    *bootstrap.Result
}

// ForecastReport is the Prophet-style training and prediction summary for
// the dataset's time column, if one is configured.
type ForecastReport struct {
	ValueColumn string
	Model       *prophet.Model
	Prediction  *prophet.Prediction
}

// GroupComparison is one factor's hypothesis-test result: a t-test when the
// factor has exactly two levels, a one-way ANOVA otherwise.
type GroupComparison struct {
	FactorName string
	ValueColumn string
	TTest      *hypothesis.TTestResult
	ANOVA      *hypothesis.OneWayResult
}

// Report is the orchestrator's output (spec.md §2/§6): one comprehensive
// view assembled from whichever L2 subsystems the dataset's shape engaged.
type Report struct {
	Columns          []ColumnReport
	Imputation       *impute.Result
	ImputedColumns   []string
	Forecasts        []ForecastReport
	GroupComparisons []GroupComparison
	NWayANOVA        *hypothesis.NWayResult
}
