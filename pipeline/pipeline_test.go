package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBasicDatasetProducesColumnReports(t *testing.T) {
	ds := &Dataset{
		Columns: map[string][]float64{
			"height": {160, 165, 170, 175, 180, 172, 168, 163, 177, 182},
			"weight": {60, 63, 68, 72, 78, 70, 65, 61, 75, 80},
		},
	}
	report, err := Run(ds, Options{})
	require.NoError(t, err)
	require.Len(t, report.Columns, 2)
	for _, cr := range report.Columns {
		assert.Equal(t, 10, cr.Moments.N)
		assert.NotNil(t, cr.BestDistribution)
		assert.NotNil(t, cr.MeanBootstrap)
	}
}

func TestRunImputesMissingCellsBeforeAnalysis(t *testing.T) {
	ds := &Dataset{
		Columns: map[string][]float64{
			"a": {1, 2, math.NaN(), 4, 5, 6, 7, 8, 9, 10},
			"b": {2, 4, 6, 8, 10, 12, 14, 16, 18, 20},
		},
	}
	report, err := Run(ds, Options{})
	require.NoError(t, err)
	require.NotNil(t, report.Imputation)
	assert.Contains(t, report.ImputedColumns, "a")
	for _, v := range report.Columns {
		if v.Name == "a" {
			assert.Equal(t, 10, v.Moments.N)
		}
	}
}

func TestRunEmptyDatasetErrors(t *testing.T) {
	_, err := Run(&Dataset{}, Options{})
	assert.Error(t, err)
}

func TestRunWithTwoLevelFactorRunsTTest(t *testing.T) {
	ds := &Dataset{
		Columns: map[string][]float64{
			"score": {1, 2, 1.5, 2.5, 1.8, 9, 10, 9.5, 10.5, 9.8},
		},
		Factors: map[string][]int{
			"group": {0, 0, 0, 0, 0, 1, 1, 1, 1, 1},
		},
	}
	report, err := Run(ds, Options{})
	require.NoError(t, err)
	require.Len(t, report.GroupComparisons, 1)
	gc := report.GroupComparisons[0]
	require.NotNil(t, gc.TTest)
	assert.True(t, gc.TTest.Significant)
}

func TestRunWithTwoFactorsRunsNWayANOVA(t *testing.T) {
	var y []float64
	factorA := map[string][]int{}
	var aIdx, bIdx []int
	base := []float64{0.1, -0.1, 0.05, -0.05, 0.0}
	for a := 0; a < 2; a++ {
		for b := 0; b < 2; b++ {
			for _, noise := range base {
				y = append(y, float64(a)*10+float64(b)*5+noise)
				aIdx = append(aIdx, a)
				bIdx = append(bIdx, b)
			}
		}
	}
	factorA["A"] = aIdx
	factorA["B"] = bIdx
	ds := &Dataset{
		Columns: map[string][]float64{"y": y},
		Factors: factorA,
	}
	report, err := Run(ds, Options{})
	require.NoError(t, err)
	require.NotNil(t, report.NWayANOVA)
	assert.Len(t, report.NWayANOVA.Effects, 2)
}

func TestRunWithTimeColumnForecasts(t *testing.T) {
	n := 40
	tcol := make([]float64, n)
	ycol := make([]float64, n)
	for i := 0; i < n; i++ {
		tcol[i] = float64(i)
		ycol[i] = 2.0*float64(i) + 10
	}
	ds := &Dataset{
		Columns: map[string][]float64{"t": tcol, "y": ycol},
		TimeCol: "t",
	}
	report, err := Run(ds, Options{ForecastHorizon: 5, SkipDistFit: true, SkipBootstrap: true})
	require.NoError(t, err)
	require.Len(t, report.Forecasts, 1)
	fr := report.Forecasts[0]
	assert.Equal(t, "y", fr.ValueColumn)
	require.NotNil(t, fr.Model)
	require.NotNil(t, fr.Prediction)
	assert.Len(t, fr.Prediction.Point, 5)
}
