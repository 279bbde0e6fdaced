package impute

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMatrix(rows [][]float64) *Matrix {
	r := len(rows)
	c := len(rows[0])
	m := NewMatrix(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.Set(i, j, rows[i][j])
		}
	}
	return m
}

func TestKNNImputation3x3(t *testing.T) {
	m := mustMatrix([][]float64{
		{1, 2, 3},
		{4, math.NaN(), 6},
		{7, 8, 9},
	})
	res, err := Impute(m, MethodKNN, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.FilledCells)
	assert.InDelta(t, 5.0, res.Imputed.At(1, 1), 1e-6)
}

func TestMeanImputeEmptyColumn(t *testing.T) {
	m := mustMatrix([][]float64{
		{math.NaN(), 1},
		{math.NaN(), 2},
	})
	res, err := Impute(m, MethodMean, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Imputed.At(0, 0))
	assert.Equal(t, 0.0, res.Imputed.At(1, 0))
}

func TestImputeCompleteMatrixIsIdentity(t *testing.T) {
	m := mustMatrix([][]float64{
		{1, 2},
		{3, 4},
	})
	res, err := Impute(m, "auto", 1)
	require.NoError(t, err)
	assert.Equal(t, MethodNone, res.Method)
	assert.Equal(t, 0, res.FilledCells)
}

func TestMiceNeverOverwritesObserved(t *testing.T) {
	m := mustMatrix([][]float64{
		{1, 2, 3},
		{2, 4, math.NaN()},
		{3, 6, 9},
		{4, 8, 12},
		{5, 10, 15},
	})
	res, err := Impute(m, MethodMICE, 7)
	require.NoError(t, err)
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			if !isMissing(m.At(i, j)) {
				assert.Equal(t, m.At(i, j), res.Imputed.At(i, j))
			}
		}
	}
}

func TestAutoSelectAllFinite(t *testing.T) {
	m := NewMatrix(30, 3)
	for i := 0; i < 30; i++ {
		m.Set(i, 0, float64(i))
		m.Set(i, 1, float64(i)*2)
		if i%5 == 0 {
			m.Set(i, 2, math.NaN())
		} else {
			m.Set(i, 2, float64(i)*3)
		}
	}
	res, err := Impute(m, "auto", 3)
	require.NoError(t, err)
	for _, v := range res.Imputed.Data {
		assert.False(t, math.IsNaN(v))
		assert.False(t, math.IsInf(v, 0))
	}
}
