package descstats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	m := Describe([]float64{1, 2, 3, 4, 5})
	assert.InDelta(t, 3.0, m.Mean, 1e-9)
	assert.Equal(t, 5, m.N)
}

func TestQuantileMedian(t *testing.T) {
	q := Quantile([]float64{1, 2, 3, 4, 5}, 0.5)
	assert.InDelta(t, 3.0, q, 1e-9)
}

func TestMAD(t *testing.T) {
	mad := MAD([]float64{1, 2, 3, 4, 5})
	assert.Greater(t, mad, 0.0)
}

func TestCorrelationMatrixIdentityLikeForPerfectCorrelation(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{2, 4, 6, 8, 10}
	m := CorrelationMatrix([][]float64{a, b})
	assert.InDelta(t, 1.0, m.At(0, 1), 1e-9)
}

func TestCorrelationMatrixZeroVariance(t *testing.T) {
	a := []float64{1, 1, 1, 1}
	b := []float64{1, 2, 3, 4}
	m := CorrelationMatrix([][]float64{a, b})
	assert.Equal(t, 0.0, m.At(0, 1))
}
