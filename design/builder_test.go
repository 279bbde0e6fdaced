package design

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectCoding(t *testing.T) {
	// 3 levels, reference = 0
	cols, err := EffectCoding([]int{0, 1, 2, 0}, 3, 0)
	require.NoError(t, err)
	require.Len(t, cols, 2)

	// reference rows are -1 across both columns
	assert.Equal(t, -1.0, cols[0][0])
	assert.Equal(t, -1.0, cols[1][0])
	// level 1 -> +1 in column 0, 0 in column 1
	assert.Equal(t, 1.0, cols[0][1])
	assert.Equal(t, 0.0, cols[1][1])
	// level 2 -> +1 in column 1, 0 in column 0
	assert.Equal(t, 0.0, cols[0][2])
	assert.Equal(t, 1.0, cols[1][2])
}

func TestFourierDims(t *testing.T) {
	t_ := []float64{0, 1, 2, 3}
	cols := Fourier(t_, 7, 3)
	assert.Len(t, cols, 6)
	for _, c := range cols {
		assert.Len(t, c, 4)
	}
}

func TestInteraction(t *testing.T) {
	a := [][]float64{{1, 2}, {3, 4}}
	b := [][]float64{{5, 6}}
	out := Interaction(a, b)
	require.Len(t, out, 2)
	assert.Equal(t, []float64{5, 12}, out[0])
	assert.Equal(t, []float64{15, 24}, out[1])
}

func TestAssemble(t *testing.T) {
	m := Assemble(2, [][]float64{Intercept(2)}, [][]float64{{1, 2}})
	r, c := m.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 1.0, m.At(0, 0))
	assert.Equal(t, 1.0, m.At(0, 1))
	assert.Equal(t, 2.0, m.At(1, 1))
}
