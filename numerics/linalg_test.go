package numerics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSolveLeastSquares_ExactLinear(t *testing.T) {
	// y = 2x, x = 1..4
	a := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	b := mat.NewDense(4, 1, []float64{2, 4, 6, 8})

	x, err := SolveLeastSquares(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, x.At(0, 0), 1e-9)
}

func TestSolveLeastSquares_RankDeficient(t *testing.T) {
	// two identical columns: rank 1, should not error, minimum-norm solution.
	a := mat.NewDense(3, 2, []float64{1, 1, 2, 2, 3, 3})
	b := mat.NewDense(3, 1, []float64{2, 4, 6})

	x, err := SolveLeastSquares(a, b)
	require.NoError(t, err)
	// minimum norm solution splits evenly between the two identical columns
	assert.InDelta(t, x.At(0, 0), x.At(1, 0), 1e-9)
}

func TestPseudoInverse_Identity(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	pinv, err := PseudoInverse(a)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, pinv.At(0, 0), 1e-9)
	assert.InDelta(t, 1.0, pinv.At(1, 1), 1e-9)
	assert.InDelta(t, 0.0, pinv.At(0, 1), 1e-9)
}

func TestIsSymmetricPSD(t *testing.T) {
	psd := mat.NewDense(2, 2, []float64{2, 1, 1, 2})
	assert.True(t, IsSymmetricPSD(psd))

	notPSD := mat.NewDense(2, 2, []float64{1, 2, 2, 1})
	assert.False(t, IsSymmetricPSD(notPSD))
}

func TestCholeskyFactor(t *testing.T) {
	sym := mat.NewSymDense(2, []float64{4, 2, 2, 3})
	l, ok := CholeskyFactor(sym)
	require.True(t, ok)

	var recon mat.Dense
	recon.Mul(l, l.T())
	assert.InDelta(t, 4.0, recon.At(0, 0), 1e-9)
	assert.InDelta(t, 3.0, recon.At(1, 1), 1e-9)
}
