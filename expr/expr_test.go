package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileAndEvalScalar(t *testing.T) {
	e, err := Compile("a*x + b", []string{"x", "a", "b"})
	require.NoError(t, err)

	v, err := e.EvalScalar([]float64{2, 3, 1}) // x=2, a=3, b=1 -> 3*2+1=7
	require.NoError(t, err)
	assert.InDelta(t, 7.0, v, 1e-12)
}

func TestCompileUnknownSymbol(t *testing.T) {
	_, err := e_compileExpectErr(t, "a*x + q", []string{"x", "a", "b"})
	assert.Error(t, err)
}

func e_compileExpectErr(t *testing.T, formula string, symbols []string) (*Expression, error) {
	t.Helper()
	return Compile(formula, symbols)
}

func TestEvalBatch(t *testing.T) {
	e, err := Compile("a*exp(-b*x^2)+c", []string{"x", "a", "b", "c"})
	require.NoError(t, err)

	xs := []float64{0, 1, 2}
	as := []float64{2, 2, 2}
	bs := []float64{0.7, 0.7, 0.7}
	cs := []float64{0.5, 0.5, 0.5}

	out, err := e.EvalBatch([][]float64{xs, as, bs, cs})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.InDelta(t, 2.5, out[0], 1e-9) // x=0 -> a*1+c
}

func TestGradientLinear(t *testing.T) {
	e, err := Compile("a*x+b", []string{"x", "a", "b"})
	require.NoError(t, err)

	grads, err := e.Gradient([]string{"a", "b"})
	require.NoError(t, err)

	// d/da = x, d/db = 1
	va, err := grads[0].EvalScalar([]float64{5, 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, va, 1e-12)

	vb, err := grads[1].EvalScalar([]float64{5, 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, vb, 1e-12)
}

func TestGradientIndependentVariable(t *testing.T) {
	e, err := Compile("a*exp(-b*x^2)", []string{"x", "a", "b"})
	require.NoError(t, err)

	dx, err := e.Derivative("x")
	require.NoError(t, err)

	// at x=0, d/dx[a*exp(-b*x^2)] = a*exp(0)*(-2*b*x) = 0
	v, err := dx.EvalScalar([]float64{0, 2, 0.7})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, v, 1e-9)

	// at x=1: derivative = a*exp(-b)*(-2*b)
	v2, err := dx.EvalScalar([]float64{1, 2, 0.7})
	require.NoError(t, err)
	expected := 2 * 0.4965853037914095 * (-1.4) // exp(-0.7)
	assert.InDelta(t, expected, v2, 1e-6)
}

func TestEvalBatchNonFiniteReportsPoint(t *testing.T) {
	e, err := Compile("1/x", []string{"x"})
	require.NoError(t, err)

	_, err = e.EvalBatch([][]float64{{1, 0, 2}})
	assert.Error(t, err)
}

func TestParallelBatchMatchesBatch(t *testing.T) {
	e, err := Compile("sin(x)*cos(x)", []string{"x"})
	require.NoError(t, err)

	xs := make([]float64, 200)
	for i := range xs {
		xs[i] = float64(i) * 0.01
	}

	seq, err := e.EvalBatch([][]float64{xs})
	require.NoError(t, err)
	par, err := e.EvalParallelBatch([][]float64{xs})
	require.NoError(t, err)

	require.Len(t, par, len(seq))
	for i := range seq {
		assert.InDelta(t, seq[i], par[i], 1e-12)
	}
}
