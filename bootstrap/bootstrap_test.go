package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonum.org/v1/gonum/mat"
)

func mean(x []float64) float64 {
	s := 0.0
	for _, v := range x {
		s += v
	}
	return s / float64(len(x))
}

func TestResampleDeterministicForFixedSeed(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	a, err := Resample(data, mean, 200, 42)
	require.NoError(t, err)
	b, err := Resample(data, mean, 200, 42)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestResampleRejectsEmptyData(t *testing.T) {
	_, err := Resample(nil, mean, 100, 1)
	assert.Error(t, err)
}

func TestPercentileCIBracketsTrueMean(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5}
	estimates, err := Resample(data, mean, 2000, 7)
	require.NoError(t, err)
	lower, upper, err := PercentileCI(estimates, 0.95)
	require.NoError(t, err)
	assert.LessOrEqual(t, lower, upper)
	assert.LessOrEqual(t, lower, 3.0)
	assert.GreaterOrEqual(t, upper, 3.0)
}

// TestBCaBracketsKnownMean is the spec's concrete scenario: for x =
// {1,2,3,4,5} and statistic = mean, B = 1000, 95% confidence, the returned
// interval brackets 3.0.
func TestBCaBracketsKnownMean(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5}
	observed := mean(data)
	estimates, err := Resample(data, mean, 1000, 99)
	require.NoError(t, err)
	lower, upper, err := BCa(data, mean, estimates, observed, 0.95)
	require.NoError(t, err)
	assert.LessOrEqual(t, lower, upper)
	assert.LessOrEqual(t, lower, 3.0)
	assert.GreaterOrEqual(t, upper, 3.0)
}

func TestBlockBootstrapPreservesLength(t *testing.T) {
	data := make([]float64, 25)
	for i := range data {
		data[i] = float64(i)
	}
	estimates, err := BlockBootstrap(data, mean, 300, 3)
	require.NoError(t, err)
	assert.Len(t, estimates, 300)
}

func TestMeasurementUncertaintyWidensWithLargerSigma(t *testing.T) {
	data := []float64{10, 10, 10, 10, 10}
	conf := []float64{0.95, 0.95, 0.95, 0.95, 0.95}
	tight, err := MeasurementUncertainty(data, []float64{0.01, 0.01, 0.01, 0.01, 0.01}, conf, mean, 500, 11)
	require.NoError(t, err)
	loose, err := MeasurementUncertainty(data, []float64{5, 5, 5, 5, 5}, conf, mean, 500, 11)
	require.NoError(t, err)
	_, tightUpper, _ := PercentileCI(tight, 0.95)
	tightLower, _, _ := PercentileCI(tight, 0.95)
	_, looseUpper, _ := PercentileCI(loose, 0.95)
	looseLower, _, _ := PercentileCI(loose, 0.95)
	assert.Less(t, looseUpper-looseLower, 1000.0) // sanity: finite
	assert.Greater(t, looseUpper-looseLower, tightUpper-tightLower)
}

func TestConfidenceIntervalBCaMethod(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5}
	res, err := ConfidenceInterval(data, mean, 1000, 0.95, MethodBCa, 5)
	require.NoError(t, err)
	assert.Equal(t, 3.0, res.Observed)
	assert.LessOrEqual(t, res.CILower, 3.0)
	assert.GreaterOrEqual(t, res.CIUpper, 3.0)
}

func TestConfidenceIntervalRejectsUnknownMethod(t *testing.T) {
	data := []float64{1, 2, 3}
	_, err := ConfidenceInterval(data, mean, 100, 0.95, "bogus", 1)
	assert.Error(t, err)
}

func TestPropagateIndependentVariablesMatchesSumOfSquares(t *testing.T) {
	f := func(x []float64) float64 { return x[0] + x[1] }
	sigma, err := Propagate(f, []float64{1, 2}, []float64{0.5, 0.3}, nil, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.5831, sigma, 1e-3) // sqrt(0.5^2+0.3^2)
}

func TestPropagateWithAnalyticGradient(t *testing.T) {
	f := func(x []float64) float64 { return x[0] * x[1] }
	grad := func(x []float64) []float64 { return []float64{x[1], x[0]} }
	sigma, err := Propagate(f, []float64{2, 3}, []float64{0.1, 0.2}, nil, grad)
	require.NoError(t, err)
	assert.Greater(t, sigma, 0.0)
}

func TestPropagateWithCorrelation(t *testing.T) {
	f := func(x []float64) float64 { return x[0] + x[1] }
	corr := mat.NewSymDense(2, []float64{1, 0.9, 0.9, 1})
	sigma, err := Propagate(f, []float64{1, 2}, []float64{1, 1}, corr, nil)
	require.NoError(t, err)
	assert.Greater(t, sigma, 1.9) // positive correlation inflates variance
}
