package hypothesis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOneSampleTTestRejectsKnownShift(t *testing.T) {
	x := []float64{5.1, 5.3, 4.9, 5.2, 5.0, 5.4, 5.1, 4.8, 5.3, 5.2}
	res, err := OneSampleTTest(x, 4.0)
	require.NoError(t, err)
	assert.True(t, res.Significant)
	assert.Less(t, res.P, 0.05)
}

func TestOneSampleTTestFailsOnSinglePoint(t *testing.T) {
	_, err := OneSampleTTest([]float64{1.0}, 0)
	assert.Error(t, err)
}

func TestTwoSampleTTestWelchVsPooled(t *testing.T) {
	a := []float64{10, 11, 9, 10, 12, 11, 10}
	b := []float64{20, 21, 19, 22, 20, 21, 20}
	pooled, err := TwoSampleTTest(a, b, true)
	require.NoError(t, err)
	welch, err := TwoSampleTTest(a, b, false)
	require.NoError(t, err)
	assert.True(t, pooled.Significant)
	assert.True(t, welch.Significant)
	assert.InDelta(t, pooled.MeanDiff, welch.MeanDiff, 1e-9)
}

func TestPairedTTestMatchesOneSampleOnDifference(t *testing.T) {
	before := []float64{10, 12, 11, 13, 9}
	after := []float64{12, 13, 12, 15, 11}
	res, err := PairedTTest(before, after)
	require.NoError(t, err)
	assert.True(t, res.Significant)
	assert.Less(t, res.MeanDiff, 0.0)

	diffs := make([]float64, len(before))
	for i := range before {
		diffs[i] = before[i] - after[i]
	}
	one, err := OneSampleTTest(diffs, 0)
	require.NoError(t, err)
	assert.InDelta(t, one.T, res.T, 1e-12)
	assert.InDelta(t, one.P, res.P, 1e-12)
}

func TestOneWayANOVADetectsGroupDifferences(t *testing.T) {
	groups := [][]float64{
		{1, 2, 1.5, 2.5, 1.8},
		{5, 6, 5.5, 6.5, 5.8},
		{10, 11, 10.5, 11.5, 10.8},
	}
	res, err := OneWayANOVA(groups)
	require.NoError(t, err)
	assert.Less(t, res.P, 0.05)
	assert.True(t, res.EtaSquared > 0.9)
	assert.Len(t, res.PostHoc, 3)
	for _, ph := range res.PostHoc {
		assert.True(t, ph.Significant)
	}
}

func TestOneWayANOVARejectsSingleGroup(t *testing.T) {
	_, err := OneWayANOVA([][]float64{{1, 2, 3}})
	assert.Error(t, err)
}

// TestNWayANOVABalanced2x2 is the spec's concrete scenario: a balanced 2x2
// design with strong main effects and a negligible interaction should
// produce significant main-effect p-values (<0.05) and a non-significant
// interaction (>=0.05).
func TestNWayANOVABalanced2x2(t *testing.T) {
	// Factor A shifts the mean by +10, factor B by +5, no interaction,
	// small noise, 5 replicates per cell.
	var y []float64
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
	factors := []Factor{
		{Name: "A", LevelIndex: aIdx, NumLevels: 2, ReferenceIdx: 0},
		{Name: "B", LevelIndex: bIdx, NumLevels: 2, ReferenceIdx: 0},
	}
	res, err := NWayANOVA(y, factors)
	require.NoError(t, err)
	require.Len(t, res.Effects, 2)
	require.Len(t, res.Interactions, 1)
	for _, e := range res.Effects {
		assert.Less(t, e.P, 0.05, "main effect %s should be significant", e.Name)
	}
	assert.GreaterOrEqual(t, res.Interactions[0].P, 0.05)
}

func TestNWayANOVARejectsTooFewFactors(t *testing.T) {
	_, err := NWayANOVA([]float64{1, 2, 3}, []Factor{{Name: "A", LevelIndex: []int{0, 1, 0}, NumLevels: 2}})
	assert.Error(t, err)
}

func TestGoodnessOfFitUniform(t *testing.T) {
	observed := []float64{95, 105, 100, 98, 102}
	expected := []float64{100, 100, 100, 100, 100}
	res, err := GoodnessOfFit(observed, expected)
	require.NoError(t, err)
	assert.False(t, res.Significant)
	assert.Equal(t, 4.0, res.DF)
}

func TestGoodnessOfFitRejectsNonPositiveExpected(t *testing.T) {
	_, err := GoodnessOfFit([]float64{1, 2}, []float64{0, 3})
	assert.Error(t, err)
}

func TestIndependenceDetectsAssociation(t *testing.T) {
	table := [][]float64{
		{50, 10},
		{10, 50},
	}
	res, err := Independence(table)
	require.NoError(t, err)
	assert.True(t, res.Significant)
	assert.Equal(t, 1.0, res.DF)
}

func TestOneSampleTTestPowerIncreasesWithEffectAndN(t *testing.T) {
	small := OneSampleTTestPower(0.2, 10, 0.05)
	large := OneSampleTTestPower(0.8, 100, 0.05)
	assert.Less(t, small, large)
	assert.GreaterOrEqual(t, large, 0.9)
}

func TestSampleSizeForTTestPowerMonotonic(t *testing.T) {
	nSmallEffect := SampleSizeForTTestPower(0.2, 0.8, 0.05, false)
	nLargeEffect := SampleSizeForTTestPower(0.8, 0.8, 0.05, false)
	assert.Greater(t, nSmallEffect, nLargeEffect)
}

func TestChiSquareTestPowerIncreasesWithLambda(t *testing.T) {
	lowPower := ChiSquareTestPower(1, 3, 0.05)
	highPower := ChiSquareTestPower(50, 3, 0.05)
	assert.Less(t, lowPower, highPower)
}
