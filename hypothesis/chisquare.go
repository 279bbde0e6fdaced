package hypothesis

import (
	"math"

	"scicore/numerics"
	"scicore/scierr"
)

// ChiSquareResult is the common shape for both goodness-of-fit and
// independence tests.
type ChiSquareResult struct {
	ChiSquare   float64
	P           float64
	DF          float64
	CramersV    float64 // goodness-of-fit only
	Residuals   [][]float64 // independence only: standardized residuals
	Significant bool
}

// GoodnessOfFit tests observed counts against expected counts (spec.md
// §4.7): chi2 = sum((O-E)^2/E), df = k-1, Cramer's V =
// sqrt(chi2/(N*min(df,N-1))).
func GoodnessOfFit(observed, expected []float64) (*ChiSquareResult, error) {
	if len(observed) != len(expected) {
		return nil, scierr.New(scierr.Validation, "hypothesis.GoodnessOfFit", errLengthMismatch)
	}
	k := len(observed)
	if k < 2 {
		return nil, scierr.New(scierr.Validation, "hypothesis.GoodnessOfFit", errTooFewGroups)
	}
	var chi2, total float64
	for i := range observed {
		if expected[i] <= 0 {
			return nil, scierr.New(scierr.Validation, "hypothesis.GoodnessOfFit", errZeroExpected)
		}
		d := observed[i] - expected[i]
		chi2 += d * d / expected[i]
		total += observed[i]
	}
	df := float64(k - 1)
	p := 1 - numerics.ChiSquareCDF(chi2, df)
	denomDF := math.Min(df, total-1)
	cv := 0.0
	if total > 0 && denomDF > 0 {
		cv = math.Sqrt(chi2 / (total * denomDF))
	}
	return &ChiSquareResult{ChiSquare: chi2, P: p, DF: df, CramersV: cv, Significant: p < alpha05}, nil
}

// Independence tests independence between the row and column categorical
// variables of a contingency table (spec.md §4.7): expected[i][j] =
// rowSum[i]*colSum[j]/grand, df = (r-1)(c-1), standardized residuals
// (O-E)/sqrt(E*(1-r_i/N)*(1-c_j/N)).
func Independence(table [][]float64) (*ChiSquareResult, error) {
	r := len(table)
	if r < 2 || len(table[0]) < 2 {
		return nil, scierr.New(scierr.Validation, "hypothesis.Independence", errTooFewGroups)
	}
	c := len(table[0])
	rowSum := make([]float64, r)
	colSum := make([]float64, c)
	var grand float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			rowSum[i] += table[i][j]
			colSum[j] += table[i][j]
			grand += table[i][j]
		}
	}
	if grand == 0 {
		return nil, scierr.New(scierr.Validation, "hypothesis.Independence", errZeroExpected)
	}

	var chi2 float64
	residuals := make([][]float64, r)
	for i := 0; i < r; i++ {
		residuals[i] = make([]float64, c)
		for j := 0; j < c; j++ {
			expected := rowSum[i] * colSum[j] / grand
			if expected <= 0 {
				continue
			}
			d := table[i][j] - expected
			chi2 += d * d / expected
			denom := expected * (1 - rowSum[i]/grand) * (1 - colSum[j]/grand)
			if denom > 0 {
				residuals[i][j] = d / math.Sqrt(denom)
			}
		}
	}
	df := float64((r - 1) * (c - 1))
	p := 1 - numerics.ChiSquareCDF(chi2, df)
	return &ChiSquareResult{ChiSquare: chi2, P: p, DF: df, Residuals: residuals, Significant: p < alpha05}, nil
}
