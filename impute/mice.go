package impute

import (
	"math"

	"scicore/descstats"
	"scicore/numerics"

	"gonum.org/v1/gonum/mat"
)

const (
	miceCycles = 10
	miceRidgeLambda = 1e-5
)

// miceImpute is the MICE-lite regression method (spec.md §4.5): start from
// the column means, then for miceCycles rounds refit every column against
// every other column by ridge regression and repredict its originally
// missing cells, never overwriting originally-observed values.
func miceImpute(m *Matrix, addNoise bool, rngSeed uint64) (*Matrix, int) {
	observed := observedMask(m)
	out, filled := meanImpute(m)
	rng := numerics.NewRand(rngSeed)

	for cycle := 0; cycle < miceCycles; cycle++ {
		for c := 0; c < m.Cols; c++ {
			trainRows, testRows := splitByObservance(observed, c)
			if len(trainRows) < 2 || len(testRows) == 0 {
				continue
			}
			coeffs, residualSigma := ridgeFit(out, c, trainRows)
			if coeffs == nil {
				continue
			}
			for _, r := range testRows {
				pred := predictRow(out, c, r, coeffs)
				if addNoise {
					pred += rng.NormFloat64() * residualSigma
				}
				if isFiniteScalar(pred) {
					out.Set(r, c, pred)
				}
			}
		}
	}
	return out, filled
}

func observedMask(m *Matrix) [][]bool {
	mask := make([][]bool, m.Rows)
	for i := range mask {
		mask[i] = make([]bool, m.Cols)
		for j := 0; j < m.Cols; j++ {
			mask[i][j] = !isMissing(m.At(i, j))
		}
	}
	return mask
}

func splitByObservance(observed [][]bool, col int) (train, test []int) {
	for i := range observed {
		if observed[i][col] {
			train = append(train, i)
		} else {
			test = append(test, i)
		}
	}
	return train, test
}

// ridgeFit solves a ridge regression of column c on every other column,
// intercept included, via SVD on the lambda-augmented design matrix (the
// standard trick: appending sqrt(lambda)*I rows with a zero response is
// equivalent to minimizing ||Xb-y||^2 + lambda||b||^2).
func ridgeFit(m *Matrix, target int, rows []int) ([]float64, float64) {
	p := m.Cols // intercept + (Cols-1) predictors, reusing Cols as the bound
	n := len(rows)
	aug := mat.NewDense(n+p, p, nil)
	bAug := mat.NewDense(n+p, 1, nil)

	for i, r := range rows {
		aug.Set(i, 0, 1)
		col := 1
		for j := 0; j < m.Cols; j++ {
			if j == target {
				continue
			}
			aug.Set(i, col, m.At(r, j))
			col++
		}
		bAug.Set(i, 0, m.At(r, target))
	}
	lambdaRoot := math.Sqrt(miceRidgeLambda)
	for i := 0; i < p; i++ {
		aug.Set(n+i, i, lambdaRoot)
		bAug.Set(n+i, 0, 0)
	}

	sol, err := numerics.SolveLeastSquares(aug, bAug)
	if err != nil {
		return nil, 0
	}
	coeffs := make([]float64, p)
	for i := 0; i < p; i++ {
		coeffs[i] = sol.At(i, 0)
	}

	resid := make([]float64, n)
	for i, r := range rows {
		resid[i] = m.At(r, target) - predictRow(m, target, r, coeffs)
	}
	sigma := descstats.Describe(resid).StdDev
	return coeffs, sigma
}

func predictRow(m *Matrix, target, row int, coeffs []float64) float64 {
	pred := coeffs[0]
	col := 1
	for j := 0; j < m.Cols; j++ {
		if j == target {
			continue
		}
		pred += coeffs[col] * m.At(row, j)
		col++
	}
	return pred
}

func isFiniteScalar(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
