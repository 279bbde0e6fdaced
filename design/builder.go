// Package design is the L1 design-matrix builder (spec.md §2, §4.7): trend,
// Fourier-basis seasonality, categorical (reference/effect) coding, and
// 2-way interaction columns, shared by the Prophet forecaster and the
// N-way ANOVA engine.
package design

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"scicore/scierr"
)

// Intercept returns an n×1 column of ones.
func Intercept(n int) []float64 {
	col := make([]float64, n)
	for i := range col {
		col[i] = 1
	}
	return col
}

// Trend returns an n×1 column of the raw time index t[0..n).
func Trend(t []float64) []float64 {
	return append([]float64(nil), t...)
}

// Fourier builds 2*K columns [sin(2πkt/P), cos(2πkt/P)] for k=1..K at each
// timestamp in t, used by the Prophet seasonality fit (spec.md §4.6).
func Fourier(t []float64, period float64, harmonics int) [][]float64 {
	cols := make([][]float64, 2*harmonics)
	for k := 1; k <= harmonics; k++ {
		sinCol := make([]float64, len(t))
		cosCol := make([]float64, len(t))
		for i, ti := range t {
			theta := 2 * math.Pi * float64(k) * ti / period
			sinCol[i] = math.Sin(theta)
			cosCol[i] = math.Cos(theta)
		}
		cols[2*(k-1)] = sinCol
		cols[2*(k-1)+1] = cosCol
	}
	return cols
}

// EffectCoding builds k-1 columns for a categorical factor with k distinct
// levels: the reference level (levels[referenceIdx]) maps to -1 across all
// k-1 columns; every other level i maps to +1 in column i (0-indexed,
// skipping the reference), 0 elsewhere (spec.md's Effect coding glossary
// entry, used by N-way ANOVA Type III SS).
func EffectCoding(levelIndex []int, numLevels, referenceIdx int) ([][]float64, error) {
	if numLevels < 1 {
		return nil, scierr.New(scierr.Validation, "EffectCoding: numLevels must be >= 1", nil)
	}
	if referenceIdx < 0 || referenceIdx >= numLevels {
		return nil, scierr.New(scierr.Validation, "EffectCoding: referenceIdx out of range", nil)
	}
	n := len(levelIndex)
	nCols := numLevels - 1
	cols := make([][]float64, nCols)
	for c := range cols {
		cols[c] = make([]float64, n)
	}
	// map each non-reference level to its output column index
	colOf := make([]int, numLevels)
	c := 0
	for lvl := 0; lvl < numLevels; lvl++ {
		if lvl == referenceIdx {
			colOf[lvl] = -1
			continue
		}
		colOf[lvl] = c
		c++
	}
	for i, lvl := range levelIndex {
		if lvl < 0 || lvl >= numLevels {
			return nil, scierr.NewAt(scierr.Validation, "EffectCoding: level index out of range", i, nil)
		}
		if lvl == referenceIdx {
			for col := 0; col < nCols; col++ {
				cols[col][i] = -1
			}
			continue
		}
		cols[colOf[lvl]][i] = 1
	}
	return cols, nil
}

// Interaction returns the elementwise (outer, columnwise) product set of
// two column groups A (a columns) and B (b columns): len(A)*len(B) columns,
// column (i,j) = A[i] .* B[j].
func Interaction(a, b [][]float64) [][]float64 {
	out := make([][]float64, 0, len(a)*len(b))
	for _, ca := range a {
		for _, cb := range b {
			n := len(ca)
			col := make([]float64, n)
			for i := 0; i < n; i++ {
				col[i] = ca[i] * cb[i]
			}
			out = append(out, col)
		}
	}
	return out
}

// Assemble stacks column groups (in order) into a single n×m *mat.Dense
// design matrix.
func Assemble(n int, groups ...[][]float64) *mat.Dense {
	var allCols [][]float64
	for _, g := range groups {
		allCols = append(allCols, g...)
	}
	m := len(allCols)
	out := mat.NewDense(n, m, nil)
	for j, col := range allCols {
		for i := 0; i < n; i++ {
			out.Set(i, j, col[i])
		}
	}
	return out
}
