package impute

import (
	"math"

	"scicore/descstats"
)

// measureQuality compares the imputed matrix against the original,
// computing correlation- and variance-structure preservation, plus MAE/RMSE
// against optional ground truth (spec.md §4.5).
func measureQuality(original, imputed *Matrix, groundTruth *Matrix) QualityMetrics {
	origCols := columnsOf(original)
	impCols := columnsOf(imputed)

	corrOrig := correlationPreservationBasis(origCols)
	corrImp := correlationPreservationBasis(impCols)
	q := QualityMetrics{
		CorrelationPreservation: compareMatrices(corrOrig, corrImp),
		VariancePreservation:    compareVariances(origCols, impCols),
	}

	if groundTruth != nil {
		var sumAbs, sumSq float64
		n := 0
		for i := 0; i < original.Rows; i++ {
			for j := 0; j < original.Cols; j++ {
				if isMissing(original.At(i, j)) {
					truth := groundTruth.At(i, j)
					got := imputed.At(i, j)
					d := got - truth
					sumAbs += math.Abs(d)
					sumSq += d * d
					n++
				}
			}
		}
		if n > 0 {
			q.MAE = sumAbs / float64(n)
			q.RMSE = math.Sqrt(sumSq / float64(n))
			q.HasGroundTruth = true
		}
	}
	return q
}

func columnsOf(m *Matrix) [][]float64 {
	cols := make([][]float64, m.Cols)
	for j := 0; j < m.Cols; j++ {
		cols[j] = make([]float64, m.Rows)
		for i := 0; i < m.Rows; i++ {
			cols[j][i] = m.At(i, j)
		}
	}
	return cols
}

// correlationPreservationBasis builds a correlation matrix, substituting
// column means for any remaining NaN (can occur only pre-imputation, never
// on the output which the invariants require fully finite).
func correlationPreservationBasis(cols [][]float64) [][]float64 {
	clean := make([][]float64, len(cols))
	for j, col := range cols {
		mean := descstats.Describe(filterFinite(col)).Mean
		cleaned := make([]float64, len(col))
		for i, v := range col {
			if math.IsNaN(v) {
				cleaned[i] = mean
			} else {
				cleaned[i] = v
			}
		}
		clean[j] = cleaned
	}
	sym := descstats.CorrelationMatrix(clean)
	n := len(cols)
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		out[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			out[i][j] = sym.At(i, j)
		}
	}
	return out
}

func filterFinite(xs []float64) []float64 {
	var out []float64
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}

// compareMatrices returns 1 - mean absolute difference (clamped to [0,1]),
// used for the correlation-preservation score.
func compareMatrices(a, b [][]float64) float64 {
	var sum float64
	n := 0
	for i := range a {
		for j := range a[i] {
			sum += math.Abs(a[i][j] - b[i][j])
			n++
		}
	}
	if n == 0 {
		return 1
	}
	score := 1 - sum/float64(n)
	return clamp01(score)
}

func compareVariances(origCols, impCols [][]float64) float64 {
	var ratios []float64
	for j := range origCols {
		ov := descstats.Describe(filterFinite(origCols[j])).Variance
		iv := descstats.Describe(impCols[j]).Variance
		if ov <= 0 {
			continue
		}
		ratio := 1 - math.Abs(ov-iv)/ov
		ratios = append(ratios, clamp01(ratio))
	}
	if len(ratios) == 0 {
		return 1
	}
	sum := 0.0
	for _, r := range ratios {
		sum += r
	}
	return sum / float64(len(ratios))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
