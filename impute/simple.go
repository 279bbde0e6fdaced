package impute

import "sort"

// meanImpute fills each missing cell with its column mean (0 for an
// entirely-missing column).
func meanImpute(m *Matrix) (*Matrix, int) {
	out := m.Clone()
	filled := 0
	for j := 0; j < m.Cols; j++ {
		sum, n := 0.0, 0
		for i := 0; i < m.Rows; i++ {
			v := m.At(i, j)
			if !isMissing(v) {
				sum += v
				n++
			}
		}
		mean := 0.0
		if n > 0 {
			mean = sum / float64(n)
		}
		for i := 0; i < m.Rows; i++ {
			if isMissing(m.At(i, j)) {
				out.Set(i, j, mean)
				filled++
			}
		}
	}
	return out, filled
}

// medianImpute fills each missing cell with its column median (0 for an
// entirely-missing column).
func medianImpute(m *Matrix) (*Matrix, int) {
	out := m.Clone()
	filled := 0
	for j := 0; j < m.Cols; j++ {
		var col []float64
		for i := 0; i < m.Rows; i++ {
			v := m.At(i, j)
			if !isMissing(v) {
				col = append(col, v)
			}
		}
		med := 0.0
		if len(col) > 0 {
			med = medianOf(col)
		}
		for i := 0; i < m.Rows; i++ {
			if isMissing(m.At(i, j)) {
				out.Set(i, j, med)
				filled++
			}
		}
	}
	return out, filled
}

func medianOf(xs []float64) float64 {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
