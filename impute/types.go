// Package impute is the L2 nonparametric imputation engine (spec.md §4.5):
// mean/median, inverse-distance-weighted KNN with an exact/KD-tree/
// sort-window/random-sample fallback chain, ridge-regression MICE-lite,
// and cross-validated auto-selection among them.
package impute

import "math"

// Matrix is a row-major n*m matrix of float64; missing cells are NaN.
type Matrix struct {
	Rows, Cols int
	Data       []float64
}

func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

func (m *Matrix) At(i, j int) float64     { return m.Data[i*m.Cols+j] }
func (m *Matrix) Set(i, j int, v float64) { m.Data[i*m.Cols+j] = v }

func (m *Matrix) Clone() *Matrix {
	out := &Matrix{Rows: m.Rows, Cols: m.Cols, Data: append([]float64(nil), m.Data...)}
	return out
}

func isMissing(v float64) bool { return math.IsNaN(v) }

// QualityMetrics summarizes how well an imputation preserved the original
// data's statistical structure (spec.md §4.5).
type QualityMetrics struct {
	CorrelationPreservation float64
	VariancePreservation    float64
	MAE                     float64 // 0 unless ground truth supplied
	RMSE                    float64
	HasGroundTruth          bool
}

// Result is the imputation engine's external contract (spec.md §6).
type Result struct {
	Imputed    *Matrix
	Method     string
	FilledCells int
	Quality    QualityMetrics
}
