// Package odr implements the L2 orthogonal-distance-regression engine
// (spec.md §4.3): Levenberg-Marquardt with trust-region gain-ratio damping,
// symbolic-gradient model compilation, per-point full-covariance weighting,
// and a process-wide LRU of compiled models.
package odr

// IndependentVariable is one independent-variable column of an OdrFitRequest.
type IndependentVariable struct {
	Name         string
	Values       []float64
	Uncertainty  []float64 // optional 1-sigma; nil means "not supplied"
}

// OdrFitRequest is the external contract callers build to request a fit
// (spec.md §4.3 / §6). All numeric arrays are row-major; identifier
// handling is case-insensitive.
type OdrFitRequest struct {
	Formula            string
	DependentName      string
	Independent        []IndependentVariable
	Observed           []float64
	ObservedUncertainty []float64 // optional 1-sigma
	ParameterNames     []string
	InitialGuess       []float64 // optional; defaults to all zeros
	MaxIterations      int       // optional; clamp(user, 5, 5000), default 200
	Correlations       [][][]float64 // optional [n_points][d][d], d = n_independent+1, ordered [x1..xn,y]
}

// OdrFitResponse is the external, value-in/value-out result (spec.md §6).
type OdrFitResponse struct {
	Success            bool
	Warning            string
	Iterations         int
	Formula            string
	DependentName      string
	IndependentNames   []string
	ParameterNames     []string
	ParameterValues    []float64
	ParameterSigma     []float64
	Residuals          []float64
	Fitted             []float64
	ChiSquare          float64
	ReducedChiSquare   float64
	RMSE               float64
	RSquared           float64
}

// EvaluationState is the output of one model evaluation at a parameter
// vector: chi-square, raw residuals, fitted values, weighted residuals, and
// the weighted Jacobian (spec.md §3).
type EvaluationState struct {
	ChiSquare          float64
	Residuals          []float64
	Fitted             []float64
	WeightedResiduals  []float64   // n_points
	WeightedJacobian   [][]float64 // n_points x n_parameters
}

// PreparedData is the immutable, validated form of an OdrFitRequest
// produced by prepareData (spec.md §3).
type PreparedData struct {
	IndependentNames []string
	Independent      [][]float64 // [variable][point]
	Observed         []float64
	Covariance       [][][]float64 // [point][d][d], d = n_independent+1
	N                int
	Clamped          bool
}
