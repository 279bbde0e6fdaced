package odr

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"

	"scicore/numerics"
	"scicore/scierr"
)

// MinVariance is the effective-variance floor (spec.md §3): every
// aᵀΣa is floored at this value before reciprocation, and every
// uncertainty |σ| below sqrt(MinVariance) is clamped to that floor.
const MinVariance = 1e-24

var minSigma = math.Sqrt(MinVariance)

// normalizeIdent trims, lowercases, and validates one identifier against
// spec.md §4.3 step 2: non-empty, characters in [A-Za-z0-9_] with a
// leading non-digit.
func normalizeIdent(name string) (string, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return "", fmt.Errorf("identifier is empty after trimming")
	}
	if n[0] >= '0' && n[0] <= '9' {
		return "", fmt.Errorf("identifier %q starts with a digit", name)
	}
	for _, c := range n {
		ok := (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_'
		if !ok {
			return "", fmt.Errorf("identifier %q contains invalid character %q", name, c)
		}
	}
	return n, nil
}

// prepareData validates and normalizes an OdrFitRequest into an immutable
// PreparedData (spec.md §4.3 "Preprocessing").
func prepareData(req *OdrFitRequest) (*PreparedData, []string, string, []string, error) {
	if len(req.Independent) < 1 {
		return nil, nil, "", nil, scierr.New(scierr.Validation, "prepareData: need >= 1 independent variable", nil)
	}
	n := len(req.Observed)
	if n < 2 {
		return nil, nil, "", nil, scierr.New(scierr.Validation, "prepareData: need >= 2 observations", nil)
	}
	for _, iv := range req.Independent {
		if len(iv.Values) != n {
			return nil, nil, "", nil, scierr.New(scierr.Validation, "prepareData: independent variable length mismatch", nil)
		}
	}

	depName, err := normalizeIdent(req.DependentName)
	if err != nil {
		return nil, nil, "", nil, scierr.New(scierr.Validation, "prepareData: dependent name", err)
	}

	seen := map[string]bool{}
	indepNames := make([]string, len(req.Independent))
	for i, iv := range req.Independent {
		name, err := normalizeIdent(iv.Name)
		if err != nil {
			return nil, nil, "", nil, scierr.New(scierr.Validation, "prepareData: independent name", err)
		}
		if seen[name] {
			return nil, nil, "", nil, scierr.New(scierr.Validation, fmt.Sprintf("prepareData: duplicate independent name %q", name), nil)
		}
		seen[name] = true
		indepNames[i] = name
	}

	paramNames := make([]string, len(req.ParameterNames))
	paramSeen := map[string]bool{}
	for i, p := range req.ParameterNames {
		name, err := normalizeIdent(p)
		if err != nil {
			return nil, nil, "", nil, scierr.New(scierr.Validation, "prepareData: parameter name", err)
		}
		if paramSeen[name] {
			return nil, nil, "", nil, scierr.New(scierr.Validation, fmt.Sprintf("prepareData: duplicate parameter name %q", name), nil)
		}
		paramSeen[name] = true
		if seen[name] {
			return nil, nil, "", nil, scierr.New(scierr.Validation, fmt.Sprintf("prepareData: symbol %q used as both independent and parameter", name), nil)
		}
		paramNames[i] = name
	}

	// finiteness of data
	for i, v := range req.Observed {
		if !isFinite(v) {
			return nil, nil, "", nil, scierr.NewAt(scierr.Validation, "prepareData: non-finite observed value", i, nil)
		}
	}
	for vi, iv := range req.Independent {
		for i, v := range iv.Values {
			if !isFinite(v) {
				return nil, nil, "", nil, scierr.NewAt(scierr.Validation, fmt.Sprintf("prepareData: non-finite value in %q", indepNames[vi]), i, nil)
			}
		}
	}

	d := len(req.Independent) + 1
	clamped := false

	// build per-point sigma vector [x1..xn, y]
	sigma := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, d)
		for vi, iv := range req.Independent {
			var s float64
			if iv.Uncertainty != nil {
				if i >= len(iv.Uncertainty) {
					return nil, nil, "", nil, scierr.New(scierr.Validation, "prepareData: uncertainty length mismatch", nil)
				}
				s = math.Abs(iv.Uncertainty[i])
			} else {
				s = 0.0
			}
			if !isFinite(s) {
				return nil, nil, "", nil, scierr.NewAt(scierr.Validation, fmt.Sprintf("prepareData: non-finite uncertainty in %q", indepNames[vi]), i, nil)
			}
			if s < minSigma {
				s = minSigma
				clamped = true
			}
			row[vi] = s
		}
		var sy float64
		if req.ObservedUncertainty != nil {
			if i >= len(req.ObservedUncertainty) {
				return nil, nil, "", nil, scierr.New(scierr.Validation, "prepareData: observed uncertainty length mismatch", nil)
			}
			sy = math.Abs(req.ObservedUncertainty[i])
		} else {
			sy = 1.0
		}
		if !isFinite(sy) {
			return nil, nil, "", nil, scierr.NewAt(scierr.Validation, "prepareData: non-finite observed uncertainty", i, nil)
		}
		if sy < minSigma {
			sy = minSigma
			clamped = true
		}
		row[d-1] = sy
		sigma[i] = row
	}

	// build per-point covariance: correlation*sigma*sigma, or diagonal
	cov := make([][][]float64, n)
	for i := 0; i < n; i++ {
		if req.Correlations != nil {
			corr := req.Correlations[i]
			c, err := validateCorrelation(corr, d, i)
			if err != nil {
				return nil, nil, "", nil, err
			}
			m := make([][]float64, d)
			for r := 0; r < d; r++ {
				m[r] = make([]float64, d)
				for cIdx := 0; cIdx < d; cIdx++ {
					m[r][cIdx] = corr[r][cIdx] * sigma[i][r] * sigma[i][cIdx]
				}
			}
			cov[i] = m
		} else {
			m := make([][]float64, d)
			for r := 0; r < d; r++ {
				m[r] = make([]float64, d)
				m[r][r] = sigma[i][r] * sigma[i][r]
			}
			cov[i] = m
		}
	}

	indepValues := make([][]float64, len(req.Independent))
	for vi, iv := range req.Independent {
		indepValues[vi] = append([]float64(nil), iv.Values...)
	}

	return &PreparedData{
		IndependentNames: indepNames,
		Independent:      indepValues,
		Observed:         append([]float64(nil), req.Observed...),
		Covariance:       cov,
		N:                n,
		Clamped:          clamped,
	}, indepNames, depName, paramNames, nil
}

func validateCorrelation(corr [][]float64, d int, point int) ([][]float64, error) {
	if len(corr) != d {
		return nil, scierr.NewAt(scierr.Validation, fmt.Sprintf("prepareData: invalid shape for correlation matrix (want %dx%d)", d, d), point, nil)
	}
	for r := 0; r < d; r++ {
		if len(corr[r]) != d {
			return nil, scierr.NewAt(scierr.Validation, fmt.Sprintf("prepareData: invalid shape for correlation matrix (want %dx%d)", d, d), point, nil)
		}
	}
	for r := 0; r < d; r++ {
		if math.Abs(corr[r][r]-1.0) > 1e-9 {
			return nil, scierr.NewAt(scierr.Validation, "prepareData: correlation matrix must have unit diagonal", point, nil)
		}
		for c := 0; c < d; c++ {
			if math.Abs(corr[r][c]-corr[c][r]) > 1e-9 {
				return nil, scierr.NewAt(scierr.Validation, "prepareData: correlation matrix must be symmetric", point, nil)
			}
			if corr[r][c] < -1-1e-9 || corr[r][c] > 1+1e-9 {
				return nil, scierr.NewAt(scierr.Validation, "prepareData: correlation entries must be in [-1,1]", point, nil)
			}
		}
	}
	dense := toDense(corr)
	if !numerics.IsSymmetricPSD(dense) {
		return nil, scierr.NewAt(scierr.Validation, "prepareData: correlation matrix must be positive semidefinite", point, nil)
	}
	return corr, nil
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func toDense(rows [][]float64) *mat.Dense {
	n := len(rows)
	out := mat.NewDense(n, n, nil)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			out.Set(r, c, rows[r][c])
		}
	}
	return out
}
