package impute

import (
	"math"

	"scicore/numerics"
	"scicore/scierr"

	"golang.org/x/exp/rand"
)

// Method names returned in Result.Method.
const (
	MethodNone   = "none"
	MethodMean   = "mean"
	MethodMedian = "median"
	MethodKNN    = "knn"
	MethodMICE   = "mice"
)

const (
	defaultK         = 5
	completeRowFloor = 20
	cvFolds          = 5
)

// Impute fills every missing cell of m using method ("mean", "median",
// "knn", "mice", or "auto"), returning the filled matrix, the method tag
// actually used, the count of filled cells, and quality metrics.
func Impute(m *Matrix, method string, seed uint64) (*Result, error) {
	if m == nil || m.Rows == 0 || m.Cols == 0 {
		return nil, scierr.New(scierr.Validation, "impute.Impute", errEmptyMatrix)
	}
	if countMissing(m) == 0 {
		return &Result{Imputed: m.Clone(), Method: MethodNone, FilledCells: 0}, nil
	}

	switch method {
	case MethodMean:
		return runMethod(m, MethodMean, seed)
	case MethodMedian:
		return runMethod(m, MethodMedian, seed)
	case MethodKNN:
		return runMethod(m, MethodKNN, seed)
	case MethodMICE:
		return runMethod(m, MethodMICE, seed)
	case "auto", "":
		return autoSelect(m, seed)
	default:
		return nil, scierr.New(scierr.Validation, "impute.Impute", errUnknownMethod(method))
	}
}

func countMissing(m *Matrix) int {
	n := 0
	for _, v := range m.Data {
		if isMissing(v) {
			n++
		}
	}
	return n
}

func applyMethod(m *Matrix, method string, seed uint64) (*Matrix, int) {
	switch method {
	case MethodMean:
		return meanImpute(m)
	case MethodMedian:
		return medianImpute(m)
	case MethodKNN:
		return knnImpute(m, defaultK, seed)
	case MethodMICE:
		return miceImpute(m, false, seed)
	}
	return meanImpute(m)
}

func runMethod(m *Matrix, method string, seed uint64) (*Result, error) {
	imputed, filled := applyMethod(m, method, seed)
	if !allFiniteMatrix(imputed) {
		return nil, scierr.New(scierr.Numerical, "impute."+method, errNonFiniteResult)
	}
	return &Result{
		Imputed:     imputed,
		Method:      method,
		FilledCells: filled,
		Quality:     measureQuality(m, imputed, nil),
	}, nil
}

// autoSelect implements spec.md §4.5: below completeRowFloor complete rows,
// fit every method once and pick the highest combined correlation+variance
// preservation; otherwise run k-fold masked-cell cross-validation and pick
// the lowest average RMSE.
func autoSelect(m *Matrix, seed uint64) (*Result, error) {
	methods := []string{MethodMean, MethodMedian, MethodKNN, MethodMICE}
	complete := completeRowIndices(m)

	if len(complete) < completeRowFloor {
		var best *Result
		var bestScore float64
		for _, method := range methods {
			res, err := runMethod(m, method, seed)
			if err != nil {
				continue
			}
			score := res.Quality.CorrelationPreservation + res.Quality.VariancePreservation
			if best == nil || score > bestScore {
				best = res
				bestScore = score
			}
		}
		if best == nil {
			return nil, scierr.New(scierr.Numerical, "impute.autoSelect", errNoMethodConverged)
		}
		return best, nil
	}

	rng := numerics.NewRand(seed)
	bestMethod := methods[0]
	bestRMSE := cvRMSE(m, bestMethod, complete, rng)
	for _, method := range methods[1:] {
		rmse := cvRMSE(m, method, complete, rng)
		if rmse < bestRMSE {
			bestRMSE = rmse
			bestMethod = method
		}
	}
	return runMethod(m, bestMethod, seed)
}

// cvRMSE runs cvFolds rounds of masking one additional cell per complete
// row, imputing, and returning the root-mean-squared error against the
// masked truth over all folds.
func cvRMSE(m *Matrix, method string, complete []int, rng *rand.Rand) float64 {
	var sumSq float64
	n := 0
	for fold := 0; fold < cvFolds; fold++ {
		masked := m.Clone()
		truth := make(map[[2]int]float64)
		for _, row := range complete {
			col := int(rng.Int63() % int64(m.Cols))
			truth[[2]int{row, col}] = masked.At(row, col)
			masked.Set(row, col, math.NaN())
		}
		imputed, _ := applyMethod(masked, method, rng.Uint64())
		for key, val := range truth {
			got := imputed.At(key[0], key[1])
			d := got - val
			sumSq += d * d
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Sqrt(sumSq / float64(n))
}

func allFiniteMatrix(m *Matrix) bool {
	for _, v := range m.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
