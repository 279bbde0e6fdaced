package impute

import "errors"

var (
	errEmptyMatrix       = errors.New("matrix has zero rows or columns")
	errNonFiniteResult   = errors.New("imputation produced a non-finite cell")
	errNoMethodConverged = errors.New("no imputation method produced a finite result")
)

func errUnknownMethod(name string) error {
	return errors.New("unknown imputation method: " + name)
}
