package bootstrap

import (
	"errors"
	"fmt"
)

var (
	errEmptyData          = errors.New("data must not be empty")
	errFewSamples         = errors.New("n_samples must be positive")
	errBadConfidence      = errors.New("confidence must be in (0,1)")
	errFewPoints          = errors.New("at least two observations are required for jackknife")
	errMismatchedLengths  = errors.New("data and sigma must have equal length")
	errSingularCovariance = errors.New("covariance matrix is singular")
)

func errUnknownMethod(name string) error {
	return fmt.Errorf("unknown bootstrap method %q", name)
}
