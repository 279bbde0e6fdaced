package hypothesis

import "errors"

var (
	errFewPoints             = errors.New("at least two observations are required")
	errLengthMismatch        = errors.New("paired samples must have equal length")
	errZeroVariance          = errors.New("standard error is zero")
	errTooFewGroups          = errors.New("at least two groups are required")
	errTooFewFactors         = errors.New("N-way ANOVA requires between 2 and 5 factors")
	errNonPositiveResidualDF = errors.New("residual degrees of freedom must be positive")
	errZeroExpected          = errors.New("expected count must be positive")
)
