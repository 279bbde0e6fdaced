package prophet

import "errors"

var (
	errLengthMismatch = errors.New("t and y must have equal length")
	errFewPoints      = errors.New("at least four observations are required")
)
