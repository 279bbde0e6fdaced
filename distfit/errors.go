package distfit

import "errors"

var (
	errFewPoints    = errors.New("at least two observations are required")
	errOutOfSupport = errors.New("data contains values outside the family's support")
	errNonFiniteFit = errors.New("optimization produced a non-finite log-likelihood or parameter")
	errNoConverge   = errors.New("no distribution family produced a finite AIC")
)

func errUnknownFamily(name string) error {
	return errors.New("unknown distribution family: " + name)
}
