// Package scierr defines the error taxonomy shared by every scicore
// subsystem (spec.md §7). Every public entry point returns one of these
// kinds instead of panicking; callers that need upstream-style error codes
// can type-assert to *Error and switch on Kind.
package scierr

import "fmt"

// Kind tags the semantic category of a failure. It is never used to drive
// local control flow beyond the one retry loops spec.md calls out (LM
// damping, MLE learning-rate shrink, KNN fallback chain) — those live next
// to the algorithms that own them, not here.
type Kind int

const (
	// Validation marks malformed input: empty dataset, non-finite value,
	// shape mismatch, duplicate identifier, symbol collision, unsupported
	// sample range.
	Validation Kind = iota
	// Parse marks a formula that could not be parsed.
	Parse
	// Compile marks an internal failure building an evaluator or gradient.
	Compile
	// Numerical marks an SVD/pseudo-inverse failure, a non-finite model or
	// gradient evaluation at a specific point, or non-finite optimizer
	// output.
	Numerical
	// CachePoisoned marks a model-cache mutex left in an unrecoverable
	// state by a panicking holder.
	CachePoisoned
	// ConfigError marks an options struct violating a documented invariant
	// (e.g. a confidence level outside [0,1]).
	ConfigError
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "Validation"
	case Parse:
		return "Parse"
	case Compile:
		return "Compile"
	case Numerical:
		return "Numerical"
	case CachePoisoned:
		return "CachePoisoned"
	case ConfigError:
		return "ConfigError"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned across the core. Point, when
// >= 0, names the zero-based data-point index the failure is attributed to
// (e.g. a non-finite value found during validation or evaluation).
type Error struct {
	Kind    Kind
	Context string // which operation/evaluator/point produced this
	Point   int    // -1 when not point-specific
	Err     error  // wrapped cause, may be nil
}

func (e *Error) Error() string {
	point := ""
	if e.Point >= 0 {
		point = fmt.Sprintf(" (point %d)", e.Point)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s%s: %v", e.Kind, e.Context, point, e.Err)
	}
	return fmt.Sprintf("%s: %s%s", e.Kind, e.Context, point)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error with no point attribution.
func New(kind Kind, context string, err error) *Error {
	return &Error{Kind: kind, Context: context, Point: -1, Err: err}
}

// NewAt builds an Error attributed to a specific data point.
func NewAt(kind Kind, context string, point int, err error) *Error {
	return &Error{Kind: kind, Context: context, Point: point, Err: err}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	se, ok := err.(*Error)
	return ok && se.Kind == kind
}
