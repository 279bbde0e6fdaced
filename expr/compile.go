package expr

import (
	"fmt"
	"math"

	"scicore/numerics"
	"scicore/scierr"
)

// Expression is a compiled, immutable formula over an ordered symbol set.
// It exposes batch, parallel-batch, and scalar evaluators, and can be
// symbolically differentiated with respect to any symbol to produce a
// further Expression (spec.md §4.2).
type Expression struct {
	source  string
	symbols []string
	index   map[string]int
	root    node
}

// Compile parses formula (case-insensitive) against the ordered symbol list
// and returns a compiled Expression. A Parse error names the first problem
// encountered (unknown symbol or malformed syntax).
func Compile(formula string, symbols []string) (*Expression, error) {
	idx := make(map[string]int, len(symbols))
	for i, s := range symbols {
		idx[s] = i
	}
	root, err := parseFormula(formula, idx)
	if err != nil {
		return nil, scierr.New(scierr.Parse, "Compile", err)
	}
	return &Expression{source: formula, symbols: symbols, index: idx, root: root}, nil
}

// Source returns the original formula text this Expression was compiled
// from.
func (e *Expression) Source() string { return e.source }

// Symbols returns the ordered symbol list this Expression expects its
// argument vector/columns to follow.
func (e *Expression) Symbols() []string { return e.symbols }

// EvalScalar evaluates the expression at one argument tuple, ordered to
// match Symbols(). len(args) must be >= len(Symbols()).
func (e *Expression) EvalScalar(args []float64) (float64, error) {
	if len(args) < len(e.symbols) {
		return 0, scierr.New(scierr.Compile, "EvalScalar: too few arguments", nil)
	}
	v := e.root.eval(args)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, scierr.New(scierr.Numerical, "EvalScalar: non-finite result", nil)
	}
	return v, nil
}

// EvalBatch evaluates the expression at n data points given column-oriented
// input: columns[j][i] is the value of Symbols()[j] at point i. Returns one
// output value per point; a non-finite result at point i is reported with
// that point's index.
func (e *Expression) EvalBatch(columns [][]float64) ([]float64, error) {
	n, err := e.checkColumns(columns)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	args := make([]float64, len(columns))
	for i := 0; i < n; i++ {
		for j := range columns {
			args[j] = columns[j][i]
		}
		v := e.root.eval(args)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, scierr.NewAt(scierr.Numerical, "EvalBatch: non-finite result", i, nil)
		}
		out[i] = v
	}
	return out, nil
}

// EvalParallelBatch is the parallel variant of EvalBatch: callers attempt
// this first, fall back to EvalBatch, then EvalScalar point-by-point,
// taking the first that succeeds (spec.md §4.2). Correctness is identical
// to EvalBatch; only the evaluation order is parallel.
func (e *Expression) EvalParallelBatch(columns [][]float64) ([]float64, error) {
	n, err := e.checkColumns(columns)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	bad := make([]bool, n)
	numerics.ParallelFor(n, func(i int) {
		args := make([]float64, len(columns))
		for j := range columns {
			args[j] = columns[j][i]
		}
		v := e.root.eval(args)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			bad[i] = true
			return
		}
		out[i] = v
	})
	for i, b := range bad {
		if b {
			return nil, scierr.NewAt(scierr.Numerical, "EvalParallelBatch: non-finite result", i, nil)
		}
	}
	return out, nil
}

func (e *Expression) checkColumns(columns [][]float64) (int, error) {
	if len(columns) < len(e.symbols) {
		return 0, scierr.New(scierr.Compile, "EvalBatch: too few columns", nil)
	}
	if len(columns) == 0 {
		return 0, nil
	}
	n := len(columns[0])
	for _, c := range columns {
		if len(c) != n {
			return 0, scierr.New(scierr.Compile, "EvalBatch: column length mismatch", nil)
		}
	}
	return n, nil
}

// Derivative returns ∂expr/∂symbol as a new compiled Expression over the
// same symbol set.
func (e *Expression) Derivative(symbol string) (*Expression, error) {
	if _, ok := e.index[symbol]; !ok {
		return nil, scierr.New(scierr.Compile, fmt.Sprintf("Derivative: unknown symbol %q", symbol), nil)
	}
	d := e.root.diff(symbol).simplify()
	return &Expression{source: fmt.Sprintf("d(%s)/d(%s)", e.source, symbol), symbols: e.symbols, index: e.index, root: d}, nil
}

// Gradient returns ∂expr/∂symbolᵢ for every symbol in wrt, in order.
func (e *Expression) Gradient(wrt []string) ([]*Expression, error) {
	out := make([]*Expression, len(wrt))
	for i, s := range wrt {
		d, err := e.Derivative(s)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

func (e *Expression) String() string { return e.root.String() }
