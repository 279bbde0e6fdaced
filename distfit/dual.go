package distfit

import (
	"math"

	"scicore/numerics"
)

// dual is a forward-mode dual number: value plus one tangent component,
// used to compute a cost function's gradient one coordinate at a time
// (spec.md §4.4 / Design Notes §9 "Dual-number gradients for MLE"): the
// same cost function is evaluated once per coordinate with that
// coordinate's tangent set to 1, and the dual part of the result is the
// partial derivative.
type dual struct {
	val, eps float64
}

func realD(v float64) dual       { return dual{val: v} }
func varD(v float64) dual        { return dual{val: v, eps: 1} }
func (a dual) add(b dual) dual   { return dual{a.val + b.val, a.eps + b.eps} }
func (a dual) sub(b dual) dual   { return dual{a.val - b.val, a.eps - b.eps} }
func (a dual) mul(b dual) dual   { return dual{a.val * b.val, a.val*b.eps + a.eps*b.val} }
func (a dual) div(b dual) dual {
	return dual{a.val / b.val, (a.eps*b.val - a.val*b.eps) / (b.val * b.val)}
}
func (a dual) neg() dual { return dual{-a.val, -a.eps} }
func dlog(a dual) dual   { return dual{math.Log(a.val), a.eps / a.val} }
func dexp(a dual) dual   { e := math.Exp(a.val); return dual{e, a.eps * e} }
func dasinh(a dual) dual {
	return dual{math.Asinh(a.val), a.eps / math.Sqrt(1+a.val*a.val)}
}
func dlgamma(a dual) dual {
	return dual{numerics.LogGamma(a.val), numerics.Digamma(a.val) * a.eps}
}

// dualGradient computes ∇cost(params) by evaluating cost once per
// coordinate with that coordinate's tangent set to 1.
func dualGradient(cost func(p []dual) dual, params []float64) []float64 {
	n := len(params)
	grad := make([]float64, n)
	dp := make([]dual, n)
	for i := 0; i < n; i++ {
		for j := range dp {
			if j == i {
				dp[j] = varD(params[j])
			} else {
				dp[j] = realD(params[j])
			}
		}
		grad[i] = cost(dp).eps
	}
	return grad
}
