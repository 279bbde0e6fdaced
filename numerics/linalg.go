// Package numerics is the L0 dense-linear-algebra and special-function
// toolbox shared by every L2 fitting engine (spec.md §4.1). It wraps
// gonum.org/v1/gonum/mat the way the teacher VAR project wraps it for OLS:
// factorize, discard ill-conditioned singular values, solve in the
// minimum-norm least-squares sense.
package numerics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"scicore/scierr"
)

// MatrixSingularEps is the threshold below which a singular value is
// treated as numerically zero and discarded from a pseudo-inverse or
// least-squares solve (spec.md §4.1).
const MatrixSingularEps = 1e-14

// SolveLeastSquares solves A*x ≈ b in the minimum-norm least-squares sense
// via thin SVD, discarding singular values below MatrixSingularEps. A is
// r×c, b is r×1 (or r×k for multiple right-hand sides); x is c×k.
func SolveLeastSquares(a, b *mat.Dense) (*mat.Dense, error) {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, scierr.New(scierr.Numerical, "SolveLeastSquares: SVD factorize", nil)
	}
	rank := effectiveRank(svd.Values(nil), MatrixSingularEps)
	_, c := a.Dims()
	_, k := b.Dims()
	x := mat.NewDense(c, k, nil)
	if rank == 0 {
		return x, nil
	}
	if !svd.SolveTo(x, b, rank) {
		return nil, scierr.New(scierr.Numerical, "SolveLeastSquares: SVD solve", nil)
	}
	return x, nil
}

// PseudoInverse computes the Moore-Penrose pseudo-inverse of a via thin SVD,
// discarding singular values below MatrixSingularEps.
func PseudoInverse(a *mat.Dense) (*mat.Dense, error) {
	r, c := a.Dims()
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, scierr.New(scierr.Numerical, "PseudoInverse: SVD factorize", nil)
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	// pinv = V * S^+ * U^T
	m := len(values)
	sPlus := mat.NewDense(m, m, nil)
	for i, s := range values {
		if s > MatrixSingularEps {
			sPlus.Set(i, i, 1.0/s)
		}
	}

	var vs mat.Dense
	vs.Mul(&v, sPlus)
	out := mat.NewDense(c, r, nil)
	out.Mul(&vs, u.T())
	return out, nil
}

func effectiveRank(values []float64, eps float64) int {
	rank := 0
	for _, s := range values {
		if s > eps {
			rank++
		}
	}
	return rank
}

// IsSymmetricPSD reports whether the symmetrized matrix (A+Aᵀ)/2 has every
// eigenvalue finite and >= -1e-10 (spec.md §4.1).
func IsSymmetricPSD(a *mat.Dense) bool {
	n, m := a.Dims()
	if n != m {
		return false
	}
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := (a.At(i, j) + a.At(j, i)) / 2
			sym.SetSym(i, j, v)
		}
	}
	var eig mat.EigenSym
	if ok := eig.Factorize(sym, false); !ok {
		return false
	}
	for _, v := range eig.Values(nil) {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < -1e-10 {
			return false
		}
	}
	return true
}

// CholeskyFactor attempts a Cholesky factorization of a symmetric matrix,
// returning the lower-triangular factor L such that A = L*Lᵀ. ok is false
// when a is not positive definite.
func CholeskyFactor(a *mat.SymDense) (l *mat.TriDense, ok bool) {
	var chol mat.Cholesky
	if !chol.Factorize(a) {
		return nil, false
	}
	n := a.Symmetric()
	l = mat.NewTriDense(n, mat.Lower, nil)
	chol.LTo(l)
	return l, true
}
