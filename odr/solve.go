package odr

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"scicore/numerics"
	"scicore/scierr"
)

const (
	minDamping = 1e-15
	maxDamping = 1e15
	tolerance  = 1e-9
)

// evaluate computes the EvaluationState at parameter vector p: chi-square,
// residuals, fitted values, weighted residuals, and the weighted Jacobian
// (spec.md §4.3 "Solver").
func evaluate(model *CompiledModel, data *PreparedData, p []float64) (*EvaluationState, error) {
	n := data.N
	d := len(data.IndependentNames) + 1
	np := len(model.ParameterNames)

	residuals := make([]float64, n)
	fitted := make([]float64, n)
	wres := make([]float64, n)
	wjac := make([][]float64, n)

	args := make([]float64, d-1+np)
	for i := 0; i < n; i++ {
		for vi := range data.Independent {
			args[vi] = data.Independent[vi][i]
		}
		copy(args[len(data.Independent):], p)

		fx, err := model.Eval.EvalScalar(args)
		if err != nil {
			return nil, scierr.NewAt(scierr.Numerical, "evaluate: model evaluation", i, nil)
		}
		fitted[i] = fx
		r := data.Observed[i] - fx
		residuals[i] = r

		a := make([]float64, d)
		for vi := range data.Independent {
			g, err := model.IndepGrad[vi].EvalScalar(args)
			if err != nil {
				return nil, scierr.NewAt(scierr.Numerical, "evaluate: independent gradient", i, nil)
			}
			a[vi] = -g
		}
		a[d-1] = 1

		s2 := quadForm(a, data.Covariance[i])
		if s2 < MinVariance {
			s2 = MinVariance
		}
		s := math.Sqrt(s2)

		wres[i] = r / s

		row := make([]float64, np)
		for j := 0; j < np; j++ {
			g, err := model.ParamGrad[j].EvalScalar(args)
			if err != nil {
				return nil, scierr.NewAt(scierr.Numerical, "evaluate: parameter gradient", i, nil)
			}
			row[j] = -g / s
		}
		wjac[i] = row
	}

	chi2 := 0.0
	for _, wr := range wres {
		chi2 += wr * wr
	}

	return &EvaluationState{
		ChiSquare:         chi2,
		Residuals:         residuals,
		Fitted:            fitted,
		WeightedResiduals: wres,
		WeightedJacobian:  wjac,
	}, nil
}

// quadForm computes aᵀ*Σ*a for a d-vector a and a d×d covariance matrix Σ.
func quadForm(a []float64, sigma [][]float64) float64 {
	d := len(a)
	sum := 0.0
	for r := 0; r < d; r++ {
		rowSum := 0.0
		for c := 0; c < d; c++ {
			rowSum += sigma[r][c] * a[c]
		}
		sum += a[r] * rowSum
	}
	return sum
}

// solveResult is the internal return of the LM loop before post-processing.
type solveResult struct {
	params     []float64
	eval       *EvaluationState
	iterations int
}

// levenbergMarquardt runs the damped Gauss-Newton loop of spec.md §4.3
// against model/data, starting from p0, for at most maxIter iterations.
func levenbergMarquardt(model *CompiledModel, data *PreparedData, p0 []float64, maxIter int) (*solveResult, error) {
	np := len(p0)
	p := append([]float64(nil), p0...)

	state, err := evaluate(model, data, p)
	if err != nil {
		return nil, err
	}

	lambda := 1e-3
	nu := 2.0

	iterations := 0
	for iter := 0; iter < maxIter; iter++ {
		iterations = iter + 1

		N, g := normalEquations(state.WeightedJacobian, state.WeightedResiduals, np)

		if vecNorm(g) <= tolerance {
			break
		}

		delta, svdOK := solveDamped(N, g, lambda)
		if !svdOK {
			lambda = math.Min(lambda*nu, maxDamping)
			nu = math.Min(nu*2, 1e12)
			continue
		}

		if vecNorm(delta) <= tolerance*(vecNorm(p)+tolerance) {
			break
		}

		trial := make([]float64, np)
		finite := true
		for i := range trial {
			trial[i] = p[i] + delta[i]
			if math.IsNaN(trial[i]) || math.IsInf(trial[i], 0) {
				finite = false
			}
		}
		if !finite {
			lambda = math.Min(lambda*nu, maxDamping)
			nu = math.Min(nu*2, 1e12)
			continue
		}

		trialState, err := evaluate(model, data, trial)
		if err != nil {
			lambda = math.Min(lambda*nu, maxDamping)
			nu = math.Min(nu*2, 1e12)
			continue
		}

		gDotDelta := dot(g, delta)
		deltaNDelta := quadFormDense(delta, N)
		rhoPred := -(2*gDotDelta + deltaNDelta)
		if rhoPred < MinVariance {
			rhoPred = MinVariance
		}
		deltaChi2 := state.ChiSquare - trialState.ChiSquare
		rho := deltaChi2 / rhoPred

		if deltaChi2 > 0 && !math.IsNaN(rho) && !math.IsInf(rho, 0) && rho > 0 {
			p = trial
			state = trialState
			scale := 1 - math.Pow(2*rho-1, 3)
			scale = clamp(scale, 1.0/3, 0.9)
			lambda = math.Max(minDamping, lambda*scale)
			nu = 2
			if deltaChi2 <= tolerance {
				break
			}
		} else {
			lambda = math.Min(lambda*nu, maxDamping)
			nu = math.Min(nu*2, 1e12)
		}
	}

	return &solveResult{params: p, eval: state, iterations: iterations}, nil
}

// normalEquations builds N = J̃ᵀJ̃ and g = J̃ᵀr̃ from the weighted Jacobian
// and weighted residuals.
func normalEquations(wjac [][]float64, wres []float64, np int) (*mat.Dense, []float64) {
	n := len(wjac)
	J := mat.NewDense(n, np, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < np; j++ {
			J.Set(i, j, wjac[i][j])
		}
	}
	r := mat.NewVecDense(n, wres)

	N := mat.NewDense(np, np, nil)
	N.Mul(J.T(), J)

	var gVec mat.VecDense
	gVec.MulVec(J.T(), r)
	g := make([]float64, np)
	for i := 0; i < np; i++ {
		g[i] = gVec.AtVec(i)
	}
	return N, g
}

// solveDamped solves (N + lambda*diag(|N_jj|+1))*delta = -g via SVD
// least-squares. ok is false on SVD failure.
func solveDamped(N *mat.Dense, g []float64, lambda float64) ([]float64, bool) {
	np := len(g)
	damped := mat.NewDense(np, np, nil)
	damped.Copy(N)
	for i := 0; i < np; i++ {
		damped.Set(i, i, damped.At(i, i)+lambda*(math.Abs(N.At(i, i))+1))
	}
	negG := mat.NewDense(np, 1, nil)
	for i := 0; i < np; i++ {
		negG.Set(i, 0, -g[i])
	}
	x, err := numerics.SolveLeastSquares(damped, negG)
	if err != nil {
		return nil, false
	}
	delta := make([]float64, np)
	for i := 0; i < np; i++ {
		delta[i] = x.At(i, 0)
	}
	return delta, true
}

func vecNorm(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func quadFormDense(v []float64, m *mat.Dense) float64 {
	n := len(v)
	vv := mat.NewVecDense(n, v)
	var tmp mat.VecDense
	tmp.MulVec(m, vv)
	s := 0.0
	for i := 0; i < n; i++ {
		s += v[i] * tmp.AtVec(i)
	}
	return s
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
