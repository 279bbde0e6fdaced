package distfit

import "math"

const (
	optInitStep    = 0.01
	optGrowFactor  = 1.1
	optShrinkFactor = 0.5
	optMinStep     = 1e-10
	optMaxLocalIter = 100
)

// boundedGradientDescent performs the adaptive-step gradient descent
// described in Design Notes §9: compute the gradient, propose p' = p -
// eta*g clamped to bounds, accept and grow eta by 1.1 on improvement or
// shrink by 0.5 on rejection, stop when eta underflows or the iteration
// budget runs out. The gradient is rescaled to unit length first so a
// single learning-rate schedule applies uniformly across families whose
// raw gradient magnitudes differ by orders of magnitude (shape vs. rate
// parameters, small vs. large samples).
func boundedGradientDescent(f family, data []float64, start []float64) []float64 {
	b := f.bounds()
	p := clampToBounds(append([]float64(nil), start...), b)
	cur := f.negLogLikelihood(p, data)
	step := optInitStep

	for iter := 0; iter < optMaxLocalIter && step > optMinStep; iter++ {
		grad := f.gradient(p, data)
		gnorm := vecNormDistfit(grad)
		if gnorm == 0 {
			break
		}
		trial := make([]float64, len(p))
		for i := range p {
			trial[i] = p[i] - step*grad[i]/gnorm
		}
		trial = clampToBounds(trial, b)
		trialCost := f.negLogLikelihood(trial, data)
		if isFiniteF(trialCost) && trialCost < cur {
			p = trial
			cur = trialCost
			step *= optGrowFactor
		} else {
			step *= optShrinkFactor
		}
	}
	return p
}

func clampToBounds(p []float64, b []bound) []float64 {
	for i := range p {
		if p[i] < b[i].lo {
			p[i] = b[i].lo
		}
		if p[i] > b[i].hi {
			p[i] = b[i].hi
		}
	}
	return p
}

func vecNormDistfit(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

func isFiniteF(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
