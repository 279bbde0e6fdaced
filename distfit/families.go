package distfit

import (
	"math"

	"scicore/descstats"
	"scicore/numerics"
)

const largeBound = 1e6

// ---- Normal(mu, sigma) ----

type normalFamily struct{}

func (normalFamily) name() string         { return "normal" }
func (normalFamily) paramNames() []string { return []string{"mu", "sigma"} }
func (normalFamily) bounds() []bound {
	return []bound{{-largeBound, largeBound}, {1e-9, largeBound}}
}
func (normalFamily) seed(data []float64) []float64 {
	m := descstats.Describe(data)
	sd := m.StdDev
	if sd <= 0 {
		sd = 1
	}
	return []float64{m.Mean, sd}
}
func (normalFamily) negLogLikelihood(p, data []float64) float64 {
	mu, sigma := p[0], p[1]
	n := float64(len(data))
	sum := 0.0
	for _, x := range data {
		d := x - mu
		sum += d * d
	}
	return n/2*math.Log(2*math.Pi*sigma*sigma) + sum/(2*sigma*sigma)
}
func (normalFamily) gradient(p, data []float64) []float64 {
	mu, sigma := p[0], p[1]
	n := float64(len(data))
	var sumD, sumD2 float64
	for _, x := range data {
		d := x - mu
		sumD += d
		sumD2 += d * d
	}
	dMu := -sumD / (sigma * sigma)
	dSigma := n/sigma - sumD2/(sigma*sigma*sigma)
	return []float64{dMu, dSigma}
}
func (normalFamily) cdf(p []float64, x float64) float64 {
	return 0.5 * (1 + numerics.Erf((x-p[0])/(p[1]*math.Sqrt2)))
}
func (normalFamily) inSupport(data []float64) bool { return true }

// ---- LogNormal(mu, sigma) over log(x), x>0 ----

type logNormalFamily struct{}

func (logNormalFamily) name() string         { return "lognormal" }
func (logNormalFamily) paramNames() []string { return []string{"mu", "sigma"} }
func (logNormalFamily) bounds() []bound {
	return []bound{{-largeBound, largeBound}, {1e-9, largeBound}}
}
func (logNormalFamily) seed(data []float64) []float64 {
	logs := logData(data)
	m := descstats.Describe(logs)
	sd := m.StdDev
	if sd <= 0 {
		sd = 1
	}
	return []float64{m.Mean, sd}
}
func (logNormalFamily) negLogLikelihood(p, data []float64) float64 {
	mu, sigma := p[0], p[1]
	n := float64(len(data))
	sum := 0.0
	logSum := 0.0
	for _, x := range data {
		lx := math.Log(x)
		d := lx - mu
		sum += d * d
		logSum += lx
	}
	return logSum + n/2*math.Log(2*math.Pi*sigma*sigma) + sum/(2*sigma*sigma)
}
func (logNormalFamily) gradient(p, data []float64) []float64 {
	mu, sigma := p[0], p[1]
	n := float64(len(data))
	var sumD, sumD2 float64
	for _, x := range data {
		d := math.Log(x) - mu
		sumD += d
		sumD2 += d * d
	}
	dMu := -sumD / (sigma * sigma)
	dSigma := n/sigma - sumD2/(sigma*sigma*sigma)
	return []float64{dMu, dSigma}
}
func (logNormalFamily) cdf(p []float64, x float64) float64 {
	if x <= 0 {
		return 0
	}
	return 0.5 * (1 + numerics.Erf((math.Log(x)-p[0])/(p[1]*math.Sqrt2)))
}
func (logNormalFamily) inSupport(data []float64) bool { return allPositive(data) }

// ---- Exponential(rate) ----

type exponentialFamily struct{}

func (exponentialFamily) name() string         { return "exponential" }
func (exponentialFamily) paramNames() []string { return []string{"rate"} }
func (exponentialFamily) bounds() []bound      { return []bound{{1e-9, largeBound}} }
func (exponentialFamily) seed(data []float64) []float64 {
	m := descstats.Describe(data)
	if m.Mean <= 0 {
		return []float64{1}
	}
	return []float64{1 / m.Mean}
}
func (exponentialFamily) negLogLikelihood(p, data []float64) float64 {
	rate := p[0]
	n := float64(len(data))
	sum := 0.0
	for _, x := range data {
		sum += x
	}
	return -n*math.Log(rate) + rate*sum
}
func (exponentialFamily) gradient(p, data []float64) []float64 {
	rate := p[0]
	n := float64(len(data))
	sum := 0.0
	for _, x := range data {
		sum += x
	}
	return []float64{-n/rate + sum}
}
func (exponentialFamily) cdf(p []float64, x float64) float64 {
	if x < 0 {
		return 0
	}
	return 1 - math.Exp(-p[0]*x)
}
func (exponentialFamily) inSupport(data []float64) bool { return allNonNegative(data) }

// ---- Weibull(shape, scale) ----

type weibullFamily struct{}

func (weibullFamily) name() string         { return "weibull" }
func (weibullFamily) paramNames() []string { return []string{"shape", "scale"} }
func (weibullFamily) bounds() []bound {
	return []bound{{1e-6, largeBound}, {1e-9, largeBound}}
}
func (weibullFamily) seed(data []float64) []float64 {
	m := descstats.Describe(data)
	scale := m.Mean
	if scale <= 0 {
		scale = 1
	}
	return []float64{1.5, scale}
}
func (weibullFamily) negLogLikelihood(p, data []float64) float64 {
	return dualCost(p, data, func(p []dual, x float64) dual {
		k, lambda := p[0], p[1]
		xv := realD(x)
		ratio := xv.div(lambda)
		logRatio := dlog(ratio)
		term := dlog(k).sub(dlog(lambda)).add(k.sub(realD(1)).mul(logRatio)).sub(dpowDual(ratio, k))
		return term
	})
}
func (weibullFamily) gradient(p, data []float64) []float64 {
	return dualGradient(func(pd []dual) dual {
		return negDualSum(pd, data, func(p []dual, x float64) dual {
			k, lambda := p[0], p[1]
			xv := realD(x)
			ratio := xv.div(lambda)
			logRatio := dlog(ratio)
			pw := dpowDual(ratio, k)
			return dlog(k).sub(dlog(lambda)).add(k.sub(realD(1)).mul(logRatio)).sub(pw)
		})
	}, p)
}
func (weibullFamily) cdf(p []float64, x float64) float64 {
	if x < 0 {
		return 0
	}
	return 1 - math.Exp(-math.Pow(x/p[1], p[0]))
}
func (weibullFamily) inSupport(data []float64) bool { return allNonNegative(data) }

// ---- Gamma(shape, rate) ----

type gammaFamily struct{}

func (gammaFamily) name() string         { return "gamma" }
func (gammaFamily) paramNames() []string { return []string{"shape", "rate"} }
func (gammaFamily) bounds() []bound {
	return []bound{{1e-6, largeBound}, {1e-9, largeBound}}
}
func (gammaFamily) seed(data []float64) []float64 {
	m := descstats.Describe(data)
	if m.Variance <= 0 || m.Mean <= 0 {
		return []float64{1, 1}
	}
	rate := m.Mean / m.Variance
	shape := m.Mean * rate
	if shape <= 0 {
		shape = 1
	}
	return []float64{shape, rate}
}
func (gammaFamily) negLogLikelihood(p, data []float64) float64 {
	return dualCost(p, data, func(p []dual, x float64) dual {
		alpha, beta := p[0], p[1]
		xv := realD(x)
		return alpha.mul(dlog(beta)).sub(dlgamma(alpha)).add(alpha.sub(realD(1)).mul(dlog(xv))).sub(beta.mul(xv))
	})
}
func (gammaFamily) gradient(p, data []float64) []float64 {
	return dualGradient(func(pd []dual) dual {
		return negDualSum(pd, data, func(p []dual, x float64) dual {
			alpha, beta := p[0], p[1]
			xv := realD(x)
			return alpha.mul(dlog(beta)).sub(dlgamma(alpha)).add(alpha.sub(realD(1)).mul(dlog(xv))).sub(beta.mul(xv))
		})
	}, p)
}
func (gammaFamily) cdf(p []float64, x float64) float64 {
	if x <= 0 {
		return 0
	}
	return numerics.RegularizedIncompleteGamma(p[0], p[1]*x)
}
func (gammaFamily) inSupport(data []float64) bool { return allPositive(data) }

// ---- Beta(alpha, beta) over (0,1) ----

type betaFamily struct{}

func (betaFamily) name() string         { return "beta" }
func (betaFamily) paramNames() []string { return []string{"alpha", "beta"} }
func (betaFamily) bounds() []bound {
	return []bound{{1e-6, largeBound}, {1e-6, largeBound}}
}
func (betaFamily) seed(data []float64) []float64 {
	m := descstats.Describe(data)
	mean, v := m.Mean, m.Variance
	if v <= 0 || mean <= 0 || mean >= 1 {
		return []float64{2, 2}
	}
	common := mean*(1-mean)/v - 1
	a := mean * common
	b := (1 - mean) * common
	if a <= 0 {
		a = 1
	}
	if b <= 0 {
		b = 1
	}
	return []float64{a, b}
}
func (betaFamily) negLogLikelihood(p, data []float64) float64 {
	a, b := p[0], p[1]
	n := float64(len(data))
	var sumLogX, sumLog1mX float64
	for _, x := range data {
		sumLogX += math.Log(x)
		sumLog1mX += math.Log(1 - x)
	}
	return n*numerics.LogBeta(a, b) - (a-1)*sumLogX - (b-1)*sumLog1mX
}
func (betaFamily) gradient(p, data []float64) []float64 {
	a, b := p[0], p[1]
	n := float64(len(data))
	var sumLogX, sumLog1mX float64
	for _, x := range data {
		sumLogX += math.Log(x)
		sumLog1mX += math.Log(1 - x)
	}
	psiAB := numerics.Digamma(a + b)
	dA := n*(numerics.Digamma(a)-psiAB) - sumLogX
	dB := n*(numerics.Digamma(b)-psiAB) - sumLog1mX
	return []float64{dA, dB}
}
func (betaFamily) cdf(p []float64, x float64) float64 {
	return numerics.RegularizedIncompleteBeta(p[0], p[1], x)
}
func (betaFamily) inSupport(data []float64) bool { return allInOpenUnitInterval(data) }

// ---- Gumbel(location, scale) ----

type gumbelFamily struct{}

func (gumbelFamily) name() string         { return "gumbel" }
func (gumbelFamily) paramNames() []string { return []string{"location", "scale"} }
func (gumbelFamily) bounds() []bound {
	return []bound{{-largeBound, largeBound}, {1e-9, largeBound}}
}
func (gumbelFamily) seed(data []float64) []float64 {
	m := descstats.Describe(data)
	beta := m.StdDev * math.Sqrt(6) / math.Pi
	if beta <= 0 {
		beta = 1
	}
	return []float64{m.Mean - 0.5772156649*beta, beta}
}
func (gumbelFamily) negLogLikelihood(p, data []float64) float64 {
	return dualCost(p, data, func(p []dual, x float64) dual {
		mu, beta := p[0], p[1]
		z := realD(x).sub(mu).div(beta)
		return dlog(beta).add(z).add(dexp(z.neg()))
	})
}
func (gumbelFamily) gradient(p, data []float64) []float64 {
	return dualGradient(func(pd []dual) dual {
		return negDualSum(pd, data, func(p []dual, x float64) dual {
			mu, beta := p[0], p[1]
			z := realD(x).sub(mu).div(beta)
			return dlog(beta).add(z).add(dexp(z.neg()))
		})
	}, p)
}
func (gumbelFamily) cdf(p []float64, x float64) float64 {
	return math.Exp(-math.Exp(-(x - p[0]) / p[1]))
}
func (gumbelFamily) inSupport(data []float64) bool { return true }

// ---- Pareto(scale=min(data) fixed, shape=alpha fit) ----

type paretoFamily struct{}

func (paretoFamily) name() string         { return "pareto" }
func (paretoFamily) paramNames() []string { return []string{"scale", "shape"} }
func (paretoFamily) bounds() []bound {
	return []bound{{1e-9, largeBound}, {1e-6, largeBound}}
}
func (paretoFamily) seed(data []float64) []float64 {
	xm := minOf(data)
	n := float64(len(data))
	sum := 0.0
	for _, x := range data {
		sum += math.Log(x) - math.Log(xm)
	}
	alpha := 1.0
	if sum > 0 {
		alpha = n / sum
	}
	return []float64{xm, alpha}
}
func (paretoFamily) negLogLikelihood(p, data []float64) float64 {
	xm, alpha := p[0], p[1]
	n := float64(len(data))
	sum := 0.0
	for _, x := range data {
		sum += math.Log(x)
	}
	return -n*math.Log(alpha) - n*alpha*math.Log(xm) + (alpha+1)*sum
}
func (paretoFamily) gradient(p, data []float64) []float64 {
	// scale (xm) held fixed at the data minimum: its gradient is reported
	// as zero so the bounded optimizer leaves it untouched.
	xm, alpha := p[0], p[1]
	n := float64(len(data))
	sum := 0.0
	for _, x := range data {
		sum += math.Log(x)
	}
	dAlpha := -n/alpha - n*math.Log(xm) + sum
	return []float64{0, dAlpha}
}
func (paretoFamily) cdf(p []float64, x float64) float64 {
	if x < p[0] {
		return 0
	}
	return 1 - math.Pow(p[0]/x, p[1])
}
func (paretoFamily) inSupport(data []float64) bool { return allPositive(data) }

// ---- Student's t(mu, sigma, nu) ----

type studentTFamily struct{}

func (studentTFamily) name() string         { return "student_t" }
func (studentTFamily) paramNames() []string { return []string{"mu", "sigma", "nu"} }
func (studentTFamily) bounds() []bound {
	return []bound{{-largeBound, largeBound}, {1e-9, largeBound}, {1e-3, largeBound}}
}
func (studentTFamily) seed(data []float64) []float64 {
	m := descstats.Describe(data)
	sd := m.StdDev
	if sd <= 0 {
		sd = 1
	}
	return []float64{m.Mean, sd, 5}
}
func (studentTFamily) negLogLikelihood(p, data []float64) float64 {
	return dualCost(p, data, func(p []dual, x float64) dual {
		mu, sigma, nu := p[0], p[1], p[2]
		z := realD(x).sub(mu).div(sigma)
		z2 := z.mul(z)
		term := dlgamma(nu.add(realD(1)).div(realD(2))).
			sub(dlgamma(nu.div(realD(2)))).
			sub(realD(0.5).mul(dlog(nu.mul(realD(math.Pi))))).
			sub(dlog(sigma)).
			sub(nu.add(realD(1)).div(realD(2)).mul(dlog(realD(1).add(z2.div(nu)))))
		return term
	})
}
func (studentTFamily) gradient(p, data []float64) []float64 {
	return dualGradient(func(pd []dual) dual {
		return negDualSum(pd, data, func(p []dual, x float64) dual {
			mu, sigma, nu := p[0], p[1], p[2]
			z := realD(x).sub(mu).div(sigma)
			z2 := z.mul(z)
			return dlgamma(nu.add(realD(1)).div(realD(2))).
				sub(dlgamma(nu.div(realD(2)))).
				sub(realD(0.5).mul(dlog(nu.mul(realD(math.Pi))))).
				sub(dlog(sigma)).
				sub(nu.add(realD(1)).div(realD(2)).mul(dlog(realD(1).add(z2.div(nu)))))
		})
	}, p)
}
func (studentTFamily) cdf(p []float64, x float64) float64 {
	mu, sigma, nu := p[0], p[1], p[2]
	z := (x - mu) / sigma
	xPrime := nu / (nu + z*z)
	ib := numerics.RegularizedIncompleteBeta(nu/2, 0.5, xPrime)
	if z >= 0 {
		return 1 - 0.5*ib
	}
	return 0.5 * ib
}
func (studentTFamily) inSupport(data []float64) bool { return true }

// ---- Cauchy(location, scale) ----

type cauchyFamily struct{}

func (cauchyFamily) name() string         { return "cauchy" }
func (cauchyFamily) paramNames() []string { return []string{"location", "scale"} }
func (cauchyFamily) bounds() []bound {
	return []bound{{-largeBound, largeBound}, {1e-9, largeBound}}
}
func (cauchyFamily) seed(data []float64) []float64 {
	med := descstats.Quantile(data, 0.5)
	q25 := descstats.Quantile(data, 0.25)
	q75 := descstats.Quantile(data, 0.75)
	scale := (q75 - q25) / 2
	if scale <= 0 {
		scale = 1
	}
	return []float64{med, scale}
}
func (cauchyFamily) negLogLikelihood(p, data []float64) float64 {
	return dualCost(p, data, func(p []dual, x float64) dual {
		x0, gamma := p[0], p[1]
		z := realD(x).sub(x0).div(gamma)
		return dlog(realD(math.Pi).mul(gamma)).add(dlog(realD(1).add(z.mul(z))))
	})
}
func (cauchyFamily) gradient(p, data []float64) []float64 {
	return dualGradient(func(pd []dual) dual {
		return negDualSum(pd, data, func(p []dual, x float64) dual {
			x0, gamma := p[0], p[1]
			z := realD(x).sub(x0).div(gamma)
			return dlog(realD(math.Pi).mul(gamma)).add(dlog(realD(1).add(z.mul(z))))
		})
	}, p)
}
func (cauchyFamily) cdf(p []float64, x float64) float64 {
	return 0.5 + math.Atan((x-p[0])/p[1])/math.Pi
}
func (cauchyFamily) inSupport(data []float64) bool { return true }

// ---- Johnson SU(gamma, delta, xi, lambda) ----

type johnsonSUFamily struct{}

func (johnsonSUFamily) name() string         { return "johnson_su" }
func (johnsonSUFamily) paramNames() []string { return []string{"gamma", "delta", "xi", "lambda"} }
func (johnsonSUFamily) bounds() []bound {
	return []bound{{-largeBound, largeBound}, {1e-6, largeBound}, {-largeBound, largeBound}, {1e-9, largeBound}}
}
func (johnsonSUFamily) seed(data []float64) []float64 {
	m := descstats.Describe(data)
	lambda := m.StdDev
	if lambda <= 0 {
		lambda = 1
	}
	return []float64{0, 1, m.Mean, lambda}
}
func (johnsonSUFamily) negLogLikelihood(p, data []float64) float64 {
	return dualCost(p, data, func(p []dual, x float64) dual {
		gamma, delta, xi, lambda := p[0], p[1], p[2], p[3]
		w := realD(x).sub(xi).div(lambda)
		z := gamma.add(delta.mul(dasinh(w)))
		return dlog(delta).sub(dlog(lambda)).sub(realD(0.5 * math.Log(2*math.Pi))).
			sub(realD(0.5).mul(dlog(realD(1).add(w.mul(w))))).
			sub(realD(0.5).mul(z.mul(z)))
	})
}
func (johnsonSUFamily) gradient(p, data []float64) []float64 {
	return dualGradient(func(pd []dual) dual {
		return negDualSum(pd, data, func(p []dual, x float64) dual {
			gamma, delta, xi, lambda := p[0], p[1], p[2], p[3]
			w := realD(x).sub(xi).div(lambda)
			z := gamma.add(delta.mul(dasinh(w)))
			return dlog(delta).sub(dlog(lambda)).sub(realD(0.5 * math.Log(2*math.Pi))).
				sub(realD(0.5).mul(dlog(realD(1).add(w.mul(w))))).
				sub(realD(0.5).mul(z.mul(z)))
		})
	}, p)
}
func (johnsonSUFamily) cdf(p []float64, x float64) float64 {
	gamma, delta, xi, lambda := p[0], p[1], p[2], p[3]
	w := (x - xi) / lambda
	z := gamma + delta*math.Asinh(w)
	return 0.5 * (1 + numerics.Erf(z/math.Sqrt2))
}
func (johnsonSUFamily) inSupport(data []float64) bool { return true }

// ---- Burr XII(c shape, k shape, scale) ----

type burrXIIFamily struct{}

func (burrXIIFamily) name() string         { return "burr_xii" }
func (burrXIIFamily) paramNames() []string { return []string{"c", "k", "scale"} }
func (burrXIIFamily) bounds() []bound {
	return []bound{{1e-6, largeBound}, {1e-6, largeBound}, {1e-9, largeBound}}
}
func (burrXIIFamily) seed(data []float64) []float64 {
	m := descstats.Describe(data)
	scale := m.Mean
	if scale <= 0 {
		scale = 1
	}
	return []float64{1, 1, scale}
}
func (burrXIIFamily) negLogLikelihood(p, data []float64) float64 {
	return dualCost(p, data, func(p []dual, x float64) dual {
		c, k, scale := p[0], p[1], p[2]
		w := realD(x).div(scale)
		wc := dpowDual(w, c)
		return dlog(c).add(dlog(k)).sub(dlog(scale)).
			add(c.sub(realD(1)).mul(dlog(w))).
			sub(k.add(realD(1)).mul(dlog(realD(1).add(wc))))
	})
}
func (burrXIIFamily) gradient(p, data []float64) []float64 {
	return dualGradient(func(pd []dual) dual {
		return negDualSum(pd, data, func(p []dual, x float64) dual {
			c, k, scale := p[0], p[1], p[2]
			w := realD(x).div(scale)
			wc := dpowDual(w, c)
			return dlog(c).add(dlog(k)).sub(dlog(scale)).
				add(c.sub(realD(1)).mul(dlog(w))).
				sub(k.add(realD(1)).mul(dlog(realD(1).add(wc))))
		})
	}, p)
}
func (burrXIIFamily) cdf(p []float64, x float64) float64 {
	if x <= 0 {
		return 0
	}
	c, k, scale := p[0], p[1], p[2]
	return 1 - math.Pow(1+math.Pow(x/scale, c), -k)
}
func (burrXIIFamily) inSupport(data []float64) bool { return allPositive(data) }

// ---- shared helpers ----

// dualCost sums a per-point dual-valued log-density over data and negates
// it, evaluated at the plain float64 params (used to report the NLL
// value, not its gradient).
func dualCost(params, data []float64, logdensity func(p []dual, x float64) dual) float64 {
	pd := make([]dual, len(params))
	for i, v := range params {
		pd[i] = realD(v)
	}
	sum := realD(0)
	for _, x := range data {
		sum = sum.add(logdensity(pd, x))
	}
	return -sum.val
}

// negDualSum sums a per-point dual-valued log-density and negates it,
// keeping the dual (gradient) part intact for dualGradient to read off.
func negDualSum(pd []dual, data []float64, logdensity func(p []dual, x float64) dual) dual {
	sum := dual{}
	for _, x := range data {
		sum = sum.add(logdensity(pd, x))
	}
	return sum.neg()
}

// dpowDual raises a dual base to a dual exponent (needed where the Weibull
// and Burr XII shape parameter itself is being differentiated).
func dpowDual(base, exp dual) dual {
	// base^exp = exp(exp * log(base))
	return dexp(exp.mul(dlog(base)))
}

func logData(data []float64) []float64 {
	out := make([]float64, len(data))
	for i, x := range data {
		out[i] = math.Log(x)
	}
	return out
}

func allPositive(data []float64) bool {
	for _, x := range data {
		if x <= 0 {
			return false
		}
	}
	return true
}

func allNonNegative(data []float64) bool {
	for _, x := range data {
		if x < 0 {
			return false
		}
	}
	return true
}

func allInOpenUnitInterval(data []float64) bool {
	for _, x := range data {
		if x <= 0 || x >= 1 {
			return false
		}
	}
	return true
}

func minOf(data []float64) float64 {
	m := data[0]
	for _, x := range data[1:] {
		if x < m {
			m = x
		}
	}
	return m
}
