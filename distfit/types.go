// Package distfit is the L2 maximum-likelihood distribution-fitting engine
// (spec.md §4.4): MLE for twelve continuous families via a bounded gradient
// optimizer (analytic gradients where closed forms exist, dual-number
// gradients otherwise), plus AIC/BIC/Kolmogorov-Smirnov goodness-of-fit.
package distfit

// NamedParam is one fitted parameter's name and value, in the family's
// canonical order.
type NamedParam struct {
	Name  string
	Value float64
}

// DistributionFit is the result of fitting one family to data (spec.md §3,
// §6).
type DistributionFit struct {
	Name           string
	Parameters     []NamedParam
	LogLikelihood  float64
	AIC            float64
	BIC            float64
	KSStatistic    float64
	ParameterSigma []float64 // nil unless measurement uncertainties were supplied
}

// family is the internal contract every distribution implements: a
// negative log-likelihood, its gradient (analytic or dual-number), a
// method-of-moments seed, per-parameter bounds, a CDF for the KS statistic,
// and a support check.
type family interface {
	name() string
	paramNames() []string
	bounds() []bound
	seed(data []float64) []float64
	negLogLikelihood(params, data []float64) float64
	gradient(params, data []float64) []float64
	cdf(params []float64, x float64) float64
	inSupport(data []float64) bool
}

type bound struct{ lo, hi float64 }

var allFamilies = []family{
	normalFamily{},
	logNormalFamily{},
	exponentialFamily{},
	weibullFamily{},
	gammaFamily{},
	betaFamily{},
	gumbelFamily{},
	paretoFamily{},
	studentTFamily{},
	cauchyFamily{},
	johnsonSUFamily{},
	burrXIIFamily{},
}
