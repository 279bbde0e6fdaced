package prophet

import (
	"math"
	"sort"

	"scicore/numerics"
)

const (
	mcmcChains   = 4
	mcmcSamples  = 1000
	mcmcBurnin   = 200
	mcmcThin     = 5
	proposalStd  = 0.1
)

// mcmcState is the flat parameter vector one chain walks over: every
// seasonal Fourier coefficient across every configured seasonality,
// followed by log-sigma. The trend is held fixed at its point estimate;
// trend coefficients are not sampled (see DESIGN.md).
type mcmcState struct {
	seasonal []float64
	logSigma float64
}

func (s mcmcState) clone() mcmcState {
	return mcmcState{seasonal: append([]float64(nil), s.seasonal...), logSigma: s.logSigma}
}

// logPosterior evaluates the unnormalized log posterior of a state against
// the trend-detrended residual series: N(0,1) priors on seasonal
// coefficients, a weak inverse-gamma-like -2*log(sigma)-1/sigma prior on
// sigma, and a Gaussian likelihood around the Fourier-reconstructed
// seasonal series. The trend itself is held fixed at its point estimate.
func logPosterior(state mcmcState, t, residual []float64, fits []seasonalFit) float64 {
	sigma := math.Exp(state.logSigma)
	if sigma <= 0 {
		return math.Inf(-1)
	}

	reconstructed := reconstructSeasonal(state.seasonal, fits, t)
	ll := 0.0
	for i := range residual {
		d := residual[i] - reconstructed[i]
		ll += -0.5*math.Log(2*math.Pi*sigma*sigma) - d*d/(2*sigma*sigma)
	}

	prior := 0.0
	for _, c := range state.seasonal {
		prior += -0.5 * math.Log(2*math.Pi) - c*c/2
	}
	prior += -2*state.logSigma - 1/sigma

	return ll + prior
}

func reconstructSeasonal(coeffs []float64, fits []seasonalFit, t []float64) []float64 {
	out := make([]float64, len(t))
	offset := 0
	for _, fit := range fits {
		n := len(fit.Coeffs)
		sub := coeffs[offset : offset+n]
		offset += n
		for i, ti := range t {
			for k := 1; k <= fit.Harmonics; k++ {
				theta := 2 * math.Pi * float64(k) * ti / fit.Period
				out[i] += sub[2*(k-1)]*math.Sin(theta) + sub[2*(k-1)+1]*math.Cos(theta)
			}
		}
	}
	return out
}

func flattenSeasonalCoeffs(fits []seasonalFit) []float64 {
	var out []float64
	for _, f := range fits {
		out = append(out, f.Coeffs...)
	}
	return out
}

// runMCMC runs mcmcChains independent Metropolis-Hastings chains (seeds
// independent, spec.md §4.6), returns every post-burn-in, thinned sample's
// full forecast at each requested future t, with N(0,sigma) observation
// noise added per sample.
func runMCMC(m *Model, futureT []float64, parentSeed uint64) [][]float64 {
	center := mcmcState{seasonal: flattenSeasonalCoeffs(m.Seasonals), logSigma: math.Log(maxFloat(m.ResidualSigma, 1e-6))}
	seeds := numerics.ChildSeeds(numerics.NewRand(parentSeed), mcmcChains)

	chainSamples := make([][]mcmcState, len(seeds))
	numerics.ParallelFor(len(seeds), func(c int) {
		chainSamples[c] = runChain(center, m, seeds[c])
	})
	var allSamples []mcmcState
	for _, cs := range chainSamples {
		allSamples = append(allSamples, cs...)
	}

	noiseSeeds := numerics.ChildSeeds(numerics.NewRand(parentSeed+1), len(allSamples))
	out := make([][]float64, len(allSamples))
	numerics.ParallelFor(len(allSamples), func(i int) {
		rng := numerics.NewRand(noiseSeeds[i])
		sample := allSamples[i]
		sigma := math.Exp(sample.logSigma)
		forecast := make([]float64, len(futureT))
		seasonalAtFuture := reconstructSeasonal(sample.seasonal, m.Seasonals, futureT)
		for j, t := range futureT {
			trend := trendAt(m.Trend, m.T, t)
			forecast[j] = trend + seasonalAtFuture[j] + rng.NormFloat64()*sigma
		}
		out[i] = forecast
	})
	return out
}

func runChain(start mcmcState, m *Model, seed uint64) []mcmcState {
	rng := numerics.NewRand(seed)
	state := start.clone()
	curLP := logPosterior(state, m.T, m.Residuals, m.Seasonals)

	var kept []mcmcState
	total := mcmcBurnin + mcmcSamples*mcmcThin
	for i := 0; i < total; i++ {
		proposal := state.clone()
		for j := range proposal.seasonal {
			proposal.seasonal[j] += rng.NormFloat64() * proposalStd
		}
		proposal.logSigma += rng.NormFloat64() * proposalStd

		propLP := logPosterior(proposal, m.T, m.Residuals, m.Seasonals)
		if math.Log(rng.Float64()) < minFloat(0, propLP-curLP) {
			state = proposal
			curLP = propLP
		}
		if i >= mcmcBurnin && (i-mcmcBurnin)%mcmcThin == 0 {
			kept = append(kept, state.clone())
		}
	}
	return kept
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// percentiles returns the requested percentiles (0-100) of each horizon's
// sample column.
func percentiles(samples [][]float64, horizons int, ps []float64) [][]float64 {
	out := make([][]float64, len(ps))
	for i := range out {
		out[i] = make([]float64, horizons)
	}
	col := make([]float64, len(samples))
	for h := 0; h < horizons; h++ {
		for s := range samples {
			col[s] = samples[s][h]
		}
		sort.Float64s(col)
		for pi, p := range ps {
			idx := int(p / 100 * float64(len(col)-1))
			if idx < 0 {
				idx = 0
			}
			if idx >= len(col) {
				idx = len(col) - 1
			}
			out[pi][h] = col[idx]
		}
	}
	return out
}
