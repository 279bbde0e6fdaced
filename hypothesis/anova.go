package hypothesis

import (
	"math"

	"scicore/numerics"
	"scicore/scierr"
)

// OneWayResult is the one-way ANOVA output plus Bonferroni-corrected
// pairwise post-hoc comparisons (spec.md §4.7).
type OneWayResult struct {
	F           float64
	P           float64
	DFBetween   float64
	DFWithin    float64
	SSBetween   float64
	SSWithin    float64
	EtaSquared  float64
	PostHoc     []PairwiseResult
}

// PairwiseResult is one Bonferroni-corrected pairwise comparison.
type PairwiseResult struct {
	GroupA, GroupB int
	T              float64
	P              float64 // Bonferroni-corrected
	Significant    bool
}

// OneWayANOVA tests H0: all group means are equal (spec.md §4.7).
func OneWayANOVA(groups [][]float64) (*OneWayResult, error) {
	k := len(groups)
	if k < 2 {
		return nil, scierr.New(scierr.Validation, "hypothesis.OneWayANOVA", errTooFewGroups)
	}
	var grandSum float64
	n := 0
	means := make([]float64, k)
	for i, g := range groups {
		if len(g) == 0 {
			return nil, scierr.New(scierr.Validation, "hypothesis.OneWayANOVA", errFewPoints)
		}
		sum := 0.0
		for _, v := range g {
			sum += v
			grandSum += v
		}
		means[i] = sum / float64(len(g))
		n += len(g)
	}
	grandMean := grandSum / float64(n)

	var ssBetween, ssWithin float64
	for i, g := range groups {
		ssBetween += float64(len(g)) * (means[i] - grandMean) * (means[i] - grandMean)
		for _, v := range g {
			d := v - means[i]
			ssWithin += d * d
		}
	}
	ssTotal := ssBetween + ssWithin
	dfBetween := float64(k - 1)
	dfWithin := float64(n - k)
	if dfWithin <= 0 {
		return nil, scierr.New(scierr.Validation, "hypothesis.OneWayANOVA", errNonPositiveResidualDF)
	}

	msBetween := ssBetween / dfBetween
	msWithin := ssWithin / dfWithin
	f := msBetween / msWithin
	p := 1 - numerics.FCDF(f, dfBetween, dfWithin)
	eta2 := 0.0
	if ssTotal > 0 {
		eta2 = ssBetween / ssTotal
	}

	postHoc := bonferroniPostHoc(groups, means, msWithin, dfWithin)

	return &OneWayResult{
		F: f, P: p, DFBetween: dfBetween, DFWithin: dfWithin,
		SSBetween: ssBetween, SSWithin: ssWithin, EtaSquared: eta2, PostHoc: postHoc,
	}, nil
}

// bonferroniPostHoc runs all-pairs t-tests against the pooled within-group
// mean square, Bonferroni-correcting the p-value by the number of pairs.
func bonferroniPostHoc(groups [][]float64, means []float64, msWithin, dfWithin float64) []PairwiseResult {
	k := len(groups)
	numPairs := k * (k - 1) / 2
	var results []PairwiseResult
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			se := sqrtPooled(msWithin, len(groups[i]), len(groups[j]))
			var t float64
			if se > 0 {
				t = (means[i] - means[j]) / se
			}
			p := twoSidedTPValue(t, dfWithin) * float64(numPairs)
			if p > 1 {
				p = 1
			}
			results = append(results, PairwiseResult{
				GroupA: i, GroupB: j, T: t, P: p, Significant: p < alpha05,
			})
		}
	}
	return results
}

func sqrtPooled(msWithin float64, ni, nj int) float64 {
	v := msWithin * (1/float64(ni) + 1/float64(nj))
	if v <= 0 {
		return 0
	}
	return math.Sqrt(v)
}
