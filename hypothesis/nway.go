package hypothesis

import (
	"scicore/design"
	"scicore/numerics"
	"scicore/scierr"

	"gonum.org/v1/gonum/mat"
)

// Factor is one categorical predictor: LevelIndex[i] names the 0-based
// level of observation i, out of NumLevels total, with ReferenceIdx as the
// baseline level for effect coding (spec.md §4.7).
type Factor struct {
	Name         string
	LevelIndex   []int
	NumLevels    int
	ReferenceIdx int
}

// EffectResult is one main-effect or 2-way-interaction row of an N-way
// ANOVA table (spec.md §6).
type EffectResult struct {
	Name          string
	F             float64
	P             float64
	DF            float64
	SS            float64
	PartialEtaSq  float64
	Significant   bool
}

// NWayResult bundles every main-effect and 2-way-interaction row plus the
// residual term.
type NWayResult struct {
	Effects      []EffectResult
	Interactions []EffectResult
	SSResidual   float64
	DFResidual   float64
}

// NWayANOVA fits a general linear model with effect coding for 2-5 factors
// and computes Type III sums of squares by model comparison (spec.md
// §4.7): the full model (all main effects + all 2-way interactions) gives
// SS_full; dropping one main effect's columns, and every interaction
// touching it, gives SS(effect); refitting the additive design (every
// main effect, no interactions at all) gives one shared SS_additive that
// every 2-way interaction's SS(A*B) is measured against. Higher-order
// interactions are never modeled; they fold into the residual.
func NWayANOVA(y []float64, factors []Factor) (*NWayResult, error) {
	if len(factors) < 2 || len(factors) > 5 {
		return nil, scierr.New(scierr.Validation, "hypothesis.NWayANOVA", errTooFewFactors)
	}
	n := len(y)

	mainCols := make([][][]float64, len(factors))
	for i, f := range factors {
		cols, err := design.EffectCoding(f.LevelIndex, f.NumLevels, f.ReferenceIdx)
		if err != nil {
			return nil, err
		}
		mainCols[i] = cols
	}

	type pair struct{ a, b int }
	var pairs []pair
	for i := 0; i < len(factors); i++ {
		for j := i + 1; j < len(factors); j++ {
			pairs = append(pairs, pair{i, j})
		}
	}
	interactionCols := make([][][]float64, len(pairs))
	for idx, p := range pairs {
		interactionCols[idx] = design.Interaction(mainCols[p.a], mainCols[p.b])
	}

	fullGroups := [][][]float64{{design.Intercept(n)}}
	for _, c := range mainCols {
		fullGroups = append(fullGroups, c)
	}
	for _, c := range interactionCols {
		fullGroups = append(fullGroups, c)
	}
	ssFull, pFull, err := residualSS(y, flattenGroups(fullGroups))
	if err != nil {
		return nil, err
	}

	totalParams := pFull
	dfResidual := float64(n - totalParams)
	if dfResidual <= 0 {
		return nil, scierr.New(scierr.Validation, "hypothesis.NWayANOVA", errNonPositiveResidualDF)
	}
	msResidual := ssFull / dfResidual

	var effects []EffectResult
	for i, f := range factors {
		var groups [][][]float64
		groups = append(groups, [][]float64{design.Intercept(n)})
		for j, c := range mainCols {
			if j == i {
				continue
			}
			groups = append(groups, c)
		}
		for idx, p := range pairs {
			if p.a == i || p.b == i {
				continue
			}
			groups = append(groups, interactionCols[idx])
		}
		ssReduced, _, err := residualSS(y, flattenGroups(groups))
		if err != nil {
			return nil, err
		}
		ss := maxZero(ssReduced - ssFull)
		df := float64(f.NumLevels - 1)
		ms := ss / df
		fStat := ms / msResidual
		p := 1 - numerics.FCDF(fStat, df, dfResidual)
		effects = append(effects, EffectResult{
			Name: f.Name, F: fStat, P: p, DF: df, SS: ss,
			PartialEtaSq: ss / (ss + ssFull), Significant: p < alpha05,
		})
	}

	additiveGroups := [][][]float64{{design.Intercept(n)}}
	additiveGroups = append(additiveGroups, mainCols...)
	ssAdditive, _, err := residualSS(y, flattenGroups(additiveGroups))
	if err != nil {
		return nil, err
	}

	var interactions []EffectResult
	for _, p := range pairs {
		ss := maxZero(ssAdditive - ssFull)
		df := float64((factors[p.a].NumLevels - 1) * (factors[p.b].NumLevels - 1))
		ms := ss / df
		fStat := ms / msResidual
		pv := 1 - numerics.FCDF(fStat, df, dfResidual)
		interactions = append(interactions, EffectResult{
			Name: factors[p.a].Name + "*" + factors[p.b].Name, F: fStat, P: pv, DF: df, SS: ss,
			PartialEtaSq: ss / (ss + ssFull), Significant: pv < alpha05,
		})
	}

	return &NWayResult{Effects: effects, Interactions: interactions, SSResidual: ssFull, DFResidual: dfResidual}, nil
}

func flattenGroups(groups [][][]float64) [][]float64 {
	var out [][]float64
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// residualSS fits y ~ columns by SVD least squares and returns the
// residual sum of squares plus the number of fitted parameters.
func residualSS(y []float64, columns [][]float64) (float64, int, error) {
	n := len(y)
	p := len(columns)
	X := mat.NewDense(n, p, nil)
	for j, col := range columns {
		for i := 0; i < n; i++ {
			X.Set(i, j, col[i])
		}
	}
	b := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		b.Set(i, 0, y[i])
	}
	sol, err := numerics.SolveLeastSquares(X, b)
	if err != nil {
		return 0, p, scierr.New(scierr.Numerical, "hypothesis.residualSS", err)
	}
	var fitted mat.Dense
	fitted.Mul(X, sol)
	ss := 0.0
	for i := 0; i < n; i++ {
		d := y[i] - fitted.At(i, 0)
		ss += d * d
	}
	return ss, p, nil
}

func maxZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
