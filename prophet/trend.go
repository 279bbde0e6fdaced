package prophet

import "math"

const (
	logisticLR       = 0.01
	logisticIters    = 100
	logisticKMin     = 1e-3
	logisticKMax     = 10
)

// fitTrend fits one segment per [start,end) bound, linear or logistic per
// cfg.Trend (spec.md §4.6).
func fitTrend(t, y []float64, bounds [][2]int, cfg Config) []trendSegment {
	segments := make([]trendSegment, len(bounds))
	for i, b := range bounds {
		segT := t[b[0]:b[1]]
		segY := y[b[0]:b[1]]
		if cfg.Trend == TrendLogistic {
			segments[i] = fitLogisticSegment(segT, segY, cfg.Capacity, b[0], b[1])
		} else {
			a, bb := olsLine(segT, segY)
			segments[i] = trendSegment{Start: b[0], End: b[1], A: a, B: bb}
		}
	}
	return segments
}

// olsLine fits y = a*t + b by ordinary least squares (closed form).
func olsLine(t, y []float64) (a, b float64) {
	n := float64(len(t))
	if n == 0 {
		return 0, 0
	}
	var sumT, sumY, sumTY, sumTT float64
	for i := range t {
		sumT += t[i]
		sumY += y[i]
		sumTY += t[i] * y[i]
		sumTT += t[i] * t[i]
	}
	denom := n*sumTT - sumT*sumT
	if denom == 0 {
		return 0, sumY / n
	}
	a = (n*sumTY - sumT*sumY) / denom
	b = (sumY - a*sumT) / n
	return a, b
}

// fitLogisticSegment fits L/(1+exp(-k(t-t0))) by gradient descent, eta=0.01,
// 100 iterations, k clamped to [1e-3,10] and t0 clamped to [tmin,tmax]
// (spec.md §4.6).
func fitLogisticSegment(t, y []float64, capacity float64, start, end int) trendSegment {
	if len(t) == 0 {
		return trendSegment{Start: start, End: end, L: capacity, K: 1, T0: 0}
	}
	tMin, tMax := t[0], t[0]
	for _, v := range t {
		if v < tMin {
			tMin = v
		}
		if v > tMax {
			tMax = v
		}
	}
	k := 1.0
	t0 := (tMin + tMax) / 2

	for iter := 0; iter < logisticIters; iter++ {
		var gradK, gradT0 float64
		for i := range t {
			z := -k * (t[i] - t0)
			pred := capacity / (1 + math.Exp(z))
			err := pred - y[i]
			sig := 1 / (1 + math.Exp(z))
			dPredDk := capacity * sig * (1 - sig) * (t[i] - t0)
			dPredDt0 := -capacity * sig * (1 - sig) * k
			gradK += err * dPredDk
			gradT0 += err * dPredDt0
		}
		k -= logisticLR * gradK
		t0 -= logisticLR * gradT0
		k = clampProphet(k, logisticKMin, logisticKMax)
		t0 = clampProphet(t0, tMin, tMax)
	}
	return trendSegment{Start: start, End: end, Logistic: true, L: capacity, K: k, T0: t0}
}

func clampProphet(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// trendAt evaluates the piecewise trend at t, using the segment whose
// training-index range is closest for out-of-range extrapolation.
func trendAt(segments []trendSegment, trainT []float64, t float64) float64 {
	seg := segmentFor(segments, trainT, t)
	if seg.Logistic {
		return seg.L / (1 + math.Exp(-seg.K*(t-seg.T0)))
	}
	return seg.A*t + seg.B
}

// segmentFor picks the segment covering t by comparing against the
// training timestamps at each segment's boundary, extrapolating with the
// first/last segment outside the training range.
func segmentFor(segments []trendSegment, trainT []float64, t float64) trendSegment {
	for _, seg := range segments {
		lo := trainT[seg.Start]
		hi := trainT[seg.End-1]
		if t >= lo && t <= hi {
			return seg
		}
	}
	if t < trainT[0] {
		return segments[0]
	}
	return segments[len(segments)-1]
}
