package impute

import (
	"math"
	"sort"

	"scicore/numerics"

	"golang.org/x/exp/rand"
)

const (
	exactScanLimit  = 1000
	kdTreeMinRows   = 5000
	kdTreeMaxDims   = 3
)

// columnSigma returns the standard deviation of each column computed from
// its non-missing entries (spec.md §4.5 "weights = per-column sigma").
func columnSigma(m *Matrix) []float64 {
	sigma := make([]float64, m.Cols)
	for j := 0; j < m.Cols; j++ {
		var sum, sumSq float64
		n := 0
		for i := 0; i < m.Rows; i++ {
			v := m.At(i, j)
			if !isMissing(v) {
				sum += v
				sumSq += v * v
				n++
			}
		}
		if n < 2 {
			sigma[j] = 1
			continue
		}
		mean := sum / float64(n)
		variance := sumSq/float64(n) - mean*mean
		if variance <= 0 {
			sigma[j] = 1
		} else {
			sigma[j] = math.Sqrt(variance)
		}
	}
	return sigma
}

// standardizedDistance computes the Euclidean distance between rows a and
// b over dimensions where both are non-missing, each dimension scaled by
// 1/sigma. Returns (distance, sharedDims).
func standardizedDistance(m *Matrix, a, b int, sigma []float64) (float64, int) {
	sum := 0.0
	shared := 0
	for j := 0; j < m.Cols; j++ {
		av, bv := m.At(a, j), m.At(b, j)
		if isMissing(av) || isMissing(bv) {
			continue
		}
		d := (av - bv) / sigma[j]
		sum += d * d
		shared++
	}
	return math.Sqrt(sum), shared
}

type neighbor struct {
	row  int
	dist float64
}

// knnImpute fills missing cells with the inverse-distance-weighted average
// of the k nearest rows (spec.md §4.5), choosing a search strategy from the
// exact/KD-tree/sort-window/random-sample fallback chain based on size.
func knnImpute(m *Matrix, k int, rngSeed uint64) (*Matrix, int) {
	out := m.Clone()
	sigma := columnSigma(m)
	filled := 0
	rng := numerics.NewRand(rngSeed)

	completeRows := completeRowIndices(m)
	useKD := m.Rows > kdTreeMinRows && m.Cols <= kdTreeMaxDims && len(completeRows) >= k
	var tree *kdTree
	if useKD {
		tree = buildKDTree(m, completeRows, sigma)
	}

	for i := 0; i < m.Rows; i++ {
		var missingCols []int
		for j := 0; j < m.Cols; j++ {
			if isMissing(m.At(i, j)) {
				missingCols = append(missingCols, j)
			}
		}
		if len(missingCols) == 0 {
			continue
		}

		var neighbors []neighbor
		switch {
		case m.Rows <= exactScanLimit:
			neighbors = exactKNN(m, i, k, sigma)
		case useKD:
			neighbors = tree.query(m, i, k, sigma)
			if len(neighbors) < k {
				neighbors = sortWindowKNN(m, i, k, sigma)
			}
		default:
			neighbors = sortWindowKNN(m, i, k, sigma)
		}
		if len(neighbors) < k {
			neighbors = randomSampleKNN(m, i, k, sigma, rng)
		}

		for _, j := range missingCols {
			v, ok := weightedAverage(m, neighbors, j)
			if !ok {
				v = 0
			}
			out.Set(i, j, v)
			filled++
		}
	}
	return out, filled
}

func completeRowIndices(m *Matrix) []int {
	var rows []int
	for i := 0; i < m.Rows; i++ {
		complete := true
		for j := 0; j < m.Cols; j++ {
			if isMissing(m.At(i, j)) {
				complete = false
				break
			}
		}
		if complete {
			rows = append(rows, i)
		}
	}
	return rows
}

// exactKNN scans every other row, in parallel, and keeps the k closest
// with at least one shared dimension.
func exactKNN(m *Matrix, target, k int, sigma []float64) []neighbor {
	candidates := make([]neighbor, m.Rows)
	numerics.ParallelFor(m.Rows, func(i int) {
		if i == target {
			candidates[i] = neighbor{row: i, dist: math.Inf(1)}
			return
		}
		d, shared := standardizedDistance(m, target, i, sigma)
		if shared == 0 {
			d = math.Inf(1)
		}
		candidates[i] = neighbor{row: i, dist: d}
	})
	return topK(candidates, k)
}

// sortWindowKNN is the zero-dependency heuristic: sort rows by the
// highest-variance column, then search a window around the target's
// position in that order (spec.md §4.5).
func sortWindowKNN(m *Matrix, target, k int, sigma []float64) []neighbor {
	hv := highestVarianceColumn(m)
	order := make([]int, m.Rows)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		va, vb := m.At(order[a], hv), m.At(order[b], hv)
		if isMissing(va) {
			va = math.Inf(1)
		}
		if isMissing(vb) {
			vb = math.Inf(1)
		}
		return va < vb
	})
	pos := 0
	for idx, r := range order {
		if r == target {
			pos = idx
			break
		}
	}
	window := int(math.Max(float64(k*2), math.Sqrt(float64(m.Rows))))
	lo := pos - window
	hi := pos + window
	if lo < 0 {
		lo = 0
	}
	if hi >= len(order) {
		hi = len(order) - 1
	}

	var candidates []neighbor
	for idx := lo; idx <= hi; idx++ {
		r := order[idx]
		if r == target {
			continue
		}
		d, shared := standardizedDistance(m, target, r, sigma)
		if shared == 0 {
			continue
		}
		candidates = append(candidates, neighbor{row: r, dist: d})
	}
	return topK(candidates, k)
}

// randomSampleKNN samples sqrt(n) candidate rows uniformly at random as a
// last-resort fallback.
func randomSampleKNN(m *Matrix, target, k int, sigma []float64, rng *rand.Rand) []neighbor {
	numCandidates := int(math.Sqrt(float64(m.Rows)))
	if numCandidates < k {
		numCandidates = k
	}
	seen := map[int]bool{target: true}
	var candidates []neighbor
	for len(candidates) < numCandidates && len(seen) < m.Rows {
		r := int(rng.Int63() % int64(m.Rows))
		if seen[r] {
			continue
		}
		seen[r] = true
		d, shared := standardizedDistance(m, target, r, sigma)
		if shared == 0 {
			continue
		}
		candidates = append(candidates, neighbor{row: r, dist: d})
	}
	return topK(candidates, k)
}

func topK(candidates []neighbor, k int) []neighbor {
	sort.Slice(candidates, func(a, b int) bool { return candidates[a].dist < candidates[b].dist })
	finite := candidates[:0:0]
	for _, c := range candidates {
		if !math.IsInf(c.dist, 1) {
			finite = append(finite, c)
		}
	}
	if len(finite) > k {
		finite = finite[:k]
	}
	return finite
}

func weightedAverage(m *Matrix, neighbors []neighbor, col int) (float64, bool) {
	var sumW, sumWV float64
	for _, nb := range neighbors {
		v := m.At(nb.row, col)
		if isMissing(v) {
			continue
		}
		w := 1 / (nb.dist + 1e-9)
		sumW += w
		sumWV += w * v
	}
	if sumW == 0 {
		return 0, false
	}
	return sumWV / sumW, true
}

func highestVarianceColumn(m *Matrix) int {
	best, bestVar := 0, -1.0
	for j := 0; j < m.Cols; j++ {
		var sum, sumSq float64
		n := 0
		for i := 0; i < m.Rows; i++ {
			v := m.At(i, j)
			if !isMissing(v) {
				sum += v
				sumSq += v * v
				n++
			}
		}
		if n < 2 {
			continue
		}
		mean := sum / float64(n)
		v := sumSq/float64(n) - mean*mean
		if v > bestVar {
			bestVar = v
			best = j
		}
	}
	return best
}
