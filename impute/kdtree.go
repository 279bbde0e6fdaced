package impute

import "sort"

// kdTree indexes complete rows (every column observed) over a small number
// of standardized dimensions, used for KNN when the row count is large and
// dimensionality is low (spec.md §4.5).
type kdTree struct {
	root  *kdNode
	sigma []float64
}

type kdNode struct {
	row         int
	axis        int
	left, right *kdNode
}

func buildKDTree(m *Matrix, rows []int, sigma []float64) *kdTree {
	t := &kdTree{sigma: sigma}
	pts := append([]int(nil), rows...)
	t.root = buildKDNode(m, pts, 0)
	return t
}

func buildKDNode(m *Matrix, rows []int, depth int) *kdNode {
	if len(rows) == 0 {
		return nil
	}
	axis := depth % m.Cols
	sort.Slice(rows, func(a, b int) bool { return m.At(rows[a], axis) < m.At(rows[b], axis) })
	mid := len(rows) / 2
	node := &kdNode{row: rows[mid], axis: axis}
	node.left = buildKDNode(m, rows[:mid], depth+1)
	node.right = buildKDNode(m, rows[mid+1:], depth+1)
	return node
}

// query returns up to k nearest complete rows to target using standardized
// Euclidean distance, via a straightforward recursive KD-tree search.
func (t *kdTree) query(m *Matrix, target, k int, sigma []float64) []neighbor {
	if t.root == nil {
		return nil
	}
	var best []neighbor
	var search func(node *kdNode)
	search = func(node *kdNode) {
		if node == nil {
			return
		}
		if node.row != target {
			d, shared := standardizedDistance(m, target, node.row, sigma)
			if shared > 0 {
				best = append(best, neighbor{row: node.row, dist: d})
			}
		}
		diff := (m.At(target, node.axis) - m.At(node.row, node.axis)) / sigma[node.axis]
		first, second := node.left, node.right
		if diff > 0 {
			first, second = node.right, node.left
		}
		search(first)
		// A full KD-tree prune would compare diff against the current
		// k-th best distance; this always descends into both branches,
		// trading some search-time optimality for a simpler, always-
		// correct implementation over the low (<=3) dimensionalities
		// this path is restricted to.
		search(second)
	}
	search(t.root)
	return topK(best, k)
}
