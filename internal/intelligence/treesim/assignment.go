package treesim

import "math"

// Solve computes a minimum-cost perfect assignment on a square cost matrix
// using the Hungarian algorithm with row/column potentials in O(n^3).
// It returns assign such that row i is matched to column assign[i], and
// ok=false when the matrix is malformed (ragged, non-square, or containing
// NaN or infinite entries), in which case no assignment is produced.
//
// Cells that must never be chosen should carry a large finite sentinel cost
// rather than +Inf; the solver stays numerically exact and the caller's
// acceptance threshold rejects any pairing that had to fall on a sentinel.
func Solve(cost [][]float64) ([]int, bool) {
	n := len(cost)
	if n == 0 {
		return []int{}, true
	}
	for _, row := range cost {
		if len(row) != n {
			return nil, false
		}
		for _, c := range row {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return nil, false
			}
		}
	}

	// 1-indexed potentials and matching, index 0 is the virtual row/column.
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1)   // p[j] = row matched to column j
	way := make([]int, n+1) // predecessor column on the alternating path

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := range minv {
			minv[j] = math.Inf(1)
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := math.Inf(1)
			j1 := -1
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		// Augment along the found path.
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	assign := make([]int, n)
	for j := 1; j <= n; j++ {
		assign[p[j]-1] = j - 1
	}
	return assign, true
}

// AssignmentCost sums the matrix cells selected by assign.  It assumes
// assign came from a successful Solve on the same matrix.
func AssignmentCost(cost [][]float64, assign []int) float64 {
	var total float64
	for i, j := range assign {
		total += cost[i][j]
	}
	return total
}
