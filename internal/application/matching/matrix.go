package matching

// newCostMatrix allocates an n-by-n matrix with every cell set to the
// sentinel cost.  The assignment solver requires a square matrix even when
// the two documents have different component counts; sentinel cells stand
// for the padded rows and columns and for pairs the similarity index never
// produced a distance for.
func newCostMatrix(n int, sentinel float64) [][]float64 {
	m := make([][]float64, n)
	backing := make([]float64, n*n)
	for i := range backing {
		backing[i] = sentinel
	}
	for i := range m {
		m[i] = backing[i*n : (i+1)*n : (i+1)*n]
	}
	return m
}
