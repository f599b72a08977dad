package treesim

// Distance computes the exact tree edit distance between a and b under the
// given cost model using the Zhang-Shasha dynamic program over key roots.
// Runtime is O(|a|*|b|*min(depth,leaves)^2) in the worst case; the trees
// produced by the bracket parser are typically shallow enough that this is
// far cheaper in practice.
func Distance(a, b *Tree, cm CostModel) float64 {
	na, nb := a.Size(), b.Size()
	switch {
	case na == 0 && nb == 0:
		return 0
	case na == 0:
		var sum float64
		for _, l := range b.Labels {
			sum += cm.Insert(l)
		}
		return sum
	case nb == 0:
		var sum float64
		for _, l := range a.Labels {
			sum += cm.Delete(l)
		}
		return sum
	}

	// d[i][j] is the edit distance between the subtrees rooted at postorder
	// nodes i of a and j of b.
	d := make([][]float64, na)
	for i := range d {
		d[i] = make([]float64, nb)
	}

	for _, i := range a.keyroots {
		for _, j := range b.keyroots {
			forestDistance(a, b, i, j, cm, d)
		}
	}
	return d[na-1][nb-1]
}

// forestDistance fills d with the subtree distances decided while computing
// the forest distance between the key-rooted subtrees at postorder nodes i
// and j.
func forestDistance(a, b *Tree, i, j int, cm CostModel, d [][]float64) {
	li, lj := a.lld[i], b.lld[j]
	m := i - li + 2
	n := j - lj + 2

	fd := make([][]float64, m)
	for x := range fd {
		fd[x] = make([]float64, n)
	}

	for x := 1; x < m; x++ {
		fd[x][0] = fd[x-1][0] + cm.Delete(a.Labels[li+x-1])
	}
	for y := 1; y < n; y++ {
		fd[0][y] = fd[0][y-1] + cm.Insert(b.Labels[lj+y-1])
	}

	for x := 1; x < m; x++ {
		ai := li + x - 1
		for y := 1; y < n; y++ {
			bj := lj + y - 1

			del := fd[x-1][y] + cm.Delete(a.Labels[ai])
			ins := fd[x][y-1] + cm.Insert(b.Labels[bj])

			if a.lld[ai] == li && b.lld[bj] == lj {
				// Both prefixes are whole subtrees; the rename case closes
				// a subtree-to-subtree distance.
				ren := fd[x-1][y-1] + cm.Rename(a.Labels[ai], b.Labels[bj])
				fd[x][y] = min3(del, ins, ren)
				d[ai][bj] = fd[x][y]
			} else {
				ren := fd[a.lld[ai]-li][b.lld[bj]-lj] + d[ai][bj]
				fd[x][y] = min3(del, ins, ren)
			}
		}
	}
}

func min3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
