package treesim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolve_PicksCheapestPerfectMatching(t *testing.T) {
	t.Parallel()

	cost := [][]float64{
		{4, 1, 3},
		{2, 0, 5},
		{3, 2, 2},
	}
	assign, ok := Solve(cost)
	require.True(t, ok)
	require.Len(t, assign, 3)

	// Optimal: 0->1 (1), 1->0 (2), 2->2 (2) = 5
	assert.Equal(t, []int{1, 0, 2}, assign)
	assert.Equal(t, 5.0, AssignmentCost(cost, assign))
}

func TestSolve_IdentityMatrixOfZeros(t *testing.T) {
	t.Parallel()

	cost := [][]float64{
		{0, 9},
		{9, 0},
	}
	assign, ok := Solve(cost)
	require.True(t, ok)
	assert.Equal(t, []int{0, 1}, assign)
	assert.Equal(t, 0.0, AssignmentCost(cost, assign))
}

func TestSolve_SentinelCellsAreAvoidedWhenPossible(t *testing.T) {
	t.Parallel()

	s := SentinelCost
	cost := [][]float64{
		{s, 1, s},
		{2, s, s},
		{s, s, 3},
	}
	assign, ok := Solve(cost)
	require.True(t, ok)
	assert.Equal(t, []int{1, 0, 2}, assign)
	assert.Equal(t, 6.0, AssignmentCost(cost, assign))
}

func TestSolve_AllSentinelStillSolves(t *testing.T) {
	t.Parallel()

	s := SentinelCost
	cost := [][]float64{
		{s, s},
		{s, s},
	}
	assign, ok := Solve(cost)
	require.True(t, ok)
	require.Len(t, assign, 2)
	// Every pairing lands on a sentinel; the caller's threshold discards
	// them, the solver itself stays feasible.
	assert.Equal(t, 2*s, AssignmentCost(cost, assign))
}

func TestSolve_ResultIsAPermutation(t *testing.T) {
	t.Parallel()

	cost := [][]float64{
		{3, 7, 1, 9},
		{4, 4, 4, 4},
		{8, 2, 6, 5},
		{1, 9, 9, 2},
	}
	assign, ok := Solve(cost)
	require.True(t, ok)

	seen := make(map[int]bool, len(assign))
	for _, j := range assign {
		assert.GreaterOrEqual(t, j, 0)
		assert.Less(t, j, len(cost))
		assert.False(t, seen[j], "column %d assigned twice", j)
		seen[j] = true
	}
}

func TestSolve_OptimalAgainstBruteForce(t *testing.T) {
	t.Parallel()

	cost := [][]float64{
		{5.5, 2.0, 9.1},
		{3.3, 8.8, 1.2},
		{7.7, 4.4, 6.6},
	}
	assign, ok := Solve(cost)
	require.True(t, ok)

	best := math.Inf(1)
	perms := [][]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}
	for _, p := range perms {
		var c float64
		for i, j := range p {
			c += cost[i][j]
		}
		if c < best {
			best = c
		}
	}
	assert.InDelta(t, best, AssignmentCost(cost, assign), 1e-9)
}

func TestSolve_DegenerateInputs(t *testing.T) {
	t.Parallel()

	t.Run("empty matrix succeeds trivially", func(t *testing.T) {
		t.Parallel()
		assign, ok := Solve(nil)
		assert.True(t, ok)
		assert.Empty(t, assign)
	})

	t.Run("ragged matrix fails", func(t *testing.T) {
		t.Parallel()
		_, ok := Solve([][]float64{{1, 2}, {3}})
		assert.False(t, ok)
	})

	t.Run("non-square matrix fails", func(t *testing.T) {
		t.Parallel()
		_, ok := Solve([][]float64{{1, 2, 3}, {4, 5, 6}})
		assert.False(t, ok)
	})

	t.Run("NaN entry fails", func(t *testing.T) {
		t.Parallel()
		_, ok := Solve([][]float64{{math.NaN()}})
		assert.False(t, ok)
	})

	t.Run("infinite entry fails", func(t *testing.T) {
		t.Parallel()
		_, ok := Solve([][]float64{{math.Inf(1)}})
		assert.False(t, ok)
	})
}

func TestSolve_SingleCell(t *testing.T) {
	t.Parallel()

	assign, ok := Solve([][]float64{{42}})
	require.True(t, ok)
	assert.Equal(t, []int{0}, assign)
}
