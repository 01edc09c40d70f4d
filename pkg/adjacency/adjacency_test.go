package adjacency_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/polytope/pkg/adjacency"
)

// ring builds k nodes holding 0..k-1 linked in a ring with LinkTo.
func ring(t *testing.T, k int) (*adjacency.Arena[int], []adjacency.ID) {
	t.Helper()
	a := adjacency.NewArena[int](k)
	ids := make([]adjacency.ID, k)
	for i := range ids {
		ids[i] = a.Add(i)
	}
	for i := range ids {
		require.NoError(t, a.LinkTo(ids[i], ids[(i+1)%k]))
	}
	return a, ids
}

func TestCycleVisitsEveryNodeOnce(t *testing.T) {
	for k := 3; k <= 8; k++ {
		for start := 0; start < k; start++ {
			a, ids := ring(t, k)
			cycle, err := a.Cycle(ids[start])
			require.NoError(t, err)
			assert.Len(t, cycle, k)
			assert.ElementsMatch(t, seq(k), cycle)
		}
	}
}

func TestCycleIsDestructive(t *testing.T) {
	a, ids := ring(t, 5)
	_, err := a.Cycle(ids[0])
	require.NoError(t, err)

	again, err := a.Cycle(ids[2])
	require.NoError(t, err)
	assert.Empty(t, again)

	a.ResetVisited()
	again, err = a.Cycle(ids[2])
	require.NoError(t, err)
	assert.Len(t, again, 5)
}

func TestCycleFromShuffledEdges(t *testing.T) {
	// Square 0-1-2-3 given as unordered, inconsistently oriented edges.
	a := adjacency.NewArena[string](4)
	n := map[string]adjacency.ID{}
	for _, v := range []string{"a", "b", "c", "d"} {
		n[v] = a.Add(v)
	}
	for _, e := range [][2]string{{"c", "b"}, {"a", "b"}, {"d", "a"}, {"c", "d"}} {
		require.NoError(t, a.LinkTo(n[e[0]], n[e[1]]))
	}

	cycle, err := a.Cycle(n["a"])
	require.NoError(t, err)
	require.Len(t, cycle, 4)
	assert.Equal(t, "a", cycle[0])
	// Either orientation is a valid answer; neighbours must be adjacent.
	if cycle[1] == "b" {
		assert.Equal(t, []string{"a", "b", "c", "d"}, cycle)
	} else {
		assert.Equal(t, []string{"a", "d", "c", "b"}, cycle)
	}
}

func TestLinkToOverflow(t *testing.T) {
	a := adjacency.NewArena[int](4)
	x, y, z, w := a.Add(0), a.Add(1), a.Add(2), a.Add(3)
	require.NoError(t, a.LinkTo(x, y))
	require.NoError(t, a.LinkTo(x, z))

	err := a.LinkTo(x, w)
	require.Error(t, err)
	assert.True(t, errors.Is(err, adjacency.ErrFullyLinked))
	assert.Equal(t, adjacency.None, a.Neighbor(w, 0), "failed link must not touch the other node")

	err = a.LinkTo(w, x)
	assert.True(t, errors.Is(err, adjacency.ErrFullyLinked))
	assert.Equal(t, adjacency.None, a.Neighbor(w, 0))
}

func TestOrderedCycle(t *testing.T) {
	a := adjacency.NewArena[int](4)
	ids := []adjacency.ID{a.Add(10), a.Add(20), a.Add(30), a.Add(40)}
	for i := range ids {
		a.LinkToNext(ids[i], ids[(i+1)%len(ids)])
	}
	assert.Equal(t, ids[1], a.Next(ids[0]))
	assert.Equal(t, ids[3], a.Prev(ids[0]))

	cycle, err := a.OrderedCycle(ids[2])
	require.NoError(t, err)
	assert.Equal(t, []int{30, 40, 10, 20}, cycle)
}

func TestLinkToPrev(t *testing.T) {
	a := adjacency.NewArena[int](2)
	x, y := a.Add(1), a.Add(2)
	a.LinkToPrev(x, y)
	assert.Equal(t, y, a.Prev(x))
	assert.Equal(t, x, a.Next(y))
}

func TestOpenChainIsReported(t *testing.T) {
	a := adjacency.NewArena[int](3)
	x, y, z := a.Add(0), a.Add(1), a.Add(2)
	require.NoError(t, a.LinkTo(x, y))
	require.NoError(t, a.LinkTo(y, z))

	_, err := a.Cycle(x)
	assert.True(t, errors.Is(err, adjacency.ErrNotCycle))
}

func TestCyclesCollectsComponents(t *testing.T) {
	a := adjacency.NewArena[int](6)
	var ids []adjacency.ID
	for i := 0; i < 6; i++ {
		ids = append(ids, a.Add(i))
	}
	// two triangles: 0-1-2 and 3-4-5
	for _, tri := range [][3]int{{0, 1, 2}, {3, 4, 5}} {
		for i := 0; i < 3; i++ {
			require.NoError(t, a.LinkTo(ids[tri[i]], ids[tri[(i+1)%3]]))
		}
	}

	cycles, err := a.Cycles()
	require.NoError(t, err)
	require.Len(t, cycles, 2)
	assert.ElementsMatch(t, []int{0, 1, 2}, cycles[0])
	assert.ElementsMatch(t, []int{3, 4, 5}, cycles[1])
}

func TestIDsIncrease(t *testing.T) {
	a := adjacency.NewArena[int](0)
	prev := a.Add(0)
	for i := 1; i < 10; i++ {
		id := a.Add(i)
		assert.Greater(t, id, prev)
		prev = id
	}
	assert.Equal(t, 10, a.Len())
	assert.Equal(t, 9, a.Value(prev))
	assert.False(t, a.Visited(prev))
}

func seq(k int) []int {
	s := make([]int, k)
	for i := range s {
		s[i] = i
	}
	return s
}
