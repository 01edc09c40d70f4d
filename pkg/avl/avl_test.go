package avl

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertKeepsBalance(t *testing.T) {
	tests := []struct {
		name string
		keys []int
	}{
		{"ascending", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}},
		{"descending", []int{12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1}},
		{"left-right", []int{30, 10, 20}},
		{"right-left", []int{10, 30, 20}},
		{"zigzag", []int{50, 10, 90, 20, 80, 30, 70, 40, 60}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := NewOrdered[int]()
			for _, k := range tt.keys {
				_, ok := tree.Insert(k)
				require.True(t, ok)
				require.NoError(t, tree.Check())
			}
			want := slices.Clone(tt.keys)
			slices.Sort(want)
			assert.Equal(t, want, tree.Keys())
			assert.Equal(t, len(want), tree.Len())
		})
	}
}

func TestInsertDuplicateLeavesSize(t *testing.T) {
	tree := NewOrdered[string]()
	h, ok := tree.Insert("b")
	require.True(t, ok)
	tree.Insert("a")
	tree.Insert("c")

	again, ok := tree.Insert("b")
	assert.False(t, ok)
	assert.Equal(t, h, again)
	assert.Equal(t, 3, tree.Len())
	require.NoError(t, tree.Check())
}

func TestDelete(t *testing.T) {
	tree := NewOrdered[int]()
	for i := 1; i <= 20; i++ {
		tree.Insert(i)
	}

	// leaf, one child, two children and the root
	for _, k := range []int{20, 19, 4, tree.Key(tree.root)} {
		require.True(t, tree.Delete(k), "delete %d", k)
		require.NoError(t, tree.Check())
		assert.False(t, tree.Contains(k))
	}
	assert.Equal(t, 16, tree.Len())
}

func TestDeleteAbsentKey(t *testing.T) {
	tree := NewOrdered[int]()
	tree.Insert(1)
	tree.Insert(2)

	assert.False(t, tree.Delete(42))
	assert.Equal(t, 2, tree.Len())
	require.NoError(t, tree.Check())

	empty := NewOrdered[int]()
	assert.False(t, empty.Delete(1))
	assert.Equal(t, 0, empty.Len())
}

func TestRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tree := NewOrdered[int]()
	present := map[int]bool{}

	for i := 0; i < 2000; i++ {
		k := rng.Intn(300)
		if rng.Intn(3) == 0 {
			assert.Equal(t, present[k], tree.Delete(k))
			delete(present, k)
		} else {
			_, ok := tree.Insert(k)
			assert.Equal(t, !present[k], ok)
			present[k] = true
		}
		if i%50 == 0 {
			require.NoError(t, tree.Check())
		}
	}
	require.NoError(t, tree.Check())

	var want []int
	for k := range present {
		want = append(want, k)
	}
	slices.Sort(want)
	assert.Equal(t, want, tree.Keys())
}

func TestNextPrev(t *testing.T) {
	tree := NewOrdered[int]()
	for _, k := range []int{8, 3, 10, 1, 6, 14, 4, 7, 13} {
		tree.Insert(k)
	}

	var forward []int
	for h := tree.MinNode(); h.Valid(); h = tree.Next(h) {
		forward = append(forward, tree.Key(h))
	}
	assert.Equal(t, []int{1, 3, 4, 6, 7, 8, 10, 13, 14}, forward)

	var backward []int
	for h := tree.MaxNode(); h.Valid(); h = tree.Prev(h) {
		backward = append(backward, tree.Key(h))
	}
	assert.Equal(t, []int{14, 13, 10, 8, 7, 6, 4, 3, 1}, backward)
}

func TestMinMax(t *testing.T) {
	tree := NewOrdered[float64]()
	_, ok := tree.Min()
	assert.False(t, ok)
	assert.Equal(t, Nil, tree.MaxNode())
	assert.True(t, tree.IsEmpty())

	for _, k := range []float64{2.5, -1, 7} {
		tree.Insert(k)
	}
	lo, _ := tree.Min()
	hi, _ := tree.Max()
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 7.0, hi)
}

func TestSlotsAreRecycled(t *testing.T) {
	tree := NewOrdered[int]()
	for i := 0; i < 10; i++ {
		tree.Insert(i)
	}
	for i := 0; i < 10; i++ {
		tree.Delete(i)
	}
	for i := 0; i < 10; i++ {
		tree.Insert(i)
	}
	assert.Len(t, tree.nodes, 10)
	require.NoError(t, tree.Check())
}

func TestComparatorWithExternalState(t *testing.T) {
	// Keys are ordered by distance from a moving pivot.
	pivot := 0
	tree := New(func(a, b int) int {
		da, db := abs(a-pivot), abs(b-pivot)
		if da != db {
			return da - db
		}
		return a - b
	})
	for _, k := range []int{-3, 1, 4, -1} {
		tree.Insert(k)
	}
	assert.Equal(t, []int{-1, 1, -3, 4}, tree.Keys())

	// Keys are removed before the pivot moves and re-inserted after it.
	keys := tree.Keys()
	for _, k := range keys {
		require.True(t, tree.Delete(k))
	}
	pivot = 4
	for _, k := range keys {
		tree.Insert(k)
	}
	assert.Equal(t, []int{4, 1, -1, -3}, tree.Keys())
	require.NoError(t, tree.Check())
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func TestCheckReportsCorruption(t *testing.T) {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}

	build := func() *Tree[int] {
		tr := NewOrdered[int]()
		for i := 1; i <= 7; i++ {
			tr.Insert(i)
		}
		require.NoError(t, tr.Check())
		return tr
	}

	tr := build()
	tr.size++
	err := tr.Check()
	require.ErrorContains(t, err, "size is 8 but 7 nodes are reachable")
	assert.Implements(t, (*stackTracer)(nil), err)

	tr = build()
	tr.nodes[tr.root].height += 2
	err = tr.Check()
	require.ErrorContains(t, err, "caches height")
	assert.Implements(t, (*stackTracer)(nil), err)
}
