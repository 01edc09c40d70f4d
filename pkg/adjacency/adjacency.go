// Package adjacency implements nodes with exactly two neighbour slots.
//
// Nodes are linked symmetrically: if A occupies a slot of B, B occupies a
// slot of A. On raw edge sets the slots carry no direction; once a cycle
// has been built with LinkToNext/LinkToPrev, slot 0 is "next" and slot 1
// is "previous". The package is used to recover vertex cycles from the
// unordered edges of a face and to rewire those cycles while splitting
// self-intersecting polygons.
package adjacency

import (
	"github.com/pkg/errors"
)

var (
	// ErrFullyLinked is returned by LinkTo when a node already has two
	// neighbours.
	ErrFullyLinked = errors.New("adjacency: node can only be linked to two other nodes")

	// ErrNotCycle is returned when a traversal does not close into a
	// single simple cycle.
	ErrNotCycle = errors.New("adjacency: nodes do not form a simple cycle")
)

// ID identifies a node within its Arena. IDs are handed out in increasing
// order, so they double as a stable tie-breaker between nodes that hold
// equal values.
type ID int32

// None marks an empty neighbour slot.
const None ID = -1

type node[V any] struct {
	value   V
	links   [2]ID
	visited bool
}

// Arena owns a set of nodes. Nodes are never freed individually; the
// whole arena is dropped once the caller is done with it.
type Arena[V any] struct {
	nodes []node[V]
}

// NewArena returns an empty arena with room for n nodes.
func NewArena[V any](n int) *Arena[V] {
	return &Arena[V]{nodes: make([]node[V], 0, n)}
}

// Add creates an unlinked node holding v.
func (a *Arena[V]) Add(v V) ID {
	a.nodes = append(a.nodes, node[V]{value: v, links: [2]ID{None, None}})
	return ID(len(a.nodes) - 1)
}

// Len returns the number of nodes in the arena.
func (a *Arena[V]) Len() int {
	return len(a.nodes)
}

// Value returns the value held by id.
func (a *Arena[V]) Value(id ID) V {
	return a.nodes[id].value
}

// Neighbor returns the node in the given slot (0 or 1), or None.
func (a *Arena[V]) Neighbor(id ID, slot int) ID {
	return a.nodes[id].links[slot]
}

// Next is Neighbor(id, 0).
func (a *Arena[V]) Next(id ID) ID {
	return a.nodes[id].links[0]
}

// Prev is Neighbor(id, 1).
func (a *Arena[V]) Prev(id ID) ID {
	return a.nodes[id].links[1]
}

// Visited reports whether a traversal has passed through id.
func (a *Arena[V]) Visited(id ID) bool {
	return a.nodes[id].visited
}

// ResetVisited clears every visited flag.
func (a *Arena[V]) ResetVisited() {
	for i := range a.nodes {
		a.nodes[i].visited = false
	}
}

// LinkTo places each node into the first free slot of the other.
// Nothing is modified if either node is already fully linked.
func (a *Arena[V]) LinkTo(x, y ID) error {
	sx, sy := a.freeSlot(x), a.freeSlot(y)
	if sx < 0 {
		return errors.Wrapf(ErrFullyLinked, "node %d", x)
	}
	if sy < 0 {
		return errors.Wrapf(ErrFullyLinked, "node %d", y)
	}
	a.nodes[x].links[sx] = y
	a.nodes[y].links[sy] = x
	return nil
}

func (a *Arena[V]) freeSlot(id ID) int {
	for s, l := range a.nodes[id].links {
		if l == None {
			return s
		}
	}
	return -1
}

// LinkToNext makes y the next node of x. Existing links are overwritten.
func (a *Arena[V]) LinkToNext(x, y ID) {
	a.nodes[x].links[0] = y
	a.nodes[y].links[1] = x
}

// LinkToPrev makes y the previous node of x. Existing links are overwritten.
func (a *Arena[V]) LinkToPrev(x, y ID) {
	a.nodes[x].links[1] = y
	a.nodes[y].links[0] = x
}

// Cycle walks from start without backtracking, marking every node it
// passes as visited, and returns the values in traversal order. It
// prefers slot 0 and falls back to slot 1 when slot 0 was already
// visited, so it works on undirected links as well as on directed ones.
//
// The walk is destructive: a second call on visited nodes yields a
// partial or empty result. It returns ErrNotCycle if it meets an empty
// slot or runs for more steps than there are nodes.
func (a *Arena[V]) Cycle(start ID) ([]V, error) {
	return a.walk(start, func(id ID) ID {
		n := a.nodes[id]
		if n.links[0] != None && !a.nodes[n.links[0]].visited {
			return n.links[0]
		}
		return n.links[1]
	})
}

// OrderedCycle is a faster Cycle that always follows slot 0. It is only
// meaningful once slot 0 consistently means "next".
func (a *Arena[V]) OrderedCycle(start ID) ([]V, error) {
	return a.walk(start, a.Next)
}

func (a *Arena[V]) walk(start ID, step func(ID) ID) ([]V, error) {
	if a.nodes[start].visited {
		return nil, nil
	}
	a.nodes[start].visited = true
	cycle := []V{a.nodes[start].value}

	id := a.nodes[start].links[0]
	for steps := 0; ; steps++ {
		if id == None {
			return cycle, errors.Wrapf(ErrNotCycle, "open chain after %d nodes from %d", len(cycle), start)
		}
		if a.nodes[id].visited {
			return cycle, nil
		}
		if steps >= len(a.nodes) {
			return cycle, errors.Wrapf(ErrNotCycle, "walk from %d did not close", start)
		}
		a.nodes[id].visited = true
		cycle = append(cycle, a.nodes[id].value)
		id = step(id)
	}
}

// Cycles collects the cycle through every node not visited yet, scanning
// in ID order.
func (a *Arena[V]) Cycles() ([][]V, error) {
	var cycles [][]V
	for i := range a.nodes {
		if a.nodes[i].visited {
			continue
		}
		c, err := a.Cycle(ID(i))
		if err != nil {
			return cycles, err
		}
		cycles = append(cycles, c)
	}
	return cycles, nil
}
