package planar

import (
	"fmt"

	"github.com/chazu/polytope/pkg/adjacency"
	"github.com/chazu/polytope/pkg/space"
)

// slEdge is an edge in the sweep status. Its right endpoint is whatever
// node currently sits in the given slot of left, so cutting the edge at a
// crossing never requires touching the tree.
type slEdge struct {
	left adjacency.ID
	slot int

	// id stays fixed while the edge is stored; it only breaks ties
	// between overlapping edges.
	id uint64
}

// pair is the Cantor pairing of two node ids.
func pair(x, y adjacency.ID) uint64 {
	a, b := uint64(x), uint64(y)
	return (a+b)*(a+b+1)/2 + b
}

func (s *sweep) right(e slEdge) adjacency.ID {
	return s.arena.Neighbor(e.left, e.slot)
}

// edge builds the status key for the edge leaving left through slot,
// resolving its id through the redirect table.
func (s *sweep) edge(left adjacency.ID, slot int) slEdge {
	id := pair(left, s.arena.Neighbor(left, slot))
	if orig, ok := s.redirect[id]; ok {
		id = orig
	}
	return slEdge{left: left, slot: slot, id: id}
}

// directed returns the endpoints of e in polygon order.
func (s *sweep) directed(e slEdge) (from, to adjacency.ID) {
	if e.slot == 0 {
		return e.left, s.arena.Next(e.left)
	}
	return s.arena.Prev(e.left), e.left
}

func (s *sweep) describe(e slEdge) string {
	return fmt.Sprintf("%v -> %v", s.point(e.left), s.point(s.right(e)))
}

// divide cuts a and b at their crossing, if they have one.
//
// With a running a0 -> a1 and b running b0 -> b1, the polygon is rewired
// to a0 -> n1 -> b1 and b0 -> n2 -> a1, where n1 and n2 are new nodes at
// the crossing. Both new nodes are queued as events.
func (s *sweep) divide(a, b slEdge) {
	aL, aR := s.point(a.left), s.point(s.right(a))
	bL, bR := s.point(b.left), s.point(s.right(b))
	if aL.Equal(bL) || aL.Equal(bR) || aR.Equal(bL) || aR.Equal(bR) {
		return
	}

	a0, a1 := s.directed(a)
	b0, b1 := s.directed(b)
	p, ok := space.IntersectOn(s.point(a0), s.point(a1), s.point(b0), s.point(b1), s.i0, s.i1)
	if !ok {
		return
	}

	n1, n2 := s.arena.Add(p), s.arena.Add(p)
	s.arena.LinkToNext(a0, n1)
	s.arena.LinkToNext(n1, b1)
	s.arena.LinkToNext(b0, n2)
	s.arena.LinkToNext(n2, a1)

	s.redirect[pair(a.left, s.right(a))] = a.id
	s.redirect[pair(b.left, s.right(b))] = b.id

	s.events.Insert(n1)
	s.events.Insert(n2)
}
