package planar

import (
	"cmp"

	"github.com/pkg/errors"

	"github.com/chazu/polytope/pkg/adjacency"
	"github.com/chazu/polytope/pkg/avl"
	"github.com/chazu/polytope/pkg/space"
)

// sweep is the state of one Bentley-Ottmann pass over one polygon.
//
// Vertices, including the ones created at crossings, are nodes of arena
// whose slot 0 is the next vertex of the polygon and slot 1 the previous
// one. Splitting an edge only rewires nodes; edges already in the status
// tree keep their left endpoint and see their right endpoint move to the
// crossing.
type sweep struct {
	arena  *adjacency.Arena[space.Point]
	events *avl.Tree[adjacency.ID]
	status *avl.Tree[slEdge]

	// redirect maps the pair id of a cut edge back to the id it had when
	// it entered the status tree.
	redirect map[uint64]uint64

	i0, i1 int

	// x is the i0 coordinate of the event being processed. compareEdges
	// reads it.
	x float64

	check     bool
	maxEvents int
}

func newSweep(cycle []space.Point, i0, i1 int, check bool) *sweep {
	n := len(cycle)
	s := &sweep{
		arena:     adjacency.NewArena[space.Point](2 * n),
		redirect:  make(map[uint64]uint64),
		i0:        i0,
		i1:        i1,
		check:     check,
		maxEvents: n*n + n,
	}
	s.events = avl.New(s.compareEvents)
	s.status = avl.New(s.compareEdges)

	ids := make([]adjacency.ID, n)
	for i, p := range cycle {
		ids[i] = s.arena.Add(p)
	}
	for i, id := range ids {
		s.arena.LinkToNext(id, ids[(i+1)%n])
		s.events.Insert(id)
	}
	return s
}

func (s *sweep) point(id adjacency.ID) space.Point {
	return s.arena.Value(id)
}

// run processes every event and returns the resulting cycles.
func (s *sweep) run() ([][]space.Point, error) {
	for processed := 0; !s.events.IsEmpty(); processed++ {
		if processed >= s.maxEvents {
			return nil, &SweepError{Op: OpEvents, Err: errors.Errorf("more than %d events", s.maxEvents)}
		}

		e := s.events.Key(s.events.MinNode())
		s.events.Delete(e)
		s.x = s.point(e)[s.i0]

		for slot := 0; slot < 2; slot++ {
			if err := s.handle(e, slot); err != nil {
				return nil, err
			}
		}

		if s.check {
			if err := s.status.Check(); err != nil {
				return nil, &SweepError{Op: OpCheck, Err: err}
			}
		}
	}

	cycles, err := s.arena.Cycles()
	return cycles, errors.Wrap(err, "planar: extracting cycles")
}

// handle processes the edge between event e and its neighbour in slot.
func (s *sweep) handle(e adjacency.ID, slot int) error {
	nb := s.arena.Neighbor(e, slot)
	ord := s.x - s.point(nb)[s.i0]

	switch {
	case ord < 0:
		// e is the left endpoint
		edge := s.edge(e, slot)
		h, ok := s.status.Insert(edge)
		if !ok {
			return &SweepError{Op: OpInsert, Edge: s.describe(edge)}
		}
		prev, next := s.status.Prev(h), s.status.Next(h)
		if prev.Valid() {
			s.divide(edge, s.status.Key(prev))
		}
		if next.Valid() {
			s.divide(edge, s.status.Key(next))
		}

	case ord > 0:
		// e is the right endpoint; the edge is stored under nb
		edge := s.edge(nb, 1-slot)
		h := s.status.Get(edge)
		if !h.Valid() {
			return &SweepError{Op: OpRetrieve, Edge: s.describe(edge)}
		}
		prev, next := s.status.Prev(h), s.status.Next(h)
		if prev.Valid() && next.Valid() {
			s.divide(s.status.Key(prev), s.status.Key(next))
		}
		s.status.Delete(edge)

	case s.point(e)[s.i1] > s.point(nb)[s.i1]:
		// vertical, seen from its upper endpoint so it runs once
		edge := s.edge(e, slot)
		for h := s.status.MinNode(); h.Valid(); h = s.status.Next(h) {
			s.divide(edge, s.status.Key(h))
		}
	}
	return nil
}

// compareEvents orders vertices by their projected coordinates, then by
// id so that coincident vertices still have a strict order.
func (s *sweep) compareEvents(a, b adjacency.ID) int {
	pa, pb := s.point(a), s.point(b)
	if c := cmp.Compare(pa[s.i0], pb[s.i0]); c != 0 {
		return c
	}
	if c := cmp.Compare(pa[s.i1], pb[s.i1]); c != 0 {
		return c
	}
	return cmp.Compare(a, b)
}

// compareEdges orders edges by the height at which they cross the sweep
// line x. Edges meeting at the same height are ordered with edges ending
// there below edges starting there, then by slope, then by id.
func (s *sweep) compareEdges(x, y slEdge) int {
	xr, yr := s.right(x), s.right(y)
	if x.left == y.left && xr == yr {
		return 0
	}

	a, b := s.point(x.left), s.point(xr)
	c, d := s.point(y.left), s.point(yr)
	i0, i1 := s.i0, s.i1

	// position of the crossing with the sweep line: 1 at the left
	// endpoint, 0 at the right one
	l0 := (s.x - b[i0]) / (a[i0] - b[i0])
	l1 := (s.x - d[i0]) / (c[i0] - d[i0])

	res := (a[i1]*l0 + b[i1]*(1-l0)) - (c[i1]*l1 + d[i1]*(1-l1))
	if res == 0 {
		switch {
		case l0 == 1 && l1 == 0:
			return 1
		case l0 == 0 && l1 == 1:
			return -1
		}

		dir := -1.0
		if l0 == 1 {
			dir = 1
		}
		s0 := (a[i1] - b[i1]) / (a[i0] - b[i0])
		s1 := (c[i1] - d[i1]) / (c[i0] - d[i0])
		res = dir * (s0 - s1)
		if res == 0 {
			return cmp.Compare(x.id, y.id)
		}
	}
	if res < 0 {
		return -1
	}
	return 1
}
