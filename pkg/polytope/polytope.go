// Package polytope stores polytopes as element lists and builds the face
// lattices of the regular families from bit patterns.
//
// An element list has one level per rank. Level 0 holds the vertices as
// points; every element of level k > 0 is a list of indices into level
// k-1 (its facets). The combinatorial dimension is the number of levels
// minus one and is independent of the number of coordinates of the
// vertices.
package polytope

import (
	"github.com/pkg/errors"

	"github.com/chazu/polytope/pkg/adjacency"
	"github.com/chazu/polytope/pkg/space"
)

// DefaultName is the name given to polytopes that were not named.
const DefaultName = "Polytope"

var (
	// ErrInvalidDimension is returned by generators for parameters that do
	// not describe a polytope.
	ErrInvalidDimension = errors.New("polytope: invalid dimension")

	// ErrNoSuchElement is returned for out-of-range element lookups.
	ErrNoSuchElement = errors.New("polytope: no such element")
)

// Polytope is a polytope in element-list form.
type Polytope struct {
	Name string

	// Vertices is level 0.
	Vertices []space.Point

	// Elements[k] lists the k-elements for k >= 1, each as indices into
	// level k-1. Elements[0] is always empty; the vertices live in
	// Vertices.
	Elements [][][]int

	// SpaceDimensions is the number of coordinates of every vertex.
	SpaceDimensions int
}

// New wraps an element list. elements[0] is ignored and may be nil.
func New(vertices []space.Point, elements [][][]int) *Polytope {
	if len(elements) == 0 {
		elements = [][][]int{nil}
	}
	elements[0] = nil
	p := &Polytope{
		Name:     DefaultName,
		Vertices: vertices,
		Elements: elements,
	}
	if len(vertices) > 0 {
		p.SpaceDimensions = vertices[0].Dimensions()
	}
	return p
}

// Clone returns a deep copy of p.
func (p *Polytope) Clone() *Polytope {
	c := &Polytope{
		Name:            p.Name,
		Vertices:        make([]space.Point, len(p.Vertices)),
		Elements:        make([][][]int, len(p.Elements)),
		SpaceDimensions: p.SpaceDimensions,
	}
	for i, v := range p.Vertices {
		c.Vertices[i] = v.Clone()
	}
	for r, level := range p.Elements {
		if level == nil {
			continue
		}
		c.Elements[r] = make([][]int, len(level))
		for i, el := range level {
			c.Elements[r][i] = append([]int(nil), el...)
		}
	}
	return c
}

// Dimensions returns the combinatorial dimension.
func (p *Polytope) Dimensions() int {
	return len(p.Elements) - 1
}

// Count returns the number of elements of the given rank.
func (p *Polytope) Count(rank int) int {
	switch {
	case rank == 0:
		return len(p.Vertices)
	case rank < 0 || rank > p.Dimensions():
		return 0
	default:
		return len(p.Elements[rank])
	}
}

// Counts returns the element counts for ranks 0 through Dimensions().
func (p *Polytope) Counts() []int {
	counts := make([]int, p.Dimensions()+1)
	for r := range counts {
		counts[r] = p.Count(r)
	}
	return counts
}

// Centroid returns the average of the vertices.
func (p *Polytope) Centroid() space.Point {
	if len(p.Vertices) == 0 {
		return nil
	}
	sum := make(space.Point, p.SpaceDimensions)
	for _, v := range p.Vertices {
		sum = sum.Add(v.Resize(p.SpaceDimensions))
	}
	return sum.Scale(1 / float64(len(p.Vertices)))
}

// SetSpaceDimensions pads every vertex with zeros, or truncates it, so
// that it has exactly n coordinates.
func (p *Polytope) SetSpaceDimensions(n int) {
	for i, v := range p.Vertices {
		if v.Dimensions() != n {
			p.Vertices[i] = v.Resize(n)
		}
	}
	p.SpaceDimensions = n
}

// ExtrudeToPyramid turns the polytope into a pyramid over itself with the
// given apex, raising its dimension by one.
//
// The pyramid over the i-th old k-element becomes the
// (i + old number of (k+1)-elements)-th (k+1)-element of the result.
func (p *Polytope) ExtrudeToPyramid(apex space.Point) {
	p.Elements = append(p.Elements, nil)
	dim := p.Dimensions()

	old := make([]int, dim+1)
	for r := range old {
		old[r] = p.Count(r)
	}

	p.Vertices = append(p.Vertices, apex.Clone())
	p.SetSpaceDimensions(max(apex.Dimensions(), p.SpaceDimensions))

	for i := 0; i < old[0]; i++ {
		p.Elements[1] = append(p.Elements[1], []int{i, old[0]})
	}
	for r := 2; r <= dim; r++ {
		for i := 0; i < old[r-1]; i++ {
			base := p.Elements[r-1][i]
			facets := make([]int, 0, len(base)+1)
			facets = append(facets, i)
			for _, f := range base {
				facets = append(facets, f+old[r-1])
			}
			p.Elements[r] = append(p.Elements[r], facets)
		}
	}
}

// FaceToVertices returns the vertex indices of the i-th 2-element in
// cyclic order. The face's edges must form exactly one cycle.
func (p *Polytope) FaceToVertices(i int) ([]int, error) {
	if p.Dimensions() < 2 || i < 0 || i >= len(p.Elements[2]) {
		return nil, errors.Wrapf(ErrNoSuchElement, "face %d", i)
	}
	face := p.Elements[2][i]
	if len(face) == 0 {
		return nil, errors.Wrapf(ErrNoSuchElement, "face %d has no edges", i)
	}
	edges := make([][]int, len(face))
	for k, e := range face {
		if e < 0 || e >= len(p.Elements[1]) {
			return nil, errors.Wrapf(ErrNoSuchElement, "face %d references edge %d", i, e)
		}
		edges[k] = p.Elements[1][e]
	}
	cycle, err := vertexCycle(edges, edges[0][0])
	return cycle, errors.Wrapf(err, "face %d", i)
}

// FaceToVertices2D returns the vertex indices of a polygon in cyclic
// order, using every edge of the polytope.
func (p *Polytope) FaceToVertices2D() ([]int, error) {
	if p.Dimensions() < 1 || len(p.Elements[1]) == 0 {
		return nil, errors.Wrap(ErrNoSuchElement, "polygon has no edges")
	}
	return vertexCycle(p.Elements[1], 0)
}

// FacePoints returns the vertices of the i-th 2-element in cyclic order.
func (p *Polytope) FacePoints(i int) ([]space.Point, error) {
	idx, err := p.FaceToVertices(i)
	if err != nil {
		return nil, err
	}
	pts := make([]space.Point, len(idx))
	for k, v := range idx {
		pts[k] = p.Vertices[v]
	}
	return pts, nil
}

// vertexCycle links the endpoints of every edge and walks the cycle
// through start.
func vertexCycle(edges [][]int, start int) ([]int, error) {
	arena := adjacency.NewArena[int](len(edges))
	nodes := make(map[int]adjacency.ID, len(edges))
	nodeFor := func(v int) adjacency.ID {
		id, ok := nodes[v]
		if !ok {
			id = arena.Add(v)
			nodes[v] = id
		}
		return id
	}

	for _, e := range edges {
		if len(e) != 2 {
			return nil, errors.Errorf("edge %v does not have two vertices", e)
		}
		if err := arena.LinkTo(nodeFor(e[0]), nodeFor(e[1])); err != nil {
			return nil, err
		}
	}

	first, ok := nodes[start]
	if !ok {
		return nil, errors.Wrapf(ErrNoSuchElement, "vertex %d is on no edge", start)
	}
	return arena.Cycle(first)
}
