// Package planar splits self-intersecting polygons into simple ones.
//
// A face is given as an ordered cycle of n-dimensional points that lie in
// a common plane. The face is projected onto the pair of coordinate axes
// in which it has the largest area, every crossing between its edges is
// found with a Bentley-Ottmann sweep, and each crossing is resolved by
// cutting both edges and reconnecting each to the far end of the other.
// What is left is a set of simple cycles that touch only at crossings.
package planar

import (
	"math"

	"github.com/pkg/errors"

	"github.com/chazu/polytope/pkg/polytope"
	"github.com/chazu/polytope/pkg/space"
)

// Options configures a Planarizer.
type Options struct {
	// CheckInvariants verifies the sweep status tree after every event.
	CheckInvariants bool
}

// Planarizer runs the sweep. It holds no per-face state, so one value may
// be shared by goroutines planarizing different faces.
type Planarizer struct {
	opts Options
}

// NewPlanarizer returns a Planarizer with the given options.
func NewPlanarizer(opts Options) *Planarizer {
	return &Planarizer{opts: opts}
}

var defaultPlanarizer = NewPlanarizer(Options{})

// Planarize splits cycle with the default options.
func Planarize(cycle []space.Point) ([][]space.Point, error) {
	return defaultPlanarizer.Planarize(cycle)
}

// PlanarizeFace splits the i-th 2-element of p with the default options.
func PlanarizeFace(p *polytope.Polytope, i int) ([][]space.Point, error) {
	return defaultPlanarizer.PlanarizeFace(p, i)
}

// Planarize returns the simple cycles making up the polygon with the given
// vertex cycle. A degenerate polygon (all points equal or collinear)
// yields no cycles and no error.
func (pl *Planarizer) Planarize(cycle []space.Point) ([][]space.Point, error) {
	for i, p := range cycle {
		if p.Dimensions() != cycle[0].Dimensions() {
			return nil, errors.Wrapf(space.ErrDimensionMismatch,
				"vertex %d has %d coordinates, vertex 0 has %d", i, p.Dimensions(), cycle[0].Dimensions())
		}
	}

	i0, i1, ok := Projection(cycle)
	if !ok {
		return nil, nil
	}
	return newSweep(cycle, i0, i1, pl.opts.CheckInvariants).run()
}

// PlanarizeFace recovers the vertex cycle of the i-th 2-element of p from
// its edges and planarizes it.
func (pl *Planarizer) PlanarizeFace(p *polytope.Polytope, i int) ([][]space.Point, error) {
	cycle, err := p.FacePoints(i)
	if err != nil {
		return nil, err
	}
	cycles, err := pl.Planarize(cycle)
	return cycles, errors.Wrapf(err, "face %d", i)
}

// PlanarizeAll planarizes every 2-element of p. The result is indexed by
// face; degenerate faces have no cycles.
func (pl *Planarizer) PlanarizeAll(p *polytope.Polytope) ([][][]space.Point, error) {
	faces := make([][][]space.Point, p.Count(2))
	for i := range faces {
		cycles, err := pl.PlanarizeFace(p, i)
		if err != nil {
			return nil, err
		}
		faces[i] = cycles
	}
	return faces, nil
}

// IsDegenerate reports whether cycle has no three non-collinear points,
// which includes the case of all points being equal.
func IsDegenerate(cycle []space.Point) bool {
	_, _, ok := Projection(cycle)
	return !ok
}

// Projection picks the pair of coordinate axes onto which the triangle
// spanned by the first point of cycle and two others not collinear with
// it has the largest area. ok is false for a degenerate cycle.
func Projection(cycle []space.Point) (i0, i1 int, ok bool) {
	if len(cycle) < 3 {
		return 0, 1, false
	}
	first := cycle[0]

	a := 1
	for a < len(cycle) && first.Equal(cycle[a]) {
		a++
	}
	if a == len(cycle) {
		return 0, 1, false
	}

	b := 1
	for b < len(cycle) && (b == a || space.Collinear(first, cycle[a], cycle[b])) {
		b++
	}
	if b == len(cycle) {
		return 0, 1, false
	}

	i0, i1 = 0, 1
	var maxArea float64
	n := first.Dimensions()
	for j := 0; j < n; j++ {
		for k := j + 1; k < n; k++ {
			if area := math.Abs(space.ShoelaceArea(first, cycle[a], cycle[b], j, k)); area > maxArea {
				maxArea, i0, i1 = area, j, k
			}
		}
	}
	return i0, i1, true
}
