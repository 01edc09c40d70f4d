package polytope

import (
	"math"
	"math/bits"

	"github.com/pkg/errors"

	"github.com/chazu/polytope/pkg/space"
)

// MaxDimension bounds the generators; the hypercube and cross-polytope
// enumerate 4^d mask pairs.
const MaxDimension = 10

func checkDimension(d, lo int) error {
	if d < lo || d > MaxDimension {
		return errors.Wrapf(ErrInvalidDimension, "dimension %d outside [%d, %d]", d, lo, MaxDimension)
	}
	return nil
}

// lowBits returns the set bits of m, lowest first.
func lowBits(m int) []int {
	out := make([]int, 0, bits.OnesCount(uint(m)))
	for m > 0 {
		out = append(out, m&-m)
		m &= m - 1
	}
	return out
}

func emptyLevels(d int) [][][]int {
	return make([][][]int, d+1)
}

// Hypercube builds the d-dimensional hypercube with edge length 1,
// centred at the origin.
//
// An element is a pair of disjoint masks (j, i): i holds the directions
// the element spans and j is its base vertex. Its facets are the elements
// spanned by i without one bit b, based at j and at j^b.
func Hypercube(d int) (*Polytope, error) {
	if err := checkDimension(d, 1); err != nil {
		return nil, err
	}

	n := 1 << d
	els := emptyLevels(d)
	var vertices []space.Point
	// (j, i) -> index within the element's level
	locations := make(map[[2]int]int)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == 0 {
				coords := make(space.Point, d)
				for k := range coords {
					if j&(1<<k) == 0 {
						coords[k] = 0.5
					} else {
						coords[k] = -0.5
					}
				}
				locations[[2]int{j, 0}] = len(vertices)
				vertices = append(vertices, coords)
				continue
			}
			if j&i != 0 {
				continue
			}

			diffs := lowBits(i)
			rank := len(diffs)
			facets := make([]int, 0, 2*rank)
			for _, b := range diffs {
				facets = append(facets, locations[[2]int{j, i ^ b}])
			}
			for _, b := range diffs {
				facets = append(facets, locations[[2]int{j ^ b, i ^ b}])
			}
			locations[[2]int{j, i}] = len(els[rank])
			els[rank] = append(els[rank], facets)
		}
	}

	p := New(vertices, els)
	p.Name = "Hypercube"
	return p, nil
}

// Simplex builds the regular d-simplex with edge length 1 in d-space.
//
// Every nonempty subset of the d+1 vertices is an element; its facets are
// the subsets with one vertex removed.
func Simplex(d int) (*Polytope, error) {
	if err := checkDimension(d, 0); err != nil {
		return nil, err
	}

	aux := make([]float64, d+1)
	aux[0] = math.Inf(1)
	for k := 1; k <= d; k++ {
		aux[k] = 1 / math.Sqrt(float64(2*k*(k+1)))
	}

	vertices := make([]space.Point, d+1)
	for i := range vertices {
		coords := make(space.Point, d)
		for j := 1; j <= d; j++ {
			switch {
			case j > i:
				coords[j-1] = -aux[j]
			case j == i:
				coords[j-1] = float64(j) * aux[j]
			}
		}
		vertices[i] = coords
	}

	els := emptyLevels(d)
	n := 1 << (d + 1)
	locations := make([]int, n)
	for i := 0; i <= d; i++ {
		locations[1<<i] = i
	}
	for m := 1; m < n; m++ {
		if m&(m-1) == 0 {
			continue
		}
		members := lowBits(m)
		rank := len(members) - 1
		facets := make([]int, len(members))
		for k, b := range members {
			facets[k] = locations[m^b]
		}
		locations[m] = len(els[rank])
		els[rank] = append(els[rank], facets)
	}

	p := New(vertices, els)
	p.Name = "Simplex"
	return p, nil
}

// Cross builds the d-dimensional cross-polytope with edge length 1.
//
// Elements other than the whole polytope are pairs (i, j) where i is the
// set of axes with a nonzero coordinate and j ⊆ i the axes with a negative
// one. The whole polytope lists all of its facets.
func Cross(d int) (*Polytope, error) {
	if err := checkDimension(d, 1); err != nil {
		return nil, err
	}

	n := 1 << d
	els := emptyLevels(d)
	var vertices []space.Point
	locations := make(map[[2]int]int)

	for i := 1; i < n; i++ {
		for j := 0; j < n; j++ {
			if i&j != j {
				continue
			}
			if i&(i-1) == 0 {
				sign := 1.0
				if j != 0 {
					sign = -1
				}
				coords := make(space.Point, d)
				for k := range coords {
					if 1<<k == i {
						coords[k] = sign * math.Sqrt2 / 2
					}
				}
				locations[[2]int{i, j}] = len(vertices)
				vertices = append(vertices, coords)
				continue
			}

			axes := lowBits(i)
			rank := len(axes) - 1
			facets := make([]int, len(axes))
			for k, b := range axes {
				facets[k] = locations[[2]int{i ^ b, j &^ b}]
			}
			locations[[2]int{i, j}] = len(els[rank])
			els[rank] = append(els[rank], facets)
		}
	}

	top := make([]int, len(els[d-1]))
	if d == 1 {
		top = make([]int, len(vertices))
	}
	for i := range top {
		top[i] = i
	}
	els[d] = append(els[d], top)

	p := New(vertices, els)
	p.Name = "Cross-polytope"
	return p, nil
}

// Star builds the Grünbaumian star polygon {n/d}: n points on the unit
// circle joined by a single n-gon that advances d steps at a time. The
// only face lists every vertex, so it self-intersects whenever d > 1.
func Star(n, d int) (*Polytope, error) {
	if n < 3 {
		return nil, errors.Wrapf(ErrInvalidDimension, "star needs at least 3 vertices, got %d", n)
	}
	if d < 1 {
		return nil, errors.Wrapf(ErrInvalidDimension, "star step must be positive, got %d", d)
	}

	vertices := make([]space.Point, n)
	for i := range vertices {
		angle := 2 * math.Pi * float64(i*d) / float64(n)
		vertices[i] = space.NewPoint(math.Cos(angle), math.Sin(angle))
	}

	p, err := FromCycle(vertices)
	if err != nil {
		return nil, err
	}
	p.Name = "Star"
	return p, nil
}

// FromCycle builds a polygon whose single face visits the given points in
// order. The polygon may cross itself.
func FromCycle(points []space.Point) (*Polytope, error) {
	n := len(points)
	if n < 3 {
		return nil, errors.Wrapf(ErrInvalidDimension, "polygon needs at least 3 vertices, got %d", n)
	}
	vertices := make([]space.Point, n)
	face := make([]int, n)
	edges := make([][]int, n)
	for i, pt := range points {
		vertices[i] = pt.Clone()
		face[i] = i
		edges[i] = []int{i, (i + 1) % n}
	}
	return New(vertices, [][][]int{nil, edges, {face}}), nil
}

// Polygon is Star(n, 1).
func Polygon(n int) (*Polytope, error) {
	return Star(n, 1)
}
