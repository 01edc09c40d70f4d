// Package space provides n-dimensional points and the geometric
// predicates the planarizer is built on.
package space

import (
	"math"
	"strconv"
	"strings"
)

// Epsilon is the tolerance used by every comparison in this module.
const Epsilon = 1e-7

// Point is a point in n-dimensional Euclidean space.
type Point []float64

// NewPoint returns a point with the given coordinates.
func NewPoint(coords ...float64) Point {
	return Point(coords)
}

// Dimensions returns the number of coordinates.
func (p Point) Dimensions() int {
	return len(p)
}

// Clone returns a copy of p that shares no memory with it.
func (p Point) Clone() Point {
	c := make(Point, len(p))
	copy(c, p)
	return c
}

// Add returns p + q over the coordinates both points have.
func (p Point) Add(q Point) Point {
	n := min(len(p), len(q))
	r := make(Point, n)
	for i := range r {
		r[i] = p[i] + q[i]
	}
	return r
}

// Sub returns p - q over the coordinates both points have.
func (p Point) Sub(q Point) Point {
	n := min(len(p), len(q))
	r := make(Point, n)
	for i := range r {
		r[i] = p[i] - q[i]
	}
	return r
}

// Scale returns p multiplied by s.
func (p Point) Scale(s float64) Point {
	r := make(Point, len(p))
	for i, c := range p {
		r[i] = c * s
	}
	return r
}

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 {
	var d float64
	for i := 0; i < min(len(p), len(q)); i++ {
		d += p[i] * q[i]
	}
	return d
}

// Norm returns the Euclidean length of p.
func (p Point) Norm() float64 {
	return math.Sqrt(p.Dot(p))
}

// Resize returns a copy of p with exactly n coordinates, truncating or
// padding with zeros.
func (p Point) Resize(n int) Point {
	r := make(Point, n)
	copy(r, p)
	return r
}

// Equal reports whether p and q have the same dimension and every pair of
// coordinates differs by less than Epsilon.
func (p Point) Equal(q Point) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if math.Abs(p[i]-q[i]) >= Epsilon {
			return false
		}
	}
	return true
}

func (p Point) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, c := range p {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatFloat(c, 'g', -1, 64))
	}
	b.WriteByte(')')
	return b.String()
}
