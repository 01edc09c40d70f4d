package space

import (
	"math"

	"github.com/pkg/errors"
)

// ErrDimensionMismatch is returned when points of different dimensions are
// combined.
var ErrDimensionMismatch = errors.New("space: points have different dimensions")

// Intersect returns the strict interior crossing point of segments ab and
// cd, which are assumed to lie in a common plane.
//
// Outside 2D the segments are projected onto the two coordinates along
// which ab and cd change the most, so neither collapses to a point. ok is
// false when the segments are (nearly) parallel or when the crossing lies
// within Epsilon of an endpoint or outside either segment.
func Intersect(a, b, c, d Point) (p Point, ok bool, err error) {
	n := a.Dimensions()
	if b.Dimensions() != n || c.Dimensions() != n || d.Dimensions() != n {
		return nil, false, errors.Wrapf(ErrDimensionMismatch,
			"intersect %d/%d/%d/%d", n, b.Dimensions(), c.Dimensions(), d.Dimensions())
	}
	if n < 2 {
		return nil, false, nil
	}

	i0, i1 := 0, 1
	if n != 2 {
		var abMax, cdMax float64
		for i := 0; i < n; i++ {
			if ab := math.Abs(a[i] - b[i]); ab > abMax {
				abMax, i0 = ab, i
			}
			if cd := math.Abs(c[i] - d[i]); cd > cdMax {
				cdMax, i1 = cd, i
			}
		}
		if i0 == i1 {
			if i1 == 0 {
				i1 = 1
			} else {
				i1 = 0
			}
		}
	}

	p, ok = IntersectOn(a, b, c, d, i0, i1)
	return p, ok, nil
}

// IntersectOn is Intersect with a fixed projection onto coordinates i0
// and i1. All four points must have the same dimension.
func IntersectOn(a, b, c, d Point, i0, i1 int) (Point, bool) {
	// p + t r = q + u s, after https://stackoverflow.com/a/565282
	px, py := a[i0], a[i1]
	rx, ry := b[i0]-a[i0], b[i1]-a[i1]
	qx, qy := c[i0], c[i1]
	sx, sy := d[i0]-c[i0], d[i1]-c[i1]

	if SameSlope(rx, ry, sx, sy) {
		return nil, false
	}

	den := ry*sx - rx*sy
	t := ((px-qx)*sy - (py-qy)*sx) / den
	u := ((px-qx)*ry - (py-qy)*rx) / den

	// NaN fails every comparison, so it is rejected as well.
	if !(t > Epsilon) || !(t < 1-Epsilon) || !(u > Epsilon) || !(u < 1-Epsilon) {
		return nil, false
	}

	pt := make(Point, len(a))
	for i := range a {
		pt[i] = a[i] + (b[i]-a[i])*t
	}
	return pt, true
}

// Collinear reports whether b - a and c - a are parallel up to Epsilon.
// Coincident points count as collinear.
func Collinear(a, b, c Point) bool {
	if a.Equal(b) || a.Equal(c) {
		return true
	}

	var dot, norm0, norm1 float64
	for i := 0; i < min(len(a), len(b), len(c)); i++ {
		s0 := b[i] - a[i]
		s1 := c[i] - a[i]
		dot += s0 * s1
		norm0 += s0 * s0
		norm1 += s1 * s1
	}
	return 1-math.Abs(dot/math.Sqrt(norm0*norm1)) <= Epsilon
}

// SameSlope reports whether the direction (a, b) and the direction (c, d)
// are parallel up to Epsilon, measured as the angle between them modulo π.
func SameSlope(a, b, c, d float64) bool {
	s := math.Atan(a/b) - math.Atan(c/d)
	return math.Mod(s+math.Pi+Epsilon, math.Pi) < 2*Epsilon
}

// ShoelaceArea returns twice the signed area of triangle abc projected
// onto coordinates i and j.
func ShoelaceArea(a, b, c Point, i, j int) float64 {
	return a[i]*(b[j]-c[j]) + b[i]*(c[j]-a[j]) + c[i]*(a[j]-b[j])
}
