// Package kernel defines the solid modelling interface used to turn
// polytope skeletons into renderable meshes. Implementations (sdfx) build
// struts and joints behind this interface so the rest of the system never
// touches a CAD library directly.
package kernel

import "github.com/pkg/errors"

// ErrDegenerate is returned for solids with no volume, such as a strut
// between two coincident points.
var ErrDegenerate = errors.New("kernel: degenerate solid")

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the solid modelling interface.
type Kernel interface {
	// Primitives. Cylinders are centred on the origin along Z.
	Cylinder(height, radius float64) (Solid, error)
	Sphere(radius float64) (Solid, error)

	// Strut returns a cylinder of the given radius running from a to b.
	Strut(a, b [3]float64, radius float64) (Solid, error)

	Union(solids ...Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
