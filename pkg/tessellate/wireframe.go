package tessellate

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/chazu/polytope/pkg/kernel"
	"github.com/chazu/polytope/pkg/polytope"
)

// WireframeOptions configures Wireframe.
type WireframeOptions struct {
	// Radius of the strut along every edge.
	Radius float64

	// JointRadius, when positive, adds a sphere at every vertex.
	JointRadius float64
}

// Wireframe builds a solid strut along every edge of p, using the first
// three coordinates of each vertex, and meshes their union. Edges of zero
// length are skipped.
func Wireframe(p *polytope.Polytope, k kernel.Kernel, opts WireframeOptions) (*kernel.Mesh, error) {
	if p.Count(1) == 0 {
		return nil, fmt.Errorf("tessellate: %q has no edges", p.Name)
	}

	var solids []kernel.Solid
	for i, e := range p.Elements[1] {
		a, b := vec3(p.Vertices[e[0]]), vec3(p.Vertices[e[1]])
		s, err := k.Strut(a, b, opts.Radius)
		if errors.Is(err, kernel.ErrDegenerate) {
			glog.Warningf("tessellate: %s %d of %q has zero length, skipped", polytope.ElementName(1, false), i, p.Name)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("tessellate: strut for edge %d: %w", i, err)
		}
		solids = append(solids, s)
	}

	if opts.JointRadius > 0 {
		for i, v := range p.Vertices {
			ball, err := k.Sphere(opts.JointRadius)
			if err != nil {
				return nil, fmt.Errorf("tessellate: joint for vertex %d: %w", i, err)
			}
			c := vec3(v)
			solids = append(solids, k.Translate(ball, c[0], c[1], c[2]))
		}
	}

	if len(solids) == 0 {
		return nil, fmt.Errorf("tessellate: %q: %w", p.Name, kernel.ErrDegenerate)
	}

	m, err := k.ToMesh(k.Union(solids...))
	if err != nil {
		return nil, fmt.Errorf("tessellate: meshing %q: %w", p.Name, err)
	}
	m.PartName = p.Name
	glog.V(1).Infof("tessellate: wireframe of %q: %d struts, %d triangles", p.Name, len(solids), m.TriangleCount())
	return m, nil
}
