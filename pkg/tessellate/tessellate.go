// Package tessellate turns polytopes into triangle meshes. Faces are
// planarized first, so self-intersecting faces such as pentagrams render
// as the simple polygons they enclose. One mesh is produced per face.
package tessellate

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/glog"

	"github.com/chazu/polytope/pkg/kernel"
	"github.com/chazu/polytope/pkg/planar"
	"github.com/chazu/polytope/pkg/polytope"
	"github.com/chazu/polytope/pkg/scene"
	"github.com/chazu/polytope/pkg/space"
)

// Tessellator triangulates polytope faces.
type Tessellator struct {
	pl *planar.Planarizer
}

// New returns a Tessellator that planarizes with the given options.
func New(opts planar.Options) *Tessellator {
	return &Tessellator{pl: planar.NewPlanarizer(opts)}
}

// Tessellate triangulates every 2-face of p with default options.
func Tessellate(p *polytope.Polytope) ([]*kernel.Mesh, error) {
	return New(planar.Options{}).Tessellate(p)
}

// Tessellate returns one mesh per 2-face of p, in face order. Vertex
// positions are the first three coordinates of each point, padded with
// zeros. Degenerate faces produce empty meshes so that mesh i is always
// face i.
func (t *Tessellator) Tessellate(p *polytope.Polytope) ([]*kernel.Mesh, error) {
	if p == nil {
		return nil, nil
	}

	meshes := make([]*kernel.Mesh, p.Count(2))
	for i := range meshes {
		cycles, err := t.pl.PlanarizeFace(p, i)
		if err != nil {
			return nil, fmt.Errorf("tessellate: %w", err)
		}
		m := faceMesh(cycles)
		m.PartName = fmt.Sprintf("%s %d", polytope.ElementName(2, false), i)
		if m.IsEmpty() {
			glog.Warningf("tessellate: %s %q is degenerate, skipped", m.PartName, p.Name)
		} else {
			glog.V(2).Infof("tessellate: %s of %q: %d cycles, %d triangles", m.PartName, p.Name, len(cycles), m.TriangleCount())
		}
		meshes[i] = m
	}
	return meshes, nil
}

// Scene tessellates every entry of s, moved by its offset. Part names are
// prefixed with the entry name.
func (t *Tessellator) Scene(s *scene.Scene) ([]*kernel.Mesh, error) {
	if s == nil {
		return nil, nil
	}

	var meshes []*kernel.Mesh
	for _, e := range s.All() {
		faces, err := t.Tessellate(e.Polytope)
		if err != nil {
			return nil, fmt.Errorf("tessellate: error in entry %s (%s): %w", e.Name, e.ID.Short(), err)
		}
		for _, m := range faces {
			if m.IsEmpty() {
				continue
			}
			Translate(m, e.Offset)
			m.PartName = e.Name + ": " + m.PartName
			meshes = append(meshes, m)
		}
	}
	return meshes, nil
}

// Translate moves every vertex of m by offset.
func Translate(m *kernel.Mesh, offset [3]float64) {
	for i := range m.Vertices {
		m.Vertices[i] += float32(offset[i%3])
	}
}

// faceMesh triangulates each simple cycle of one face into a single mesh.
func faceMesh(cycles [][]space.Point) *kernel.Mesh {
	m := &kernel.Mesh{}
	for _, c := range cycles {
		i0, i1, ok := planar.Projection(c)
		if !ok {
			continue
		}
		flat := make([][2]float64, len(c))
		for k, pt := range c {
			flat[k] = [2]float64{pt[i0], pt[i1]}
		}
		tris := triangulate(flat)
		if len(tris) == 0 {
			continue
		}

		// triangles wind counter-clockwise in the projection; so must the
		// cycle the normal is taken from
		ordered := c
		if signedArea(flat) < 0 {
			ordered = make([]space.Point, len(c))
			for k, pt := range c {
				ordered[len(c)-1-k] = pt
			}
		}
		n := newellNormal(ordered)

		base := uint32(m.VertexCount())
		for _, pt := range c {
			v := pt.Resize(3)
			m.Vertices = append(m.Vertices, float32(v[0]), float32(v[1]), float32(v[2]))
			m.Normals = append(m.Normals, float32(n.X()), float32(n.Y()), float32(n.Z()))
		}
		for _, tri := range tris {
			m.Indices = append(m.Indices, base+uint32(tri[0]), base+uint32(tri[1]), base+uint32(tri[2]))
		}
	}
	return m
}

// newellNormal returns the unit normal of the polygon's first three
// coordinates, or +Z when they span no area.
func newellNormal(c []space.Point) mgl64.Vec3 {
	var n mgl64.Vec3
	for k := range c {
		a, b := vec3(c[k]), vec3(c[(k+1)%len(c)])
		n = n.Add(mgl64.Vec3{
			(a.Y() - b.Y()) * (a.Z() + b.Z()),
			(a.Z() - b.Z()) * (a.X() + b.X()),
			(a.X() - b.X()) * (a.Y() + b.Y()),
		})
	}
	if n.Len() < space.Epsilon {
		return mgl64.Vec3{0, 0, 1}
	}
	return n.Normalize()
}

func vec3(p space.Point) mgl64.Vec3 {
	v := p.Resize(3)
	return mgl64.Vec3{v[0], v[1], v[2]}
}

// triangulate ear-clips a simple polygon and returns index triples wound
// counter-clockwise.
func triangulate(pts [][2]float64) [][3]int {
	n := len(pts)
	if n < 3 {
		return nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	if signedArea(pts) < 0 {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			idx[i], idx[j] = idx[j], idx[i]
		}
	}

	tris := make([][3]int, 0, n-2)
	for len(idx) > 3 {
		m := len(idx)
		clipped := false
		for k := 0; k < m; k++ {
			a, b, c := idx[(k+m-1)%m], idx[k], idx[(k+1)%m]
			if !isEar(pts, idx, a, b, c) {
				continue
			}
			tris = append(tris, [3]int{a, b, c})
			idx = append(idx[:k], idx[k+1:]...)
			clipped = true
			break
		}
		if clipped {
			continue
		}

		// no ear: drop a vertex lying on the segment between its
		// neighbours, or force the first corner
		k := flattest(pts, idx)
		a, b, c := idx[(k+m-1)%m], idx[k], idx[(k+1)%m]
		if math.Abs(cross(pts[a], pts[b], pts[c])) > space.Epsilon {
			tris = append(tris, [3]int{a, b, c})
		}
		idx = append(idx[:k], idx[k+1:]...)
	}
	if math.Abs(cross(pts[idx[0]], pts[idx[1]], pts[idx[2]])) > space.Epsilon {
		tris = append(tris, [3]int{idx[0], idx[1], idx[2]})
	}
	return tris
}

func isEar(pts [][2]float64, idx []int, a, b, c int) bool {
	if cross(pts[a], pts[b], pts[c]) <= space.Epsilon {
		return false
	}
	for _, v := range idx {
		if v == a || v == b || v == c {
			continue
		}
		p := pts[v]
		if p == pts[a] || p == pts[b] || p == pts[c] {
			continue
		}
		// points on the boundary block too: a reflex vertex touching the
		// diagonal would otherwise let the ear cover a notch
		if cross(pts[a], pts[b], p) > -space.Epsilon && cross(pts[b], pts[c], p) > -space.Epsilon && cross(pts[c], pts[a], p) > -space.Epsilon {
			return false
		}
	}
	return true
}

func flattest(pts [][2]float64, idx []int) int {
	m := len(idx)
	best, bestArea := 0, math.Inf(1)
	for k := 0; k < m; k++ {
		area := math.Abs(cross(pts[idx[(k+m-1)%m]], pts[idx[k]], pts[idx[(k+1)%m]]))
		if area < bestArea {
			best, bestArea = k, area
		}
	}
	return best
}

func cross(a, b, c [2]float64) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func signedArea(pts [][2]float64) float64 {
	var sum float64
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i][0]*pts[j][1] - pts[j][0]*pts[i][1]
	}
	return sum / 2
}
