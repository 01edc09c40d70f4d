package main

import (
	"image/color"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/polytope/pkg/kernel"
	"github.com/chazu/polytope/pkg/scene"
	"github.com/chazu/polytope/pkg/space"
)

var palette = []color.RGBA{
	{0x4A, 0x90, 0xD9, 0xFF}, {0xE6, 0x7E, 0x22, 0xFF}, {0x2E, 0xCC, 0x71, 0xFF}, {0x9B, 0x59, 0xB6, 0xFF},
	{0xE7, 0x4C, 0x3C, 0xFF}, {0x1A, 0xBC, 0x9C, 0xFF}, {0xF3, 0x9C, 0x12, 0xFF}, {0x34, 0x98, 0xDB, 0xFF},
}

type triangle struct {
	v      [3]mgl64.Vec3
	normal mgl64.Vec3
	clr    color.RGBA
}

type segment [2]mgl64.Vec3

// model is everything the viewer draws, in world coordinates.
type model struct {
	tris   []triangle
	edges  []segment
	center mgl64.Vec3
}

// newModel colors each mesh from the palette and collects the edges of
// every polytope in s.
func newModel(s *scene.Scene, meshes []*kernel.Mesh) *model {
	m := &model{}
	var sum mgl64.Vec3
	n := 0
	for i, mesh := range meshes {
		clr := palette[i%len(palette)]
		vert := func(k uint32) mgl64.Vec3 {
			return mgl64.Vec3{
				float64(mesh.Vertices[3*k]), float64(mesh.Vertices[3*k+1]), float64(mesh.Vertices[3*k+2]),
			}
		}
		for t := 0; t+2 < len(mesh.Indices); t += 3 {
			a, b, c := mesh.Indices[t], mesh.Indices[t+1], mesh.Indices[t+2]
			tri := triangle{v: [3]mgl64.Vec3{vert(a), vert(b), vert(c)}, clr: clr}
			if len(mesh.Normals) == len(mesh.Vertices) {
				tri.normal = mgl64.Vec3{
					float64(mesh.Normals[3*a]), float64(mesh.Normals[3*a+1]), float64(mesh.Normals[3*a+2]),
				}
			} else {
				tri.normal = tri.v[1].Sub(tri.v[0]).Cross(tri.v[2].Sub(tri.v[0]))
				if tri.normal.Len() > 0 {
					tri.normal = tri.normal.Normalize()
				}
			}
			m.tris = append(m.tris, tri)
		}
		for k := 0; k+2 < len(mesh.Vertices); k += 3 {
			sum = sum.Add(vert(uint32(k / 3)))
			n++
		}
	}
	if n > 0 {
		m.center = sum.Mul(1 / float64(n))
	}

	if s == nil {
		return m
	}
	for _, e := range s.All() {
		p := e.Polytope
		if len(p.Elements) < 2 {
			continue
		}
		off := mgl64.Vec3(e.Offset)
		for _, edge := range p.Elements[1] {
			if len(edge) != 2 {
				continue
			}
			m.edges = append(m.edges, segment{
				point3(p.Vertices[edge[0]]).Add(off),
				point3(p.Vertices[edge[1]]).Add(off),
			})
		}
	}
	return m
}

func point3(p space.Point) mgl64.Vec3 {
	v := p.Resize(3)
	return mgl64.Vec3{v[0], v[1], v[2]}
}

// camera is an orthographic view turning about the model center.
type camera struct {
	yaw, pitch float64
	scale      float64
	width      int
	height     int
}

func (c camera) rotation() mgl64.Mat4 {
	return mgl64.HomogRotate3DX(c.pitch).Mul4(mgl64.HomogRotate3DY(c.yaw))
}

// view maps world coordinates to pixels; z grows towards the viewer.
func (c camera) view(center mgl64.Vec3) mgl64.Mat4 {
	return mgl64.Translate3D(float64(c.width)/2, float64(c.height)/2, 0).
		Mul4(mgl64.Scale3D(c.scale, -c.scale, c.scale)).
		Mul4(c.rotation()).
		Mul4(mgl64.Translate3D(-center.X(), -center.Y(), -center.Z()))
}

type projected struct {
	xy    [3][2]float32
	depth float64
	clr   color.RGBA
}

// project returns the triangles in screen space, farthest first.
func (m *model) project(c camera) []projected {
	view := c.view(m.center)
	rot := c.rotation()
	out := make([]projected, len(m.tris))
	for i, t := range m.tris {
		var p projected
		for k, v := range t.v {
			s := mgl64.TransformCoordinate(v, view)
			p.xy[k] = [2]float32{float32(s.X()), float32(s.Y())}
			p.depth += s.Z() / 3
		}
		p.clr = shade(t.clr, mgl64.TransformNormal(t.normal, rot))
		out[i] = p
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].depth < out[j].depth })
	return out
}

// shade dims clr by how far n turns away from the viewer. Faces are two
// sided.
func shade(clr color.RGBA, n mgl64.Vec3) color.RGBA {
	z := 0.0
	if n.Len() > 0 {
		z = math.Abs(n.Normalize().Z())
	}
	f := 1 - 0.65*(1-z)
	return color.RGBA{
		R: uint8(float64(clr.R) * f),
		G: uint8(float64(clr.G) * f),
		B: uint8(float64(clr.B) * f),
		A: clr.A,
	}
}

func transform(v mgl64.Vec3, view mgl64.Mat4) [2]float32 {
	s := mgl64.TransformCoordinate(v, view)
	return [2]float32{float32(s.X()), float32(s.Y())}
}
