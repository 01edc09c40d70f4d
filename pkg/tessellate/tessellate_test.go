package tessellate_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/polytope/pkg/kernel"
	"github.com/chazu/polytope/pkg/kernel/sdfx"
	"github.com/chazu/polytope/pkg/planar"
	"github.com/chazu/polytope/pkg/polytope"
	"github.com/chazu/polytope/pkg/scene"
	"github.com/chazu/polytope/pkg/space"
	"github.com/chazu/polytope/pkg/tessellate"
)

// newKernel returns a coarse sdfx kernel for testing.
func newKernel() kernel.Kernel {
	return sdfx.NewWithCells(60)
}

func totalTriangles(meshes []*kernel.Mesh) int {
	n := 0
	for _, m := range meshes {
		n += m.TriangleCount()
	}
	return n
}

func TestTessellateCube(t *testing.T) {
	cube, err := polytope.Hypercube(3)
	require.NoError(t, err)

	meshes, err := tessellate.New(planar.Options{CheckInvariants: true}).Tessellate(cube)
	require.NoError(t, err)
	require.Len(t, meshes, 6)

	for i, m := range meshes {
		assert.Equal(t, 4, m.VertexCount(), "face %d", i)
		assert.Equal(t, 2, m.TriangleCount(), "face %d", i)
		assert.Len(t, m.Normals, len(m.Vertices))
		for _, idx := range m.Indices {
			assert.Less(t, int(idx), m.VertexCount())
		}
	}
	assert.Equal(t, "Face 0", meshes[0].PartName)
	assert.Equal(t, "Face 5", meshes[5].PartName)
}

func TestCubeNormalsAreAxisAligned(t *testing.T) {
	cube, err := polytope.Hypercube(3)
	require.NoError(t, err)

	meshes, err := tessellate.Tessellate(cube)
	require.NoError(t, err)

	for i, m := range meshes {
		n := m.Normals[:3]
		length := math.Sqrt(float64(n[0]*n[0] + n[1]*n[1] + n[2]*n[2]))
		assert.InDelta(t, 1, length, 1e-6, "face %d", i)

		// exactly one component is non-zero
		nonZero := 0
		for _, c := range n {
			if math.Abs(float64(c)) > 1e-6 {
				nonZero++
			}
		}
		assert.Equal(t, 1, nonZero, "face %d normal %v", i, n)
	}
}

func TestTessellateTetrahedron(t *testing.T) {
	tet, err := polytope.Simplex(3)
	require.NoError(t, err)

	meshes, err := tessellate.Tessellate(tet)
	require.NoError(t, err)
	require.Len(t, meshes, 4)
	assert.Equal(t, 4, totalTriangles(meshes))
}

func TestTessellateBowtie(t *testing.T) {
	bowtie, err := polytope.FromCycle([]space.Point{
		space.NewPoint(0, 0), space.NewPoint(1, 1), space.NewPoint(1, 0), space.NewPoint(0, 1),
	})
	require.NoError(t, err)

	meshes, err := tessellate.Tessellate(bowtie)
	require.NoError(t, err)
	require.Len(t, meshes, 1)

	m := meshes[0]
	assert.Equal(t, 6, m.VertexCount())
	assert.Equal(t, 2, m.TriangleCount())

	// padded to z = 0, so every normal is +-Z
	for i := 0; i < len(m.Normals); i += 3 {
		assert.InDelta(t, 1, math.Abs(float64(m.Normals[i+2])), 1e-6)
	}
	lo, hi := m.Bounds()
	assert.Equal(t, [3]float32{0, 0, 0}, lo)
	assert.Equal(t, [3]float32{1, 1, 0}, hi)
}

func TestTessellateNonConvexPolygon(t *testing.T) {
	// an L shape: 6 vertices, 4 triangles
	l, err := polytope.FromCycle([]space.Point{
		space.NewPoint(0, 0), space.NewPoint(2, 0), space.NewPoint(2, 1),
		space.NewPoint(1, 1), space.NewPoint(1, 2), space.NewPoint(0, 2),
	})
	require.NoError(t, err)

	meshes, err := tessellate.Tessellate(l)
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	assert.Equal(t, 4, meshes[0].TriangleCount())

	// the triangles cover the L exactly
	m := meshes[0]
	var area float64
	for i := 0; i < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		ax, ay := float64(m.Vertices[3*a]), float64(m.Vertices[3*a+1])
		bx, by := float64(m.Vertices[3*b]), float64(m.Vertices[3*b+1])
		cx, cy := float64(m.Vertices[3*c]), float64(m.Vertices[3*c+1])
		area += math.Abs((bx-ax)*(cy-ay)-(by-ay)*(cx-ax)) / 2
	}
	assert.InDelta(t, 3, area, 1e-6)
}

func TestTessellateDegenerateFace(t *testing.T) {
	flat, err := polytope.FromCycle([]space.Point{
		space.NewPoint(0, 0), space.NewPoint(1, 1), space.NewPoint(2, 2),
	})
	require.NoError(t, err)

	meshes, err := tessellate.Tessellate(flat)
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	assert.True(t, meshes[0].IsEmpty())
}

func TestTessellateNil(t *testing.T) {
	meshes, err := tessellate.Tessellate(nil)
	assert.NoError(t, err)
	assert.Nil(t, meshes)
}

func TestTessellateScene(t *testing.T) {
	cube, err := polytope.Hypercube(3)
	require.NoError(t, err)
	segment, err := polytope.Hypercube(1)
	require.NoError(t, err)

	s := scene.New()
	s.Add(&scene.Entry{Name: "cube", Polytope: cube, Offset: [3]float64{10, 0, 0}})
	s.Add(&scene.Entry{Name: "segment", Polytope: segment})

	meshes, err := tessellate.New(planar.Options{}).Scene(s)
	require.NoError(t, err)
	require.Len(t, meshes, 6)
	assert.Equal(t, "cube: Face 0", meshes[0].PartName)

	for _, m := range meshes {
		lo, hi := m.Bounds()
		assert.GreaterOrEqual(t, lo[0], float32(9.5))
		assert.LessOrEqual(t, hi[0], float32(10.5))
	}
}

// ---------------------------------------------------------------------------
// Wireframe
// ---------------------------------------------------------------------------

func TestWireframeTriangle(t *testing.T) {
	tri, err := polytope.Polygon(3)
	require.NoError(t, err)

	m, err := tessellate.Wireframe(tri, newKernel(), tessellate.WireframeOptions{Radius: 0.1})
	require.NoError(t, err)
	assert.False(t, m.IsEmpty())
	assert.Equal(t, "Star", m.PartName)

	// the triangle inscribed in the unit circle, thickened by the struts
	lo, hi := m.Bounds()
	assert.InDelta(t, 1.05, hi[0], 0.1)
	assert.InDelta(t, -0.6, lo[0], 0.1)
}

func TestWireframeWithJoints(t *testing.T) {
	tri, err := polytope.Polygon(3)
	require.NoError(t, err)

	m, err := tessellate.Wireframe(tri, newKernel(), tessellate.WireframeOptions{Radius: 0.1, JointRadius: 0.2})
	require.NoError(t, err)

	// the joint at (1, 0) sticks out past the struts
	_, hi := m.Bounds()
	assert.InDelta(t, 1.2, hi[0], 0.1)
}

func TestWireframeNoEdges(t *testing.T) {
	_, err := tessellate.Wireframe(polytope.New(nil, nil), newKernel(), tessellate.WireframeOptions{Radius: 0.1})
	assert.Error(t, err)
}
