package export_test

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/chazu/polytope/pkg/export"
	"github.com/chazu/polytope/pkg/planar"
	"github.com/chazu/polytope/pkg/polytope"
	"github.com/chazu/polytope/pkg/space"
)

func bowtie(t *testing.T) *polytope.Polytope {
	t.Helper()
	p, err := polytope.FromCycle([]space.Point{
		space.NewPoint(0, 0), space.NewPoint(1, 1), space.NewPoint(1, 0), space.NewPoint(0, 1),
	})
	require.NoError(t, err)
	return p
}

func TestCycles2DClosesRings(t *testing.T) {
	cycles := [][]space.Point{{
		space.NewPoint(0, 0, 5), space.NewPoint(1, 0, 5), space.NewPoint(0, 1, 5),
	}}
	mp, err := export.Cycles2D(cycles, 0, 1)
	require.NoError(t, err)
	require.Equal(t, 1, mp.NumPolygons())

	ring := mp.Polygon(0).LinearRing(0)
	require.Equal(t, 4, ring.NumCoords())
	assert.Equal(t, ring.Coord(0), ring.Coord(3))

	// projection onto other axes
	mp, err = export.Cycles2D(cycles, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 5}, []float64(mp.Polygon(0).LinearRing(0).Coord(1)))
}

func TestCycles2DDimensionMismatch(t *testing.T) {
	_, err := export.Cycles2D([][]space.Point{{space.NewPoint(0, 0), space.NewPoint(1, 0), space.NewPoint(0, 1)}}, 0, 2)
	assert.True(t, errors.Is(err, space.ErrDimensionMismatch))
}

func TestGeoJSONBowtie(t *testing.T) {
	faces, err := export.GeoJSON(bowtie(t))
	require.NoError(t, err)
	require.Len(t, faces, 1)

	assert.JSONEq(t, `{
		"type": "MultiPolygon",
		"coordinates": [
			[[[0, 0], [0.5, 0.5], [0, 1], [0, 0]]],
			[[[1, 1], [1, 0], [0.5, 0.5], [1, 1]]]
		]
	}`, string(faces[0]))
}

func TestWKTCube(t *testing.T) {
	cube, err := polytope.Hypercube(3)
	require.NoError(t, err)

	faces, err := export.New(planar.Options{CheckInvariants: true}).WKT(cube)
	require.NoError(t, err)
	require.Len(t, faces, 6)
	for _, f := range faces {
		assert.True(t, strings.HasPrefix(f, "MULTIPOLYGON"), f)
	}
}

func TestFeatureCollection(t *testing.T) {
	fc, err := export.New(planar.Options{}).FeatureCollection(bowtie(t))
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, 0, fc.Features[0].Properties["face"])

	data, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"FeatureCollection"`)
	assert.Contains(t, string(data), `"polytope":"Polytope"`)
	assert.Contains(t, string(data), `"axes":[0,1]`)
}

func ringArea(ring *geom.LinearRing) float64 {
	var sum float64
	for k := 0; k+1 < ring.NumCoords(); k++ {
		a, b := ring.Coord(k), ring.Coord(k+1)
		sum += a.X()*b.Y() - b.X()*a.Y()
	}
	return math.Abs(sum) / 2
}

func TestUprightFacesKeepTheirArea(t *testing.T) {
	for _, tc := range []struct {
		name string
		gen  func() (*polytope.Polytope, error)
	}{
		{"cube", func() (*polytope.Polytope, error) { return polytope.Hypercube(3) }},
		{"tesseract", func() (*polytope.Polytope, error) { return polytope.Hypercube(4) }},
		{"octahedron", func() (*polytope.Polytope, error) { return polytope.Cross(3) }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p, err := tc.gen()
			require.NoError(t, err)

			faces, err := export.New(planar.Options{}).Faces(p)
			require.NoError(t, err)
			require.Len(t, faces, p.Count(2))
			for i, mp := range faces {
				require.Equal(t, 1, mp.NumPolygons(), "face %d", i)
				assert.Greater(t, ringArea(mp.Polygon(0).LinearRing(0)), 0.1, "face %d", i)
			}
		})
	}
}

func TestCubeFaceAxes(t *testing.T) {
	cube, err := polytope.Hypercube(3)
	require.NoError(t, err)

	fc, err := export.New(planar.Options{}).FeatureCollection(cube)
	require.NoError(t, err)
	seen := map[[2]int]int{}
	for _, f := range fc.Features {
		axes := f.Properties["axes"].([]int)
		seen[[2]int{axes[0], axes[1]}]++
	}
	assert.Equal(t, map[[2]int]int{{0, 1}: 2, {0, 2}: 2, {1, 2}: 2}, seen)
}

func TestDegenerateFaceIsEmpty(t *testing.T) {
	flat, err := polytope.FromCycle([]space.Point{space.NewPoint(0, 0), space.NewPoint(1, 1), space.NewPoint(2, 2)})
	require.NoError(t, err)

	mps, err := export.New(planar.Options{}).Faces(flat)
	require.NoError(t, err)
	require.Len(t, mps, 1)
	assert.Equal(t, 0, mps[0].NumPolygons())
}
