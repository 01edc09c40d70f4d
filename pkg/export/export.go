// Package export writes the planarized faces of a polytope as 2D
// geometries: one MultiPolygon per face, one polygon per simple cycle.
package export

import (
	"github.com/pkg/errors"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkt"

	"github.com/chazu/polytope/pkg/planar"
	"github.com/chazu/polytope/pkg/polytope"
	"github.com/chazu/polytope/pkg/space"
)

// Cycles2D converts simple cycles to a MultiPolygon using coordinates i0
// and i1 of every point. Rings are closed.
func Cycles2D(cycles [][]space.Point, i0, i1 int) (*geom.MultiPolygon, error) {
	coords := make([][][]geom.Coord, 0, len(cycles))
	for ci, c := range cycles {
		if len(c) == 0 {
			continue
		}
		ring := make([]geom.Coord, 0, len(c)+1)
		for k, p := range c {
			if i0 >= p.Dimensions() || i1 >= p.Dimensions() {
				return nil, errors.Wrapf(space.ErrDimensionMismatch,
					"cycle %d point %d has %d coordinates", ci, k, p.Dimensions())
			}
			ring = append(ring, geom.Coord{p[i0], p[i1]})
		}
		ring = append(ring, ring[0])
		coords = append(coords, [][]geom.Coord{ring})
	}
	return geom.NewMultiPolygon(geom.XY).SetCoords(coords)
}

// Exporter planarizes faces before converting them.
type Exporter struct {
	pl *planar.Planarizer
}

// New returns an Exporter that planarizes with the given options.
func New(opts planar.Options) *Exporter {
	return &Exporter{pl: planar.NewPlanarizer(opts)}
}

var defaultExporter = New(planar.Options{})

// Faces returns one MultiPolygon per 2-face of p. Each face is projected
// onto the axis pair it was planarized in, so faces standing upright in
// space keep their area. Degenerate faces give empty MultiPolygons.
func (x *Exporter) Faces(p *polytope.Polytope) ([]*geom.MultiPolygon, error) {
	out, _, err := x.faces(p)
	return out, err
}

// faces is Faces plus the axis pair of every face.
func (x *Exporter) faces(p *polytope.Polytope) ([]*geom.MultiPolygon, [][2]int, error) {
	n := p.Count(2)
	out := make([]*geom.MultiPolygon, n)
	axes := make([][2]int, n)
	for i := 0; i < n; i++ {
		pts, err := p.FacePoints(i)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "export: face %d", i)
		}
		cycles, err := x.pl.Planarize(pts)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "export: face %d", i)
		}
		i0, i1, _ := planar.Projection(pts)
		if out[i], err = Cycles2D(cycles, i0, i1); err != nil {
			return nil, nil, errors.Wrapf(err, "export: face %d", i)
		}
		axes[i] = [2]int{i0, i1}
	}
	return out, axes, nil
}

// GeoJSON returns the GeoJSON geometry of every face.
func (x *Exporter) GeoJSON(p *polytope.Polytope) ([][]byte, error) {
	faces, err := x.Faces(p)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, len(faces))
	for i, mp := range faces {
		if out[i], err = geojson.Marshal(mp); err != nil {
			return nil, errors.Wrapf(err, "export: face %d", i)
		}
	}
	return out, nil
}

// WKT returns the well-known text of every face.
func (x *Exporter) WKT(p *polytope.Polytope) ([]string, error) {
	faces, err := x.Faces(p)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(faces))
	for i, mp := range faces {
		if out[i], err = wkt.Marshal(mp); err != nil {
			return nil, errors.Wrapf(err, "export: face %d", i)
		}
	}
	return out, nil
}

// FeatureCollection wraps every face in a feature carrying the polytope
// name, the face index and the axes the face was projected onto.
func (x *Exporter) FeatureCollection(p *polytope.Polytope) (*geojson.FeatureCollection, error) {
	faces, axes, err := x.faces(p)
	if err != nil {
		return nil, err
	}
	fc := &geojson.FeatureCollection{}
	for i, mp := range faces {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: mp,
			Properties: map[string]interface{}{
				"polytope": p.Name,
				"face":     i,
				"axes":     []int{axes[i][0], axes[i][1]},
			},
		})
	}
	return fc, nil
}

// GeoJSON exports p with default options.
func GeoJSON(p *polytope.Polytope) ([][]byte, error) {
	return defaultExporter.GeoJSON(p)
}

// WKT exports p with default options.
func WKT(p *polytope.Polytope) ([]string, error) {
	return defaultExporter.WKT(p)
}
