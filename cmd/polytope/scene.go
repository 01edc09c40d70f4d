package main

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/chazu/polytope/pkg/export"
	"github.com/chazu/polytope/pkg/kernel/sdfx"
	"github.com/chazu/polytope/pkg/planar"
	"github.com/chazu/polytope/pkg/polytope"
	"github.com/chazu/polytope/pkg/tessellate"
)

func (c *cli) planarOptions() planar.Options {
	return planar.Options{CheckInvariants: c.cfg.CheckInvariants}
}

func (c *cli) evalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <file.lisp|->",
		Short: "Evaluate a scene file and list its polytopes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.scene(cmd, args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, e := range s.All() {
				fmt.Fprintf(w, "%s %s %v at %v\n", e.ID.Short(), e.Name, e.Polytope.Counts(), e.Offset)
			}
			return nil
		},
	}
}

func (c *cli) planarizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "planarize <file.lisp|->",
		Short: "Split every face of a scene into simple polygons",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.scene(cmd, args[0])
			if err != nil {
				return err
			}
			pl := planar.NewPlanarizer(c.planarOptions())
			w := cmd.OutOrStdout()
			for _, e := range s.All() {
				faces, err := pl.PlanarizeAll(e.Polytope)
				if err != nil {
					return errors.Wrapf(err, "planarizing %s", e.Name)
				}
				for i, cycles := range faces {
					fmt.Fprintf(w, "%s: %s %d: %d polygons\n",
						e.Name, polytope.ElementName(2, false), i, len(cycles))
					for _, cycle := range cycles {
						fmt.Fprint(w, " ")
						for _, pt := range cycle {
							fmt.Fprintf(w, " %s", pt)
						}
						fmt.Fprintln(w)
					}
				}
			}
			return nil
		},
	}
}

func (c *cli) exportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export <file.lisp|->",
		Short: "Export the planarized faces of a scene",
		Long: `export projects every face onto the pair of axes in which it has the
largest area, the same plane it is planarized in, and writes the simple
polygons it splits into, as one GeoJSON FeatureCollection (each feature
records its "axes") or as one WKT MULTIPOLYGON per line.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.scene(cmd, args[0])
			if err != nil {
				return err
			}
			x := export.New(c.planarOptions())
			w := cmd.OutOrStdout()

			switch format {
			case "geojson":
				all := &geojson.FeatureCollection{}
				for _, e := range s.All() {
					fc, err := x.FeatureCollection(e.Polytope)
					if err != nil {
						return errors.Wrapf(err, "exporting %s", e.Name)
					}
					all.Features = append(all.Features, fc.Features...)
				}
				b, err := json.Marshal(all)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, string(b))
			case "wkt":
				for _, e := range s.All() {
					faces, err := x.WKT(e.Polytope)
					if err != nil {
						return errors.Wrapf(err, "exporting %s", e.Name)
					}
					for i, f := range faces {
						fmt.Fprintf(w, "%s\t%d\t%s\n", e.Name, i, f)
					}
				}
			default:
				return errors.Errorf("unknown format %q, want geojson or wkt", format)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "geojson", "Output format: geojson or wkt.")
	return cmd
}

func (c *cli) meshCmd() *cobra.Command {
	var wireframe bool
	cmd := &cobra.Command{
		Use:   "mesh <file.lisp|->",
		Short: "Triangulate a scene and print triangle counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.scene(cmd, args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			if wireframe {
				k := sdfx.NewWithCells(c.cfg.MeshCells)
				opts := tessellate.WireframeOptions{Radius: c.cfg.StrutRadius, JointRadius: c.cfg.JointRadius}
				for _, e := range s.All() {
					m, err := tessellate.Wireframe(e.Polytope, k, opts)
					if err != nil {
						return errors.Wrapf(err, "meshing %s", e.Name)
					}
					fmt.Fprintf(w, "%s: %d triangles\n", e.Name, m.TriangleCount())
				}
				return nil
			}

			meshes, err := tessellate.New(c.planarOptions()).Scene(s)
			if err != nil {
				return err
			}
			total := 0
			for _, m := range meshes {
				fmt.Fprintf(w, "%s: %d triangles\n", m.PartName, m.TriangleCount())
				total += m.TriangleCount()
			}
			fmt.Fprintf(w, "total: %d triangles\n", total)
			return nil
		},
	}
	cmd.Flags().BoolVar(&wireframe, "wireframe", false, "Mesh solid struts along the edges instead of the faces.")
	return cmd
}
