// Command viewer opens a window showing the polytopes of a scene file,
// with every face planarized and triangulated.
//
//	viewer [flags] scene.lisp
package main

import (
	goflag "flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"

	"github.com/chazu/polytope/pkg/config"
	"github.com/chazu/polytope/pkg/engine"
	"github.com/chazu/polytope/pkg/kernel"
	"github.com/chazu/polytope/pkg/kernel/sdfx"
	"github.com/chazu/polytope/pkg/planar"
	"github.com/chazu/polytope/pkg/scene"
	"github.com/chazu/polytope/pkg/tessellate"
)

func main() {
	configFile := flag.String("config", "", "Configuration file.")
	wireframe := flag.Bool("wireframe", false, "Show solid struts along the edges instead of the faces.")
	config.AddFlags(flag.CommandLine)
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)
	flag.Parse()
	defer glog.Flush()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: viewer [flags] scene.lisp")
		os.Exit(2)
	}
	if err := run(flag.Arg(0), *configFile, *wireframe); err != nil {
		glog.Errorf("%v", err)
		fmt.Fprintln(os.Stderr, err)
		glog.Flush()
		os.Exit(1)
	}
}

func run(path, configFile string, wireframe bool) error {
	v := config.New()
	if err := config.BindFlags(v, flag.CommandLine); err != nil {
		return err
	}
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return err
	}

	s, err := load(path, cfg)
	if err != nil {
		return err
	}
	meshes, err := buildMeshes(s, cfg, wireframe)
	if err != nil {
		return err
	}
	glog.Infof("viewer: %d polytopes, %d meshes", s.Len(), len(meshes))

	cam := camera{
		pitch:  0.5,
		scale:  cfg.Viewer.Scale,
		width:  cfg.Viewer.Width,
		height: cfg.Viewer.Height,
	}
	ebiten.SetWindowSize(cfg.Viewer.Width, cfg.Viewer.Height)
	ebiten.SetWindowTitle("polytope: " + path)
	return ebiten.RunGame(newGame(newModel(s, meshes), cam))
}

func load(path string, cfg config.Config) (*scene.Scene, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	res, err := engine.NewEngineWithTimeout(cfg.EvalTimeout).EvaluateResult(string(src))
	if err != nil {
		return nil, err
	}
	for _, w := range res.Warnings {
		glog.Warningf("%s: %s", path, w.Message)
	}
	if len(res.Errors) > 0 {
		return nil, errors.Errorf("%s: %s", path, res.Errors[0].Error())
	}
	return res.Scene, nil
}

func buildMeshes(s *scene.Scene, cfg config.Config, wireframe bool) ([]*kernel.Mesh, error) {
	if !wireframe {
		return tessellate.New(planar.Options{CheckInvariants: cfg.CheckInvariants}).Scene(s)
	}
	k := sdfx.NewWithCells(cfg.MeshCells)
	opts := tessellate.WireframeOptions{Radius: cfg.StrutRadius, JointRadius: cfg.JointRadius}
	var out []*kernel.Mesh
	for _, e := range s.All() {
		m, err := tessellate.Wireframe(e.Polytope, k, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "wireframe of %s", e.Name)
		}
		tessellate.Translate(m, e.Offset)
		out = append(out, m)
	}
	return out, nil
}
