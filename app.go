package main

import (
	"context"

	"github.com/golang/glog"

	"github.com/chazu/polytope/pkg/config"
	"github.com/chazu/polytope/pkg/engine"
	"github.com/chazu/polytope/pkg/kernel"
	"github.com/chazu/polytope/pkg/kernel/sdfx"
	"github.com/chazu/polytope/pkg/planar"
	"github.com/chazu/polytope/pkg/scene"
	"github.com/chazu/polytope/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to meshes.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx         context.Context
	cfg         config.Config
	engine      *engine.Engine
	tessellator *tessellate.Tessellator
	kernel      kernel.Kernel
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates an App configured from the defaults and the environment.
func NewApp() *App {
	cfg, err := config.Load(config.New(), "")
	if err != nil {
		glog.Warningf("config: %v; using defaults", err)
		cfg = config.Default()
	}
	return NewAppWithConfig(cfg)
}

// NewAppWithConfig creates an App with an engine, a tessellator and the
// sdfx kernel set up from cfg.
func NewAppWithConfig(cfg config.Config) *App {
	return &App{
		cfg:         cfg,
		engine:      engine.NewEngineWithTimeout(cfg.EvalTimeout),
		tessellator: tessellate.New(planar.Options{CheckInvariants: cfg.CheckInvariants}),
		kernel:      sdfx.NewWithCells(cfg.MeshCells),
	}
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// Evaluate takes Lisp source and returns the triangulated faces of every
// polytope it defines, plus errors.
// This is the primary binding called by the frontend editor.
func (a *App) Evaluate(source string) EvalResult {
	result, s := a.evaluate(source)
	if s == nil {
		return result
	}

	meshes, err := a.tessellator.Scene(s)
	if err != nil {
		glog.Errorf("Tessellate error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}
	for _, m := range meshes {
		result.Meshes = append(result.Meshes, a.meshData(m, len(result.Meshes)))
	}
	return result
}

// Wireframe is Evaluate with every polytope rendered as solid struts
// along its edges.
func (a *App) Wireframe(source string) EvalResult {
	result, s := a.evaluate(source)
	if s == nil {
		return result
	}

	opts := tessellate.WireframeOptions{Radius: a.cfg.StrutRadius, JointRadius: a.cfg.JointRadius}
	for _, e := range s.All() {
		m, err := tessellate.Wireframe(e.Polytope, a.kernel, opts)
		if err != nil {
			glog.Warningf("Wireframe of %q: %v", e.Name, err)
			result.Warnings = append(result.Warnings, EvalErrorData{
				Message: e.Name + ": " + err.Error(),
			})
			continue
		}
		tessellate.Translate(m, e.Offset)
		m.PartName = e.Name
		result.Meshes = append(result.Meshes, a.meshData(m, len(result.Meshes)))
	}
	return result
}

// evaluate runs the engine and converts its findings. The scene is nil
// when there is nothing to render.
func (a *App) evaluate(source string) (EvalResult, *scene.Scene) {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	res, err := a.engine.EvaluateResult(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		glog.Errorf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result, nil
	}

	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{
			Line:    w.Line,
			Col:     w.Col,
			Message: w.Message,
		})
	}
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result, nil
	}
	return result, res.Scene
}

func (a *App) meshData(m *kernel.Mesh, i int) MeshData {
	return MeshData{
		Vertices: m.Vertices,
		Normals:  m.Normals,
		Indices:  m.Indices,
		PartName: m.PartName,
		Color:    colorPalette[i%len(colorPalette)],
	}
}
