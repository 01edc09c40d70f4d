package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/polytope/pkg/polytope"
	"github.com/chazu/polytope/pkg/scene"
	"github.com/chazu/polytope/pkg/space"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPolytope wraps a polytope built by a generator or by pyramid.
// Builtins never mutate the wrapped value; they clone it first.
type sexpPolytope struct {
	p *polytope.Polytope
}

func (s *sexpPolytope) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %v)", strings.ToLower(s.p.Name), s.p.Counts())
}
func (s *sexpPolytope) Type() *zygo.RegisteredType { return nil }

// sexpPoint wraps a space.Point.
type sexpPoint struct {
	pt space.Point
}

func (s *sexpPoint) SexpString(ps *zygo.PrintState) string {
	coords := make([]string, len(s.pt))
	for i, c := range s.pt {
		coords[i] = strconv.FormatFloat(c, 'g', -1, 64)
	}
	return "(point " + strings.Join(coords, " ") + ")"
}
func (s *sexpPoint) Type() *zygo.RegisteredType { return nil }

// sexpEntryRef refers to an entry added to the scene by defpoly or show.
type sexpEntryRef struct {
	id   scene.EntryID
	name string
}

func (r *sexpEntryRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(poly %q)", r.name)
}
func (r *sexpEntryRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an int from a SexpInt or from an integral SexpFloat.
func toInt(s zygo.Sexp) (int, error) {
	f, err := toFloat64(s)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("expected integer, got %g", f)
	}
	return int(f), nil
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toPoint extracts a point from a sexpPoint.
func toPoint(s zygo.Sexp) (space.Point, error) {
	if p, ok := s.(*sexpPoint); ok {
		return p.pt, nil
	}
	return nil, fmt.Errorf("expected point, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builder holds the scene one evaluation populates.
type builder struct {
	scene *scene.Scene

	// anon numbers the entries added by show.
	anon int
}

// toPolytope extracts the polytope of a sexpPolytope or of a scene entry.
func (b *builder) toPolytope(s zygo.Sexp) (*polytope.Polytope, error) {
	switch v := s.(type) {
	case *sexpPolytope:
		return v.p, nil
	case *sexpEntryRef:
		if e := b.scene.Get(v.id); e != nil {
			return e.Polytope, nil
		}
		return nil, fmt.Errorf("no polytope named %q", v.name)
	}
	return nil, fmt.Errorf("expected polytope, got %T (%s)", s, s.SexpString(nil))
}

type generator func(d int) (*polytope.Polytope, error)

func (b *builder) generate(gen generator) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("%s requires exactly 1 argument, got %d", name, len(args))
		}
		d, err := toInt(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: dimension: %w", name, err)
		}
		p, err := gen(d)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		return &sexpPolytope{p: p}, nil
	}
}

// (star 5 2), (star 6)
func (b *builder) star(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) < 1 || len(args) > 2 {
		return zygo.SexpNull, fmt.Errorf("star requires a vertex count and an optional step")
	}
	n, err := toInt(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("star: vertices: %w", err)
	}
	step := 1
	if len(args) == 2 {
		if step, err = toInt(args[1]); err != nil {
			return zygo.SexpNull, fmt.Errorf("star: step: %w", err)
		}
	}
	p, err := polytope.Star(n, step)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("star: %w", err)
	}
	return &sexpPolytope{p: p}, nil
}

// (point 1 2 3)
func (b *builder) point(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) == 0 {
		return zygo.SexpNull, fmt.Errorf("point requires at least 1 coordinate")
	}
	pt := make(space.Point, len(args))
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("point: coordinate %d: %w", i, err)
		}
		pt[i] = f
	}
	return &sexpPoint{pt: pt}, nil
}

// (vec3 1 2 3)
func (b *builder) vec3(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 3 {
		return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
	}
	return b.point(env, name, args)
}

// (polygon (point 0 0) (point 1 1) (point 1 0)) or (polygon (list ...))
func (b *builder) polygon(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) == 1 {
		items, err := sexpListToSlice(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polygon: %w", err)
		}
		args = items
	}
	pts := make([]space.Point, len(args))
	for i, a := range args {
		pt, err := toPoint(a)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polygon: vertex %d: %w", i, err)
		}
		if i > 0 && pt.Dimensions() != pts[0].Dimensions() {
			return zygo.SexpNull, fmt.Errorf("polygon: vertex %d: %w", i, space.ErrDimensionMismatch)
		}
		pts[i] = pt
	}
	p, err := polytope.FromCycle(pts)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("polygon: %w", err)
	}
	p.Name = "Polygon"
	return &sexpPolytope{p: p}, nil
}

// (pyramid (hypercube 2) (point 0 0 1))
func (b *builder) pyramid(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return zygo.SexpNull, fmt.Errorf("pyramid requires a base polytope and an apex point")
	}
	base, err := b.toPolytope(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("pyramid: base: %w", err)
	}
	apex, err := toPoint(args[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("pyramid: apex: %w", err)
	}
	p := base.Clone()
	p.ExtrudeToPyramid(apex)
	p.Name = "Pyramid"
	return &sexpPolytope{p: p}, nil
}

// (embed (star 5 2) 3)
func (b *builder) embed(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return zygo.SexpNull, fmt.Errorf("embed requires a polytope and a coordinate count")
	}
	src, err := b.toPolytope(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("embed: %w", err)
	}
	n, err := toInt(args[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("embed: coordinates: %w", err)
	}
	if n < 1 {
		return zygo.SexpNull, fmt.Errorf("embed: coordinate count must be positive, got %d", n)
	}
	p := src.Clone()
	p.SetSpaceDimensions(n)
	return &sexpPolytope{p: p}, nil
}

// (defpoly "name" (hypercube 3) :at (vec3 2 0 0))
func (b *builder) defpoly(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if len(pa.positional) < 2 {
		return zygo.SexpNull, fmt.Errorf("defpoly requires a name and a body expression")
	}
	polyName, err := toString(pa.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("defpoly: name: %w", err)
	}
	return b.add(polyName, pa.positional[1], pa.kw, "defpoly")
}

// (show (simplex 3) :at (vec3 0 2 0))
func (b *builder) show(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if len(pa.positional) != 1 {
		return zygo.SexpNull, fmt.Errorf("show requires exactly one polytope")
	}
	p, err := b.toPolytope(pa.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("show: %w", err)
	}
	b.anon++
	return b.add(fmt.Sprintf("%s #%d", p.Name, b.anon), pa.positional[0], pa.kw, "show")
}

func (b *builder) add(entryName string, body zygo.Sexp, kw map[string]zygo.Sexp, fn string) (zygo.Sexp, error) {
	src, err := b.toPolytope(body)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
	}
	p := src.Clone()
	p.Name = entryName

	e := &scene.Entry{Name: entryName, Polytope: p}
	if v, ok := kw["at"]; ok {
		at, err := toPoint(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: at: %w", fn, err)
		}
		copy(e.Offset[:], at.Resize(3))
	}
	b.scene.Add(e)

	return &sexpEntryRef{id: e.ID, name: entryName}, nil
}

// (poly "name")
func (b *builder) poly(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 1 {
		return zygo.SexpNull, fmt.Errorf("poly requires a name argument")
	}
	polyName, err := toString(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("poly: name: %w", err)
	}
	e := b.scene.Lookup(polyName)
	if e == nil {
		return zygo.SexpNull, fmt.Errorf("poly: no polytope named %q", polyName)
	}
	return &sexpEntryRef{id: e.ID, name: polyName}, nil
}

// (counts (hypercube 3)) => (8 12 6 1)
func (b *builder) counts(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 1 {
		return zygo.SexpNull, fmt.Errorf("counts requires exactly 1 argument, got %d", len(args))
	}
	p, err := b.toPolytope(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("counts: %w", err)
	}
	counts := p.Counts()
	out := make([]zygo.Sexp, len(counts))
	for i, c := range counts {
		out[i] = &zygo.SexpInt{Val: int64(c)}
	}
	return zygo.MakeList(out), nil
}

// (rank (hypercube 3)) => 3
func (b *builder) rank(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 1 {
		return zygo.SexpNull, fmt.Errorf("rank requires exactly 1 argument, got %d", len(args))
	}
	p, err := b.toPolytope(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("rank: %w", err)
	}
	return &zygo.SexpInt{Val: int64(p.Dimensions())}, nil
}

// registerBuiltins installs the polytope DSL builtins into a zygomys
// environment. The builtins populate s during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, s *scene.Scene) {
	b := &builder{scene: s}

	env.AddFunction("hypercube", b.generate(polytope.Hypercube))
	env.AddFunction("simplex", b.generate(polytope.Simplex))
	env.AddFunction("cross", b.generate(polytope.Cross))
	env.AddFunction("star", b.star)
	env.AddFunction("polygon", b.polygon)
	env.AddFunction("point", b.point)
	env.AddFunction("vec3", b.vec3)
	env.AddFunction("pyramid", b.pyramid)
	env.AddFunction("embed", b.embed)
	env.AddFunction("defpoly", b.defpoly)
	env.AddFunction("show", b.show)
	env.AddFunction("poly", b.poly)
	env.AddFunction("counts", b.counts)
	env.AddFunction("rank", b.rank)
}
