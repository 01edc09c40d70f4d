package main

import (
	"fmt"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// 1. Empty editor: empty string -> 0 meshes, 0 errors.
//    (TestE2EEmptySource already exists; this verifies additional invariants.)
// ---------------------------------------------------------------------------

func TestE2EEmptySourceExtended(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("")

	if len(result.Errors) != 0 {
		t.Errorf("expected 0 errors for empty source, got %d", len(result.Errors))
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for empty source, got %d", len(result.Meshes))
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected 0 warnings for empty source, got %d", len(result.Warnings))
	}
	// Ensure slices are non-nil (JSON should serialize as [] not null).
	if result.Meshes == nil {
		t.Error("Meshes should be non-nil empty slice, got nil")
	}
	if result.Errors == nil {
		t.Error("Errors should be non-nil empty slice, got nil")
	}
	if result.Warnings == nil {
		t.Error("Warnings should be non-nil empty slice, got nil")
	}
}

func TestE2EWhitespaceOnly(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("  \n\t\n  ")
	if len(result.Errors) != 0 || len(result.Meshes) != 0 {
		t.Errorf("expected nothing for whitespace, got %d errors, %d meshes", len(result.Errors), len(result.Meshes))
	}
}

func TestE2ECommentsOnly(t *testing.T) {
	app := NewApp()
	result := app.Evaluate(";; nothing here\n; or here :keyword\n")
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes, got %d", len(result.Meshes))
	}
}

// ---------------------------------------------------------------------------
// 2. Syntax error mid-expression: unmatched parens -> eval error, 0 meshes.
// ---------------------------------------------------------------------------

func TestE2ESyntaxErrorWithLineInfo(t *testing.T) {
	app := NewApp()

	// Put valid code on line 1, broken code on line 2 so line info is meaningful.
	source := "(+ 1 2)\n(defpoly \"test\""
	result := app.Evaluate(source)

	if len(result.Errors) == 0 {
		t.Fatal("expected at least one eval error for unmatched parens")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on syntax error, got %d", len(result.Meshes))
	}

	e := result.Errors[0]
	if e.Message == "" {
		t.Error("syntax error should have a non-empty message")
	}
	t.Logf("syntax error: line=%d, col=%d, message=%q", e.Line, e.Col, e.Message)
}

// ---------------------------------------------------------------------------
// 3. Bad references and arguments.
// ---------------------------------------------------------------------------

func TestE2EUndefinedPolyReference(t *testing.T) {
	app := NewApp()
	result := app.Evaluate(`(defpoly "p" (pyramid (poly "ghost") (point 0 0 1)))`)

	if len(result.Errors) == 0 {
		t.Fatal("expected an error for an undefined polytope")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes, got %d", len(result.Meshes))
	}
}

func TestE2EInvalidDimensions(t *testing.T) {
	app := NewApp()
	for _, source := range []string{
		`(defpoly "a" (hypercube 0))`,
		`(defpoly "b" (simplex -1))`,
		`(defpoly "c" (star 2))`,
		`(defpoly "d" (star 5 0))`,
		`(defpoly "e" (cross 99))`,
	} {
		result := app.Evaluate(source)
		if len(result.Errors) == 0 {
			t.Errorf("%s: expected an error", source)
		}
	}
}

func TestE2EDuplicateNames(t *testing.T) {
	app := NewApp()
	result := app.Evaluate(`
(defpoly "same" (hypercube 3))
(defpoly "same" (simplex 3))
`)
	if len(result.Errors) == 0 {
		t.Fatal("expected an error for a duplicate name")
	}
	if !strings.Contains(result.Errors[0].Message, "same") {
		t.Errorf("error should name the duplicate, got %q", result.Errors[0].Message)
	}
}

// ---------------------------------------------------------------------------
// 4. Warnings do not block rendering.
// ---------------------------------------------------------------------------

func TestE2EFacelessEntryWarns(t *testing.T) {
	app := NewApp()
	result := app.Evaluate(`
(defpoly "segment" (hypercube 1))
(defpoly "square" (hypercube 2))
`)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("expected 1 warning, got %v", result.Warnings)
	}
	if len(result.Meshes) != 1 {
		t.Errorf("expected 1 mesh, got %d", len(result.Meshes))
	}
}

func TestE2EDegenerateFaceIsSkipped(t *testing.T) {
	app := NewApp()
	result := app.Evaluate(`(defpoly "flat" (polygon (point 0 0) (point 1 1) (point 2 2)))`)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for a collinear face, got %d", len(result.Meshes))
	}
}

// ---------------------------------------------------------------------------
// 5. Rapid re-evaluation, as the editor does on every keystroke.
// ---------------------------------------------------------------------------

func TestE2ERapidEvaluationAlternating(t *testing.T) {
	// Alternates between valid and invalid sources rapidly.
	// Ensures the engine recovers cleanly between error and success states.
	//
	// Calls are sequential because zygomys has internal global state that is
	// not safe for concurrent sandbox creation.
	app := NewApp()

	sources := []string{
		`(defpoly "ok" (hypercube 3))`,
		`(defpoly "broken"`,
		``,
		`(poly "missing")`,
		`(defpoly "also-ok" (star 7 3))`,
		`(+ 1 2)`,
		`;; just a comment`,
		`(undefined-func 1 2 3)`,
		`(defpoly "last" (cross 4))`,
	}

	for i, source := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("iteration %d panicked on source %q: %v", i, source, r)
				}
			}()
			_ = app.Evaluate(source)
		}()
	}

	result := app.Evaluate(`(defpoly "cube" (hypercube 3))`)
	if len(result.Errors) != 0 || len(result.Meshes) != 6 {
		t.Errorf("engine did not recover: %d errors, %d meshes", len(result.Errors), len(result.Meshes))
	}
}

// ---------------------------------------------------------------------------
// 6. Higher dimensions: faces of 4D polytopes project onto their first
//    three coordinates.
// ---------------------------------------------------------------------------

func TestE2ETesseract(t *testing.T) {
	app := NewApp()
	result := app.Evaluate(`(defpoly "tesseract" (hypercube 4))`)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != 24 {
		t.Errorf("expected 24 face meshes, got %d", len(result.Meshes))
	}
}

// ---------------------------------------------------------------------------
// 7. Palette wraps around.
// ---------------------------------------------------------------------------

func TestE2EColorPaletteWrapping(t *testing.T) {
	app := NewApp()

	// More meshes than the palette has colors.
	var b strings.Builder
	for i := 0; i < 9; i++ {
		fmt.Fprintf(&b, "(defpoly \"t%d\" (simplex 2) :at (vec3 %d 0 0))\n", i, 2*i)
	}
	result := app.Evaluate(b.String())

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != 9 {
		t.Fatalf("expected 9 meshes, got %d", len(result.Meshes))
	}
	for _, m := range result.Meshes {
		if m.Color == "" {
			t.Errorf("mesh %q should have a color assigned (palette wrapping)", m.PartName)
		}
	}
	if result.Meshes[8].Color != result.Meshes[0].Color {
		t.Error("the ninth mesh should reuse the first color")
	}
}
