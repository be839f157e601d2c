package main

import (
	"os"
	"testing"
)

// TestE2EBoxExample exercises the full pipeline: Lisp source → engine → scene
// → validate → tessellate → meshes.
func TestE2EBoxExample(t *testing.T) {
	app := NewApp()

	source, err := os.ReadFile("examples/box.hull")
	if err != nil {
		t.Fatalf("failed to read box.hull: %v", err)
	}

	result := app.Evaluate(string(source))

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}

	// Expected triangle count per hull.
	expected := map[string]int{
		"box":              12,
		"box-moved":        12,
		"cube-with-centre": 12,
		"tetra":            4,
		"capped":           14,
	}
	if len(result.Meshes) != len(expected) {
		t.Fatalf("expected %d meshes, got %d", len(expected), len(result.Meshes))
	}

	for _, m := range result.Meshes {
		want, ok := expected[m.PartName]
		if !ok {
			t.Errorf("unexpected part name: %q", m.PartName)
			continue
		}
		delete(expected, m.PartName)

		if got := len(m.Indices) / 3; got != want {
			t.Errorf("hull %q: %d triangles, want %d", m.PartName, got, want)
		}
		if len(m.Normals) != len(m.Vertices) {
			t.Errorf("hull %q: %d normals for %d vertex floats", m.PartName, len(m.Normals), len(m.Vertices))
		}
		if !m.Exact {
			t.Errorf("hull %q: mesh should be exact", m.PartName)
		}
		if m.Color == "" {
			t.Errorf("hull %q: no color assigned", m.PartName)
		}
	}

	for name := range expected {
		t.Errorf("missing mesh for hull %q", name)
	}
}

func TestE2ECloudsExample(t *testing.T) {
	app := NewApp()

	source, err := os.ReadFile("examples/clouds.hull")
	if err != nil {
		t.Fatalf("failed to read clouds.hull: %v", err)
	}
	result := app.Evaluate(string(source))
	if len(result.Errors) > 0 {
		t.Fatalf("errors: %v", result.Errors)
	}
	if len(result.Meshes) != 3 {
		t.Fatalf("expected 3 meshes, got %d", len(result.Meshes))
	}
	// Every sphere point is extreme: F = 2V - 4 with V = 200.
	for _, m := range result.Meshes {
		if m.PartName == "sphere" {
			if got := len(m.Indices) / 3; got != 2*200-4 {
				t.Errorf("sphere hull has %d triangles, want %d", got, 2*200-4)
			}
		}
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("")

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for empty source, got %d", len(result.Meshes))
	}
}

// TestE2ESyntaxError ensures eval errors are reported, not fatal errors.
func TestE2ESyntaxError(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("(defhull \"test\"")

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
}

// TestE2ESingleHull ensures a minimal source renders one mesh.
func TestE2ESingleHull(t *testing.T) {
	app := NewApp()
	source := `(defhull "shelf" (cube-corners :size 3))`
	result := app.Evaluate(source)

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error: %s", e.Message)
		}
		t.FailNow()
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
	if result.Meshes[0].PartName != "shelf" {
		t.Errorf("expected part name 'shelf', got %q", result.Meshes[0].PartName)
	}
}
