package engine

import (
	"testing"

	"cogentcore.org/core/math32"

	"github.com/chazu/locus/pkg/locus"
	"github.com/chazu/locus/pkg/poly"
	"github.com/chazu/locus/pkg/region"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(sphere :radius 5)`,
			expect: `(sphere "__kw_radius" 5)`,
		},
		{
			name:   "multiple keywords",
			input:  `(hollow :inner 2 :outer 5)`,
			expect: `(hollow "__kw_inner" 2 "__kw_outer" 5)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:half-thickness`,
			expect: `"__kw_half-thickness"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// DSL evaluation tests
// ---------------------------------------------------------------------------

func evaluateOK(t *testing.T, source string) *region.Workspace {
	t.Helper()
	eng := NewEngine()
	ws, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if ws == nil {
		t.Fatal("expected non-nil workspace")
	}
	return ws
}

func TestDefregionSphere(t *testing.T) {
	ws := evaluateOK(t, `(defregion "zone" (sphere :center (vec3 1 2 3) :radius 4))`)

	if ws.Count() != 1 {
		t.Fatalf("expected 1 region, got %d", ws.Count())
	}
	l := ws.Lookup("zone")
	if l == nil {
		t.Fatal("expected region named 'zone'")
	}
	shell, ok := l.(*locus.Shell)
	if !ok {
		t.Fatalf("expected *locus.Shell, got %T", l)
	}
	if shell.Center() != math32.Vec3(1, 2, 3) {
		t.Errorf("center = %v", shell.Center())
	}
	if shell.OuterRadius() != 4 {
		t.Errorf("radius = %v", shell.OuterRadius())
	}
	if !shell.Contains(math32.Vec3(1, 2, 6.9)) {
		t.Error("shell should contain a point just inside the radius")
	}
}

func TestShellConstructors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		inside  math32.Vector3
		outside math32.Vector3
	}{
		{
			name:    "cube",
			source:  `(defregion "r" (cube :radius 1))`,
			inside:  math32.Vec3(1, 1, 1),
			outside: math32.Vec3(1.5, 0, 0),
		},
		{
			name:    "octahedron",
			source:  `(defregion "r" (octahedron :radius 3))`,
			inside:  math32.Vec3(1, 1, 1),
			outside: math32.Vec3(2, 2, 0),
		},
		{
			name:    "ellipsoid",
			source:  `(defregion "r" (ellipsoid :rx 3 :ry 2 :rz 1))`,
			inside:  math32.Vec3(2.9, 0, 0),
			outside: math32.Vec3(0, 0, 2),
		},
		{
			name:    "box",
			source:  `(defregion "r" (box :rx 3 :ry 2 :rz 1))`,
			inside:  math32.Vec3(2.9, 1.9, 0.9),
			outside: math32.Vec3(0, 0, 2),
		},
		{
			name:    "cylinder",
			source:  `(defregion "r" (cylinder :axis (vec3 0 0 1) :radius 2))`,
			inside:  math32.Vec3(1, 0, 500),
			outside: math32.Vec3(3, 0, 0),
		},
		{
			name:    "slab",
			source:  `(defregion "r" (slab :normal (vec3 0 1 0) :half-thickness 1))`,
			inside:  math32.Vec3(100, 0.5, -3),
			outside: math32.Vec3(0, 2, 0),
		},
		{
			name:    "hollow",
			source:  `(defregion "r" (hollow :inner 2 :outer 5))`,
			inside:  math32.Vec3(3, 0, 0),
			outside: math32.Vec3(1, 0, 0),
		},
		{
			name:    "manhattan shell",
			source:  `(defregion "r" (shell :metric :manhattan :outer 3))`,
			inside:  math32.Vec3(1, 1, 1),
			outside: math32.Vec3(2, 2, 0),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := evaluateOK(t, tt.source)
			l := ws.Lookup("r")
			if l == nil {
				t.Fatal("region 'r' missing")
			}
			if !l.Contains(tt.inside) {
				t.Errorf("%v should be contained", tt.inside)
			}
			if l.Contains(tt.outside) {
				t.Errorf("%v should not be contained", tt.outside)
			}
		})
	}
}

func TestPolygonAndSegmentBuiltins(t *testing.T) {
	ws := evaluateOK(t, `
; a unit square on the floor plane
(defregion "floor"
  (polygon (vec3 0 0 0) (vec3 0 0 1) (vec3 1 0 1) (vec3 1 0 0)))
(defregion "wire" (segment (vec3 0 0 0) (vec3 4 0 0) :tolerance 0.1))
`)

	floor, ok := ws.Lookup("floor").(*poly.SimplePolygon)
	if !ok {
		t.Fatalf("floor is %T, want *poly.SimplePolygon", ws.Lookup("floor"))
	}
	if floor.NumCorners() != 4 {
		t.Errorf("floor has %d corners", floor.NumCorners())
	}
	if !floor.Contains(math32.Vec3(0.5, 0, 0.5)) {
		t.Error("floor should contain its middle")
	}

	wire, ok := ws.Lookup("wire").(*locus.Segment)
	if !ok {
		t.Fatalf("wire is %T, want *locus.Segment", ws.Lookup("wire"))
	}
	if wire.Tolerance() != 0.1 {
		t.Errorf("wire tolerance = %v", wire.Tolerance())
	}
}

func TestConstructorErrorsSurfaceAsEvalErrors(t *testing.T) {
	eng := NewEngine()

	tests := []string{
		`(sphere :radius -1)`,
		`(sphere)`,
		`(hollow :inner 5 :outer 2)`,
		`(polygon (vec3 0 0 0) (vec3 1 0 0))`,
		`(defregion "" (sphere :radius 1))`,
		`(region "missing")`,
		`(vec3 1 2)`,
	}
	for _, source := range tests {
		ws, evalErrs, err := eng.Evaluate(source)
		if err != nil {
			t.Fatalf("%s: fatal error: %v", source, err)
		}
		if ws != nil {
			t.Errorf("%s: expected nil workspace", source)
		}
		if len(evalErrs) == 0 {
			t.Errorf("%s: expected an eval error", source)
		}
	}
}

func TestRegionLookupBuiltin(t *testing.T) {
	ws := evaluateOK(t, `
(defregion "a" (sphere :radius 1))
(defregion "b" (region "a"))
`)
	if ws.Count() != 2 {
		t.Fatalf("expected 2 regions, got %d", ws.Count())
	}
	if ws.Lookup("a") != ws.Lookup("b") {
		t.Error("'b' should alias the same locus as 'a'")
	}
}

func TestMergeBuiltin(t *testing.T) {
	ws := evaluateOK(t, `
(defregion "west"
  (polygon (vec3 0 0 0) (vec3 0 0 1) (vec3 1 0 1) (vec3 1 0 0)))
(defregion "east"
  (polygon (vec3 1 0 0) (vec3 1 0 1) (vec3 2 0 1) (vec3 2 0 0)))
(merge (region "west") (region "east") :as "both")
`)

	merged, ok := ws.Lookup("both").(*poly.SimplePolygon)
	if !ok {
		t.Fatalf("merged region is %T", ws.Lookup("both"))
	}
	if merged.NumCorners() != 6 {
		t.Errorf("merged polygon has %d corners, want 6", merged.NumCorners())
	}
	if !merged.Contains(math32.Vec3(1.5, 0, 0.5)) {
		t.Error("merged polygon should contain the east half")
	}
}

func TestMergeBuiltinRejectsShells(t *testing.T) {
	eng := NewEngine()
	ws, evalErrs, err := eng.Evaluate(`
(defregion "a" (sphere :radius 1))
(defregion "b" (sphere :center (vec3 3 0 0) :radius 1))
(merge (region "a") (region "b"))
`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if ws != nil {
		t.Error("expected nil workspace")
	}
	if len(evalErrs) == 0 {
		t.Error("merging shells should produce an eval error")
	}
}

func TestQueryBuiltinsEvaluate(t *testing.T) {
	// Query results flow back into the script; evaluating without errors is
	// the contract under test, with the workspace confirming the data they
	// ran against.
	ws := evaluateOK(t, `
(defregion "zone" (sphere :center (vec3 0 0 0) :radius 5))
(def inside (contains (region "zone") (vec3 1 0 0)))
(def spot (nearest (region "zone") (vec3 9 0 0)))
(def mid (centroid (region "zone")))
(def anchor (rep (region "zone")))
(def fit (score (region "zone") (vec3 1 0 0)))
(def ok (convex (region "zone")))

(defregion "floor"
  (polygon (vec3 0 0 0) (vec3 0 0 2) (vec3 2 0 2) (vec3 2 0 0)))
(def a (area (region "floor")))
(def p (perimeter (region "floor")))
(def route (path (region "floor") (vec3 0.5 0 0.5) (vec3 1.5 0 1.5) :max 3))
`)
	if ws.Count() != 2 {
		t.Errorf("expected 2 regions, got %d", ws.Count())
	}
}

func TestAreaRejectsNonPolygon(t *testing.T) {
	eng := NewEngine()
	ws, evalErrs, err := eng.Evaluate(`(area (sphere :radius 1))`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if ws != nil || len(evalErrs) == 0 {
		t.Error("area of a shell should produce an eval error")
	}
}
