package poly

import (
	"testing"

	"cogentcore.org/core/math32"
)

func mustGeneric(t *testing.T, corners []math32.Vector3, tol float32) *GenericPolygon {
	t.Helper()
	g, err := NewGeneric(corners, tol)
	if err != nil {
		t.Fatalf("NewGeneric: %v", err)
	}
	return g
}

func TestIsSelfIntersecting(t *testing.T) {
	tests := []struct {
		name    string
		corners []math32.Vector3
		want    bool
	}{
		{
			name:    "square",
			corners: unitSquare(),
			want:    false,
		},
		{
			name: "bowtie",
			corners: []math32.Vector3{
				vec(0, 0, 0), vec(1, 0, 1), vec(1, 0, 0), vec(0, 0, 1),
			},
			want: true,
		},
		{
			name: "pentagram",
			corners: []math32.Vector3{
				vec(0, 0, 1),
				vec(0.588, 0, -0.809),
				vec(-0.951, 0, 0.309),
				vec(0.951, 0, 0.309),
				vec(-0.588, 0, -0.809),
			},
			want: true,
		},
		{
			name: "concave but simple",
			corners: []math32.Vector3{
				vec(0, 0, 0), vec(4, 0, 0), vec(4, 0, 4), vec(2, 0, 1), vec(0, 0, 4),
			},
			want: false,
		},
		{
			name: "non-planar skew quad",
			corners: []math32.Vector3{
				vec(0, 0, 0), vec(1, 0, 0), vec(1, 1, 1), vec(0, 1, 0),
			},
			want: false,
		},
		{
			name: "collinear spike retraces a side",
			corners: []math32.Vector3{
				vec(0, 0, 0), vec(4, 0, 0), vec(4, 0, 4), vec(4, 0, 1), vec(0, 0, 1),
			},
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGeneric(t, tt.corners, 1e-4)
			if got := g.IsSelfIntersecting(); got != tt.want {
				t.Errorf("IsSelfIntersecting() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSegmentsIntersect(t *testing.T) {
	tests := []struct {
		name           string
		a1, b1, a2, b2 math32.Vector3
		want           bool
	}{
		{
			name: "crossing at the middle",
			a1:   vec(0, 0, 0), b1: vec(2, 0, 2),
			a2: vec(0, 0, 2), b2: vec(2, 0, 0),
			want: true,
		},
		{
			name: "sharing one corner only",
			a1:   vec(0, 0, 0), b1: vec(1, 0, 0),
			a2: vec(1, 0, 0), b2: vec(1, 0, 1),
			want: false,
		},
		{
			name: "sharing both corners",
			a1:   vec(0, 0, 0), b1: vec(1, 0, 0),
			a2: vec(1, 0, 0), b2: vec(0, 0, 0),
			want: true,
		},
		{
			name: "parallel and apart",
			a1:   vec(0, 0, 0), b1: vec(1, 0, 0),
			a2: vec(0, 0, 1), b2: vec(1, 0, 1),
			want: false,
		},
		{
			name: "collinear overlapping",
			a1:   vec(0, 0, 0), b1: vec(2, 0, 0),
			a2: vec(1, 0, 0), b2: vec(3, 0, 0),
			want: true,
		},
		{
			name: "collinear continuation",
			a1:   vec(0, 0, 0), b1: vec(1, 0, 0),
			a2: vec(1, 0, 0), b2: vec(2, 0, 0),
			want: false,
		},
		{
			name: "skew lines passing near but apart",
			a1:   vec(0, 0, 0), b1: vec(2, 0, 0),
			a2: vec(1, 1, -1), b2: vec(1, 1, 1),
			want: false,
		},
		{
			name: "crossing beyond segment ends",
			a1:   vec(0, 0, 0), b1: vec(1, 0, 0),
			a2: vec(5, 0, -1), b2: vec(5, 0, 1),
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := segmentsIntersect(tt.a1, tt.b1, tt.a2, tt.b2, 1e-4)
			if got != tt.want {
				t.Errorf("segmentsIntersect = %v, want %v", got, tt.want)
			}
			// The test is symmetric in its two segments.
			if sym := segmentsIntersect(tt.a2, tt.b2, tt.a1, tt.b1, 1e-4); sym != got {
				t.Errorf("asymmetric result: %v vs %v", got, sym)
			}
		})
	}
}

func TestIntersectionWithPerimeter(t *testing.T) {
	g := mustGeneric(t, unitSquare(), 1e-4)

	// Straight through the middle: crosses side 0 (x=0 edge) first.
	x, ok := g.IntersectionWithPerimeter(vec(-1, 0, 0.5), vec(2, 0, 0.5))
	if !ok {
		t.Fatal("expected a perimeter crossing")
	}
	if !vecNear(x, vec(0, 0, 0.5), 1e-3) {
		t.Errorf("crossing = %v, want (0, 0, 0.5)", x)
	}

	// A segment through a corner reports the corner itself.
	x, ok = g.IntersectionWithPerimeter(vec(-1, 0, -1), vec(1, 0, 1))
	if !ok {
		t.Fatal("expected a corner hit")
	}
	if !vecNear(x, vec(0, 0, 0), 1e-4) {
		t.Errorf("crossing = %v, want the (0,0,0) corner", x)
	}

	// Fully outside.
	if _, ok := g.IntersectionWithPerimeter(vec(5, 0, 5), vec(6, 0, 5)); ok {
		t.Error("disjoint segment should not cross the perimeter")
	}

	// Fully inside.
	if _, ok := g.IntersectionWithPerimeter(vec(0.4, 0, 0.5), vec(0.6, 0, 0.5)); ok {
		t.Error("interior segment should not cross the perimeter")
	}
}
