package kernel

import (
	"testing"

	"cogentcore.org/core/math32"

	"github.com/chazu/locus/pkg/locus"
)

func TestIsBounded(t *testing.T) {
	sphere, err := locus.NewSphere(math32.Vec3(1, 2, 3), 2)
	if err != nil {
		t.Fatalf("NewSphere: %v", err)
	}
	cylinder, err := locus.NewCylinder(math32.Vec3(0, 0, 0), math32.Vec3(0, 0, 1), 1)
	if err != nil {
		t.Fatalf("NewCylinder: %v", err)
	}
	slab, err := locus.NewSlab(math32.Vec3(0, 0, 0), math32.Vec3(0, 1, 0), 0.5)
	if err != nil {
		t.Fatalf("NewSlab: %v", err)
	}
	hole, err := locus.NewHollow(math32.Vec3(0, 0, 0), 1, math32.Inf(1))
	if err != nil {
		t.Fatalf("NewHollow: %v", err)
	}

	tests := []struct {
		name string
		l    locus.Locus
		want bool
	}{
		{"sphere", sphere, true},
		{"cylinder", cylinder, false},
		{"slab", slab, false},
		{"hole", hole, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBounded(tt.l); got != tt.want {
				t.Errorf("IsBounded(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestMeshCounts(t *testing.T) {
	m := &Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals:  []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		Indices:  []uint32{0, 1, 2},
		Region:   "tri",
	}
	if got := m.VertexCount(); got != 3 {
		t.Errorf("VertexCount = %d, want 3", got)
	}
	if got := m.TriangleCount(); got != 1 {
		t.Errorf("TriangleCount = %d, want 1", got)
	}
	if m.IsEmpty() {
		t.Error("IsEmpty = true for non-empty mesh")
	}

	empty := &Mesh{Region: "nothing"}
	if !empty.IsEmpty() {
		t.Error("IsEmpty = false for empty mesh")
	}
	if empty.VertexCount() != 0 || empty.TriangleCount() != 0 {
		t.Error("empty mesh reported non-zero counts")
	}
}
