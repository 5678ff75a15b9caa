package sdfx

import (
	"strings"
	"testing"

	"cogentcore.org/core/math32"

	"github.com/chazu/locus/pkg/locus"
	"github.com/chazu/locus/pkg/poly"
)

func TestMeshSphere(t *testing.T) {
	sphere, err := locus.NewSphere(math32.Vec3(0, 0, 0), 1)
	if err != nil {
		t.Fatalf("NewSphere: %v", err)
	}

	m, err := New().WithCells(32).Mesh(sphere, "ball")
	if err != nil {
		t.Fatalf("Mesh: %v", err)
	}
	if m.IsEmpty() {
		t.Fatal("sphere meshed to an empty mesh")
	}
	if m.Region != "ball" {
		t.Errorf("Region = %q, want %q", m.Region, "ball")
	}
	if len(m.Vertices)%9 != 0 {
		t.Errorf("vertex array length %d is not a whole number of triangles", len(m.Vertices))
	}
	if len(m.Normals) != len(m.Vertices) {
		t.Errorf("normals length %d != vertices length %d", len(m.Normals), len(m.Vertices))
	}
	if len(m.Indices) != m.VertexCount() {
		t.Errorf("indices length %d != vertex count %d", len(m.Indices), m.VertexCount())
	}

	// Every vertex of a unit sphere mesh stays near the unit ball.
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		v := math32.Vec3(m.Vertices[i], m.Vertices[i+1], m.Vertices[i+2])
		if v.Length() > 1.5 {
			t.Fatalf("vertex %v is far outside the unit sphere", v)
		}
	}
}

func TestMeshPolygonUsesSkin(t *testing.T) {
	// A flat polygon has no signed distance, so the kernel inflates it.
	sq, err := poly.NewSimple([]math32.Vector3{
		math32.Vec3(0, 0, 0),
		math32.Vec3(0, 0, 1),
		math32.Vec3(1, 0, 1),
		math32.Vec3(1, 0, 0),
	}, 1e-4)
	if err != nil {
		t.Fatalf("NewSimple: %v", err)
	}
	m, err := New().WithCells(32).WithSkin(0.1).Mesh(sq, "floor")
	if err != nil {
		t.Fatalf("Mesh: %v", err)
	}
	if m.IsEmpty() {
		t.Fatal("inflated polygon meshed to an empty mesh")
	}
}

func TestMeshRejectsUnbounded(t *testing.T) {
	cyl, err := locus.NewCylinder(math32.Vec3(0, 0, 0), math32.Vec3(0, 0, 1), 1)
	if err != nil {
		t.Fatalf("NewCylinder: %v", err)
	}
	if _, err := New().Mesh(cyl, "pipe"); err == nil {
		t.Fatal("expected an error meshing an unbounded cylinder")
	} else if !strings.Contains(err.Error(), "unbounded") {
		t.Errorf("error %q does not mention unboundedness", err)
	}
}
