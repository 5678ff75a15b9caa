// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library: a locus is wrapped as a
// signed distance field and tessellated by marching cubes.
package sdfx

import (
	"fmt"

	"cogentcore.org/core/math32"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/locus/pkg/kernel"
	"github.com/chazu/locus/pkg/locus"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

// signedDistancer is implemented by loci that can report a signed boundary
// measure directly (negative inside). Loci without one are rendered as a
// thin skin around their surface instead.
type signedDistancer interface {
	SignedDistance(p math32.Vector3) float32
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
	skin  float32
}

// New returns an SdfxKernel at the default resolution.
func New() *SdfxKernel {
	return &SdfxKernel{cells: defaultMeshCells}
}

// WithCells sets the marching cubes resolution and returns the kernel.
func (k *SdfxKernel) WithCells(cells int) *SdfxKernel {
	k.cells = cells
	return k
}

// WithSkin sets the inflation radius used for loci without a signed distance
// (polygons, segments) and returns the kernel. Zero picks a default scaled
// to the locus bounds.
func (k *SdfxKernel) WithSkin(skin float32) *SdfxKernel {
	k.skin = skin
	return k
}

// locusSDF wraps a locus.Locus as an sdf.SDF3.
type locusSDF struct {
	l    locus.Locus
	sd   signedDistancer // nil when the locus has no signed measure
	skin float64
	bb   sdf.Box3
}

// Evaluate returns a signed distance estimate: the locus's own signed
// measure when it has one, else the distance to the locus minus the skin
// radius, which inflates flat loci into thin solids.
func (s *locusSDF) Evaluate(p v3.Vec) float64 {
	q := math32.Vec3(float32(p.X), float32(p.Y), float32(p.Z))
	if s.sd != nil {
		return float64(s.sd.SignedDistance(q))
	}
	d := float64(q.Sub(s.l.Nearest(q)).Length())
	return d - s.skin
}

// BoundingBox returns the axis-aligned bounding box of the field.
func (s *locusSDF) BoundingBox() sdf.Box3 {
	return s.bb
}

// Mesh converts a bounded locus to a triangle mesh using marching cubes.
func (k *SdfxKernel) Mesh(l locus.Locus, name string) (*kernel.Mesh, error) {
	if !kernel.IsBounded(l) {
		return nil, fmt.Errorf("sdfx: region %q is unbounded and cannot be meshed", name)
	}
	b := l.Bounds()
	size := b.Size()
	diag := size.Length()
	if diag == 0 {
		return nil, fmt.Errorf("sdfx: region %q has zero extent", name)
	}

	skin := k.skin
	field := &locusSDF{l: l, skin: float64(skin)}
	if sd, ok := l.(signedDistancer); ok {
		field.sd = sd
	} else if skin == 0 {
		// Default skin: thick enough for marching cubes to see at the
		// kernel's resolution.
		field.skin = float64(diag) / float64(k.cells) * 2
		skin = float32(field.skin)
	}

	// Expand the box so the zero isosurface never touches its faces.
	margin := math32.Max(skin*2, diag*0.05)
	field.bb = sdf.Box3{
		Min: v3.Vec{X: float64(b.Min.X - margin), Y: float64(b.Min.Y - margin), Z: float64(b.Min.Z - margin)},
		Max: v3.Vec{X: float64(b.Max.X + margin), Y: float64(b.Max.Y + margin), Z: float64(b.Max.Z + margin)},
	}

	renderer := render.NewMarchingCubesUniform(k.cells)
	triangles := render.ToTriangles(field, renderer)

	numVerts := len(triangles) * 3
	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
		Region:   name,
	}, nil
}
