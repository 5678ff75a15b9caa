// Package kernel defines the abstract meshing kernel interface.
// Implementations (sdfx) turn a bounded locus into a triangle mesh behind
// this interface, so the rest of the system never depends on a particular
// tessellation library.
package kernel

import (
	"cogentcore.org/core/math32"

	"github.com/chazu/locus/pkg/locus"
)

// Kernel turns a bounded locus into a triangle mesh. Implementations must
// reject unbounded loci (holes, infinite cylinders and slabs) with an error.
type Kernel interface {
	Mesh(l locus.Locus, name string) (*Mesh, error)
}

// IsBounded reports whether the locus has finite extent on every axis and
// can therefore be meshed.
func IsBounded(l locus.Locus) bool {
	b := l.Bounds()
	for _, c := range []float32{b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z} {
		if math32.IsInf(c, 0) || math32.IsNaN(c) {
			return false
		}
	}
	return true
}
