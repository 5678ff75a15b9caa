// Package locus defines regions of 3-D space and the queries they support.
// A Locus answers containment, nearest-point, centroid, and path questions
// without any reference to rendering or scene state; concrete implementations
// are Shell (metric-bounded regions), Segment, and poly.SimplePolygon.
package locus

import (
	"errors"

	"cogentcore.org/core/math32"
)

// ErrUnsupported is returned by operations a particular Locus variant does
// not implement, such as ShortestPath on a non-convex shell. It is distinct
// from a "no result" outcome, which is reported as a nil result without error.
var ErrUnsupported = errors.New("locus: operation not supported")

// Locus is a region of 3-D space. All implementations are immutable after
// construction, so a Locus may be queried concurrently without locking.
type Locus interface {
	// Contains reports whether the point lies in the region, boundary included.
	Contains(p math32.Vector3) bool

	// Nearest returns the contained point nearest to p. If p is already
	// contained it is returned unchanged. For some variants the result is a
	// documented approximation rather than the exact nearest point.
	Nearest(p math32.Vector3) math32.Vector3

	// Centroid returns the region's centroid, which need not be contained.
	Centroid() math32.Vector3

	// Rep returns a representative point guaranteed to be contained.
	Rep() math32.Vector3

	// Score rates how well p fits the region; higher is better. It is a
	// heuristic for optimization and need not be a metric.
	Score(p math32.Vector3) float32

	// ShortestPath finds a polyline from one contained point to another,
	// staying inside the region, using at most maxPoints control points
	// including the endpoints. A nil path with a nil error means no path was
	// found within the search budget. Variants that cannot search return
	// ErrUnsupported.
	ShortestPath(from, to math32.Vector3, maxPoints int) ([]math32.Vector3, error)

	// CanMerge reports whether Merge(other) can produce a combined region.
	CanMerge(other Locus) bool

	// Merge combines this region with an adjacent one into a single Locus.
	Merge(other Locus) (Locus, error)

	// SupportDistance returns the vertical distance from p down to the first
	// point of support, or positive infinity if the region cannot support p
	// (too steep, out of footprint, or above p). Variants without a support
	// surface return ErrUnsupported.
	SupportDistance(p math32.Vector3, cosineTolerance float32) (float32, error)

	// Bounds returns an axis-aligned bounding box of the region. Unbounded
	// regions report infinite extents on the unbounded axes.
	Bounds() math32.Box3
}
