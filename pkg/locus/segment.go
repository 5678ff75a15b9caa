package locus

import (
	"fmt"

	"cogentcore.org/core/math32"
)

// Segment is a straight line segment between two corners: the degenerate
// 1-D locus. Points within the comparison tolerance of the segment are
// considered contained.
type Segment struct {
	corners [2]math32.Vector3
	tol     float32
	tolSq   float32
}

// Compile-time interface check.
var _ Locus = (*Segment)(nil)

// NewSegment returns a segment between a and b. The tolerance is the maximum
// distance at which two points are treated as coincident; it must be finite
// and non-negative.
func NewSegment(a, b math32.Vector3, tolerance float32) (*Segment, error) {
	if tolerance < 0 || math32.IsNaN(tolerance) || math32.IsInf(tolerance, 1) {
		return nil, fmt.Errorf("locus: segment tolerance must be finite and non-negative, got %v", tolerance)
	}
	return &Segment{
		corners: [2]math32.Vector3{a, b},
		tol:     tolerance,
		tolSq:   tolerance * tolerance,
	}, nil
}

// Corner returns the corner with the given index (0 or 1).
func (s *Segment) Corner(i int) math32.Vector3 {
	return s.corners[i]
}

// Tolerance returns the coincidence tolerance.
func (s *Segment) Tolerance() float32 { return s.tol }

// SquaredDistance returns the squared distance from p to the segment and the
// closest point on the segment. A degenerate segment (coincident corners)
// reports the distance to its first corner.
func (s *Segment) SquaredDistance(p math32.Vector3) (float32, math32.Vector3) {
	dir := s.corners[1].Sub(s.corners[0])
	lenSq := dir.LengthSquared()
	if lenSq == 0 {
		return p.Sub(s.corners[0]).LengthSquared(), s.corners[0]
	}
	t := p.Sub(s.corners[0]).Dot(dir) / lenSq
	t = math32.Clamp(t, 0, 1)
	closest := s.corners[0].Add(dir.MulScalar(t))
	return p.Sub(closest).LengthSquared(), closest
}

// SharesCornerWith finds corners coincident between the two segments, using
// the average of the two tolerances for comparison. The result maps corner
// indexes of s to the matching corner indexes of other; it is empty when no
// corners coincide.
func (s *Segment) SharesCornerWith(other *Segment) map[int]int {
	avg := (s.tol + other.tol) / 2
	avgSq := avg * avg
	shared := make(map[int]int)
	for i := range s.corners {
		for j := range other.corners {
			if s.corners[i].Sub(other.corners[j]).LengthSquared() <= avgSq {
				shared[i] = j
			}
		}
	}
	return shared
}

// Contains reports whether p is within tolerance of the segment.
func (s *Segment) Contains(p math32.Vector3) bool {
	dSq, _ := s.SquaredDistance(p)
	return dSq <= s.tolSq
}

// Nearest returns p unchanged if contained, else the closest point on the
// segment.
func (s *Segment) Nearest(p math32.Vector3) math32.Vector3 {
	dSq, closest := s.SquaredDistance(p)
	if dSq <= s.tolSq {
		return p
	}
	return closest
}

// Centroid returns the midpoint of the segment.
func (s *Segment) Centroid() math32.Vector3 {
	return s.corners[0].Add(s.corners[1]).MulScalar(0.5)
}

// Rep returns the midpoint, which is always contained.
func (s *Segment) Rep() math32.Vector3 { return s.Centroid() }

// Score rates p by its negated squared distance to the segment.
func (s *Segment) Score(p math32.Vector3) float32 {
	dSq, _ := s.SquaredDistance(p)
	return -dSq
}

// ShortestPath connects two contained points with a straight polyline.
func (s *Segment) ShortestPath(from, to math32.Vector3, maxPoints int) ([]math32.Vector3, error) {
	if !s.Contains(from) {
		return nil, fmt.Errorf("locus: path start %v not contained in segment", from)
	}
	if !s.Contains(to) {
		return nil, fmt.Errorf("locus: path goal %v not contained in segment", to)
	}
	if maxPoints < 2 {
		return nil, nil
	}
	return []math32.Vector3{from, to}, nil
}

// CanMerge always reports false: segments do not merge.
func (s *Segment) CanMerge(other Locus) bool { return false }

// Merge is not supported for segments.
func (s *Segment) Merge(other Locus) (Locus, error) {
	return nil, ErrUnsupported
}

// SupportDistance is not supported: a segment cannot support anything.
func (s *Segment) SupportDistance(p math32.Vector3, cosineTolerance float32) (float32, error) {
	return 0, ErrUnsupported
}

// Bounds returns the segment's bounding box, expanded by the tolerance.
func (s *Segment) Bounds() math32.Box3 {
	b := math32.B3Empty()
	b.ExpandByPoint(s.corners[0])
	b.ExpandByPoint(s.corners[1])
	b.ExpandByScalar(s.tol)
	return b
}

// String describes the segment for diagnostics.
func (s *Segment) String() string {
	return fmt.Sprintf("segment(%v -> %v)", s.corners[0], s.corners[1])
}
