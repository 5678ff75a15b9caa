package poly

import (
	"cogentcore.org/core/math32"
)

// GenericPolygon is a polygon that additionally knows whether any two of its
// non-adjacent sides cross. It places no planarity requirement on its
// corners.
type GenericPolygon struct {
	Polygon
	selfIntersecting bool
}

// NewGeneric returns a polygon with its self-intersection flag computed.
func NewGeneric(corners []math32.Vector3, tolerance float32) (*GenericPolygon, error) {
	base, err := NewPolygon(corners, tolerance)
	if err != nil {
		return nil, err
	}
	g := &GenericPolygon{Polygon: *base}
	g.selfIntersecting = g.computeSelfIntersecting()
	return g, nil
}

// IsSelfIntersecting reports whether any two sides intersect somewhere other
// than a shared corner.
func (g *GenericPolygon) IsSelfIntersecting() bool { return g.selfIntersecting }

// computeSelfIntersecting tests every pair of sides. Sides that merely touch
// at a shared corner do not count; collinear overlapping sides do.
func (g *GenericPolygon) computeSelfIntersecting() bool {
	n := len(g.corners)
	for i := 0; i < n-1; i++ {
		a1 := g.corners[i]
		b1 := g.corners[g.NextIndex(i)]
		for j := i + 1; j < n; j++ {
			a2 := g.corners[j]
			b2 := g.corners[g.NextIndex(j)]
			if segmentsIntersect(a1, b1, a2, b2, g.tol) {
				return true
			}
		}
	}
	return false
}

// segmentsIntersect reports whether the segments a1-b1 and a2-b2 intersect
// anywhere other than a single shared corner. The cases, in order: segments
// sharing both corners coincide; parallel segments intersect only if they are
// collinear and overlap; non-parallel segments sharing one corner touch there
// and nowhere else; otherwise the closest points of the two carrier lines
// must coincide within tolerance and fall inside both segments.
func segmentsIntersect(a1, b1, a2, b2 math32.Vector3, tol float32) bool {
	tolSq := tol * tol
	shared := 0
	if a1.Sub(a2).LengthSquared() <= tolSq || a1.Sub(b2).LengthSquared() <= tolSq {
		shared++
	}
	if b1.Sub(a2).LengthSquared() <= tolSq || b1.Sub(b2).LengthSquared() <= tolSq {
		shared++
	}
	if shared >= 2 {
		return true
	}

	dir1 := b1.Sub(a1)
	dir2 := b2.Sub(a2)
	if dir1.Cross(dir2).LengthSquared() <= tolSq {
		return collinearOverlap(a1, b1, a2, b2, dir1, tol)
	}
	if shared == 1 {
		return false
	}

	// Closest points on the two carrier lines, by the standard two-line
	// formula.
	w := a1.Sub(a2)
	a := dir1.Dot(dir1)
	b := dir1.Dot(dir2)
	c := dir2.Dot(dir2)
	d := dir1.Dot(w)
	e := dir2.Dot(w)
	denom := a*c - b*b
	if denom <= 0 {
		// Numerically parallel despite the cross-product test.
		return collinearOverlap(a1, b1, a2, b2, dir1, tol)
	}
	t1 := (b*e - c*d) / denom
	t2 := (a*e - b*d) / denom
	p1 := a1.Add(dir1.MulScalar(t1))
	p2 := a2.Add(dir2.MulScalar(t2))
	if p1.Sub(p2).LengthSquared() > tolSq {
		return false
	}
	// Parameter fuzz scales with segment length so the tolerance stays a
	// distance, not a fraction.
	fuzz1 := paramFuzz(tol, a)
	fuzz2 := paramFuzz(tol, c)
	return t1 >= -fuzz1 && t1 <= 1+fuzz1 && t2 >= -fuzz2 && t2 <= 1+fuzz2
}

// paramFuzz converts a distance tolerance into a parametric slack for a
// segment with the given squared length.
func paramFuzz(tol, lenSq float32) float32 {
	if lenSq == 0 {
		return 0
	}
	return tol / math32.Sqrt(lenSq)
}

// collinearOverlap reports whether two parallel segments lie on the same line
// and overlap along it. dir is the direction of the first segment; if it is
// degenerate the second segment's direction is used.
func collinearOverlap(a1, b1, a2, b2, dir math32.Vector3, tol float32) bool {
	tolSq := tol * tol
	lenSq := dir.LengthSquared()
	if lenSq == 0 {
		dir = b2.Sub(a2)
		lenSq = dir.LengthSquared()
		if lenSq == 0 {
			// Both segments are points.
			return a1.Sub(a2).LengthSquared() <= tolSq
		}
	}
	// All four endpoints must lie on the shared carrier line.
	for _, p := range []math32.Vector3{a2, b2} {
		off := p.Sub(a1)
		if off.Cross(dir).LengthSquared() > tolSq*lenSq {
			return false
		}
	}
	// Compare positions along the line from the extreme corner a1.
	length := math32.Sqrt(lenSq)
	lo1, hi1 := float32(0), length
	u2 := b2.Sub(a1).Dot(dir) / length
	u1 := a2.Sub(a1).Dot(dir) / length
	lo2, hi2 := math32.Min(u1, u2), math32.Max(u1, u2)
	// Touching end to end within tolerance is not an overlap: a straight
	// continuation through a shared corner must not read as a crossing.
	return math32.Min(hi1, hi2)-math32.Max(lo1, lo2) > tol
}

// IntersectionWithPerimeter returns a point where the segment from start to
// end crosses the polygon's perimeter. Corners are preferred as the cleaner
// answer and checked first; side crossings follow in index order. ok is false
// when the segment never meets the perimeter.
func (g *GenericPolygon) IntersectionWithPerimeter(start, end math32.Vector3) (math32.Vector3, bool) {
	for _, c := range g.corners {
		if pointOnSegment(c, start, end, g.tolSq) {
			return c, true
		}
	}
	for i := range g.corners {
		a := g.corners[i]
		b := g.corners[g.NextIndex(i)]
		if x, ok := segmentCrossing(start, end, a, b, g.tol); ok {
			return x, true
		}
	}
	return math32.Vector3{}, false
}

// pointOnSegment reports whether p lies within tolSq of the segment a-b.
func pointOnSegment(p, a, b math32.Vector3, tolSq float32) bool {
	dir := b.Sub(a)
	lenSq := dir.LengthSquared()
	if lenSq == 0 {
		return p.Sub(a).LengthSquared() <= tolSq
	}
	t := math32.Clamp(p.Sub(a).Dot(dir)/lenSq, 0, 1)
	return p.Sub(a.Add(dir.MulScalar(t))).LengthSquared() <= tolSq
}

// segmentCrossing returns the point where two segments cross, if they do.
// Collinear overlapping segments report whichever endpoint of the second
// segment lies inside the first.
func segmentCrossing(a1, b1, a2, b2 math32.Vector3, tol float32) (math32.Vector3, bool) {
	tolSq := tol * tol
	dir1 := b1.Sub(a1)
	dir2 := b2.Sub(a2)

	if dir1.Cross(dir2).LengthSquared() <= tolSq {
		if !collinearOverlap(a1, b1, a2, b2, dir1, tol) {
			return math32.Vector3{}, false
		}
		for _, p := range []math32.Vector3{a2, b2, a1, b1} {
			if pointOnSegment(p, a1, b1, tolSq) && pointOnSegment(p, a2, b2, tolSq) {
				return p, true
			}
		}
		return math32.Vector3{}, false
	}

	w := a1.Sub(a2)
	a := dir1.Dot(dir1)
	b := dir1.Dot(dir2)
	c := dir2.Dot(dir2)
	d := dir1.Dot(w)
	e := dir2.Dot(w)
	denom := a*c - b*b
	if denom <= 0 {
		return math32.Vector3{}, false
	}
	t1 := (b*e - c*d) / denom
	t2 := (a*e - b*d) / denom
	p1 := a1.Add(dir1.MulScalar(t1))
	p2 := a2.Add(dir2.MulScalar(t2))
	if p1.Sub(p2).LengthSquared() > tolSq {
		return math32.Vector3{}, false
	}
	fuzz1 := paramFuzz(tol, a)
	fuzz2 := paramFuzz(tol, c)
	if t1 < -fuzz1 || t1 > 1+fuzz1 || t2 < -fuzz2 || t2 > 1+fuzz2 {
		return math32.Vector3{}, false
	}
	return p1.Add(p2).MulScalar(0.5), true
}
