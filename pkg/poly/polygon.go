// Package poly implements planar polygon geometry: a base Polygon with
// degeneracy detection and side/corner queries, a GenericPolygon that adds
// self-intersection testing, and a SimplePolygon that is validated planar and
// non-self-intersecting and therefore has a well-defined interior.
//
// All polygon types are immutable after construction: every derived quantity
// is computed eagerly by the constructor, so values may be shared across
// goroutines freely.
package poly

import (
	"fmt"

	"cogentcore.org/core/math32"
)

// Polygon is an ordered, cyclic sequence of corners with a shared comparison
// tolerance. Corner i connects to corner i+1 (wrapping) to form side i.
// A Polygon makes no promises about planarity or self-intersection; see
// GenericPolygon and SimplePolygon for stronger guarantees.
type Polygon struct {
	corners []math32.Vector3
	tol     float32
	tolSq   float32

	// Per-corner products of the two adjacent side vectors, both taken in
	// winding order (prev->this and this->next).
	dots    []float32
	crosses []math32.Vector3

	degenerate bool
}

// NewPolygon returns a polygon over a defensive copy of the given corners.
// The tolerance is the maximum distance at which two points are treated as
// coincident; it must be finite and non-negative. Any corner count is
// accepted; polygons with fewer than three corners are degenerate.
func NewPolygon(corners []math32.Vector3, tolerance float32) (*Polygon, error) {
	if tolerance < 0 || math32.IsNaN(tolerance) || math32.IsInf(tolerance, 1) {
		return nil, fmt.Errorf("poly: tolerance must be finite and non-negative, got %v", tolerance)
	}
	p := &Polygon{
		corners: append([]math32.Vector3(nil), corners...),
		tol:     tolerance,
		tolSq:   tolerance * tolerance,
	}
	p.computeProducts()
	p.degenerate = p.computeDegenerate()
	return p, nil
}

// computeProducts fills the per-corner dot and cross product caches.
func (p *Polygon) computeProducts() {
	n := len(p.corners)
	p.dots = make([]float32, n)
	p.crosses = make([]math32.Vector3, n)
	if n < 2 {
		return
	}
	for i := range p.corners {
		a := p.corners[p.PrevIndex(i)]
		b := p.corners[i]
		c := p.corners[p.NextIndex(i)]
		in := b.Sub(a)
		out := c.Sub(b)
		p.dots[i] = in.Dot(out)
		p.crosses[i] = in.Cross(out)
	}
}

// computeDegenerate applies the three degeneracy tests in order of cost:
// corner count, pairwise coincidence, and 180-degree turns.
func (p *Polygon) computeDegenerate() bool {
	n := len(p.corners)
	if n < 3 {
		return true
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if p.corners[i].Sub(p.corners[j]).LengthSquared() <= p.tolSq {
				return true
			}
		}
	}
	for i := 0; i < n; i++ {
		in := p.corners[i].Sub(p.corners[p.PrevIndex(i)])
		out := p.corners[p.NextIndex(i)].Sub(p.corners[i])
		lenProd := math32.Sqrt(in.LengthSquared() * out.LengthSquared())
		// A dot product at (or within slack of) -|in||out| means the sides
		// double back through the corner.
		if p.dots[i] <= -lenProd+p.tolSq {
			return true
		}
	}
	return false
}

// NumCorners returns the number of corners, fixed at construction.
func (p *Polygon) NumCorners() int { return len(p.corners) }

// Corner returns the corner with the given index.
func (p *Polygon) Corner(i int) math32.Vector3 {
	p.checkIndex(i)
	return p.corners[i]
}

// Corners returns a copy of the corner list in winding order.
func (p *Polygon) Corners() []math32.Vector3 {
	return append([]math32.Vector3(nil), p.corners...)
}

// Tolerance returns the coincidence tolerance.
func (p *Polygon) Tolerance() float32 { return p.tol }

// IsDegenerate reports whether the polygon has fewer than three corners,
// coincident corners, or a 180-degree turn.
func (p *Polygon) IsDegenerate() bool { return p.degenerate }

// NextIndex returns the cyclic successor of a corner or side index.
func (p *Polygon) NextIndex(i int) int {
	p.checkIndex(i)
	return (i + 1) % len(p.corners)
}

// PrevIndex returns the cyclic predecessor of a corner or side index.
func (p *Polygon) PrevIndex(i int) int {
	p.checkIndex(i)
	return (i + len(p.corners) - 1) % len(p.corners)
}

// DotProduct returns the dot product of the two side vectors adjacent to the
// corner, both taken in winding order.
func (p *Polygon) DotProduct(i int) float32 {
	p.checkIndex(i)
	return p.dots[i]
}

// CrossProduct returns the cross product of the two side vectors adjacent to
// the corner, both taken in winding order.
func (p *Polygon) CrossProduct(i int) math32.Vector3 {
	p.checkIndex(i)
	return p.crosses[i]
}

// AbsTurnAngle returns the magnitude of the direction change at the corner,
// in [0, pi]. If either adjacent side has zero length the turn is undefined
// and NaN is returned; callers must check.
func (p *Polygon) AbsTurnAngle(i int) float32 {
	p.checkIndex(i)
	in := p.corners[i].Sub(p.corners[p.PrevIndex(i)])
	out := p.corners[p.NextIndex(i)].Sub(p.corners[i])
	lenProdSq := in.LengthSquared() * out.LengthSquared()
	if lenProdSq == 0 {
		return math32.NaN()
	}
	cos := p.dots[i] / math32.Sqrt(lenProdSq)
	return math32.Acos(math32.Clamp(cos, -1, 1))
}

// SideLength returns the length of the side from corner i to its successor.
func (p *Polygon) SideLength(i int) float32 {
	p.checkIndex(i)
	return p.corners[p.NextIndex(i)].Sub(p.corners[i]).Length()
}

// Midpoint returns the midpoint of the given side.
func (p *Polygon) Midpoint(side int) math32.Vector3 {
	p.checkIndex(side)
	return p.corners[side].Add(p.corners[p.NextIndex(side)]).MulScalar(0.5)
}

// Perimeter returns the total length of all sides.
func (p *Polygon) Perimeter() float32 {
	var sum float32
	for i := range p.corners {
		sum += p.SideLength(i)
	}
	return sum
}

// FindLongest returns the index of the longest side, or -1 for a polygon
// with no corners.
func (p *Polygon) FindLongest() int {
	best := -1
	var bestSq float32 = -1
	for i := range p.corners {
		sq := p.corners[p.NextIndex(i)].Sub(p.corners[i]).LengthSquared()
		if sq > bestSq {
			best, bestSq = i, sq
		}
	}
	return best
}

// FindShortest returns the index of the shortest side, or -1 for a polygon
// with no corners.
func (p *Polygon) FindShortest() int {
	best := -1
	bestSq := math32.Inf(1)
	for i := range p.corners {
		sq := p.corners[p.NextIndex(i)].Sub(p.corners[i]).LengthSquared()
		if sq < bestSq {
			best, bestSq = i, sq
		}
	}
	return best
}

// sideNearest returns the squared distance from p to side i and the closest
// point on that side, found by clamped projection.
func (p *Polygon) sideNearest(i int, point math32.Vector3) (float32, math32.Vector3) {
	a := p.corners[i]
	dir := p.corners[p.NextIndex(i)].Sub(a)
	lenSq := dir.LengthSquared()
	if lenSq == 0 {
		return point.Sub(a).LengthSquared(), a
	}
	t := math32.Clamp(point.Sub(a).Dot(dir)/lenSq, 0, 1)
	closest := a.Add(dir.MulScalar(t))
	return point.Sub(closest).LengthSquared(), closest
}

// FindSide returns the index of the side nearest to the point and the closest
// point on that side. A polygon with no corners returns -1 and the zero
// vector.
func (p *Polygon) FindSide(point math32.Vector3) (int, math32.Vector3) {
	best := -1
	bestSq := math32.Inf(1)
	var bestPoint math32.Vector3
	for i := range p.corners {
		sq, closest := p.sideNearest(i, point)
		if sq < bestSq {
			best, bestSq, bestPoint = i, sq, closest
		}
	}
	return best, bestPoint
}

// OnSide reports whether the point lies within tolerance of the given side.
func (p *Polygon) OnSide(point math32.Vector3, side int) bool {
	p.checkIndex(side)
	sq, _ := p.sideNearest(side, point)
	return sq <= p.tolSq
}

// FromRange extracts the contiguous cyclic run of corners from first to last,
// inclusive, as a new polygon with the same tolerance. first and last must be
// valid, distinct indexes; the result has between 2 and NumCorners corners.
func (p *Polygon) FromRange(first, last int) (*Polygon, error) {
	p.checkIndex(first)
	p.checkIndex(last)
	if first == last {
		return nil, fmt.Errorf("poly: corner range must span at least two corners, got first == last == %d", first)
	}
	var sub []math32.Vector3
	for i := first; ; i = p.NextIndex(i) {
		sub = append(sub, p.corners[i])
		if i == last {
			break
		}
	}
	return NewPolygon(sub, p.tol)
}

// LargestTriangle returns the corner indexes, in ascending winding order, of
// the largest-area triangle formed by any three corners. ok is false when the
// polygon has fewer than three corners or all corners are collinear.
func (p *Polygon) LargestTriangle() (i, j, k int, ok bool) {
	n := len(p.corners)
	var bestSq float32
	for a := 0; a < n-2; a++ {
		for b := a + 1; b < n-1; b++ {
			ab := p.corners[b].Sub(p.corners[a])
			for c := b + 1; c < n; c++ {
				// Cross product magnitude is twice the triangle area.
				sq := ab.Cross(p.corners[c].Sub(p.corners[a])).LengthSquared()
				if sq > bestSq {
					i, j, k, bestSq = a, b, c, sq
				}
			}
		}
	}
	return i, j, k, bestSq > 0
}

// SharesSideWith finds sides shared between the two polygons, comparing
// corners with the average of the two tolerances. The result maps each side
// index of p to the side indexes of other that coincide with it, in either
// winding direction; it is empty when no sides are shared.
func (p *Polygon) SharesSideWith(other *Polygon) map[int][]int {
	avg := (p.tol + other.tol) / 2
	avgSq := avg * avg

	// Corner coincidence first: sharedCorner[i] lists other's corners that
	// coincide with corner i of p.
	n, m := len(p.corners), len(other.corners)
	sharedCorner := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			if p.corners[i].Sub(other.corners[j]).LengthSquared() <= avgSq {
				sharedCorner[i] = append(sharedCorner[i], j)
			}
		}
	}

	shared := make(map[int][]int)
	if n < 2 || m < 2 {
		return shared
	}
	for i := 0; i < n; i++ {
		ni := p.NextIndex(i)
		for _, j := range sharedCorner[i] {
			// Matching winding: side i of p coincides with side j of other.
			for _, j2 := range sharedCorner[ni] {
				if j2 == other.NextIndex(j) {
					shared[i] = append(shared[i], j)
				}
			}
			// Reversed winding: side i coincides with the side ending at j.
			pj := other.PrevIndex(j)
			for _, j2 := range sharedCorner[ni] {
				if j2 == pj {
					shared[i] = append(shared[i], pj)
				}
			}
		}
	}
	return shared
}

// Bounds returns the corners' bounding box, expanded by the tolerance.
func (p *Polygon) Bounds() math32.Box3 {
	b := math32.B3Empty()
	b.ExpandByPoints(p.corners)
	b.ExpandByScalar(p.tol)
	return b
}

// String describes the polygon for diagnostics.
func (p *Polygon) String() string {
	return fmt.Sprintf("polygon(%d corners, tol=%v)", len(p.corners), p.tol)
}

// checkIndex panics on an out-of-range corner or side index. Index misuse is
// a programming error, matching slice indexing semantics.
func (p *Polygon) checkIndex(i int) {
	if i < 0 || i >= len(p.corners) {
		panic(fmt.Sprintf("poly: corner index %d out of range [0, %d)", i, len(p.corners)))
	}
}
