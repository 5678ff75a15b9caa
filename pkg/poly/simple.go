package poly

import (
	"fmt"

	"cogentcore.org/core/math32"
	"github.com/chazu/locus/pkg/locus"
)

// SimplePolygon is a polygon validated at construction to be non-degenerate,
// planar, and non-self-intersecting, giving it a well-defined interior. It
// implements locus.Locus.
//
// The plane normal is fixed by the winding of the largest-area corner
// triangle, so interior turns are right-handed about it and the shoelace area
// comes out non-negative.
type SimplePolygon struct {
	GenericPolygon

	normal     math32.Vector3 // unit plane normal
	planeConst float32        // signed plane offset: normal.Dot(p) + planeConst == 0 on the plane
	xBasis     math32.Vector3 // in-plane basis; (xBasis, normal, zBasis) is orthonormal
	zBasis     math32.Vector3

	// planar[i] holds corner i's 2-D offset from corner 0 in (xBasis, zBasis)
	// coordinates.
	planar []math32.Vector2

	signedArea float32
	centroid   math32.Vector3
	convex     bool
}

// Compile-time interface check.
var _ locus.Locus = (*SimplePolygon)(nil)

// NewSimple returns a validated simple polygon, or an error if the corners
// are degenerate, not coplanar within the tolerance, or self-intersecting.
func NewSimple(corners []math32.Vector3, tolerance float32) (*SimplePolygon, error) {
	g, err := NewGeneric(corners, tolerance)
	if err != nil {
		return nil, err
	}
	if g.IsDegenerate() {
		return nil, fmt.Errorf("poly: corners are degenerate (fewer than 3 corners, coincident corners, or a 180-degree turn)")
	}
	sp := &SimplePolygon{GenericPolygon: *g}
	if err := sp.setPlane(); err != nil {
		return nil, err
	}
	for i, c := range sp.corners {
		if math32.Abs(sp.normal.Dot(c)+sp.planeConst) > sp.tol {
			return nil, fmt.Errorf("poly: corner %d (%v) is not in the polygon's plane", i, c)
		}
	}
	if g.IsSelfIntersecting() {
		return nil, fmt.Errorf("poly: polygon is self-intersecting")
	}
	sp.setPlanarOffsets()
	sp.setAreaAndCentroid()
	sp.setConvex()
	return sp, nil
}

// setPlane fits the polygon's plane: the normal comes from the largest-area
// corner triangle taken in winding order, and the in-plane basis is built
// around it.
func (sp *SimplePolygon) setPlane() error {
	i, j, k, ok := sp.LargestTriangle()
	if !ok {
		return fmt.Errorf("poly: corners are collinear, no plane can be fit")
	}
	a, b, c := sp.corners[i], sp.corners[j], sp.corners[k]
	ab := b.Sub(a)
	sp.normal = ab.Cross(c.Sub(b)).Normal()
	sp.planeConst = -sp.normal.Dot(a)
	sp.xBasis = ab.Normal()
	sp.zBasis = sp.normal.Cross(sp.xBasis)
	return nil
}

// setPlanarOffsets projects every corner into 2-D plane coordinates relative
// to corner 0.
func (sp *SimplePolygon) setPlanarOffsets() {
	sp.planar = make([]math32.Vector2, len(sp.corners))
	for i, c := range sp.corners {
		d := c.Sub(sp.corners[0])
		sp.planar[i] = math32.Vec2(d.Dot(sp.xBasis), d.Dot(sp.zBasis))
	}
}

// setAreaAndCentroid evaluates the shoelace formula and the area-weighted
// centroid over the planar offsets, mapping the centroid back to 3-D.
func (sp *SimplePolygon) setAreaAndCentroid() {
	var twiceArea, cx, cz float32
	n := len(sp.planar)
	for i := 0; i < n; i++ {
		p0 := sp.planar[i]
		p1 := sp.planar[(i+1)%n]
		w := p0.X*p1.Y - p1.X*p0.Y
		twiceArea += w
		cx += (p0.X + p1.X) * w
		cz += (p0.Y + p1.Y) * w
	}
	sp.signedArea = twiceArea / 2
	if twiceArea == 0 {
		sp.centroid = sp.corners[0]
		return
	}
	cx /= 3 * twiceArea
	cz /= 3 * twiceArea
	sp.centroid = sp.corners[0].
		Add(sp.xBasis.MulScalar(cx)).
		Add(sp.zBasis.MulScalar(cz))
}

// setConvex checks that every turn is right-handed about the plane normal.
func (sp *SimplePolygon) setConvex() {
	for i := range sp.corners {
		if sp.crosses[i].Dot(sp.normal) < -sp.tolSq {
			sp.convex = false
			return
		}
	}
	sp.convex = true
}

// Normal returns the unit plane normal.
func (sp *SimplePolygon) Normal() math32.Vector3 { return sp.normal }

// PlaneConstant returns the plane's signed offset: every in-plane point p
// satisfies Normal().Dot(p) + PlaneConstant() == 0.
func (sp *SimplePolygon) PlaneConstant() float32 { return sp.planeConst }

// PlanarOffset returns corner i's 2-D offset from corner 0 in plane
// coordinates.
func (sp *SimplePolygon) PlanarOffset(i int) math32.Vector2 {
	sp.checkIndex(i)
	return sp.planar[i]
}

// Area returns the polygon's area.
func (sp *SimplePolygon) Area() float32 {
	return math32.Abs(sp.signedArea)
}

// IsConvex reports whether every corner turns the same way.
func (sp *SimplePolygon) IsConvex() bool { return sp.convex }

// TurnAngle returns the signed direction change at the corner: positive for
// right-handed turns about the plane normal.
func (sp *SimplePolygon) TurnAngle(i int) float32 {
	mag := sp.AbsTurnAngle(i)
	return math32.Copysign(mag, sp.normal.Dot(sp.crosses[i]))
}

// InteriorAngle returns the interior angle at the corner: pi minus the turn.
func (sp *SimplePolygon) InteriorAngle(i int) float32 {
	return math32.Pi - sp.TurnAngle(i)
}

// inPlane reports whether the point lies within tolerance of the polygon's
// plane.
func (sp *SimplePolygon) inPlane(p math32.Vector3) bool {
	return math32.Abs(sp.normal.Dot(p)+sp.planeConst) <= sp.tol
}

// projectToPlane drops the point onto the polygon's plane.
func (sp *SimplePolygon) projectToPlane(p math32.Vector3) math32.Vector3 {
	return p.Sub(sp.normal.MulScalar(sp.normal.Dot(p) + sp.planeConst))
}

// Contains reports whether the point lies in the polygon's interior or on
// its boundary, within tolerance.
func (sp *SimplePolygon) Contains(p math32.Vector3) bool {
	if !sp.inPlane(p) {
		return false
	}
	side, closest := sp.FindSide(p)
	if side < 0 {
		return false
	}
	if p.Sub(closest).LengthSquared() <= sp.tolSq {
		return true
	}
	// The point is interior exactly when it sits on the winding side of the
	// nearest edge.
	a := sp.corners[side]
	sideDir := sp.corners[sp.NextIndex(side)].Sub(a)
	return sideDir.Cross(p.Sub(a)).Dot(sp.normal) > 0
}

// ContainsSegment reports whether the whole straight segment between two
// points lies inside the polygon. Non-convex polygons are tested by
// recursively splitting the segment at perimeter crossings.
func (sp *SimplePolygon) ContainsSegment(a, b math32.Vector3) bool {
	if !sp.Contains(a) || !sp.Contains(b) {
		return false
	}
	if sp.convex {
		return true
	}
	for i := range sp.corners {
		if sp.OnSide(a, i) && sp.OnSide(b, i) {
			return true
		}
	}
	if a.Sub(b).LengthSquared() <= sp.tolSq {
		return true
	}
	x, ok := sp.IntersectionWithPerimeter(a, b)
	if !ok {
		return true
	}
	// A crossing at either endpoint cannot split the segment; perturb to the
	// midpoint so the recursion keeps shrinking.
	if x.Sub(a).LengthSquared() <= sp.tolSq || x.Sub(b).LengthSquared() <= sp.tolSq {
		x = a.Add(b).MulScalar(0.5)
	}
	return sp.ContainsSegment(a, x) && sp.ContainsSegment(x, b)
}

// Nearest returns p unchanged if contained; otherwise p is dropped onto the
// plane and, if still outside, projected to the closest point on the nearest
// side.
func (sp *SimplePolygon) Nearest(p math32.Vector3) math32.Vector3 {
	if sp.Contains(p) {
		return p
	}
	flat := sp.projectToPlane(p)
	if sp.Contains(flat) {
		return flat
	}
	_, closest := sp.FindSide(flat)
	return closest
}

// Centroid returns the area-weighted centroid, which for a non-convex
// polygon may lie outside the interior.
func (sp *SimplePolygon) Centroid() math32.Vector3 { return sp.centroid }

// Rep returns a contained representative: the centroid when it is interior,
// else the nearest contained point to it.
func (sp *SimplePolygon) Rep() math32.Vector3 {
	if sp.Contains(sp.centroid) {
		return sp.centroid
	}
	return sp.Nearest(sp.centroid)
}

// Score rates p by its negated squared distance to the polygon; contained
// points score zero.
func (sp *SimplePolygon) Score(p math32.Vector3) float32 {
	return -p.Sub(sp.Nearest(p)).LengthSquared()
}

// ShortestPath connects two contained points, trying the straight segment
// first and then a single detour through each corner. The search gives up
// after one detour: a nil path with nil error means none was found within
// that budget, not that no path exists.
func (sp *SimplePolygon) ShortestPath(from, to math32.Vector3, maxPoints int) ([]math32.Vector3, error) {
	if !sp.Contains(from) {
		return nil, fmt.Errorf("poly: path start %v not contained in polygon", from)
	}
	if !sp.Contains(to) {
		return nil, fmt.Errorf("poly: path goal %v not contained in polygon", to)
	}
	if maxPoints < 2 {
		return nil, nil
	}
	if sp.ContainsSegment(from, to) {
		return []math32.Vector3{from, to}, nil
	}
	if maxPoints < 3 {
		return nil, nil
	}
	bestLen := math32.Inf(1)
	var best []math32.Vector3
	for _, c := range sp.corners {
		if !sp.ContainsSegment(from, c) || !sp.ContainsSegment(c, to) {
			continue
		}
		length := from.Sub(c).Length() + c.Sub(to).Length()
		if length < bestLen {
			bestLen = length
			best = []math32.Vector3{from, c, to}
		}
	}
	return best, nil
}

// CanMerge reports whether Merge(other) can succeed structurally: other must
// be a SimplePolygon sharing at least one side, in a plane not orthogonal to
// this one. The merged result can still fail re-validation.
func (sp *SimplePolygon) CanMerge(other locus.Locus) bool {
	o, ok := other.(*SimplePolygon)
	if !ok {
		return false
	}
	if math32.Abs(sp.normal.Dot(o.normal)) <= (sp.tol+o.tol)/2 {
		return false
	}
	return len(sp.SharesSideWith(&o.Polygon)) > 0
}

// Merge splices this polygon with an adjacent one along a shared side,
// walking the other polygon's corners in whichever direction matches the
// relative winding. The result is validated as a simple polygon and holds
// n1+n2-2 corners when exactly one side is shared.
func (sp *SimplePolygon) Merge(other locus.Locus) (locus.Locus, error) {
	o, ok := other.(*SimplePolygon)
	if !ok {
		return nil, fmt.Errorf("poly: cannot merge a polygon with %T", other)
	}
	if math32.Abs(sp.normal.Dot(o.normal)) <= (sp.tol+o.tol)/2 {
		return nil, fmt.Errorf("poly: cannot merge polygons in orthogonal planes")
	}
	shared := sp.SharesSideWith(&o.Polygon)
	if len(shared) == 0 {
		return nil, fmt.Errorf("poly: polygons share no side to merge along")
	}

	// Deterministically pick the lowest shared side of this polygon.
	side := -1
	for i := range shared {
		if side < 0 || i < side {
			side = i
		}
	}
	oside := shared[side][0]

	avg := (sp.tol + o.tol) / 2
	avgSq := avg * avg
	// If the shared side is traversed the same way by both polygons their
	// windings oppose, and the other polygon must be walked backward.
	sameTraversal := sp.corners[side].Sub(o.corners[oside]).LengthSquared() <= avgSq

	n1, n2 := len(sp.corners), len(o.corners)
	merged := make([]math32.Vector3, 0, n1+n2-2)
	for k, i := 0, sp.NextIndex(side); k < n1; k, i = k+1, sp.NextIndex(i) {
		merged = append(merged, sp.corners[i])
	}
	if sameTraversal {
		for k, j := 0, o.PrevIndex(oside); k < n2-2; k, j = k+1, o.PrevIndex(j) {
			merged = append(merged, o.corners[j])
		}
	} else {
		for k, j := 0, (oside+2)%n2; k < n2-2; k, j = k+1, o.NextIndex(j) {
			merged = append(merged, o.corners[j])
		}
	}

	res, err := NewSimple(merged, math32.Max(sp.tol, o.tol))
	if err != nil {
		return nil, fmt.Errorf("poly: merge produced an invalid polygon: %w", err)
	}
	return res, nil
}

// SupportDistance returns the vertical distance from p down to the polygon's
// plane, or +Inf if the plane is steeper than the cosine tolerance allows,
// lies above p, or the vertical projection lands outside the polygon.
func (sp *SimplePolygon) SupportDistance(p math32.Vector3, cosineTolerance float32) (float32, error) {
	ny := sp.normal.Y
	if math32.Abs(ny) < cosineTolerance {
		return math32.Inf(1), nil
	}
	drop := (sp.normal.Dot(p) + sp.planeConst) / ny
	if drop < 0 {
		return math32.Inf(1), nil
	}
	foot := math32.Vec3(p.X, p.Y-drop, p.Z)
	if !sp.Contains(foot) {
		return math32.Inf(1), nil
	}
	return drop, nil
}
