package locus

import (
	"fmt"

	"cogentcore.org/core/math32"
	log "github.com/sirupsen/logrus"
)

// thinRatio is the band thickness, relative to the Chebyshev magnitude of the
// center, below which float32 precision makes containment tests unreliable.
const thinRatio = 1e-5

// surfaceFudge nudges surface projections toward the interior of the band to
// absorb rounding error at large coordinate magnitudes.
const surfaceFudge float32 = 1e-6

// boundarySlack widens the squared-radius band by a few ULPs so that a point
// lying exactly on a bounding surface still counts as contained after the
// rotation into the local frame rounds its coordinates.
const boundarySlack float32 = 1e-6

// Shell is a region bounded by an inner and outer radius under a Metric,
// optionally weighted per axis and rotated. Depending on its parameters a
// shell is a point, sphere, cube, octahedron, ellipsoid, box, spherical
// shell, hole, infinite cylinder, or infinite slab.
//
// A Shell is immutable; MovedTo and Reoriented return modified copies.
type Shell struct {
	metric   Metric
	center   math32.Vector3
	rot      math32.Quat // local-to-world rotation
	inv      math32.Quat // world-to-local rotation
	oriented bool
	weights  math32.Vector3 // per-axis weights; a zero weight leaves that axis unbounded
	weighted bool

	inner, outer     float32
	innerSq, outerSq float32
	// optimalSq is the midpoint of the squared-radius band, used only by
	// Score; +Inf when the outer radius is infinite.
	optimalSq float32
}

// Compile-time interface check.
var _ Locus = (*Shell)(nil)

// New returns a fully general shell. orient may be nil for an axis-aligned
// shell; weights may be nil for an unweighted one. Weights must be finite and
// non-negative, with a zero weight leaving that axis unbounded (slabs and
// cylinders). Radii must satisfy 0 <= inner <= outer, with inner finite and
// outer possibly +Inf.
func New(metric Metric, center math32.Vector3, orient *math32.Quat, weights *math32.Vector3, inner, outer float32) (*Shell, error) {
	if math32.IsNaN(inner) || math32.IsInf(inner, 0) || inner < 0 {
		return nil, fmt.Errorf("locus: inner radius must be finite and non-negative, got %v", inner)
	}
	if math32.IsNaN(outer) || outer < inner {
		return nil, fmt.Errorf("locus: outer radius must be at least inner radius %v, got %v", inner, outer)
	}
	s := &Shell{
		metric:  metric,
		center:  center,
		inner:   inner,
		outer:   outer,
		innerSq: inner * inner,
		outerSq: outer * outer,
	}
	if math32.IsInf(outer, 1) {
		s.optimalSq = math32.Inf(1)
	} else {
		s.optimalSq = (s.innerSq + s.outerSq) / 2
	}
	if orient != nil {
		q := *orient
		q.Normalize()
		s.rot = q
		s.inv = q.Inverse()
		s.oriented = !q.IsIdentity()
	}
	if weights != nil {
		w := *weights
		for _, c := range []float32{w.X, w.Y, w.Z} {
			if c < 0 || math32.IsNaN(c) || math32.IsInf(c, 1) {
				return nil, fmt.Errorf("locus: axis weights must be finite and non-negative, got %v", w)
			}
		}
		s.weights = w
		s.weighted = w != math32.Vec3(1, 1, 1)
	}
	s.warnIfThin()
	return s, nil
}

// warnIfThin logs when the radius band is so thin relative to the center's
// magnitude that float32 rounding can flip containment at the boundary.
// This is a precision hazard, not a validation error.
func (s *Shell) warnIfThin() {
	if math32.IsInf(s.outer, 1) {
		return
	}
	mag := math32.Max(math32.Abs(s.center.X),
		math32.Max(math32.Abs(s.center.Y), math32.Abs(s.center.Z)))
	if mag > 0 && s.outer-s.inner < mag*thinRatio {
		log.Warnf("locus: shell band [%v, %v] is perilously thin for center magnitude %v; containment may be unreliable", s.inner, s.outer, mag)
	}
}

// NewSphere returns a solid sphere.
func NewSphere(center math32.Vector3, radius float32) (*Shell, error) {
	return NewSolid(Euclid, center, radius)
}

// NewSolid returns a solid region of equal radius on all axes under the given
// metric: a sphere (Euclid), cube (Chebyshev), or octahedron (Manhattan).
// A zero radius yields a single point.
func NewSolid(metric Metric, center math32.Vector3, radius float32) (*Shell, error) {
	if math32.IsNaN(radius) || math32.IsInf(radius, 0) || radius < 0 {
		return nil, fmt.Errorf("locus: radius must be finite and non-negative, got %v", radius)
	}
	return New(metric, center, nil, nil, 0, radius)
}

// NewEllipsoid returns an axis-aligned solid ellipsoid with the given
// per-axis radii.
func NewEllipsoid(center math32.Vector3, rx, ry, rz float32) (*Shell, error) {
	return newUnequal(Euclid, center, nil, rx, ry, rz)
}

// NewBox returns an axis-aligned solid box with the given per-axis
// half-extents.
func NewBox(center math32.Vector3, rx, ry, rz float32) (*Shell, error) {
	return newUnequal(Chebyshev, center, nil, rx, ry, rz)
}

// NewOriented returns a solid of unequal radii rotated by orient, under the
// given metric: a rotated ellipsoid (Euclid) or box (Chebyshev).
func NewOriented(metric Metric, center math32.Vector3, orient math32.Quat, rx, ry, rz float32) (*Shell, error) {
	return newUnequal(metric, center, &orient, rx, ry, rz)
}

// newUnequal derives per-axis weights from unequal radii: the largest radius
// becomes the outer radius and each axis is weighted by outer/radius.
func newUnequal(metric Metric, center math32.Vector3, orient *math32.Quat, rx, ry, rz float32) (*Shell, error) {
	for _, r := range []float32{rx, ry, rz} {
		if math32.IsNaN(r) || math32.IsInf(r, 0) || r <= 0 {
			return nil, fmt.Errorf("locus: axis radii must be finite and positive, got (%v, %v, %v)", rx, ry, rz)
		}
	}
	outer := math32.Max(rx, math32.Max(ry, rz))
	w := math32.Vec3(outer/rx, outer/ry, outer/rz)
	return New(metric, center, orient, &w, 0, outer)
}

// NewCylinder returns an infinite solid cylinder of the given radius around
// the line through center along axis.
func NewCylinder(center, axis math32.Vector3, radius float32) (*Shell, error) {
	if math32.IsNaN(radius) || math32.IsInf(radius, 0) || radius <= 0 {
		return nil, fmt.Errorf("locus: cylinder radius must be finite and positive, got %v", radius)
	}
	q, err := axisOrientation(axis)
	if err != nil {
		return nil, err
	}
	// Zero weight leaves the local Z axis (the cylinder axis) unbounded.
	w := math32.Vec3(1, 1, 0)
	return New(Euclid, center, &q, &w, 0, radius)
}

// NewSlab returns an infinite solid slab of the given half-thickness,
// centered on the plane through center with the given normal.
func NewSlab(center, normal math32.Vector3, halfThickness float32) (*Shell, error) {
	if math32.IsNaN(halfThickness) || math32.IsInf(halfThickness, 0) || halfThickness <= 0 {
		return nil, fmt.Errorf("locus: slab half-thickness must be finite and positive, got %v", halfThickness)
	}
	q, err := axisOrientation(normal)
	if err != nil {
		return nil, err
	}
	// Only the local Z axis (the normal) is constrained.
	w := math32.Vec3(0, 0, 1)
	return New(Chebyshev, center, &q, &w, 0, halfThickness)
}

// NewHollow returns a spherical shell between the two radii. An infinite
// outer radius yields a hole: everything at least inner away from center.
func NewHollow(center math32.Vector3, inner, outer float32) (*Shell, error) {
	return New(Euclid, center, nil, nil, inner, outer)
}

// axisOrientation builds the rotation taking the local +Z axis to the given
// direction, which must have non-zero length.
func axisOrientation(axis math32.Vector3) (math32.Quat, error) {
	lenSq := axis.LengthSquared()
	if lenSq == 0 || math32.IsNaN(lenSq) {
		return math32.Quat{}, fmt.Errorf("locus: axis direction must have non-zero length, got %v", axis)
	}
	var q math32.Quat
	q.SetFromUnitVectors(math32.Vec3(0, 0, 1), axis.Normal())
	return q, nil
}

// Metric returns the shell's distance metric.
func (s *Shell) Metric() Metric { return s.metric }

// Center returns the shell's center point.
func (s *Shell) Center() math32.Vector3 { return s.center }

// InnerRadius returns the inner radius of the band.
func (s *Shell) InnerRadius() float32 { return s.inner }

// OuterRadius returns the outer radius of the band; +Inf for holes, slab
// complements, and other unbounded shells.
func (s *Shell) OuterRadius() float32 { return s.outer }

// MovedTo returns a copy of the shell centered at the given point.
func (s *Shell) MovedTo(center math32.Vector3) *Shell {
	c := *s
	c.center = center
	c.warnIfThin()
	return &c
}

// Reoriented returns a copy of the shell rotated by the given orientation.
func (s *Shell) Reoriented(orient math32.Quat) *Shell {
	c := *s
	orient.Normalize()
	c.rot = orient
	c.inv = orient.Inverse()
	c.oriented = !orient.IsIdentity()
	return &c
}

// localOffset transforms a world point into the shell's weighted local frame.
func (s *Shell) localOffset(p math32.Vector3) math32.Vector3 {
	off := p.Sub(s.center)
	if s.oriented {
		off = off.MulQuat(s.inv)
	}
	if s.weighted {
		off = off.Mul(s.weights)
	}
	return off
}

// Contains reports whether p lies within the radius band, boundary included.
func (s *Shell) Contains(p math32.Vector3) bool {
	return s.inBand(s.metric.SquaredValue(s.localOffset(p)))
}

// inBand compares a squared metric value against the radius band with a
// relative slack, so boundary points survive the rounding of the local-frame
// transform.
func (s *Shell) inBand(m float32) bool {
	hi := s.outerSq
	if !math32.IsInf(hi, 1) {
		hi *= 1 + boundarySlack
	}
	return m >= s.innerSq*(1-boundarySlack) && m <= hi
}

// Nearest returns p unchanged if it is contained; otherwise it projects p
// radially onto the nearer bounding surface. The projection is exact for
// spheres and spherical shells but only an approximation for weighted or
// non-Euclidean shells, where the radial direction is generally not the
// direction of minimum distance. Callers needing exact projections on such
// shells must refine the result themselves.
func (s *Shell) Nearest(p math32.Vector3) math32.Vector3 {
	off := s.localOffset(p)
	m := s.metric.SquaredValue(off)
	if s.inBand(m) {
		return p
	}

	// A point at the exact center of a hollow shell has no radial direction;
	// substitute an offset along the dominant weight axis at half the inner
	// radius so the projection below has something to scale.
	if m == 0 && s.innerSq > 0 {
		off = s.dominantAxis().MulScalar(s.inner / 2)
		m = s.metric.SquaredValue(off)
	}

	// Nudge the landing point into the band in proportion to how much
	// float32 precision the center's magnitude burns.
	mag := math32.Max(math32.Abs(s.center.X),
		math32.Max(math32.Abs(s.center.Y), math32.Abs(s.center.Z)))
	fudge := surfaceFudge
	if s.outer > 0 && !math32.IsInf(s.outer, 1) {
		fudge *= 1 + mag/s.outer
	}

	var scale float32
	if m < s.innerSq {
		scale = math32.Sqrt(s.innerSq/m) * (1 + fudge)
	} else {
		scale = math32.Sqrt(s.outerSq/m) * (1 - fudge)
	}
	scaled := off.MulScalar(scale)

	// Undo weighting: divide scaled components by their weights, keeping the
	// original offset on unbounded (zero-weight) axes.
	local := scaled
	if s.weighted {
		raw := p.Sub(s.center)
		if s.oriented {
			raw = raw.MulQuat(s.inv)
		}
		local = math32.Vec3(
			unweight(scaled.X, s.weights.X, raw.X),
			unweight(scaled.Y, s.weights.Y, raw.Y),
			unweight(scaled.Z, s.weights.Z, raw.Z),
		)
	}
	if s.oriented {
		local = local.MulQuat(s.rot)
	}
	return local.Add(s.center)
}

func unweight(scaled, weight, raw float32) float32 {
	if weight == 0 {
		return raw
	}
	return scaled / weight
}

// dominantAxis returns the unit vector of the most heavily weighted local
// axis, or +X when unweighted.
func (s *Shell) dominantAxis() math32.Vector3 {
	if !s.weighted {
		return math32.Vec3(1, 0, 0)
	}
	switch {
	case s.weights.Y >= s.weights.X && s.weights.Y >= s.weights.Z:
		return math32.Vec3(0, 1, 0)
	case s.weights.Z >= s.weights.X && s.weights.Z >= s.weights.Y:
		return math32.Vec3(0, 0, 1)
	default:
		return math32.Vec3(1, 0, 0)
	}
}

// Centroid returns the shell's center.
func (s *Shell) Centroid() math32.Vector3 { return s.center }

// IsConvex reports whether the shell is convex, which holds exactly when
// there is no inner void.
func (s *Shell) IsConvex() bool { return s.inner == 0 }

// Rep returns a contained representative point: the center for convex
// shells, else a deterministic point inside the band reached along the
// dominant weight axis (split evenly across axes for the Manhattan metric,
// whose surface has no axis-aligned face there).
func (s *Shell) Rep() math32.Vector3 {
	if s.IsConvex() {
		return s.center
	}
	var r float32
	if math32.IsInf(s.outer, 1) {
		r = s.inner * 1.5
	} else {
		r = math32.Sqrt(s.optimalSq)
	}
	var off math32.Vector3
	if s.metric == Manhattan {
		off = math32.Vec3(r/3, r/3, r/3)
	} else {
		off = s.dominantAxis().MulScalar(r)
	}
	if s.weighted {
		off = math32.Vec3(
			unweight(off.X, s.weights.X, 0),
			unweight(off.Y, s.weights.Y, 0),
			unweight(off.Z, s.weights.Z, 0),
		)
	}
	if s.oriented {
		off = off.MulQuat(s.rot)
	}
	return off.Add(s.center)
}

// Score rates p by how close its squared metric value is to the optimal
// squared radius at the middle of the band. When the outer radius is
// infinite the raw squared value is returned, so farther from the center
// scores higher.
func (s *Shell) Score(p math32.Vector3) float32 {
	m := s.metric.SquaredValue(s.localOffset(p))
	if math32.IsInf(s.optimalSq, 1) {
		return m
	}
	return -math32.Abs(m - s.optimalSq)
}

// ShortestPath connects two contained points by a straight segment. Only
// convex shells are supported; path search around an inner void returns
// ErrUnsupported.
func (s *Shell) ShortestPath(from, to math32.Vector3, maxPoints int) ([]math32.Vector3, error) {
	if !s.IsConvex() {
		return nil, ErrUnsupported
	}
	if !s.Contains(from) {
		return nil, fmt.Errorf("locus: path start %v not contained in shell", from)
	}
	if !s.Contains(to) {
		return nil, fmt.Errorf("locus: path goal %v not contained in shell", to)
	}
	if maxPoints < 2 {
		return nil, nil
	}
	return []math32.Vector3{from, to}, nil
}

// CanMerge always reports false: shells do not merge.
func (s *Shell) CanMerge(other Locus) bool { return false }

// Merge is not supported for shells.
func (s *Shell) Merge(other Locus) (Locus, error) {
	return nil, ErrUnsupported
}

// SupportDistance is not supported for shells.
func (s *Shell) SupportDistance(p math32.Vector3, cosineTolerance float32) (float32, error) {
	return 0, ErrUnsupported
}

// Bounds returns the axis-aligned bounding box of the shell. Unbounded axes
// and oriented unbounded shells report infinite extents.
func (s *Shell) Bounds() math32.Box3 {
	inf := math32.Inf(1)
	ext := math32.Vec3(
		axisExtent(s.outer, s.weights.X, s.weighted),
		axisExtent(s.outer, s.weights.Y, s.weighted),
		axisExtent(s.outer, s.weights.Z, s.weighted),
	)
	if s.oriented && (math32.IsInf(ext.X, 1) || math32.IsInf(ext.Y, 1) || math32.IsInf(ext.Z, 1)) {
		// Rotating a partially infinite box mixes Inf*0 into NaN; an
		// all-infinite box is the only safe answer.
		return math32.Box3{Min: math32.Vec3(-inf, -inf, -inf), Max: math32.Vec3(inf, inf, inf)}
	}
	b := math32.Box3{Min: ext.Negate(), Max: ext}
	if s.oriented {
		b = b.MulQuat(s.rot)
	}
	return b.Translate(s.center)
}

// axisExtent is the farthest reach of the outer surface along one local
// axis. It is outer/weight for every supported metric.
func axisExtent(outer, weight float32, weighted bool) float32 {
	if !weighted {
		return outer
	}
	if weight == 0 {
		return math32.Inf(1)
	}
	return outer / weight
}

// SignedDistance returns a signed measure of p's separation from the band:
// negative inside, positive outside, zero on a bounding surface. It is the
// exact Euclidean distance only for unweighted Euclid shells; elsewhere it is
// a metric-space measure that still changes sign exactly at the boundary,
// which is what isosurface extraction needs.
func (s *Shell) SignedDistance(p math32.Vector3) float32 {
	m := math32.Sqrt(s.metric.SquaredValue(s.localOffset(p)))
	if s.inner == 0 {
		return m - s.outer
	}
	if math32.IsInf(s.outer, 1) {
		return s.inner - m
	}
	return math32.Max(s.inner-m, m-s.outer)
}

// String describes the shell for diagnostics.
func (s *Shell) String() string {
	return fmt.Sprintf("shell(%s center=%v band=[%v, %v])", s.metric, s.center, s.inner, s.outer)
}
