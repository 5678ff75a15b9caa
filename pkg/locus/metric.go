package locus

import (
	"strings"

	"cogentcore.org/core/math32"
)

// Metric is a distance-like function over 3-D offsets. Shells use a Metric to
// shape their boundary: Euclid gives spheres, Chebyshev gives cubes, and
// Manhattan gives octahedra.
type Metric int

const (
	// Euclid is the ordinary Euclidean metric (sum of squared components).
	Euclid Metric = iota
	// Chebyshev is the L-infinity metric (largest absolute component).
	Chebyshev
	// Manhattan is the taxicab metric (sum of absolute components).
	Manhattan
)

// SquaredValue returns the square of the metric's value for the offset.
// The result is always non-negative.
func (m Metric) SquaredValue(offset math32.Vector3) float32 {
	switch m {
	case Chebyshev:
		v := math32.Max(math32.Abs(offset.X),
			math32.Max(math32.Abs(offset.Y), math32.Abs(offset.Z)))
		return v * v
	case Manhattan:
		v := math32.Abs(offset.X) + math32.Abs(offset.Y) + math32.Abs(offset.Z)
		return v * v
	default:
		return offset.LengthSquared()
	}
}

// String returns the metric's canonical name.
func (m Metric) String() string {
	switch m {
	case Euclid:
		return "Euclidean"
	case Chebyshev:
		return "Chebyshev"
	case Manhattan:
		return "Manhattan"
	default:
		return "unknown"
	}
}

// ParseMetric maps a name back to its Metric, ignoring case and accepting
// the short form "euclid". Unknown names report ok=false rather than an
// error so callers can fall back to a default.
func ParseMetric(name string) (m Metric, ok bool) {
	switch strings.ToLower(name) {
	case "euclid", "euclidean":
		return Euclid, true
	case "chebyshev":
		return Chebyshev, true
	case "manhattan":
		return Manhattan, true
	}
	return 0, false
}
