package region

import (
	"fmt"

	"cogentcore.org/core/math32"
	"github.com/samber/lo"

	"github.com/chazu/locus/pkg/poly"
)

// Severity indicates whether a finding blocks construction or is merely
// advisory.
type Severity int

const (
	SeverityError   Severity = iota // construction would fail
	SeverityWarning                 // construction succeeds but is suspect
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Finding describes one diagnostic result. Corner is the index of the corner
// involved, or -1 for findings about the shape as a whole.
type Finding struct {
	Code     string
	Severity Severity
	Message  string
	Corner   int
}

func (f Finding) String() string {
	if f.Corner >= 0 {
		return fmt.Sprintf("[%s] %s (corner %d): %s", f.Severity, f.Code, f.Corner, f.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", f.Severity, f.Code, f.Message)
}

// Errors filters findings down to the blocking ones.
func Errors(findings []Finding) []Finding {
	return lo.Filter(findings, func(f Finding, _ int) bool {
		return f.Severity == SeverityError
	})
}

// InspectPolygon diagnoses a corner list before polygon construction,
// reporting every reason poly.NewSimple would reject it plus advisory
// warnings. An empty result means the corners form a valid simple polygon.
func InspectPolygon(corners []math32.Vector3, tolerance float32) []Finding {
	var findings []Finding
	if tolerance < 0 || math32.IsNaN(tolerance) || math32.IsInf(tolerance, 1) {
		return []Finding{{
			Code:     "BAD_TOLERANCE",
			Severity: SeverityError,
			Message:  fmt.Sprintf("tolerance must be finite and non-negative, got %v", tolerance),
			Corner:   -1,
		}}
	}
	if len(corners) < 3 {
		return []Finding{{
			Code:     "TOO_FEW_CORNERS",
			Severity: SeverityError,
			Message:  fmt.Sprintf("a polygon needs at least 3 corners, got %d", len(corners)),
			Corner:   -1,
		}}
	}

	p, err := poly.NewPolygon(corners, tolerance)
	if err != nil {
		return []Finding{{
			Code: "BAD_CORNERS", Severity: SeverityError, Message: err.Error(), Corner: -1,
		}}
	}

	tolSq := tolerance * tolerance
	for i := 0; i < len(corners); i++ {
		for j := i + 1; j < len(corners); j++ {
			if corners[i].Sub(corners[j]).LengthSquared() <= tolSq {
				findings = append(findings, Finding{
					Code:     "COINCIDENT_CORNERS",
					Severity: SeverityError,
					Message:  fmt.Sprintf("corners %d and %d coincide within tolerance", i, j),
					Corner:   i,
				})
			}
		}
	}
	if len(findings) > 0 {
		// Coincident corners poison the turn and plane checks below.
		return findings
	}

	for i := range corners {
		turn := p.AbsTurnAngle(i)
		if !math32.IsNaN(turn) && math32.Pi-turn <= straightSlack {
			findings = append(findings, Finding{
				Code:     "STRAIGHT_CORNER",
				Severity: SeverityError,
				Message:  fmt.Sprintf("the sides at corner %d double back (180-degree turn)", i),
				Corner:   i,
			})
		}
	}

	if ti, tj, tk, ok := p.LargestTriangle(); ok {
		a := corners[ti]
		normal := corners[tj].Sub(a).Cross(corners[tk].Sub(corners[tj])).Normal()
		for i, c := range corners {
			if math32.Abs(normal.Dot(c.Sub(a))) > tolerance {
				findings = append(findings, Finding{
					Code:     "NON_PLANAR",
					Severity: SeverityError,
					Message:  fmt.Sprintf("corner %d is out of the fitted plane", i),
					Corner:   i,
				})
			}
		}
	} else {
		findings = append(findings, Finding{
			Code: "COLLINEAR", Severity: SeverityError, Corner: -1,
			Message: "all corners are collinear, no plane can be fit",
		})
	}

	if g, err := poly.NewGeneric(corners, tolerance); err == nil && g.IsSelfIntersecting() {
		findings = append(findings, Finding{
			Code: "SELF_INTERSECTING", Severity: SeverityError, Corner: -1,
			Message: "two non-adjacent sides cross",
		})
	}

	// Advisory: sides near the coincidence tolerance behave unpredictably
	// under merge and containment queries.
	for i := range corners {
		if p.SideLength(i) < tolerance*narrowSideRatio {
			findings = append(findings, Finding{
				Code:     "NARROW_SIDE",
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("side %d is shorter than %gx the tolerance", i, narrowSideRatio),
				Corner:   i,
			})
		}
	}
	return findings
}

// straightSlack is how close to pi a turn angle may get before the corner is
// reported as a fold-back.
const straightSlack = 1e-3

// narrowSideRatio flags sides shorter than this multiple of the tolerance.
const narrowSideRatio = 10.0

// InspectShell diagnoses shell radii before construction.
func InspectShell(center math32.Vector3, inner, outer float32) []Finding {
	var findings []Finding
	if math32.IsNaN(inner) || math32.IsInf(inner, 0) || inner < 0 {
		findings = append(findings, Finding{
			Code: "BAD_INNER_RADIUS", Severity: SeverityError, Corner: -1,
			Message: fmt.Sprintf("inner radius must be finite and non-negative, got %v", inner),
		})
	}
	if math32.IsNaN(outer) || outer < inner {
		findings = append(findings, Finding{
			Code: "BAD_OUTER_RADIUS", Severity: SeverityError, Corner: -1,
			Message: fmt.Sprintf("outer radius must be at least the inner radius %v, got %v", inner, outer),
		})
	}
	if len(findings) > 0 {
		return findings
	}
	mag := math32.Max(math32.Abs(center.X), math32.Max(math32.Abs(center.Y), math32.Abs(center.Z)))
	if !math32.IsInf(outer, 1) && mag > 0 && outer-inner < mag*1e-5 {
		findings = append(findings, Finding{
			Code: "THIN_BAND", Severity: SeverityWarning, Corner: -1,
			Message: fmt.Sprintf("band [%v, %v] is perilously thin for center magnitude %v; float32 containment may be unreliable", inner, outer, mag),
		})
	}
	return findings
}
