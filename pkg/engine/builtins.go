package engine

import (
	"fmt"
	"strings"

	"cogentcore.org/core/math32"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/locus/pkg/locus"
	"github.com/chazu/locus/pkg/poly"
	"github.com/chazu/locus/pkg/region"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms locus DSL source before passing it to zygomys.
// It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. ; line comments -> // comments, which is what zygomys expects.
//
// Both transformations respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a math32.Vector3.
type sexpVec3 struct {
	vec math32.Vector3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpRegion wraps a locus so it can be returned from constructors and
// consumed by query builtins. Name is set once the locus is registered in
// the workspace with defregion.
type sexpRegion struct {
	name string
	l    locus.Locus
}

func (r *sexpRegion) SexpString(ps *zygo.PrintState) string {
	if r.name != "" {
		return fmt.Sprintf("(region %q)", r.name)
	}
	return fmt.Sprintf("(region %s)", r.l)
}
func (r *sexpRegion) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat32 extracts a float32 from a Sexp (SexpInt or SexpFloat).
func toFloat32(s zygo.Sexp) (float32, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float32(v.Val), nil
	case *zygo.SexpFloat:
		return float32(v.Val), nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an int from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_manhattan) and plain strings.
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toVec3 extracts a Vector3 from a sexpVec3.
func toVec3(s zygo.Sexp) (math32.Vector3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return math32.Vector3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toRegion extracts the locus from a sexpRegion.
func toRegion(s zygo.Sexp) (*sexpRegion, error) {
	if r, ok := s.(*sexpRegion); ok {
		return r, nil
	}
	return nil, fmt.Errorf("expected region, got %T (%s)", s, s.SexpString(nil))
}

// toMetric converts a keyword or string to a locus.Metric.
func toMetric(s zygo.Sexp) (locus.Metric, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected metric keyword (:euclid, :chebyshev, :manhattan): %w", err)
	}
	m, ok := locus.ParseMetric(name)
	if !ok {
		return 0, fmt.Errorf("invalid metric %q, expected euclid, chebyshev, or manhattan", name)
	}
	return m, nil
}

// defaultTolerance is used for polygon and segment construction when the
// source does not pass :tolerance.
const defaultTolerance = 1e-4

// centerOf reads the :center keyword, defaulting to the origin.
func centerOf(pa kwArgs, what string) (math32.Vector3, error) {
	v, ok := pa.kw["center"]
	if !ok {
		return math32.Vector3{}, nil
	}
	c, err := toVec3(v)
	if err != nil {
		return math32.Vector3{}, fmt.Errorf("%s: center: %w", what, err)
	}
	return c, nil
}

func requireFloat(pa kwArgs, what, key string) (float32, error) {
	v, ok := pa.kw[key]
	if !ok {
		return 0, fmt.Errorf("%s: missing :%s", what, key)
	}
	f, err := toFloat32(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", what, key, err)
	}
	return f, nil
}

func requireVec3(pa kwArgs, what, key string) (math32.Vector3, error) {
	v, ok := pa.kw[key]
	if !ok {
		return math32.Vector3{}, fmt.Errorf("%s: missing :%s", what, key)
	}
	vec, err := toVec3(v)
	if err != nil {
		return math32.Vector3{}, fmt.Errorf("%s: %s: %w", what, key, err)
	}
	return vec, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the locus DSL builtins into a zygomys
// environment. Constructor builtins return region values; defregion stores
// them in the workspace under a name; query builtins interrogate them.
//
// Source code must be preprocessed with preprocessSource() before evaluation
// so that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, ws *region.Workspace) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var c [3]float32
		for i, a := range args {
			f, err := toFloat32(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: argument %d: %w", i, err)
			}
			c[i] = f
		}
		return &sexpVec3{vec: math32.Vec3(c[0], c[1], c[2])}, nil
	})

	// -----------------------------------------------------------------------
	// (sphere :center (vec3 0 0 0) :radius 5)
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		center, err := centerOf(pa, "sphere")
		if err != nil {
			return zygo.SexpNull, err
		}
		r, err := requireFloat(pa, "sphere", "radius")
		if err != nil {
			return zygo.SexpNull, err
		}
		s, err := locus.NewSphere(center, r)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		return &sexpRegion{l: s}, nil
	})

	// -----------------------------------------------------------------------
	// (cube :center (vec3 0 0 0) :radius 3)          ; Chebyshev ball
	// (octahedron :center (vec3 0 0 0) :radius 3)    ; Manhattan ball
	// -----------------------------------------------------------------------
	solid := func(metric locus.Metric) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			center, err := centerOf(pa, name)
			if err != nil {
				return zygo.SexpNull, err
			}
			r, err := requireFloat(pa, name, "radius")
			if err != nil {
				return zygo.SexpNull, err
			}
			s, err := locus.NewSolid(metric, center, r)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			return &sexpRegion{l: s}, nil
		}
	}
	env.AddFunction("cube", solid(locus.Chebyshev))
	env.AddFunction("octahedron", solid(locus.Manhattan))

	// -----------------------------------------------------------------------
	// (ellipsoid :center (vec3 0 0 0) :rx 3 :ry 2 :rz 1)
	// (box :center (vec3 0 0 0) :rx 3 :ry 2 :rz 1)
	// -----------------------------------------------------------------------
	triaxial := func(build func(c math32.Vector3, rx, ry, rz float32) (*locus.Shell, error)) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			center, err := centerOf(pa, name)
			if err != nil {
				return zygo.SexpNull, err
			}
			var r [3]float32
			for i, key := range []string{"rx", "ry", "rz"} {
				f, err := requireFloat(pa, name, key)
				if err != nil {
					return zygo.SexpNull, err
				}
				r[i] = f
			}
			s, err := build(center, r[0], r[1], r[2])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			return &sexpRegion{l: s}, nil
		}
	}
	env.AddFunction("ellipsoid", triaxial(locus.NewEllipsoid))
	env.AddFunction("box", triaxial(locus.NewBox))

	// -----------------------------------------------------------------------
	// (cylinder :center (vec3 0 0 0) :axis (vec3 0 1 0) :radius 2)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		center, err := centerOf(pa, "cylinder")
		if err != nil {
			return zygo.SexpNull, err
		}
		axis, err := requireVec3(pa, "cylinder", "axis")
		if err != nil {
			return zygo.SexpNull, err
		}
		r, err := requireFloat(pa, "cylinder", "radius")
		if err != nil {
			return zygo.SexpNull, err
		}
		s, err := locus.NewCylinder(center, axis, r)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		return &sexpRegion{l: s}, nil
	})

	// -----------------------------------------------------------------------
	// (slab :center (vec3 0 0 0) :normal (vec3 0 1 0) :half-thickness 1)
	// -----------------------------------------------------------------------
	env.AddFunction("slab", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		center, err := centerOf(pa, "slab")
		if err != nil {
			return zygo.SexpNull, err
		}
		normal, err := requireVec3(pa, "slab", "normal")
		if err != nil {
			return zygo.SexpNull, err
		}
		h, err := requireFloat(pa, "slab", "half-thickness")
		if err != nil {
			return zygo.SexpNull, err
		}
		s, err := locus.NewSlab(center, normal, h)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("slab: %w", err)
		}
		return &sexpRegion{l: s}, nil
	})

	// -----------------------------------------------------------------------
	// (hollow :center (vec3 0 0 0) :inner 2 :outer 5)
	// -----------------------------------------------------------------------
	env.AddFunction("hollow", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		center, err := centerOf(pa, "hollow")
		if err != nil {
			return zygo.SexpNull, err
		}
		inner, err := requireFloat(pa, "hollow", "inner")
		if err != nil {
			return zygo.SexpNull, err
		}
		outer, err := requireFloat(pa, "hollow", "outer")
		if err != nil {
			return zygo.SexpNull, err
		}
		s, err := locus.NewHollow(center, inner, outer)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("hollow: %w", err)
		}
		return &sexpRegion{l: s}, nil
	})

	// -----------------------------------------------------------------------
	// (shell :metric :manhattan :center (vec3 0 0 0) :inner 1 :outer 4)
	// -----------------------------------------------------------------------
	env.AddFunction("shell", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		metric := locus.Euclid
		if v, ok := pa.kw["metric"]; ok {
			m, err := toMetric(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("shell: %w", err)
			}
			metric = m
		}
		center, err := centerOf(pa, "shell")
		if err != nil {
			return zygo.SexpNull, err
		}
		var inner float32
		if v, ok := pa.kw["inner"]; ok {
			inner, err = toFloat32(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("shell: inner: %w", err)
			}
		}
		outer, err := requireFloat(pa, "shell", "outer")
		if err != nil {
			return zygo.SexpNull, err
		}
		var weights *math32.Vector3
		if v, ok := pa.kw["weights"]; ok {
			w, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("shell: weights: %w", err)
			}
			weights = &w
		}
		s, err := locus.New(metric, center, nil, weights, inner, outer)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shell: %w", err)
		}
		return &sexpRegion{l: s}, nil
	})

	// -----------------------------------------------------------------------
	// (polygon :tolerance 0.001 (vec3 ...) (vec3 ...) (vec3 ...) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("polygon", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		tol := float32(defaultTolerance)
		if v, ok := pa.kw["tolerance"]; ok {
			f, err := toFloat32(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon: tolerance: %w", err)
			}
			tol = f
		}
		corners := make([]math32.Vector3, 0, len(pa.positional))
		for i, a := range pa.positional {
			v, err := toVec3(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon: corner %d: %w", i, err)
			}
			corners = append(corners, v)
		}
		p, err := poly.NewSimple(corners, tol)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polygon: %w", err)
		}
		return &sexpRegion{l: p}, nil
	})

	// -----------------------------------------------------------------------
	// (segment (vec3 ...) (vec3 ...) :tolerance 0.001)
	// -----------------------------------------------------------------------
	env.AddFunction("segment", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("segment requires exactly 2 endpoints, got %d", len(pa.positional))
		}
		a, err := toVec3(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("segment: first endpoint: %w", err)
		}
		b, err := toVec3(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("segment: second endpoint: %w", err)
		}
		tol := float32(defaultTolerance)
		if v, ok := pa.kw["tolerance"]; ok {
			f, err := toFloat32(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("segment: tolerance: %w", err)
			}
			tol = f
		}
		s, err := locus.NewSegment(a, b, tol)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("segment: %w", err)
		}
		return &sexpRegion{l: s}, nil
	})

	// -----------------------------------------------------------------------
	// (defregion "name" (sphere ...))
	// -----------------------------------------------------------------------
	env.AddFunction("defregion", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("defregion requires a name and a region expression")
		}
		regionName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defregion: name: %w", err)
		}
		r, err := toRegion(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defregion: body: %w", err)
		}
		if err := ws.Add(regionName, r.l); err != nil {
			return zygo.SexpNull, fmt.Errorf("defregion: %w", err)
		}
		return &sexpRegion{name: regionName, l: r.l}, nil
	})

	// -----------------------------------------------------------------------
	// (region "name")
	// -----------------------------------------------------------------------
	env.AddFunction("region", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("region requires a name argument")
		}
		regionName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("region: name: %w", err)
		}
		l := ws.Lookup(regionName)
		if l == nil {
			return zygo.SexpNull, fmt.Errorf("region: no region named %q", regionName)
		}
		return &sexpRegion{name: regionName, l: l}, nil
	})

	// -----------------------------------------------------------------------
	// Point queries: (contains r p), (nearest r p), (score r p)
	// -----------------------------------------------------------------------
	env.AddFunction("contains", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		r, p, err := regionAndPoint("contains", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &zygo.SexpBool{Val: r.l.Contains(p)}, nil
	})

	env.AddFunction("nearest", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		r, p, err := regionAndPoint("nearest", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpVec3{vec: r.l.Nearest(p)}, nil
	})

	env.AddFunction("score", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		r, p, err := regionAndPoint("score", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &zygo.SexpFloat{Val: float64(r.l.Score(p))}, nil
	})

	// -----------------------------------------------------------------------
	// Region queries: (centroid r), (rep r), (convex r), (area r), (perimeter r)
	// -----------------------------------------------------------------------
	env.AddFunction("centroid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		r, err := oneRegion("centroid", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpVec3{vec: r.l.Centroid()}, nil
	})

	env.AddFunction("rep", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		r, err := oneRegion("rep", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpVec3{vec: r.l.Rep()}, nil
	})

	env.AddFunction("convex", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		r, err := oneRegion("convex", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		type convexer interface{ IsConvex() bool }
		c, ok := r.l.(convexer)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("convex: %s does not expose convexity", r.SexpString(nil))
		}
		return &zygo.SexpBool{Val: c.IsConvex()}, nil
	})

	env.AddFunction("area", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		r, err := oneRegion("area", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		p, ok := r.l.(*poly.SimplePolygon)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("area: %s is not a polygon", r.SexpString(nil))
		}
		return &zygo.SexpFloat{Val: float64(p.Area())}, nil
	})

	env.AddFunction("perimeter", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		r, err := oneRegion("perimeter", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		p, ok := r.l.(*poly.SimplePolygon)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("perimeter: %s is not a polygon", r.SexpString(nil))
		}
		return &zygo.SexpFloat{Val: float64(p.Perimeter())}, nil
	})

	// -----------------------------------------------------------------------
	// (merge r1 r2 :as "name")
	// -----------------------------------------------------------------------
	env.AddFunction("merge", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("merge requires exactly 2 regions, got %d", len(pa.positional))
		}
		a, err := toRegion(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("merge: first region: %w", err)
		}
		b, err := toRegion(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("merge: second region: %w", err)
		}
		if !a.l.CanMerge(b.l) {
			return zygo.SexpNull, fmt.Errorf("merge: regions cannot merge (need coplanar polygons sharing a side)")
		}
		merged, err := a.l.Merge(b.l)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("merge: %w", err)
		}
		result := &sexpRegion{l: merged}
		if v, ok := pa.kw["as"]; ok {
			mergedName, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("merge: as: %w", err)
			}
			if err := ws.Add(mergedName, merged); err != nil {
				return zygo.SexpNull, fmt.Errorf("merge: %w", err)
			}
			result.name = mergedName
		}
		return result, nil
	})

	// -----------------------------------------------------------------------
	// (path r (vec3 from) (vec3 to) :max 3)
	// Returns an array of vec3 waypoints, or nil when no path exists.
	// -----------------------------------------------------------------------
	env.AddFunction("path", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 3 {
			return zygo.SexpNull, fmt.Errorf("path requires a region and 2 points, got %d arguments", len(pa.positional))
		}
		r, err := toRegion(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("path: region: %w", err)
		}
		from, err := toVec3(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("path: from: %w", err)
		}
		to, err := toVec3(pa.positional[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("path: to: %w", err)
		}
		maxPoints := 3
		if v, ok := pa.kw["max"]; ok {
			maxPoints, err = toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("path: max: %w", err)
			}
		}
		waypoints, err := r.l.ShortestPath(from, to, maxPoints)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("path: %w", err)
		}
		if waypoints == nil {
			return zygo.SexpNull, nil
		}
		out := make([]zygo.Sexp, len(waypoints))
		for i, w := range waypoints {
			out[i] = &sexpVec3{vec: w}
		}
		return env.NewSexpArray(out), nil
	})
}

func regionAndPoint(what string, args []zygo.Sexp) (*sexpRegion, math32.Vector3, error) {
	if len(args) != 2 {
		return nil, math32.Vector3{}, fmt.Errorf("%s requires a region and a point, got %d arguments", what, len(args))
	}
	r, err := toRegion(args[0])
	if err != nil {
		return nil, math32.Vector3{}, fmt.Errorf("%s: region: %w", what, err)
	}
	p, err := toVec3(args[1])
	if err != nil {
		return nil, math32.Vector3{}, fmt.Errorf("%s: point: %w", what, err)
	}
	return r, p, nil
}

func oneRegion(what string, args []zygo.Sexp) (*sexpRegion, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%s requires exactly 1 region, got %d arguments", what, len(args))
	}
	r, err := toRegion(args[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return r, nil
}
