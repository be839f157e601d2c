package engine

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/chazu/hull3d/pkg/geom"
	"github.com/chazu/hull3d/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms hull script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: cube-corners -> cube_corners
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
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
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
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
			// Check for keyword: colon followed by a letter.
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
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
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

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPoint wraps a single geom.Point.
type sexpPoint struct {
	p geom.Point
}

func (s *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return "(point " + strings.Trim(geom.Format(s.p), "()") + ")"
}
func (s *sexpPoint) Type() *zygo.RegisteredType { return nil }

// sexpPoints wraps a point list produced by a generator builtin.
type sexpPoints struct {
	pts []geom.Point
}

func (s *sexpPoints) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(points <%d>)", len(s.pts))
}
func (s *sexpPoints) Type() *zygo.RegisteredType { return nil }

// sexpHullRef names a hull registered with defhull.
type sexpHullRef struct {
	name string
}

func (s *sexpHullRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(hull %q)", s.name)
}
func (s *sexpHullRef) Type() *zygo.RegisteredType { return nil }

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
// Keywords are identified by the __kw_ prefix added during preprocessing.
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

// float reads an optional numeric keyword, returning def when absent.
func (a kwArgs) float(name string, def float64) (float64, error) {
	v, ok := a.kw[name]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, errors.Wrap(err, name)
	}
	return f, nil
}

// count reads an optional non-negative integer keyword no larger than
// limit.
func (a kwArgs) count(name string, def int, limit float64) (int, error) {
	f, err := a.float(name, float64(def))
	if err != nil {
		return 0, err
	}
	if f < 0 || f != math.Trunc(f) {
		return 0, errors.Errorf("%s: expected a non-negative integer, got %g", name, f)
	}
	if f > limit {
		return 0, errors.Errorf("%s: %g exceeds the limit of %g", name, f, limit)
	}
	return int(f), nil
}

// point reads an optional point keyword.
func (a kwArgs) point(name string, def geom.Point) (geom.Point, error) {
	v, ok := a.kw[name]
	if !ok {
		return def, nil
	}
	p, ok := v.(*sexpPoint)
	if !ok {
		return geom.Point{}, errors.Errorf("%s: expected point, got %T (%s)", name, v, v.SexpString(nil))
	}
	return p.p, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, errors.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", errors.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toPoints flattens points, point lists, Lisp lists and arrays into a
// single slice, preserving order.
func toPoints(s zygo.Sexp) ([]geom.Point, error) {
	switch v := s.(type) {
	case *sexpPoint:
		return []geom.Point{v.p}, nil
	case *sexpPoints:
		return v.pts, nil
	}
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, errors.Errorf("expected point or point list, got %T (%s)", s, s.SexpString(nil))
	}
	var out []geom.Point
	for i, item := range items {
		pts, err := toPoints(item)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		out = append(out, pts...)
	}
	return out, nil
}

// collectPoints applies toPoints to every argument.
func collectPoints(args []zygo.Sexp) ([]geom.Point, error) {
	var out []geom.Point
	for i, a := range args {
		pts, err := toPoints(a)
		if err != nil {
			return nil, errors.Wrapf(err, "argument %d", i+1)
		}
		out = append(out, pts...)
	}
	return out, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, errors.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Point generators
// ---------------------------------------------------------------------------

// maxGeneratedPoints bounds :n so a script cannot exhaust memory before the
// evaluation timeout fires.
const maxGeneratedPoints = 1_000_000

func cubeCorners(center geom.Point, size float64) []geom.Point {
	h := size / 2
	pts := make([]geom.Point, 0, 8)
	for _, dz := range []float64{-h, h} {
		for _, dy := range []float64{-h, h} {
			for _, dx := range []float64{-h, h} {
				pts = append(pts, geom.P(center.X+dx, center.Y+dy, center.Z+dz))
			}
		}
	}
	return pts
}

// spherePoints draws n points uniformly on a sphere by normalising
// Gaussian samples.
func spherePoints(center geom.Point, radius float64, n int, seed uint64) []geom.Point {
	rng := rand.New(rand.NewPCG(seed, seed))
	pts := make([]geom.Point, 0, n)
	for len(pts) < n {
		v := geom.P(rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64())
		l := v.Length()
		if l < 1e-12 {
			continue
		}
		pts = append(pts, center.Add(v.MulScalar(radius/l)))
	}
	return pts
}

// randomPoints draws n points uniformly from an axis-aligned cube.
func randomPoints(center geom.Point, size float64, n int, seed uint64) []geom.Point {
	rng := rand.New(rand.NewPCG(seed, seed))
	pts := make([]geom.Point, n)
	for i := range pts {
		pts[i] = geom.P(
			center.X+(rng.Float64()-0.5)*size,
			center.Y+(rng.Float64()-0.5)*size,
			center.Z+(rng.Float64()-0.5)*size,
		)
	}
	return pts
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the point-set builtins into a zygomys environment.
// defhull populates the provided Scene during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, s *scene.Scene) {

	// -----------------------------------------------------------------------
	// (point 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("point", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, errors.Errorf("point requires exactly 3 arguments, got %d", len(args))
		}
		var c [3]float64
		for i, axis := range []string{"x", "y", "z"} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, errors.Wrapf(err, "point: %s", axis)
			}
			c[i] = f
		}
		return &sexpPoint{p: geom.P(c[0], c[1], c[2])}, nil
	})

	// -----------------------------------------------------------------------
	// (points (point ...) (point ...) (cube-corners) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("points", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pts, err := collectPoints(args)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "points")
		}
		return &sexpPoints{pts: pts}, nil
	})

	// -----------------------------------------------------------------------
	// (cube-corners :size 2 :center (point 0 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("cube_corners", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		size, err := pa.float("size", 1)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "cube-corners")
		}
		center, err := pa.point("center", geom.Point{})
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "cube-corners")
		}
		return &sexpPoints{pts: cubeCorners(center, size)}, nil
	})

	// -----------------------------------------------------------------------
	// (sphere-points :n 100 :radius 5 :seed 7 :center (point 0 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("sphere_points", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		n, err := pa.count("n", 32, maxGeneratedPoints)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "sphere-points")
		}
		radius, err := pa.float("radius", 1)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "sphere-points")
		}
		seed, err := pa.count("seed", 1, math.MaxInt32)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "sphere-points")
		}
		center, err := pa.point("center", geom.Point{})
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "sphere-points")
		}
		return &sexpPoints{pts: spherePoints(center, radius, n, uint64(seed))}, nil
	})

	// -----------------------------------------------------------------------
	// (random-points :n 100 :size 10 :seed 7 :center (point 0 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("random_points", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		n, err := pa.count("n", 32, maxGeneratedPoints)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "random-points")
		}
		size, err := pa.float("size", 1)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "random-points")
		}
		seed, err := pa.count("seed", 1, math.MaxInt32)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "random-points")
		}
		center, err := pa.point("center", geom.Point{})
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "random-points")
		}
		return &sexpPoints{pts: randomPoints(center, size, n, uint64(seed))}, nil
	})

	// -----------------------------------------------------------------------
	// (translate pts :by (point 1 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, errors.New("translate requires a point list as first argument")
		}
		pts, err := collectPoints(pa.positional)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "translate")
		}
		by, err := pa.point("by", geom.Point{})
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "translate")
		}
		moved := lo.Map(pts, func(p geom.Point, _ int) geom.Point { return p.Add(by) })
		return &sexpPoints{pts: moved}, nil
	})

	// -----------------------------------------------------------------------
	// (defhull "name" pts ...)
	// -----------------------------------------------------------------------
	env.AddFunction("defhull", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, errors.New("defhull requires a name and at least one point expression")
		}
		hullName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "defhull: name")
		}
		pts, err := collectPoints(args[1:])
		if err != nil {
			return zygo.SexpNull, errors.Wrapf(err, "defhull %q", hullName)
		}
		s.Add(&scene.HullSpec{Name: hullName, Points: pts})
		return &sexpHullRef{name: hullName}, nil
	})

	// -----------------------------------------------------------------------
	// (hull "name") returns the points of an earlier defhull
	// -----------------------------------------------------------------------
	env.AddFunction("hull", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, errors.New("hull requires a name argument")
		}
		var hullName string
		switch v := args[0].(type) {
		case *sexpHullRef:
			hullName = v.name
		default:
			n, err := toString(v)
			if err != nil {
				return zygo.SexpNull, errors.Wrap(err, "hull: name")
			}
			hullName = n
		}
		h := s.Lookup(hullName)
		if h == nil {
			return zygo.SexpNull, errors.Errorf("hull: no hull named %q", hullName)
		}
		return &sexpPoints{pts: h.Points}, nil
	})
}
