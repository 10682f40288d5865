package svgpath

import (
	"errors"
	"math"
)

var (
	// ErrNotConverged is returned when the subdivision depth bound is
	// reached before the requested flatness. The polylines returned
	// with it are still usable, with a lower precision.
	ErrNotConverged = errors.New("flattening did not converge")
	// ErrDegenerate is returned for paths with non finite coordinates.
	ErrDegenerate = errors.New("degenerate path")
)

const (
	// DefaultFlatness is the default chord tolerance, in millimeters.
	DefaultFlatness = 0.01
	// MaxFlatness is the ceiling reached by FlattenWithin.
	MaxFlatness = 2.0
	// flatnessStep is the increment applied when flattening does not converge
	flatnessStep = 0.1

	// maximum recursion depth for one cubic segment (at most 2^16 chords)
	maxSubdivision = 16
)

// Cubic is a cubic Bezier segment: start point,
// two control points and end point.
type Cubic [4]Point

// Subpath is a chain of cubic segments, each one
// starting where the previous one ends.
type Subpath []Cubic

// CubicPath is a path made only of cubic segments, grouped by subpath.
type CubicPath []Subpath

// Polyline is a chain of points joined by straight lines.
type Polyline []Point

func lineCubic(a, b Point) Cubic {
	return Cubic{a, a, b, b}
}

// quadratic to cubic degree elevation
func quadCubic(a, q, b Point) Cubic {
	return Cubic{a, lerp(a, q, 2./3), lerp(b, q, 2./3), b}
}

// Cubics converts the path to cubic segments. Lines and quadratic
// curves are elevated, and closing a subpath adds a line back to its start
// when needed.
func (p Path) Cubics() CubicPath {
	var (
		out        CubicPath
		cur        Subpath
		start, pen Point
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, cur)
		}
		cur = nil
	}
	for _, op := range p {
		switch op := op.(type) {
		case MoveTo:
			flush()
			start, pen = Point(op), Point(op)
		case LineTo:
			cur = append(cur, lineCubic(pen, Point(op)))
			pen = Point(op)
		case QuadTo:
			cur = append(cur, quadCubic(pen, op[0], op[1]))
			pen = op[1]
		case CubicTo:
			cur = append(cur, Cubic{pen, op[0], op[1], op[2]})
			pen = op[2]
		case Close:
			if pen != start {
				cur = append(cur, lineCubic(pen, start))
			}
			flush()
			pen = start
		}
	}
	flush()
	return out
}

// Transform maps every point of the path with m.
func (c CubicPath) Transform(m Matrix2D) CubicPath {
	out := make(CubicPath, len(c))
	for i, sub := range c {
		out[i] = make(Subpath, len(sub))
		for j, seg := range sub {
			out[i][j] = Cubic{m.Apply(seg[0]), m.Apply(seg[1]), m.Apply(seg[2]), m.Apply(seg[3])}
		}
	}
	return out
}

func finite(p Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Nodes returns the polylines joining the end points of the segments,
// without any subdivision. Non finite points are dropped.
func (c CubicPath) Nodes() []Polyline {
	var out []Polyline
	for _, sub := range c {
		if len(sub) == 0 {
			continue
		}
		var line Polyline
		if finite(sub[0][0]) {
			line = append(line, sub[0][0])
		}
		for _, seg := range sub {
			if finite(seg[3]) {
				line = append(line, seg[3])
			}
		}
		if len(line) >= 2 {
			out = append(out, line)
		}
	}
	return out
}

// distPointToLine returns the distance from p to the (infinite) line a-b
func distPointToLine(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	if dx == 0 && dy == 0 {
		// a and b are the same
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	return math.Abs((p.X-a.X)*dy-(p.Y-a.Y)*dx) / math.Hypot(dx, dy)
}

// split uses De Casteljau algorithm at parameter t
func (c Cubic) split(t float64) (Cubic, Cubic) {
	m01 := lerp(c[0], c[1], t)
	m12 := lerp(c[1], c[2], t)
	m23 := lerp(c[2], c[3], t)
	m012 := lerp(m01, m12, t)
	m123 := lerp(m12, m23, t)
	m0123 := lerp(m012, m123, t)
	return Cubic{c[0], m01, m012, m0123}, Cubic{m0123, m123, m23, c[3]}
}

// flatness returns the maximum distance from the control points to the chord.
func (c Cubic) flatness() float64 {
	return math.Max(distPointToLine(c[1], c[0], c[3]), distPointToLine(c[2], c[0], c[3]))
}

// flattenCubic recursively subdivides c until each piece is within tolerance,
// calling emit for each accepted piece, whose chord is [piece[0], piece[3]].
// It returns false if the depth bound was hit.
func flattenCubic(c Cubic, tolerance float64, depth int, emit func(Cubic)) bool {
	if c.flatness() <= tolerance {
		emit(c)
		return true
	}
	if depth >= maxSubdivision {
		emit(c)
		return false
	}
	left, right := c.split(0.5)
	okLeft := flattenCubic(left, tolerance, depth+1, emit)
	okRight := flattenCubic(right, tolerance, depth+1, emit)
	return okLeft && okRight
}

// Flatten approximates each subpath by a polyline whose chords deviate
// from the curve by at most tolerance.
// If the depth bound is reached, the polylines are returned along with ErrNotConverged.
func (c CubicPath) Flatten(tolerance float64) ([]Polyline, error) {
	out := make([]Polyline, 0, len(c))
	converged := true
	for _, sub := range c {
		if len(sub) == 0 {
			continue
		}
		line := Polyline{sub[0][0]}
		emit := func(piece Cubic) { line = append(line, piece[3]) }
		for _, seg := range sub {
			for _, p := range seg {
				if !finite(p) {
					return nil, ErrDegenerate
				}
			}
			if !flattenCubic(seg, tolerance, 0, emit) {
				converged = false
			}
		}
		out = append(out, line)
	}
	if !converged {
		return out, ErrNotConverged
	}
	return out, nil
}

// FlattenWithin flattens the path, starting at tolerance and relaxing it by
// fixed steps up to MaxFlatness when the subdivision does not converge.
// It always returns usable polylines, along with the tolerance finally used:
//   - err is nil on success,
//   - ErrNotConverged if even MaxFlatness was not reached (best approximation returned),
//   - ErrDegenerate if the path could not be subdivided (segment end points returned).
func (c CubicPath) FlattenWithin(tolerance float64) ([]Polyline, float64, error) {
	if tolerance <= 0 {
		tolerance = DefaultFlatness
	}
	for {
		lines, err := c.Flatten(tolerance)
		switch err {
		case nil:
			return lines, tolerance, nil
		case ErrDegenerate:
			return c.Nodes(), tolerance, err
		}
		if tolerance+flatnessStep > MaxFlatness {
			return lines, tolerance, err
		}
		tolerance += flatnessStep
	}
}
