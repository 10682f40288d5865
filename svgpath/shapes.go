package svgpath

import (
	"errors"
	"fmt"
	"math"
)

// This file implements the transformation from
// high level shapes to their path equivalent

// ErrMissingAttribute is returned when a shape lacks
// one of its required geometric attributes.
var ErrMissingAttribute = errors.New("missing required attribute")

// maxDx is the maximum radians a cubic splice is allowed to span
// in ellipse parametric when approximating an off-axis ellipse.
const maxDx float64 = math.Pi / 8

// Attributes gives access to the attributes of an element.
type Attributes interface {
	Attr(name string) (string, bool)
}

// floatAttr reads an optional attribute, defaulting to 0
func floatAttr(attrs Attributes, name string) (float64, error) {
	v, ok := attrs.Attr(name)
	if !ok {
		return 0, nil
	}
	return parseFloat(v, 64)
}

// requiredAttrs reads the given attributes, which must all be present
func requiredAttrs(kind string, attrs Attributes, names ...string) ([]float64, error) {
	out := make([]float64, len(names))
	for i, name := range names {
		v, ok := attrs.Attr(name)
		if !ok {
			return nil, fmt.Errorf("%s: %w %q", kind, ErrMissingAttribute, name)
		}
		f, err := parseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid %s: %s", kind, name, err)
		}
		out[i] = f
	}
	return out, nil
}

// ShapePath converts the geometry of an element of the given kind to a Path,
// in the element user space.
// ok is false when the element produces no geometry: unknown kinds,
// path without d, polygon or polyline without points, zero sized shapes.
// A missing required attribute (rect size, circle and ellipse radii, line
// end points) is an error wrapping ErrMissingAttribute.
func ShapePath(kind string, attrs Attributes) (p Path, ok bool, err error) {
	switch kind {
	case "rect":
		return rectPath(attrs)
	case "circle", "ellipse":
		return ellipsePath(kind, attrs)
	case "line":
		v, err := requiredAttrs(kind, attrs, "x1", "y1", "x2", "y2")
		if err != nil {
			return nil, false, err
		}
		p.Start(Point{v[0], v[1]})
		p.Line(Point{v[2], v[3]})
		return p, true, nil
	case "polyline", "polygon":
		points, has := attrs.Attr("points")
		if !has {
			return nil, false, nil
		}
		p, err = polyPath(points, kind == "polygon")
		return p, err == nil && len(p) > 0, err
	case "path":
		d, has := attrs.Attr("d")
		if !has {
			return nil, false, nil
		}
		p, err = ParsePath(d)
		if err != nil {
			return nil, false, fmt.Errorf("path: invalid d attribute: %s", err)
		}
		return p, len(p) > 0, nil
	default:
		return nil, false, nil
	}
}

func rectPath(attrs Attributes) (p Path, ok bool, err error) {
	size, err := requiredAttrs("rect", attrs, "width", "height")
	if err != nil {
		return nil, false, err
	}
	w, h := size[0], size[1]
	var x, y, rx, ry float64
	for _, v := range []struct {
		f    *float64
		name string
	}{{&x, "x"}, {&y, "y"}, {&rx, "rx"}, {&ry, "ry"}} {
		if *v.f, err = floatAttr(attrs, v.name); err != nil {
			return nil, false, fmt.Errorf("rect: invalid %s: %s", v.name, err)
		}
	}
	if w == 0 || h == 0 { // not drawn, but not an error
		return nil, false, nil
	}
	p.addRoundRect(x, y, x+w, y+h, rx, ry)
	return p, true, nil
}

func ellipsePath(kind string, attrs Attributes) (p Path, ok bool, err error) {
	cx, err := floatAttr(attrs, "cx")
	if err != nil {
		return nil, false, err
	}
	cy, err := floatAttr(attrs, "cy")
	if err != nil {
		return nil, false, err
	}
	// an ellipse accepts r as a shorthand for both radii
	radius := func(name string) (float64, error) {
		if _, has := attrs.Attr(name); !has || kind == "circle" {
			name = "r"
		}
		v, err := requiredAttrs(kind, attrs, name)
		if err != nil {
			return 0, err
		}
		return v[0], nil
	}
	rx, err := radius("rx")
	if err != nil {
		return nil, false, err
	}
	ry, err := radius("ry")
	if err != nil {
		return nil, false, err
	}
	if rx <= 0 || ry <= 0 { // not drawn, but not an error
		return nil, false, nil
	}
	p.ellipseAt(cx, cy, rx, ry)
	return p, true, nil
}

func polyPath(points string, closed bool) (Path, error) {
	var c pathCursor
	if err := c.getPoints(points, false); err != nil {
		return nil, err
	}
	if len(c.points)%2 != 0 {
		return nil, errors.New("polygon has odd number of points")
	}
	var p Path
	if len(c.points) == 0 {
		return p, nil
	}
	p.Start(Point{c.points[0], c.points[1]})
	for i := 2; i < len(c.points)-1; i += 2 {
		p.Line(Point{c.points[i], c.points[i+1]})
	}
	p.Stop(closed)
	return p, nil
}

// addRect adds a closed rectangle.
func (p *Path) addRect(minX, minY, maxX, maxY float64) {
	p.Start(Point{minX, minY})
	p.Line(Point{maxX, minY})
	p.Line(Point{maxX, maxY})
	p.Line(Point{minX, maxY})
	p.Stop(true)
}

// addRoundRect adds a rectangle with rounded corners of radius
// rx in the x axis and ry in the y axis. When only one radius is
// positive, it is used for both. Each corner is one elliptical arc.
func (p *Path) addRoundRect(minX, minY, maxX, maxY, rx, ry float64) {
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx <= 0 && ry <= 0 {
		p.addRect(minX, minY, maxX, maxY)
		return
	}
	if rx == 0 {
		rx = ry
	} else if ry == 0 {
		ry = rx
	}
	if w := math.Abs(maxX - minX); rx > w/2 {
		rx = w / 2
	}
	if h := math.Abs(maxY - minY); ry > h/2 {
		ry = h / 2
	}

	corner := func(from, to Point) {
		p.arcTo(from, rx, ry, 0, false, true, to)
	}
	p.Start(Point{minX + rx, minY})
	p.Line(Point{maxX - rx, minY})
	corner(Point{maxX - rx, minY}, Point{maxX, minY + ry})
	p.Line(Point{maxX, maxY - ry})
	corner(Point{maxX, maxY - ry}, Point{maxX - rx, maxY})
	p.Line(Point{minX + rx, maxY})
	corner(Point{minX + rx, maxY}, Point{minX, maxY - ry})
	p.Line(Point{minX, minY + ry})
	corner(Point{minX, minY + ry}, Point{minX + rx, minY})
	p.Stop(true)
}

// ellipseAt adds a full ellipse, as four quarter arcs
// starting at (cx+rx, cy).
func (p *Path) ellipseAt(cx, cy, rx, ry float64) {
	quarters := [...]Point{
		{cx + rx, cy},
		{cx, cy + ry},
		{cx - rx, cy},
		{cx, cy - ry},
		{cx + rx, cy},
	}
	p.Start(quarters[0])
	for i := 1; i < len(quarters); i++ {
		p.arcTo(quarters[i-1], rx, ry, 0, false, true, quarters[i])
	}
	p.Stop(true)
}

// arcTo adds the SVG elliptical arc from `from` to `to`, with
// rotation rotDeg in degrees, and returns the end point.
// Degenerate radii give a straight line, as specified by SVG.
func (p *Path) arcTo(from Point, rx, ry, rotDeg float64, largeArc, sweep bool, to Point) Point {
	if from == to {
		return to
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		p.Line(to)
		return to
	}
	cx, cy := findEllipseCenter(&rx, &ry, rotDeg*math.Pi/180, from.X, from.Y, to.X, to.Y, !sweep, !largeArc)
	points := []float64{rx, ry, rotDeg, boolToFloat(largeArc), boolToFloat(sweep), to.X, to.Y}
	lx, ly := p.addArc(points, cx, cy, from.X, from.Y)
	return Point{lx, ly}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// addArc adds an arc to the adder p
func (p *Path) addArc(points []float64, cx, cy, px, py float64) (lx, ly float64) {
	rotX := points[2] * math.Pi / 180 // Convert degress to radians
	largeArc := points[3] != 0
	sweep := points[4] != 0
	startAngle := math.Atan2(py-cy, px-cx) - rotX
	endAngle := math.Atan2(points[6]-cy, points[5]-cx) - rotX
	deltaTheta := endAngle - startAngle
	arcBig := math.Abs(deltaTheta) > math.Pi

	// Approximate ellipse using cubic bezeir splines
	etaStart := math.Atan2(math.Sin(startAngle)/points[1], math.Cos(startAngle)/points[0])
	etaEnd := math.Atan2(math.Sin(endAngle)/points[1], math.Cos(endAngle)/points[0])
	deltaEta := etaEnd - etaStart
	if arcBig != largeArc {
		if deltaEta < 0 {
			deltaEta += math.Pi * 2
		} else {
			deltaEta -= math.Pi * 2
		}
	}
	// This check might be needed if the center point of the elipse is
	// at the midpoint of the start and end lines.
	if deltaEta < 0 && sweep {
		deltaEta += math.Pi * 2
	} else if deltaEta >= 0 && !sweep {
		deltaEta -= math.Pi * 2
	}

	// Round up to determine number of cubic splines to approximate bezier curve
	segs := int(math.Abs(deltaEta)/maxDx) + 1
	dEta := deltaEta / float64(segs) // span of each segment
	// Approximate the ellipse using a set of cubic bezier curves by the method of
	// L. Maisonobe, "Drawing an elliptical arc using polylines, quadratic
	// or cubic Bezier curves", 2003
	// https://www.spaceroots.org/documents/elllipse/elliptical-arc.pdf
	tde := math.Tan(dEta / 2)
	alpha := math.Sin(dEta) * (math.Sqrt(4+3*tde*tde) - 1) / 3 // Math is fun!
	lx, ly = px, py
	sinTheta, cosTheta := math.Sin(rotX), math.Cos(rotX)
	ldx, ldy := ellipsePrime(points[0], points[1], sinTheta, cosTheta, etaStart, cx, cy)
	for i := 1; i <= segs; i++ {
		eta := etaStart + dEta*float64(i)
		var px, py float64
		if i == segs {
			px, py = points[5], points[6] // Just makes the end point exact; no roundoff error
		} else {
			px, py = ellipsePointAt(points[0], points[1], sinTheta, cosTheta, eta, cx, cy)
		}
		dx, dy := ellipsePrime(points[0], points[1], sinTheta, cosTheta, eta, cx, cy)
		p.CubeBezier(Point{lx + alpha*ldx, ly + alpha*ldy},
			Point{px - alpha*dx, py - alpha*dy}, Point{px, py})
		lx, ly, ldx, ldy = px, py, dx, dy
	}
	return lx, ly
}

// ellipsePrime gives tangent vectors for parameterized elipse; a, b, radii, eta parameter, center cx, cy
func ellipsePrime(a, b, sinTheta, cosTheta, eta, cx, cy float64) (px, py float64) {
	bCosEta := b * math.Cos(eta)
	aSinEta := a * math.Sin(eta)
	px = -aSinEta*cosTheta - bCosEta*sinTheta
	py = -aSinEta*sinTheta + bCosEta*cosTheta
	return
}

// ellipsePointAt gives points for parameterized elipse; a, b, radii, eta parameter, center cx, cy
func ellipsePointAt(a, b, sinTheta, cosTheta, eta, cx, cy float64) (px, py float64) {
	aCosEta := a * math.Cos(eta)
	bSinEta := b * math.Sin(eta)
	px = cx + aCosEta*cosTheta - bSinEta*sinTheta
	py = cy + aCosEta*sinTheta + bSinEta*cosTheta
	return
}

// findEllipseCenter locates the center of the Ellipse if it exists. If it does not exist,
// the radius values will be increased minimally for a solution to be possible
// while preserving the ra to rb ratio.  ra and rb arguments are pointers that can be
// checked after the call to see if the values changed. This method uses coordinate transformations
// to reduce the problem to finding the center of a circle that includes the origin
// and an arbitrary point. The center of the circle is then transformed
// back to the original coordinates and returned.
func findEllipseCenter(ra, rb *float64, rotX, startX, startY, endX, endY float64, sweep, smallArc bool) (cx, cy float64) {
	cos, sin := math.Cos(rotX), math.Sin(rotX)

	// Move origin to start point
	nx, ny := endX-startX, endY-startY

	// Rotate ellipse x-axis to coordinate x-axis
	nx, ny = nx*cos+ny*sin, -nx*sin+ny*cos
	// Scale X dimension so that ra = rb
	nx *= *rb / *ra // Now the ellipse is a circle radius rb; therefore foci and center coincide

	midX, midY := nx/2, ny/2
	midlenSq := midX*midX + midY*midY

	var hr float64
	if *rb**rb < midlenSq {
		// Requested ellipse does not exist; scale ra, rb to fit. Length of
		// span is greater than max width of ellipse, must scale *ra, *rb
		nrb := math.Sqrt(midlenSq)
		if *ra == *rb {
			*ra = nrb // prevents roundoff
		} else {
			*ra = *ra * nrb / *rb
		}
		*rb = nrb
	} else {
		hr = math.Sqrt(*rb**rb-midlenSq) / math.Sqrt(midlenSq)
	}
	// Notice that if hr is zero, both answers are the same.
	if (sweep && smallArc) || (!sweep && !smallArc) {
		cx = midX + midY*hr
		cy = midY - midX*hr
	} else {
		cx = midX - midY*hr
		cy = midY + midX*hr
	}

	// reverse scale
	cx *= *ra / *rb
	//Reverse rotate and translate back to original coordinates
	return cx*cos - cy*sin + startX, cx*sin + cy*cos + startY
}
