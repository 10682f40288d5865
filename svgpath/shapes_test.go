package svgpath

import (
	"errors"
	"math"
	"testing"
)

type attrMap map[string]string

func (m attrMap) Attr(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

func TestRectCorners(t *testing.T) {
	p, ok, err := ShapePath("rect", attrMap{"x": "1", "y": "2", "width": "10", "height": "5"})
	if err != nil || !ok {
		t.Fatalf("unexpected result %v %v", ok, err)
	}
	cubics := p.Cubics()
	if len(cubics) != 1 || len(cubics[0]) != 4 {
		t.Fatalf("expected one closed subpath of 4 sides, got %v", cubics)
	}
	corners := []Point{{1, 2}, {11, 2}, {11, 7}, {1, 7}}
	for i, seg := range cubics[0] {
		if seg[0] != corners[i] || seg[3] != corners[(i+1)%4] {
			t.Errorf("side %d: %v -> %v", i, seg[0], seg[3])
		}
	}
}

func TestRoundRect(t *testing.T) {
	p, ok, err := ShapePath("rect", attrMap{"width": "10", "height": "4", "rx": "3"})
	if err != nil || !ok {
		t.Fatalf("unexpected result %v %v", ok, err)
	}
	// ry defaults to rx, then is clamped to h/2
	if start := p[0].(MoveTo); start != (MoveTo{3, 0}) {
		t.Errorf("unexpected start %v", start)
	}
	lines, err := p.Cubics().Flatten(0.001)
	if err != nil {
		t.Fatal(err)
	}
	var minX, minY, maxX, maxY = math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)
	for _, pt := range lines[0] {
		minX, minY = math.Min(minX, pt.X), math.Min(minY, pt.Y)
		maxX, maxY = math.Max(maxX, pt.X), math.Max(maxY, pt.Y)
		if pt.X > 1 && pt.X < 9 && pt.Y > 1 && pt.Y < 3 {
			t.Errorf("point %v inside the rectangle", pt)
		}
	}
	if math.Abs(minX) > 1e-9 || math.Abs(minY) > 1e-9 || math.Abs(maxX-10) > 1e-9 || math.Abs(maxY-4) > 1e-9 {
		t.Errorf("unexpected extent %v %v %v %v", minX, minY, maxX, maxY)
	}
	// the middle of the left side, at y = 2, is reached by the arcs only
	var onLeft bool
	for _, pt := range lines[0] {
		if math.Abs(pt.X) < 1e-9 && math.Abs(pt.Y-2) < 1e-9 {
			onLeft = true
		}
	}
	if !onLeft {
		t.Error("missing left extremum")
	}
}

func TestCircleFlattened(t *testing.T) {
	const (
		r = 50.
		f = 0.01
	)
	p, ok, err := ShapePath("circle", attrMap{"cx": "3", "cy": "-4", "r": "50"})
	if err != nil || !ok {
		t.Fatalf("unexpected result %v %v", ok, err)
	}
	lines, err := p.Cubics().Flatten(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected one polyline, got %d", len(lines))
	}
	line := lines[0]
	if line[0] != line[len(line)-1] {
		t.Error("circle is not closed")
	}
	if len(line) < 16 {
		t.Errorf("circle too coarse: %d points", len(line))
	}
	for _, pt := range line {
		if d := math.Hypot(pt.X-3, pt.Y+4); math.Abs(d-r) > f {
			t.Fatalf("point %v at distance %v from center", pt, d)
		}
	}
	// every angle is covered: the chord between two consecutive points
	// stays within f of the circle
	for i := 1; i < len(line); i++ {
		mid := lerp(line[i-1], line[i], 0.5)
		if d := math.Hypot(mid.X-3, mid.Y+4); r-d > 2*f {
			t.Fatalf("chord %v %v too far from the circle", line[i-1], line[i])
		}
	}
}

func TestEllipse(t *testing.T) {
	p, ok, err := ShapePath("ellipse", attrMap{"rx": "4", "ry": "2"})
	if err != nil || !ok {
		t.Fatalf("unexpected result %v %v", ok, err)
	}
	if start := p[0].(MoveTo); start != (MoveTo{4, 0}) {
		t.Errorf("unexpected start %v", start)
	}
	// r shorthand
	p, ok, err = ShapePath("ellipse", attrMap{"r": "3"})
	if err != nil || !ok {
		t.Fatalf("unexpected result %v %v", ok, err)
	}
	if start := p[0].(MoveTo); start != (MoveTo{3, 0}) {
		t.Errorf("unexpected start %v", start)
	}
}

func TestShapeErrors(t *testing.T) {
	tests := []struct {
		kind  string
		attrs attrMap
	}{
		{"rect", attrMap{"width": "1"}},
		{"circle", attrMap{"cx": "1"}},
		{"ellipse", attrMap{"rx": "1"}},
		{"line", attrMap{"x1": "0", "y1": "0", "x2": "1"}},
	}
	for _, tt := range tests {
		_, _, err := ShapePath(tt.kind, tt.attrs)
		if !errors.Is(err, ErrMissingAttribute) {
			t.Errorf("%s: expected missing attribute, got %v", tt.kind, err)
		}
	}
	if _, _, err := ShapePath("polygon", attrMap{"points": "0 0 1"}); err == nil {
		t.Error("expected error for odd points")
	}
}

func TestShapeSkipped(t *testing.T) {
	for _, tt := range []struct {
		kind  string
		attrs attrMap
	}{
		{"path", attrMap{}},
		{"polygon", attrMap{}},
		{"polyline", attrMap{}},
		{"text", attrMap{"x": "1"}},
		{"metadata", attrMap{}},
		{"rect", attrMap{"width": "0", "height": "1"}},
		{"circle", attrMap{"r": "0"}},
	} {
		p, ok, err := ShapePath(tt.kind, tt.attrs)
		if err != nil || ok || len(p) != 0 {
			t.Errorf("%s: expected skipped shape, got %v %v %v", tt.kind, p, ok, err)
		}
	}
}

func TestPolyShapes(t *testing.T) {
	p, _, err := ShapePath("polygon", attrMap{"points": "0,0 10,0 10,10"})
	if err != nil {
		t.Fatal(err)
	}
	if c := p.Cubics(); len(c[0]) != 3 || c[0][2][3] != (Point{0, 0}) {
		t.Errorf("polygon should be closed: %v", c)
	}
	p, _, err = ShapePath("polyline", attrMap{"points": "0,0 10,0 10,10"})
	if err != nil {
		t.Fatal(err)
	}
	if c := p.Cubics(); len(c[0]) != 2 {
		t.Errorf("polyline should be open: %v", c)
	}
	p, _, err = ShapePath("line", attrMap{"x1": "0", "y1": "1", "x2": "2", "y2": "3px"})
	if err != nil {
		t.Fatal(err)
	}
	if p[1] != (LineTo{2, 3}) {
		t.Errorf("unexpected line %v", p)
	}
}
