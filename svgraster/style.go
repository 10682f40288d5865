package svgraster

import (
	"image/color"
	"strings"

	"github.com/benoitkugler/lasersvg/svgpath"
	"github.com/benoitkugler/lasersvg/svgstyle"
	"github.com/benoitkugler/lasersvg/svgtree"
	"github.com/srwiley/rasterx"
)

// PathStyle holds the painting properties of an element.
// Colors are nil for "none".
type PathStyle struct {
	FillColor, StrokeColor color.Color

	// Opacity is the product of the opacity of the element
	// and its ancestors.
	Opacity, FillOpacity, StrokeOpacity float64

	UseNonZeroWinding bool

	StrokeWidth float64 // in user units
	MiterLimit  float64
	Join        rasterx.JoinMode
	Cap         rasterx.CapFunc
	Gap         rasterx.GapFunc
	Dash        []float64
	DashOffset  float64

	hidden bool
}

// DefaultStyle is the initial style of an SVG document.
var DefaultStyle = PathStyle{
	FillColor:         color.Black,
	Opacity:           1,
	FillOpacity:       1,
	StrokeOpacity:     1,
	UseNonZeroWinding: true,
	StrokeWidth:       1,
	MiterLimit:        4,
	Join:              rasterx.Miter,
	Cap:               rasterx.ButtCap,
	Gap:               rasterx.FlatGap,
}

// readPaint returns the color for v, which may be "none".
// Paint servers are not supported and are rendered black.
func readPaint(v string) color.Color {
	switch v = strings.TrimSpace(v); {
	case v == "none":
		return nil
	case strings.HasPrefix(v, "url("):
		return color.Black
	}
	if c, ok := svgstyle.ParseColor(v); ok {
		return c
	}
	return color.Black
}

func readFraction(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	d := 1.0
	if strings.HasSuffix(v, "%") {
		d = 100
		v = strings.TrimSuffix(v, "%")
	}
	f, err := svgpath.ParseLength(v)
	if err != nil {
		return 0, false
	}
	return f / d, true
}

// readStyleAttr updates curStyle with one property.
// Invalid values are ignored.
func readStyleAttr(curStyle *PathStyle, k, v string) {
	switch k {
	case "fill":
		curStyle.FillColor = readPaint(v)
	case "stroke":
		curStyle.StrokeColor = readPaint(v)
	case "fill-rule":
		curStyle.UseNonZeroWinding = v != "evenodd"
	case "stroke-linegap":
		if gap, ok := gapFuncs[v]; ok {
			curStyle.Gap = gap
		}
	case "stroke-linecap":
		if c, ok := capFuncs[v]; ok {
			curStyle.Cap = c
		}
	case "stroke-linejoin":
		if j, ok := joinModes[v]; ok {
			curStyle.Join = j
			if j == rasterx.Round {
				curStyle.Gap = rasterx.RoundGap
			}
		}
	case "stroke-miterlimit":
		if mLimit, err := svgpath.ParseLength(v); err == nil {
			curStyle.MiterLimit = mLimit
		}
	case "stroke-width":
		if width, err := svgpath.ParseLength(v); err == nil {
			curStyle.StrokeWidth = width
		}
	case "stroke-dashoffset":
		if dashOffset, err := svgpath.ParseLength(v); err == nil {
			curStyle.DashOffset = dashOffset
		}
	case "stroke-dasharray":
		if v == "none" {
			curStyle.Dash = nil
		} else if dashes, err := svgpath.ParseList(v); err == nil {
			curStyle.Dash = dashes
		}
	case "opacity":
		if op, ok := readFraction(v); ok {
			curStyle.Opacity *= op
		}
	case "fill-opacity":
		if op, ok := readFraction(v); ok {
			curStyle.FillOpacity = op
		}
	case "stroke-opacity":
		if op, ok := readFraction(v); ok {
			curStyle.StrokeOpacity = op
		}
	case "display":
		curStyle.hidden = v == "none"
	}
}

// pushStyle returns the style of n, given the style of its parent.
// Presentation attributes come first, then class rules, then the style attribute.
func pushStyle(parent PathStyle, n *svgtree.Node, sheet *svgstyle.Sheet) PathStyle {
	curStyle := parent
	curStyle.hidden = false
	for _, attr := range n.Attrs {
		if attr.Name.Space != "" {
			continue
		}
		switch k := attr.Name.Local; k {
		case "style", "class":
		default:
			readStyleAttr(&curStyle, k, strings.TrimSpace(attr.Value))
		}
	}
	var decls svgstyle.Declarations
	if class, ok := n.Attr("class"); ok {
		decls = svgstyle.ParseDeclarations(sheet.ClassDeclarations(n.Kind(), class))
	}
	if style, ok := n.Attr("style"); ok {
		decls = append(decls, svgstyle.ParseDeclarations(style)...)
	}
	for _, decl := range decls {
		readStyleAttr(&curStyle, decl.Property, decl.Value)
	}
	return curStyle
}
