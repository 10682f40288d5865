// Implements a raster backend to render SVG documents,
// by wrapping rasterx.
package svgraster

import (
	"image/color"

	"github.com/benoitkugler/lasersvg/svgpath"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

type Renderer struct {
	dasher *rasterx.Dasher // to avoid shared state
	filler *rasterx.Filler // we use separated instance
}

// NewRenderer returns a renderer drawing with scanner.
// In addition to rasterizing lines like a Scanner,
// it can also rasterize quadratic and cubic bezier curves.
func NewRenderer(width, height int, scanner rasterx.Scanner) *Renderer {
	return &Renderer{dasher: rasterx.NewDasher(width, height, scanner), filler: rasterx.NewFiller(width, height, scanner)}
}

func toFixed(p svgpath.Point) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(p.X * 64), Y: fixed.Int26_6(p.Y * 64)}
}

// addPath feeds the path to a rasterx adder. Open subpaths
// are stopped without closing.
func addPath(a rasterx.Adder, p svgpath.Path) {
	open := false
	for _, op := range p {
		switch op := op.(type) {
		case svgpath.MoveTo:
			if open {
				a.Stop(false)
			}
			a.Start(toFixed(svgpath.Point(op)))
			open = true
		case svgpath.LineTo:
			a.Line(toFixed(svgpath.Point(op)))
		case svgpath.QuadTo:
			a.QuadBezier(toFixed(op[0]), toFixed(op[1]))
		case svgpath.CubicTo:
			a.CubeBezier(toFixed(op[0]), toFixed(op[1]), toFixed(op[2]))
		case svgpath.Close:
			a.Stop(true)
			open = false
		}
	}
	if open {
		a.Stop(false)
	}
}

// StrokeOptions are the stroke parameters, in pixels.
type StrokeOptions struct {
	Width      float64
	MiterLimit float64
	Join       rasterx.JoinMode
	Cap        rasterx.CapFunc
	Gap        rasterx.GapFunc
	Dash       []float64
	DashOffset float64
}

var (
	joinModes = map[string]rasterx.JoinMode{
		"round":      rasterx.Round,
		"bevel":      rasterx.Bevel,
		"miter":      rasterx.Miter,
		"miter-clip": rasterx.MiterClip,
		"arc":        rasterx.Arc,
		"arcs":       rasterx.Arc,
		"arc-clip":   rasterx.ArcClip,
	}

	capFuncs = map[string]rasterx.CapFunc{
		"butt":      rasterx.ButtCap,
		"square":    rasterx.SquareCap,
		"round":     rasterx.RoundCap,
		"cubic":     rasterx.CubicCap,
		"quadratic": rasterx.QuadraticCap,
	}

	gapFuncs = map[string]rasterx.GapFunc{
		"flat":      rasterx.FlatGap,
		"round":     rasterx.RoundGap,
		"cubic":     rasterx.CubicGap,
		"quadratic": rasterx.QuadraticGap,
	}
)

// Fill paints the interior of p.
func (rd *Renderer) Fill(p svgpath.Path, c color.Color, opacity float64, useNonZeroWinding bool) {
	rd.filler.Clear()
	rd.filler.SetWinding(useNonZeroWinding)
	addPath(rd.filler, p)
	rd.filler.SetColor(rasterx.ApplyOpacity(c, opacity))
	rd.filler.Draw()
	// the scanner is shared with the dasher, which expects the default
	rd.filler.SetWinding(true)
}

// Stroke paints the outline of p.
func (rd *Renderer) Stroke(p svgpath.Path, c color.Color, opacity float64, options StrokeOptions) {
	rd.dasher.Clear()
	rd.dasher.SetStroke(
		fixed.Int26_6(options.Width*64), fixed.Int26_6(options.MiterLimit*64),
		options.Cap, options.Cap, options.Gap, options.Join,
		options.Dash, options.DashOffset,
	)
	addPath(rd.dasher, p)
	rd.dasher.SetColor(rasterx.ApplyOpacity(c, opacity))
	rd.dasher.Draw()
}
