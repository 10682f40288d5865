package svgraster

import (
	"context"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/benoitkugler/lasersvg/svglaser"
	"github.com/benoitkugler/lasersvg/svgpath"
	"github.com/benoitkugler/lasersvg/svgstyle"
	"github.com/benoitkugler/lasersvg/svgtree"
	"github.com/benoitkugler/lasersvg/svgunits"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
)

var _ svglaser.Rasterizer = Rasterizer{} // assert interface conformance

// maxCloneDepth bounds the nesting of use elements
const maxCloneDepth = 64

// elements never painted
var skipped = map[string]bool{
	"defs":           true,
	"style":          true,
	"metadata":       true,
	"title":          true,
	"desc":           true,
	"namedview":      true,
	"symbol":         true,
	"linearGradient": true,
	"radialGradient": true,
	"pattern":        true,
	"clipPath":       true,
	"mask":           true,
	"marker":         true,
	"filter":         true,
	"script":         true,
	// text requires fonts: use an external renderer
	"text":     true,
	"flowRoot": true,
}

// Rasterizer is the builtin renderer: it fills and strokes
// the shapes of a document with rasterx.
// Text, gradients, patterns, clipping and filters are not supported.
type Rasterizer struct{}

// Rasterize renders the page of doc on a white background.
func (Rasterizer) Rasterize(ctx context.Context, doc *svgtree.Document, dpi float64) (*image.Gray, error) {
	pg, err := svglaser.PageOf(doc)
	if err != nil {
		return nil, err
	}
	img := RasterPage(pg, dpi)
	w, h := img.Bounds().Dx(), img.Bounds().Dy()

	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	dr := drawer{ctx: ctx, doc: doc, renderer: NewRenderer(w, h, scanner), clones: map[*svgtree.Node]bool{}}
	dr.collectStyleSheets()

	dpmm := dpi / svgunits.MMPerInch
	sw, sh := pg.Scales()
	m := svgpath.Identity.Scale(dpmm*sw, dpmm*sh).Translate(-pg.ViewBox.X, -pg.ViewBox.Y)
	if err := dr.draw(doc.Root, m, DefaultStyle); err != nil {
		return nil, err
	}

	gray := image.NewGray(img.Bounds())
	draw.Draw(gray, gray.Bounds(), img, image.Point{}, draw.Src)
	return gray, nil
}

// RasterPage returns a white RGBA image covering the page
// at the given resolution.
func RasterPage(pg svglaser.Page, dpi float64) *image.RGBA {
	dpmm := dpi / svgunits.MMPerInch
	w, h := int(math.Ceil(pg.Width*dpmm)), int(math.Ceil(pg.Height*dpmm))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img
}

type drawer struct {
	ctx      context.Context
	doc      *svgtree.Document
	sheet    svgstyle.Sheet
	renderer *Renderer

	clones     map[*svgtree.Node]bool
	cloneDepth int
}

// collectStyleSheets registers every style sheet, so that
// class rules apply to the whole document.
func (dr *drawer) collectStyleSheets() {
	dr.doc.Walk(func(n *svgtree.Node) bool {
		if n.Kind() != "style" {
			return true
		}
		if t, has := n.Attr("type"); !has || t == "text/css" {
			css := n.Text
			for _, child := range n.Children {
				css += child.Tail
			}
			dr.sheet.Parse(css)
		}
		return false
	})
}

func (dr *drawer) draw(n *svgtree.Node, m svgpath.Matrix2D, parent PathStyle) error {
	if err := dr.ctx.Err(); err != nil {
		return err
	}
	if n.Name.Space != "" && n.Name.Space != svgtree.NamespaceSVG {
		return nil
	}
	kind := n.Kind()
	if skipped[kind] {
		return nil
	}
	st := pushStyle(parent, n, &dr.sheet)
	if st.hidden {
		return nil
	}
	if t, has := n.Attr("transform"); has {
		local, err := svgpath.ParseTransform(t)
		if err != nil {
			return fmt.Errorf("%s %q: invalid transform: %w", kind, n.ID(), err)
		}
		m = m.Mult(local)
	}

	switch kind {
	case "svg", "g", "switch", "a":
		return dr.children(n, m, st)
	case "use":
		return dr.clone(n, m, st)
	default:
		dr.shape(n, m, st)
		return nil
	}
}

func (dr *drawer) children(n *svgtree.Node, m svgpath.Matrix2D, st PathStyle) error {
	for _, child := range n.Children {
		if err := dr.draw(child, m, st); err != nil {
			return err
		}
	}
	return nil
}

// clone draws the target of a use element. Cycles and
// missing targets are skipped.
func (dr *drawer) clone(n *svgtree.Node, m svgpath.Matrix2D, st PathStyle) error {
	href, _ := n.Href()
	if !strings.HasPrefix(href, "#") {
		return nil
	}
	target := dr.doc.ElementByID(href[1:])
	if target == nil || dr.clones[target] || dr.cloneDepth >= maxCloneDepth {
		return nil
	}
	for p := n; p != nil; p = p.Parent {
		if p == target {
			return nil
		}
	}
	var x, y float64
	if v, has := n.Attr("x"); has {
		x, _ = svgpath.ParseLength(v)
	}
	if v, has := n.Attr("y"); has {
		y, _ = svgpath.ParseLength(v)
	}
	m = m.Translate(x, y)

	dr.clones[target] = true
	dr.cloneDepth++
	defer func() {
		delete(dr.clones, target)
		dr.cloneDepth--
	}()
	if target.Kind() == "symbol" {
		st = pushStyle(st, target, &dr.sheet)
		return dr.children(target, m, st)
	}
	return dr.draw(target, m, st)
}

// shape paints a basic shape. Malformed shapes are not painted.
func (dr *drawer) shape(n *svgtree.Node, m svgpath.Matrix2D, st PathStyle) {
	kind := n.Kind()
	path, ok, err := svgpath.ShapePath(kind, n)
	if err != nil || !ok {
		return
	}
	path = path.Transform(m)
	if st.FillColor != nil && kind != "line" {
		dr.renderer.Fill(path, st.FillColor, st.Opacity*st.FillOpacity, st.UseNonZeroWinding)
	}
	if st.StrokeColor == nil || st.StrokeWidth <= 0 {
		return
	}
	scale := math.Sqrt(math.Abs(m.Det()))
	options := StrokeOptions{
		Width:      st.StrokeWidth * scale,
		MiterLimit: st.MiterLimit,
		Join:       st.Join,
		Cap:        st.Cap,
		Gap:        st.Gap,
		DashOffset: st.DashOffset * scale,
	}
	if len(st.Dash) != 0 {
		options.Dash = make([]float64, len(st.Dash))
		for i, d := range st.Dash {
			options.Dash[i] = d * scale
		}
	}
	dr.renderer.Stroke(path, st.StrokeColor, st.Opacity*st.StrokeOpacity, options)
}
