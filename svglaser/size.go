package svglaser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/benoitkugler/lasersvg/svgpath"
	"github.com/benoitkugler/lasersvg/svgtree"
	"github.com/benoitkugler/lasersvg/svgunits"
)

// ViewBox is the user space rectangle mapped to the page.
type ViewBox struct {
	X, Y, W, H float64
}

func (vb ViewBox) String() string {
	return fmt.Sprintf("%f %f %f %f", vb.X, vb.Y, vb.W, vb.H)
}

func parseViewBox(s string) (ViewBox, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) != 4 {
		return ViewBox{}, fmt.Errorf("invalid viewBox %q", s)
	}
	var v [4]float64
	for i, f := range fields {
		var err error
		if v[i], err = strconv.ParseFloat(f, 64); err != nil {
			return ViewBox{}, fmt.Errorf("invalid viewBox %q: %s", s, err)
		}
	}
	return ViewBox{v[0], v[1], v[2], v[3]}, nil
}

// Page is the physical size of a document, in millimeters,
// and the user space rectangle it displays.
type Page struct {
	Width, Height float64
	ViewBox       ViewBox
}

// PageOf reads the size of the document from its root element.
// It returns ErrUnsupportedSize if the viewBox is missing or the
// width and height have no physical unit, and ErrNonUniformScale if the
// horizontal and vertical scales are not the same.
func PageOf(doc *svgtree.Document) (Page, error) {
	root := doc.Root
	vbStr, hasVB := root.Attr("viewBox")
	wStr, _ := root.Attr("width")
	hStr, _ := root.Attr("height")
	w, okW := svgunits.ToMM(wStr)
	h, okH := svgunits.ToMM(hStr)
	if !hasVB || !okW || !okH {
		return Page{}, ErrUnsupportedSize
	}
	vb, err := parseViewBox(vbStr)
	if err != nil {
		return Page{}, fmt.Errorf("%w (%s)", ErrUnsupportedSize, err)
	}
	if vb.W == 0 || vb.H == 0 {
		return Page{}, fmt.Errorf("%w (empty viewBox)", ErrUnsupportedSize)
	}
	pg := Page{Width: w, Height: h, ViewBox: vb}
	sw, sh := pg.Scales()
	if math.Abs(1-sh/sw) > 0.01 {
		return Page{}, ErrNonUniformScale
	}
	return pg, nil
}

// Scales returns the millimeters per user unit.
func (pg Page) Scales() (sw, sh float64) {
	return pg.Width / pg.ViewBox.W, pg.Height / pg.ViewBox.H
}

// matrix maps user space to the page, in millimeters,
// with Y growing upward from the bottom of the page.
func (pg Page) matrix() svgpath.Matrix2D {
	sw, sh := pg.Scales()
	return svgpath.Matrix2D{
		A: sw, B: 0,
		C: 0, D: -sh,
		E: -pg.ViewBox.X * sw, F: pg.Height + pg.ViewBox.Y*sh,
	}
}

// SetPhysicalSize sets the width and height of the document in millimeters,
// interpreting user units as pixels at pxpi pixels per inch.
// When the document has no viewBox, one is derived from its width and
// height attributes, read as pixels.
func SetPhysicalSize(doc *svgtree.Document, pxpi float64) error {
	if pxpi <= 0 {
		return fmt.Errorf("invalid pixels per inch %g", pxpi)
	}
	root := doc.Root
	var vb ViewBox
	if s, ok := root.Attr("viewBox"); ok {
		var err error
		if vb, err = parseViewBox(s); err != nil {
			return fmt.Errorf("%w (%s)", ErrUnsupportedSize, err)
		}
	} else {
		wStr, _ := root.Attr("width")
		hStr, _ := root.Attr("height")
		w, okW := svgunits.ToPx(wStr)
		h, okH := svgunits.ToPx(hStr)
		if !okW || !okH {
			return ErrUnsupportedSize
		}
		vb = ViewBox{0, 0, w, h}
	}
	root.SetAttr("width", fmt.Sprintf("%fmm", vb.W/pxpi*svgunits.MMPerInch))
	root.SetAttr("height", fmt.Sprintf("%fmm", vb.H/pxpi*svgunits.MMPerInch))
	root.SetAttr("viewBox", vb.String())
	return nil
}
