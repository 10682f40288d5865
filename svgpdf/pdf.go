// Implements a PDF preview of laser data,
// by wrapping github.com/jung-kurt/gofpdf.
package svgpdf

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/benoitkugler/lasersvg/svglaser"
	"github.com/jung-kurt/gofpdf"
)

var (
	// CutColor is the color of the cut lines
	CutColor = color.NRGBA{R: 0xFF, A: 0xFF}
	// EngraveColor is the color of the engrave lines
	EngraveColor = color.NRGBA{B: 0xFF, A: 0xFF}
)

// LineWidth is the width of the vector lines, in millimeters
const LineWidth = 0.1

const rasterName = "raster"

type Renderer struct {
	pdf    *gofpdf.Fpdf
	height float64 // of the page, to flip the Y axis
}

// NewRenderer return a renderer which will
// write to the given `pdf`, whose current page has the given height.
// Units of `pdf` must be millimeters.
func NewRenderer(pdf *gofpdf.Fpdf, height float64) Renderer {
	return Renderer{pdf: pdf, height: height}
}

// DrawRaster draws img covering the rectangle (0, 0, width, height).
func (r Renderer) DrawRaster(img image.Image, width, height float64) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	r.pdf.RegisterImageOptionsReader(rasterName, opts, &buf)
	r.pdf.ImageOptions(rasterName, 0, 0, width, height, false, opts, 0, "")
	return r.pdf.Error()
}

// DrawLines strokes the segments (x1, y1, x2, y2), given with
// Y growing upward. Consecutive segments sharing an end point
// are drawn as one path.
func (r Renderer) DrawLines(lines [][4]float64, c color.NRGBA) {
	if len(lines) == 0 {
		return
	}
	r.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	r.pdf.SetLineWidth(LineWidth)
	r.pdf.SetLineCapStyle("round")
	r.pdf.SetLineJoinStyle("round")
	for i, l := range lines {
		if i == 0 || lines[i-1][2] != l[0] || lines[i-1][3] != l[1] {
			if i != 0 {
				r.pdf.DrawPath("D")
			}
			r.pdf.MoveTo(l[0], r.height-l[1])
		}
		r.pdf.LineTo(l[2], r.height-l[3])
	}
	r.pdf.DrawPath("D")
}

// Write renders res as a one page PDF sized to its content:
// the raster background, then the engrave and cut lines.
func Write(w io.Writer, res *svglaser.Result) error {
	if res.Width <= 0 || res.Height <= 0 {
		return errors.New("svgpdf: empty page")
	}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: res.Width, Ht: res.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	r := NewRenderer(pdf, res.Height)
	if res.Raster != nil && !res.Raster.Bounds().Empty() {
		if err := r.DrawRaster(res.Raster, res.Width, res.Height); err != nil {
			return err
		}
	}
	r.DrawLines(res.EngraveLines(), EngraveColor)
	r.DrawLines(res.CutLines(), CutColor)
	return pdf.Output(w)
}
