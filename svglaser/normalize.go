package svglaser

import (
	"image"
	"image/color"
	"math"

	"github.com/benoitkugler/lasersvg/svgstyle"
	"github.com/benoitkugler/lasersvg/svgunits"
	"golang.org/x/image/draw"
)

// BBox is a rectangle in millimeters, in the frame of the segments
// (Y growing upward from the bottom of the page).
type BBox struct {
	XMin, YMin, XMax, YMax float64
}

// Width returns the horizontal extent of the box.
func (b BBox) Width() float64 { return b.XMax - b.XMin }

// Height returns the vertical extent of the box.
func (b BBox) Height() float64 { return b.YMax - b.YMin }

// union returns the smallest box enclosing a and b.
// A nil box is empty: union(nil, b) == b.
func union(a, b *BBox) *BBox {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return &BBox{
		XMin: math.Min(a.XMin, b.XMin),
		YMin: math.Min(a.YMin, b.YMin),
		XMax: math.Max(a.XMax, b.XMax),
		YMax: math.Max(a.YMax, b.YMax),
	}
}

// lineBBox returns the extent of the cut and engrave segments, or nil.
func lineBBox(segments []Segment, actions map[PathID]svgstyle.Action) *BBox {
	var out *BBox
	for _, s := range segments {
		if a := actions[s.Path]; a != svgstyle.Cut && a != svgstyle.Engrave {
			continue
		}
		box := BBox{
			XMin: math.Min(s.X1, s.X2), YMin: math.Min(s.Y1, s.Y2),
			XMax: math.Max(s.X1, s.X2), YMax: math.Max(s.Y1, s.Y2),
		}
		out = union(out, &box)
	}
	return out
}

// pixelBounds returns the smallest rectangle containing every
// non white pixel, or false for a blank image.
func pixelBounds(img *image.Gray) (image.Rectangle, bool) {
	b := img.Bounds()
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i, v := range row {
			if v == 0xFF {
				continue
			}
			x := b.Min.X + i
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			maxY = y
		}
	}
	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// rasterBBox returns the extent of the non white pixels of img, or nil.
func rasterBBox(img *image.Gray, dpi float64) *BBox {
	r, ok := pixelBounds(img)
	if !ok {
		return nil
	}
	mmpd := svgunits.MMPerInch / dpi
	height := float64(img.Bounds().Dy())
	return &BBox{
		XMin: float64(r.Min.X) * mmpd,
		YMin: (height - float64(r.Max.Y)) * mmpd,
		XMax: float64(r.Max.X) * mmpd,
		YMax: (height - float64(r.Min.Y)) * mmpd,
	}
}

// crop returns the part of img covered by box. Areas outside
// the source image are white.
func crop(img *image.Gray, dpi float64, box BBox) *image.Gray {
	dpmm := dpi / svgunits.MMPerInch
	height := float64(img.Bounds().Dy())
	src := image.Rect(
		int(math.Round(box.XMin*dpmm)), int(math.Round(height-box.YMax*dpmm)),
		int(math.Round(box.XMax*dpmm)), int(math.Round(height-box.YMin*dpmm)),
	).Add(img.Bounds().Min)
	out := image.NewGray(image.Rect(0, 0, src.Dx(), src.Dy()))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.Gray{Y: 0xFF}), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, src.Min, draw.Src)
	return out
}

// BlankRaster returns a white image covering a page of the given size,
// in millimeters.
func BlankRaster(width, height, dpi float64) *image.Gray {
	dpmm := dpi / svgunits.MMPerInch
	w, h := int(math.Ceil(width*dpmm)), int(math.Ceil(height*dpmm))
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	return img
}

// normalize crops the raster and moves the segments so that the
// content starts at the origin. It returns the final size.
func (r *Result) normalize(pageWidth, pageHeight float64) {
	box := union(rasterBBox(r.Raster, r.DPI), lineBBox(r.Segments, r.Actions))
	if box == nil {
		r.Width, r.Height = pageWidth, pageHeight
		return
	}
	r.Width, r.Height = box.Width(), box.Height()
	r.Raster = crop(r.Raster, r.DPI, *box)
	for i := range r.Segments {
		s := &r.Segments[i]
		s.X1 -= box.XMin
		s.X2 -= box.XMin
		s.Y1 -= box.YMin
		s.Y2 -= box.YMin
	}
}
