package svglaser

import (
	"image"

	"github.com/benoitkugler/lasersvg/svgstyle"
)

// PathID identifies a visited shape. IDs are attributed
// in traversal order, starting at 1.
type PathID int

// DefaultLayer is the layer of the elements outside any layer group.
const DefaultLayer = "0"

// Segment is a straight line, in millimeters.
type Segment struct {
	X1, Y1, X2, Y2 float64

	Path  PathID
	Layer string
}

// Line returns the coordinates of the segment.
func (s Segment) Line() [4]float64 { return [4]float64{s.X1, s.Y1, s.X2, s.Y2} }

// Result is the laser data extracted from a document.
// Coordinates are in millimeters, with the origin at the bottom left
// corner of the content bounding box and Y growing upward.
type Result struct {
	// Segments are the vector lines (cut and engrave), in traversal order.
	Segments []Segment
	// Actions records the classification of every visited shape.
	Actions map[PathID]svgstyle.Action

	// Raster is the background image, cropped to the content.
	Raster *image.Gray
	DPI    float64

	// Width and Height are the size of the content, in millimeters.
	Width, Height float64

	// Layers are the names of the layers found in the document.
	Layers []string
}

// Action returns the classification of the segment.
func (r *Result) Action(s Segment) svgstyle.Action { return r.Actions[s.Path] }

func (r *Result) linesOf(action svgstyle.Action) [][4]float64 {
	var out [][4]float64
	for _, s := range r.Segments {
		if r.Actions[s.Path] == action {
			out = append(out, s.Line())
		}
	}
	return out
}

// CutLines returns the segments to cut, as (x1, y1, x2, y2).
func (r *Result) CutLines() [][4]float64 { return r.linesOf(svgstyle.Cut) }

// EngraveLines returns the segments to engrave, as (x1, y1, x2, y2).
func (r *Result) EngraveLines() [][4]float64 { return r.linesOf(svgstyle.Engrave) }
