package svgstyle

import (
	"image/color"
	"strings"
)

// Action is the laser operation assigned to an element.
type Action uint8

const (
	// Raster elements are only rendered in the background image.
	Raster Action = iota
	// Cut elements are traced as vector cut lines.
	Cut
	// Engrave elements are traced as vector engrave lines.
	Engrave
)

func (a Action) String() string {
	switch a {
	case Cut:
		return "cut"
	case Engrave:
		return "engrave"
	default:
		return "raster"
	}
}

// ParseAction is the inverse of String.
func ParseAction(s string) (Action, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cut":
		return Cut, true
	case "engrave":
		return Engrave, true
	case "raster":
		return Raster, true
	}
	return Raster, false
}

// Tolerance is the maximum distance of each channel to
// pure red or pure blue.
const Tolerance = 10

// consumed is the color given to strokes traced as vectors,
// so that they are not rendered again in the raster.
var consumed = color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF}

// Classify maps a stroke color to an action. Red strokes are cut,
// blue strokes are engraved, and both are replaced by white, with changed set to true.
// Any other color is left untouched and gives Raster.
func Classify(c color.NRGBA) (action Action, out color.NRGBA, changed bool) {
	const delta = Tolerance
	switch {
	case c.R >= 255-delta && c.G <= delta && c.B <= delta:
		return Cut, consumed, true
	case c.R <= delta && c.G <= delta && c.B >= 255-delta:
		return Engrave, consumed, true
	}
	return Raster, c, false
}

// ClassifyString is the same as Classify for a stroke value.
// Values which are not colors (none, url(...)) are Raster
// and returned unchanged.
func ClassifyString(stroke string) (action Action, out string, changed bool) {
	c, ok := ParseColor(stroke)
	if !ok {
		return Raster, stroke, false
	}
	action, c, changed = Classify(c)
	if !changed {
		return Raster, stroke, false
	}
	return action, FormatColor(c), true
}
