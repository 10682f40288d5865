// Implements the conversion of SVG length strings
// (as found in width and height attributes) to physical units.
package svgunits

import (
	"regexp"
	"strconv"
	"strings"
)

// millimeters per unit
var unitToMM = map[string]float64{
	"in": 25.4,
	"pt": 25.4 / 72,
	"mm": 1,
	"cm": 10,
	"m":  1000,
	"km": 1000 * 1000,
	"pc": 25.4 / 6,
	"yd": 25.4 * 36,
	"ft": 25.4 * 12,
}

// longest suffixes first, so that "cm" is not read as "m"
var unitSuffixes = []string{"in", "pt", "mm", "cm", "km", "pc", "yd", "ft", "m"}

var numberPrefix = regexp.MustCompile(`^[-+]?([0-9]+(\.[0-9]*)?|\.[0-9]+)([eE][-+]?[0-9]+)?`)

// ToMM parses a length with a physical unit suffix and returns
// its value in millimeters. Spaces are ignored.
// ok is false when the string has no leading number or no known
// unit suffix: unitless and px lengths are not physical.
func ToMM(s string) (mm float64, ok bool) {
	s = strings.ReplaceAll(s, " ", "")
	num := numberPrefix.FindString(s)
	if num == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	for _, unit := range unitSuffixes {
		if strings.HasSuffix(s, unit) {
			return v * unitToMM[unit], true
		}
	}
	return 0, false
}

// ToPx parses a length in pixels: an optional "px" suffix is removed
// and the rest must be a plain number.
func ToPx(s string) (px float64, ok bool) {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "px", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// MMPerInch is the number of millimeters in one inch.
const MMPerInch = 25.4
