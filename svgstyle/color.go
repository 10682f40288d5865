package svgstyle

import (
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// parseColorNum reads the SVG color string e.g. #FBD9BD or #FFF
func parseColorNum(colorStr string) (r, g, b uint8, ok bool) {
	colorStr = strings.TrimPrefix(colorStr, "#")
	switch len(colorStr) {
	case 6:
	case 3:
		// SVG specs say duplicate characters in case of 3 digit hex number
		colorStr = string([]byte{colorStr[0], colorStr[0],
			colorStr[1], colorStr[1], colorStr[2], colorStr[2]})
	default:
		return 0, 0, 0, false
	}
	for _, v := range []struct {
		c *uint8
		s string
	}{
		{&r, colorStr[0:2]},
		{&g, colorStr[2:4]},
		{&b, colorStr[4:6]}} {
		t, err := strconv.ParseUint(v.s, 16, 8)
		if err != nil {
			return 0, 0, 0, false
		}
		*v.c = uint8(t)
	}
	return r, g, b, true
}

func parseColorValue(v string) (uint8, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	if v[len(v)-1] == '%' {
		n, err := strconv.ParseFloat(strings.TrimSpace(v[:len(v)-1]), 64)
		if err != nil {
			return 0, false
		}
		return clamp8(n * 0xFF / 100), true
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return clamp8(n), true
}

func clamp8(f float64) uint8 {
	if f < 0 {
		return 0
	}
	if f > 255 {
		return 255
	}
	return uint8(f + 0.5)
}

// ParseColor parses an SVG color string: #rgb, #rrggbb, rgb(r,g,b)
// (integers or percentages) and the SVG 1.1 color names.
// ok is false for anything else, including none, url(...) and currentColor.
func ParseColor(colorStr string) (c color.NRGBA, ok bool) {
	v := strings.ToLower(strings.TrimSpace(colorStr))
	if v == "" {
		return c, false
	}
	if cn, has := colornames.Map[v]; has {
		return color.NRGBA{cn.R, cn.G, cn.B, 0xFF}, true
	}
	if cStr := strings.TrimPrefix(v, "rgb("); cStr != v {
		cStr = strings.TrimSuffix(cStr, ")")
		vals := strings.Split(cStr, ",")
		if len(vals) != 3 {
			return c, false
		}
		var cvals [3]uint8
		for i := range cvals {
			if cvals[i], ok = parseColorValue(vals[i]); !ok {
				return c, false
			}
		}
		return color.NRGBA{cvals[0], cvals[1], cvals[2], 0xFF}, true
	}
	if v[0] == '#' {
		r, g, b, ok := parseColorNum(v)
		if !ok {
			return c, false
		}
		return color.NRGBA{r, g, b, 0xFF}, true
	}
	return c, false
}

// FormatColor returns the #rrggbb form of c.
func FormatColor(c color.NRGBA) string {
	const hex = "0123456789abcdef"
	return string([]byte{'#',
		hex[c.R>>4], hex[c.R&0xF],
		hex[c.G>>4], hex[c.G&0xF],
		hex[c.B>>4], hex[c.B&0xF]})
}
