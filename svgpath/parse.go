package svgpath

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ErrParamMismatch is returned for badly formed path data or transforms.
var ErrParamMismatch = errors.New("param mismatch")

// pathCursor is used while parsing path data
type pathCursor struct {
	path                   Path
	placeX, placeY         float64
	cntlPtX, cntlPtY       float64
	pathStartX, pathStartY float64
	points                 []float64
	lastKey                uint8
	inPath                 bool
}

func isSeparator(b byte) bool {
	return b == ',' || b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

// readNumber reads the float at the start of s, without separators,
// and returns the number of bytes consumed.
func readNumber(s string) (float64, int, error) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits, dot := 0, false
	for ; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			digits++
		} else if c == '.' && !dot {
			dot = true
		} else {
			break
		}
	}
	if digits == 0 {
		return 0, 0, ErrParamMismatch
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && s[k] >= '0' && s[k] <= '9' {
			k++
		}
		if k > j { // only accept a complete exponent
			i = k
		}
	}
	f, err := strconv.ParseFloat(s[:i], 64)
	return f, i, err
}

// getPoints reads a list of numbers, separated by commas, spaces,
// or nothing at all, as in "10-5.5.5". When arcFlags is true,
// the 4th and 5th numbers of each group of 7 are single 0/1 flags,
// which may be written without separators.
func (c *pathCursor) getPoints(dataPoints string, arcFlags bool) error {
	c.points = c.points[:0]
	s := dataPoints
	for {
		for len(s) > 0 && isSeparator(s[0]) {
			s = s[1:]
		}
		if len(s) == 0 {
			return nil
		}
		if arcFlags {
			if k := len(c.points) % 7; k == 3 || k == 4 {
				switch s[0] {
				case '0':
					c.points = append(c.points, 0)
				case '1':
					c.points = append(c.points, 1)
				default:
					return ErrParamMismatch
				}
				s = s[1:]
				continue
			}
		}
		f, n, err := readNumber(s)
		if err != nil {
			return err
		}
		c.points = append(c.points, f)
		s = s[n:]
	}
}

// reflectControl gives the control point used by the smooth
// commands S and T.
func (c *pathCursor) reflectControl(curves string) (float64, float64) {
	if strings.IndexByte(curves, c.lastKey) != -1 {
		return c.placeX*2 - c.cntlPtX, c.placeY*2 - c.cntlPtY
	}
	return c.placeX, c.placeY
}

func (c *pathCursor) moveTo(x, y float64) {
	c.path.Start(Point{x, y})
	c.placeX, c.placeY = x, y
	c.pathStartX, c.pathStartY = x, y
	c.inPath = true
}

func (c *pathCursor) lineTo(x, y float64) {
	c.path.Line(Point{x, y})
	c.placeX, c.placeY = x, y
}

func (c *pathCursor) addSeg(segString string) error {
	k := segString[0]
	err := c.getPoints(segString[1:], k == 'a' || k == 'A')
	if err != nil {
		return err
	}
	l := len(c.points)
	rel := unicode.IsLower(rune(k))
	var dx, dy float64
	if rel {
		dx, dy = c.placeX, c.placeY
	}
	// implicit start when a path does not begin with a move
	if !c.inPath && k != 'M' && k != 'm' {
		c.moveTo(c.placeX, c.placeY)
	}
	switch k {
	case 'Z', 'z':
		if l != 0 {
			return ErrParamMismatch
		}
		c.path.Stop(true)
		c.placeX, c.placeY = c.pathStartX, c.pathStartY
	case 'M', 'm':
		if l < 2 || l%2 != 0 {
			return ErrParamMismatch
		}
		c.moveTo(c.points[0]+dx, c.points[1]+dy)
		for i := 2; i < l; i += 2 {
			if rel {
				dx, dy = c.placeX, c.placeY
			}
			c.lineTo(c.points[i]+dx, c.points[i+1]+dy)
		}
	case 'L', 'l':
		if l == 0 || l%2 != 0 {
			return ErrParamMismatch
		}
		for i := 0; i < l; i += 2 {
			if rel {
				dx, dy = c.placeX, c.placeY
			}
			c.lineTo(c.points[i]+dx, c.points[i+1]+dy)
		}
	case 'H', 'h':
		if l == 0 {
			return ErrParamMismatch
		}
		for _, x := range c.points {
			if rel {
				dx = c.placeX
			}
			c.lineTo(x+dx, c.placeY)
		}
	case 'V', 'v':
		if l == 0 {
			return ErrParamMismatch
		}
		for _, y := range c.points {
			if rel {
				dy = c.placeY
			}
			c.lineTo(c.placeX, y+dy)
		}
	case 'Q', 'q':
		if l == 0 || l%4 != 0 {
			return ErrParamMismatch
		}
		for i := 0; i < l; i += 4 {
			if rel {
				dx, dy = c.placeX, c.placeY
			}
			c.cntlPtX, c.cntlPtY = c.points[i]+dx, c.points[i+1]+dy
			c.placeX, c.placeY = c.points[i+2]+dx, c.points[i+3]+dy
			c.path.QuadBezier(Point{c.cntlPtX, c.cntlPtY}, Point{c.placeX, c.placeY})
		}
	case 'T', 't':
		if l == 0 || l%2 != 0 {
			return ErrParamMismatch
		}
		for i := 0; i < l; i += 2 {
			if rel {
				dx, dy = c.placeX, c.placeY
			}
			c.cntlPtX, c.cntlPtY = c.reflectControl("QqTt")
			c.placeX, c.placeY = c.points[i]+dx, c.points[i+1]+dy
			c.path.QuadBezier(Point{c.cntlPtX, c.cntlPtY}, Point{c.placeX, c.placeY})
			c.lastKey = k // chained smooth segments reflect each other
		}
	case 'C', 'c':
		if l == 0 || l%6 != 0 {
			return ErrParamMismatch
		}
		for i := 0; i < l; i += 6 {
			if rel {
				dx, dy = c.placeX, c.placeY
			}
			b := Point{c.points[i] + dx, c.points[i+1] + dy}
			c.cntlPtX, c.cntlPtY = c.points[i+2]+dx, c.points[i+3]+dy
			c.placeX, c.placeY = c.points[i+4]+dx, c.points[i+5]+dy
			c.path.CubeBezier(b, Point{c.cntlPtX, c.cntlPtY}, Point{c.placeX, c.placeY})
		}
	case 'S', 's':
		if l == 0 || l%4 != 0 {
			return ErrParamMismatch
		}
		for i := 0; i < l; i += 4 {
			if rel {
				dx, dy = c.placeX, c.placeY
			}
			bx, by := c.reflectControl("CcSs")
			c.cntlPtX, c.cntlPtY = c.points[i]+dx, c.points[i+1]+dy
			c.placeX, c.placeY = c.points[i+2]+dx, c.points[i+3]+dy
			c.path.CubeBezier(Point{bx, by}, Point{c.cntlPtX, c.cntlPtY}, Point{c.placeX, c.placeY})
			c.lastKey = k
		}
	case 'A', 'a':
		if l == 0 || l%7 != 0 {
			return ErrParamMismatch
		}
		for i := 0; i < l; i += 7 {
			if rel {
				dx, dy = c.placeX, c.placeY
			}
			end := Point{c.points[i+5] + dx, c.points[i+6] + dy}
			last := c.path.arcTo(Point{c.placeX, c.placeY}, c.points[i], c.points[i+1], c.points[i+2],
				c.points[i+3] != 0, c.points[i+4] != 0, end)
			c.placeX, c.placeY = last.X, last.Y
		}
	default:
		return ErrParamMismatch
	}
	c.lastKey = k
	return nil
}

// compilePath translates the svg path data string into a Path
func (c *pathCursor) compilePath(svgPath string) error {
	c.path = c.path[:0]
	c.placeX, c.placeY, c.pathStartX, c.pathStartY = 0, 0, 0, 0
	c.inPath = false
	c.lastKey = 0
	lastIndex := -1
	for i := 0; i < len(svgPath); i++ {
		v := svgPath[i]
		if !isCommand(v) {
			continue
		}
		if lastIndex != -1 {
			if err := c.addSeg(svgPath[lastIndex:i]); err != nil {
				return err
			}
		}
		lastIndex = i
	}
	if lastIndex != -1 {
		if err := c.addSeg(svgPath[lastIndex:]); err != nil {
			return err
		}
	} else if strings.TrimSpace(svgPath) != "" {
		return ErrParamMismatch // numbers without command
	}
	return nil
}

func isCommand(b byte) bool {
	switch b {
	case 'M', 'm', 'Z', 'z', 'L', 'l', 'H', 'h', 'V', 'v', 'C', 'c', 'S', 's', 'Q', 'q', 'T', 't', 'A', 'a':
		return true
	}
	return false
}

// ParsePath compiles the d attribute of a path element.
func ParsePath(d string) (Path, error) {
	var c pathCursor
	if err := c.compilePath(d); err != nil {
		return nil, err
	}
	return c.path, nil
}

// splitOnCommaOrSpace returns a list of strings after splitting the input on comma and space delimiters
func splitOnCommaOrSpace(s string) []string {
	return strings.FieldsFunc(s,
		func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})
}

// unitSuffixes are suffixes sometimes applied to length attributes
var unitSuffixes = []string{"cm", "mm", "px", "pt"}

// trimSuffixes removes unitSuffixes from any number that is not just numeric
func trimSuffixes(a string) (b string) {
	if a == "" || (a[len(a)-1] >= '0' && a[len(a)-1] <= '9') {
		return a
	}
	b = a
	for _, v := range unitSuffixes {
		b = strings.TrimSuffix(b, v)
	}
	return
}

// parseFloat is a helper function that strips suffixes before passing to strconv.ParseFloat
func parseFloat(s string, bitSize int) (float64, error) {
	val := trimSuffixes(strings.TrimSpace(s))
	return strconv.ParseFloat(val, bitSize)
}

// ParseLength parses a number, with an optional unit suffix (ignored).
func ParseLength(s string) (float64, error) {
	return parseFloat(s, 64)
}

// ParseList parses a list of numbers separated by commas or spaces,
// as found in stroke-dasharray.
func ParseList(s string) ([]float64, error) {
	fields := splitOnCommaOrSpace(s)
	out := make([]float64, len(fields))
	for i, f := range fields {
		var err error
		if out[i], err = parseFloat(f, 64); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *pathCursor) readTransformAttr(m1 Matrix2D, k string) (Matrix2D, error) {
	ln := len(c.points)
	switch k {
	case "rotate":
		if ln == 1 {
			m1 = m1.Rotate(c.points[0] * math.Pi / 180)
		} else if ln == 3 {
			m1 = m1.Translate(c.points[1], c.points[2]).
				Rotate(c.points[0]*math.Pi/180).
				Translate(-c.points[1], -c.points[2])
		} else {
			return m1, ErrParamMismatch
		}
	case "translate":
		if ln == 1 {
			m1 = m1.Translate(c.points[0], 0)
		} else if ln == 2 {
			m1 = m1.Translate(c.points[0], c.points[1])
		} else {
			return m1, ErrParamMismatch
		}
	case "skewx":
		if ln == 1 {
			m1 = m1.SkewX(c.points[0] * math.Pi / 180)
		} else {
			return m1, ErrParamMismatch
		}
	case "skewy":
		if ln == 1 {
			m1 = m1.SkewY(c.points[0] * math.Pi / 180)
		} else {
			return m1, ErrParamMismatch
		}
	case "scale":
		if ln == 1 {
			m1 = m1.Scale(c.points[0], c.points[0])
		} else if ln == 2 {
			m1 = m1.Scale(c.points[0], c.points[1])
		} else {
			return m1, ErrParamMismatch
		}
	case "matrix":
		if ln == 6 {
			m1 = m1.Mult(Matrix2D{
				A: c.points[0],
				B: c.points[1],
				C: c.points[2],
				D: c.points[3],
				E: c.points[4],
				F: c.points[5]})
		} else {
			return m1, ErrParamMismatch
		}
	default:
		return m1, ErrParamMismatch
	}
	return m1, nil
}

// ParseTransform parses the value of a transform attribute,
// such as "translate(10,2) scale(2)". An empty value gives Identity.
func ParseTransform(v string) (Matrix2D, error) {
	var c pathCursor
	ts := strings.Split(v, ")")
	m1 := Identity
	for _, t := range ts {
		t = strings.TrimSpace(strings.TrimLeft(t, ", \t\n"))
		if len(t) == 0 {
			continue
		}
		d := strings.Split(t, "(")
		if len(d) != 2 || len(d[1]) < 1 {
			return m1, ErrParamMismatch // badly formed transformation
		}
		err := c.getPoints(d[1], false)
		if err != nil {
			return m1, err
		}
		m1, err = c.readTransformAttr(m1, strings.ToLower(strings.TrimSpace(d[0])))
		if err != nil {
			return m1, err
		}
	}
	return m1, nil
}
