package svgpath

import "math"

// Matrix2D represents the 2x3 affine transformation
//	| A C E |
//	| B D F |
type Matrix2D struct {
	A, B, C, D, E, F float64
}

// Identity is the identity transformation
var Identity = Matrix2D{1, 0, 0, 1, 0, 0}

// Mult returns the composition a * b : b is applied first, then a.
func (a Matrix2D) Mult(b Matrix2D) Matrix2D {
	return Matrix2D{
		A: a.A*b.A + a.C*b.B,
		B: a.B*b.A + a.D*b.B,
		C: a.A*b.C + a.C*b.D,
		D: a.B*b.C + a.D*b.D,
		E: a.A*b.E + a.C*b.F + a.E,
		F: a.B*b.E + a.D*b.F + a.F,
	}
}

// Transform applies the matrix to the point (x1, y1)
func (a Matrix2D) Transform(x1, y1 float64) (x2, y2 float64) {
	return x1*a.A + y1*a.C + a.E, x1*a.B + y1*a.D + a.F
}

// TransformVector applies the linear part of the matrix only
func (a Matrix2D) TransformVector(x1, y1 float64) (x2, y2 float64) {
	return x1*a.A + y1*a.C, x1*a.B + y1*a.D
}

// Apply transforms the point p.
func (a Matrix2D) Apply(p Point) Point {
	x, y := a.Transform(p.X, p.Y)
	return Point{x, y}
}

// Scale post-multiplies by a scaling matrix
func (a Matrix2D) Scale(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{x, 0, 0, y, 0, 0})
}

// SkewY post-multiplies by a vertical skew, theta in radians
func (a Matrix2D) SkewY(theta float64) Matrix2D {
	return a.Mult(Matrix2D{1, math.Tan(theta), 0, 1, 0, 0})
}

// SkewX post-multiplies by an horizontal skew, theta in radians
func (a Matrix2D) SkewX(theta float64) Matrix2D {
	return a.Mult(Matrix2D{1, 0, math.Tan(theta), 1, 0, 0})
}

// Translate post-multiplies by a translation
func (a Matrix2D) Translate(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{1, 0, 0, 1, x, y})
}

// Rotate post-multiplies by a rotation, theta in radians
func (a Matrix2D) Rotate(theta float64) Matrix2D {
	sin, cos := math.Sincos(theta)
	return a.Mult(Matrix2D{cos, sin, -sin, cos, 0, 0})
}

// Det returns the determinant of the linear part.
func (a Matrix2D) Det() float64 {
	return a.A*a.D - a.B*a.C
}

// Invert returns the inverse matrix, or Identity
// if a is not invertible.
func (a Matrix2D) Invert() Matrix2D {
	det := a.Det()
	if det == 0 {
		return Identity
	}
	return Matrix2D{
		A: a.D / det,
		B: -a.B / det,
		C: -a.C / det,
		D: a.A / det,
		E: (a.C*a.F - a.D*a.E) / det,
		F: (a.B*a.E - a.A*a.F) / det,
	}
}
