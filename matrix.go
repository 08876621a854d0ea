package hwc

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Matrix represents a 2D affine transformation matrix.
// It uses a 2x3 matrix in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// This represents the transformation:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
//
// The builder methods (Translate, Rotate, Scale, FlipX) compose onto the
// running matrix: the new operation is applied after everything the matrix
// already does. Only quarter-turn rotations are expressible, so a Matrix
// built from them never shears.
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{
		A: 1, B: 0, C: 0,
		D: 0, E: 1, F: 0,
	}
}

// Translate returns m followed by a translation of (dx, dy).
func (m Matrix) Translate(dx, dy float64) Matrix {
	m.C += dx
	m.F += dy
	return m
}

// Rotate returns m followed by q clockwise quarter turns.
// One quarter turn maps (x, y) to (-y, x).
func (m Matrix) Rotate(q QuarterTurn) Matrix {
	q = q.Normalize()
	if q&2 != 0 {
		m = m.scaleRows(-1, -1)
	}
	if q&1 != 0 {
		m.A, m.D = -m.D, m.A
		m.B, m.E = -m.E, m.B
		m.C, m.F = -m.F, m.C
	}
	return m
}

// Scale returns m followed by an axis scale mapping a srcW x srcH extent
// onto dstW x dstH. A zero source extent leaves m unchanged.
func (m Matrix) Scale(srcW, dstW, srcH, dstH float64) Matrix {
	if srcW == 0 || srcH == 0 {
		return m
	}
	return m.scaleRows(dstW/srcW, dstH/srcH)
}

// FlipX returns m followed by a mirror across the y axis.
func (m Matrix) FlipX() Matrix {
	return m.scaleRows(-1, 1)
}

// Orient returns m followed by o's rotation and then its flip.
func (m Matrix) Orient(o Orientation) Matrix {
	m = m.Rotate(o.Rotation)
	if o.HFlip {
		m = m.FlipX()
	}
	return m
}

func (m Matrix) scaleRows(sx, sy float64) Matrix {
	m.A *= sx
	m.B *= sx
	m.C *= sx
	m.D *= sy
	m.E *= sy
	m.F *= sy
	return m
}

// Multiply multiplies two matrices (m * other): other is applied first.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// TransformPoint applies the transformation to a point.
func (m Matrix) TransformPoint(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// TransformRect maps the four corners of r and returns the axis-aligned
// bounding box of the result.
func (m Matrix) TransformRect(r Rect) Rect {
	corners := [4]Point{
		{r.X, r.Y},
		{r.Right(), r.Y},
		{r.X, r.Bottom()},
		{r.Right(), r.Bottom()},
	}
	p := m.TransformPoint(corners[0])
	minX, maxX, minY, maxY := p.X, p.X, p.Y, p.Y
	for _, c := range corners[1:] {
		p = m.TransformPoint(c)
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Invert returns the inverse matrix.
// Returns the identity matrix if the matrix is not invertible.
func (m Matrix) Invert() Matrix {
	det := m.A*m.E - m.B*m.D
	if math.Abs(det) < 1e-10 {
		return Identity()
	}

	invDet := 1.0 / det
	return Matrix{
		A: m.E * invDet,
		B: -m.B * invDet,
		C: (m.B*m.F - m.C*m.E) * invDet,
		D: -m.D * invDet,
		E: m.A * invDet,
		F: (m.C*m.D - m.A*m.F) * invDet,
	}
}

// IsIdentity returns true if the matrix is the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m.A == 1 && m.B == 0 && m.C == 0 &&
		m.D == 0 && m.E == 1 && m.F == 0
}

// ApproxEqual reports whether all six coefficients differ by at most eps.
func (m Matrix) ApproxEqual(other Matrix, eps float64) bool {
	return math.Abs(m.A-other.A) <= eps && math.Abs(m.B-other.B) <= eps &&
		math.Abs(m.C-other.C) <= eps && math.Abs(m.D-other.D) <= eps &&
		math.Abs(m.E-other.E) <= eps && math.Abs(m.F-other.F) <= eps
}

// Aff3 returns the matrix in the layout used by golang.org/x/image.
func (m Matrix) Aff3() f64.Aff3 {
	return f64.Aff3{m.A, m.B, m.C, m.D, m.E, m.F}
}
