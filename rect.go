package hwc

import (
	"image"
	"math"
)

// Point is a position in surface or device coordinates.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Rect is an axis-aligned rectangle in pixels.
type Rect struct {
	X, Y float64 // Top-left corner
	W, H float64 // Width and height
}

// NewRect creates a Rect from position and size.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectLTRB creates a Rect from its edges. An inverted pair of edges
// yields a negative extent, which IsEmpty reports.
func RectLTRB(left, top, right, bottom float64) Rect {
	return Rect{X: left, Y: top, W: right - left, H: bottom - top}
}

// Right returns the right edge x-coordinate.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the bottom edge y-coordinate.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// IsEmpty returns true if the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// IsPortrait reports whether the rectangle is taller than wide.
func (r Rect) IsPortrait() bool {
	return r.H > r.W
}

// Intersect returns the intersection of two rectangles.
// Returns an empty rectangle if they don't intersect.
func (r Rect) Intersect(other Rect) Rect {
	x0 := math.Max(r.X, other.X)
	y0 := math.Max(r.Y, other.Y)
	x1 := math.Min(r.Right(), other.Right())
	y1 := math.Min(r.Bottom(), other.Bottom())

	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Size returns width and height, swapped when rot is an odd quarter turn.
func (r Rect) Size(rot QuarterTurn) (w, h float64) {
	if rot.Odd() {
		return r.H, r.W
	}
	return r.W, r.H
}

// Image rounds the rectangle to integer pixel edges.
func (r Rect) Image() image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.Right())), int(math.Round(r.Bottom())),
	)
}

// ApproxEqual reports whether every edge of r and other differ by at most eps.
func (r Rect) ApproxEqual(other Rect, eps float64) bool {
	return math.Abs(r.X-other.X) <= eps && math.Abs(r.Y-other.Y) <= eps &&
		math.Abs(r.W-other.W) <= eps && math.Abs(r.H-other.H) <= eps
}
