package model

import "fmt"

// Point represents a 2D pixel position.
type Point struct {
	X, Y int
}

// Rect represents an axis-aligned rectangle in the pixel coordinates of a
// scan, with the origin at the top-left corner and Y growing downward.
type Rect struct {
	X      int // Left
	Y      int // Top
	Width  int
	Height int
}

// NewRect creates a rectangle from its top-left corner and dimensions.
func NewRect(x, y, width, height int) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// RectFromPoints creates a rectangle spanning two corner points.
func RectFromPoints(p1, p2 Point) Rect {
	x := min(p1.X, p2.X)
	y := min(p1.Y, p2.Y)
	return Rect{X: x, Y: y, Width: abs(p2.X - p1.X), Height: abs(p2.Y - p1.Y)}
}

// Left returns the left edge X coordinate.
func (r Rect) Left() int {
	return r.X
}

// Right returns the exclusive right edge X coordinate.
func (r Rect) Right() int {
	return r.X + r.Width
}

// Top returns the top edge Y coordinate.
func (r Rect) Top() int {
	return r.Y
}

// Bottom returns the exclusive bottom edge Y coordinate.
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Center returns the center point, rounded toward the top-left.
func (r Rect) Center() Point {
	return Point{
		X: r.X + r.Width/2,
		Y: r.Y + r.Height/2,
	}
}

// Contains checks if a pixel position is inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left() && p.X < r.Right() &&
		p.Y >= r.Top() && p.Y < r.Bottom()
}

// ContainsRect checks if other lies entirely inside the rectangle.
func (r Rect) ContainsRect(other Rect) bool {
	return other.Left() >= r.Left() && other.Right() <= r.Right() &&
		other.Top() >= r.Top() && other.Bottom() <= r.Bottom()
}

// Intersects checks if two rectangles share at least one pixel.
func (r Rect) Intersects(other Rect) bool {
	return r.Left() < other.Right() && other.Left() < r.Right() &&
		r.Top() < other.Bottom() && other.Top() < r.Bottom()
}

// Intersection returns the overlapping rectangle, or a zero Rect when the
// rectangles do not intersect.
func (r Rect) Intersection(other Rect) Rect {
	if !r.Intersects(other) {
		return Rect{}
	}

	x := max(r.Left(), other.Left())
	y := max(r.Top(), other.Top())
	right := min(r.Right(), other.Right())
	bottom := min(r.Bottom(), other.Bottom())

	return Rect{
		X:      x,
		Y:      y,
		Width:  right - x,
		Height: bottom - y,
	}
}

// Union returns the smallest rectangle covering both rectangles.
func (r Rect) Union(other Rect) Rect {
	x := min(r.Left(), other.Left())
	y := min(r.Top(), other.Top())
	right := max(r.Right(), other.Right())
	bottom := max(r.Bottom(), other.Bottom())

	return Rect{
		X:      x,
		Y:      y,
		Width:  right - x,
		Height: bottom - y,
	}
}

// Area returns the area in pixels.
func (r Rect) Area() int {
	return r.Width * r.Height
}

// Inset shrinks the rectangle by margin pixels on every side. Insetting
// past the center yields an invalid rectangle; callers should check
// IsValid before using the result.
func (r Rect) Inset(margin int) Rect {
	return Rect{
		X:      r.X + margin,
		Y:      r.Y + margin,
		Width:  r.Width - 2*margin,
		Height: r.Height - 2*margin,
	}
}

// Clamp shifts and, if necessary, shrinks the rectangle so that it lies
// inside bounds. Position is preserved where possible; a rectangle larger
// than bounds is truncated to fit.
func (r Rect) Clamp(bounds Rect) Rect {
	out := r
	if out.Width > bounds.Width {
		out.Width = bounds.Width
	}
	if out.Height > bounds.Height {
		out.Height = bounds.Height
	}
	if out.X < bounds.X {
		out.X = bounds.X
	}
	if out.Y < bounds.Y {
		out.Y = bounds.Y
	}
	if out.Right() > bounds.Right() {
		out.X = bounds.Right() - out.Width
	}
	if out.Bottom() > bounds.Bottom() {
		out.Y = bounds.Bottom() - out.Height
	}
	return out
}

// OverlapRatio calculates the overlap with another rectangle as a fraction
// of the smaller rectangle's area. Returns a value between 0 and 1.
func (r Rect) OverlapRatio(other Rect) float64 {
	if !r.Intersects(other) {
		return 0
	}

	intersection := r.Intersection(other)
	minArea := min(r.Area(), other.Area())

	if minArea == 0 {
		return 0
	}

	return float64(intersection.Area()) / float64(minArea)
}

// IsEmpty returns true if the rectangle has zero area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// IsValid returns true if the rectangle has positive dimensions.
func (r Rect) IsValid() bool {
	return r.Width > 0 && r.Height > 0
}

// String returns the rectangle as "WxH+X+Y".
func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
