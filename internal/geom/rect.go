package geom

import "math"

// Rect is an axis-aligned box in display coordinates.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// RectFromPoints returns the smallest rect spanning the two corners, in any order.
func RectFromPoints(x1, y1, x2, y2 float64) Rect {
	minX, maxX := math.Min(x1, x2), math.Max(x1, x2)
	minY, maxY := math.Min(y1, y2), math.Max(y1, y2)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Bounds returns r, so a bare rectangle can be clip-tested.
func (r Rect) Bounds() Rect { return r }

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// IsEmpty reports whether the rect has negative extent. A zero-width rect
// (a horizontal line's path bounds) is still a valid box.
func (r Rect) IsEmpty() bool {
	return r.Width < 0 || r.Height < 0
}

// Contains checks if a point is inside the rect.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.MaxX() && y >= r.Y && y <= r.MaxY()
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.MaxX() <= r.MaxX() && o.MaxY() <= r.MaxY()
}

// Intersects reports whether the two rects overlap or touch.
func (r Rect) Intersects(o Rect) bool {
	return !(r.MaxX() < o.X || o.MaxX() < r.X || r.MaxY() < o.Y || o.MaxY() < r.Y)
}

// Union returns the smallest rect containing both rects.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}

	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.MaxX(), other.MaxX())
	maxY := max(r.MaxY(), other.MaxY())

	return Rect{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

// Inflate grows the rect by d on every side.
func (r Rect) Inflate(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}

// Translate moves the rect by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Center returns the center point of the rect.
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// EmptyRect is the identity for Union.
var EmptyRect = Rect{Width: -1, Height: -1}
