// Package geom holds the geometry shared by strokes, pages and renderers:
// scaled points, paths captured from a pointer gesture, rectangles and the
// dirty-region accumulator.
//
// Coordinates are stored raw, in device pixels at scale 1. A display
// coordinate is the raw value multiplied by the scale the object is
// currently viewed under. ScaleTo changes that visual scale (zoom) and is
// never persisted; ResizeTo rewrites the raw values (unit-scale changes).
package geom

import (
	"fmt"
	"math"
)

// Point is an immutable coordinate carrying the scale it is viewed under.
type Point struct {
	x, y   float64
	sx, sy float64
}

// NewPoint returns a point from raw coordinates at scale 1.
func NewPoint(x, y float64) Point {
	return Point{x: x, y: y, sx: 1, sy: 1}
}

// PointAt returns the point whose display position under (sx, sy) is (x, y).
func PointAt(x, y, sx, sy float64) Point {
	checkScale(sx, sy)
	return Point{x: x / sx, y: y / sy, sx: sx, sy: sy}
}

// X returns the display x coordinate.
func (p Point) X() float64 { return p.x * p.sx }

// Y returns the display y coordinate.
func (p Point) Y() float64 { return p.y * p.sy }

// RawX returns the stored x coordinate at scale 1.
func (p Point) RawX() float64 { return p.x }

// RawY returns the stored y coordinate at scale 1.
func (p Point) RawY() float64 { return p.y }

// Scale returns the x and y scale the point is viewed under.
func (p Point) Scale() (float64, float64) { return p.sx, p.sy }

// Translate moves the point by a display-space delta.
func (p Point) Translate(dx, dy float64) Point {
	p.x += dx / p.sx
	p.y += dy / p.sy
	return p
}

// ScaleBy multiplies the current visual scale.
func (p Point) ScaleBy(fx, fy float64) Point {
	checkScale(fx, fy)
	p.sx *= fx
	p.sy *= fy
	return p
}

// ScaleTo sets the visual scale absolutely.
func (p Point) ScaleTo(sx, sy float64) Point {
	checkScale(sx, sy)
	p.sx, p.sy = sx, sy
	return p
}

// ResizeTo permanently multiplies the raw coordinates by f.
func (p Point) ResizeTo(f float64) Point {
	checkScale(f, f)
	p.x *= f
	p.y *= f
	return p
}

// DistanceSq returns the squared display distance between p and o.
func (p Point) DistanceSq(o Point) float64 {
	dx, dy := p.X()-o.X(), p.Y()-o.Y()
	return dx*dx + dy*dy
}

// Distance returns the display distance between p and o.
func (p Point) Distance(o Point) float64 {
	return math.Sqrt(p.DistanceSq(o))
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X(), p.Y())
}

// checkScale panics on non-positive factors; callers validate user input first.
func checkScale(sx, sy float64) {
	if !(sx > 0) || !(sy > 0) {
		panic(fmt.Sprintf("geom: invalid scale factor (%g, %g)", sx, sy))
	}
}

// CheckScale panics when f is not a positive number. Exported for packages
// that take a scale argument before touching any geometry.
func CheckScale(f float64) {
	checkScale(f, f)
}

// SegmentDistanceSq returns the squared distance from (px, py) to the
// segment (ax, ay)-(bx, by). A zero-length segment degrades to a point.
func SegmentDistanceSq(px, py, ax, ay, bx, by float64) float64 {
	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	t := 0.0
	if lenSq > 0 {
		t = ((px-ax)*dx + (py-ay)*dy) / lenSq
		t = math.Max(0, math.Min(1, t))
	}
	cx, cy := ax+t*dx, ay+t*dy
	ex, ey := px-cx, py-cy
	return ex*ex + ey*ey
}
