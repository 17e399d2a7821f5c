package geom

import "math"

// Path is the ordered list of points captured from one pointer gesture.
//
// A path is mutable while it is being captured and is frozen once the
// gesture ends. Freezing builds integer display coordinate arrays that
// vector and display renderers consume directly; any later geometry change
// rebuilds them. Paths are not safe for concurrent use: the smoother works
// on a Snapshot and hands the result back to the UI goroutine.
type Path struct {
	points   []Point
	length   float64
	revision uint64

	frozen bool
	xs, ys []int
}

// NewPath creates an empty path.
func NewPath() *Path {
	return &Path{}
}

// NewPathFrom creates a path holding pts in order.
func NewPathFrom(pts ...Point) *Path {
	p := &Path{}
	for _, pt := range pts {
		p.Append(pt)
	}
	return p
}

// Append adds a point to the end of the path in O(1), extending the
// cumulative length by the new segment.
func (p *Path) Append(pt Point) {
	if n := len(p.points); n > 0 {
		p.length += p.points[n-1].Distance(pt)
	}
	p.points = append(p.points, pt)
	p.touch()
}

// Len returns the number of points.
func (p *Path) Len() int { return len(p.points) }

// At returns the i-th point.
func (p *Path) At(i int) Point { return p.points[i] }

// First returns the first point. The path must not be empty.
func (p *Path) First() Point { return p.points[0] }

// Last returns the last point. The path must not be empty.
func (p *Path) Last() Point { return p.points[len(p.points)-1] }

// Length returns the cumulative display length of all segments.
func (p *Path) Length() float64 { return p.length }

// AverageSegmentLength returns Length divided by the number of segments,
// or 0 for paths with fewer than two points.
func (p *Path) AverageSegmentLength() float64 {
	if len(p.points) < 2 {
		return 0
	}
	return p.length / float64(len(p.points)-1)
}

// Revision increments on every geometry change.
func (p *Path) Revision() uint64 { return p.revision }

// Points returns a copy of the points.
func (p *Path) Points() []Point {
	return p.Snapshot()
}

// Snapshot returns a copy of the points suitable for undo records or
// off-thread processing.
func (p *Path) Snapshot() []Point {
	out := make([]Point, len(p.points))
	copy(out, p.points)
	return out
}

// Restore replaces the geometry with pts (typically a Snapshot).
func (p *Path) Restore(pts []Point) {
	p.points = append(p.points[:0:0], pts...)
	p.recomputeLength()
	p.touch()
}

// Copy returns a deep copy. The copy keeps the frozen state.
func (p *Path) Copy() *Path {
	c := &Path{
		points:   p.Snapshot(),
		length:   p.length,
		revision: p.revision,
	}
	if p.frozen {
		c.Freeze()
	}
	return c
}

// Bounds returns the display-space bounding box of the points, or
// EmptyRect for an empty path.
func (p *Path) Bounds() Rect {
	if len(p.points) == 0 {
		return EmptyRect
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pt := range p.points {
		x, y := pt.X(), pt.Y()
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Comb thins the path in a single greedy pass. The threshold is the
// average segment length times factor; a point is kept when its squared
// distance from the last kept point is at least threshold squared. The
// first and last points always survive. Paths with two or fewer points and
// non-positive factors are left alone. Comb returns the number of points
// removed.
func (p *Path) Comb(factor float64) int {
	n := len(p.points)
	if n <= 2 || !(factor > 0) {
		return 0
	}
	threshold := p.AverageSegmentLength() * factor
	thresholdSq := threshold * threshold

	kept := make([]Point, 0, n)
	kept = append(kept, p.points[0])
	for _, pt := range p.points[1 : n-1] {
		if pt.DistanceSq(kept[len(kept)-1]) >= thresholdSq {
			kept = append(kept, pt)
		}
	}
	kept = append(kept, p.points[n-1])

	removed := n - len(kept)
	if removed > 0 {
		p.points = kept
		p.recomputeLength()
		p.touch()
	}
	return removed
}

// Smooth replaces every interior point with the mean of the points within
// k indices of it. Endpoints stay fixed; k == 0 and paths with two or fewer
// points are no-ops.
func (p *Path) Smooth(k int) {
	n := len(p.points)
	if k <= 0 || n <= 2 {
		return
	}
	out := make([]Point, n)
	out[0], out[n-1] = p.points[0], p.points[n-1]
	for i := 1; i < n-1; i++ {
		lo, hi := max(0, i-k), min(n-1, i+k)
		var sumX, sumY float64
		for j := lo; j <= hi; j++ {
			sumX += p.points[j].x
			sumY += p.points[j].y
		}
		cnt := float64(hi - lo + 1)
		pt := p.points[i]
		pt.x, pt.y = sumX/cnt, sumY/cnt
		out[i] = pt
	}
	p.points = out
	p.recomputeLength()
	p.touch()
}

// Translate moves every point by a display-space delta.
func (p *Path) Translate(dx, dy float64) {
	for i, pt := range p.points {
		p.points[i] = pt.Translate(dx, dy)
	}
	p.touch()
}

// ScaleAbout scales the display geometry about (ox, oy) by (rx, ry). The
// ratios may be any finite value; callers decide on clamping.
func (p *Path) ScaleAbout(ox, oy, rx, ry float64) {
	for i, pt := range p.points {
		pt.x = (ox + (pt.X()-ox)*rx) / pt.sx
		pt.y = (oy + (pt.Y()-oy)*ry) / pt.sy
		p.points[i] = pt
	}
	p.recomputeLength()
	p.touch()
}

// ScaleTo sets the visual scale of every point.
func (p *Path) ScaleTo(sx, sy float64) {
	checkScale(sx, sy)
	for i, pt := range p.points {
		p.points[i] = pt.ScaleTo(sx, sy)
	}
	p.recomputeLength()
	p.touch()
}

// ScaleBy multiplies the visual scale of every point.
func (p *Path) ScaleBy(fx, fy float64) {
	checkScale(fx, fy)
	for i, pt := range p.points {
		p.points[i] = pt.ScaleBy(fx, fy)
	}
	p.recomputeLength()
	p.touch()
}

// ResizeTo permanently rescales the raw coordinates by f.
func (p *Path) ResizeTo(f float64) {
	checkScale(f, f)
	for i, pt := range p.points {
		p.points[i] = pt.ResizeTo(f)
	}
	p.recomputeLength()
	p.touch()
}

// Freeze builds the cached integer coordinate arrays.
func (p *Path) Freeze() {
	p.frozen = true
	p.rebuild()
}

// Unfreeze discards the cached arrays.
func (p *Path) Unfreeze() {
	p.frozen = false
	p.xs, p.ys = nil, nil
}

// IsFrozen reports whether the coordinate cache is live.
func (p *Path) IsFrozen() bool { return p.frozen }

// Coords returns rounded display coordinates. Frozen paths return the
// cached arrays, which callers must not modify.
func (p *Path) Coords() (xs, ys []int) {
	if p.frozen {
		return p.xs, p.ys
	}
	return roundCoords(p.points)
}

func (p *Path) touch() {
	p.revision++
	if p.frozen {
		p.rebuild()
	}
}

func (p *Path) rebuild() {
	p.xs, p.ys = roundCoords(p.points)
}

func (p *Path) recomputeLength() {
	p.length = 0
	for i := 1; i < len(p.points); i++ {
		p.length += p.points[i-1].Distance(p.points[i])
	}
}

func roundCoords(pts []Point) ([]int, []int) {
	xs := make([]int, len(pts))
	ys := make([]int, len(pts))
	for i, pt := range pts {
		xs[i] = int(math.Round(pt.X()))
		ys[i] = int(math.Round(pt.Y()))
	}
	return xs, ys
}
