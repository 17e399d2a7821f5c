package state

import (
	"fmt"
	"image/color"
	"sync/atomic"

	"github.com/google/uuid"

	"InkBinder/internal/geom"
	"InkBinder/internal/render"
)

// AntialiasMargin is added around a stroke's ink when computing its
// bounds. It doubles for selected strokes, whose highlight is wider.
const AntialiasMargin = 1.0

// SelectionColor is the highlight drawn under selected strokes.
var SelectionColor = color.NRGBA{R: 0x4a, G: 0x90, B: 0xe2, A: 0xa0}

// Pen is the width and color a stroke is drawn with. Width is stored raw
// (pixels at zoom 1) and displayed multiplied by the current zoom.
type Pen struct {
	width float64
	color color.NRGBA
	scale float64
}

// NewPen creates a pen. Width must be positive and c non-nil.
func NewPen(width float64, c color.Color) *Pen {
	if !(width > 0) {
		panic(fmt.Sprintf("state: invalid pen width %g", width))
	}
	if c == nil {
		panic("state: NewPen with nil color")
	}
	return &Pen{width: width, color: toNRGBA(c), scale: 1}
}

// Width returns the display width.
func (p *Pen) Width() float64 { return p.width * p.scale }

// RawWidth returns the width at zoom 1.
func (p *Pen) RawWidth() float64 { return p.width }

// Color returns the ink color.
func (p *Pen) Color() color.NRGBA { return p.color }

// SetColor changes the ink color.
func (p *Pen) SetColor(c color.Color) {
	if c == nil {
		panic("state: SetColor with nil color")
	}
	p.color = toNRGBA(c)
}

// SetWidth changes the raw width.
func (p *Pen) SetWidth(w float64) {
	if !(w > 0) {
		panic(fmt.Sprintf("state: invalid pen width %g", w))
	}
	p.width = w
}

// ScaleTo sets the zoom the pen is displayed under.
func (p *Pen) ScaleTo(s float64) {
	geom.CheckScale(s)
	p.scale = s
}

// ResizeTo permanently multiplies the raw width.
func (p *Pen) ResizeTo(f float64) {
	geom.CheckScale(f)
	p.width *= f
}

// Copy returns an independent pen.
func (p *Pen) Copy() *Pen {
	c := *p
	return &c
}

// Stroke is one freehand ink mark: a private copy of the pen it was drawn
// with and exactly one path. A stroke belongs to at most one page, which
// also owns its selected flag.
type Stroke struct {
	id       string
	pen      *Pen
	path     *geom.Path
	selected bool
	// order fixes the stroke's drawing position; zero until first placed.
	order uint64
}

var strokeOrder atomic.Uint64

// place assigns the stroke its drawing position if it has none. Strokes
// placed later draw on top.
func (s *Stroke) place() {
	if s.order == 0 {
		s.order = strokeOrder.Add(1)
	}
}

// NewStroke creates a stroke drawn with a copy of pen, so later pen edits do
// not change existing ink.
func NewStroke(pen *Pen, path *geom.Path) *Stroke {
	if pen == nil || path == nil {
		panic("state: NewStroke with nil pen or path")
	}
	return &Stroke{id: uuid.NewString(), pen: pen.Copy(), path: path}
}

// ID returns the stroke's unique identifier.
func (s *Stroke) ID() string { return s.id }

// Pen returns the stroke's own pen.
func (s *Stroke) Pen() *Pen { return s.pen }

// Path returns the stroke's path.
func (s *Stroke) Path() *geom.Path { return s.path }

// IsSelected reports whether the owning page has the stroke selected.
func (s *Stroke) IsSelected() bool { return s.selected }

// Bounds returns the path bounds inflated by half the pen width plus the
// antialiasing margin, which doubles while the stroke is selected so that
// repaint regions cover the highlight.
func (s *Stroke) Bounds() geom.Rect {
	margin := AntialiasMargin
	if s.selected {
		margin *= 2
	}
	return s.path.Bounds().Inflate(s.pen.Width()/2 + margin)
}

// ContainsPoint reports whether pt lies on the ink, that is within half the
// pen width of some segment. One-point strokes are a zero-length segment.
// Only hit-testing uses this; rendering never does.
func (s *Stroke) ContainsPoint(pt geom.Point) bool {
	n := s.path.Len()
	if n == 0 {
		return false
	}
	half := s.pen.Width() / 2
	limit := half * half
	px, py := pt.X(), pt.Y()
	if n == 1 {
		a := s.path.First()
		return geom.SegmentDistanceSq(px, py, a.X(), a.Y(), a.X(), a.Y()) <= limit
	}
	for i := 1; i < n; i++ {
		a, b := s.path.At(i-1), s.path.At(i)
		if geom.SegmentDistanceSq(px, py, a.X(), a.Y(), b.X(), b.Y()) <= limit {
			return true
		}
	}
	return false
}

// Render draws the stroke, with its selection highlight underneath when
// selected.
func (s *Stroke) Render(r render.Renderer) {
	if s.selected {
		r.SetColor(SelectionColor)
		r.SetLineWidth(s.pen.Width() + 2*AntialiasMargin)
		r.DrawPath(s.path)
	}
	r.SetColor(s.pen.Color())
	r.SetLineWidth(s.pen.Width())
	r.DrawPath(s.path)
}

// Translate moves the ink by a display-space delta.
func (s *Stroke) Translate(dx, dy float64) {
	s.path.Translate(dx, dy)
}

// ScaleTo sets the zoom of both path and pen.
func (s *Stroke) ScaleTo(z float64) {
	s.path.ScaleTo(z, z)
	s.pen.ScaleTo(z)
}

// ResizeTo permanently rescales path and pen width.
func (s *Stroke) ResizeTo(f float64) {
	s.path.ResizeTo(f)
	s.pen.ResizeTo(f)
}

// Copy returns an unselected deep copy with a fresh ID. The copy draws on
// top of everything on the page it is added to.
func (s *Stroke) Copy() *Stroke {
	return &Stroke{id: uuid.NewString(), pen: s.pen.Copy(), path: s.path.Copy()}
}

func toNRGBA(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}
