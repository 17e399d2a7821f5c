package ui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"

	"InkBinder/internal/geom"
	"InkBinder/internal/render"
)

// DisplayRenderer turns drawing commands into fyne canvas objects for the
// part of the binder visible in the viewport. Objects outside the viewport
// are reported invisible so callers can skip them.
type DisplayRenderer struct {
	render.GroupStack
	viewport geom.Rect

	color color.Color
	width float64

	translateX, translateY float64
	saved                  [][2]float64

	objects []fyne.CanvasObject
	culled  int
}

// NewDisplayRenderer creates a renderer for viewport, given in binder
// coordinates.
func NewDisplayRenderer(viewport geom.Rect) *DisplayRenderer {
	return &DisplayRenderer{viewport: viewport, color: color.Black, width: 1}
}

// Reset drops the produced objects and moves the viewport.
func (d *DisplayRenderer) Reset(viewport geom.Rect) {
	*d = DisplayRenderer{viewport: viewport, color: color.Black, width: 1}
}

// Viewport returns the visible binder rectangle.
func (d *DisplayRenderer) Viewport() geom.Rect { return d.viewport }

// Objects returns the canvas objects in paint order.
func (d *DisplayRenderer) Objects() []fyne.CanvasObject { return d.objects }

// Culled returns how many clip queries answered false.
func (d *DisplayRenderer) Culled() int { return d.culled }

func (d *DisplayRenderer) SetColor(c color.Color) { d.color = c }
func (d *DisplayRenderer) SetLineWidth(w float64) { d.width = w }

func (d *DisplayRenderer) DrawRect(r geom.Rect) {
	rect := fynecanvas.NewRectangle(color.Transparent)
	rect.StrokeColor = d.color
	rect.StrokeWidth = float32(d.width)
	d.place(rect, r)
}

func (d *DisplayRenderer) FillRect(r geom.Rect) {
	d.place(fynecanvas.NewRectangle(d.color), r)
}

func (d *DisplayRenderer) DrawLine(x1, y1, x2, y2 float64) {
	line := fynecanvas.NewLine(d.color)
	line.StrokeWidth = float32(d.width)
	line.Position1 = d.pos(x1, y1)
	line.Position2 = d.pos(x2, y2)
	d.objects = append(d.objects, line)
}

// DrawPath emits one line per segment; a single point becomes a dot.
func (d *DisplayRenderer) DrawPath(p *geom.Path) {
	switch p.Len() {
	case 0:
		return
	case 1:
		pt := p.First()
		r := d.width / 2
		dot := fynecanvas.NewCircle(d.color)
		dot.Position1 = d.pos(pt.X()-r, pt.Y()-r)
		dot.Position2 = d.pos(pt.X()+r, pt.Y()+r)
		d.objects = append(d.objects, dot)
		return
	}
	prev := p.First()
	for i := 1; i < p.Len(); i++ {
		pt := p.At(i)
		d.DrawLine(prev.X(), prev.Y(), pt.X(), pt.Y())
		prev = pt
	}
}

func (d *DisplayRenderer) Translate(dx, dy float64) {
	d.translateX += dx
	d.translateY += dy
}

func (d *DisplayRenderer) BeginGroup(id string) {
	d.Push(id)
	d.saved = append(d.saved, [2]float64{d.translateX, d.translateY})
}

func (d *DisplayRenderer) EndGroup(id string) {
	if d.Depth() == 0 {
		d.Pop(id)
		return
	}
	d.Pop(id)
	last := d.saved[len(d.saved)-1]
	d.saved = d.saved[:len(d.saved)-1]
	d.translateX, d.translateY = last[0], last[1]
}

// IsInClipRegion reports whether b, at the current origin, overlaps the viewport.
func (d *DisplayRenderer) IsInClipRegion(b render.Bounded) bool {
	if b.Bounds().Translate(d.translateX, d.translateY).Intersects(d.viewport) {
		return true
	}
	d.culled++
	return false
}

// DrawImage places img unscaled at (x, y).
func (d *DisplayRenderer) DrawImage(img image.Image, x, y float64) {
	obj := fynecanvas.NewImageFromImage(img)
	obj.FillMode = fynecanvas.ImageFillStretch
	obj.ScaleMode = fynecanvas.ImageScalePixels
	b := img.Bounds()
	d.place(obj, geom.Rect{X: x, Y: y, Width: float64(b.Dx()), Height: float64(b.Dy())})
}

func (d *DisplayRenderer) place(obj fyne.CanvasObject, r geom.Rect) {
	obj.Move(d.pos(r.X, r.Y))
	obj.Resize(fyne.NewSize(float32(r.Width), float32(r.Height)))
	d.objects = append(d.objects, obj)
}

func (d *DisplayRenderer) pos(x, y float64) fyne.Position {
	return fyne.NewPos(
		float32(x+d.translateX-d.viewport.X),
		float32(y+d.translateY-d.viewport.Y),
	)
}
