package render

import (
	"image"
	"image/color"
	"io"

	"github.com/gogpu/gg"

	"InkBinder/internal/geom"
)

// Raster renders into a gg software context. It backs PNG export and the
// paper background cache. Raster images have no visible clip, so
// IsInClipRegion is always true.
type Raster struct {
	GroupStack
	dc  *gg.Context
	out io.Writer
	err error
}

// NewRaster creates a width×height raster. When out is non-nil, Finish
// encodes the image to it as PNG.
func NewRaster(width, height int, out io.Writer) *Raster {
	dc := gg.NewContext(max(width, 1), max(height, 1))
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	return &Raster{dc: dc, out: out}
}

func (r *Raster) SetColor(c color.Color) { r.dc.SetColor(c) }
func (r *Raster) SetLineWidth(w float64) { r.dc.SetLineWidth(w) }

func (r *Raster) DrawRect(rc geom.Rect) {
	r.dc.DrawRectangle(rc.X, rc.Y, rc.Width, rc.Height)
	r.capture(r.dc.Stroke())
}

func (r *Raster) FillRect(rc geom.Rect) {
	r.dc.DrawRectangle(rc.X, rc.Y, rc.Width, rc.Height)
	r.capture(r.dc.Fill())
}

func (r *Raster) DrawLine(x1, y1, x2, y2 float64) {
	r.dc.DrawLine(x1, y1, x2, y2)
	r.capture(r.dc.Stroke())
}

func (r *Raster) DrawPath(p *geom.Path) {
	switch p.Len() {
	case 0:
		return
	case 1:
		pt := p.First()
		r.dc.DrawCircle(pt.X(), pt.Y(), r.dc.GetStroke().Width/2)
		r.capture(r.dc.Fill())
		return
	}
	first := p.First()
	r.dc.MoveTo(first.X(), first.Y())
	for i := 1; i < p.Len(); i++ {
		pt := p.At(i)
		r.dc.LineTo(pt.X(), pt.Y())
	}
	r.capture(r.dc.Stroke())
}

func (r *Raster) Translate(dx, dy float64) { r.dc.Translate(dx, dy) }

// BeginGroup saves the transform so EndGroup can restore it.
func (r *Raster) BeginGroup(id string) {
	r.Push(id)
	r.dc.Push()
}

func (r *Raster) EndGroup(id string) {
	open := r.Depth() > 0
	r.Pop(id)
	if open {
		r.dc.Pop()
	}
}

func (r *Raster) IsInClipRegion(Bounded) bool { return true }

// DrawImage composites img with its top-left corner at (x, y).
func (r *Raster) DrawImage(img image.Image, x, y float64) {
	r.dc.DrawImage(gg.ImageBufFromImage(img), x, y)
}

// Image returns a copy of the rendered pixels.
func (r *Raster) Image() image.Image {
	return r.dc.Image()
}

// Err returns the first drawing or encoding error.
func (r *Raster) Err() error { return r.err }

// Finish encodes the image to the output, if any, and releases the context.
func (r *Raster) Finish() error {
	if r.out != nil && r.err == nil {
		r.capture(r.dc.EncodePNG(r.out))
	}
	r.capture(r.dc.Close())
	return r.err
}

func (r *Raster) capture(err error) {
	if err != nil && r.err == nil {
		r.err = err
	}
}
