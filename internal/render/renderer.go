// Package render defines the drawing contract every output backend honours
// and ships the backends that need nothing beyond the core: a null sink, a
// command recorder and the gg raster backend.
//
// A Renderer is a push-only sequence of commands. Callers query
// IsInClipRegion to skip strokes that would not be visible; only
// interactive display backends answer with a real viewport test, every
// file backend answers true.
//
// # Backend Registration
//
// File backends register a Factory under a name, following the
// database/sql driver pattern:
//
//	func init() {
//	    render.Register("svg", newSVG)
//	}
//
// and are created by name:
//
//	r, err := render.New("svg", w, 800, 600)
package render

import (
	"image"
	"image/color"

	"InkBinder/internal/geom"
)

// Bounded is anything with a display-space bounding box.
type Bounded interface {
	Bounds() geom.Rect
}

// Renderer is the backend-agnostic drawing contract.
type Renderer interface {
	// SetColor sets the color used by subsequent draw and fill commands.
	SetColor(c color.Color)
	// SetLineWidth sets the stroke width used by DrawRect, DrawLine and DrawPath.
	SetLineWidth(w float64)

	// DrawRect outlines r.
	DrawRect(r geom.Rect)
	// FillRect fills r.
	FillRect(r geom.Rect)
	// DrawLine strokes a single segment.
	DrawLine(x1, y1, x2, y2 float64)
	// DrawPath strokes p as a polyline with round caps and joins. A path
	// with a single point renders as a dot.
	DrawPath(p *geom.Path)

	// Translate shifts the origin of subsequent commands.
	Translate(dx, dy float64)

	// BeginGroup pushes a named group. EndGroup pops it; a mismatched id
	// is logged and rendering continues.
	BeginGroup(id string)
	EndGroup(id string)

	// IsInClipRegion reports whether b could be visible.
	IsInClipRegion(b Bounded) bool
}

// ImageDrawer is implemented by backends that can composite a raster image,
// such as a cached paper background, at the current origin.
type ImageDrawer interface {
	DrawImage(img image.Image, x, y float64)
}

// Finisher is implemented by backends that write to an output. Rendering
// never returns I/O errors mid-sequence: the first error is captured and
// reported by Err, and Finish flushes the output and returns it.
type Finisher interface {
	Finish() error
	Err() error
}

// Finish finishes r if it writes output and returns the captured error.
func Finish(r Renderer) error {
	if f, ok := r.(Finisher); ok {
		return f.Finish()
	}
	return nil
}

// Err returns the error captured by r, if r captures errors at all.
func Err(r Renderer) error {
	if f, ok := r.(Finisher); ok {
		return f.Err()
	}
	return nil
}
