// Package canvas composes the binder with the three interactive editing
// layers and turns pointer input into document edits.
//
// All methods run on the UI goroutine. The only background work is stroke
// smoothing, whose results are handed back through Smoother.Poll at the
// start of every render pass.
package canvas

import (
	"fmt"

	"InkBinder/internal/geom"
	"InkBinder/internal/render"
)

// Kind identifies an editing layer.
type Kind int

const (
	DrawKind Kind = iota
	SelectKind
	PageKind
)

func (k Kind) String() string {
	switch k {
	case DrawKind:
		return "draw"
	case SelectKind:
		return "select"
	case PageKind:
		return "page"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Layer is one editing mode over the document. The canvas forwards the
// current gesture to the active layer only; every layer renders its
// overlay on each pass.
type Layer interface {
	Kind() Kind

	// Start and Finish bracket the time a layer is active.
	Start()
	Finish()

	// PathStarted is called on pointer-down with a one-point path in
	// page-local coordinates. newPage reports that the gesture made a
	// different page current.
	PathStarted(path *geom.Path, newPage bool)
	PathChanged(path *geom.Path)
	PathFinished(path *geom.Path)

	// Render draws the layer's overlay in binder coordinates.
	Render(r render.Renderer)

	ZoomTo(scale float64)
	ResizeTo(factor float64)

	Tools() []Tool
}

// Tool is a control a host can present for a layer. Mode tools report
// whether they are the current mode; action tools are never Active.
type Tool struct {
	Name     string
	Active   bool
	Activate func()
}
