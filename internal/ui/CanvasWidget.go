package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	ink "InkBinder/internal/canvas"
	"InkBinder/internal/geom"
	"InkBinder/internal/logging"
	"InkBinder/internal/state"
)

var deskColor = color.NRGBA{R: 245, G: 246, B: 248, A: 255}

// CanvasWidget shows the binder and forwards pointer gestures to the
// composite canvas. Scrolling pans the view.
type CanvasWidget struct {
	widget.BaseWidget
	canvas *ink.Canvas

	pressed   bool
	button    desktop.MouseButton
	rendering bool
	cancels   []func()
}

var _ fyne.Widget = (*CanvasWidget)(nil)
var _ fyne.Draggable = (*CanvasWidget)(nil)
var _ fyne.Scrollable = (*CanvasWidget)(nil)
var _ desktop.Mouseable = (*CanvasWidget)(nil)

// NewCanvasWidget creates the widget and subscribes it to c's repaint
// notifications.
func NewCanvasWidget(c *ink.Canvas) *CanvasWidget {
	w := &CanvasWidget{canvas: c}
	w.ExtendBaseWidget(w)
	w.cancels = append(w.cancels,
		c.Repaints.Subscribe(w.repaint),
		// Smoothing finishes on a worker goroutine.
		c.Smoother().Done.Subscribe(func(*state.Stroke) { fyne.Do(w.Refresh) }),
	)
	return w
}

// Canvas returns the composite canvas behind the widget.
func (w *CanvasWidget) Canvas() *ink.Canvas { return w.canvas }

// Viewport returns the visible binder rectangle.
func (w *CanvasWidget) Viewport() geom.Rect {
	x, y := w.canvas.ViewOffset()
	size := w.Size()
	return geom.Rect{X: x, Y: y, Width: float64(size.Width), Height: float64(size.Height)}
}

// Detach stops listening to the canvas.
func (w *CanvasWidget) Detach() {
	for _, cancel := range w.cancels {
		cancel()
	}
	w.cancels = nil
}

// MouseDown starts a gesture. A second button pressed during a gesture is
// ignored.
func (w *CanvasWidget) MouseDown(e *desktop.MouseEvent) {
	if w.pressed {
		return
	}
	secondary := e.Button == desktop.MouseButtonSecondary
	if e.Button != desktop.MouseButtonPrimary && !secondary {
		return
	}
	w.pressed, w.button = true, e.Button
	w.canvas.PointerDown(float64(e.Position.X), float64(e.Position.Y), secondary)
}

func (w *CanvasWidget) Dragged(e *fyne.DragEvent) {
	if !w.pressed {
		return
	}
	w.canvas.PointerDragged(float64(e.Position.X), float64(e.Position.Y))
}

func (w *CanvasWidget) DragEnd() {}

func (w *CanvasWidget) MouseUp(e *desktop.MouseEvent) {
	if !w.pressed || e.Button != w.button {
		return
	}
	w.pressed = false
	w.canvas.PointerUp(float64(e.Position.X), float64(e.Position.Y))
}

// Scrolled pans the view, keeping it inside the binder.
func (w *CanvasWidget) Scrolled(e *fyne.ScrollEvent) {
	x, y := w.canvas.ViewOffset()
	bounds := w.canvas.Binder().Bounds()
	size := w.Size()
	x = clamp(x-float64(e.Scrolled.DX), 0, bounds.MaxX()-float64(size.Width))
	y = clamp(y-float64(e.Scrolled.DY), 0, bounds.MaxY()-float64(size.Height))
	w.canvas.SetViewOffset(x, y)
	w.Refresh()
}

func (w *CanvasWidget) repaint(r geom.Rect) {
	if w.rendering || !r.Intersects(w.Viewport()) {
		return
	}
	w.Refresh()
}

func (w *CanvasWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &canvasWidgetRenderer{
		widget:     w,
		background: fynecanvas.NewRectangle(deskColor),
		display:    NewDisplayRenderer(w.Viewport()),
	}
	r.draw()
	return r
}

type canvasWidgetRenderer struct {
	widget     *CanvasWidget
	background *fynecanvas.Rectangle
	display    *DisplayRenderer
	objects    []fyne.CanvasObject
}

func (r *canvasWidgetRenderer) draw() {
	w := r.widget
	w.rendering = true
	defer func() { w.rendering = false }()

	r.display.Reset(w.Viewport())
	w.canvas.Render(r.display)
	r.objects = append([]fyne.CanvasObject{r.background}, r.display.Objects()...)
	logging.Logger().Debug("ui: frame", "objects", len(r.objects), "culled", r.display.Culled())
}

func (r *canvasWidgetRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *canvasWidgetRenderer) Refresh() {
	r.draw()
	r.background.Refresh()
	fynecanvas.Refresh(r.widget)
}

func (r *canvasWidgetRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
}

func (r *canvasWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *canvasWidgetRenderer) Destroy() {
	r.widget.Detach()
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, max(lo, hi)))
}
