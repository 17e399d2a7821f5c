package canvas

import (
	"InkBinder/internal/event"
	"InkBinder/internal/geom"
	"InkBinder/internal/history"
	"InkBinder/internal/logging"
	"InkBinder/internal/render"
	"InkBinder/internal/state"
)

// PenSource supplies the pen new strokes are drawn with. Widths are raw
// pixels at zoom 1 with the unit scale already applied.
type PenSource interface {
	Pen() *state.Pen
}

// Settings are the runtime knobs of the canvas.
type Settings struct {
	// Smoothing is the moving-average half window; 0 disables smoothing.
	Smoothing int
	// CombFactor multiplies the average segment length to get the comb
	// threshold.
	CombFactor float64
	// DragModulus keeps one drag event in every DragModulus; values below 2
	// keep every event.
	DragModulus int
	// HistoryLimit bounds the undo stack.
	HistoryLimit int
	// UnitScale is the unit scale already baked into the binder; values
	// below or equal to 0 mean 1.
	UnitScale float64
}

// DefaultSettings returns the settings used when no preferences exist.
func DefaultSettings() Settings {
	return Settings{
		Smoothing:    2,
		CombFactor:   0.5,
		DragModulus:  1,
		HistoryLimit: history.DefaultCapacity,
		UnitScale:    1,
	}
}

// Canvas composes the binder with the draw, stroke-selection and
// page-selection layers and dispatches pointer gestures to the active one.
type Canvas struct {
	binder   *state.Binder
	pens     PenSource
	history  *history.Manager
	smoother *Smoother

	draw      *DrawLayer
	selection *SelectionLayer
	pages     *PageLayer
	active    Layer

	// In-progress gesture.
	path      *geom.Path
	page      *state.Page
	secondary bool
	drags     int

	smoothing   int
	comb        float64
	dragModulus int
	unitScale   float64

	offsetX, offsetY float64

	dirty geom.DirtyRegion

	// Repaints receives the binder-space rectangle that needs redrawing.
	Repaints event.Registry[geom.Rect]
	// Modified fires whenever the visible document content changes.
	Modified event.Registry[*Canvas]
}

// New creates a canvas over b with the draw layer active.
func New(b *state.Binder, pens PenSource, s Settings) *Canvas {
	if b == nil || pens == nil {
		panic("canvas: New with nil binder or pen source")
	}
	c := &Canvas{
		binder:      b,
		pens:        pens,
		history:     history.New(s.HistoryLimit),
		smoother:    NewSmoother(),
		smoothing:   max(s.Smoothing, 0),
		comb:        s.CombFactor,
		dragModulus: s.DragModulus,
		unitScale:   1,
	}
	if s.UnitScale > 0 {
		c.unitScale = s.UnitScale
	}
	c.draw = newDrawLayer(c)
	c.selection = newSelectionLayer(c)
	c.pages = newPageLayer(c)
	c.active = c.draw
	c.active.Start()
	return c
}

// Binder returns the document.
func (c *Canvas) Binder() *state.Binder { return c.binder }

// History returns the undo stack. Its Overflows registry reports evictions.
func (c *Canvas) History() *history.Manager { return c.history }

// Smoother returns the background smoother.
func (c *Canvas) Smoother() *Smoother { return c.smoother }

// DrawLayer returns the draw layer.
func (c *Canvas) DrawLayer() *DrawLayer { return c.draw }

// SelectionLayer returns the stroke-selection layer.
func (c *Canvas) SelectionLayer() *SelectionLayer { return c.selection }

// PageLayer returns the page-selection layer.
func (c *Canvas) PageLayer() *PageLayer { return c.pages }

// Layers returns the three layers in toolbar order.
func (c *Canvas) Layers() []Layer {
	return []Layer{c.draw, c.selection, c.pages}
}

// Active returns the layer receiving gestures.
func (c *Canvas) Active() Layer { return c.active }

// SetActiveLayer finishes the current layer and starts the one of kind k.
// A gesture in progress is committed to the old layer first.
func (c *Canvas) SetActiveLayer(k Kind) {
	var next Layer
	switch k {
	case DrawKind:
		next = c.draw
	case SelectKind:
		next = c.selection
	case PageKind:
		next = c.pages
	default:
		panic("canvas: unknown layer " + k.String())
	}
	if next == c.active {
		return
	}
	c.endGesture()
	c.active.Finish()
	c.active = next
	c.active.Start()
	logging.Logger().Debug("canvas: layer switched", "layer", k)
	c.flush()
}

// Tools returns the controls of every layer.
func (c *Canvas) Tools() []Tool {
	var out []Tool
	for _, l := range c.Layers() {
		out = append(out, l.Tools()...)
	}
	return out
}

// SetSmoothing changes the smoothing window for strokes finished from now on.
func (c *Canvas) SetSmoothing(k int) { c.smoothing = max(k, 0) }

// Smoothing returns the smoothing window.
func (c *Canvas) Smoothing() int { return c.smoothing }

// SetCombFactor changes the comb factor for strokes finished from now on.
func (c *Canvas) SetCombFactor(f float64) { c.comb = f }

// CombFactor returns the comb factor.
func (c *Canvas) CombFactor() float64 { return c.comb }

// SetDragModulus changes how many drag events are folded into one point.
func (c *Canvas) SetDragModulus(n int) { c.dragModulus = n }

// SetViewOffset records the scroll position: pointer coordinates are
// relative to the viewport, whose top-left sits at (x, y) in the binder.
func (c *Canvas) SetViewOffset(x, y float64) {
	c.offsetX, c.offsetY = x, y
}

// ViewOffset returns the scroll position.
func (c *Canvas) ViewOffset() (float64, float64) { return c.offsetX, c.offsetY }

// PointerDown starts a gesture at viewport position (x, y). The page under
// the pointer becomes current. secondary marks the alternate button. A
// gesture still in progress is committed as if the pointer had been lifted
// at its last point.
func (c *Canvas) PointerDown(x, y float64, secondary bool) {
	c.endGesture()
	page, lx, ly := c.binder.PageAt(x+c.offsetX, y+c.offsetY)
	if page == nil {
		return
	}
	newPage := page != c.binder.Current()
	if newPage {
		c.binder.SetCurrent(page)
	}
	lx, ly = page.ClipPoint(lx, ly)
	s := c.binder.Scale()

	c.page = page
	c.secondary = secondary
	c.drags = 0
	c.path = geom.NewPathFrom(geom.PointAt(lx, ly, s, s))
	c.active.PathStarted(c.path, newPage)
	c.flush()
}

// PointerDragged extends the gesture. With a drag modulus of n only every
// n-th event adds a point.
func (c *Canvas) PointerDragged(x, y float64) {
	if c.path == nil {
		return
	}
	c.drags++
	if c.dragModulus > 1 && c.drags%c.dragModulus != 0 {
		return
	}
	c.path.Append(c.localPoint(x, y))
	c.active.PathChanged(c.path)
	c.flush()
}

// PointerUp ends the gesture. The final position is always recorded unless
// it repeats the last point.
func (c *Canvas) PointerUp(x, y float64) {
	if c.path == nil {
		return
	}
	pt := c.localPoint(x, y)
	if last := c.path.Last(); last.X() != pt.X() || last.Y() != pt.Y() {
		c.path.Append(pt)
	}
	c.endGesture()
	c.flush()
}

// endGesture hands the gesture in progress, if any, to the active layer as
// finished.
func (c *Canvas) endGesture() {
	if c.path == nil {
		return
	}
	c.path.Freeze()
	path := c.path
	c.path = nil
	c.active.PathFinished(path)
	c.page = nil
}

// Gesture returns the page and path of the gesture in progress, or nils.
func (c *Canvas) Gesture() (*state.Page, *geom.Path) { return c.page, c.path }

// Secondary reports whether the gesture in progress uses the alternate button.
func (c *Canvas) Secondary() bool { return c.secondary }

// Render draws the document followed by every layer's overlay. Finished
// smoothing results are swapped in first; strokes still being smoothed are
// left to the draw layer's overlay.
func (c *Canvas) Render(r render.Renderer) { c.render(r, r) }

// RenderOverlay draws only the layers' overlays: strokes still being
// smoothed, the rubber band and the page highlight. Finished smoothing is
// applied as in Render.
func (c *Canvas) RenderOverlay(r render.Renderer) { c.render(render.Null{}, r) }

func (c *Canvas) render(base, overlay render.Renderer) {
	c.smoother.Poll(c.repaintRect)
	c.binder.Render(base, c.smoother.Pending)
	for _, l := range c.Layers() {
		l.Render(overlay)
	}
	c.flush()
}

// Undo reverts the last change.
func (c *Canvas) Undo() bool {
	ok := c.history.Undo()
	if ok {
		c.changed()
	}
	return ok
}

// Redo re-applies the last undone change.
func (c *Canvas) Redo() bool {
	ok := c.history.Redo()
	if ok {
		c.changed()
	}
	return ok
}

// CanUndo reports whether there is anything to undo.
func (c *Canvas) CanUndo() bool { return c.history.CanUndo() }

// CanRedo reports whether there is anything to redo.
func (c *Canvas) CanRedo() bool { return c.history.CanRedo() }

// ZoomTo sets the interactive zoom of the whole document.
func (c *Canvas) ZoomTo(scale float64) {
	geom.CheckScale(scale)
	c.settle()
	c.binder.ScaleTo(scale)
	for _, l := range c.Layers() {
		l.ZoomTo(scale)
	}
	c.repaintAll()
	c.flush()
}

// Zoom returns the interactive zoom.
func (c *Canvas) Zoom() float64 { return c.binder.Scale() }

// UnitScale returns the unit scale baked into the document.
func (c *Canvas) UnitScale() float64 { return c.unitScale }

// SetUnitScale permanently rescales the document so that physical units
// map to unit pixels. The change is not undoable and clears the history,
// whose snapshots hold geometry at the previous scale. The pen source and
// the binder's paper factory must apply the same unit scale;
// config.Preferences.ApplyUnitScale updates both together.
func (c *Canvas) SetUnitScale(unit float64) {
	geom.CheckScale(unit)
	if unit == c.unitScale {
		return
	}
	c.settle()
	f := unit / c.unitScale
	c.unitScale = unit
	c.binder.ResizeTo(f)
	for _, l := range c.Layers() {
		l.ResizeTo(f)
	}
	c.history.Clear()
	logging.Logger().Info("canvas: unit scale changed", "unit", unit)
	c.repaintAll()
	c.changed()
}

// SelectAll selects every stroke in the document.
func (c *Canvas) SelectAll() { c.selection.SelectAll(); c.flush() }

// UnselectAll clears the selection in the whole document.
func (c *Canvas) UnselectAll() { c.selection.UnselectAll(); c.flush() }

// DeleteSelected removes the selected strokes of every page.
func (c *Canvas) DeleteSelected() { c.selection.DeleteSelected(); c.flush() }

// Copy places copies of the selection on the clipboard.
func (c *Canvas) Copy() { c.selection.Copy(); c.flush() }

// Cut moves the selection to the clipboard.
func (c *Canvas) Cut() { c.selection.Cut(); c.flush() }

// Paste adds the clipboard to the current page.
func (c *Canvas) Paste() { c.selection.Paste(); c.flush() }

// SetPaperTypeAll changes the paper of every page in one undoable step.
func (c *Canvas) SetPaperTypeAll(t state.PaperType) {
	pages := c.binder.Pages()
	old := make([]state.PaperType, len(pages))
	for i, p := range pages {
		old[i] = p.Paper().Type()
	}
	apply := func(types func(int) state.PaperType) {
		for i, p := range pages {
			p.Paper().SetType(types(i))
		}
		c.repaintAll()
	}
	apply(func(int) state.PaperType { return t })
	c.record("paper type (all pages)",
		func() { apply(func(int) state.PaperType { return t }) },
		func() { apply(func(i int) state.PaperType { return old[i] }) })
	c.flush()
}

// Close waits for background smoothing to finish and applies the results.
func (c *Canvas) Close() {
	c.settle()
	c.flush()
}

func (c *Canvas) settle() {
	c.smoother.Wait()
	c.smoother.Poll(c.repaintRect)
}

// localPoint converts viewport coordinates to a point on the gesture's
// page, clamped to the sheet.
func (c *Canvas) localPoint(x, y float64) geom.Point {
	ox, oy := c.binder.PageOrigin(c.page)
	lx, ly := c.page.ClipPoint(x+c.offsetX-ox, y+c.offsetY-oy)
	s := c.binder.Scale()
	return geom.PointAt(lx, ly, s, s)
}

// record pushes an applied change and reports the modification.
func (c *Canvas) record(label string, do, undo history.Action) {
	c.history.Push(label, do, undo)
	c.changed()
}

func (c *Canvas) changed() {
	c.flush()
	c.Modified.Notify(c)
}

func (c *Canvas) repaintRect(p *state.Page, r geom.Rect) {
	if r.IsEmpty() {
		return
	}
	ox, oy := c.binder.PageOrigin(p)
	c.dirty.Union(r.Translate(ox, oy))
}

func (c *Canvas) repaintStroke(p *state.Page, s *state.Stroke) {
	c.repaintRect(p, s.Bounds())
}

func (c *Canvas) repaintAll() {
	c.dirty.Union(c.binder.Bounds().Inflate(state.PageGap * c.binder.Scale()))
}

// flush reports the accumulated dirty region and resets it.
func (c *Canvas) flush() {
	if c.dirty.IsEmpty() {
		return
	}
	r := c.dirty.Bounds()
	c.dirty.Reset()
	c.Repaints.Notify(r)
}
