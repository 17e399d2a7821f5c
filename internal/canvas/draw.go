package canvas

import (
	"InkBinder/internal/geom"
	"InkBinder/internal/render"
	"InkBinder/internal/state"
)

// DrawMode is the draw layer's state.
type DrawMode int

const (
	Write DrawMode = iota
	Delete
)

func (m DrawMode) String() string {
	if m == Delete {
		return "erase"
	}
	return "write"
}

func (m DrawMode) inverse() DrawMode {
	if m == Delete {
		return Write
	}
	return Delete
}

// DrawLayer writes new strokes or erases the strokes under the pointer.
type DrawLayer struct {
	c    *Canvas
	mode DrawMode

	// Per gesture.
	gestureMode DrawMode
	page        *state.Page
	stroke      *state.Stroke
	erased      []*state.Stroke
}

func newDrawLayer(c *Canvas) *DrawLayer {
	return &DrawLayer{c: c}
}

func (l *DrawLayer) Kind() Kind { return DrawKind }

// Mode returns the selected mode.
func (l *DrawLayer) Mode() DrawMode { return l.mode }

// SetMode changes the mode used by the next gesture.
func (l *DrawLayer) SetMode(m DrawMode) { l.mode = m }

func (l *DrawLayer) Start()  {}
func (l *DrawLayer) Finish() { l.reset() }

// PathStarted fixes the mode for the gesture; the secondary button inverts it.
func (l *DrawLayer) PathStarted(path *geom.Path, _ bool) {
	l.reset()
	l.page = l.c.page
	l.gestureMode = l.mode
	if l.c.secondary {
		l.gestureMode = l.mode.inverse()
	}
	if l.gestureMode == Delete {
		l.erase(path.Last())
	}
}

// PathChanged grows the stroke in progress, creating it on first movement,
// or erases under the newest point.
func (l *DrawLayer) PathChanged(path *geom.Path) {
	if l.page == nil {
		return
	}
	if l.gestureMode == Delete {
		l.erase(path.Last())
		return
	}
	if l.stroke == nil {
		l.stroke = state.NewStroke(l.c.pens.Pen(), path)
		l.page.AddStroke(l.stroke)
	}
	n := path.Len()
	if n < 2 {
		return
	}
	a, b := path.At(n-2), path.At(n-1)
	seg := geom.RectFromPoints(a.X(), a.Y(), b.X(), b.Y())
	l.c.repaintRect(l.page, seg.Inflate(l.stroke.Pen().Width()/2+state.AntialiasMargin))
}

// PathFinished records the gesture as one undoable change and hands a new
// stroke to the smoother.
func (l *DrawLayer) PathFinished(path *geom.Path) {
	if l.page == nil {
		return
	}
	if l.gestureMode == Delete {
		l.finishErase()
		return
	}
	if l.stroke == nil {
		l.stroke = state.NewStroke(l.c.pens.Pen(), path)
		l.page.AddStroke(l.stroke)
	}
	page, s := l.page, l.stroke
	l.c.repaintStroke(page, s)
	l.c.record("draw",
		func() {
			page.AddStroke(s)
			l.c.repaintStroke(page, s)
		},
		func() {
			l.c.repaintStroke(page, s)
			page.RemoveStroke(s)
		})
	if l.c.smoothing > 0 {
		l.c.smoother.Submit(page, s, l.c.smoothing, l.c.comb)
	}
	l.reset()
}

// Render draws strokes whose smoothing has not been applied yet, using
// their raw geometry.
func (l *DrawLayer) Render(r render.Renderer) {
	if l.c.smoother.Len() == 0 {
		return
	}
	for _, p := range l.c.binder.Pages() {
		var raw []*state.Stroke
		for _, s := range p.Strokes() {
			if l.c.smoother.Pending(s) {
				raw = append(raw, s)
			}
		}
		if len(raw) == 0 {
			continue
		}
		ox, oy := l.c.binder.PageOrigin(p)
		r.BeginGroup("pending")
		r.Translate(ox, oy)
		for _, s := range raw {
			if r.IsInClipRegion(s) {
				s.Render(r)
			}
		}
		r.EndGroup("pending")
	}
}

func (l *DrawLayer) ZoomTo(float64)   {}
func (l *DrawLayer) ResizeTo(float64) {}

func (l *DrawLayer) Tools() []Tool {
	tool := func(m DrawMode) Tool {
		return Tool{
			Name:   m.String(),
			Active: l.c.active == l && l.mode == m,
			Activate: func() {
				l.mode = m
				l.c.SetActiveLayer(DrawKind)
			},
		}
	}
	return []Tool{tool(Write), tool(Delete)}
}

func (l *DrawLayer) erase(pt geom.Point) {
	for _, s := range l.page.StrokesAt(pt) {
		l.c.repaintStroke(l.page, s)
		l.page.RemoveStroke(s)
		l.erased = append(l.erased, s)
	}
}

func (l *DrawLayer) finishErase() {
	if len(l.erased) == 0 {
		l.reset()
		return
	}
	page, erased := l.page, l.erased
	l.c.record("erase",
		func() { removeAll(l.c, page, erased) },
		func() { restoreAll(l.c, page, erased) })
	l.reset()
}

func (l *DrawLayer) reset() {
	l.page, l.stroke, l.erased = nil, nil, nil
}

// removeAll takes strokes off page.
func removeAll(c *Canvas, page *state.Page, strokes []*state.Stroke) {
	for _, s := range strokes {
		c.repaintStroke(page, s)
		page.RemoveStroke(s)
	}
}

// restoreAll puts strokes back on page, each at its old drawing position.
func restoreAll(c *Canvas, page *state.Page, strokes []*state.Stroke) {
	for _, s := range strokes {
		page.AddStroke(s)
		c.repaintStroke(page, s)
	}
}
