package canvas

import (
	"image/color"

	"InkBinder/internal/geom"
	"InkBinder/internal/render"
	"InkBinder/internal/state"
)

// PageLayer edits whole pages: paper style, copy, delete and clear. While
// active it outlines the current page; a gesture on another page makes
// that page current.
type PageLayer struct {
	c      *Canvas
	active bool
	scale  float64
	shown  *state.Page
}

func newPageLayer(c *Canvas) *PageLayer {
	return &PageLayer{c: c, scale: 1}
}

func (l *PageLayer) Kind() Kind { return PageKind }

func (l *PageLayer) Start() {
	l.active = true
	l.shown = l.c.binder.Current()
	l.repaintHighlight(l.shown)
}

func (l *PageLayer) Finish() {
	l.active = false
	l.repaintHighlight(l.shown)
	l.repaintHighlight(l.c.binder.Current())
	l.shown = nil
}

// PathStarted moves the highlight when the gesture changed pages.
func (l *PageLayer) PathStarted(_ *geom.Path, newPage bool) {
	if newPage {
		l.repaintHighlight(l.shown)
		l.shown = l.c.binder.Current()
		l.repaintHighlight(l.shown)
	}
}

func (l *PageLayer) PathChanged(*geom.Path)  {}
func (l *PageLayer) PathFinished(*geom.Path) {}

// Render outlines the current page while the layer is active.
func (l *PageLayer) Render(r render.Renderer) {
	if !l.active {
		return
	}
	r.BeginGroup("page-highlight")
	r.SetColor(state.SelectionColor)
	r.SetLineWidth(l.highlightWidth())
	r.DrawRect(l.c.binder.PageBounds(l.c.binder.Current()).Inflate(l.highlightWidth()))
	r.EndGroup("page-highlight")
}

func (l *PageLayer) ZoomTo(s float64) { l.scale = s }
func (l *PageLayer) ResizeTo(float64) {}

func (l *PageLayer) Tools() []Tool {
	out := []Tool{{
		Name:     "page",
		Active:   l.c.active == l,
		Activate: func() { l.c.SetActiveLayer(PageKind) },
	}}
	for t := state.Plain; t <= state.WideRuled; t++ {
		out = append(out, Tool{
			Name:     "paper-" + t.String(),
			Active:   l.c.binder.Current().Paper().Type() == t,
			Activate: func() { l.SetPaperType(t) },
		})
	}
	return append(out,
		Tool{Name: "new-page", Activate: func() { l.NewPage() }},
		Tool{Name: "copy-page", Activate: func() { l.CopyPage() }},
		Tool{Name: "delete-page", Activate: func() { l.DeletePage() }},
		Tool{Name: "clear-page", Activate: l.ClearPage},
	)
}

// SetPaperType changes the paper of the current page.
func (l *PageLayer) SetPaperType(t state.PaperType) {
	page := l.c.binder.Current()
	old := page.Paper().Type()
	if old == t {
		return
	}
	apply := func(t state.PaperType) {
		page.Paper().SetType(t)
		l.repaintPage(page)
	}
	apply(t)
	l.c.record("paper type", func() { apply(t) }, func() { apply(old) })
	l.c.flush()
}

// SetPaperColor changes the background color of the current page.
func (l *PageLayer) SetPaperColor(c color.Color) {
	if c == nil {
		panic("canvas: SetPaperColor with nil color")
	}
	page := l.c.binder.Current()
	old := page.Paper().Color()
	apply := func(c color.Color) {
		page.Paper().SetColor(c)
		l.repaintPage(page)
	}
	apply(c)
	l.c.record("paper color", func() { apply(c) }, func() { apply(old) })
	l.c.flush()
}

// NewPage inserts a blank page after the current one and makes it current.
func (l *PageLayer) NewPage() *state.Page {
	prev := l.c.binder.Current()
	page := state.NewPage(l.c.binder.NewPaper())
	l.insertPage(prev, page, "new page")
	return page
}

// CopyPage inserts a copy of the current page after it and makes the copy
// current.
func (l *PageLayer) CopyPage() *state.Page {
	prev := l.c.binder.Current()
	page := prev.Copy()
	l.insertPage(prev, page, "copy page")
	return page
}

// DeletePage removes the current page. The only page cannot be deleted;
// DeletePage reports whether anything happened.
func (l *PageLayer) DeletePage() bool {
	b := l.c.binder
	if b.Len() == 1 {
		return false
	}
	page := b.Current()
	l.c.repaintAll()
	index := b.RemovePage(page)
	next := b.Current()
	l.c.record("delete page",
		func() {
			l.c.repaintAll()
			b.RemovePage(page)
			b.SetCurrent(next)
		},
		func() {
			b.InsertPage(index, page)
			b.SetCurrent(page)
			l.c.repaintAll()
		})
	l.c.flush()
	return true
}

// ClearPage removes every stroke from the current page.
func (l *PageLayer) ClearPage() {
	page := l.c.binder.Current()
	if page.Len() == 0 {
		return
	}
	l.repaintPage(page)
	strokes := page.Clear()
	l.c.record("clear page",
		func() {
			page.Clear()
			l.repaintPage(page)
		},
		func() {
			for _, s := range strokes {
				page.AddStroke(s)
			}
			l.repaintPage(page)
		})
	l.c.flush()
}

func (l *PageLayer) insertPage(after, page *state.Page, label string) {
	b := l.c.binder
	index := b.IndexOf(after) + 1
	b.InsertPage(index, page)
	b.SetCurrent(page)
	l.c.repaintAll()
	l.c.record(label,
		func() {
			b.InsertPage(index, page)
			b.SetCurrent(page)
			l.c.repaintAll()
		},
		func() {
			l.c.repaintAll()
			b.RemovePage(page)
			b.SetCurrent(after)
		})
	l.c.flush()
}

func (l *PageLayer) highlightWidth() float64 { return 2 * l.scale }

func (l *PageLayer) repaintPage(p *state.Page) {
	l.c.repaintRect(p, p.Bounds().Inflate(2*l.highlightWidth()))
}

func (l *PageLayer) repaintHighlight(p *state.Page) {
	if p != nil && l.c.binder.IndexOf(p) >= 0 {
		l.repaintPage(p)
	}
}
