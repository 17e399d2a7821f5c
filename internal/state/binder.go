package state

import (
	"InkBinder/internal/geom"
	"InkBinder/internal/render"
)

// PageGap is the vertical space between sheets at zoom 1.
const PageGap = 20.0

// PaperFactory returns fresh paper for a new page.
type PaperFactory func() *Paper

// Binder is the ordered collection of pages. Sheets are stacked top to
// bottom, separated by PageGap, in one display coordinate space; the
// binder translates between that space and page-local coordinates.
type Binder struct {
	pages    []*Page
	current  *Page
	scale    float64
	newPaper PaperFactory
}

// NewBinder creates a binder holding one empty page.
func NewBinder(factory PaperFactory) *Binder {
	if factory == nil {
		panic("state: NewBinder with nil paper factory")
	}
	b := &Binder{scale: 1, newPaper: factory}
	b.current = b.NewPage(0)
	return b
}

// SetPaperFactory changes the paper used for pages created from now on.
func (b *Binder) SetPaperFactory(factory PaperFactory) {
	if factory == nil {
		panic("state: SetPaperFactory with nil factory")
	}
	b.newPaper = factory
}

// NewPaper returns paper from the binder's factory.
func (b *Binder) NewPaper() *Paper { return b.newPaper() }

// Len returns the number of pages.
func (b *Binder) Len() int { return len(b.pages) }

// Pages returns a snapshot of the pages in order.
func (b *Binder) Pages() []*Page {
	out := make([]*Page, len(b.pages))
	copy(out, b.pages)
	return out
}

// Page returns the page at index i.
func (b *Binder) Page(i int) *Page { return b.pages[i] }

// IndexOf returns the position of p, or -1.
func (b *Binder) IndexOf(p *Page) int {
	for i, have := range b.pages {
		if have == p {
			return i
		}
	}
	return -1
}

// Current returns the page that receives new strokes.
func (b *Binder) Current() *Page { return b.current }

// SetCurrent makes p the current page. It reports false if p is not in the binder.
func (b *Binder) SetCurrent(p *Page) bool {
	if b.IndexOf(p) < 0 {
		return false
	}
	b.current = p
	return true
}

// NewPage inserts an empty page at index i and returns it.
func (b *Binder) NewPage(i int) *Page {
	p := NewPage(b.NewPaper())
	b.InsertPage(i, p)
	return p
}

// InsertPage places p at index i (clamped). It reports false if p is
// already in the binder.
func (b *Binder) InsertPage(i int, p *Page) bool {
	if p == nil {
		panic("state: InsertPage with nil page")
	}
	if b.IndexOf(p) >= 0 {
		return false
	}
	i = max(0, min(i, len(b.pages)))
	b.pages = append(b.pages, nil)
	copy(b.pages[i+1:], b.pages[i:])
	b.pages[i] = p
	p.ScaleTo(b.scale)
	if b.current == nil {
		b.current = p
	}
	return true
}

// RemovePage takes p out of the binder and returns its former index, or
// -1 if it was not present. The last page cannot be removed. When the
// current page goes, its neighbour becomes current.
func (b *Binder) RemovePage(p *Page) int {
	i := b.IndexOf(p)
	if i < 0 || len(b.pages) == 1 {
		return -1
	}
	b.pages = append(b.pages[:i], b.pages[i+1:]...)
	if b.current == p {
		b.current = b.pages[min(i, len(b.pages)-1)]
	}
	return i
}

// Scale returns the binder zoom.
func (b *Binder) Scale() float64 { return b.scale }

// ScaleTo zooms every page.
func (b *Binder) ScaleTo(s float64) {
	geom.CheckScale(s)
	b.scale = s
	for _, p := range b.pages {
		p.ScaleTo(s)
	}
}

// ResizeTo permanently rescales every page.
func (b *Binder) ResizeTo(f float64) {
	geom.CheckScale(f)
	for _, p := range b.pages {
		p.ResizeTo(f)
	}
}

// PageOrigin returns the display position of p's top-left corner.
func (b *Binder) PageOrigin(p *Page) (x, y float64) {
	gap := PageGap * b.scale
	for _, have := range b.pages {
		if have == p {
			return 0, y
		}
		y += have.Bounds().Height + gap
	}
	return 0, -1
}

// PageBounds returns p's sheet in binder display coordinates.
func (b *Binder) PageBounds(p *Page) geom.Rect {
	x, y := b.PageOrigin(p)
	return p.Bounds().Translate(x, y)
}

// PageAt returns the sheet under (x, y) and the point in that page's local
// coordinates. The second page is returned for points in the gap below the
// first's midline, so every y maps to a page; x outside every sheet still
// reports the nearest page row. The result is nil only for an empty binder.
func (b *Binder) PageAt(x, y float64) (*Page, float64, float64) {
	gap := PageGap * b.scale
	top := 0.0
	for i, p := range b.pages {
		bottom := top + p.Bounds().Height
		if y < bottom+gap/2 || i == len(b.pages)-1 {
			return p, x, y - top
		}
		top = bottom + gap
	}
	return nil, x, y
}

// Bounds returns the rectangle enclosing every sheet.
func (b *Binder) Bounds() geom.Rect {
	r := geom.EmptyRect
	for _, p := range b.pages {
		r = r.Union(b.PageBounds(p))
	}
	return r
}

// SelectedStrokes maps every page with a selection to its selected strokes.
func (b *Binder) SelectedStrokes() map[*Page][]*Stroke {
	out := make(map[*Page][]*Stroke)
	for _, p := range b.pages {
		if p.SelectedCount() > 0 {
			out[p] = p.Selected()
		}
	}
	return out
}

// StrokeCount returns the number of strokes over all pages.
func (b *Binder) StrokeCount() int {
	n := 0
	for _, p := range b.pages {
		n += p.Len()
	}
	return n
}

// Render draws every visible page at its origin. skip is passed to
// Page.Render and may be nil.
func (b *Binder) Render(r render.Renderer, skip func(*Stroke) bool) {
	for _, p := range b.pages {
		b.RenderPage(r, p, skip)
	}
}

// RenderPage draws one page at its binder origin.
func (b *Binder) RenderPage(r render.Renderer, p *Page, skip func(*Stroke) bool) {
	id := "sheet:" + p.ID()
	x, y := b.PageOrigin(p)
	r.BeginGroup(id)
	r.Translate(x, y)
	if r.IsInClipRegion(p) {
		p.Render(r, skip)
	}
	r.EndGroup(id)
}
