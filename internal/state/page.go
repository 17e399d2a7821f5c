package state

import (
	"cmp"
	"math"
	"slices"

	"github.com/google/uuid"

	"InkBinder/internal/geom"
	"InkBinder/internal/render"
)

// Page is one sheet: paper plus an ordered list of strokes.
//
// Every stroke on the page is in exactly one of two sets, selected or
// unselected, and their union is the stroke list. The sets are updated
// incrementally by every add, remove, select and unselect. Drawing order
// follows each stroke's order key, so adding and removing are map updates;
// the ordered list is rebuilt on the next read when a change broke it.
type Page struct {
	id         string
	paper      *Paper
	selected   map[*Stroke]struct{}
	unselected map[*Stroke]struct{}
	scale      float64

	strokes []*Stroke
	stale   bool
}

// NewPage creates an empty page on paper.
func NewPage(paper *Paper) *Page {
	if paper == nil {
		panic("state: NewPage with nil paper")
	}
	return &Page{
		id:         uuid.NewString(),
		paper:      paper,
		selected:   make(map[*Stroke]struct{}),
		unselected: make(map[*Stroke]struct{}),
		scale:      1,
	}
}

// ID returns the page's unique identifier.
func (p *Page) ID() string { return p.id }

// Paper returns the page background.
func (p *Page) Paper() *Paper { return p.paper }

// Bounds returns the sheet rectangle in page-local display coordinates.
func (p *Page) Bounds() geom.Rect { return p.paper.Bounds() }

// Len returns the number of strokes.
func (p *Page) Len() int { return len(p.selected) + len(p.unselected) }

// Contains reports whether s is on this page.
func (p *Page) Contains(s *Stroke) bool {
	if _, ok := p.selected[s]; ok {
		return true
	}
	_, ok := p.unselected[s]
	return ok
}

// Strokes returns a snapshot of the stroke list in drawing order.
func (p *Page) Strokes() []*Stroke {
	ordered := p.ordered()
	out := make([]*Stroke, len(ordered))
	copy(out, ordered)
	return out
}

// Selected returns a snapshot of the selected strokes in drawing order.
func (p *Page) Selected() []*Stroke {
	return p.filter(true)
}

// Unselected returns a snapshot of the unselected strokes in drawing order.
func (p *Page) Unselected() []*Stroke {
	return p.filter(false)
}

// SelectedCount returns the size of the selected set.
func (p *Page) SelectedCount() int { return len(p.selected) }

// UnselectedCount returns the size of the unselected set.
func (p *Page) UnselectedCount() int { return len(p.unselected) }

// AddStroke puts s on the page. A stroke that was on a page before, for
// instance one being restored by undo, returns to its old drawing position;
// a new one goes on top. It reports false if s is already on the page.
func (p *Page) AddStroke(s *Stroke) bool {
	if s == nil {
		panic("state: AddStroke with nil stroke")
	}
	if p.Contains(s) {
		return false
	}
	s.place()
	if n := len(p.strokes); !p.stale && (n == 0 || p.strokes[n-1].order < s.order) {
		p.strokes = append(p.strokes, s)
	} else {
		p.stale = true
	}
	s.ScaleTo(p.scale)
	if s.selected {
		p.selected[s] = struct{}{}
	} else {
		p.unselected[s] = struct{}{}
	}
	return true
}

// RemoveStroke takes s off the page and reports whether it was there. The
// stroke keeps its selected flag and drawing position, so adding it back
// restores both.
func (p *Page) RemoveStroke(s *Stroke) bool {
	if s == nil {
		panic("state: RemoveStroke with nil stroke")
	}
	if !p.Contains(s) {
		return false
	}
	delete(p.selected, s)
	delete(p.unselected, s)
	if n := len(p.strokes); !p.stale && p.strokes[n-1] == s {
		p.strokes[n-1] = nil
		p.strokes = p.strokes[:n-1]
	} else {
		p.stale = true
	}
	return true
}

// ordered returns the stroke list in drawing order, rebuilding it if needed.
func (p *Page) ordered() []*Stroke {
	if !p.stale {
		return p.strokes
	}
	p.strokes = make([]*Stroke, 0, p.Len())
	for s := range p.selected {
		p.strokes = append(p.strokes, s)
	}
	for s := range p.unselected {
		p.strokes = append(p.strokes, s)
	}
	slices.SortFunc(p.strokes, func(a, b *Stroke) int { return cmp.Compare(a.order, b.order) })
	p.stale = false
	return p.strokes
}

// Clear removes every stroke and returns them in drawing order.
func (p *Page) Clear() []*Stroke {
	out := p.ordered()
	p.strokes = nil
	p.selected = make(map[*Stroke]struct{})
	p.unselected = make(map[*Stroke]struct{})
	return out
}

// SelectStroke marks s selected. It reports whether anything changed.
func (p *Page) SelectStroke(s *Stroke) bool {
	if s == nil {
		panic("state: SelectStroke with nil stroke")
	}
	if _, ok := p.unselected[s]; !ok {
		return false
	}
	delete(p.unselected, s)
	p.selected[s] = struct{}{}
	s.selected = true
	return true
}

// UnselectStroke marks s unselected. It reports whether anything changed.
func (p *Page) UnselectStroke(s *Stroke) bool {
	if s == nil {
		panic("state: UnselectStroke with nil stroke")
	}
	if _, ok := p.selected[s]; !ok {
		return false
	}
	delete(p.selected, s)
	p.unselected[s] = struct{}{}
	s.selected = false
	return true
}

// SelectAll selects every stroke and returns those that changed.
func (p *Page) SelectAll() []*Stroke {
	changed := p.Unselected()
	for _, s := range changed {
		p.SelectStroke(s)
	}
	return changed
}

// UnselectAll unselects every stroke and returns those that changed.
func (p *Page) UnselectAll() []*Stroke {
	changed := p.Selected()
	for _, s := range changed {
		p.UnselectStroke(s)
	}
	return changed
}

// StrokesAt returns the strokes whose ink covers pt, in drawing order.
func (p *Page) StrokesAt(pt geom.Point) []*Stroke {
	var hits []*Stroke
	for _, s := range p.ordered() {
		if s.ContainsPoint(pt) {
			hits = append(hits, s)
		}
	}
	return hits
}

// ClipPoint clamps a page-local display coordinate to the sheet.
func (p *Page) ClipPoint(x, y float64) (float64, float64) {
	b := p.paper.Bounds()
	return math.Max(b.X, math.Min(x, b.MaxX())), math.Max(b.Y, math.Min(y, b.MaxY()))
}

// Scale returns the zoom the page is displayed at.
func (p *Page) Scale() float64 { return p.scale }

// ScaleTo sets the zoom of the paper and every stroke.
func (p *Page) ScaleTo(s float64) {
	geom.CheckScale(s)
	p.scale = s
	p.paper.ScaleTo(s)
	for _, st := range p.ordered() {
		st.ScaleTo(s)
	}
}

// ResizeTo permanently rescales the paper and every stroke.
func (p *Page) ResizeTo(f float64) {
	geom.CheckScale(f)
	p.paper.ResizeTo(f)
	for _, st := range p.ordered() {
		st.ResizeTo(f)
	}
}

// Copy returns a new page with copies of the paper and strokes, all unselected.
func (p *Page) Copy() *Page {
	c := NewPage(p.paper.Copy())
	c.scale = p.scale
	for _, s := range p.ordered() {
		c.AddStroke(s.Copy())
	}
	return c
}

// Render draws the paper and every visible stroke for which skip returns
// false. skip may be nil.
func (p *Page) Render(r render.Renderer, skip func(*Stroke) bool) {
	r.BeginGroup("page:" + p.id)
	p.paper.Render(r)
	for _, s := range p.ordered() {
		if skip != nil && skip(s) {
			continue
		}
		if !r.IsInClipRegion(s) {
			continue
		}
		s.Render(r)
	}
	r.EndGroup("page:" + p.id)
}

func (p *Page) filter(selected bool) []*Stroke {
	set := p.unselected
	if selected {
		set = p.selected
	}
	out := make([]*Stroke, 0, len(set))
	for _, s := range p.ordered() {
		if _, ok := set[s]; ok {
			out = append(out, s)
		}
	}
	return out
}
