package canvas

import (
	"math"

	"InkBinder/internal/geom"
	"InkBinder/internal/render"
	"InkBinder/internal/state"
)

// SelectMode is the stroke-selection layer's state.
type SelectMode int

const (
	SingleSelect SelectMode = iota
	SingleUnselect
	BoxSelect
	BoxUnselect
	Move
	Scale
)

var selectModeNames = [...]string{"select", "unselect", "box-select", "box-unselect", "move", "scale"}

func (m SelectMode) String() string { return selectModeNames[m] }

// MinScaleRatio is the smallest ratio a scale drag can reach. Dragging
// further inward stops shrinking instead of flipping the geometry.
const MinScaleRatio = 0.05

// placement is a stroke and the page that owns it.
type placement struct {
	page   *state.Page
	stroke *state.Stroke
}

// SelectionLayer selects strokes, by pointing or with a rubber band, and
// moves or scales the selection. Clipboard operations act on the selection
// of the whole document.
type SelectionLayer struct {
	c     *Canvas
	mode  SelectMode
	scale float64

	// Per gesture.
	page     *state.Page
	box      geom.Rect
	boxOn    bool
	targets  []placement
	before   map[*state.Stroke][]geom.Point
	baseline geom.Rect

	clipboard []*state.Stroke
}

func newSelectionLayer(c *Canvas) *SelectionLayer {
	return &SelectionLayer{c: c, scale: 1}
}

func (l *SelectionLayer) Kind() Kind { return SelectKind }

// Mode returns the gesture mode.
func (l *SelectionLayer) Mode() SelectMode { return l.mode }

// SetMode changes the gesture mode.
func (l *SelectionLayer) SetMode(m SelectMode) { l.mode = m }

func (l *SelectionLayer) Start() {}

// Finish drops any rubber band still on screen.
func (l *SelectionLayer) Finish() {
	l.clearBox()
	l.reset()
}

func (l *SelectionLayer) PathStarted(path *geom.Path, _ bool) {
	l.reset()
	l.page = l.c.page
	pt := path.First()
	switch l.mode {
	case SingleSelect, SingleUnselect:
		hits := l.page.StrokesAt(pt)
		if len(hits) == 0 {
			return
		}
		l.setSelected([]placement{{l.page, hits[len(hits)-1]}}, l.mode == SingleSelect)
	case BoxSelect, BoxUnselect:
		l.box = geom.Rect{X: pt.X(), Y: pt.Y()}
		l.boxOn = true
		l.c.repaintRect(l.page, l.box.Inflate(l.bandWidth()))
	case Move, Scale:
		l.capture()
	}
}

func (l *SelectionLayer) PathChanged(path *geom.Path) {
	if l.page == nil {
		return
	}
	switch l.mode {
	case BoxSelect, BoxUnselect:
		l.trackBox(path)
	case Move:
		n := path.Len()
		a, b := path.At(n-2), path.At(n-1)
		l.translate(b.X()-a.X(), b.Y()-a.Y())
	case Scale:
		first, last := path.First(), path.Last()
		l.scaleTo(last.X()-first.X(), last.Y()-first.Y())
	}
}

func (l *SelectionLayer) PathFinished(path *geom.Path) {
	if l.page == nil {
		return
	}
	switch l.mode {
	case BoxSelect, BoxUnselect:
		l.trackBox(path)
		var inside []placement
		for _, s := range l.page.Strokes() {
			if l.box.ContainsRect(s.Bounds()) {
				inside = append(inside, placement{l.page, s})
			}
		}
		l.clearBox()
		l.setSelected(inside, l.mode == BoxSelect)
	case Move, Scale:
		l.commitGeometry(l.mode.String())
	}
	l.reset()
}

// Render draws the rubber band.
func (l *SelectionLayer) Render(r render.Renderer) {
	if !l.boxOn || l.page == nil {
		return
	}
	ox, oy := l.c.binder.PageOrigin(l.page)
	r.BeginGroup("rubber-band")
	r.Translate(ox, oy)
	r.SetColor(state.SelectionColor)
	r.SetLineWidth(l.bandWidth())
	r.DrawRect(l.box)
	r.EndGroup("rubber-band")
}

// ZoomTo keeps the rubber band one pixel wide at any zoom.
func (l *SelectionLayer) ZoomTo(s float64) { l.scale = s }

// ResizeTo rescales the clipboard with the document.
func (l *SelectionLayer) ResizeTo(f float64) {
	for _, s := range l.clipboard {
		s.ResizeTo(f)
	}
}

func (l *SelectionLayer) Tools() []Tool {
	out := make([]Tool, 0, len(selectModeNames)+4)
	for m := SingleSelect; m <= Scale; m++ {
		out = append(out, Tool{
			Name:   m.String(),
			Active: l.c.active == l && l.mode == m,
			Activate: func() {
				l.mode = m
				l.c.SetActiveLayer(SelectKind)
			},
		})
	}
	return append(out,
		Tool{Name: "copy", Activate: l.c.Copy},
		Tool{Name: "cut", Activate: l.c.Cut},
		Tool{Name: "paste", Activate: l.c.Paste},
		Tool{Name: "delete", Activate: l.c.DeleteSelected},
	)
}

// Clipboard returns the strokes Paste would add.
func (l *SelectionLayer) Clipboard() []*state.Stroke {
	out := make([]*state.Stroke, len(l.clipboard))
	copy(out, l.clipboard)
	return out
}

// SelectAll selects every stroke in the document.
func (l *SelectionLayer) SelectAll() {
	var changed []placement
	for _, p := range l.c.binder.Pages() {
		for _, s := range p.Unselected() {
			changed = append(changed, placement{p, s})
		}
	}
	l.setSelectedAll(changed, true)
}

// UnselectAll clears the selection of the whole document.
func (l *SelectionLayer) UnselectAll() {
	l.setSelectedAll(l.selection(), false)
}

// DeleteSelected removes the selected strokes of every page as one change.
func (l *SelectionLayer) DeleteSelected() {
	l.deleteSelected("delete")
}

// Copy puts deep copies of the selection on the clipboard and unselects
// the originals.
func (l *SelectionLayer) Copy() {
	sel := l.selection()
	if len(sel) == 0 {
		return
	}
	l.fillClipboard(sel)
	l.setSelected(sel, false)
}

// Cut puts the selection on the clipboard and deletes it.
func (l *SelectionLayer) Cut() {
	sel := l.selection()
	if len(sel) == 0 {
		return
	}
	l.fillClipboard(sel)
	l.deleteSelected("cut")
}

// Paste adds fresh copies of the clipboard to the current page as the new
// selection.
func (l *SelectionLayer) Paste() {
	if len(l.clipboard) == 0 {
		return
	}
	page := l.c.binder.Current()
	prior := l.selection()
	pasted := make([]*state.Stroke, len(l.clipboard))
	for i, s := range l.clipboard {
		pasted[i] = s.Copy()
	}
	do := func() {
		for _, p := range prior {
			p.page.UnselectStroke(p.stroke)
			l.c.repaintStroke(p.page, p.stroke)
		}
		for _, s := range pasted {
			page.AddStroke(s)
			page.SelectStroke(s)
			l.c.repaintStroke(page, s)
		}
	}
	undo := func() {
		for _, s := range pasted {
			l.c.repaintStroke(page, s)
			page.RemoveStroke(s)
		}
		for _, p := range prior {
			p.page.SelectStroke(p.stroke)
			l.c.repaintStroke(p.page, p.stroke)
		}
	}
	do()
	l.c.record("paste", do, undo)
}

func (l *SelectionLayer) fillClipboard(sel []placement) {
	l.clipboard = l.clipboard[:0]
	for _, p := range sel {
		l.clipboard = append(l.clipboard, p.stroke.Copy())
	}
}

func (l *SelectionLayer) deleteSelected(label string) {
	removed := make(map[*state.Page][]*state.Stroke)
	for page, strokes := range l.c.binder.SelectedStrokes() {
		for _, s := range strokes {
			l.c.repaintStroke(page, s)
			page.RemoveStroke(s)
			removed[page] = append(removed[page], s)
		}
	}
	if len(removed) == 0 {
		return
	}
	l.c.record(label,
		func() {
			for page, rs := range removed {
				removeAll(l.c, page, rs)
			}
		},
		func() {
			for page, rs := range removed {
				restoreAll(l.c, page, rs)
			}
		})
}

// selection returns every selected stroke in page order.
func (l *SelectionLayer) selection() []placement {
	var out []placement
	for _, p := range l.c.binder.Pages() {
		for _, s := range p.Selected() {
			out = append(out, placement{p, s})
		}
	}
	return out
}

// setSelected applies a selection change to strokes and records it.
func (l *SelectionLayer) setSelected(ps []placement, on bool) {
	var changed []placement
	for _, p := range ps {
		if p.stroke.IsSelected() != on {
			changed = append(changed, p)
		}
	}
	if len(changed) == 0 {
		return
	}
	apply := func(sel bool) {
		for _, p := range changed {
			// Bounds grow with selection; cover both sizes.
			l.c.repaintStroke(p.page, p.stroke)
			if sel {
				p.page.SelectStroke(p.stroke)
			} else {
				p.page.UnselectStroke(p.stroke)
			}
			l.c.repaintStroke(p.page, p.stroke)
		}
	}
	apply(on)
	label := "unselect"
	if on {
		label = "select"
	}
	l.c.record(label, func() { apply(on) }, func() { apply(!on) })
}

// setSelectedAll is setSelected for document-wide changes, which repaint
// everything.
func (l *SelectionLayer) setSelectedAll(ps []placement, on bool) {
	if len(ps) == 0 {
		return
	}
	l.setSelected(ps, on)
	l.c.repaintAll()
	l.c.flush()
}

// capture records the selection and its geometry at the start of a move
// or scale gesture.
func (l *SelectionLayer) capture() {
	l.targets = l.selection()
	l.before = make(map[*state.Stroke][]geom.Point, len(l.targets))
	l.baseline = geom.EmptyRect
	for _, t := range l.targets {
		l.before[t.stroke] = t.stroke.Path().Snapshot()
		ox, oy := l.c.binder.PageOrigin(t.page)
		l.baseline = l.baseline.Union(t.stroke.Path().Bounds().Translate(ox, oy))
	}
}

// Baseline returns the union of the selected paths' bounds, in binder
// coordinates, recorded when the current scale gesture began.
func (l *SelectionLayer) Baseline() geom.Rect { return l.baseline }

func (l *SelectionLayer) translate(dx, dy float64) {
	for _, t := range l.targets {
		l.c.repaintStroke(t.page, t.stroke)
		t.stroke.Translate(dx, dy)
		l.c.repaintStroke(t.page, t.stroke)
	}
}

// scaleTo scales the selection so the baseline grows by (dx, dy). Ratios
// come from the baseline captured at gesture start, not from the previous
// step, so repeated drags do not drift.
func (l *SelectionLayer) scaleTo(dx, dy float64) {
	if l.baseline.IsEmpty() {
		return
	}
	rx := scaleRatio(l.baseline.Width, dx)
	ry := scaleRatio(l.baseline.Height, dy)
	for _, t := range l.targets {
		ox, oy := l.c.binder.PageOrigin(t.page)
		l.c.repaintStroke(t.page, t.stroke)
		t.stroke.Path().Restore(l.before[t.stroke])
		t.stroke.Path().ScaleAbout(l.baseline.X-ox, l.baseline.Y-oy, rx, ry)
		l.c.repaintStroke(t.page, t.stroke)
	}
}

func scaleRatio(base, delta float64) float64 {
	if base == 0 {
		return 1
	}
	return math.Max((base+delta)/base, MinScaleRatio)
}

// commitGeometry records the net effect of a move or scale gesture.
func (l *SelectionLayer) commitGeometry(label string) {
	if len(l.targets) == 0 {
		return
	}
	targets, before := l.targets, l.before
	after := make(map[*state.Stroke][]geom.Point, len(targets))
	moved := false
	for _, t := range targets {
		after[t.stroke] = t.stroke.Path().Snapshot()
		if !samePoints(before[t.stroke], after[t.stroke]) {
			moved = true
		}
	}
	if !moved {
		return
	}
	apply := func(geometry map[*state.Stroke][]geom.Point) {
		for _, t := range targets {
			l.c.repaintStroke(t.page, t.stroke)
			t.stroke.Path().Restore(geometry[t.stroke])
			t.stroke.Path().ScaleTo(t.page.Scale(), t.page.Scale())
			t.stroke.Path().Freeze()
			l.c.repaintStroke(t.page, t.stroke)
		}
	}
	for _, t := range targets {
		t.stroke.Path().Freeze()
	}
	l.c.record(label, func() { apply(after) }, func() { apply(before) })
}

func (l *SelectionLayer) trackBox(path *geom.Path) {
	l.c.repaintRect(l.page, l.box.Inflate(l.bandWidth()))
	first, last := path.First(), path.Last()
	l.box = geom.RectFromPoints(first.X(), first.Y(), last.X(), last.Y())
	l.c.repaintRect(l.page, l.box.Inflate(l.bandWidth()))
}

func (l *SelectionLayer) clearBox() {
	if l.boxOn && l.page != nil {
		l.c.repaintRect(l.page, l.box.Inflate(l.bandWidth()))
	}
	l.boxOn = false
}

func (l *SelectionLayer) bandWidth() float64 { return math.Max(1, l.scale) }

func (l *SelectionLayer) reset() {
	l.page = nil
	l.targets, l.before = nil, nil
	l.baseline = geom.EmptyRect
}

func samePoints(a, b []geom.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
