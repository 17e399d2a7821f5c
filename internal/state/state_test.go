package state

import (
	"image/color"
	"math"
	"slices"
	"testing"

	"InkBinder/internal/geom"
	"InkBinder/internal/render"
)

func line(x1, y1, x2, y2 float64) *geom.Path {
	return geom.NewPathFrom(geom.NewPoint(x1, y1), geom.NewPoint(x2, y2))
}

func testPaper() *Paper {
	return NewPaper(Plain, color.White, 200, 300)
}

func checkPartition(t *testing.T, p *Page) {
	t.Helper()
	sel, unsel := p.Selected(), p.Unselected()
	if len(sel)+len(unsel) != p.Len() {
		t.Fatalf("partition sizes %d+%d != %d", len(sel), len(unsel), p.Len())
	}
	seen := make(map[*Stroke]bool)
	for _, s := range sel {
		if !s.IsSelected() {
			t.Fatalf("stroke in selected set has flag off")
		}
		seen[s] = true
	}
	for _, s := range unsel {
		if seen[s] {
			t.Fatalf("stroke in both sets")
		}
		seen[s] = true
	}
	for _, s := range p.Strokes() {
		if !seen[s] {
			t.Fatalf("stroke missing from both sets")
		}
	}
}

func TestStrokeBoundsInflation(t *testing.T) {
	s := NewStroke(NewPen(2, color.Black), line(0, 0, 10, 0))
	b := s.Bounds()
	if b.Width != 14 || b.Height != 4 {
		t.Fatalf("unselected bounds %vx%v, want 14x4", b.Width, b.Height)
	}

	p := NewPage(testPaper())
	p.AddStroke(s)
	p.SelectStroke(s)
	sb := s.Bounds()
	if sb.Width <= b.Width || sb.Height <= b.Height {
		t.Fatalf("selected bounds %v not larger than %v", sb, b)
	}
}

func TestStrokeContainsPoint(t *testing.T) {
	s := NewStroke(NewPen(4, color.Black), line(0, 0, 10, 0))
	if !s.ContainsPoint(geom.NewPoint(5, 1)) {
		t.Fatalf("(5,1) should be on the ink")
	}
	if s.ContainsPoint(geom.NewPoint(5, 10)) {
		t.Fatalf("(5,10) should miss")
	}
	if s.ContainsPoint(geom.NewPoint(13, 0)) {
		t.Fatalf("point beyond the end cap should miss")
	}

	dot := NewStroke(NewPen(4, color.Black), geom.NewPathFrom(geom.NewPoint(3, 3)))
	if !dot.ContainsPoint(geom.NewPoint(4, 3)) {
		t.Fatalf("one-point stroke should hit within half width")
	}
}

func TestStrokeKeepsOwnPen(t *testing.T) {
	pen := NewPen(2, color.Black)
	s := NewStroke(pen, line(0, 0, 1, 1))
	pen.SetWidth(9)
	pen.SetColor(color.White)
	if s.Pen().RawWidth() != 2 || s.Pen().Color() != (color.NRGBA{A: 0xff}) {
		t.Fatalf("pen edit leaked into existing stroke")
	}
}

func TestPagePartition(t *testing.T) {
	p := NewPage(testPaper())
	a := NewStroke(NewPen(1, color.Black), line(0, 0, 5, 5))
	b := NewStroke(NewPen(1, color.Black), line(10, 10, 15, 15))
	c := NewStroke(NewPen(1, color.Black), line(20, 20, 25, 25))
	for _, s := range []*Stroke{a, b, c} {
		if !p.AddStroke(s) {
			t.Fatalf("add failed")
		}
		checkPartition(t, p)
	}
	if p.AddStroke(a) {
		t.Fatalf("duplicate add accepted")
	}
	p.SelectStroke(b)
	checkPartition(t, p)
	if p.SelectStroke(b) {
		t.Fatalf("reselect reported a change")
	}
	if got := p.SelectAll(); len(got) != 2 {
		t.Fatalf("SelectAll changed %d strokes, want 2", len(got))
	}
	checkPartition(t, p)

	if !p.RemoveStroke(b) {
		t.Fatalf("remove did not find the stroke")
	}
	checkPartition(t, p)
	if p.RemoveStroke(b) {
		t.Fatalf("second remove found the stroke")
	}

	p.AddStroke(b)
	checkPartition(t, p)
	if got := p.Strokes(); got[1] != b || !b.IsSelected() || p.SelectedCount() != 3 {
		t.Fatalf("re-adding did not restore position and selection")
	}
	p.UnselectAll()
	checkPartition(t, p)
	if p.SelectedCount() != 0 {
		t.Fatalf("UnselectAll left %d selected", p.SelectedCount())
	}
}

func TestPageStrokesAtAndClip(t *testing.T) {
	p := NewPage(testPaper())
	a := NewStroke(NewPen(4, color.Black), line(0, 10, 50, 10))
	b := NewStroke(NewPen(4, color.Black), line(25, 0, 25, 50))
	p.AddStroke(a)
	p.AddStroke(b)

	if hits := p.StrokesAt(geom.NewPoint(25, 10)); len(hits) != 2 {
		t.Fatalf("crossing point hit %d strokes", len(hits))
	}
	if hits := p.StrokesAt(geom.NewPoint(100, 100)); len(hits) != 0 {
		t.Fatalf("empty area hit %d strokes", len(hits))
	}

	x, y := p.ClipPoint(-5, 400)
	if x != 0 || y != 300 {
		t.Fatalf("clip gave (%v,%v)", x, y)
	}
}

func TestPageCopyIsDeep(t *testing.T) {
	p := NewPage(testPaper())
	s := NewStroke(NewPen(1, color.Black), line(0, 0, 5, 5))
	p.AddStroke(s)
	p.SelectStroke(s)

	c := p.Copy()
	if c.Len() != 1 || c.SelectedCount() != 0 {
		t.Fatalf("copy has %d strokes, %d selected", c.Len(), c.SelectedCount())
	}
	cs := c.Strokes()[0]
	if cs == s || cs.ID() == s.ID() || cs.Path() == s.Path() {
		t.Fatalf("copy shares stroke state")
	}
	if c.Paper() == p.Paper() || c.ID() == p.ID() {
		t.Fatalf("copy shares page identity")
	}
}

func TestPageZoomAndResize(t *testing.T) {
	p := NewPage(testPaper())
	s := NewStroke(NewPen(2, color.Black), line(0, 0, 10, 0))
	p.AddStroke(s)

	p.ScaleTo(2)
	if got := s.Path().Last().X(); got != 20 {
		t.Fatalf("zoomed x = %v, want 20", got)
	}
	if s.Pen().Width() != 4 || s.Pen().RawWidth() != 2 {
		t.Fatalf("zoom changed raw pen width")
	}
	late := NewStroke(NewPen(2, color.Black), line(0, 0, 1, 0))
	p.AddStroke(late)
	if sx, _ := late.Path().First().Scale(); sx != 2 {
		t.Fatalf("added stroke not brought to page zoom")
	}

	p.ScaleTo(1)
	p.ResizeTo(3)
	if got := s.Path().Last().RawX(); got != 30 {
		t.Fatalf("resized raw x = %v, want 30", got)
	}
	if p.Paper().UnitScale() != 3 || p.Bounds().Width != 600 {
		t.Fatalf("paper not resized: unit %v width %v", p.Paper().UnitScale(), p.Bounds().Width)
	}
}

func TestPageRenderSkipsAndClips(t *testing.T) {
	p := NewPage(testPaper())
	a := NewStroke(NewPen(1, color.Black), line(0, 0, 5, 5))
	b := NewStroke(NewPen(1, color.Black), line(150, 250, 160, 260))
	c := NewStroke(NewPen(1, color.Black), line(10, 10, 20, 20))
	p.AddStroke(a)
	p.AddStroke(b)
	p.AddStroke(c)

	r := render.NewRecorder()
	r.Clip = &geom.Rect{Width: 100, Height: 100}
	p.Render(r, func(s *Stroke) bool { return s == c })
	if n := r.Count(render.OpDrawPath); n != 1 {
		t.Fatalf("rendered %d paths, want 1", n)
	}
}

func TestPaperCacheInvalidation(t *testing.T) {
	paper := NewPaper(Graph, color.White, 40, 40)
	r := render.NewRaster(40, 40, nil)
	paper.Render(r)
	if !paper.Cached() {
		t.Fatalf("image backend did not populate the cache")
	}

	mutators := map[string]func(){
		"type":       func() { paper.SetType(CollegeRuled) },
		"color":      func() { paper.SetColor(color.Black) },
		"scale":      func() { paper.ScaleTo(2) },
		"resize":     func() { paper.ResizeTo(1.5) },
		"resolution": func() { paper.SetResolution(120) },
	}
	for name, mutate := range mutators {
		paper.Render(r)
		mutate()
		if paper.Cached() {
			t.Fatalf("%s did not invalidate the cache", name)
		}
	}

	rec := render.NewRecorder()
	paper.Render(rec)
	if paper.Cached() {
		t.Fatalf("vector render should draw guides directly")
	}
	if rec.Count(render.OpFillRect) != 1 || rec.Count(render.OpDrawLine) == 0 {
		t.Fatalf("guides missing from vector render")
	}
}

func TestPaperGuidesFollowUnits(t *testing.T) {
	paper := NewPaper(Graph, color.White, 100, 100)
	want := 0.5 * 96 / 2.54
	if got := paper.CMToPixels(0.5); math.Abs(got-want) > 1e-9 {
		t.Fatalf("0.5cm = %v px, want %v", got, want)
	}
	paper.ResizeTo(2)
	if got := paper.CMToPixels(0.5); math.Abs(got-2*want) > 1e-9 {
		t.Fatalf("unit scale not applied: %v", got)
	}
}

func TestParsePaperType(t *testing.T) {
	for _, kind := range []PaperType{Plain, Graph, CollegeRuled, WideRuled} {
		got, err := ParsePaperType(kind.String())
		if err != nil || got != kind {
			t.Fatalf("round trip of %v gave %v, %v", kind, got, err)
		}
	}
	if _, err := ParsePaperType("papyrus"); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestBinderLayout(t *testing.T) {
	b := NewBinder(testPaper)
	first := b.Current()
	second := b.NewPage(1)

	if _, y := b.PageOrigin(second); y != 300+PageGap {
		t.Fatalf("second page origin y = %v", y)
	}
	p, lx, ly := b.PageAt(10, 330)
	if p != second || lx != 10 || ly != 10 {
		t.Fatalf("PageAt gave page %v local (%v,%v)", b.IndexOf(p), lx, ly)
	}
	if p, _, _ := b.PageAt(10, 305); p != first {
		t.Fatalf("upper half of the gap should map to the first page")
	}

	b.ScaleTo(2)
	if _, y := b.PageOrigin(second); y != 600+2*PageGap {
		t.Fatalf("zoomed origin y = %v", y)
	}
	if bounds := b.Bounds(); bounds.Height != 1200+2*PageGap {
		t.Fatalf("binder height %v", bounds.Height)
	}
}

func TestBinderRemovePage(t *testing.T) {
	b := NewBinder(testPaper)
	only := b.Current()
	if b.RemovePage(only) != -1 {
		t.Fatalf("removed the last page")
	}
	next := b.NewPage(1)
	if i := b.RemovePage(only); i != 0 {
		t.Fatalf("removed index %d", i)
	}
	if b.Current() != next {
		t.Fatalf("current page not moved to neighbour")
	}
}

func TestBinderSelectedStrokes(t *testing.T) {
	b := NewBinder(testPaper)
	p1 := b.Current()
	p2 := b.NewPage(1)
	s1 := NewStroke(NewPen(1, color.Black), line(0, 0, 1, 1))
	s2 := NewStroke(NewPen(1, color.Black), line(0, 0, 1, 1))
	p1.AddStroke(s1)
	p2.AddStroke(s2)
	p2.SelectStroke(s2)

	sel := b.SelectedStrokes()
	if len(sel) != 1 || len(sel[p2]) != 1 || sel[p2][0] != s2 {
		t.Fatalf("unexpected selection map %v", sel)
	}
	if b.StrokeCount() != 2 {
		t.Fatalf("stroke count %d", b.StrokeCount())
	}
}

func TestBinderRenderTranslatesPages(t *testing.T) {
	b := NewBinder(testPaper)
	b.NewPage(1)
	r := render.NewRecorder()
	r.Clip = &geom.Rect{Width: 200, Height: 100}
	b.Render(r, nil)
	if n := r.Count(render.OpFillRect); n != 1 {
		t.Fatalf("rendered %d sheets, want only the visible one", n)
	}
	if r.Depth() != 0 {
		t.Fatalf("unbalanced groups")
	}
}

func TestNilArgumentsPanic(t *testing.T) {
	cases := map[string]func(){
		"pen":    func() { NewPen(0, color.Black) },
		"stroke": func() { NewStroke(nil, geom.NewPath()) },
		"add":    func() { NewPage(testPaper()).AddStroke(nil) },
		"paper":  func() { testPaper().SetColor(nil) },
		"scale":  func() { NewPage(testPaper()).ScaleTo(0) },
	}
	for name, fn := range cases {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%s: expected panic", name)
				}
			}()
			fn()
		}()
	}
}

func TestPageKeepsDrawingOrder(t *testing.T) {
	p := NewPage(testPaper())
	var strokes []*Stroke
	for i := range 5 {
		s := NewStroke(NewPen(1, color.Black), geom.NewPathFrom(geom.NewPoint(float64(i), 0)))
		strokes = append(strokes, s)
		p.AddStroke(s)
	}
	p.RemoveStroke(strokes[3])
	p.RemoveStroke(strokes[1])
	p.RemoveStroke(strokes[4])
	if got := p.Strokes(); !slices.Equal(got, []*Stroke{strokes[0], strokes[2]}) {
		t.Fatalf("after removals %v", got)
	}

	top := NewStroke(NewPen(1, color.Black), geom.NewPathFrom(geom.NewPoint(9, 9)))
	p.AddStroke(top)
	for _, s := range []*Stroke{strokes[4], strokes[1], strokes[3]} {
		p.AddStroke(s)
	}
	want := []*Stroke{strokes[0], strokes[1], strokes[2], strokes[3], strokes[4], top}
	if got := p.Strokes(); !slices.Equal(got, want) {
		t.Fatalf("restored order %v, want %v", got, want)
	}

	copied := strokes[0].Copy()
	p.AddStroke(copied)
	if got := p.Strokes(); got[len(got)-1] != copied {
		t.Fatalf("copy not drawn on top")
	}
	if cleared := p.Clear(); !slices.Equal(cleared, append(want, copied)) || p.Len() != 0 {
		t.Fatalf("Clear returned %d strokes out of order", len(cleared))
	}
}
