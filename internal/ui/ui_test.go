package ui

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	ink "InkBinder/internal/canvas"
	"InkBinder/internal/config"
	"InkBinder/internal/geom"
	"InkBinder/internal/state"
)

func TestDisplayRendererViewportOffset(t *testing.T) {
	d := NewDisplayRenderer(geom.Rect{X: 100, Y: 50, Width: 200, Height: 200})
	d.SetColor(color.Black)
	d.SetLineWidth(3)
	d.DrawLine(110, 60, 150, 60)

	objs := d.Objects()
	if len(objs) != 1 {
		t.Fatalf("want 1 object, got %d", len(objs))
	}
	line, ok := objs[0].(*fynecanvas.Line)
	if !ok {
		t.Fatalf("want *canvas.Line, got %T", objs[0])
	}
	if line.Position1 != fyne.NewPos(10, 10) || line.Position2 != fyne.NewPos(50, 10) {
		t.Fatalf("line at %v-%v", line.Position1, line.Position2)
	}
	if line.StrokeWidth != 3 {
		t.Fatalf("stroke width %v", line.StrokeWidth)
	}
}

func TestDisplayRendererClip(t *testing.T) {
	d := NewDisplayRenderer(geom.Rect{Width: 100, Height: 100})
	inside := geom.Rect{X: 10, Y: 10, Width: 5, Height: 5}
	if !d.IsInClipRegion(inside) {
		t.Fatalf("visible rect reported clipped")
	}
	d.BeginGroup("shifted")
	d.Translate(0, 200)
	if d.IsInClipRegion(inside) {
		t.Fatalf("translated rect below the viewport reported visible")
	}
	d.EndGroup("shifted")
	if !d.IsInClipRegion(inside) {
		t.Fatalf("translation leaked out of group")
	}
	if d.Culled() != 1 {
		t.Fatalf("culled = %d", d.Culled())
	}
}

func TestDisplayRendererPaths(t *testing.T) {
	d := NewDisplayRenderer(geom.Rect{Width: 100, Height: 100})
	d.SetLineWidth(4)
	d.DrawPath(geom.NewPathFrom(geom.NewPoint(1, 1), geom.NewPoint(5, 5), geom.NewPoint(9, 1)))
	d.DrawPath(geom.NewPathFrom(geom.NewPoint(20, 20)))
	objs := d.Objects()
	if len(objs) != 3 {
		t.Fatalf("want 2 segments and a dot, got %d objects", len(objs))
	}
	dot, ok := objs[2].(*fynecanvas.Circle)
	if !ok {
		t.Fatalf("want *canvas.Circle, got %T", objs[2])
	}
	if dot.Position1 != fyne.NewPos(18, 18) || dot.Position2 != fyne.NewPos(22, 22) {
		t.Fatalf("dot spans %v-%v", dot.Position1, dot.Position2)
	}

	d.Reset(geom.Rect{Width: 10, Height: 10})
	if len(d.Objects()) != 0 || d.Culled() != 0 {
		t.Fatalf("Reset kept state")
	}
}

func TestBinderCullsOffscreenPage(t *testing.T) {
	b := state.NewBinder(func() *state.Paper {
		return state.NewPaper(state.Plain, color.White, 100, 100)
	})
	second := b.NewPage(1)
	second.AddStroke(state.NewStroke(state.NewPen(2, color.Black),
		geom.NewPathFrom(geom.NewPoint(10, 10), geom.NewPoint(20, 20))))

	d := NewDisplayRenderer(geom.Rect{Width: 100, Height: 100})
	b.Render(d, nil)
	for _, o := range d.Objects() {
		if _, ok := o.(*fynecanvas.Line); ok {
			t.Fatalf("stroke of the offscreen page was drawn")
		}
	}
	if d.Culled() == 0 {
		t.Fatalf("offscreen page not culled")
	}
}

func newTestWidget(t *testing.T) (*CanvasWidget, *ink.Canvas) {
	t.Helper()
	test.NewTempApp(t)
	prefs := config.Default()
	prefs.Smoothing = 0
	b := state.NewBinder(func() *state.Paper {
		return state.NewPaper(state.Plain, color.White, 400, 400)
	})
	c := ink.New(b, prefs, prefs.CanvasSettings())
	w := NewCanvasWidget(c)
	w.Resize(fyne.NewSize(300, 300))
	return w, c
}

func mouse(x, y float32, button desktop.MouseButton) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     button,
	}
}

func drag(x, y float32) *fyne.DragEvent {
	return &fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}}
}

func TestCanvasWidgetDrawsStroke(t *testing.T) {
	w, c := newTestWidget(t)
	w.MouseDown(mouse(10, 10, desktop.MouseButtonPrimary))
	w.Dragged(drag(40, 40))
	w.Dragged(drag(80, 40))
	w.DragEnd()
	w.MouseUp(mouse(80, 40, desktop.MouseButtonPrimary))

	page := c.Binder().Current()
	if page.Len() != 1 {
		t.Fatalf("want 1 stroke, got %d", page.Len())
	}
	if !c.CanUndo() {
		t.Fatalf("stroke not recorded in history")
	}

	r := test.WidgetRenderer(w)
	lines := 0
	for _, o := range r.Objects() {
		if _, ok := o.(*fynecanvas.Line); ok {
			lines++
		}
	}
	if lines == 0 {
		t.Fatalf("stroke not rendered")
	}
}

func TestCanvasWidgetSecondaryButtonErases(t *testing.T) {
	w, c := newTestWidget(t)
	w.MouseDown(mouse(10, 50, desktop.MouseButtonPrimary))
	w.Dragged(drag(100, 50))
	w.MouseUp(mouse(100, 50, desktop.MouseButtonPrimary))

	w.MouseDown(mouse(50, 20, desktop.MouseButtonSecondary))
	w.Dragged(drag(50, 40))
	w.Dragged(drag(50, 50))
	w.Dragged(drag(50, 80))
	w.MouseUp(mouse(50, 80, desktop.MouseButtonSecondary))

	if n := c.Binder().Current().Len(); n != 0 {
		t.Fatalf("secondary drag should erase, %d strokes left", n)
	}
}

func TestCanvasWidgetIgnoresDragWithoutPress(t *testing.T) {
	w, c := newTestWidget(t)
	w.Dragged(drag(40, 40))
	w.MouseUp(mouse(40, 40, desktop.MouseButtonPrimary))
	if c.Binder().StrokeCount() != 0 {
		t.Fatalf("stray drag created a stroke")
	}
}

func TestCanvasWidgetScrollPans(t *testing.T) {
	w, c := newTestWidget(t)
	w.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DX: -50, DY: -60}})
	if x, y := c.ViewOffset(); x != 50 || y != 60 {
		t.Fatalf("offset %v,%v", x, y)
	}
	w.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DX: 500, DY: 500}})
	if x, y := c.ViewOffset(); x != 0 || y != 0 {
		t.Fatalf("offset not clamped: %v,%v", x, y)
	}
	if got := w.Viewport(); got.Width != 300 || got.Height != 300 {
		t.Fatalf("viewport %v", got)
	}
}

func TestCanvasWidgetSecondPressDoesNotSplitStroke(t *testing.T) {
	w, c := newTestWidget(t)
	w.MouseDown(mouse(10, 10, desktop.MouseButtonPrimary))
	w.Dragged(drag(40, 40))
	w.MouseDown(mouse(40, 40, desktop.MouseButtonSecondary))
	w.Dragged(drag(80, 40))
	w.MouseUp(mouse(80, 40, desktop.MouseButtonSecondary))
	w.Dragged(drag(90, 50))
	w.MouseUp(mouse(90, 50, desktop.MouseButtonPrimary))

	page := c.Binder().Current()
	if page.Len() != 1 || c.History().Len() != 1 {
		t.Fatalf("want one recorded stroke, got %d strokes and %d history entries", page.Len(), c.History().Len())
	}
	if n := page.Strokes()[0].Path().Len(); n != 4 {
		t.Fatalf("stroke has %d points, want 4", n)
	}
}
