package export

import (
	"bytes"
	"errors"
	"image/color"
	"slices"
	"strings"
	"testing"

	"InkBinder/internal/geom"
	"InkBinder/internal/render"
	"InkBinder/internal/state"
)

var white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

func testPage(t *testing.T) *state.Page {
	t.Helper()
	page := state.NewPage(state.NewPaper(state.Plain, white, 200, 100))
	path := geom.NewPathFrom(geom.NewPoint(10, 10), geom.NewPoint(50, 20), geom.NewPoint(90, 60))
	path.Freeze()
	page.AddStroke(state.NewStroke(state.NewPen(3, color.NRGBA{R: 0xff, A: 0xff}), path))
	dot := geom.NewPathFrom(geom.NewPoint(150, 50))
	page.AddStroke(state.NewStroke(state.NewPen(4, color.NRGBA{A: 0xff}), dot))
	return page
}

func TestBackendsRegistered(t *testing.T) {
	names := render.Names()
	for _, want := range []string{"svg", "pdf", "png", "null"} {
		if !slices.Contains(names, want) {
			t.Fatalf("backend %q missing from %v", want, names)
		}
	}
}

func TestSVGPage(t *testing.T) {
	var buf bytes.Buffer
	if err := Page("svg", &buf, testPage(t)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"<svg", "<polyline", "<circle", "stroke:#ff0000", "</svg>"} {
		if !strings.Contains(out, want) {
			t.Fatalf("svg output lacks %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "<g ") != strings.Count(out, "</g>") {
		t.Fatalf("unbalanced groups:\n%s", out)
	}
}

func TestSVGAppliesTranslation(t *testing.T) {
	var buf bytes.Buffer
	s := NewSVG(&buf, 100, 100)
	s.BeginGroup("outer")
	s.Translate(10, 20)
	s.DrawLine(0, 0, 5, 5)
	s.EndGroup("outer")
	s.DrawLine(0, 0, 5, 5)
	if err := s.Finish(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `x1="10"`) || !strings.Contains(out, `y2="25"`) {
		t.Fatalf("translated line missing:\n%s", out)
	}
	if !strings.Contains(out, `x1="0"`) || !strings.Contains(out, `y2="5"`) {
		t.Fatalf("translation leaked out of group:\n%s", out)
	}
}

type failingWriter struct{}

var errDiskFull = errors.New("disk full")

func (failingWriter) Write([]byte) (int, error) { return 0, errDiskFull }

func TestSVGCapturesWriteError(t *testing.T) {
	s := NewSVG(failingWriter{}, 10, 10)
	s.FillRect(geom.Rect{Width: 5, Height: 5})
	if !errors.Is(s.Err(), errDiskFull) {
		t.Fatalf("Err() = %v", s.Err())
	}
	if err := s.Finish(); !errors.Is(err, errDiskFull) {
		t.Fatalf("Finish() = %v", err)
	}
}

func TestPDFPage(t *testing.T) {
	var buf bytes.Buffer
	if err := Page("pdf", &buf, testPage(t)); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("not a PDF: %q", buf.Bytes()[:min(16, buf.Len())])
	}
}

func TestPDFEmbedsCachedPaper(t *testing.T) {
	var buf bytes.Buffer
	p := NewPDF(&buf, 50, 50)
	paper := state.NewPaper(state.Graph, white, 50, 50)
	paper.Render(p)
	if p.images != 1 {
		t.Fatalf("paper cache not drawn as image, images = %d", p.images)
	}
	if err := p.Finish(); err != nil {
		t.Fatal(err)
	}
}

func TestPageExportLeavesZoomAlone(t *testing.T) {
	page := testPage(t)
	page.ScaleTo(2)
	var buf bytes.Buffer
	if err := Page("null", &buf, page); err != nil {
		t.Fatal(err)
	}
	if page.Scale() != 2 || page.Bounds().Width != 400 {
		t.Fatalf("export changed live page: scale %v width %v", page.Scale(), page.Bounds().Width)
	}
}

func TestBinderExport(t *testing.T) {
	b := state.NewBinder(func() *state.Paper { return state.NewPaper(state.Plain, white, 100, 100) })
	b.NewPage(1)
	var buf bytes.Buffer
	if err := Binder("svg", &buf, b); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(buf.String(), `id="sheet:`); got != 2 {
		t.Fatalf("want 2 sheets, got %d", got)
	}
	wantHeight := `height="` + "220" + `"`
	if !strings.Contains(buf.String(), wantHeight) {
		t.Fatalf("document height not %s:\n%s", wantHeight, buf.String())
	}
}

func TestUnknownBackend(t *testing.T) {
	err := Page("tiff", &bytes.Buffer{}, testPage(t))
	if !errors.Is(err, render.ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestThumbnail(t *testing.T) {
	img, err := Thumbnail(testPage(t), 50)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 50 || b.Dy() != 25 {
		t.Fatalf("thumbnail is %dx%d", b.Dx(), b.Dy())
	}
	r, g, bl, _ := img.At(0, 0).RGBA()
	if r < 0xf000 || g < 0xf000 || bl < 0xf000 {
		t.Fatalf("corner should be paper white, got %v", img.At(0, 0))
	}
}
