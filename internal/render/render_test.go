package render

import (
	"bytes"
	"errors"
	"image/color"
	"io"
	"testing"

	"InkBinder/internal/geom"
)

func TestGroupMismatchIsTolerated(t *testing.T) {
	r := NewRecorder()
	r.BeginGroup("page")
	r.BeginGroup("stroke")
	r.EndGroup("page") // mismatched
	r.DrawLine(0, 0, 1, 1)
	r.EndGroup("page")
	r.EndGroup("extra") // unbalanced

	if r.Depth() != 0 {
		t.Fatalf("expected empty group stack, depth %d", r.Depth())
	}
	if r.Count(OpDrawLine) != 1 {
		t.Fatalf("rendering stopped after mismatch")
	}
}

func TestGroupStackPop(t *testing.T) {
	var g GroupStack
	g.Push("a")
	if g.Current() != "a" {
		t.Fatalf("unexpected current %q", g.Current())
	}
	if !g.Pop("a") {
		t.Fatalf("matching pop reported mismatch")
	}
	if g.Pop("a") {
		t.Fatalf("pop on empty stack reported success")
	}
}

func TestRecorderClipHonoursTranslation(t *testing.T) {
	r := NewRecorder()
	r.Clip = &geom.Rect{X: 0, Y: 0, Width: 100, Height: 100}
	box := geom.NewPathFrom(geom.NewPoint(10, 10), geom.NewPoint(20, 20))
	if !r.IsInClipRegion(box) {
		t.Fatalf("box inside viewport reported hidden")
	}
	r.BeginGroup("page")
	r.Translate(0, 500)
	if r.IsInClipRegion(box) {
		t.Fatalf("box translated off screen reported visible")
	}
	r.EndGroup("page")
	if !r.IsInClipRegion(box) {
		t.Fatalf("EndGroup did not restore translation")
	}
}

func TestRecorderPlayback(t *testing.T) {
	src := NewRecorder()
	src.SetColor(color.Black)
	src.SetLineWidth(2)
	src.DrawPath(geom.NewPathFrom(geom.NewPoint(0, 0), geom.NewPoint(5, 5)))
	src.FillRect(geom.Rect{Width: 3, Height: 3})

	dst := NewRecorder()
	src.Playback(dst)
	if len(dst.Commands) != len(src.Commands) {
		t.Fatalf("playback produced %d commands, want %d", len(dst.Commands), len(src.Commands))
	}
	if got := len(dst.Commands[2].Points); got != 2 {
		t.Fatalf("path lost points in playback: %d", got)
	}
}

func TestNullDiscards(t *testing.T) {
	var r Renderer = Null{}
	r.DrawLine(0, 0, 1, 1)
	if r.IsInClipRegion(geom.NewPath()) {
		t.Fatalf("null backend reported visible")
	}
}

func TestRegistry(t *testing.T) {
	Register("test-sink", func(io.Writer, int, int) Renderer { return NewRecorder() })
	defer Unregister("test-sink")

	r, err := New("test-sink", nil, 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := r.(*Recorder); !ok {
		t.Fatalf("unexpected backend %T", r)
	}
	if _, err := New("nope", nil, 1, 1); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
	found := false
	for _, n := range Names() {
		if n == "null" {
			found = true
		}
	}
	if !found {
		t.Fatalf("null backend not registered: %v", Names())
	}
}

func TestDuplicateRegisterPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	Register("null", func(io.Writer, int, int) Renderer { return Null{} })
}

func TestRasterFillAndEncode(t *testing.T) {
	var buf bytes.Buffer
	r := NewRaster(20, 20, &buf)
	r.SetColor(color.RGBA{R: 255, A: 255})
	r.FillRect(geom.Rect{X: 0, Y: 0, Width: 20, Height: 20})
	if !r.IsInClipRegion(geom.NewPath()) {
		t.Fatalf("raster must report everything visible")
	}
	red, _, _, _ := r.Image().At(10, 10).RGBA()
	if red < 0xC000 {
		t.Fatalf("expected red pixel, got r=%#x", red)
	}
	if err := r.Finish(); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Fatalf("output is not a PNG")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRasterCapturesWriteError(t *testing.T) {
	r := NewRaster(4, 4, failingWriter{})
	r.DrawLine(0, 0, 3, 3)
	if err := r.Finish(); err == nil {
		t.Fatalf("expected captured write error")
	}
	if Err(r) == nil {
		t.Fatalf("Err did not report the captured error")
	}
}
