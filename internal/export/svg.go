package export

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"InkBinder/internal/geom"
	"InkBinder/internal/render"
)

// errWriter remembers the first write error so the SVG encoder, which
// ignores them, can be checked at the end.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// SVG writes vector output. Paths are emitted as polylines from their
// frozen integer coordinates.
type SVG struct {
	render.GroupStack
	canvas *svg.SVG
	out    *errWriter

	color                  color.NRGBA
	width                  float64
	translateX, translateY float64
	saved                  [][2]float64
}

// NewSVG starts a width×height document on w.
func NewSVG(w io.Writer, width, height int) *SVG {
	out := &errWriter{w: w}
	s := &SVG{canvas: svg.New(out), out: out, color: color.NRGBA{A: 0xff}, width: 1}
	s.canvas.Start(max(width, 1), max(height, 1))
	return s
}

func (s *SVG) SetColor(c color.Color) {
	s.color = color.NRGBAModel.Convert(c).(color.NRGBA)
}

func (s *SVG) SetLineWidth(w float64) { s.width = w }

func (s *SVG) DrawRect(r geom.Rect) {
	x, y := s.at(r.X, r.Y)
	s.canvas.Rect(x, y, round(r.Width), round(r.Height), s.strokeStyle())
}

func (s *SVG) FillRect(r geom.Rect) {
	x, y := s.at(r.X, r.Y)
	s.canvas.Rect(x, y, round(r.Width), round(r.Height), s.fillStyle())
}

func (s *SVG) DrawLine(x1, y1, x2, y2 float64) {
	ax, ay := s.at(x1, y1)
	bx, by := s.at(x2, y2)
	s.canvas.Line(ax, ay, bx, by, s.strokeStyle())
}

func (s *SVG) DrawPath(p *geom.Path) {
	xs, ys := p.Coords()
	if len(xs) == 0 {
		return
	}
	dx, dy := s.at(0, 0)
	if len(xs) == 1 {
		s.canvas.Circle(xs[0]+dx, ys[0]+dy, max(round(s.width/2), 1), s.fillStyle())
		return
	}
	px := make([]int, len(xs))
	py := make([]int, len(ys))
	for i := range xs {
		px[i], py[i] = xs[i]+dx, ys[i]+dy
	}
	s.canvas.Polyline(px, py, s.strokeStyle()+";fill:none;stroke-linecap:round;stroke-linejoin:round")
}

func (s *SVG) Translate(dx, dy float64) {
	s.translateX += dx
	s.translateY += dy
}

func (s *SVG) BeginGroup(id string) {
	s.Push(id)
	s.saved = append(s.saved, [2]float64{s.translateX, s.translateY})
	s.canvas.Gid(id)
}

func (s *SVG) EndGroup(id string) {
	if s.Depth() == 0 {
		s.Pop(id)
		return
	}
	s.Pop(id)
	last := s.saved[len(s.saved)-1]
	s.saved = s.saved[:len(s.saved)-1]
	s.translateX, s.translateY = last[0], last[1]
	s.canvas.Gend()
}

func (s *SVG) IsInClipRegion(render.Bounded) bool { return true }

// DrawImage embeds img as a PNG data URI.
func (s *SVG) DrawImage(img image.Image, x, y float64) {
	uri, err := dataURI(img)
	if err != nil {
		s.capture(err)
		return
	}
	px, py := s.at(x, y)
	b := img.Bounds()
	s.canvas.Image(px, py, b.Dx(), b.Dy(), uri)
}

func (s *SVG) Err() error { return s.out.err }

// Finish closes the document.
func (s *SVG) Finish() error {
	for s.Depth() > 0 {
		s.EndGroup(s.Current())
	}
	s.canvas.End()
	return s.out.err
}

func (s *SVG) capture(err error) {
	if err != nil && s.out.err == nil {
		s.out.err = err
	}
}

func (s *SVG) at(x, y float64) (int, int) {
	return round(x + s.translateX), round(y + s.translateY)
}

func (s *SVG) strokeStyle() string {
	return fmt.Sprintf("stroke:%s;stroke-opacity:%.3f;stroke-width:%.2f", hexColor(s.color), alpha(s.color), s.width)
}

func (s *SVG) fillStyle() string {
	return fmt.Sprintf("fill:%s;fill-opacity:%.3f;stroke:none", hexColor(s.color), alpha(s.color))
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func alpha(c color.NRGBA) float64 { return float64(c.A) / 0xff }

func round(v float64) int { return int(math.Round(v)) }
