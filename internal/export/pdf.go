package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"InkBinder/internal/geom"
	"InkBinder/internal/render"
)

// pointsPerPixel maps 96 dpi document pixels to PDF points.
const pointsPerPixel = 72.0 / 96.0

// PDF renders one print page. Coordinates are document pixels at 96 dpi.
type PDF struct {
	render.GroupStack
	doc    *gofpdf.Fpdf
	out    io.Writer
	images int
	err    error
}

// NewPDF creates a single-page document sized width×height pixels.
func NewPDF(w io.Writer, width, height int) *PDF {
	doc := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size: gofpdf.SizeType{
			Wd: float64(max(width, 1)) * pointsPerPixel,
			Ht: float64(max(height, 1)) * pointsPerPixel,
		},
	})
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(0, 0, 0)
	doc.AddPage()
	doc.SetLineCapStyle("round")
	doc.SetLineJoinStyle("round")
	return &PDF{doc: doc, out: w}
}

func (p *PDF) SetColor(c color.Color) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	p.doc.SetDrawColor(int(n.R), int(n.G), int(n.B))
	p.doc.SetFillColor(int(n.R), int(n.G), int(n.B))
	p.doc.SetAlpha(float64(n.A)/0xff, "Normal")
}

func (p *PDF) SetLineWidth(w float64) { p.doc.SetLineWidth(w * pointsPerPixel) }

func (p *PDF) DrawRect(r geom.Rect) {
	p.doc.Rect(pt(r.X), pt(r.Y), pt(r.Width), pt(r.Height), "D")
}

func (p *PDF) FillRect(r geom.Rect) {
	p.doc.Rect(pt(r.X), pt(r.Y), pt(r.Width), pt(r.Height), "F")
}

func (p *PDF) DrawLine(x1, y1, x2, y2 float64) {
	p.doc.Line(pt(x1), pt(y1), pt(x2), pt(y2))
}

func (p *PDF) DrawPath(path *geom.Path) {
	switch path.Len() {
	case 0:
		return
	case 1:
		first := path.First()
		p.doc.Circle(pt(first.X()), pt(first.Y()), p.doc.GetLineWidth()/2, "F")
		return
	}
	first := path.First()
	p.doc.MoveTo(pt(first.X()), pt(first.Y()))
	for i := 1; i < path.Len(); i++ {
		q := path.At(i)
		p.doc.LineTo(pt(q.X()), pt(q.Y()))
	}
	p.doc.DrawPath("D")
}

func (p *PDF) Translate(dx, dy float64) {
	p.doc.TransformTranslate(pt(dx), pt(dy))
}

// BeginGroup opens a transform scope that EndGroup closes.
func (p *PDF) BeginGroup(id string) {
	p.Push(id)
	p.doc.TransformBegin()
}

func (p *PDF) EndGroup(id string) {
	open := p.Depth() > 0
	p.Pop(id)
	if open {
		p.doc.TransformEnd()
	}
}

func (p *PDF) IsInClipRegion(render.Bounded) bool { return true }

// DrawImage embeds img as PNG at its pixel size.
func (p *PDF) DrawImage(img image.Image, x, y float64) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		p.capture(err)
		return
	}
	p.images++
	name := "img" + strconv.Itoa(p.images)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.doc.RegisterImageOptionsReader(name, opts, &buf)
	b := img.Bounds()
	p.doc.ImageOptions(name, pt(x), pt(y), pt(float64(b.Dx())), pt(float64(b.Dy())), false, opts, 0, "")
}

// Err returns the first document or output error.
func (p *PDF) Err() error {
	if p.err != nil {
		return p.err
	}
	return p.doc.Error()
}

// Finish writes the document.
func (p *PDF) Finish() error {
	for p.Depth() > 0 {
		p.EndGroup(p.Current())
	}
	if err := p.Err(); err != nil {
		return err
	}
	p.capture(p.doc.Output(p.out))
	return p.err
}

func (p *PDF) capture(err error) {
	if err != nil && p.err == nil {
		p.err = err
	}
}

func pt(px float64) float64 { return px * pointsPerPixel }
