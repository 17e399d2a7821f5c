// Package export writes pages and binders to files through the render
// backends, and adds the vector ("svg") and print ("pdf") backends to the
// render registry. Importing the package for its side effect is enough to
// make them available to render.New.
package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"

	"InkBinder/internal/logging"
	"InkBinder/internal/render"
	"InkBinder/internal/state"
)

func init() {
	render.Register("svg", func(w io.Writer, width, height int) render.Renderer {
		return NewSVG(w, width, height)
	})
	render.Register("pdf", func(w io.Writer, width, height int) render.Renderer {
		return NewPDF(w, width, height)
	})
}

// Page writes p at zoom 1 with the named backend. The live page is left
// untouched.
func Page(backend string, w io.Writer, p *state.Page) error {
	sheet := p.Copy()
	sheet.ScaleTo(1)
	b := sheet.Bounds()
	r, err := render.New(backend, w, ceil(b.Width), ceil(b.Height))
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	sheet.Render(r, nil)
	if err := render.Finish(r); err != nil {
		return fmt.Errorf("export: %s page %s: %w", backend, p.ID(), err)
	}
	logging.Logger().Debug("export: page written", "backend", backend, "page", p.ID())
	return nil
}

// Binder writes every sheet of b, stacked as displayed, with the named backend.
func Binder(backend string, w io.Writer, b *state.Binder) error {
	bounds := b.Bounds()
	r, err := render.New(backend, w, ceil(bounds.MaxX()), ceil(bounds.MaxY()))
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	b.Render(r, nil)
	if err := render.Finish(r); err != nil {
		return fmt.Errorf("export: %s binder: %w", backend, err)
	}
	logging.Logger().Debug("export: binder written", "backend", backend, "pages", b.Len())
	return nil
}

// Thumbnail renders p at zoom 1 and scales it so its longer side is
// maxSide pixels.
func Thumbnail(p *state.Page, maxSide int) (image.Image, error) {
	if maxSide <= 0 {
		panic("export: Thumbnail with non-positive size")
	}
	sheet := p.Copy()
	sheet.ScaleTo(1)
	b := sheet.Bounds()
	raster := render.NewRaster(ceil(b.Width), ceil(b.Height), nil)
	sheet.Render(raster, nil)
	full := raster.Image()
	if err := raster.Finish(); err != nil {
		return nil, fmt.Errorf("export: thumbnail: %w", err)
	}

	src := full.Bounds()
	w, h := maxSide, maxSide
	if src.Dx() >= src.Dy() {
		h = max(1, src.Dy()*maxSide/src.Dx())
	} else {
		w = max(1, src.Dx()*maxSide/src.Dy())
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), full, src, xdraw.Over, nil)
	return dst, nil
}

func dataURI(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("export: encode image: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func ceil(v float64) int {
	n := int(v)
	if float64(n) < v {
		n++
	}
	return max(n, 1)
}
