package state

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"InkBinder/internal/geom"
	"InkBinder/internal/render"
)

// PaperType selects the guide lines printed on a page.
type PaperType int

const (
	Plain PaperType = iota
	Graph
	CollegeRuled
	WideRuled
)

var paperTypeNames = [...]string{"plain", "graph", "college", "wide"}

func (t PaperType) String() string {
	if t < 0 || int(t) >= len(paperTypeNames) {
		return fmt.Sprintf("PaperType(%d)", int(t))
	}
	return paperTypeNames[t]
}

// ParsePaperType accepts the names produced by String, case-insensitively.
func ParsePaperType(s string) (PaperType, error) {
	for i, name := range paperTypeNames {
		if strings.EqualFold(s, name) {
			return PaperType(i), nil
		}
	}
	return Plain, fmt.Errorf("state: unknown paper type %q", s)
}

// Guide geometry in centimetres.
const (
	graphSpacingCM   = 0.5
	collegeSpacingCM = 0.71
	wideSpacingCM    = 0.87
	ruledTopCM       = 3.0
	ruledMarginCM    = 3.2
	cmPerInch        = 2.54
)

var (
	guideColor  = color.NRGBA{R: 0xa8, G: 0xc8, B: 0xe8, A: 0xff}
	marginColor = color.NRGBA{R: 0xe8, G: 0x8a, B: 0x8a, A: 0xff}
)

// Paper is a page's background: fill color plus type-specific guide lines
// laid out in physical units. The rendered background is cached as a
// raster image for backends that can composite images; every mutator drops
// the cache.
type Paper struct {
	kind          PaperType
	color         color.NRGBA
	width, height float64 // raw pixels
	resolution    float64 // dots per inch
	unitScale     float64
	scale         float64

	caching bool
	cache   image.Image
}

// DefaultResolution is used until SetResolution reports the screen's.
const DefaultResolution = 96

// NewPaper creates paper of the given raw size.
func NewPaper(kind PaperType, c color.Color, width, height float64) *Paper {
	if c == nil {
		panic("state: NewPaper with nil color")
	}
	if !(width > 0) || !(height > 0) {
		panic(fmt.Sprintf("state: invalid paper size %gx%g", width, height))
	}
	return &Paper{
		kind:       kind,
		color:      toNRGBA(c),
		width:      width,
		height:     height,
		resolution: DefaultResolution,
		unitScale:  1,
		scale:      1,
		caching:    true,
	}
}

// Type returns the paper type.
func (p *Paper) Type() PaperType { return p.kind }

// SetType changes the paper type.
func (p *Paper) SetType(t PaperType) {
	p.kind = t
	p.updateCache()
}

// Color returns the background color.
func (p *Paper) Color() color.NRGBA { return p.color }

// SetColor changes the background color.
func (p *Paper) SetColor(c color.Color) {
	if c == nil {
		panic("state: Paper.SetColor with nil color")
	}
	p.color = toNRGBA(c)
	p.updateCache()
}

// Bounds returns the display-space sheet rectangle at the origin.
func (p *Paper) Bounds() geom.Rect {
	return geom.Rect{Width: p.width * p.scale, Height: p.height * p.scale}
}

// Resolution returns the dots per inch used for physical units.
func (p *Paper) Resolution() float64 { return p.resolution }

// SetResolution changes the dots per inch used for physical units.
func (p *Paper) SetResolution(dpi float64) {
	geom.CheckScale(dpi)
	p.resolution = dpi
	p.updateCache()
}

// UnitScale returns the global physical-to-pixel multiplier baked into the paper.
func (p *Paper) UnitScale() float64 { return p.unitScale }

// ScaleTo sets the zoom.
func (p *Paper) ScaleTo(s float64) {
	geom.CheckScale(s)
	p.scale = s
	p.updateCache()
}

// ResizeTo permanently rescales the sheet and its guide spacing.
func (p *Paper) ResizeTo(f float64) {
	geom.CheckScale(f)
	p.width *= f
	p.height *= f
	p.unitScale *= f
	p.updateCache()
}

// SetCaching turns the background raster cache on or off.
func (p *Paper) SetCaching(on bool) {
	p.caching = on
	p.updateCache()
}

// Cached reports whether a rendered background is currently cached.
func (p *Paper) Cached() bool { return p.cache != nil }

// Copy returns an independent paper with an empty cache.
func (p *Paper) Copy() *Paper {
	c := *p
	c.cache = nil
	return &c
}

// CMToPixels converts centimetres to display pixels.
func (p *Paper) CMToPixels(cm float64) float64 {
	return cm * p.resolution / cmPerInch * p.unitScale * p.scale
}

// Render draws the background. Image-capable backends get the cached raster.
func (p *Paper) Render(r render.Renderer) {
	if d, ok := r.(render.ImageDrawer); ok && p.caching {
		if p.cache == nil {
			b := p.Bounds()
			raster := render.NewRaster(int(b.Width+0.5), int(b.Height+0.5), nil)
			p.renderGuides(raster)
			p.cache = raster.Image()
			if err := raster.Finish(); err != nil {
				p.cache = nil
				p.renderGuides(r)
				return
			}
		}
		d.DrawImage(p.cache, 0, 0)
		return
	}
	p.renderGuides(r)
}

func (p *Paper) renderGuides(r render.Renderer) {
	b := p.Bounds()
	r.SetColor(p.color)
	r.FillRect(b)

	r.SetLineWidth(1)
	switch p.kind {
	case Graph:
		step := p.CMToPixels(graphSpacingCM)
		r.SetColor(guideColor)
		for x := step; x < b.Width; x += step {
			r.DrawLine(x, 0, x, b.Height)
		}
		for y := step; y < b.Height; y += step {
			r.DrawLine(0, y, b.Width, y)
		}
	case CollegeRuled, WideRuled:
		spacing := collegeSpacingCM
		if p.kind == WideRuled {
			spacing = wideSpacingCM
		}
		step := p.CMToPixels(spacing)
		r.SetColor(guideColor)
		for y := p.CMToPixels(ruledTopCM); y < b.Height; y += step {
			r.DrawLine(0, y, b.Width, y)
		}
		r.SetColor(marginColor)
		x := p.CMToPixels(ruledMarginCM)
		r.DrawLine(x, 0, x, b.Height)
	}
}

func (p *Paper) updateCache() {
	p.cache = nil
}
