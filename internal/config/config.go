// Package config holds the user preferences: pen presets, defaults for new
// paper, and the smoothing, comb, unit-scale and resolution knobs of the
// canvas. Preferences are stored as TOML and can be overridden from the
// environment with INKBINDER_* variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"InkBinder/internal/canvas"
	"InkBinder/internal/logging"
	"InkBinder/internal/state"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "INKBINDER"

const (
	configDirName  = "inkbinder"
	configFileName = "config.toml"
	cmPerInch      = 2.54
)

// PresetCount is the number of remembered pens.
const PresetCount = 3

// ErrInvalidPreset is returned for out-of-range or malformed pen presets.
var ErrInvalidPreset = errors.New("config: invalid pen preset")

// PenPreset is one remembered pen.
type PenPreset struct {
	WidthCM float64 `toml:"width_cm"`
	Color   string  `toml:"color"`
}

// Preferences is the persisted configuration.
type Preferences struct {
	Pens      []PenPreset `toml:"pens" ignored:"true"`
	ActivePen int         `toml:"active_pen" envconfig:"ACTIVE_PEN"`

	PaperType    string  `toml:"paper_type" envconfig:"PAPER_TYPE"`
	PaperColor   string  `toml:"paper_color" envconfig:"PAPER_COLOR"`
	PageWidthCM  float64 `toml:"page_width_cm" envconfig:"PAGE_WIDTH_CM"`
	PageHeightCM float64 `toml:"page_height_cm" envconfig:"PAGE_HEIGHT_CM"`

	Smoothing    int     `toml:"smoothing" envconfig:"SMOOTHING"`
	CombFactor   float64 `toml:"comb_factor" envconfig:"COMB_FACTOR"`
	DragModulus  int     `toml:"drag_modulus" envconfig:"DRAG_MODULUS"`
	HistoryLimit int     `toml:"history_limit" envconfig:"HISTORY_LIMIT"`
	UnitScale    float64 `toml:"unit_scale" envconfig:"UNIT_SCALE"`
	Resolution   float64 `toml:"resolution" envconfig:"RESOLUTION"`

	ExportBackend string `toml:"export_backend" envconfig:"EXPORT_BACKEND"`
}

// Default returns the preferences used when no file exists.
func Default() *Preferences {
	s := canvas.DefaultSettings()
	return &Preferences{
		Pens: []PenPreset{
			{WidthCM: 0.05, Color: "#000000"},
			{WidthCM: 0.1, Color: "#1f4fbf"},
			{WidthCM: 0.4, Color: "#ffe60080"},
		},
		PaperType:     state.CollegeRuled.String(),
		PaperColor:    "#ffffff",
		PageWidthCM:   21.59,
		PageHeightCM:  27.94,
		Smoothing:     s.Smoothing,
		CombFactor:    s.CombFactor,
		DragModulus:   s.DragModulus,
		HistoryLimit:  s.HistoryLimit,
		UnitScale:     1,
		Resolution:    state.DefaultResolution,
		ExportBackend: "pdf",
	}
}

// DefaultPath returns the preferences file in the user's config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: locate config directory: %w", err)
	}
	return filepath.Join(dir, configDirName, configFileName), nil
}

// Load reads preferences from path, applies environment overrides and
// validates the result. A missing file yields the defaults.
func Load(path string) (*Preferences, error) {
	p := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, p); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config: read %s: %w", path, err)
			}
			logging.Logger().Info("config: no preferences file, using defaults", "path", path)
		}
	}
	if err := envconfig.Process(EnvPrefix, p); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Save writes the preferences to path, creating its directory.
func (p *Preferences) Save(path string) error {
	if err := p.Validate(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(p); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Validate checks every field.
func (p *Preferences) Validate() error {
	if len(p.Pens) != PresetCount {
		return fmt.Errorf("%w: want %d presets, have %d", ErrInvalidPreset, PresetCount, len(p.Pens))
	}
	for i, pen := range p.Pens {
		if !(pen.WidthCM > 0) {
			return fmt.Errorf("%w: preset %d width %g", ErrInvalidPreset, i, pen.WidthCM)
		}
		if _, err := ParseColor(pen.Color); err != nil {
			return fmt.Errorf("%w: preset %d: %w", ErrInvalidPreset, i, err)
		}
	}
	if p.ActivePen < 0 || p.ActivePen >= PresetCount {
		return fmt.Errorf("%w: active pen %d", ErrInvalidPreset, p.ActivePen)
	}
	if _, err := state.ParsePaperType(p.PaperType); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := ParseColor(p.PaperColor); err != nil {
		return fmt.Errorf("config: paper color: %w", err)
	}
	switch {
	case !(p.PageWidthCM > 0) || !(p.PageHeightCM > 0):
		return fmt.Errorf("config: invalid page size %gx%g cm", p.PageWidthCM, p.PageHeightCM)
	case p.Smoothing < 0:
		return fmt.Errorf("config: negative smoothing %d", p.Smoothing)
	case !(p.UnitScale > 0):
		return fmt.Errorf("config: invalid unit scale %g", p.UnitScale)
	case !(p.Resolution > 0):
		return fmt.Errorf("config: invalid resolution %g", p.Resolution)
	}
	return nil
}

// CMToPixels converts centimetres to raw document pixels, unit scale included.
func (p *Preferences) CMToPixels(cm float64) float64 {
	return cm * p.Resolution / cmPerInch * p.UnitScale
}

// Pen returns the active preset as a drawing pen.
func (p *Preferences) Pen() *state.Pen {
	preset := p.Pens[p.ActivePen]
	c, err := ParseColor(preset.Color)
	if err != nil {
		logging.Logger().Warn("config: bad pen color, using black", "color", preset.Color, "err", err)
		c = color.NRGBA{A: 0xff}
	}
	return state.NewPen(p.CMToPixels(preset.WidthCM), c)
}

// SetActivePen selects preset i.
func (p *Preferences) SetActivePen(i int) error {
	if i < 0 || i >= len(p.Pens) {
		return fmt.Errorf("%w: index %d", ErrInvalidPreset, i)
	}
	p.ActivePen = i
	return nil
}

// SetPenWidth changes the width of the active preset.
func (p *Preferences) SetPenWidth(cm float64) error {
	if !(cm > 0) {
		return fmt.Errorf("%w: width %g", ErrInvalidPreset, cm)
	}
	p.Pens[p.ActivePen].WidthCM = cm
	return nil
}

// SetPenColor changes the color of the active preset.
func (p *Preferences) SetPenColor(c color.Color) {
	p.Pens[p.ActivePen].Color = FormatColor(c)
}

// NewPaper builds paper for a new page from the paper defaults. It serves
// as the binder's paper factory.
func (p *Preferences) NewPaper() *state.Paper {
	kind, err := state.ParsePaperType(p.PaperType)
	if err != nil {
		kind = state.Plain
	}
	bg, err := ParseColor(p.PaperColor)
	if err != nil {
		bg = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	px := func(cm float64) float64 { return cm * p.Resolution / cmPerInch }
	paper := state.NewPaper(kind, bg, px(p.PageWidthCM), px(p.PageHeightCM))
	paper.SetResolution(p.Resolution)
	if p.UnitScale != 1 {
		paper.ResizeTo(p.UnitScale)
	}
	return paper
}

// ApplyUnitScale changes the unit scale of both the preferences and c, so
// pens and paper made afterwards match the rescaled document.
func (p *Preferences) ApplyUnitScale(c *canvas.Canvas, unit float64) error {
	if !(unit > 0) {
		return fmt.Errorf("config: invalid unit scale %g", unit)
	}
	p.UnitScale = unit
	c.SetUnitScale(unit)
	return nil
}

// CanvasSettings returns the canvas knobs.
func (p *Preferences) CanvasSettings() canvas.Settings {
	return canvas.Settings{
		Smoothing:    p.Smoothing,
		CombFactor:   p.CombFactor,
		DragModulus:  p.DragModulus,
		HistoryLimit: p.HistoryLimit,
		UnitScale:    p.UnitScale,
	}
}

// ParseColor accepts #rrggbb and #rrggbbaa.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	c := color.NRGBA{A: 0xff}
	var err error
	switch len(hex) {
	case 6:
		_, err = fmt.Sscanf(hex, "%02x%02x%02x", &c.R, &c.G, &c.B)
	case 8:
		_, err = fmt.Sscanf(hex, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
	default:
		err = fmt.Errorf("want #rrggbb or #rrggbbaa")
	}
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("config: color %q: %w", s, err)
	}
	return c, nil
}

// FormatColor renders c as #rrggbb, or #rrggbbaa when not opaque.
func FormatColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}
