package ui

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	ink "InkBinder/internal/canvas"
	"InkBinder/internal/config"
	"InkBinder/internal/export"
	"InkBinder/internal/logging"
)

const zoomStep = 1.25

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func()
}

func newColorSwatch(c color.Color, tapped func()) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := fynecanvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(32, 32))

	border := fynecanvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped()
	}
}

// toolButtons mirrors the layer tools of a canvas. The active tool of each
// group is shown with high importance.
type toolButtons struct {
	canvas *ink.Canvas
	box    *fyne.Container
}

func newToolButtons(c *ink.Canvas) *toolButtons {
	t := &toolButtons{canvas: c, box: container.NewHBox()}
	t.rebuild()
	return t
}

func (t *toolButtons) rebuild() {
	tools := t.canvas.Tools()
	objects := make([]fyne.CanvasObject, 0, len(tools))
	for _, tool := range tools {
		b := widget.NewButton(tool.Name, func() {
			tool.Activate()
			t.rebuild()
		})
		if tool.Active {
			b.Importance = widget.HighImportance
		}
		objects = append(objects, b)
	}
	t.box.Objects = objects
	t.box.Refresh()
}

// NewToolbar builds the controls: history and zoom actions, the layer
// tools, the pen presets and the width and smoothing sliders.
func NewToolbar(c *ink.Canvas, prefs *config.Preferences, win fyne.Window, status *widget.Label) fyne.CanvasObject {
	tools := newToolButtons(c)
	c.Modified.Subscribe(func(*ink.Canvas) { tools.rebuild() })

	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentUndoIcon(), func() { c.Undo() }),
		widget.NewToolbarAction(theme.ContentRedoIcon(), func() { c.Redo() }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ZoomInIcon(), func() { c.ZoomTo(c.Zoom() * zoomStep) }),
		widget.NewToolbarAction(theme.ZoomOutIcon(), func() { c.ZoomTo(c.Zoom() / zoomStep) }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), func() { showExport(c, prefs, win, status) }),
	)

	// --- Pen presets ---
	widthSlider := widget.NewSlider(0.01, 1.0)
	widthSlider.Step = 0.01
	presets := container.NewHBox()
	for i, preset := range prefs.Pens {
		col, err := config.ParseColor(preset.Color)
		if err != nil {
			continue
		}
		presets.Add(newColorSwatch(col, func() {
			if err := prefs.SetActivePen(i); err != nil {
				status.SetText(err.Error())
				return
			}
			widthSlider.SetValue(prefs.Pens[i].WidthCM)
			c.SetActiveLayer(ink.DrawKind)
			tools.rebuild()
		}))
	}
	widthSlider.SetValue(prefs.Pens[prefs.ActivePen].WidthCM)
	widthSlider.OnChanged = func(cm float64) {
		if err := prefs.SetPenWidth(cm); err != nil {
			logging.Logger().Warn("ui: pen width rejected", "cm", cm, "err", err)
		}
	}

	smoothSlider := widget.NewSlider(0, 8)
	smoothSlider.Step = 1
	smoothSlider.SetValue(float64(c.Smoothing()))
	smoothSlider.OnChanged = func(v float64) {
		c.SetSmoothing(int(v))
		prefs.Smoothing = c.Smoothing()
	}

	unitSelect := widget.NewSelect([]string{"0.5", "1", "1.5", "2"}, func(v string) {
		unit, err := strconv.ParseFloat(v, 64)
		if err == nil && unit != c.UnitScale() {
			err = prefs.ApplyUnitScale(c, unit)
		}
		if err != nil {
			status.SetText(err.Error())
		}
	})
	unitSelect.SetSelected(strconv.FormatFloat(c.UnitScale(), 'g', -1, 64))

	sliders := func(s *widget.Slider) fyne.CanvasObject {
		return container.New(layout.NewGridWrapLayout(fyne.NewSize(120, 35)), s)
	}

	// --- Assemble everything ---
	return container.NewVBox(
		container.NewHBox(
			tb,
			widget.NewSeparator(),
			widget.NewLabel("Pen:"),
			presets,
			widget.NewLabel("Width:"),
			sliders(widthSlider),
			widget.NewLabel("Smoothing:"),
			sliders(smoothSlider),
			widget.NewLabel("Units:"),
			unitSelect,
			layout.NewSpacer(),
		),
		container.NewHScroll(tools.box),
	)
}

// showExport asks for a file and writes the current page to it. The
// backend follows the file extension, falling back to the preferences.
func showExport(c *ink.Canvas, prefs *config.Preferences, win fyne.Window, status *widget.Label) {
	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if writer == nil {
			return
		}
		defer func() {
			if err := writer.Close(); err != nil {
				logging.Logger().Error("ui: closing export", "err", err)
			}
		}()

		backend := strings.TrimPrefix(strings.ToLower(writer.URI().Extension()), ".")
		if backend == "" {
			backend = prefs.ExportBackend
		}
		c.Close()
		if err := export.Page(backend, writer, c.Binder().Current()); err != nil {
			logging.Logger().Error("ui: export failed", "uri", writer.URI().String(), "err", err)
			dialog.ShowError(err, win)
			return
		}
		status.SetText(fmt.Sprintf("Exported page to %s", writer.URI().Name()))
	}, win)
}
