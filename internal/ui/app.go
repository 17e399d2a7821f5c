package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	ink "InkBinder/internal/canvas"
	"InkBinder/internal/config"
	"InkBinder/internal/history"
	"InkBinder/internal/logging"
)

// AppID identifies the application to fyne's preferences and storage.
const AppID = "io.github.inkbinder"

// RunApp opens the main window over c and blocks until it is closed. The
// preferences are saved to prefsPath on exit.
func RunApp(c *ink.Canvas, prefs *config.Preferences, prefsPath string) {
	myApp := app.NewWithID(AppID)
	myWindow := myApp.NewWindow("InkBinder")
	myWindow.Resize(fyne.NewSize(1024, 768))

	board := NewCanvasWidget(c)
	status := widget.NewLabel("Ready")
	toolbar := NewToolbar(c, prefs, myWindow, status)

	c.History().Overflows.Subscribe(func(o history.Overflow) {
		logging.Logger().Warn("ui: undo history full", "capacity", o.Capacity, "evicted", o.Evicted.Label)
		status.SetText(fmt.Sprintf("Undo history full: %q can no longer be undone", o.Evicted.Label))
	})
	bindShortcuts(myWindow.Canvas(), c)

	myWindow.SetOnClosed(func() {
		c.Close()
		board.Detach()
		if prefsPath == "" {
			return
		}
		if err := prefs.Save(prefsPath); err != nil {
			logging.Logger().Error("ui: saving preferences", "path", prefsPath, "err", err)
		}
	})

	content := container.NewBorder(toolbar, status, nil, nil, board)
	myWindow.SetContent(content)
	myWindow.ShowAndRun()
}

func bindShortcuts(cv fyne.Canvas, c *ink.Canvas) {
	primary := fyne.KeyModifierShortcutDefault
	cv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: primary}, func(fyne.Shortcut) { c.Undo() })
	cv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: primary}, func(fyne.Shortcut) { c.Redo() })
	cv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyA, Modifier: primary}, func(fyne.Shortcut) { c.SelectAll() })
	cv.AddShortcut(&fyne.ShortcutCopy{}, func(fyne.Shortcut) { c.Copy() })
	cv.AddShortcut(&fyne.ShortcutCut{}, func(fyne.Shortcut) { c.Cut() })
	cv.AddShortcut(&fyne.ShortcutPaste{}, func(fyne.Shortcut) { c.Paste() })
	cv.SetOnTypedKey(func(e *fyne.KeyEvent) {
		switch e.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			c.DeleteSelected()
		case fyne.KeyEscape:
			c.UnselectAll()
		}
	})
}
