package main

import (
	"flag"
	"log/slog"
	"os"

	"InkBinder/internal/canvas"
	"InkBinder/internal/config"
	"InkBinder/internal/logging"
	"InkBinder/internal/state"
	"InkBinder/internal/ui"
)

type options struct {
	configPath string
	debug      bool
}

func parseOptions() options {
	var opt options
	flag.StringVar(&opt.configPath, "config", "", "Preferences file (default: user config directory)")
	flag.BoolVar(&opt.debug, "log", false, "Print debugging output to stdout")
	flag.Parse()
	return opt
}

func main() {
	opt := parseOptions()

	level := slog.LevelInfo
	if opt.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	logging.SetLogger(logger)

	path := opt.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			slog.Warn("preferences will not be saved", "error", err)
		}
	}
	prefs, err := config.Load(path)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	binder := state.NewBinder(prefs.NewPaper)
	c := canvas.New(binder, prefs, prefs.CanvasSettings())
	slog.Info("starting", "config", path, "paper", prefs.PaperType, "smoothing", prefs.Smoothing)
	ui.RunApp(c, prefs, path)
}
