package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/sadopc/moodo/internal/config"
	"github.com/sadopc/moodo/internal/emotion"
	"github.com/sadopc/moodo/internal/kv"
	"github.com/sadopc/moodo/internal/store"
	"github.com/sadopc/moodo/internal/tui"
	"github.com/sadopc/moodo/internal/voice"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog := newLogger(cfg)
	defer closeLog()

	db, err := openStorage(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening storage: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	s, err := store.New(db, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading tasks: %v\n", err)
		os.Exit(1)
	}

	catalog := emotion.Default()

	// Speech is feature-detected once; without a recognizer the app
	// degrades to typed entry only.
	var rec voice.Recognizer
	if cfg.Recognizer != "" {
		r, err := voice.NewExecRecognizer(cfg.Recognizer)
		if err != nil {
			logger.Warn().Err(err).Msg("speech recognition disabled")
		} else {
			rec = r
		}
	}
	vc := voice.NewController(rec, voice.NewScheduler(), s, catalog, logger)

	app := tui.NewApp(s, catalog, vc, cfg.ReportDir)
	p := tea.NewProgram(app, tea.WithAltScreen())
	vc.SetNotify(func(e voice.Event) {
		p.Send(tui.VoiceEventMsg{Event: e})
	})

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	vc.Stop()
}

func openStorage(cfg *config.Config) (kv.Store, error) {
	switch cfg.Storage {
	case "file":
		path := cfg.Path
		if path == "" {
			var err error
			if path, err = kv.DefaultFilePath(); err != nil {
				return nil, err
			}
		}
		return kv.NewFile(path)
	default:
		path := cfg.Path
		if path == "" {
			var err error
			if path, err = kv.DefaultDBPath(); err != nil {
				return nil, err
			}
		}
		return kv.NewSQLite(path)
	}
}

// newLogger writes to the configured log file. The TUI owns the
// terminal, so a broken log destination degrades to a no-op logger
// rather than writing over the screen.
func newLogger(cfg *config.Config) (zerolog.Logger, func()) {
	path := cfg.LogFile
	if path == "" {
		var err error
		if path, err = config.DefaultLogPath(); err != nil {
			return zerolog.Nop(), func() {}
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), func() {}
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), func() {}
	}

	var w io.Writer = zerolog.ConsoleWriter{Out: f, TimeFormat: "2006-01-02 15:04:05", NoColor: true}
	logger := zerolog.New(w).With().Timestamp().Logger()
	return logger, func() { f.Close() }
}
