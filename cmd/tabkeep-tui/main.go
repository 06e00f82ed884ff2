// tabkeep TUI: a tabbed terminal workspace whose tabs stay mounted while
// hidden.
//
// Usage:
//
//	tabkeep-tui [flags]
//
// Flags:
//
//	--config   Path to a YAML config file (default: $TABKEEP_CONFIG or
//	           ~/.config/tabkeep/config.yaml)
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/Mr-Dark-debug/tabkeep/internal/config"
	"github.com/Mr-Dark-debug/tabkeep/internal/journal"
	"github.com/Mr-Dark-debug/tabkeep/internal/tabs"
	"github.com/Mr-Dark-debug/tabkeep/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	var program atomic.Pointer[tea.Program]

	cfg, err := config.Watch(configPath, func(c config.Config, err error) {
		if p := program.Load(); p != nil {
			p.Send(tui.ConfigReloadedMsg{Config: c, Err: err})
		}
	})
	if err != nil {
		// No file to watch: run on defaults and environment only.
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
	}

	logger, closeLog, err := openLog(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	opts := tui.Options{Config: cfg, Logger: logger}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Journal.Path != "" {
		writer, closeJournal, err := openJournal(ctx, cfg.Journal, logger)
		if err != nil {
			logger.Warn("journal disabled", "err", err)
		} else {
			defer closeJournal()
			opts.Recorder = writer
		}
	}

	model, err := tui.NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	program.Store(p)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

// openLog sends logs to the configured file; the terminal belongs to the UI.
func openLog(lc config.LogConfig) (*log.Logger, func(), error) {
	path := lc.File
	if path == "" {
		path = filepath.Join(config.DataDir(), "tabkeep.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := tea.LogToFile(path, "tabkeep")
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		Level:           lc.ParseLevel(),
		ReportTimestamp: true,
		Prefix:          "tabkeep",
	})
	return logger, func() { f.Close() }, nil
}

// openJournal starts a lifecycle journal writer backed by SQLite.
func openJournal(ctx context.Context, jc config.JournalConfig, logger *log.Logger) (tabs.Recorder, func(), error) {
	if err := os.MkdirAll(filepath.Dir(jc.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating journal dir: %w", err)
	}
	store, err := journal.NewDBService(jc.Path)
	if err != nil {
		return nil, nil, err
	}

	writer := journal.NewWriter(store, journal.Config{
		BatchSize:     jc.BatchSize,
		FlushInterval: jc.FlushInterval,
	}, logger)
	if err := writer.Start(ctx); err != nil {
		store.Close()
		return nil, nil, err
	}

	logger.Info("journal opened", "path", jc.Path)
	return writer, func() {
		if err := writer.Stop(); err != nil {
			logger.Warn("journal writer stopped with errors", "err", err)
		}
		if err := store.Close(); err != nil {
			logger.Warn("closing journal", "err", err)
		}
		m := writer.Metrics()
		logger.Info("journal closed", "written", m.Written, "dropped", m.Dropped, "errors", m.ErrorCount)
	}, nil
}
