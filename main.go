// docchat - a terminal chat client with document-grounded answers.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docchat/docchat-tui/internal/api"
	"github.com/docchat/docchat-tui/internal/config"
	"github.com/docchat/docchat-tui/internal/fileproc"
	"github.com/docchat/docchat-tui/internal/sanitize"
	"github.com/docchat/docchat-tui/internal/store"
	"github.com/docchat/docchat-tui/internal/turn"
	"github.com/docchat/docchat-tui/internal/ui/chat"
	"github.com/docchat/docchat-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global program reference for async event delivery from the
// orchestrator's goroutines into the Bubble Tea loop.
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

func send(msg tea.Msg) {
	programMu.Lock()
	p := programRef
	programMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func main() {
	var (
		configPath  = flag.String("config", config.DefaultPath(), "path to config file")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("docchat %s (%s, %s)\n", Version, GitCommit, BuildDate)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		// Malformed config falls back to defaults; tell the user why.
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	// The TUI owns stdout, so diagnostics go to a log file in the data
	// directory.
	logger, closeLog, err := openLogger(cfg.Storage.Dir)
	if err != nil {
		return err
	}
	defer closeLog()
	logger.Printf("docchat %s starting", Version)

	persister, closePersister, err := openPersister(cfg)
	if err != nil {
		return err
	}
	defer closePersister()

	st := store.New(persister, logger)
	st.Load()

	themeName := st.Theme()
	if themeName == "" {
		themeName = cfg.UI.Theme
	}
	if themeName == "" {
		themeName = styles.DefaultThemeName
	}

	client := api.NewClientFromConfig(cfg)
	cleaner := sanitize.New(cfg.Sanitizer.Phrases...)

	orch := turn.New(st, client, cleaner, turn.Options{
		Model:          cfg.API.Model,
		RequestTimeout: cfg.RequestTimeout(),
		RevealInterval: cfg.RevealInterval(),
		Events: turn.Events{
			RevealTick: func(sessionID, messageID, prefix string) {
				send(chat.RevealTickMsg{SessionID: sessionID, MessageID: messageID, Prefix: prefix})
			},
			TurnDone: func(sessionID, messageID, final string) {
				send(chat.TurnDoneMsg{SessionID: sessionID, MessageID: messageID, Final: final})
			},
			TurnFailed: func(sessionID string, err error) {
				logger.Printf("turn failed: %v", err)
				send(chat.TurnErrorMsg{SessionID: sessionID, Err: err})
			},
		},
	})
	defer orch.Shutdown()

	ui := chat.New(chat.Options{
		Store:     st,
		Orch:      orch,
		Processor: fileproc.New(client),
		ModelName: cfg.API.Model,
		ThemeName: themeName,
		Logger:    logger,
	})

	p := tea.NewProgram(ui, tea.WithAltScreen())
	programMu.Lock()
	programRef = p
	programMu.Unlock()

	_, err = p.Run()
	return err
}

// openLogger opens the append-only diagnostic log in the data directory.
func openLogger(dir string) (*log.Logger, func(), error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	path := filepath.Join(dir, "docchat.log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return log.New(f, "", log.LstdFlags), func() { f.Close() }, nil
}

// openPersister selects the storage backend from config.
func openPersister(cfg *config.Config) (store.Persister, func(), error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		p, err := store.NewSQLitePersister(filepath.Join(cfg.Storage.Dir, "docchat.db"))
		if err != nil {
			return nil, nil, err
		}
		return p, func() { p.Close() }, nil
	default:
		p, err := store.NewFilePersister(cfg.Storage.Dir)
		if err != nil {
			return nil, nil, err
		}
		return p, func() {}, nil
	}
}
