// voxchat TUI - a terminal chat client for webhook-driven assistants.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/voxchat-tui/internal/config"
	"github.com/jeranaias/voxchat-tui/internal/session"
	"github.com/jeranaias/voxchat-tui/internal/storage"
	"github.com/jeranaias/voxchat-tui/internal/ui/chat"
	"github.com/jeranaias/voxchat-tui/internal/ui/styles"
	"github.com/jeranaias/voxchat-tui/internal/voice"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("voxchat %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "voxchat: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	kv, err := storage.Open()
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer kv.Close()

	defaultsPath := config.DefaultsPath()
	cfg := config.LoadWithDefaults(kv, defaultsPath)

	sessions := session.New(kv)
	sessions.Restore()

	recorder := voice.NewRecorder(voice.NewExecDevice())
	theme := styles.NewTheme()

	m := chat.New(theme, sessions, kv, cfg, recorder)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Hot-reload the defaults file: edits to config.toml land on the
	// next dispatch without a restart.
	watcher, err := config.NewWatcher(defaultsPath, func() {
		p.Send(chat.ConfigReloadedMsg{
			Config: config.LoadWithDefaults(kv, defaultsPath),
		})
	})
	if err == nil {
		defer watcher.Close()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
