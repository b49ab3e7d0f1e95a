// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestNewTheme(t *testing.T) {
	theme := NewTheme()

	if theme == nil {
		t.Fatal("NewTheme() returned nil")
	}

	if rendered := theme.App.Render("test"); rendered == "" {
		t.Error("NewTheme() should initialize App style")
	}
}

func TestThemeInitStyles(t *testing.T) {
	theme := NewTheme()

	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Header", theme.Header},
		{"UserBubble", theme.UserBubble},
		{"AssistantBubble", theme.AssistantBubble},
		{"InputContainer", theme.InputContainer},
		{"StatusBar", theme.StatusBar},
		{"Recording", theme.Recording},
		{"Transcribing", theme.Transcribing},
		{"OverlayBox", theme.OverlayBox},
		{"ListItemSelected", theme.ListItemSelected},
	}

	for _, s := range styles {
		// An uninitialized style would render the input unchanged; empty
		// output means the style itself is broken.
		if rendered := s.style.Render("test"); rendered == "" {
			t.Errorf("%s style should be initialized", s.name)
		}
	}
}

func TestStatusIndicators(t *testing.T) {
	if StatusIndicators.Recording == "" {
		t.Error("Recording indicator should not be empty")
	}
	if StatusIndicators.Error == "" {
		t.Error("Error indicator should not be empty")
	}
}
