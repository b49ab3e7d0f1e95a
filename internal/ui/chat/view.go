// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/voxchat-tui/internal/model"
	"github.com/jeranaias/voxchat-tui/internal/ui/components"
	"github.com/jeranaias/voxchat-tui/internal/ui/styles"
	"github.com/jeranaias/voxchat-tui/internal/util"
)

// Fixed chrome heights used when sizing the viewport.
const (
	headerHeight = 3
	inputHeight  = 3
	statusHeight = 1
)

// View renders the full chat screen.
func (m Model) View() string {
	if !m.ready {
		return "Starting voxchat..."
	}

	if m.showPicker {
		return m.overlayView(m.pickerView())
	}
	if m.showSettings {
		return m.overlayView(m.settingsView())
	}
	if m.showHelp {
		return m.overlayView(m.helpView())
	}

	sections := []string{
		m.headerView(),
		m.viewport.View(),
		m.inputView(),
		m.statusView(),
	}
	screen := strings.Join(sections, "\n")

	if m.toasts.HasToasts() {
		stack := components.RenderToastStack(m.toasts.Toasts(), m.width, 0)
		screen = lipgloss.JoinVertical(lipgloss.Left, screen, stack)
	}
	return screen
}

// =============================================================================
// SECTIONS
// =============================================================================

func (m Model) headerView() string {
	title := m.theme.HeaderTitle.Render("voxchat")
	subtitle := m.theme.HeaderSubtitle.Render(model.ModelDisplayName(m.selectedModel))
	line := title + "  " + subtitle

	// Session recap: turn count plus a glimpse of the latest message,
	// squeezed into whatever width the title leaves over.
	sess := m.sessions.Current()
	if last, ok := sess.LastMessage(); ok {
		recap := fmt.Sprintf("%d msgs", sess.MessageCount())
		avail := m.width - lipgloss.Width(line) - lipgloss.Width(recap) - 12
		if avail > 8 {
			preview := strings.ReplaceAll(last.Preview(120), "\n", " ")
			recap += "  " + util.TruncateWidth(preview, avail)
		}
		line += "  " + m.theme.HeaderSubtitle.Render(recap)
	}
	return m.theme.Header.Width(m.width - 2).Render(line)
}

func (m Model) inputView() string {
	var inner string
	switch m.state {
	case StateSending:
		inner = m.spinner.View() + " " + m.theme.ThinkingText.Render("Waiting for reply...")
	case StateRecording:
		inner = m.theme.Recording.Render(styles.StatusIndicators.Recording) +
			" " + m.theme.ThinkingText.Render("Recording... press C-r to stop")
	case StateTranscribing:
		inner = m.spinner.View() + " " + m.theme.Transcribing.Render("Transcribing...")
	default:
		inner = m.input.View()
	}
	return m.theme.InputContainer.Width(m.width - 2).Render(inner)
}

func (m Model) statusView() string {
	var parts []string
	for _, b := range m.keyMap.ShortHelp() {
		h := b.Help()
		parts = append(parts,
			m.theme.ShortcutKey.Render(h.Key)+" "+m.theme.ShortcutDesc.Render(h.Desc))
	}
	shortcuts := strings.Join(parts, "  ")

	modelTag := m.theme.StatusModel.Render(m.selectedModel)
	gap := m.width - lipgloss.Width(shortcuts) - lipgloss.Width(modelTag) - 4
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Width(m.width).Render(
		shortcuts + strings.Repeat(" ", gap) + modelTag)
}

// =============================================================================
// OVERLAYS
// =============================================================================

// overlayView centers an overlay box on an otherwise dimmed screen.
func (m Model) overlayView(box string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) pickerView() string {
	var b strings.Builder
	b.WriteString(m.theme.OverlayTitle.Render("Choose a model"))
	b.WriteString("\n\n")

	for i, opt := range model.AvailableModels {
		label := opt.Label
		if opt.Value == m.selectedModel {
			label += " (current)"
		}
		if i == m.pickerIndex {
			b.WriteString(m.theme.ListItemSelected.Render("> " + label))
		} else {
			b.WriteString(m.theme.ListItem.Render("  " + label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.OverlayHint.Render("Enter select  Esc close"))
	return m.theme.OverlayBox.Render(b.String())
}

func (m Model) settingsView() string {
	var b strings.Builder
	b.WriteString(m.theme.OverlayTitle.Render("Settings"))
	b.WriteString("\n\n")

	for i, field := range m.settings {
		label := settingsFieldLabel(i)
		if i == m.settingsIndex {
			b.WriteString(m.theme.FieldLabelActive.Render(label))
		} else {
			b.WriteString(m.theme.FieldLabel.Render(label))
		}
		b.WriteString("\n")
		b.WriteString(field.View())
		b.WriteString("\n\n")
	}

	b.WriteString(m.theme.OverlayHint.Render("Tab next  Enter save  Esc cancel"))
	return m.theme.OverlayBox.Render(b.String())
}

func (m Model) helpView() string {
	var b strings.Builder
	b.WriteString(m.theme.OverlayTitle.Render("Keyboard shortcuts"))
	b.WriteString("\n")

	for _, group := range m.keyMap.FullHelp() {
		b.WriteString("\n")
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(m.theme.ShortcutKey.Render(fmt.Sprintf("%-7s", h.Key)))
			b.WriteString(" ")
			b.WriteString(m.theme.ShortcutDesc.Render(h.Desc))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.theme.OverlayHint.Render("Esc close"))
	return m.theme.OverlayBox.Render(b.String())
}
