// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/voxchat-tui/internal/model"
	"github.com/jeranaias/voxchat-tui/internal/ui/styles"
	"github.com/jeranaias/voxchat-tui/internal/util"
)

// timestampLayout is the format shown next to each sender label.
const timestampLayout = "15:04"

// MessageRenderer renders chat messages into styled bubbles.
// Assistant replies are markdown-rendered with glamour; user messages
// are shown verbatim. The renderer is rebuilt on terminal resize so
// word wrap tracks the bubble width.
type MessageRenderer struct {
	theme    *styles.Theme
	markdown *glamour.TermRenderer
	width    int
}

// NewMessageRenderer creates a renderer for the given terminal width.
func NewMessageRenderer(theme *styles.Theme, width int) *MessageRenderer {
	r := &MessageRenderer{theme: theme}
	r.SetWidth(width)
	return r
}

// SetWidth updates the wrap width and rebuilds the markdown renderer.
func (r *MessageRenderer) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	r.width = width

	wrap := r.bubbleWidth() - 4
	if wrap < 16 {
		wrap = 16
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		// Fall back to plain text when the renderer cannot be built.
		md = nil
	}
	r.markdown = md
}

// bubbleWidth returns the maximum content width of a single bubble.
func (r *MessageRenderer) bubbleWidth() int {
	w := r.width - 8
	if w < 20 {
		w = 20
	}
	if w > 100 {
		w = 100
	}
	return w
}

// Render renders one message as a sender line plus a styled bubble.
func (r *MessageRenderer) Render(msg model.Message) string {
	sender := r.theme.BubbleSender.Render(msg.Role.DisplayName())
	stamp := r.theme.BubbleTimestamp.Render(msg.Timestamp.Format(timestampLayout))

	content := msg.Content
	bubble := r.theme.UserBubble
	align := lipgloss.Right

	if msg.Role == model.RoleAssistant {
		bubble = r.theme.AssistantBubble
		align = lipgloss.Left
		content = r.renderMarkdown(content)
	}

	body := bubble.MaxWidth(r.bubbleWidth()).Render(content)
	block := lipgloss.JoinVertical(align, sender+" "+stamp, body)

	if align == lipgloss.Right {
		return lipgloss.PlaceHorizontal(r.width, lipgloss.Right, block)
	}
	return block
}

// RenderAll renders the whole transcript separated by blank lines.
func (r *MessageRenderer) RenderAll(messages []model.Message) string {
	if len(messages) == 0 {
		return r.emptyState()
	}

	blocks := make([]string, 0, len(messages))
	for _, msg := range messages {
		blocks = append(blocks, r.Render(msg))
	}
	return strings.Join(blocks, "\n\n")
}

// renderMarkdown renders assistant markdown for terminal display.
// Returns the original content if rendering fails.
func (r *MessageRenderer) renderMarkdown(content string) string {
	if r.markdown == nil {
		return content
	}
	rendered, err := r.markdown.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}

// emptyState renders the placeholder shown before the first message.
func (r *MessageRenderer) emptyState() string {
	hint := "Start the conversation below, or hold the mic key to speak."
	if util.StringWidth(hint) > r.width-4 {
		hint = "Start the conversation below."
	}
	return r.theme.InputPlaceholder.Render(hint)
}
