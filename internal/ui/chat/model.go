// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/jeranaias/voxchat-tui/internal/config"
	"github.com/jeranaias/voxchat-tui/internal/model"
	"github.com/jeranaias/voxchat-tui/internal/session"
	"github.com/jeranaias/voxchat-tui/internal/storage"
	"github.com/jeranaias/voxchat-tui/internal/ui/components"
	"github.com/jeranaias/voxchat-tui/internal/ui/styles"
	"github.com/jeranaias/voxchat-tui/internal/voice"
	"github.com/jeranaias/voxchat-tui/internal/webhook"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateReady        State = iota // Ready for input
	StateSending                   // Waiting for the webhook reply
	StateRecording                 // Microphone is live
	StateTranscribing              // Recording is being transcribed
)

// Settings overlay field indices, in display order.
const (
	fieldToken = iota
	fieldWebhookURL
	fieldTranscriptionURL
	fieldSystemPrompt
	fieldAdminEmail
	fieldCount
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// State
	state State

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int
	ready  bool

	// Conversation
	sessions *session.Store

	// Configuration. cfg is re-read at every dispatch so settings edits
	// and defaults-file reloads take effect on the next message.
	kv  *storage.Store
	cfg config.Config

	// Clients
	client   *webhook.Client
	recorder *voice.Recorder

	// Selected chat model (webhook "model" field)
	selectedModel string

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	renderer *components.MessageRenderer
	toasts   *components.ToastManager

	// Key bindings
	keyMap KeyMap

	// Model picker overlay
	showPicker  bool
	pickerIndex int

	// Settings overlay
	showSettings  bool
	settingsIndex int
	settings      []textinput.Model

	// Help overlay
	showHelp bool
}

// New creates the chat model. The session store must already be
// restored; the caller owns the storage handle's lifetime.
func New(theme *styles.Theme, sessions *session.Store, kv *storage.Store, cfg config.Config, recorder *voice.Recorder) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a message..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 12,
	}
	sp.Style = theme.Spinner

	selected := cfg.DefaultModel
	if !model.IsKnownModel(selected) {
		selected = model.DefaultModel
	}

	return Model{
		state:         StateReady,
		theme:         theme,
		sessions:      sessions,
		kv:            kv,
		cfg:           cfg,
		client:        webhook.NewClient(),
		recorder:      recorder,
		selectedModel: selected,
		viewport:      vp,
		input:         ti,
		spinner:       sp,
		renderer:      components.NewMessageRenderer(theme, 80),
		toasts:        components.NewToastManager(),
		keyMap:        DefaultKeyMap(),
	}
}

// SelectedModel returns the identifier sent in the "model" field.
func (m Model) SelectedModel() string {
	return m.selectedModel
}

// State returns the current view state.
func (m Model) State() State {
	return m.state
}

// newSettingsInputs builds the settings overlay fields seeded from cfg.
func newSettingsInputs(cfg config.Config) []textinput.Model {
	mk := func(placeholder, value string) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.SetValue(value)
		ti.CharLimit = 2048
		return ti
	}

	inputs := make([]textinput.Model, fieldCount)
	inputs[fieldToken] = mk("bearer token", cfg.BearerToken)
	inputs[fieldToken].EchoMode = textinput.EchoPassword
	inputs[fieldToken].EchoCharacter = '*'
	inputs[fieldWebhookURL] = mk("https://...", cfg.WebhookURL)
	inputs[fieldTranscriptionURL] = mk("https://...", cfg.TranscriptionURL)
	inputs[fieldSystemPrompt] = mk("system prompt", cfg.SystemPrompt)
	inputs[fieldAdminEmail] = mk("admin@example.com", cfg.AdminEmail)

	inputs[fieldToken].Focus()
	return inputs
}

// settingsFieldLabel returns the display label for a settings field.
func settingsFieldLabel(i int) string {
	switch i {
	case fieldToken:
		return "Bearer token"
	case fieldWebhookURL:
		return "Webhook URL"
	case fieldTranscriptionURL:
		return "Transcription URL"
	case fieldSystemPrompt:
		return "System prompt"
	case fieldAdminEmail:
		return "Admin email"
	default:
		return ""
	}
}
