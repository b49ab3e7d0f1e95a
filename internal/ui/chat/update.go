// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/voxchat-tui/internal/config"
	"github.com/jeranaias/voxchat-tui/internal/model"
	"github.com/jeranaias/voxchat-tui/internal/ui/components"
	"github.com/jeranaias/voxchat-tui/internal/util"
	"github.com/jeranaias/voxchat-tui/internal/voice"
	"github.com/jeranaias/voxchat-tui/internal/webhook"
)

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// SendCmd creates a command that dispatches one message to the webhook.
// The returned ReplyMsg carries either the formatted reply or the error.
func SendCmd(client *webhook.Client, req webhook.Request) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), webhook.DefaultTimeout)
		defer cancel()

		reply, err := client.Send(ctx, req)
		return ReplyMsg{Reply: reply, Err: err}
	}
}

// StartRecordingCmd creates a command that brings up the microphone.
func StartRecordingCmd(recorder *voice.Recorder) tea.Cmd {
	return func() tea.Msg {
		return RecordStartedMsg{Err: recorder.Start(context.Background())}
	}
}

// StopAndTranscribeCmd creates a command that releases the microphone
// and sends the captured audio for transcription. The device is always
// released before any network traffic happens.
func StopAndTranscribeCmd(recorder *voice.Recorder, cfg config.Config, sessionID string) tea.Cmd {
	return func() tea.Msg {
		payload, err := recorder.Stop()
		if err != nil {
			return TranscriptMsg{Err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), webhook.DefaultTimeout)
		defer cancel()

		text, err := recorder.Transcribe(ctx, payload, cfg.TranscriptionURL, cfg.BearerToken, sessionID)
		return TranscriptMsg{Text: text, Err: err}
	}
}

// =============================================================================
// INIT AND UPDATE
// =============================================================================

// Init starts input blinking and the toast expiry ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, components.ToastTickCmd())
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ReplyMsg:
		return m.handleReply(msg)

	case RecordStartedMsg:
		if msg.Err != nil {
			m.state = StateReady
			m.toasts.AddError("Microphone unavailable: " + util.TruncateRunes(msg.Err.Error(), 60))
			return m, nil
		}
		m.state = StateRecording
		return m, m.spinner.Tick

	case TranscriptMsg:
		return m.handleTranscript(msg)

	case ConfigReloadedMsg:
		m.cfg = msg.Config
		m.toasts.AddStatus("Configuration reloaded")
		return m, nil

	case components.ToastTickMsg:
		m.toasts.Tick()
		return m, components.ToastTickCmd()

	case spinner.TickMsg:
		if m.state == StateReady {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true

	chrome := headerHeight + inputHeight + statusHeight
	vpHeight := msg.Height - chrome
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.Width = msg.Width
	m.viewport.Height = vpHeight
	m.input.Width = msg.Width - 6

	m.renderer.SetWidth(msg.Width)
	m.refreshTranscript()
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Quit) {
		return m, tea.Quit
	}

	if m.showPicker {
		return m.handlePickerKey(msg)
	}
	if m.showSettings {
		return m.handleSettingsKey(msg)
	}
	if m.showHelp {
		if key.Matches(msg, m.keyMap.Cancel) || key.Matches(msg, m.keyMap.Help) {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keyMap.Submit):
		return m.submitMessage()

	case key.Matches(msg, m.keyMap.Voice):
		return m.toggleVoice()

	case key.Matches(msg, m.keyMap.Clear):
		m.sessions.Clear()
		m.refreshTranscript()
		m.toasts.AddStatus("Conversation cleared")
		return m, nil

	case key.Matches(msg, m.keyMap.Models):
		m.showPicker = true
		m.pickerIndex = 0
		for i, opt := range model.AvailableModels {
			if opt.Value == m.selectedModel {
				m.pickerIndex = i
				break
			}
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Settings):
		m.showSettings = true
		m.settingsIndex = 0
		m.settings = newSettingsInputs(m.cfg)
		return m, nil

	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keyMap.Up):
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		m.viewport.LineDown(1)
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	// Typing is disabled while a dispatch or recording is in flight.
	if m.state != StateReady {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitMessage appends the user turn and dispatches it. The turn is
// appended before the network call and is never rolled back.
func (m Model) submitMessage() (tea.Model, tea.Cmd) {
	if m.state != StateReady {
		return m, nil
	}

	trimmed := strings.TrimSpace(m.input.Value())
	if trimmed == "" {
		return m, nil
	}
	if m.cfg.BearerToken == "" {
		m.toasts.AddWarning("Set your bearer token first (C-s opens settings)")
		return m, nil
	}

	m.sessions.Append(trimmed, model.RoleUser, "")
	m.input.Reset()
	m.state = StateSending
	m.refreshTranscript()

	req := webhook.Request{
		Message:   trimmed,
		Model:     m.selectedModel,
		SessionID: m.sessions.Current().ID,
		Config:    m.cfg,
	}
	return m, tea.Batch(m.spinner.Tick, SendCmd(m.client, req))
}

// handleReply finishes a dispatch. Failures surface as a fixed apology
// turn plus an error toast; the transcript is never rewound.
func (m Model) handleReply(msg ReplyMsg) (tea.Model, tea.Cmd) {
	m.state = StateReady

	if msg.Err != nil {
		m.sessions.Append(webhook.FallbackReply, model.RoleAssistant, m.selectedModel)
		m.toasts.AddError("Dispatch failed: " + util.TruncateRunes(msg.Err.Error(), 80))
	} else {
		m.sessions.Append(msg.Reply, model.RoleAssistant, m.selectedModel)
	}

	m.refreshTranscript()
	return m, nil
}

// toggleVoice starts a recording when idle and stops it when live.
func (m Model) toggleVoice() (tea.Model, tea.Cmd) {
	switch m.state {
	case StateReady:
		// Configuration gaps are reported before the device is touched.
		if m.cfg.BearerToken == "" {
			m.toasts.AddWarning("Set your bearer token first (C-s opens settings)")
			return m, nil
		}
		if m.cfg.TranscriptionURL == "" {
			m.toasts.AddWarning("Set the transcription URL first (C-s opens settings)")
			return m, nil
		}
		return m, StartRecordingCmd(m.recorder)
	case StateRecording:
		m.state = StateTranscribing
		return m, StopAndTranscribeCmd(m.recorder, m.cfg, m.sessions.Current().ID)
	default:
		return m, nil
	}
}

// handleTranscript places the transcript into the input field so it can
// be reviewed and edited before sending.
func (m Model) handleTranscript(msg TranscriptMsg) (tea.Model, tea.Cmd) {
	m.state = StateReady

	if msg.Err != nil {
		m.toasts.AddError("Transcription failed: " + util.TruncateRunes(msg.Err.Error(), 60))
		return m, nil
	}
	if msg.Text == "" {
		m.toasts.AddStatus("No speech detected")
		return m, nil
	}

	if existing := m.input.Value(); existing != "" {
		m.input.SetValue(existing + " " + msg.Text)
	} else {
		m.input.SetValue(msg.Text)
	}
	m.input.CursorEnd()
	return m, nil
}

// =============================================================================
// OVERLAY KEY HANDLING
// =============================================================================

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Cancel):
		m.showPicker = false
		return m, nil

	case key.Matches(msg, m.keyMap.Up):
		if m.pickerIndex > 0 {
			m.pickerIndex--
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		if m.pickerIndex < len(model.AvailableModels)-1 {
			m.pickerIndex++
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		opt := model.AvailableModels[m.pickerIndex]
		m.selectedModel = opt.Value
		m.showPicker = false
		if err := config.SaveModel(m.kv, opt.Value); err != nil {
			m.toasts.AddWarning("Model choice not persisted")
		}
		m.toasts.AddStatus("Model: " + opt.Label)
		return m, nil
	}
	return m, nil
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Cancel):
		m.showSettings = false
		m.settings = nil
		return m, nil

	case msg.String() == "tab", msg.String() == "down":
		return m.focusSettingsField((m.settingsIndex + 1) % fieldCount), nil

	case msg.String() == "shift+tab", msg.String() == "up":
		return m.focusSettingsField((m.settingsIndex + fieldCount - 1) % fieldCount), nil

	case key.Matches(msg, m.keyMap.Submit):
		return m.saveSettings()
	}

	var cmd tea.Cmd
	m.settings[m.settingsIndex], cmd = m.settings[m.settingsIndex].Update(msg)
	return m, cmd
}

func (m Model) focusSettingsField(i int) Model {
	m.settings[m.settingsIndex].Blur()
	m.settingsIndex = i
	m.settings[m.settingsIndex].Focus()
	return m
}

// saveSettings persists the overlay fields and applies them immediately.
func (m Model) saveSettings() (tea.Model, tea.Cmd) {
	cfg := m.cfg
	cfg.BearerToken = strings.TrimSpace(m.settings[fieldToken].Value())
	cfg.WebhookURL = strings.TrimSpace(m.settings[fieldWebhookURL].Value())
	cfg.TranscriptionURL = strings.TrimSpace(m.settings[fieldTranscriptionURL].Value())
	cfg.SystemPrompt = m.settings[fieldSystemPrompt].Value()
	cfg.AdminEmail = strings.TrimSpace(m.settings[fieldAdminEmail].Value())

	if err := config.Save(m.kv, cfg); err != nil {
		m.toasts.AddError("Settings not saved: " + util.TruncateRunes(err.Error(), 60))
		return m, nil
	}

	m.cfg = cfg
	m.showSettings = false
	m.settings = nil
	m.toasts.AddStatus("Settings saved")
	return m, nil
}

// =============================================================================
// TRANSCRIPT REFRESH
// =============================================================================

// refreshTranscript re-renders the conversation into the viewport and
// follows the newest message.
func (m *Model) refreshTranscript() {
	m.viewport.SetContent(m.renderer.RenderAll(m.sessions.Current().Messages))
	m.viewport.GotoBottom()
}
