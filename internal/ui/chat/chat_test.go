// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/voxchat-tui/internal/config"
	"github.com/jeranaias/voxchat-tui/internal/model"
	"github.com/jeranaias/voxchat-tui/internal/session"
	"github.com/jeranaias/voxchat-tui/internal/storage"
	"github.com/jeranaias/voxchat-tui/internal/ui/styles"
	"github.com/jeranaias/voxchat-tui/internal/voice"
	"github.com/jeranaias/voxchat-tui/internal/webhook"
)

func testModel(t *testing.T, cfg config.Config) Model {
	t.Helper()

	kv, err := storage.OpenPath(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	sessions := session.New(kv)
	recorder := voice.NewRecorder(voice.NewExecDevice())

	m := New(styles.NewTheme(), sessions, kv, cfg, recorder)
	resized, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return resized.(Model)
}

func withToken() config.Config {
	cfg := config.Default()
	cfg.BearerToken = "tok-123"
	cfg.WebhookURL = "https://example.invalid/webhook"
	return cfg
}

func TestSubmit_EmptyInputIgnored(t *testing.T) {
	m := testModel(t, withToken())
	m.input.SetValue("   ")

	updated, cmd := m.submitMessage()
	m = updated.(Model)

	assert.Equal(t, StateReady, m.state)
	assert.Nil(t, cmd)
	assert.True(t, m.sessions.Current().IsEmpty(), "whitespace input must not create a turn")
}

func TestSubmit_RequiresToken(t *testing.T) {
	cfg := withToken()
	cfg.BearerToken = ""
	m := testModel(t, cfg)
	m.input.SetValue("hello")

	updated, cmd := m.submitMessage()
	m = updated.(Model)

	assert.Nil(t, cmd)
	assert.True(t, m.sessions.Current().IsEmpty(), "no dispatch without a token")
	assert.True(t, m.toasts.HasToasts(), "missing token should raise a toast")
}

func TestSubmit_AppendsUserTurnBeforeDispatch(t *testing.T) {
	m := testModel(t, withToken())
	m.input.SetValue("  hello there  ")

	updated, cmd := m.submitMessage()
	m = updated.(Model)

	require.NotNil(t, cmd, "a dispatch command must be issued")
	assert.Equal(t, StateSending, m.state)
	assert.Empty(t, m.input.Value(), "input clears on submit")

	msgs := m.sessions.Current().Messages
	require.Len(t, msgs, 1)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, "hello there", msgs[0].Content, "message is trimmed before appending")
}

func TestReply_AppendsAssistantTurn(t *testing.T) {
	m := testModel(t, withToken())
	m.sessions.Append("hi", model.RoleUser, "")
	m.state = StateSending

	updated, _ := m.Update(ReplyMsg{Reply: "hello back"})
	m = updated.(Model)

	assert.Equal(t, StateReady, m.state)
	msgs := m.sessions.Current().Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "hello back", msgs[1].Content)
	assert.Equal(t, m.selectedModel, msgs[1].Model)
}

func TestReply_ErrorKeepsUserTurnAndAppendsApology(t *testing.T) {
	m := testModel(t, withToken())
	m.sessions.Append("hi", model.RoleUser, "")
	m.state = StateSending

	updated, _ := m.Update(ReplyMsg{Err: errors.New("boom")})
	m = updated.(Model)

	assert.Equal(t, StateReady, m.state)
	msgs := m.sessions.Current().Messages
	require.Len(t, msgs, 2, "user turn stays, apology turn is added")
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, webhook.FallbackReply, msgs[1].Content)
	assert.True(t, m.toasts.HasToasts(), "failure raises a toast")
}

func TestTranscript_FillsInput(t *testing.T) {
	m := testModel(t, withToken())
	m.state = StateTranscribing

	updated, _ := m.Update(TranscriptMsg{Text: "book an appointment"})
	m = updated.(Model)

	assert.Equal(t, StateReady, m.state)
	assert.Equal(t, "book an appointment", m.input.Value())
}

func TestTranscript_AppendsToExistingInput(t *testing.T) {
	m := testModel(t, withToken())
	m.input.SetValue("please")
	m.state = StateTranscribing

	updated, _ := m.Update(TranscriptMsg{Text: "call me"})
	m = updated.(Model)

	assert.Equal(t, "please call me", m.input.Value())
}

func TestTranscript_NoSpeechIsToastNotError(t *testing.T) {
	m := testModel(t, withToken())
	m.state = StateTranscribing

	updated, _ := m.Update(TranscriptMsg{Text: ""})
	m = updated.(Model)

	assert.Equal(t, StateReady, m.state)
	assert.Empty(t, m.input.Value())
	assert.True(t, m.toasts.HasToasts(), "silence should surface a status toast")
}

func TestRecordStarted_ErrorStaysReady(t *testing.T) {
	m := testModel(t, withToken())

	updated, _ := m.Update(RecordStartedMsg{Err: voice.ErrMicUnavailable})
	m = updated.(Model)

	assert.Equal(t, StateReady, m.state)
	assert.True(t, m.toasts.HasToasts())
}

func TestVoiceToggle_RequiresTranscriptionURL(t *testing.T) {
	cfg := withToken()
	cfg.TranscriptionURL = ""
	m := testModel(t, cfg)

	updated, cmd := m.toggleVoice()
	m = updated.(Model)

	assert.Nil(t, cmd, "device must not be touched without a transcription URL")
	assert.Equal(t, StateReady, m.state)
	assert.True(t, m.toasts.HasToasts())
}

func TestVoiceToggle_IgnoredWhileSending(t *testing.T) {
	m := testModel(t, withToken())
	m.state = StateSending

	updated, cmd := m.toggleVoice()
	m = updated.(Model)

	assert.Nil(t, cmd)
	assert.Equal(t, StateSending, m.state)
}

func TestClearKey_ResetsSession(t *testing.T) {
	m := testModel(t, withToken())
	m.sessions.Append("hi", model.RoleUser, "")
	oldID := m.sessions.Current().ID

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m = updated.(Model)

	assert.True(t, m.sessions.Current().IsEmpty())
	assert.NotEqual(t, oldID, m.sessions.Current().ID, "clear mints a fresh session ID")
}

func TestPicker_SelectionPersists(t *testing.T) {
	m := testModel(t, withToken())

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	m = updated.(Model)
	require.True(t, m.showPicker)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	assert.False(t, m.showPicker)
	assert.Equal(t, model.AvailableModels[1].Value, m.selectedModel)

	saved, ok, err := m.kv.Get(storage.KeySelectedModel)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.AvailableModels[1].Value, saved)
}

func TestTypingDisabledWhileSending(t *testing.T) {
	m := testModel(t, withToken())
	m.state = StateSending

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	m = updated.(Model)

	assert.Empty(t, m.input.Value(), "keystrokes are dropped while a dispatch is in flight")
}

func TestHelpOverlay_ToggleAndClose(t *testing.T) {
	m := testModel(t, withToken())

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlG})
	m = updated.(Model)
	require.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Keyboard shortcuts")

	// Keystrokes other than close are swallowed by the overlay.
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	m = updated.(Model)
	assert.True(t, m.showHelp)
	assert.Empty(t, m.input.Value())

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	assert.False(t, m.showHelp)
}

func TestHeader_ShowsSessionRecap(t *testing.T) {
	m := testModel(t, withToken())
	assert.NotContains(t, m.headerView(), "msgs", "empty session has no recap")

	m.sessions.Append("hi", model.RoleUser, "")
	m.sessions.Append("hello back", model.RoleAssistant, m.selectedModel)

	header := m.headerView()
	assert.Contains(t, header, "2 msgs")
	assert.Contains(t, header, "hello back", "latest message previewed in the header")
}

func TestConfigReloaded_AppliesNewConfig(t *testing.T) {
	m := testModel(t, withToken())

	cfg := m.cfg
	cfg.SystemPrompt = "be brief"
	updated, _ := m.Update(ConfigReloadedMsg{Config: cfg})
	m = updated.(Model)

	assert.Equal(t, "be brief", m.cfg.SystemPrompt)
}
