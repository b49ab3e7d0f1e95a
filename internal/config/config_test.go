// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jeranaias/voxchat-tui/internal/model"
	"github.com/jeranaias/voxchat-tui/internal/storage"
)

func testKV(t *testing.T) *storage.Store {
	t.Helper()
	kv, err := storage.OpenPath(filepath.Join(t.TempDir(), "config.db"))
	if err != nil {
		t.Fatalf("Failed to open storage: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

func writeDefaults(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write defaults file: %v", err)
	}
	return path
}

func TestLoad_BuiltInDefaults(t *testing.T) {
	cfg := LoadWithDefaults(testKV(t), "")

	if cfg.DefaultModel != model.DefaultModel {
		t.Errorf("DefaultModel = %q, want %q", cfg.DefaultModel, model.DefaultModel)
	}
	if cfg.BearerToken != "" || cfg.WebhookURL != "" {
		t.Error("credentials should default to empty")
	}
}

func TestLoad_TOMLDefaults(t *testing.T) {
	path := writeDefaults(t, `
webhook_url = "https://hooks.example/chat"
system_prompt = "You are terse."
admin_email = "ops@example.com"
`)

	cfg := LoadWithDefaults(testKV(t), path)

	if cfg.WebhookURL != "https://hooks.example/chat" {
		t.Errorf("WebhookURL = %q", cfg.WebhookURL)
	}
	if cfg.SystemPrompt != "You are terse." {
		t.Errorf("SystemPrompt = %q", cfg.SystemPrompt)
	}
	if cfg.AdminEmail != "ops@example.com" {
		t.Errorf("AdminEmail = %q", cfg.AdminEmail)
	}
	// Fields absent from the file keep their built-in defaults.
	if cfg.DefaultModel != model.DefaultModel {
		t.Errorf("DefaultModel = %q", cfg.DefaultModel)
	}
}

func TestLoad_StoreOverridesFile(t *testing.T) {
	path := writeDefaults(t, `webhook_url = "https://file.example"`)
	kv := testKV(t)
	kv.Put(storage.KeyWebhookURL, "https://edited.example")

	cfg := LoadWithDefaults(kv, path)
	if cfg.WebhookURL != "https://edited.example" {
		t.Errorf("WebhookURL = %q, want store value to win", cfg.WebhookURL)
	}
}

func TestLoad_EnvOverridesStore(t *testing.T) {
	kv := testKV(t)
	kv.Put(storage.KeyBearerToken, "stored-token")
	t.Setenv("VOXCHAT_BEARER_TOKEN", "env-token")

	cfg := LoadWithDefaults(kv, "")
	if cfg.BearerToken != "env-token" {
		t.Errorf("BearerToken = %q, want env value to win", cfg.BearerToken)
	}
}

func TestLoad_MalformedFileIgnored(t *testing.T) {
	path := writeDefaults(t, `not valid toml = = =`)

	cfg := LoadWithDefaults(testKV(t), path)
	if cfg.DefaultModel != model.DefaultModel {
		t.Error("malformed defaults file should fall back to built-ins")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	kv := testKV(t)

	in := Config{
		BearerToken:      "tok",
		WebhookURL:       "https://hooks.example/chat",
		TranscriptionURL: "https://hooks.example/stt",
		SystemPrompt:     "be helpful",
		AdminEmail:       "ops@example.com",
		DefaultModel:     "anthropic/claude-sonnet-4",
	}
	if err := Save(kv, in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	out := LoadWithDefaults(kv, "")
	if out != in {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", out, in)
	}
}

func TestSave_EmptyFieldClearsOverride(t *testing.T) {
	path := writeDefaults(t, `webhook_url = "https://file.example"`)
	kv := testKV(t)
	kv.Put(storage.KeyWebhookURL, "https://edited.example")

	cleared := Config{DefaultModel: model.DefaultModel}
	if err := Save(kv, cleared); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, ok, _ := kv.Get(storage.KeyWebhookURL); ok {
		t.Error("saving an empty field should remove the stored override")
	}
	cfg := LoadWithDefaults(kv, path)
	if cfg.WebhookURL != "https://file.example" {
		t.Errorf("WebhookURL = %q, want defaults file to show through", cfg.WebhookURL)
	}
}

func TestWatcher_FiresOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	os.WriteFile(path, []byte(`webhook_url = "https://a.example"`), 0644)

	fired := make(chan struct{}, 1)
	w, err := NewWatcher(path, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	os.WriteFile(path, []byte(`webhook_url = "https://b.example"`), 0644)

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not fire on file change")
	}
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	os.WriteFile(path, []byte(``), 0644)

	fired := make(chan struct{}, 1)
	w, err := NewWatcher(path, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644)

	select {
	case <-fired:
		t.Fatal("watcher fired for an unrelated file")
	case <-time.After(600 * time.Millisecond):
	}
}
