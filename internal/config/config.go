// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and persistence for voxchat.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/voxchat-tui/internal/model"
	"github.com/jeranaias/voxchat-tui/internal/storage"
)

// =============================================================================
// CONFIG STRUCTURE
// =============================================================================

// Config carries everything a dispatch or transcription call needs.
// Values are read fresh at dispatch time and never embedded into messages.
type Config struct {
	// BearerToken authenticates against both webhooks.
	// Stored in plain text; the webhooks are the trust boundary.
	BearerToken string `toml:"bearer_token"`

	// WebhookURL is the chat completion endpoint.
	WebhookURL string `toml:"webhook_url"`

	// TranscriptionURL is the speech-to-text endpoint.
	TranscriptionURL string `toml:"transcription_url"`

	// SystemPrompt is sent with every chat request as the "prompt" field.
	SystemPrompt string `toml:"system_prompt"`

	// AdminEmail rides along in the payload as "admin_email" for backends
	// that route summaries or escalations to a fixed address.
	AdminEmail string `toml:"admin_email"`

	// DefaultModel is the model selector's startup choice.
	DefaultModel string `toml:"default_model"`
}

// fileConfig mirrors Config for the optional TOML defaults file. Pointer
// fields distinguish "absent" from "deliberately empty".
type fileConfig struct {
	BearerToken      *string `toml:"bearer_token"`
	WebhookURL       *string `toml:"webhook_url"`
	TranscriptionURL *string `toml:"transcription_url"`
	SystemPrompt     *string `toml:"system_prompt"`
	AdminEmail       *string `toml:"admin_email"`
	DefaultModel     *string `toml:"default_model"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DefaultModel: model.DefaultModel,
	}
}

// =============================================================================
// LOADING
// =============================================================================

// DefaultsPath returns the location of the optional TOML defaults file.
func DefaultsPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".voxchat", "config.toml")
}

// Load assembles the effective configuration from defaults, the TOML file,
// the key-value store, and environment variables, in that order.
func Load(kv *storage.Store) Config {
	return LoadWithDefaults(kv, DefaultsPath())
}

// LoadWithDefaults is Load with an explicit defaults file path. Used by tests
// and by the file watcher on reload.
func LoadWithDefaults(kv *storage.Store, defaultsPath string) Config {
	cfg := Default()
	applyFile(&cfg, defaultsPath)
	applyStore(&cfg, kv)
	applyEnv(&cfg)
	return cfg
}

// applyFile overlays values from the TOML defaults file, if it exists.
// A malformed file is ignored rather than fatal.
func applyFile(cfg *Config, path string) {
	if path == "" {
		return
	}

	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return
	}

	if fc.BearerToken != nil {
		cfg.BearerToken = *fc.BearerToken
	}
	if fc.WebhookURL != nil {
		cfg.WebhookURL = *fc.WebhookURL
	}
	if fc.TranscriptionURL != nil {
		cfg.TranscriptionURL = *fc.TranscriptionURL
	}
	if fc.SystemPrompt != nil {
		cfg.SystemPrompt = *fc.SystemPrompt
	}
	if fc.AdminEmail != nil {
		cfg.AdminEmail = *fc.AdminEmail
	}
	if fc.DefaultModel != nil {
		cfg.DefaultModel = *fc.DefaultModel
	}
}

// applyStore overlays values persisted by the settings UI.
func applyStore(cfg *Config, kv *storage.Store) {
	if kv == nil {
		return
	}
	cfg.BearerToken = kv.GetOr(storage.KeyBearerToken, cfg.BearerToken)
	cfg.WebhookURL = kv.GetOr(storage.KeyWebhookURL, cfg.WebhookURL)
	cfg.TranscriptionURL = kv.GetOr(storage.KeyTranscriptionURL, cfg.TranscriptionURL)
	cfg.SystemPrompt = kv.GetOr(storage.KeySystemPrompt, cfg.SystemPrompt)
	cfg.AdminEmail = kv.GetOr(storage.KeyAdminEmail, cfg.AdminEmail)
	cfg.DefaultModel = kv.GetOr(storage.KeySelectedModel, cfg.DefaultModel)
}

// applyEnv overlays VOXCHAT_* environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("VOXCHAT_BEARER_TOKEN"); v != "" {
		cfg.BearerToken = v
	}
	if v := os.Getenv("VOXCHAT_WEBHOOK_URL"); v != "" {
		cfg.WebhookURL = v
	}
	if v := os.Getenv("VOXCHAT_TRANSCRIPTION_URL"); v != "" {
		cfg.TranscriptionURL = v
	}
	if v := os.Getenv("VOXCHAT_SYSTEM_PROMPT"); v != "" {
		cfg.SystemPrompt = v
	}
	if v := os.Getenv("VOXCHAT_ADMIN_EMAIL"); v != "" {
		cfg.AdminEmail = v
	}
	if v := os.Getenv("VOXCHAT_DEFAULT_MODEL"); v != "" {
		cfg.DefaultModel = v
	}
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// Save writes every field under its own storage key. Each field persists
// independently, so a later Load restores exactly what was saved even if the
// defaults file changes underneath. An empty field removes its override
// entirely, letting the defaults file or environment show through on the
// next Load instead of pinning the value to "".
func Save(kv *storage.Store, cfg Config) error {
	pairs := []struct{ key, value string }{
		{storage.KeyBearerToken, cfg.BearerToken},
		{storage.KeyWebhookURL, cfg.WebhookURL},
		{storage.KeyTranscriptionURL, cfg.TranscriptionURL},
		{storage.KeySystemPrompt, cfg.SystemPrompt},
		{storage.KeyAdminEmail, cfg.AdminEmail},
		{storage.KeySelectedModel, cfg.DefaultModel},
	}
	for _, p := range pairs {
		if p.value == "" {
			if err := kv.Delete(p.key); err != nil {
				return err
			}
			continue
		}
		if err := kv.Put(p.key, p.value); err != nil {
			return err
		}
	}
	return nil
}

// SaveModel persists just the model selector choice.
func SaveModel(kv *storage.Store, modelID string) error {
	return kv.Put(storage.KeySelectedModel, modelID)
}
