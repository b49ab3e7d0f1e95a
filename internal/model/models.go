// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

import "strings"

// =============================================================================
// MODEL PICKLIST
// =============================================================================

// ModelOption is one entry in the model selector.
type ModelOption struct {
	// Value is the identifier sent to the webhook in the "model" field.
	Value string
	// Label is the human-readable name shown in the picker.
	Label string
}

// AvailableModels lists the chat models the webhook backend accepts,
// in picker order.
var AvailableModels = []ModelOption{
	{Value: "openai/gpt-4o", Label: "OpenAI GPT-4o"},
	{Value: "openai/gpt-4.1", Label: "OpenAI GPT-4.1"},
	{Value: "anthropic/claude-sonnet-4", Label: "Anthropic Claude Sonnet 4"},
	{Value: "anthropic/claude-opus-4", Label: "Anthropic Claude Opus 4"},
	{Value: "google/gemini-2.5-flash", Label: "Google Gemini 2.5 Flash"},
	{Value: "google/gemini-2.5-pro", Label: "Google Gemini 2.5 Pro"},
	{Value: "x-ai/grok-4", Label: "xAI Grok 4"},
	{Value: "moonshotai/kimi-k2", Label: "MoonshotAI Kimi K2"},
}

// DefaultModel is the selector's initial choice when nothing is persisted.
const DefaultModel = "openai/gpt-4o"

// ModelDisplayName prettifies a "provider/model-name" identifier for display:
// the provider is upper-cased and the model name is title-cased with dashes
// turned into spaces. Identifiers without a provider prefix pass through.
func ModelDisplayName(model string) string {
	parts := strings.SplitN(model, "/", 2)
	if len(parts) != 2 {
		return model
	}
	provider := strings.ToUpper(parts[0])

	name := strings.ReplaceAll(parts[1], "-", " ")
	words := strings.Fields(name)
	for i, w := range words {
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}

	return provider + " " + strings.Join(words, " ")
}

// IsKnownModel reports whether the identifier appears in AvailableModels.
func IsKnownModel(model string) bool {
	for _, opt := range AvailableModels {
		if opt.Value == model {
			return true
		}
	}
	return false
}
