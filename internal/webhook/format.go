// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package webhook implements the dispatch client for the chat completion
// endpoint.
package webhook

import (
	"regexp"
	"strings"
)

// Automation backends frequently hand back JSON-escaped text, so "\n" arrives
// as a literal backslash-n, and chained prompt templates pad answers with
// runs of blank lines.
var excessiveBlankLines = regexp.MustCompile(`\n\s*\n(\s*\n)+`)

// FormatOutput normalizes a webhook reply for display:
//
//   - literal "\n" escape sequences become real newlines
//   - three or more consecutive blank-ish lines collapse to one blank line
//   - leading and trailing whitespace is trimmed
//
// The transform is pure and idempotent: FormatOutput(FormatOutput(s)) ==
// FormatOutput(s) for every input.
func FormatOutput(s string) string {
	formatted := strings.ReplaceAll(s, `\n`, "\n")
	formatted = excessiveBlankLines.ReplaceAllString(formatted, "\n\n")
	return strings.TrimSpace(formatted)
}
