// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/dva-tui/internal/ui/styles"
)

// init configures lipgloss for NO_COLOR, FORCE_COLOR and piped output.
func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// TitleStyle is used for command titles and headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Forest)

	// SectionStyle is used for group headings
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Sea)

	// LabelStyle is used for field labels
	LabelStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Width(22)

	// ValueStyle is used for regular values
	ValueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	// PromptStyle colors the chat prompt labels
	PromptStyle = lipgloss.NewStyle().
			Foreground(styles.Forest).
			Bold(true)

	// AssistantStyle colors the assistant's name
	AssistantStyle = lipgloss.NewStyle().
			Foreground(styles.Sea).
			Bold(true)

	// ErrorStyle is used for error messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	// DimStyle is used for secondary information and hints
	DimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	// HighlightStyle marks the current selection
	HighlightStyle = lipgloss.NewStyle().
			Foreground(styles.Sea).
			Bold(true)
)

// RenderLabel renders a label with consistent width.
func RenderLabel(label string) string {
	return LabelStyle.Render(label)
}

// RenderSeparator renders a horizontal rule at most 70 columns wide.
func RenderSeparator() string {
	w := GetTerminalWidth() - 4
	if w > 70 {
		w = 70
	}
	return DimStyle.Render(strings.Repeat("─", w))
}
