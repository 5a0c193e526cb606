// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// BRAND COLORS
// =============================================================================

// Forest - primary brand color: launcher, header, user bubbles
var Forest = lipgloss.AdaptiveColor{Light: "#0B3D0B", Dark: "#3FA34D"}

// Sea - secondary accent: focus, selections, typing indicator
var Sea = lipgloss.AdaptiveColor{Light: "#2E8B57", Dark: "#5FD38D"}

// Mint - assistant bubble background
var Mint = lipgloss.AdaptiveColor{Light: "#E8F5E9", Dark: "#1F3323"}

// Meadow - page background
var Meadow = lipgloss.AdaptiveColor{Light: "#F0F7F0", Dark: "#132016"}

// Border - panel and bubble borders
var Border = lipgloss.AdaptiveColor{Light: "#C8E6C9", Dark: "#2F5A36"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#E3EFE4"}

// TextMuted - hints, timestamps
var TextMuted = lipgloss.AdaptiveColor{Light: "#6B7B6C", Dark: "#8FA592"}

// TextInverse - text on brand backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#0B1A0D"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - errors
var Rose = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}

// Amber - warnings and notices
var Amber = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}

// LinkColor - attachment references
var LinkColor = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"}

// =============================================================================
// STATUS HELPERS
// =============================================================================

// StatusIndicators are ASCII markers shown next to status text so state is
// not conveyed by color alone.
var StatusIndicators = struct {
	Success string
	Error   string
	Warning string
	Info    string
}{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
}

// RenderSuccess renders a success line.
func RenderSuccess(message string) string {
	return lipgloss.NewStyle().Foreground(Sea).Bold(true).
		Render(StatusIndicators.Success + " " + message)
}

// RenderError renders an error line.
func RenderError(message string) string {
	return lipgloss.NewStyle().Foreground(Rose).Bold(true).
		Render(StatusIndicators.Error + " " + message)
}

// RenderWarning renders a warning line.
func RenderWarning(message string) string {
	return lipgloss.NewStyle().Foreground(Amber).Bold(true).
		Render(StatusIndicators.Warning + " " + message)
}

// RenderInfo renders an informational line.
func RenderInfo(message string) string {
	return lipgloss.NewStyle().Foreground(TextMuted).
		Render(StatusIndicators.Info + " " + message)
}
