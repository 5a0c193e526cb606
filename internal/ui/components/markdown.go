// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// MarkdownRenderer renders assistant replies with glamour. Renderers are
// costly to build, so one is kept per wrap width.
type MarkdownRenderer struct {
	style    string
	renderer *glamour.TermRenderer
	width    int
	disabled bool
}

// NewMarkdownRenderer creates a renderer. style is "dark", "light" or
// "auto"; disabled makes Render return its input unchanged.
func NewMarkdownRenderer(style string, disabled bool) *MarkdownRenderer {
	if style != "dark" && style != "light" {
		style = "dark"
		if !lipgloss.HasDarkBackground() {
			style = "light"
		}
	}
	return &MarkdownRenderer{style: style, disabled: disabled}
}

// Render formats text as markdown wrapped at width columns. On any glamour
// failure the plain text is returned.
func (m *MarkdownRenderer) Render(text string, width int) string {
	if m == nil || m.disabled || width <= 0 {
		return text
	}
	if m.renderer == nil || m.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.style),
			glamour.WithColorProfile(lipgloss.ColorProfile()),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return text
		}
		m.renderer = r
		m.width = width
	}

	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return trimBlankLines(out)
}

// trimBlankLines drops the blank lines glamour puts around a document.
func trimBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}
