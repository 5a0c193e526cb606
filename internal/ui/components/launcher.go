// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/dva-tui/internal/ui/styles"
)

// Launcher is the collapsed widget: a chat bubble pinned to the bottom-right
// corner of the screen.
type Launcher struct {
	Label string
	Hint  string
	theme *styles.Theme
}

// NewLauncher creates a launcher with the default label.
func NewLauncher(theme *styles.Theme) *Launcher {
	return &Launcher{
		Label: "💬 Chat",
		Hint:  "enter to open · ctrl+c to quit",
		theme: theme,
	}
}

// View renders the launcher placed in a width x height area.
func (l *Launcher) View(width, height int) string {
	bubble := l.theme.Launcher.Render(l.Label)
	block := lipgloss.JoinVertical(lipgloss.Right, bubble, l.theme.LauncherHint.Render(l.Hint))
	if width <= 0 || height <= 0 {
		return block
	}
	return lipgloss.Place(width, height, lipgloss.Right, lipgloss.Bottom, block)
}
