// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the widget.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// LAUNCHER
	// ==========================================================================

	Launcher     lipgloss.Style
	LauncherHint lipgloss.Style

	// ==========================================================================
	// PANEL AND HEADER
	// ==========================================================================

	Panel       lipgloss.Style
	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderHint  lipgloss.Style

	// ==========================================================================
	// MODEL SELECTOR
	// ==========================================================================

	ModelBar         lipgloss.Style
	ModelName        lipgloss.Style
	SelectorBox      lipgloss.Style
	SelectorGroup    lipgloss.Style
	SelectorItem     lipgloss.Style
	SelectorSelected lipgloss.Style

	// ==========================================================================
	// MESSAGES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	Attachment      lipgloss.Style
	Timestamp       lipgloss.Style
	Typing          lipgloss.Style

	// ==========================================================================
	// INPUT AND STATUS
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style
	InputDisabled    lipgloss.Style
	StatusBar        lipgloss.Style
	ShortcutKey      lipgloss.Style
	ShortcutDesc     lipgloss.Style
	Notice           lipgloss.Style
	NoticeError      lipgloss.Style
}

// NewTheme creates a theme. mode is "dark", "light" or anything else for
// terminal detection.
func NewTheme(mode string) *Theme {
	isDark := termenv.HasDarkBackground()
	switch mode {
	case "dark":
		isDark = true
		lipgloss.SetHasDarkBackground(true)
	case "light":
		isDark = false
		lipgloss.SetHasDarkBackground(false)
	}

	t := &Theme{
		IsDark:       isDark,
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	// Launcher
	t.Launcher = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Forest).
		Padding(1, 3).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Sea)

	t.LauncherHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Panel
	t.Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Border)

	t.Header = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Forest).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Forest)

	t.HeaderHint = lipgloss.NewStyle().
		Foreground(Border).
		Background(Forest)

	// Model selector
	t.ModelBar = lipgloss.NewStyle().
		Foreground(TextMuted).
		Padding(0, 1)

	t.ModelName = lipgloss.NewStyle().
		Foreground(Sea).
		Bold(true)

	t.SelectorBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Sea).
		Padding(0, 1)

	t.SelectorGroup = lipgloss.NewStyle().
		Foreground(TextMuted).
		Bold(true)

	t.SelectorItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		PaddingLeft(2)

	t.SelectorSelected = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Sea).
		PaddingLeft(2)

	// Messages
	t.UserBubble = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Forest).
		Padding(0, 1)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Mint).
		Padding(0, 1)

	t.Attachment = lipgloss.NewStyle().
		Foreground(LinkColor).
		Underline(true)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted).
		Faint(true)

	t.Typing = lipgloss.NewStyle().
		Foreground(Sea).
		Italic(true)

	// Input
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Border).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Forest).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.InputDisabled = lipgloss.NewStyle().
		Foreground(TextMuted).
		Faint(true)

	// Status
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextMuted).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Sea).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Notice = lipgloss.NewStyle().
		Foreground(Amber)

	t.NoticeError = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// PanelSize returns the outer width and height of the open widget for the
// current terminal size. The panel is anchored bottom-right and never
// exceeds the terminal.
func (t *Theme) PanelSize() (int, int) {
	w, h := 64, 30
	if t.Width > 0 && t.Width-2 < w {
		w = t.Width - 2
	}
	if t.Height > 0 && t.Height-1 < h {
		h = t.Height - 1
	}
	if w < 20 {
		w = 20
	}
	if h < 10 {
		h = 10
	}
	return w, h
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // >= 100 columns
)
