// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/jeranaias/dva-tui/internal/ui/styles"
	"github.com/jeranaias/dva-tui/internal/util"
)

// NoticeLevel selects how a notice is styled.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeError
)

// StatusBar shows key hints, or a transient notice when one is set.
type StatusBar struct {
	width       int
	bindings    []key.Binding
	notice      string
	noticeLevel NoticeLevel
	theme       *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{theme: theme}
}

// SetWidth sets the rendered width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// SetBindings sets the key hints to display.
func (s *StatusBar) SetBindings(bindings []key.Binding) {
	s.bindings = bindings
}

// SetNotice shows text instead of the key hints until cleared.
func (s *StatusBar) SetNotice(text string, level NoticeLevel) {
	s.notice = text
	s.noticeLevel = level
}

// ClearNotice removes the notice.
func (s *StatusBar) ClearNotice() {
	s.notice = ""
}

// Notice returns the current notice.
func (s *StatusBar) Notice() string {
	return s.notice
}

// View renders the bar.
func (s *StatusBar) View() string {
	inner := s.width - s.theme.StatusBar.GetHorizontalFrameSize()
	if inner <= 0 {
		inner = 40
	}

	if s.notice != "" {
		style := s.theme.Notice
		if s.noticeLevel == NoticeError {
			style = s.theme.NoticeError
		}
		return s.theme.StatusBar.Render(style.Render(util.TruncateWidth(s.notice, inner)))
	}

	var parts []string
	used := 0
	for _, b := range s.bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		w := util.StringWidth(h.Key) + 1 + util.StringWidth(h.Desc)
		if used > 0 {
			w += 3
		}
		if used+w > inner {
			break
		}
		used += w
		parts = append(parts, s.theme.ShortcutKey.Render(h.Key)+" "+s.theme.ShortcutDesc.Render(h.Desc))
	}
	return s.theme.StatusBar.Render(strings.Join(parts, s.theme.ShortcutDesc.Render(" · ")))
}
