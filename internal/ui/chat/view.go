// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/dva-tui/internal/util"
)

// renderPanel draws the open widget anchored to the bottom-right corner.
func (m Model) renderPanel() string {
	pw, _ := m.theme.PanelSize()
	inner := pw - m.theme.Panel.GetHorizontalFrameSize()

	sections := []string{
		m.renderHeader(inner),
		m.renderModelBar(inner),
	}

	if m.state == StateSelectingModel && m.selector != nil {
		sections = append(sections, m.fitHeight(m.selector.View(), m.viewport.Height))
	} else {
		sections = append(sections, m.viewport.View())
	}

	sections = append(sections,
		m.renderTyping(inner),
		m.renderInput(inner),
		m.statusBar.View(),
	)

	panel := m.theme.Panel.Width(inner).Render(strings.Join(sections, "\n"))
	if m.width <= 0 || m.height <= 0 {
		return panel
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Right, lipgloss.Bottom, panel)
}

func (m Model) renderHeader(width int) string {
	hint := m.theme.HeaderHint.Render("esc")
	room := width - m.theme.Header.GetHorizontalFrameSize() - lipgloss.Width(hint) - 1
	title := m.theme.HeaderTitle.Render(util.TruncateWidth(m.title, room))
	gap := room - lipgloss.Width(title)
	if gap < 0 {
		gap = 0
	}
	line := title + m.theme.HeaderTitle.Render(strings.Repeat(" ", gap+1)) + hint
	return m.theme.Header.Width(width).Render(line)
}

func (m Model) renderModelBar(width int) string {
	info := m.widget.ModelInfo()
	text := "Model: " + m.theme.ModelName.Render(info.Name)
	return m.theme.ModelBar.Width(width).Render(text)
}

func (m Model) renderTyping(width int) string {
	if !m.widget.Loading() {
		return ""
	}
	text := util.TruncateWidth(m.widget.TypingText(), width-4)
	return m.theme.Typing.Render(text + " " + m.spinner.View())
}

func (m Model) renderInput(width int) string {
	box := m.theme.InputContainer.Width(width)
	if m.state == StateAttaching {
		return box.Render(m.attach.View())
	}
	return box.Render(m.input.View())
}

// fitHeight pads or clips s to exactly height lines.
func (m Model) fitHeight(s string, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
