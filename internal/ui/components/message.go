// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/dva-tui/internal/model"
	"github.com/jeranaias/dva-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one conversation message. User messages sit on the
// right, assistant messages on the left.
type MessageBubble struct {
	Message       model.Message
	Width         int
	ShowTimestamp bool
	AssistantName string
	theme         *styles.Theme
	markdown      *MarkdownRenderer
}

// NewMessageBubble creates a bubble for msg.
func NewMessageBubble(msg model.Message, theme *styles.Theme, md *MarkdownRenderer) *MessageBubble {
	return &MessageBubble{
		Message:       msg,
		Width:         60,
		ShowTimestamp: true,
		AssistantName: "DVA",
		theme:         theme,
		markdown:      md,
	}
}

// View renders the bubble at b.Width columns.
func (b *MessageBubble) View() string {
	if b.Message.IsUser() {
		return b.renderUser()
	}
	return b.renderAssistant()
}

// maxBubbleWidth leaves a gutter on the opposite side so the two authors
// remain visually distinct.
func (b *MessageBubble) maxBubbleWidth() int {
	w := b.Width * 4 / 5
	if w < 12 {
		w = 12
	}
	return w
}

func (b *MessageBubble) renderUser() string {
	body := b.body()
	maxW := b.maxBubbleWidth()

	style := b.theme.UserBubble
	if lipgloss.Width(body)+style.GetHorizontalFrameSize() > maxW {
		style = style.Width(maxW)
	}
	bubble := style.Render(body)

	label := "You"
	if b.ShowTimestamp {
		label += " " + b.theme.Timestamp.Render(b.Message.FormattedTime())
	}

	block := lipgloss.JoinVertical(lipgloss.Right, b.theme.Timestamp.Render(label), bubble)
	return lipgloss.PlaceHorizontal(b.Width, lipgloss.Right, block)
}

func (b *MessageBubble) renderAssistant() string {
	maxW := b.maxBubbleWidth()
	frame := b.theme.AssistantBubble.GetHorizontalFrameSize()

	var body string
	if b.Message.Kind == model.KindText && b.markdown != nil {
		body = b.markdown.Render(b.Message.Content, maxW-frame)
	} else {
		body = b.body()
	}

	style := b.theme.AssistantBubble
	if lipgloss.Width(body)+frame > maxW {
		style = style.Width(maxW)
	}
	bubble := style.Render(body)

	label := b.AssistantName
	if b.ShowTimestamp {
		label += " " + b.theme.Timestamp.Render(b.Message.FormattedTime())
	}

	return lipgloss.JoinVertical(lipgloss.Left, b.theme.Timestamp.Render(label), bubble)
}

// body returns the displayable content. Attachments show a labelled
// reference instead of their data payload.
func (b *MessageBubble) body() string {
	msg := b.Message
	switch msg.Kind {
	case model.KindImage:
		return b.theme.Attachment.Render("🖼  " + attachmentName(msg))
	case model.KindAudio:
		return b.theme.Attachment.Render("♪ " + attachmentName(msg))
	case model.KindFile:
		return b.theme.Attachment.Render("📄 " + attachmentName(msg) + " (download)")
	}
	if strings.TrimSpace(msg.Content) == "" {
		return "..."
	}
	return msg.Content
}

func attachmentName(msg model.Message) string {
	if msg.Name != "" {
		return msg.Name
	}
	return msg.Kind.String()
}

// RenderConversation renders all messages separated by blank lines.
func RenderConversation(msgs []model.Message, width int, assistantName string, theme *styles.Theme, md *MarkdownRenderer) string {
	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		b := NewMessageBubble(msg, theme, md)
		b.Width = width
		if assistantName != "" {
			b.AssistantName = assistantName
		}
		parts = append(parts, b.View())
	}
	return strings.Join(parts, "\n\n")
}
