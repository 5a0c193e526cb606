// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/jeranaias/dva-tui/internal/attachment"
	"github.com/jeranaias/dva-tui/internal/ui/components"
	"github.com/jeranaias/dva-tui/internal/widget"
)

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.log.WithFields(m.logFields()).WithField("key", msg.String()).Trace("key")

	if key.Matches(msg, m.keys.Quit) {
		m.cancel()
		return m, tea.Quit
	}

	switch m.state {
	case StateClosed:
		if key.Matches(msg, m.keys.Open) {
			m.open()
			return m, textinput.Blink
		}
		return m, nil
	case StateSelectingModel:
		return m.handleSelectorKey(msg)
	case StateAttaching:
		return m.handleAttachKey(msg)
	}
	return m.handleChatKey(msg)
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Minimize):
		m.widget.Close()
		m.state = StateClosed
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Restart):
		m.widget.Restart()
		m.input.Reset()
		m.updateViewport()
		return m.notify("Conversation restarted", components.NoticeInfo)

	case key.Matches(msg, m.keys.SelectModel):
		m.selector = components.NewModelSelector(m.widget.Model(), m.theme)
		m.selector.SetWidth(m.viewport.Width)
		m.selector.SetHeight(m.viewport.Height)
		m.state = StateSelectingModel
		m.statusBar.SetBindings(m.keys.SelectorHelp())
		return m, nil

	case key.Matches(msg, m.keys.Attach):
		if !m.attachEnabled {
			return m, nil
		}
		m.state = StateAttaching
		m.input.Blur()
		m.attach.Reset()
		m.attach.Focus()
		m.statusBar.SetBindings(m.keys.AttachHelp())
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Copy):
		reply, ok := m.widget.LastReply()
		if !ok {
			return m, nil
		}
		return m, copyCmd(reply.Content)

	case key.Matches(msg, m.keys.Export):
		return m, exportCmd(m.title, m.widget, m.exportDir)

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	// Typing stays possible while a reply is pending.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleSelectorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.selector.Up()
	case key.Matches(msg, m.keys.Down):
		m.selector.Down()
	case key.Matches(msg, m.keys.Confirm):
		chosen, ok := m.selector.Selected()
		if !ok {
			return m, nil
		}
		m.leaveOverlay()
		if err := m.widget.SelectModel(chosen.ID); err != nil {
			return m.notify(err.Error(), components.NoticeError)
		}
		m.log.WithField("model", chosen.ID).Info("model selected")
		return m.notify("Model: "+chosen.Name, components.NoticeInfo)
	case key.Matches(msg, m.keys.Back):
		m.leaveOverlay()
	case msg.Type == tea.KeyBackspace:
		if f := []rune(m.selector.Filter()); len(f) > 0 {
			m.selector.SetFilter(string(f[:len(f)-1]))
		}
	case msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace:
		m.selector.SetFilter(m.selector.Filter() + string(msg.Runes))
	}
	return m, nil
}

func (m Model) handleAttachKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		path := m.attach.Value()
		m.leaveOverlay()
		if path == "" {
			return m, nil
		}
		return m, ingestCmd(path)
	case key.Matches(msg, m.keys.Back):
		m.leaveOverlay()
		return m, nil
	}

	var cmd tea.Cmd
	m.attach, cmd = m.attach.Update(msg)
	return m, cmd
}

// =============================================================================
// ACTIONS
// =============================================================================

// open shows the panel and greets on first open.
func (m *Model) open() {
	m.widget.Open()
	m.state = StateChat
	m.input.Focus()
	m.layout()
	m.updateViewport()
}

// leaveOverlay returns from the selector or attach prompt to the chat.
func (m *Model) leaveOverlay() {
	m.state = StateChat
	m.selector = nil
	m.attach.Blur()
	m.input.Focus()
	m.statusBar.SetBindings(m.keys.ChatHelp())
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	m.widget.SetInput(m.input.Value())
	req, err := m.widget.Submit()
	switch {
	case errors.Is(err, widget.ErrEmptyInput), errors.Is(err, widget.ErrBusy):
		return m, nil
	case err != nil:
		return m.notify(err.Error(), components.NoticeError)
	}

	m.input.Reset()
	m.updateViewport()
	return m, tea.Batch(m.spinner.Tick, sendCmd(m.ctx, m.client, req))
}

// notify shows a transient status notice.
func (m Model) notify(text string, level components.NoticeLevel) (tea.Model, tea.Cmd) {
	m.noticeSeq++
	m.statusBar.SetNotice(text, level)
	seq := m.noticeSeq
	return m, tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}

// =============================================================================
// ASYNC RESULTS
// =============================================================================

func (m Model) handleCompletion(msg CompletionMsg) (tea.Model, tea.Cmd) {
	if _, err := m.widget.ResolveRequest(msg.Request, msg.Reply, msg.Err); err != nil {
		m.log.WithField("seq", msg.Request.Seq).Debug("ignoring reply for a finished request")
		return m, nil
	}
	m.updateViewport()
	return m, nil
}

func (m Model) handleAttachment(msg AttachmentMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.log.WithError(msg.Err).WithField("path", msg.Path).Warn("attachment rejected")
		return m.notify("Cannot attach: "+msg.Err.Error(), components.NoticeError)
	}
	if err := m.widget.Attach(msg.Message); err != nil {
		return m.notify("Cannot attach: "+err.Error(), components.NoticeError)
	}
	m.updateViewport()
	return m, nil
}

// =============================================================================
// COMMANDS
// =============================================================================

// sendCmd performs the completion call off the update loop.
func sendCmd(ctx context.Context, c widget.Completer, req widget.Request) tea.Cmd {
	return func() tea.Msg {
		reply, err := c.Send(ctx, req.Utterance, req.Model)
		return CompletionMsg{Request: req, Reply: reply, Err: err}
	}
}

// ingestCmd reads and encodes a file off the update loop.
func ingestCmd(path string) tea.Cmd {
	return func() tea.Msg {
		msg, err := attachment.IngestFile(path)
		return AttachmentMsg{Path: path, Message: msg, Err: err}
	}
}

// logFields describes the model for trace logging.
func (m Model) logFields() logrus.Fields {
	return logrus.Fields{
		"state": m.state.String(),
		"phase": m.widget.Phase().String(),
		"model": m.widget.Model(),
	}
}
