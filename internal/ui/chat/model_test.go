// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/dva-tui/internal/backend"
	"github.com/jeranaias/dva-tui/internal/model"
	"github.com/jeranaias/dva-tui/internal/widget"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type fakeCompleter struct {
	mu    sync.Mutex
	reply string
	err   error
	calls []widget.Request
}

func (f *fakeCompleter) Send(_ context.Context, utterance, modelID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, widget.Request{Utterance: utterance, Model: modelID})
	if f.err != nil {
		return "", f.err
	}
	if f.reply != "" {
		return f.reply, nil
	}
	return "reply to " + utterance, nil
}

func (f *fakeCompleter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestModel(t *testing.T, c widget.Completer, opts Options) Model {
	t.Helper()
	if opts.ThemeMode == "" {
		opts.ThemeMode = "dark"
	}
	opts.PlainText = true
	w := widget.New(widget.Options{Greeting: model.DefaultGreeting})
	m := New(w, c, opts)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

func press(t *testing.T, m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(k)
	return next.(Model), cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

// collect runs cmd and any batched commands, returning every message that
// arrives within a short window. Timers are left running.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(300 * time.Millisecond):
		return nil
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// deliver feeds every message of type T produced by cmd back into m.
func deliver[T tea.Msg](t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	found := false
	for _, msg := range collect(cmd) {
		if _, ok := msg.(T); ok {
			next, _ := m.Update(msg)
			m = next.(Model)
			found = true
		}
	}
	require.True(t, found, "expected a %T from the command", *new(T))
	return m
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyCtrlR = tea.KeyMsg{Type: tea.KeyCtrlR}
	keyCtrlT = tea.KeyMsg{Type: tea.KeyCtrlT}
	keyCtrlA = tea.KeyMsg{Type: tea.KeyCtrlA}
	keyCtrlY = tea.KeyMsg{Type: tea.KeyCtrlY}
	keyCtrlC = tea.KeyMsg{Type: tea.KeyCtrlC}
	keyCtrlS = tea.KeyMsg{Type: tea.KeyCtrlS}
)

// =============================================================================
// OPEN / CLOSE
// =============================================================================

func TestModel_StartsClosed(t *testing.T) {
	m := newTestModel(t, &fakeCompleter{}, Options{})

	assert.Equal(t, StateClosed, m.State())
	assert.False(t, m.Widget().IsOpen())
	assert.Equal(t, 0, m.Widget().Len(), "greeting waits for the first open")
	assert.Contains(t, m.View(), "Chat")
}

func TestModel_OpenGreetsOnce(t *testing.T) {
	m := newTestModel(t, &fakeCompleter{}, Options{})

	m, _ = press(t, m, keyEnter)
	require.Equal(t, StateChat, m.State())
	require.Equal(t, 1, m.Widget().Len())
	assert.True(t, m.Widget().Messages()[0].IsGreeting())

	m, _ = press(t, m, keyEsc)
	assert.Equal(t, StateClosed, m.State())
	assert.False(t, m.Widget().IsOpen())

	m, _ = press(t, m, keyEnter)
	assert.Equal(t, 1, m.Widget().Len(), "reopening must not greet again")
}

func TestModel_StartOpen(t *testing.T) {
	m := newTestModel(t, &fakeCompleter{}, Options{StartOpen: true, Title: "Test Title"})

	assert.Equal(t, StateChat, m.State())
	view := m.View()
	assert.Contains(t, view, "Test Title")
	assert.Contains(t, view, "GPT-3.5 Turbo")
	assert.Contains(t, view, "Ask me anything!")
}

// =============================================================================
// EXCHANGE
// =============================================================================

func TestModel_SubmitAndReply(t *testing.T) {
	fc := &fakeCompleter{}
	m := newTestModel(t, fc, Options{StartOpen: true})

	m = typeText(t, m, "hello")
	assert.Equal(t, "hello", m.InputValue())

	m, cmd := press(t, m, keyEnter)
	require.NotNil(t, cmd)
	assert.Equal(t, "", m.InputValue(), "input clears on submit")
	assert.True(t, m.Widget().Loading())
	assert.Equal(t, 2, m.Widget().Len())
	assert.Contains(t, m.View(), "DVA is typing...")

	m = deliver[CompletionMsg](t, m, cmd)

	assert.False(t, m.Widget().Loading())
	require.Equal(t, 3, m.Widget().Len())
	last, ok := m.Widget().LastReply()
	require.True(t, ok)
	assert.Equal(t, "reply to hello", last.Content)
	assert.NotContains(t, m.View(), "is typing")

	require.Equal(t, 1, fc.count())
	assert.Equal(t, model.DefaultModelID, fc.calls[0].Model)
}

func TestModel_BlankInputIgnored(t *testing.T) {
	fc := &fakeCompleter{}
	m := newTestModel(t, fc, Options{StartOpen: true})

	m = typeText(t, m, "   ")
	m, cmd := press(t, m, keyEnter)

	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.Widget().Len())
	assert.False(t, m.Widget().Loading())
	assert.Equal(t, 0, fc.count())
}

func TestModel_SubmitWhileLoadingIgnored(t *testing.T) {
	fc := &fakeCompleter{}
	m := newTestModel(t, fc, Options{StartOpen: true})

	m = typeText(t, m, "first")
	m, cmd := press(t, m, keyEnter)
	require.NotNil(t, cmd)

	m = typeText(t, m, "second")
	m, second := press(t, m, keyEnter)
	assert.Nil(t, second)
	assert.Equal(t, "second", m.InputValue(), "typing is kept while a reply is pending")
	assert.Equal(t, 2, m.Widget().Len())

	m = deliver[CompletionMsg](t, m, cmd)
	assert.Equal(t, 3, m.Widget().Len())
	assert.Equal(t, 1, fc.count())
}

func TestModel_ErrorReplies(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server", &backend.ServerError{Status: 500}, "Server error: 500"},
		{"no response", backend.ErrNoResponse, widget.NoResponseText},
		{"unknown", errors.New("boom"), widget.UnknownErrorText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, &fakeCompleter{err: tt.err}, Options{StartOpen: true})
			m = typeText(t, m, "hi")
			m, cmd := press(t, m, keyEnter)
			m = deliver[CompletionMsg](t, m, cmd)

			last, ok := m.Widget().LastReply()
			require.True(t, ok)
			assert.Equal(t, tt.want, last.Content)
			assert.False(t, m.Widget().Loading())
		})
	}
}

func TestModel_RestartDiscardsPendingReply(t *testing.T) {
	m := newTestModel(t, &fakeCompleter{}, Options{StartOpen: true})

	m = typeText(t, m, "hello")
	m, cmd := press(t, m, keyEnter)
	require.NotNil(t, cmd)

	m, _ = press(t, m, keyCtrlR)
	assert.Equal(t, 1, m.Widget().Len())
	assert.True(t, m.Widget().Loading(), "the first request is still on the wire")
	assert.Equal(t, "Conversation restarted", m.Notice())

	m = deliver[CompletionMsg](t, m, cmd)
	require.Equal(t, 1, m.Widget().Len(), "stale reply must be dropped")
	assert.True(t, m.Widget().Messages()[0].IsGreeting())
	assert.False(t, m.Widget().Loading())
}

func TestModel_SubmitAfterRestartWaitsForReply(t *testing.T) {
	fc := &fakeCompleter{}
	m := newTestModel(t, fc, Options{StartOpen: true})

	m = typeText(t, m, "first")
	m, first := press(t, m, keyEnter)
	require.NotNil(t, first)

	m, _ = press(t, m, keyCtrlR)
	m = typeText(t, m, "second")
	m, cmd := press(t, m, keyEnter)
	assert.Nil(t, cmd, "no second request while one is outstanding")
	assert.Equal(t, "second", m.InputValue())

	m = deliver[CompletionMsg](t, m, first)
	require.Equal(t, 1, m.Widget().Len())
	require.False(t, m.Widget().Loading())

	m, cmd = press(t, m, keyEnter)
	m = deliver[CompletionMsg](t, m, cmd)
	require.Equal(t, 3, m.Widget().Len())
	assert.Equal(t, "reply to second", m.Widget().Messages()[2].Content)
	assert.Equal(t, 2, fc.count())
}

// =============================================================================
// MODEL SELECTION
// =============================================================================

func TestModel_SelectModel(t *testing.T) {
	fc := &fakeCompleter{}
	m := newTestModel(t, fc, Options{StartOpen: true})

	m, _ = press(t, m, keyCtrlT)
	require.Equal(t, StateSelectingModel, m.State())
	assert.Contains(t, m.View(), "OpenAI")

	m, _ = press(t, m, keyDown)
	m, _ = press(t, m, keyEnter)

	assert.Equal(t, StateChat, m.State())
	assert.Equal(t, model.Catalog[1].ID, m.Widget().Model())
	assert.Contains(t, m.Notice(), model.Catalog[1].Name)

	m = typeText(t, m, "hi")
	m, cmd := press(t, m, keyEnter)
	deliver[CompletionMsg](t, m, cmd)
	require.Equal(t, 1, fc.count())
	assert.Equal(t, model.Catalog[1].ID, fc.calls[0].Model)
}

func TestModel_SelectModelCancel(t *testing.T) {
	m := newTestModel(t, &fakeCompleter{}, Options{StartOpen: true})

	m, _ = press(t, m, keyCtrlT)
	m, _ = press(t, m, keyDown)
	m, _ = press(t, m, keyEsc)

	assert.Equal(t, StateChat, m.State())
	assert.Equal(t, model.DefaultModelID, m.Widget().Model())
	assert.True(t, m.Widget().IsOpen(), "esc in the list must not minimize")
}

func TestModel_SelectModelByTyping(t *testing.T) {
	m := newTestModel(t, &fakeCompleter{}, Options{StartOpen: true})

	m, _ = press(t, m, keyCtrlT)
	m = typeText(t, m, "opux")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	m = typeText(t, m, "s")
	assert.Contains(t, m.View(), "/ opus")

	m, _ = press(t, m, keyEnter)
	assert.Equal(t, StateChat, m.State())
	assert.Equal(t, "claude-3-opus-20240229", m.Widget().Model())
}

func TestModel_SelectModelNoMatch(t *testing.T) {
	m := newTestModel(t, &fakeCompleter{}, Options{StartOpen: true})

	m, _ = press(t, m, keyCtrlT)
	m = typeText(t, m, "zzzz")
	m, _ = press(t, m, keyEnter)

	assert.Equal(t, StateSelectingModel, m.State(), "enter with no match stays in the list")
	assert.Equal(t, model.DefaultModelID, m.Widget().Model())
}

// =============================================================================
// ATTACHMENTS
// =============================================================================

func TestModel_AttachDisabled(t *testing.T) {
	m := newTestModel(t, &fakeCompleter{}, Options{StartOpen: true})

	m, cmd := press(t, m, keyCtrlA)
	assert.Nil(t, cmd)
	assert.Equal(t, StateChat, m.State())
}

func TestModel_AttachFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("some notes"), 0o644))

	m := newTestModel(t, &fakeCompleter{}, Options{StartOpen: true, AttachmentsEnabled: true})

	m, _ = press(t, m, keyCtrlA)
	require.Equal(t, StateAttaching, m.State())

	m = typeText(t, m, path)
	m, cmd := press(t, m, keyEnter)
	assert.Equal(t, StateChat, m.State())

	m = deliver[AttachmentMsg](t, m, cmd)
	require.Equal(t, 2, m.Widget().Len())
	msg := m.Widget().Messages()[1]
	assert.Equal(t, model.KindFile, msg.Kind)
	assert.True(t, msg.IsUser())
	assert.True(t, strings.HasPrefix(msg.Content, "data:text/plain"))
	assert.Contains(t, m.View(), "notes.txt")
}

func TestModel_AttachRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tool.exe")
	require.NoError(t, os.WriteFile(path, []byte("MZ"), 0o644))

	m := newTestModel(t, &fakeCompleter{}, Options{StartOpen: true, AttachmentsEnabled: true})
	m, _ = press(t, m, keyCtrlA)
	m = typeText(t, m, path)
	m, cmd := press(t, m, keyEnter)

	m = deliver[AttachmentMsg](t, m, cmd)
	assert.Equal(t, 1, m.Widget().Len())
	assert.Contains(t, m.Notice(), "Cannot attach")
}

// =============================================================================
// CLIPBOARD AND QUIT
// =============================================================================

func TestModel_CopyLastReply(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { writeClipboard = orig })

	m := newTestModel(t, &fakeCompleter{reply: "copy me"}, Options{StartOpen: true})
	m = typeText(t, m, "hi")
	m, cmd := press(t, m, keyEnter)
	m = deliver[CompletionMsg](t, m, cmd)

	m, cmd = press(t, m, keyCtrlY)
	m = deliver[ClipboardMsg](t, m, cmd)

	assert.Equal(t, "copy me", copied)
	assert.Equal(t, "Copied reply to clipboard", m.Notice())
}

func TestModel_CopyFailure(t *testing.T) {
	orig := writeClipboard
	writeClipboard = func(string) error { return errors.New("no clipboard") }
	t.Cleanup(func() { writeClipboard = orig })

	m := newTestModel(t, &fakeCompleter{}, Options{StartOpen: true})
	m, cmd := press(t, m, keyCtrlY)
	m = deliver[ClipboardMsg](t, m, cmd)

	assert.Contains(t, m.Notice(), "no clipboard")
}

func TestModel_ExportTranscript(t *testing.T) {
	dir := t.TempDir()
	m := newTestModel(t, &fakeCompleter{reply: "saved reply"}, Options{StartOpen: true, ExportDir: dir})
	m = typeText(t, m, "keep this")
	m, cmd := press(t, m, keyEnter)
	m = deliver[CompletionMsg](t, m, cmd)

	m, cmd = press(t, m, keyCtrlS)
	m = deliver[ExportMsg](t, m, cmd)

	require.True(t, strings.HasPrefix(m.Notice(), "Saved transcript to "), m.Notice())
	path := strings.TrimPrefix(m.Notice(), "Saved transcript to ")
	assert.Equal(t, dir, filepath.Dir(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "### You")
	assert.Contains(t, string(data), "keep this")
	assert.Contains(t, string(data), "saved reply")
}

func TestModel_NoticeClears(t *testing.T) {
	m := newTestModel(t, &fakeCompleter{}, Options{StartOpen: true})
	m, _ = press(t, m, keyCtrlR)
	require.NotEmpty(t, m.Notice())

	next, _ := m.Update(clearNoticeMsg{seq: m.noticeSeq - 1})
	m = next.(Model)
	assert.NotEmpty(t, m.Notice(), "an older timer must not clear a newer notice")

	next, _ = m.Update(clearNoticeMsg{seq: m.noticeSeq})
	m = next.(Model)
	assert.Empty(t, m.Notice())
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, &fakeCompleter{}, Options{})

	m, cmd := press(t, m, keyCtrlC)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Error(t, m.ctx.Err(), "quitting cancels in-flight requests")
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "chat", StateChat.String())
	assert.Equal(t, "selecting-model", StateSelectingModel.String())
	assert.Equal(t, "attaching", StateAttaching.String())
	assert.Equal(t, "unknown", State(42).String())
}
