// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/dva-tui/internal/backend"
	"github.com/jeranaias/dva-tui/internal/config"
	"github.com/jeranaias/dva-tui/internal/model"
	"github.com/jeranaias/dva-tui/internal/widget"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// isolate points every config path at a temp directory and clears DVA_*
// overrides from the environment.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("DVA_HOME", home)
	for _, k := range []string{
		"DVA_BACKEND_URL", "VITE_BACKEND_URL", "DVA_BACKEND_TIMEOUT", "DVA_MODEL",
		"DVA_THEME", "DVA_LOG_LEVEL", "DVA_LOG_FORMAT", "DVA_LOG_FILE",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	config.ResetGlobalForTesting()
	t.Cleanup(config.ResetGlobalForTesting)
	return home
}

func execute(t *testing.T, stdin string, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCommand(BuildInfo{Version: "1.2.3", GitCommit: "abc123", BuildDate: "2025-01-01"})
	root.SetIn(strings.NewReader(stdin))
	code := run(context.Background(), root, args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func chatServer(t *testing.T, status int, body string) (*httptest.Server, *[]backend.ChatRequest) {
	t.Helper()
	var got []backend.ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req backend.ChatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		got = append(got, req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

type fakeCompleter struct {
	reply string
	err   error
	calls int
}

func (f *fakeCompleter) Send(_ context.Context, utterance, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if f.reply != "" {
		return f.reply, nil
	}
	return "echo: " + utterance, nil
}

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(&bytes.Buffer{})
	return logrus.NewEntry(l)
}

// =============================================================================
// EXIT CODES
// =============================================================================

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitGeneralError, ExitCode(errors.New("boom")))
	assert.Equal(t, ExitUsageError, ExitCode(usageError("bad %s", "input")))
	assert.Equal(t, ExitConfigError, ExitCode(configError(errors.New("broken"))))

	wrapped := &ExitError{Code: ExitGeneralError, Err: backend.ErrNoResponse, Silent: true}
	assert.True(t, errors.Is(wrapped, backend.ErrNoResponse))
	assert.True(t, isSilent(wrapped))
	assert.False(t, isSilent(errors.New("plain")))
}

// =============================================================================
// COMMANDS
// =============================================================================

func TestVersionCommand(t *testing.T) {
	isolate(t)
	out, _, code := execute(t, "", "version")

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "dva 1.2.3")
	assert.Contains(t, out, "abc123")
}

func TestModelsCommand(t *testing.T) {
	isolate(t)
	out, _, code := execute(t, "", "models")

	require.Equal(t, ExitSuccess, code)
	for _, want := range []string{"OpenAI", "Anthropic", "Google", "Perplexity", "gpt-4o", "* GPT-3.5 Turbo"} {
		assert.Contains(t, out, want)
	}

	out, _, code = execute(t, "", "models", "--json")
	require.Equal(t, ExitSuccess, code)
	var catalog []model.ModelInfo
	require.NoError(t, json.Unmarshal([]byte(out), &catalog))
	assert.Equal(t, model.Catalog, catalog)
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	isolate(t)
	_, stderr, code := execute(t, "", "--no-such-flag")

	assert.Equal(t, ExitUsageError, code)
	assert.Contains(t, stderr, "no-such-flag")
}

func TestConfigCommands(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "custom.toml")

	out, _, code := execute(t, "", "--config", path, "config", "path")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, path, strings.TrimSpace(out))

	_, _, code = execute(t, "", "--config", path, "config", "init")
	require.Equal(t, ExitSuccess, code)
	_, stderr, code := execute(t, "", "--config", path, "config", "init")
	assert.Equal(t, ExitUsageError, code)
	assert.Contains(t, stderr, "already exists")

	_, _, code = execute(t, "", "--config", path, "config", "set", "ui.theme", "light")
	require.Equal(t, ExitSuccess, code)
	_, _, code = execute(t, "", "--config", path, "config", "set", "backend.timeout_secs", "30")
	require.Equal(t, ExitSuccess, code)

	out, _, code = execute(t, "", "--config", path, "config", "get", "ui.theme")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "light", strings.TrimSpace(out))

	out, _, code = execute(t, "", "--config", path, "config", "show")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "timeout_secs = 30")

	_, _, code = execute(t, "", "--config", path, "config", "set", "chat.default_model", "not-a-model")
	assert.Equal(t, ExitUsageError, code)
	_, _, code = execute(t, "", "--config", path, "config", "get", "no.such")
	assert.Equal(t, ExitUsageError, code)

	out, _, code = execute(t, "", "config", "keys")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "chat.default_model")
}

func TestConfigSet_JSONFile(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ui": {"theme": "dark"}}`), 0o644))

	_, stderr, code := execute(t, "", "--config", path, "config", "set", "ui.theme", "light")
	require.Equal(t, ExitSuccess, code, stderr)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &raw), "file must stay JSON")
	assert.Equal(t, "light", raw["ui"]["theme"])

	out, _, code := execute(t, "", "--config", path, "config", "get", "ui.theme")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "light", strings.TrimSpace(out))
}

func TestConfigSet_KeepsDerivedDefaultsOut(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntheme = \"dark\"\n"), 0o644))

	_, _, code := execute(t, "", "--config", path, "config", "set", "ui.theme", "light")
	require.Equal(t, ExitSuccess, code)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `theme = "light"`)
	assert.NotContains(t, string(data), home, "the log path follows DVA_HOME and is not persisted")
}

func TestConfigEnvOverridesFile(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "config.toml")
	_, _, code := execute(t, "", "--config", path, "config", "set", "ui.theme", "light")
	require.Equal(t, ExitSuccess, code)

	t.Setenv("DVA_THEME", "dark")
	out, _, code := execute(t, "", "--config", path, "config", "get", "ui.theme")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "dark", strings.TrimSpace(out))
}

// =============================================================================
// ASK
// =============================================================================

func TestAskCommand_Success(t *testing.T) {
	isolate(t)
	srv, got := chatServer(t, http.StatusOK, `{"message":"Hello from the backend"}`)

	out, _, code := execute(t, "", "--backend", srv.URL, "--model", "gpt-4o", "ask", "hi", "there")

	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "Hello from the backend", strings.TrimSpace(out))
	require.Len(t, *got, 1)
	assert.Equal(t, "hi there", (*got)[0].Message)
	assert.Equal(t, "gpt-4o", (*got)[0].Model)
}

func TestAskCommand_Stdin(t *testing.T) {
	isolate(t)
	srv, got := chatServer(t, http.StatusOK, `{"message":"ok"}`)

	_, _, code := execute(t, "piped question\n", "--backend", srv.URL, "ask")

	require.Equal(t, ExitSuccess, code)
	require.Len(t, *got, 1)
	assert.Equal(t, "piped question", (*got)[0].Message)
}

func TestAskCommand_ServerError(t *testing.T) {
	isolate(t)
	srv, _ := chatServer(t, http.StatusInternalServerError, `oops`)

	out, stderr, code := execute(t, "", "--backend", srv.URL, "ask", "hi")

	assert.Equal(t, ExitGeneralError, code)
	assert.Equal(t, "Server error: 500", strings.TrimSpace(out))
	assert.Empty(t, stderr, "the error text is the output; nothing more is printed")
}

func TestAskCommand_UnknownModel(t *testing.T) {
	isolate(t)
	_, stderr, code := execute(t, "", "--model", "gpt4o", "ask", "hi")

	assert.Equal(t, ExitUsageError, code)
	assert.Contains(t, stderr, "unknown model")
	assert.Contains(t, stderr, "did you mean")
}

func TestAskCommand_JSONWithAttachment(t *testing.T) {
	home := isolate(t)
	srv, _ := chatServer(t, http.StatusOK, `{"message":"thanks"}`)
	notes := filepath.Join(home, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("remember the milk"), 0o644))

	out, _, code := execute(t, "", "--backend", srv.URL, "ask", "--json", "--attach", notes, "see attached")
	require.Equal(t, ExitSuccess, code)

	var msgs []model.Message
	require.NoError(t, json.Unmarshal([]byte(out), &msgs))
	require.Len(t, msgs, 3)
	assert.Equal(t, model.KindFile, msgs[0].Kind)
	assert.Equal(t, "notes.txt", msgs[0].Name)
	assert.Equal(t, model.AuthorUser, msgs[1].Author)
	assert.Equal(t, "see attached", msgs[1].Content)
	assert.Equal(t, "thanks", msgs[2].Content)
}

func TestAskCommand_NoQuestion(t *testing.T) {
	isolate(t)
	_, _, code := execute(t, "", "ask")
	assert.Equal(t, ExitUsageError, code)
}

// =============================================================================
// CHAT SESSION
// =============================================================================

func newTestSession(c widget.Completer) (*chatSession, *bytes.Buffer) {
	var out bytes.Buffer
	w := widget.New(widget.Options{})
	w.Open()
	return newChatSession(w, c, &out, quietLog()), &out
}

func TestChatSession_Exchange(t *testing.T) {
	fc := &fakeCompleter{}
	s, out := newTestSession(fc)

	quit := s.handle(context.Background(), "hello")

	assert.False(t, quit)
	assert.Equal(t, 1, fc.calls)
	assert.Contains(t, out.String(), "DVA is typing...")
	assert.Contains(t, out.String(), "echo: hello")
	assert.Equal(t, 3, s.widget.Len())
}

func TestChatSession_SendsLineAsTyped(t *testing.T) {
	fc := &fakeCompleter{}
	s, out := newTestSession(fc)

	s.handle(context.Background(), "  two  spaces ")

	require.Equal(t, 3, s.widget.Len())
	assert.Equal(t, "  two  spaces ", s.widget.Messages()[1].Content)
	assert.Contains(t, out.String(), "echo:   two  spaces ")
}

func TestChatSession_BlankLineIgnored(t *testing.T) {
	fc := &fakeCompleter{}
	s, out := newTestSession(fc)

	assert.False(t, s.handle(context.Background(), "   "))
	assert.Equal(t, 0, fc.calls)
	assert.Empty(t, out.String())
}

func TestChatSession_ErrorReply(t *testing.T) {
	s, out := newTestSession(&fakeCompleter{err: &backend.ServerError{Status: 503}})

	s.handle(context.Background(), "hello")
	assert.Contains(t, out.String(), "Server error: 503")
}

func TestChatSession_Commands(t *testing.T) {
	s, out := newTestSession(&fakeCompleter{})
	ctx := context.Background()

	s.handle(ctx, "/model gpt-4o")
	assert.Equal(t, "gpt-4o", s.widget.Model())
	assert.Contains(t, out.String(), "Model: GPT-4o")

	out.Reset()
	s.handle(ctx, "/model zzzz")
	assert.Equal(t, "gpt-4o", s.widget.Model())
	assert.Contains(t, out.String(), "unknown model")
	assert.Contains(t, out.String(), "see 'dva models'")

	out.Reset()
	s.handle(ctx, "/models")
	assert.Contains(t, out.String(), "* GPT-4o")

	s.handle(ctx, "hello")
	require.Equal(t, 3, s.widget.Len())
	out.Reset()
	s.handle(ctx, "/restart")
	assert.Equal(t, 1, s.widget.Len())
	assert.Contains(t, out.String(), "Conversation restarted.")

	out.Reset()
	s.handle(ctx, "/attach notes.txt")
	assert.Contains(t, out.String(), "attachments are disabled")

	out.Reset()
	s.handle(ctx, "/bogus")
	assert.Contains(t, out.String(), "unknown command /bogus")

	assert.True(t, s.handle(ctx, "/quit"))
}

func TestChatSession_Attach(t *testing.T) {
	s, out := newTestSession(&fakeCompleter{})
	s.attachEnabled = true
	path := filepath.Join(t.TempDir(), "todo.txt")
	require.NoError(t, os.WriteFile(path, []byte("buy milk"), 0o644))

	s.handle(context.Background(), "/attach "+path)

	assert.Contains(t, out.String(), "attached todo.txt")
	assert.Equal(t, 2, s.widget.Len())

	out.Reset()
	s.handle(context.Background(), "/attach "+filepath.Join(t.TempDir(), "missing.txt"))
	assert.Contains(t, out.String(), "Cannot attach")
}

func TestChatSession_Export(t *testing.T) {
	s, out := newTestSession(&fakeCompleter{})
	s.handle(context.Background(), "hello")

	path := filepath.Join(t.TempDir(), "chat.json")
	out.Reset()
	s.handle(context.Background(), "/export "+path)
	assert.Contains(t, out.String(), "saved transcript to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"content": "echo: hello"`)

	out.Reset()
	s.handle(context.Background(), "/export "+filepath.Join(t.TempDir(), "chat.html"))
	assert.Contains(t, out.String(), "Cannot export")
}

func TestChatSession_Download(t *testing.T) {
	s, out := newTestSession(&fakeCompleter{})
	s.attachEnabled = true

	s.handle(context.Background(), "/download")
	assert.Contains(t, out.String(), "no attachments")

	src := filepath.Join(t.TempDir(), "todo.txt")
	require.NoError(t, os.WriteFile(src, []byte("buy milk"), 0o644))
	s.handle(context.Background(), "/attach "+src)

	dst := filepath.Join(t.TempDir(), "copy.txt")
	out.Reset()
	s.handle(context.Background(), "/download "+dst)
	assert.Contains(t, out.String(), "saved "+dst)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "buy milk", string(data))
}

func TestCompleteCommand(t *testing.T) {
	assert.Equal(t, []string{"/model ", "/models"}, completeCommand("/mod"))
	assert.Equal(t, []string{"/export "}, completeCommand("/ex"))
	assert.Nil(t, completeCommand("hello"))
	assert.Empty(t, completeCommand("/zzz"))
}
