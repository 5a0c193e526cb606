// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/jeranaias/dva-tui/internal/backend"
	"github.com/jeranaias/dva-tui/internal/model"
)

// isolate points the config directory at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DVA_HOME", dir)
	for _, k := range []string{
		"DVA_BACKEND_URL", "VITE_BACKEND_URL", "DVA_BACKEND_TIMEOUT", "DVA_MODEL",
		"DVA_GREETING", "DVA_ASSISTANT_NAME", "DVA_TITLE", "DVA_THEME",
		"DVA_ATTACHMENTS", "DVA_START_OPEN", "DVA_PLAIN_TEXT",
		"DVA_LOG_LEVEL", "DVA_LOG_FORMAT", "DVA_LOG_FILE",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend.BaseURL != backend.DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.Backend.BaseURL, backend.DefaultBaseURL)
	}
	if cfg.Chat.DefaultModel != model.DefaultModelID {
		t.Errorf("DefaultModel = %q", cfg.Chat.DefaultModel)
	}
	if cfg.Chat.Greeting != model.DefaultGreeting {
		t.Errorf("Greeting = %q", cfg.Chat.Greeting)
	}
	if cfg.UI.AttachmentsEnabled {
		t.Error("attachments should be disabled by default")
	}
	if cfg.Log.File != filepath.Join(dir, "dva.log") {
		t.Errorf("Log.File = %q", cfg.Log.File)
	}
	if cfg.Backend.Timeout() != 0 {
		t.Errorf("Timeout() = %v, want 0", cfg.Backend.Timeout())
	}
}

func TestLoadFromPath_TOML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	content := `
[backend]
base_url = "http://localhost:5000/"
timeout_secs = 30

[chat]
default_model = "gpt-4o"

[ui]
theme = "dark"
attachments_enabled = true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.Backend.BaseURL != "http://localhost:5000" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", cfg.Backend.BaseURL)
	}
	if cfg.Backend.TimeoutSecs != 30 || cfg.Chat.DefaultModel != "gpt-4o" || cfg.UI.Theme != "dark" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if !cfg.UI.AttachmentsEnabled {
		t.Error("attachments_enabled not loaded")
	}
	if cfg.Chat.AssistantName != "DVA" {
		t.Errorf("missing values should be defaulted, AssistantName = %q", cfg.Chat.AssistantName)
	}
}

func TestLoadFromPath_JSON(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"chat":{"default_model":"gemini-1.5-pro"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Chat.DefaultModel != "gemini-1.5-pro" {
		t.Errorf("DefaultModel = %q", cfg.Chat.DefaultModel)
	}
}

func TestLoadFromPath_Invalid(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[chat]\ndefault_model = \"gpt-99\"\n[ui]\ntheme = \"neon\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var verrs ValidateErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("error %v is not ValidateErrors", err)
	}
	if len(verrs) != 2 {
		t.Errorf("got %d validation errors, want 2: %v", len(verrs), verrs)
	}

	if err := os.WriteFile(path, []byte("not = [valid"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromPath(path); err == nil {
		t.Error("expected decode error")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	isolate(t)

	t.Setenv("VITE_BACKEND_URL", "http://vite.example")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend.BaseURL != "http://vite.example" {
		t.Errorf("VITE_BACKEND_URL alias not applied: %q", cfg.Backend.BaseURL)
	}

	t.Setenv("DVA_BACKEND_URL", "https://dva.example")
	t.Setenv("DVA_MODEL", "claude-3-haiku-20240307")
	t.Setenv("DVA_ATTACHMENTS", "true")
	t.Setenv("DVA_BACKEND_TIMEOUT", "15")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend.BaseURL != "https://dva.example" {
		t.Errorf("DVA_BACKEND_URL should win over alias: %q", cfg.Backend.BaseURL)
	}
	if cfg.Chat.DefaultModel != "claude-3-haiku-20240307" || !cfg.UI.AttachmentsEnabled || cfg.Backend.TimeoutSecs != 15 {
		t.Errorf("env overrides not applied: %+v", cfg)
	}

	t.Setenv("DVA_BACKEND_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Error("expected error for malformed DVA_BACKEND_TIMEOUT")
	}
}

func TestLoadDotEnv(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("DVA_MODEL=gpt-4-turbo\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("DVA_MODEL") })

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Chat.DefaultModel != "gpt-4-turbo" {
		t.Errorf("DefaultModel = %q, want value from .env", cfg.Chat.DefaultModel)
	}

	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing env file should be ignored, got %v", err)
	}
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	dir := isolate(t)
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	cfg.UI.Theme = "light"
	cfg.Chat.DefaultModel = "gpt-4"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# dva configuration file") {
		t.Error("saved file is missing its header")
	}

	loaded, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.UI.Theme != "light" || loaded.Chat.DefaultModel != "gpt-4" {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestDecodeFile_SaveFile(t *testing.T) {
	dir := isolate(t)

	for _, name := range []string{"config.toml", "config.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			cfg := Default()
			cfg.UI.Theme = "light"
			if err := SaveFile(cfg, path); err != nil {
				t.Fatalf("SaveFile() error = %v", err)
			}

			decoded := Default()
			if err := DecodeFile(decoded, path); err != nil {
				t.Fatalf("DecodeFile() error = %v", err)
			}
			if decoded.UI.Theme != "light" {
				t.Errorf("theme = %q, want light", decoded.UI.Theme)
			}
			if decoded.Log.File != "" {
				t.Errorf("DecodeFile filled the log path: %q", decoded.Log.File)
			}

			loaded, err := LoadFromPath(path)
			if err != nil {
				t.Fatalf("LoadFromPath() error = %v", err)
			}
			if loaded.UI.Theme != "light" || loaded.Log.File == "" {
				t.Errorf("LoadFromPath() = %+v", loaded.UI)
			}
		})
	}
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	v, err := cfg.Get("chat.default_model")
	if err != nil || v != model.DefaultModelID {
		t.Errorf("Get(chat.default_model) = %v, %v", v, err)
	}

	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{"ui.theme", "dark", false},
		{"ui.attachments_enabled", "true", false},
		{"backend.timeout_secs", "20", false},
		{"backend.timeout_secs", "abc", true},
		{"ui.start_open", "maybe", true},
		{"ui", "x", true},
		{"nope.key", "x", true},
		{"", "x", true},
	}
	for _, tc := range tests {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			err := cfg.Set(tc.key, tc.value)
			if (err != nil) != tc.wantErr {
				t.Errorf("Set(%q, %q) error = %v, wantErr %v", tc.key, tc.value, err, tc.wantErr)
			}
		})
	}

	if cfg.UI.Theme != "dark" || !cfg.UI.AttachmentsEnabled || cfg.Backend.TimeoutSecs != 20 {
		t.Errorf("Set did not apply: %+v", cfg)
	}
}

func TestKeys(t *testing.T) {
	keys := Keys()
	want := []string{"backend.base_url", "chat.default_model", "ui.attachments_enabled", "log.file"}
	joined := strings.Join(keys, ",")
	for _, k := range want {
		if !strings.Contains(joined, k) {
			t.Errorf("Keys() missing %q", k)
		}
	}
	cfg := Default()
	for _, k := range keys {
		if _, err := cfg.Get(k); err != nil {
			t.Errorf("Get(%q) error = %v", k, err)
		}
	}
}

func TestString(t *testing.T) {
	s := Default().String()
	if !strings.Contains(s, "[backend]") || !strings.Contains(s, "base_url") {
		t.Errorf("String() = %q", s)
	}
}

// TestConfig_ConcurrentAccess tests that Global() and SetGlobal() can be
// safely called concurrently.
func TestConfig_ConcurrentAccess(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetGlobal(Default())
		}()
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}
