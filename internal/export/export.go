// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/dva-tui/internal/config"
	"github.com/jeranaias/dva-tui/internal/model"
	"github.com/jeranaias/dva-tui/internal/util"
)

// ErrEmpty is returned when there is nothing to export.
var ErrEmpty = errors.New("conversation has no messages")

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript is a snapshot of a conversation for export.
type Transcript struct {
	Title      string          `json:"title"`
	Model      string          `json:"model"`
	ExportedAt time.Time       `json:"exported_at"`
	Messages   []model.Message `json:"messages"`
}

// NewTranscript snapshots msgs.
func NewTranscript(title, modelID string, msgs []model.Message) Transcript {
	cp := make([]model.Message, len(msgs))
	copy(cp, msgs)
	return Transcript{
		Title:      title,
		Model:      modelID,
		ExportedAt: time.Now(),
		Messages:   cp,
	}
}

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter converts a transcript to one file format.
type Exporter interface {
	Export(t Transcript) ([]byte, error)

	// FileExtension returns the extension including the dot.
	FileExtension() string
}

// Options configures export behavior.
type Options struct {
	// OutputDir is where files are written. Default: ~/.dva/transcripts
	OutputDir string

	// IncludeTimestamps adds per-message times.
	IncludeTimestamps bool
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	dir := "transcripts"
	if base, err := config.ConfigDir(); err == nil {
		dir = filepath.Join(base, "transcripts")
	}
	return &Options{
		OutputDir:         dir,
		IncludeTimestamps: true,
	}
}

// ForFormat returns the exporter for "markdown"/"md" or "json".
func ForFormat(format string, opts *Options) (Exporter, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "markdown", "md", "":
		return NewMarkdownExporter(opts), nil
	case "json":
		return NewJSONExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ToFile exports t into opts.OutputDir under a generated name and returns
// the path written.
func ToFile(t Transcript, exp Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	name := fmt.Sprintf("dva_%s_%s%s",
		sanitizeFilename(t.Title),
		t.ExportedAt.Format("20060102_150405"),
		exp.FileExtension(),
	)
	path := filepath.Join(opts.OutputDir, name)
	return path, ToPath(t, exp, path)
}

// ToPath exports t to exactly path.
func ToPath(t Transcript, exp Exporter, path string) error {
	content, err := exp.Export(t)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if err := util.AtomicWriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// sanitizeFilename makes s safe as a file name component.
func sanitizeFilename(s string) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) > 40 {
		runes = runes[:40]
	}

	out := make([]rune, 0, len(runes))
	for _, r := range runes {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			out = append(out, '-')
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\'':
			out = append(out, '_')
		case r < 32 || r == 127:
			out = append(out, '-')
		default:
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return "conversation"
	}
	return string(out)
}
