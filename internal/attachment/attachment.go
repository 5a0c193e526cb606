// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package attachment turns user-selected files into conversation messages.
//
// Images and audio become inline base64 data references that the view can
// render or play. Everything else is read as text and becomes a downloadable
// data reference. Classification uses the declared media type only; file
// contents are never sniffed.
package attachment

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/jeranaias/dva-tui/internal/model"
	"github.com/jeranaias/dva-tui/internal/util"
)

// DefaultMediaType is used when no media type can be determined.
const DefaultMediaType = "application/octet-stream"

var (
	// ErrNotAccepted indicates the file is outside the accepted set.
	ErrNotAccepted = errors.New("file type not accepted")

	// ErrIsDirectory indicates a directory was given instead of a file.
	ErrIsDirectory = errors.New("path is a directory")
)

// acceptedExtensions mirrors the file picker filter, on top of image/* and audio/*.
var acceptedExtensions = map[string]bool{
	".txt":  true,
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// textTypes covers common text extensions missing from the filetype matcher
// table and from minimal system MIME databases.
var textTypes = map[string]string{
	".txt":  "text/plain",
	".text": "text/plain",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".log":  "text/plain",
	".json": "application/json",
	".yaml": "application/yaml",
	".yml":  "application/yaml",
	".toml": "application/toml",
}

// =============================================================================
// MEDIA TYPES
// =============================================================================

// DetectMediaType derives the declared media type of a file from its name,
// the way a browser file picker does.
func DetectMediaType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return DefaultMediaType
	}

	if t := filetype.GetType(strings.TrimPrefix(ext, ".")); t != filetype.Unknown && t.MIME.Value != "" {
		return t.MIME.Value
	}
	if t, ok := textTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if base, _, err := mime.ParseMediaType(t); err == nil {
			return base
		}
		return t
	}
	return DefaultMediaType
}

// Classify maps a declared media type to a message kind.
func Classify(mediaType string) model.Kind {
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	switch {
	case strings.HasPrefix(mediaType, "image/"):
		return model.KindImage
	case strings.HasPrefix(mediaType, "audio/"):
		return model.KindAudio
	default:
		return model.KindFile
	}
}

// Accepts reports whether a file passes the picker filter:
// image/*, audio/*, .txt, .pdf, .doc and .docx.
func Accepts(name, mediaType string) bool {
	switch Classify(mediaType) {
	case model.KindImage, model.KindAudio:
		return true
	}
	return acceptedExtensions[strings.ToLower(filepath.Ext(name))]
}

// =============================================================================
// INGESTION
// =============================================================================

// Ingest reads r and produces exactly one user message for the file.
//
// Image and audio files become "data:<type>;base64,<payload>". Any other file
// is read as text, with invalid UTF-8 replaced, and becomes
// "data:<type>;charset=utf-8;base64,<payload>".
func Ingest(name, mediaType string, r io.Reader) (model.Message, error) {
	if mediaType == "" {
		mediaType = DetectMediaType(name)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return model.Message{}, fmt.Errorf("read %s: %w", name, err)
	}

	kind := Classify(mediaType)
	var content string
	switch kind {
	case model.KindImage, model.KindAudio:
		content = DataURL(mediaType, data)
	default:
		text := strings.ToValidUTF8(string(data), "�")
		content = TextDataURL(mediaType, text)
	}

	return model.Message{
		ID:        "msg_" + uuid.NewString(),
		Content:   content,
		Kind:      kind,
		Author:    model.AuthorUser,
		Timestamp: time.Now(),
		Name:      filepath.Base(name),
		MediaType: mediaType,
	}, nil
}

// IngestFile opens path, checks it against the accepted set and ingests it.
func IngestFile(path string) (model.Message, error) {
	path = expandHome(strings.TrimSpace(path))

	info, err := os.Stat(path)
	if err != nil {
		return model.Message{}, err
	}
	if info.IsDir() {
		return model.Message{}, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	mediaType := DetectMediaType(path)
	if !Accepts(path, mediaType) {
		return model.Message{}, fmt.Errorf("%w: %s (%s)", ErrNotAccepted, filepath.Base(path), mediaType)
	}

	f, err := os.Open(path)
	if err != nil {
		return model.Message{}, err
	}
	defer f.Close()

	return Ingest(path, mediaType, f)
}

// =============================================================================
// DATA REFERENCES
// =============================================================================

// DataURL encodes bytes as a base64 data reference.
func DataURL(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// TextDataURL encodes text as a downloadable UTF-8 data reference.
func TextDataURL(mediaType, text string) string {
	return "data:" + mediaType + ";charset=utf-8;base64," + base64.StdEncoding.EncodeToString([]byte(text))
}

// DecodeDataURL splits a data reference produced by DataURL or TextDataURL
// into its media type and payload.
func DecodeDataURL(ref string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(ref, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data reference")
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("data reference has no payload")
	}
	params := strings.Split(header, ";")
	if params[len(params)-1] != "base64" {
		return "", nil, fmt.Errorf("data reference is not base64")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, err
	}
	return params[0], data, nil
}

// Save writes the payload of a data reference to path.
func Save(ref, path string) error {
	_, data, err := DecodeDataURL(ref)
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(expandHome(path), data, 0o644)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
