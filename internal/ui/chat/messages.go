// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/dva-tui/internal/model"
	"github.com/jeranaias/dva-tui/internal/widget"
)

// CompletionMsg carries the outcome of a completion request.
type CompletionMsg struct {
	Request widget.Request
	Reply   string
	Err     error
}

// AttachmentMsg carries an ingested file, or the reason it was rejected.
type AttachmentMsg struct {
	Path    string
	Message model.Message
	Err     error
}

// ClipboardMsg reports the result of a clipboard write.
type ClipboardMsg struct {
	Chars int
	Err   error
}

// ExportMsg reports where a transcript was saved.
type ExportMsg struct {
	Path string
	Err  error
}

// clearNoticeMsg clears the status notice if it is still the one with seq.
type clearNoticeMsg struct {
	seq int
}
