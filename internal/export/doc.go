// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a conversation transcript to a file.
//
// # Supported Formats
//
//   - Markdown: human-readable, with YAML front matter
//   - JSON: the messages in their wire shape
//
// Attachments appear as a labelled reference in Markdown; their data
// payload is kept only in JSON.
//
// # Usage
//
//	t := export.NewTranscript(title, modelID, w.Messages())
//	path, err := export.ToFile(t, export.NewMarkdownExporter(nil), nil)
package export
