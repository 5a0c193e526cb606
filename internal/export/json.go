// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import "encoding/json"

// JSONExporter writes the full transcript, attachment payloads included.
type JSONExporter struct{}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export converts t to indented JSON.
func (e *JSONExporter) Export(t Transcript) ([]byte, error) {
	if len(t.Messages) == 0 {
		return nil, ErrEmpty
	}
	return json.MarshalIndent(t, "", "  ")
}

// FileExtension returns ".json".
func (e *JSONExporter) FileExtension() string {
	return ".json"
}
