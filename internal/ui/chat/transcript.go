// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/dva-tui/internal/export"
	"github.com/jeranaias/dva-tui/internal/widget"
)

// exportCmd saves the current conversation as Markdown. An empty dir uses
// the default transcripts directory.
func exportCmd(title string, w *widget.Widget, dir string) tea.Cmd {
	t := export.NewTranscript(title, w.Model(), w.Messages())
	opts := export.DefaultOptions()
	if dir != "" {
		opts.OutputDir = dir
	}
	return func() tea.Msg {
		path, err := export.ToFile(t, export.NewMarkdownExporter(opts), opts)
		return ExportMsg{Path: path, Err: err}
	}
}
