// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"unicode/utf8"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// copyCmd copies text to the system clipboard.
func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		if err := writeClipboard(text); err != nil {
			return ClipboardMsg{Err: err}
		}
		return ClipboardMsg{Chars: utf8.RuneCountInString(text)}
	}
}
