// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the Bubble Tea program for the dva chat widget.

The widget starts collapsed as a launcher in the bottom-right corner of the
terminal. Opening it shows the conversation panel: a header with restart and
minimize hints, the selected model, the scrolling message list, a typing
indicator while a reply is pending, and the input line.

# Key Components

## Model (model.go)

The Model wraps a widget.Widget (all conversation state lives there) plus
the Bubble Tea sub-models: textinput, viewport and spinner.

## Update Loop (update.go)

Keyboard handling per state (closed, chat, model selection, attach prompt)
and the commands that run outside the loop: the completion request, file
ingestion, clipboard writes and transcript saves. Each returns a message
that re-enters Update.

## View Rendering (view.go)

Renders the launcher, or the panel anchored bottom-right.

# Usage

	m := chat.New(w, client, chat.Options{Title: "Duncan's Virtual Assistant"})
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
*/
package chat
