// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the widget.
type KeyMap struct {
	Open        key.Binding
	Minimize    key.Binding
	Submit      key.Binding
	Restart     key.Binding
	SelectModel key.Binding
	Attach      key.Binding
	Copy        key.Binding
	Export      key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Up          key.Binding
	Down        key.Binding
	Confirm     key.Binding
	Back        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Open: key.NewBinding(
			key.WithKeys("enter", " ", "space", "ctrl+o"),
			key.WithHelp("enter", "open chat"),
		),
		Minimize: key.NewBinding(
			key.WithKeys("esc", "ctrl+o"),
			key.WithHelp("esc", "minimize"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Restart: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "restart"),
		),
		SelectModel: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "model"),
		),
		Attach: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "attach"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy reply"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "down"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "choose"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ChatHelp returns the hints shown while chatting.
func (k KeyMap) ChatHelp() []key.Binding {
	return []key.Binding{k.Submit, k.SelectModel, k.Attach, k.Copy, k.Export, k.Restart, k.Minimize, k.Quit}
}

// SelectorHelp returns the hints shown in the model list.
func (k KeyMap) SelectorHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Confirm, k.Back}
}

// AttachHelp returns the hints shown at the attach prompt.
func (k KeyMap) AttachHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Back}
}
