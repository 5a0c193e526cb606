// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the visual pieces of the dva chat widget.

Each component is a small struct with a View method. Components hold no
conversation state of their own; the chat model passes messages in.

# Components

Launcher (launcher.go) - The collapsed chat bubble in the bottom-right corner.
MessageBubble (message.go) - One message, right-aligned for the user and
markdown-rendered for the assistant. Attachments show a labelled reference.
ModelSelector (model_selector.go) - Provider-grouped model list with a fuzzy
filter.
StatusBar (statusbar.go) - Key hints, replaced by a notice when one is set.
MarkdownRenderer (markdown.go) - Cached glamour renderer with a plain-text
fallback.

All styling comes from styles.Theme.
*/
package components
