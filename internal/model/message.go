// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// AUTHOR TYPE
// =============================================================================

// Author identifies who wrote a message.
type Author string

const (
	AuthorUser      Author = "user"
	AuthorAssistant Author = "assistant"
)

// String returns the string representation of the author.
func (a Author) String() string {
	return string(a)
}

// DisplayName returns a human-readable name for the author.
func (a Author) DisplayName() string {
	switch a {
	case AuthorUser:
		return "You"
	case AuthorAssistant:
		return "DVA"
	default:
		return string(a)
	}
}

// =============================================================================
// KIND TYPE
// =============================================================================

// Kind describes how a message's content should be interpreted.
type Kind string

const (
	// KindText is plain text content.
	KindText Kind = "text"
	// KindImage holds an inline data reference to image bytes.
	KindImage Kind = "image"
	// KindFile holds a downloadable data reference to a text document.
	KindFile Kind = "file"
	// KindAudio holds an inline data reference to audio bytes.
	KindAudio Kind = "audio"
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// IsAttachment reports whether the kind carries a data reference rather than text.
func (k Kind) IsAttachment() bool {
	return k == KindImage || k == KindFile || k == KindAudio
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// GreetingID is the fixed identifier of the greeting message.
const GreetingID = "initial-message"

// Message is a single entry in a conversation. Messages are values; once
// appended to a conversation they are never edited.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Kind      Kind      `json:"type"`
	Author    Author    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`

	// Name and MediaType are set for attachments only.
	Name      string `json:"name,omitempty"`
	MediaType string `json:"media_type,omitempty"`
}

// NewUserText creates a text message authored by the user.
func NewUserText(content string) Message {
	return Message{
		ID:        generateID(),
		Content:   content,
		Kind:      KindText,
		Author:    AuthorUser,
		Timestamp: time.Now(),
	}
}

// NewAssistantText creates a text message authored by the assistant.
func NewAssistantText(content string) Message {
	return Message{
		ID:        generateID(),
		Content:   content,
		Kind:      KindText,
		Author:    AuthorAssistant,
		Timestamp: time.Now(),
	}
}

// NewGreeting creates the assistant greeting with its fixed ID.
func NewGreeting(content string) Message {
	return Message{
		ID:        GreetingID,
		Content:   content,
		Kind:      KindText,
		Author:    AuthorAssistant,
		Timestamp: time.Now(),
	}
}

// IsUser returns true if the message was written by the user.
func (m Message) IsUser() bool {
	return m.Author == AuthorUser
}

// IsAssistant returns true if the message was written by the assistant.
func (m Message) IsAssistant() bool {
	return m.Author == AuthorAssistant
}

// IsGreeting returns true for the greeting message.
func (m Message) IsGreeting() bool {
	return m.ID == GreetingID
}

// IsEmpty reports whether the message has no visible content.
func (m Message) IsEmpty() bool {
	return strings.TrimSpace(m.Content) == ""
}

// FormattedTime returns the timestamp in a short display form.
func (m Message) FormattedTime() string {
	return m.Timestamp.Format("15:04")
}

// Label returns a one-line description of the message for lists and logs.
// Attachments are described by name instead of their (large) data reference.
func (m Message) Label() string {
	if !m.Kind.IsAttachment() {
		return m.Content
	}
	name := m.Name
	if name == "" {
		name = "attachment"
	}
	if m.MediaType != "" {
		return "[" + m.Kind.String() + "] " + name + " (" + m.MediaType + ")"
	}
	return "[" + m.Kind.String() + "] " + name
}

func generateID() string {
	return "msg_" + uuid.NewString()
}
