// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"time"
)

// DefaultGreeting is the assistant's first message in every conversation.
const DefaultGreeting = "Hi!👋 I'm DVA, Duncan's Virtual Assistant. He built me from scratch!\n\nAsk me anything!"

// ErrEmptyContent is returned when appending a text message with no content.
var ErrEmptyContent = errors.New("message content is empty")

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is the ordered message history of one widget. Display order is
// append order. The only operations are Append, Greet and Reset; there is no
// edit or delete.
type Conversation struct {
	messages  []Message
	greeting  string
	revision  uint64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewConversation creates an empty conversation that greets with the given text.
// An empty greeting falls back to DefaultGreeting.
func NewConversation(greeting string) *Conversation {
	if greeting == "" {
		greeting = DefaultGreeting
	}
	now := time.Now()
	return &Conversation{
		greeting:  greeting,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Append adds a message to the end of the conversation. Text messages must
// have non-empty content. A missing ID or timestamp is filled in.
func (c *Conversation) Append(msg Message) error {
	if msg.Kind == "" {
		msg.Kind = KindText
	}
	if msg.Kind == KindText && msg.Content == "" {
		return ErrEmptyContent
	}
	if msg.ID == "" {
		msg.ID = generateID()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	c.messages = append(c.messages, msg)
	c.touch()
	return nil
}

// Greet appends the greeting if the conversation is empty. It reports whether
// the greeting was added.
func (c *Conversation) Greet() bool {
	if len(c.messages) > 0 {
		return false
	}
	c.messages = append(c.messages, NewGreeting(c.greeting))
	c.touch()
	return true
}

// Reset discards the history and leaves exactly the greeting.
func (c *Conversation) Reset() {
	c.messages = []Message{NewGreeting(c.greeting)}
	c.touch()
}

func (c *Conversation) touch() {
	c.revision++
	c.UpdatedAt = time.Now()
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// IsEmpty returns true if the conversation has no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.messages) == 0
}

// Messages returns a copy of the messages in display order.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// At returns the message at index i.
func (c *Conversation) At(i int) (Message, bool) {
	if i < 0 || i >= len(c.messages) {
		return Message{}, false
	}
	return c.messages[i], true
}

// Last returns the most recent message.
func (c *Conversation) Last() (Message, bool) {
	return c.At(len(c.messages) - 1)
}

// LastFrom returns the most recent message written by author.
func (c *Conversation) LastFrom(author Author) (Message, bool) {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Author == author {
			return c.messages[i], true
		}
	}
	return Message{}, false
}

// Greeting returns the greeting text.
func (c *Conversation) Greeting() string {
	return c.greeting
}

// Revision increases on every mutation. Views compare it to decide whether to
// scroll to the latest message.
func (c *Conversation) Revision() uint64 {
	return c.revision
}
