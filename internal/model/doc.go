// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// # Key Types
//
//   - Conversation: ordered, append-only list of messages seeded with a greeting
//   - Message: single message with author, kind, content and timestamp
//   - ModelInfo: one entry of the fixed backend model catalog
//   - Kind: message payload kind (text, image, file, audio)
//   - Author: who wrote a message (user or assistant)
//
// # Usage
//
// Create a conversation and greet the user:
//
//	conv := model.NewConversation(model.DefaultGreeting)
//	conv.Greet()
//	_ = conv.Append(model.NewUserText("hello"))
//
// Look up a catalog entry:
//
//	info, ok := model.Lookup("gpt-4o")
//	fmt.Printf("%s (%s)\n", info.Name, info.Provider)
package model
