// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the chat completion service.
//
// The service exposes a single endpoint. Each request carries the latest user
// utterance and the selected model identifier; the response carries one
// generated reply. There is no conversation history on the wire, no streaming
// and no retry.
//
// # Key Types
//
//   - Client: resty-based client for POST {base}/api/chat
//   - ChatRequest / ChatReply: wire format
//   - ServerError: non-2xx response with its status code
//   - ErrorKind: classification used to build user-visible error text
//
// # Usage
//
//	client, err := backend.NewClient(backend.DefaultBaseURL)
//	if err != nil {
//	    return err
//	}
//	reply, err := client.Send(ctx, "Hello", "gpt-3.5-turbo")
//	switch backend.Classify(err) {
//	case backend.ErrorNone:
//	    fmt.Println(reply)
//	case backend.ErrorServer:
//	    ...
//	}
package backend
