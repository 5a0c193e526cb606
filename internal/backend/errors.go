// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"errors"
	"fmt"
)

// Error variables for the completion exchange.
var (
	// ErrNoResponse indicates the request was sent but nothing came back
	// (connection refused, DNS failure, TLS failure, dropped connection).
	ErrNoResponse = errors.New("no response from server")

	// ErrUnknown covers every other failure: the request could not be built,
	// or a 2xx body could not be understood.
	ErrUnknown = errors.New("unknown completion error")

	// ErrMalformedReply indicates a 2xx body without a usable message field.
	// It always wraps ErrUnknown.
	ErrMalformedReply = fmt.Errorf("%w: malformed reply", ErrUnknown)

	// ErrInvalidBaseURL indicates the configured base URL cannot be used.
	ErrInvalidBaseURL = errors.New("invalid backend base URL")
)

// ServerError is returned when the service answers with a non-2xx status.
type ServerError struct {
	Status int
	Body   string
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (HTTP %d)", e.Status)
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// ErrorKind is the coarse category of a completion failure.
type ErrorKind int

const (
	// ErrorNone means the exchange succeeded.
	ErrorNone ErrorKind = iota
	// ErrorServer means the service answered with a non-2xx status.
	ErrorServer
	// ErrorNoResponse means no response was received.
	ErrorNoResponse
	// ErrorUnknown is everything else.
	ErrorUnknown
)

// String returns the name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrorNone:
		return "none"
	case ErrorServer:
		return "server"
	case ErrorNoResponse:
		return "no_response"
	default:
		return "unknown"
	}
}

// Classify maps an error returned by Client.Send to its ErrorKind.
func Classify(err error) ErrorKind {
	if err == nil {
		return ErrorNone
	}
	var se *ServerError
	if errors.As(err, &se) {
		return ErrorServer
	}
	if errors.Is(err, ErrNoResponse) {
		return ErrorNoResponse
	}
	return ErrorUnknown
}

// StatusOf returns the HTTP status carried by a ServerError, or 0.
func StatusOf(err error) int {
	var se *ServerError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}
