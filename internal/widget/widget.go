// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package widget holds the state of one chat widget and every action that
// mutates it.
//
// The widget owns the conversation, the open/closed flag, the input text, the
// loading flag and the selected model. Views read it; event handlers call its
// methods. A completion round trip is split in two so the network call can
// run outside the update loop:
//
//	req, err := w.Submit()     // appends the user message, sets loading
//	reply, err := client.Send(ctx, req.Utterance, req.Model)
//	w.Resolve(reply, err)      // appends the reply or an error message
package widget

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jeranaias/dva-tui/internal/backend"
	"github.com/jeranaias/dva-tui/internal/model"
)

// =============================================================================
// ERRORS AND MESSAGES
// =============================================================================

var (
	// ErrEmptyInput indicates Submit was called with blank input.
	ErrEmptyInput = errors.New("input is empty")

	// ErrBusy indicates a completion is already outstanding.
	ErrBusy = errors.New("a reply is already pending")

	// ErrUnknownModel indicates a model outside the catalog was selected.
	ErrUnknownModel = errors.New("unknown model")

	// ErrNotPending indicates a reply arrived for a request that is no longer
	// outstanding, for example after a restart.
	ErrNotPending = errors.New("no reply is pending")
)

// Texts shown in place of a reply when the exchange fails.
const (
	ServerErrorFormat   = "Server error: %d"
	NoResponseText      = "No response from server. Please check your internet connection."
	UnknownErrorText    = "An error occurred. Please try again."
	DefaultTypingFormat = "%s is typing..."
)

// ErrorText converts a completion error into the text shown to the user.
func ErrorText(err error) string {
	switch backend.Classify(err) {
	case backend.ErrorServer:
		return fmt.Sprintf(ServerErrorFormat, backend.StatusOf(err))
	case backend.ErrorNoResponse:
		return NoResponseText
	default:
		return UnknownErrorText
	}
}

// =============================================================================
// TYPES
// =============================================================================

// Completer sends one utterance to a completion service.
type Completer interface {
	Send(ctx context.Context, utterance, modelID string) (string, error)
}

// Request is what Submit hands to the caller for dispatch.
type Request struct {
	Utterance string
	Model     string

	// Seq identifies the submission so stale replies can be discarded.
	Seq uint64
}

// Phase is the request lifecycle state.
type Phase int

const (
	// PhaseIdle means no request is outstanding.
	PhaseIdle Phase = iota
	// PhaseAwaiting means a request was submitted and not yet resolved.
	PhaseAwaiting
)

// String returns the phase name.
func (p Phase) String() string {
	if p == PhaseAwaiting {
		return "awaiting-response"
	}
	return "idle"
}

// Options configures a Widget.
type Options struct {
	Greeting      string
	AssistantName string
	Model         string
	Logger        *logrus.Entry
}

// Widget is the state of one chat widget. It is not safe for concurrent use;
// a single update loop owns it.
type Widget struct {
	conv          *model.Conversation
	open          bool
	input         string
	phase         Phase
	seq           uint64
	pending       uint64 // seq of the request on the wire
	modelID       string
	assistantName string
	log           *logrus.Entry
}

// New creates a closed widget with an empty conversation. An unknown or
// empty model falls back to model.DefaultModelID.
func New(opts Options) *Widget {
	w := &Widget{
		conv:          model.NewConversation(opts.Greeting),
		modelID:       model.DefaultModelID,
		assistantName: opts.AssistantName,
		log:           opts.Logger,
	}
	if w.assistantName == "" {
		w.assistantName = "DVA"
	}
	if w.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		w.log = logrus.NewEntry(l)
	}
	if info, ok := model.Lookup(opts.Model); ok {
		w.modelID = info.ID
	} else if opts.Model != "" {
		w.log.WithField("model", opts.Model).Warn("unknown model, using default")
	}
	return w
}

// =============================================================================
// OPEN / CLOSE
// =============================================================================

// Open expands the widget. The first open of an empty conversation adds the
// greeting.
func (w *Widget) Open() {
	w.open = true
	if w.conv.Greet() {
		w.log.Debug("greeting added")
	}
}

// Close collapses the widget to its launcher. State is kept.
func (w *Widget) Close() {
	w.open = false
}

// Toggle flips between open and closed.
func (w *Widget) Toggle() {
	if w.open {
		w.Close()
	} else {
		w.Open()
	}
}

// IsOpen reports whether the panel is expanded.
func (w *Widget) IsOpen() bool {
	return w.open
}

// =============================================================================
// INPUT AND MODEL
// =============================================================================

// SetInput replaces the pending input text.
func (w *Widget) SetInput(text string) {
	w.input = text
}

// Input returns the pending input text.
func (w *Widget) Input() string {
	return w.input
}

// CanSubmit reports whether Submit would dispatch a request.
func (w *Widget) CanSubmit() bool {
	return w.phase == PhaseIdle && strings.TrimSpace(w.input) != ""
}

// SelectModel changes the model used for subsequent requests.
func (w *Widget) SelectModel(id string) error {
	info, ok := model.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownModel, id)
	}
	w.modelID = info.ID
	w.log.WithField("model", info.ID).Info("model selected")
	return nil
}

// Model returns the selected model ID.
func (w *Widget) Model() string {
	return w.modelID
}

// ModelInfo returns the catalog entry of the selected model.
func (w *Widget) ModelInfo() model.ModelInfo {
	info, _ := model.Lookup(w.modelID)
	return info
}

// =============================================================================
// EXCHANGE
// =============================================================================

// Submit appends the input as a user message, clears the input and marks a
// request as outstanding. Blank input returns ErrEmptyInput and a pending
// request returns ErrBusy; neither changes any state.
func (w *Widget) Submit() (Request, error) {
	if strings.TrimSpace(w.input) == "" {
		return Request{}, ErrEmptyInput
	}
	if w.phase == PhaseAwaiting {
		return Request{}, ErrBusy
	}

	utterance := w.input
	if err := w.conv.Append(model.NewUserText(utterance)); err != nil {
		return Request{}, err
	}
	w.input = ""
	w.phase = PhaseAwaiting
	w.seq++
	w.pending = w.seq

	w.log.WithFields(logrus.Fields{"model": w.modelID, "chars": len(utterance), "seq": w.seq}).Debug("request submitted")
	return Request{Utterance: utterance, Model: w.modelID, Seq: w.seq}, nil
}

// Resolve completes the outstanding request, appending the reply or the
// error text as an assistant message, and returns that message.
func (w *Widget) Resolve(reply string, err error) model.Message {
	if w.phase != PhaseAwaiting {
		w.log.Warn("resolve called with no pending request")
	}
	w.phase = PhaseIdle

	var msg model.Message
	if err != nil {
		w.log.WithError(err).WithField("kind", backend.Classify(err).String()).Warn("completion failed")
		msg = model.NewAssistantText(ErrorText(err))
	} else {
		if reply == "" {
			// An empty text message is not storable; show the generic error.
			w.log.Warn("completion returned an empty reply")
			reply = UnknownErrorText
		}
		msg = model.NewAssistantText(reply)
	}

	_ = w.conv.Append(msg)
	return msg
}

// ResolveRequest is Resolve for a specific submission. A reply for a request
// that is no longer outstanding is discarded and ErrNotPending is returned.
// A reply for the request on the wire when the conversation was restarted is
// discarded too, but it ends the wait.
func (w *Widget) ResolveRequest(req Request, reply string, err error) (model.Message, error) {
	if w.phase != PhaseAwaiting || req.Seq != w.pending {
		w.log.WithField("seq", req.Seq).Debug("discarding stale reply")
		return model.Message{}, ErrNotPending
	}
	if req.Seq != w.seq {
		w.phase = PhaseIdle
		w.log.WithField("seq", req.Seq).Debug("discarding reply from before restart")
		return model.Message{}, ErrNotPending
	}
	return w.Resolve(reply, err), nil
}

// Exchange runs Submit, the completion call and Resolve in one go. It
// returns the appended assistant message and the completion error, if any.
func (w *Widget) Exchange(ctx context.Context, c Completer) (model.Message, error) {
	req, err := w.Submit()
	if err != nil {
		return model.Message{}, err
	}
	reply, sendErr := c.Send(ctx, req.Utterance, req.Model)
	return w.Resolve(reply, sendErr), sendErr
}

// Attach appends an ingested attachment message.
func (w *Widget) Attach(msg model.Message) error {
	msg.Author = model.AuthorUser
	if err := w.conv.Append(msg); err != nil {
		return err
	}
	w.log.WithFields(logrus.Fields{"name": msg.Name, "kind": msg.Kind}).Info("attachment added")
	return nil
}

// Restart resets the conversation to the greeting and clears the input.
// A request still in flight keeps the widget loading until its reply
// arrives; ResolveRequest then discards that reply.
func (w *Widget) Restart() {
	w.conv.Reset()
	w.input = ""
	w.seq++
	w.log.Info("conversation restarted")
}

// =============================================================================
// READ SIDE
// =============================================================================

// Messages returns a copy of the conversation in display order.
func (w *Widget) Messages() []model.Message {
	return w.conv.Messages()
}

// Len returns the number of messages.
func (w *Widget) Len() int {
	return w.conv.Len()
}

// LastReply returns the most recent assistant message.
func (w *Widget) LastReply() (model.Message, bool) {
	return w.conv.LastFrom(model.AuthorAssistant)
}

// Loading reports whether a request is outstanding.
func (w *Widget) Loading() bool {
	return w.phase == PhaseAwaiting
}

// Phase returns the request lifecycle state.
func (w *Widget) Phase() Phase {
	return w.phase
}

// Revision changes whenever the conversation changes.
func (w *Widget) Revision() uint64 {
	return w.conv.Revision()
}

// AssistantName returns the assistant's display name.
func (w *Widget) AssistantName() string {
	return w.assistantName
}

// TypingText returns the loading indicator text.
func (w *Widget) TypingText() string {
	return fmt.Sprintf(DefaultTypingFormat, w.assistantName)
}
