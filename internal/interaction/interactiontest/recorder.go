// Package interactiontest provides a recording Responder for handler tests.
package interactiontest

import (
	"context"
	"errors"
	"sync"

	"github.com/user/ocrbot/internal/interaction"
)

// ErrAlreadyAcknowledged is returned when an interaction is answered twice.
var ErrAlreadyAcknowledged = errors.New("interaction already acknowledged")

// ErrNotAcknowledged is returned by Edit and FollowUp before an answer.
var ErrNotAcknowledged = errors.New("interaction not acknowledged")

// Call is one recorded Responder invocation.
type Call struct {
	Method    string
	Ephemeral bool
	Reply     interaction.Reply
	Modal     interaction.Modal
	Choices   []interaction.Choice
}

// Recorder is an interaction.Responder that records every call. It enforces
// the answer-once rule of the platform.
type Recorder struct {
	mu    sync.Mutex
	acked bool
	calls []Call

	// FollowUpErr, when set, is returned by FollowUp after FailFollowUpsAfter
	// successful follow-ups.
	FollowUpErr        error
	FailFollowUpsAfter int
	followUps          int
}

var _ interaction.Responder = (*Recorder)(nil)

// New returns an unanswered Recorder.
func New() *Recorder { return &Recorder{} }

func (r *Recorder) answer(c Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.acked {
		return ErrAlreadyAcknowledged
	}
	r.acked = true
	r.calls = append(r.calls, c)
	return nil
}

func (r *Recorder) Defer(_ context.Context, ephemeral bool) error {
	return r.answer(Call{Method: "Defer", Ephemeral: ephemeral})
}

func (r *Recorder) Reply(_ context.Context, rep interaction.Reply) error {
	return r.answer(Call{Method: "Reply", Ephemeral: rep.Ephemeral, Reply: rep})
}

func (r *Recorder) OpenModal(_ context.Context, m interaction.Modal) error {
	return r.answer(Call{Method: "OpenModal", Modal: m})
}

func (r *Recorder) Suggest(_ context.Context, choices []interaction.Choice) error {
	return r.answer(Call{Method: "Suggest", Choices: choices})
}

func (r *Recorder) Edit(_ context.Context, rep interaction.Reply) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.acked {
		return ErrNotAcknowledged
	}
	r.calls = append(r.calls, Call{Method: "Edit", Ephemeral: rep.Ephemeral, Reply: rep})
	return nil
}

func (r *Recorder) FollowUp(_ context.Context, rep interaction.Reply) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.acked {
		return ErrNotAcknowledged
	}
	if r.FollowUpErr != nil && r.followUps >= r.FailFollowUpsAfter {
		return r.FollowUpErr
	}
	r.followUps++
	r.calls = append(r.calls, Call{Method: "FollowUp", Ephemeral: rep.Ephemeral, Reply: rep})
	return nil
}

func (r *Recorder) Acknowledged() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.acked
}

// Calls returns a copy of the recorded calls in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Methods returns the recorded method names in order.
func (r *Recorder) Methods() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Method
	}
	return out
}

// Files returns every file sent through Edit and FollowUp, in order.
func (r *Recorder) Files() []interaction.File {
	var out []interaction.File
	for _, c := range r.Calls() {
		out = append(out, c.Reply.Files...)
	}
	return out
}
