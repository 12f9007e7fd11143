// Package llm talks to a hosted language model. Exactly one Generator is
// active per process; callers treat any error as a signal to fall back to
// local templates.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Mode selects the prompt shape sent to the model.
type Mode int

const (
	// ModeConversation asks for a short free-text reply.
	ModeConversation Mode = iota
	// ModeAnalyze asks for the JSON envelope with intent and entities.
	ModeAnalyze
	// ModeRecommendations asks for one sentence introducing search results.
	ModeRecommendations
)

func (m Mode) String() string {
	switch m {
	case ModeConversation:
		return "conversation"
	case ModeAnalyze:
		return "analyze"
	case ModeRecommendations:
		return "recommendations"
	default:
		return "unknown"
	}
}

// Turn is one prior message of the conversation, oldest first.
type Turn struct {
	Role    string // "user" or "bot"
	Content string
}

type Prompt struct {
	Mode        Mode
	UserText    string
	History     []Turn
	Intent      string
	ResultCount int
}

// Reply is the usable output of a successful call. Intent, Entities and
// Confidence are only filled in ModeAnalyze.
type Reply struct {
	Text       string
	Intent     string
	Entities   map[string]any
	Confidence float64
}

// Generator is implemented once per vendor.
type Generator interface {
	Name() string
	Generate(ctx context.Context, p Prompt) (Reply, error)
}

// Availability is decided once when the generator is built.
type Availability int

const (
	Unavailable Availability = iota
	Available
)

func (a Availability) String() string {
	if a == Available {
		return "available"
	}
	return "unavailable"
}

// Reason classifies why a call produced no usable text.
type Reason string

const (
	ReasonUnavailable Reason = "unavailable"
	ReasonTransport   Reason = "transport"
	ReasonTimeout     Reason = "timeout"
	ReasonStatus      Reason = "status"
	ReasonDecode      Reason = "decode"
	ReasonEmpty       Reason = "empty"
)

// Failure is the only error type returned by Generate.
type Failure struct {
	Provider string
	Reason   Reason
	Status   int
	Err      error
}

func (f *Failure) Error() string {
	msg := fmt.Sprintf("%s: %s", f.Provider, f.Reason)
	if f.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", f.Status)
	}
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

func (f *Failure) Unwrap() error { return f.Err }

// AsFailure extracts a *Failure from err, if any.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// Outcome is a short label for metrics: "ok" or the failure reason.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if f, ok := AsFailure(err); ok {
		return string(f.Reason)
	}
	return "error"
}

func failure(provider string, reason Reason, err error) *Failure {
	return &Failure{Provider: provider, Reason: reason, Err: err}
}

// transportFailure maps an I/O error, telling deadline expiry apart.
func transportFailure(ctx context.Context, provider string, err error) *Failure {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return failure(provider, ReasonTimeout, err)
	}
	return failure(provider, ReasonTransport, err)
}

// Disabled is used when no provider is configured or construction failed.
type Disabled struct {
	Reason string
}

func (Disabled) Name() string { return "none" }

func (d Disabled) Generate(context.Context, Prompt) (Reply, error) {
	var err error
	if d.Reason != "" {
		err = errors.New(d.Reason)
	}
	return Reply{}, failure("none", ReasonUnavailable, err)
}
