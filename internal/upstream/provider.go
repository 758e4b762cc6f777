// Package upstream wraps the remote text-generation service and turns its
// native streaming or unary output into the relay's event grammar.
package upstream

import (
	"context"
	"errors"
)

// ErrUnavailable means no provider is configured or reachable. It is
// returned synchronously, before any event is produced, and is never mixed
// into an event sequence.
var ErrUnavailable = errors.New("generation service unavailable")

// ErrEmptyPrompt rejects an empty or whitespace-only prompt before any event
// is produced.
var ErrEmptyPrompt = errors.New("prompt cannot be empty")

// FragmentStream yields raw text fragments from an in-flight generation
// call. Recv returns io.EOF on normal completion. Close releases the
// underlying call and is safe to invoke more than once.
type FragmentStream interface {
	Recv() (string, error)
	Close() error
}

// Provider is the opaque remote generation service. Implementations are
// stateless per call; one Provider handle is shared by all workers.
type Provider interface {
	// Stream opens a streaming generation call for prompt.
	Stream(ctx context.Context, prompt string) (FragmentStream, error)

	// Complete issues a single blocking generation call for prompt and
	// returns the full text.
	Complete(ctx context.Context, prompt string) (string, error)

	// Probe performs a minimal generation call to verify connectivity,
	// returning the provider's reply text.
	Probe(ctx context.Context) (string, error)
}
