package upstream

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/oremus-labs/token-relay/internal/event"
	"github.com/oremus-labs/token-relay/internal/segment"
)

// Adapter drives the remote generation service and emits the event grammar.
// A nil provider is the explicit Unconfigured state: every operation fails
// fast with ErrUnavailable before any event is produced.
type Adapter struct {
	provider Provider
}

// New builds an Adapter around provider. Passing nil yields an unconfigured
// adapter.
func New(provider Provider) *Adapter {
	return &Adapter{provider: provider}
}

// Configured reports whether a provider is attached.
func (a *Adapter) Configured() bool {
	return a.provider != nil
}

// Generate opens a streaming generation call for prompt and returns the
// ordered event sequence for it. The channel is closed after the terminal
// event. Cancelling ctx aborts the upstream call and closes the channel with
// no further events; no terminal event is owed after cancellation.
//
// Fragments are segmented independently: a word arriving split across two
// fragment boundaries is relayed as two Token events. This matches observed
// upstream chunking behavior and keeps the adapter stateless across reads.
func (a *Adapter) Generate(ctx context.Context, prompt string) (<-chan event.Event, error) {
	if a.provider == nil {
		return nil, ErrUnavailable
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	ch := make(chan event.Event)
	go a.run(ctx, prompt, ch)
	return ch, nil
}

func (a *Adapter) run(ctx context.Context, prompt string, ch chan<- event.Event) {
	defer close(ch)

	t0 := time.Now()

	stream, err := a.provider.Stream(ctx, prompt)
	if err != nil {
		emit(ctx, ch, event.Error{Message: err.Error()})
		return
	}
	defer stream.Close()

	seenContent := false
	for {
		fragment, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if ctx.Err() != nil {
				// Receiver went away; nothing further is owed.
				return
			}
			if !seenContent {
				emit(ctx, ch, event.Error{Message: err.Error()})
				return
			}
			// Content already reached the client: end the stream as a
			// success with a truncated transcript.
			break
		}
		if fragment == "" {
			continue
		}
		if !seenContent {
			seenContent = true
			if !emit(ctx, ch, event.ResponseTime{Seconds: time.Since(t0).Seconds()}) {
				return
			}
		}
		for _, unit := range segment.Split(fragment) {
			if !emit(ctx, ch, event.Token{Text: unit}) {
				return
			}
		}
	}

	if !emit(ctx, ch, event.Timing{Seconds: time.Since(t0).Seconds()}) {
		return
	}
	emit(ctx, ch, event.End{})
}

// emit delivers ev unless ctx is done first. It returns false once the
// receiver is gone so the producer can stop immediately.
func emit(ctx context.Context, ch chan<- event.Event, ev event.Event) bool {
	select {
	case ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// UnaryResult is the materialized outcome of a non-streaming generation
// call. ResponseTime is not measured on this path: no partial content is
// observable before completion, so the unary binding defines it as equal to
// Timing.
type UnaryResult struct {
	Text   string
	Timing float64
}

// Answer issues one blocking generation call for prompt.
func (a *Adapter) Answer(ctx context.Context, prompt string) (UnaryResult, error) {
	if a.provider == nil {
		return UnaryResult{}, ErrUnavailable
	}
	if strings.TrimSpace(prompt) == "" {
		return UnaryResult{}, ErrEmptyPrompt
	}

	t0 := time.Now()
	text, err := a.provider.Complete(ctx, prompt)
	if err != nil {
		return UnaryResult{}, err
	}
	return UnaryResult{
		Text:   text,
		Timing: time.Since(t0).Seconds(),
	}, nil
}

// Probe checks upstream connectivity outside the event grammar.
func (a *Adapter) Probe(ctx context.Context) (string, error) {
	if a.provider == nil {
		return "", ErrUnavailable
	}
	return a.provider.Probe(ctx)
}
