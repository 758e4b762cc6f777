package upstream

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oremus-labs/token-relay/internal/event"
)

// fakeStream replays scripted fragments, then a final error (io.EOF for a
// normal end). Recv honors the call context so cancellation unblocks it the
// way a real transport would.
type fakeStream struct {
	ctx       context.Context
	fragments []string
	final     error
	pos       int
	closed    atomic.Int32
	block     chan struct{}
}

func (s *fakeStream) Recv() (string, error) {
	if s.block != nil && s.pos >= len(s.fragments) {
		select {
		case <-s.block:
		case <-s.ctx.Done():
			return "", s.ctx.Err()
		}
	}
	if s.pos < len(s.fragments) {
		fragment := s.fragments[s.pos]
		s.pos++
		return fragment, nil
	}
	return "", s.final
}

func (s *fakeStream) Close() error {
	s.closed.Add(1)
	return nil
}

type fakeProvider struct {
	stream    *fakeStream
	streamErr error

	completeText string
	completeErr  error

	probeText string
	probeErr  error
}

func (p *fakeProvider) Stream(ctx context.Context, prompt string) (FragmentStream, error) {
	if p.streamErr != nil {
		return nil, p.streamErr
	}
	p.stream.ctx = ctx
	return p.stream, nil
}

func (p *fakeProvider) Complete(ctx context.Context, prompt string) (string, error) {
	return p.completeText, p.completeErr
}

func (p *fakeProvider) Probe(ctx context.Context) (string, error) {
	return p.probeText, p.probeErr
}

func collect(t *testing.T, ch <-chan event.Event) []event.Event {
	t.Helper()
	var events []event.Event
	for ev := range ch {
		events = append(events, ev)
	}
	return events
}

func transcript(events []event.Event) string {
	var sb strings.Builder
	for _, ev := range events {
		if tok, ok := ev.(event.Token); ok {
			sb.WriteString(tok.Text)
		}
	}
	return sb.String()
}

func TestGenerateSuccess(t *testing.T) {
	t.Parallel()

	stream := &fakeStream{
		fragments: []string{"Hello", " there", "!"},
		final:     io.EOF,
	}
	adapter := New(&fakeProvider{stream: stream})

	ch, err := adapter.Generate(context.Background(), "Hi")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	events := collect(t, ch)

	if err := event.CheckSequence(events); err != nil {
		t.Fatalf("malformed sequence: %v (events %#v)", err, events)
	}
	if _, ok := events[0].(event.ResponseTime); !ok {
		t.Errorf("expected leading ResponseTime, got %T", events[0])
	}
	if got := transcript(events); got != "Hello there!" {
		t.Errorf("transcript = %q, want %q", got, "Hello there!")
	}
	if stream.closed.Load() == 0 {
		t.Error("stream was not closed")
	}
}

func TestGenerateEmptyUpstreamIsSuccess(t *testing.T) {
	t.Parallel()

	stream := &fakeStream{final: io.EOF}
	adapter := New(&fakeProvider{stream: stream})

	ch, err := adapter.Generate(context.Background(), "Hi")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	events := collect(t, ch)

	if err := event.CheckSequence(events); err != nil {
		t.Fatalf("malformed sequence: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected [Timing End], got %#v", events)
	}
}

func TestGenerateUpstreamFailureBeforeContent(t *testing.T) {
	t.Parallel()

	stream := &fakeStream{final: errors.New("quota exceeded")}
	adapter := New(&fakeProvider{stream: stream})

	ch, err := adapter.Generate(context.Background(), "Hi")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	events := collect(t, ch)

	if len(events) != 1 {
		t.Fatalf("expected exactly [Error], got %#v", events)
	}
	errEv, ok := events[0].(event.Error)
	if !ok {
		t.Fatalf("expected Error, got %T", events[0])
	}
	if !strings.Contains(errEv.Message, "quota exceeded") {
		t.Errorf("error message %q missing cause", errEv.Message)
	}
}

func TestGenerateUpstreamFailureAfterContentTruncates(t *testing.T) {
	t.Parallel()

	stream := &fakeStream{
		fragments: []string{"partial "},
		final:     errors.New("connection reset"),
	}
	adapter := New(&fakeProvider{stream: stream})

	ch, err := adapter.Generate(context.Background(), "Hi")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	events := collect(t, ch)

	// Partial content already reached the client, so the run ends as a
	// success with a truncated transcript.
	if err := event.CheckSequence(events); err != nil {
		t.Fatalf("malformed sequence: %v (events %#v)", err, events)
	}
	if got := transcript(events); got != "partial " {
		t.Errorf("transcript = %q, want %q", got, "partial ")
	}
}

func TestGenerateStreamOpenFailure(t *testing.T) {
	t.Parallel()

	adapter := New(&fakeProvider{streamErr: errors.New("dial failed")})

	ch, err := adapter.Generate(context.Background(), "Hi")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	events := collect(t, ch)

	if len(events) != 1 {
		t.Fatalf("expected exactly [Error], got %#v", events)
	}
	if _, ok := events[0].(event.Error); !ok {
		t.Fatalf("expected Error, got %T", events[0])
	}
}

func TestGenerateRejectsEmptyPrompt(t *testing.T) {
	t.Parallel()

	adapter := New(&fakeProvider{stream: &fakeStream{final: io.EOF}})

	for _, prompt := range []string{"", "   ", "\n\t"} {
		if _, err := adapter.Generate(context.Background(), prompt); !errors.Is(err, ErrEmptyPrompt) {
			t.Errorf("Generate(%q) error = %v, want ErrEmptyPrompt", prompt, err)
		}
	}
}

func TestUnconfiguredAdapterFailsFast(t *testing.T) {
	t.Parallel()

	adapter := New(nil)

	if _, err := adapter.Generate(context.Background(), "Hi"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Generate error = %v, want ErrUnavailable", err)
	}
	if _, err := adapter.Answer(context.Background(), "Hi"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Answer error = %v, want ErrUnavailable", err)
	}
	if _, err := adapter.Probe(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Probe error = %v, want ErrUnavailable", err)
	}
	if adapter.Configured() {
		t.Error("nil provider should report unconfigured")
	}
}

func TestGenerateCancellationReleasesStream(t *testing.T) {
	t.Parallel()

	stream := &fakeStream{
		fragments: []string{"first "},
		block:     make(chan struct{}),
	}
	adapter := New(&fakeProvider{stream: stream})

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := adapter.Generate(ctx, "Hi")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// Drain the events produced before the upstream stalls.
	var before []event.Event
	for ev := range ch {
		before = append(before, ev)
		if len(before) == 2 { // ResponseTime + Token
			break
		}
	}

	cancel()

	// The channel must close without a terminal event.
	var after []event.Event
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				goto closed
			}
			after = append(after, ev)
		case <-deadline:
			t.Fatal("event channel did not close after cancellation")
		}
	}
closed:
	for _, ev := range after {
		if event.Terminal(ev) {
			t.Errorf("unexpected terminal event after cancellation: %#v", ev)
		}
	}
	if stream.closed.Load() == 0 {
		t.Error("cancellation did not close the upstream stream")
	}
}

func TestAnswer(t *testing.T) {
	t.Parallel()

	adapter := New(&fakeProvider{completeText: "Go fast."})

	result, err := adapter.Answer(context.Background(), "how fast?")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if result.Text != "Go fast." {
		t.Errorf("Text = %q", result.Text)
	}
	if result.Timing < 0 {
		t.Errorf("Timing = %f, want >= 0", result.Timing)
	}
}

func TestAnswerRejectsEmptyPrompt(t *testing.T) {
	t.Parallel()

	adapter := New(&fakeProvider{completeText: "x"})
	if _, err := adapter.Answer(context.Background(), " "); !errors.Is(err, ErrEmptyPrompt) {
		t.Errorf("error = %v, want ErrEmptyPrompt", err)
	}
}
