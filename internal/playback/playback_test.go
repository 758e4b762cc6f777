package playback

import (
	"context"
	"testing"
	"time"

	"github.com/oremus-labs/token-relay/internal/receiver"
)

func newSimulator(t *testing.T, cadence time.Duration) (*Simulator, *[]time.Duration) {
	t.Helper()
	var sleeps []time.Duration
	sim := New(cadence)
	sim.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	return sim, &sleeps
}

func TestPlayReplaysSegmentedText(t *testing.T) {
	t.Parallel()

	sim, sleeps := newSimulator(t, 10*time.Millisecond)

	firstContent := 0
	var tokens []string
	r := receiver.New(receiver.Hooks{
		OnFirstContent: func() { firstContent++ },
		OnToken:        func(text string) { tokens = append(tokens, text) },
	})
	if err := r.Submit(); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	summary, err := sim.Play(context.Background(), "Go fast.", 1.20, r)
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	want := []string{"Go ", "fast."}
	if len(tokens) != len(want) {
		t.Fatalf("tokens = %#v, want %#v", tokens, want)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Fatalf("tokens = %#v, want %#v", tokens, want)
		}
	}
	if firstContent != 1 {
		t.Errorf("first-content bookkeeping fired %d times, want 1", firstContent)
	}

	// One inter-token gap for two tokens.
	if len(*sleeps) != 1 || (*sleeps)[0] != 10*time.Millisecond {
		t.Errorf("sleeps = %v", *sleeps)
	}

	snap := r.Snapshot()
	if snap.State != receiver.Terminal || snap.Failed {
		t.Fatalf("unexpected display state: %+v", snap)
	}
	if snap.Content != "Go fast." {
		t.Errorf("content = %q", snap.Content)
	}

	if summary.Backend != 1.20 {
		t.Errorf("Backend = %f", summary.Backend)
	}
	if summary.Display < 0 {
		t.Errorf("Display = %f", summary.Display)
	}
	if got, want := summary.Total, summary.Backend+summary.Display; got != want {
		t.Errorf("Total = %f, want %f", got, want)
	}
}

func TestPlayEmptyText(t *testing.T) {
	t.Parallel()

	sim, sleeps := newSimulator(t, 10*time.Millisecond)

	r := receiver.New(receiver.Hooks{})
	if err := r.Submit(); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	summary, err := sim.Play(context.Background(), "", 0.8, r)
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if len(*sleeps) != 0 {
		t.Errorf("slept %v for empty text", *sleeps)
	}
	if snap := r.Snapshot(); snap.State != receiver.Terminal || snap.Content != "" {
		t.Fatalf("unexpected display state: %+v", snap)
	}
	if summary.Backend != 0.8 {
		t.Errorf("Backend = %f", summary.Backend)
	}
}

func TestPlayHonorsCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	sim := New(time.Millisecond)
	count := 0
	sim.sleep = func(time.Duration) {
		count++
		if count == 2 {
			cancel()
		}
	}

	r := receiver.New(receiver.Hooks{})
	if err := r.Submit(); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	_, err := sim.Play(ctx, "one two three four five", 1.0, r)
	if err == nil {
		t.Fatal("cancelled playback should return an error")
	}
	if r.State() == receiver.Terminal {
		t.Error("cancelled playback should not reach terminal")
	}
}
