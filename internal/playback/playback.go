// Package playback fabricates a token stream from an already-complete text
// so the unary binding presents the same way the streaming bindings do.
package playback

import (
	"context"
	"time"

	"github.com/oremus-labs/token-relay/internal/event"
	"github.com/oremus-labs/token-relay/internal/receiver"
	"github.com/oremus-labs/token-relay/internal/segment"
)

// DefaultCadence is the inter-token delay for simulated playback.
const DefaultCadence = 50 * time.Millisecond

// Summary combines the backend-reported timing with the presentation-side
// replay duration. The two run on different clocks; Total is their sum.
type Summary struct {
	Backend float64 `json:"backend_seconds"`
	Display float64 `json:"display_seconds"`
	Total   float64 `json:"total_seconds"`
}

// Simulator replays a complete text as synthetic token events at a fixed
// cadence on the presentation's own clock.
type Simulator struct {
	// Cadence is the inter-token delay; zero means DefaultCadence.
	Cadence time.Duration

	// sleep is swapped out by tests.
	sleep func(time.Duration)
}

// New builds a Simulator with the given cadence (zero for the default).
func New(cadence time.Duration) *Simulator {
	return &Simulator{Cadence: cadence, sleep: time.Sleep}
}

// Play re-segments text and feeds synthetic tokens into r at the configured
// cadence, then the terminal events. The first synthetic token performs the
// same first-content bookkeeping a live stream would. backendTiming is the
// timing figure the unary binding reported; the returned Summary pairs it
// with the measured display duration.
func (s *Simulator) Play(ctx context.Context, text string, backendTiming float64, r *receiver.Receiver) (Summary, error) {
	cadence := s.Cadence
	if cadence == 0 {
		cadence = DefaultCadence
	}
	sleep := s.sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	started := time.Now()

	units := segment.Split(text)
	for i, unit := range units {
		if err := ctx.Err(); err != nil {
			return Summary{}, err
		}
		if err := r.Feed(event.Token{Text: unit}); err != nil {
			return Summary{}, err
		}
		if i < len(units)-1 {
			sleep(cadence)
		}
	}

	display := time.Since(started).Seconds()

	if err := r.Feed(event.Timing{Seconds: backendTiming}); err != nil {
		return Summary{}, err
	}
	if err := r.Feed(event.End{}); err != nil {
		return Summary{}, err
	}

	return Summary{
		Backend: backendTiming,
		Display: display,
		Total:   backendTiming + display,
	}, nil
}
