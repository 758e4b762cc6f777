// Package receiver reconstructs one logical event sequence on the client
// side, whichever binding delivered it, and owns the display state it drives.
package receiver

import (
	"fmt"
	"strings"
	"sync"
)

// State is the receiver's position in one request's lifecycle.
type State int

const (
	// Idle: no request has been submitted yet.
	Idle State = iota
	// Awaiting: a request is in flight, nothing received.
	Awaiting
	// Receiving: at least one event has arrived.
	Receiving
	// Terminal: the request finished, successfully or not.
	Terminal
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Awaiting:
		return "awaiting"
	case Receiving:
		return "receiving"
	case Terminal:
		return "terminal"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Summary carries the timing figures reported for one request.
type Summary struct {
	ResponseTime    float64
	HasResponseTime bool
	Timing          float64
	HasTiming       bool
}

// DisplayState is a snapshot of the single active response target.
type DisplayState struct {
	State        State
	Content      string
	Failed       bool
	ErrorMessage string
	Summary      Summary
}

// Hooks let a presentation layer observe the receiver. All hooks are
// optional and are invoked synchronously from Feed.
type Hooks struct {
	// OnFirstContent fires exactly once per request, when the first token
	// arrives and any "working" placeholder should be cleared.
	OnFirstContent func()
	// OnToken fires for every appended token, in arrival order.
	OnToken func(text string)
	// OnDone fires when the request completes successfully.
	OnDone func(Summary)
	// OnError fires when the request fails. Partial content is preserved.
	OnError func(message string)
}

// Receiver is the transport-agnostic consumer of decoded events. It holds
// exactly one active response target at a time; transports never mutate the
// display state directly, they only feed events.
type Receiver struct {
	mu sync.Mutex

	state   State
	content strings.Builder
	failed  bool
	errMsg  string
	summary Summary

	firstContentSeen bool
	hooks            Hooks

	closeMu   sync.Mutex
	closeFn   func() error
	closeOnce bool
}

// New builds an idle receiver.
func New(hooks Hooks) *Receiver {
	return &Receiver{hooks: hooks}
}

// Submit opens a new request, resetting the display state. It is legal only
// when no request is in flight.
func (r *Receiver) Submit() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == Awaiting || r.state == Receiving {
		return fmt.Errorf("request already in flight (state %s)", r.state)
	}

	r.state = Awaiting
	r.content.Reset()
	r.failed = false
	r.errMsg = ""
	r.summary = Summary{}
	r.firstContentSeen = false
	return nil
}

// State returns the current lifecycle state.
func (r *Receiver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Snapshot returns a copy of the display state.
func (r *Receiver) Snapshot() DisplayState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return DisplayState{
		State:        r.state,
		Content:      r.content.String(),
		Failed:       r.failed,
		ErrorMessage: r.errMsg,
		Summary:      r.summary,
	}
}

// Bind attaches the active transport's release function. Close invokes it
// at most once.
func (r *Receiver) Bind(closeFn func() error) {
	r.closeMu.Lock()
	defer r.closeMu.Unlock()
	r.closeFn = closeFn
	r.closeOnce = false
}

// Close releases the bound transport resource. Closing twice, or with no
// transport bound, is a no-op rather than an error.
func (r *Receiver) Close() error {
	r.closeMu.Lock()
	defer r.closeMu.Unlock()
	if r.closeFn == nil || r.closeOnce {
		return nil
	}
	r.closeOnce = true
	return r.closeFn()
}
