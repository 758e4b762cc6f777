// Package event defines the protocol-agnostic vocabulary describing one
// relay request: tokens, timing measurements, errors, and completion. Every
// transport binding encodes exactly this grammar; the receiver reconstructs
// it regardless of which binding delivered it.
package event

// Event is one value in a request's event sequence. It is a sealed interface:
// the unexported marker method keeps the set of variants closed.
//
// A well-formed sequence for one request has exactly one of two shapes:
//
//	ResponseTime? Token* Timing End    (success)
//	Error                              (failure)
type Event interface {
	event()
}

// Token carries one display unit. Whitespace-only tokens are legal; they
// carry spacing and must be preserved.
type Token struct {
	Text string
}

// ResponseTime reports elapsed seconds from request start to the first
// non-empty upstream fragment. At most one per request, always before the
// first Token.
type ResponseTime struct {
	Seconds float64
}

// Timing reports total elapsed seconds for the whole response. At most one
// per request, success path only, immediately before End.
type Timing struct {
	Seconds float64
}

// Error is terminal and precludes Timing and End.
type Error struct {
	Message string
}

// End is terminal and marks successful completion.
type End struct{}

func (Token) event()        {}
func (ResponseTime) event() {}
func (Timing) event()       {}
func (Error) event()        {}
func (End) event()          {}

var (
	_ Event = Token{}
	_ Event = ResponseTime{}
	_ Event = Timing{}
	_ Event = Error{}
	_ Event = End{}
)

// Terminal reports whether ev ends the sequence.
func Terminal(ev Event) bool {
	switch ev.(type) {
	case End, Error:
		return true
	}
	return false
}
