package receiver

import (
	"fmt"

	"github.com/oremus-labs/token-relay/internal/event"
)

// Feed applies one decoded event to the display state. Tokens append in
// arrival order with no reordering or deduplication. An Error preserves any
// partial content already shown and appends the failure to it.
func (r *Receiver) Feed(ev event.Event) error {
	r.mu.Lock()

	switch r.state {
	case Idle:
		r.mu.Unlock()
		return fmt.Errorf("no active request for event %T", ev)
	case Terminal:
		r.mu.Unlock()
		return fmt.Errorf("event %T after terminal", ev)
	case Awaiting:
		r.state = Receiving
	}

	var fire func()

	switch v := ev.(type) {
	case event.Token:
		first := !r.firstContentSeen
		r.firstContentSeen = true
		r.content.WriteString(v.Text)
		onFirst, onToken := r.hooks.OnFirstContent, r.hooks.OnToken
		fire = func() {
			if first && onFirst != nil {
				onFirst()
			}
			if onToken != nil {
				onToken(v.Text)
			}
		}

	case event.ResponseTime:
		if r.summary.HasResponseTime {
			r.mu.Unlock()
			return fmt.Errorf("duplicate ResponseTime")
		}
		r.summary.ResponseTime = v.Seconds
		r.summary.HasResponseTime = true

	case event.Timing:
		if r.summary.HasTiming {
			r.mu.Unlock()
			return fmt.Errorf("duplicate Timing")
		}
		r.summary.Timing = v.Seconds
		r.summary.HasTiming = true

	case event.End:
		r.state = Terminal
		summary := r.summary
		onDone := r.hooks.OnDone
		fire = func() {
			if onDone != nil {
				onDone(summary)
			}
		}

	case event.Error:
		r.state = Terminal
		r.failed = true
		r.errMsg = v.Message
		onError := r.hooks.OnError
		fire = func() {
			if onError != nil {
				onError(v.Message)
			}
		}

	default:
		r.mu.Unlock()
		return fmt.Errorf("unknown event %T", ev)
	}

	r.mu.Unlock()
	if fire != nil {
		fire()
	}
	return nil
}
