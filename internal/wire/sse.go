// Package wire defines the three transport encodings of the event grammar:
// sentinel-framed SSE payloads, discriminated socket messages, and the unary
// request/response payloads.
package wire

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oremus-labs/token-relay/internal/event"
)

// Reserved SSE payload sentinels. Any payload not matching one of these is
// literal token text. A generated token that happens to start with a
// sentinel is indistinguishable from the control frame; this collision is a
// known limitation of the text framing, kept for wire compatibility with
// existing clients. The socket binding's typed messages do not share it.
const (
	sentinelEnd          = "[END]"
	sentinelError        = "[ERROR]"
	sentinelTiming       = "[TIMING]"
	sentinelResponseTime = "[RESPONSE_TIME]"
)

// EncodeSSE renders one event as a complete SSE frame, terminator included.
// A payload containing newlines spans multiple data lines; the receiver
// rejoins them with a newline, so token spacing survives the trip.
func EncodeSSE(ev event.Event) string {
	var sb strings.Builder
	for _, line := range strings.Split(ssePayload(ev), "\n") {
		sb.WriteString("data: ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

func ssePayload(ev event.Event) string {
	switch v := ev.(type) {
	case event.Token:
		return v.Text
	case event.ResponseTime:
		return fmt.Sprintf("%s %.2f", sentinelResponseTime, v.Seconds)
	case event.Timing:
		return fmt.Sprintf("%s %.2f", sentinelTiming, v.Seconds)
	case event.Error:
		return sentinelError + " " + v.Message
	case event.End:
		return sentinelEnd
	}
	return ""
}

// DecodeSSEPayload maps one SSE data payload back to an event. Payloads that
// carry a sentinel prefix but a malformed body are returned as an error so
// the receiver can log and discard the frame.
func DecodeSSEPayload(payload string) (event.Event, error) {
	switch {
	case payload == sentinelEnd:
		return event.End{}, nil
	case strings.HasPrefix(payload, sentinelError):
		return event.Error{Message: strings.TrimSpace(strings.TrimPrefix(payload, sentinelError))}, nil
	case strings.HasPrefix(payload, sentinelTiming):
		seconds, err := parseSeconds(strings.TrimPrefix(payload, sentinelTiming))
		if err != nil {
			return nil, fmt.Errorf("timing frame: %w", err)
		}
		return event.Timing{Seconds: seconds}, nil
	case strings.HasPrefix(payload, sentinelResponseTime):
		seconds, err := parseSeconds(strings.TrimPrefix(payload, sentinelResponseTime))
		if err != nil {
			return nil, fmt.Errorf("response_time frame: %w", err)
		}
		return event.ResponseTime{Seconds: seconds}, nil
	}
	return event.Token{Text: payload}, nil
}

func parseSeconds(s string) (float64, error) {
	seconds, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("bad seconds value %q", s)
	}
	return seconds, nil
}
