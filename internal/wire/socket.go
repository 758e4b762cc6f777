package wire

import (
	"fmt"

	"github.com/oremus-labs/token-relay/internal/event"
)

// Socket message types. Outbound messages carry the event grammar; the
// inbound direction carries only questions.
const (
	TypeQuestion     = "question"
	TypeWord         = "word"
	TypeResponseTime = "response_time"
	TypeTiming       = "timing"
	TypeError        = "error"
	TypeEnd          = "end"
)

// Message is one discriminated socket frame. The typed envelope removes the
// sentinel-collision risk the SSE framing carries.
type Message struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// FromEvent converts an event to its socket message.
func FromEvent(ev event.Event) Message {
	switch v := ev.(type) {
	case event.Token:
		return Message{Type: TypeWord, Content: v.Text}
	case event.ResponseTime:
		return Message{Type: TypeResponseTime, Content: fmt.Sprintf("%.2f", v.Seconds)}
	case event.Timing:
		return Message{Type: TypeTiming, Content: fmt.Sprintf("%.2f", v.Seconds)}
	case event.Error:
		return Message{Type: TypeError, Error: v.Message}
	case event.End:
		return Message{Type: TypeEnd}
	}
	return Message{}
}

// ToEvent converts an inbound socket message back to an event. Unknown types
// and malformed bodies are decode failures: the caller logs and discards the
// message, and the connection stays open.
func (m Message) ToEvent() (event.Event, error) {
	switch m.Type {
	case TypeWord:
		return event.Token{Text: m.Content}, nil
	case TypeResponseTime:
		seconds, err := parseSeconds(m.Content)
		if err != nil {
			return nil, fmt.Errorf("response_time message: %w", err)
		}
		return event.ResponseTime{Seconds: seconds}, nil
	case TypeTiming:
		seconds, err := parseSeconds(m.Content)
		if err != nil {
			return nil, fmt.Errorf("timing message: %w", err)
		}
		return event.Timing{Seconds: seconds}, nil
	case TypeError:
		message := m.Error
		if message == "" {
			message = m.Content
		}
		return event.Error{Message: message}, nil
	case TypeEnd:
		return event.End{}, nil
	}
	return nil, fmt.Errorf("unknown message type %q", m.Type)
}

// Question builds the inbound request message.
func Question(content string) Message {
	return Message{Type: TypeQuestion, Content: content}
}
