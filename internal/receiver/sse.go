package receiver

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/oremus-labs/token-relay/internal/event"
	"github.com/oremus-labs/token-relay/internal/logutil"
	"github.com/oremus-labs/token-relay/internal/wire"
)

// AskStream submits question over the push-stream binding and feeds the
// decoded events into r until the terminal event. Token payloads keep their
// spacing: only the frame prefix is stripped, never the payload itself.
func (c *Client) AskStream(ctx context.Context, question string, r *Receiver) error {
	if err := r.Submit(); err != nil {
		return err
	}

	body, err := json.Marshal(wire.UnaryRequest{Question: question})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/ai/stream"), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		r.Abort(err.Error())
		return err
	}
	r.Bind(resp.Body.Close)
	defer r.Close()

	if resp.StatusCode >= 300 {
		// Pre-protocol rejection: no event was ever produced.
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		failure := fmt.Sprintf("request rejected: %s: %s", resp.Status, strings.TrimSpace(string(msg)))
		r.Abort(failure)
		return fmt.Errorf("%s", failure)
	}

	reader := bufio.NewReader(resp.Body)
	var dataLines []string

	dispatch := func() (bool, error) {
		if len(dataLines) == 0 {
			return false, nil
		}
		payload := strings.Join(dataLines, "\n")
		dataLines = dataLines[:0]

		ev, err := wire.DecodeSSEPayload(payload)
		if err != nil {
			// Decode failures discard the frame; the stream stays open.
			logutil.Warn("discarding unparseable frame", map[string]interface{}{
				"binding": "sse",
				"reason":  err.Error(),
			})
			return false, nil
		}
		if err := r.Feed(ev); err != nil {
			return false, err
		}
		return event.Terminal(ev), nil
	}

	for {
		select {
		case <-ctx.Done():
			r.Abort(ctx.Err().Error())
			return ctx.Err()
		default:
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				// Stream dropped before a terminal event.
				r.Abort("connection closed mid-stream")
				return fmt.Errorf("stream ended without terminal event")
			}
			r.Abort(err.Error())
			return err
		}
		line = strings.TrimRight(line, "\r\n")

		switch {
		case line == "":
			terminal, err := dispatch()
			if err != nil {
				return err
			}
			if terminal {
				return nil
			}
		case strings.HasPrefix(line, "data:"):
			payload := strings.TrimPrefix(line, "data:")
			payload = strings.TrimPrefix(payload, " ")
			dataLines = append(dataLines, payload)
		}
	}
}
