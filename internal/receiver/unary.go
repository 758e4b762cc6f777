package receiver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/oremus-labs/token-relay/internal/wire"
)

// AskUnary submits question over the single-shot binding and returns the
// materialized payload. No intermediate events exist on this path; callers
// hand the result to the playback simulator for a streamed presentation.
func (c *Client) AskUnary(ctx context.Context, question string) (wire.UnaryResponse, error) {
	body, err := json.Marshal(wire.UnaryRequest{Question: question})
	if err != nil {
		return wire.UnaryResponse{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/ai/nostream"), bytes.NewReader(body))
	if err != nil {
		return wire.UnaryResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return wire.UnaryResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var failure wire.UnaryError
		if err := json.NewDecoder(resp.Body).Decode(&failure); err != nil || failure.Error == "" {
			return wire.UnaryResponse{}, fmt.Errorf("unary request failed: %s", resp.Status)
		}
		return wire.UnaryResponse{}, fmt.Errorf("unary request failed: %s", failure.Error)
	}

	var payload wire.UnaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return wire.UnaryResponse{}, fmt.Errorf("decode unary response: %w", err)
	}
	return payload, nil
}
