package receiver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Client talks to a relay server over any of its bindings.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) url(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + path
}

// wsURL rewrites the base URL onto the websocket scheme.
func (c *Client) wsURL(path string) string {
	base := strings.TrimRight(c.BaseURL, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + path
}

// ProbeResult is the availability probe's payload.
type ProbeResult struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Response string `json:"response,omitempty"`
}

// Probe checks upstream connectivity before any request is sent. It is a
// side channel, independent of the event grammar.
func (c *Client) Probe(ctx context.Context) (ProbeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/ai/test"), nil)
	if err != nil {
		return ProbeResult{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return ProbeResult{}, err
	}
	defer resp.Body.Close()

	var result ProbeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ProbeResult{}, fmt.Errorf("decode probe response: %w", err)
	}
	if resp.StatusCode >= 300 && result.Message == "" {
		return result, fmt.Errorf("probe failed: %s", resp.Status)
	}
	return result, nil
}
