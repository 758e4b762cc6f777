// Package handlers provides HTTP request handlers for the token relay.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oremus-labs/token-relay/internal/event"
	"github.com/oremus-labs/token-relay/internal/metrics"
	"github.com/oremus-labs/token-relay/internal/upstream"
	"github.com/oremus-labs/token-relay/internal/validator"
	"github.com/oremus-labs/token-relay/internal/wire"
)

// Options configures handler runtime behavior.
type Options struct {
	// StaticDir holds the demo pages.
	StaticDir string
	// DemoCadence is the inter-word delay on the demo endpoints.
	DemoCadence time.Duration
}

// Handler carries the relay's dependencies into the HTTP layer.
type Handler struct {
	adapter  *upstream.Adapter
	validate *validator.Validator
	opts     Options
}

// New builds a Handler.
func New(adapter *upstream.Adapter, validate *validator.Validator, opts Options) *Handler {
	if opts.StaticDir == "" {
		opts.StaticDir = "static"
	}
	if opts.DemoCadence == 0 {
		opts.DemoCadence = 200 * time.Millisecond
	}
	return &Handler{adapter: adapter, validate: validate, opts: opts}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"configured": h.adapter.Configured(),
	})
}

// IndexPage serves the demo page.
func (h *Handler) IndexPage(c *gin.Context) {
	c.File(filepath.Join(h.opts.StaticDir, "index.html"))
}

// RelayPage serves the relay page.
func (h *Handler) RelayPage(c *gin.Context) {
	c.File(filepath.Join(h.opts.StaticDir, "ai.html"))
}

// question parses and validates the request body, replying with the
// appropriate pre-protocol rejection when it is unusable. The bool reports
// whether the request may proceed.
func (h *Handler) question(c *gin.Context) (string, bool) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable request body"})
		return "", false
	}
	if result := h.validate.ValidateQuestion(raw); !result.Valid {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request",
			"details": result.Errors,
		})
		return "", false
	}
	var req wire.UnaryRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return "", false
	}
	return req.Question, true
}

// unavailable replies with the pre-protocol service-unavailable rejection.
func unavailable(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": upstream.ErrUnavailable.Error()})
}

// RelayStream implements the push-stream binding: one SSE frame per event,
// flushed individually so wire order equals emission order.
func (h *Handler) RelayStream(c *gin.Context) {
	if !h.adapter.Configured() {
		unavailable(c)
		return
	}
	question, ok := h.question(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	events, err := h.adapter.Generate(ctx, question)
	if err != nil {
		relayErrorJSON(c, err)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	started := time.Now()
	outcome := "success"
	tokens := 0
	firstToken := true

	for ev := range events {
		switch ev.(type) {
		case event.Token:
			tokens++
			if firstToken {
				firstToken = false
				metrics.ObserveFirstToken("sse", time.Since(started).Seconds())
			}
		case event.Error:
			outcome = "error"
		}
		if _, err := c.Writer.WriteString(wire.EncodeSSE(ev)); err != nil {
			outcome = "disconnected"
			break
		}
		c.Writer.Flush()
	}
	if ctx.Err() != nil {
		outcome = "cancelled"
	}

	metrics.CountTokens("sse", tokens)
	metrics.ObserveRequest("sse", outcome, time.Since(started))
}

// RelayUnary implements the single-shot binding. response_time equals timing
// by definition here: the whole response materializes at once.
func (h *Handler) RelayUnary(c *gin.Context) {
	if !h.adapter.Configured() {
		unavailable(c)
		return
	}
	question, ok := h.question(c)
	if !ok {
		return
	}

	started := time.Now()
	result, err := h.adapter.Answer(c.Request.Context(), question)
	if err != nil {
		metrics.ObserveRequest("unary", "error", time.Since(started))
		if errors.Is(err, upstream.ErrUnavailable) {
			unavailable(c)
			return
		}
		c.JSON(http.StatusInternalServerError, wire.UnaryError{Error: err.Error()})
		return
	}

	metrics.ObserveRequest("unary", "success", time.Since(started))
	c.JSON(http.StatusOK, wire.UnaryResponse{
		Response:     result.Text,
		Timing:       result.Timing,
		ResponseTime: result.Timing,
		Status:       "success",
	})
}

// Probe checks upstream connectivity before any request is sent. It is a
// side channel and never speaks the event grammar.
func (h *Handler) Probe(c *gin.Context) {
	if !h.adapter.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": upstream.ErrUnavailable.Error(),
		})
		return
	}

	text, err := h.adapter.Probe(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "connectivity test failed: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"message":  "generation service is reachable",
		"response": text,
	})
}

// relayErrorJSON translates a synchronous adapter failure to a pre-protocol
// HTTP rejection. It is only reachable before the first frame is written.
func relayErrorJSON(c *gin.Context, err error) {
	switch {
	case errors.Is(err, upstream.ErrUnavailable):
		unavailable(c)
	case errors.Is(err, upstream.ErrEmptyPrompt):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
