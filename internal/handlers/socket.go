package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/oremus-labs/token-relay/internal/event"
	"github.com/oremus-labs/token-relay/internal/logutil"
	"github.com/oremus-labs/token-relay/internal/metrics"
	"github.com/oremus-labs/token-relay/internal/upstream"
	"github.com/oremus-labs/token-relay/internal/wire"
)

var upgrader = websocket.Upgrader{
	// The relay pages are served from arbitrary hosts in demo deployments.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RelaySocket implements the message-socket binding: a duplex connection
// carrying questions inbound and typed event messages outbound. One question
// is in flight at a time; the next is read only after the previous terminal
// message has been written.
func (h *Handler) RelaySocket(c *gin.Context) {
	if !h.adapter.Configured() {
		unavailable(c)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logutil.Error("websocket upgrade failed", err, nil)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	for {
		var msg wire.Message
		if err := conn.ReadJSON(&msg); err != nil {
			// Socket closed or broke: same as client cancellation.
			return
		}
		if msg.Type != wire.TypeQuestion {
			logutil.Warn("discarding unexpected inbound message", map[string]interface{}{
				"type": msg.Type,
			})
			continue
		}
		if strings.TrimSpace(msg.Content) == "" {
			// Pre-event rejection: the socket stays open for the next
			// question.
			if err := conn.WriteJSON(wire.Message{
				Type:  wire.TypeError,
				Error: upstream.ErrEmptyPrompt.Error(),
			}); err != nil {
				return
			}
			continue
		}
		if !h.relayToSocket(ctx, conn, msg.Content) {
			return
		}
	}
}

// relayToSocket answers one question over conn. It returns false when the
// connection is no longer usable.
func (h *Handler) relayToSocket(parent context.Context, conn *websocket.Conn, question string) bool {
	// A write failure cancels this context, which stops the generation
	// within one scheduling step.
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	started := time.Now()

	events, err := h.adapter.Generate(ctx, question)
	if err != nil {
		metrics.ObserveRequest("socket", "rejected", time.Since(started))
		return conn.WriteJSON(wire.Message{Type: wire.TypeError, Error: err.Error()}) == nil
	}

	outcome := "success"
	tokens := 0
	firstToken := true

	for ev := range events {
		switch ev.(type) {
		case event.Token:
			tokens++
			if firstToken {
				firstToken = false
				metrics.ObserveFirstToken("socket", time.Since(started).Seconds())
			}
		case event.Error:
			outcome = "error"
		}
		if err := conn.WriteJSON(wire.FromEvent(ev)); err != nil {
			cancel()
			metrics.CountTokens("socket", tokens)
			metrics.ObserveRequest("socket", "disconnected", time.Since(started))
			return false
		}
	}

	metrics.CountTokens("socket", tokens)
	metrics.ObserveRequest("socket", outcome, time.Since(started))
	return true
}
