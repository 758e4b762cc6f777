package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oremus-labs/token-relay/internal/event"
	"github.com/oremus-labs/token-relay/internal/segment"
	"github.com/oremus-labs/token-relay/internal/wire"
)

// demoText feeds the demo endpoints, which stream without touching the
// upstream service.
const demoText = "Hello! This is a demonstration of real-time text streaming " +
	"from the relay backend to the page. The text is generated word by word " +
	"and sent as soon as it becomes available, which reads far better than " +
	"waiting for the entire response before showing anything."

// DemoStream streams the canned paragraph over the push-stream binding at a
// fixed cadence. No timing events are sent; the demo exercises framing and
// cancellation only.
func (h *Handler) DemoStream(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	c.Writer.WriteHeader(http.StatusOK)

	ctx := c.Request.Context()
	for _, unit := range segment.Split(demoText) {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if _, err := c.Writer.WriteString(wire.EncodeSSE(event.Token{Text: unit})); err != nil {
			return
		}
		c.Writer.Flush()
		h.demoSleep()
	}

	c.Writer.WriteString(wire.EncodeSSE(event.End{}))
	c.Writer.Flush()
}

// DemoSocket streams the canned paragraph over the message-socket binding.
func (h *Handler) DemoSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for _, unit := range segment.Split(demoText) {
		if err := conn.WriteJSON(wire.FromEvent(event.Token{Text: unit})); err != nil {
			return
		}
		h.demoSleep()
	}
	conn.WriteJSON(wire.FromEvent(event.End{}))
}

func (h *Handler) demoSleep() {
	time.Sleep(h.opts.DemoCadence)
}
