package receiver

import (
	"context"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/oremus-labs/token-relay/internal/event"
	"github.com/oremus-labs/token-relay/internal/logutil"
	"github.com/oremus-labs/token-relay/internal/wire"
)

// SocketSession is one duplex connection to the message-socket binding. It
// carries at most one in-flight question at a time; questions are asked
// sequentially, each one only after the previous terminal message arrived.
type SocketSession struct {
	conn *websocket.Conn

	mu        sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

// DialSocket opens a socket session against the relay server.
func (c *Client) DialSocket(ctx context.Context) (*SocketSession, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, c.wsURL("/ai/ws"), nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("socket dial: %s: %w", resp.Status, err)
		}
		return nil, fmt.Errorf("socket dial: %w", err)
	}
	return &SocketSession{conn: conn}, nil
}

// Ask submits one question and feeds the decoded reply events into r until
// the terminal message. Messages that fail to decode are logged and
// discarded; the connection stays open.
func (s *SocketSession) Ask(question string, r *Receiver) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := r.Submit(); err != nil {
		return err
	}
	r.Bind(s.Close)

	if err := s.conn.WriteJSON(wire.Question(question)); err != nil {
		r.Abort(err.Error())
		return fmt.Errorf("write question: %w", err)
	}

	for {
		var msg wire.Message
		if err := s.conn.ReadJSON(&msg); err != nil {
			r.Abort(err.Error())
			return fmt.Errorf("read message: %w", err)
		}

		ev, err := msg.ToEvent()
		if err != nil {
			logutil.Warn("discarding unparseable message", map[string]interface{}{
				"binding": "socket",
				"reason":  err.Error(),
			})
			continue
		}
		if err := r.Feed(ev); err != nil {
			return err
		}
		if event.Terminal(ev) {
			return nil
		}
	}
}

// Close releases the socket. Closing an already-closed session is a no-op.
func (s *SocketSession) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}
