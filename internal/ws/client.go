package ws

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/campusfeed/campusfeed/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxFrameSize   = 4096
	sendBufferSize = 64
)

// Client is one live connection registered in a user's room. send is never
// closed; the hub signals shutdown by closing done, so concurrent emits can
// keep sending safely while the client is being torn down.
type Client struct {
	id     string
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	userID uint
	room   string
}

// UserID returns the authenticated user this connection belongs to.
func (c *Client) UserID() uint { return c.userID }

// readPump consumes inbound frames until the connection drops. The only
// client-initiated event is "ping"; everything else is rejected with an error
// frame. Unregistering happens here so the room entry is gone before the
// connection object is discarded.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Debug().Err(err).Str("conn_id", c.id).Msg("read error")
			}
			return
		}

		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.enqueue(envelope{Event: "error", Data: "invalid frame"})
			continue
		}

		switch env.Event {
		case "ping":
			// Heartbeat echoes back to this connection only; room
			// membership is untouched.
			data := env.Data
			if data == nil {
				data = map[string]any{}
			}
			c.enqueue(envelope{Event: EventPong, Data: data})
		default:
			c.enqueue(envelope{Event: "error", Data: "unsupported event"})
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// enqueue marshals and queues a frame for this connection only. Dropped
// silently if the buffer is full; the pong/error path does not warrant
// evicting the client.
func (c *Client) enqueue(env envelope) {
	frame, err := json.Marshal(env)
	if err != nil {
		return
	}
	select {
	case c.send <- frame:
	default:
	}
}
