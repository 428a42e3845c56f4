package live

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a frame to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Viewers only send control frames.
	maxMessageSize = 512
)

// Conn is a websocket viewer connected to the hub.
type Conn struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	id   string

	mu     sync.Mutex
	closed bool
}

// NewConn creates a new Conn.
func NewConn(h *Hub, conn *websocket.Conn, id string) *Conn {
	return &Conn{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 64),
		done: make(chan struct{}),
		id:   id,
	}
}

// ID returns the viewer's id.
func (c *Conn) ID() string {
	return c.id
}

// Send queues a frame for the viewer. Frames sent after Close are
// dropped.
func (c *Conn) Send(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		// Viewer send buffer full, drop frame. The next frame carries
		// the whole list again.
		slog.Warn("live: send buffer full, dropping frame", "viewer", c.id)
	}
}

// Close ends the connection once the queued frames are written.
func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ReadPump discards anything the browser sends and unregisters the viewer
// once the connection fails or closes.
func (c *Conn) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		close(c.done)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("live: read error", "viewer", c.id, "err", err)
			}
			return
		}
	}
}

// WritePump writes frames from the send channel to the websocket.
func (c *Conn) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
