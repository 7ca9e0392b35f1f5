package ws

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/okian/skudd/pkg/logger"
)

const (
	sendBuffer   = 64
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 50 * time.Second
)

var upgrader = websocket.Upgrader{ //nolint:gochecknoglobals // shared handshake settings
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The scorer UI and spectator pages are served from arbitrary hosts
	// on the local network.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one connected spectator.
type Client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Handler upgrades HTTP connections onto the hub.
type Handler struct {
	hub    *Hub
	logger logger.Logger
}

// NewHandler creates the websocket endpoint handler.
func NewHandler(hub *Hub, l logger.Logger) *Handler {
	if l == nil {
		l = logger.Get().Named("ws")
	}
	return &Handler{hub: hub, logger: l}
}

// HandleWS handles GET /ws upgrade requests.
func (h *Handler) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}
	c := &Client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	h.hub.register <- c
	go c.writePump()
	go c.readPump(h.hub)
}

// writePump drains the send channel onto the connection and keeps the
// connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound messages; clients are read-only consumers. It
// exists to notice closed connections and unregister promptly.
func (c *Client) readPump(hub *Hub) {
	defer func() {
		hub.unregister <- c
		_ = c.conn.Close()
	}()
	_ = c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
