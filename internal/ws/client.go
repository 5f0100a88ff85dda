package ws

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/numduel/numduel/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time between keepalive pings
	pingPeriod = 30 * time.Second

	// Time allowed to read the next pong after a ping
	pongWait = 60 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 64
)

// Client is one live websocket connection. Messages for the peer are queued
// on send and written by a single writer goroutine, which preserves the
// ordered-delivery guarantee the coordinator relies on.
type Client struct {
	id   model.ConnectionID
	conn *websocket.Conn
	send chan any
}

// newClient wraps an upgraded connection
func newClient(id model.ConnectionID, conn *websocket.Conn) *Client {
	return &Client{
		id:   id,
		conn: conn,
		send: make(chan any, sendBufferSize),
	}
}

// readPump reads inbound frames and hands them to the dispatch function.
// It returns when the connection drops or sends an unreadable frame.
func (c *Client) readPump(dispatch func(connID model.ConnectionID, raw []byte)) {
	defer func() { _ = c.conn.Close() }()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		dispatch(c.id, raw)
	}
}

// writePump drains the send queue onto the wire and keeps the connection
// alive with periodic pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
