package realtime

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Outbound frame buffer per connection
	sendBufferSize = 64
)

// Client is a single WebSocket connection owned by one user. A user can hold
// several clients at once, one per open tab or device.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	userID   uint
	username string
	role     string

	// chatKey is the chat room this connection is currently joined to,
	// empty when none. Guarded by the hub mutex.
	chatKey string
}

// readPump reads frames from the connection and dispatches them to the hub.
// It owns the read side; there is at most one reader per connection.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Unexpected close from user %d: %v", c.userID, err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendEvent(Event{Event: EventError, Data: "invalid message format"})
			continue
		}

		c.hub.handleClientMessage(c, msg)
	}
}

// writePump writes queued frames to the connection and keeps it alive with
// pings. It owns the write side; there is at most one writer per connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// sendEvent queues one event for this connection, dropping it if the client
// cannot keep up
func (c *Client) sendEvent(event Event) {
	select {
	case c.send <- event.Encode():
	default:
		log.Printf("Dropping frame for slow client, user %d", c.userID)
	}
}
