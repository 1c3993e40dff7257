package relay

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period.  Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// Client is one websocket connection attached to the hub.  The read pump
// decodes incoming events and routes them; the write pump drains the send
// buffer and keeps the connection alive with pings.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan any
}

// readPump pumps events from the websocket into the hub.  It exits (and
// unregisters) on any read error, which covers normal closes too.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
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
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("relay: read error: %v", err)
			}
			break
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			log.Printf("relay: malformed frame: %v", err)
			continue
		}

		switch env.Type {
		case EventDriverTrip:
			var ev DriverTrip
			if err := json.Unmarshal(env.Data, &ev); err != nil || ev.DriverID == "" {
				continue
			}
			c.hub.BindDriver(ev.DriverID, c)
			c.hub.Broadcast(frame{Type: EventDriverTrip, Data: ev}, c)

		case EventDriverPosition:
			var ev DriverPosition
			if err := json.Unmarshal(env.Data, &ev); err != nil || ev.ID == "" {
				continue
			}
			c.hub.Broadcast(frame{Type: EventDriverPosition, Data: ev}, c)

		case EventClientMatch:
			var ev ClientMatch
			if err := json.Unmarshal(env.Data, &ev); err != nil || ev.DriverID == "" {
				continue
			}
			c.hub.SendToDriver(ev.DriverID, frame{Type: EventClientMatch, Data: ev})

		case EventDriverAccept:
			var ev DriverAccept
			if err := json.Unmarshal(env.Data, &ev); err != nil || ev.DriverID == "" {
				continue
			}
			c.hub.Broadcast(frame{Type: EventDriverAccept, Data: ev}, c)
			c.hub.handleAccept(ev)

		default:
			log.Printf("relay: unknown event type: %s", env.Type)
		}
	}
}

// writePump pumps payloads from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(payload); err != nil {
				log.Printf("relay: write error: %v", err)
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
