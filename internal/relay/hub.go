package relay

import (
	"log"
	"sync"
)

// message is an internal delivery instruction.  When target is set the
// payload goes to that one connection; otherwise it fans out to every
// connection except exclude.
type message struct {
	payload any
	target  *Client
	exclude *Client
}

// Hub owns all relay connection state.  Connections register and
// unregister through channels consumed by Run, and a driver announcing a
// trip binds its id to its connection so clientMatch events can be
// targeted.  Delivery is at most once: a full send buffer or an absent
// peer loses the message.
type Hub struct {
	mu          sync.RWMutex
	connections map[*Client]bool
	drivers     map[string]*Client // driverId -> connection

	register   chan *Client
	unregister chan *Client
	broadcast  chan message

	// onAccept, when set, receives every driverAccept the hub relays.
	// It is called from the accepting connection's read goroutine and
	// must not block.
	onAccept func(DriverAccept)
}

// NewHub returns a hub ready for Run.  onAccept may be nil.
func NewHub(onAccept func(DriverAccept)) *Hub {
	return &Hub{
		connections: make(map[*Client]bool),
		drivers:     make(map[string]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan message, 256),
		onAccept:    onAccept,
	}
}

// Run drives the hub loop.  It owns the connection and driver maps for
// writes; readers go through the RWMutex.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.connections[client] = true
			total := len(h.connections)
			h.mu.Unlock()
			log.Printf("relay: peer connected (total: %d)", total)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.connections[client]; ok {
				delete(h.connections, client)
				close(client.send)
				// Drop any driver binding pointing at this connection.
				for id, c := range h.drivers {
					if c == client {
						delete(h.drivers, id)
					}
				}
			}
			total := len(h.connections)
			h.mu.Unlock()
			log.Printf("relay: peer disconnected (total: %d)", total)

		case msg := <-h.broadcast:
			h.mu.RLock()
			if msg.target != nil {
				// The target may have unregistered between enqueue and
				// delivery; its send channel is closed then.
				if h.connections[msg.target] {
					h.deliver(msg.target, msg.payload)
				}
			} else {
				for client := range h.connections {
					if client == msg.exclude {
						continue
					}
					h.deliver(client, msg.payload)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// deliver writes to one client without blocking the hub loop.  A slow
// consumer whose buffer is full simply misses the message.
func (h *Hub) deliver(client *Client, payload any) {
	select {
	case client.send <- payload:
	default:
		log.Printf("relay: send buffer full, dropping message")
	}
}

// BindDriver associates driverID with the given connection, replacing any
// previous binding for that id.
func (h *Hub) BindDriver(driverID string, client *Client) {
	if driverID == "" {
		return
	}
	h.mu.Lock()
	h.drivers[driverID] = client
	h.mu.Unlock()
}

// Broadcast fans payload out to every connection except exclude.
func (h *Hub) Broadcast(payload any, exclude *Client) {
	h.broadcast <- message{payload: payload, exclude: exclude}
}

// SendToDriver delivers payload to the connection bound to driverID.  An
// unknown driver id drops the message silently.
func (h *Hub) SendToDriver(driverID string, payload any) {
	h.mu.RLock()
	client, ok := h.drivers[driverID]
	h.mu.RUnlock()
	if !ok {
		log.Printf("relay: driver %s not connected, dropping message", driverID)
		return
	}
	h.broadcast <- message{payload: payload, target: client}
}

// DriverOnline reports whether a connection is currently bound to
// driverID.
func (h *Hub) DriverOnline(driverID string) bool {
	h.mu.RLock()
	_, ok := h.drivers[driverID]
	h.mu.RUnlock()
	return ok
}

func (h *Hub) handleAccept(ev DriverAccept) {
	if h.onAccept != nil {
		h.onAccept(ev)
	}
}
