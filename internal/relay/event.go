// Package relay implements the live driver-tracking channel.  Connected
// peers exchange typed JSON events over a websocket; the hub fans them out
// at most once, best effort.  Nothing is persisted and nothing is replayed:
// a peer that joins late or reconnects starts from silence, and an event
// sent while its target is away is dropped.  The only durable trace is the
// ride-accepted event handed to the message queue.
package relay

import "encoding/json"

// Event names carried in the "type" field of every frame.
const (
	EventDriverTrip     = "driverTrip"
	EventDriverPosition = "driverPosition"
	EventClientMatch    = "clientMatch"
	EventDriverAccept   = "driverAccept"
)

// Envelope is the first-pass decode of an incoming frame: the type
// discriminator plus the raw payload for a second, typed decode.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// DriverTrip announces a driver's route and capacity.  The relay binds
// the sending connection to DriverID so later match events can be
// targeted, then fans the announcement out to everyone else.
type DriverTrip struct {
	DriverID string `json:"driverId"`
	From     string `json:"from"`
	To       string `json:"to"`
	Places   int    `json:"places"`
}

// DriverPosition is one GPS fix, emitted repeatedly while a driver is
// broadcasting.  The client filters by a minimum-distance threshold; the
// relay forwards every fix it receives.
type DriverPosition struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ClientMatch tells a specific driver that a client wants to ride along.
type ClientMatch struct {
	Client   string `json:"client"`
	DriverID string `json:"driverId"`
}

// DriverAccept is the driver's confirmation of a matched client.
type DriverAccept struct {
	DriverID string `json:"driverId"`
	Client   string `json:"client"`
}

// frame wraps a typed payload together with its event name for delivery.
type frame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}
