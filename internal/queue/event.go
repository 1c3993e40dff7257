// Package queue defines message payloads exchanged over the message broker.
package queue

// RideAcceptedEvent is published when a driver confirms a matched client
// over the relay.  The relay itself keeps nothing, so this queue is the
// only durable trace that a match was accepted; downstream consumers can
// log or notify without touching the relay.
type RideAcceptedEvent struct {
	DriverID   string `json:"driver_id"`
	Client     string `json:"client"`
	AcceptedAt string `json:"accepted_at"`
}
