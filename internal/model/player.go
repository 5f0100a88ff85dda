package model

// PlayerID uniquely identifies a player within a session. It is assigned at
// join time and is stable across reconnections; it is deliberately distinct
// from the transport connection identifier.
type PlayerID string

// ConnectionID identifies a single live transport connection. A player may be
// served by many connections over time (one at a time), never the reverse.
type ConnectionID string

// Player represents a participant in a session.
type Player struct {
	ID          PlayerID
	DisplayName string
}
