package coordinator

import (
	"sync"

	"github.com/numduel/numduel/internal/model"
)

// Binding maps one live transport connection to a session membership.
// Connection identity and player identity are distinct: a player keeps their
// PlayerID across reconnections while the ConnectionID changes every time.
type Binding struct {
	ConnID      model.ConnectionID
	SessionID   model.SessionID
	PlayerID    model.PlayerID
	DisplayName string
}

// Bound reports whether the connection has joined a session
func (b *Binding) Bound() bool {
	return b != nil && b.SessionID != ""
}

// BindingRegistry tracks live connections and which player each one serves.
// Created on connect, mutated on join/recovery, destroyed on disconnect.
type BindingRegistry struct {
	mu        sync.RWMutex
	byConn    map[model.ConnectionID]*Binding
	bySession map[model.SessionID]map[model.PlayerID]model.ConnectionID
}

// NewBindingRegistry creates an empty registry
func NewBindingRegistry() *BindingRegistry {
	return &BindingRegistry{
		byConn:    make(map[model.ConnectionID]*Binding),
		bySession: make(map[model.SessionID]map[model.PlayerID]model.ConnectionID),
	}
}

// Connect registers a fresh, unbound connection
func (r *BindingRegistry) Connect(connID model.ConnectionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byConn[connID]; !ok {
		r.byConn[connID] = &Binding{ConnID: connID}
	}
}

// Get returns the binding for a connection, or nil if unknown
func (r *BindingRegistry) Get(connID model.ConnectionID) *Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byConn[connID]
}

// Bind attaches a connection to a session as the given player. Any previous
// connection serving that player is superseded.
func (r *BindingRegistry) Bind(connID model.ConnectionID, sessionID model.SessionID, playerID model.PlayerID, displayName string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.byConn[connID]
	if b == nil {
		b = &Binding{ConnID: connID}
		r.byConn[connID] = b
	}
	b.SessionID = sessionID
	b.PlayerID = playerID
	b.DisplayName = displayName

	conns := r.bySession[sessionID]
	if conns == nil {
		conns = make(map[model.PlayerID]model.ConnectionID)
		r.bySession[sessionID] = conns
	}
	conns[playerID] = connID
}

// Drop removes a connection, returning its binding (nil if unknown). The
// session-side mapping is cleared only if this connection is still the live
// one for its player, so a recovery that superseded it is not disturbed.
func (r *BindingRegistry) Drop(connID model.ConnectionID) *Binding {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.byConn[connID]
	if b == nil {
		return nil
	}
	delete(r.byConn, connID)

	if b.SessionID != "" {
		if conns := r.bySession[b.SessionID]; conns != nil && conns[b.PlayerID] == connID {
			delete(conns, b.PlayerID)
			if len(conns) == 0 {
				delete(r.bySession, b.SessionID)
			}
		}
	}
	return b
}

// LiveConn returns the live connection serving a player, if any
func (r *BindingRegistry) LiveConn(sessionID model.SessionID, playerID model.PlayerID) (model.ConnectionID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	connID, ok := r.bySession[sessionID][playerID]
	return connID, ok
}

// LiveCount returns how many players of a session have a live connection
func (r *BindingRegistry) LiveCount(sessionID model.SessionID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bySession[sessionID])
}
