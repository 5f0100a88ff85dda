package ws

import (
	"log/slog"
	"sync"

	"github.com/numduel/numduel/internal/coordinator"
	"github.com/numduel/numduel/internal/model"
	"github.com/numduel/numduel/internal/protocol"
)

// Manager tracks live clients and session rooms. It is the coordinator's
// Sender: connection-scoped sends plus room-scoped broadcasts.
type Manager struct {
	mu      sync.RWMutex
	clients map[model.ConnectionID]*Client
	rooms   map[model.SessionID]map[model.ConnectionID]bool
	logger  *slog.Logger
}

// Ensure Manager implements the coordinator's transport interface
var _ coordinator.Sender = (*Manager)(nil)

// NewManager creates an empty Manager
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		clients: make(map[model.ConnectionID]*Client),
		rooms:   make(map[model.SessionID]map[model.ConnectionID]bool),
		logger:  logger.With(slog.String("component", "ws")),
	}
}

// add registers a connected client
func (m *Manager) add(c *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[c.id] = c
	m.logger.Info("client connected",
		slog.String("conn_id", string(c.id)),
		slog.Int("total_clients", len(m.clients)),
	)
}

// remove drops a client and clears its room memberships
func (m *Manager) remove(connID model.ConnectionID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.clients[connID]
	if !ok {
		return
	}
	delete(m.clients, connID)
	close(c.send)

	for sessionID, members := range m.rooms {
		if members[connID] {
			delete(members, connID)
			if len(members) == 0 {
				delete(m.rooms, sessionID)
			}
		}
	}

	m.logger.Info("client disconnected",
		slog.String("conn_id", string(connID)),
		slog.Int("total_clients", len(m.clients)),
	)
}

// JoinRoom adds a connection to a session's broadcast room
func (m *Manager) JoinRoom(sessionID model.SessionID, connID model.ConnectionID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	members := m.rooms[sessionID]
	if members == nil {
		members = make(map[model.ConnectionID]bool)
		m.rooms[sessionID] = members
	}
	members[connID] = true
}

// SendTo queues a message for a single connection. Messages for a slow
// client whose buffer is full are dropped rather than blocking the caller.
// The lock is held across the queueing so a concurrent remove cannot close
// the channel mid-send.
func (m *Manager) SendTo(connID model.ConnectionID, msg protocol.Outbound) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.clients[connID]
	if !ok {
		return
	}

	select {
	case c.send <- msg:
	default:
		m.logger.Warn("message dropped - client buffer full",
			slog.String("conn_id", string(connID)),
			slog.String("msg_type", string(msg.Type)),
		)
	}
}

// Broadcast queues a message for every connection in a session's room
func (m *Manager) Broadcast(sessionID model.SessionID, msg protocol.Outbound) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for connID := range m.rooms[sessionID] {
		c, ok := m.clients[connID]
		if !ok {
			continue
		}
		select {
		case c.send <- msg:
		default:
			m.logger.Warn("broadcast dropped - client buffer full",
				slog.String("conn_id", string(connID)),
				slog.String("msg_type", string(msg.Type)),
			)
		}
	}
}

// ClientCount returns the number of connected clients
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// RoomSize returns how many connections are in a session's room
func (m *Manager) RoomSize(sessionID model.SessionID) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms[sessionID])
}
