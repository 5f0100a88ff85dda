package ws

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/numduel/numduel/internal/coordinator"
	"github.com/numduel/numduel/internal/model"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// newConnectionID generates a random connection identifier
func newConnectionID() model.ConnectionID {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return model.ConnectionID(hex.EncodeToString(buf))
}

// Handler upgrades HTTP requests to websocket connections and runs each
// connection's read loop against the coordinator
func Handler(m *Manager, coord *coordinator.Coordinator, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		connID := newConnectionID()
		if connID == "" {
			http.Error(w, "unable to assign connection id", http.StatusInternalServerError)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
			return
		}

		client := newClient(connID, conn)
		m.add(client)
		coord.OnConnect(connID)

		go client.writePump()

		ctx := context.Background()
		client.readPump(func(id model.ConnectionID, raw []byte) {
			coord.Dispatch(ctx, id, raw)
		})

		m.remove(connID)
		coord.OnDisconnect(ctx, connID)
	}
}
