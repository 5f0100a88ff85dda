package storage

import (
	"context"

	"github.com/numduel/numduel/internal/model"
)

// Storage defines the interface for session persistence. It is the session
// registry: init empty at process start, entries removed on cleanup. It must
// be safe for concurrent use.
type Storage interface {
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	DeleteSession(ctx context.Context, id model.SessionID) error
	SessionExists(ctx context.Context, id model.SessionID) (bool, error)

	// ListOpenSessions returns sessions still awaiting a second player,
	// for lobby display
	ListOpenSessions(ctx context.Context) ([]model.OpenSession, error)
}
