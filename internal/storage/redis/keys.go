package redis

import (
	"fmt"

	"github.com/numduel/numduel/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "numduel"

// sessionKey returns the Redis key for a Session
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// openSessionsKey returns the Redis key for the SET of joinable session ids
func openSessionsKey() string {
	return fmt.Sprintf("%s:idx:open_sessions", keyPrefix)
}
