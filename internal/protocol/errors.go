package protocol

import (
	"errors"

	"github.com/numduel/numduel/internal/model"
)

// Wire error codes
const (
	CodeInvalidDigits    = "INVALID_DIGITS"
	CodeNotYourTurn      = "NOT_YOUR_TURN"
	CodeWrongState       = "WRONG_STATE"
	CodeGameOver         = "GAME_OVER"
	CodeSessionNotFound  = "SESSION_NOT_FOUND"
	CodeSessionFull      = "SESSION_FULL"
	CodeNotInSession     = "NOT_IN_SESSION"
	CodeAlreadyInSession = "ALREADY_IN_SESSION"
	CodeRecoveryMismatch = "RECOVERY_MISMATCH"
	CodeBadMessage       = "BAD_MESSAGE"
	CodeInternal         = "INTERNAL"
)

// ErrorFrom maps a rejection to the outbound error signal sent to the
// originating connection. All rejections are local and non-fatal.
func ErrorFrom(err error) Outbound {
	switch {
	case errors.Is(err, model.ErrInvalidDigits):
		return NewError(CodeInvalidDigits, "sequence must be exactly 5 digits in 0-9")
	case errors.Is(err, model.ErrNotYourTurn):
		return NewError(CodeNotYourTurn, "not your turn")
	case errors.Is(err, model.ErrWrongState):
		return NewError(CodeWrongState, "game not in correct state")
	case errors.Is(err, model.ErrGameOver):
		return NewError(CodeGameOver, "game over")
	case errors.Is(err, model.ErrSessionNotFound):
		return NewError(CodeSessionNotFound, "session not found")
	case errors.Is(err, model.ErrSessionFull):
		return NewError(CodeSessionFull, "session already has two players")
	case errors.Is(err, model.ErrPlayerNotFound):
		return NewError(CodeNotInSession, "not bound to this session")
	case errors.Is(err, model.ErrRecoveryMismatch):
		return NewError(CodeRecoveryMismatch, "recovery failed")
	default:
		return NewError(CodeInternal, "internal error")
	}
}
