package model

import "errors"

// Common errors used across the application
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionFull     = errors.New("session already has two players")
	ErrPlayerNotFound  = errors.New("player not bound to session")

	// Validation errors
	ErrInvalidDigits = errors.New("sequence must be exactly 5 digits in 0-9")

	// State machine errors
	ErrNotYourTurn = errors.New("not your turn")
	ErrWrongState  = errors.New("game not in correct state")
	ErrGameOver    = errors.New("game over")

	// Recovery errors
	ErrRecoveryMismatch = errors.New("display name does not match a bound player")
	ErrAlreadyConnected = errors.New("player already has a live connection")

	// Solo errors
	ErrSoloGameNotFound = errors.New("solo game not found")
	ErrSoloGameOver     = errors.New("solo game already over")
)
