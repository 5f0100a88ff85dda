// Package protocol defines the tagged wire messages exchanged over a game
// connection. Each message is a discriminated union: a type tag plus a fixed
// payload schema per tag, validated at the boundary before any session state
// is touched.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/numduel/numduel/internal/model"
)

// InboundType tags client-to-server messages
type InboundType string

const (
	InboundJoin          InboundType = "join"
	InboundSubmitSecrets InboundType = "submitSecrets"
	InboundGuess         InboundType = "guess"
	InboundRecover       InboundType = "recover"
	InboundGetState      InboundType = "getState"
)

// Inbound is the envelope for client-to-server messages
type Inbound struct {
	Type    InboundType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// JoinPayload carries a join request
type JoinPayload struct {
	SessionID   string `json:"sessionId"`
	DisplayName string `json:"displayName"`
}

// DigitsPayload carries a 5-digit sequence for secrets and guesses
type DigitsPayload struct {
	Digits []int `json:"digits"`
}

// RecoverPayload carries a reconnection request
type RecoverPayload struct {
	SessionID   string `json:"sessionId"`
	DisplayName string `json:"displayName"`
}

// DecodeJoin parses and validates a join payload
func (m *Inbound) DecodeJoin() (*JoinPayload, error) {
	var p JoinPayload
	if err := json.Unmarshal(m.Payload, &p); err != nil {
		return nil, fmt.Errorf("malformed join payload: %w", err)
	}
	if p.SessionID == "" || p.DisplayName == "" {
		return nil, fmt.Errorf("join requires sessionId and displayName")
	}
	return &p, nil
}

// DecodeDigits parses a digits payload. Shape validation (length, range) is
// left to the scoring engine so the rules live in one place.
func (m *Inbound) DecodeDigits() (*DigitsPayload, error) {
	var p DigitsPayload
	if err := json.Unmarshal(m.Payload, &p); err != nil {
		return nil, fmt.Errorf("malformed digits payload: %w", err)
	}
	return &p, nil
}

// DecodeRecover parses and validates a recover payload
func (m *Inbound) DecodeRecover() (*RecoverPayload, error) {
	var p RecoverPayload
	if err := json.Unmarshal(m.Payload, &p); err != nil {
		return nil, fmt.Errorf("malformed recover payload: %w", err)
	}
	if p.SessionID == "" || p.DisplayName == "" {
		return nil, fmt.Errorf("recover requires sessionId and displayName")
	}
	return &p, nil
}

// OutboundType tags server-to-client messages
type OutboundType string

const (
	OutboundPlayerJoined       OutboundType = "player-joined"
	OutboundBothPresent        OutboundType = "both-present"
	OutboundSecretsPending     OutboundType = "secrets-pending"
	OutboundGameStarted        OutboundType = "game-started"
	OutboundGuessResult        OutboundType = "guess-result"
	OutboundGameOver           OutboundType = "game-over"
	OutboundPlayerDisconnected OutboundType = "player-disconnected"
	OutboundPlayerReconnected  OutboundType = "player-reconnected"
	OutboundSessionAbandoned   OutboundType = "session-abandoned"
	OutboundStateSnapshot      OutboundType = "stateSnapshot"
	OutboundRecoveryResult     OutboundType = "recovery-result"
	OutboundError              OutboundType = "error"
)

// Outbound is the envelope for server-to-client messages
type Outbound struct {
	Type    OutboundType `json:"type"`
	Payload any          `json:"payload,omitempty"`
}

// PlayerJoinedPayload announces a player binding to the session
type PlayerJoinedPayload struct {
	DisplayName string `json:"displayName"`
}

// SecretsPendingPayload reports one side has committed while the other has not
type SecretsPendingPayload struct {
	DisplayName string `json:"displayName"` // Who has committed
}

// GuessResultPayload carries a scored guess to the room
type GuessResultPayload struct {
	DisplayName string         `json:"displayName"`
	Guess       []int          `json:"guess"`
	Feedback    model.Feedback `json:"feedback"`
}

// GameOverPayload announces the winner and, only now, both revealed secrets
type GameOverPayload struct {
	WinnerName string       `json:"winnerName"`
	SecretA    model.Secret `json:"secretA"`
	SecretB    model.Secret `json:"secretB"`
}

// DisconnectPayload notifies the opponent a player dropped
type DisconnectPayload struct {
	DisplayName       string `json:"displayName"`
	GracePeriodActive bool   `json:"gracePeriodActive"`
}

// ReconnectPayload notifies the opponent a player returned
type ReconnectPayload struct {
	DisplayName string `json:"displayName"`
}

// RecoveryResultPayload answers a recover request. On failure the caller is
// expected to fall back to a fresh join.
type RecoveryResultPayload struct {
	Success bool              `json:"success"`
	State   *model.PlayerView `json:"state,omitempty"`
}

// ErrorPayload signals a rejected action back to the originating connection
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewSnapshot wraps a per-player view as a stateSnapshot message
func NewSnapshot(view model.PlayerView) Outbound {
	return Outbound{Type: OutboundStateSnapshot, Payload: view}
}

// NewError wraps a rejection signal
func NewError(code, message string) Outbound {
	return Outbound{Type: OutboundError, Payload: ErrorPayload{Code: code, Message: message}}
}
