package model

import "time"

// SessionID is the short joinable code identifying a game session
type SessionID string

// SecretLength is the fixed length of secrets and guesses
const SecretLength = 5

// Secret is a player's hidden ordered digit sequence (digits 0-9, duplicates
// allowed). Nil means not yet committed.
type Secret []int

// HasDuplicates reports whether any digit appears more than once
func (s Secret) HasDuplicates() bool {
	var seen [10]bool
	for _, d := range s {
		if seen[d] {
			return true
		}
		seen[d] = true
	}
	return false
}

// SessionStatus represents the current phase of a session
type SessionStatus string

const (
	StatusAwaitingPlayers SessionStatus = "awaiting-players" // One player bound, slot open
	StatusAwaitingSecrets SessionStatus = "awaiting-secrets" // Both bound, secrets pending
	StatusActive          SessionStatus = "active"           // Both secrets set, guessing
	StatusFinished        SessionStatus = "finished"         // A winning guess landed
	StatusAbandoned       SessionStatus = "abandoned"        // Grace period expired
)

// Feedback is the score for one guess against a secret
type Feedback struct {
	ExactMatches int `json:"exactMatches"` // Same digit, same position
	ValueMatches int `json:"valueMatches"` // Multiset intersection size
}

// GuessRecord is one scored guess. Immutable once created.
type GuessRecord struct {
	AuthorID  PlayerID  `json:"authorId"`
	Guess     []int     `json:"guess"`
	Feedback  Feedback  `json:"feedback"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is one game's authoritative state
type Session struct {
	ID      SessionID
	PlayerA Player
	PlayerB *Player // nil until the second player joins

	SecretA Secret
	SecretB Secret

	TurnHolder PlayerID // Fixed to PlayerA at activation, then alternates
	HistoryA   []GuessRecord
	HistoryB   []GuessRecord

	Status SessionStatus
	Winner PlayerID // Empty until finished

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPlayer reports whether the identity is bound to this session
func (s *Session) HasPlayer(id PlayerID) bool {
	return s.PlayerA.ID == id || (s.PlayerB != nil && s.PlayerB.ID == id)
}

// PlayerByName returns the bound player with the given display name, or nil
func (s *Session) PlayerByName(name string) *Player {
	if s.PlayerA.DisplayName == name {
		return &s.PlayerA
	}
	if s.PlayerB != nil && s.PlayerB.DisplayName == name {
		return s.PlayerB
	}
	return nil
}

// Opponent returns the other bound player, or nil if there is none
func (s *Session) Opponent(id PlayerID) *Player {
	if s.PlayerA.ID == id {
		return s.PlayerB
	}
	if s.PlayerB != nil && s.PlayerB.ID == id {
		return &s.PlayerA
	}
	return nil
}

// SecretOf returns the secret committed by the given player
func (s *Session) SecretOf(id PlayerID) Secret {
	if s.PlayerA.ID == id {
		return s.SecretA
	}
	if s.PlayerB != nil && s.PlayerB.ID == id {
		return s.SecretB
	}
	return nil
}

// HistoryOf returns the guess history authored by the given player
func (s *Session) HistoryOf(id PlayerID) []GuessRecord {
	if s.PlayerA.ID == id {
		return s.HistoryA
	}
	if s.PlayerB != nil && s.PlayerB.ID == id {
		return s.HistoryB
	}
	return nil
}

// Terminal reports whether the session can no longer accept moves
func (s *Session) Terminal() bool {
	return s.Status == StatusFinished || s.Status == StatusAbandoned
}

// OpenSession is the lobby-listing projection of a joinable session
type OpenSession struct {
	ID              SessionID `json:"sessionId"`
	HostDisplayName string    `json:"hostDisplayName"`
	CreatedAt       time.Time `json:"createdAt"`
}
