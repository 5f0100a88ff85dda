package response

import (
	"time"

	"github.com/numduel/numduel/internal/model"
	"github.com/numduel/numduel/internal/services/solo"
)

// CreatedSession is the response for session creation
type CreatedSession struct {
	SessionID string `json:"sessionId"`
}

// OpenSession represents one joinable session in the lobby listing
type OpenSession struct {
	SessionID       string    `json:"sessionId"`
	HostDisplayName string    `json:"hostDisplayName"`
	CreatedAt       time.Time `json:"createdAt"`
}

// OpenSessionList wraps the lobby listing
type OpenSessionList struct {
	Sessions []OpenSession `json:"sessions"`
}

// OpenSessionListFromModel converts the storage projection
func OpenSessionListFromModel(open []model.OpenSession) OpenSessionList {
	sessions := make([]OpenSession, len(open))
	for i, s := range open {
		sessions[i] = OpenSession{
			SessionID:       string(s.ID),
			HostDisplayName: s.HostDisplayName,
			CreatedAt:       s.CreatedAt,
		}
	}
	return OpenSessionList{Sessions: sessions}
}

// SoloGame is the response for solo game creation and state requests
type SoloGame struct {
	GameID     string              `json:"gameId"`
	PlayerName string              `json:"playerName"`
	GuessCount int                 `json:"guessCount"`
	History    []model.GuessRecord `json:"history"`
	Over       bool                `json:"over"`
	Won        bool                `json:"won"`
}

// SoloGameFromModel converts a solo game
func SoloGameFromModel(g *solo.Game) SoloGame {
	history := g.History
	if history == nil {
		history = []model.GuessRecord{}
	}
	return SoloGame{
		GameID:     string(g.ID),
		PlayerName: g.PlayerName,
		GuessCount: g.GuessCount,
		History:    history,
		Over:       g.Over(),
		Won:        g.Won,
	}
}

// SoloGuessResult is the response for a solo guess
type SoloGuessResult struct {
	Guess    []int          `json:"guess"`
	Feedback model.Feedback `json:"feedback"`
	Won      bool           `json:"won"`
	Summary  *solo.Summary  `json:"summary,omitempty"` // Present once the game ends
}

// SoloForfeitResult is the response for a forfeit: the summary reveals the secret
type SoloForfeitResult struct {
	Summary solo.Summary `json:"summary"`
}
