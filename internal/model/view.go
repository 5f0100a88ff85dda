package model

// PlayerView is the projection of a Session visible to a single identity.
// It never carries the opponent's secret while the game is in progress.
type PlayerView struct {
	SessionID SessionID     `json:"sessionId"`
	Status    SessionStatus `json:"status"`

	PlayerID        PlayerID `json:"playerId"`
	DisplayName     string   `json:"displayName"`
	OpponentName    string   `json:"opponentName,omitempty"`
	OpponentPresent bool     `json:"opponentPresent"`

	MySecret        Secret        `json:"mySecret,omitempty"`
	MyHistory       []GuessRecord `json:"myHistory"`
	OpponentHistory []GuessRecord `json:"opponentHistory"`

	IsMyTurn   bool     `json:"isMyTurn"`
	TurnHolder PlayerID `json:"turnHolder,omitempty"`
	Winner     PlayerID `json:"winner,omitempty"`

	// Set once the opponent has committed a secret containing repeats
	OpponentHasDuplicates bool `json:"opponentHasDuplicates"`

	// Populated only once the game has finished
	OpponentSecret Secret `json:"opponentSecret,omitempty"`
}

// ViewFor projects the session for one bound identity
func (s *Session) ViewFor(id PlayerID) PlayerView {
	view := PlayerView{
		SessionID:       s.ID,
		Status:          s.Status,
		PlayerID:        id,
		MySecret:        s.SecretOf(id),
		MyHistory:       s.HistoryOf(id),
		TurnHolder:      s.TurnHolder,
		IsMyTurn:        s.Status == StatusActive && s.TurnHolder == id,
		Winner:          s.Winner,
		OpponentPresent: s.PlayerB != nil,
	}

	if s.PlayerA.ID == id {
		view.DisplayName = s.PlayerA.DisplayName
	} else if s.PlayerB != nil && s.PlayerB.ID == id {
		view.DisplayName = s.PlayerB.DisplayName
	}

	opp := s.Opponent(id)
	if opp == nil {
		return view
	}

	view.OpponentName = opp.DisplayName
	view.OpponentHistory = s.HistoryOf(opp.ID)

	oppSecret := s.SecretOf(opp.ID)
	if oppSecret != nil {
		view.OpponentHasDuplicates = oppSecret.HasDuplicates()
	}
	if s.Status == StatusFinished {
		view.OpponentSecret = oppSecret
	}

	return view
}
