package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/numduel/numduel/internal/dependencies/clock"
	"github.com/numduel/numduel/internal/dependencies/random"
	"github.com/numduel/numduel/internal/model"
	"github.com/numduel/numduel/internal/services/scoring"
	"github.com/numduel/numduel/internal/storage"
)

const (
	// SessionIDLength is the length of generated session codes
	SessionIDLength = 6
	// SessionIDAlphabet is the characters used in session codes
	SessionIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// PlayerIDLength is the length of generated player ids
	PlayerIDLength = 12
	// PlayerIDAlphabet is the characters used in player ids
	PlayerIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Controller owns the session state machine: creation, joining, secret
// commitment, turn-gated guessing, win detection, and abandonment. It never
// leaves a session partially mutated: every rejection happens before the
// first write.
type Controller struct {
	storage storage.Storage
	scoring *scoring.Service
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewController creates a new session Controller
func NewController(
	storage storage.Storage,
	scoringService *scoring.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		scoring: scoringService,
		clock:   clock,
		random:  random,
		logger:  logger.With(slog.String("component", "session")),
	}
}

// NewSessionID generates a session code, collision-checked against the registry
func (c *Controller) NewSessionID(ctx context.Context) (model.SessionID, error) {
	for {
		id := model.SessionID(c.random.String(SessionIDLength, SessionIDAlphabet))
		exists, err := c.storage.SessionExists(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
}

// Create registers a new session with the given host as player A. The host
// holds the first move once the game activates.
func (c *Controller) Create(ctx context.Context, id model.SessionID, hostName string) (*model.Session, *model.Player, error) {
	exists, err := c.storage.SessionExists(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, model.ErrSessionFull
	}

	now := c.clock.Now()
	host := model.Player{
		ID:          model.PlayerID(c.random.String(PlayerIDLength, PlayerIDAlphabet)),
		DisplayName: hostName,
	}

	session := &model.Session{
		ID:        id,
		PlayerA:   host,
		Status:    model.StatusAwaitingPlayers,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, nil, err
	}

	c.logger.Info("session created",
		slog.String("session_id", string(id)),
		slog.String("host", hostName),
	)

	return session, &host, nil
}

// Join binds a second player to an open session. The session transitions to
// awaiting-secrets the instant the slot is filled.
func (c *Controller) Join(ctx context.Context, id model.SessionID, displayName string) (*model.Session, *model.Player, error) {
	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if session.PlayerB != nil || session.Status != model.StatusAwaitingPlayers {
		return nil, nil, model.ErrSessionFull
	}

	player := model.Player{
		ID:          model.PlayerID(c.random.String(PlayerIDLength, PlayerIDAlphabet)),
		DisplayName: displayName,
	}
	session.PlayerB = &player
	session.Status = model.StatusAwaitingSecrets
	session.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, nil, err
	}

	c.logger.Info("player joined session",
		slog.String("session_id", string(id)),
		slog.String("player", displayName),
	)

	return session, &player, nil
}

// SubmitSecret commits a player's secret. Overwriting is allowed until both
// secrets are set; the moment both are non-nil the session activates and the
// creator holds the turn. Returns whether this call started the game.
func (c *Controller) SubmitSecret(ctx context.Context, id model.SessionID, playerID model.PlayerID, digits []int) (*model.Session, bool, error) {
	if err := scoring.ValidateDigits(digits); err != nil {
		return nil, false, err
	}

	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if !session.HasPlayer(playerID) {
		return nil, false, model.ErrPlayerNotFound
	}
	if session.Terminal() {
		return nil, false, model.ErrGameOver
	}
	if session.Status != model.StatusAwaitingSecrets {
		return nil, false, model.ErrWrongState
	}

	secret := make(model.Secret, len(digits))
	copy(secret, digits)
	if session.PlayerA.ID == playerID {
		session.SecretA = secret
	} else {
		session.SecretB = secret
	}

	started := false
	if session.SecretA != nil && session.SecretB != nil {
		session.Status = model.StatusActive
		session.TurnHolder = session.PlayerA.ID
		started = true
	}
	session.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, false, err
	}

	if started {
		c.logger.Info("game started",
			slog.String("session_id", string(id)),
			slog.String("first_mover", string(session.TurnHolder)),
		)
	}

	return session, started, nil
}

// Guess evaluates a turn-gated guess against the opponent's secret. A winning
// guess (all five exact) finishes the session without flipping the turn; any
// other accepted guess passes the turn to the opponent.
func (c *Controller) Guess(ctx context.Context, id model.SessionID, playerID model.PlayerID, digits []int) (*model.Session, *model.GuessRecord, error) {
	if err := scoring.ValidateDigits(digits); err != nil {
		return nil, nil, err
	}

	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !session.HasPlayer(playerID) {
		return nil, nil, model.ErrPlayerNotFound
	}
	if session.Terminal() {
		return nil, nil, model.ErrGameOver
	}
	if session.Status != model.StatusActive {
		return nil, nil, model.ErrWrongState
	}
	if session.TurnHolder != playerID {
		return nil, nil, model.ErrNotYourTurn
	}

	opponent := session.Opponent(playerID)
	guess := make([]int, len(digits))
	copy(guess, digits)

	record := model.GuessRecord{
		AuthorID:  playerID,
		Guess:     guess,
		Feedback:  c.scoring.Score(guess, session.SecretOf(opponent.ID)),
		Timestamp: c.clock.Now(),
	}

	if session.PlayerA.ID == playerID {
		session.HistoryA = append(session.HistoryA, record)
	} else {
		session.HistoryB = append(session.HistoryB, record)
	}

	if scoring.IsWinning(record.Feedback) {
		session.Status = model.StatusFinished
		session.Winner = playerID
		c.logger.Info("game won",
			slog.String("session_id", string(id)),
			slog.String("winner", string(playerID)),
		)
	} else {
		session.TurnHolder = opponent.ID
	}
	session.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, nil, err
	}

	return session, &record, nil
}

// MarkAbandoned terminally marks a session whose grace period expired.
// Idempotent: already-terminal sessions are returned unchanged.
func (c *Controller) MarkAbandoned(ctx context.Context, id model.SessionID) (*model.Session, error) {
	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Terminal() {
		return session, nil
	}

	session.Status = model.StatusAbandoned
	session.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info("session abandoned", slog.String("session_id", string(id)))
	return session, nil
}

// Get retrieves a session by id
func (c *Controller) Get(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return c.storage.GetSession(ctx, id)
}

// Delete removes a session from the registry
func (c *Controller) Delete(ctx context.Context, id model.SessionID) error {
	return c.storage.DeleteSession(ctx, id)
}

// ListOpen returns joinable sessions for lobby display
func (c *Controller) ListOpen(ctx context.Context) ([]model.OpenSession, error) {
	return c.storage.ListOpenSessions(ctx)
}

// IsNotFound reports whether the error means the session does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, model.ErrSessionNotFound)
}

// Interface for dependency injection
type ControllerInterface interface {
	NewSessionID(ctx context.Context) (model.SessionID, error)
	Create(ctx context.Context, id model.SessionID, hostName string) (*model.Session, *model.Player, error)
	Join(ctx context.Context, id model.SessionID, displayName string) (*model.Session, *model.Player, error)
	SubmitSecret(ctx context.Context, id model.SessionID, playerID model.PlayerID, digits []int) (*model.Session, bool, error)
	Guess(ctx context.Context, id model.SessionID, playerID model.PlayerID, digits []int) (*model.Session, *model.GuessRecord, error)
	MarkAbandoned(ctx context.Context, id model.SessionID) (*model.Session, error)
	Get(ctx context.Context, id model.SessionID) (*model.Session, error)
	Delete(ctx context.Context, id model.SessionID) error
	ListOpen(ctx context.Context) ([]model.OpenSession, error)
}

var _ ControllerInterface = (*Controller)(nil)
