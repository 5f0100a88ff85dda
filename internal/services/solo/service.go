package solo

import (
	"log/slog"
	"sync"
	"time"

	"github.com/numduel/numduel/internal/dependencies/clock"
	"github.com/numduel/numduel/internal/dependencies/random"
	"github.com/numduel/numduel/internal/model"
	"github.com/numduel/numduel/internal/services/scoring"
)

// GameID identifies a single-player game
type GameID string

const (
	gameIDLength   = 12
	gameIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Game is a single-player round against a hidden random secret. There is no
// turn concept: the sole player always moves.
type Game struct {
	ID         GameID
	PlayerName string
	secret     model.Secret
	History    []model.GuessRecord
	StartedAt  time.Time
	GuessCount int
	Won        bool
	Forfeited  bool
}

// Over reports whether the game has ended (win or forfeit)
func (g *Game) Over() bool {
	return g.Won || g.Forfeited
}

// Summary is the end-of-game display data
type Summary struct {
	ID         GameID        `json:"gameId"`
	PlayerName string        `json:"playerName"`
	Won        bool          `json:"won"`
	Secret     model.Secret  `json:"secret,omitempty"` // Revealed once the game is over
	GuessCount int           `json:"guessCount"`
	Elapsed    time.Duration `json:"elapsed"`
}

// Service manages single-player games. Games are ephemeral process-local
// state: they need none of the session machinery and are never persisted.
type Service struct {
	mu      sync.RWMutex
	games   map[GameID]*Game
	scoring *scoring.Service
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new solo Service
func New(scoringService *scoring.Service, clk clock.Clock, rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		games:   make(map[GameID]*Game),
		scoring: scoringService,
		clock:   clk,
		random:  rnd,
		logger:  logger.With(slog.String("component", "solo")),
	}
}

// Start begins a new game with a freshly drawn random secret
func (s *Service) Start(playerName string) *Game {
	game := &Game{
		ID:         GameID(s.random.String(gameIDLength, gameIDAlphabet)),
		PlayerName: playerName,
		secret:     s.random.Digits(model.SecretLength),
		StartedAt:  s.clock.Now(),
	}

	s.mu.Lock()
	s.games[game.ID] = game
	s.mu.Unlock()

	s.logger.Info("solo game started",
		slog.String("game_id", string(game.ID)),
		slog.String("player", playerName),
	)
	return game
}

// Get returns a game by id
func (s *Service) Get(id GameID) (*Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrSoloGameNotFound
	}
	return game, nil
}

// Guess scores a guess against the fixed secret and records it. A guess with
// all five digits in place wins and ends the game.
func (s *Service) Guess(id GameID, digits []int) (*model.GuessRecord, *Game, error) {
	if err := scoring.ValidateDigits(digits); err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	game, ok := s.games[id]
	if !ok {
		return nil, nil, model.ErrSoloGameNotFound
	}
	if game.Over() {
		return nil, nil, model.ErrSoloGameOver
	}

	guess := make([]int, len(digits))
	copy(guess, digits)

	record := model.GuessRecord{
		Guess:     guess,
		Feedback:  s.scoring.Score(guess, game.secret),
		Timestamp: s.clock.Now(),
	}
	game.History = append(game.History, record)
	game.GuessCount++

	if scoring.IsWinning(record.Feedback) {
		game.Won = true
		s.logger.Info("solo game won",
			slog.String("game_id", string(id)),
			slog.Int("guesses", game.GuessCount),
		)
	}

	return &record, game, nil
}

// Forfeit ends the game without a win, revealing the secret
func (s *Service) Forfeit(id GameID) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrSoloGameNotFound
	}
	if game.Over() {
		return nil, model.ErrSoloGameOver
	}

	game.Forfeited = true
	s.logger.Info("solo game forfeited", slog.String("game_id", string(id)))
	return game, nil
}

// Summarize builds the end-of-game display data. The secret is revealed only
// once the game is over.
func (s *Service) Summarize(game *Game) Summary {
	summary := Summary{
		ID:         game.ID,
		PlayerName: game.PlayerName,
		Won:        game.Won,
		GuessCount: game.GuessCount,
		Elapsed:    s.clock.Now().Sub(game.StartedAt),
	}
	if game.Over() {
		summary.Secret = game.secret
	}
	return summary
}

// Remove drops a finished game from the registry
func (s *Service) Remove(id GameID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
}
