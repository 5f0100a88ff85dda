package solo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/numduel/numduel/internal/dependencies/mocks"
	"github.com/numduel/numduel/internal/model"
	"github.com/numduel/numduel/internal/services/scoring"
	"github.com/numduel/numduel/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = New(scoring.New(), s.clock, s.random, testutil.NopLogger())
}

func (s *ServiceSuite) startGame(secret []int) *Game {
	s.random.QueueString("game-1")
	s.random.QueueDigits(secret)
	return s.service.Start("Alice")
}

func (s *ServiceSuite) TestStartDrawsRandomSecret() {
	game := s.startGame([]int{3, 1, 4, 1, 5})

	s.Equal(GameID("game-1"), game.ID)
	s.Equal("Alice", game.PlayerName)
	s.Equal(0, game.GuessCount)
	s.False(game.Over())

	got, err := s.service.Get(game.ID)
	s.Require().NoError(err)
	s.Equal(game.ID, got.ID)
}

func (s *ServiceSuite) TestGetUnknownGame() {
	_, err := s.service.Get("nope")
	s.ErrorIs(err, model.ErrSoloGameNotFound)
}

func (s *ServiceSuite) TestGuessScoresAgainstSecret() {
	game := s.startGame([]int{3, 1, 4, 1, 5})

	record, got, err := s.service.Guess(game.ID, []int{1, 1, 4, 1, 9})
	s.Require().NoError(err)

	s.Equal(3, record.Feedback.ExactMatches)
	s.Equal(3, record.Feedback.ValueMatches)
	s.Equal(1, got.GuessCount)
	s.False(got.Won)
	s.Len(got.History, 1)
}

func (s *ServiceSuite) TestGuessValidatesDigits() {
	game := s.startGame([]int{3, 1, 4, 1, 5})

	_, _, err := s.service.Guess(game.ID, []int{1, 2})
	s.ErrorIs(err, model.ErrInvalidDigits)

	got, err := s.service.Get(game.ID)
	s.Require().NoError(err)
	s.Equal(0, got.GuessCount)
}

func (s *ServiceSuite) TestWinningGuessEndsGame() {
	game := s.startGame([]int{3, 1, 4, 1, 5})

	_, got, err := s.service.Guess(game.ID, []int{3, 1, 4, 1, 5})
	s.Require().NoError(err)
	s.True(got.Won)
	s.True(got.Over())

	_, _, err = s.service.Guess(game.ID, []int{3, 1, 4, 1, 5})
	s.ErrorIs(err, model.ErrSoloGameOver)
}

func (s *ServiceSuite) TestForfeitEndsGame() {
	game := s.startGame([]int{3, 1, 4, 1, 5})

	got, err := s.service.Forfeit(game.ID)
	s.Require().NoError(err)
	s.True(got.Forfeited)
	s.False(got.Won)

	_, err = s.service.Forfeit(game.ID)
	s.ErrorIs(err, model.ErrSoloGameOver)
}

func (s *ServiceSuite) TestSummaryRevealsSecretOnlyWhenOver() {
	game := s.startGame([]int{3, 1, 4, 1, 5})

	summary := s.service.Summarize(game)
	s.Nil(summary.Secret)

	s.clock.Advance(90 * time.Second)
	_, _, err := s.service.Guess(game.ID, []int{3, 1, 4, 1, 5})
	s.Require().NoError(err)

	summary = s.service.Summarize(game)
	s.Equal(model.Secret{3, 1, 4, 1, 5}, summary.Secret)
	s.True(summary.Won)
	s.Equal(1, summary.GuessCount)
	s.Equal(90*time.Second, summary.Elapsed)
}

func (s *ServiceSuite) TestRemoveDropsGame() {
	game := s.startGame([]int{3, 1, 4, 1, 5})

	s.service.Remove(game.ID)

	_, err := s.service.Get(game.ID)
	s.ErrorIs(err, model.ErrSoloGameNotFound)
}
