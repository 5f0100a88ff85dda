package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/numduel/numduel/internal/model"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// Test: Complete duel flow from session creation to a win
func (s *IntegrationSuite) TestCompleteDuelFlow() {
	s.app.MockRandom.QueueString("alice-id", "bob-id")

	// Step 1: Create a session and fill both seats
	sess, alice, err := s.app.SessionController.Create(s.ctx, "GAME01", "Alice")
	s.Require().NoError(err)
	s.Equal(model.StatusAwaitingPlayers, sess.Status)

	sess, bob, err := s.app.SessionController.Join(s.ctx, "GAME01", "Bob")
	s.Require().NoError(err)
	s.Equal(model.StatusAwaitingSecrets, sess.Status)

	// Step 2: Both players commit secrets; the creator moves first
	_, started, err := s.app.SessionController.SubmitSecret(s.ctx, "GAME01", alice.ID, []int{1, 7, 3, 9, 5})
	s.Require().NoError(err)
	s.False(started)
	sess, started, err = s.app.SessionController.SubmitSecret(s.ctx, "GAME01", bob.ID, []int{2, 4, 6, 8, 0})
	s.Require().NoError(err)
	s.True(started)
	s.Equal(alice.ID, sess.TurnHolder)

	// Step 3: Exchange a round of guesses
	sess, record, err := s.app.SessionController.Guess(s.ctx, "GAME01", alice.ID, []int{0, 2, 4, 6, 8})
	s.Require().NoError(err)
	s.Equal(0, record.Feedback.ExactMatches)
	s.Equal(5, record.Feedback.ValueMatches)
	s.Equal(bob.ID, sess.TurnHolder)

	sess, _, err = s.app.SessionController.Guess(s.ctx, "GAME01", bob.ID, []int{1, 7, 3, 9, 4})
	s.Require().NoError(err)
	s.Equal(alice.ID, sess.TurnHolder)

	// Step 4: Alice finds Bob's number
	sess, record, err = s.app.SessionController.Guess(s.ctx, "GAME01", alice.ID, []int{2, 4, 6, 8, 0})
	s.Require().NoError(err)
	s.Equal(5, record.Feedback.ExactMatches)
	s.Equal(model.StatusFinished, sess.Status)
	s.Equal(alice.ID, sess.Winner)

	// Step 5: Each player's final view reveals the opponent's secret
	aliceView := sess.ViewFor(alice.ID)
	s.Equal(model.Secret{2, 4, 6, 8, 0}, aliceView.OpponentSecret)
	bobView := sess.ViewFor(bob.ID)
	s.Equal(model.Secret{1, 7, 3, 9, 5}, bobView.OpponentSecret)
}

// Test: Lobby listing tracks seat availability
func (s *IntegrationSuite) TestLobbyTracksOpenSeats() {
	s.app.MockRandom.QueueString("alice-id")
	_, _, err := s.app.SessionController.Create(s.ctx, "GAME01", "Alice")
	s.Require().NoError(err)

	open, err := s.app.SessionController.ListOpen(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(open, 1)
	s.Equal(model.SessionID("GAME01"), open[0].ID)

	s.app.MockRandom.QueueString("bob-id")
	_, _, err = s.app.SessionController.Join(s.ctx, "GAME01", "Bob")
	s.Require().NoError(err)

	open, err = s.app.SessionController.ListOpen(s.ctx)
	s.Require().NoError(err)
	s.Empty(open)
}

// Test: Complete solo flow from start to a win
func (s *IntegrationSuite) TestCompleteSoloFlow() {
	s.app.MockRandom.QueueString("game-1")
	s.app.MockRandom.QueueDigits([]int{8, 6, 7, 5, 3})

	game := s.app.SoloService.Start("Alice")

	record, game, err := s.app.SoloService.Guess(game.ID, []int{3, 5, 7, 6, 8})
	s.Require().NoError(err)
	s.Equal(1, record.Feedback.ExactMatches)
	s.Equal(5, record.Feedback.ValueMatches)
	s.False(game.Won)

	s.app.MockClock.Advance(time.Minute)

	_, game, err = s.app.SoloService.Guess(game.ID, []int{8, 6, 7, 5, 3})
	s.Require().NoError(err)
	s.True(game.Won)

	summary := s.app.SoloService.Summarize(game)
	s.Equal(model.Secret{8, 6, 7, 5, 3}, summary.Secret)
	s.Equal(2, summary.GuessCount)
	s.Equal(time.Minute, summary.Elapsed)
}
