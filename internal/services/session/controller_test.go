package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/numduel/numduel/internal/dependencies/mocks"
	"github.com/numduel/numduel/internal/model"
	"github.com/numduel/numduel/internal/services/scoring"
	"github.com/numduel/numduel/internal/storage/memory"
	"github.com/numduel/numduel/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.controller = NewController(s.storage, scoring.New(), s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

// createActiveSession walks a session to the active state with both secrets
// committed. Alice is player A and holds the first turn.
func (s *ControllerSuite) createActiveSession(id string) (*model.Session, model.PlayerID, model.PlayerID) {
	s.random.QueueString("alice-id", "bob-id")

	sess, alice, err := s.controller.Create(s.ctx, model.SessionID(id), "Alice")
	s.Require().NoError(err)
	sess, bob, err := s.controller.Join(s.ctx, sess.ID, "Bob")
	s.Require().NoError(err)

	_, started, err := s.controller.SubmitSecret(s.ctx, sess.ID, alice.ID, []int{1, 2, 3, 4, 5})
	s.Require().NoError(err)
	s.Require().False(started)
	sess, started, err = s.controller.SubmitSecret(s.ctx, sess.ID, bob.ID, []int{5, 4, 3, 2, 1})
	s.Require().NoError(err)
	s.Require().True(started)

	return sess, alice.ID, bob.ID
}

// NewSessionID tests

func (s *ControllerSuite) TestNewSessionIDSkipsCollisions() {
	s.random.QueueString("host-id")
	_, _, err := s.controller.Create(s.ctx, "TAKEN1", "Host")
	s.Require().NoError(err)

	s.random.QueueString("TAKEN1", "FRESH2")
	id, err := s.controller.NewSessionID(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.SessionID("FRESH2"), id)
}

// Create tests

func (s *ControllerSuite) TestCreateSucceeds() {
	s.random.QueueString("alice-id")

	sess, host, err := s.controller.Create(s.ctx, "ABC123", "Alice")
	s.Require().NoError(err)

	s.Equal(model.SessionID("ABC123"), sess.ID)
	s.Equal(model.StatusAwaitingPlayers, sess.Status)
	s.Equal("Alice", sess.PlayerA.DisplayName)
	s.Equal(host.ID, sess.PlayerA.ID)
	s.Nil(sess.PlayerB)
	s.Equal(s.clock.Now(), sess.CreatedAt)
}

func (s *ControllerSuite) TestCreateRejectsDuplicateID() {
	s.random.QueueString("alice-id")
	_, _, err := s.controller.Create(s.ctx, "ABC123", "Alice")
	s.Require().NoError(err)

	_, _, err = s.controller.Create(s.ctx, "ABC123", "Bob")
	s.ErrorIs(err, model.ErrSessionFull)
}

// Join tests

func (s *ControllerSuite) TestJoinFillsSecondSeat() {
	s.random.QueueString("alice-id", "bob-id")
	_, _, err := s.controller.Create(s.ctx, "ABC123", "Alice")
	s.Require().NoError(err)

	sess, bob, err := s.controller.Join(s.ctx, "ABC123", "Bob")
	s.Require().NoError(err)

	s.Equal(model.StatusAwaitingSecrets, sess.Status)
	s.Require().NotNil(sess.PlayerB)
	s.Equal("Bob", sess.PlayerB.DisplayName)
	s.Equal(bob.ID, sess.PlayerB.ID)
}

func (s *ControllerSuite) TestJoinRejectsUnknownSession() {
	_, _, err := s.controller.Join(s.ctx, "NOPE99", "Bob")
	s.ErrorIs(err, model.ErrSessionNotFound)
	s.True(IsNotFound(err))
}

func (s *ControllerSuite) TestJoinRejectsFullSession() {
	s.random.QueueString("alice-id", "bob-id")
	_, _, err := s.controller.Create(s.ctx, "ABC123", "Alice")
	s.Require().NoError(err)
	_, _, err = s.controller.Join(s.ctx, "ABC123", "Bob")
	s.Require().NoError(err)

	_, _, err = s.controller.Join(s.ctx, "ABC123", "Carol")
	s.ErrorIs(err, model.ErrSessionFull)
}

// SubmitSecret tests

func (s *ControllerSuite) TestSubmitSecretRejectedBeforeOpponentArrives() {
	s.random.QueueString("alice-id")
	_, host, err := s.controller.Create(s.ctx, "ABC123", "Alice")
	s.Require().NoError(err)

	_, _, err = s.controller.SubmitSecret(s.ctx, "ABC123", host.ID, []int{1, 2, 3, 4, 5})
	s.ErrorIs(err, model.ErrWrongState)
}

func (s *ControllerSuite) TestSubmitSecretValidatesDigits() {
	s.random.QueueString("alice-id", "bob-id")
	_, host, err := s.controller.Create(s.ctx, "ABC123", "Alice")
	s.Require().NoError(err)
	_, _, err = s.controller.Join(s.ctx, "ABC123", "Bob")
	s.Require().NoError(err)

	_, _, err = s.controller.SubmitSecret(s.ctx, "ABC123", host.ID, []int{1, 2, 3})
	s.ErrorIs(err, model.ErrInvalidDigits)
}

func (s *ControllerSuite) TestSubmitSecretRejectsNonMember() {
	s.random.QueueString("alice-id", "bob-id")
	_, _, err := s.controller.Create(s.ctx, "ABC123", "Alice")
	s.Require().NoError(err)
	_, _, err = s.controller.Join(s.ctx, "ABC123", "Bob")
	s.Require().NoError(err)

	_, _, err = s.controller.SubmitSecret(s.ctx, "ABC123", "stranger", []int{1, 2, 3, 4, 5})
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ControllerSuite) TestSubmitSecretCanBeOverwrittenBeforeStart() {
	s.random.QueueString("alice-id", "bob-id")
	_, host, err := s.controller.Create(s.ctx, "ABC123", "Alice")
	s.Require().NoError(err)
	_, _, err = s.controller.Join(s.ctx, "ABC123", "Bob")
	s.Require().NoError(err)

	_, started, err := s.controller.SubmitSecret(s.ctx, "ABC123", host.ID, []int{1, 1, 1, 1, 1})
	s.Require().NoError(err)
	s.False(started)

	sess, started, err := s.controller.SubmitSecret(s.ctx, "ABC123", host.ID, []int{9, 8, 7, 6, 5})
	s.Require().NoError(err)
	s.False(started)
	s.Equal(model.Secret{9, 8, 7, 6, 5}, sess.SecretA)
}

func (s *ControllerSuite) TestSecondSecretStartsGameWithCreatorToMove() {
	sess, aliceID, _ := s.createActiveSession("ABC123")

	s.Equal(model.StatusActive, sess.Status)
	s.Equal(aliceID, sess.TurnHolder)
}

func (s *ControllerSuite) TestSubmitSecretRejectedOnceActive() {
	_, aliceID, _ := s.createActiveSession("ABC123")

	_, _, err := s.controller.SubmitSecret(s.ctx, "ABC123", aliceID, []int{9, 9, 9, 9, 9})
	s.ErrorIs(err, model.ErrWrongState)
}

// Guess tests

func (s *ControllerSuite) TestGuessRejectsOutOfTurn() {
	_, _, bobID := s.createActiveSession("ABC123")

	_, _, err := s.controller.Guess(s.ctx, "ABC123", bobID, []int{0, 0, 0, 0, 0})
	s.ErrorIs(err, model.ErrNotYourTurn)
}

func (s *ControllerSuite) TestGuessFlipsTurnAndRecordsHistory() {
	// Bob's secret is 5,4,3,2,1
	_, aliceID, bobID := s.createActiveSession("ABC123")

	sess, record, err := s.controller.Guess(s.ctx, "ABC123", aliceID, []int{1, 2, 3, 4, 5})
	s.Require().NoError(err)

	s.Equal(bobID, sess.TurnHolder)
	s.Equal(1, record.Feedback.ExactMatches)
	s.Equal(5, record.Feedback.ValueMatches)
	s.Require().Len(sess.HistoryA, 1)
	s.Equal(aliceID, sess.HistoryA[0].AuthorID)
	s.Empty(sess.HistoryB)
}

func (s *ControllerSuite) TestTurnsAlternate() {
	_, aliceID, bobID := s.createActiveSession("ABC123")

	sess, _, err := s.controller.Guess(s.ctx, "ABC123", aliceID, []int{0, 0, 0, 0, 0})
	s.Require().NoError(err)
	s.Equal(bobID, sess.TurnHolder)

	sess, _, err = s.controller.Guess(s.ctx, "ABC123", bobID, []int{0, 0, 0, 0, 0})
	s.Require().NoError(err)
	s.Equal(aliceID, sess.TurnHolder)
}

func (s *ControllerSuite) TestWinningGuessFinishesSession() {
	// Bob's secret is 5,4,3,2,1
	_, aliceID, _ := s.createActiveSession("ABC123")

	sess, record, err := s.controller.Guess(s.ctx, "ABC123", aliceID, []int{5, 4, 3, 2, 1})
	s.Require().NoError(err)

	s.Equal(5, record.Feedback.ExactMatches)
	s.Equal(model.StatusFinished, sess.Status)
	s.Equal(aliceID, sess.Winner)
	// The turn does not pass off a finished game
	s.Equal(aliceID, sess.TurnHolder)
}

func (s *ControllerSuite) TestGuessRejectedAfterFinish() {
	_, aliceID, bobID := s.createActiveSession("ABC123")
	_, _, err := s.controller.Guess(s.ctx, "ABC123", aliceID, []int{5, 4, 3, 2, 1})
	s.Require().NoError(err)

	_, _, err = s.controller.Guess(s.ctx, "ABC123", bobID, []int{1, 2, 3, 4, 5})
	s.ErrorIs(err, model.ErrGameOver)
}

func (s *ControllerSuite) TestGuessValidatesDigits() {
	_, aliceID, _ := s.createActiveSession("ABC123")

	_, _, err := s.controller.Guess(s.ctx, "ABC123", aliceID, []int{1, 2, 3, 4, 99})
	s.ErrorIs(err, model.ErrInvalidDigits)
}

// MarkAbandoned tests

func (s *ControllerSuite) TestMarkAbandonedIsTerminal() {
	_, aliceID, _ := s.createActiveSession("ABC123")

	sess, err := s.controller.MarkAbandoned(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(model.StatusAbandoned, sess.Status)

	_, _, err = s.controller.Guess(s.ctx, "ABC123", aliceID, []int{1, 2, 3, 4, 5})
	s.ErrorIs(err, model.ErrGameOver)
}

func (s *ControllerSuite) TestMarkAbandonedDoesNotOverwriteFinished() {
	_, aliceID, _ := s.createActiveSession("ABC123")
	_, _, err := s.controller.Guess(s.ctx, "ABC123", aliceID, []int{5, 4, 3, 2, 1})
	s.Require().NoError(err)

	sess, err := s.controller.MarkAbandoned(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(model.StatusFinished, sess.Status)
	s.Equal(aliceID, sess.Winner)
}

// Independence and lobby tests

func (s *ControllerSuite) TestSessionsAreIndependent() {
	_, alice1, _ := s.createActiveSession("GAME01")
	_, _, bob2 := s.createActiveSession("GAME02")

	_, _, err := s.controller.Guess(s.ctx, "GAME01", alice1, []int{0, 0, 0, 0, 0})
	s.Require().NoError(err)

	// The second session's turn state is untouched
	_, _, err = s.controller.Guess(s.ctx, "GAME02", bob2, []int{0, 0, 0, 0, 0})
	s.ErrorIs(err, model.ErrNotYourTurn)
}

func (s *ControllerSuite) TestListOpenOnlyShowsAwaitingPlayers() {
	s.random.QueueString("a-id")
	_, _, err := s.controller.Create(s.ctx, "OPEN01", "Host")
	s.Require().NoError(err)
	s.createActiveSession("BUSY01")

	open, err := s.controller.ListOpen(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(open, 1)
	s.Equal(model.SessionID("OPEN01"), open[0].ID)
	s.Equal("Host", open[0].HostDisplayName)
}
