// Package coordinator orchestrates inbound transport events against the
// session state machine: it resolves connection bindings, applies the event,
// decides what to broadcast and to whom, and manages disconnect grace periods.
package coordinator

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/numduel/numduel/internal/dependencies/clock"
	"github.com/numduel/numduel/internal/model"
	"github.com/numduel/numduel/internal/protocol"
	"github.com/numduel/numduel/internal/services/session"
)

// Sender pushes outbound messages back through the transport. The transport
// guarantees ordered per-connection delivery.
type Sender interface {
	// SendTo delivers a message to a single connection
	SendTo(connID model.ConnectionID, msg protocol.Outbound)
	// Broadcast delivers a message to every connection in a session's room
	Broadcast(sessionID model.SessionID, msg protocol.Outbound)
	// JoinRoom adds a connection to a session's room so broadcasts reach it
	JoinRoom(sessionID model.SessionID, connID model.ConnectionID)
}

// Config holds coordinator behavior settings
type Config struct {
	// GracePeriod is how long a disconnected player's seat is held before
	// the session is marked abandoned
	GracePeriod time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		GracePeriod: 5 * time.Minute,
	}
}

type graceKey struct {
	session model.SessionID
	player  model.PlayerID
}

// Coordinator applies inbound events one at a time per session. All mutation
// of a session happens under that session's lock, including grace-timer
// cancellation, so a reconnect can never race the expiry sweep.
type Coordinator struct {
	sessions *session.Controller
	bindings *BindingRegistry
	sender   Sender
	clock    clock.Clock
	cfg      Config
	logger   *slog.Logger

	mu    sync.Mutex
	locks map[model.SessionID]*sync.Mutex

	graceMu sync.Mutex
	grace   map[graceKey]clock.Timer
}

// New creates a Coordinator
func New(sessions *session.Controller, sender Sender, clk clock.Clock, cfg Config, logger *slog.Logger) *Coordinator {
	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = DefaultConfig().GracePeriod
	}
	return &Coordinator{
		sessions: sessions,
		bindings: NewBindingRegistry(),
		sender:   sender,
		clock:    clk,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "coordinator")),
		locks:    make(map[model.SessionID]*sync.Mutex),
		grace:    make(map[graceKey]clock.Timer),
	}
}

// Bindings exposes the registry for transports and tests
func (c *Coordinator) Bindings() *BindingRegistry {
	return c.bindings
}

// lockSession serializes event processing for one session. Cleanup can drop
// a lock from the map while a waiter is still blocked on it, so after
// acquiring we confirm the mutex we hold is still the mapped one and retry
// with a fresh one if not.
func (c *Coordinator) lockSession(id model.SessionID) func() {
	for {
		c.mu.Lock()
		l, ok := c.locks[id]
		if !ok {
			l = &sync.Mutex{}
			c.locks[id] = l
		}
		c.mu.Unlock()

		l.Lock()

		c.mu.Lock()
		current := c.locks[id]
		c.mu.Unlock()
		if current == l {
			return l.Unlock
		}
		l.Unlock()
	}
}

func (c *Coordinator) forgetSession(id model.SessionID) {
	c.mu.Lock()
	delete(c.locks, id)
	c.mu.Unlock()
}

// OnConnect registers a new transport connection
func (c *Coordinator) OnConnect(connID model.ConnectionID) {
	c.bindings.Connect(connID)
}

// Dispatch routes a raw inbound message to the matching handler. Malformed
// envelopes and payloads are rejected back to the originating connection
// without touching any session.
func (c *Coordinator) Dispatch(ctx context.Context, connID model.ConnectionID, raw []byte) {
	var msg protocol.Inbound
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sender.SendTo(connID, protocol.NewError(protocol.CodeBadMessage, "malformed message"))
		return
	}

	switch msg.Type {
	case protocol.InboundJoin:
		p, err := msg.DecodeJoin()
		if err != nil {
			c.sender.SendTo(connID, protocol.NewError(protocol.CodeBadMessage, err.Error()))
			return
		}
		c.OnJoin(ctx, connID, model.SessionID(p.SessionID), p.DisplayName)
	case protocol.InboundSubmitSecrets:
		p, err := msg.DecodeDigits()
		if err != nil {
			c.sender.SendTo(connID, protocol.NewError(protocol.CodeBadMessage, err.Error()))
			return
		}
		c.OnSubmitSecrets(ctx, connID, p.Digits)
	case protocol.InboundGuess:
		p, err := msg.DecodeDigits()
		if err != nil {
			c.sender.SendTo(connID, protocol.NewError(protocol.CodeBadMessage, err.Error()))
			return
		}
		c.OnGuess(ctx, connID, p.Digits)
	case protocol.InboundRecover:
		p, err := msg.DecodeRecover()
		if err != nil {
			c.sender.SendTo(connID, protocol.NewError(protocol.CodeBadMessage, err.Error()))
			return
		}
		c.OnRecover(ctx, connID, model.SessionID(p.SessionID), p.DisplayName)
	case protocol.InboundGetState:
		c.OnGetState(ctx, connID)
	default:
		c.sender.SendTo(connID, protocol.NewError(protocol.CodeBadMessage, "unknown message type"))
	}
}

// OnJoin binds a connection to a session, creating the session if absent
// (first-joiner semantics: the creator becomes player A and the eventual
// first mover). A connection already serving a seat is rejected; rebinding
// it would leave the old seat reading as live with no way to ever reap it.
func (c *Coordinator) OnJoin(ctx context.Context, connID model.ConnectionID, sessionID model.SessionID, displayName string) {
	if c.bindings.Get(connID).Bound() {
		c.sender.SendTo(connID, protocol.NewError(protocol.CodeAlreadyInSession, "connection already serves a session"))
		return
	}

	unlock := c.lockSession(sessionID)
	defer unlock()

	sess, player, err := c.sessions.Join(ctx, sessionID, displayName)
	if session.IsNotFound(err) {
		sess, player, err = c.sessions.Create(ctx, sessionID, displayName)
	}
	if err != nil {
		c.logger.Info("join rejected",
			slog.String("session_id", string(sessionID)),
			slog.String("player", displayName),
			slog.String("error", err.Error()),
		)
		c.sender.SendTo(connID, protocol.ErrorFrom(err))
		return
	}

	c.bindings.Bind(connID, sessionID, player.ID, displayName)
	c.sender.JoinRoom(sessionID, connID)

	c.sender.Broadcast(sessionID, protocol.Outbound{
		Type:    protocol.OutboundPlayerJoined,
		Payload: protocol.PlayerJoinedPayload{DisplayName: displayName},
	})
	if sess.PlayerB != nil && sess.PlayerB.ID == player.ID {
		c.sender.Broadcast(sessionID, protocol.Outbound{Type: protocol.OutboundBothPresent})
	}

	c.pushSnapshots(sess)
}

// OnSubmitSecrets commits the sender's secret; when the second secret lands
// the game starts and both players get fresh views.
func (c *Coordinator) OnSubmitSecrets(ctx context.Context, connID model.ConnectionID, digits []int) {
	b := c.bindings.Get(connID)
	if !b.Bound() {
		c.sender.SendTo(connID, protocol.NewError(protocol.CodeNotInSession, "join a session first"))
		return
	}

	unlock := c.lockSession(b.SessionID)
	defer unlock()

	sess, started, err := c.sessions.SubmitSecret(ctx, b.SessionID, b.PlayerID, digits)
	if err != nil {
		c.sender.SendTo(connID, protocol.ErrorFrom(err))
		return
	}

	if started {
		c.sender.Broadcast(b.SessionID, protocol.Outbound{Type: protocol.OutboundGameStarted})
		c.pushSnapshots(sess)
		return
	}

	c.sender.Broadcast(b.SessionID, protocol.Outbound{
		Type:    protocol.OutboundSecretsPending,
		Payload: protocol.SecretsPendingPayload{DisplayName: b.DisplayName},
	})
	c.sendSnapshot(sess, b.PlayerID)
}

// OnGuess applies a turn-gated guess. Accepted guesses are announced to the
// room with their feedback; a winning guess additionally reveals both secrets
// in the game-over notification.
func (c *Coordinator) OnGuess(ctx context.Context, connID model.ConnectionID, digits []int) {
	b := c.bindings.Get(connID)
	if !b.Bound() {
		c.sender.SendTo(connID, protocol.NewError(protocol.CodeNotInSession, "join a session first"))
		return
	}

	unlock := c.lockSession(b.SessionID)
	defer unlock()

	sess, record, err := c.sessions.Guess(ctx, b.SessionID, b.PlayerID, digits)
	if err != nil {
		c.sender.SendTo(connID, protocol.ErrorFrom(err))
		return
	}

	c.sender.Broadcast(b.SessionID, protocol.Outbound{
		Type: protocol.OutboundGuessResult,
		Payload: protocol.GuessResultPayload{
			DisplayName: b.DisplayName,
			Guess:       record.Guess,
			Feedback:    record.Feedback,
		},
	})
	c.pushSnapshots(sess)

	if sess.Status == model.StatusFinished {
		c.sender.Broadcast(b.SessionID, protocol.Outbound{
			Type: protocol.OutboundGameOver,
			Payload: protocol.GameOverPayload{
				WinnerName: b.DisplayName,
				SecretA:    sess.SecretA,
				SecretB:    sess.SecretB,
			},
		})
	}
}

// OnGetState re-sends the caller's current view
func (c *Coordinator) OnGetState(ctx context.Context, connID model.ConnectionID) {
	b := c.bindings.Get(connID)
	if !b.Bound() {
		c.sender.SendTo(connID, protocol.NewError(protocol.CodeNotInSession, "join a session first"))
		return
	}

	unlock := c.lockSession(b.SessionID)
	defer unlock()

	sess, err := c.sessions.Get(ctx, b.SessionID)
	if err != nil {
		c.sender.SendTo(connID, protocol.ErrorFrom(err))
		return
	}
	c.sender.SendTo(connID, protocol.NewSnapshot(sess.ViewFor(b.PlayerID)))
}

// OnRecover reattaches a new connection to an existing session by display
// name. On success the grace timer is cancelled and the full current view is
// returned; on failure the caller is expected to fall back to a fresh join.
// Like join, recovery is only open to connections not already serving a seat.
func (c *Coordinator) OnRecover(ctx context.Context, connID model.ConnectionID, sessionID model.SessionID, displayName string) {
	if c.bindings.Get(connID).Bound() {
		c.sender.SendTo(connID, protocol.Outbound{
			Type:    protocol.OutboundRecoveryResult,
			Payload: protocol.RecoveryResultPayload{Success: false},
		})
		return
	}

	unlock := c.lockSession(sessionID)
	defer unlock()

	fail := func(err error) {
		c.logger.Info("recovery failed",
			slog.String("session_id", string(sessionID)),
			slog.String("player", displayName),
			slog.String("error", err.Error()),
		)
		c.sender.SendTo(connID, protocol.Outbound{
			Type:    protocol.OutboundRecoveryResult,
			Payload: protocol.RecoveryResultPayload{Success: false},
		})
	}

	sess, err := c.sessions.Get(ctx, sessionID)
	if err != nil {
		fail(err)
		return
	}
	if sess.Status == model.StatusAbandoned {
		fail(model.ErrGameOver)
		return
	}

	// Recovery matches by display name: a new connection carries a new
	// connection id, so the name is the only link back to the seat
	player := sess.PlayerByName(displayName)
	if player == nil {
		fail(model.ErrRecoveryMismatch)
		return
	}
	if _, live := c.bindings.LiveConn(sessionID, player.ID); live {
		fail(model.ErrAlreadyConnected)
		return
	}

	c.cancelGrace(sessionID, player.ID)
	c.bindings.Bind(connID, sessionID, player.ID, displayName)
	c.sender.JoinRoom(sessionID, connID)

	c.sender.SendTo(connID, protocol.Outbound{
		Type: protocol.OutboundRecoveryResult,
		Payload: protocol.RecoveryResultPayload{
			Success: true,
			State:   viewPtr(sess.ViewFor(player.ID)),
		},
	})
	c.sender.Broadcast(sessionID, protocol.Outbound{
		Type:    protocol.OutboundPlayerReconnected,
		Payload: protocol.ReconnectPayload{DisplayName: displayName},
	})

	c.logger.Info("player recovered",
		slog.String("session_id", string(sessionID)),
		slog.String("player", displayName),
	)
}

// OnDisconnect handles a dropped connection. The session is never destroyed
// immediately: the opponent is told the seat is held and a grace timer
// starts. Terminal sessions are cleaned up once their last connection drops.
func (c *Coordinator) OnDisconnect(ctx context.Context, connID model.ConnectionID) {
	b := c.bindings.Drop(connID)
	if !b.Bound() {
		return
	}

	unlock := c.lockSession(b.SessionID)
	defer unlock()

	sess, err := c.sessions.Get(ctx, b.SessionID)
	if err != nil {
		return
	}

	if sess.Terminal() {
		c.cleanupIfDeserted(ctx, sess)
		return
	}

	c.sender.Broadcast(b.SessionID, protocol.Outbound{
		Type: protocol.OutboundPlayerDisconnected,
		Payload: protocol.DisconnectPayload{
			DisplayName:       b.DisplayName,
			GracePeriodActive: true,
		},
	})

	c.startGrace(b.SessionID, b.PlayerID)

	c.logger.Info("player disconnected, grace period active",
		slog.String("session_id", string(b.SessionID)),
		slog.String("player", b.DisplayName),
		slog.Duration("grace_period", c.cfg.GracePeriod),
	)
}

// startGrace schedules abandonment for a vacated seat. One timer per
// session+player; a second disconnect of the same seat resets it.
func (c *Coordinator) startGrace(sessionID model.SessionID, playerID model.PlayerID) {
	key := graceKey{session: sessionID, player: playerID}

	c.graceMu.Lock()
	defer c.graceMu.Unlock()

	if t, ok := c.grace[key]; ok {
		t.Stop()
	}
	c.grace[key] = c.clock.AfterFunc(c.cfg.GracePeriod, func() {
		c.onGraceExpired(sessionID, playerID)
	})
}

// cancelGrace stops a pending grace timer, if any. Called under the session
// lock so it cannot race the expiry handler's state mutation.
func (c *Coordinator) cancelGrace(sessionID model.SessionID, playerID model.PlayerID) {
	key := graceKey{session: sessionID, player: playerID}

	c.graceMu.Lock()
	defer c.graceMu.Unlock()

	if t, ok := c.grace[key]; ok {
		t.Stop()
		delete(c.grace, key)
	}
}

// onGraceExpired marks the session abandoned and notifies whoever is left
func (c *Coordinator) onGraceExpired(sessionID model.SessionID, playerID model.PlayerID) {
	unlock := c.lockSession(sessionID)
	defer unlock()

	c.graceMu.Lock()
	delete(c.grace, graceKey{session: sessionID, player: playerID})
	c.graceMu.Unlock()

	// A recovery that landed between firing and acquiring the lock wins
	if _, live := c.bindings.LiveConn(sessionID, playerID); live {
		return
	}

	ctx := context.Background()
	sess, err := c.sessions.MarkAbandoned(ctx, sessionID)
	if err != nil {
		return
	}

	c.sender.Broadcast(sessionID, protocol.Outbound{Type: protocol.OutboundSessionAbandoned})
	c.logger.Info("grace period expired, session abandoned",
		slog.String("session_id", string(sessionID)),
	)

	c.cleanupIfDeserted(ctx, sess)
}

// cleanupIfDeserted removes a terminal session once no live connections and
// no pending grace timers reference it
func (c *Coordinator) cleanupIfDeserted(ctx context.Context, sess *model.Session) {
	if c.bindings.LiveCount(sess.ID) > 0 {
		return
	}
	if c.pendingGraceFor(sess.ID) {
		return
	}
	if err := c.sessions.Delete(ctx, sess.ID); err != nil {
		c.logger.Error("session cleanup failed",
			slog.String("session_id", string(sess.ID)),
			slog.String("error", err.Error()),
		)
		return
	}
	c.forgetSession(sess.ID)
	c.logger.Info("session cleaned up", slog.String("session_id", string(sess.ID)))
}

func (c *Coordinator) pendingGraceFor(sessionID model.SessionID) bool {
	c.graceMu.Lock()
	defer c.graceMu.Unlock()
	for key := range c.grace {
		if key.session == sessionID {
			return true
		}
	}
	return false
}

// pushSnapshots sends each bound player their own projected view
func (c *Coordinator) pushSnapshots(sess *model.Session) {
	c.sendSnapshot(sess, sess.PlayerA.ID)
	if sess.PlayerB != nil {
		c.sendSnapshot(sess, sess.PlayerB.ID)
	}
}

func (c *Coordinator) sendSnapshot(sess *model.Session, playerID model.PlayerID) {
	connID, ok := c.bindings.LiveConn(sess.ID, playerID)
	if !ok {
		return
	}
	c.sender.SendTo(connID, protocol.NewSnapshot(sess.ViewFor(playerID)))
}

func viewPtr(v model.PlayerView) *model.PlayerView {
	return &v
}
