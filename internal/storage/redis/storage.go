package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/numduel/numduel/internal/model"
	"github.com/numduel/numduel/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	// Pipeline the value write and the open-session index update so the
	// lobby listing never diverges from the stored status
	pipe := s.client.Pipeline()
	pipe.Set(ctx, sessionKey(session.ID), data, s.cfg.SessionTTL)
	if session.Status == model.StatusAwaitingPlayers {
		pipe.SAdd(ctx, openSessionsKey(), string(session.ID))
	} else {
		pipe.SRem(ctx, openSessionsKey(), string(session.ID))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, sessionKey(id))
	pipe.SRem(ctx, openSessionsKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) SessionExists(ctx context.Context, id model.SessionID) (bool, error) {
	count, err := s.client.Exists(ctx, sessionKey(id)).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Storage) ListOpenSessions(ctx context.Context) ([]model.OpenSession, error) {
	ids, err := s.client.SMembers(ctx, openSessionsKey()).Result()
	if err != nil {
		return nil, err
	}

	var open []model.OpenSession
	for _, id := range ids {
		session, err := s.GetSession(ctx, model.SessionID(id))
		if err != nil {
			if errors.Is(err, model.ErrSessionNotFound) {
				// Key expired out from under the index; drop the stale entry
				_ = s.client.SRem(ctx, openSessionsKey(), id).Err()
				continue
			}
			return nil, err
		}
		if session.Status != model.StatusAwaitingPlayers {
			continue
		}
		open = append(open, model.OpenSession{
			ID:              session.ID,
			HostDisplayName: session.PlayerA.DisplayName,
			CreatedAt:       session.CreatedAt,
		})
	}

	sort.Slice(open, func(i, j int) bool {
		return open[i].CreatedAt.Before(open[j].CreatedAt)
	})
	return open, nil
}
