// Package session implements the server-side admin session store.
// The cookie only carries a signed session id; the authoritative logged-in
// state lives here, so destroying a session invalidates it immediately.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

var ErrNotFound = errors.New("session: not found or expired")

// Session is the server-side record behind an admin cookie.
type Session struct {
	Username     string
	LastActivity time.Time
}

// Store is the explicit session interface handlers and middleware depend on.
type Store interface {
	// Create issues a fresh session id. Callers regenerate on login by
	// destroying the previous id first (session fixation defense).
	Create(ctx context.Context, username string) (string, error)
	Get(ctx context.Context, sid string) (*Session, error)
	// Touch refreshes last_activity and slides the expiry window.
	Touch(ctx context.Context, sid string) error
	Destroy(ctx context.Context, sid string) error
}

type redisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) Store {
	return &redisStore{rdb: rdb, ttl: ttl}
}

func (s *redisStore) Create(ctx context.Context, username string) (string, error) {
	sid := uuid.NewString()
	key := keyPrefix + sid
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key,
		"username", username,
		"last_activity", time.Now().UTC().Format(time.RFC3339),
	)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return sid, nil
}

func (s *redisStore) Get(ctx context.Context, sid string) (*Session, error) {
	vals, err := s.rdb.HGetAll(ctx, keyPrefix+sid).Result()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, ErrNotFound
	}
	last, _ := time.Parse(time.RFC3339, vals["last_activity"])
	return &Session{Username: vals["username"], LastActivity: last}, nil
}

func (s *redisStore) Touch(ctx context.Context, sid string) error {
	key := keyPrefix + sid
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, "last_activity", time.Now().UTC().Format(time.RFC3339))
	pipe.Expire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *redisStore) Destroy(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, keyPrefix+sid).Err()
}
