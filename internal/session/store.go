// Package session implements cookie-based session identity: an opaque,
// server-signed token carried by the client and resolved server-side to a
// user id.
package session

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoSession is returned when a session id does not resolve to a user.
var ErrNoSession = errors.New("session: not found or expired")

// Store maps session ids to user ids with a lifetime.
type Store interface {
	Save(ctx context.Context, sid string, userID uint, ttl time.Duration) error
	Get(ctx context.Context, sid string) (uint, error)
	Delete(ctx context.Context, sid string) error
}

const redisKeyPrefix = "session:"

type redisStore struct {
	client *redis.Client
}

// NewRedisStore returns a Store backed by Redis.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Save(ctx context.Context, sid string, userID uint, ttl time.Duration) error {
	return s.client.Set(ctx, redisKeyPrefix+sid, strconv.FormatUint(uint64(userID), 10), ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, sid string) (uint, error) {
	val, err := s.client.Get(ctx, redisKeyPrefix+sid).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNoSession
	}
	if err != nil {
		return 0, err
	}
	userID, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, ErrNoSession
	}
	return uint(userID), nil
}

func (s *redisStore) Delete(ctx context.Context, sid string) error {
	return s.client.Del(ctx, redisKeyPrefix+sid).Err()
}

type memoryEntry struct {
	userID  uint
	expires time.Time
}

type memoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
}

// NewMemoryStore returns an in-process Store. It is the fallback when Redis
// is unavailable and the fake used by tests.
func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[string]memoryEntry)}
}

func (s *memoryStore) Save(_ context.Context, sid string, userID uint, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sid] = memoryEntry{userID: userID, expires: time.Now().Add(ttl)}
	return nil
}

func (s *memoryStore) Get(_ context.Context, sid string) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[sid]
	if !ok {
		return 0, ErrNoSession
	}
	if time.Now().After(entry.expires) {
		delete(s.sessions, sid)
		return 0, ErrNoSession
	}
	return entry.userID, nil
}

func (s *memoryStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
	return nil
}
