package session

import (
	"context"
	"fmt"
	"time"

	"github.com/clinicore/clinicore/internal/database"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each session as a Redis hash with an idle-timeout TTL
type RedisStore struct {
	rdb *database.Redis
	ttl time.Duration
}

// NewRedisStore creates a RedisStore with the given idle timeout
func NewRedisStore(rdb *database.Redis, idleTimeout time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: idleTimeout}
}

func sessionKey(sid string) string {
	return "session:" + sid
}

// Get returns the value for key in session sid, or "" if unset
func (s *RedisStore) Get(ctx context.Context, sid, key string) (string, error) {
	val, err := s.rdb.HGet(ctx, sessionKey(sid), key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session %s: %w", sid, err)
	}
	return val, nil
}

// Set writes key in session sid and refreshes the idle timeout
func (s *RedisStore) Set(ctx context.Context, sid, key, value string) error {
	k := sessionKey(sid)
	if err := s.rdb.HSet(ctx, k, key, value).Err(); err != nil {
		return fmt.Errorf("failed to write session %s: %w", sid, err)
	}
	return s.rdb.Expire(ctx, k, s.ttl)
}

// SetIfAbsent writes key only if unset, using HSETNX so the check-and-set
// cannot race against a concurrent request in the same session
func (s *RedisStore) SetIfAbsent(ctx context.Context, sid, key, value string) (bool, error) {
	k := sessionKey(sid)
	set, err := s.rdb.HSetNX(ctx, k, key, value).Result()
	if err != nil {
		return false, fmt.Errorf("failed to write session %s: %w", sid, err)
	}
	if set {
		if err := s.rdb.Expire(ctx, k, s.ttl); err != nil {
			return set, err
		}
	}
	return set, nil
}

// Touch refreshes the session's idle timeout
func (s *RedisStore) Touch(ctx context.Context, sid string) error {
	return s.rdb.Expire(ctx, sessionKey(sid), s.ttl)
}

// Destroy removes the session and all its markers
func (s *RedisStore) Destroy(ctx context.Context, sid string) error {
	if err := s.rdb.Del(ctx, sessionKey(sid)).Err(); err != nil {
		return fmt.Errorf("failed to destroy session %s: %w", sid, err)
	}
	return nil
}
