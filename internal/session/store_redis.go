package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sped-on/iep-bot/internal/platform/cache"
)

const redisKeyPrefix = "iep:session:"

// RedisStore keeps sessions in Redis as JSON blobs with a sliding TTL:
// every save refreshes the expiry, so only abandoned sessions expire.
type RedisStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(c *cache.Cache, ttl time.Duration) *RedisStore {
	return &RedisStore{cache: c, ttl: ttl}
}

func (s *RedisStore) Create(ctx context.Context, sess *Session) (string, error) {
	sess.ID = generateID()
	sess.CreatedAt = time.Now()
	sess.UpdatedAt = sess.CreatedAt

	if err := s.write(ctx, sess); err != nil {
		return "", err
	}
	return sess.ID, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.cache.Get(ctx, redisKeyPrefix+id)
	if errors.Is(err, cache.ErrMiss) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	if sess.ID == "" {
		return fmt.Errorf("session has no id")
	}
	sess.UpdatedAt = time.Now()
	return s.write(ctx, sess)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	err := s.cache.Del(ctx, redisKeyPrefix+id)
	if errors.Is(err, cache.ErrMiss) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *RedisStore) write(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.cache.Set(ctx, redisKeyPrefix+sess.ID, data, s.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
