package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"constituent-connect/backend/internal/authn/domain"
)

const challengeKeyPrefix = "authn:challenge:"

// RedisChallengeStore stores pending OTP challenges in Redis, letting TTL
// eviction handle expiry instead of a purge sweep.
type RedisChallengeStore struct {
	client *redis.Client
}

// NewRedisChallengeStore returns a challenge store backed by the given Redis client.
func NewRedisChallengeStore(client *redis.Client) *RedisChallengeStore {
	return &RedisChallengeStore{client: client}
}

// Create stores the challenge with a TTL matching its validity window.
func (s *RedisChallengeStore) Create(ctx context.Context, c *domain.Challenge) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	ttl := time.Until(c.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	return s.client.Set(ctx, challengeKeyPrefix+c.ID, raw, ttl).Err()
}

// GetByID returns the challenge for id, or nil if missing or TTL-evicted.
func (s *RedisChallengeStore) GetByID(ctx context.Context, id string) (*domain.Challenge, error) {
	raw, err := s.client.Get(ctx, challengeKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var c domain.Challenge
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete removes the challenge by id.
func (s *RedisChallengeStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, challengeKeyPrefix+id).Err()
}
