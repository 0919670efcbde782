package service

import (
	"context"
	"time"

	"github.com/Payphone-Digital/referral/internal/constants"
	"github.com/Payphone-Digital/referral/pkg/cache"
)

// RevocationStore remembers revoked token ids until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// keyValueStore is satisfied by pkg/redis.Client.
type keyValueStore interface {
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
}

type redisRevocationStore struct {
	kv keyValueStore
}

// NewRedisRevocationStore keeps revocations in redis so every instance sees them.
func NewRedisRevocationStore(kv keyValueStore) RevocationStore {
	return &redisRevocationStore{kv: kv}
}

func (s *redisRevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return s.kv.SetWithTTL(ctx, constants.CacheKeyRevokedToken+jti, "1", ttl)
}

func (s *redisRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.kv.Exists(ctx, constants.CacheKeyRevokedToken+jti)
}

type memoryRevocationStore struct {
	revoked *cache.Cache[struct{}]
}

// NewMemoryRevocationStore is the single-instance fallback when redis is disabled.
func NewMemoryRevocationStore() RevocationStore {
	return newMemoryRevocationStore(time.Now)
}

func newMemoryRevocationStore(now func() time.Time) *memoryRevocationStore {
	return &memoryRevocationStore{revoked: cache.New[struct{}](cache.WithClock(now))}
}

func (s *memoryRevocationStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	s.revoked.Set(jti, struct{}{}, ttl)
	return nil
}

func (s *memoryRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := s.revoked.Get(jti)
	return ok, nil
}
