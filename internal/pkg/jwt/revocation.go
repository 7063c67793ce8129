package jwt

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dayflow-hr/dayflow-backend/internal/pkg/clock"
)

// RevocationStore remembers revoked token ids until the token would have
// expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// MemoryRevocationStore is used when no Redis address is configured. It is
// local to one process.
type MemoryRevocationStore struct {
	revokedTokens map[string]int64
	mu            sync.RWMutex
	now           func() time.Time
}

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		revokedTokens: make(map[string]int64),
		now:           time.Now,
	}
}

func (m *MemoryRevocationStore) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Drop entries that can no longer match a valid token.
	now := m.now().Unix()
	for id, exp := range m.revokedTokens {
		if exp <= now {
			delete(m.revokedTokens, id)
		}
	}

	m.revokedTokens[tokenID] = expiresAt.Unix()
	return nil
}

func (m *MemoryRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	exp, revoked := m.revokedTokens[tokenID]
	return revoked && exp > m.now().Unix(), nil
}

const redisKeyPrefix = "dayflow:revoked:"

// RedisRevocationStore shares revocations between API instances.
type RedisRevocationStore struct {
	client *redis.Client
	clock  clock.Clock
}

func NewRedisRevocationStore(client *redis.Client, clk clock.Clock) *RedisRevocationStore {
	return &RedisRevocationStore{client: client, clock: clk}
}

func (r *RedisRevocationStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.clock.Now()).Truncate(time.Second)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, redisKeyPrefix+tokenID, "1", ttl).Err()
}

func (r *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, redisKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
