package services

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CartStore is the blob storage behind carts. Drivers are dumb key-value
// stores; serialization and corrupt-blob recovery live in CartService so
// every driver gets the same semantics.
type CartStore interface {
	// LoadBlob returns the stored blob and whether one exists.
	LoadBlob(owner string) ([]byte, bool)
	SaveBlob(owner string, raw []byte) error
	DeleteBlob(owner string) error
}

// ─── Memory driver ────────────────────────────────────────────────────────────

// MemoryCartStore keeps carts in process memory. Used in development and
// tests; carts do not survive a restart.
type MemoryCartStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{blobs: make(map[string][]byte)}
}

func (s *MemoryCartStore) LoadBlob(owner string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.blobs[owner]
	return raw, ok
}

func (s *MemoryCartStore) SaveBlob(owner string, raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[owner] = raw
	return nil
}

func (s *MemoryCartStore) DeleteBlob(owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, owner)
	return nil
}

// ─── Redis driver ─────────────────────────────────────────────────────────────

const cartTTL = 30 * 24 * time.Hour

// RedisCartStore keeps carts in Redis so they survive restarts and are
// shared across instances. Keys expire after a month of inactivity.
type RedisCartStore struct {
	rdb *redis.Client
	ctx context.Context
}

// NewRedisCartStore wraps the shared Redis client from pkg/cache.
func NewRedisCartStore(rdb *redis.Client) *RedisCartStore {
	return &RedisCartStore{rdb: rdb, ctx: context.Background()}
}

func (s *RedisCartStore) key(owner string) string { return "agrihaat:cart:" + owner }

func (s *RedisCartStore) LoadBlob(owner string) ([]byte, bool) {
	raw, err := s.rdb.Get(s.ctx, s.key(owner)).Bytes()
	if err != nil {
		return nil, false
	}
	return raw, true
}

func (s *RedisCartStore) SaveBlob(owner string, raw []byte) error {
	return s.rdb.Set(s.ctx, s.key(owner), raw, cartTTL).Err()
}

func (s *RedisCartStore) DeleteBlob(owner string) error {
	return s.rdb.Del(s.ctx, s.key(owner)).Err()
}
