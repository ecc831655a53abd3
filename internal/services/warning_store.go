package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/securevote/app-verify/internal/models"
	"github.com/securevote/app-verify/internal/redisclient"
)

// WarningStore holds warning tracker entries. Entries expire after the TTL
// given on the last Put.
type WarningStore interface {
	Get(ctx context.Context, voterID string) (*models.WarningEntry, error)
	Put(ctx context.Context, voterID string, entry models.WarningEntry, ttl time.Duration) error
	Delete(ctx context.Context, voterID string) error
}

type memoryWarning struct {
	entry     models.WarningEntry
	expiresAt time.Time
}

// MemoryWarningStore keeps entries in process.
type MemoryWarningStore struct {
	mu      sync.Mutex
	entries map[string]memoryWarning
	now     func() time.Time
}

// NewMemoryWarningStore returns an empty store.
func NewMemoryWarningStore() *MemoryWarningStore {
	return &MemoryWarningStore{
		entries: make(map[string]memoryWarning),
		now:     time.Now,
	}
}

func (s *MemoryWarningStore) Get(_ context.Context, voterID string) (*models.WarningEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.entries[voterID]
	if !ok {
		return nil, nil
	}
	if !s.now().Before(w.expiresAt) {
		delete(s.entries, voterID)
		return nil, nil
	}
	entry := w.entry
	return &entry, nil
}

func (s *MemoryWarningStore) Put(_ context.Context, voterID string, entry models.WarningEntry, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[voterID] = memoryWarning{entry: entry, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryWarningStore) Delete(_ context.Context, voterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, voterID)
	return nil
}

// RedisWarningStore shares entries between API instances. Keys expire with the TTL.
type RedisWarningStore struct {
	client *redisclient.Client
	prefix string
}

// NewRedisWarningStore stores entries under prefix+voterID.
func NewRedisWarningStore(client *redisclient.Client, prefix string) *RedisWarningStore {
	if prefix == "" {
		prefix = "liveness:warnings:"
	}
	return &RedisWarningStore{client: client, prefix: prefix}
}

func (s *RedisWarningStore) Get(ctx context.Context, voterID string) (*models.WarningEntry, error) {
	data, err := s.client.Get(ctx, s.prefix+voterID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewInfrastructureError("get warning entry", err)
	}

	var entry models.WarningEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, models.NewInfrastructureError("decode warning entry", err)
	}
	return &entry, nil
}

func (s *RedisWarningStore) Put(ctx context.Context, voterID string, entry models.WarningEntry, ttl time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return models.NewInfrastructureError("encode warning entry", err)
	}
	if err := s.client.Set(ctx, s.prefix+voterID, data, ttl).Err(); err != nil {
		return models.NewInfrastructureError("set warning entry", err)
	}
	return nil
}

func (s *RedisWarningStore) Delete(ctx context.Context, voterID string) error {
	if err := s.client.Del(ctx, s.prefix+voterID).Err(); err != nil {
		return models.NewInfrastructureError("delete warning entry", err)
	}
	return nil
}
