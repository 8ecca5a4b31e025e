package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DraftStore remembers which draft order a checkout attempt already created,
// keyed by the attempt's idempotency key. A retry after a failed completion
// finds the existing draft here instead of creating a duplicate.
type DraftStore interface {
	Get(ctx context.Context, idempotencyKey string) (string, error)
	Put(ctx context.Context, idempotencyKey, draftID string) error
	Delete(ctx context.Context, idempotencyKey string) error
}

var ErrDraftNotFound = errors.New("draft not found")

type RedisDraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDraftStore(client *redis.Client) *RedisDraftStore {
	return &RedisDraftStore{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (r *RedisDraftStore) Get(ctx context.Context, idempotencyKey string) (string, error) {
	draftID, err := r.client.Get(ctx, draftKey(idempotencyKey)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrDraftNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return draftID, nil
}

func (r *RedisDraftStore) Put(ctx context.Context, idempotencyKey, draftID string) error {
	if err := r.client.Set(ctx, draftKey(idempotencyKey), draftID, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisDraftStore) Delete(ctx context.Context, idempotencyKey string) error {
	if err := r.client.Del(ctx, draftKey(idempotencyKey)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func draftKey(idempotencyKey string) string {
	return fmt.Sprintf("checkout:draft:%s", idempotencyKey)
}

// MemoryDraftStore is the in-process fallback when no Redis is configured.
type MemoryDraftStore struct {
	mu     sync.Mutex
	drafts map[string]string
}

func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{drafts: make(map[string]string)}
}

func (m *MemoryDraftStore) Get(_ context.Context, idempotencyKey string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	draftID, ok := m.drafts[idempotencyKey]
	if !ok {
		return "", ErrDraftNotFound
	}
	return draftID, nil
}

func (m *MemoryDraftStore) Put(_ context.Context, idempotencyKey, draftID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[idempotencyKey] = draftID
	return nil
}

func (m *MemoryDraftStore) Delete(_ context.Context, idempotencyKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, idempotencyKey)
	return nil
}
