package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"idp-gateway/internal/authorize/models"
	"idp-gateway/pkg/platform/sentinel"
)

// InMemoryCache stores transactions in memory for tests and single-node dev
// runs. Entries expire lazily on read.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	clock   func() time.Time
}

type memoryEntry struct {
	txn       models.Transaction
	expiresAt time.Time
}

// MemoryOption configures an InMemoryCache.
type MemoryOption func(*InMemoryCache)

// WithClock sets the clock function for testability.
func WithClock(clock func() time.Time) MemoryOption {
	return func(c *InMemoryCache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// NewInMemory constructs an empty in-memory transaction cache. TTL of zero
// means entries never expire.
func NewInMemory(ttl time.Duration, opts ...MemoryOption) *InMemoryCache {
	c := &InMemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *InMemoryCache) Get(_ context.Context, key string) (*models.Transaction, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("transaction %q: %w", key, sentinel.ErrNotFound)
	}
	if !entry.expiresAt.IsZero() && c.clock().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, fmt.Errorf("transaction %q: %w", key, sentinel.ErrNotFound)
	}
	// Copy so callers cannot mutate the cached value without a Put.
	txn := entry.txn
	return &txn, nil
}

func (c *InMemoryCache) Put(_ context.Context, key string, txn *models.Transaction) error {
	if txn == nil {
		return fmt.Errorf("transaction is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{txn: *txn, expiresAt: c.deadline()}
	return nil
}

func (c *InMemoryCache) PutUnderNewKey(_ context.Context, newKey, oldKey string, txn *models.Transaction) error {
	if txn == nil {
		return fmt.Errorf("transaction is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, oldKey)
	c.entries[newKey] = memoryEntry{txn: *txn, expiresAt: c.deadline()}
	return nil
}

func (c *InMemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		return fmt.Errorf("transaction %q: %w", key, sentinel.ErrNotFound)
	}
	delete(c.entries, key)
	return nil
}

func (c *InMemoryCache) deadline() time.Time {
	if c.ttl == 0 {
		return time.Time{}
	}
	return c.clock().Add(c.ttl)
}
