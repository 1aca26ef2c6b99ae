package client

import (
	"context"
	"fmt"
	"sync"

	"idp-gateway/pkg/platform/sentinel"
)

// InMemoryRegistry serves client registrations from memory for tests and dev.
type InMemoryRegistry struct {
	mu      sync.RWMutex
	clients map[string]*Detail
}

// NewInMemoryRegistry constructs an empty in-memory registry.
func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{clients: make(map[string]*Detail)}
}

// Seed registers a client, replacing any previous registration with the same ID.
func (r *InMemoryRegistry) Seed(detail *Detail) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *detail
	r.clients[detail.ID] = &copied
}

func (r *InMemoryRegistry) GetClientDetails(_ context.Context, clientID string) (*Detail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	detail, ok := r.clients[clientID]
	if !ok || detail.Status != StatusActive {
		return nil, fmt.Errorf("client %q: %w", clientID, sentinel.ErrNotFound)
	}
	copied := *detail
	return &copied, nil
}
