package memory

import (
	"context"
	"sync"

	audit "idp-gateway/pkg/platform/audit"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	events map[string][]audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string][]audit.Event)}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[string][]audit.Event)
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.TransactionID] = append(s.events[event.TransactionID], event)
	return nil
}

func (s *InMemoryStore) ListByTransaction(_ context.Context, transactionID string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[transactionID]...), nil
}

// ListAll returns all audit events across all transactions.
func (s *InMemoryStore) ListAll(_ context.Context) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var allEvents []audit.Event
	for _, txnEvents := range s.events {
		allEvents = append(allEvents, txnEvents...)
	}
	return allEvents, nil
}
