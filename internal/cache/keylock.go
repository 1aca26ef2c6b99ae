package cache

import "sync"

// KeyLock serializes read-modify-write cycles per cache key. The orchestrator
// holds the key's lock for the whole mutation, including the gateway call, so
// the cache never observes interleaved writers for one transaction.
//
// Locks are reference-counted and removed when the last holder releases, so
// the map does not grow with transaction volume. This stays in-process;
// multi-instance deployments get the cross-process guarantee from the cache
// backend's single-writer contract.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*keyLockEntry
}

type keyLockEntry struct {
	mu   sync.Mutex
	refs int
}

// NewKeyLock constructs an empty keyed lock.
func NewKeyLock() *KeyLock {
	return &KeyLock{locks: make(map[string]*keyLockEntry)}
}

// Lock acquires the lock for key and returns the matching unlock function.
func (l *KeyLock) Lock(key string) (unlock func()) {
	l.mu.Lock()
	entry, ok := l.locks[key]
	if !ok {
		entry = &keyLockEntry{}
		l.locks[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}
