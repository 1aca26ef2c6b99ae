// Package cache defines the transaction cache contract: the sole source of
// truth for a transaction between requests.
package cache

import (
	"context"

	"idp-gateway/internal/authorize/models"
)

// Error Contract:
// All store methods follow this pattern:
// - Return sentinel.ErrNotFound (wrapped) when the requested key does not exist
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures

// TransactionCache stores in-flight transactions: lookups by transaction
// identifier before issuance and by authorization code afterwards.
// Implementations must guarantee at most one writer per key; the
// orchestrator additionally serializes its own read-modify-write cycles with
// a per-key lock.
type TransactionCache interface {
	// Get returns the transaction stored under key.
	Get(ctx context.Context, key string) (*models.Transaction, error)

	// Put stores the transaction under key, creating or replacing it.
	Put(ctx context.Context, key string, txn *models.Transaction) error

	// PutUnderNewKey atomically stores the transaction under newKey and
	// removes oldKey, re-keying the entry for lookup-by-code.
	PutUnderNewKey(ctx context.Context, newKey, oldKey string, txn *models.Transaction) error

	// Delete removes the entry under key. Used by the downstream token
	// exchange to consume a code-keyed transaction exactly once.
	Delete(ctx context.Context, key string) error
}

const (
	transactionKeyPrefix = "txn:"
	authCodeKeyPrefix    = "code:"
)

// TransactionKey builds the cache key for a pre-issuance transaction.
func TransactionKey(transactionID string) string {
	return transactionKeyPrefix + transactionID
}

// AuthCodeKey builds the cache key for a code-keyed transaction.
func AuthCodeKey(code string) string {
	return authCodeKeyPrefix + code
}
