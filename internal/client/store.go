// Package client exposes read access to relying-party registrations.
package client

import (
	"context"
)

// Registry is the consumed client-registration contract. Lookups of unknown
// or inactive clients return sentinel.ErrNotFound wrapped with context.
type Registry interface {
	GetClientDetails(ctx context.Context, clientID string) (*Detail, error)
}
