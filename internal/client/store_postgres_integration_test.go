//go:build integration

package client

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idp-gateway/pkg/platform/sentinel"
	"idp-gateway/pkg/testutil/containers"
)

func TestPostgresRegistry_GetClientDetails(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	t.Cleanup(func() { pg.Cleanup(t) })

	ctx := context.Background()

	_, err := pg.DB.ExecContext(ctx, `
		CREATE TABLE client_details (
		    id             TEXT PRIMARY KEY,
		    name           TEXT NOT NULL,
		    rp_id          TEXT NOT NULL,
		    logo_uri       TEXT NOT NULL DEFAULT '',
		    redirect_uris  TEXT[] NOT NULL,
		    acr_values     TEXT[] NOT NULL,
		    claims         TEXT[] NOT NULL,
		    secret_hash    TEXT NOT NULL DEFAULT '',
		    status         TEXT NOT NULL
		)
	`)
	require.NoError(t, err)

	_, err = pg.DB.ExecContext(ctx, `
		INSERT INTO client_details (id, name, rp_id, logo_uri, redirect_uris, acr_values, claims, status)
		VALUES
		    ($1, 'Health Portal', 'rp-1', 'https://portal.example/logo.png', $2, $3, $4, 'ACTIVE'),
		    ($5, 'Old Portal', 'rp-2', '', $2, $3, $4, 'INACTIVE')
	`,
		"client-1",
		pq.Array([]string{"https://portal.example/cb"}),
		pq.Array([]string{"acr:generated-code", "acr:biometrics"}),
		pq.Array([]string{"name", "email"}),
		"client-2",
	)
	require.NoError(t, err)

	registry := NewPostgresRegistry(pg.DB)

	detail, err := registry.GetClientDetails(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, "Health Portal", detail.Name)
	assert.Equal(t, "rp-1", detail.RelyingPartyID)
	assert.Equal(t, []string{"https://portal.example/cb"}, detail.RedirectURIs)
	assert.Equal(t, []string{"acr:generated-code", "acr:biometrics"}, detail.ACRValues)
	assert.Equal(t, []string{"name", "email"}, detail.Claims)

	_, err = registry.GetClientDetails(ctx, "client-2")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	_, err = registry.GetClientDetails(ctx, "ghost")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
