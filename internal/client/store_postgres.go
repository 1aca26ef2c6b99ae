package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"idp-gateway/pkg/platform/sentinel"
)

// PostgresRegistry reads client registrations from PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE client_details (
//	    id             TEXT PRIMARY KEY,
//	    name           TEXT NOT NULL,
//	    rp_id          TEXT NOT NULL,
//	    logo_uri       TEXT NOT NULL DEFAULT '',
//	    redirect_uris  TEXT[] NOT NULL,
//	    acr_values     TEXT[] NOT NULL,
//	    claims         TEXT[] NOT NULL,
//	    secret_hash    TEXT NOT NULL DEFAULT '',
//	    status         TEXT NOT NULL
//	);
type PostgresRegistry struct {
	db *sql.DB
}

// NewPostgresRegistry constructs a PostgreSQL-backed client registry.
func NewPostgresRegistry(db *sql.DB) *PostgresRegistry {
	return &PostgresRegistry{db: db}
}

func (r *PostgresRegistry) GetClientDetails(ctx context.Context, clientID string) (*Detail, error) {
	query := `
		SELECT id, name, rp_id, logo_uri, redirect_uris, acr_values, claims, secret_hash, status
		FROM client_details
		WHERE id = $1 AND status = $2
	`
	var detail Detail
	err := r.db.QueryRowContext(ctx, query, clientID, StatusActive).Scan(
		&detail.ID,
		&detail.Name,
		&detail.RelyingPartyID,
		&detail.LogoURI,
		pq.Array(&detail.RedirectURIs),
		pq.Array(&detail.ACRValues),
		pq.Array(&detail.Claims),
		&detail.SecretHash,
		&detail.Status,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("client %q: %w", clientID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("get client details: %w", err)
	}
	return &detail, nil
}
