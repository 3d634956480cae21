package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"opsdash/internal/domain"
)

// TokenRepo is the relational TokenRegistry variant: every row in the
// tokens table is an independently valid bearer token, revocable by
// deleting the row.
type TokenRepo struct {
	db *DB
}

// NewTokenRepo wraps a DB as a TokenRegistry.
func NewTokenRepo(db *DB) *TokenRepo {
	return &TokenRepo{db: db}
}

var _ domain.TokenRegistry = (*TokenRepo)(nil)

// Check reports whether token exists in the registry. Empty input never
// reaches the database.
func (r *TokenRepo) Check(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	var one int
	err := r.db.sql.QueryRowContext(ctx,
		"SELECT 1 FROM tokens WHERE id = ?", token).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Put marks token as valid. Re-adding a known token is a no-op.
func (r *TokenRepo) Put(ctx context.Context, token string) error {
	_, err := r.db.sql.ExecContext(ctx,
		"INSERT INTO tokens (id) VALUES (?) ON CONFLICT(id) DO NOTHING", token)
	return err
}

// Revoke removes token. Revoking an unknown token is a no-op.
func (r *TokenRepo) Revoke(ctx context.Context, token string) error {
	_, err := r.db.sql.ExecContext(ctx, "DELETE FROM tokens WHERE id = ?", token)
	return err
}
