package sqlite

import (
	"context"

	"opsdash/internal/domain"
)

// UserRepo implements domain.UserRepository on the users table.
type UserRepo struct {
	db *DB
}

// NewUserRepo wraps a DB as a UserRepository.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

var _ domain.UserRepository = (*UserRepo)(nil)

// GetByName returns the user named name. A lookup that does not yield
// exactly one row returns nil: the unique index makes duplicates
// impossible in theory, and if one ever shows up anyway we deny access
// rather than pick a credential to trust.
func (r *UserRepo) GetByName(ctx context.Context, name string) (*domain.User, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		"SELECT id, name, password_hash FROM users WHERE name = ?", name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var u *domain.User
	n := 0
	for rows.Next() {
		var row domain.User
		if err := rows.Scan(&row.ID, &row.Name, &row.PasswordHash); err != nil {
			return nil, err
		}
		if n == 0 {
			u = &row
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if n != 1 {
		return nil, nil
	}
	return u, nil
}

// Upsert creates name or replaces its credential row wholesale.
func (r *UserRepo) Upsert(ctx context.Context, name, passwordHash string) error {
	_, err := r.db.sql.ExecContext(ctx,
		"INSERT INTO users (name, password_hash) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET password_hash = excluded.password_hash",
		name, passwordHash)
	return err
}
