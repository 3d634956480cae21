// Package domain contains the core business entities and interfaces.
package domain

import "context"

// User represents a login identity. Only the self-describing argon2id
// hash of the password is ever persisted; the raw password exists nowhere
// past the login request.
type User struct {
	ID           int64
	Name         string
	PasswordHash string
}

// UserRepository defines the port for user persistence operations.
type UserRepository interface {
	// GetByName returns the user with the given name, or nil when the
	// lookup does not yield exactly one live row. Missing and ambiguous
	// lookups are indistinguishable to the caller on purpose.
	GetByName(ctx context.Context, name string) (*User, error)
	// Upsert creates the user or fully replaces its credential row on
	// name conflict. There are no partial field updates.
	Upsert(ctx context.Context, name, passwordHash string) error
}

// TokenRegistry is the authoritative set of valid bearer tokens for
// machine-to-machine calls.
type TokenRegistry interface {
	// Check reports whether the presented token exactly equals one of the
	// valid tokens. Empty input is never valid.
	Check(ctx context.Context, token string) (bool, error)
}
