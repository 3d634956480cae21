package sqlite

import (
	"context"
	"fmt"

	"opsdash/internal/session"
)

// SessionStore persists sessions in the sessions table, keyed by the id
// derived from the opaque cookie value.
type SessionStore struct {
	db *DB
}

// NewSessionStore wraps a DB as a session.Store.
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

var _ session.Store = (*SessionStore)(nil)

// Load fetches the session for cookieValue. A cookie value that cannot
// yield an id fails before the database is touched. No matching row is
// (nil, nil). A row whose payload does not decode is an error: corrupt
// data must not pass for an absent session.
func (s *SessionStore) Load(ctx context.Context, cookieValue string) (*session.Session, error) {
	id, err := session.IDFromCookieValue(cookieValue)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.sql.QueryContext(ctx,
		"SELECT payload FROM sessions WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	defer rows.Close()

	// id is the primary key, so a second row should not happen; keep the
	// first if it ever does.
	var payload []byte
	found := false
	for rows.Next() {
		var b []byte
		if err := rows.Scan(&b); err != nil {
			return nil, fmt.Errorf("load session: %w", err)
		}
		if !found {
			payload = b
			found = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !found {
		return nil, nil
	}

	sess, err := session.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

// Store inserts the session and returns the cookie value for the client.
// Ids are freshly minted per session, so collisions are not expected.
func (s *SessionStore) Store(ctx context.Context, sess *session.Session) (string, error) {
	b, err := sess.Encode()
	if err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	if _, err := s.db.sql.ExecContext(ctx,
		"INSERT INTO sessions (id, payload) VALUES (?, ?)", sess.ID(), b); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return sess.CookieValue(), nil
}

// Destroy deletes the session row. Destroying an absent session succeeds.
func (s *SessionStore) Destroy(ctx context.Context, sess *session.Session) error {
	if _, err := s.db.sql.ExecContext(ctx,
		"DELETE FROM sessions WHERE id = ?", sess.ID()); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// Clear drops every session.
func (s *SessionStore) Clear(ctx context.Context) error {
	if _, err := s.db.sql.ExecContext(ctx, "DELETE FROM sessions"); err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}
	return nil
}
