// Package session defines the dashboard session entity and the contract
// for persisting it between requests.
//
// The client holds an opaque cookie value; the store keys rows by an id
// derived from that value by hashing, so possession of a database row
// never yields a usable cookie. Signing of the cookie itself is the HTTP
// layer's job; this package only deals in raw values and ids.
package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrMalformedCookie reports a cookie value that cannot yield a session
// id. It is returned before any store access happens.
var ErrMalformedCookie = errors.New("malformed session cookie value")

const identityKey = "user"

// Session is a server-side session record. Values are kept as a flexible
// string-keyed map with JSON-encoded entries for storage compatibility;
// business logic goes through the typed accessors instead of raw entries.
type Session struct {
	id          string
	cookieValue string
	values      map[string]string
}

// New mints a session with a fresh random cookie value.
func New() (*Session, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("session: generate cookie value: %w", err)
	}
	return &Session{
		id:          deriveID(raw),
		cookieValue: base64.RawURLEncoding.EncodeToString(raw),
		values:      map[string]string{},
	}, nil
}

// IDFromCookieValue derives the storage id from an opaque cookie value.
func IDFromCookieValue(cookieValue string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cookieValue)
	if err != nil || len(raw) == 0 {
		return "", ErrMalformedCookie
	}
	return deriveID(raw), nil
}

func deriveID(raw []byte) string {
	sum := sha256.Sum256(raw)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// ID returns the storage id of the session.
func (s *Session) ID() string { return s.id }

// CookieValue returns the opaque value handed to the client. It is only
// present on sessions minted by New; sessions loaded from a store return
// the empty string.
func (s *Session) CookieValue() string { return s.cookieValue }

// Insert stores a JSON-encoded value under key.
func (s *Session) Insert(key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("session: encode value for %q: %w", key, err)
	}
	s.values[key] = string(b)
	return nil
}

// GetRaw returns the JSON text stored under key.
func (s *Session) GetRaw(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Get decodes the value stored under key into dst and reports whether the
// key was present and decodable.
func (s *Session) Get(key string, dst any) bool {
	v, ok := s.values[key]
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(v), dst) == nil
}

// SetIdentity marks the session as authenticated for name.
func (s *Session) SetIdentity(name string) error {
	return s.Insert(identityKey, name)
}

// Identity returns the authenticated user name when the marker is
// present. A session without the marker is anonymous, not invalid.
func (s *Session) Identity() (string, bool) {
	var name string
	if !s.Get(identityKey, &name) || name == "" {
		return "", false
	}
	return name, true
}

// payload is the binary wire form persisted by stores.
type payload struct {
	ID     string            `msgpack:"id"`
	Values map[string]string `msgpack:"values"`
}

// Encode serializes the session for storage. Decode(Encode(s)) always
// reconstructs an identical session.
func (s *Session) Encode() ([]byte, error) {
	b, err := msgpack.Marshal(payload{ID: s.id, Values: s.values})
	if err != nil {
		return nil, fmt.Errorf("session: encode payload: %w", err)
	}
	return b, nil
}

// Decode reconstructs a stored session from its binary payload.
func Decode(b []byte) (*Session, error) {
	var p payload
	if err := msgpack.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("session: decode payload: %w", err)
	}
	if p.ID == "" {
		return nil, errors.New("session: decode payload: missing id")
	}
	if p.Values == nil {
		p.Values = map[string]string{}
	}
	return &Session{id: p.ID, values: p.Values}, nil
}

// Store persists sessions between requests. Implementations must be safe
// for many concurrent callers; write serialization is the backing
// connection's job, not the caller's.
type Store interface {
	// Load returns the session for cookieValue. No matching row is
	// (nil, nil): "no session" is a normal outcome, not an error. A row
	// whose payload does not decode is an error, since corrupt data must
	// not pass for an absent session.
	Load(ctx context.Context, cookieValue string) (*Session, error)
	// Store persists the session and returns the cookie value to hand to
	// the client.
	Store(ctx context.Context, s *Session) (string, error)
	// Destroy removes the session. Destroying an absent session is not an
	// error.
	Destroy(ctx context.Context, s *Session) error
	// Clear removes every session. Administrative and test use only.
	Clear(ctx context.Context) error
}
