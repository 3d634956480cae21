// Package memory provides in-memory repository implementations used in
// tests and local development.
package memory

import (
	"context"
	"sort"
	"sync"

	"opsdash/internal/domain"
	"opsdash/internal/session"
)

// UserRepo keeps users in a map keyed by name.
type UserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]domain.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{nextID: 1, users: make(map[string]domain.User)}
}

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) GetByName(ctx context.Context, name string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[name]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) Upsert(ctx context.Context, name, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[name]
	if !ok {
		u = domain.User{ID: r.nextID, Name: name}
		r.nextID++
	}
	u.PasswordHash = passwordHash
	r.users[name] = u
	return nil
}

// SessionStore keeps encoded session payloads keyed by session id. Payloads
// go through the same codec as the relational store so decode failures
// behave identically.
type SessionStore struct {
	mu       sync.Mutex
	payloads map[string][]byte
}

func NewSessionStore() *SessionStore {
	return &SessionStore{payloads: make(map[string][]byte)}
}

var _ session.Store = (*SessionStore)(nil)

func (s *SessionStore) Load(ctx context.Context, cookieValue string) (*session.Session, error) {
	id, err := session.IDFromCookieValue(cookieValue)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	payload, ok := s.payloads[id]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return session.Decode(payload)
}

func (s *SessionStore) Store(ctx context.Context, sess *session.Session) (string, error) {
	payload, err := sess.Encode()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.payloads[sess.ID()] = payload
	s.mu.Unlock()
	return sess.CookieValue(), nil
}

func (s *SessionStore) Destroy(ctx context.Context, sess *session.Session) error {
	s.mu.Lock()
	delete(s.payloads, sess.ID())
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.payloads = make(map[string][]byte)
	s.mu.Unlock()
	return nil
}

// TokenSet is a set-backed TokenRegistry.
type TokenSet struct {
	mu     sync.Mutex
	tokens map[string]struct{}
}

func NewTokenSet(tokens ...string) *TokenSet {
	s := &TokenSet{tokens: make(map[string]struct{})}
	for _, tok := range tokens {
		s.tokens[tok] = struct{}{}
	}
	return s
}

var _ domain.TokenRegistry = (*TokenSet)(nil)

func (s *TokenSet) Check(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	s.mu.Lock()
	_, ok := s.tokens[token]
	s.mu.Unlock()
	return ok, nil
}

func (s *TokenSet) Put(ctx context.Context, token string) error {
	s.mu.Lock()
	s.tokens[token] = struct{}{}
	s.mu.Unlock()
	return nil
}

func (s *TokenSet) Revoke(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
	return nil
}

// ServiceRepo keeps services keyed by name, listed in id order.
type ServiceRepo struct {
	mu       sync.Mutex
	nextID   int64
	services map[string]domain.Service
}

func NewServiceRepo() *ServiceRepo {
	return &ServiceRepo{nextID: 1, services: make(map[string]domain.Service)}
}

var _ domain.ServiceRepository = (*ServiceRepo)(nil)

func (r *ServiceRepo) List(ctx context.Context) ([]domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Service, 0, len(r.services))
	for _, svc := range r.services {
		out = append(out, svc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ServiceRepo) Upsert(ctx context.Context, name, server string, status int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	svc, ok := r.services[name]
	if !ok {
		svc = domain.Service{ID: r.nextID, Name: name}
		r.nextID++
	}
	svc.Server = server
	svc.Status = status
	r.services[name] = svc
	return nil
}
