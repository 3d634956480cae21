package app

import (
	"context"
	"crypto/subtle"

	"opsdash/internal/domain"
)

// StaticTokenRegistry validates bearer tokens against a single
// process-wide secret. It is the simplest TokenRegistry variant; the
// relational variant in the sqlite adapter supports multiple tokens and
// revocation.
type StaticTokenRegistry struct {
	secret string
}

// NewStaticTokenRegistry creates a registry accepting exactly secret.
func NewStaticTokenRegistry(secret string) *StaticTokenRegistry {
	return &StaticTokenRegistry{secret: secret}
}

var _ domain.TokenRegistry = (*StaticTokenRegistry)(nil)

// Check compares token against the configured secret in constant time.
// An empty token or an empty secret matches nothing.
func (r *StaticTokenRegistry) Check(_ context.Context, token string) (bool, error) {
	if token == "" || r.secret == "" {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(r.secret)) == 1, nil
}
