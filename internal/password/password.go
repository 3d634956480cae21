// Package password hashes and verifies login passwords with argon2id.
//
// Hashes are self-describing PHC strings of the form
//
//	$argon2id$v=19$m=19456,t=2,p=1$<salt>$<digest>
//
// so verification needs no parameter storage beyond the hash itself.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	memoryKB = 19 * 1024
	timeCost = 2
	threads  = 1
	saltLen  = 16
	keyLen   = 32
)

// Hash derives an argon2id hash of password with a fresh random salt.
// It fails only when the entropy source does, which is fatal rather than
// a normal-flow error.
func Hash(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("password: generate salt: %w", err)
	}

	digest := argon2.IDKey([]byte(password), salt, timeCost, memoryKB, threads, keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, memoryKB, timeCost, threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	), nil
}

// Verify checks password against a stored PHC hash. A stored hash that
// cannot be parsed verifies false: an unreadable credential must deny
// access, never grant it or crash.
func Verify(password, encoded string) bool {
	p, err := parse(encoded)
	if err != nil {
		return false
	}
	digest := argon2.IDKey([]byte(password), p.salt, p.time, p.memory, p.threads, uint32(len(p.digest)))
	return subtle.ConstantTimeCompare(digest, p.digest) == 1
}

type params struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	digest  []byte
}

func parse(encoded string) (*params, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return nil, errors.New("not an argon2id hash")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, errors.New("unsupported argon2 version")
	}

	var p params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return nil, errors.New("malformed argon2 parameters")
	}
	if p.memory == 0 || p.time == 0 || p.threads == 0 {
		return nil, errors.New("malformed argon2 parameters")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return nil, errors.New("malformed salt")
	}
	digest, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(digest) == 0 {
		return nil, errors.New("malformed digest")
	}

	p.salt = salt
	p.digest = digest
	return &p, nil
}
