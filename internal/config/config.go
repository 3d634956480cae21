// Package config loads runtime settings from the environment.
package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
)

// Defaults used when the environment leaves a setting blank. The
// credential defaults exist so a fresh checkout runs locally; main warns
// loudly when they survive into a running process.
const (
	DefaultAddr       = ":8080"
	DefaultWebDir     = "ui/dist"
	DefaultDBPath     = "opsdash.db"
	DefaultCookieName = "opsdash_session"
	DefaultAdminName  = "admin"
	DefaultAdminPass  = "change-me-please"
	DefaultAPIToken   = "local-dev-token"
	DefaultSubject    = "runner.status"
)

// Config carries everything main needs to wire the process.
type Config struct {
	Addr          string
	WebDir        string
	DBPath        string
	CookieName    string
	SessionSecret []byte
	AdminName     string
	AdminPass     string
	APIToken      string
	NATSURL       string
	RunnerSubject string
}

// Load reads the environment. SESSION_SECRET is base64; when unset a
// random secret is generated, which means sessions do not survive a
// restart.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:          env("ADDR", DefaultAddr),
		WebDir:        env("WEB_DIR", DefaultWebDir),
		DBPath:        env("DB_PATH", DefaultDBPath),
		CookieName:    env("COOKIE_NAME", DefaultCookieName),
		AdminName:     env("ADMIN_NAME", DefaultAdminName),
		AdminPass:     env("ADMIN_PASS", DefaultAdminPass),
		APIToken:      env("API_TOKEN", DefaultAPIToken),
		NATSURL:       os.Getenv("NATS_URL"),
		RunnerSubject: env("RUNNER_SUBJECT", DefaultSubject),
	}

	if raw := os.Getenv("SESSION_SECRET"); raw != "" {
		secret, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("SESSION_SECRET is not base64: %w", err)
		}
		cfg.SessionSecret = secret
	} else {
		secret := make([]byte, 64)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		cfg.SessionSecret = secret
	}

	return cfg, nil
}

// UsesDefaultCredentials reports whether either seeded credential still has
// its insecure default value.
func (c *Config) UsesDefaultCredentials() bool {
	return c.AdminPass == DefaultAdminPass || c.APIToken == DefaultAPIToken
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
