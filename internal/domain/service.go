package domain

import "context"

// Service is an entry on the operations dashboard: a named process on a
// server, carrying the last status the runner reported for it.
type Service struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Server string `json:"server"`
	Status int64  `json:"status"`
}

// ServiceRepository defines the port for service persistence operations.
type ServiceRepository interface {
	List(ctx context.Context) ([]Service, error)
	// Upsert inserts the named service or replaces its server and status
	// on conflict.
	Upsert(ctx context.Context, name, server string, status int64) error
}
