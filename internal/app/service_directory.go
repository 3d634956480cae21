package app

import (
	"context"
	"fmt"

	"opsdash/internal/domain"
)

// ServiceDirectory serves the dashboard's service listing and applies the
// status updates the runner reports.
type ServiceDirectory struct {
	services domain.ServiceRepository
}

// NewServiceDirectory creates a new service directory.
func NewServiceDirectory(services domain.ServiceRepository) *ServiceDirectory {
	return &ServiceDirectory{services: services}
}

// List returns all services keyed by id.
func (d *ServiceDirectory) List(ctx context.Context) (map[int64]domain.Service, error) {
	all, err := d.services.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	out := make(map[int64]domain.Service, len(all))
	for _, svc := range all {
		out[svc.ID] = svc
	}
	return out, nil
}

// ListAll returns all services in id order, unkeyed. External consumers
// get the flat form.
func (d *ServiceDirectory) ListAll(ctx context.Context) ([]domain.Service, error) {
	all, err := d.services.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return all, nil
}

// ByServer groups all services by the server they run on.
func (d *ServiceDirectory) ByServer(ctx context.Context) (map[string][]domain.Service, error) {
	all, err := d.services.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	out := make(map[string][]domain.Service)
	for _, svc := range all {
		out[svc.Server] = append(out[svc.Server], svc)
	}
	return out, nil
}

// SetStatus records the latest reported status for a service, creating
// the row if the runner mentions a service we have not seen before.
func (d *ServiceDirectory) SetStatus(ctx context.Context, name, server string, status int64) error {
	if err := d.services.Upsert(ctx, name, server, status); err != nil {
		return fmt.Errorf("set status for %s: %w", name, err)
	}
	return nil
}
