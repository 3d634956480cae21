package sqlite

import (
	"context"

	"opsdash/internal/domain"
)

// ServiceRepo implements domain.ServiceRepository on the services table.
type ServiceRepo struct {
	db *DB
}

// NewServiceRepo wraps a DB as a ServiceRepository.
func NewServiceRepo(db *DB) *ServiceRepo {
	return &ServiceRepo{db: db}
}

var _ domain.ServiceRepository = (*ServiceRepo)(nil)

// List returns all services ordered by id.
func (r *ServiceRepo) List(ctx context.Context) ([]domain.Service, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		"SELECT id, name, server, status FROM services ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Service
	for rows.Next() {
		var svc domain.Service
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.Server, &svc.Status); err != nil {
			return nil, err
		}
		out = append(out, svc)
	}
	return out, rows.Err()
}

// Upsert inserts the named service or replaces its server and status.
func (r *ServiceRepo) Upsert(ctx context.Context, name, server string, status int64) error {
	_, err := r.db.sql.ExecContext(ctx,
		"INSERT INTO services (name, server, status) VALUES (?, ?, ?) ON CONFLICT(name) DO UPDATE SET server = excluded.server, status = excluded.status",
		name, server, status)
	return err
}
