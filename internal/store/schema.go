package store

import (
	"context"
	"fmt"

	"ms-reservation/internal/models"
)

// EnsureSchema creates all tenant tables when they do not exist yet.
// Postgres tenants normally run versioned migrations instead; this
// path serves sqlite tenants and tests.
func (s *Store) EnsureSchema(ctx context.Context) error {
	tables := []interface{}{
		(*models.Place)(nil),
		(*models.Stop)(nil),
		(*models.Route)(nil),
		(*models.RouteStop)(nil),
		(*models.Trip)(nil),
		(*models.Price)(nil),
		(*models.BusModel)(nil),
		(*models.Ticket)(nil),
		(*models.User)(nil),
	}

	for _, table := range tables {
		_, err := s.Bun.NewCreateTable().
			Model(table).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("create table for %T: %w", table, err)
		}
	}
	return nil
}
