package tenant

import (
	"context"
	"database/sql"
	"fmt"

	"ms-reservation/internal/config"
	"ms-reservation/internal/models"
	"ms-reservation/internal/store"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

// OpenPostgres returns the production opener: each tenant DSN points
// at its own postgres database.
func OpenPostgres(cfg config.DatabaseConfig) Opener {
	return func(ctx context.Context, t models.Tenant) (*store.Store, error) {
		sqldb, err := sql.Open("postgres", t.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}

		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
		sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
		sqldb.SetConnMaxLifetime(cfg.MaxLifetime)

		if err := sqldb.PingContext(ctx); err != nil {
			sqldb.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}

		return store.New(bun.NewDB(sqldb, pgdialect.New())), nil
	}
}
