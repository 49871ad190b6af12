package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"laundryops/pkg/logger"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// MigratePostgres applies the inventory schema through a database/sql handle
// borrowed from the pool.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool, logg *logger.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	return migrate(ctx, db, goose.DialectPostgres, "migrations/postgres", logg)
}

// MigrateSQLite applies the order store schema.
func MigrateSQLite(ctx context.Context, db *sql.DB, logg *logger.Logger) error {
	return migrate(ctx, db, goose.DialectSQLite3, "migrations/sqlite", logg)
}

func migrate(ctx context.Context, db *sql.DB, dialect goose.Dialect, dir string, logg *logger.Logger) error {
	fsys, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("open migrations %s: %w", dir, err)
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	for _, res := range results {
		logg.Debug(logg.WithFields(ctx, map[string]any{
			"version":  res.Source.Version,
			"duration": res.Duration.String(),
		}), "migration applied")
	}
	if len(results) > 0 {
		logg.Info(logg.WithField(ctx, "applied", len(results)), "migrations completed")
	}
	return nil
}
