package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"laundryops/pkg/logger"
)

// OpenSQLite opens the order store and brings its schema up to date.
// The store has one writer, so the pool is pinned to a single connection;
// this also keeps ":memory:" databases alive across calls.
func OpenSQLite(ctx context.Context, path string, logg *logger.Logger) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}

	if err := MigrateSQLite(ctx, db, logg); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
