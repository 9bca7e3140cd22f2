// Package postgres opens the slot table on PostgreSQL through pgx's
// database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/hostel-dashboard/internal/persistence/sqlstore"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	driverName = "pgx"
	DefaultDSN = "postgres://localhost/hostel?sslmode=disable"
)

// Open connects to dsn and ensures the slot table exists.
func Open(ctx context.Context, dsn string) (*sqlstore.Store, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	store, err := sqlstore.New(ctx, db, sqlstore.Postgres)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}
