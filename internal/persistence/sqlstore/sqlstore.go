// Package sqlstore implements the key-value contract on a single
// database/sql table. The sqlite and postgres backends share it and differ
// only in their Dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/hostel-dashboard/internal/persistence"
)

const tableName = "hostel_slots"

// Dialect captures the SQL differences between engines.
type Dialect struct {
	Name        string
	Placeholder func(position int) string
}

// SQLite uses positional question marks.
var SQLite = Dialect{
	Name:        "sqlite",
	Placeholder: func(int) string { return "?" },
}

// Postgres uses numbered placeholders.
var Postgres = Dialect{
	Name:        "postgres",
	Placeholder: func(position int) string { return fmt.Sprintf("$%d", position) },
}

// Store persists slots as rows of (slot, payload, updated_at).
type Store struct {
	db      *sql.DB
	dialect Dialect
	retry   *RetryHelper
	now     func() time.Time

	getQuery    string
	putQuery    string
	deleteQuery string
}

// New wraps db and ensures the slot table exists.
func New(ctx context.Context, db *sql.DB, dialect Dialect) (*Store, error) {
	if db == nil {
		return nil, errors.New("sqlstore: nil database")
	}
	if dialect.Placeholder == nil {
		return nil, fmt.Errorf("sqlstore: dialect %q has no placeholder function", dialect.Name)
	}

	store := &Store{
		db:      db,
		dialect: dialect,
		retry:   NewRetryHelper(DefaultRetryConfig()),
		now:     time.Now,
	}
	store.prepareQueries()

	if err := store.ensureTable(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) prepareQueries() {
	p := s.dialect.Placeholder
	s.getQuery = fmt.Sprintf("SELECT payload FROM %s WHERE slot = %s", tableName, p(1))
	s.putQuery = fmt.Sprintf(
		"INSERT INTO %s (slot, payload, updated_at) VALUES (%s, %s, %s) "+
			"ON CONFLICT (slot) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at",
		tableName, p(1), p(2), p(3),
	)
	s.deleteQuery = fmt.Sprintf("DELETE FROM %s WHERE slot = %s", tableName, p(1))
}

func (s *Store) ensureTable(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		slot TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`, tableName)
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("sqlstore: ensure %s table: %w", s.dialect.Name, err)
	}
	return nil
}

// DB exposes the underlying handle for integration tests.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Get returns the payload stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var payload string
	err := s.retry.WithRetry(ctx, func() error {
		return s.db.QueryRowContext(ctx, s.getQuery, key).Scan(&payload)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrNotFound
		}
		return nil, fmt.Errorf("sqlstore: get %q: %w", key, err)
	}
	return []byte(payload), nil
}

// Put upserts value under key.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	stamp := s.now().UTC().Format(time.RFC3339Nano)
	err := s.retry.WithRetry(ctx, func() error {
		_, execErr := s.db.ExecContext(ctx, s.putQuery, key, string(value), stamp)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("sqlstore: put %q: %w", key, err)
	}
	return nil
}

// Delete removes key; missing keys are ignored.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.retry.WithRetry(ctx, func() error {
		_, execErr := s.db.ExecContext(ctx, s.deleteQuery, key)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("sqlstore: delete %q: %w", key, err)
	}
	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func containsAny(s string, substrings ...string) bool {
	lower := strings.ToLower(s)
	for _, substr := range substrings {
		if strings.Contains(lower, substr) {
			return true
		}
	}
	return false
}
