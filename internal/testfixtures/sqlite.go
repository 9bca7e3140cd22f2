package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/hostel-dashboard/internal/persistence"
	"github.com/example/hostel-dashboard/internal/persistence/sqlite"
)

// SQLiteHarness exposes a slot store on a temporary SQLite file for
// integration-style tests.
type SQLiteHarness struct {
	Backend persistence.Backend
	Path    string

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// Reopen closes the current connection and opens the same file again,
// simulating a process restart.
func (h *SQLiteHarness) Reopen(tb testing.TB) {
	tb.Helper()
	h.Close()
	h.open(tb)
}

func (h *SQLiteHarness) open(tb testing.TB) {
	tb.Helper()

	store, err := sqlite.Open(context.Background(), sqlite.DefaultConfig(h.Path))
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}
	h.Backend = store
	h.cleanup = func() {
		_ = store.Close()
	}
}

// NewSQLiteHarness opens a store on a fresh file under tb's temporary
// directory. Close is registered with tb.Cleanup.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	harness := &SQLiteHarness{Path: filepath.Join(tb.TempDir(), "hostel.db")}
	harness.open(tb)
	tb.Cleanup(harness.Close)
	return harness
}
