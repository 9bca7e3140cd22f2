package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/hostel-dashboard/internal/persistence"
	"github.com/example/hostel-dashboard/internal/persistence/persistencetest"
	"github.com/example/hostel-dashboard/internal/persistence/sqlstore"
)

func newTestStore(t *testing.T, path string) *sqlstore.Store {
	t.Helper()

	store, err := Open(context.Background(), DefaultConfig(path))
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestStoreConformance(t *testing.T) {
	store := newTestStore(t, filepath.Join(t.TempDir(), "hostel.db"))
	persistencetest.RunConformance(t, store)
}

func TestStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "hostel.db")

	first, err := Open(ctx, DefaultConfig(path))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := first.Put(ctx, persistence.KeyAnnouncements, []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	second := newTestStore(t, path)
	got, err := second.Get(ctx, persistence.KeyAnnouncements)
	if err != nil {
		t.Fatalf("get after reopen failed: %v", err)
	}
	if string(got) != `[{"id":"1"}]` {
		t.Fatalf("unexpected payload after reopen: %q", got)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "defaults", config: DefaultConfig("hostel.db")},
		{name: "in memory", config: DefaultConfig(":memory:")},
		{name: "empty dsn", config: DefaultConfig(" "), wantErr: true},
		{name: "bad journal", config: Config{DSN: "x.db", JournalMode: "ROLLBACK"}, wantErr: true},
		{name: "bad synchronous", config: Config{DSN: "x.db", Synchronous: "SOMETIMES"}, wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.config.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
