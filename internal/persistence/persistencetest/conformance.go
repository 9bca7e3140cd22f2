// Package persistencetest holds the behaviour every persistence backend must
// share, runnable against any implementation.
package persistencetest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/example/hostel-dashboard/internal/persistence"
)

// RunConformance exercises Get, Put, and Delete semantics on store. Keys are
// suffixed with a unique token so shared servers can be reused across runs.
func RunConformance(t *testing.T, store persistence.KeyValueStore) {
	t.Helper()
	ctx := context.Background()
	suffix := fmt.Sprintf("-%d", time.Now().UnixNano())

	t.Run("missing keys report not found", func(t *testing.T) {
		_, err := store.Get(ctx, "missing"+suffix)
		if !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("put overwrites previous values", func(t *testing.T) {
		key := persistence.KeyOutpassRequests + suffix
		if err := store.Put(ctx, key, []byte(`[{"id":"1"}]`)); err != nil {
			t.Fatalf("first put failed: %v", err)
		}
		if err := store.Put(ctx, key, []byte(`[]`)); err != nil {
			t.Fatalf("second put failed: %v", err)
		}
		got, err := store.Get(ctx, key)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if string(got) != `[]` {
			t.Fatalf("expected overwritten value, got %q", got)
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		key := persistence.KeyUser + suffix
		if err := store.Put(ctx, key, []byte(`{"id":"1"}`)); err != nil {
			t.Fatalf("put failed: %v", err)
		}
		for i := 0; i < 2; i++ {
			if err := store.Delete(ctx, key); err != nil {
				t.Fatalf("delete %d failed: %v", i, err)
			}
		}
		if _, err := store.Get(ctx, key); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("namespaces isolate keys", func(t *testing.T) {
		a := persistence.Namespace(store, persistence.ClientNamespace("a"+suffix))
		b := persistence.Namespace(store, persistence.ClientNamespace("b"+suffix))
		if err := a.Put(ctx, persistence.KeyUserRole, []byte("student")); err != nil {
			t.Fatalf("put failed: %v", err)
		}
		if _, err := b.Get(ctx, persistence.KeyUserRole); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected other namespace to be empty, got %v", err)
		}
		got, err := a.Get(ctx, persistence.KeyUserRole)
		if err != nil || string(got) != "student" {
			t.Fatalf("unexpected namespaced value %q (err=%v)", got, err)
		}
		if err := a.Delete(ctx, persistence.KeyUserRole); err != nil {
			t.Fatalf("cleanup failed: %v", err)
		}
	})
}
