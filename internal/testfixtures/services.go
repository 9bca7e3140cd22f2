package testfixtures

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/example/hostel-dashboard/internal/application"
	"github.com/example/hostel-dashboard/internal/persistence"
	"github.com/example/hostel-dashboard/internal/persistence/memory"
)

// StoreFactory assists tests with constructing hostel stores using
// deterministic identifiers and clocks.
type StoreFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// StoreFactoryOption configures a StoreFactory instance.
type StoreFactoryOption func(*StoreFactory)

// NewStoreFactory constructs a StoreFactory with defaults.
func NewStoreFactory(opts ...StoreFactoryOption) *StoreFactory {
	factory := &StoreFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) StoreFactoryOption {
	return func(factory *StoreFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) StoreFactoryOption {
	return func(factory *StoreFactory) {
		factory.IDGenerator = generator
	}
}

// DataStoreDeps captures dependencies for constructing a data store. A nil
// Storage selects a fresh memory backend.
type DataStoreDeps struct {
	Storage     persistence.KeyValueStore
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewDataStore builds a seeded data store, failing tb on error.
func (f *StoreFactory) NewDataStore(tb testing.TB, deps DataStoreDeps) *application.DataStore {
	tb.Helper()

	storage := deps.Storage
	if storage == nil {
		storage = memory.New()
	}
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	store, err := application.NewDataStoreWithLogger(context.Background(), storage, idGen, now, deps.Logger)
	if err != nil {
		tb.Fatalf("failed to build data store: %v", err)
	}
	return store
}

// SessionDeps captures dependencies for constructing a session manager.
// Delays default to zero so tests do not wait.
type SessionDeps struct {
	Storage       persistence.KeyValueStore
	LoginDelay    time.Duration
	RegisterDelay time.Duration
	Observer      application.Observer
	Logger        *slog.Logger
}

// NewSessionManager builds a session manager over the demo credential table.
func (f *StoreFactory) NewSessionManager(tb testing.TB, deps SessionDeps) *application.SessionManager {
	tb.Helper()

	credentials, err := application.DemoCredentials()
	if err != nil {
		tb.Fatalf("failed to build demo credentials: %v", err)
	}
	storage := deps.Storage
	if storage == nil {
		storage = memory.New()
	}
	return application.NewSessionManager(storage, application.SessionConfig{
		Credentials:   credentials,
		LoginDelay:    deps.LoginDelay,
		RegisterDelay: deps.RegisterDelay,
		Observer:      deps.Observer,
		Logger:        deps.Logger,
	})
}
