package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/hostel-dashboard/internal/persistence"
)

// SessionConfig carries the collaborators shared by every session store.
type SessionConfig struct {
	Credentials   *CredentialTable
	LoginDelay    time.Duration
	RegisterDelay time.Duration
	// Sleep waits for d or until ctx is done. Defaults to a timer based wait.
	Sleep    func(ctx context.Context, d time.Duration) error
	Logger   *slog.Logger
	Observer Observer
}

func (c SessionConfig) withDefaults() SessionConfig {
	if c.Sleep == nil {
		c.Sleep = sleepContext
	}
	c.Logger = defaultLogger(c.Logger)
	c.Observer = observerOrNoop(c.Observer)
	return c
}

// SessionStore holds the identity of one client and mirrors it to the
// hostelUser and hostelUserRole slots of that client's storage.
type SessionStore struct {
	mu       sync.RWMutex
	storage  persistence.KeyValueStore
	config   SessionConfig
	identity *Identity
}

// NewSessionStore restores a session from storage. Missing or unreadable slots
// leave the store logged out.
func NewSessionStore(ctx context.Context, storage persistence.KeyValueStore, config SessionConfig) (*SessionStore, error) {
	if storage == nil {
		return nil, fmt.Errorf("session storage not configured")
	}
	s := &SessionStore{storage: storage, config: config.withDefaults()}
	if err := s.restore(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SessionStore) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.config.Logger, "SessionStore", operation, attrs...)
}

func (s *SessionStore) restore(ctx context.Context) error {
	rawUser, err := s.storage.Get(ctx, persistence.KeyUser)
	if errors.Is(err, persistence.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", persistence.KeyUser, err)
	}
	rawRole, err := s.storage.Get(ctx, persistence.KeyUserRole)
	if errors.Is(err, persistence.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", persistence.KeyUserRole, err)
	}

	logger := s.loggerWith(ctx, "Restore")
	role, ok := ParseRole(string(rawRole))
	if !ok {
		logger.WarnContext(ctx, "stored role is not recognised, staying logged out", "role", string(rawRole))
		return nil
	}
	var identity Identity
	if err := json.Unmarshal(rawUser, &identity); err != nil {
		logger.WarnContext(ctx, "stored identity is malformed, staying logged out", "error", err)
		return nil
	}
	identity.Role = role
	s.identity = &identity
	return nil
}

// Current returns the logged in identity, if any.
func (s *SessionStore) Current() (Identity, bool) {
	if s == nil {
		return Identity{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

// Login matches creds against the demo table, waits the login delay, then
// persists and adopts the canonical identity of the role.
func (s *SessionStore) Login(ctx context.Context, creds Credentials) (identity Identity, err error) {
	if s == nil {
		err = fmt.Errorf("SessionStore is nil")
		return
	}

	creds.Email = normalizeEmail(creds.Email)
	logger := s.loggerWith(ctx, "Login", "email", creds.Email, "role", creds.Role)
	defer func() {
		s.config.Observer.ObserveLogin(creds.Role, err == nil)
		if err != nil {
			logger.WarnContext(ctx, "login failed", "error", err, "error_kind", ErrorKind(err))
			if errors.Is(err, ErrInvalidCredentials) {
				notifyFailure(ctx, logger, "Login failed", "Invalid credentials")
			}
			return
		}
		logger.With("user_id", identity.ID).InfoContext(ctx, "login succeeded")
	}()

	if !s.config.Credentials.Match(creds) {
		err = ErrInvalidCredentials
		return
	}

	if err = s.config.Sleep(ctx, s.config.LoginDelay); err != nil {
		return
	}

	identity = canonicalIdentity(creds.Role, creds.Email)
	var payload []byte
	payload, err = json.Marshal(identity)
	if err != nil {
		err = fmt.Errorf("encode identity: %w", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err = s.storage.Put(ctx, persistence.KeyUser, payload); err != nil {
		return
	}
	if err = s.storage.Put(ctx, persistence.KeyUserRole, []byte(identity.Role)); err != nil {
		return
	}
	s.identity = &identity

	notify(ctx, logger, "Login successful", fmt.Sprintf("Welcome back, demo %s account!", identity.Role))
	return
}

// Logout removes the persisted identity and clears the session. Logging out
// twice is harmless.
func (s *SessionStore) Logout(ctx context.Context) (err error) {
	if s == nil {
		return fmt.Errorf("SessionStore is nil")
	}

	logger := s.loggerWith(ctx, "Logout")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "logout failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "logged out")
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err = s.storage.Delete(ctx, persistence.KeyUser); err != nil {
		return
	}
	if err = s.storage.Delete(ctx, persistence.KeyUserRole); err != nil {
		return
	}
	s.identity = nil

	notify(ctx, logger, "Logged out", "You have been logged out successfully")
	return
}

// Register validates a sign up form and acknowledges it after the register
// delay. No account is created and nothing is stored; demo logins stay the
// only way in.
func (s *SessionStore) Register(ctx context.Context, input RegistrationInput) (err error) {
	if s == nil {
		return fmt.Errorf("SessionStore is nil")
	}

	input.Email = normalizeEmail(input.Email)
	input.Name = strings.TrimSpace(input.Name)
	logger := s.loggerWith(ctx, "Register", "email", input.Email)
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "registration failed", "error", err, "error_kind", ErrorKind(err))
			var vErr *ValidationError
			if errors.As(err, &vErr) {
				notifyFailure(ctx, logger, "Registration failed", "Email and name are required")
			}
			return
		}
		logger.InfoContext(ctx, "registration acknowledged")
	}()

	vErr := &ValidationError{}
	if input.Name == "" {
		vErr.add("name", "Name is required")
	}
	if input.Email == "" {
		vErr.add("email", "Email is required")
	}
	if err = vErr.errOrNil(); err != nil {
		return
	}

	if err = s.config.Sleep(ctx, s.config.RegisterDelay); err != nil {
		return
	}

	notify(ctx, logger, "Registration successful", "Your account has been created. You can now log in.")
	return
}

// SessionManager opens session stores scoped to a client's storage namespace.
type SessionManager struct {
	storage persistence.KeyValueStore
	config  SessionConfig
}

// NewSessionManager constructs a manager over the shared storage.
func NewSessionManager(storage persistence.KeyValueStore, config SessionConfig) *SessionManager {
	return &SessionManager{storage: storage, config: config.withDefaults()}
}

// Open restores the session store of clientID.
func (m *SessionManager) Open(ctx context.Context, clientID string) (*SessionStore, error) {
	if m == nil {
		return nil, fmt.Errorf("SessionManager is nil")
	}
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, ErrNotLoggedIn
	}
	return NewSessionStore(ctx, persistence.Namespace(m.storage, persistence.ClientNamespace(clientID)), m.config)
}

// NewClientID returns a fresh client identifier.
func NewClientID() string {
	return uuid.NewString()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
