package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/hostel-dashboard/internal/application"
	"github.com/example/hostel-dashboard/internal/persistence/memory"
	"github.com/example/hostel-dashboard/internal/testfixtures"
)

type fakeSessionOpener struct {
	open func(ctx context.Context, clientID string) (*application.SessionStore, error)
}

func (f fakeSessionOpener) Open(ctx context.Context, clientID string) (*application.SessionStore, error) {
	return f.open(ctx, clientID)
}

type fakeTokenParser struct {
	claims SessionClaims
	err    error
}

func (f fakeTokenParser) Parse(string) (SessionClaims, error) {
	return f.claims, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSessionMiddleware(t *testing.T) {
	t.Parallel()

	factory := testfixtures.NewStoreFactory()
	manager := factory.NewSessionManager(t, testfixtures.SessionDeps{})
	loggedIn, err := manager.Open(context.Background(), "client-a")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := loggedIn.Login(context.Background(), testfixtures.DemoCredentials(application.RoleOffice)); err != nil {
		t.Fatalf("Login: %v", err)
	}

	t.Run("rejects requests without valid session tokens", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name         string
			cookieToken  *http.Cookie
			headerToken  string
			parser       fakeTokenParser
			opener       fakeSessionOpener
			expectedCode string
			expected     int
		}{
			{
				name:     "missing credentials",
				expected: http.StatusUnauthorized,
			},
			{
				name:         "invalid bearer token",
				headerToken:  "Bearer malformed",
				parser:       fakeTokenParser{err: errInvalidToken},
				expectedCode: "AUTH_SESSION_EXPIRED",
				expected:     http.StatusUnauthorized,
			},
			{
				name:        "logged out namespace",
				cookieToken: &http.Cookie{Name: "session_token", Value: "stale"},
				parser:      fakeTokenParser{claims: claimsFor("client-b", application.RoleOffice)},
				opener: fakeSessionOpener{open: func(ctx context.Context, clientID string) (*application.SessionStore, error) {
					return manager.Open(ctx, clientID)
				}},
				expectedCode: "AUTH_SESSION_EXPIRED",
				expected:     http.StatusUnauthorized,
			},
			{
				name:        "role changed since token was issued",
				headerToken: "Bearer old-role",
				parser:      fakeTokenParser{claims: claimsFor("client-a", application.RoleStudent)},
				opener: fakeSessionOpener{open: func(ctx context.Context, clientID string) (*application.SessionStore, error) {
					return manager.Open(ctx, clientID)
				}},
				expectedCode: "AUTH_SESSION_EXPIRED",
				expected:     http.StatusUnauthorized,
			},
			{
				name:        "storage failure",
				headerToken: "Bearer broken",
				parser:      fakeTokenParser{claims: claimsFor("client-a", application.RoleOffice)},
				opener: fakeSessionOpener{open: func(context.Context, string) (*application.SessionStore, error) {
					return nil, errors.New("storage offline")
				}},
				expected: http.StatusInternalServerError,
			},
		}

		for _, tc := range tests {
			tc := tc
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				req := httptest.NewRequest(http.MethodGet, "/protected", nil)
				if tc.cookieToken != nil {
					req.AddCookie(tc.cookieToken)
				}
				if tc.headerToken != "" {
					req.Header.Set("Authorization", tc.headerToken)
				}
				recorder := httptest.NewRecorder()

				resolver := NewSessionResolver(tc.opener, tc.parser)
				handler := RequireSession(resolver, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					t.Fatal("next handler should not be called when authentication fails")
				}))
				handler.ServeHTTP(recorder, req)

				if recorder.Code != tc.expected {
					t.Fatalf("expected %d, got %d", tc.expected, recorder.Code)
				}
				var resp errorResponse
				if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if resp.ErrorCode != tc.expectedCode {
					t.Fatalf("expected error code %q, got %q", tc.expectedCode, resp.ErrorCode)
				}
			})
		}
	})

	t.Run("attaches identity to request context", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: "session_token", Value: "valid-token"})
		recorder := httptest.NewRecorder()

		resolver := NewSessionResolver(manager, fakeTokenParser{claims: claimsFor("client-a", application.RoleOffice)})
		captured := make(chan application.Identity, 1)
		handler := RequireSession(resolver, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				t.Error("expected identity in request context")
			}
			captured <- identity
			w.WriteHeader(http.StatusOK)
		}))
		handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		if identity := <-captured; identity != testfixtures.OfficeIdentity() {
			t.Fatalf("unexpected identity %+v", identity)
		}
	})

	t.Run("optional session serves anonymous requests", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/public", nil)
		recorder := httptest.NewRecorder()
		called := false
		handler := OptionalSession(NewSessionResolver(manager, fakeTokenParser{err: errInvalidToken}))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			if _, ok := IdentityFromContext(r.Context()); ok {
				t.Error("did not expect an identity")
			}
		}))
		handler.ServeHTTP(recorder, req)
		if !called {
			t.Fatal("expected next handler to run")
		}
	})
}

func claimsFor(clientID string, role application.Role) SessionClaims {
	claims := SessionClaims{Role: role}
	claims.Subject = clientID
	return claims
}

func TestRequirePage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		identity *application.Identity
		pages    []string
		expected int
	}{
		{name: "anonymous", pages: []string{"/dashboard"}, expected: http.StatusUnauthorized},
		{name: "role outside page", identity: ptr(testfixtures.StudentIdentity()), pages: []string{"/students"}, expected: http.StatusForbidden},
		{name: "any page suffices", identity: ptr(testfixtures.MessIdentity()), pages: []string{"/students", "/attendance"}, expected: http.StatusOK},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/api/students", nil)
			if tc.identity != nil {
				req = req.WithContext(ContextWithIdentity(req.Context(), *tc.identity))
			}
			recorder := httptest.NewRecorder()
			RequirePage(discardLogger(), tc.pages...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})).ServeHTTP(recorder, req)

			if recorder.Code != tc.expected {
				t.Fatalf("expected %d, got %d", tc.expected, recorder.Code)
			}
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}

func TestRequestLoggerAttachesLogger(t *testing.T) {
	t.Parallel()

	var seen *slog.Logger
	handler := RequestLogger(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = LoggerFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == nil {
		t.Fatal("expected request logger in context")
	}
	if recorder.Code != http.StatusTeapot {
		t.Fatalf("expected status to pass through, got %d", recorder.Code)
	}
}

func TestTokenIssuer(t *testing.T) {
	t.Parallel()

	clock := testfixtures.NewClock(time.Time{})
	issuer := NewTokenIssuer("secret", time.Hour, clock.NowFunc())

	token, expiresAt, err := issuer.Issue("client-1", application.RoleMess)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !expiresAt.Equal(clock.Now().Add(time.Hour)) {
		t.Fatalf("unexpected expiry %v", expiresAt)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.ClientID() != "client-1" || claims.Role != application.RoleMess {
		t.Fatalf("unexpected claims %+v", claims)
	}

	if _, err := NewTokenIssuer("other", time.Hour, clock.NowFunc()).Parse(token); !errors.Is(err, errInvalidToken) {
		t.Fatalf("expected signature mismatch to be rejected, got %v", err)
	}

	clock.Advance(2 * time.Hour)
	if _, err := issuer.Parse(token); !errors.Is(err, errInvalidToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestHandleServiceErrorIncludesNotifications(t *testing.T) {
	t.Parallel()

	ctx, _ := application.ContextWithNotifications(context.Background())
	store, err := application.NewSessionStore(ctx, memory.New(), application.SessionConfig{Logger: discardLogger()})
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}
	err = store.Register(ctx, application.RegistrationInput{})

	recorder := httptest.NewRecorder()
	newResponder(discardLogger()).handleServiceError(ctx, recorder, err)
	if recorder.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", recorder.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Notifications) != 1 || resp.Notifications[0].Title != "Registration failed" {
		t.Fatalf("unexpected notifications %+v", resp.Notifications)
	}
}
