package application

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	var err *ValidationError
	if err.Error() != "" {
		t.Fatalf("expected empty string for nil error, got %q", err.Error())
	}

	empty := &ValidationError{}
	if got := empty.Error(); got != "validation failed" {
		t.Fatalf("expected generic message for empty error, got %q", got)
	}

	withFields := &ValidationError{FieldErrors: map[string]string{"name": "name is required", "email": "email is required"}}
	if got := withFields.Error(); got != "validation failed: email, name" {
		t.Fatalf("expected sorted field list, got %q", got)
	}
}

func TestValidationError_AddMergeAndErrOrNil(t *testing.T) {
	t.Parallel()

	base := &ValidationError{}
	if base.errOrNil() != nil {
		t.Fatalf("expected nil error for empty validation error")
	}

	base.add("first", "value")
	if got := base.Message("first"); got != "value" {
		t.Fatalf("expected add to populate map, got %q", got)
	}

	base.merge(&ValidationError{FieldErrors: map[string]string{"second": "another"}})
	base.merge(nil)
	if len(base.FieldErrors) != 2 {
		t.Fatalf("expected two fields after merge, got %v", base.FieldErrors)
	}

	var vErr *ValidationError
	if !errors.As(base.errOrNil(), &vErr) || vErr != base {
		t.Fatalf("expected errOrNil to return the receiver")
	}
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{err: nil, want: ""},
		{err: ErrNotFound, want: "not_found"},
		{err: fmt.Errorf("wrapped: %w", ErrUnauthorized), want: "unauthorized"},
		{err: ErrInvalidCredentials, want: "invalid_credentials"},
		{err: ErrNotLoggedIn, want: "not_logged_in"},
		{err: &ValidationError{FieldErrors: map[string]string{"a": "b"}}, want: "validation"},
		{err: errors.New("boom"), want: "unexpected"},
	}

	for _, tc := range tests {
		if got := ErrorKind(tc.err); got != tc.want {
			t.Fatalf("ErrorKind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
