package application

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrUnauthorized is returned when the acting identity lacks permission for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the referenced record does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrInvalidCredentials is returned when an email, password, and role triple matches no demo account.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrNotLoggedIn is returned by session operations that need an active session.
	ErrNotLoggedIn = errors.New("application: not logged in")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	if len(v.FieldErrors) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for field := range v.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// Message returns the message recorded for field, if any.
func (v *ValidationError) Message(field string) string {
	if v == nil {
		return ""
	}
	return v.FieldErrors[field]
}

func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

func (v *ValidationError) merge(other *ValidationError) {
	if other == nil || len(other.FieldErrors) == 0 {
		return
	}
	for field, msg := range other.FieldErrors {
		v.add(field, msg)
	}
}

// errOrNil returns v as an error only when it holds field errors, avoiding
// typed nil interfaces.
func (v *ValidationError) errOrNil() error {
	if !v.HasErrors() {
		return nil
	}
	return v
}
