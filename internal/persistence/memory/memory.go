// Package memory provides a process-local key-value backend.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/example/hostel-dashboard/internal/persistence"
)

// Storage keeps values in a map guarded by a read/write mutex.
type Storage struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// New returns an empty Storage.
func New() *Storage {
	return &Storage{values: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return nil, persistence.ErrNotFound
	}
	return cloneBytes(value), nil
}

// Put stores a copy of value under key.
func (s *Storage) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = cloneBytes(value)
	return nil
}

// Delete removes key if present.
func (s *Storage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

// Keys lists stored keys with the given prefix in lexical order.
func (s *Storage) Keys(prefix string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Ping always succeeds.
func (s *Storage) Ping(context.Context) error {
	return nil
}

// Close is a no-op.
func (s *Storage) Close() error {
	return nil
}

func cloneBytes(value []byte) []byte {
	if value == nil {
		return []byte{}
	}
	clone := make([]byte, len(value))
	copy(clone, value)
	return clone
}
