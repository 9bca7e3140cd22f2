// Package persistence defines the key-value contract behind the dashboard's
// local storage slots and the helpers shared by every backend.
package persistence

import (
	"context"
	"strings"
)

// Storage keys. Session keys live in a per-client namespace; the collection
// keys live in the shared namespace.
const (
	KeyUser               = "hostelUser"
	KeyUserRole           = "hostelUserRole"
	KeyOutpassRequests    = "hostelOutpassRequests"
	KeyComplaints         = "hostelComplaints"
	KeyMenuItems          = "hostelMenuItems"
	KeyAnnouncements      = "hostelAnnouncements"
	KeyMealAttendance     = "hostelMealAttendance"
	KeyStudents           = "hostelStudents"
	ClientNamespacePrefix = "client/"
)

// Driver names a backend implementation.
type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverRedis    Driver = "redis"
	DriverS3       Driver = "s3"
)

// Drivers lists every supported backend.
func Drivers() []Driver {
	return []Driver{DriverMemory, DriverSQLite, DriverPostgres, DriverRedis, DriverS3}
}

// KeyValueStore stores opaque values under string keys. Put overwrites;
// Delete of a missing key is not an error; Get of a missing key returns
// ErrNotFound.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Backend is a KeyValueStore owning external resources.
type Backend interface {
	KeyValueStore
	Ping(ctx context.Context) error
	Close() error
}

type namespaced struct {
	prefix string
	inner  KeyValueStore
}

// Namespace scopes every key of inner under prefix.
func Namespace(inner KeyValueStore, prefix string) KeyValueStore {
	if prefix == "" {
		return inner
	}
	return &namespaced{prefix: prefix, inner: inner}
}

// ClientNamespace returns the prefix used for a client's session slots.
func ClientNamespace(clientID string) string {
	return ClientNamespacePrefix + strings.TrimSpace(clientID) + "/"
}

func (n *namespaced) Get(ctx context.Context, key string) ([]byte, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *namespaced) Put(ctx context.Context, key string, value []byte) error {
	return n.inner.Put(ctx, n.prefix+key, value)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.prefix+key)
}
