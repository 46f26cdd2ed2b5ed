// Package core defines the durable key/value abstraction shared by the kv
// facade and its infra drivers.
package core

import (
	"context"
	"errors"
)

// Driver identifies a concrete key/value backend implementation.
type Driver string

const (
	// DriverMemory keeps values in process memory (tests, ephemeral runs).
	DriverMemory Driver = "memory"
	// DriverFile stores every key in one JSON document on disk.
	DriverFile Driver = "file"
	// DriverSQLite stores keys in an embedded sqlite table.
	DriverSQLite Driver = "sqlite"
	// DriverRedis stores keys in a Redis server.
	DriverRedis Driver = "redis"
)

// Store is a minimal durable key/value slot.
type Store interface {
	// Get returns the stored value or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key and reports whether it existed.
	Delete(ctx context.Context, key string) (bool, error)
	// Driver returns the configured backend driver.
	Driver() Driver
	// Close releases backend resources.
	Close() error
}

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("kv: key not found")
