// Package kv re-exports the durable key/value abstraction and wraps the
// infra-backed drivers so callers never import them directly.
package kv

import "affordhostel/internal/kv/core"

type (
	// Driver identifies a key/value backend driver.
	Driver = core.Driver
	// Store is the interface implemented by every key/value backend.
	Store = core.Store
)

const (
	// DriverMemory is the in-process test driver.
	DriverMemory = core.DriverMemory
	// DriverFile is the single JSON document driver.
	DriverFile = core.DriverFile
	// DriverSQLite is the embedded sqlite driver.
	DriverSQLite = core.DriverSQLite
	// DriverRedis is the Redis driver.
	DriverRedis = core.DriverRedis
)

// ErrNotFound is returned by Get when a key holds no value.
var ErrNotFound = core.ErrNotFound
