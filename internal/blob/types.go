// Package blob re-exports the core blob abstractions and wraps the
// infra-backed drivers so other packages depend on the interface only.
package blob

import "affordhostel/internal/blob/core"

type (
	// Driver identifies a blob backend driver.
	Driver = core.Driver
	// PutOptions configures a blob write.
	PutOptions = core.PutOptions
	// Object describes stored blob metadata.
	Object = core.Object
	// Store is the interface for blob storage backends.
	Store = core.Store
)

// MediaPath is the URL prefix the HTTP adapter serves objects under.
const MediaPath = core.MediaPath

const (
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverS3 is the S3-compatible driver.
	DriverS3 = core.DriverS3
	// DriverMemory is the in-memory test driver.
	DriverMemory = core.DriverMemory
)

var (
	// ErrNotFound indicates a missing object.
	ErrNotFound = core.ErrNotFound
	// ErrExists indicates a Put onto a taken key.
	ErrExists = core.ErrExists
	// ErrInvalidKey indicates an unusable key.
	ErrInvalidKey = core.ErrInvalidKey
)
