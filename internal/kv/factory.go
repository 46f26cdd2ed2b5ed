package kv

import (
	"context"
	"fmt"
)

// Config selects and configures a key/value backend.
type Config struct {
	Driver Driver
	// Path is the file or sqlite location for the file and sqlite drivers.
	Path  string
	Redis RedisConfig
}

// Open constructs the configured store. An empty driver selects the file driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverFile
	}
	switch driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFile:
		return NewFile(cfg.Path)
	case DriverSQLite:
		return NewSQLite(cfg.Path)
	case DriverRedis:
		return NewRedis(ctx, cfg.Redis)
	default:
		return nil, fmt.Errorf("unknown kv driver %s", driver)
	}
}
