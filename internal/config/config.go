// Package config loads the affordhostel runtime configuration from
// AFFORDHOSTEL_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"affordhostel/internal/blob"
	"affordhostel/internal/core"
	"affordhostel/internal/gateway"
	"affordhostel/internal/kv"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig
	Logging LoggingConfig
	Storage core.StorageConfig
	KV      kv.Config
	Blob    blob.Config
	Gateway gateway.Config
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MetricsEnabled  bool
}

// Addr returns the listen address.
func (c HTTPConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	IncludeCaller bool
}

const (
	prefix = "AFFORDHOSTEL_"

	defaultHost            = "0.0.0.0"
	defaultPort            = 8080
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultLoggingLevel    = "info"
	defaultLoggingFormat   = "text"
	defaultGatewayTimeout  = 5 * time.Second
	defaultGatewayAttempts = 3
	defaultRedisDB         = 0
)

// Load reads configuration from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			Host:           valueOrDefault("HTTP_HOST", defaultHost),
			MetricsEnabled: parseBoolWithDefault("METRICS_ENABLED", true),
		},
		Logging: LoggingConfig{
			Level:         valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format:        valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
			IncludeCaller: parseBoolWithDefault("LOG_INCLUDE_CALLER", false),
		},
		Storage: core.StorageConfig{
			Driver:      core.StorageDriver(getenv("STORAGE_DRIVER")),
			SQLitePath:  getenv("SQLITE_PATH"),
			PostgresDSN: getenv("POSTGRES_DSN"),
		},
		KV: kv.Config{
			Driver: kv.Driver(getenv("KV_DRIVER")),
			Path:   getenv("KV_PATH"),
			Redis: kv.RedisConfig{
				Addr:     getenv("REDIS_ADDR"),
				Password: getenv("REDIS_PASSWORD"),
				DB:       parseIntWithDefault("REDIS_DB", defaultRedisDB),
				Prefix:   getenv("REDIS_PREFIX"),
			},
		},
		Blob: blob.Config{
			Driver:    blob.Driver(getenv("BLOB_DRIVER")),
			FSRoot:    getenv("BLOB_ROOT"),
			FSBaseURL: getenv("BLOB_BASE_URL"),
			S3: blob.S3Config{
				Bucket:          getenv("S3_BUCKET"),
				Region:          getenv("S3_REGION"),
				Endpoint:        getenv("S3_ENDPOINT"),
				AccessKeyID:     getenv("S3_ACCESS_KEY_ID"),
				SecretAccessKey: getenv("S3_SECRET_ACCESS_KEY"),
				SessionToken:    getenv("S3_SESSION_TOKEN"),
				PathStyle:       parseBoolWithDefault("S3_PATH_STYLE", false),
				PublicBaseURL:   getenv("S3_PUBLIC_BASE_URL"),
			},
		},
		Gateway: gateway.Config{
			Name:        "affordhostel",
			MaxAttempts: parseIntWithDefault("GATEWAY_MAX_ATTEMPTS", defaultGatewayAttempts),
		},
	}

	port, err := parsePort("HTTP_PORT", defaultPort)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	durations := []struct {
		key      string
		fallback time.Duration
		dst      *time.Duration
	}{
		{"HTTP_READ_TIMEOUT", defaultReadTimeout, &cfg.HTTP.ReadTimeout},
		{"HTTP_WRITE_TIMEOUT", defaultWriteTimeout, &cfg.HTTP.WriteTimeout},
		{"HTTP_IDLE_TIMEOUT", defaultIdleTimeout, &cfg.HTTP.IdleTimeout},
		{"HTTP_SHUTDOWN_TIMEOUT", defaultShutdownTimeout, &cfg.HTTP.ShutdownTimeout},
		{"GATEWAY_LATENCY", 0, &cfg.Gateway.Latency},
		{"GATEWAY_TIMEOUT", defaultGatewayTimeout, &cfg.Gateway.Timeout},
	}
	for _, d := range durations {
		v, err := parseDuration(d.key, d.fallback)
		if err != nil {
			return Config{}, err
		}
		*d.dst = v
	}
	return cfg, nil
}

func getenv(key string) string {
	return os.Getenv(prefix + key)
}

func valueOrDefault(key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s%s: %w", prefix, key, err)
	}
	return d, nil
}

func parsePort(key string, fallback int) (int, error) {
	if v := getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s%s value %q: %w", prefix, key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}
