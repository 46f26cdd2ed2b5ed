package config

import (
	"strings"
	"testing"
	"time"

	"affordhostel/internal/blob"
	"affordhostel/internal/core"
	"affordhostel/internal/kv"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Addr() != "0.0.0.0:8080" || !cfg.HTTP.MetricsEnabled {
		t.Fatalf("unexpected http defaults %+v", cfg.HTTP)
	}
	if cfg.HTTP.ShutdownTimeout != 10*time.Second || cfg.Gateway.Timeout != 5*time.Second || cfg.Gateway.Latency != 0 {
		t.Fatalf("unexpected durations %+v %+v", cfg.HTTP, cfg.Gateway)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Fatalf("unexpected logging defaults %+v", cfg.Logging)
	}
	if cfg.Storage.Driver != "" || cfg.KV.Driver != "" || cfg.Blob.Driver != "" {
		t.Fatalf("drivers default to the factory choice")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	env := map[string]string{
		"AFFORDHOSTEL_HTTP_PORT":         "9090",
		"AFFORDHOSTEL_HTTP_READ_TIMEOUT": "3s",
		"AFFORDHOSTEL_METRICS_ENABLED":   "false",
		"AFFORDHOSTEL_LOG_LEVEL":         "debug",
		"AFFORDHOSTEL_LOG_FORMAT":        "json",
		"AFFORDHOSTEL_STORAGE_DRIVER":    "postgres",
		"AFFORDHOSTEL_POSTGRES_DSN":      "postgres://db/affordhostel",
		"AFFORDHOSTEL_KV_DRIVER":         "redis",
		"AFFORDHOSTEL_REDIS_ADDR":        "cache:6379",
		"AFFORDHOSTEL_REDIS_DB":          "2",
		"AFFORDHOSTEL_BLOB_DRIVER":       "s3",
		"AFFORDHOSTEL_S3_BUCKET":         "media",
		"AFFORDHOSTEL_S3_PATH_STYLE":     "true",
		"AFFORDHOSTEL_GATEWAY_LATENCY":   "250ms",
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Port != 9090 || cfg.HTTP.ReadTimeout != 3*time.Second || cfg.HTTP.MetricsEnabled {
		t.Fatalf("unexpected http config %+v", cfg.HTTP)
	}
	if cfg.Storage.Driver != core.StoragePostgres || cfg.Storage.PostgresDSN != "postgres://db/affordhostel" {
		t.Fatalf("unexpected storage config %+v", cfg.Storage)
	}
	if cfg.KV.Driver != kv.DriverRedis || cfg.KV.Redis.Addr != "cache:6379" || cfg.KV.Redis.DB != 2 {
		t.Fatalf("unexpected kv config %+v", cfg.KV)
	}
	if cfg.Blob.Driver != blob.DriverS3 || cfg.Blob.S3.Bucket != "media" || !cfg.Blob.S3.PathStyle {
		t.Fatalf("unexpected blob config %+v", cfg.Blob)
	}
	if cfg.Gateway.Latency != 250*time.Millisecond || cfg.Logging.Format != "json" {
		t.Fatalf("unexpected gateway/logging config")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		key, value, want string
	}{
		{"AFFORDHOSTEL_HTTP_PORT", "http", "invalid AFFORDHOSTEL_HTTP_PORT"},
		{"AFFORDHOSTEL_HTTP_PORT", "70000", "out of range"},
		{"AFFORDHOSTEL_GATEWAY_TIMEOUT", "soon", "invalid AFFORDHOSTEL_GATEWAY_TIMEOUT"},
	}
	for _, tc := range cases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q error, got %v", tc.want, err)
			}
		})
	}
}

func TestMalformedOptionalValuesFallBack(t *testing.T) {
	t.Setenv("AFFORDHOSTEL_METRICS_ENABLED", "perhaps")
	t.Setenv("AFFORDHOSTEL_REDIS_DB", "x")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.HTTP.MetricsEnabled || cfg.KV.Redis.DB != 0 {
		t.Fatalf("expected defaults, got %+v %+v", cfg.HTTP, cfg.KV.Redis)
	}
}
