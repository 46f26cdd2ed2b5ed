// Command affordhostel serves the hostel booking API configured from
// AFFORDHOSTEL_* environment variables.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"affordhostel/internal/adapters/httpapi"
	"affordhostel/internal/blob"
	"affordhostel/internal/config"
	"affordhostel/internal/core"
	"affordhostel/internal/gateway"
	"affordhostel/internal/kv"
	"affordhostel/internal/logging"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var exitFunc = os.Exit

func main() {
	addr := flag.String("addr", "", "listen address, overrides AFFORDHOSTEL_HTTP_HOST/PORT")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		exitFunc(2)
		return
	}
	logger := logging.New(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listenAddr := cfg.HTTP.Addr()
	if *addr != "" {
		listenAddr = *addr
	}
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		logger.Error("listen failed", "addr", listenAddr, "error", err)
		exitFunc(1)
		return
	}
	if err := run(ctx, cfg, logger, ln); err != nil {
		logger.Error("server stopped", "error", err)
		exitFunc(1)
	}
}

// run wires the service from cfg and serves on ln until ctx is done.
func run(ctx context.Context, cfg config.Config, logger *slog.Logger, ln net.Listener) error {
	engine := core.NewDefaultRulesEngine()
	store, closeStore, err := core.OpenPersistentStore(ctx, cfg.Storage, engine)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("close storage", "error", err)
		}
	}()

	kvStore, err := kv.Open(ctx, cfg.KV)
	if err != nil {
		return fmt.Errorf("open kv: %w", err)
	}
	defer kvStore.Close()

	blobs, err := blob.Open(ctx, cfg.Blob)
	if err != nil {
		return fmt.Errorf("open blob store: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := core.NewPrometheusMetricsRecorder(reg)
	if err != nil {
		return err
	}

	gwCfg := cfg.Gateway
	gwCfg.OnStateChange = func(name, from, to string) {
		logger.Warn("gateway state changed", "gateway", name, "from", from, "to", to)
	}
	svc := core.NewService(store,
		core.WithLogger(logger),
		core.WithMetricsRecorder(metrics),
		core.WithAuditRecorder(core.LogAuditRecorder{Logger: logger}),
		core.WithGateway(gateway.New(gwCfg)),
		core.WithBlobStore(blobs),
		core.WithKVStore(kvStore),
	)

	opts := []httpapi.Option{httpapi.WithLogger(logger)}
	if cfg.HTTP.MetricsEnabled {
		opts = append(opts, httpapi.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}
	srv := &http.Server{
		Handler:      httpapi.NewRouter(svc, opts...),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving", "addr", ln.Addr().String(), "storage", cfg.Storage.Driver, "kv", kvStore.Driver(), "blob", blobs.Driver())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped gracefully")
	return nil
}
