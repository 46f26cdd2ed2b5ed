// Package gateway wraps calls to remote backends (payments, uploads) with
// latency emulation, per-call timeouts, retries with exponential backoff and
// a circuit breaker.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// ErrUnavailable reports that the backend could not serve the call, either
// because retries were exhausted or because the breaker is open.
var ErrUnavailable = errors.New("gateway: backend unavailable")

// Config tunes a Gateway. Zero values fall back to defaults.
type Config struct {
	Name string
	// Latency is the emulated round trip added to every attempt.
	Latency time.Duration
	// Timeout bounds the whole call including retries; zero disables it.
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	BackoffFactor  float64
	// TripAfter opens the breaker once consecutive transient failures exceed it.
	TripAfter uint32
	// OpenFor is how long the breaker stays open before probing again.
	OpenFor       time.Duration
	OnStateChange func(name string, from, to string)
}

func (c Config) withDefaults() Config {
	if c.Name == "" {
		c.Name = "gateway"
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 100 * time.Millisecond
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 2 * time.Second
	}
	if c.BackoffFactor < 1 {
		c.BackoffFactor = 1.5
	}
	if c.TripAfter == 0 {
		c.TripAfter = 2
	}
	if c.OpenFor <= 0 {
		c.OpenFor = 10 * time.Second
	}
	return c
}

// Gateway is safe for concurrent use.
type Gateway struct {
	cfg   Config
	cb    *gobreaker.CircuitBreaker
	sleep func(ctx context.Context, d time.Duration) error
}

// New builds a Gateway.
func New(cfg Config) *Gateway {
	cfg = cfg.withDefaults()
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > cfg.TripAfter
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !IsTransient(err)
		},
	}
	if cfg.OnStateChange != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			cfg.OnStateChange(name, from.String(), to.String())
		}
	}
	return &Gateway{cfg: cfg, cb: gobreaker.NewCircuitBreaker(settings), sleep: sleepCtx}
}

// Name returns the configured gateway name.
func (g *Gateway) Name() string { return g.cfg.Name }

// State returns the breaker state ("closed", "half-open", "open").
func (g *Gateway) State() string { return g.cb.State().String() }

// Call runs fn for op. Transient errors are retried; any other error from fn
// is returned as is. Context errors abort immediately.
func (g *Gateway) Call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}
	delay := g.cfg.InitialBackoff
	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := g.cb.Execute(func() (interface{}, error) {
			if err := g.sleep(ctx, g.cfg.Latency); err != nil {
				return nil, err
			}
			return nil, fn(ctx)
		})
		switch {
		case err == nil:
			return nil
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
		case ctx.Err() != nil:
			return ctx.Err()
		case !IsTransient(err):
			return err
		}
		lastErr = err
		if attempt == g.cfg.MaxAttempts {
			break
		}
		if err := g.sleep(ctx, delay); err != nil {
			return err
		}
		delay = time.Duration(float64(delay) * g.cfg.BackoffFactor)
		if delay > g.cfg.MaxBackoff {
			delay = g.cfg.MaxBackoff
		}
	}
	return fmt.Errorf("%s: %w after %d attempts: %w", op, ErrUnavailable, g.cfg.MaxAttempts, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

// Transient marks err as worth retrying.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return transientError{err: err}
}

// IsTransient reports whether err was marked by Transient.
func IsTransient(err error) bool {
	var t transientError
	return errors.As(err, &t)
}
