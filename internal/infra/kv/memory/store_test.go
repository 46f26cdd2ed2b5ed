package memory

import (
	"affordhostel/internal/kv/core"
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreCopiesValues(t *testing.T) {
	s := New()
	ctx := context.Background()
	buf := []byte("abc")
	if err := s.Set(ctx, "k", buf); err != nil {
		t.Fatalf("set: %v", err)
	}
	buf[0] = 'z'
	got, _ := s.Get(ctx, "k")
	got[1] = 'z'
	again, _ := s.Get(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("store leaked buffer: %q", again)
	}
	if s.Driver() != core.DriverMemory || s.Close() != nil {
		t.Fatalf("unexpected driver or close")
	}
}

func TestMemoryStoreHonoursCancel(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Get(ctx, "k"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancel, got %v", err)
	}
	if _, err := s.Delete(ctx, "k"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancel, got %v", err)
	}
}
