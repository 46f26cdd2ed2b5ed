package core

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"affordhostel/internal/infra/persistence/postgres"
	"affordhostel/pkg/domain"
)

func TestOpenPersistentStoreMemory(t *testing.T) {
	store, closeFn, err := OpenPersistentStore(context.Background(), StorageConfig{Driver: StorageMemory}, NewDefaultRulesEngine())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer closeFn()
	svc := NewService(store)
	if len(svc.ListHostels()) != 4 {
		t.Fatalf("expected seeded catalog")
	}
}

func TestOpenPersistentStoreSQLiteSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	cfg := StorageConfig{SQLitePath: filepath.Join(t.TempDir(), "state", "affordhostel.db")}
	store, closeFn, err := OpenPersistentStore(ctx, cfg, NewDefaultRulesEngine())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	svc := NewService(store)
	mustLogin(t, svc, domain.RoleLandlord)
	h, _, err := svc.AddHostel(ctx, sampleListing())
	if err != nil {
		t.Fatalf("add hostel: %v", err)
	}
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, closeFn, err := OpenPersistentStore(ctx, cfg, NewDefaultRulesEngine())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer closeFn()
	again := NewService(reopened)
	if len(again.ListHostels()) != 5 {
		t.Fatalf("expected 5 hostels after restart, got %d", len(again.ListHostels()))
	}
	if got, ok := again.GetHostel(h.ID); !ok || got.Name != h.Name {
		t.Fatalf("expected persisted listing, got %+v", got)
	}
	if len(again.GetHostelReviews("1")) != 2 {
		t.Fatalf("reviews must not be seeded twice")
	}
}

func TestOpenPersistentStorePostgresOpenError(t *testing.T) {
	errOpen := errors.New("no server")
	restore := postgres.OverrideSQLOpen(func(string, string) (*sql.DB, error) { return nil, errOpen })
	defer restore()
	_, _, err := OpenPersistentStore(context.Background(), StorageConfig{Driver: StoragePostgres}, nil)
	if !errors.Is(err, errOpen) {
		t.Fatalf("expected open error, got %v", err)
	}
}

func TestOpenPersistentStoreUnknownDriver(t *testing.T) {
	_, closeFn, err := OpenPersistentStore(context.Background(), StorageConfig{Driver: "mongo"}, nil)
	if err == nil || !strings.Contains(err.Error(), "mongo") {
		t.Fatalf("expected unknown driver error, got %v", err)
	}
	if closeFn() != nil {
		t.Fatalf("close must be safe on failure")
	}
}
