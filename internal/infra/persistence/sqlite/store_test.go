package sqlite

import (
	"affordhostel/pkg/domain"
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteStorePersistAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	store, err := NewStore(path, domain.NewRulesEngine())
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	ctx := context.Background()
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		h, err := tx.CreateHostel(domain.Hostel{Name: "Persist", VerificationStatus: domain.VerificationPendingSubmission})
		if err != nil {
			return err
		}
		if _, err := tx.CreateReview(domain.Review{HostelID: h.ID, Rating: 5, Comment: "first"}); err != nil {
			return err
		}
		_, err = tx.CreateReview(domain.Review{HostelID: h.ID, Rating: 3, Comment: "second"})
		return err
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reloaded, err := NewStore(path, domain.NewRulesEngine())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	t.Cleanup(func() { _ = reloaded.Close() })
	if got := len(reloaded.ListHostels()); got != 1 {
		t.Fatalf("expected 1 hostel, got %d", got)
	}
	reviews := reloaded.ListReviews()
	if len(reviews) != 2 || reviews[0].Comment != "first" || reviews[1].Comment != "second" {
		t.Fatalf("expected ordered reviews after reload, got %+v", reviews)
	}
	if reloaded.Path() != path {
		t.Fatalf("unexpected path %s", reloaded.Path())
	}
}

func TestSQLiteStoreWritesEveryBucket(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "state.db"), nil)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.CreateNotification(domain.Notification{Title: "hello"})
		return err
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	var count int
	if err := store.DB().QueryRow(`SELECT COUNT(*) FROM state`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 6 {
		t.Fatalf("expected 6 buckets, got %d", count)
	}
}

func TestSQLiteStoreFailedTransactionSkipsPersist(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "state.db"), nil)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	_, err = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.UpdateHostel("missing", func(*domain.Hostel) error { return nil })
		return err
	})
	if err == nil {
		t.Fatalf("expected not found error")
	}
	var count int
	if err := store.DB().QueryRow(`SELECT COUNT(*) FROM state`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no snapshot rows, got %d", count)
	}
}
