package memory

import (
	"affordhostel/pkg/domain"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestStoreRunInTransactionAndSnapshots(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()
	_, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if _, ok := tx.FindHostel("missing"); ok {
			t.Fatalf("expected missing hostel lookup")
		}
		created, err := tx.CreateHostel(domain.Hostel{Name: "Umoja", RoomTypes: []domain.RoomType{{Type: "Single Room", Available: 1, Total: 2}}})
		if err != nil {
			return err
		}
		if created.ID == "" {
			t.Fatalf("expected generated ID")
		}
		if len(tx.Snapshot().ListHostels()) != 1 {
			t.Fatalf("snapshot mismatch")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("run transaction: %v", err)
	}
	if len(store.ListHostels()) != 1 {
		t.Fatalf("expected persisted hostel")
	}
	snapshot := store.ExportState()
	store.ImportState(Snapshot{})
	if !store.Empty() {
		t.Fatalf("expected cleared state")
	}
	store.ImportState(snapshot)
	if len(store.ListHostels()) != 1 {
		t.Fatalf("expected restored state")
	}
	if store.RulesEngine() == nil || store.NowFunc() == nil {
		t.Fatalf("expected engine and clock")
	}
}

func TestStoreRuleViolationDiscardsChanges(t *testing.T) {
	store := NewStore(domain.NewRulesEngine())
	store.RulesEngine().Register(blockingRule{})
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, e := tx.CreateHostel(domain.Hostel{Name: "Fail"})
		return e
	})
	var rv domain.RuleViolationError
	if !errors.As(err, &rv) {
		t.Fatalf("expected rule violation error, got %v", err)
	}
	if !store.Empty() {
		t.Fatalf("blocked transaction must not commit")
	}
}

func TestStoreMutatorErrorRollsBack(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()
	var id string
	if _, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		h, err := tx.CreateHostel(domain.Hostel{Name: "A"})
		id = h.ID
		return err
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	boom := errors.New("boom")
	_, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if _, err := tx.UpdateHostel(id, func(h *domain.Hostel) error {
			h.Name = "B"
			return nil
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if h, _ := store.GetHostel(id); h.Name != "A" {
		t.Fatalf("expected rollback, got %q", h.Name)
	}
}

func TestStoreCancelledContextAbortsBeforeCommit(t *testing.T) {
	store := NewStore(nil)
	ctx, cancel := context.WithCancel(context.Background())
	_, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if _, err := tx.CreateHostel(domain.Hostel{Name: "Late"}); err != nil {
			return err
		}
		cancel()
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !store.Empty() {
		t.Fatalf("cancelled transaction must not commit")
	}
}

func TestStoreNotFoundErrors(t *testing.T) {
	store := NewStore(nil)
	_, _ = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		checks := []error{
			func() error { _, err := tx.UpdateHostel("x", func(*domain.Hostel) error { return nil }); return err }(),
			func() error { _, err := tx.UpdateBooking("x", func(*domain.Booking) error { return nil }); return err }(),
			func() error { _, err := tx.UpdateReview("x", func(*domain.Review) error { return nil }); return err }(),
			func() error {
				_, err := tx.UpdateNotification("x", func(*domain.Notification) error { return nil })
				return err
			}(),
			tx.DeleteBooking("x"),
			tx.DeleteNotification("x"),
			tx.DeleteWishlistItem("x"),
		}
		for i, err := range checks {
			if !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("check %d: expected ErrNotFound, got %v", i, err)
			}
		}
		return nil
	})
}

func TestStorePreservesInsertionOrder(t *testing.T) {
	store := NewStore(nil)
	ids := []string{"c", "a", "b"}
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		for _, id := range ids {
			if _, err := tx.CreateReview(domain.Review{Base: domain.Base{ID: id}, HostelID: "1", Rating: 4}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("create reviews: %v", err)
	}
	got := store.ListReviews()
	for i, r := range got {
		if r.ID != ids[i] {
			t.Fatalf("position %d: got %s want %s", i, r.ID, ids[i])
		}
	}
}

func TestStoreWishlistUniqueness(t *testing.T) {
	store := NewStore(nil)
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		if _, err := tx.CreateWishlistItem(domain.WishlistItem{UserID: "1", HostelID: "2"}); err != nil {
			return err
		}
		if _, err := tx.CreateWishlistItem(domain.WishlistItem{UserID: "1", HostelID: "2"}); err == nil {
			t.Fatalf("expected duplicate wishlist rejection")
		}
		_, err := tx.CreateWishlistItem(domain.WishlistItem{UserID: "9", HostelID: "2"})
		return err
	})
	if err != nil {
		t.Fatalf("wishlist: %v", err)
	}
	if len(store.ListWishlistItems()) != 2 {
		t.Fatalf("expected two wishlist entries")
	}
}

func TestStoreReturnsClones(t *testing.T) {
	store := NewStore(nil)
	var id string
	_, _ = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		h, err := tx.CreateHostel(domain.Hostel{Amenities: []string{"WiFi"}, RoomTypes: []domain.RoomType{{Type: "S", Total: 1, Available: 1}}})
		id = h.ID
		return err
	})
	h, _ := store.GetHostel(id)
	h.Amenities[0] = "Pool"
	h.RoomTypes[0].Available = 0
	again, _ := store.GetHostel(id)
	if again.Amenities[0] != "WiFi" || again.RoomTypes[0].Available != 1 {
		t.Fatalf("store leaked internal state: %+v", again)
	}
}

func TestStoreUsesInjectedClock(t *testing.T) {
	store := NewStore(nil)
	fixed := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	store.SetNowFunc(func() time.Time { return fixed })
	_, _ = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.CreateNotification(domain.Notification{Title: "t"})
		return err
	})
	n := store.ListNotifications()[0]
	if !n.CreatedAt.Equal(fixed) || !n.UpdatedAt.Equal(fixed) {
		t.Fatalf("expected fixed timestamps, got %v %v", n.CreatedAt, n.UpdatedAt)
	}
}

func TestSnapshotBucketsRoundTrip(t *testing.T) {
	store := NewStore(nil)
	_, _ = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		if _, err := tx.CreateHostel(domain.Hostel{Base: domain.Base{ID: "1"}, Name: "A", VerificationStatus: domain.VerificationVerified}); err != nil {
			return err
		}
		_, err := tx.CreateVerificationReport(domain.VerificationReport{HostelID: "1", Photos: []string{"p"}, Status: domain.VerificationVerified})
		return err
	})
	buckets, err := store.ExportState().EncodeBuckets()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(buckets) != len(Buckets) {
		t.Fatalf("expected %d buckets, got %d", len(Buckets), len(buckets))
	}
	var restored Snapshot
	for name, payload := range buckets {
		if err := restored.DecodeBucket(name, payload); err != nil {
			t.Fatalf("decode %s: %v", name, err)
		}
	}
	if err := restored.DecodeBucket("unknown", []byte("garbage")); err != nil {
		t.Fatalf("unknown buckets are ignored: %v", err)
	}
	if err := restored.DecodeBucket(BucketHostels, []byte("{")); err == nil {
		t.Fatalf("expected decode error")
	}
	fresh := NewStore(nil)
	fresh.ImportState(restored)
	if len(fresh.ListHostels()) != 1 || len(fresh.ListVerificationReports()) != 1 {
		t.Fatalf("unexpected restored state %+v", fresh.ExportState())
	}
}

func TestNormalizeSnapshotRepairsRecords(t *testing.T) {
	raw := `{
		"hostels": [
			{"id": "1", "verification_status": "bogus", "verified": true, "room_types": [{"type": "S", "available": 9, "total": 3}]},
			{"id": ""}
		],
		"bookings": [{"id": "b", "status": "weird"}],
		"notifications": [{"id": "n"}],
		"wishlist": [
			{"id": "w1", "user_id": "1", "hostel_id": "1"},
			{"id": "w2", "user_id": "1", "hostel_id": "1"}
		]
	}`
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	store := NewStore(nil)
	store.ImportState(snap)
	hostels := store.ListHostels()
	if len(hostels) != 1 {
		t.Fatalf("expected id-less hostel dropped, got %d", len(hostels))
	}
	h := hostels[0]
	if h.VerificationStatus != domain.VerificationPendingSubmission || h.Verified {
		t.Fatalf("expected status reset, got %s verified=%v", h.VerificationStatus, h.Verified)
	}
	if h.RoomTypes[0].Available != 3 {
		t.Fatalf("expected availability clamp, got %d", h.RoomTypes[0].Available)
	}
	if b, _ := store.GetBooking("b"); b.Status != domain.BookingPending {
		t.Fatalf("expected booking status reset, got %s", b.Status)
	}
	if store.ListNotifications()[0].Type != domain.NotificationInfo {
		t.Fatalf("expected default notification type")
	}
	if len(store.ListWishlistItems()) != 1 {
		t.Fatalf("expected duplicate wishlist collapse")
	}
}

type blockingRule struct{}

func (blockingRule) Name() string { return "block" }

func (blockingRule) Evaluate(context.Context, domain.TransactionView, []domain.Change) (domain.Result, error) {
	return domain.Result{Violations: []domain.Violation{{Rule: "block", Severity: domain.SeverityBlock}}}, nil
}
