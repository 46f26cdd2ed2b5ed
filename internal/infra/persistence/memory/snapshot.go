package memory

import (
	"affordhostel/pkg/domain"
	"encoding/json"
	"fmt"
)

// Snapshot captures a point-in-time clone of the store state. Slices keep
// insertion order so reloads preserve listing order.
type Snapshot struct {
	Hostels             []Hostel             `json:"hostels"`
	Bookings            []Booking            `json:"bookings"`
	Reviews             []Review             `json:"reviews"`
	Notifications       []Notification       `json:"notifications"`
	Wishlist            []WishlistItem       `json:"wishlist"`
	VerificationReports []VerificationReport `json:"verification_reports"`
}

// Bucket names used by snapshotting backends, one row per collection.
const (
	BucketHostels             = "hostels"
	BucketBookings            = "bookings"
	BucketReviews             = "reviews"
	BucketNotifications       = "notifications"
	BucketWishlist            = "wishlist"
	BucketVerificationReports = "verification_reports"
)

// Buckets lists every snapshot bucket in persistence order.
var Buckets = []string{
	BucketHostels,
	BucketBookings,
	BucketReviews,
	BucketNotifications,
	BucketWishlist,
	BucketVerificationReports,
}

// EncodeBuckets serialises each collection of the snapshot to JSON.
func (s Snapshot) EncodeBuckets() (map[string][]byte, error) {
	out := make(map[string][]byte, len(Buckets))
	for _, bucket := range Buckets {
		var (
			data []byte
			err  error
		)
		switch bucket {
		case BucketHostels:
			data, err = json.Marshal(nonNil(s.Hostels))
		case BucketBookings:
			data, err = json.Marshal(nonNil(s.Bookings))
		case BucketReviews:
			data, err = json.Marshal(nonNil(s.Reviews))
		case BucketNotifications:
			data, err = json.Marshal(nonNil(s.Notifications))
		case BucketWishlist:
			data, err = json.Marshal(nonNil(s.Wishlist))
		case BucketVerificationReports:
			data, err = json.Marshal(nonNil(s.VerificationReports))
		}
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", bucket, err)
		}
		out[bucket] = data
	}
	return out, nil
}

// DecodeBucket fills the collection named by bucket. Unknown buckets and
// empty payloads are ignored.
func (s *Snapshot) DecodeBucket(bucket string, payload []byte) error {
	if len(payload) == 0 {
		return nil
	}
	var target any
	switch bucket {
	case BucketHostels:
		target = &s.Hostels
	case BucketBookings:
		target = &s.Bookings
	case BucketReviews:
		target = &s.Reviews
	case BucketNotifications:
		target = &s.Notifications
	case BucketWishlist:
		target = &s.Wishlist
	case BucketVerificationReports:
		target = &s.VerificationReports
	default:
		return nil
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("decode %s: %w", bucket, err)
	}
	return nil
}

func nonNil[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}

func snapshotFromMemoryState(state memoryState) Snapshot {
	return Snapshot{
		Hostels:             state.hostels.list(cloneHostel),
		Bookings:            state.bookings.list(cloneBooking),
		Reviews:             state.reviews.list(cloneReview),
		Notifications:       state.notifications.list(cloneNotification),
		Wishlist:            state.wishlist.list(cloneWishlistItem),
		VerificationReports: state.reports.list(cloneReport),
	}
}

func memoryStateFromSnapshot(s Snapshot) memoryState {
	state := newMemoryState()
	for _, h := range s.Hostels {
		state.hostels.put(h.ID, cloneHostel(h))
	}
	for _, b := range s.Bookings {
		state.bookings.put(b.ID, b)
	}
	for _, r := range s.Reviews {
		state.reviews.put(r.ID, r)
	}
	for _, n := range s.Notifications {
		state.notifications.put(n.ID, n)
	}
	for _, w := range s.Wishlist {
		state.wishlist.put(w.ID, w)
	}
	for _, r := range s.VerificationReports {
		state.reports.put(r.ID, cloneReport(r))
	}
	return state
}

// normalizeSnapshot repairs records loaded from older or hand-edited
// snapshots: rows without ids are dropped, unknown statuses fall back to
// their initial state, room availability is clamped into [0, total] and
// duplicate wishlist entries collapse to the first.
func normalizeSnapshot(s Snapshot) Snapshot {
	out := Snapshot{}
	for _, h := range s.Hostels {
		if h.ID == "" {
			continue
		}
		h = cloneHostel(h)
		if !h.VerificationStatus.Valid() {
			h.VerificationStatus = domain.VerificationPendingSubmission
			h.Verified = false
		}
		for i := range h.RoomTypes {
			rt := &h.RoomTypes[i]
			if rt.Total < 0 {
				rt.Total = 0
			}
			if rt.Available < 0 {
				rt.Available = 0
			}
			if rt.Available > rt.Total {
				rt.Available = rt.Total
			}
		}
		out.Hostels = append(out.Hostels, h)
	}
	for _, b := range s.Bookings {
		if b.ID == "" {
			continue
		}
		if !b.Status.Valid() {
			b.Status = domain.BookingPending
		}
		out.Bookings = append(out.Bookings, b)
	}
	for _, r := range s.Reviews {
		if r.ID != "" {
			out.Reviews = append(out.Reviews, r)
		}
	}
	for _, n := range s.Notifications {
		if n.ID == "" {
			continue
		}
		if n.Type == "" {
			n.Type = domain.NotificationInfo
		}
		out.Notifications = append(out.Notifications, n)
	}
	seen := make(map[[2]string]struct{}, len(s.Wishlist))
	for _, w := range s.Wishlist {
		key := [2]string{w.UserID, w.HostelID}
		if _, dup := seen[key]; dup || w.ID == "" {
			continue
		}
		seen[key] = struct{}{}
		out.Wishlist = append(out.Wishlist, w)
	}
	for _, r := range s.VerificationReports {
		if r.ID != "" {
			out.VerificationReports = append(out.VerificationReports, cloneReport(r))
		}
	}
	return out
}
