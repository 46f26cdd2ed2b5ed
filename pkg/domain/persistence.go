package domain

import "context"

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope.
type Transaction interface {
	Snapshot() TransactionView
	CreateHostel(Hostel) (Hostel, error)
	UpdateHostel(id string, mutator func(*Hostel) error) (Hostel, error)
	CreateBooking(Booking) (Booking, error)
	UpdateBooking(id string, mutator func(*Booking) error) (Booking, error)
	DeleteBooking(id string) error
	CreateReview(Review) (Review, error)
	UpdateReview(id string, mutator func(*Review) error) (Review, error)
	CreateNotification(Notification) (Notification, error)
	UpdateNotification(id string, mutator func(*Notification) error) (Notification, error)
	DeleteNotification(id string) error
	CreateWishlistItem(WishlistItem) (WishlistItem, error)
	DeleteWishlistItem(id string) error
	CreateVerificationReport(VerificationReport) (VerificationReport, error)
	FindHostel(id string) (Hostel, bool)
	FindBooking(id string) (Booking, bool)
}

// TransactionView provides read-only access to snapshot data for rules.
type TransactionView interface {
	ListHostels() []Hostel
	ListBookings() []Booking
	ListReviews() []Review
	ListNotifications() []Notification
	ListWishlistItems() []WishlistItem
	ListVerificationReports() []VerificationReport
	FindHostel(id string) (Hostel, bool)
	FindBooking(id string) (Booking, bool)
}

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers. List
// methods return records in insertion order.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	GetHostel(id string) (Hostel, bool)
	ListHostels() []Hostel
	GetBooking(id string) (Booking, bool)
	ListBookings() []Booking
	ListReviews() []Review
	ListNotifications() []Notification
	ListWishlistItems() []WishlistItem
	ListVerificationReports() []VerificationReport
}
