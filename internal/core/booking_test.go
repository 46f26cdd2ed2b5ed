package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"affordhostel/internal/gateway"
	"affordhostel/pkg/domain"
)

func bookingRequest(hostelID, roomType string) domain.BookingRequest {
	return domain.BookingRequest{
		HostelID: hostelID,
		RoomType: roomType,
		CheckIn:  time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC),
		Amount:   45000,
	}
}

func roomAvailability(t *testing.T, svc *Service, hostelID, roomType string) int {
	t.Helper()
	h, ok := svc.GetHostel(hostelID)
	if !ok {
		t.Fatalf("hostel %s missing", hostelID)
	}
	idx, ok := h.FindRoomType(roomType)
	if !ok {
		t.Fatalf("room type %s missing", roomType)
	}
	return h.RoomTypes[idx].Available
}

func TestCreateBookingDecrementsInventory(t *testing.T) {
	svc := newTestService(t)
	student := mustLogin(t, svc, domain.RoleStudent)
	before := roomAvailability(t, svc, "1", "Single Room")
	b, _, err := svc.CreateBooking(context.Background(), bookingRequest("1", "Single Room"))
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if b.ID == "" || b.Status != domain.BookingPending || b.StudentID != student.ID || !b.CreatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected booking %+v", b)
	}
	if after := roomAvailability(t, svc, "1", "Single Room"); after != before-1 {
		t.Fatalf("expected availability %d, got %d", before-1, after)
	}
	if got := svc.BookingsForStudent(student.ID); len(got) != 3 || got[2].ID != b.ID {
		t.Fatalf("expected new booking appended after seeds, got %+v", got)
	}
}

func TestCreateBookingErrors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	if _, _, err := svc.CreateBooking(ctx, bookingRequest("1", "Single Room")); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	mustLogin(t, svc, domain.RoleStudent)
	inverted := bookingRequest("1", "Single Room")
	inverted.CheckOut = inverted.CheckIn
	zero := bookingRequest("1", "Single Room")
	zero.Amount = 0
	cases := []struct {
		name string
		req  domain.BookingRequest
		want error
	}{
		{"checkout not after checkin", inverted, domain.ErrValidation},
		{"zero amount", zero, domain.ErrValidation},
		{"unknown hostel", bookingRequest("nope", "Single Room"), domain.ErrNotFound},
		{"unknown room type", bookingRequest("1", "Penthouse"), domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := svc.CreateBooking(ctx, tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if got := len(svc.ListBookings()); got != 2 {
		t.Fatalf("failed bookings must not be stored, have %d", got)
	}
}

func TestCreateBookingSoldOut(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	mustLogin(t, svc, domain.RoleStudent)
	// Prestige Hostels has two deluxe rooms and no other room type.
	for i := 0; i < 2; i++ {
		if _, _, err := svc.CreateBooking(ctx, bookingRequest("3", "Deluxe Room")); err != nil {
			t.Fatalf("booking %d: %v", i, err)
		}
	}
	h, _ := svc.GetHostel("3")
	if h.Available {
		t.Fatalf("hostel must be unavailable once every room type is sold out")
	}
	_, _, err := svc.CreateBooking(ctx, bookingRequest("3", "Deluxe Room"))
	if !errors.Is(err, domain.ErrSoldOut) {
		t.Fatalf("expected ErrSoldOut, got %v", err)
	}
	var soldOut domain.SoldOutError
	if !errors.As(err, &soldOut) || soldOut.HostelID != "3" {
		t.Fatalf("expected typed sold out error, got %#v", err)
	}
	if roomAvailability(t, svc, "3", "Deluxe Room") != 0 {
		t.Fatalf("availability must not go negative")
	}
}

func TestCreateBookingCancelledBeforeCommit(t *testing.T) {
	svc := newTestService(t, WithGateway(gateway.New(gateway.Config{Name: "slow", Latency: time.Second})))
	mustLogin(t, svc, domain.RoleStudent)
	before := roomAvailability(t, svc, "1", "Single Room")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, _, err := svc.CreateBooking(ctx, bookingRequest("1", "Single Room"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if roomAvailability(t, svc, "1", "Single Room") != before || len(svc.ListBookings()) != 2 {
		t.Fatalf("cancelled booking must leave state untouched")
	}

	cancelled, stop := context.WithCancel(context.Background())
	stop()
	if _, _, err := svc.CreateBooking(cancelled, bookingRequest("1", "Single Room")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestUpdateBookingStatusTransitions(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	mustLogin(t, svc, domain.RoleStudent)
	b, _, err := svc.CreateBooking(ctx, bookingRequest("2", "Single Room"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	held := roomAvailability(t, svc, "2", "Single Room")

	if _, _, err := svc.UpdateBookingStatus(ctx, b.ID, domain.BookingConfirmed); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	last := svc.Notifications()[len(svc.Notifications())-1]
	if last.Title != "Booking Confirmed" || !strings.Contains(last.Message, "Kilele Hostels") {
		t.Fatalf("expected confirmation notice, got %+v", last)
	}
	if _, _, err := svc.UpdateBookingStatus(ctx, b.ID, domain.BookingRejected); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("confirmed bookings cannot be rejected, got %v", err)
	}
	got, _, err := svc.UpdateBookingStatus(ctx, b.ID, domain.BookingCancelled)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got.Status != domain.BookingCancelled {
		t.Fatalf("unexpected status %s", got.Status)
	}
	if after := roomAvailability(t, svc, "2", "Single Room"); after != held+1 {
		t.Fatalf("cancellation restores one room: want %d got %d", held+1, after)
	}
	if _, _, err := svc.UpdateBookingStatus(ctx, b.ID, domain.BookingConfirmed); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("cancelled is terminal, got %v", err)
	}
	if _, _, err := svc.UpdateBookingStatus(ctx, "missing", domain.BookingConfirmed); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, _, err := svc.UpdateBookingStatus(ctx, b.ID, "archived"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRejectingSoldOutBookingReopensHostel(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	mustLogin(t, svc, domain.RoleStudent)
	var last Booking
	for i := 0; i < 2; i++ {
		b, _, err := svc.CreateBooking(ctx, bookingRequest("3", "Deluxe Room"))
		if err != nil {
			t.Fatalf("booking %d: %v", i, err)
		}
		last = b
	}
	if _, _, err := svc.UpdateBookingStatus(ctx, last.ID, domain.BookingRejected); err != nil {
		t.Fatalf("reject: %v", err)
	}
	h, _ := svc.GetHostel("3")
	if !h.Available || h.RoomTypes[0].Available != 1 {
		t.Fatalf("expected reopened hostel, got %+v", h)
	}
}

func TestBuildReceipt(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := mustLogin(t, svc, domain.RoleStudent)
	b, _, err := svc.CreateBooking(ctx, bookingRequest("1", "Single Room"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	r, err := svc.BuildReceipt(ctx, b.ID, domain.ReceiptRequest{PaymentMethod: domain.PaymentMPesa, PhoneNumber: "+254700000000"})
	if err != nil {
		t.Fatalf("receipt: %v", err)
	}
	if r.ServiceFee != 1125 || r.TotalAmount != 46125 {
		t.Fatalf("unexpected fee %v total %v", r.ServiceFee, r.TotalAmount)
	}
	if r.Duration != 4 || r.CheckIn != "2024-09-01" || r.CheckOut != "2024-12-15" {
		t.Fatalf("unexpected stay %+v", r)
	}
	if r.HostelName != "Umoja Hostels" || r.CustomerName != user.Name || r.CustomerEmail != user.Email {
		t.Fatalf("unexpected parties %+v", r)
	}
	if !strings.HasPrefix(r.TransactionID, "MP") || !r.Timestamp.Equal(fixedNow) {
		t.Fatalf("unexpected transaction %s at %v", r.TransactionID, r.Timestamp)
	}
	if _, err := svc.BuildReceipt(ctx, b.ID, domain.ReceiptRequest{PaymentMethod: domain.PaymentMPesa}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("m-pesa receipts need a phone number, got %v", err)
	}
	if _, err := svc.BuildReceipt(ctx, "missing", domain.ReceiptRequest{PaymentMethod: domain.PaymentCard}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStayMonths(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		days int
		want int
	}{{0, 0}, {1, 1}, {30, 1}, {31, 2}, {120, 4}}
	for _, tc := range cases {
		if got := stayMonths(start, start.AddDate(0, 0, tc.days)); got != tc.want {
			t.Fatalf("%d days: got %d want %d", tc.days, got, tc.want)
		}
	}
}
