package core

import (
	"context"
	"fmt"

	"affordhostel/pkg/domain"
)

// NewBookingIntegrityRule blocks bookings that reference a missing hostel or
// room type, or whose stay does not end after it starts.
func NewBookingIntegrityRule() domain.Rule {
	return bookingIntegrityRule{}
}

type bookingIntegrityRule struct{}

func (bookingIntegrityRule) Name() string { return "booking_integrity" }

func (r bookingIntegrityRule) Evaluate(_ context.Context, view domain.TransactionView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		if change.Entity != domain.EntityBooking || change.Action == domain.ActionDelete {
			continue
		}
		booking, ok := change.After.(domain.Booking)
		if !ok {
			continue
		}
		block := func(format string, args ...any) {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     r.Name(),
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf(format, args...),
				Entity:   domain.EntityBooking,
				EntityID: booking.ID,
			})
		}
		if !booking.CheckOut.After(booking.CheckIn) {
			block("booking %s checks out before it checks in", booking.ID)
		}
		hostel, ok := view.FindHostel(booking.HostelID)
		if !ok {
			block("booking %s references missing hostel %s", booking.ID, booking.HostelID)
			continue
		}
		if _, ok := hostel.FindRoomType(booking.RoomType); !ok {
			block("booking %s references unknown room type %q of hostel %s", booking.ID, booking.RoomType, hostel.ID)
		}
	}
	return res, nil
}
