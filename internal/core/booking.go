package core

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"affordhostel/pkg/domain"

	"github.com/google/uuid"
)

const (
	serviceFeeRate = 0.025
	receiptDate    = "2006-01-02"
	billingMonth   = 30 * 24 * time.Hour
)

// CreateBooking reserves one room of the requested type for the current user.
// The request passes through the gateway before the availability check and
// decrement are committed together with the pending booking.
func (s *Service) CreateBooking(ctx context.Context, req domain.BookingRequest) (Booking, Result, error) {
	var created Booking
	var res Result
	err := s.observe(ctx, opCreateBooking, func(ctx context.Context) (string, error) {
		user, err := s.requireUser()
		if err != nil {
			return "", err
		}
		if err := req.Validate(); err != nil {
			return "", err
		}
		err = s.gateway.Call(ctx, opCreateBooking, func(ctx context.Context) error {
			var txErr error
			res, txErr = s.store.RunInTransaction(ctx, func(tx Transaction) error {
				var err error
				created, err = reserveRoom(tx, user, req)
				return err
			})
			return txErr
		})
		return created.ID, err
	})
	s.logWarnings(opCreateBooking, res)
	if err != nil {
		return Booking{}, res, err
	}
	return created, res, nil
}

func reserveRoom(tx Transaction, user User, req domain.BookingRequest) (Booking, error) {
	hostel, ok := tx.FindHostel(req.HostelID)
	if !ok {
		return Booking{}, domain.NotFoundError{Entity: domain.EntityHostel, ID: req.HostelID}
	}
	idx, ok := hostel.FindRoomType(req.RoomType)
	if !ok {
		return Booking{}, fmt.Errorf("room type %q of hostel %s: %w", req.RoomType, req.HostelID, domain.ErrNotFound)
	}
	if err := holdRoom(tx, hostel, idx); err != nil {
		return Booking{}, err
	}
	return tx.CreateBooking(Booking{
		HostelID:  req.HostelID,
		StudentID: user.ID,
		RoomType:  req.RoomType,
		CheckIn:   req.CheckIn.UTC(),
		CheckOut:  req.CheckOut.UTC(),
		Amount:    req.Amount,
		Status:    domain.BookingPending,
	})
}

// UpdateBookingStatus moves a booking through its workflow. Rejected and
// cancelled bookings hand their room back to the hostel, and the student is
// notified of confirmations and rejections.
func (s *Service) UpdateBookingStatus(ctx context.Context, id string, status domain.BookingStatus) (Booking, Result, error) {
	var updated Booking
	res, err := s.run(ctx, opUpdateBookingStatus, func(tx Transaction) (string, error) {
		if !status.Valid() {
			return id, domain.NewValidationError("status", "unknown booking status "+string(status))
		}
		current, ok := tx.FindBooking(id)
		if !ok {
			return id, domain.NotFoundError{Entity: domain.EntityBooking, ID: id}
		}
		if !bookingTransitionAllowed(current.Status, status) {
			return id, fmt.Errorf("%w: booking %s cannot move from %s to %s", domain.ErrInvalidTransition, id, current.Status, status)
		}
		var err error
		updated, err = tx.UpdateBooking(id, func(b *Booking) error {
			b.Status = status
			return nil
		})
		if err != nil {
			return id, err
		}
		hostel, ok := tx.FindHostel(updated.HostelID)
		if !ok {
			return id, nil
		}
		if status.ReleasesRoom() {
			if err := releaseRoom(tx, updated.HostelID, updated.RoomType); err != nil {
				return id, err
			}
		}
		if n, ok := bookingNotification(updated, hostel); ok {
			if _, err := tx.CreateNotification(n); err != nil {
				return id, err
			}
		}
		return id, nil
	})
	return updated, res, err
}

// holdRoom takes one unit of room type idx out of the hostel's inventory.
func holdRoom(tx Transaction, hostel Hostel, idx int) error {
	if hostel.RoomTypes[idx].Available <= 0 {
		return domain.SoldOutError{HostelID: hostel.ID, RoomType: hostel.RoomTypes[idx].Type}
	}
	_, err := tx.UpdateHostel(hostel.ID, func(h *Hostel) error {
		h.RoomTypes[idx].Available--
		if h.AvailableRooms() == 0 {
			h.Available = false
		}
		return nil
	})
	return err
}

// releaseRoom hands one unit of roomType back, capped at the room type total.
// The hostel is read from tx so repeated releases see earlier ones.
func releaseRoom(tx Transaction, hostelID, roomType string) error {
	hostel, ok := tx.FindHostel(hostelID)
	if !ok {
		return nil
	}
	idx, ok := hostel.FindRoomType(roomType)
	if !ok || hostel.RoomTypes[idx].Available >= hostel.RoomTypes[idx].Total {
		return nil
	}
	_, err := tx.UpdateHostel(hostelID, func(h *Hostel) error {
		h.RoomTypes[idx].Available++
		h.Available = true
		return nil
	})
	return err
}

func bookingNotification(b Booking, h Hostel) (Notification, bool) {
	n := Notification{UserID: b.StudentID}
	switch b.Status {
	case domain.BookingConfirmed:
		n.Title = "Booking Confirmed"
		n.Message = fmt.Sprintf("Your booking at %s has been confirmed.", h.Name)
		n.Type = domain.NotificationSuccess
	case domain.BookingRejected:
		n.Title = "Booking Rejected"
		n.Message = fmt.Sprintf("Your booking at %s was not accepted.", h.Name)
		n.Type = domain.NotificationError
	default:
		return Notification{}, false
	}
	return n, true
}

// ListBookings returns the session bookings in insertion order.
func (s *Service) ListBookings() []Booking {
	return s.store.ListBookings()
}

// BookingsForStudent returns the bookings made by studentID.
func (s *Service) BookingsForStudent(studentID string) []Booking {
	var out []Booking
	for _, b := range s.store.ListBookings() {
		if b.StudentID == studentID {
			out = append(out, b)
		}
	}
	return out
}

// BuildReceipt derives the checkout receipt of a booking. Nothing is stored.
func (s *Service) BuildReceipt(ctx context.Context, bookingID string, req domain.ReceiptRequest) (Receipt, error) {
	var receipt Receipt
	err := s.observe(ctx, opBuildReceipt, func(context.Context) (string, error) {
		if err := req.Validate(); err != nil {
			return bookingID, err
		}
		booking, ok := s.store.GetBooking(bookingID)
		if !ok {
			return bookingID, domain.NotFoundError{Entity: domain.EntityBooking, ID: bookingID}
		}
		hostel, ok := s.store.GetHostel(booking.HostelID)
		if !ok {
			return bookingID, domain.NotFoundError{Entity: domain.EntityHostel, ID: booking.HostelID}
		}
		now := s.now()
		txID := req.TransactionID
		if txID == "" {
			txID = booking.PaymentID
		}
		if txID == "" {
			txID = transactionID(now)
		}
		fee := math.Round(booking.Amount * serviceFeeRate)
		receipt = Receipt{
			BookingID:     booking.ID,
			TransactionID: txID,
			HostelName:    hostel.Name,
			RoomType:      booking.RoomType,
			CheckIn:       booking.CheckIn.Format(receiptDate),
			CheckOut:      booking.CheckOut.Format(receiptDate),
			Duration:      stayMonths(booking.CheckIn, booking.CheckOut),
			Amount:        booking.Amount,
			ServiceFee:    fee,
			TotalAmount:   booking.Amount + fee,
			PaymentMethod: req.PaymentMethod,
			PhoneNumber:   req.PhoneNumber,
			Timestamp:     now,
		}
		if u, ok := s.CurrentUser(); ok {
			receipt.CustomerName = u.Name
			receipt.CustomerEmail = u.Email
		}
		return bookingID, nil
	})
	return receipt, err
}

// stayMonths counts started 30-day periods between checkIn and checkOut.
func stayMonths(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(float64(d) / float64(billingMonth)))
}

func transactionID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return "MP" + strconv.FormatInt(now.UnixMilli(), 10) + suffix
}
