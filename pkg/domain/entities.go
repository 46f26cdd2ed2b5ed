// Package domain defines the marketplace entities, value types, command
// payloads and rule evaluation primitives used by the AffordHostel store.
package domain

import "time"

// EntityType identifies the type of record stored in the catalog.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	EntityUser               EntityType = "user"
	EntityHostel             EntityType = "hostel"
	EntityBooking            EntityType = "booking"
	EntityReview             EntityType = "review"
	EntityNotification       EntityType = "notification"
	EntityWishlistItem       EntityType = "wishlist_item"
	EntityVerificationReport EntityType = "verification_report"
	EntityTeamMember         EntityType = "team_member"
)

// Role is the marketplace persona of a user.
type Role string

// Supported roles.
const (
	RoleStudent  Role = "student"
	RoleLandlord Role = "landlord"
	RoleAgent    Role = "agent"
	RoleAdmin    Role = "admin"
)

// Roles lists every supported role in display order.
func Roles() []Role {
	return []Role{RoleStudent, RoleLandlord, RoleAgent, RoleAdmin}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleLandlord, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// VerificationStatus is the compliance review stage of a hostel.
type VerificationStatus string

// Verification lifecycle states. A hostel enters at pending_submission.
const (
	VerificationPendingSubmission VerificationStatus = "pending_submission"
	VerificationPendingReview     VerificationStatus = "pending_review"
	VerificationVerified          VerificationStatus = "verified"
	VerificationRejected          VerificationStatus = "rejected"
	VerificationNeedsMoreInfo     VerificationStatus = "needs_more_info"
)

// Valid reports whether s is a known verification status.
func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationPendingSubmission, VerificationPendingReview, VerificationVerified,
		VerificationRejected, VerificationNeedsMoreInfo:
		return true
	}
	return false
}

// IsReportOutcome reports whether s can be the outcome of a verification report.
func (s VerificationStatus) IsReportOutcome() bool {
	return s == VerificationVerified || s == VerificationRejected || s == VerificationNeedsMoreInfo
}

// BookingStatus enumerates booking workflow states.
type BookingStatus string

// Booking statuses. New bookings start pending.
const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingRejected  BookingStatus = "rejected"
	BookingCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingRejected, BookingCancelled:
		return true
	}
	return false
}

// HoldsRoom reports whether a booking in status s occupies a room.
func (s BookingStatus) HoldsRoom() bool {
	return s == BookingPending || s == BookingConfirmed
}

// ReleasesRoom reports whether entering s hands the booked room back to inventory.
func (s BookingStatus) ReleasesRoom() bool {
	return s == BookingRejected || s == BookingCancelled
}

// NotificationType classifies notifications for display.
type NotificationType string

// Notification types.
const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

// PaymentMethod identifies how a booking was paid.
type PaymentMethod string

// Supported payment methods.
const (
	PaymentMPesa  PaymentMethod = "mpesa"
	PaymentPayPal PaymentMethod = "paypal"
	PaymentCard   PaymentMethod = "card"
	PaymentBank   PaymentMethod = "bank"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Base contains common fields for all stored records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User is the session identity. Only one user is active per session.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Role       Role      `json:"role"`
	Avatar     string    `json:"avatar,omitempty"`
	University string    `json:"university,omitempty"`
	StudentID  string    `json:"student_id,omitempty"`
	Verified   bool      `json:"verified"`
	CreatedAt  time.Time `json:"created_at"`
}

// RoomType is a priced inventory category within a hostel.
type RoomType struct {
	ID        string   `json:"id"`
	Type      string   `json:"type"`
	Price     float64  `json:"price"`
	Available int      `json:"available"`
	Total     int      `json:"total"`
	Features  []string `json:"features"`
}

// Hostel is a landlord-listed property.
type Hostel struct {
	Base
	Name               string             `json:"name"`
	Description        string             `json:"description"`
	Price              float64            `json:"price"`
	Location           string             `json:"location"`
	University         string             `json:"university"`
	Images             []string           `json:"images"`
	Amenities          []string           `json:"amenities"`
	Rating             float64            `json:"rating"`
	Reviews            int                `json:"reviews"`
	RoomTypes          []RoomType         `json:"room_types"`
	LandlordID         string             `json:"landlord_id"`
	Verified           bool               `json:"verified"`
	Available          bool               `json:"available"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	AssignedAgentID    *string            `json:"assigned_agent_id,omitempty"`
}

// FindRoomType returns the index of the room type with the given label.
func (h Hostel) FindRoomType(label string) (int, bool) {
	for i, rt := range h.RoomTypes {
		if rt.Type == label {
			return i, true
		}
	}
	return -1, false
}

// HasAmenity reports whether the hostel lists amenity.
func (h Hostel) HasAmenity(amenity string) bool {
	for _, a := range h.Amenities {
		if a == amenity {
			return true
		}
	}
	return false
}

// AvailableRooms sums the live availability over every room type.
func (h Hostel) AvailableRooms() int {
	total := 0
	for _, rt := range h.RoomTypes {
		total += rt.Available
	}
	return total
}

// Booking links a student to a room type of a hostel for a date range.
type Booking struct {
	Base
	HostelID   string        `json:"hostel_id"`
	StudentID  string        `json:"student_id"`
	RoomType   string        `json:"room_type"`
	CheckIn    time.Time     `json:"check_in"`
	CheckOut   time.Time     `json:"check_out"`
	Amount     float64       `json:"amount"`
	Status     BookingStatus `json:"status"`
	PaymentID  string        `json:"payment_id,omitempty"`
	ReceiptURL string        `json:"receipt_url,omitempty"`
}

// Notification is a message addressed to a user.
type Notification struct {
	Base
	UserID  string           `json:"user_id"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Type    NotificationType `json:"type"`
	Read    bool             `json:"read"`
}

// WishlistItem records a hostel saved by a user.
type WishlistItem struct {
	Base
	UserID   string `json:"user_id"`
	HostelID string `json:"hostel_id"`
}

// Review is a rating left by a user for a hostel.
type Review struct {
	Base
	HostelID string `json:"hostel_id"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
	Helpful  int    `json:"helpful"`
}

// VerificationReport is an agent's finding for a hostel.
type VerificationReport struct {
	Base
	HostelID string             `json:"hostel_id"`
	AgentID  string             `json:"agent_id"`
	Comments string             `json:"comments"`
	Photos   []string           `json:"photos"`
	Status   VerificationStatus `json:"status"`
}

// TeamMember is an entry of the company roster.
type TeamMember struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Bio    string `json:"bio"`
	Image  string `json:"image"`
	Order  int    `json:"order,omitempty"`
	Active *bool  `json:"active,omitempty"`
}

// CompanyInfo is the durable about-us content.
type CompanyInfo struct {
	Mission string       `json:"mission"`
	Vision  string       `json:"vision"`
	Team    []TeamMember `json:"team"`
}

// Clone returns a deep copy of the company info.
func (c CompanyInfo) Clone() CompanyInfo {
	cp := c
	cp.Team = make([]TeamMember, len(c.Team))
	for i, m := range c.Team {
		cp.Team[i] = m
		if m.Active != nil {
			active := *m.Active
			cp.Team[i].Active = &active
		}
	}
	return cp
}

// Receipt is the record handed to receipt exporters after checkout.
type Receipt struct {
	BookingID     string        `json:"booking_id"`
	TransactionID string        `json:"transaction_id"`
	HostelName    string        `json:"hostel_name"`
	RoomType      string        `json:"room_type"`
	CheckIn       string        `json:"check_in"`
	CheckOut      string        `json:"check_out"`
	Duration      int           `json:"duration"`
	Amount        float64       `json:"amount"`
	ServiceFee    float64       `json:"service_fee"`
	TotalAmount   float64       `json:"total_amount"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	PhoneNumber   string        `json:"phone_number"`
	Timestamp     time.Time     `json:"timestamp"`
	CustomerName  string        `json:"customer_name"`
	CustomerEmail string        `json:"customer_email"`
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported CRUD operations captured in audit trail.
const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}
