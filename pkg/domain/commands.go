package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// MaxUploadBytes caps the size of an uploaded image.
const MaxUploadBytes = 5 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	mustRegister(v, "role", func(fl validator.FieldLevel) bool {
		return Role(fl.Field().String()).Valid()
	})
	mustRegister(v, "report_status", func(fl validator.FieldLevel) bool {
		return VerificationStatus(fl.Field().String()).IsReportOutcome()
	})
	mustRegister(v, "booking_status", func(fl validator.FieldLevel) bool {
		return BookingStatus(fl.Field().String()).Valid()
	})
	mustRegister(v, "notification_type", func(fl validator.FieldLevel) bool {
		switch NotificationType(fl.Field().String()) {
		case NotificationInfo, NotificationSuccess, NotificationWarning, NotificationError:
			return true
		}
		return false
	})
	mustRegister(v, "payment_method", func(fl validator.FieldLevel) bool {
		switch PaymentMethod(fl.Field().String()) {
		case PaymentMPesa, PaymentPayPal, PaymentCard, PaymentBank:
			return true
		}
		return false
	})
	mustRegister(v, "hostel_sort", func(fl validator.FieldLevel) bool {
		switch HostelSort(fl.Field().String()) {
		case SortNewest, SortPriceLow, SortPriceHigh, SortRating, SortName:
			return true
		}
		return false
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Errorf("register validation %s: %w", tag, err))
	}
}

// ValidateStruct runs tag validation and converts failures into a ValidationError
// keyed by the JSON path of each offending field.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		path := fe.Namespace()
		if idx := strings.Index(path, "."); idx >= 0 {
			path = path[idx+1:]
		}
		fields[path] = "failed on " + fe.Tag()
	}
	return ValidationError{Fields: fields}
}

// LoginRequest carries mock credentials. The password is accepted as-is.
type LoginRequest struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password"`
	Role     Role   `json:"role" validate:"omitempty,role"`
}

// Validate checks the request shape.
func (r LoginRequest) Validate() error { return ValidateStruct(r) }

// RoomTypeInput describes a room type offered by a new listing.
type RoomTypeInput struct {
	Type     string   `json:"type" validate:"required"`
	Price    float64  `json:"price" validate:"gt=0"`
	Total    int      `json:"total" validate:"gte=0"`
	Features []string `json:"features"`
}

// AddHostelRequest is the landlord's listing submission.
type AddHostelRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       float64         `json:"price" validate:"gte=0"`
	Location    string          `json:"location" validate:"required"`
	University  string          `json:"university"`
	Images      []string        `json:"images"`
	Amenities   []string        `json:"amenities"`
	RoomTypes   []RoomTypeInput `json:"room_types" validate:"dive"`
}

// Validate checks required fields and room type uniqueness.
func (r AddHostelRequest) Validate() error {
	if err := ValidateStruct(r); err != nil {
		return err
	}
	names := make([]string, len(r.RoomTypes))
	for i, rt := range r.RoomTypes {
		names[i] = rt.Type
	}
	return uniqueRoomTypes(names)
}

func uniqueRoomTypes(names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			return NewValidationError("room_types", fmt.Sprintf("duplicate room type %q", name))
		}
		seen[name] = struct{}{}
	}
	return nil
}

// HostelPatch lists the listing fields a landlord may change. Nil fields are
// left untouched.
type HostelPatch struct {
	Name        *string     `json:"name,omitempty" validate:"omitempty,min=1"`
	Description *string     `json:"description,omitempty"`
	Price       *float64    `json:"price,omitempty" validate:"omitempty,gte=0"`
	Location    *string     `json:"location,omitempty" validate:"omitempty,min=1"`
	University  *string     `json:"university,omitempty"`
	Images      *[]string   `json:"images,omitempty"`
	Amenities   *[]string   `json:"amenities,omitempty"`
	RoomTypes   *[]RoomType `json:"room_types,omitempty"`
	Available   *bool       `json:"available,omitempty"`
}

// Validate checks the patch shape and room type uniqueness.
func (p HostelPatch) Validate() error {
	if err := ValidateStruct(p); err != nil {
		return err
	}
	if p.RoomTypes == nil {
		return nil
	}
	names := make([]string, len(*p.RoomTypes))
	for i, rt := range *p.RoomTypes {
		names[i] = rt.Type
	}
	return uniqueRoomTypes(names)
}

// Apply merges the patch into h.
func (p HostelPatch) Apply(h *Hostel) {
	if p.Name != nil {
		h.Name = *p.Name
	}
	if p.Description != nil {
		h.Description = *p.Description
	}
	if p.Price != nil {
		h.Price = *p.Price
	}
	if p.Location != nil {
		h.Location = *p.Location
	}
	if p.University != nil {
		h.University = *p.University
	}
	if p.Images != nil {
		h.Images = append([]string(nil), (*p.Images)...)
	}
	if p.Amenities != nil {
		h.Amenities = append([]string(nil), (*p.Amenities)...)
	}
	if p.RoomTypes != nil {
		h.RoomTypes = make([]RoomType, len(*p.RoomTypes))
		for i, rt := range *p.RoomTypes {
			rt.Features = append([]string(nil), rt.Features...)
			h.RoomTypes[i] = rt
		}
	}
	if p.Available != nil {
		h.Available = *p.Available
	}
}

// BookingRequest is a student's reservation attempt.
type BookingRequest struct {
	HostelID string    `json:"hostel_id" validate:"required"`
	RoomType string    `json:"room_type" validate:"required"`
	CheckIn  time.Time `json:"check_in" validate:"required"`
	CheckOut time.Time `json:"check_out" validate:"required,gtfield=CheckIn"`
	Amount   float64   `json:"amount" validate:"gt=0"`
}

// Validate checks the booking window and amount.
func (r BookingRequest) Validate() error { return ValidateStruct(r) }

// Upload is an in-memory file handed to the store.
type Upload struct {
	Filename    string `json:"filename" validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
	Body        []byte `json:"-" validate:"required"`
}

// ValidateImage enforces the image content type and size limits.
func (u Upload) ValidateImage() error {
	if err := ValidateStruct(u); err != nil {
		return err
	}
	if !strings.HasPrefix(u.ContentType, "image/") {
		return NewValidationError("content_type", "must be an image")
	}
	if len(u.Body) > MaxUploadBytes {
		return NewValidationError("body", fmt.Sprintf("exceeds %d bytes", MaxUploadBytes))
	}
	return nil
}

// VerificationReportRequest is an agent's inspection outcome. Uploads are
// stored alongside Photos, which may already hold URLs.
type VerificationReportRequest struct {
	AgentID  string             `json:"agent_id"`
	Comments string             `json:"comments"`
	Photos   []string           `json:"photos"`
	Uploads  []Upload           `json:"-"`
	Status   VerificationStatus `json:"status" validate:"required,report_status"`
}

// Validate checks the report status and any attached uploads.
func (r VerificationReportRequest) Validate() error {
	if err := ValidateStruct(r); err != nil {
		return err
	}
	for _, u := range r.Uploads {
		if err := u.ValidateImage(); err != nil {
			return err
		}
	}
	return nil
}

// ReviewRequest is a rating submission for a hostel.
type ReviewRequest struct {
	HostelID string `json:"hostel_id" validate:"required"`
	Rating   int    `json:"rating" validate:"min=1,max=5"`
	Comment  string `json:"comment" validate:"required"`
}

// Validate checks the rating range and comment.
func (r ReviewRequest) Validate() error { return ValidateStruct(r) }

// ProfilePatch lists user fields that may be changed. Role and id are fixed.
type ProfilePatch struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string `json:"phone,omitempty"`
	Avatar     *string `json:"avatar,omitempty"`
	University *string `json:"university,omitempty"`
	StudentID  *string `json:"student_id,omitempty"`
}

// Validate checks the patch shape.
func (p ProfilePatch) Validate() error { return ValidateStruct(p) }

// Apply merges the patch into u.
func (p ProfilePatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.University != nil {
		u.University = *p.University
	}
	if p.StudentID != nil {
		u.StudentID = *p.StudentID
	}
}

// CompanyInfoPatch replaces any of the company info fields.
type CompanyInfoPatch struct {
	Mission *string       `json:"mission,omitempty"`
	Vision  *string       `json:"vision,omitempty"`
	Team    *[]TeamMember `json:"team,omitempty"`
}

// Apply merges the patch into c.
func (p CompanyInfoPatch) Apply(c *CompanyInfo) {
	if p.Mission != nil {
		c.Mission = *p.Mission
	}
	if p.Vision != nil {
		c.Vision = *p.Vision
	}
	if p.Team != nil {
		c.Team = CompanyInfo{Team: *p.Team}.Clone().Team
	}
}

// TeamMemberInput describes a new roster entry; the id is assigned on insert.
type TeamMemberInput struct {
	Name   string `json:"name" validate:"required"`
	Role   string `json:"role" validate:"required"`
	Bio    string `json:"bio"`
	Image  string `json:"image"`
	Order  int    `json:"order,omitempty"`
	Active *bool  `json:"active,omitempty"`
}

// Validate checks required fields.
func (in TeamMemberInput) Validate() error { return ValidateStruct(in) }

// TeamMemberPatch changes fields of an existing roster entry.
type TeamMemberPatch struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Role   *string `json:"role,omitempty" validate:"omitempty,min=1"`
	Bio    *string `json:"bio,omitempty"`
	Image  *string `json:"image,omitempty"`
	Order  *int    `json:"order,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

// Validate checks the patch shape.
func (p TeamMemberPatch) Validate() error { return ValidateStruct(p) }

// Apply merges the patch into m.
func (p TeamMemberPatch) Apply(m *TeamMember) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Role != nil {
		m.Role = *p.Role
	}
	if p.Bio != nil {
		m.Bio = *p.Bio
	}
	if p.Image != nil {
		m.Image = *p.Image
	}
	if p.Order != nil {
		m.Order = *p.Order
	}
	if p.Active != nil {
		active := *p.Active
		m.Active = &active
	}
}

// NotificationRequest addresses a message to a user. An empty UserID targets
// the current session user.
type NotificationRequest struct {
	UserID  string           `json:"user_id"`
	Title   string           `json:"title" validate:"required"`
	Message string           `json:"message" validate:"required"`
	Type    NotificationType `json:"type" validate:"omitempty,notification_type"`
}

// Validate checks required fields.
func (r NotificationRequest) Validate() error { return ValidateStruct(r) }

// ReceiptRequest carries checkout details not stored on the booking.
type ReceiptRequest struct {
	TransactionID string        `json:"transaction_id"`
	PaymentMethod PaymentMethod `json:"payment_method" validate:"required,payment_method"`
	PhoneNumber   string        `json:"phone_number" validate:"required_if=PaymentMethod mpesa"`
}

// Validate checks the payment details.
func (r ReceiptRequest) Validate() error { return ValidateStruct(r) }

// HostelSort names a catalog ordering.
type HostelSort string

// Supported catalog orderings.
const (
	SortNewest    HostelSort = "newest"
	SortPriceLow  HostelSort = "price-low"
	SortPriceHigh HostelSort = "price-high"
	SortRating    HostelSort = "rating"
	SortName      HostelSort = "name"
)

// HostelQuery filters and orders the catalog. Zero values disable a filter.
type HostelQuery struct {
	Term         string     `json:"term"`
	University   string     `json:"university"`
	MinPrice     *float64   `json:"min_price,omitempty" validate:"omitempty,gte=0"`
	MaxPrice     *float64   `json:"max_price,omitempty" validate:"omitempty,gte=0"`
	Amenities    []string   `json:"amenities"`
	VerifiedOnly bool       `json:"verified_only"`
	Sort         HostelSort `json:"sort" validate:"omitempty,hostel_sort"`
}

// Validate checks the query shape.
func (q HostelQuery) Validate() error {
	if err := ValidateStruct(q); err != nil {
		return err
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return NewValidationError("min_price", "greater than max_price")
	}
	return nil
}

// Matches reports whether h satisfies every filter of q.
func (q HostelQuery) Matches(h Hostel) bool {
	if term := strings.ToLower(strings.TrimSpace(q.Term)); term != "" {
		if !strings.Contains(strings.ToLower(h.Name), term) &&
			!strings.Contains(strings.ToLower(h.Location), term) &&
			!strings.Contains(strings.ToLower(h.Description), term) {
			return false
		}
	}
	if q.University != "" && h.University != q.University {
		return false
	}
	if q.MinPrice != nil && h.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && h.Price > *q.MaxPrice {
		return false
	}
	for _, a := range q.Amenities {
		if !h.HasAmenity(a) {
			return false
		}
	}
	if q.VerifiedOnly && !h.Verified {
		return false
	}
	return true
}
