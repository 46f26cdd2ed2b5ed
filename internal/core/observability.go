package core

import (
	"context"
	"time"

	"affordhostel/pkg/domain"
)

// Clock supplies the current time to the service.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock. A nil ClockFunc reports time.Now in UTC.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time {
	if f == nil {
		return time.Now().UTC()
	}
	return f().UTC()
}

// Logger is the structured logging surface used by the service. *slog.Logger
// satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// MetricsRecorder observes the outcome and duration of service operations.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

type noopMetricsRecorder struct{}

func (noopMetricsRecorder) Observe(context.Context, string, bool, time.Duration) {}

// TraceSpan is ended once per started operation.
type TraceSpan interface {
	End(err error)
}

// Tracer starts spans around service operations.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

type noopTracer struct{}

type noopSpan struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

func (noopSpan) End(error) {}

// AuditStatus is the outcome recorded for an audited operation.
type AuditStatus string

// Audit outcomes.
const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusError   AuditStatus = "error"
)

// AuditEntry describes one state-changing operation.
type AuditEntry struct {
	Operation string
	Entity    domain.EntityType
	Action    domain.Action
	EntityID  string
	ActorID   string
	Status    AuditStatus
	Error     string
	Duration  time.Duration
	Timestamp time.Time
}

// AuditRecorder receives audit entries.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

type noopAuditRecorder struct{}

func (noopAuditRecorder) Record(context.Context, AuditEntry) {}

type auditMeta struct {
	entity domain.EntityType
	action domain.Action
}

// auditedOperations maps operation names to the entity they change. Reads
// and session bookkeeping are not audited.
var auditedOperations = map[string]auditMeta{
	opAddHostel:           {domain.EntityHostel, domain.ActionCreate},
	opUpdateHostel:        {domain.EntityHostel, domain.ActionUpdate},
	opAssignAgent:         {domain.EntityHostel, domain.ActionUpdate},
	opSubmitReport:        {domain.EntityVerificationReport, domain.ActionCreate},
	opResubmitHostel:      {domain.EntityHostel, domain.ActionUpdate},
	opCreateBooking:       {domain.EntityBooking, domain.ActionCreate},
	opUpdateBookingStatus: {domain.EntityBooking, domain.ActionUpdate},
	opAddToWishlist:       {domain.EntityWishlistItem, domain.ActionCreate},
	opRemoveFromWishlist:  {domain.EntityWishlistItem, domain.ActionDelete},
	opAddReview:           {domain.EntityReview, domain.ActionCreate},
	opMarkReviewHelpful:   {domain.EntityReview, domain.ActionUpdate},
	opMarkAsRead:          {domain.EntityNotification, domain.ActionUpdate},
	opMarkAllAsRead:       {domain.EntityNotification, domain.ActionUpdate},
	opNotify:              {domain.EntityNotification, domain.ActionCreate},
	opUpdateProfile:       {domain.EntityUser, domain.ActionUpdate},
	opUploadAvatar:        {domain.EntityUser, domain.ActionUpdate},
	opAddTeamMember:       {domain.EntityTeamMember, domain.ActionCreate},
	opUpdateTeamMember:    {domain.EntityTeamMember, domain.ActionUpdate},
	opRemoveTeamMember:    {domain.EntityTeamMember, domain.ActionDelete},
}

// Operation names reported to loggers, metrics, tracers and auditors.
const (
	opLogin               = "login"
	opLogout              = "logout"
	opSetRole             = "set_role"
	opSeedCatalog         = "seed_catalog"
	opAddHostel           = "add_hostel"
	opUpdateHostel        = "update_hostel"
	opAssignAgent         = "assign_agent"
	opSubmitReport        = "submit_verification_report"
	opResubmitHostel      = "resubmit_hostel"
	opCreateBooking       = "create_booking"
	opUpdateBookingStatus = "update_booking_status"
	opBuildReceipt        = "build_receipt"
	opAddToWishlist       = "add_to_wishlist"
	opRemoveFromWishlist  = "remove_from_wishlist"
	opAddReview           = "add_review"
	opMarkReviewHelpful   = "mark_review_helpful"
	opMarkAsRead          = "mark_notification_read"
	opMarkAllAsRead       = "mark_all_notifications_read"
	opNotify              = "notify"
	opUpdateProfile       = "update_profile"
	opUploadAvatar        = "upload_profile_picture"
	opUpdateCompanyInfo   = "update_company_info"
	opAddTeamMember       = "add_team_member"
	opUpdateTeamMember    = "update_team_member"
	opRemoveTeamMember    = "remove_team_member"
)
