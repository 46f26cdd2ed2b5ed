package core

import "affordhostel/pkg/domain"

type (
	// User aliases domain.User.
	User = domain.User
	// Role aliases domain.Role.
	Role = domain.Role
	// Hostel aliases domain.Hostel.
	Hostel = domain.Hostel
	// RoomType aliases domain.RoomType.
	RoomType = domain.RoomType
	// Booking aliases domain.Booking.
	Booking = domain.Booking
	// Notification aliases domain.Notification.
	Notification = domain.Notification
	// WishlistItem aliases domain.WishlistItem.
	WishlistItem = domain.WishlistItem
	// Review aliases domain.Review.
	Review = domain.Review
	// VerificationReport aliases domain.VerificationReport.
	VerificationReport = domain.VerificationReport
	// CompanyInfo aliases domain.CompanyInfo.
	CompanyInfo = domain.CompanyInfo
	// TeamMember aliases domain.TeamMember.
	TeamMember = domain.TeamMember
	// Receipt aliases domain.Receipt.
	Receipt = domain.Receipt
	// Change aliases domain.Change.
	Change = domain.Change
	// Result aliases domain.Result.
	Result = domain.Result
	// Violation aliases domain.Violation.
	Violation = domain.Violation
	// Rule aliases domain.Rule.
	Rule = domain.Rule
	// RulesEngine aliases domain.RulesEngine.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView.
	TransactionView = domain.TransactionView
	// PersistentStore aliases domain.PersistentStore.
	PersistentStore = domain.PersistentStore
)

// NewRulesEngine constructs an empty engine.
func NewRulesEngine() *RulesEngine { return domain.NewRulesEngine() }
