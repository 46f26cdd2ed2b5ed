package core

import "affordhostel/pkg/domain"

// StudentStats summarises the current student's activity.
type StudentStats struct {
	ActiveBookings      int `json:"active_bookings"`
	TotalBookings       int `json:"total_bookings"`
	Wishlisted          int `json:"wishlisted"`
	UnreadNotifications int `json:"unread_notifications"`
}

// AdminOverview aggregates the catalog for administrators.
type AdminOverview struct {
	Hostels               int                               `json:"hostels"`
	HostelsByStatus       map[domain.VerificationStatus]int `json:"hostels_by_status"`
	Bookings              int                               `json:"bookings"`
	BookingsByStatus      map[domain.BookingStatus]int      `json:"bookings_by_status"`
	UnassignedSubmissions int                               `json:"unassigned_submissions"`
	TeamSize              int                               `json:"team_size"`
}

// StudentStats counts the current user's bookings, saved hostels and unread
// notifications. It is zero when nobody is logged in.
func (s *Service) StudentStats() StudentStats {
	user, ok := s.CurrentUser()
	if !ok {
		return StudentStats{}
	}
	stats := StudentStats{
		Wishlisted:          len(s.Wishlist()),
		UnreadNotifications: s.UnreadCount(),
	}
	for _, b := range s.BookingsForStudent(user.ID) {
		stats.TotalBookings++
		if b.Status == domain.BookingConfirmed {
			stats.ActiveBookings++
		}
	}
	return stats
}

// AgentQueue lists hostels awaiting review by agentID.
func (s *Service) AgentQueue(agentID string) []Hostel {
	return s.filterHostels(func(h Hostel) bool {
		return assignedTo(h, agentID) && h.VerificationStatus == domain.VerificationPendingReview
	})
}

// AgentCompleted lists hostels agentID has verified.
func (s *Service) AgentCompleted(agentID string) []Hostel {
	return s.filterHostels(func(h Hostel) bool {
		return assignedTo(h, agentID) && h.VerificationStatus == domain.VerificationVerified
	})
}

// LandlordProperties lists the hostels owned by landlordID.
func (s *Service) LandlordProperties(landlordID string) []Hostel {
	return s.filterHostels(func(h Hostel) bool { return h.LandlordID == landlordID })
}

// LandlordBookingRequests lists pending bookings on hostels owned by landlordID.
func (s *Service) LandlordBookingRequests(landlordID string) []Booking {
	owned := make(map[string]struct{})
	for _, h := range s.LandlordProperties(landlordID) {
		owned[h.ID] = struct{}{}
	}
	var out []Booking
	for _, b := range s.store.ListBookings() {
		if _, ok := owned[b.HostelID]; ok && b.Status == domain.BookingPending {
			out = append(out, b)
		}
	}
	return out
}

// AdminOverview counts hostels and bookings by status.
func (s *Service) AdminOverview() AdminOverview {
	out := AdminOverview{
		HostelsByStatus:  make(map[domain.VerificationStatus]int),
		BookingsByStatus: make(map[domain.BookingStatus]int),
		TeamSize:         len(s.CompanyInfo().Team),
	}
	for _, h := range s.store.ListHostels() {
		out.Hostels++
		out.HostelsByStatus[h.VerificationStatus]++
		if h.VerificationStatus == domain.VerificationPendingSubmission && h.AssignedAgentID == nil {
			out.UnassignedSubmissions++
		}
	}
	for _, b := range s.store.ListBookings() {
		out.Bookings++
		out.BookingsByStatus[b.Status]++
	}
	return out
}

func (s *Service) filterHostels(keep func(Hostel) bool) []Hostel {
	var out []Hostel
	for _, h := range s.store.ListHostels() {
		if keep(h) {
			out = append(out, h)
		}
	}
	return out
}

func assignedTo(h Hostel, agentID string) bool {
	return h.AssignedAgentID != nil && *h.AssignedAgentID == agentID
}
