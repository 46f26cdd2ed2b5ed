package core

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"affordhostel/pkg/domain"
)

func TestNewInMemoryServiceDefaults(t *testing.T) {
	svc := newTestService(t)
	if svc.IsAuthenticated() {
		t.Fatalf("expected anonymous session")
	}
	if svc.CurrentRole() != domain.RoleStudent || svc.CurrentPage() != PageHome {
		t.Fatalf("unexpected defaults role=%s page=%s", svc.CurrentRole(), svc.CurrentPage())
	}
	hostels := svc.ListHostels()
	if len(hostels) != 4 {
		t.Fatalf("expected 4 seeded hostels, got %d", len(hostels))
	}
	for i, want := range []string{"Umoja Hostels", "Kilele Hostels", "Prestige Hostels", "Greenview Apartments"} {
		if hostels[i].Name != want || hostels[i].ID != strconv.Itoa(i+1) {
			t.Fatalf("hostel %d: got %s/%s", i, hostels[i].ID, hostels[i].Name)
		}
		if !hostels[i].Verified || hostels[i].VerificationStatus != domain.VerificationVerified {
			t.Fatalf("seeded hostel %s must be verified", hostels[i].ID)
		}
	}
	if got := len(svc.GetHostelReviews("1")); got != 2 {
		t.Fatalf("expected 2 seeded reviews, got %d", got)
	}
	if len(svc.ListBookings()) != 0 || len(svc.Notifications()) != 0 {
		t.Fatalf("anonymous session must start without bookings or notifications")
	}
	if got := len(svc.CompanyInfo().Team); got != 4 {
		t.Fatalf("expected default team of 4, got %d", got)
	}
	if svc.RulesEngine() == nil || len(svc.RulesEngine().Rules()) != 4 {
		t.Fatalf("expected default rules engine")
	}
}

func TestLoginSeedsRoleState(t *testing.T) {
	cases := []struct {
		role     Role
		name     string
		bookings int
		unread   int
	}{
		{domain.RoleStudent, "John Mwangi", 2, 3},
		{domain.RoleLandlord, "James Omondi", 0, 2},
		{domain.RoleAgent, "Brian Kiprotich", 0, 2},
		{domain.RoleAdmin, "Sarah Wanjiku", 0, 2},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			svc := newTestService(t)
			u := mustLogin(t, svc, tc.role)
			if u.ID != "1" || u.Name != tc.name || u.Email != string(tc.role)+"@example.com" || u.Role != tc.role {
				t.Fatalf("unexpected user %+v", u)
			}
			if (tc.role == domain.RoleStudent) != (u.University == "University of Nairobi") {
				t.Fatalf("university only applies to students: %+v", u)
			}
			if !svc.IsAuthenticated() || svc.CurrentRole() != tc.role || svc.CurrentPage() != PageDashboard {
				t.Fatalf("unexpected session state")
			}
			if got := len(svc.ListBookings()); got != tc.bookings {
				t.Fatalf("expected %d bookings, got %d", tc.bookings, got)
			}
			if got := len(svc.Notifications()); got != 3 {
				t.Fatalf("expected 3 notifications, got %d", got)
			}
			if got := svc.UnreadCount(); got != tc.unread {
				t.Fatalf("expected %d unread, got %d", tc.unread, got)
			}
		})
	}
}

func TestLoginWithoutRoleUsesPendingRole(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	if err := svc.SetCurrentRole(ctx, domain.RoleAgent); err != nil {
		t.Fatalf("set role: %v", err)
	}
	if svc.IsAuthenticated() || len(svc.Notifications()) != 0 {
		t.Fatalf("anonymous role change must not seed state")
	}
	u, err := svc.Login(ctx, domain.LoginRequest{})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.Role != domain.RoleAgent {
		t.Fatalf("expected agent, got %s", u.Role)
	}
}

func TestLoginRejectsUnknownRole(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Login(context.Background(), domain.LoginRequest{Role: "guest"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := svc.SetCurrentRole(context.Background(), "guest"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetCurrentRoleWhileAuthenticatedReseeds(t *testing.T) {
	svc := newTestService(t)
	mustLogin(t, svc, domain.RoleStudent)
	if err := svc.SetCurrentRole(context.Background(), domain.RoleLandlord); err != nil {
		t.Fatalf("set role: %v", err)
	}
	u, _ := svc.CurrentUser()
	if u.Role != domain.RoleLandlord || u.Name != "James Omondi" || u.University != "" {
		t.Fatalf("expected regenerated landlord, got %+v", u)
	}
	if len(svc.ListBookings()) != 0 {
		t.Fatalf("landlord session must not carry student bookings")
	}
	if n := svc.Notifications(); len(n) != 3 || n[1].Title != "New Booking Request" {
		t.Fatalf("unexpected landlord notifications %+v", n)
	}
}

func TestLogoutClearsSessionState(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	mustLogin(t, svc, domain.RoleStudent)
	if err := svc.AddToWishlist(ctx, "2"); err != nil {
		t.Fatalf("wishlist: %v", err)
	}
	before := svc.CompanyInfo()
	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if svc.IsAuthenticated() || svc.CurrentPage() != PageHome {
		t.Fatalf("expected anonymous session on home")
	}
	if svc.CurrentRole() != domain.RoleStudent {
		t.Fatalf("logout keeps the role")
	}
	if len(svc.ListBookings()) != 0 || len(svc.Notifications()) != 0 || len(svc.Store().ListWishlistItems()) != 0 {
		t.Fatalf("expected cleared session collections")
	}
	if len(svc.ListHostels()) != 4 || len(svc.GetHostelReviews("1")) != 2 {
		t.Fatalf("catalog and reviews survive logout")
	}
	if after := svc.CompanyInfo(); after.Mission != before.Mission || len(after.Team) != len(before.Team) {
		t.Fatalf("company info must survive logout")
	}
}

func TestLoginKeepsWishlist(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	mustLogin(t, svc, domain.RoleStudent)
	if err := svc.AddToWishlist(ctx, "3"); err != nil {
		t.Fatalf("wishlist: %v", err)
	}
	mustLogin(t, svc, domain.RoleStudent)
	if !svc.IsInWishlist("3") {
		t.Fatalf("login must not clear the wishlist")
	}
}

func TestSetCurrentPage(t *testing.T) {
	svc := newTestService(t)
	svc.SetCurrentPage("hostels")
	if svc.CurrentPage() != "hostels" {
		t.Fatalf("unexpected page %s", svc.CurrentPage())
	}
}

func TestSessionCyclesKeepRoomInventory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	deluxe := func() int { return roomAvailability(t, svc, "3", "Deluxe Room") }
	single := func() int { return roomAvailability(t, svc, "1", "Single Room") }
	if deluxe() != 3 || single() != 6 {
		t.Fatalf("unexpected anonymous inventory deluxe=%d single=%d", deluxe(), single())
	}
	for cycle := 0; cycle < 4; cycle++ {
		mustLogin(t, svc, domain.RoleStudent)
		if deluxe() != 2 || single() != 5 {
			t.Fatalf("cycle %d: seed bookings should hold one room each, deluxe=%d single=%d", cycle, deluxe(), single())
		}
		if _, _, err := svc.CreateBooking(ctx, bookingRequest("3", "Deluxe Room")); err != nil {
			t.Fatalf("cycle %d: book: %v", cycle, err)
		}
		if err := svc.Logout(ctx); err != nil {
			t.Fatalf("cycle %d: logout: %v", cycle, err)
		}
		if len(svc.ListBookings()) != 0 || deluxe() != 3 || single() != 6 {
			t.Fatalf("cycle %d: logout must hand every held room back, deluxe=%d single=%d", cycle, deluxe(), single())
		}
	}
}

func TestCancelledSeedBookingDoesNotInflateInventory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	for cycle := 0; cycle < 3; cycle++ {
		mustLogin(t, svc, domain.RoleStudent)
		if _, _, err := svc.UpdateBookingStatus(ctx, "2", domain.BookingCancelled); err != nil {
			t.Fatalf("cycle %d: cancel: %v", cycle, err)
		}
		if got := roomAvailability(t, svc, "3", "Deluxe Room"); got != 3 {
			t.Fatalf("cycle %d: cancellation restores the seed hold, got %d", cycle, got)
		}
		if err := svc.Logout(ctx); err != nil {
			t.Fatalf("cycle %d: logout: %v", cycle, err)
		}
		if got := roomAvailability(t, svc, "3", "Deluxe Room"); got != 3 {
			t.Fatalf("cycle %d: cancelled bookings hold nothing on logout, got %d", cycle, got)
		}
	}
}

func TestRoleSwitchReleasesSeedRooms(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	mustLogin(t, svc, domain.RoleStudent)
	if err := svc.SetCurrentRole(ctx, domain.RoleLandlord); err != nil {
		t.Fatalf("switch: %v", err)
	}
	if got := roomAvailability(t, svc, "3", "Deluxe Room"); got != 3 {
		t.Fatalf("landlord session holds no rooms, got %d", got)
	}

	soldOut := []RoomType{{ID: "1", Type: "Deluxe Room", Price: 18000, Available: 0, Total: 8}}
	closed := false
	if _, _, err := svc.UpdateHostel(ctx, "3", domain.HostelPatch{RoomTypes: &soldOut, Available: &closed}); err != nil {
		t.Fatalf("close hostel: %v", err)
	}
	if err := svc.SetCurrentRole(ctx, domain.RoleStudent); err != nil {
		t.Fatalf("switch back: %v", err)
	}
	got := svc.ListBookings()
	if len(got) != 1 || got[0].HostelID != "1" {
		t.Fatalf("seed booking on a sold out room type must be skipped, got %+v", got)
	}
	if roomAvailability(t, svc, "3", "Deluxe Room") != 0 {
		t.Fatalf("skipped seed booking must not touch inventory")
	}
}
