package core

import (
	"context"

	"affordhostel/pkg/domain"
)

// Login fabricates the mock user for the requested role and reseeds the
// session bookings and notifications. Credentials are not checked. An empty
// role selects the role recorded by SetCurrentRole.
func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (User, error) {
	var user User
	err := s.observe(ctx, opLogin, func(ctx context.Context) (string, error) {
		if err := req.Validate(); err != nil {
			return "", err
		}
		role := req.Role
		if role == "" {
			role = s.CurrentRole()
		}
		user = mockUser(role)
		if err := s.reseed(ctx, user, false); err != nil {
			return "", err
		}
		s.mu.Lock()
		s.session = session{user: &user, role: role, page: PageDashboard}
		s.mu.Unlock()
		return user.ID, nil
	})
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// Logout clears the user along with the session bookings, notifications and
// wishlist. The role and company info survive.
func (s *Service) Logout(ctx context.Context) error {
	return s.observe(ctx, opLogout, func(ctx context.Context) (string, error) {
		if _, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
			return clearSession(tx, true)
		}); err != nil {
			return "", err
		}
		s.mu.Lock()
		s.session.user = nil
		s.session.page = PageHome
		s.mu.Unlock()
		return "", nil
	})
}

// SetCurrentRole switches the active role. While authenticated the user is
// regenerated for the new role and the session collections are reseeded.
func (s *Service) SetCurrentRole(ctx context.Context, role Role) error {
	return s.observe(ctx, opSetRole, func(ctx context.Context) (string, error) {
		if !role.Valid() {
			return "", domain.NewValidationError("role", "unknown role "+string(role))
		}
		if !s.IsAuthenticated() {
			s.mu.Lock()
			s.session.role = role
			s.mu.Unlock()
			return "", nil
		}
		user := mockUser(role)
		if err := s.reseed(ctx, user, false); err != nil {
			return "", err
		}
		s.mu.Lock()
		s.session.user = &user
		s.session.role = role
		s.mu.Unlock()
		return user.ID, nil
	})
}

// CurrentUser returns a copy of the session user.
func (s *Service) CurrentUser() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session.user == nil {
		return User{}, false
	}
	return *s.session.user, true
}

// IsAuthenticated reports whether a user is logged in.
func (s *Service) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.user != nil
}

// CurrentRole returns the active role.
func (s *Service) CurrentRole() Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.role
}

// CurrentPage returns the last recorded navigation target.
func (s *Service) CurrentPage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.page
}

// SetCurrentPage records a navigation target.
func (s *Service) SetCurrentPage(page string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.page = page
}

func (s *Service) reseed(ctx context.Context, user User, clearWishlist bool) error {
	_, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		if err := clearSession(tx, clearWishlist); err != nil {
			return err
		}
		for _, b := range seedBookings(user) {
			hostel, ok := tx.FindHostel(b.HostelID)
			if !ok {
				continue
			}
			idx, ok := hostel.FindRoomType(b.RoomType)
			if !ok {
				continue
			}
			if b.Status.HoldsRoom() {
				if hostel.RoomTypes[idx].Available <= 0 {
					continue
				}
				if err := holdRoom(tx, hostel, idx); err != nil {
					return err
				}
			}
			if _, err := tx.CreateBooking(b); err != nil {
				return err
			}
		}
		for _, n := range seedNotifications(user) {
			if _, err := tx.CreateNotification(n); err != nil {
				return err
			}
		}
		return nil
	})
	return err
}

// clearSession drops the session-scoped collections. Pending and confirmed
// bookings hand their room back before they are deleted.
func clearSession(tx Transaction, wishlist bool) error {
	view := tx.Snapshot()
	for _, b := range view.ListBookings() {
		if b.Status.HoldsRoom() {
			if err := releaseRoom(tx, b.HostelID, b.RoomType); err != nil {
				return err
			}
		}
		if err := tx.DeleteBooking(b.ID); err != nil {
			return err
		}
	}
	for _, n := range view.ListNotifications() {
		if err := tx.DeleteNotification(n.ID); err != nil {
			return err
		}
	}
	if !wishlist {
		return nil
	}
	for _, w := range view.ListWishlistItems() {
		if err := tx.DeleteWishlistItem(w.ID); err != nil {
			return err
		}
	}
	return nil
}
