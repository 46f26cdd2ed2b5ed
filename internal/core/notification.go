package core

import (
	"context"

	"affordhostel/pkg/domain"
)

// MarkAsRead flags a single notification of the current user as read.
// Notifications owned by other users are reported as not found.
func (s *Service) MarkAsRead(ctx context.Context, id string) error {
	_, err := s.run(ctx, opMarkAsRead, func(tx Transaction) (string, error) {
		owner, _ := s.currentUserID()
		_, err := tx.UpdateNotification(id, func(n *Notification) error {
			if n.UserID != owner {
				return domain.NotFoundError{Entity: domain.EntityNotification, ID: id}
			}
			n.Read = true
			return nil
		})
		return id, err
	})
	return err
}

// MarkAllAsRead flags every notification of the current user as read.
func (s *Service) MarkAllAsRead(ctx context.Context) error {
	_, err := s.run(ctx, opMarkAllAsRead, func(tx Transaction) (string, error) {
		owner, ok := s.currentUserID()
		if !ok {
			return "", nil
		}
		for _, n := range tx.Snapshot().ListNotifications() {
			if n.Read || n.UserID != owner {
				continue
			}
			if _, err := tx.UpdateNotification(n.ID, func(n *Notification) error {
				n.Read = true
				return nil
			}); err != nil {
				return n.ID, err
			}
		}
		return "", nil
	})
	return err
}

// Notify appends a notification. An empty user id addresses the current user.
func (s *Service) Notify(ctx context.Context, req domain.NotificationRequest) (Notification, error) {
	var created Notification
	_, err := s.run(ctx, opNotify, func(tx Transaction) (string, error) {
		if err := req.Validate(); err != nil {
			return "", err
		}
		userID := req.UserID
		if userID == "" {
			user, err := s.requireUser()
			if err != nil {
				return "", err
			}
			userID = user.ID
		}
		kind := req.Type
		if kind == "" {
			kind = domain.NotificationInfo
		}
		var err error
		created, err = tx.CreateNotification(Notification{
			UserID:  userID,
			Title:   req.Title,
			Message: req.Message,
			Type:    kind,
		})
		return created.ID, err
	})
	return created, err
}

// Notifications returns the current user's notifications in insertion order.
// It is empty while nobody is logged in.
func (s *Service) Notifications() []Notification {
	owner, ok := s.currentUserID()
	if !ok {
		return nil
	}
	var out []Notification
	for _, n := range s.store.ListNotifications() {
		if n.UserID == owner {
			out = append(out, n)
		}
	}
	return out
}

// UnreadCount counts the current user's unread notifications.
func (s *Service) UnreadCount() int {
	count := 0
	for _, n := range s.Notifications() {
		if !n.Read {
			count++
		}
	}
	return count
}

func (s *Service) currentUserID() (string, bool) {
	u, ok := s.CurrentUser()
	return u.ID, ok
}
