package core

import (
	"context"

	"affordhostel/pkg/domain"
)

// AddReview appends a review by the current user and folds its rating into
// the hostel aggregate.
func (s *Service) AddReview(ctx context.Context, hostelID string, rating int, comment string) (Review, Result, error) {
	var created Review
	res, err := s.run(ctx, opAddReview, func(tx Transaction) (string, error) {
		user, err := s.requireUser()
		if err != nil {
			return "", err
		}
		req := domain.ReviewRequest{HostelID: hostelID, Rating: rating, Comment: comment}
		if err := req.Validate(); err != nil {
			return "", err
		}
		if _, ok := tx.FindHostel(hostelID); !ok {
			return "", domain.NotFoundError{Entity: domain.EntityHostel, ID: hostelID}
		}
		created, err = tx.CreateReview(Review{
			HostelID: hostelID,
			UserID:   user.ID,
			UserName: user.Name,
			Rating:   rating,
			Comment:  comment,
		})
		if err != nil {
			return "", err
		}
		_, err = tx.UpdateHostel(hostelID, func(h *Hostel) error {
			h.Rating = (h.Rating*float64(h.Reviews) + float64(rating)) / float64(h.Reviews+1)
			h.Reviews++
			return nil
		})
		return created.ID, err
	})
	return created, res, err
}

// GetHostelReviews returns the reviews of hostelID in insertion order.
func (s *Service) GetHostelReviews(hostelID string) []Review {
	var out []Review
	for _, r := range s.store.ListReviews() {
		if r.HostelID == hostelID {
			out = append(out, r)
		}
	}
	return out
}

// MarkReviewHelpful increments the helpful counter of a review.
func (s *Service) MarkReviewHelpful(ctx context.Context, reviewID string) (Review, error) {
	var updated Review
	_, err := s.run(ctx, opMarkReviewHelpful, func(tx Transaction) (string, error) {
		var err error
		updated, err = tx.UpdateReview(reviewID, func(r *Review) error {
			r.Helpful++
			return nil
		})
		return reviewID, err
	})
	return updated, err
}
