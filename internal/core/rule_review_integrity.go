package core

import (
	"context"
	"fmt"

	"affordhostel/pkg/domain"
)

// NewReviewIntegrityRule blocks ratings outside 1..5 and reviews of missing hostels.
func NewReviewIntegrityRule() domain.Rule {
	return reviewIntegrityRule{}
}

type reviewIntegrityRule struct{}

func (reviewIntegrityRule) Name() string { return "review_integrity" }

func (r reviewIntegrityRule) Evaluate(_ context.Context, view domain.TransactionView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		if change.Entity != domain.EntityReview || change.Action == domain.ActionDelete {
			continue
		}
		review, ok := change.After.(domain.Review)
		if !ok {
			continue
		}
		if review.Rating < 1 || review.Rating > 5 {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     r.Name(),
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("review %s has rating %d outside 1..5", review.ID, review.Rating),
				Entity:   domain.EntityReview,
				EntityID: review.ID,
			})
		}
		if _, ok := view.FindHostel(review.HostelID); !ok {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     r.Name(),
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("review %s references missing hostel %s", review.ID, review.HostelID),
				Entity:   domain.EntityReview,
				EntityID: review.ID,
			})
		}
	}
	return res, nil
}
