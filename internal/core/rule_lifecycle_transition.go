package core

import (
	"context"
	"fmt"

	"affordhostel/pkg/domain"
)

// LifecycleTransitionRule blocks unknown states and illegal transitions of
// hostel verification and booking status.
func LifecycleTransitionRule() domain.Rule {
	return lifecycleTransitionRule{}
}

type lifecycleTransitionRule struct{}

type lifecycleMachine struct {
	entity    domain.EntityType
	label     string
	valid     map[string]struct{}
	next      map[string]map[string]struct{}
	extractor func(payload any) (id string, state string, ok bool)
}

var reportOutcomes = []string{
	string(domain.VerificationVerified),
	string(domain.VerificationRejected),
	string(domain.VerificationNeedsMoreInfo),
}

func withOutcomes(states ...string) map[string]struct{} {
	return toSet(append(states, reportOutcomes...)...)
}

var lifecycleMachines = map[domain.EntityType]lifecycleMachine{
	domain.EntityHostel: {
		entity: domain.EntityHostel,
		label:  "hostel verification",
		valid: toSet(
			string(domain.VerificationPendingSubmission),
			string(domain.VerificationPendingReview),
			string(domain.VerificationVerified),
			string(domain.VerificationRejected),
			string(domain.VerificationNeedsMoreInfo),
		),
		// Assignment and reports may happen from any state; only a resubmission
		// without an agent returns to pending_submission.
		next: map[string]map[string]struct{}{
			string(domain.VerificationPendingSubmission): withOutcomes(string(domain.VerificationPendingReview)),
			string(domain.VerificationPendingReview):     withOutcomes(),
			string(domain.VerificationVerified):          withOutcomes(string(domain.VerificationPendingReview)),
			string(domain.VerificationRejected):          withOutcomes(string(domain.VerificationPendingReview), string(domain.VerificationPendingSubmission)),
			string(domain.VerificationNeedsMoreInfo):     withOutcomes(string(domain.VerificationPendingReview), string(domain.VerificationPendingSubmission)),
		},
		extractor: func(payload any) (string, string, bool) {
			hostel, ok := payload.(domain.Hostel)
			if !ok {
				return "", "", false
			}
			return hostel.ID, string(hostel.VerificationStatus), true
		},
	},
	domain.EntityBooking: {
		entity: domain.EntityBooking,
		label:  "booking",
		valid: toSet(
			string(domain.BookingPending),
			string(domain.BookingConfirmed),
			string(domain.BookingRejected),
			string(domain.BookingCancelled),
		),
		next: map[string]map[string]struct{}{
			string(domain.BookingPending):   toSet(string(domain.BookingConfirmed), string(domain.BookingRejected), string(domain.BookingCancelled)),
			string(domain.BookingConfirmed): toSet(string(domain.BookingCancelled)),
		},
		extractor: func(payload any) (string, string, bool) {
			booking, ok := payload.(domain.Booking)
			if !ok {
				return "", "", false
			}
			return booking.ID, string(booking.Status), true
		},
	},
}

func (lifecycleTransitionRule) Name() string { return "lifecycle_transition" }

func (r lifecycleTransitionRule) Evaluate(_ context.Context, _ domain.TransactionView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		machine, ok := lifecycleMachines[change.Entity]
		if !ok {
			continue
		}
		afterID, afterState, ok := machine.extractor(change.After)
		if !ok {
			continue
		}
		if _, valid := machine.valid[afterState]; !valid {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     r.Name(),
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("%s %s is set to invalid state %s", machine.label, afterID, afterState),
				Entity:   machine.entity,
				EntityID: afterID,
			})
			continue
		}
		_, beforeState, ok := machine.extractor(change.Before)
		if !ok || beforeState == afterState {
			continue
		}
		if _, allowed := machine.next[beforeState][afterState]; !allowed {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     r.Name(),
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("cannot move %s %s from %s to %s", machine.label, afterID, beforeState, afterState),
				Entity:   machine.entity,
				EntityID: afterID,
			})
		}
	}
	return res, nil
}

// bookingTransitionAllowed reports whether a booking may move from one status to another.
func bookingTransitionAllowed(from, to domain.BookingStatus) bool {
	_, ok := lifecycleMachines[domain.EntityBooking].next[string(from)][string(to)]
	return ok
}
