package core

import (
	"context"
	"fmt"

	"affordhostel/pkg/domain"
)

// NewRoomInventoryRule blocks room types whose availability leaves [0, total].
func NewRoomInventoryRule() domain.Rule {
	return roomInventoryRule{}
}

type roomInventoryRule struct{}

func (roomInventoryRule) Name() string { return "room_inventory" }

func (r roomInventoryRule) Evaluate(_ context.Context, _ domain.TransactionView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		if change.Entity != domain.EntityHostel || change.Action == domain.ActionDelete {
			continue
		}
		hostel, ok := change.After.(domain.Hostel)
		if !ok {
			continue
		}
		for _, rt := range hostel.RoomTypes {
			if rt.Total < 0 || rt.Available < 0 || rt.Available > rt.Total {
				res.Violations = append(res.Violations, domain.Violation{
					Rule:     r.Name(),
					Severity: domain.SeverityBlock,
					Message:  fmt.Sprintf("room type %q of hostel %s has %d of %d rooms available", rt.Type, hostel.ID, rt.Available, rt.Total),
					Entity:   domain.EntityHostel,
					EntityID: hostel.ID,
				})
			}
		}
		if hostel.Available && len(hostel.RoomTypes) > 0 && hostel.AvailableRooms() == 0 {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     r.Name(),
				Severity: domain.SeverityWarn,
				Message:  fmt.Sprintf("hostel %s is listed as available with every room type sold out", hostel.ID),
				Entity:   domain.EntityHostel,
				EntityID: hostel.ID,
			})
		}
	}
	return res, nil
}
