package booking

import (
	"context"
	"fmt"

	"github.com/jwalitptl/salon-api/internal/model"
)

// Validate re-checks a chosen slot against live state. It must run
// immediately before commit: nothing holds a slot between browse and
// commit, so a list fetched even seconds earlier can already be stale.
// On a conflict the caller discards the stale selection and re-fetches
// the slot list; it never retries the same slot.
func (s *Service) Validate(ctx context.Context, req *model.BookingRequest) (*model.ValidationResult, error) {
	_, loc, err := s.schedule.SalonContext(ctx, req.SalonID)
	if err != nil {
		return nil, err
	}

	localStart := req.ScheduledStart.In(loc)
	date := model.DateOf(localStart)
	startTime := fmt.Sprintf("%02d:%02d", localStart.Hour(), localStart.Minute())

	if localStart.Before(s.now()) {
		return &model.ValidationResult{Valid: false, Reason: model.ReasonPastSlot}, nil
	}

	slots, err := s.schedule.GetDaySlots(ctx, req.SalonID, req.ServiceID, req.EmployeeID, date)
	if err != nil {
		return nil, err
	}

	for _, slot := range slots {
		if slot.StartTime != startTime {
			continue
		}
		if slot.Available {
			return &model.ValidationResult{Valid: true}, nil
		}
		reason := slot.Reason
		if reason == "" {
			reason = model.ReasonAlreadyBooked
		}
		return &model.ValidationResult{Valid: false, Reason: reason}, nil
	}

	return &model.ValidationResult{Valid: false, Reason: "slot not offered for this date"}, nil
}
