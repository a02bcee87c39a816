package booking

import (
	"context"
	"fmt"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/service/schedule"
	apperrors "github.com/jwalitptl/salon-api/pkg/errors"
)

// ResolveRequest turns the wire-level booking into a fully resolved one:
// the salon-local date and slot start become absolute instants in the
// salon's timezone and the end time is derived from the service
// duration. Clients never supply the end time.
func (s *Service) ResolveRequest(ctx context.Context, in *model.CreateBookingRequest, token string) (*model.BookingRequest, error) {
	date, err := model.ParseDate(in.Date)
	if err != nil {
		return nil, apperrors.NewBadRequest("invalid date", err)
	}

	_, loc, err := s.schedule.SalonContext(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}

	svc, err := s.services.Get(ctx, in.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}

	start, end, err := schedule.BuildAppointmentTime(date, in.StartTime, svc.Duration, loc)
	if err != nil {
		return nil, apperrors.NewBadRequest("invalid start time", err)
	}

	return &model.BookingRequest{
		SalonID:        in.SalonID,
		ServiceID:      in.ServiceID,
		EmployeeID:     in.EmployeeID,
		CustomerID:     in.CustomerID,
		ScheduledStart: start,
		ScheduledEnd:   end,
		Notes:          in.Notes,
		BookingToken:   token,
	}, nil
}
