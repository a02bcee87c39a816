package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
	"github.com/jwalitptl/salon-api/internal/service/schedule"
	apperrors "github.com/jwalitptl/salon-api/pkg/errors"
	"github.com/jwalitptl/salon-api/pkg/logger"
	"github.com/jwalitptl/salon-api/pkg/metrics"
)

// Service is the server-side booking authority. Browsing never reserves
// anything; the only place a slot is actually taken is the Reserve
// transaction below, so this is where double-booking is prevented.
type Service struct {
	appointments repository.AppointmentRepository
	employees    repository.EmployeeRepository
	services     repository.ServiceRepository
	schedule     *schedule.Service
	logger       *logger.Logger
	metrics      *metrics.Metrics
	now          func() time.Time
}

func NewService(
	appointments repository.AppointmentRepository,
	employees repository.EmployeeRepository,
	services repository.ServiceRepository,
	scheduleSvc *schedule.Service,
	log *logger.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		appointments: appointments,
		employees:    employees,
		services:     services,
		schedule:     scheduleSvc,
		logger:       log,
		metrics:      m,
		now:          time.Now,
	}
}

// Book atomically reserves a slot. For "any available" requests it
// assigns a concrete employee here, atomically with the reservation.
// Returns ErrSlotNoLongerAvailable when every candidate is taken; the
// client maps that to the refresh path.
func (s *Service) Book(ctx context.Context, req *model.BookingRequest) (*model.Appointment, error) {
	started := time.Now()
	defer func() {
		s.metrics.BookingCommitLatency.Observe(time.Since(started).Seconds())
	}()

	// Replayed booking token: the original commit won, return it.
	if req.BookingToken != "" {
		existing, err := s.appointments.GetByToken(ctx, req.BookingToken)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	if !req.ScheduledStart.After(s.now()) {
		return nil, apperrors.ErrPastDate
	}
	if !req.ScheduledEnd.After(req.ScheduledStart) {
		return nil, apperrors.NewBadRequest("scheduled end must be after start", nil)
	}

	candidates, err := s.candidateEmployees(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		s.metrics.BookingCommits.WithLabelValues("no_employee").Inc()
		return nil, apperrors.ErrEmployeeUnavailable
	}

	for _, employeeID := range candidates {
		apt := &model.Appointment{
			SalonID:        req.SalonID,
			ServiceID:      req.ServiceID,
			EmployeeID:     employeeID,
			CustomerID:     req.CustomerID,
			BookingToken:   req.BookingToken,
			ScheduledStart: req.ScheduledStart,
			ScheduledEnd:   req.ScheduledEnd,
			Status:         model.AppointmentStatusConfirmed,
			Notes:          req.Notes,
		}

		err := s.appointments.Reserve(ctx, apt, createdEvent(apt))
		switch {
		case err == nil:
			s.metrics.BookingCommits.WithLabelValues("success").Inc()
			s.schedule.InvalidateSalon(req.SalonID)
			return apt, nil
		case errors.Is(err, repository.ErrOverlap):
			continue
		case errors.Is(err, repository.ErrDuplicateToken):
			return s.appointments.GetByToken(ctx, req.BookingToken)
		case errors.Is(err, repository.ErrNotFound):
			// Employee deactivated between browse and commit.
			continue
		default:
			s.metrics.BookingCommits.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("failed to reserve slot: %w", err)
		}
	}

	s.metrics.BookingCommits.WithLabelValues("conflict").Inc()
	s.metrics.BookingConflicts.Inc()
	s.logger.Warn("slot conflict, every candidate employee is taken",
		"salon_id", req.SalonID.String(),
		"scheduled_start", req.ScheduledStart.Format(time.RFC3339))
	return nil, apperrors.ErrSlotNoLongerAvailable
}

// candidateEmployees resolves the employees to try, in stable order.
// A concrete employee yields a single candidate; "any" yields the whole
// active pool.
func (s *Service) candidateEmployees(ctx context.Context, req *model.BookingRequest) ([]uuid.UUID, error) {
	employeeID, err := req.EmployeeUUID()
	if err != nil {
		return nil, apperrors.NewBadRequest("invalid employee ID", err)
	}

	if employeeID != uuid.Nil {
		employee, err := s.employees.Get(ctx, employeeID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get employee: %w", err)
		}
		if !employee.IsActive {
			return nil, nil
		}
		return []uuid.UUID{employee.ID}, nil
	}

	pool, err := s.employees.ListActive(ctx, req.SalonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(pool))
	for _, emp := range pool {
		ids = append(ids, emp.ID)
	}
	return ids, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.appointments.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("appointment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return apt, nil
}

// ListCustomerAppointments is the reconciliation read: after an
// indeterminate commit timeout the client re-reads its appointments
// instead of assuming the booking failed.
func (s *Service) ListCustomerAppointments(ctx context.Context, customerID uuid.UUID) ([]*model.Appointment, error) {
	return s.appointments.List(ctx, &model.AppointmentFilters{CustomerID: customerID})
}

func (s *Service) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return s.appointments.List(ctx, filters)
}

func (s *Service) CancelAppointment(ctx context.Context, id uuid.UUID, reason string) error {
	apt, err := s.GetAppointment(ctx, id)
	if err != nil {
		return err
	}

	if apt.Status == model.AppointmentStatusCancelled {
		return apperrors.NewConflict("appointment is already cancelled", nil)
	}
	if apt.Status == model.AppointmentStatusCompleted {
		return apperrors.NewConflict("cannot cancel a completed appointment", nil)
	}

	if err := s.appointments.Cancel(ctx, id, reason, cancelledEvent(apt, reason)); err != nil {
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}
	s.schedule.InvalidateSalon(apt.SalonID)
	return nil
}

// UpdateStatus moves an appointment through its lifecycle after the
// visit (completed / no_show) or confirms a pending one.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error) {
	switch status {
	case model.AppointmentStatusConfirmed, model.AppointmentStatusCompleted, model.AppointmentStatusNoShow:
	default:
		return nil, apperrors.NewBadRequest(fmt.Sprintf("cannot transition to status %q", status), nil)
	}

	apt, err := s.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if apt.Status == model.AppointmentStatusCancelled {
		return nil, apperrors.NewConflict("appointment is cancelled", nil)
	}

	apt.Status = status
	if err := s.appointments.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return apt, nil
}

func createdEvent(apt *model.Appointment) *model.OutboxEvent {
	payload, err := json.Marshal(apt)
	if err != nil {
		payload = []byte("{}")
	}
	return &model.OutboxEvent{
		EventType: model.EventAppointmentCreated,
		Payload:   payload,
	}
}

func cancelledEvent(apt *model.Appointment, reason string) *model.OutboxEvent {
	payload, err := json.Marshal(map[string]interface{}{
		"appointment_id": apt.ID,
		"customer_id":    apt.CustomerID,
		"employee_id":    apt.EmployeeID,
		"reason":         reason,
	})
	if err != nil {
		payload = []byte("{}")
	}
	return &model.OutboxEvent{
		EventType: model.EventAppointmentCancelled,
		Payload:   payload,
	}
}
