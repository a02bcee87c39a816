package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/salon-api/internal/model"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrOverlap is returned by Reserve when the employee already has a
	// blocking appointment in the requested interval. The booking service
	// maps it to the retryable slot-conflict error.
	ErrOverlap = errors.New("overlapping appointment")

	// ErrDuplicateToken is returned by Reserve when the booking token was
	// already committed; callers re-read the original appointment.
	ErrDuplicateToken = errors.New("booking token already used")
)

type SalonRepository interface {
	Create(ctx context.Context, salon *model.Salon) error
	Get(ctx context.Context, id uuid.UUID) (*model.Salon, error)
	List(ctx context.Context) ([]*model.Salon, error)
	Update(ctx context.Context, salon *model.Salon) error
	UpdateSettings(ctx context.Context, id uuid.UUID, settings []byte) error
}

type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	Get(ctx context.Context, id uuid.UUID) (*model.Employee, error)
	ListActive(ctx context.Context, salonID uuid.UUID) ([]*model.Employee, error)
	Update(ctx context.Context, employee *model.Employee) error
}

type ServiceRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Service, error)
	ListForSalon(ctx context.Context, salonID uuid.UUID) ([]*model.Service, error)
}

type AppointmentRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	GetByToken(ctx context.Context, token string) (*model.Appointment, error)
	List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)

	// ListBlocking returns the employee's appointments that still occupy
	// time (pending/confirmed) overlapping [from, to).
	ListBlocking(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]*model.Appointment, error)

	// Reserve atomically re-checks for overlap, inserts the appointment
	// and writes the outbox event in a single transaction. Returns
	// ErrOverlap when the interval is taken and ErrDuplicateToken when
	// the booking token was already committed.
	Reserve(ctx context.Context, apt *model.Appointment, event *model.OutboxEvent) error

	Update(ctx context.Context, apt *model.Appointment) error

	// Cancel flips the status and writes the cancellation event in one
	// transaction.
	Cancel(ctx context.Context, id uuid.UUID, reason string, event *model.OutboxEvent) error
}

type OutboxRepository interface {
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
}
