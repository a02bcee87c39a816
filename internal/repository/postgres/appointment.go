package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
)

const uniqueViolation = "23505"

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, salon_id, service_id, employee_id, customer_id,
			   booking_token, scheduled_start, scheduled_end, status,
			   notes, cancel_reason, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var apt model.Appointment
	err := r.db.GetContext(ctx, &apt, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) GetByToken(ctx context.Context, token string) (*model.Appointment, error) {
	query := `
		SELECT id, salon_id, service_id, employee_id, customer_id,
			   booking_token, scheduled_start, scheduled_end, status,
			   notes, cancel_reason, created_at, updated_at
		FROM appointments
		WHERE booking_token = $1
	`
	var apt model.Appointment
	err := r.db.GetContext(ctx, &apt, query, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment by token: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `
		SELECT id, salon_id, service_id, employee_id, customer_id,
			   booking_token, scheduled_start, scheduled_end, status,
			   notes, cancel_reason, created_at, updated_at
		FROM appointments
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters.SalonID != uuid.Nil {
		query += fmt.Sprintf(" AND salon_id = $%d", argCount)
		args = append(args, filters.SalonID)
		argCount++
	}
	if filters.EmployeeID != uuid.Nil {
		query += fmt.Sprintf(" AND employee_id = $%d", argCount)
		args = append(args, filters.EmployeeID)
		argCount++
	}
	if filters.CustomerID != uuid.Nil {
		query += fmt.Sprintf(" AND customer_id = $%d", argCount)
		args = append(args, filters.CustomerID)
		argCount++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}
	if !filters.StartDate.IsZero() {
		query += fmt.Sprintf(" AND scheduled_start >= $%d", argCount)
		args = append(args, filters.StartDate)
		argCount++
	}
	if !filters.EndDate.IsZero() {
		query += fmt.Sprintf(" AND scheduled_start < $%d", argCount)
		args = append(args, filters.EndDate)
		argCount++
	}

	query += " ORDER BY scheduled_start ASC"

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListBlocking(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT id, salon_id, service_id, employee_id, customer_id,
			   booking_token, scheduled_start, scheduled_end, status,
			   notes, cancel_reason, created_at, updated_at
		FROM appointments
		WHERE employee_id = $1
		AND status IN ('pending', 'confirmed')
		AND scheduled_start < $3
		AND scheduled_end > $2
		ORDER BY scheduled_start ASC
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, employeeID, from, to); err != nil {
		return nil, fmt.Errorf("failed to list blocking appointments: %w", err)
	}
	return appointments, nil
}

// Reserve is the booking-consistency boundary. The employee row lock
// serializes concurrent commits for the same employee, the overlap check
// runs against committed state under that lock, and the appointment plus
// its outbox event land in one transaction. Never split this into a
// check-then-insert across two round trips.
func (r *appointmentRepository) Reserve(ctx context.Context, apt *model.Appointment, event *model.OutboxEvent) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var lockedID uuid.UUID
	err = tx.GetContext(ctx, &lockedID,
		`SELECT id FROM employees WHERE id = $1 AND is_active FOR UPDATE`,
		apt.EmployeeID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock employee: %w", err)
	}

	var hasOverlap bool
	err = tx.GetContext(ctx, &hasOverlap, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE employee_id = $1
			AND status IN ('pending', 'confirmed')
			AND scheduled_start < $3
			AND scheduled_end > $2
		)
	`, apt.EmployeeID, apt.ScheduledStart, apt.ScheduledEnd)
	if err != nil {
		return fmt.Errorf("failed to check overlap: %w", err)
	}
	if hasOverlap {
		return repository.ErrOverlap
	}

	apt.ID = uuid.New()
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = apt.CreatedAt

	_, err = tx.ExecContext(ctx, `
		INSERT INTO appointments (
			id, salon_id, service_id, employee_id, customer_id,
			booking_token, scheduled_start, scheduled_end, status,
			notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		apt.ID,
		apt.SalonID,
		apt.ServiceID,
		apt.EmployeeID,
		apt.CustomerID,
		apt.BookingToken,
		apt.ScheduledStart,
		apt.ScheduledEnd,
		apt.Status,
		apt.Notes,
		apt.CreatedAt,
		apt.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return repository.ErrDuplicateToken
		}
		return fmt.Errorf("failed to insert appointment: %w", err)
	}

	if event != nil {
		if err := insertOutboxEvent(ctx, tx, event); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reservation: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	query := `
		UPDATE appointments
		SET scheduled_start = $1, scheduled_end = $2, status = $3,
			notes = $4, updated_at = $5
		WHERE id = $6
	`
	apt.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		apt.ScheduledStart,
		apt.ScheduledEnd,
		apt.Status,
		apt.Notes,
		apt.UpdatedAt,
		apt.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *appointmentRepository) Cancel(ctx context.Context, id uuid.UUID, reason string, event *model.OutboxEvent) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE appointments
		SET status = $1, cancel_reason = $2, updated_at = $3
		WHERE id = $4
	`, model.AppointmentStatusCancelled, reason, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	if event != nil {
		if err := insertOutboxEvent(ctx, tx, event); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cancellation: %w", err)
	}
	return nil
}
