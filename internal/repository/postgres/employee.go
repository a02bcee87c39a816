package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
)

func (r *employeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	employee.ID = uuid.New()
	employee.CreatedAt = time.Now()
	employee.UpdatedAt = employee.CreatedAt

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO employees (id, salon_id, name, email, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		employee.ID,
		employee.SalonID,
		employee.Name,
		employee.Email,
		employee.IsActive,
		employee.CreatedAt,
		employee.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

func (r *employeeRepository) Get(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	query := `
		SELECT id, salon_id, name, email, is_active, created_at, updated_at
		FROM employees
		WHERE id = $1 AND deleted_at IS NULL
	`
	var employee model.Employee
	err := r.db.GetContext(ctx, &employee, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return &employee, nil
}

// ListActive returns employees ordered by id so "any available"
// assignment iterates in a stable order.
func (r *employeeRepository) ListActive(ctx context.Context, salonID uuid.UUID) ([]*model.Employee, error) {
	query := `
		SELECT id, salon_id, name, email, is_active, created_at, updated_at
		FROM employees
		WHERE salon_id = $1 AND is_active AND deleted_at IS NULL
		ORDER BY id ASC
	`
	var employees []*model.Employee
	if err := r.db.SelectContext(ctx, &employees, query, salonID); err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	return employees, nil
}

func (r *employeeRepository) Update(ctx context.Context, employee *model.Employee) error {
	employee.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, `
		UPDATE employees
		SET name = $1, email = $2, is_active = $3, updated_at = $4
		WHERE id = $5 AND deleted_at IS NULL
	`,
		employee.Name,
		employee.Email,
		employee.IsActive,
		employee.UpdatedAt,
		employee.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
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
