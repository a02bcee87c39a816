package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
)

func (r *serviceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	query := `
		SELECT id, salon_id, name, description, duration, base_price, status, created_at, updated_at
		FROM services
		WHERE id = $1 AND deleted_at IS NULL
	`
	var svc model.Service
	err := r.db.GetContext(ctx, &svc, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &svc, nil
}

func (r *serviceRepository) ListForSalon(ctx context.Context, salonID uuid.UUID) ([]*model.Service, error) {
	query := `
		SELECT id, salon_id, name, description, duration, base_price, status, created_at, updated_at
		FROM services
		WHERE salon_id = $1 AND status = 'active' AND deleted_at IS NULL
		ORDER BY name ASC
	`
	var services []*model.Service
	if err := r.db.SelectContext(ctx, &services, query, salonID); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}
