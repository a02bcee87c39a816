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

func (r *salonRepository) Create(ctx context.Context, salon *model.Salon) error {
	salon.ID = uuid.New()
	salon.CreatedAt = time.Now()
	salon.UpdatedAt = salon.CreatedAt

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO salons (id, name, location, timezone, status, settings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		salon.ID,
		salon.Name,
		salon.Location,
		salon.Timezone,
		salon.Status,
		salon.Settings,
		salon.CreatedAt,
		salon.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create salon: %w", err)
	}
	return nil
}

func (r *salonRepository) Get(ctx context.Context, id uuid.UUID) (*model.Salon, error) {
	query := `
		SELECT id, name, location, timezone, status, settings, created_at, updated_at
		FROM salons
		WHERE id = $1 AND deleted_at IS NULL
	`
	var salon model.Salon
	err := r.db.GetContext(ctx, &salon, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get salon: %w", err)
	}
	return &salon, nil
}

func (r *salonRepository) List(ctx context.Context) ([]*model.Salon, error) {
	query := `
		SELECT id, name, location, timezone, status, settings, created_at, updated_at
		FROM salons
		WHERE deleted_at IS NULL
		ORDER BY name ASC
	`
	var salons []*model.Salon
	if err := r.db.SelectContext(ctx, &salons, query); err != nil {
		return nil, fmt.Errorf("failed to list salons: %w", err)
	}
	return salons, nil
}

func (r *salonRepository) Update(ctx context.Context, salon *model.Salon) error {
	salon.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, `
		UPDATE salons
		SET name = $1, location = $2, timezone = $3, status = $4, updated_at = $5
		WHERE id = $6 AND deleted_at IS NULL
	`,
		salon.Name,
		salon.Location,
		salon.Timezone,
		salon.Status,
		salon.UpdatedAt,
		salon.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update salon: %w", err)
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

func (r *salonRepository) UpdateSettings(ctx context.Context, id uuid.UUID, settings []byte) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE salons
		SET settings = $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL
	`, settings, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update salon settings: %w", err)
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
