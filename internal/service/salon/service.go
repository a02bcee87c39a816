package salon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
	"github.com/jwalitptl/salon-api/internal/service/schedule"
	apperrors "github.com/jwalitptl/salon-api/pkg/errors"
	"github.com/jwalitptl/salon-api/pkg/logger"
)

type Service struct {
	salons   repository.SalonRepository
	services repository.ServiceRepository
	schedule *schedule.Service
	logger   *logger.Logger
}

func NewService(
	salons repository.SalonRepository,
	services repository.ServiceRepository,
	scheduleSvc *schedule.Service,
	log *logger.Logger,
) *Service {
	return &Service{
		salons:   salons,
		services: services,
		schedule: scheduleSvc,
		logger:   log,
	}
}

func (s *Service) CreateSalon(ctx context.Context, req *model.CreateSalonRequest) (*model.Salon, error) {
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		return nil, apperrors.NewBadRequest("invalid timezone", err)
	}

	salon := &model.Salon{
		Name:     req.Name,
		Location: req.Location,
		Timezone: req.Timezone,
		Status:   "active",
	}
	if err := s.salons.Create(ctx, salon); err != nil {
		return nil, fmt.Errorf("failed to create salon: %w", err)
	}
	return salon, nil
}

func (s *Service) GetSalon(ctx context.Context, id uuid.UUID) (*model.Salon, error) {
	salon, err := s.salons.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("salon", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get salon: %w", err)
	}
	return salon, nil
}

func (s *Service) ListSalons(ctx context.Context) ([]*model.Salon, error) {
	return s.salons.List(ctx)
}

func (s *Service) UpdateSalon(ctx context.Context, id uuid.UUID, req *model.UpdateSalonRequest) (*model.Salon, error) {
	salon, err := s.GetSalon(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		salon.Name = *req.Name
	}
	if req.Location != nil {
		salon.Location = *req.Location
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			return nil, apperrors.NewBadRequest("invalid timezone", err)
		}
		salon.Timezone = *req.Timezone
	}
	if req.Status != nil {
		salon.Status = *req.Status
	}

	if err := s.salons.Update(ctx, salon); err != nil {
		return nil, fmt.Errorf("failed to update salon: %w", err)
	}
	s.schedule.InvalidateSalon(id)
	return salon, nil
}

// UpdateOperatingHours validates the hours blob before storing it.
// Storage accepts any of the supported formats; what matters is that the
// resolver can parse it, so the availability path never has to fall back
// to defaults for hours we accepted here.
func (s *Service) UpdateOperatingHours(ctx context.Context, id uuid.UUID, req *model.UpdateHoursRequest) error {
	if _, err := s.GetSalon(ctx, id); err != nil {
		return err
	}

	if _, err := schedule.ResolveOperatingHours(req.OperatingHours); err != nil {
		return apperrors.NewUnprocessable("operating hours could not be parsed", err)
	}

	if err := s.salons.UpdateSettings(ctx, id, req.OperatingHours); err != nil {
		return fmt.Errorf("failed to update salon settings: %w", err)
	}

	// Stale cached hours would serve the old window for up to the TTL.
	s.schedule.InvalidateSalon(id)
	s.logger.Info("salon operating hours updated", "salon_id", id.String())
	return nil
}

func (s *Service) ListServices(ctx context.Context, salonID uuid.UUID) ([]*model.Service, error) {
	if _, err := s.GetSalon(ctx, salonID); err != nil {
		return nil, err
	}
	return s.services.ListForSalon(ctx, salonID)
}
