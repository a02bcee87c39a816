package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
	"github.com/jwalitptl/salon-api/internal/service/schedule"
	apperrors "github.com/jwalitptl/salon-api/pkg/errors"
)

type Service struct {
	employees repository.EmployeeRepository
	schedule  *schedule.Service
}

func NewService(employees repository.EmployeeRepository, scheduleSvc *schedule.Service) *Service {
	return &Service{employees: employees, schedule: scheduleSvc}
}

func (s *Service) CreateEmployee(ctx context.Context, salonID uuid.UUID, req *model.CreateEmployeeRequest) (*model.Employee, error) {
	employee := &model.Employee{
		SalonID:  salonID,
		Name:     req.Name,
		Email:    req.Email,
		IsActive: true,
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	s.schedule.InvalidateSalon(salonID)
	return employee, nil
}

func (s *Service) GetEmployee(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	employee, err := s.employees.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("employee", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee, nil
}

func (s *Service) ListActiveEmployees(ctx context.Context, salonID uuid.UUID) ([]*model.Employee, error) {
	return s.employees.ListActive(ctx, salonID)
}

// UpdateEmployee applies partial updates. Deactivation drops the
// employee out of the "any available" pool on the next cache refresh;
// their existing appointments are untouched.
func (s *Service) UpdateEmployee(ctx context.Context, id uuid.UUID, req *model.UpdateEmployeeRequest) (*model.Employee, error) {
	employee, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		employee.Name = *req.Name
	}
	if req.Email != nil {
		employee.Email = *req.Email
	}
	if req.IsActive != nil {
		employee.IsActive = *req.IsActive
	}

	if err := s.employees.Update(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	s.schedule.InvalidateSalon(employee.SalonID)
	return employee, nil
}
