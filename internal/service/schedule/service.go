package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
	apperrors "github.com/jwalitptl/salon-api/pkg/errors"
	"github.com/jwalitptl/salon-api/pkg/logger"
	"github.com/jwalitptl/salon-api/pkg/metrics"
)

const (
	salonCacheTTL    = 5 * time.Minute
	cacheSweepPeriod = 10 * time.Minute
)

// Service computes availability. All slot and day data it produces is
// ephemeral: it is never persisted and goes stale the moment another
// booking commits, which is why the booking service re-derives it at
// commit time instead of trusting anything cached here.
type Service struct {
	salons       repository.SalonRepository
	employees    repository.EmployeeRepository
	services     repository.ServiceRepository
	appointments repository.AppointmentRepository
	cache        *gocache.Cache
	logger       *logger.Logger
	metrics      *metrics.Metrics
	now          func() time.Time
}

// salonContext is the cached per-salon resolution of settings.
type salonContext struct {
	hours model.OperatingHours
	loc   *time.Location
}

func NewService(
	salons repository.SalonRepository,
	employees repository.EmployeeRepository,
	services repository.ServiceRepository,
	appointments repository.AppointmentRepository,
	log *logger.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		salons:       salons,
		employees:    employees,
		services:     services,
		appointments: appointments,
		cache:        gocache.New(salonCacheTTL, cacheSweepPeriod),
		logger:       log,
		metrics:      m,
		now:          time.Now,
	}
}

// SalonContext resolves a salon's operating hours and timezone, cached
// with a short TTL. A malformed hours blob degrades to the default
// window with a warning; it never blocks availability.
func (s *Service) SalonContext(ctx context.Context, salonID uuid.UUID) (model.OperatingHours, *time.Location, error) {
	key := "salon:" + salonID.String()
	if cached, ok := s.cache.Get(key); ok {
		sc := cached.(*salonContext)
		return sc.hours, sc.loc, nil
	}

	salon, err := s.salons.Get(ctx, salonID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get salon: %w", err)
	}

	loc := time.UTC
	if salon.Timezone != "" {
		parsed, err := time.LoadLocation(salon.Timezone)
		if err != nil {
			s.logger.Warn("invalid salon timezone, using UTC", "salon_id", salonID.String(), "timezone", salon.Timezone)
		} else {
			loc = parsed
		}
	}

	hours, err := ResolveOperatingHours(salon.Settings)
	if err != nil {
		if !errors.Is(err, apperrors.ErrMalformedConfig) {
			return nil, nil, err
		}
		s.logger.Warn("malformed operating hours, using defaults", "salon_id", salonID.String())
		hours = model.DefaultOperatingHours()
	}

	s.cache.Set(key, &salonContext{hours: hours, loc: loc}, gocache.DefaultExpiration)
	return hours, loc, nil
}

// InvalidateSalon drops the cached settings after an hours update.
func (s *Service) InvalidateSalon(salonID uuid.UUID) {
	s.cache.Delete("salon:" + salonID.String())
	s.cache.Delete("staff:" + salonID.String())
}

func (s *Service) activeEmployees(ctx context.Context, salonID uuid.UUID) ([]*model.Employee, error) {
	key := "staff:" + salonID.String()
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*model.Employee), nil
	}
	employees, err := s.employees.ListActive(ctx, salonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	s.cache.Set(key, employees, gocache.DefaultExpiration)
	return employees, nil
}

// resolvePool returns the employees participating in a request: the one
// named employee (if still active) or the salon's full active pool for
// "any available". An empty pool is the empty-state outcome, not an
// error.
func (s *Service) resolvePool(ctx context.Context, salonID uuid.UUID, employeeID string) ([]*model.Employee, error) {
	if employeeID == "" || employeeID == model.AnyEmployee {
		return s.activeEmployees(ctx, salonID)
	}

	id, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, apperrors.NewBadRequest("invalid employee ID", err)
	}
	employee, err := s.employees.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	if !employee.IsActive {
		return nil, nil
	}
	return []*model.Employee{employee}, nil
}

// GetDaySlots returns the bookable slot list for one date, either for a
// specific employee or merged across the active pool.
func (s *Service) GetDaySlots(ctx context.Context, salonID, serviceID uuid.UUID, employeeID string, date model.Date) ([]model.TimeSlot, error) {
	start := time.Now()
	defer func() {
		s.metrics.SlotComputeDuration.Observe(time.Since(start).Seconds())
	}()

	hours, loc, err := s.SalonContext(ctx, salonID)
	if err != nil {
		return nil, err
	}

	today := model.DateOf(s.now().In(loc))
	if date.Before(today) {
		return nil, apperrors.ErrPastDate
	}

	svc, err := s.services.Get(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}

	pool, err := s.resolvePool(ctx, salonID, employeeID)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return []model.TimeSlot{}, nil
	}

	dayStart := date.In(loc)
	dayEnd := date.AddDays(1).In(loc)
	apptsByEmployee := s.fetchAppointments(ctx, pool, dayStart, dayEnd)

	perEmployee := make(map[uuid.UUID][]model.TimeSlot, len(apptsByEmployee))
	for id, appts := range apptsByEmployee {
		perEmployee[id] = GenerateSlots(hours, date, svc.Duration, appts, s.now(), loc)
	}

	if len(pool) == 1 {
		slots := perEmployee[pool[0].ID]
		if slots == nil {
			return []model.TimeSlot{}, nil
		}
		return slots, nil
	}
	return MergeSlots(perEmployee), nil
}

// GetAvailability summarizes a date range into per-day statuses for the
// booking calendar.
func (s *Service) GetAvailability(ctx context.Context, salonID, serviceID uuid.UUID, employeeID string, from model.Date, days int) ([]model.DayAvailability, error) {
	if days <= 0 {
		return []model.DayAvailability{}, nil
	}

	hours, loc, err := s.SalonContext(ctx, salonID)
	if err != nil {
		return nil, err
	}

	svc, err := s.services.Get(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}

	pool, err := s.resolvePool(ctx, salonID, employeeID)
	if err != nil {
		return nil, err
	}

	today := model.DateOf(s.now().In(loc))
	rangeStart := from.In(loc)
	rangeEnd := from.AddDays(days).In(loc)

	apptsByEmployee := map[uuid.UUID][]*model.Appointment{}
	if len(pool) > 0 {
		apptsByEmployee = s.fetchAppointments(ctx, pool, rangeStart, rangeEnd)
	}

	result := make([]model.DayAvailability, 0, days)
	for i := 0; i < days; i++ {
		date := from.AddDays(i)
		if date.Before(today) || len(apptsByEmployee) == 0 {
			result = append(result, model.DayAvailability{Date: date, Status: model.DayStatusUnavailable})
			continue
		}

		perEmployee := make(map[uuid.UUID][]model.TimeSlot, len(apptsByEmployee))
		for id, appts := range apptsByEmployee {
			perEmployee[id] = GenerateSlots(hours, date, svc.Duration, appts, s.now(), loc)
		}

		if len(pool) == 1 {
			result = append(result, SummarizeDay(date, perEmployee[pool[0].ID]))
		} else {
			result = append(result, AggregateDay(date, perEmployee))
		}
	}
	return result, nil
}

// fetchAppointments loads each employee's blocking appointments
// concurrently. A failed fetch removes that employee from the result so
// one bad record degrades the calendar instead of blanking it: an
// employee absent from the map contributes no slots at all.
func (s *Service) fetchAppointments(ctx context.Context, pool []*model.Employee, from, to time.Time) map[uuid.UUID][]*model.Appointment {
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out = make(map[uuid.UUID][]*model.Appointment, len(pool))
	)

	for _, emp := range pool {
		wg.Add(1)
		go func(emp *model.Employee) {
			defer wg.Done()
			appts, err := s.appointments.ListBlocking(ctx, emp.ID, from, to)
			if err != nil {
				s.logger.Warn("skipping employee after appointment fetch failure",
					"employee_id", emp.ID.String())
				return
			}
			mu.Lock()
			out[emp.ID] = appts
			mu.Unlock()
		}(emp)
	}
	wg.Wait()
	return out
}
