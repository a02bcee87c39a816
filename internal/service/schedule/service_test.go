package schedule

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
	apperrors "github.com/jwalitptl/salon-api/pkg/errors"
	"github.com/jwalitptl/salon-api/pkg/logger"
	"github.com/jwalitptl/salon-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("salon_test", "schedule")

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{
		Level:      logger.ErrorLevel,
		TimeFormat: time.RFC3339,
		Output:     io.Discard,
	})
}

type fakeSalonRepo struct {
	salon *model.Salon
	err   error
}

func (f *fakeSalonRepo) Create(context.Context, *model.Salon) error { return errors.New("unused") }
func (f *fakeSalonRepo) Get(context.Context, uuid.UUID) (*model.Salon, error) {
	return f.salon, f.err
}
func (f *fakeSalonRepo) List(context.Context) ([]*model.Salon, error) { return nil, errors.New("unused") }
func (f *fakeSalonRepo) Update(context.Context, *model.Salon) error   { return errors.New("unused") }
func (f *fakeSalonRepo) UpdateSettings(context.Context, uuid.UUID, []byte) error {
	return errors.New("unused")
}

type fakeEmployeeRepo struct {
	employees []*model.Employee
}

func (f *fakeEmployeeRepo) Create(context.Context, *model.Employee) error { return errors.New("unused") }
func (f *fakeEmployeeRepo) Get(_ context.Context, id uuid.UUID) (*model.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, repository.ErrNotFound
}
func (f *fakeEmployeeRepo) ListActive(context.Context, uuid.UUID) ([]*model.Employee, error) {
	active := make([]*model.Employee, 0, len(f.employees))
	for _, e := range f.employees {
		if e.IsActive {
			active = append(active, e)
		}
	}
	return active, nil
}
func (f *fakeEmployeeRepo) Update(context.Context, *model.Employee) error { return errors.New("unused") }

type fakeServiceRepo struct {
	service *model.Service
}

func (f *fakeServiceRepo) Get(context.Context, uuid.UUID) (*model.Service, error) {
	if f.service == nil {
		return nil, repository.ErrNotFound
	}
	return f.service, nil
}
func (f *fakeServiceRepo) ListForSalon(context.Context, uuid.UUID) ([]*model.Service, error) {
	return nil, errors.New("unused")
}

type fakeAppointmentRepo struct {
	byEmployee map[uuid.UUID][]*model.Appointment
	failFor    map[uuid.UUID]error
}

func (f *fakeAppointmentRepo) Get(context.Context, uuid.UUID) (*model.Appointment, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeAppointmentRepo) GetByToken(context.Context, string) (*model.Appointment, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeAppointmentRepo) List(context.Context, *model.AppointmentFilters) ([]*model.Appointment, error) {
	return nil, errors.New("unused")
}
func (f *fakeAppointmentRepo) ListBlocking(_ context.Context, employeeID uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	if err, ok := f.failFor[employeeID]; ok {
		return nil, err
	}
	var out []*model.Appointment
	for _, apt := range f.byEmployee[employeeID] {
		if apt.Status.Blocking() && apt.Overlaps(from, to) {
			out = append(out, apt)
		}
	}
	return out, nil
}
func (f *fakeAppointmentRepo) Reserve(context.Context, *model.Appointment, *model.OutboxEvent) error {
	return errors.New("unused")
}
func (f *fakeAppointmentRepo) Update(context.Context, *model.Appointment) error {
	return errors.New("unused")
}
func (f *fakeAppointmentRepo) Cancel(context.Context, uuid.UUID, string, *model.OutboxEvent) error {
	return errors.New("unused")
}

type scheduleFixture struct {
	svc          *Service
	salonID      uuid.UUID
	serviceID    uuid.UUID
	employees    *fakeEmployeeRepo
	appointments *fakeAppointmentRepo
}

func newScheduleFixture(t *testing.T, settings string, employeeCount int, now time.Time) *scheduleFixture {
	t.Helper()

	salonID := uuid.New()
	serviceID := uuid.New()

	salons := &fakeSalonRepo{salon: &model.Salon{
		Base:     model.Base{ID: salonID},
		Name:     "Shear Genius",
		Timezone: "UTC",
		Settings: []byte(settings),
	}}

	employees := &fakeEmployeeRepo{}
	for i := 0; i < employeeCount; i++ {
		employees.employees = append(employees.employees, &model.Employee{
			Base:     model.Base{ID: uuid.New()},
			SalonID:  salonID,
			IsActive: true,
		})
	}

	services := &fakeServiceRepo{service: &model.Service{
		Base:     model.Base{ID: serviceID},
		SalonID:  salonID,
		Name:     "Haircut",
		Duration: 30,
	}}

	appointments := &fakeAppointmentRepo{
		byEmployee: map[uuid.UUID][]*model.Appointment{},
		failFor:    map[uuid.UUID]error{},
	}

	svc := NewService(salons, employees, services, appointments, testLogger(), testMetrics)
	svc.now = func() time.Time { return now }

	return &scheduleFixture{
		svc:          svc,
		salonID:      salonID,
		serviceID:    serviceID,
		employees:    employees,
		appointments: appointments,
	}
}

const narrowHours = `{"monday": {"isOpen": true, "startTime": "09:00", "endTime": "10:00"}}`

func TestGetDaySlots_SingleEmployee(t *testing.T) {
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	fx := newScheduleFixture(t, narrowHours, 1, now)
	emp := fx.employees.employees[0]

	slots, err := fx.svc.GetDaySlots(context.Background(), fx.salonID, fx.serviceID, emp.ID.String(), testDate)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "09:00", slots[0].StartTime)
	assert.Equal(t, "09:30", slots[1].StartTime)
	assert.True(t, slots[0].Available)
	assert.True(t, slots[1].Available)
}

func TestGetDaySlots_PastDate(t *testing.T) {
	now := time.Date(2026, time.September, 10, 12, 0, 0, 0, time.UTC)
	fx := newScheduleFixture(t, narrowHours, 1, now)

	_, err := fx.svc.GetDaySlots(context.Background(), fx.salonID, fx.serviceID, "any", testDate)
	assert.ErrorIs(t, err, apperrors.ErrPastDate)
}

func TestGetDaySlots_EmptyPool(t *testing.T) {
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	fx := newScheduleFixture(t, narrowHours, 0, now)

	slots, err := fx.svc.GetDaySlots(context.Background(), fx.salonID, fx.serviceID, "any", testDate)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGetDaySlots_InactiveEmployee(t *testing.T) {
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	fx := newScheduleFixture(t, narrowHours, 1, now)
	fx.employees.employees[0].IsActive = false

	slots, err := fx.svc.GetDaySlots(context.Background(), fx.salonID, fx.serviceID, fx.employees.employees[0].ID.String(), testDate)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGetDaySlots_MergedAcrossPool(t *testing.T) {
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	fx := newScheduleFixture(t, narrowHours, 2, now)

	// First employee fully booked at 09:00; second one free.
	busy := fx.employees.employees[0]
	fx.appointments.byEmployee[busy.ID] = []*model.Appointment{{
		ScheduledStart: testDate.In(time.UTC).Add(9 * time.Hour),
		ScheduledEnd:   testDate.In(time.UTC).Add(9*time.Hour + 30*time.Minute),
		Status:         model.AppointmentStatusConfirmed,
	}}

	slots, err := fx.svc.GetDaySlots(context.Background(), fx.salonID, fx.serviceID, model.AnyEmployee, testDate)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.True(t, slots[0].Available, "second employee keeps 09:00 bookable")

	// The same request scoped to the busy employee shows the conflict.
	slots, err = fx.svc.GetDaySlots(context.Background(), fx.salonID, fx.serviceID, busy.ID.String(), testDate)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.False(t, slots[0].Available)
	assert.Equal(t, model.ReasonAlreadyBooked, slots[0].Reason)
}

func TestGetDaySlots_FetchFailureDegrades(t *testing.T) {
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	fx := newScheduleFixture(t, narrowHours, 2, now)

	// One employee's appointment fetch fails. They must contribute no
	// slots at all rather than appear fully free.
	broken := fx.employees.employees[0]
	fx.appointments.failFor[broken.ID] = errors.New("connection reset")

	healthy := fx.employees.employees[1]
	fx.appointments.byEmployee[healthy.ID] = []*model.Appointment{{
		ScheduledStart: testDate.In(time.UTC).Add(9 * time.Hour),
		ScheduledEnd:   testDate.In(time.UTC).Add(9*time.Hour + 30*time.Minute),
		Status:         model.AppointmentStatusConfirmed,
	}}

	slots, err := fx.svc.GetDaySlots(context.Background(), fx.salonID, fx.serviceID, model.AnyEmployee, testDate)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	// If the broken employee were treated as free, 09:00 would be
	// available here.
	assert.False(t, slots[0].Available)
	assert.True(t, slots[1].Available)
}

func TestSalonContext_MalformedFallsBackToDefaults(t *testing.T) {
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	fx := newScheduleFixture(t, "not json", 1, now)

	hours, loc, err := fx.svc.SalonContext(context.Background(), fx.salonID)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
	assert.Equal(t, model.DefaultOperatingHours(), hours)
}

func TestSalonContext_InvalidTimezoneFallsBackToUTC(t *testing.T) {
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	fx := newScheduleFixture(t, narrowHours, 1, now)

	salons := &fakeSalonRepo{salon: &model.Salon{
		Base:     model.Base{ID: fx.salonID},
		Timezone: "Mars/Olympus_Mons",
		Settings: []byte(narrowHours),
	}}
	fx.svc.salons = salons
	fx.svc.InvalidateSalon(fx.salonID)

	_, loc, err := fx.svc.SalonContext(context.Background(), fx.salonID)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestGetAvailability_Range(t *testing.T) {
	// Requesting from yesterday: the past day must come back unavailable,
	// not error out the whole range.
	now := time.Date(2026, time.September, 8, 8, 0, 0, 0, time.UTC)
	fx := newScheduleFixture(t, narrowHours, 1, now)

	from := testDate // Monday, one day in the past
	days, err := fx.svc.GetAvailability(context.Background(), fx.salonID, fx.serviceID, model.AnyEmployee, from, 3)
	require.NoError(t, err)
	require.Len(t, days, 3)

	assert.Equal(t, model.DayStatusUnavailable, days[0].Status)

	// Tuesday and Wednesday have no configured hours, so they are closed.
	assert.Equal(t, model.DayStatusUnavailable, days[1].Status)
	assert.Equal(t, model.DayStatusUnavailable, days[2].Status)

	for _, day := range days {
		assert.LessOrEqual(t, day.AvailableSlots, day.TotalSlots)
	}
}

func TestGetAvailability_StatusProgression(t *testing.T) {
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	fx := newScheduleFixture(t, narrowHours, 1, now)
	emp := fx.employees.employees[0]

	check := func(want model.DayStatus) {
		t.Helper()
		fx.svc.InvalidateSalon(fx.salonID)
		days, err := fx.svc.GetAvailability(context.Background(), fx.salonID, fx.serviceID, emp.ID.String(), testDate, 1)
		require.NoError(t, err)
		require.Len(t, days, 1)
		assert.Equal(t, want, days[0].Status)
	}

	check(model.DayStatusAvailable)

	fx.appointments.byEmployee[emp.ID] = []*model.Appointment{{
		ScheduledStart: testDate.In(time.UTC).Add(9 * time.Hour),
		ScheduledEnd:   testDate.In(time.UTC).Add(9*time.Hour + 30*time.Minute),
		Status:         model.AppointmentStatusConfirmed,
	}}
	check(model.DayStatusPartiallyBooked)

	fx.appointments.byEmployee[emp.ID] = append(fx.appointments.byEmployee[emp.ID], &model.Appointment{
		ScheduledStart: testDate.In(time.UTC).Add(9*time.Hour + 30*time.Minute),
		ScheduledEnd:   testDate.In(time.UTC).Add(10 * time.Hour),
		Status:         model.AppointmentStatusPending,
	})
	check(model.DayStatusFullyBooked)
}
