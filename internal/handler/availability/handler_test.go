package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/salon-api/internal/middleware"
	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
	"github.com/jwalitptl/salon-api/internal/service/schedule"
	"github.com/jwalitptl/salon-api/pkg/logger"
	"github.com/jwalitptl/salon-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("salon_test", "availability_handler")

type stubSalonRepo struct{ salon *model.Salon }

func (s *stubSalonRepo) Create(context.Context, *model.Salon) error { return errors.New("unused") }
func (s *stubSalonRepo) Get(context.Context, uuid.UUID) (*model.Salon, error) {
	return s.salon, nil
}
func (s *stubSalonRepo) List(context.Context) ([]*model.Salon, error) { return nil, errors.New("unused") }
func (s *stubSalonRepo) Update(context.Context, *model.Salon) error   { return errors.New("unused") }
func (s *stubSalonRepo) UpdateSettings(context.Context, uuid.UUID, []byte) error {
	return errors.New("unused")
}

type stubEmployeeRepo struct{ employees []*model.Employee }

func (s *stubEmployeeRepo) Create(context.Context, *model.Employee) error { return errors.New("unused") }
func (s *stubEmployeeRepo) Get(_ context.Context, id uuid.UUID) (*model.Employee, error) {
	for _, e := range s.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, repository.ErrNotFound
}
func (s *stubEmployeeRepo) ListActive(context.Context, uuid.UUID) ([]*model.Employee, error) {
	return s.employees, nil
}
func (s *stubEmployeeRepo) Update(context.Context, *model.Employee) error { return errors.New("unused") }

type stubServiceRepo struct{ service *model.Service }

func (s *stubServiceRepo) Get(context.Context, uuid.UUID) (*model.Service, error) {
	return s.service, nil
}
func (s *stubServiceRepo) ListForSalon(context.Context, uuid.UUID) ([]*model.Service, error) {
	return nil, errors.New("unused")
}

type stubAppointmentRepo struct{}

func (s *stubAppointmentRepo) Get(context.Context, uuid.UUID) (*model.Appointment, error) {
	return nil, repository.ErrNotFound
}
func (s *stubAppointmentRepo) GetByToken(context.Context, string) (*model.Appointment, error) {
	return nil, repository.ErrNotFound
}
func (s *stubAppointmentRepo) List(context.Context, *model.AppointmentFilters) ([]*model.Appointment, error) {
	return nil, nil
}
func (s *stubAppointmentRepo) ListBlocking(context.Context, uuid.UUID, time.Time, time.Time) ([]*model.Appointment, error) {
	return nil, nil
}
func (s *stubAppointmentRepo) Reserve(context.Context, *model.Appointment, *model.OutboxEvent) error {
	return errors.New("unused")
}
func (s *stubAppointmentRepo) Update(context.Context, *model.Appointment) error {
	return errors.New("unused")
}
func (s *stubAppointmentRepo) Cancel(context.Context, uuid.UUID, string, *model.OutboxEvent) error {
	return errors.New("unused")
}

func setupRouter(t *testing.T) (*gin.Engine, uuid.UUID, uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	salonID := uuid.New()
	serviceID := uuid.New()

	salons := &stubSalonRepo{salon: &model.Salon{
		Base:     model.Base{ID: salonID},
		Timezone: "UTC",
		Settings: []byte(`"09:00-10:00"`),
	}}
	employees := &stubEmployeeRepo{employees: []*model.Employee{{
		Base:     model.Base{ID: uuid.New()},
		SalonID:  salonID,
		IsActive: true,
	}}}
	services := &stubServiceRepo{service: &model.Service{
		Base:     model.Base{ID: serviceID},
		SalonID:  salonID,
		Duration: 30,
	}}

	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, TimeFormat: time.RFC3339, Output: io.Discard})
	scheduleSvc := schedule.NewService(salons, employees, services, &stubAppointmentRepo{}, log, testMetrics)

	engine := gin.New()
	engine.Use(middleware.ErrorHandler())
	NewHandler(scheduleSvc).RegisterRoutes(engine.Group("/api/v1"))
	return engine, salonID, serviceID
}

func futureDate() string {
	return time.Now().UTC().AddDate(0, 0, 7).Format(model.DateLayout)
}

func TestGetDaySlotsEndpoint(t *testing.T) {
	engine, salonID, serviceID := setupRouter(t)

	url := fmt.Sprintf("/api/v1/salons/%s/slots?service_id=%s&date=%s", salonID, serviceID, futureDate())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Date  string           `json:"date"`
			Slots []model.TimeSlot `json:"slots"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	require.Len(t, resp.Data.Slots, 2)
	assert.Equal(t, "09:00", resp.Data.Slots[0].StartTime)
	assert.Equal(t, "09:30", resp.Data.Slots[1].StartTime)
}

func TestGetDaySlotsEndpoint_PastDate(t *testing.T) {
	engine, salonID, serviceID := setupRouter(t)

	url := fmt.Sprintf("/api/v1/salons/%s/slots?service_id=%s&date=2020-01-01", salonID, serviceID)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	engine.ServeHTTP(w, req)

	// The sentinel maps to 400 through the error middleware.
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDaySlotsEndpoint_BadInput(t *testing.T) {
	engine, salonID, serviceID := setupRouter(t)

	tests := []struct {
		name string
		url  string
	}{
		{"bad salon id", fmt.Sprintf("/api/v1/salons/nope/slots?service_id=%s&date=%s", serviceID, futureDate())},
		{"bad service id", fmt.Sprintf("/api/v1/salons/%s/slots?service_id=nope&date=%s", salonID, futureDate())},
		{"bad date", fmt.Sprintf("/api/v1/salons/%s/slots?service_id=%s&date=tomorrow", salonID, serviceID)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			engine.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGetAvailabilityEndpoint(t *testing.T) {
	engine, salonID, serviceID := setupRouter(t)

	url := fmt.Sprintf("/api/v1/salons/%s/availability?service_id=%s&from=%s&days=7", salonID, serviceID, futureDate())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Days         int                     `json:"days"`
			Availability []model.DayAvailability `json:"availability"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 7, resp.Data.Days)
	require.Len(t, resp.Data.Availability, 7)
	for _, day := range resp.Data.Availability {
		assert.LessOrEqual(t, day.AvailableSlots, day.TotalSlots)
	}
}

func TestGetAvailabilityEndpoint_DaysOutOfRange(t *testing.T) {
	engine, salonID, serviceID := setupRouter(t)

	url := fmt.Sprintf("/api/v1/salons/%s/availability?service_id=%s&from=%s&days=365", salonID, serviceID, futureDate())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
