package availability

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/salon-api/internal/handler"
	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/service/schedule"
)

const (
	defaultRangeDays = 30
	maxRangeDays     = 90
)

type Handler struct {
	schedule *schedule.Service
}

func NewHandler(scheduleSvc *schedule.Service) *Handler {
	return &Handler{schedule: scheduleSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	salons := r.Group("/salons/:id")
	{
		salons.GET("/slots", h.GetDaySlots)
		salons.GET("/availability", h.GetAvailability)
	}
}

// GetDaySlots returns the bookable slot list for one date.
// GET /salons/:id/slots?service_id=&employee_id=&date=2026-09-07
func (h *Handler) GetDaySlots(c *gin.Context) {
	salonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid salon ID"))
		return
	}

	serviceID, err := uuid.Parse(c.Query("service_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid service ID"))
		return
	}

	date, err := model.ParseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid date, expected YYYY-MM-DD"))
		return
	}

	employeeID := c.DefaultQuery("employee_id", model.AnyEmployee)

	slots, err := h.schedule.GetDaySlots(c.Request.Context(), salonID, serviceID, employeeID, date)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"date":  date,
		"slots": slots,
	}))
}

// GetAvailability returns per-day statuses for the booking calendar.
// GET /salons/:id/availability?service_id=&employee_id=&from=2026-09-07&days=30
func (h *Handler) GetAvailability(c *gin.Context) {
	salonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid salon ID"))
		return
	}

	serviceID, err := uuid.Parse(c.Query("service_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid service ID"))
		return
	}

	from, err := model.ParseDate(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid from date, expected YYYY-MM-DD"))
		return
	}

	days := defaultRangeDays
	if raw := c.Query("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days <= 0 || days > maxRangeDays {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("days must be between 1 and 90"))
			return
		}
	}

	employeeID := c.DefaultQuery("employee_id", model.AnyEmployee)

	availability, err := h.schedule.GetAvailability(c.Request.Context(), salonID, serviceID, employeeID, from, days)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"from":         from,
		"days":         days,
		"availability": availability,
	}))
}
