package appointment

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/salon-api/internal/handler"
	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/service/booking"
)

// HeaderBookingToken carries the client-generated idempotency token. A
// retry of a timed-out commit must reuse the same token to get the
// original appointment back instead of a double booking.
const HeaderBookingToken = "X-Booking-Token"

type Handler struct {
	booking *booking.Service
}

func NewHandler(bookingSvc *booking.Service) *Handler {
	return &Handler{booking: bookingSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.POST("/validate", h.ValidateBooking)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.POST("/:id/cancel", h.CancelAppointment)
		appointments.PATCH("/:id/status", h.UpdateStatus)
	}
}

// RegisterCustomerRoutes mounts the authenticated reconciliation
// endpoint: after an indeterminate commit timeout the client lists its
// own appointments instead of guessing the outcome.
func (h *Handler) RegisterCustomerRoutes(r *gin.RouterGroup) {
	r.GET("/customers/me/appointments", h.ListOwnAppointments)
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	resolved, err := h.booking.ResolveRequest(c.Request.Context(), &req, c.GetHeader(HeaderBookingToken))
	if err != nil {
		c.Error(err)
		return
	}

	apt, err := h.booking.Book(c.Request.Context(), resolved)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(apt))
}

// ValidateBooking re-checks a selected slot without reserving it.
func (h *Handler) ValidateBooking(c *gin.Context) {
	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	resolved, err := h.booking.ResolveRequest(c.Request.Context(), &req, "")
	if err != nil {
		c.Error(err)
		return
	}

	result, err := h.booking.Validate(c.Request.Context(), resolved)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	apt, err := h.booking.GetAppointment(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(apt))
}

func (h *Handler) ListAppointments(c *gin.Context) {
	salonID, err := uuid.Parse(c.Query("salon_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid salon ID"))
		return
	}

	filters := &model.AppointmentFilters{SalonID: salonID}

	if raw := c.Query("employee_id"); raw != "" {
		filters.EmployeeID, err = uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid employee ID"))
			return
		}
	}
	if raw := c.Query("customer_id"); raw != "" {
		filters.CustomerID, err = uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid customer ID"))
			return
		}
	}
	if status := c.Query("status"); status != "" {
		filters.Status = model.AppointmentStatus(status)
	}
	if raw := c.Query("start_date"); raw != "" {
		filters.StartDate, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid start date"))
			return
		}
	}
	if raw := c.Query("end_date"); raw != "" {
		filters.EndDate, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid end date"))
			return
		}
	}

	appointments, err := h.booking.ListAppointments(c.Request.Context(), filters)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.booking.CancelAppointment(c.Request.Context(), id, req.Reason); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"cancelled": true}))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	var req struct {
		Status model.AppointmentStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	apt, err := h.booking.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(apt))
}

func (h *Handler) ListOwnAppointments(c *gin.Context) {
	customerID, err := uuid.Parse(c.GetString("customerID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid customer ID"))
		return
	}

	appointments, err := h.booking.ListCustomerAppointments(c.Request.Context(), customerID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}
