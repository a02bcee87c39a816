package model

import (
	"time"

	"github.com/google/uuid"
)

// AnyEmployee is the sentinel employee selector for "any available
// staff" bookings. Assignment to a concrete employee happens atomically
// at commit time.
const AnyEmployee = "any"

// BookingRequest is a fully resolved request to reserve a slot.
// ScheduledEnd is always derived from the service duration, never
// user-supplied.
type BookingRequest struct {
	SalonID        uuid.UUID
	ServiceID      uuid.UUID
	EmployeeID     string // concrete UUID or AnyEmployee
	CustomerID     uuid.UUID
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	Notes          string
	BookingToken   string
}

// EmployeeUUID returns the concrete employee id, or uuid.Nil for an
// "any available" request.
func (r *BookingRequest) EmployeeUUID() (uuid.UUID, error) {
	if r.EmployeeID == "" || r.EmployeeID == AnyEmployee {
		return uuid.Nil, nil
	}
	return uuid.Parse(r.EmployeeID)
}

// CreateBookingRequest is the wire form of a booking. The client sends
// the salon-local date and slot start exactly as the slot list returned
// them; the server derives the absolute instants and the end time.
type CreateBookingRequest struct {
	SalonID    uuid.UUID `json:"salon_id" binding:"required"`
	ServiceID  uuid.UUID `json:"service_id" binding:"required"`
	EmployeeID string    `json:"employee_id" binding:"required"`
	CustomerID uuid.UUID `json:"customer_id" binding:"required"`
	Date       string    `json:"date" binding:"required"`
	StartTime  string    `json:"start_time" binding:"required"`
	Notes      string    `json:"notes"`
}

// ValidationResult is the outcome of a pre-commit booking check.
type ValidationResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}
