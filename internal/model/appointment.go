package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusNoShow    AppointmentStatus = "no_show"
)

// Blocking reports whether an appointment in this status still occupies
// its time range. Cancelled, completed and no-show appointments never
// block a slot.
func (s AppointmentStatus) Blocking() bool {
	return s == AppointmentStatusPending || s == AppointmentStatusConfirmed
}

type Appointment struct {
	Base
	SalonID        uuid.UUID         `db:"salon_id" json:"salon_id"`
	ServiceID      uuid.UUID         `db:"service_id" json:"service_id"`
	EmployeeID     uuid.UUID         `db:"employee_id" json:"employee_id"`
	CustomerID     uuid.UUID         `db:"customer_id" json:"customer_id"`
	BookingToken   string            `db:"booking_token" json:"booking_token,omitempty"`
	ScheduledStart time.Time         `db:"scheduled_start" json:"scheduled_start"`
	ScheduledEnd   time.Time         `db:"scheduled_end" json:"scheduled_end"`
	Status         AppointmentStatus `db:"status" json:"status"`
	Notes          string            `db:"notes" json:"notes,omitempty"`
	CancelReason   *string           `db:"cancel_reason" json:"cancel_reason,omitempty"`
}

// Overlaps reports whether the appointment's [start,end) interval
// intersects the given half-open interval.
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.ScheduledStart.Before(end) && start.Before(a.ScheduledEnd)
}

type AppointmentFilters struct {
	SalonID    uuid.UUID
	EmployeeID uuid.UUID
	CustomerID uuid.UUID
	Status     AppointmentStatus
	StartDate  time.Time
	EndDate    time.Time
}
