package model

import (
	"github.com/google/uuid"
)

// Service is a bookable salon service offering. Duration is in minutes
// and is immutable for the duration of a booking flow.
type Service struct {
	Base
	SalonID     uuid.UUID `db:"salon_id" json:"salon_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Duration    int       `db:"duration" json:"duration"`
	BasePrice   float64   `db:"base_price" json:"base_price"`
	Status      string    `db:"status" json:"status"`
}
