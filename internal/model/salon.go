package model

import (
	"encoding/json"
	"strings"
	"time"
)

type Salon struct {
	Base
	Name     string          `db:"name" json:"name"`
	Location string          `db:"location" json:"location"`
	Timezone string          `db:"timezone" json:"timezone"`
	Status   string          `db:"status" json:"status"`
	Settings json.RawMessage `db:"settings" json:"settings,omitempty"`
}

type CreateSalonRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
	Timezone string `json:"timezone" binding:"required"`
}

type UpdateSalonRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
	Timezone *string `json:"timezone"`
	Status   *string `json:"status"`
}

// UpdateHoursRequest carries a new operating hours blob. The raw message
// is validated before it is stored; clients may send any of the
// supported formats.
type UpdateHoursRequest struct {
	OperatingHours json.RawMessage `json:"operating_hours" binding:"required"`
}

// DayHours is the canonical open/close window for one weekday.
// StartTime and EndTime are "HH:MM" 24-hour strings, StartTime < EndTime
// whenever IsOpen is true.
type DayHours struct {
	IsOpen    bool   `json:"isOpen"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// OperatingHours maps lowercase English weekday names to their hours.
type OperatingHours map[string]DayHours

// WeekdayKey returns the lowercase weekday name used as an OperatingHours key.
func WeekdayKey(d time.Weekday) string {
	return strings.ToLower(d.String())
}

// ForWeekday resolves the hours for a weekday. A missing entry counts as
// closed.
func (h OperatingHours) ForWeekday(d time.Weekday) (DayHours, bool) {
	hours, ok := h[WeekdayKey(d)]
	return hours, ok
}

// DefaultOperatingHours is the fallback window used when a salon's
// configured hours cannot be parsed: open every day 09:00-18:00.
// Availability degrades to the default rather than blocking the booking
// flow.
func DefaultOperatingHours() OperatingHours {
	hours := make(OperatingHours, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		hours[WeekdayKey(d)] = DayHours{IsOpen: true, StartTime: "09:00", EndTime: "18:00"}
	}
	return hours
}
