package model

// Slot unavailability reasons surfaced to the booking UI.
const (
	ReasonPastSlot      = "Past time slot"
	ReasonAlreadyBooked = "Already booked"
)

// TimeSlot is a fixed-length candidate appointment time within one day.
// Times are "HH:MM" salon-local strings and the interval is half-open:
// [StartTime, EndTime).
type TimeSlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

type DayStatus string

const (
	DayStatusAvailable       DayStatus = "available"
	DayStatusPartiallyBooked DayStatus = "partially_booked"
	DayStatusFullyBooked     DayStatus = "fully_booked"
	DayStatusUnavailable     DayStatus = "unavailable"
)

// DayAvailability summarizes one salon-local calendar day.
// AvailableSlots <= TotalSlots always holds.
type DayAvailability struct {
	Date           Date      `json:"date"`
	Status         DayStatus `json:"status"`
	TotalSlots     int       `json:"total_slots"`
	AvailableSlots int       `json:"available_slots"`
}
