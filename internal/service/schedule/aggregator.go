package schedule

import (
	"github.com/google/uuid"

	"github.com/jwalitptl/salon-api/internal/model"
)

// DayStatusFor derives the calendar-cell status from slot counts. It is
// a pure function of the two counters.
func DayStatusFor(total, available int) model.DayStatus {
	switch {
	case total == 0:
		return model.DayStatusUnavailable
	case available == total:
		return model.DayStatusAvailable
	case available == 0:
		return model.DayStatusFullyBooked
	default:
		return model.DayStatusPartiallyBooked
	}
}

// SummarizeDay folds one employee's slot list into a day summary.
func SummarizeDay(date model.Date, slots []model.TimeSlot) model.DayAvailability {
	total := len(slots)
	available := 0
	for _, slot := range slots {
		if slot.Available {
			available++
		}
	}
	return model.DayAvailability{
		Date:           date,
		Status:         DayStatusFor(total, available),
		TotalSlots:     total,
		AvailableSlots: available,
	}
}

// AggregateDay sums slot counts across the employee pool for an "any
// available" day. Counts are summed per employee, not merged, so two
// free stylists at 09:00 count as two bookable slots.
func AggregateDay(date model.Date, perEmployee map[uuid.UUID][]model.TimeSlot) model.DayAvailability {
	total, available := 0, 0
	for _, slots := range perEmployee {
		for _, slot := range slots {
			total++
			if slot.Available {
				available++
			}
		}
	}
	return model.DayAvailability{
		Date:           date,
		Status:         DayStatusFor(total, available),
		TotalSlots:     total,
		AvailableSlots: available,
	}
}
