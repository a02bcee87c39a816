package schedule

import (
	"time"

	"github.com/jwalitptl/salon-api/internal/model"
)

// SlotInterval is the fixed grid step in minutes. Slots always start on
// this grid regardless of service duration; the duration only decides
// where the last slot may start.
const SlotInterval = 30

// GenerateSlots enumerates the candidate slots for one employee on one
// salon-local date. Only appointments in a blocking status occupy time;
// cancelled, completed and no-show entries are ignored. now is the
// current instant; loc is the salon's timezone.
func GenerateSlots(hours model.OperatingHours, date model.Date, durationMin int, appointments []*model.Appointment, now time.Time, loc *time.Location) []model.TimeSlot {
	if durationMin <= 0 {
		return nil
	}

	day, ok := hours.ForWeekday(date.Weekday())
	if !ok || !day.IsOpen {
		return nil
	}

	openMin, err := MinutesFromMidnight(day.StartTime)
	if err != nil {
		return nil
	}
	closeMin, err := MinutesFromMidnight(day.EndTime)
	if err != nil {
		return nil
	}

	// The service must finish before close; a window shorter than the
	// duration yields a valid empty day, not an error.
	lastStart := closeMin - durationMin
	if lastStart < openMin {
		return nil
	}

	localNow := now.In(loc)
	isToday := model.DateOf(localNow).Equal(date)

	var slots []model.TimeSlot
	for t := openMin; t <= lastStart; t += SlotInterval {
		start := timeAt(date, t, loc)
		end := timeAt(date, t+durationMin, loc)

		slot := model.TimeSlot{
			StartTime: FormatMinutes(t),
			EndTime:   FormatMinutes(t + durationMin),
			Available: true,
		}

		switch {
		case isToday && start.Before(localNow):
			slot.Available = false
			slot.Reason = model.ReasonPastSlot
		case overlapsAny(appointments, start, end):
			slot.Available = false
			slot.Reason = model.ReasonAlreadyBooked
		}

		slots = append(slots, slot)
	}
	return slots
}

// CountSlotsForDay is the closed-form slot count derived from operating
// hours alone. It is only an approximation for screens that have no
// appointment data loaded; per-employee aggregation is authoritative.
func CountSlotsForDay(hours model.OperatingHours, date model.Date, durationMin int) int {
	if durationMin <= 0 {
		return 0
	}
	day, ok := hours.ForWeekday(date.Weekday())
	if !ok || !day.IsOpen {
		return 0
	}
	openMin, err := MinutesFromMidnight(day.StartTime)
	if err != nil {
		return 0
	}
	closeMin, err := MinutesFromMidnight(day.EndTime)
	if err != nil {
		return 0
	}
	lastStart := closeMin - durationMin
	if lastStart < openMin {
		return 0
	}
	return (lastStart-openMin)/SlotInterval + 1
}

// timeAt composes an absolute instant from the date's local components
// and minutes since midnight, directly in the salon location. Going
// through a UTC string here is the documented way to shift bookings to
// the wrong calendar day east of UTC.
func timeAt(date model.Date, minutes int, loc *time.Location) time.Time {
	return time.Date(date.Year, date.Month, date.Day, minutes/60, minutes%60, 0, 0, loc)
}

func overlapsAny(appointments []*model.Appointment, start, end time.Time) bool {
	for _, apt := range appointments {
		if apt.Status.Blocking() && apt.Overlaps(start, end) {
			return true
		}
	}
	return false
}
