package schedule

import (
	"fmt"
	"time"

	"github.com/jwalitptl/salon-api/internal/model"
)

// BuildAppointmentTime converts a (salon-local date, "HH:MM" slot start)
// pair into absolute start/end instants in the salon's timezone. The
// instant is composed from the date's local year/month/day plus the
// slot's local hour/minute; the date is never round-tripped through a
// UTC string, which would shift the calendar day near midnight for
// salons east of UTC.
func BuildAppointmentTime(date model.Date, startTime string, durationMin int, loc *time.Location) (time.Time, time.Time, error) {
	if durationMin <= 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid duration %d", durationMin)
	}

	startMin, err := MinutesFromMidnight(startTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	start := time.Date(date.Year, date.Month, date.Day, startMin/60, startMin%60, 0, 0, loc)
	end := start.Add(time.Duration(durationMin) * time.Minute)
	return start, end, nil
}
