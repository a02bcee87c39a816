package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/salon-api/internal/model"
)

// 2026-09-07 is a Monday.
var testDate = model.NewDate(2026, time.September, 7)

func weekHours(start, end string) model.OperatingHours {
	hours := make(model.OperatingHours, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		hours[model.WeekdayKey(d)] = model.DayHours{IsOpen: true, StartTime: start, EndTime: end}
	}
	return hours
}

func blocking(loc *time.Location, date model.Date, startMin, endMin int) *model.Appointment {
	return &model.Appointment{
		ScheduledStart: timeAt(date, startMin, loc),
		ScheduledEnd:   timeAt(date, endMin, loc),
		Status:         model.AppointmentStatusConfirmed,
	}
}

func TestGenerateSlots_Grid(t *testing.T) {
	// Generation on a future date; "now" never interferes.
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		hours      model.OperatingHours
		duration   int
		wantStarts []string
	}{
		{
			name:       "two slots fit a one hour window",
			hours:      weekHours("09:00", "10:00"),
			duration:   30,
			wantStarts: []string{"09:00", "09:30"},
		},
		{
			name:       "longer duration trims the tail",
			hours:      weekHours("09:00", "10:00"),
			duration:   45,
			wantStarts: []string{"09:00"},
		},
		{
			name:       "duration equals the whole window",
			hours:      weekHours("09:00", "10:00"),
			duration:   60,
			wantStarts: []string{"09:00"},
		},
		{
			name:       "duration does not fit at all",
			hours:      weekHours("09:00", "10:00"),
			duration:   90,
			wantStarts: nil,
		},
		{
			name:       "slots step on the grid regardless of duration",
			hours:      weekHours("09:00", "11:00"),
			duration:   45,
			wantStarts: []string{"09:00", "09:30", "10:00"},
		},
		{
			name:       "zero duration yields nothing",
			hours:      weekHours("09:00", "18:00"),
			duration:   0,
			wantStarts: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := GenerateSlots(tt.hours, testDate, tt.duration, nil, now, time.UTC)
			starts := make([]string, 0, len(slots))
			for _, s := range slots {
				starts = append(starts, s.StartTime)
				assert.True(t, s.Available)
				assert.Empty(t, s.Reason)
			}
			if tt.wantStarts == nil {
				assert.Empty(t, slots)
			} else {
				assert.Equal(t, tt.wantStarts, starts)
			}
		})
	}
}

func TestGenerateSlots_ClosedDay(t *testing.T) {
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

	hours := weekHours("09:00", "18:00")
	hours["monday"] = model.DayHours{IsOpen: false}
	assert.Nil(t, GenerateSlots(hours, testDate, 30, nil, now, time.UTC))

	// A weekday with no entry at all is closed too.
	delete(hours, "monday")
	assert.Nil(t, GenerateSlots(hours, testDate, 30, nil, now, time.UTC))
}

func TestGenerateSlots_BookedOverlap(t *testing.T) {
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	hours := weekHours("09:00", "11:00")

	// Appointment 09:30-10:00 blocks any slot whose interval crosses it.
	appts := []*model.Appointment{blocking(time.UTC, testDate, 570, 600)}

	slots := GenerateSlots(hours, testDate, 30, appts, now, time.UTC)
	require.Len(t, slots, 4)

	byStart := map[string]model.TimeSlot{}
	for _, s := range slots {
		byStart[s.StartTime] = s
	}

	assert.True(t, byStart["09:00"].Available)
	assert.False(t, byStart["09:30"].Available)
	assert.Equal(t, model.ReasonAlreadyBooked, byStart["09:30"].Reason)
	assert.True(t, byStart["10:00"].Available)
	assert.True(t, byStart["10:30"].Available)
}

func TestGenerateSlots_BackToBackTouchingIsFree(t *testing.T) {
	// Intervals are half-open: an appointment ending at 10:00 does not
	// block the slot starting at 10:00.
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	hours := weekHours("09:00", "11:00")
	appts := []*model.Appointment{blocking(time.UTC, testDate, 540, 600)}

	slots := GenerateSlots(hours, testDate, 60, appts, now, time.UTC)
	byStart := map[string]model.TimeSlot{}
	for _, s := range slots {
		byStart[s.StartTime] = s
	}

	assert.False(t, byStart["09:00"].Available)
	assert.False(t, byStart["09:30"].Available)
	assert.True(t, byStart["10:00"].Available)
}

func TestGenerateSlots_CancelledDoesNotBlock(t *testing.T) {
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	hours := weekHours("09:00", "10:00")

	apt := blocking(time.UTC, testDate, 540, 570)
	apt.Status = model.AppointmentStatusCancelled

	slots := GenerateSlots(hours, testDate, 30, []*model.Appointment{apt}, now, time.UTC)
	require.Len(t, slots, 2)
	assert.True(t, slots[0].Available)
}

func TestGenerateSlots_PastSlotsToday(t *testing.T) {
	hours := weekHours("09:00", "11:00")

	// It is 09:45 salon time on the requested date.
	now := timeAt(testDate, 585, time.UTC)

	slots := GenerateSlots(hours, testDate, 30, nil, now, time.UTC)
	require.Len(t, slots, 4)

	byStart := map[string]model.TimeSlot{}
	for _, s := range slots {
		byStart[s.StartTime] = s
	}

	assert.False(t, byStart["09:00"].Available)
	assert.Equal(t, model.ReasonPastSlot, byStart["09:00"].Reason)
	assert.False(t, byStart["09:30"].Available)
	assert.Equal(t, model.ReasonPastSlot, byStart["09:30"].Reason)
	assert.True(t, byStart["10:00"].Available)
	assert.True(t, byStart["10:30"].Available)
}

func TestGenerateSlots_PastCheckUsesSalonClock(t *testing.T) {
	hours := weekHours("09:00", "10:00")
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 23:30 UTC the day before is already 08:30 on the requested date in
	// Tokyo. All slots are still in the future for the salon.
	now := time.Date(2026, time.September, 6, 23, 30, 0, 0, time.UTC)

	slots := GenerateSlots(hours, testDate, 30, nil, now, tokyo)
	require.Len(t, slots, 2)
	for _, s := range slots {
		assert.True(t, s.Available, s.StartTime)
	}
}

func TestCountSlotsForDay(t *testing.T) {
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		hours    model.OperatingHours
		duration int
	}{
		{weekHours("09:00", "18:00"), 30},
		{weekHours("09:00", "18:00"), 60},
		{weekHours("09:00", "10:00"), 45},
		{weekHours("09:00", "10:00"), 90},
		{weekHours("10:00", "10:15"), 30},
	}

	for _, tt := range tests {
		want := len(GenerateSlots(tt.hours, testDate, tt.duration, nil, now, time.UTC))
		assert.Equal(t, want, CountSlotsForDay(tt.hours, testDate, tt.duration))
	}

	closed := weekHours("09:00", "18:00")
	closed["monday"] = model.DayHours{IsOpen: false}
	assert.Zero(t, CountSlotsForDay(closed, testDate, 30))
}

func TestAppointmentOverlapsIsHalfOpen(t *testing.T) {
	apt := &model.Appointment{
		Base:           model.Base{ID: uuid.New()},
		ScheduledStart: timeAt(testDate, 600, time.UTC),
		ScheduledEnd:   timeAt(testDate, 660, time.UTC),
	}

	assert.False(t, apt.Overlaps(timeAt(testDate, 540, time.UTC), timeAt(testDate, 600, time.UTC)))
	assert.True(t, apt.Overlaps(timeAt(testDate, 570, time.UTC), timeAt(testDate, 630, time.UTC)))
	assert.True(t, apt.Overlaps(timeAt(testDate, 630, time.UTC), timeAt(testDate, 650, time.UTC)))
	assert.False(t, apt.Overlaps(timeAt(testDate, 660, time.UTC), timeAt(testDate, 720, time.UTC)))
}
