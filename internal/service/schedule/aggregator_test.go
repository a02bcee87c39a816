package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/salon-api/internal/model"
)

func TestDayStatusFor(t *testing.T) {
	tests := []struct {
		total     int
		available int
		want      model.DayStatus
	}{
		{0, 0, model.DayStatusUnavailable},
		{10, 10, model.DayStatusAvailable},
		{10, 0, model.DayStatusFullyBooked},
		{10, 3, model.DayStatusPartiallyBooked},
		{1, 1, model.DayStatusAvailable},
		{1, 0, model.DayStatusFullyBooked},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DayStatusFor(tt.total, tt.available))
	}
}

func TestSummarizeDay(t *testing.T) {
	date := model.NewDate(2026, time.September, 7)
	slots := []model.TimeSlot{
		{StartTime: "09:00", Available: true},
		{StartTime: "09:30", Available: false, Reason: model.ReasonAlreadyBooked},
		{StartTime: "10:00", Available: true},
	}

	day := SummarizeDay(date, slots)
	assert.Equal(t, date, day.Date)
	assert.Equal(t, model.DayStatusPartiallyBooked, day.Status)
	assert.Equal(t, 3, day.TotalSlots)
	assert.Equal(t, 2, day.AvailableSlots)

	empty := SummarizeDay(date, nil)
	assert.Equal(t, model.DayStatusUnavailable, empty.Status)
	assert.Zero(t, empty.TotalSlots)
}

func TestAggregateDay_SumsAcrossPool(t *testing.T) {
	date := model.NewDate(2026, time.September, 7)
	empA, empB := uuid.New(), uuid.New()

	// Two stylists free at 09:00 means two bookable slots, not one.
	perEmployee := map[uuid.UUID][]model.TimeSlot{
		empA: {
			{StartTime: "09:00", Available: true},
			{StartTime: "09:30", Available: false},
		},
		empB: {
			{StartTime: "09:00", Available: true},
			{StartTime: "09:30", Available: true},
		},
	}

	day := AggregateDay(date, perEmployee)
	assert.Equal(t, 4, day.TotalSlots)
	assert.Equal(t, 3, day.AvailableSlots)
	assert.Equal(t, model.DayStatusPartiallyBooked, day.Status)

	assert.LessOrEqual(t, day.AvailableSlots, day.TotalSlots)
}

func TestAggregateDay_Empty(t *testing.T) {
	date := model.NewDate(2026, time.September, 7)
	day := AggregateDay(date, nil)
	assert.Equal(t, model.DayStatusUnavailable, day.Status)
	assert.Zero(t, day.TotalSlots)
	assert.Zero(t, day.AvailableSlots)
}
