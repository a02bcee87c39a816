package schedule

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/salon-api/internal/model"
)

func TestMergeSlots_AnyAvailableWins(t *testing.T) {
	empA, empB := uuid.New(), uuid.New()

	perEmployee := map[uuid.UUID][]model.TimeSlot{
		empA: {
			{StartTime: "09:00", EndTime: "09:30", Available: false, Reason: model.ReasonAlreadyBooked},
			{StartTime: "09:30", EndTime: "10:00", Available: false, Reason: model.ReasonAlreadyBooked},
		},
		empB: {
			{StartTime: "09:00", EndTime: "09:30", Available: true},
			{StartTime: "09:30", EndTime: "10:00", Available: false, Reason: model.ReasonAlreadyBooked},
		},
	}

	merged := MergeSlots(perEmployee)
	require.Len(t, merged, 2)

	// One free contributor makes the slot available and clears the reason.
	assert.Equal(t, "09:00", merged[0].StartTime)
	assert.True(t, merged[0].Available)
	assert.Empty(t, merged[0].Reason)

	// Unavailable only when every contributor is unavailable.
	assert.Equal(t, "09:30", merged[1].StartTime)
	assert.False(t, merged[1].Available)
	assert.Equal(t, model.ReasonAlreadyBooked, merged[1].Reason)
}

func TestMergeSlots_UnevenOfferings(t *testing.T) {
	empA, empB := uuid.New(), uuid.New()

	// empB works a longer day; their extra slots still appear in the
	// merged view.
	perEmployee := map[uuid.UUID][]model.TimeSlot{
		empA: {
			{StartTime: "09:00", EndTime: "09:30", Available: true},
		},
		empB: {
			{StartTime: "09:00", EndTime: "09:30", Available: true},
			{StartTime: "09:30", EndTime: "10:00", Available: true},
			{StartTime: "10:00", EndTime: "10:30", Available: false, Reason: model.ReasonAlreadyBooked},
		},
	}

	merged := MergeSlots(perEmployee)
	require.Len(t, merged, 3)
	assert.Equal(t, "09:00", merged[0].StartTime)
	assert.Equal(t, "09:30", merged[1].StartTime)
	assert.Equal(t, "10:00", merged[2].StartTime)
	assert.False(t, merged[2].Available)
}

func TestMergeSlots_SortedChronologically(t *testing.T) {
	emp := uuid.New()
	perEmployee := map[uuid.UUID][]model.TimeSlot{
		emp: {
			{StartTime: "10:00", EndTime: "10:30", Available: true},
			{StartTime: "09:00", EndTime: "09:30", Available: true},
			{StartTime: "09:30", EndTime: "10:00", Available: true},
		},
	}

	merged := MergeSlots(perEmployee)
	require.Len(t, merged, 3)
	for i := 1; i < len(merged); i++ {
		assert.Less(t, merged[i-1].StartTime, merged[i].StartTime)
	}
}

func TestMergeSlots_Empty(t *testing.T) {
	assert.Empty(t, MergeSlots(nil))
	assert.Empty(t, MergeSlots(map[uuid.UUID][]model.TimeSlot{}))
}
