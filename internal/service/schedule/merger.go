package schedule

import (
	"sort"

	"github.com/google/uuid"

	"github.com/jwalitptl/salon-api/internal/model"
)

// MergeSlots combines per-employee slot lists for the same date into the
// "any available staff" view. A merged slot is available when at least
// one contributor is available (logical OR) and its reason is cleared as
// soon as any contributor is free: the customer sees the union of
// opportunity, not the intersection. Slots offered by only some
// employees still appear. Which employee actually serves the slot is
// resolved at commit time.
func MergeSlots(perEmployee map[uuid.UUID][]model.TimeSlot) []model.TimeSlot {
	merged := make(map[string]model.TimeSlot)

	for _, slots := range perEmployee {
		for _, slot := range slots {
			existing, seen := merged[slot.StartTime]
			if !seen {
				merged[slot.StartTime] = slot
				continue
			}
			if slot.Available && !existing.Available {
				existing.Available = true
				existing.Reason = ""
				existing.EndTime = slot.EndTime
				merged[slot.StartTime] = existing
			}
		}
	}

	out := make([]model.TimeSlot, 0, len(merged))
	for _, slot := range merged {
		out = append(out, slot)
	}
	// "HH:MM" is zero padded, so lexicographic order is chronological.
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out
}
