package schedule

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jwalitptl/salon-api/internal/model"
	apperrors "github.com/jwalitptl/salon-api/pkg/errors"
)

// Salons store their hours in three historical formats: a canonical
// per-weekday object, a JSON string of the same (sometimes encoded
// twice by older admin clients), or a bare "08:00-20:00" range applied
// to the whole week. ResolveOperatingHours normalizes all of them.
var rangePattern = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)\s*-\s*([01]?\d|2[0-3]):([0-5]\d)$`)

type rawDayHours struct {
	IsOpen    *bool   `json:"isOpen"`
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
}

// ResolveOperatingHours parses a salon settings blob into canonical
// per-weekday hours. Returns ErrMalformedConfig when no format matches;
// callers fall back to model.DefaultOperatingHours instead of failing
// the booking flow.
func ResolveOperatingHours(raw []byte) (model.OperatingHours, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return nil, apperrors.ErrMalformedConfig
	}

	if hours, ok := parseStructured([]byte(trimmed)); ok {
		return hours, nil
	}

	// A JSON string may hold either the structured object (single- or
	// double-encoded) or the range shorthand.
	if strings.HasPrefix(trimmed, `"`) {
		var inner string
		if err := json.Unmarshal([]byte(trimmed), &inner); err == nil {
			return ResolveOperatingHours([]byte(inner))
		}
	}

	if hours, ok := parseRange(trimmed); ok {
		return hours, nil
	}

	return nil, apperrors.ErrMalformedConfig
}

func parseStructured(raw []byte) (model.OperatingHours, bool) {
	var entries map[string]rawDayHours
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false
	}

	hours := make(model.OperatingHours)
	for key, entry := range entries {
		day := strings.ToLower(strings.TrimSpace(key))
		if !isWeekday(day) {
			continue
		}
		if entry.IsOpen == nil || entry.StartTime == nil || entry.EndTime == nil {
			continue
		}
		if *entry.IsOpen {
			if !validWindow(*entry.StartTime, *entry.EndTime) {
				continue
			}
		}
		hours[day] = model.DayHours{
			IsOpen:    *entry.IsOpen,
			StartTime: *entry.StartTime,
			EndTime:   *entry.EndTime,
		}
	}

	if len(hours) == 0 {
		return nil, false
	}
	return hours, true
}

func parseRange(s string) (model.OperatingHours, bool) {
	m := rangePattern.FindStringSubmatch(s)
	if m == nil {
		return nil, false
	}

	openMin, err := MinutesFromMidnight(m[1] + ":" + m[2])
	if err != nil {
		return nil, false
	}
	closeMin, err := MinutesFromMidnight(m[3] + ":" + m[4])
	if err != nil || openMin >= closeMin {
		return nil, false
	}
	start, end := FormatMinutes(openMin), FormatMinutes(closeMin)

	hours := make(model.OperatingHours, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		hours[model.WeekdayKey(d)] = model.DayHours{IsOpen: true, StartTime: start, EndTime: end}
	}
	return hours, true
}

func isWeekday(s string) bool {
	switch s {
	case "sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday":
		return true
	}
	return false
}

func validWindow(start, end string) bool {
	openMin, err := MinutesFromMidnight(start)
	if err != nil {
		return false
	}
	closeMin, err := MinutesFromMidnight(end)
	if err != nil {
		return false
	}
	return openMin < closeMin
}

// MinutesFromMidnight converts an "HH:MM" string to minutes since
// midnight.
func MinutesFromMidnight(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return hour*60 + minute, nil
}

// FormatMinutes renders minutes since midnight as "HH:MM".
func FormatMinutes(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}
