package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/salon-api/internal/model"
)

func TestBuildAppointmentTime(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	date := model.NewDate(2026, time.September, 7)
	start, end, err := BuildAppointmentTime(date, "14:30", 45, berlin)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, time.September, 7, 14, 30, 0, 0, berlin), start)
	assert.Equal(t, time.Date(2026, time.September, 7, 15, 15, 0, 0, berlin), end)
}

func TestBuildAppointmentTime_EastOfUTCKeepsDate(t *testing.T) {
	auckland, err := time.LoadLocation("Pacific/Auckland")
	require.NoError(t, err)

	// An early-morning slot east of UTC lands on the previous day in UTC.
	// The salon-local date components must survive anyway.
	date := model.NewDate(2026, time.September, 7)
	start, _, err := BuildAppointmentTime(date, "09:00", 30, auckland)
	require.NoError(t, err)

	assert.Equal(t, date, model.DateOf(start.In(auckland)))
	assert.Equal(t, 9, start.In(auckland).Hour())
	assert.NotEqual(t, date, model.DateOf(start.UTC()))
}

func TestBuildAppointmentTime_Invalid(t *testing.T) {
	date := model.NewDate(2026, time.September, 7)

	_, _, err := BuildAppointmentTime(date, "25:00", 30, time.UTC)
	assert.Error(t, err)

	_, _, err = BuildAppointmentTime(date, "nine", 30, time.UTC)
	assert.Error(t, err)

	_, _, err = BuildAppointmentTime(date, "09:00", 0, time.UTC)
	assert.Error(t, err)

	_, _, err = BuildAppointmentTime(date, "09:00", -30, time.UTC)
	assert.Error(t, err)
}
