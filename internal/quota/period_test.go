package quota

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	period, err := ParsePeriod(" Week ")
	require.NoError(t, err)
	assert.Equal(t, PeriodWeek, period)

	period, err = ParsePeriod("MONTH")
	require.NoError(t, err)
	assert.Equal(t, PeriodMonth, period)

	_, err = ParsePeriod("fortnight")
	assert.Error(t, err)
}

func TestWeekBounds(t *testing.T) {
	// A Wednesday mid-month.
	ref := time.Date(2024, 2, 14, 15, 30, 0, 0, time.UTC)
	start, end, days := PeriodWeek.Bounds(ref)

	assert.Equal(t, time.Date(2024, 2, 12, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 2, 18, 23, 59, 59, 999999999, time.UTC), end)
	assert.Equal(t, 7, days)
}

func TestWeekBoundsSunday(t *testing.T) {
	// Sunday belongs to the week that started the previous Monday.
	ref := time.Date(2024, 2, 18, 3, 0, 0, 0, time.UTC)
	start, _, _ := PeriodWeek.Bounds(ref)

	assert.Equal(t, time.Date(2024, 2, 12, 0, 0, 0, 0, time.UTC), start)
}

func TestWeekBoundsMonday(t *testing.T) {
	ref := time.Date(2024, 2, 12, 0, 0, 0, 0, time.UTC)
	start, _, _ := PeriodWeek.Bounds(ref)

	assert.Equal(t, ref, start)
}

func TestWeekBoundsAcrossMonthBoundary(t *testing.T) {
	// Friday 2024-03-01: the week started Monday 2024-02-26.
	ref := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	start, end, _ := PeriodWeek.Bounds(ref)

	assert.Equal(t, time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 3, 23, 59, 59, 999999999, time.UTC), end)
}

func TestMonthBounds(t *testing.T) {
	ref := time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)
	start, end, days := PeriodMonth.Bounds(ref)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC), end)
	assert.Equal(t, 31, days)
}

func TestMonthBoundsLeapFebruary(t *testing.T) {
	_, end, days := PeriodMonth.Bounds(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 29, days)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 999999999, time.UTC), end)

	_, _, days = PeriodMonth.Bounds(time.Date(2023, 2, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 28, days)
}
