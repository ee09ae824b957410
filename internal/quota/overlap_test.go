package quota

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOverlapHoursFullyInside(t *testing.T) {
	windowStart := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)
	recordStart := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	recordEnd := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)

	assert.InDelta(t, 100.0, OverlapHours(recordStart, recordEnd, windowStart, windowEnd, 100), 1e-9)
}

func TestOverlapHoursStraddlesWindowStart(t *testing.T) {
	windowStart := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	// Half of the record falls before the window.
	recordStart := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	recordEnd := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)

	assert.InDelta(t, 50.0, OverlapHours(recordStart, recordEnd, windowStart, windowEnd, 100), 1e-9)
}

func TestOverlapHoursNoOverlap(t *testing.T) {
	windowStart := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	recordStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	recordEnd := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	assert.Zero(t, OverlapHours(recordStart, recordEnd, windowStart, windowEnd, 100))
}

func TestOverlapHoursZeroDurationRecord(t *testing.T) {
	instant := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	windowStart := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	assert.Zero(t, OverlapHours(instant, instant, windowStart, windowEnd, 100))
}
