package quota

import (
	"fmt"
	"strings"
	"time"
)

// Period is the calendar granularity a usage cap rolls over.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

func ParsePeriod(raw string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(PeriodWeek):
		return PeriodWeek, nil
	case string(PeriodMonth):
		return PeriodMonth, nil
	default:
		return "", fmt.Errorf("invalid period %q: must be 'week' or 'month'", raw)
	}
}

// Bounds returns the calendar window containing ref and its inclusive day
// count. Weeks run ISO Monday through Sunday; months run the 1st through the
// last calendar day, respecting variable month lengths and leap years.
// The window spans start-of-day on start through end-of-day on end.
func (p Period) Bounds(ref time.Time) (start, end time.Time, days int) {
	ref = ref.UTC()
	year, month, day := ref.Date()

	switch p {
	case PeriodWeek:
		isoWeekday := int(ref.Weekday())
		if isoWeekday == 0 {
			isoWeekday = 7
		}
		start = time.Date(year, month, day-(isoWeekday-1), 0, 0, 0, 0, time.UTC)
		days = 7
	case PeriodMonth:
		start = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		// Day zero of the next month is the last day of this one.
		days = time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	default:
		start = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		days = time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	}

	end = start.AddDate(0, 0, days).Add(-time.Nanosecond)
	return start, end, days
}
