package quota

import "time"

// OverlapHours prorates a record's resource hours onto a window linearly by
// time. A record wholly inside the window contributes all of its hours; one
// straddling a boundary contributes the overlapped fraction. Zero-duration
// records contribute nothing.
func OverlapHours(recordStart, recordEnd, windowStart, windowEnd time.Time, totalHours float64) float64 {
	recordSeconds := recordEnd.Sub(recordStart).Seconds()
	if recordSeconds <= 0 {
		return 0
	}

	from := recordStart
	if windowStart.After(from) {
		from = windowStart
	}
	to := recordEnd
	if windowEnd.Before(to) {
		to = windowEnd
	}

	overlapSeconds := to.Sub(from).Seconds()
	if overlapSeconds <= 0 {
		return 0
	}
	return overlapSeconds / recordSeconds * totalHours
}
