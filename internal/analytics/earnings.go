package analytics

import "github.com/kjannette/fmp-backend/internal/models"

// NoDate is reported when no scheduled earnings date is known.
const NoDate = "NA"

// NextEarningsDate returns the earliest event date without a reported EPS,
// or NoDate.
func NextEarningsDate(events []models.EarningsEvent) string {
	next := ""
	for _, e := range events {
		if e.EPS != nil || e.Date == "" {
			continue
		}
		d := e.Date
		if len(d) > len(models.DateLayout) {
			d = d[:len(models.DateLayout)]
		}
		if next == "" || d < next {
			next = d
		}
	}
	if next == "" {
		return NoDate
	}
	return next
}

// RecentEarnings returns the n latest events in ascending date order. events
// must already be ascending.
func RecentEarnings(events []models.EarningsEvent, n int) []models.EarningsEvent {
	if len(events) > n {
		events = events[len(events)-n:]
	}
	return events
}
