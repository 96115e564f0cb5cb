// Package calendar does business-day arithmetic on the US federal holiday
// calendar.
package calendar

import (
	"errors"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

// maxLookback bounds BusinessDaysBack to roughly sixty years of sessions.
const maxLookback = 15000

var ErrEmpty = errors.New("calendar: no dated items to slice")

var business = newBusinessCalendar()

func newBusinessCalendar() *cal.BusinessCalendar {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(
		us.NewYear,
		us.MlkDay,
		us.PresidentsDay,
		us.MemorialDay,
		us.Juneteenth,
		us.IndependenceDay,
		us.LaborDay,
		us.ColumbusDay,
		us.VeteransDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
	)
	return c
}

// IsBusinessDay reports whether t is a weekday that is not an observed
// federal holiday.
func IsBusinessDay(t time.Time) bool {
	return business.IsWorkday(t)
}

// BusinessDaysBack returns the d-th business day counting backwards from
// `from`, where `from` itself is day 1 when it is a business day.
func BusinessDaysBack(d int, from time.Time) (time.Time, error) {
	if d < 1 || d > maxLookback {
		return time.Time{}, errors.New("calendar: lookback must be between 1 and 15000 business days")
	}
	day := truncate(from)
	n := 0
	for {
		if IsBusinessDay(day) {
			n++
			if n == d {
				return day, nil
			}
		}
		day = day.AddDate(0, 0, -1)
	}
}

// TradingDayOfYear counts business days from the last day of the prior year
// through t, both inclusive. The result is the lookback that reaches the
// prior year's final session.
func TradingDayOfYear(t time.Time) int {
	t = truncate(t)
	day := time.Date(t.Year()-1, 12, 31, 0, 0, 0, 0, t.Location())
	n := 0
	for !day.After(t) {
		if IsBusinessDay(day) {
			n++
		}
		day = day.AddDate(0, 0, 1)
	}
	return n
}

// Holidays lists the observed holiday dates falling in year.
func Holidays(year int) []time.Time {
	var out []time.Time
	day := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	for day.Year() == year {
		if _, observed, _ := business.IsHoliday(day); observed {
			out = append(out, day)
		}
		day = day.AddDate(0, 0, 1)
	}
	return out
}

// SliceYears keeps the items dated within `years` of the most recent one,
// in their original order.
func SliceYears[T any](items []T, date func(T) time.Time, years int) ([]T, error) {
	if len(items) == 0 {
		return nil, ErrEmpty
	}
	latest := date(items[0])
	for _, it := range items[1:] {
		if d := date(it); d.After(latest) {
			latest = d
		}
	}
	cutoff := latest.AddDate(-years, 0, 0)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !date(it).Before(cutoff) {
			out = append(out, it)
		}
	}
	return out, nil
}

func truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
