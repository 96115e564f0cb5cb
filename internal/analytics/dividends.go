package analytics

import (
	"sort"
	"time"

	"github.com/kjannette/fmp-backend/internal/format"
	"github.com/kjannette/fmp-backend/internal/models"
)

const (
	trailWindow = 359 * 24 * time.Hour
	countWindow = 360 * 24 * time.Hour
)

// DividendYields enriches each dividend with its trailing sum and yields.
//
// trail is the sum of adjusted dividends with an ex-date in the 359 days up
// to and including this one. trailYield divides it by the ex-date close;
// curYield annualises this dividend by the number of payments made in the
// 360 days ending at the latest ex-date. closes is keyed by "2006-01-02";
// dividends without a close on their ex-date get nil close and yields.
func DividendYields(divs []models.Dividend, closes map[string]float64) []models.DividendYield {
	if len(divs) == 0 {
		return nil
	}

	sorted := append([]models.Dividend(nil), divs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	dates := make([]time.Time, len(sorted))
	for i, d := range sorted {
		t, err := models.ParseDate(d.Date)
		if err != nil {
			t = time.Time{}
		}
		dates[i] = t
	}

	last := dates[len(dates)-1]
	perYear := 0
	for _, t := range dates {
		if t.After(last.Add(-countWindow)) {
			perYear++
		}
	}

	out := make([]models.DividendYield, len(sorted))
	for i, d := range sorted {
		trail := 0.0
		for j := i; j >= 0 && dates[j].After(dates[i].Add(-trailWindow)); j-- {
			trail += sorted[j].AdjDividend
		}

		row := models.DividendYield{
			ExDate:          d.Date,
			Dividend:        d.Dividend,
			AdjDividend:     d.AdjDividend,
			RecordDate:      d.RecordDate,
			PaymentDate:     d.PaymentDate,
			DeclarationDate: d.DeclarationDate,
			Trail:           format.Round(trail, 6),
		}
		if c, ok := closes[d.Date]; ok && c != 0 {
			row.Close = format.Ptr(c)
			row.TrailYield = format.Ptr(format.Round(trail/c*100, 2))
			row.CurYield = format.Ptr(format.Round(d.AdjDividend*float64(perYear)/c*100, 2))
		}
		out[i] = row
	}
	return out
}

// CloseMap indexes daily closes by date.
func CloseMap(bars []models.PriceBar) map[string]float64 {
	m := make(map[string]float64, len(bars))
	for _, b := range bars {
		m[b.Date] = b.Close
	}
	return m
}
