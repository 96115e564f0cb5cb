package analytics

import (
	"github.com/kjannette/fmp-backend/internal/models"
)

// GrossCap is the trailing-four-quarter revenue over the same quarter's
// enterprise value. income and ev must be ascending quarterly rows.
func GrossCap(income, ev []models.Record) []models.Point {
	evByDate := make(map[string]float64, len(ev))
	for _, r := range ev {
		if v, ok := r.Float("enterpriseValue"); ok {
			evByDate[r.Date()] = v
		}
	}

	var out []models.Point
	for i := 3; i < len(income); i++ {
		v, ok := evByDate[income[i].Date()]
		if !ok || v == 0 {
			continue
		}
		rev := 0.0
		for j := i - 3; j <= i; j++ {
			r, _ := income[j].Float("revenue")
			rev += r
		}
		if p, ok := point(income[i].Date(), rev/v); ok {
			out = append(out, p)
		}
	}
	return out
}

// Efficiency is operating income over revenue per period.
func Efficiency(income []models.Record) []models.Point {
	var out []models.Point
	for _, r := range income {
		rev, ok := r.Float("revenue")
		if !ok || rev == 0 {
			continue
		}
		op, _ := r.Float("operatingIncome")
		if p, ok := point(r.Date(), op/rev); ok {
			out = append(out, p)
		}
	}
	return out
}

func point(date string, v float64) (models.Point, bool) {
	t, err := models.ParseDate(date)
	if err != nil {
		return models.Point{}, false
	}
	return models.Point{Date: t, Value: v}, true
}
