package analytics

import (
	"errors"
	"math"
	"time"

	"github.com/kjannette/fmp-backend/internal/format"
	"github.com/kjannette/fmp-backend/internal/models"
)

const daysPerYear = 365.25

var ErrCAGRInput = errors.New("start value and number of years must be non-zero")

// CAGR is the compound annual growth rate between two dated values, as a
// fraction (0.10 for 10%).
func CAGR(start, end time.Time, startValue, endValue float64) (float64, error) {
	years := float64(daysBetween(start, end)) / daysPerYear
	if startValue == 0 || years == 0 {
		return 0, ErrCAGRInput
	}
	return math.Pow(endValue/startValue, 1/years) - 1, nil
}

// CAGRSeries is CAGR from the first to the last non-NaN point. It returns nil
// when fewer than two points remain or the first value is not positive.
func CAGRSeries(points []models.Point) *float64 {
	var clean []models.Point
	for _, p := range points {
		if !math.IsNaN(p.Value) {
			clean = append(clean, p)
		}
	}
	if len(clean) < 2 || clean[0].Value <= 0 {
		return nil
	}
	first, last := clean[0], clean[len(clean)-1]
	v, err := CAGR(first.Date, last.Date, first.Value, last.Value)
	if err != nil {
		return nil
	}
	return &v
}

// CumulativeReturns compounds the simple returns of closes. The first entry
// is 0.
func CumulativeReturns(closes []float64) []float64 {
	out := make([]float64, len(closes))
	acc := 1.0
	for i := 1; i < len(closes); i++ {
		acc *= closes[i] / closes[i-1]
		out[i] = acc - 1
	}
	return out
}

// PriceChange compares a live price with the previous close.
func PriceChange(sym string, price, prevClose float64) models.PriceChange {
	pc := models.PriceChange{Symbol: sym, Price: price, PrevClose: prevClose}
	pc.Chg = format.Round(price-prevClose, 2)
	if prevClose != 0 {
		pc.Ret = format.Round((price/prevClose-1)*100, 2)
	}
	return pc
}

func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
