package format

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Round scales by 10^places and rounds half-to-even on the binary value, so
// 2.675 rounds to 2.67 because it is stored just below the half.
// NaN and infinities pass through.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow10(places)
	return math.RoundToEven(v*p) / p
}

// Fixed renders v with exactly places decimals.
func Fixed(v float64, places int) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return decimal.NewFromFloat(v).StringFixed(int32(places))
}

// Commas renders v rounded to an integer with thousands separators.
func Commas(v float64) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	return printer.Sprintf("%d", int64(math.Round(v)))
}

// Millions divides by 1e6 and rounds to places decimals.
func Millions(v float64, places int) float64 {
	return Round(v/1_000_000, places)
}

// Float renders a value the way a table cell should show it: integers without
// a trailing ".0", everything else in shortest form.
func Float(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return decimal.NewFromFloat(v).String()
}

// DateMDY reformats an FMP date as mm-dd-yy. Unparseable input is returned
// unchanged and empty input stays empty.
func DateMDY(s string) string {
	if s == "" {
		return ""
	}
	layouts := []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.Format("01-02-06")
		}
	}
	return s
}

// Ptr returns a pointer to v, or nil when v is NaN.
func Ptr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
