package analytics

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/kjannette/fmp-backend/internal/format"
	"github.com/kjannette/fmp-backend/internal/models"
)

const (
	DefaultHistVolLookback = 60
	DefaultBetaLookback    = 100
	DefaultCorrLookback    = 60

	tradingDaysPerYear = 252
)

var ErrLengthMismatch = errors.New("series lengths differ")

// LogReturns returns ln(c[i]/c[i-1]); the result is one shorter than closes.
func LogReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		out[i-1] = math.Log(closes[i] / closes[i-1])
	}
	return out
}

// LinearRegression fits y = slope*x + intercept by least squares and reports
// Pearson r, the two-sided p-value of the slope (Student's t, n-2 degrees of
// freedom) and the slope's standard error.
func LinearRegression(x, y []float64) (models.Regression, error) {
	if len(x) != len(y) {
		return models.Regression{}, ErrLengthMismatch
	}
	n := len(x)
	if n < 3 {
		return models.Regression{}, fmt.Errorf("regression: need at least 3 points, got %d", n)
	}

	varX := stat.Variance(x, nil)
	if varX == 0 {
		return models.Regression{}, errors.New("regression: x has no variance")
	}
	varY := stat.Variance(y, nil)

	intercept, slope := stat.LinearRegression(x, y, nil, false)

	r := 0.0
	if varY != 0 {
		r = math.Max(-1, math.Min(1, stat.Correlation(x, y, nil)))
	}

	df := float64(n - 2)
	const tiny = 1e-20
	t := r * math.Sqrt(df/((1-r+tiny)*(1+r+tiny)))
	p := 2 * distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Survival(math.Abs(t))

	// Sums of squares share the n-1 factor, so the variance ratio stands in
	// for ssy/ssx.
	stderr := math.Sqrt((1 - r*r) * varY / varX / df)

	return models.Regression{
		Slope:     slope,
		Intercept: intercept,
		R:         r,
		RSquared:  r * r,
		P:         p,
		StdErr:    stderr,
		N:         n,
	}, nil
}

// HistVol is the annualised volatility in percent of the last lbk closes:
// the population deviation of their log returns times sqrt(252), 1 place.
func HistVol(closes []float64, lbk int) (float64, error) {
	if len(closes) > lbk {
		closes = closes[len(closes)-lbk:]
	}
	rets := LogReturns(closes)
	if len(rets) < 2 {
		return 0, fmt.Errorf("hist vol: need at least 3 closes, got %d", len(closes))
	}
	_, std := stat.PopMeanStdDev(rets, nil)
	return format.Round(std*math.Sqrt(tradingDaysPerYear)*100, 1), nil
}

// Beta regresses asset log returns on market log returns over the last lbk
// returns of two date-aligned close series. Rounded to 2 places.
func Beta(asset, market []float64, lbk int) (float64, error) {
	if len(asset) != len(market) {
		return 0, ErrLengthMismatch
	}
	if len(asset) > lbk+1 {
		asset = asset[len(asset)-lbk-1:]
		market = market[len(market)-lbk-1:]
	}
	x, y := LogReturns(market), LogReturns(asset)
	if len(x) < 2 {
		return 0, fmt.Errorf("beta: need at least 3 aligned closes, got %d", len(asset))
	}
	v := stat.Variance(x, nil)
	if v == 0 {
		return 0, errors.New("beta: market has no variance")
	}
	return format.Round(stat.Covariance(x, y, nil)/v, 2), nil
}

// Correlation is the Pearson correlation of the log returns of two
// date-aligned close series, rounded to 3 places.
func Correlation(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrLengthMismatch
	}
	x, y := LogReturns(a), LogReturns(b)
	if len(x) < 2 {
		return 0, fmt.Errorf("correlation: need at least 3 aligned closes, got %d", len(a))
	}
	c := stat.Correlation(x, y, nil)
	if math.IsNaN(c) {
		return 0, errors.New("correlation: undefined for a flat series")
	}
	return format.Round(c, 3), nil
}

// Align joins two bar series on date, keeping dates present in both.
func Align(a, b []models.PriceBar) (dates []string, x, y []float64) {
	idx := make(map[string]float64, len(b))
	for _, bar := range b {
		idx[bar.Date] = bar.Close
	}
	for _, bar := range a {
		if c, ok := idx[bar.Date]; ok {
			dates = append(dates, bar.Date)
			x = append(x, bar.Close)
			y = append(y, c)
		}
	}
	return dates, x, y
}

// Closes extracts the close column.
func Closes(bars []models.PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
