package analytics

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/kjannette/fmp-backend/internal/format"
	"github.com/kjannette/fmp-backend/internal/models"
)

// PriceFields are the bar columns PriceField can extract.
var PriceFields = []string{"open", "high", "low", "close", "adjClose", "volume"}

// PriceField returns the accessor for a bar column.
func PriceField(name string) (func(models.PriceBar) float64, error) {
	switch name {
	case "open":
		return func(b models.PriceBar) float64 { return b.Open }, nil
	case "high":
		return func(b models.PriceBar) float64 { return b.High }, nil
	case "low":
		return func(b models.PriceBar) float64 { return b.Low }, nil
	case "close":
		return func(b models.PriceBar) float64 { return b.Close }, nil
	case "adjClose":
		return func(b models.PriceBar) float64 { return b.AdjClose }, nil
	case "volume":
		return func(b models.PriceBar) float64 { return b.Volume }, nil
	}
	return nil, fmt.Errorf("unknown price field %q: expected one of %v", name, PriceFields)
}

// AlignMany joins several bar series on date, keeping the dates present in
// every series in the order of the first. cols[i] holds field for series i.
func AlignMany(series [][]models.PriceBar, field func(models.PriceBar) float64) (dates []string, cols [][]float64) {
	if len(series) == 0 {
		return nil, nil
	}
	idx := make([]map[string]float64, len(series))
	for i, bars := range series {
		idx[i] = make(map[string]float64, len(bars))
		for _, b := range bars {
			idx[i][b.Date] = field(b)
		}
	}

	cols = make([][]float64, len(series))
	row := make([]float64, len(series))
next:
	for _, b := range series[0] {
		for i := range series {
			v, ok := idx[i][b.Date]
			if !ok {
				continue next
			}
			row[i] = v
		}
		dates = append(dates, b.Date)
		for i, v := range row {
			cols[i] = append(cols[i], v)
		}
	}
	return dates, cols
}

// SummedReturns is the running sum of simple returns. The first entry is 0.
func SummedReturns(closes []float64) []float64 {
	out := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		out[i] = out[i-1] + closes[i]/closes[i-1] - 1
	}
	return out
}

// Spread compares the summed simple returns of two date-aligned close
// series: long minus short, or long over short with ratio. The first date
// carries no return and is dropped, as are dates where the ratio is
// undefined.
func Spread(dates []string, long, short []float64, ratio bool) ([]models.Point, error) {
	if len(long) != len(short) || len(long) != len(dates) {
		return nil, ErrLengthMismatch
	}
	if len(long) < 2 {
		return nil, fmt.Errorf("spread: need at least 2 aligned closes, got %d", len(long))
	}
	l, s := SummedReturns(long), SummedReturns(short)

	out := make([]models.Point, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		v := l[i] - s[i]
		if ratio {
			v = l[i] / s[i]
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		t, err := models.ParseDate(dates[i])
		if err != nil {
			continue
		}
		out = append(out, models.Point{Date: t, Value: v})
	}
	return out, nil
}

// MergerArb is the deal spread on each date: the acquirer close times
// shareFactor plus cash, less the target close. With pct it is a fraction of
// the target close.
func MergerArb(dates []string, acquirer, target []float64, shareFactor, cash float64, pct bool) ([]models.MergerArbRow, error) {
	if len(acquirer) != len(target) || len(acquirer) != len(dates) {
		return nil, ErrLengthMismatch
	}
	out := make([]models.MergerArbRow, len(dates))
	for i, d := range dates {
		arb := acquirer[i]*shareFactor + cash - target[i]
		row := models.MergerArbRow{Date: d, Acquirer: acquirer[i], Target: target[i]}
		switch {
		case !pct:
			row.Arb = format.Ptr(arb)
		case target[i] != 0:
			row.Arb = format.Ptr(arb / target[i])
		}
		out[i] = row
	}
	return out, nil
}

// CorrelationMatrix correlates the daily log returns of date-aligned close
// series pairwise, rounded to 2 places. Pairs involving a flat series are
// nil. It also returns the number of returns used.
func CorrelationMatrix(cols [][]float64) ([][]*float64, int, error) {
	if len(cols) < 2 {
		return nil, 0, fmt.Errorf("correlation matrix: need at least 2 series, got %d", len(cols))
	}
	n := len(cols[0])
	for _, c := range cols[1:] {
		if len(c) != n {
			return nil, 0, ErrLengthMismatch
		}
	}
	if n < 3 {
		return nil, 0, fmt.Errorf("correlation matrix: need at least 3 aligned closes, got %d", n)
	}

	rets := mat.NewDense(n-1, len(cols), nil)
	flat := make([]bool, len(cols))
	for j, c := range cols {
		lr := LogReturns(c)
		rets.SetCol(j, lr)
		flat[j] = stat.Variance(lr, nil) == 0
	}
	var corr mat.SymDense
	stat.CorrelationMatrix(&corr, rets, nil)

	// gonum pins the diagonal to 1 even for a flat series
	out := make([][]*float64, len(cols))
	for i := range cols {
		out[i] = make([]*float64, len(cols))
		for j := range cols {
			if flat[i] || flat[j] {
				continue
			}
			out[i][j] = format.Ptr(format.Round(corr.At(i, j), 2))
		}
	}
	return out, n - 1, nil
}

// BuyAndHold values a basket bought once at the first aligned close and
// never rebalanced. Weights are scaled to sum to one, so the series starts
// at 1.
func BuyAndHold(cols [][]float64, weights []float64) ([]float64, error) {
	if len(cols) == 0 || len(cols) != len(weights) {
		return nil, ErrLengthMismatch
	}
	n := len(cols[0])
	if n == 0 {
		return nil, errors.New("basket: no aligned closes")
	}
	var total float64
	for i, c := range cols {
		if len(c) != n {
			return nil, ErrLengthMismatch
		}
		if c[0] == 0 {
			return nil, fmt.Errorf("basket: series %d starts at zero", i)
		}
		if weights[i] < 0 {
			return nil, fmt.Errorf("basket: negative weight %v", weights[i])
		}
		total += weights[i]
	}
	if total == 0 {
		return nil, errors.New("basket: weights sum to zero")
	}

	out := make([]float64, n)
	for t := range out {
		for i, c := range cols {
			out[t] += weights[i] / total * c[t] / c[0]
		}
	}
	return out, nil
}
