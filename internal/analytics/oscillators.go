package analytics

import (
	"fmt"
	"math"

	"github.com/kjannette/fmp-backend/internal/format"
	"github.com/kjannette/fmp-backend/internal/models"
)

const (
	DefaultRSIPeriods       = 3
	DefaultStochasticLength = 8
	DefaultStochasticSmooth = 3
)

// RSI returns the relative strength index at every close. Gains and losses
// are smoothed with an adjusted exponential mean (alpha = 1/periods) and a
// value is only produced once periods deltas have been seen; earlier entries
// are NaN. A window with gains and no losses reads 100, a flat one NaN.
func RSI(closes []float64, periods int) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	if periods < 1 || len(closes) < 2 {
		return out
	}

	decay := 1 - 1/float64(periods)
	var up, down float64
	for i := 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		up = math.Max(d, 0) + decay*up
		down = math.Max(-d, 0) + decay*down

		if i < periods {
			continue
		}
		switch {
		case down == 0 && up == 0:
			// flat window
		case down == 0:
			out[i] = 100
		default:
			out[i] = 100 - 100/(1+up/down)
		}
	}
	return out
}

// LatestRSI returns the most recent RSI rounded to 2 places.
func LatestRSI(closes []float64, periods int) (float64, error) {
	if len(closes) < periods+1 {
		return 0, fmt.Errorf("rsi(%d): need %d closes, got %d", periods, periods+1, len(closes))
	}
	v := RSI(closes, periods)[len(closes)-1]
	if math.IsNaN(v) {
		return 0, fmt.Errorf("rsi(%d): undefined for a flat series", periods)
	}
	return format.Round(v, 2), nil
}

// Stochastic returns the smoothed %K line: the close's position within the
// high/low range of the last length bars, averaged over smooth bars.
func Stochastic(bars []models.PriceBar, length, smooth int) []float64 {
	n := len(bars)
	k := make([]float64, n)
	out := make([]float64, n)
	for i := range bars {
		k[i] = math.NaN()
		out[i] = math.NaN()
		if i+1 < length {
			continue
		}
		hi, lo := bars[i].High, bars[i].Low
		for j := i - length + 1; j < i; j++ {
			hi = math.Max(hi, bars[j].High)
			lo = math.Min(lo, bars[j].Low)
		}
		if hi > lo {
			k[i] = 100 * (bars[i].Close - lo) / (hi - lo)
		}
	}

	for i := smooth - 1; i < n; i++ {
		sum := 0.0
		for j := i - smooth + 1; j <= i; j++ {
			sum += k[j]
		}
		out[i] = sum / float64(smooth)
	}
	return out
}

// LatestStochastic returns the last smoothed %K rounded to 2 places.
func LatestStochastic(bars []models.PriceBar, length, smooth int) (float64, error) {
	need := length + smooth - 1
	if len(bars) < need {
		return 0, fmt.Errorf("stochastic(%d,%d): need %d bars, got %d", length, smooth, need, len(bars))
	}
	v := Stochastic(bars, length, smooth)[len(bars)-1]
	if math.IsNaN(v) {
		return 0, fmt.Errorf("stochastic(%d,%d): undefined for a flat range", length, smooth)
	}
	return format.Round(v, 2), nil
}
