package analytics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/kjannette/fmp-backend/internal/format"
	"github.com/kjannette/fmp-backend/internal/models"
)

const (
	pivotVolWindow = 30
	pivotVolLength = 21
)

// PivotThresholds returns the swing threshold for each close: the 30-bar
// sample deviation of log returns scaled to a 21-bar horizon. Leading bars
// without a full window take the first computed value.
func PivotThresholds(closes []float64) ([]float64, error) {
	if len(closes) <= pivotVolWindow {
		return nil, fmt.Errorf("pivots: need more than %d closes, got %d", pivotVolWindow, len(closes))
	}
	rets := LogReturns(closes)

	hv := make([]float64, len(closes))
	for i := pivotVolWindow; i < len(closes); i++ {
		// rets[k] is the return into close k+1
		hv[i] = stat.StdDev(rets[i-pivotVolWindow:i], nil) * math.Sqrt(pivotVolLength)
	}
	for i := 0; i < pivotVolWindow; i++ {
		hv[i] = hv[pivotVolWindow]
	}
	return hv, nil
}

// initialPivot classifies the first close as a Peak or Valley by whichever
// threshold move from the running extremes happens first.
func initialPivot(closes []float64, thresh float64) int {
	x0 := closes[0]
	maxX, minX := x0, x0
	maxT, minT := 0, 0

	for t := 1; t < len(closes); t++ {
		x := closes[t]
		if x/minX >= 1+thresh {
			if minT == 0 {
				return models.Valley
			}
			return models.Peak
		}
		if x/maxX <= 1-thresh {
			if maxT == 0 {
				return models.Peak
			}
			return models.Valley
		}
		if x > maxX {
			maxX, maxT = x, t
		}
		if x < minX {
			minX, minT = x, t
		}
	}
	if x0 < closes[len(closes)-1] {
		return models.Valley
	}
	return models.Peak
}

// PivotMarks runs the zig-zag over closes and returns Peak, Valley or 0 for
// each bar. A swing is confirmed once price retraces from the running extreme
// by the bar's threshold. The first and last bars are always marked.
func PivotMarks(closes, hv []float64) []int {
	n := len(closes)
	marks := make([]int, n)
	if n == 0 {
		return marks
	}
	marks[0] = initialPivot(closes, hv[0])

	trend := -marks[0]
	lastT, lastX := 0, closes[0]
	for t := 1; t < n; t++ {
		x := closes[t]
		r := x / lastX
		if trend == models.Valley {
			if r >= 1+hv[t] {
				marks[lastT] = trend
				trend = models.Peak
				lastT, lastX = t, x
			} else if x < lastX {
				lastT, lastX = t, x
			}
		} else {
			if r <= 1-hv[t] {
				marks[lastT] = trend
				trend = models.Valley
				lastT, lastX = t, x
			} else if x > lastX {
				lastT, lastX = t, x
			}
		}
	}

	if lastT == n-1 || marks[n-1] == 0 {
		marks[n-1] = trend
	}
	return marks
}

// Pivots labels the swing highs and lows of a close series. Each pivot
// carries the bars since the previous pivot (dur), the percentage change
// from it (chg, 3 places), the change per bar (ave, 4 places) and a label
// comparing its close with the pivot two back: HH, LH, HL or LL. The first
// pivot has zero dur, chg and ave.
func Pivots(dates []string, closes []float64) ([]models.Pivot, error) {
	if len(dates) != len(closes) {
		return nil, fmt.Errorf("pivots: %d dates for %d closes", len(dates), len(closes))
	}
	for _, c := range closes {
		if c <= 0 {
			return nil, fmt.Errorf("pivots: non-positive close %v", c)
		}
	}
	hv, err := PivotThresholds(closes)
	if err != nil {
		return nil, err
	}
	marks := PivotMarks(closes, hv)

	var out []models.Pivot
	prevT := -1
	for t, m := range marks {
		if m == 0 {
			continue
		}
		p := models.Pivot{Date: dates[t], Close: closes[t], Kind: m, HV: hv[t]}
		if prevT >= 0 {
			p.Dur = t - prevT
			p.Chg = format.Round(closes[t]/closes[prevT]-1, 3)
			p.Ave = format.Round(p.Chg/float64(p.Dur), 4)
		}
		if k := len(out); k >= 2 {
			p.Label = swingLabel(m, closes[t], out[k-2].Close)
		}
		out = append(out, p)
		prevT = t
	}
	return out, nil
}

func swingLabel(kind int, close, ref float64) string {
	switch {
	case kind == models.Peak && close > ref:
		return "HH"
	case kind == models.Peak && close < ref:
		return "LH"
	case kind == models.Valley && close > ref:
		return "HL"
	case kind == models.Valley && close < ref:
		return "LL"
	}
	return ""
}
