package research

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kjannette/fmp-backend/internal/analytics"
	"github.com/kjannette/fmp-backend/internal/calendar"
	"github.com/kjannette/fmp-backend/internal/models"
)

// MaxMultiSymbols caps the per-symbol history fetches of one request.
const MaxMultiSymbols = 20

// PriceTable fetches each symbol's daily history and keeps one field on the
// dates every symbol traded.
func (s *Service) PriceTable(ctx context.Context, syms []string, from, to time.Time, field string) (*models.PriceTable, error) {
	dates, cols, err := s.alignedField(ctx, syms, from, to, field)
	if err != nil {
		return nil, err
	}
	rows := make([]models.PriceRow, len(dates))
	for i, d := range dates {
		vals := make([]float64, len(cols))
		for j := range cols {
			vals[j] = cols[j][i]
		}
		rows[i] = models.PriceRow{Date: d, Values: vals}
	}
	return &models.PriceTable{Field: field, Symbols: syms, Rows: rows}, nil
}

// Spread tracks the summed daily returns of long against short.
func (s *Service) Spread(ctx context.Context, long, short string, from, to time.Time, ratio bool) ([]models.Point, error) {
	dates, cols, err := s.alignedField(ctx, []string{long, short}, from, to, "close")
	if err != nil {
		return nil, err
	}
	return analytics.Spread(dates, cols[0], cols[1], ratio)
}

// MergerArb prices a deal paying shareFactor acquirer shares plus cash per
// target share, from the given date on.
func (s *Service) MergerArb(ctx context.Context, acquirer, target string, shareFactor, cash float64, from time.Time, pct bool) ([]models.MergerArbRow, error) {
	dates, cols, err := s.alignedField(ctx, []string{acquirer, target}, from, time.Time{}, "close")
	if err != nil {
		return nil, err
	}
	return analytics.MergerArb(dates, cols[0], cols[1], shareFactor, cash, pct)
}

// CorrelationMatrix correlates daily log returns over roughly the last lbk
// sessions.
func (s *Service) CorrelationMatrix(ctx context.Context, syms []string, lbk int) (*models.CorrelationMatrix, error) {
	from, err := s.since(lbk + 2)
	if err != nil {
		return nil, err
	}
	_, cols, err := s.alignedField(ctx, syms, from, time.Time{}, "close")
	if err != nil {
		return nil, err
	}
	m, n, err := analytics.CorrelationMatrix(cols)
	if err != nil {
		return nil, err
	}
	return &models.CorrelationMatrix{Symbols: syms, Matrix: m, N: n}, nil
}

// CumulativeReturns compounds the daily returns of field between from and to.
func (s *Service) CumulativeReturns(ctx context.Context, sym string, from, to time.Time, field string) ([]models.Point, error) {
	dates, cols, err := s.alignedField(ctx, []string{sym}, from, to, field)
	if err != nil {
		return nil, err
	}
	return datedPoints(dates, analytics.CumulativeReturns(cols[0])), nil
}

// Basket values a buy-and-hold portfolio of syms with the given weights,
// bought at the first common close on or after from.
func (s *Service) Basket(ctx context.Context, syms []string, weights []float64, from time.Time, field string) ([]models.Point, error) {
	if len(syms) != len(weights) {
		return nil, fmt.Errorf("basket: %d symbols but %d weights", len(syms), len(weights))
	}
	dates, cols, err := s.alignedField(ctx, syms, from, time.Time{}, field)
	if err != nil {
		return nil, err
	}
	vals, err := analytics.BuyAndHold(cols, weights)
	if err != nil {
		return nil, err
	}
	return datedPoints(dates, vals), nil
}

// DividendHistory is the dividend per share at each ex-date, oldest first,
// limited to the last years when years > 0.
func (s *Service) DividendHistory(ctx context.Context, sym string, years int) ([]models.Point, error) {
	divs, err := s.fmp.Dividends(ctx, sym)
	if err != nil {
		return nil, err
	}
	if len(divs) == 0 {
		return nil, fmt.Errorf("%s: no dividends: %w", sym, ErrNotFound)
	}

	pts := make([]models.Point, 0, len(divs))
	for _, d := range divs {
		t, err := models.ParseDate(d.Date)
		if err != nil {
			continue
		}
		pts = append(pts, models.Point{Date: t, Value: d.Dividend})
	}
	if years <= 0 {
		return pts, nil
	}
	return calendar.SliceYears(pts, func(p models.Point) time.Time { return p.Date }, years)
}

func (s *Service) alignedField(ctx context.Context, syms []string, from, to time.Time, field string) ([]string, [][]float64, error) {
	if len(syms) == 0 {
		return nil, nil, errors.New("no symbols given")
	}
	if len(syms) > MaxMultiSymbols {
		return nil, nil, fmt.Errorf("at most %d symbols per request, got %d", MaxMultiSymbols, len(syms))
	}
	pick, err := analytics.PriceField(field)
	if err != nil {
		return nil, nil, err
	}

	series := make([][]models.PriceBar, len(syms))
	for i, sym := range syms {
		bars, err := s.fmp.HistoricalPrices(ctx, sym, from, to)
		if err != nil {
			return nil, nil, err
		}
		if len(bars) == 0 {
			return nil, nil, fmt.Errorf("%s: %w", sym, ErrNotFound)
		}
		series[i] = bars
	}

	dates, cols := analytics.AlignMany(series, pick)
	if len(dates) == 0 {
		return nil, nil, fmt.Errorf("%s: no common dates: %w", strings.Join(syms, ","), ErrNotFound)
	}
	return dates, cols, nil
}

func datedPoints(dates []string, vals []float64) []models.Point {
	out := make([]models.Point, 0, len(dates))
	for i, d := range dates {
		t, err := models.ParseDate(d)
		if err != nil {
			continue
		}
		out = append(out, models.Point{Date: t, Value: vals[i]})
	}
	return out
}
