package research

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/kjannette/fmp-backend/internal/analytics"
	"github.com/kjannette/fmp-backend/internal/format"
	"github.com/kjannette/fmp-backend/internal/models"
)

// RSI is the latest RSI over a short recent window, which is how the
// watchlist reads it.
func (s *Service) RSI(ctx context.Context, sym string, periods int) (float64, error) {
	from, err := s.since(periods + 5)
	if err != nil {
		return 0, err
	}
	bars, err := s.fmp.HistoricalPrices(ctx, sym, from, time.Time{})
	if err != nil {
		return 0, err
	}
	v, err := analytics.LatestRSI(analytics.Closes(bars), periods)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", sym, err)
	}
	return v, nil
}

// RSISeries returns the full RSI history since from, 2 places.
func (s *Service) RSISeries(ctx context.Context, sym string, periods int, from time.Time) ([]models.Point, error) {
	bars, err := s.fmp.HistoricalPrices(ctx, sym, from, time.Time{})
	if err != nil {
		return nil, err
	}
	rsi := analytics.RSI(analytics.Closes(bars), periods)

	var out []models.Point
	for i, b := range bars {
		if math.IsNaN(rsi[i]) {
			continue
		}
		t, err := b.Time()
		if err != nil {
			continue
		}
		out = append(out, models.Point{Date: t, Value: format.Round(rsi[i], 2)})
	}
	return out, nil
}

func (s *Service) Stochastic(ctx context.Context, sym string, length, smooth int) (float64, error) {
	from, err := s.since(length + smooth + 3)
	if err != nil {
		return 0, err
	}
	bars, err := s.fmp.HistoricalPrices(ctx, sym, from, time.Time{})
	if err != nil {
		return 0, err
	}
	v, err := analytics.LatestStochastic(bars, length, smooth)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", sym, err)
	}
	return v, nil
}

// Pivots labels swing highs and lows in the daily closes since from.
func (s *Service) Pivots(ctx context.Context, sym string, from time.Time) ([]models.Pivot, error) {
	bars, err := s.fmp.HistoricalPrices(ctx, sym, from, time.Time{})
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: %w", sym, ErrNotFound)
	}
	dates := make([]string, len(bars))
	for i, b := range bars {
		dates[i] = b.Date
	}
	return analytics.Pivots(dates, analytics.Closes(bars))
}

// HistVol is the annualised volatility of the last lbk closes.
func (s *Service) HistVol(ctx context.Context, sym string, lbk int) (float64, error) {
	bars, err := s.fmp.LastCloses(ctx, sym, lbk)
	if err != nil {
		return 0, err
	}
	return analytics.HistVol(analytics.Closes(bars), lbk)
}

// Beta of sym against market over the last lbk daily returns.
func (s *Service) Beta(ctx context.Context, sym, market string, lbk int) (float64, error) {
	_, asset, mkt, err := s.alignedCloses(ctx, sym, market, lbk+1)
	if err != nil {
		return 0, err
	}
	return analytics.Beta(asset, mkt, lbk)
}

// Correlation of the daily log returns of a and b over lbk closes.
func (s *Service) Correlation(ctx context.Context, a, b string, lbk int) (float64, error) {
	_, x, y, err := s.alignedCloses(ctx, a, b, lbk)
	if err != nil {
		return 0, err
	}
	return analytics.Correlation(x, y)
}

// Regression regresses b on a over the closes between from and to, on daily
// log returns when returns is set and on price levels otherwise.
func (s *Service) Regression(ctx context.Context, a, b string, from, to time.Time, returns bool) (models.Regression, error) {
	barsA, err := s.fmp.HistoricalPrices(ctx, a, from, to)
	if err != nil {
		return models.Regression{}, err
	}
	barsB, err := s.fmp.HistoricalPrices(ctx, b, from, to)
	if err != nil {
		return models.Regression{}, err
	}
	_, x, y := analytics.Align(barsA, barsB)
	if returns {
		x, y = analytics.LogReturns(x), analytics.LogReturns(y)
	}
	return analytics.LinearRegression(x, y)
}

// SymbolCAGR is the compound annual growth of the close over the last years.
func (s *Service) SymbolCAGR(ctx context.Context, sym string, years int) (*float64, error) {
	from := s.now().AddDate(-years, 0, 0)
	bars, err := s.fmp.HistoricalPrices(ctx, sym, from, time.Time{})
	if err != nil {
		return nil, err
	}
	pts := make([]models.Point, 0, len(bars))
	for _, b := range bars {
		t, err := b.Time()
		if err != nil {
			continue
		}
		pts = append(pts, models.Point{Date: t, Value: b.Close})
	}
	return analytics.CAGRSeries(pts), nil
}

func (s *Service) alignedCloses(ctx context.Context, a, b string, n int) ([]string, []float64, []float64, error) {
	barsA, err := s.fmp.LastCloses(ctx, a, n)
	if err != nil {
		return nil, nil, nil, err
	}
	barsB, err := s.fmp.LastCloses(ctx, b, n)
	if err != nil {
		return nil, nil, nil, err
	}
	dates, x, y := analytics.Align(barsA, barsB)
	return dates, x, y, nil
}
