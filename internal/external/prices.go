package external

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/kjannette/fmp-backend/internal/models"
)

// IntradayPeriods are the bar sizes Intraday accepts. "1day" is served from
// the daily history endpoint.
var IntradayPeriods = []string{"1min", "5min", "15min", "30min", "1hour", "4hour", "1day"}

type historicalResponse struct {
	Symbol     string            `json:"symbol"`
	Historical []models.PriceBar `json:"historical"`
}

// HistoricalPrices returns daily bars between from and to (inclusive),
// oldest first. Zero times leave the range open.
func (c *FMPClient) HistoricalPrices(ctx context.Context, sym string, from, to time.Time) ([]models.PriceBar, error) {
	q := url.Values{}
	if !from.IsZero() {
		q.Set("from", from.Format(models.DateLayout))
	}
	if !to.IsZero() {
		q.Set("to", to.Format(models.DateLayout))
	}

	var resp historicalResponse
	if err := c.get(ctx, "v3", "historical-price-full/"+symbol(sym), q, &resp); err != nil {
		return nil, err
	}
	return sortBars(resp.Historical), nil
}

// Intraday returns bars of the given period, oldest first.
func (c *FMPClient) Intraday(ctx context.Context, sym, period string) ([]models.PriceBar, error) {
	if !validPeriod(period) {
		return nil, fmt.Errorf("invalid period %q: expected one of %v", period, IntradayPeriods)
	}

	if period == "1day" {
		return c.HistoricalPrices(ctx, sym, time.Time{}, time.Time{})
	}

	var bars []models.PriceBar
	if err := c.get(ctx, "v3", "historical-chart/"+period+"/"+symbol(sym), nil, &bars); err != nil {
		return nil, err
	}
	return sortBars(bars), nil
}

// LastCloses returns the last n daily closes, oldest first. Only Date and
// Close are populated.
func (c *FMPClient) LastCloses(ctx context.Context, sym string, n int) ([]models.PriceBar, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid lookback %d", n)
	}
	q := url.Values{}
	q.Set("serietype", "line")
	q.Set("timeseries", strconv.Itoa(n))

	var resp historicalResponse
	if err := c.get(ctx, "v3", "historical-price-full/"+symbol(sym), q, &resp); err != nil {
		return nil, err
	}
	return sortBars(resp.Historical), nil
}

// QuoteShort returns the real-time price and volume. It returns nil when FMP
// knows no such symbol.
func (c *FMPClient) QuoteShort(ctx context.Context, sym string) (*models.Quote, error) {
	var quotes []models.Quote
	if err := c.get(ctx, "v3", "quote-short/"+symbol(sym), nil, &quotes); err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, nil
	}
	return &quotes[0], nil
}

func validPeriod(p string) bool {
	for _, v := range IntradayPeriods {
		if p == v {
			return true
		}
	}
	return false
}

func sortBars(bars []models.PriceBar) []models.PriceBar {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date < bars[j].Date })
	return bars
}
