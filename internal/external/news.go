package external

import (
	"context"
	"net/url"
	"strconv"

	"github.com/kjannette/fmp-backend/internal/models"
	"github.com/kjannette/fmp-backend/internal/symbols"
)

// StockNews returns the latest articles for the given tickers, or the
// general market feed when tickers is empty.
func (c *FMPClient) StockNews(ctx context.Context, tickers []string, limit int) ([]models.NewsItem, error) {
	q := url.Values{}
	if len(tickers) > 0 {
		q.Set("tickers", symbols.Join(symbols.Normalize(tickers)))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var rows []models.NewsItem
	if err := c.get(ctx, "v3", "stock_news", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// SECFilings returns the first page of EDGAR filings, newest first.
func (c *FMPClient) SECFilings(ctx context.Context, sym string, limit int) ([]models.Filing, error) {
	q := url.Values{}
	q.Set("page", "0")
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var rows []models.Filing
	if err := c.get(ctx, "v3", "sec_filings/"+symbol(sym), q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
