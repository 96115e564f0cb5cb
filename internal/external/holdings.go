package external

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/kjannette/fmp-backend/internal/models"
)

// Form13F returns the holdings reported by an institution (by CIK) for the
// quarter ending on date.
func (c *FMPClient) Form13F(ctx context.Context, cik string, date time.Time) ([]models.Holding13F, error) {
	q := url.Values{}
	q.Set("date", date.Format(models.DateLayout))

	var rows []models.Holding13F
	if err := c.get(ctx, "v3", "form-thirteen/"+seg(strings.TrimSpace(cik)), q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ETFHolders returns the constituents of an ETF.
func (c *FMPClient) ETFHolders(ctx context.Context, sym string) ([]models.ETFHolding, error) {
	var rows []models.ETFHolding
	if err := c.get(ctx, "v3", "etf-holder/"+symbol(sym), nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
