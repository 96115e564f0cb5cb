package external

import (
	"context"
	"sort"

	"github.com/kjannette/fmp-backend/internal/models"
)

// Dividends returns the dividend history, oldest ex-date first.
func (c *FMPClient) Dividends(ctx context.Context, sym string) ([]models.Dividend, error) {
	var resp struct {
		Symbol     string            `json:"symbol"`
		Historical []models.Dividend `json:"historical"`
	}
	if err := c.get(ctx, "v3", "historical-price-full/stock_dividend/"+symbol(sym), nil, &resp); err != nil {
		return nil, err
	}
	divs := resp.Historical
	sort.SliceStable(divs, func(i, j int) bool { return divs[i].Date < divs[j].Date })
	return divs, nil
}
