package external

import (
	"context"
	"net/url"
	"sort"

	"github.com/kjannette/fmp-backend/internal/models"
)

// ScreenerFilter narrows the stock screener. Empty fields are not sent.
type ScreenerFilter struct {
	Sector   string
	Industry string
	Country  string
	Exchange string
}

func (f ScreenerFilter) values() url.Values {
	q := url.Values{}
	for k, v := range map[string]string{
		"sector":   f.Sector,
		"industry": f.Industry,
		"country":  f.Country,
		"exchange": f.Exchange,
	} {
		if v != "" {
			q.Set(k, v)
		}
	}
	return q
}

func (c *FMPClient) Sectors(ctx context.Context) ([]string, error) {
	var sectors []string
	if err := c.get(ctx, "v3", "sectors-list", nil, &sectors); err != nil {
		return nil, err
	}
	return sectors, nil
}

// Screener returns the matching companies, largest market cap first.
func (c *FMPClient) Screener(ctx context.Context, f ScreenerFilter) ([]models.Record, error) {
	var rows []models.Record
	if err := c.get(ctx, "v3", "stock-screener", f.values(), &rows); err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, _ := rows[i].Float("marketCap")
		b, _ := rows[j].Float("marketCap")
		return a > b
	})
	return rows, nil
}

// IndustriesBySector returns the distinct industries in a sector, sorted.
func (c *FMPClient) IndustriesBySector(ctx context.Context, sector string) ([]string, error) {
	rows, err := c.Screener(ctx, ScreenerFilter{Sector: sector})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		ind := r.String("industry")
		if ind == "" || seen[ind] {
			continue
		}
		seen[ind] = true
		out = append(out, ind)
	}
	sort.Strings(out)
	return out, nil
}
