package external

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/kjannette/fmp-backend/internal/models"
)

// Search matches term against symbols and company names.
func (c *FMPClient) Search(ctx context.Context, term string, limit int) ([]models.SearchResult, error) {
	return c.search(ctx, "search", term, limit)
}

// SearchTicker matches term against symbols only.
func (c *FMPClient) SearchTicker(ctx context.Context, term string, limit int) ([]models.SearchResult, error) {
	return c.search(ctx, "search-ticker", term, limit)
}

func (c *FMPClient) search(ctx context.Context, path, term string, limit int) ([]models.SearchResult, error) {
	q := url.Values{}
	q.Set("query", strings.TrimSpace(term))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var rows []models.SearchResult
	if err := c.get(ctx, "v3", path, q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// CIKSearch finds SEC filers whose name matches.
func (c *FMPClient) CIKSearch(ctx context.Context, name string) ([]models.CIKMatch, error) {
	var rows []models.CIKMatch
	if err := c.get(ctx, "v3", "cik-search/"+seg(strings.TrimSpace(name)), nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// CIKName returns the filer name for a CIK, or "" when unknown.
func (c *FMPClient) CIKName(ctx context.Context, cik string) (string, error) {
	var rows []models.CIKMatch
	if err := c.get(ctx, "v3", "cik/"+seg(strings.TrimSpace(cik)), nil, &rows); err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].Name, nil
}

func symbolQuery(sym string) url.Values {
	q := url.Values{}
	q.Set("symbol", strings.ToUpper(strings.TrimSpace(sym)))
	return q
}
