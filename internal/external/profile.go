package external

import (
	"context"

	"github.com/kjannette/fmp-backend/internal/models"
	"github.com/kjannette/fmp-backend/internal/symbols"
)

// ProfileFields is the order the profile table displays fields in.
var ProfileFields = []string{
	"symbol", "companyName", "price", "beta", "volAvg", "mktCap", "lastDiv",
	"changes", "currency", "cik", "isin", "cusip", "exchangeShortName",
	"industry", "sector", "country", "ipoDate", "isEtf", "isActivelyTrading",
	"description",
}

// Profile returns the company profile, or nil when FMP has none.
func (c *FMPClient) Profile(ctx context.Context, sym string) (models.Record, error) {
	var rows []models.Record
	if err := c.get(ctx, "v3", "profile/"+symbol(sym), nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Profiles fetches several profiles in one call. Symbols are escaped one by
// one so the separating commas go out literally.
func (c *FMPClient) Profiles(ctx context.Context, syms []string) ([]models.Record, error) {
	segs := make([]string, 0, len(syms))
	for _, s := range symbols.Normalize(syms) {
		segs = append(segs, seg(s))
	}

	var rows []models.Record
	if err := c.get(ctx, "v3", "profile/"+symbols.Join(segs), nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Peers returns FMP's peer list for sym, not including sym itself.
func (c *FMPClient) Peers(ctx context.Context, sym string) ([]string, error) {
	var rows []struct {
		Symbol    string   `json:"symbol"`
		PeersList []string `json:"peersList"`
	}
	if err := c.get(ctx, "v4", "stock_peers", symbolQuery(sym), &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].PeersList, nil
}

// SharesFloat returns the latest float record, or nil when there is none.
func (c *FMPClient) SharesFloat(ctx context.Context, sym string) (*models.ShareFloat, error) {
	var rows []models.ShareFloat
	if err := c.get(ctx, "v4", "shares_float", symbolQuery(sym), &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
