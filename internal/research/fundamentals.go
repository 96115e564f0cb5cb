package research

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kjannette/fmp-backend/internal/analytics"
	"github.com/kjannette/fmp-backend/internal/external"
	"github.com/kjannette/fmp-backend/internal/format"
	"github.com/kjannette/fmp-backend/internal/models"
)

// DividendYields returns the dividend history with trailing and current
// yields priced at each ex-date close.
func (s *Service) DividendYields(ctx context.Context, sym string) ([]models.DividendYield, error) {
	divs, err := s.fmp.Dividends(ctx, sym)
	if err != nil {
		return nil, err
	}
	if len(divs) == 0 {
		return nil, nil
	}

	from, err := models.ParseDate(divs[0].Date)
	if err != nil {
		return nil, fmt.Errorf("dividend date %q: %w", divs[0].Date, err)
	}
	bars, err := s.fmp.HistoricalPrices(ctx, sym, from, time.Time{})
	if err != nil {
		return nil, err
	}
	return analytics.DividendYields(divs, analytics.CloseMap(bars)), nil
}

// ShareholderYield returns the last quarters of trailing shareholder yield.
func (s *Service) ShareholderYield(ctx context.Context, sym string, quarters int) ([]models.ShareholderYieldRow, error) {
	cf, err := s.fmp.Statement(ctx, external.CashFlow, sym, "quarter", analytics.ShareholderYieldFields...)
	if err != nil {
		return nil, err
	}
	if len(cf) == 0 {
		return nil, nil
	}
	shares, err := s.fmp.Statement(ctx, external.EnterpriseValues, sym, "quarter", "numberOfShares")
	if err != nil {
		return nil, err
	}
	from, err := models.ParseDate(cf[0].Date())
	if err != nil {
		return nil, fmt.Errorf("statement date %q: %w", cf[0].Date(), err)
	}
	bars, err := s.fmp.HistoricalPrices(ctx, sym, from.AddDate(0, 0, -7), time.Time{})
	if err != nil {
		return nil, err
	}

	rows := analytics.ShareholderYield(cf, shares, bars)
	if quarters > 0 && len(rows) > quarters {
		rows = rows[len(rows)-quarters:]
	}
	return rows, nil
}

// MarketCap is the daily market cap series implied by reported share counts.
func (s *Service) MarketCap(ctx context.Context, sym string) ([]models.Point, error) {
	shares, err := s.fmp.Statement(ctx, external.EnterpriseValues, sym, "quarter", "numberOfShares")
	if err != nil {
		return nil, err
	}
	if len(shares) == 0 {
		return nil, nil
	}
	from, err := models.ParseDate(shares[0].Date())
	if err != nil {
		return nil, err
	}
	bars, err := s.fmp.HistoricalPrices(ctx, sym, from, time.Time{})
	if err != nil {
		return nil, err
	}
	return analytics.MarketCap(shares, bars), nil
}

func (s *Service) GrossCap(ctx context.Context, sym string) ([]models.Point, error) {
	income, err := s.fmp.Statement(ctx, external.IncomeStatement, sym, "quarter", "revenue")
	if err != nil {
		return nil, err
	}
	ev, err := s.fmp.Statement(ctx, external.EnterpriseValues, sym, "quarter", "enterpriseValue")
	if err != nil {
		return nil, err
	}
	return analytics.GrossCap(income, ev), nil
}

func (s *Service) Efficiency(ctx context.Context, sym string) ([]models.Point, error) {
	income, err := s.fmp.Statement(ctx, external.IncomeStatement, sym, "quarter", "revenue", "operatingIncome")
	if err != nil {
		return nil, err
	}
	return analytics.Efficiency(income), nil
}

// Peers returns sym and its FMP peers with market cap in millions, largest
// first.
func (s *Service) Peers(ctx context.Context, sym string) ([]models.Peer, error) {
	peers, err := s.fmp.Peers(ctx, sym)
	if err != nil {
		return nil, err
	}
	profiles, err := s.fmp.Profiles(ctx, append([]string{sym}, peers...))
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("%s: %w", sym, ErrNotFound)
	}

	out := make([]models.Peer, 0, len(profiles))
	for _, p := range profiles {
		mc, _ := p.Float("mktCap")
		out = append(out, models.Peer{
			Symbol:            p.String("symbol"),
			CompanyName:       p.String("companyName"),
			MktCapM:           format.Millions(mc, 2),
			Sector:            p.String("sector"),
			Industry:          p.String("industry"),
			Country:           p.String("country"),
			ExchangeShortName: p.String("exchangeShortName"),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MktCapM > out[j].MktCapM })
	return out, nil
}

// Form13F returns the n largest positions of an institution's filing.
func (s *Service) Form13F(ctx context.Context, cik string, date time.Time, n int) ([]models.Holding13F, error) {
	h, err := s.fmp.Form13F(ctx, cik, date)
	if err != nil {
		return nil, err
	}
	return analytics.WeightHoldings(h, n), nil
}

// ETFHoldings returns an ETF's constituents tagged with their ISIN country.
func (s *Service) ETFHoldings(ctx context.Context, sym string) ([]models.ETFHolding, error) {
	h, err := s.fmp.ETFHolders(ctx, sym)
	if err != nil {
		return nil, err
	}
	return analytics.TagETFCountries(h), nil
}

func (s *Service) SharesFloat(ctx context.Context, sym string) (*models.ShareFloat, error) {
	f, err := s.fmp.SharesFloat(ctx, sym)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("%s: %w", sym, ErrNotFound)
	}
	f.FloatRatio = analytics.FloatRatio(f.FloatShares, f.OutstandingShares)
	return f, nil
}

// NextEarnings returns the next scheduled report date among the five most
// recent calendar entries, or "NA".
func (s *Service) NextEarnings(ctx context.Context, sym string) (string, error) {
	events, err := s.fmp.EarningsHistory(ctx, sym)
	if err != nil {
		return "", err
	}
	return analytics.NextEarningsDate(analytics.RecentEarnings(events, 5)), nil
}
