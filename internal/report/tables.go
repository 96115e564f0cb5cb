package report

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/kjannette/fmp-backend/internal/analytics"
	"github.com/kjannette/fmp-backend/internal/external"
	"github.com/kjannette/fmp-backend/internal/format"
)

const (
	earningsRows  = 5
	dividendsRows = 10
)

func (b *Builder) Intraday(ctx context.Context, sym, period string) (*Report, error) {
	bars, err := b.fmp.Intraday(ctx, sym, period)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, noIntraday
	}

	t := format.Table{Headers: []string{"date", "open", "high", "low", "close", "volume"}}
	for _, bar := range bars {
		t.Rows = append(t.Rows, []string{
			bar.Date,
			price3(bar.Open),
			price3(bar.High),
			price3(bar.Low),
			price3(bar.Close),
			format.Commas(bar.Volume),
		})
	}
	return &Report{Table: t.Render(), Rows: bars}, nil
}

func (b *Builder) Profile(ctx context.Context, sym string) (*Report, error) {
	p, err := b.fmp.Profile(ctx, sym)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, noProfile
	}

	t := format.Table{Headers: []string{"Field", "Value"}}
	for _, k := range external.ProfileFields {
		if k == "description" {
			continue
		}
		v := p.String(k)
		if k == "mktCap" {
			if mc, ok := p.Float(k); ok {
				v = format.Commas(mc)
			}
		}
		t.Rows = append(t.Rows, []string{k, v})
	}
	return &Report{
		Table:       t.Render(),
		Rows:        p.Pick(external.ProfileFields),
		Description: p.String("description"),
	}, nil
}

func (b *Builder) Search(ctx context.Context, term string) (*Report, error) {
	res, err := b.fmp.Search(ctx, term, b.opts.SearchLimit)
	if err != nil {
		return nil, err
	}
	if len(res) == 0 {
		return nil, noSearch
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Name < res[j].Name })

	t := format.Table{Headers: []string{"symbol", "name"}}
	for _, r := range res {
		t.Rows = append(t.Rows, []string{r.Symbol, r.Name})
	}
	return &Report{Table: t.Render(), Rows: res}, nil
}

func (b *Builder) Earnings(ctx context.Context, sym string) (*Report, error) {
	events, err := b.fmp.EarningsHistory(ctx, sym)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, noEarnings
	}
	events = analytics.RecentEarnings(events, earningsRows)

	t := format.Table{Headers: []string{"", "date", "time", "eps", "epsEst", "rev (mil)", "revEst (mil)", "fiscal", "updated"}}
	for i, e := range events {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(i),
			e.Date,
			e.Time,
			optional(e.EPS),
			optional(e.EPSEstimated),
			revenueMillions(e.Revenue),
			revenueMillions(e.RevenueEstimated),
			e.FiscalDateEnding,
			e.UpdatedFromDate,
		})
	}
	return &Report{Table: t.Render(), Rows: events}, nil
}

func (b *Builder) Dividends(ctx context.Context, sym string) (*Report, error) {
	rows, err := b.research.DividendYields(ctx, sym)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, noDividends
	}
	if len(rows) > dividendsRows {
		rows = rows[len(rows)-dividendsRows:]
	}

	t := format.Table{Headers: []string{"exDate", "dividend", "recDate", "payDate", "decDate", "trail", "close", "yieldttm", "yield"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			format.DateMDY(r.ExDate),
			format.Float(r.Dividend),
			format.DateMDY(r.RecordDate),
			format.DateMDY(r.PaymentDate),
			format.DateMDY(r.DeclarationDate),
			format.Float(r.Trail),
			optional(r.Close),
			optional(r.TrailYield),
			optional(r.CurYield),
		})
	}
	return &Report{Table: t.Render(), Rows: rows}, nil
}

func price3(v float64) string {
	return fmt.Sprintf("%.3f", format.Round(v, 3))
}

func optional(v *float64) string {
	if v == nil {
		return ""
	}
	return format.Float(*v)
}

// revenueMillions shows revenue in whole millions; missing values read 0.
func revenueMillions(v *float64) string {
	if v == nil {
		return "0"
	}
	return format.Commas(format.Millions(*v, 0))
}
