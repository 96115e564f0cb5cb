package external

import (
	"context"
	"fmt"
	"net/url"

	"github.com/kjannette/fmp-backend/internal/models"
)

// StatementKind names an FMP fundamentals endpoint.
type StatementKind string

const (
	BalanceSheet     StatementKind = "balance-sheet-statement"
	IncomeStatement  StatementKind = "income-statement"
	CashFlow         StatementKind = "cash-flow-statement"
	EnterpriseValues StatementKind = "enterprise-values"
)

var statementKinds = map[string]StatementKind{
	"balance":    BalanceSheet,
	"income":     IncomeStatement,
	"cashflow":   CashFlow,
	"enterprise": EnterpriseValues,
}

// ParseStatementKind accepts the short names used by the HTTP API.
func ParseStatementKind(s string) (StatementKind, error) {
	if k, ok := statementKinds[s]; ok {
		return k, nil
	}
	for _, k := range statementKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown statement %q", s)
}

// Statement returns up to 400 periods of a fundamentals statement, oldest
// first. When fields is non-empty each row keeps only those fields plus date.
func (c *FMPClient) Statement(ctx context.Context, kind StatementKind, sym, period string, fields ...string) ([]models.Record, error) {
	q := url.Values{}
	q.Set("period", statementPeriod(period))
	q.Set("limit", "400")
	return c.records(ctx, string(kind)+"/"+symbol(sym), q, fields)
}

func (c *FMPClient) Ratios(ctx context.Context, sym, period string, fields ...string) ([]models.Record, error) {
	q := url.Values{}
	q.Set("period", statementPeriod(period))
	return c.records(ctx, "ratios/"+symbol(sym), q, fields)
}

// RatiosTTM returns the trailing-twelve-month ratio snapshot, or nil.
func (c *FMPClient) RatiosTTM(ctx context.Context, sym string) (models.Record, error) {
	var rows []models.Record
	if err := c.get(ctx, "v3", "ratios-ttm/"+symbol(sym), nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (c *FMPClient) KeyMetrics(ctx context.Context, sym, period string, fields ...string) ([]models.Record, error) {
	q := url.Values{}
	q.Set("period", statementPeriod(period))
	return c.records(ctx, "key-metrics/"+symbol(sym), q, fields)
}

func (c *FMPClient) FinancialGrowth(ctx context.Context, sym, period string, fields ...string) ([]models.Record, error) {
	q := url.Values{}
	q.Set("period", statementPeriod(period))
	return c.records(ctx, "financial-growth/"+symbol(sym), q, fields)
}

func (c *FMPClient) records(ctx context.Context, path string, q url.Values, fields []string) ([]models.Record, error) {
	var rows []models.Record
	if err := c.get(ctx, "v3", path, q, &rows); err != nil {
		return nil, err
	}
	models.SortByDate(rows)

	if len(fields) == 0 {
		return rows, nil
	}
	keys := withDate(fields)
	for i, r := range rows {
		rows[i] = r.Pick(keys)
	}
	return rows, nil
}

func withDate(fields []string) []string {
	for _, f := range fields {
		if f == "date" {
			return fields
		}
	}
	return append([]string{"date"}, fields...)
}

// statementPeriod maps the accepted spellings onto FMP's "quarter"/"annual".
func statementPeriod(p string) string {
	switch p {
	case "annual", "year", "fy":
		return "annual"
	default:
		return "quarter"
	}
}
