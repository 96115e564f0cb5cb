package analytics

import (
	"sort"

	"github.com/kjannette/fmp-backend/internal/format"
	"github.com/kjannette/fmp-backend/internal/models"
)

// Cash-flow statement fields consumed by ShareholderYield.
var ShareholderYieldFields = []string{"commonStockIssued", "commonStockRepurchased", "dividendsPaid"}

// ShareholderYield computes trailing-four-quarter dividend, buyback and total
// shareholder yield. cashflows must be quarterly and ascending; shares are
// enterprise-value rows carrying numberOfShares. Market cap on a statement
// date uses the share count and close in effect on that date. Quarters
// without a full four-quarter window or a market cap are skipped, as are
// windows where any quarter lacks one of the cash-flow fields.
func ShareholderYield(cashflows, shares []models.Record, bars []models.PriceBar) []models.ShareholderYieldRow {
	var out []models.ShareholderYieldRow
	for i := 3; i < len(cashflows); i++ {
		sums, ok := rollingSums(cashflows[i-3:i+1], ShareholderYieldFields)
		if !ok {
			continue
		}
		issued, repurchased, paid := sums[0], sums[1], sums[2]

		date := cashflows[i].Date()
		n, ok := recordAsOf(shares, date, "numberOfShares")
		if !ok {
			continue
		}
		c, ok := closeAsOf(bars, date)
		if !ok {
			continue
		}
		mc := n * c
		if mc == 0 {
			continue
		}

		div := -paid / mc
		bb := (-repurchased - issued) / mc
		out = append(out, models.ShareholderYieldRow{
			Date:                   date,
			CommonStockIssued:      issued,
			CommonStockRepurchased: repurchased,
			DividendsPaid:          paid,
			MktCap:                 mc,
			DivYield:               div,
			BBYield:                bb,
			SHYield:                format.Round(div+bb, 4),
		})
	}
	return out
}

// MarketCap is numberOfShares times close for every bar on or after the
// first share count, carrying the latest share count forward.
func MarketCap(shares []models.Record, bars []models.PriceBar) []models.Point {
	var out []models.Point
	for _, b := range bars {
		n, ok := recordAsOf(shares, b.Date, "numberOfShares")
		if !ok {
			continue
		}
		t, err := b.Time()
		if err != nil {
			continue
		}
		out = append(out, models.Point{Date: t, Value: n * b.Close})
	}
	return out
}

// rollingSums totals each field across rows. It fails when any row lacks a
// field.
func rollingSums(rows []models.Record, fields []string) ([]float64, bool) {
	sums := make([]float64, len(fields))
	for _, r := range rows {
		for k, f := range fields {
			v, ok := r.Float(f)
			if !ok {
				return nil, false
			}
			sums[k] += v
		}
	}
	return sums, true
}

// recordAsOf returns field from the last ascending row dated on or before date.
func recordAsOf(rows []models.Record, date, field string) (float64, bool) {
	i := sort.Search(len(rows), func(i int) bool { return rows[i].Date() > date })
	for i--; i >= 0; i-- {
		if v, ok := rows[i].Float(field); ok {
			return v, true
		}
	}
	return 0, false
}

func closeAsOf(bars []models.PriceBar, date string) (float64, bool) {
	i := sort.Search(len(bars), func(i int) bool { return bars[i].Date > date })
	if i == 0 {
		return 0, false
	}
	return bars[i-1].Close, true
}
