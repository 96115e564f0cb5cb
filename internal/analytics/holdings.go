package analytics

import (
	"sort"
	"strings"
	"unicode"

	"github.com/kjannette/fmp-backend/internal/format"
	"github.com/kjannette/fmp-backend/internal/models"
)

// WeightHoldings sets each 13F line's weight in basis points of the filing's
// total value and its implied price, then returns the n largest positions.
// n <= 0 keeps every line.
func WeightHoldings(holdings []models.Holding13F, n int) []models.Holding13F {
	out := append([]models.Holding13F(nil), holdings...)

	total := 0.0
	for _, h := range out {
		total += h.Value
	}
	for i := range out {
		if total != 0 {
			out[i].Bps = int(format.Round(out[i].Value/total*10000, 0))
		}
		if out[i].Shares != 0 {
			out[i].Px = format.Round(out[i].Value/out[i].Shares, 2)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Bps > out[j].Bps })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ISINCountry returns the country prefix of an ISIN: the leading run of
// letters ("US0378331005" -> "US").
func ISINCountry(isin string) string {
	if i := strings.IndexFunc(isin, func(r rune) bool { return !unicode.IsLetter(r) }); i >= 0 {
		return isin[:i]
	}
	return isin
}

// TagETFCountries fills Country on every holding from its ISIN.
func TagETFCountries(holdings []models.ETFHolding) []models.ETFHolding {
	out := append([]models.ETFHolding(nil), holdings...)
	for i := range out {
		out[i].Country = ISINCountry(out[i].ISIN)
	}
	return out
}

// FloatRatio is float over outstanding shares, 3 places.
func FloatRatio(float, outstanding float64) float64 {
	if outstanding == 0 {
		return 0
	}
	return format.Round(float/outstanding, 3)
}

// ETFTickers lists the holding symbols in order.
func ETFTickers(holdings []models.ETFHolding) []string {
	out := make([]string, 0, len(holdings))
	for _, h := range holdings {
		out = append(out, h.Asset)
	}
	return out
}
