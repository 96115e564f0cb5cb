package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kjannette/fmp-backend/internal/config"
	"github.com/kjannette/fmp-backend/internal/format"
	"github.com/kjannette/fmp-backend/internal/report"
	"github.com/kjannette/fmp-backend/internal/symbols"
)

func (s *Server) v1Routes(r chi.Router) {
	r.Get("/functions", s.handleFunctions)

	// Quotes and prices
	r.Get("/quote/{symbol}", s.handleQuote)
	r.Get("/snapshot/{symbol}", s.handleSnapshot)
	r.Get("/active", s.handleActive)
	r.Get("/prices", s.handlePriceTable)
	r.Get("/prices/{symbol}", s.handlePrices)
	r.Get("/intraday/{symbol}", s.handleIntraday)

	// Company
	r.Get("/profile/{symbol}", s.handleProfile)
	r.Get("/peers/{symbol}", s.handlePeers)
	r.Get("/float/{symbol}", s.handleFloat)
	r.Get("/search", s.handleSearch)
	r.Get("/cik", s.handleCIK)
	r.Get("/news", s.handleNews)
	r.Get("/filings/{symbol}", s.handleFilings)

	// Earnings and dividends
	r.Get("/earnings/calendar", s.handleEarningsCalendar)
	r.Get("/earnings/{symbol}", s.handleEarnings)
	r.Get("/earnings/{symbol}/next", s.handleNextEarnings)
	r.Get("/estimates/{symbol}", s.handleEstimates)
	r.Get("/dividends/{symbol}", s.handleDividends)
	r.Get("/dividends/{symbol}/history", s.handleDividendHistory)

	// Fundamentals
	r.Get("/statements/{kind}/{symbol}", s.handleStatement)
	r.Get("/ratios/{symbol}", s.handleRatios)
	r.Get("/key-metrics/{symbol}", s.handleKeyMetrics)
	r.Get("/growth/{symbol}", s.handleGrowth)
	r.Get("/shareholder-yield/{symbol}", s.handleShareholderYield)
	r.Get("/market-cap/{symbol}", s.handleMarketCap)
	r.Get("/gross-cap/{symbol}", s.handleGrossCap)
	r.Get("/efficiency/{symbol}", s.handleEfficiency)

	// Holdings and universe
	r.Get("/13f/{cik}", s.handleForm13F)
	r.Get("/etf-holdings/{symbol}", s.handleETFHoldings)
	r.Get("/sectors", s.handleSectors)
	r.Get("/industries", s.handleIndustries)
	r.Get("/screener", s.handleScreener)

	// Multi-symbol
	r.Get("/spread", s.handleSpread)
	r.Get("/merger-arb", s.handleMergerArb)
	r.Get("/correlation-matrix", s.handleCorrelationMatrix)
	r.Post("/basket", s.handleBasket)

	// Trading calendar
	r.Get("/calendar/holidays", s.handleHolidays)
	r.Get("/calendar/ytd", s.handleTradingDay)

	// Technicals
	r.Route("/technicals/{symbol}", func(r chi.Router) {
		r.Get("/rsi", s.handleRSI)
		r.Get("/rsi/series", s.handleRSISeries)
		r.Get("/stochastic", s.handleStochastic)
		r.Get("/pivots", s.handlePivots)
		r.Get("/histvol", s.handleHistVol)
		r.Get("/beta", s.handleBeta)
		r.Get("/correlation", s.handleCorrelation)
		r.Get("/regression", s.handleRegression)
		r.Get("/cagr", s.handleCAGR)
		r.Get("/cumret", s.handleCumulativeReturns)
	})
}

func (s *Server) handleFunctions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"functionTypes": report.FunctionTypes,
		"periods":       config.IntradayPeriods,
	})
}

// --- param helpers ---

func symbolParam(r *http.Request) string {
	return strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "symbol")))
}

// listParam splits a comma-separated query value into upper-case symbols.
func listParam(r *http.Request, key string) []string {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	return symbols.Normalize(strings.Split(v, ","))
}

// fieldsParam splits a comma-separated field list, keeping case.
func fieldsParam(r *http.Request) []string {
	v := r.URL.Query().Get("fields")
	if v == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(v, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func periodParam(r *http.Request) string {
	if p := r.URL.Query().Get("period"); p != "" {
		return p
	}
	return "annual"
}

// number renders NaN as null.
func number(v float64) *float64 {
	return format.Ptr(v)
}
