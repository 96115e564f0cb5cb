package api

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kjannette/fmp-backend/internal/analytics"
	"github.com/kjannette/fmp-backend/internal/calendar"
	"github.com/kjannette/fmp-backend/internal/models"
	"github.com/kjannette/fmp-backend/internal/symbols"
)

// maxBasketBytes caps a pasted weights sheet.
const maxBasketBytes = 64 << 10

// --- multi-symbol ---

// handlePriceTable serves one price field for several symbols on their
// common dates. field defaults to adjClose.
func (s *Server) handlePriceTable(w http.ResponseWriter, r *http.Request) {
	syms := listParam(r, "symbols")
	if len(syms) == 0 {
		writeError(w, http.StatusBadRequest, "symbols is required")
		return
	}
	from, to, ok := dateRange(w, r)
	if !ok {
		return
	}
	table, err := s.research.PriceTable(r.Context(), syms, from, to, fieldParam(r, "adjClose"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

// handleSpread tracks summed returns of long minus short, or long over
// short with ratio=true.
func (s *Server) handleSpread(w http.ResponseWriter, r *http.Request) {
	long := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("long")))
	short := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("short")))
	if long == "" || short == "" {
		writeError(w, http.StatusBadRequest, "long and short are required")
		return
	}
	from, to, ok := dateRange(w, r)
	if !ok {
		return
	}
	ratio, err := parseBool(r, "ratio", false)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pts, err := s.research.Spread(r.Context(), long, short, from, to, ratio)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pts)
}

func (s *Server) handleMergerArb(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	acquirer := strings.ToUpper(strings.TrimSpace(q.Get("acquirer")))
	target := strings.ToUpper(strings.TrimSpace(q.Get("target")))
	if acquirer == "" || target == "" {
		writeError(w, http.StatusBadRequest, "acquirer and target are required")
		return
	}
	shareFactor, err := parseFloat(r, "shareFactor", 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cash, err := parseFloat(r, "cash", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pct, err := parseBool(r, "pct", true)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	from, err := parseDate(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := s.research.MergerArb(r.Context(), acquirer, target, shareFactor, cash, from, pct)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleCorrelationMatrix(w http.ResponseWriter, r *http.Request) {
	syms := listParam(r, "symbols")
	if len(syms) < 2 {
		writeError(w, http.StatusBadRequest, "symbols needs at least two tickers")
		return
	}
	m, err := s.research.CorrelationMatrix(r.Context(), syms, parseInt(r, "lookback", analytics.DefaultCorrLookback, 5000))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleBasket values a buy-and-hold basket. The body is a pasted two-column
// sheet of "SYMBOL weight%" lines.
func (s *Server) handleBasket(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBasketBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}
	syms, weights, err := symbols.ParseWeights(string(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(syms) == 0 {
		writeError(w, http.StatusBadRequest, "body has no weights")
		return
	}
	from, err := parseDate(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pts, err := s.research.Basket(r.Context(), symbols.Normalize(syms), weights, from, fieldParam(r, "adjClose"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pts)
}

func (s *Server) handleDividendHistory(w http.ResponseWriter, r *http.Request) {
	pts, err := s.research.DividendHistory(r.Context(), symbolParam(r), parseInt(r, "years", 0, 100))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pts)
}

func (s *Server) handleCumulativeReturns(w http.ResponseWriter, r *http.Request) {
	from, to, ok := dateRange(w, r)
	if !ok {
		return
	}
	pts, err := s.research.CumulativeReturns(r.Context(), symbolParam(r), from, to, fieldParam(r, "close"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pts)
}

// --- calendar ---

func (s *Server) handleHolidays(w http.ResponseWriter, r *http.Request) {
	year := parseInt(r, "year", time.Now().Year(), 9999)
	days := calendar.Holidays(year)
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.Format(models.DateLayout)
	}
	writeJSON(w, http.StatusOK, map[string]any{"year": year, "holidays": out})
}

// handleTradingDay reports the YTD lookback for date, today by default.
func (s *Server) handleTradingDay(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if date.IsZero() {
		date = time.Now()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":       date.Format(models.DateLayout),
		"tradingDay": calendar.TradingDayOfYear(date),
	})
}

// dateRange reads from and to, writing a 400 when either is malformed.
func dateRange(w http.ResponseWriter, r *http.Request) (from, to time.Time, ok bool) {
	from, err := parseDate(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return from, to, false
	}
	to, err = parseDate(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return from, to, false
	}
	return from, to, true
}

func fieldParam(r *http.Request, deflt string) string {
	if f := r.URL.Query().Get("field"); f != "" {
		return f
	}
	return deflt
}
