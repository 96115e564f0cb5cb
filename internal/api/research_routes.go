package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kjannette/fmp-backend/internal/analytics"
	"github.com/kjannette/fmp-backend/internal/calendar"
	"github.com/kjannette/fmp-backend/internal/external"
	"github.com/kjannette/fmp-backend/internal/models"
)

// --- fundamentals ---

// handleStatement serves one financial statement. years keeps only the rows
// within that many years of the latest.
func (s *Server) handleStatement(w http.ResponseWriter, r *http.Request) {
	kind, err := external.ParseStatementKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rows, err := s.fmp.Statement(r.Context(), kind, symbolParam(r), periodParam(r), fieldsParam(r)...)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if years := parseInt(r, "years", 0, 100); years > 0 && len(rows) > 0 {
		if rows, err = calendar.SliceYears(rows, recordTime, years); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, rows)
}

// recordTime dates a statement row. Undated rows sort before everything.
func recordTime(rec models.Record) time.Time {
	t, _ := models.ParseDate(rec.Date())
	return t
}

// handleRatios serves the historical ratios, or the trailing twelve months
// when ttm=true.
func (s *Server) handleRatios(w http.ResponseWriter, r *http.Request) {
	sym := symbolParam(r)
	if r.URL.Query().Get("ttm") == "true" {
		rec, err := s.fmp.RatiosTTM(r.Context(), sym)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if rec == nil {
			writeError(w, http.StatusNotFound, "no ratios for "+sym)
			return
		}
		writeJSON(w, http.StatusOK, rec)
		return
	}

	rows, err := s.fmp.Ratios(r.Context(), sym, periodParam(r), fieldsParam(r)...)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleKeyMetrics(w http.ResponseWriter, r *http.Request) {
	rows, err := s.fmp.KeyMetrics(r.Context(), symbolParam(r), periodParam(r), fieldsParam(r)...)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleGrowth(w http.ResponseWriter, r *http.Request) {
	rows, err := s.fmp.FinancialGrowth(r.Context(), symbolParam(r), periodParam(r), fieldsParam(r)...)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleShareholderYield(w http.ResponseWriter, r *http.Request) {
	rows, err := s.research.ShareholderYield(r.Context(), symbolParam(r), parseInt(r, "quarters", 12, 400))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleMarketCap(w http.ResponseWriter, r *http.Request) {
	pts, err := s.research.MarketCap(r.Context(), symbolParam(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pts)
}

func (s *Server) handleGrossCap(w http.ResponseWriter, r *http.Request) {
	pts, err := s.research.GrossCap(r.Context(), symbolParam(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pts)
}

func (s *Server) handleEfficiency(w http.ResponseWriter, r *http.Request) {
	pts, err := s.research.Efficiency(r.Context(), symbolParam(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pts)
}

// --- technicals ---

func (s *Server) handleRSI(w http.ResponseWriter, r *http.Request) {
	sym := symbolParam(r)
	periods := parseInt(r, "periods", analytics.DefaultRSIPeriods, 250)
	v, err := s.research.RSI(r.Context(), sym, periods)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"symbol": sym, "periods": periods, "rsi": v})
}

func (s *Server) handleRSISeries(w http.ResponseWriter, r *http.Request) {
	from, err := parseDate(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if from.IsZero() {
		writeError(w, http.StatusBadRequest, "from is required")
		return
	}
	pts, err := s.research.RSISeries(r.Context(), symbolParam(r), parseInt(r, "periods", analytics.DefaultRSIPeriods, 250), from)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pts)
}

func (s *Server) handleStochastic(w http.ResponseWriter, r *http.Request) {
	sym := symbolParam(r)
	length := parseInt(r, "length", analytics.DefaultStochasticLength, 250)
	smooth := parseInt(r, "smooth", analytics.DefaultStochasticSmooth, 50)
	v, err := s.research.Stochastic(r.Context(), sym, length, smooth)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"symbol": sym, "length": length, "smooth": smooth, "stochastic": v})
}

func (s *Server) handlePivots(w http.ResponseWriter, r *http.Request) {
	from, err := parseDate(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pivots, err := s.research.Pivots(r.Context(), symbolParam(r), from)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pivots)
}

func (s *Server) handleHistVol(w http.ResponseWriter, r *http.Request) {
	sym := symbolParam(r)
	lbk := parseInt(r, "lookback", analytics.DefaultHistVolLookback, 5000)
	v, err := s.research.HistVol(r.Context(), sym, lbk)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"symbol": sym, "lookback": lbk, "histVol": number(v)})
}

func (s *Server) handleBeta(w http.ResponseWriter, r *http.Request) {
	sym := symbolParam(r)
	market := strings.ToUpper(r.URL.Query().Get("market"))
	if market == "" {
		market = "SPY"
	}
	lbk := parseInt(r, "lookback", analytics.DefaultBetaLookback, 5000)
	v, err := s.research.Beta(r.Context(), sym, market, lbk)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"symbol": sym, "market": market, "lookback": lbk, "beta": number(v)})
}

func (s *Server) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	sym := symbolParam(r)
	other := strings.ToUpper(r.URL.Query().Get("with"))
	if other == "" {
		writeError(w, http.StatusBadRequest, "with is required")
		return
	}
	lbk := parseInt(r, "lookback", analytics.DefaultCorrLookback, 5000)
	v, err := s.research.Correlation(r.Context(), sym, other, lbk)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"symbol": sym, "with": other, "lookback": lbk, "correlation": number(v)})
}

// handleRegression regresses the symbol on the against symbol, on daily log
// returns unless returns=false.
func (s *Server) handleRegression(w http.ResponseWriter, r *http.Request) {
	against := strings.ToUpper(r.URL.Query().Get("against"))
	if against == "" {
		writeError(w, http.StatusBadRequest, "against is required")
		return
	}
	from, err := parseDate(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := parseDate(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	returns, err := parseBool(r, "returns", true)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	reg, err := s.research.Regression(r.Context(), against, symbolParam(r), from, to, returns)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reg)
}

func (s *Server) handleCAGR(w http.ResponseWriter, r *http.Request) {
	sym := symbolParam(r)
	years := parseInt(r, "years", 5, 50)
	v, err := s.research.SymbolCAGR(r.Context(), sym, years)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"symbol": sym, "years": years, "cagr": v})
}
