package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kjannette/fmp-backend/internal/analytics"
	"github.com/kjannette/fmp-backend/internal/external"
	"github.com/kjannette/fmp-backend/internal/symbols"
)

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	q, err := s.research.Quote(r.Context(), symbolParam(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.research.Snapshot(r.Context(), symbolParam(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleActive(w http.ResponseWriter, r *http.Request) {
	syms := listParam(r, "symbols")
	if len(syms) == 0 {
		writeError(w, http.StatusBadRequest, "symbols is required")
		return
	}
	rows, err := s.research.ActiveStatus(r.Context(), syms)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
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
	bars, err := s.fmp.HistoricalPrices(r.Context(), symbolParam(r), from, to)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bars)
}

func (s *Server) handleIntraday(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "30min"
	}
	bars, err := s.fmp.Intraday(r.Context(), symbolParam(r), period)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bars)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	sym := symbolParam(r)
	p, err := s.fmp.Profile(r.Context(), sym)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "no profile for "+sym)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePeers(w http.ResponseWriter, r *http.Request) {
	peers, err := s.research.Peers(r.Context(), symbolParam(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, peers)
}

func (s *Server) handleFloat(w http.ResponseWriter, r *http.Request) {
	f, err := s.research.SharesFloat(r.Context(), symbolParam(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	search := s.fmp.Search
	if r.URL.Query().Get("ticker") == "true" {
		search = s.fmp.SearchTicker
	}
	res, err := search(r.Context(), query, parseLimit(r, maxQueryLimit))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleCIK looks up CIKs by name, or the name of a CIK when cik is given.
func (s *Server) handleCIK(w http.ResponseWriter, r *http.Request) {
	if cik := r.URL.Query().Get("cik"); cik != "" {
		name, err := s.fmp.CIKName(r.Context(), cik)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if name == "" {
			writeError(w, http.StatusNotFound, "unknown cik "+cik)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"cik": cik, "name": name})
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "name or cik is required")
		return
	}
	matches, err := s.fmp.CIKSearch(r.Context(), name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	items, err := s.fmp.StockNews(r.Context(), listParam(r, "tickers"), parseLimit(r, 50))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleFilings(w http.ResponseWriter, r *http.Request) {
	filings, err := s.fmp.SECFilings(r.Context(), symbolParam(r), parseLimit(r, 100))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, filings)
}

func (s *Server) handleEarningsCalendar(w http.ResponseWriter, r *http.Request) {
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
	events, err := s.fmp.EarningsCalendar(r.Context(), from, to)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleEarnings(w http.ResponseWriter, r *http.Request) {
	events, err := s.fmp.EarningsHistory(r.Context(), symbolParam(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleNextEarnings(w http.ResponseWriter, r *http.Request) {
	sym := symbolParam(r)
	date, err := s.research.NextEarnings(r.Context(), sym)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"symbol": sym, "next": date})
}

func (s *Server) handleEstimates(w http.ResponseWriter, r *http.Request) {
	rows, err := s.fmp.AnalystEstimates(r.Context(), symbolParam(r), periodParam(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleDividends(w http.ResponseWriter, r *http.Request) {
	rows, err := s.research.DividendYields(r.Context(), symbolParam(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleForm13F(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if date.IsZero() {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}
	rows, err := s.research.Form13F(r.Context(), chi.URLParam(r, "cik"), date, parseInt(r, "n", 20, maxQueryLimit))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// handleETFHoldings serves the constituents, or just their tickers with
// tickersOnly=true. clean=true also drops foreign listings and preferreds
// from the ticker list.
func (s *Server) handleETFHoldings(w http.ResponseWriter, r *http.Request) {
	tickersOnly, err := parseBool(r, "tickersOnly", false)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	clean, err := parseBool(r, "clean", false)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := s.research.ETFHoldings(r.Context(), symbolParam(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !tickersOnly {
		writeJSON(w, http.StatusOK, rows)
		return
	}
	tickers := analytics.ETFTickers(rows)
	if clean {
		tickers = symbols.Clean(tickers)
	}
	writeJSON(w, http.StatusOK, tickers)
}

func (s *Server) handleSectors(w http.ResponseWriter, r *http.Request) {
	sectors, err := s.fmp.Sectors(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sectors)
}

func (s *Server) handleIndustries(w http.ResponseWriter, r *http.Request) {
	sector := r.URL.Query().Get("sector")
	if sector == "" {
		writeError(w, http.StatusBadRequest, "sector is required")
		return
	}
	industries, err := s.fmp.IndustriesBySector(r.Context(), sector)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, industries)
}

func (s *Server) handleScreener(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, err := s.fmp.Screener(r.Context(), external.ScreenerFilter{
		Sector:   q.Get("sector"),
		Industry: q.Get("industry"),
		Country:  q.Get("country"),
		Exchange: q.Get("exchange"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
