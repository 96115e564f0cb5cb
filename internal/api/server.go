package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/kjannette/fmp-backend/internal/external"
	"github.com/kjannette/fmp-backend/internal/httputil"
	"github.com/kjannette/fmp-backend/internal/report"
	"github.com/kjannette/fmp-backend/internal/research"
)

const maxQueryLimit = 1000

var dateRegexp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Watcher is the part of the watchlist scheduler the health check reports on.
type Watcher interface {
	Running() bool
}

type Options struct {
	Port            int
	CORSAllowOrigin string
	ServeUI         bool
	AppName         string
}

type Server struct {
	fmp      *external.FMPClient
	research *research.Service
	reports  *report.Builder
	watcher  Watcher
	log      zerolog.Logger
	opts     Options

	handler    http.Handler
	httpServer *http.Server
}

// NewServer wires the routes. watcher may be nil when no schedule is set.
func NewServer(fmp *external.FMPClient, rs *research.Service, reports *report.Builder, watcher Watcher, log zerolog.Logger, opts Options) *Server {
	s := &Server{
		fmp:      fmp,
		research: rs,
		reports:  reports,
		watcher:  watcher,
		log:      log,
		opts:     opts,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	if opts.ServeUI {
		r.Get("/", s.handleIndex)
	}
	r.Post("/get_data", s.handleGetData)
	r.Get("/health", s.handleHealth)
	r.Route("/v1", s.v1Routes)

	s.handler = corsHandler(r, opts.CORSAllowOrigin)
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      s.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return s
}

// Handler exposes the full middleware chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Bool("ui", s.opts.ServeUI).Msg("HTTP server started")
	s.log.Info().Msgf("health check: http://localhost%s/health", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func corsHandler(next http.Handler, allowOrigin string) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	c := cors.New(cors.Options{
		AllowedOrigins: []string{allowOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
	})
	return c.Handler(next)
}

// --- validation helpers ---

func validateDate(date string) bool {
	if !dateRegexp.MatchString(date) {
		return false
	}
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// parseDate reads an optional yyyy-mm-dd query parameter. Absent values
// yield the zero time.
func parseDate(r *http.Request, key string) (time.Time, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return time.Time{}, nil
	}
	if !validateDate(v) {
		return time.Time{}, fmt.Errorf("%s must be YYYY-MM-DD", key)
	}
	return time.Parse("2006-01-02", v)
}

func parseLimit(r *http.Request, defaultLimit int) int {
	return parseInt(r, "limit", defaultLimit, maxQueryLimit)
}

// parseInt reads a positive integer parameter, falling back to deflt when
// missing or invalid and capping at max.
func parseInt(r *http.Request, key string, deflt, max int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return deflt
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return deflt
	}
	if max > 0 && n > max {
		return max
	}
	return n
}

// parseFloat reads an optional number, falling back to deflt when missing.
func parseFloat(r *http.Request, key string, deflt float64) (float64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return deflt, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return f, nil
}

// parseBool reads an optional true/false parameter.
func parseBool(r *http.Request, key string, deflt bool) (bool, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return deflt, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be true or false", key)
	}
	return b, nil
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps a fetch or compute error to an HTTP status: missing data is
// 404, FMP or network trouble 502, anything else a bad request.
func statusFor(err error) int {
	var se *httputil.StatusError
	var ue *url.Error
	switch {
	case errors.Is(err, research.ErrNotFound), errors.Is(err, report.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, external.ErrUpstream), errors.As(err, &se), errors.As(err, &ue),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusBadGateway {
		s.log.Error().Err(err).Str("path", r.URL.Path).Str("request_id", requestIDFrom(r.Context())).Msg("upstream failure")
	}
	writeError(w, status, err.Error())
}
