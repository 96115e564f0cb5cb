package api

import (
	_ "embed"
	"net/http"
)

//go:embed web/index.html
var indexHTML []byte

type dataResponse struct {
	Success     bool   `json:"success"`
	Data        string `json:"data,omitempty"`
	Rows        any    `json:"rows,omitempty"`
	Description string `json:"description,omitempty"`
	Error       string `json:"error,omitempty"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// handleGetData serves the form. Failures are reported in the body with a 200
// so the page can show them.
func (s *Server) handleGetData(w http.ResponseWriter, r *http.Request) {
	fn := r.FormValue("function_type")
	sym := r.FormValue("symbol")
	period := r.FormValue("period")

	rep, err := s.reports.Build(r.Context(), fn, sym, period)
	if err != nil {
		ev := s.log.Warn()
		if statusFor(err) == http.StatusBadGateway {
			ev = s.log.Error()
		}
		ev.Err(err).
			Str("request_id", requestIDFrom(r.Context())).
			Str("function_type", fn).
			Str("symbol", sym).
			Msg("get_data failed")
		writeJSON(w, http.StatusOK, dataResponse{Success: false, Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, dataResponse{
		Success:     true,
		Data:        rep.Table,
		Rows:        rep.Rows,
		Description: rep.Description,
	})
}
