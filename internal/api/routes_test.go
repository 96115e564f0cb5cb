package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kjannette/fmp-backend/internal/external"
	"github.com/kjannette/fmp-backend/internal/report"
	"github.com/kjannette/fmp-backend/internal/research"
	"github.com/kjannette/fmp-backend/internal/testutil"
)

type fakeWatcher bool

func (f fakeWatcher) Running() bool { return bool(f) }

func newTestServer(t *testing.T, routes map[string]string, watcher Watcher, serveUI bool) http.Handler {
	t.Helper()
	srv := testutil.NewFMPServer(t, routes)
	fmp := external.NewFMPClient(testutil.TestAPIKey, external.FMPOptions{BaseURL: srv.URL, Logger: zerolog.Nop()})
	rs := research.NewService(fmp, zerolog.Nop())
	reports := report.NewBuilder(fmp, rs, report.Options{})
	return NewServer(fmp, rs, reports, watcher, zerolog.Nop(), Options{ServeUI: serveUI, AppName: "test"}).Handler()
}

func postForm(t *testing.T, h http.Handler, form url.Values) (int, dataResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/get_data", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var resp dataResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return rr.Code, resp
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rr.Body.String(), err)
	}
	return body["error"]
}

func TestGetData_Profile(t *testing.T) {
	h := newTestServer(t, map[string]string{
		"/v3/profile/AAPL": `[{"symbol":"AAPL","companyName":"Apple Inc.","mktCap":3000000000000,"description":"Makes phones."}]`,
	}, nil, true)

	code, resp := postForm(t, h, url.Values{"function_type": {report.Profile}, "symbol": {"aapl"}})
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if !resp.Success {
		t.Fatalf("expected success, got error %q", resp.Error)
	}
	if !strings.Contains(resp.Data, "Apple Inc.") {
		t.Fatalf("expected the table in data, got %q", resp.Data)
	}
	if resp.Description != "Makes phones." {
		t.Fatalf("unexpected description %q", resp.Description)
	}
	if resp.Rows == nil {
		t.Fatal("expected rows alongside the table")
	}
}

func TestGetData_NoData(t *testing.T) {
	h := newTestServer(t, map[string]string{
		"/v3/historical-chart/30min/ZZZZ": `[]`,
	}, nil, true)

	code, resp := postForm(t, h, url.Values{"function_type": {report.Intraday}, "symbol": {"ZZZZ"}})
	if code != http.StatusOK {
		t.Fatalf("expected 200 even on failure, got %d", code)
	}
	if resp.Success {
		t.Fatal("expected success=false")
	}
	if resp.Error != "No intraday data found for the given symbol." {
		t.Fatalf("unexpected error %q", resp.Error)
	}
}

func TestGetData_BadRequests(t *testing.T) {
	h := newTestServer(t, nil, nil, true)

	_, resp := postForm(t, h, url.Values{"function_type": {"Options"}, "symbol": {"AAPL"}})
	if resp.Success || !strings.Contains(resp.Error, "unknown function type") {
		t.Fatalf("expected unknown function error, got %+v", resp)
	}

	_, resp = postForm(t, h, url.Values{"function_type": {report.Dividends}})
	if resp.Success || resp.Error != report.ErrMissingSymbol.Error() {
		t.Fatalf("expected missing symbol error, got %+v", resp)
	}
}

func TestGetData_UpstreamError(t *testing.T) {
	h := newTestServer(t, map[string]string{
		"/v3/historical/earning_calendar/AAPL": `{"Error Message":"Limit Reach"}`,
	}, nil, true)

	_, resp := postForm(t, h, url.Values{"function_type": {report.Earnings}, "symbol": {"AAPL"}})
	if resp.Success || !strings.Contains(resp.Error, "Limit Reach") {
		t.Fatalf("expected the FMP message, got %+v", resp)
	}
	if strings.Contains(resp.Error, testutil.TestAPIKey) {
		t.Fatal("error leaks the API key")
	}
}

func TestIndex(t *testing.T) {
	h := newTestServer(t, nil, nil, true)
	rr := get(t, h, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	if !strings.Contains(string(body), "/get_data") {
		t.Fatal("expected the page to post to /get_data")
	}

	h = newTestServer(t, nil, nil, false)
	if rr := get(t, h, "/"); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 with the UI disabled, got %d", rr.Code)
	}
}

func TestHealth(t *testing.T) {
	cases := []struct {
		watcher Watcher
		want    string
	}{
		{nil, "disabled"},
		{fakeWatcher(true), "running"},
		{fakeWatcher(false), "stopped"},
	}
	for _, tc := range cases {
		rr := get(t, newTestServer(t, nil, tc.watcher, false), "/health")
		var resp healthResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Status != "ok" || resp.Services.Watchlist != tc.want {
			t.Fatalf("expected ok/%s, got %+v", tc.want, resp)
		}
		if rr.Header().Get("X-Request-ID") == "" {
			t.Fatal("expected X-Request-ID on every response")
		}
	}
}

func TestV1_Quote(t *testing.T) {
	h := newTestServer(t, map[string]string{
		"/v3/quote-short/AAPL":           `[{"symbol":"AAPL","price":110,"volume":1000}]`,
		"/v3/historical-price-full/AAPL": `{"symbol":"AAPL","historical":[{"date":"2024-03-14","close":100},{"date":"2024-03-13","close":98}]}`,
	}, nil, false)

	rr := get(t, h, "/v1/quote/aapl")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var q struct {
		Symbol    string  `json:"symbol"`
		Price     float64 `json:"price"`
		PrevClose float64 `json:"prevClose"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &q); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if q.Symbol != "AAPL" || q.Price != 110 || q.PrevClose != 100 {
		t.Fatalf("unexpected quote %+v", q)
	}
}

func TestV1_ErrorStatuses(t *testing.T) {
	h := newTestServer(t, map[string]string{
		"/v3/profile/ZZZZ":     `[]`,
		"/v3/quote-short/AAPL": `{"Error Message":"Invalid API KEY."}`,
	}, nil, false)

	cases := []struct {
		path string
		want int
	}{
		{"/v1/profile/ZZZZ", http.StatusNotFound},
		{"/v1/quote/AAPL", http.StatusBadGateway},
		{"/v1/statements/bogus/AAPL", http.StatusBadRequest},
		{"/v1/prices/AAPL?from=2024-13-01", http.StatusBadRequest},
		{"/v1/technicals/AAPL/correlation", http.StatusBadRequest},
		{"/v1/technicals/AAPL/regression", http.StatusBadRequest},
		{"/v1/13f/0001067983", http.StatusBadRequest},
		{"/v1/active", http.StatusBadRequest},
		{"/v1/search", http.StatusBadRequest},
	}
	for _, tc := range cases {
		rr := get(t, h, tc.path)
		if rr.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d (%s)", tc.path, tc.want, rr.Code, rr.Body.String())
		}
		if errorBody(t, rr) == "" {
			t.Fatalf("%s: expected an error message", tc.path)
		}
	}
}

func TestV1_Statement(t *testing.T) {
	h := newTestServer(t, map[string]string{
		"/v3/income-statement/AAPL": `[
			{"date":"2023-09-30","revenue":383285000000,"grossProfit":169148000000,"netIncome":96995000000},
			{"date":"2022-09-24","revenue":394328000000,"grossProfit":170782000000,"netIncome":99803000000}]`,
	}, nil, false)

	rr := get(t, h, "/v1/statements/income/AAPL?fields=revenue")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var rows []map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["date"] != "2022-09-24" {
		t.Fatalf("expected oldest first, got %v", rows[0]["date"])
	}
	if _, ok := rows[0]["netIncome"]; ok {
		t.Fatal("expected only the requested fields")
	}
}

func TestV1_Functions(t *testing.T) {
	rr := get(t, newTestServer(t, nil, nil, false), "/v1/functions")
	var body struct {
		FunctionTypes []string `json:"functionTypes"`
		Periods       []string `json:"periods"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.FunctionTypes) != 5 || body.FunctionTypes[0] != report.Intraday {
		t.Fatalf("unexpected function types %v", body.FunctionTypes)
	}
	if len(body.Periods) == 0 {
		t.Fatal("expected intraday periods")
	}
}
