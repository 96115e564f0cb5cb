package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kjannette/fmp-backend/internal/external"
	"github.com/kjannette/fmp-backend/internal/models"
	"github.com/kjannette/fmp-backend/internal/research"
	"github.com/kjannette/fmp-backend/internal/testutil"
)

func newBuilder(t *testing.T, routes map[string]string) *Builder {
	t.Helper()
	srv := testutil.NewFMPServer(t, routes)
	fmp := external.NewFMPClient(testutil.TestAPIKey, external.FMPOptions{BaseURL: srv.URL, Logger: zerolog.Nop()})
	return NewBuilder(fmp, research.NewService(fmp, zerolog.Nop()), Options{})
}

func TestBuild_Validation(t *testing.T) {
	b := newBuilder(t, nil)
	ctx := context.Background()

	if _, err := b.Build(ctx, Profile, "  ", ""); !errors.Is(err, ErrMissingSymbol) {
		t.Fatalf("expected ErrMissingSymbol, got %v", err)
	}
	if _, err := b.Build(ctx, "Options Chain", "AAPL", ""); !errors.Is(err, ErrUnknownFunction) {
		t.Fatalf("expected ErrUnknownFunction, got %v", err)
	}
}

func TestBuild_NoDataMessages(t *testing.T) {
	b := newBuilder(t, map[string]string{
		"/v3/historical-chart/30min/ZZZZ":               `[]`,
		"/v3/profile/ZZZZ":                              `[]`,
		"/v3/search":                                    `[]`,
		"/v3/historical/earning_calendar/ZZZZ":          `[]`,
		"/v3/historical-price-full/stock_dividend/ZZZZ": `{}`,
	})

	tests := []struct {
		fn   string
		want string
	}{
		{Intraday, "No intraday data found for the given symbol."},
		{Profile, "No profile data found for the given symbol."},
		{Search, "No search results found for the given term."},
		{Earnings, "No earnings data found for the given symbol."},
		{Dividends, "No dividend data found for the given symbol."},
	}
	for _, tt := range tests {
		_, err := b.Build(context.Background(), tt.fn, "zzzz", "")
		if !errors.Is(err, ErrNoData) {
			t.Fatalf("%s: expected ErrNoData, got %v", tt.fn, err)
		}
		if err.Error() != tt.want {
			t.Fatalf("%s: expected %q, got %q", tt.fn, tt.want, err.Error())
		}
	}
}

func TestIntraday(t *testing.T) {
	b := newBuilder(t, map[string]string{
		"/v3/historical-chart/5min/AAPL": `[
			{"date":"2024-05-01 09:35:00","open":101.5,"high":102.25,"low":101,"close":102.1234,"volume":1234567},
			{"date":"2024-05-01 09:30:00","open":100,"high":101.5,"low":99.5,"close":101.5,"volume":2000}]`,
	})

	r, err := b.Build(context.Background(), Intraday, "aapl", "5min")
	if err != nil {
		t.Fatalf("Intraday: %v", err)
	}
	if !strings.Contains(r.Table, "101.500") || !strings.Contains(r.Table, "102.123") {
		t.Fatalf("expected 3-place prices in table:\n%s", r.Table)
	}
	if !strings.Contains(r.Table, "│ 1,234,567 ") {
		t.Fatalf("expected left-aligned comma volume in table:\n%s", r.Table)
	}
	if strings.Index(r.Table, "09:30:00") > strings.Index(r.Table, "09:35:00") {
		t.Fatal("expected rows oldest first")
	}
	bars, ok := r.Rows.([]models.PriceBar)
	if !ok || len(bars) != 2 {
		t.Fatalf("expected 2 bar rows, got %T", r.Rows)
	}
}

func TestIntraday_DefaultPeriod(t *testing.T) {
	b := newBuilder(t, map[string]string{
		"/v3/historical-chart/30min/AAPL": `[{"date":"2024-05-01 09:30:00","close":1}]`,
	})
	if _, err := b.Build(context.Background(), Intraday, "AAPL", ""); err != nil {
		t.Fatalf("expected the 30min default, got %v", err)
	}
}

func TestProfile(t *testing.T) {
	b := newBuilder(t, map[string]string{
		"/v3/profile/AAPL": `[{"symbol":"AAPL","companyName":"Apple Inc.","mktCap":3000000000000,
			"sector":"Technology","isEtf":false,"website":"https://apple.com","description":"Makes phones."}]`,
	})

	r, err := b.Build(context.Background(), Profile, "AAPL", "")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if r.Description != "Makes phones." {
		t.Fatalf("unexpected description: %q", r.Description)
	}
	if strings.Contains(r.Table, "Makes phones.") || strings.Contains(r.Table, "description") {
		t.Fatal("description should not be in the table")
	}
	if !strings.Contains(r.Table, "3,000,000,000,000") {
		t.Fatalf("expected comma-formatted market cap:\n%s", r.Table)
	}
	if strings.Contains(r.Table, "website") {
		t.Fatal("only the profile fields should be shown")
	}
	if !strings.Contains(r.Table, "│ Field ") {
		t.Fatalf("expected Field/Value headers:\n%s", r.Table)
	}
}

func TestSearch_SortedByName(t *testing.T) {
	b := newBuilder(t, map[string]string{
		"/v3/search": `[
			{"symbol":"FZZ","name":"Zeta Ford","exchangeShortName":"NYSE"},
			{"symbol":"F","name":"Ford Motor Company","exchangeShortName":"NYSE"}]`,
	})

	r, err := b.Build(context.Background(), Search, "ford", "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if strings.Index(r.Table, "Ford Motor") > strings.Index(r.Table, "Zeta Ford") {
		t.Fatalf("expected name order:\n%s", r.Table)
	}
	if strings.Contains(r.Table, "NYSE") || strings.Contains(r.Table, "exchange") {
		t.Fatalf("expected only symbol and name columns:\n%s", r.Table)
	}
}

func TestEarnings_LastFiveAscending(t *testing.T) {
	var rows []string
	for i := 1; i <= 6; i++ {
		rows = append(rows, fmt.Sprintf(`{"date":"2024-0%d-15","symbol":"AAPL","eps":1.5,"epsEstimated":1.4,"time":"amc","revenue":90753000000,"revenueEstimated":null}`, i))
	}
	b := newBuilder(t, map[string]string{
		"/v3/historical/earning_calendar/AAPL": "[" + strings.Join(rows, ",") + "]",
	})

	r, err := b.Build(context.Background(), Earnings, "AAPL", "")
	if err != nil {
		t.Fatalf("Earnings: %v", err)
	}
	if strings.Contains(r.Table, "2024-01-15") {
		t.Fatal("expected only the five latest events")
	}
	if strings.Index(r.Table, "2024-02-15") > strings.Index(r.Table, "2024-06-15") {
		t.Fatal("expected ascending order")
	}
	if !strings.Contains(r.Table, "90,753") {
		t.Fatalf("expected revenue in millions:\n%s", r.Table)
	}
	for _, h := range []string{"epsEst", "rev (mil)", "revEst (mil)", "fiscal", "updated"} {
		if !strings.Contains(r.Table, h) {
			t.Fatalf("missing column %q", h)
		}
	}
	if !strings.Contains(r.Table, "│ 0 │ 2024-02-15 ") || !strings.Contains(r.Table, "│ 4 │ 2024-06-15 ") {
		t.Fatalf("expected a 0-based row index column:\n%s", r.Table)
	}
}

func TestDividends_LastTen(t *testing.T) {
	var divs, closes []string
	for i := 0; i < 12; i++ {
		year, month := 2021+i/4, 3*(i%4)+1
		d := fmt.Sprintf("%d-%02d-10", year, month)
		divs = append(divs, fmt.Sprintf(`{"date":"%s","adjDividend":0.5,"dividend":0.5,"recordDate":"%s","paymentDate":"","declarationDate":""}`, d, d))
		closes = append(closes, fmt.Sprintf(`{"date":"%s","close":50}`, d))
	}
	b := newBuilder(t, map[string]string{
		"/v3/historical-price-full/stock_dividend/KO": `{"historical":[` + strings.Join(divs, ",") + `]}`,
		"/v3/historical-price-full/KO":                `{"historical":[` + strings.Join(closes, ",") + `]}`,
	})

	r, err := b.Build(context.Background(), Dividends, "KO", "")
	if err != nil {
		t.Fatalf("Dividends: %v", err)
	}
	rows, ok := r.Rows.([]models.DividendYield)
	if !ok || len(rows) != 10 {
		t.Fatalf("expected 10 rows, got %T (%v)", r.Rows, r.Rows)
	}
	if rows[0].ExDate != "2021-07-10" {
		t.Fatalf("expected the oldest two dropped, got %s", rows[0].ExDate)
	}
	if !strings.Contains(r.Table, "07-10-21") {
		t.Fatalf("expected mm-dd-yy dates:\n%s", r.Table)
	}
	if !strings.Contains(r.Table, "yieldttm") {
		t.Fatal("missing yieldttm column")
	}
	if *rows[9].TrailYield != 4 {
		t.Fatalf("expected 4%% trailing yield, got %v", *rows[9].TrailYield)
	}
}
