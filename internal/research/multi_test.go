package research

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

var multiRoutes = map[string]string{
	"/v3/historical-price-full/AAA": `{"symbol":"AAA","historical":[
		{"date":"2024-03-14","close":132,"adjClose":66},
		{"date":"2024-03-13","close":110,"adjClose":55},
		{"date":"2024-03-12","close":100,"adjClose":50},
		{"date":"2024-03-11","close":90,"adjClose":45}]}`,
	"/v3/historical-price-full/BBB": `{"symbol":"BBB","historical":[
		{"date":"2024-03-14","close":55,"adjClose":55},
		{"date":"2024-03-13","close":55,"adjClose":55},
		{"date":"2024-03-12","close":50,"adjClose":50}]}`,
	"/v3/historical-price-full/NONE": `{}`,
}

func TestPriceTable(t *testing.T) {
	s := newService(t, multiRoutes)
	ctx := context.Background()

	table, err := s.PriceTable(ctx, []string{"AAA", "BBB"}, time.Time{}, time.Time{}, "adjClose")
	if err != nil {
		t.Fatalf("PriceTable: %v", err)
	}
	if len(table.Rows) != 3 || table.Rows[0].Date != "2024-03-12" {
		t.Fatalf("expected the 3 common dates oldest first, got %+v", table.Rows)
	}
	if v := table.Rows[2].Values; v[0] != 66 || v[1] != 55 {
		t.Fatalf("expected adjClose values in symbol order, got %v", v)
	}

	if _, err := s.PriceTable(ctx, []string{"AAA", "NONE"}, time.Time{}, time.Time{}, "close"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.PriceTable(ctx, []string{"AAA"}, time.Time{}, time.Time{}, "vwap"); err == nil {
		t.Fatal("expected error for an unknown field")
	}
	many := strings.Split(strings.Repeat("AAA,", MaxMultiSymbols+1), ",")[:MaxMultiSymbols+1]
	if _, err := s.PriceTable(ctx, many, time.Time{}, time.Time{}, "close"); err == nil {
		t.Fatal("expected error above the symbol cap")
	}
}

func TestSpreadAndMergerArb(t *testing.T) {
	s := newService(t, multiRoutes)
	ctx := context.Background()

	pts, err := s.Spread(ctx, "AAA", "BBB", time.Time{}, time.Time{}, false)
	if err != nil {
		t.Fatalf("Spread: %v", err)
	}
	if len(pts) != 2 || math.Abs(pts[1].Value-0.2) > 1e-12 {
		t.Fatalf("unexpected spread: %+v", pts)
	}

	rows, err := s.MergerArb(ctx, "AAA", "BBB", 0.5, 0, time.Time{}, true)
	if err != nil {
		t.Fatalf("MergerArb: %v", err)
	}
	// 100*0.5 against 50 on the first common date
	if len(rows) != 3 || rows[0].Arb == nil || *rows[0].Arb != 0 {
		t.Fatalf("unexpected arb rows: %+v", rows)
	}
}

func TestCorrelationMatrix(t *testing.T) {
	s := newService(t, multiRoutes)

	m, err := s.CorrelationMatrix(context.Background(), []string{"AAA", "BBB"}, 60)
	if err != nil {
		t.Fatalf("CorrelationMatrix: %v", err)
	}
	if m.N != 2 || len(m.Matrix) != 2 || m.Matrix[0][0] == nil || *m.Matrix[0][0] != 1 {
		t.Fatalf("unexpected matrix: %+v", m)
	}
	// AAA accelerates while BBB stalls
	if m.Matrix[0][1] == nil || *m.Matrix[0][1] != -1 || *m.Matrix[1][0] != -1 {
		t.Fatalf("expected perfect negative correlation, got %+v", m.Matrix)
	}
}

func TestCumulativeReturnsAndBasket(t *testing.T) {
	s := newService(t, multiRoutes)
	ctx := context.Background()

	pts, err := s.CumulativeReturns(ctx, "AAA", time.Time{}, time.Time{}, "close")
	if err != nil {
		t.Fatalf("CumulativeReturns: %v", err)
	}
	if len(pts) != 4 || pts[0].Value != 0 || math.Abs(pts[3].Value-(132.0/90-1)) > 1e-12 {
		t.Fatalf("unexpected cumulative returns: %+v", pts)
	}

	basket, err := s.Basket(ctx, []string{"AAA", "BBB"}, []float64{50, 50}, time.Time{}, "adjClose")
	if err != nil {
		t.Fatalf("Basket: %v", err)
	}
	// (66/50 + 55/50) / 2
	if len(basket) != 3 || basket[0].Value != 1 || math.Abs(basket[2].Value-1.21) > 1e-12 {
		t.Fatalf("unexpected basket: %+v", basket)
	}

	if _, err := s.Basket(ctx, []string{"AAA"}, []float64{1, 2}, time.Time{}, "close"); err == nil {
		t.Fatal("expected error for mismatched weights")
	}
}

func TestDividendHistory(t *testing.T) {
	s := newService(t, map[string]string{
		"/v3/historical-price-full/stock_dividend/KO": `{"symbol":"KO","historical":[
			{"date":"2024-03-14","dividend":0.485},
			{"date":"2022-03-14","dividend":0.44},
			{"date":"2023-06-14","dividend":0.46}]}`,
		"/v3/historical-price-full/stock_dividend/NONE": `{"historical":[]}`,
	})
	ctx := context.Background()

	all, err := s.DividendHistory(ctx, "KO", 0)
	if err != nil {
		t.Fatalf("DividendHistory: %v", err)
	}
	if len(all) != 3 || all[0].Value != 0.44 || all[2].Value != 0.485 {
		t.Fatalf("expected ascending dividends, got %+v", all)
	}

	recent, err := s.DividendHistory(ctx, "KO", 1)
	if err != nil {
		t.Fatalf("DividendHistory(years=1): %v", err)
	}
	if len(recent) != 2 || !recent[0].Date.Equal(time.Date(2023, 6, 14, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected the last year only, got %+v", recent)
	}

	if _, err := s.DividendHistory(ctx, "NONE", 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
