package symbols

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Join renders symbols in FMP's comma-separated multi-symbol form.
func Join(syms []string) string {
	return strings.Join(syms, ",")
}

// Normalize upper-cases and trims each symbol, dropping blanks.
func Normalize(syms []string) []string {
	out := make([]string, 0, len(syms))
	for _, s := range syms {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Clean drops foreign listings (containing ".") and preferreds (containing "-").
func Clean(syms []string) []string {
	out := make([]string, 0, len(syms))
	for _, s := range syms {
		if strings.ContainsAny(s, ".-") {
			continue
		}
		out = append(out, s)
	}
	return out
}

// ParseTradingView reads a TradingView watchlist export, a single line of
// comma-separated EXCHANGE:SYMBOL entries.
func ParseTradingView(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("empty watchlist export")
	}
	var out []string
	for _, item := range strings.Split(sc.Text(), ",") {
		item = strings.TrimSpace(item)
		if item == "" || strings.HasPrefix(item, "###") {
			continue
		}
		if _, sym, ok := strings.Cut(item, ":"); ok {
			item = sym
		}
		out = append(out, item)
	}
	return out, nil
}

// ReadCSVColumn returns the first column of every CSV row.
func ReadCSVColumn(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	var out []string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if len(rec) > 0 && strings.TrimSpace(rec[0]) != "" {
			out = append(out, strings.TrimSpace(rec[0]))
		}
	}
}

// ParseLines splits pasted text into trimmed non-empty lines.
func ParseLines(s string) []string {
	var out []string
	for _, l := range strings.Split(strings.TrimSpace(s), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// ParseWeights reads "SYMBOL  0.17%" lines pasted from a spreadsheet.
// Weights are returned in percent.
func ParseWeights(s string) ([]string, []float64, error) {
	var syms []string
	var weights []float64
	for i, l := range ParseLines(s) {
		fields := strings.Fields(l)
		if len(fields) != 2 {
			return nil, nil, fmt.Errorf("line %d: expected symbol and weight, got %q", i+1, l)
		}
		w, err := strconv.ParseFloat(strings.TrimSuffix(fields[1], "%"), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: bad weight %q: %w", i+1, fields[1], err)
		}
		syms = append(syms, fields[0])
		weights = append(weights, w)
	}
	return syms, weights, nil
}
