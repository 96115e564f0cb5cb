package symbols

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Watchlists maps a list name to its symbols.
type Watchlists map[string][]string

type watchlistFile struct {
	Lists map[string][]string `yaml:"lists"`
}

// LoadWatchlists reads named symbol lists from a YAML file (a top-level
// "lists" mapping) or an XLSX workbook (one list per sheet, symbols in
// column A). A TradingView .txt export or a .csv holds a single list named
// after the file.
func LoadWatchlists(path string) (Watchlists, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return loadYAML(path)
	case ".xlsx":
		return loadXLSX(path)
	case ".txt":
		return loadSingle(path, ParseTradingView)
	case ".csv":
		return loadSingle(path, ReadCSVColumn)
	default:
		return nil, fmt.Errorf("unsupported watchlist file type %q", filepath.Ext(path))
	}
}

func loadYAML(path string) (Watchlists, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read watchlists: %w", err)
	}
	return ParseWatchlistsYAML(data)
}

func loadSingle(path string, parse func(io.Reader) ([]string, error)) (Watchlists, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read watchlist: %w", err)
	}
	defer f.Close()

	syms, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Watchlists{name: Normalize(syms)}, nil
}

func ParseWatchlistsYAML(data []byte) (Watchlists, error) {
	var f watchlistFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse watchlists: %w", err)
	}
	out := make(Watchlists, len(f.Lists))
	for name, syms := range f.Lists {
		out[name] = Normalize(syms)
	}
	return out, nil
}

func loadXLSX(path string) (Watchlists, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	out := make(Watchlists)
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		var syms []string
		for _, r := range rows {
			if len(r) > 0 {
				syms = append(syms, r[0])
			}
		}
		out[sheet] = Normalize(syms)
	}
	return out, nil
}

// Names returns the list names in sorted order.
func (w Watchlists) Names() []string {
	names := make([]string, 0, len(w))
	for n := range w {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (w Watchlists) Get(name string) ([]string, bool) {
	syms, ok := w[name]
	return syms, ok
}
