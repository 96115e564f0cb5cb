package symbols

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestJoinAndClean(t *testing.T) {
	if got := Join([]string{"A", "B", "C"}); got != "A,B,C" {
		t.Fatalf("Join: got %q", got)
	}
	got := Clean([]string{"AAPL", "BRK.B", "PSA-PH", "MSFT"})
	if !reflect.DeepEqual(got, []string{"AAPL", "MSFT"}) {
		t.Fatalf("Clean: got %v", got)
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize([]string{" aapl", "", "msft "})
	if !reflect.DeepEqual(got, []string{"AAPL", "MSFT"}) {
		t.Fatalf("Normalize: got %v", got)
	}
}

func TestParseTradingView(t *testing.T) {
	in := "###MACRO,TVC:DXY,AMEX:SPY,NASDAQ:QQQ\n"
	got, err := ParseTradingView(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"DXY", "SPY", "QQQ"}) {
		t.Fatalf("got %v", got)
	}

	if _, err := ParseTradingView(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty export")
	}
}

func TestReadCSVColumn(t *testing.T) {
	got, err := ReadCSVColumn(strings.NewReader("AAPL,Apple\nMSFT\n\nNVDA,Nvidia,extra\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"AAPL", "MSFT", "NVDA"}) {
		t.Fatalf("got %v", got)
	}
}

func TestParseWeights(t *testing.T) {
	syms, weights, err := ParseWeights("WMS\t0.17%\nACM 0.06%\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(syms, []string{"WMS", "ACM"}) {
		t.Fatalf("syms: got %v", syms)
	}
	if !reflect.DeepEqual(weights, []float64{0.17, 0.06}) {
		t.Fatalf("weights: got %v", weights)
	}

	if _, _, err := ParseWeights("WMS"); err == nil {
		t.Fatal("expected error for missing weight")
	}
}

func TestParseWatchlistsYAML(t *testing.T) {
	data := []byte("lists:\n  default: [spy, qqq]\n  banks:\n    - jpm\n    - ' bac '\n")
	w, err := ParseWatchlistsYAML(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(w.Names(), []string{"banks", "default"}) {
		t.Fatalf("names: got %v", w.Names())
	}
	banks, ok := w.Get("banks")
	if !ok || !reflect.DeepEqual(banks, []string{"JPM", "BAC"}) {
		t.Fatalf("banks: got %v", banks)
	}
}

func TestLoadWatchlists_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lists.xlsx")

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", "Sectors")
	f.SetCellValue("Sectors", "A1", "xlk")
	f.SetCellValue("Sectors", "A2", "XLF")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}

	w, err := LoadWatchlists(path)
	if err != nil {
		t.Fatalf("LoadWatchlists: %v", err)
	}
	got, ok := w.Get("Sectors")
	if !ok || !reflect.DeepEqual(got, []string{"XLK", "XLF"}) {
		t.Fatalf("Sectors: got %v", got)
	}
}

func TestLoadWatchlists_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lists.yml")
	if err := os.WriteFile(path, []byte("lists:\n  default: [SPY]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := LoadWatchlists(path)
	if err != nil {
		t.Fatalf("LoadWatchlists: %v", err)
	}
	if got, _ := w.Get("default"); !reflect.DeepEqual(got, []string{"SPY"}) {
		t.Fatalf("default: got %v", got)
	}
}

func TestLoadWatchlists_UnsupportedExt(t *testing.T) {
	if _, err := LoadWatchlists("lists.json"); err == nil {
		t.Fatal("expected error for .json")
	}
}

func TestLoadWatchlists_SingleListFiles(t *testing.T) {
	dir := t.TempDir()
	tv := filepath.Join(dir, "swing.txt")
	if err := os.WriteFile(tv, []byte("###Tech,NASDAQ:aapl,NYSE:IBM\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	csvPath := filepath.Join(dir, "income.csv")
	if err := os.WriteFile(csvPath, []byte("KO,Coca-Cola\npep,PepsiCo\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := LoadWatchlists(tv)
	if err != nil {
		t.Fatalf("LoadWatchlists(txt): %v", err)
	}
	if got, _ := w.Get("swing"); !reflect.DeepEqual(got, []string{"AAPL", "IBM"}) {
		t.Fatalf("swing: got %v", got)
	}

	w, err = LoadWatchlists(csvPath)
	if err != nil {
		t.Fatalf("LoadWatchlists(csv): %v", err)
	}
	if got, _ := w.Get("income"); !reflect.DeepEqual(got, []string{"KO", "PEP"}) {
		t.Fatalf("income: got %v", got)
	}
}
