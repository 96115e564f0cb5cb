package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		FMPAPIKey:             "abcd1234",
		FMPBaseURL:            "https://financialmodelingprep.com/api",
		FMPTimeoutSeconds:     10,
		FMPMaxAttempts:        1,
		Port:                  5000,
		LogLevel:              "info",
		IntradayDefaultPeriod: "30min",
		WatchList:             "default",
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidate_MissingAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.FMPAPIKey = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing FMP_API_KEY")
	}
	if !strings.Contains(err.Error(), "FMP_API_KEY is required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.FMPAPIKey = ""
	cfg.Port = 0
	cfg.IntradayDefaultPeriod = "2min"
	cfg.LogLevel = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"FMP_API_KEY", "PORT", "INTRADAY_DEFAULT_PERIOD", "LOG_LEVEL"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in error, got %v", want, err)
		}
	}
}

func TestValidate_ScheduleNeedsWatchlistFile(t *testing.T) {
	cfg := validConfig()
	cfg.WatchSchedule = "*/15 * * * *"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when WATCH_SCHEDULE set without WATCHLIST_FILE")
	}
	cfg.WatchlistFile = "lists.yaml"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoad_ReadsEnv(t *testing.T) {
	t.Setenv("FMP_API_KEY", "zzzz9999")
	t.Setenv("PORT", "8088")
	t.Setenv("FMP_BASE_URL", "http://localhost:9999/api/")
	t.Setenv("SERVE_UI", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FMPAPIKey != "zzzz9999" {
		t.Fatalf("FMPAPIKey: got %q", cfg.FMPAPIKey)
	}
	if cfg.Port != 8088 {
		t.Fatalf("Port: got %d", cfg.Port)
	}
	if cfg.FMPBaseURL != "http://localhost:9999/api" {
		t.Fatalf("trailing slash should be trimmed, got %q", cfg.FMPBaseURL)
	}
	if cfg.ServeUI {
		t.Fatal("ServeUI should be false")
	}
	if cfg.FMPMaxAttempts != 1 {
		t.Fatalf("default attempts should be 1, got %d", cfg.FMPMaxAttempts)
	}
}

func TestMaskKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "not set"},
		{"abc", "***"},
		{"abcdefgh", "abcd..."},
	}
	for _, tt := range tests {
		if got := MaskKey(tt.in); got != tt.want {
			t.Fatalf("MaskKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidPeriod(t *testing.T) {
	if !ValidPeriod("1hour") || !ValidPeriod("1day") {
		t.Fatal("expected 1hour and 1day to be valid")
	}
	if ValidPeriod("2min") {
		t.Fatal("2min should be invalid")
	}
}
