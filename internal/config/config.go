package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/kjannette/fmp-backend/internal/logging"
)

// IntradayPeriods are the chart intervals FMP serves.
var IntradayPeriods = []string{"1min", "5min", "15min", "30min", "1hour", "4hour", "1day"}

type Config struct {
	// Secrets (from .env)
	FMPAPIKey  string
	WebhookURL string

	// FMP
	FMPBaseURL        string
	FMPTimeoutSeconds int
	FMPMaxAttempts    int

	// Web
	Port            int
	CORSAllowOrigin string
	AppName         string
	ServeUI         bool

	// Logging
	LogLevel  string
	LogFormat string

	// Reports
	IntradayDefaultPeriod string
	SearchLimit           int

	// Watchlist
	WatchlistFile string
	WatchList     string
	WatchSchedule string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		// Secrets
		FMPAPIKey:  envStr("FMP_API_KEY", ""),
		WebhookURL: envStr("WEBHOOK_URL", ""),

		// FMP
		FMPBaseURL:        strings.TrimRight(envStr("FMP_BASE_URL", "https://financialmodelingprep.com/api"), "/"),
		FMPTimeoutSeconds: envInt("FMP_TIMEOUT_SECONDS", 10),
		FMPMaxAttempts:    envInt("FMP_MAX_ATTEMPTS", 1),

		// Web
		Port:            envInt("PORT", 5000),
		CORSAllowOrigin: envStr("CORS_ALLOW_ORIGIN", "*"),
		AppName:         envStr("APP_NAME", "FMPToolkit"),
		ServeUI:         envBool("SERVE_UI", true),

		// Logging
		LogLevel:  envStr("LOG_LEVEL", "info"),
		LogFormat: envStr("LOG_FORMAT", "console"),

		// Reports
		IntradayDefaultPeriod: envStr("INTRADAY_DEFAULT_PERIOD", "30min"),
		SearchLimit:           envInt("SEARCH_LIMIT", 1000),

		// Watchlist
		WatchlistFile: envStr("WATCHLIST_FILE", ""),
		WatchList:     envStr("WATCH_LIST", "default"),
		WatchSchedule: envStr("WATCH_SCHEDULE", ""),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	if c.FMPAPIKey == "" {
		errs = append(errs, "FMP_API_KEY is required")
	}
	if c.FMPBaseURL == "" {
		errs = append(errs, "FMP_BASE_URL must not be empty")
	}
	if c.FMPTimeoutSeconds <= 0 {
		errs = append(errs, "FMP_TIMEOUT_SECONDS must be positive")
	}
	if c.FMPMaxAttempts < 1 {
		errs = append(errs, "FMP_MAX_ATTEMPTS must be at least 1")
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Sprintf("PORT %d out of range", c.Port))
	}
	if !logging.ValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL %q is not a known level", c.LogLevel))
	}
	if !ValidPeriod(c.IntradayDefaultPeriod) {
		errs = append(errs, fmt.Sprintf("INTRADAY_DEFAULT_PERIOD must be one of %s", strings.Join(IntradayPeriods, ", ")))
	}
	if c.WatchSchedule != "" && c.WatchlistFile == "" {
		errs = append(errs, "WATCH_SCHEDULE requires WATCHLIST_FILE")
	}

	if c.FMPMaxAttempts > 1 {
		fmt.Printf("[WARN] FMP_MAX_ATTEMPTS=%d: failed FMP calls will be retried with backoff\n", c.FMPMaxAttempts)
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) Print() {
	fmt.Println("=== FMP Toolkit Configuration ===")
	fmt.Printf("FMP API Key: %s\n", MaskKey(c.FMPAPIKey))
	fmt.Printf("FMP Base URL: %s\n", c.FMPBaseURL)
	fmt.Printf("FMP Timeout: %ds (attempts: %d)\n", c.FMPTimeoutSeconds, c.FMPMaxAttempts)
	fmt.Println("--------------------------------------")
	fmt.Printf("Port: %d\n", c.Port)
	fmt.Printf("CORS Origin: %s\n", c.CORSAllowOrigin)
	fmt.Printf("Web UI: %s\n", boolLabel(c.ServeUI, "enabled", "disabled"))
	fmt.Printf("Log: %s (%s)\n", c.LogLevel, c.LogFormat)
	fmt.Printf("Intraday Default Period: %s\n", c.IntradayDefaultPeriod)
	fmt.Println("--------------------------------------")
	fmt.Println("Watchlist:")
	fmt.Printf("  File: %s\n", boolLabel(c.WatchlistFile != "", c.WatchlistFile, "not set"))
	fmt.Printf("  List: %s\n", c.WatchList)
	fmt.Printf("  Schedule: %s\n", boolLabel(c.WatchSchedule != "", c.WatchSchedule, "disabled"))
	fmt.Printf("  Webhook: %s\n", boolLabel(c.WebhookURL != "", "configured", "not set"))
	fmt.Println("======================================")
}

// ValidPeriod reports whether p is a supported intraday interval.
func ValidPeriod(p string) bool {
	for _, v := range IntradayPeriods {
		if v == p {
			return true
		}
	}
	return false
}

// MaskKey shows the first four characters of a secret.
func MaskKey(key string) string {
	if key == "" {
		return "not set"
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + "..."
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "true" || v == "1" || v == "yes"
	}
	return fallback
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
