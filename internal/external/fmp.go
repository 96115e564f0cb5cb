package external

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kjannette/fmp-backend/internal/httputil"
)

const DefaultBaseURL = "https://financialmodelingprep.com/api"

// ErrUpstream is returned when FMP answers with an {"Error Message": ...}
// payload instead of data. The upstream message is kept in the wrapped error.
var ErrUpstream = errors.New("fmp error")

type FMPOptions struct {
	BaseURL     string
	Timeout     time.Duration
	MaxAttempts int
	Logger      zerolog.Logger
}

type FMPClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	retry      httputil.RetryConfig
	log        zerolog.Logger
}

func NewFMPClient(apiKey string, opts FMPOptions) *FMPClient {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	c := &FMPClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: &http.Client{Timeout: opts.Timeout},
		retry:      httputil.SingleShot,
		log:        opts.Logger,
	}

	if opts.MaxAttempts > 1 {
		c.retry = httputil.DefaultRetry
		c.retry.MaxAttempts = opts.MaxAttempts
		c.retry.OnRetry = func(attempt, maxAttempts int, err error, delay time.Duration) {
			c.log.Warn().Err(err).
				Int("attempt", attempt).
				Int("max_attempts", maxAttempts).
				Dur("delay", delay).
				Msg("FMP request failed, retrying")
		}
	}
	return c
}

// get fetches {baseURL}/{version}/{path}?{q}&apikey=... and decodes the JSON
// body into v. Path segments must already be escaped.
func (c *FMPClient) get(ctx context.Context, version, path string, q url.Values, v any) error {
	params := url.Values{}
	for k, vals := range q {
		params[k] = vals
	}
	redacted := params.Encode()
	params.Set("apikey", c.apiKey)

	endpoint := c.baseURL + "/" + version + "/" + path
	start := time.Now()

	body, err := httputil.GetBody(ctx, c.httpClient, c.retry, endpoint+"?"+params.Encode())
	if err != nil {
		c.log.Error().Err(scrub(err, c.apiKey)).Str("path", path).Str("query", redacted).Msg("FMP request failed")
		return fmt.Errorf("fmp %s: %w", path, scrub(err, c.apiKey))
	}

	c.log.Debug().
		Str("path", path).
		Str("query", redacted).
		Int("bytes", len(body)).
		Dur("took", time.Since(start)).
		Msg("FMP request")

	if msg := errorMessage(body); msg != "" {
		return fmt.Errorf("fmp %s: %w: %s", path, ErrUpstream, msg)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("fmp %s: decode: %w", path, err)
	}
	return nil
}

func errorMessage(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return ""
	}
	var e struct {
		Message string `json:"Error Message"`
	}
	if json.Unmarshal(body, &e) != nil {
		return ""
	}
	return e.Message
}

// scrub keeps the API key out of transport errors, which embed the full URL.
func scrub(err error, key string) error {
	if err == nil || key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return &scrubbedError{msg: strings.ReplaceAll(err.Error(), key, "***"), err: err}
}

type scrubbedError struct {
	msg string
	err error
}

func (e *scrubbedError) Error() string { return e.msg }
func (e *scrubbedError) Unwrap() error { return e.err }

func seg(s string) string {
	return url.PathEscape(s)
}

func symbol(s string) string {
	return seg(strings.ToUpper(strings.TrimSpace(s)))
}
