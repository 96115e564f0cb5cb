package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxBodyBytes caps upstream payloads. Full price histories for long-lived
// tickers run to several MiB.
const maxBodyBytes = 32 << 20

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether another attempt could succeed. Do retries
// exactly these statuses.
func (e *StatusError) Retryable() bool {
	return retryableStatus(e.StatusCode)
}

// GetBody performs a GET and returns the (size-capped) body of a 2xx response.
func GetBody(ctx context.Context, client *http.Client, cfg RetryConfig, url string) ([]byte, error) {
	resp, err := Do(ctx, client, cfg, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
