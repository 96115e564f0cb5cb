package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kjannette/fmp-backend/internal/httputil"
)

const defaultName = "FMPToolkit"

// Sender posts messages to a Slack or Discord webhook. Every message is also
// logged, so a Sender without a URL is a log-only notifier.
type Sender struct {
	webhookURL string
	name       string
	httpClient *http.Client
	retry      httputil.RetryConfig
	log        zerolog.Logger
}

func NewSender(webhookURL, name string, log zerolog.Logger) *Sender {
	if name == "" {
		name = defaultName
	}
	s := &Sender{
		webhookURL: webhookURL,
		name:       name,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
	s.retry = httputil.RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second,
		MaxDelay:    5 * time.Second,
		OnRetry: func(attempt, max int, err error, delay time.Duration) {
			s.log.Warn().Err(err).Int("attempt", attempt).Int("max", max).Dur("backoff", delay).Msg("webhook retry")
		},
	}
	return s
}

func (s *Sender) Enabled() bool {
	return s.webhookURL != ""
}

// Send logs msg and, when a webhook is configured, delivers it.
func (s *Sender) Send(ctx context.Context, msg string) error {
	s.log.Info().Str("notifier", s.name).Msg(msg)

	if s.webhookURL == "" {
		return nil
	}

	body, err := json.Marshal(s.formatPayload(msg))
	if err != nil {
		return fmt.Errorf("webhook marshal: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := httputil.Do(ctx, s.httpClient, s.retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		s.log.Error().Err(err).Msg("webhook delivery failed")
		return fmt.Errorf("webhook: %w", err)
	}
	resp.Body.Close()

	if resp.StatusCode >= 300 {
		s.log.Error().Int("status", resp.StatusCode).Msg("webhook rejected message")
		return fmt.Errorf("webhook: %w", &httputil.StatusError{StatusCode: resp.StatusCode})
	}
	return nil
}

// formatPayload picks the Discord shape for discord URLs and Slack otherwise.
// Slack gets a code block so tables keep their alignment.
func (s *Sender) formatPayload(msg string) map[string]string {
	if strings.Contains(s.webhookURL, "discord") {
		return map[string]string{
			"content":  msg,
			"username": s.name,
		}
	}
	return map[string]string{
		"text":     fmt.Sprintf("```%s```", msg),
		"username": s.name,
	}
}
