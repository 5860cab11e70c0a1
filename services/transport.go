package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"hotel-channel/config"
)

// Transport posts one XML payload to the PMS and returns the response body.
// Implementations own retries; callers treat a returned error as terminal.
type Transport interface {
	Send(ctx context.Context, payload []byte) ([]byte, error)
}

// backoffDelay is the single backoff policy shared by every outbound call:
// 1s, 2s, 4s, ... for attempt 1, 2, 3, ...
func backoffDelay(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * time.Second
}

// PMSTransport sends authenticated XML POSTs with bounded retries. Only
// transport failures and 5xx responses are retried; 4xx means the request
// itself is bad and retrying cannot help.
type PMSTransport struct {
	endpoint    string
	key         string
	secret      string
	maxAttempts int
	client      *http.Client
	log         *logrus.Logger
}

func NewPMSTransport(cfg *config.ChannelConfig, log *logrus.Logger) *PMSTransport {
	return &PMSTransport{
		endpoint:    cfg.EndpointURL,
		key:         cfg.APIKey,
		secret:      cfg.APISecret,
		maxAttempts: cfg.MaxAttempts,
		client:      &http.Client{Timeout: cfg.RequestTimeout},
		log:         log,
	}
}

func (t *PMSTransport) Send(ctx context.Context, payload []byte) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= t.maxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleepCtx(ctx, backoffDelay(attempt-1)); err != nil {
				return nil, &TransportError{Attempts: attempt - 1, Err: err}
			}
		}

		body, retryable, err := t.attempt(ctx, payload)
		if err == nil {
			t.log.WithFields(logrus.Fields{"attempt": attempt, "endpoint": t.endpoint}).
				Info("pms request delivered")
			return body, nil
		}

		t.log.WithFields(logrus.Fields{"attempt": attempt, "endpoint": t.endpoint, "retryable": retryable}).
			WithError(err).Warn("pms request failed")

		if !retryable {
			return nil, err
		}
		lastErr = err
	}

	return nil, &TransportError{Attempts: t.maxAttempts, Err: lastErr}
}

// attempt performs one POST. The bool reports whether the failure is worth
// retrying.
func (t *PMSTransport) attempt(ctx context.Context, payload []byte) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, false, fmt.Errorf("cannot build request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.SetBasicAuth(t.key, t.secret)

	resp, err := t.client.Do(req)
	if err != nil {
		// Connect failures and client timeouts are the transient class.
		return nil, true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, true, fmt.Errorf("reading response: %w", readErr)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, false, nil
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("HTTP error %d: %s", resp.StatusCode, truncate(body, 200))
	default:
		return nil, false, &ProtocolError{StatusCode: resp.StatusCode, Remote: truncate(body, 200)}
	}
}

// sleepCtx waits without holding any lock and returns early on cancellation.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
