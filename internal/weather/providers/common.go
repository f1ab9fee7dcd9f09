package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// BackoffConfig controls exponential backoff behaviour.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultBackoff is used by providers unless overridden.
var DefaultBackoff = BackoffConfig{
	MaxRetries:      3,
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     5 * time.Second,
}

// delay returns the wait before retry number attempt (0-based).
func (b BackoffConfig) delay(attempt int) time.Duration {
	d := b.InitialInterval << attempt
	if b.MaxInterval > 0 && (d > b.MaxInterval || d <= 0) {
		d = b.MaxInterval
	}
	return d
}

var (
	errRetryable     = errors.New("upstream unavailable")
	errRejected      = errors.New("upstream rejected request")
	errCircuitOpen   = errors.New("circuit breaker open")
	errNoHTTPClient  = errors.New("http client not configured")
	errInvalidConfig = errors.New("invalid backoff configuration")
)

// rejection wraps a non-retryable upstream answer (4xx other than 429).
type rejection struct{ status int }

func (r rejection) Error() string { return fmt.Sprintf("%v: HTTP %d", errRejected, r.status) }
func (r rejection) Unwrap() error { return errRejected }

// upstream is one outbound endpoint guarded by retries and its own breaker.
type upstream struct {
	client  *http.Client
	backoff BackoffConfig
	breaker *gobreaker.CircuitBreaker
}

func newUpstream(name string, client *http.Client) *upstream {
	return &upstream{
		client:  client,
		backoff: DefaultBackoff,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
			// A rejection means the upstream answered; only outages count.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, errRejected)
			},
		}),
	}
}

// getJSON GETs url and decodes the JSON body into out. Network errors, 429
// and 5xx are retried with exponential backoff while the breaker allows it.
func (u *upstream) getJSON(ctx context.Context, url string, out any) error {
	if u.client == nil {
		return errNoHTTPClient
	}
	if u.backoff.MaxRetries < 0 || u.backoff.InitialInterval <= 0 {
		return errInvalidConfig
	}

	for attempt := 0; ; attempt++ {
		body, err := u.breaker.Execute(func() (interface{}, error) {
			return u.fetch(ctx, url)
		})
		if err == nil {
			return json.Unmarshal(body.([]byte), out)
		}

		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return fmt.Errorf("%w: %v", errCircuitOpen, err)
		case errors.Is(err, errRejected), ctx.Err() != nil, attempt >= u.backoff.MaxRetries:
			return err
		}

		timer := time.NewTimer(u.backoff.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (u *upstream) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: HTTP %d", errRetryable, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, rejection{status: resp.StatusCode}
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode upstream response: %w", err)
	}
	return raw, nil
}
