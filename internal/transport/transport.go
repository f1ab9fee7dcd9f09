package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-records/internal/common"
)

// RequestError is the single failure value produced by Client. Message is
// what the user sees; Status is the HTTP status when a response arrived.
type RequestError struct {
	Message string
	Status  int
}

func (e *RequestError) Error() string {
	return e.Message
}

// Doer issues HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

var (
	errServerStatus = errors.New("server error")
	errCircuitOpen  = errors.New("circuit breaker open")
)

// Client sends JSON requests to the remote record store and normalizes
// every failure into a *RequestError. It never retries.
type Client struct {
	baseURL string
	doer    Doer
	circuit *gobreaker.CircuitBreaker
}

// Option configures a Client.
type Option func(*Client)

// WithCircuitBreaker stops sending requests for openTimeout after
// maxFailures consecutive network failures or 5xx responses.
// A zero maxFailures leaves the breaker off.
func WithCircuitBreaker(maxFailures uint32, openTimeout time.Duration) Option {
	return func(c *Client) {
		if maxFailures == 0 {
			c.circuit = nil
			return
		}
		c.circuit = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "records-api",
			MaxRequests: 1,
			Timeout:     openTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
		})
	}
}

// New creates a Client for baseURL. A nil doer falls back to http.DefaultClient.
func New(baseURL string, doer Doer, opts ...Option) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		doer:    doer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Send issues method against path with body encoded as JSON (nil for no
// body). On a 2xx response a JSON payload is decoded into out; a non-JSON
// payload is stored verbatim when out is a *string and ignored otherwise.
func (c *Client) Send(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &RequestError{Message: fmt.Sprintf("encode request: %v", err)}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &RequestError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.do(req)
	if err != nil {
		return &RequestError{Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Message: fmt.Sprintf("read response: %v", err), Status: resp.StatusCode}
	}

	ct := resp.Header.Get("Content-Type")
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RequestError{Message: failureMessage(resp.StatusCode, ct, raw), Status: resp.StatusCode}
	}

	return decode(resp.StatusCode, ct, raw, out)
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.circuit == nil {
		return c.doer.Do(req)
	}

	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, doErr := c.doer.Do(req)
		if doErr != nil {
			return nil, doErr
		}
		// 5xx counts against the breaker but the response still carries
		// the server's message.
		if resp.StatusCode >= 500 {
			return resp, errServerStatus
		}
		return resp, nil
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
	}
	if resp, ok := result.(*http.Response); ok && resp != nil {
		return resp, nil
	}
	return nil, err
}

// failureMessage extracts the user-facing message from a non-2xx response.
func failureMessage(status int, ct string, raw []byte) string {
	fallback := fmt.Sprintf("HTTP %d", status)

	if common.IsJSONContentType(ct) {
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(raw, &payload); err != nil || payload.Error == "" {
			return fallback
		}
		return payload.Error
	}

	// An empty text body would leave a blank status.
	if strings.TrimSpace(string(raw)) == "" {
		return fallback
	}
	return string(raw)
}

func decode(status int, ct string, raw []byte, out any) error {
	if !common.IsJSONContentType(ct) {
		if s, ok := out.(*string); ok {
			*s = string(raw)
		}
		return nil
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	invalid := func(err error) error {
		return &RequestError{Message: fmt.Sprintf("invalid JSON response: %v", err), Status: status}
	}

	switch v := out.(type) {
	case nil:
		if !json.Valid(raw) {
			return invalid(errors.New("malformed payload"))
		}
	case *string:
		if !json.Valid(raw) {
			return invalid(errors.New("malformed payload"))
		}
		*v = string(raw)
	default:
		if err := json.Unmarshal(raw, out); err != nil {
			return invalid(err)
		}
	}
	return nil
}
