// Package apiclient talks to the RAG backend REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Call describes one completed request, reported to an Observer.
type Call struct {
	RequestID string
	Method    string
	Endpoint  string
	Status    int
	Duration  time.Duration
	Err       error
}

// Observer receives every completed call. Implementations must not block.
type Observer interface {
	ObserveCall(ctx context.Context, call Call)
}

// Client performs JSON requests against the backend.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	limiter    *rate.Limiter
	observer   Observer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRateLimit allows at most rpm requests per minute. Zero disables it.
func WithRateLimit(rpm int) Option {
	return func(c *Client) {
		if rpm > 0 {
			c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1)
		}
	}
}

// WithObserver reports every call to o.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{httpClient: &http.Client{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request sends method to endpoint, with data JSON-encoded as the body when
// non-nil, and returns the raw JSON response body.
func (c *Client) Request(ctx context.Context, method, endpoint string, data any) (json.RawMessage, error) {
	requestID := uuid.New().String()
	start := time.Now()

	status, body, err := c.do(ctx, requestID, method, endpoint, data)
	shown := RedactURL(endpoint)

	if c.observer != nil {
		c.observer.ObserveCall(ctx, Call{
			RequestID: requestID,
			Method:    method,
			Endpoint:  shown,
			Status:    status,
			Duration:  time.Since(start),
			Err:       err,
		})
	}
	if err != nil {
		log.Printf("apiclient: %s %s failed: %v", method, shown, err)
		return nil, err
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, requestID, method, endpoint string, data any) (int, json.RawMessage, error) {
	shown := RedactURL(endpoint)
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, c.contextErr(ctx, shown, err)
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if data != nil {
		payload, err := json.Marshal(data)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", redactErr(err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	log.Printf("apiclient: %s %s", method, shown)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, nil, c.contextErr(ctx, shown, err)
		}
		return 0, nil, fmt.Errorf("request to %s failed: %w", shown, redactErr(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return resp.StatusCode, nil, c.contextErr(ctx, shown, err)
		}
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}

	log.Printf("apiclient: %s %s -> %d", method, shown, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.StatusCode, body),
		}
	}

	if !json.Valid(body) {
		return resp.StatusCode, nil, fmt.Errorf("decoding response from %s: invalid JSON", shown)
	}
	return resp.StatusCode, body, nil
}

// contextErr maps a context failure to the error callers act on: a
// TimeoutError for our own deadline, otherwise the cancellation cause.
func (c *Client) contextErr(ctx context.Context, endpoint string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && c.timeout > 0 {
		return &TimeoutError{Endpoint: endpoint, After: c.timeout}
	}
	if cause := context.Cause(ctx); cause != nil {
		return cause
	}
	return err
}

// Decode unmarshals raw into a value of type T and validates it when T
// implements Validate.
func Decode[T any](raw json.RawMessage) (*T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if val, ok := any(&v).(interface{ Validate() error }); ok {
		if err := val.Validate(); err != nil {
			return nil, err
		}
	}
	return &v, nil
}
