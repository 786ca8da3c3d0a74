package outbound

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultMaxBytes  = 1 << 20
	defaultUserAgent = "agent-cli/1.0"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("status %d", e.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Body)
}

type Options struct {
	Name       string
	Timeout    time.Duration
	MaxBytes   int64
	UserAgent  string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client performs requests to third-party APIs behind a circuit breaker.
// Transport failures and 5xx responses count against the breaker.
type Client struct {
	http      *http.Client
	breaker   *gobreaker.CircuitBreaker
	maxBytes  int64
	userAgent string
}

func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	name := opts.Name
	if name == "" {
		name = "outbound"
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		http:      httpClient,
		breaker:   NewBreaker(name, logger),
		maxBytes:  maxBytes,
		userAgent: userAgent,
	}
}

// NewBreaker returns the breaker settings shared by outbound adapters.
func NewBreaker(name string, logger *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: IsBreakerSuccess,
	})
}

// IsBreakerSuccess reports whether err should leave the breaker closed.
// Client errors and caller cancellation are not failures of the remote side.
func IsBreakerSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode < 500
	}

	return false
}

// GetJSON issues a GET to endpoint with query and decodes the JSON body
// into out.
func (c *Client) GetJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	target := endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	body, err := c.do(request)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// PostForm submits form to endpoint and returns the raw body.
func (c *Client) PostForm(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(request)
}

func (c *Client) do(request *http.Request) ([]byte, error) {
	request.Header.Set("User-Agent", c.userAgent)

	result, err := c.breaker.Execute(func() (interface{}, error) {
		response, err := c.http.Do(request)
		if err != nil {
			return nil, fmt.Errorf("perform request: %w", err)
		}
		defer response.Body.Close()

		body, err := io.ReadAll(io.LimitReader(response.Body, c.maxBytes))
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		if response.StatusCode < 200 || response.StatusCode > 299 {
			return nil, &StatusError{StatusCode: response.StatusCode, Body: snippet(body)}
		}

		return body, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

func snippet(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 200 {
		trimmed = trimmed[:200]
	}
	return string(trimmed)
}
