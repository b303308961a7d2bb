package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL    = "https://api.mist.com/api/v1"
	defaultTimeout    = 10 * time.Second
	defaultMaxRetries = 3
	defaultBackoff    = 500 * time.Millisecond
	maxErrorBody      = 4 << 10
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL       string
	Token         string
	Timeout       time.Duration
	MaxRetries    int
	BackoffFactor time.Duration
	// RateLimit is requests per second; 0 disables client-side throttling.
	RateLimit  float64
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client is a thin HTTP client for the network management API.
type Client struct {
	baseURL    string
	token      string
	http       *http.Client
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
	log        zerolog.Logger
}

// NewClient creates a client for the given options.
func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	retries := opts.MaxRetries
	if retries < 0 {
		retries = 0
	}
	bo := opts.BackoffFactor
	if bo <= 0 {
		bo = defaultBackoff
	}

	c := &Client{
		baseURL:    base,
		token:      opts.Token,
		http:       hc,
		maxRetries: retries,
		backoff:    bo,
		log:        opts.Logger.With().Str("component", "api").Logger(),
	}
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Do performs one API call, retrying transient and rate-limited failures.
// out may be nil when the response body is not needed.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	attempt := 0
	var lastErr error
	operation := func() (struct{}, error) {
		attempt++
		err := c.once(ctx, method, path, query, payload, out)
		if err == nil {
			return struct{}{}, nil
		}
		if ctx.Err() != nil {
			return struct{}{}, backoff.Permanent(ctx.Err())
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.Retryable() {
			return struct{}{}, backoff.Permanent(err)
		}
		lastErr = err
		c.log.Debug().
			Err(err).
			Int("attempt", attempt).
			Str("method", method).
			Str("path", path).
			Msg("Retrying API request")
		if secs := int(math.Ceil(apiErr.RetryAfter.Seconds())); secs > 0 {
			return struct{}{}, backoff.RetryAfter(secs)
		}
		return struct{}{}, err
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(uint(c.maxRetries+1)))
	var ra *backoff.RetryAfterError
	if errors.As(err, &ra) && lastErr != nil {
		return lastErr
	}
	return err
}

func (c *Client) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.backoff
	b.Multiplier = 2
	b.MaxInterval = 30 * time.Second
	return b
}

func (c *Client) once(ctx context.Context, method, path string, query url.Values, payload []byte, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return transportError(method, path, err)
	}
	defer res.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", res.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("API response")

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return &APIError{
			Method:     method,
			Path:       path,
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Message:    strings.TrimSpace(string(msg)),
			RetryAfter: parseRetryAfter(res.Header.Get("Retry-After")),
			Err:        classifyStatus(res.StatusCode),
		}
	}

	if out == nil {
		return nil
	}

	decoder := json.NewDecoder(res.Body)
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}
