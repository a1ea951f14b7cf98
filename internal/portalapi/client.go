package portalapi

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

	"github.com/cenkalti/backoff/v4"

	"github.com/louisbranch/hubbble/internal/platform/otel"
)

const (
	// DefaultBaseURL is the development API root.
	DefaultBaseURL = "http://localhost:8000/api/v1"
	// DefaultTimeout bounds one HTTP exchange with the API.
	DefaultTimeout = 30 * time.Second

	defaultMaxTries      = 3
	defaultRetryInterval = 200 * time.Millisecond
	maxResponseBytes     = 4 << 20
	userAgent            = "hubbble-web"
)

// Options configures a Client.
type Options struct {
	// BaseURL is the API root, e.g. http://localhost:8000/api/v1.
	BaseURL string
	// Timeout caps each HTTP exchange. Zero uses DefaultTimeout.
	Timeout time.Duration
	// Transport overrides the base round tripper. It is always wrapped with
	// OpenTelemetry instrumentation.
	Transport http.RoundTripper
	// MaxTries caps attempts for idempotent reads that fail without a
	// response. Zero uses 3.
	MaxTries uint64
	// RetryInterval is the first backoff delay between read attempts.
	RetryInterval time.Duration
}

// Client calls the remote portal API. It is safe for concurrent use.
type Client struct {
	baseURL       *url.URL
	http          *http.Client
	maxTries      uint64
	retryInterval time.Duration
}

// New builds a Client from opts.
func New(opts Options) (*Client, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("api base url %q must be http or https", raw)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("api base url %q has no host", raw)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxTries := opts.MaxTries
	if maxTries == 0 {
		maxTries = defaultMaxTries
	}
	retryInterval := opts.RetryInterval
	if retryInterval <= 0 {
		retryInterval = defaultRetryInterval
	}
	return &Client{
		baseURL:       base,
		http:          &http.Client{Timeout: timeout, Transport: otel.WrapTransport(opts.Transport)},
		maxTries:      maxTries,
		retryInterval: retryInterval,
	}, nil
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

type call struct {
	method string
	path   string
	body   any
	auth   bool
}

// get performs an authenticated idempotent read, retrying network failures.
func (c *Client) get(ctx context.Context, path string, out any) error {
	operation := func() error {
		err := c.do(ctx, call{method: http.MethodGet, path: path, auth: true}, out)
		if err == nil || IsNetwork(err) {
			return err
		}
		return backoff.Permanent(err)
	}
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryInterval
	policy.MaxElapsedTime = 0
	retries := backoff.WithContext(backoff.WithMaxRetries(policy, c.maxTries-1), ctx)
	return backoff.Retry(operation, retries)
}

// send performs a mutation exactly once.
func (c *Client) send(ctx context.Context, path string, body any, auth bool, out any) error {
	return c.do(ctx, call{method: http.MethodPost, path: path, body: body, auth: auth}, out)
}

func (c *Client) do(ctx context.Context, in call, out any) error {
	if c == nil || c.http == nil {
		return errors.New("portal api client is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var reader io.Reader
	if in.body != nil {
		payload, err := json.Marshal(in.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", in.method, in.path, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, in.method, c.baseURL.String()+in.path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", in.method, in.path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}
	if in.auth {
		if token := AccessTokenFromContext(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return networkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return networkError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, body)
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	data := body
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && len(bytes.TrimSpace(env.Data)) > 0 {
		data = env.Data
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindAPI, Message: "Unexpected response from server", StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}
