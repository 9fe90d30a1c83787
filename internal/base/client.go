// Package base provides shared HTTP client infrastructure for the Wikipedia APIs.
package base

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	apierrors "github.com/olgasafonova/wikipedia-mcp-server/internal/errors"
	"github.com/olgasafonova/wikipedia-mcp-server/metrics"
	"github.com/olgasafonova/wikipedia-mcp-server/tracing"
	"go.opentelemetry.io/otel/attribute"
)

const (
	// DefaultTimeout for API requests
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies the server to Wikimedia, which asks clients
	// to send a descriptive User-Agent.
	DefaultUserAgent = "wikipedia-mcp-server/1.0 (https://github.com/olgasafonova/wikipedia-mcp-server)"

	// MaxResponseSize caps how much of a response body is read (10 MB)
	MaxResponseSize = 10 << 20
)

// Client provides common HTTP client infrastructure. Every call to DoRequest
// issues exactly one outbound request; there is no retry, cache or
// request coalescing.
type Client struct {
	HTTPClient *http.Client
	Logger     *slog.Logger
	UserAgent  string
}

// ClientOption configures the Client
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.HTTPClient = c
	}
}

// WithLogger sets a custom logger
func WithLogger(l *slog.Logger) ClientOption {
	return func(client *Client) {
		client.Logger = l
	}
}

// WithUserAgent sets the User-Agent header sent with every request
func WithUserAgent(ua string) ClientOption {
	return func(client *Client) {
		if ua != "" {
			client.UserAgent = ua
		}
	}
}

// WithTimeout replaces the HTTP client with one using the given timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(client *Client) {
		if d > 0 {
			client.HTTPClient = newHTTPClient(d)
		}
	}
}

// NewClient creates a new base client with default settings
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		HTTPClient: newHTTPClient(DefaultTimeout),
		Logger:     slog.Default(),
		UserAgent:  DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Close releases idle connections held by the client
func (c *Client) Close() {
	if c.HTTPClient != nil {
		c.HTTPClient.CloseIdleConnections()
	}
}

// RequestConfig configures a single HTTP request
type RequestConfig struct {
	URL      string
	Endpoint string            // metrics and tracing label, e.g. "page/html"
	Title    string            // article the request targets, if any
	Accept   string            // defaults to application/json
	Headers  map[string]string // extra headers such as Range
}

// Response is the raw outcome of a request that reached the server.
type Response struct {
	StatusCode int
	StatusText string
	Header     http.Header
	Body       []byte
}

// DoRequest performs a single GET request. Transport failures are returned as
// *errors.RemoteFetchError; any HTTP status is returned to the caller, which
// decides what counts as success.
func (c *Client) DoRequest(ctx context.Context, cfg RequestConfig) (*Response, error) {
	ctx, span := tracing.StartSpan(ctx, "wikipedia.api."+cfg.Endpoint)
	defer span.End()
	tracing.AddArticleAttributes(span, cfg.Endpoint, cfg.Title)
	span.SetAttributes(attribute.String("http.url", cfg.URL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.URL, nil)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	accept := cfg.Accept
	if accept == "" {
		accept = "application/json"
	}
	req.Header.Set("Accept", accept)
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	} else {
		req.Header.Set("User-Agent", DefaultUserAgent)
	}
	for k, v := range cfg.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		duration := time.Since(start).Seconds()
		metrics.RecordAPICall(cfg.Endpoint, duration, false, "transport")
		c.Logger.Warn("Wikipedia API request failed",
			"endpoint", cfg.Endpoint,
			"url", cfg.URL,
			"error", err)
		tracing.RecordError(span, err)
		return nil, apierrors.NewTransportError(cfg.Endpoint, err)
	}

	body, err := readAndClose(resp)
	duration := time.Since(start).Seconds()
	if err != nil {
		metrics.RecordAPICall(cfg.Endpoint, duration, false, "transport")
		tracing.RecordError(span, err)
		return nil, apierrors.NewTransportError(cfg.Endpoint, fmt.Errorf("failed to read response: %w", err))
	}

	tracing.AddResponseAttributes(span, resp.StatusCode, len(body))

	success := resp.StatusCode >= 200 && resp.StatusCode < 300
	errorCode := ""
	if !success {
		errorCode = strconv.Itoa(resp.StatusCode)
		c.Logger.Warn("Wikipedia API returned error status",
			"endpoint", cfg.Endpoint,
			"status", resp.StatusCode,
			"body", truncate(string(body), 200))
	}
	metrics.RecordAPICall(cfg.Endpoint, duration, success, errorCode)

	return &Response{
		StatusCode: resp.StatusCode,
		StatusText: statusText(resp),
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// statusText returns the reason phrase of the response, e.g. "Not Found"
func statusText(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, code)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

// readAndClose reads the response body and closes it
func readAndClose(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, err
	}
	if len(body) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeds %d bytes", MaxResponseSize)
	}
	return body, nil
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// newHTTPClient creates an HTTP client with optimized transport settings
func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       120 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		DisableCompression:    false,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
