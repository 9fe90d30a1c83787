package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/olgasafonova/wikipedia-mcp-server/internal/base"
	apierrors "github.com/olgasafonova/wikipedia-mcp-server/internal/errors"
)

const (
	// DefaultRESTURL is the Wikipedia REST API endpoint
	DefaultRESTURL = "https://en.wikipedia.org/api/rest_v1"

	// DefaultActionURL is the MediaWiki Action API endpoint used for search
	DefaultActionURL = "https://en.wikipedia.org/w/api.php"
)

// Endpoint labels used for metrics, tracing and errors
const (
	EndpointHTML     = "page/html"
	EndpointSummary  = "page/summary"
	EndpointSegments = "page/segments"
	EndpointRelated  = "page/related"
	EndpointRandom   = "page/random/summary"
	EndpointSearch   = "search"
)

// Config holds the remote API locations
type Config struct {
	// RESTURL is the REST API base, without trailing slash
	RESTURL string

	// ActionURL is the api.php endpoint
	ActionURL string
}

// Client provides access to the Wikipedia APIs
type Client struct {
	*base.Client
	restURL   string
	actionURL string
}

// ClientOption configures the Client (re-export base.ClientOption for compatibility)
type ClientOption = base.ClientOption

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(c *http.Client) ClientOption {
	return base.WithHTTPClient(c)
}

// WithLogger sets a custom logger
func WithLogger(l *slog.Logger) ClientOption {
	return base.WithLogger(l)
}

// WithUserAgent sets the User-Agent sent to Wikipedia
func WithUserAgent(ua string) ClientOption {
	return base.WithUserAgent(ua)
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) ClientOption {
	return base.WithTimeout(d)
}

// NewClient creates a new Wikipedia client. Empty URLs fall back to the
// English Wikipedia endpoints.
func NewClient(cfg Config, opts ...ClientOption) *Client {
	restURL := strings.TrimRight(cfg.RESTURL, "/")
	if restURL == "" {
		restURL = DefaultRESTURL
	}
	actionURL := cfg.ActionURL
	if actionURL == "" {
		actionURL = DefaultActionURL
	}
	return &Client{
		Client:    base.NewClient(opts...),
		restURL:   restURL,
		actionURL: actionURL,
	}
}

// RESTURL returns the configured REST API base
func (c *Client) RESTURL() string {
	return c.restURL
}

// pageURL builds <rest>/<endpoint>/<percent-encoded title>
func (c *Client) pageURL(endpoint, title string) string {
	return c.restURL + "/" + endpoint + "/" + url.PathEscape(title)
}

// getJSON performs one GET and decodes a 2xx JSON body into T.
// Any other status becomes a RemoteFetchError.
// title is recorded on the request span and may be empty.
func getJSON[T any](ctx context.Context, c *Client, endpoint, title, reqURL string) (*T, error) {
	resp, err := c.DoRequest(ctx, base.RequestConfig{URL: reqURL, Endpoint: endpoint, Title: title})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apierrors.NewStatusError(endpoint, resp.StatusCode, resp.StatusText)
	}

	var out T
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", endpoint, err)
	}
	return &out, nil
}

// validateTitle rejects empty or whitespace-only titles
func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return apierrors.NewValidationError("title", "", "is required")
	}
	return nil
}
