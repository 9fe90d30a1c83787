package wikipedia

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/olgasafonova/wikipedia-mcp-server/internal/base"
	apierrors "github.com/olgasafonova/wikipedia-mcp-server/internal/errors"
	"github.com/olgasafonova/wikipedia-mcp-server/metrics"
	"github.com/olgasafonova/wikipedia-mcp-server/tracing"
	"go.opentelemetry.io/otel/trace"
)

// UnknownLength marks a document size the server did not report.
const UnknownLength = -1

// RangeKind tells whether the server honored a byte-range request.
type RangeKind int

const (
	RangeFull    RangeKind = iota // range ignored, or total not reported
	RangePartial                  // range honored with a parsable total
)

func (k RangeKind) String() string {
	switch k {
	case RangeFull:
		return "full"
	case RangePartial:
		return "partial"
	default:
		return "unknown"
	}
}

// RangedFetchResult is the classified outcome of one ranged article fetch.
type RangedFetchResult struct {
	Kind        RangeKind
	Body        string // raw bytes; may cut through a UTF-8 sequence
	TotalLength int    // UnknownLength when no parsable Content-Range was sent
}

// TotalKnown reports whether the server reported the document size.
func (r RangedFetchResult) TotalKnown() bool {
	return r.TotalLength != UnknownLength
}

// FetchRange requests bytes [start, start+length) of the article's HTML.
// Exactly one request is made. A 200 or 206 is classified into a
// RangedFetchResult; any other status or a transport failure is returned as
// *errors.RemoteFetchError.
func (c *Client) FetchRange(ctx context.Context, title string, start, length int) (RangedFetchResult, error) {
	if err := validateTitle(title); err != nil {
		return RangedFetchResult{}, err
	}
	if start < 0 {
		return RangedFetchResult{}, apierrors.NewValidationError("start", strconv.Itoa(start), "must not be negative")
	}
	if length <= 0 {
		return RangedFetchResult{}, apierrors.NewValidationError("length", strconv.Itoa(length), "must be positive")
	}
	if length > base.MaxResponseSize {
		return RangedFetchResult{}, apierrors.NewValidationError("length", strconv.Itoa(length),
			fmt.Sprintf("must not exceed %d bytes", base.MaxResponseSize))
	}
	if start > math.MaxInt-length {
		return RangedFetchResult{}, apierrors.NewValidationError("length", strconv.Itoa(length), "range end overflows")
	}

	resp, err := c.DoRequest(ctx, base.RequestConfig{
		URL:      c.pageURL(EndpointHTML, title),
		Endpoint: EndpointHTML,
		Title:    title,
		Accept:   "text/html",
		Headers: map[string]string{
			"Range": fmt.Sprintf("bytes=%d-%d", start, start+length-1),
			// Byte offsets must refer to the identity encoding
			"Accept-Encoding": "identity",
		},
	})
	if err != nil {
		return RangedFetchResult{}, err
	}

	result, err := classifyRangeResponse(resp, c.Logger)
	if err != nil {
		return RangedFetchResult{}, err
	}
	metrics.RecordRangeResponse(result.Kind.String())
	tracing.AddRangeAttributes(trace.SpanFromContext(ctx), start, length, result.Kind.String())
	return result, nil
}

// classifyRangeResponse is the single decision point between full and
// partial delivery.
func classifyRangeResponse(resp *base.Response, logger *slog.Logger) (RangedFetchResult, error) {
	switch resp.StatusCode {
	case http.StatusOK:
		// A size indicator on a 200 is kept for display only
		total, ok := parseContentRange(resp.Header.Get("Content-Range"))
		if !ok {
			total = UnknownLength
		}
		return RangedFetchResult{
			Kind:        RangeFull,
			Body:        string(resp.Body),
			TotalLength: total,
		}, nil

	case http.StatusPartialContent:
		header := resp.Header.Get("Content-Range")
		total, ok := parseContentRange(header)
		if !ok {
			if logger != nil {
				logger.Debug("Unparsable Content-Range on partial response, treating as full content",
					"content_range", header)
			}
			return RangedFetchResult{
				Kind:        RangeFull,
				Body:        string(resp.Body),
				TotalLength: UnknownLength,
			}, nil
		}
		return RangedFetchResult{
			Kind:        RangePartial,
			Body:        string(resp.Body),
			TotalLength: total,
		}, nil

	default:
		return RangedFetchResult{}, apierrors.NewStatusError(EndpointHTML, resp.StatusCode, resp.StatusText)
	}
}

// parseContentRange extracts <total> from "bytes <start>-<end>/<total>".
func parseContentRange(header string) (int, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(header), "bytes ")
	if !ok {
		return 0, false
	}
	span, totalStr, ok := strings.Cut(rest, "/")
	if !ok {
		return 0, false
	}
	first, last, ok := strings.Cut(strings.TrimSpace(span), "-")
	if !ok || !isDigits(first) || !isDigits(last) {
		return 0, false
	}
	totalStr = strings.TrimSpace(totalStr)
	if !isDigits(totalStr) {
		return 0, false
	}
	total, err := strconv.Atoi(totalStr)
	if err != nil {
		return 0, false
	}
	return total, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
