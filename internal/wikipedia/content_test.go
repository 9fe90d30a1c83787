package wikipedia

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/olgasafonova/wikipedia-mcp-server/internal/base"
	apierrors "github.com/olgasafonova/wikipedia-mcp-server/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(Config{
		RESTURL:   server.URL,
		ActionURL: server.URL + "/w/api.php",
	}, WithLogger(discardLogger()))
	t.Cleanup(client.Close)
	return client
}

// rangeServer serves doc honoring "bytes=s-e" requests the way the REST API does.
func rangeServer(doc string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spec, ok := strings.CutPrefix(r.Header.Get("Range"), "bytes=")
		if !ok {
			w.WriteHeader(http.StatusOK)
			_, _ = io.WriteString(w, doc)
			return
		}
		first, last, _ := strings.Cut(spec, "-")
		s, _ := strconv.Atoi(first)
		e, _ := strconv.Atoi(last)
		if s >= len(doc) {
			w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", len(doc)))
			w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
			return
		}
		if e >= len(doc) {
			e = len(doc) - 1
		}
		w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", s, e, len(doc)))
		w.WriteHeader(http.StatusPartialContent)
		_, _ = io.WriteString(w, doc[s:e+1])
	}
}

func TestParseContentRange(t *testing.T) {
	tests := []struct {
		name   string
		header string
		total  int
		ok     bool
	}{
		{"valid", "bytes 0-4999/12000", 12000, true},
		{"last chunk", "bytes 10000-11999/12000", 12000, true},
		{"surrounding space", "  bytes 0-0/1 ", 1, true},
		{"empty", "", 0, false},
		{"unknown total", "bytes 0-4999/*", 0, false},
		{"unsatisfied range", "bytes */12000", 0, false},
		{"missing unit", "0-4999/12000", 0, false},
		{"wrong unit", "items 0-4999/12000", 0, false},
		{"missing total", "bytes 0-4999", 0, false},
		{"non-integer total", "bytes 0-4999/12k", 0, false},
		{"negative total", "bytes 0-4999/-1", 0, false},
		{"missing span end", "bytes 0-/12000", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, ok := parseContentRange(tt.header)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.total, total)
			}
		})
	}
}

func TestClassifyRangeResponse(t *testing.T) {
	partial := func(contentRange string) *base.Response {
		h := http.Header{}
		if contentRange != "" {
			h.Set("Content-Range", contentRange)
		}
		return &base.Response{StatusCode: http.StatusPartialContent, StatusText: "Partial Content", Header: h, Body: []byte("abc")}
	}

	t.Run("200 is full with unknown total", func(t *testing.T) {
		result, err := classifyRangeResponse(&base.Response{StatusCode: http.StatusOK, Header: http.Header{}, Body: []byte("abc")}, discardLogger())
		require.NoError(t, err)
		assert.Equal(t, RangeFull, result.Kind)
		assert.False(t, result.TotalKnown())
		assert.Equal(t, "abc", result.Body)
	})

	t.Run("200 keeps a reported total", func(t *testing.T) {
		h := http.Header{}
		h.Set("Content-Range", "bytes 0-2/3")
		result, err := classifyRangeResponse(&base.Response{StatusCode: http.StatusOK, Header: h, Body: []byte("abc")}, discardLogger())
		require.NoError(t, err)
		assert.Equal(t, RangeFull, result.Kind)
		assert.Equal(t, 3, result.TotalLength)
	})

	t.Run("200 with malformed header stays unknown", func(t *testing.T) {
		h := http.Header{}
		h.Set("Content-Range", "bytes */3")
		result, err := classifyRangeResponse(&base.Response{StatusCode: http.StatusOK, Header: h, Body: []byte("abc")}, discardLogger())
		require.NoError(t, err)
		assert.Equal(t, RangeFull, result.Kind)
		assert.False(t, result.TotalKnown())
	})

	t.Run("206 with total is partial", func(t *testing.T) {
		result, err := classifyRangeResponse(partial("bytes 0-2/10"), discardLogger())
		require.NoError(t, err)
		assert.Equal(t, RangePartial, result.Kind)
		assert.Equal(t, 10, result.TotalLength)
	})

	t.Run("206 without header downgrades to full", func(t *testing.T) {
		result, err := classifyRangeResponse(partial(""), discardLogger())
		require.NoError(t, err)
		assert.Equal(t, RangeFull, result.Kind)
		assert.Equal(t, UnknownLength, result.TotalLength)
	})

	t.Run("206 with malformed header downgrades to full", func(t *testing.T) {
		result, err := classifyRangeResponse(partial("bytes 0-2/*"), nil)
		require.NoError(t, err)
		assert.Equal(t, RangeFull, result.Kind)
		assert.False(t, result.TotalKnown())
	})

	t.Run("other status is a remote fetch error", func(t *testing.T) {
		_, err := classifyRangeResponse(&base.Response{StatusCode: http.StatusNotFound, StatusText: "Not Found", Body: []byte("nope")}, discardLogger())
		require.Error(t, err)
		assert.True(t, apierrors.IsRemoteFetch(err))
		assert.Equal(t, 404, apierrors.StatusCode(err))
		assert.Equal(t, "Wikipedia API error: 404 Not Found", err.Error())
	})
}

func TestRangeKindString(t *testing.T) {
	assert.Equal(t, "full", RangeFull.String())
	assert.Equal(t, "partial", RangePartial.String())
	assert.Equal(t, "unknown", RangeKind(7).String())
}

func TestFetchRange_SendsRangeRequest(t *testing.T) {
	var gotPath, gotRange, gotEncoding, gotAccept string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotRange = r.Header.Get("Range")
		gotEncoding = r.Header.Get("Accept-Encoding")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Range", "bytes 100-149/1000")
		w.WriteHeader(http.StatusPartialContent)
		_, _ = io.WriteString(w, strings.Repeat("x", 50))
	})

	result, err := client.FetchRange(context.Background(), "AC/DC", 100, 50)
	require.NoError(t, err)

	assert.Equal(t, "/page/html/AC%2FDC", gotPath)
	assert.Equal(t, "bytes=100-149", gotRange)
	assert.Equal(t, "identity", gotEncoding)
	assert.Equal(t, "text/html", gotAccept)
	assert.Equal(t, RangePartial, result.Kind)
	assert.Equal(t, 1000, result.TotalLength)
	assert.Len(t, result.Body, 50)
}

func TestFetchRange_EncodesTitle(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = io.WriteString(w, "<p>ok</p>")
	})

	_, err := client.FetchRange(context.Background(), "Alan Turing", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, "/page/html/Alan%20Turing", gotPath)
}

func TestFetchRange_ExactlyOneRequest(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.FetchRange(context.Background(), "Cat", 0, 10)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 503, apierrors.StatusCode(err))
}

func TestFetchRange_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client := NewClient(Config{RESTURL: server.URL}, WithLogger(discardLogger()))
	server.Close()

	_, err := client.FetchRange(context.Background(), "Cat", 0, 10)
	require.Error(t, err)
	assert.True(t, apierrors.IsRemoteFetch(err))
	assert.Equal(t, 0, apierrors.StatusCode(err))
	assert.Contains(t, err.Error(), "Wikipedia API request failed")
}

func TestFetchRange_Validation(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	tests := []struct {
		name   string
		title  string
		start  int
		length int
		field  string
	}{
		{"empty title", "", 0, 10, "title"},
		{"blank title", "   ", 0, 10, "title"},
		{"negative start", "Cat", -1, 10, "start"},
		{"zero length", "Cat", 0, 0, "length"},
		{"negative length", "Cat", 0, -5, "length"},
		{"overflowing range", "Cat", int(^uint(0) >> 1), 2, "length"},
		{"length above response cap", "Cat", 0, base.MaxResponseSize + 1, "must not exceed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.FetchRange(context.Background(), tt.title, tt.start, tt.length)
			require.Error(t, err)
			assert.True(t, apierrors.IsValidation(err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
	assert.Zero(t, calls.Load(), "invalid requests must not reach the server")
}

func TestFetchRange_PastEndOfDocument(t *testing.T) {
	client := newTestClient(t, rangeServer(strings.Repeat("a", 100)))

	_, err := client.FetchRange(context.Background(), "Cat", 100, 10)
	require.Error(t, err)
	assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, apierrors.StatusCode(err))
}

func TestFetchRange_LengthAtResponseCap(t *testing.T) {
	var gotRange string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotRange = r.Header.Get("Range")
		w.Header().Set("Content-Range", "bytes 0-9/10")
		w.WriteHeader(http.StatusPartialContent)
		_, _ = io.WriteString(w, "0123456789")
	})

	result, err := client.FetchRange(context.Background(), "Cat", 0, base.MaxResponseSize)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("bytes=0-%d", base.MaxResponseSize-1), gotRange)
	assert.Equal(t, RangePartial, result.Kind)
}
