package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/olgasafonova/wikipedia-mcp-server/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultMaxBodySize bounds incoming JSON-RPC request bodies
const DefaultMaxBodySize = 1 << 20

// SecurityConfig configures SecurityMiddleware
type SecurityConfig struct {
	MaxBodySize int64 // bytes; zero disables the limit
}

// SecurityMiddleware limits request bodies, turns panics into a 500 and
// counts requests by method and status.
type SecurityMiddleware struct {
	next   http.Handler
	logger *slog.Logger
	config SecurityConfig
}

// NewSecurityMiddleware wraps next
func NewSecurityMiddleware(next http.Handler, logger *slog.Logger, config SecurityConfig) *SecurityMiddleware {
	return &SecurityMiddleware{next: next, logger: logger, config: config}
}

func (s *SecurityMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	defer func() {
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
	}()
	defer func() {
		if p := recover(); p != nil {
			metrics.PanicsRecovered.WithLabelValues("http").Inc()
			s.logger.Error("Panic recovered",
				"operation", "http "+r.URL.Path,
				"panic", p,
				"stack", string(debug.Stack()))
			if !rec.wroteHeader {
				http.Error(rec, "internal server error", http.StatusInternalServerError)
			}
		}
	}()

	if s.config.MaxBodySize > 0 && r.Body != nil {
		r.Body = http.MaxBytesReader(rec, r.Body, s.config.MaxBodySize)
	}
	s.next.ServeHTTP(rec, r)
}

// statusRecorder captures the status code written by the wrapped handler
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

// Flush keeps streaming responses working through the recorder
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the underlying writer to http.ResponseController
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// newHTTPHandler serves MCP on /mcp, Prometheus metrics on /metrics and a
// liveness probe on /health.
func newHTTPHandler(server *mcp.Server, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "ok",
			"name":    ServerName,
			"version": ServerVersion,
		})
	})
	return NewSecurityMiddleware(mux, logger, SecurityConfig{MaxBodySize: DefaultMaxBodySize})
}

// serveHTTP runs handler on addr until ctx is canceled, then shuts down.
func serveHTTP(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
