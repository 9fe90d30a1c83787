package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/olgasafonova/wikipedia-mcp-server/internal/wikipedia"
	"github.com/olgasafonova/wikipedia-mcp-server/metrics"
	"github.com/olgasafonova/wikipedia-mcp-server/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// textResult is implemented by every tool result; ToolText is the text
// content returned to the caller.
type textResult interface {
	ToolText() string
}

// HandlerRegistry provides type-safe tool registration by mapping
// tool names to their concrete handler implementations.
type HandlerRegistry struct {
	client *wikipedia.Client
	logger *slog.Logger
}

// NewHandlerRegistry creates a new handler registry.
func NewHandlerRegistry(client *wikipedia.Client, logger *slog.Logger) *HandlerRegistry {
	return &HandlerRegistry{
		client: client,
		logger: logger,
	}
}

// RegisterAll registers all tools and resource templates with the MCP server.
func (h *HandlerRegistry) RegisterAll(server *mcp.Server) {
	registered := 0
	for _, spec := range AllTools {
		if h.registerByName(server, spec) {
			registered++
		}
	}
	h.registerResources(server)
	h.logger.Info("Registered all tools", "count", registered)
}

// registerByName dispatches to the correct typed registration function.
func (h *HandlerRegistry) registerByName(server *mcp.Server, spec ToolSpec) bool {
	tool := h.buildTool(spec)

	switch spec.Method {
	case "GetArticleContent":
		register(h, server, tool, spec, h.client.GetArticleContentMCP)
	case "GetArticleSummary":
		register(h, server, tool, spec, h.client.GetArticleSummaryMCP)
	case "GetArticleSegments":
		register(h, server, tool, spec, h.client.GetArticleSegmentsMCP)
	case "FindRelatedArticles":
		register(h, server, tool, spec, h.client.FindRelatedArticlesMCP)
	case "RandomArticle":
		register(h, server, tool, spec, h.client.RandomArticleMCP)
	case "Search":
		register(h, server, tool, spec, h.client.SearchMCP)
	default:
		h.logger.Error("Unknown method, tool not registered", "method", spec.Method, "tool", spec.Name)
		return false
	}
	return true
}

// buildTool creates an mcp.Tool from a ToolSpec.
func (h *HandlerRegistry) buildTool(spec ToolSpec) *mcp.Tool {
	annotations := &mcp.ToolAnnotations{
		Title:          spec.Title,
		ReadOnlyHint:   spec.ReadOnly,
		IdempotentHint: spec.Idempotent,
	}
	if spec.OpenWorld {
		annotations.OpenWorldHint = ptr(true)
	}

	return &mcp.Tool{
		Name:        spec.Name,
		Title:       spec.Title,
		Description: spec.Description,
		Annotations: annotations,
	}
}

// register is a generic helper that registers a tool with the MCP server.
// It wraps the client method with panic recovery, metrics, tracing, and logging.
// This is the only place where a failed call becomes an error result.
func register[Args any, Result textResult](
	h *HandlerRegistry,
	server *mcp.Server,
	tool *mcp.Tool,
	spec ToolSpec,
	method func(context.Context, Args) (Result, error),
) {
	mcp.AddTool(server, tool, func(ctx context.Context, req *mcp.CallToolRequest, args Args) (res *mcp.CallToolResult, out Result, err error) {
		defer h.recoverPanic(spec, &err)

		// Start trace span
		ctx, span := tracing.StartSpan(ctx, "mcp.tool."+spec.Name)
		defer span.End()

		tracing.AddToolAttributes(span, spec.Name, spec.Category, spec.ReadOnly)

		// Track in-flight requests
		metrics.RequestInFlight.WithLabelValues(spec.Name).Inc()
		defer metrics.RequestInFlight.WithLabelValues(spec.Name).Dec()

		start := time.Now()
		result, err := method(ctx, args)
		duration := time.Since(start).Seconds()

		span.SetAttributes(attribute.Float64("mcp.tool.duration_seconds", duration))

		if err != nil {
			tracing.RecordError(span, err)
			metrics.RecordRequest(spec.Name, duration, false)
			h.logger.Warn("Tool failed", "tool", spec.Name, "error", err)
			var zero Result
			return nil, zero, fmt.Errorf("%s: %w", spec.ErrorPrefix, err)
		}

		span.SetStatus(codes.Ok, "")
		metrics.RecordRequest(spec.Name, duration, true)
		h.logExecution(spec, args, result)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: result.ToolText()}},
		}, result, nil
	})
}

// recoverPanic recovers from panics in tool handlers and turns them into an
// error result.
func (h *HandlerRegistry) recoverPanic(spec ToolSpec, errp *error) {
	if rec := recover(); rec != nil {
		metrics.PanicsRecovered.WithLabelValues(spec.Name).Inc()
		h.logger.Error("Panic recovered",
			"tool", spec.Name,
			"panic", rec,
			"stack", string(debug.Stack()))
		*errp = fmt.Errorf("%s: internal error", spec.ErrorPrefix)
	}
}

// logExecution logs tool execution details.
func (h *HandlerRegistry) logExecution(spec ToolSpec, args, result any) {
	attrs := []any{"tool", spec.Name, "category", spec.Category}

	// Add extractable fields from args using type assertions
	switch a := args.(type) {
	case wikipedia.GetArticleContentArgs:
		attrs = append(attrs, "title", a.Title, "start", a.Start)
		if a.Length != nil {
			attrs = append(attrs, "length", *a.Length)
		}
	case wikipedia.GetArticleSummaryArgs:
		attrs = append(attrs, "title", a.Title)
	case wikipedia.GetArticleSegmentsArgs:
		attrs = append(attrs, "title", a.Title)
	case wikipedia.FindRelatedArticlesArgs:
		attrs = append(attrs, "title", a.Title)
	case wikipedia.SearchArgs:
		attrs = append(attrs, "query", a.Query)
	}

	// Add extractable fields from result
	switch r := result.(type) {
	case wikipedia.GetArticleContentResult:
		attrs = append(attrs, "range_end", r.RangeEnd, "has_more", r.HasMore, "partial", r.Partial)
	case wikipedia.FindRelatedArticlesResult:
		attrs = append(attrs, "related", len(r.Articles))
	case wikipedia.RandomArticleResult:
		attrs = append(attrs, "title", r.Title)
	case wikipedia.SearchResult:
		attrs = append(attrs, "results_count", len(r.Results), "total_hits", r.TotalHits)
	}

	h.logger.Info("Tool executed", attrs...)
}
