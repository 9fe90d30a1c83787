package tools

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	apierrors "github.com/olgasafonova/wikipedia-mcp-server/internal/errors"
	"github.com/olgasafonova/wikipedia-mcp-server/internal/wikipedia"
	"github.com/olgasafonova/wikipedia-mcp-server/metrics"
)

const (
	summaryResourceName = "article-summary"
	summaryURIPrefix    = "wikipedia://article/"
	summaryURISuffix    = "/summary"
)

// registerResources adds URI-based access to article summaries.
func (h *HandlerRegistry) registerResources(server *mcp.Server) {
	server.AddResourceTemplate(&mcp.ResourceTemplate{
		Name:        summaryResourceName,
		Title:       "Article Summary",
		URITemplate: summaryURIPrefix + "{title}" + summaryURISuffix,
		Description: "Lead summary of a Wikipedia article, by title",
		MIMEType:    "text/plain",
	}, h.readSummary)
}

// readSummary handles wikipedia://article/{title}/summary resource requests.
func (h *HandlerRegistry) readSummary(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	title, ok := titleFromSummaryURI(uri)
	if !ok {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	start := time.Now()
	result, err := h.client.GetArticleSummaryMCP(ctx, wikipedia.GetArticleSummaryArgs{Title: title})
	duration := time.Since(start).Seconds()
	metrics.RecordRequest(summaryResourceName, duration, err == nil)
	if err != nil {
		h.logger.Warn("Resource read failed", "uri", uri, "error", err)
		if apierrors.StatusCode(err) == 404 {
			return nil, mcp.ResourceNotFoundError(uri)
		}
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     result.ToolText(),
		}},
	}, nil
}

// titleFromSummaryURI extracts and unescapes the title segment.
func titleFromSummaryURI(uri string) (string, bool) {
	rest, ok := strings.CutPrefix(uri, summaryURIPrefix)
	if !ok {
		return "", false
	}
	escaped, ok := strings.CutSuffix(rest, summaryURISuffix)
	if !ok || escaped == "" {
		return "", false
	}
	title, err := url.PathUnescape(escaped)
	if err != nil || strings.TrimSpace(title) == "" {
		return "", false
	}
	return title, true
}
