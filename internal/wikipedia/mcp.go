package wikipedia

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	apierrors "github.com/olgasafonova/wikipedia-mcp-server/internal/errors"
	"github.com/olgasafonova/wikipedia-mcp-server/metrics"
)

// MCP Tool wrapper methods
// These methods wrap the client methods with Args/Result types for MCP integration.

// GetArticleContentMCP fetches one byte range of an article and paginates it
func (c *Client) GetArticleContentMCP(ctx context.Context, args GetArticleContentArgs) (GetArticleContentResult, error) {
	length := DefaultChunkLength
	if args.Length != nil {
		length = *args.Length
	}

	result, err := c.FetchRange(ctx, args.Title, args.Start, length)
	if err != nil {
		return GetArticleContentResult{}, err
	}

	chunk := Paginate(result, args.Start)
	metrics.RecordContentSize("get_article_content", len(result.Body))

	out := GetArticleContentResult{
		Text:       chunk.Text,
		Title:      args.Title,
		RangeStart: chunk.RangeStart,
		RangeEnd:   chunk.RangeEnd,
		HasMore:    chunk.HasMore,
		Partial:    result.Kind == RangePartial,
	}
	if chunk.TotalKnown() {
		total := chunk.TotalLength
		out.TotalLength = &total
	}
	if chunk.HasMore {
		next := chunk.NextStart()
		out.NextStart = &next
	}
	return out, nil
}

// GetArticleSummaryMCP fetches the lead extract of an article
func (c *Client) GetArticleSummaryMCP(ctx context.Context, args GetArticleSummaryArgs) (GetArticleSummaryResult, error) {
	if err := validateTitle(args.Title); err != nil {
		return GetArticleSummaryResult{}, err
	}

	page, err := getJSON[pageSummary](ctx, c, EndpointSummary, args.Title, c.pageURL(EndpointSummary, args.Title))
	if err != nil {
		return GetArticleSummaryResult{}, err
	}

	return GetArticleSummaryResult{
		Title:       page.Title,
		Description: page.Description,
		Extract:     page.Extract,
		URL:         page.pageURL(),
	}, nil
}

// GetArticleSegmentsMCP fetches the segmented representation of an article
func (c *Client) GetArticleSegmentsMCP(ctx context.Context, args GetArticleSegmentsArgs) (GetArticleSegmentsResult, error) {
	if err := validateTitle(args.Title); err != nil {
		return GetArticleSegmentsResult{}, err
	}

	raw, err := getJSON[json.RawMessage](ctx, c, EndpointSegments, args.Title, c.pageURL(EndpointSegments, args.Title))
	if err != nil {
		return GetArticleSegmentsResult{}, err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, *raw, "", "  "); err != nil {
		return GetArticleSegmentsResult{}, err
	}
	metrics.RecordContentSize("get_article_segments", len(*raw))

	return GetArticleSegmentsResult{
		Title:    args.Title,
		Segments: *raw,
		pretty:   pretty.String(),
	}, nil
}

// FindRelatedArticlesMCP lists articles related to the given one
func (c *Client) FindRelatedArticlesMCP(ctx context.Context, args FindRelatedArticlesArgs) (FindRelatedArticlesResult, error) {
	if err := validateTitle(args.Title); err != nil {
		return FindRelatedArticlesResult{}, err
	}

	resp, err := getJSON[relatedResponse](ctx, c, EndpointRelated, args.Title, c.pageURL(EndpointRelated, args.Title))
	if err != nil {
		return FindRelatedArticlesResult{}, err
	}

	articles := make([]RelatedArticle, 0, len(resp.Pages))
	for _, p := range resp.Pages {
		articles = append(articles, RelatedArticle{
			Title:       p.Title,
			Description: p.Description,
			URL:         p.pageURL(),
		})
	}

	return FindRelatedArticlesResult{
		Title:    args.Title,
		Articles: articles,
	}, nil
}

// RandomArticleMCP fetches the summary of a random article
func (c *Client) RandomArticleMCP(ctx context.Context, _ RandomArticleArgs) (RandomArticleResult, error) {
	page, err := getJSON[pageSummary](ctx, c, EndpointRandom, "", c.restURL+"/"+EndpointRandom)
	if err != nil {
		return RandomArticleResult{}, err
	}

	return RandomArticleResult{
		Title:   page.Title,
		Extract: page.Extract,
		URL:     page.pageURL(),
	}, nil
}

// SearchMCP runs a full-text search through the Action API
func (c *Client) SearchMCP(ctx context.Context, args SearchArgs) (SearchResult, error) {
	if strings.TrimSpace(args.Query) == "" {
		return SearchResult{}, apierrors.NewValidationError("query", "", "is required")
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", args.Query)
	params.Set("format", "json")

	resp, err := getJSON[searchResponse](ctx, c, EndpointSearch, "", c.actionURL+"?"+params.Encode())
	if err != nil {
		return SearchResult{}, err
	}
	if resp.Query == nil || resp.Query.Search == nil {
		return SearchResult{}, &apierrors.RemoteFetchError{
			Endpoint:   EndpointSearch,
			StatusCode: http.StatusOK,
			StatusText: http.StatusText(http.StatusOK),
			Cause:      errors.New("missing query.search in response"),
		}
	}

	hits := make([]SearchHit, 0, len(resp.Query.Search))
	for _, h := range resp.Query.Search {
		hits = append(hits, SearchHit{
			Title:     h.Title,
			PageID:    h.PageID,
			Snippet:   stripTags(h.Snippet),
			WordCount: h.WordCount,
			Timestamp: h.Timestamp,
		})
	}

	return SearchResult{
		Query:     args.Query,
		TotalHits: resp.Query.SearchInfo.TotalHits,
		Results:   hits,
	}, nil
}
