package wikipedia

import (
	"fmt"
	"strings"
)

// GetArticleContentArgs contains parameters for reading an article in chunks
type GetArticleContentArgs struct {
	Title  string `json:"title" jsonschema:"Article title, e.g. Alan Turing"`
	Start  int    `json:"start,omitempty" jsonschema:"Byte offset to start from (default 0)"`
	Length *int   `json:"length,omitempty" jsonschema:"Number of bytes to return (default 5000, at most 10485760)"`
}

// GetArticleContentResult is one chunk of article HTML
type GetArticleContentResult struct {
	Text        string `json:"-"`
	Title       string `json:"title"`
	RangeStart  int    `json:"range_start"`
	RangeEnd    int    `json:"range_end"`
	TotalLength *int   `json:"total_length,omitempty"` // omitted when unknown
	HasMore     bool   `json:"has_more"`
	NextStart   *int   `json:"next_start,omitempty"`
	Partial     bool   `json:"partial"` // server honored the range
}

// ToolText returns the chunk with its continuation annotation
func (r GetArticleContentResult) ToolText() string { return r.Text }

// GetArticleSummaryArgs contains parameters for getting a summary
type GetArticleSummaryArgs struct {
	Title string `json:"title" jsonschema:"Article title"`
}

// GetArticleSummaryResult is the lead extract of an article
type GetArticleSummaryResult struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Extract     string `json:"extract"`
	URL         string `json:"url,omitempty"`
}

// ToolText returns the extract or a placeholder
func (r GetArticleSummaryResult) ToolText() string {
	return extractOrPlaceholder(r.Extract)
}

// GetArticleSegmentsArgs contains parameters for getting article segments
type GetArticleSegmentsArgs struct {
	Title string `json:"title" jsonschema:"Article title"`
}

// GetArticleSegmentsResult carries the segments payload as returned by the API
type GetArticleSegmentsResult struct {
	Title    string `json:"title"`
	Segments any    `json:"segments"`
	pretty   string
}

// ToolText returns the pretty-printed segments payload
func (r GetArticleSegmentsResult) ToolText() string {
	if r.pretty == "" {
		return "No segments available"
	}
	return r.pretty
}

// FindRelatedArticlesArgs contains parameters for finding related articles
type FindRelatedArticlesArgs struct {
	Title string `json:"title" jsonschema:"Article title"`
}

// RelatedArticle is a simplified related-page entry
type RelatedArticle struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

// FindRelatedArticlesResult lists articles related to Title
type FindRelatedArticlesResult struct {
	Title    string           `json:"title"`
	Articles []RelatedArticle `json:"articles"`
}

// ToolText renders the related titles as a bullet list
func (r FindRelatedArticlesResult) ToolText() string {
	if len(r.Articles) == 0 {
		return fmt.Sprintf("Related articles to \"%s\":\n- No related articles", r.Title)
	}
	titles := make([]string, 0, len(r.Articles))
	for _, a := range r.Articles {
		titles = append(titles, a.Title)
	}
	return fmt.Sprintf("Related articles to \"%s\":\n- %s", r.Title, strings.Join(titles, "\n- "))
}

// RandomArticleArgs takes no parameters
type RandomArticleArgs struct{}

// RandomArticleResult is the summary of a random article
type RandomArticleResult struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
	URL     string `json:"url,omitempty"`
}

// ToolText renders the title followed by the extract
func (r RandomArticleResult) ToolText() string {
	return fmt.Sprintf("Random article: %s\n\n%s", r.Title, extractOrPlaceholder(r.Extract))
}

// SearchArgs contains parameters for full-text search
type SearchArgs struct {
	Query string `json:"query" jsonschema:"Search text"`
}

// SearchHit is a single search result with markup removed from the snippet
type SearchHit struct {
	Title     string `json:"title"`
	PageID    int    `json:"page_id"`
	Snippet   string `json:"snippet"`
	WordCount int    `json:"word_count,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// SearchResult is the result of a full-text search
type SearchResult struct {
	Query     string      `json:"query"`
	TotalHits int         `json:"total_hits"`
	Results   []SearchHit `json:"results"`
}

// ToolText renders one "- title: snippet" line per hit
func (r SearchResult) ToolText() string {
	if len(r.Results) == 0 {
		return fmt.Sprintf("Search results for \"%s\":\nNo results found", r.Query)
	}
	lines := make([]string, 0, len(r.Results))
	for _, hit := range r.Results {
		lines = append(lines, fmt.Sprintf("- %s: %s", hit.Title, hit.Snippet))
	}
	return fmt.Sprintf("Search results for \"%s\":\n%s", r.Query, strings.Join(lines, "\n"))
}

func extractOrPlaceholder(extract string) string {
	if extract == "" {
		return "No summary available"
	}
	return extract
}
