package tools

// AllTools contains all tool specifications for the Wikipedia MCP server.
// Tool descriptions follow a structured format for optimal LLM tool selection:
// - USE WHEN: Natural language triggers
// - NOT FOR: Disambiguation from similar tools
// - PARAMETERS: Key arguments with defaults
// - RETURNS: What the tool returns
var AllTools = []ToolSpec{
	// ==========================================================================
	// CONTENT TOOLS
	// ==========================================================================
	{
		Name:        "get-article-content",
		Method:      "GetArticleContent",
		Title:       "Get Article Content",
		Category:    "content",
		ErrorPrefix: "Error retrieving article content",
		Description: `Read the raw HTML of a Wikipedia article in byte-range chunks.

USE WHEN: User needs the full text of an article, or more detail than the summary offers.

NOT FOR: A quick overview (use get-article-summary instead).

PARAMETERS:
- title: Article title (required)
- start: Byte offset to start from (default 0)
- length: Number of bytes to return (default 5000, at most 10 MiB)

RETURNS: The HTML chunk. When the article is paginated a trailing note gives the byte range shown, the total size, and the offset to request next.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:        "get-article-summary",
		Method:      "GetArticleSummary",
		Title:       "Get Article Summary",
		Category:    "content",
		ErrorPrefix: "Error retrieving article summary",
		Description: `Get the lead summary of a Wikipedia article.

USE WHEN: User asks "what is X", "who was X", or wants a short overview.

NOT FOR: Reading the whole article (use get-article-content).

PARAMETERS:
- title: Article title (required)

RETURNS: Plain-text extract of the article's introduction.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:        "get-article-segments",
		Method:      "GetArticleSegments",
		Title:       "Get Article Segments",
		Category:    "content",
		ErrorPrefix: "Error retrieving article segments",
		Description: `Get the segmented representation of a Wikipedia article.

USE WHEN: User needs the article split into sentence-level segments, e.g. for translation or alignment.

PARAMETERS:
- title: Article title (required)

RETURNS: Pretty-printed JSON as returned by the Wikipedia REST API.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},

	// ==========================================================================
	// DISCOVERY TOOLS
	// ==========================================================================
	{
		Name:        "find-related-articles",
		Method:      "FindRelatedArticles",
		Title:       "Find Related Articles",
		Category:    "discovery",
		ErrorPrefix: "Error finding related articles",
		Description: `Find articles related to a given Wikipedia article.

USE WHEN: User asks "what else should I read about X", "topics related to X".

PARAMETERS:
- title: Article title (required)

RETURNS: A bullet list of related article titles.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:        "random-article",
		Method:      "RandomArticle",
		Title:       "Random Article",
		Category:    "discovery",
		ErrorPrefix: "Error fetching random article",
		Description: `Get the summary of a random Wikipedia article.

USE WHEN: User asks for a random or surprising topic.

RETURNS: The article title followed by its summary.`,
		ReadOnly:  true,
		OpenWorld: true,
	},

	// ==========================================================================
	// SEARCH TOOLS
	// ==========================================================================
	{
		Name:        "search-wikipedia",
		Method:      "Search",
		Title:       "Search Wikipedia",
		Category:    "search",
		ErrorPrefix: "Error searching Wikipedia",
		Description: `Full-text search across Wikipedia.

USE WHEN: User doesn't know the exact article title, or asks "find articles about X".

NOT FOR: Fetching a known article (use get-article-summary or get-article-content).

PARAMETERS:
- query: Search text (required)

RETURNS: Matching article titles with text snippets.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
}

// ToolsByCategory returns the specs in the given category.
func ToolsByCategory(category string) []ToolSpec {
	var out []ToolSpec
	for _, spec := range AllTools {
		if spec.Category == category {
			out = append(out, spec)
		}
	}
	return out
}
