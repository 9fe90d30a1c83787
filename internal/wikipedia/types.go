// Package wikipedia provides a client for the Wikipedia REST and Action APIs.
// It retrieves article HTML in byte ranges, summaries, segments, related
// articles, random articles and search results.
package wikipedia

// pageSummary is the payload of /page/summary/{title} and /page/random/summary,
// and the element type of /page/related/{title}.
type pageSummary struct {
	Title        string       `json:"title"`
	DisplayTitle string       `json:"displaytitle,omitempty"`
	PageID       int          `json:"pageid,omitempty"`
	Description  string       `json:"description,omitempty"`
	Extract      string       `json:"extract,omitempty"`
	ContentURLs  *contentURLs `json:"content_urls,omitempty"`
}

type contentURLs struct {
	Desktop struct {
		Page string `json:"page"`
	} `json:"desktop"`
}

// pageURL returns the desktop article URL, if present
func (p *pageSummary) pageURL() string {
	if p.ContentURLs == nil {
		return ""
	}
	return p.ContentURLs.Desktop.Page
}

// relatedResponse is the payload of /page/related/{title}
type relatedResponse struct {
	Pages []pageSummary `json:"pages"`
}

// searchResponse is the payload of action=query&list=search
type searchResponse struct {
	Query *struct {
		SearchInfo struct {
			TotalHits int `json:"totalhits"`
		} `json:"searchinfo"`
		Search []searchHit `json:"search"`
	} `json:"query"`
}

type searchHit struct {
	NS        int    `json:"ns"`
	Title     string `json:"title"`
	PageID    int    `json:"pageid"`
	Size      int    `json:"size"`
	WordCount int    `json:"wordcount"`
	Snippet   string `json:"snippet"`
	Timestamp string `json:"timestamp"`
}
