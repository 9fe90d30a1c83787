package wikipedia

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// stripTags removes markup such as <span class="searchmatch"> from a search
// snippet and decodes entities. Unparsable input is returned unchanged.
func stripTags(snippet string) string {
	if !strings.ContainsAny(snippet, "<&") {
		return snippet
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snippet))
	if err != nil {
		return snippet
	}
	return doc.Text()
}
