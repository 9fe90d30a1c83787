package wikipedia

import (
	"fmt"
	"strings"
)

// DefaultChunkLength is the number of bytes requested when no length is given.
const DefaultChunkLength = 5000

// PaginatedChunk is one rendered slice of an article.
type PaginatedChunk struct {
	Text        string
	HasMore     bool
	RangeStart  int
	RangeEnd    int // inclusive; RangeStart-1 for an empty body
	TotalLength int // UnknownLength when the server did not report it
}

// TotalKnown reports whether the document size is known.
func (c PaginatedChunk) TotalKnown() bool {
	return c.TotalLength != UnknownLength
}

// NextStart returns the offset to request next, or -1 if nothing remains.
func (c PaginatedChunk) NextStart() int {
	if !c.HasMore {
		return -1
	}
	return c.RangeEnd + 1
}

// Paginate turns a fetch result requested at start into a chunk. It performs
// no I/O and never fails. Only a partial result can have more content. The
// continuation annotation is appended only when the chunk is not the whole
// article starting at offset zero.
func Paginate(result RangedFetchResult, start int) PaginatedChunk {
	chunk := PaginatedChunk{
		RangeStart:  start,
		RangeEnd:    start + len(result.Body) - 1,
		TotalLength: result.TotalLength,
	}
	// A full body is the whole document, whatever total came with it
	chunk.HasMore = result.Kind == RangePartial && chunk.TotalKnown() &&
		chunk.RangeEnd+1 < chunk.TotalLength

	if start > 0 || chunk.HasMore {
		chunk.Text = result.Body + annotation(chunk)
	} else {
		chunk.Text = result.Body
	}
	return chunk
}

func annotation(c PaginatedChunk) string {
	var sb strings.Builder
	sb.WriteString("\n\n---\n")
	switch {
	case !c.TotalKnown():
		fmt.Fprintf(&sb, "[Showing bytes %d-%d; total length unknown.]", c.RangeStart, c.RangeEnd)
	case c.HasMore:
		fmt.Fprintf(&sb, "[Showing bytes %d-%d of %d. More content available: request starting from %d to continue.]",
			c.RangeStart, c.RangeEnd, c.TotalLength, c.NextStart())
	default:
		fmt.Fprintf(&sb, "[Showing bytes %d-%d of %d. End of article.]", c.RangeStart, c.RangeEnd, c.TotalLength)
	}
	return sb.String()
}
