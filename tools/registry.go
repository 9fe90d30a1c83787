// Package tools provides a metadata-driven registry for MCP tool definitions.
// Tools are declared as ToolSpec values and bound to typed client methods,
// so main.go only constructs the server and calls RegisterAll.
package tools

// ToolSpec defines a tool's metadata for declarative registration.
// Each spec maps to a wikipedia.Client method with matching Args/Result types.
type ToolSpec struct {
	// Name is the MCP tool name (e.g., "get-article-content")
	Name string

	// Method is the client method name (e.g., "GetArticleContent")
	Method string

	// Description is the tool description shown to LLMs
	Description string

	// Title is the human-readable tool title for annotations
	Title string

	// Category groups tools logically (content, discovery, search)
	Category string

	// ErrorPrefix is prepended to the error text returned to the caller
	ErrorPrefix string

	// ReadOnly indicates the tool doesn't modify remote state
	ReadOnly bool

	// Idempotent indicates repeated calls have the same effect
	Idempotent bool

	// OpenWorld indicates the tool accesses external resources
	OpenWorld bool
}

// ptr is a helper to create a pointer to a value.
func ptr[T any](v T) *T {
	return &v
}
