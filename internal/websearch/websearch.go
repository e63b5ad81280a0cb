// Package websearch queries a live search API for evidence when the
// local index cannot answer a claim on its own. Missing credentials
// are not an error: the searcher degrades to empty results so the
// verification pipeline can fall back to local-only evidence.
package websearch

// Result is a single web search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}
