package domain

// DefaultArticleTitle is used when a fetched page carries no <title>.
const DefaultArticleTitle = "Web Article"

// ExtractedArticle is the linearized content of a single fetched web page.
type ExtractedArticle struct {
	Title  string
	Text   string
	Method string
}

// SearchResult is one hit returned by the web search provider.
type SearchResult struct {
	Title   string
	Snippet string
	URL     string
}

// Structural markers wrapped around linearized blocks of an ExtractedArticle.
const (
	TableOpen    = "[TABLE]"
	TableClose   = "[/TABLE]"
	ListOpen     = "[LIST]"
	ListClose    = "[/LIST]"
	HeadingOpen  = "[HEADING]"
	HeadingClose = "[/HEADING]"
)
