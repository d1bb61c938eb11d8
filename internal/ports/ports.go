package ports

import (
	"context"

	"DocStructurer/internal/domain"
)

// ArticleFetcher downloads a page and linearizes its main content.
// Any failure is reported as an error wrapping domain.ErrExtractionFailed.
type ArticleFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*domain.ExtractedArticle, error)
}

// WebSearcher returns at most n results; failures yield an empty list.
type WebSearcher interface {
	Search(ctx context.Context, query string, n int) []domain.SearchResult
}

// ChatProvider is one concrete LLM backend (OpenAI, Gemini, ...).
type ChatProvider interface {
	Name() string
	Available() bool
	Complete(ctx context.Context, req domain.ChatRequest) (domain.CompletionResult, error)
}

// RateSource returns USD-based exchange rates and never fails.
type RateSource interface {
	Rates(ctx context.Context) map[string]float64
}

// ThemeClassifier assigns one taxonomy theme to a content sample.
type ThemeClassifier interface {
	Classify(ctx context.Context, text string) domain.Theme
}

// QuerySynthesizer derives a short web search query from content.
type QuerySynthesizer interface {
	Synthesize(ctx context.Context, text string, theme domain.Theme) string
}

// Completer resolves a logical model name and runs the completion with retries.
type Completer interface {
	Complete(ctx context.Context, prompt, model string, verbosity domain.Verbosity) (domain.CompletionResult, error)
}

// CostEstimator converts token counts into a multi-currency estimate.
type CostEstimator interface {
	Estimate(ctx context.Context, model string, promptTokens, completionTokens int) domain.CostEstimate
}
