package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"DocStructurer/internal/domain"
	"DocStructurer/internal/metrics"
	"DocStructurer/internal/ports"
)

const (
	querySampleLen     = 500
	queryMaxTokens     = 30
	queryMaxWords      = 8
	queryMinChars      = 10
	fallbackScanTokens = 25
	fallbackKeepTokens = 4
)

var stopWords = map[string]struct{}{
	"about": {}, "above": {}, "after": {}, "again": {}, "also": {}, "been": {}, "before": {},
	"being": {}, "below": {}, "between": {}, "both": {}, "could": {}, "does": {}, "doing": {},
	"down": {}, "during": {}, "each": {}, "from": {}, "further": {}, "have": {}, "having": {},
	"here": {}, "into": {}, "just": {}, "more": {}, "most": {}, "much": {}, "only": {},
	"other": {}, "over": {}, "same": {}, "should": {}, "some": {}, "such": {}, "than": {},
	"that": {}, "their": {}, "them": {}, "then": {}, "there": {}, "these": {}, "they": {},
	"this": {}, "those": {}, "through": {}, "under": {}, "until": {}, "very": {}, "were": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "while": {}, "will": {}, "with": {},
	"would": {}, "your": {}, "yours": {},
}

// QuerySynthesizer turns content into a short web search query.
type QuerySynthesizer struct {
	provider ports.ChatProvider
	model    string
	timeout  time.Duration
	metrics  *metrics.Collectors
	logger   *slog.Logger
}

var _ ports.QuerySynthesizer = (*QuerySynthesizer)(nil)

// NewQuerySynthesizer wires the helper provider and model.
func NewQuerySynthesizer(provider ports.ChatProvider, model string, timeout time.Duration, m *metrics.Collectors, logger *slog.Logger) *QuerySynthesizer {
	return &QuerySynthesizer{provider: provider, model: model, timeout: timeout, metrics: m, logger: logger}
}

// Synthesize returns a model-written query or, on any failure, the keyword fallback.
func (q *QuerySynthesizer) Synthesize(ctx context.Context, text string, theme domain.Theme) string {
	query, err := q.generate(ctx, text, theme)
	if err != nil {
		if q.logger != nil {
			q.logger.Warn("query synthesis failed, using keyword fallback", "error", err)
		}
		q.metrics.Degraded("query")
		return FallbackQuery(text, theme)
	}
	return query
}

func (q *QuerySynthesizer) generate(ctx context.Context, text string, theme domain.Theme) (string, error) {
	if q.provider == nil || !q.provider.Available() {
		return "", errProviderUnavailable
	}

	sample := truncateRunes(strings.TrimSpace(text), querySampleLen)
	if sample == "" {
		return "", errors.New("empty content sample")
	}

	ctx, cancel := withTimeout(ctx, q.timeout)
	defer cancel()

	res, err := q.provider.Complete(ctx, domain.ChatRequest{
		Model:  q.model,
		System: "You write short web search queries. Reply with the query only.",
		User: fmt.Sprintf("Theme: %s\n\nContent:\n%s\n\n"+
			"Write one search query of 2-4 key concepts and at most 7 words that finds current, authoritative information about this content.",
			theme, sample),
		MaxTokens:   queryMaxTokens,
		Temperature: temperature(0.2),
	})
	if err != nil {
		return "", fmt.Errorf("synthesize query: %w", err)
	}

	return ValidateQuery(res.Content)
}

// ValidateQuery strips quoting artifacts and enforces the word and length bounds.
func ValidateQuery(raw string) (string, error) {
	query := strings.TrimSpace(raw)
	query = strings.Trim(query, "\"'`")
	query = strings.TrimSpace(query)
	if len(query) >= len("query:") && strings.EqualFold(query[:len("query:")], "query:") {
		query = query[len("query:"):]
	}
	query = strings.Join(strings.Fields(strings.Trim(strings.TrimSpace(query), "\"'`")), " ")

	if words := len(strings.Fields(query)); words > queryMaxWords {
		return "", fmt.Errorf("query has %d words", words)
	}
	if n := utf8.RuneCountInString(query); n < queryMinChars {
		return "", fmt.Errorf("query too short (%d chars)", n)
	}
	return query, nil
}

// FallbackQuery builds a deterministic keyword query; it is never empty.
func FallbackQuery(text string, theme domain.Theme) string {
	if theme == "" {
		theme = domain.ThemeDefault
	}

	// Tokens carrying punctuation or digits are not alphabetic and are dropped.
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) > fallbackScanTokens {
		tokens = tokens[:fallbackScanTokens]
	}

	var keywords []string
	for _, tok := range tokens {
		if len(keywords) == fallbackKeepTokens {
			break
		}
		if utf8.RuneCountInString(tok) <= 3 || !isAlpha(tok) {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		keywords = append(keywords, tok)
	}

	if len(keywords) == 0 {
		return string(theme) + " information guidelines"
	}
	return strings.Join(keywords, " ") + " " + string(theme) + " guidelines"
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
