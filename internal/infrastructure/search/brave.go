package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"DocStructurer/internal/domain"
	"DocStructurer/internal/ports"
)

// DefaultEndpoint is the Brave web search API.
const DefaultEndpoint = "https://api.search.brave.com/res/v1/web/search"

// BraveClient queries the Brave Search API.
type BraveClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   *slog.Logger
}

var _ ports.WebSearcher = (*BraveClient)(nil)

// NewBraveClient registers the subscription token; an empty token disables search.
func NewBraveClient(endpoint, apiKey string, timeout time.Duration, logger *slog.Logger) *BraveClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &BraveClient{
		endpoint: endpoint,
		apiKey:   strings.TrimSpace(apiKey),
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
		} `json:"results"`
	} `json:"web"`
}

// Search returns up to n results in provider order. It never fails: a missing
// token or any request error yields an empty list.
func (b *BraveClient) Search(ctx context.Context, query string, n int) []domain.SearchResult {
	query = strings.TrimSpace(query)
	if b.apiKey == "" || query == "" || n <= 0 {
		return []domain.SearchResult{}
	}

	results, err := b.search(ctx, query, n)
	if err != nil {
		if b.logger != nil {
			b.logger.Warn("web search failed", "query", query, "error", err)
		}
		return []domain.SearchResult{}
	}
	return results
}

func (b *BraveClient) search(ctx context.Context, query string, n int) ([]domain.SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(n))
	params.Set("country", "US")
	params.Set("search_lang", "en")
	params.Set("ui_lang", "en-US")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("brave error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var decoded braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	hits := decoded.Web.Results
	if len(hits) > n {
		hits = hits[:n]
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, domain.SearchResult{
			Title:   strings.TrimSpace(hit.Title),
			Snippet: strings.TrimSpace(hit.Description),
			URL:     strings.TrimSpace(hit.URL),
		})
	}

	if b.logger != nil {
		b.logger.Debug("web search done", "query", query, "requested", n, "results", len(results))
	}
	return results, nil
}
