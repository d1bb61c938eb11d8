package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"DocStructurer/internal/domain"
	"DocStructurer/internal/ports"
)

// DefaultEndpoint returns USD-based rates as {"rates":{"GBP":0.79,...}}.
const DefaultEndpoint = "https://open.er-api.com/v6/latest/USD"

// Client fetches live exchange rates and degrades to a static table.
type Client struct {
	endpoint string
	fallback map[string]float64
	http     *http.Client
	logger   *slog.Logger
}

var _ ports.RateSource = (*Client)(nil)

// NewClient creates a reusable HTTP client; an empty fallback uses domain.FallbackRates.
func NewClient(endpoint string, timeout time.Duration, fallback map[string]float64, logger *slog.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if len(fallback) == 0 {
		fallback = domain.FallbackRates()
	}
	return &Client{
		endpoint: endpoint,
		fallback: fallback,
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// Rates returns rates for every target currency. Currencies missing from the
// live answer are filled from the fallback table.
func (c *Client) Rates(ctx context.Context) map[string]float64 {
	out := make(map[string]float64, len(c.fallback))
	for code, rate := range c.fallback {
		out[code] = rate
	}

	var resp struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := c.get(ctx, &resp); err != nil {
		if c.logger != nil {
			c.logger.Warn("exchange rate lookup failed, using fallback", "error", err)
		}
		return out
	}

	for _, code := range domain.TargetCurrencies() {
		if rate, ok := resp.Rates[code]; ok && rate > 0 {
			out[code] = rate
		}
	}
	return out
}

func (c *Client) get(ctx context.Context, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return fmt.Errorf("unexpected status %s, close body: %v", resp.Status, closeErr)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		_ = resp.Body.Close()
		return fmt.Errorf("decode response: %w", err)
	}

	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}

	return nil
}
