package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"DocStructurer/internal/domain"
	"DocStructurer/internal/metrics"
	"DocStructurer/internal/ports"
)

const (
	classifierSampleLen = 800
	classifierMaxTokens = 20
)

var errProviderUnavailable = errors.New("provider unavailable")

// ThemeClassifier asks an LLM to pick one theme from the closed taxonomy.
type ThemeClassifier struct {
	provider ports.ChatProvider
	model    string
	timeout  time.Duration
	metrics  *metrics.Collectors
	logger   *slog.Logger
}

var _ ports.ThemeClassifier = (*ThemeClassifier)(nil)

// NewThemeClassifier wires the helper provider and model.
func NewThemeClassifier(provider ports.ChatProvider, model string, timeout time.Duration, m *metrics.Collectors, logger *slog.Logger) *ThemeClassifier {
	return &ThemeClassifier{provider: provider, model: model, timeout: timeout, metrics: m, logger: logger}
}

// Classify never fails: any error or off-taxonomy answer yields domain.ThemeDefault.
func (c *ThemeClassifier) Classify(ctx context.Context, text string) domain.Theme {
	theme, err := c.classify(ctx, text)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("theme classification failed, using default", "error", err)
		}
		c.metrics.Degraded("classifier")
		return domain.ThemeDefault
	}
	return theme
}

func (c *ThemeClassifier) classify(ctx context.Context, text string) (domain.Theme, error) {
	if c.provider == nil || !c.provider.Available() {
		return domain.ThemeDefault, errProviderUnavailable
	}

	sample := truncateRunes(strings.TrimSpace(text), classifierSampleLen)
	if sample == "" {
		return domain.ThemeDefault, errors.New("empty content sample")
	}

	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.provider.Complete(ctx, domain.ChatRequest{
		Model:       c.model,
		System:      classifierSystemPrompt(),
		User:        "Content:\n" + sample + "\n\nTheme:",
		MaxTokens:   classifierMaxTokens,
		Temperature: temperature(0),
	})
	if err != nil {
		return domain.ThemeDefault, fmt.Errorf("classify: %w", err)
	}

	theme, ok := domain.ParseTheme(res.Content)
	if !ok {
		return domain.ThemeDefault, fmt.Errorf("classify: answer %q is not a known theme", res.Content)
	}
	return theme, nil
}

func classifierSystemPrompt() string {
	names := make([]string, 0, len(domain.Themes()))
	for _, t := range domain.Themes() {
		names = append(names, string(t))
	}
	return "You classify documents by topic. Reply with exactly one lowercase word from this list: " +
		strings.Join(names, ", ") +
		". Use default when nothing fits. Do not add punctuation or explanations."
}
