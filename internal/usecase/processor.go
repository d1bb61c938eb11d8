package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"DocStructurer/internal/domain"
	"DocStructurer/internal/metrics"
	"DocStructurer/internal/ports"
	"DocStructurer/internal/provider"
)

// Search result counts per mode.
const (
	documentSearchResults = 2
	researchSearchResults = 5
)

// ProcessorDeps wires all driven adapters into the processing workflow.
type ProcessorDeps struct {
	Fetcher     ports.ArticleFetcher
	Searcher    ports.WebSearcher
	Classifier  ports.ThemeClassifier
	Synthesizer ports.QuerySynthesizer
	Completer   ports.Completer
	Estimator   ports.CostEstimator
	Metrics     *metrics.Collectors
	Logger      *slog.Logger
}

// Processor turns one ProcessingRequest into a rendered, priced document.
type Processor struct {
	fetcher     ports.ArticleFetcher
	searcher    ports.WebSearcher
	classifier  ports.ThemeClassifier
	synthesizer ports.QuerySynthesizer
	completer   ports.Completer
	estimator   ports.CostEstimator
	metrics     *metrics.Collectors
	logger      *slog.Logger
}

// NewProcessor constructs the orchestration component.
func NewProcessor(deps ProcessorDeps) *Processor {
	return &Processor{
		fetcher:     deps.Fetcher,
		searcher:    deps.Searcher,
		classifier:  deps.Classifier,
		synthesizer: deps.Synthesizer,
		completer:   deps.Completer,
		estimator:   deps.Estimator,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
	}
}

// Process runs fetch, classify, search, prompt, complete, render and pricing
// in sequence. Returned errors are domain.ErrNoInput, domain.ErrExtractionFailed,
// domain.ErrEmptyResponse or a *domain.ProviderError.
func (p *Processor) Process(ctx context.Context, req domain.ProcessingRequest) (*domain.ProcessingResult, error) {
	started := time.Now()
	req = req.Normalize()
	req.Verbosity = domain.ParseVerbosity(string(req.Verbosity))
	if req.Model == "" {
		req.Model = provider.DefaultModel
	}

	result, err := p.process(ctx, &req)

	mode := string(req.Mode())
	if err != nil {
		p.metrics.ObserveRequest(mode, outcome(err), time.Since(started))
		return nil, err
	}
	p.metrics.ObserveRequest(mode, "ok", time.Since(started))

	p.info("request processed",
		"mode", result.Mode,
		"theme", result.Theme,
		"model", result.Model,
		"tokens", result.Tokens.Total,
		"cost_usd", result.Cost.USD,
		"duration", time.Since(started))
	return result, nil
}

func (p *Processor) process(ctx context.Context, req *domain.ProcessingRequest) (*domain.ProcessingResult, error) {
	if req.Empty() {
		return nil, domain.ErrNoInput
	}

	var sourceTitle string
	if req.ArticleURL != "" {
		if p.fetcher == nil {
			return nil, fmt.Errorf("%w: article fetching is not configured", domain.ErrExtractionFailed)
		}
		article, err := p.fetcher.Fetch(ctx, req.ArticleURL)
		if err != nil {
			p.warn("article extraction failed", "url", req.ArticleURL, "error", err)
			return nil, err
		}
		req.Text = article.Text
		sourceTitle = article.Title
	}

	mode := req.Mode()
	sample := req.Text
	if mode == domain.ModeResearch {
		sample = req.AITopic
	}

	theme := domain.ThemeDefault
	if p.classifier != nil {
		theme = p.classifier.Classify(ctx, sample)
	}

	results := p.search(ctx, mode, req, theme)

	prompt := BuildPrompt(PromptInput{
		Mode:      mode,
		Theme:     theme,
		Verbosity: req.Verbosity,
		Topic:     req.AITopic,
		Text:      req.Text,
		Results:   results,
	})
	p.debug("prompt assembled", "mode", mode, "theme", theme, "sources", len(results), "chars", len(prompt))

	if p.completer == nil {
		return nil, errors.New("completion is not configured")
	}
	completion, err := p.completer.Complete(ctx, prompt, req.Model, req.Verbosity)
	if err != nil {
		return nil, err
	}

	html, err := Render(completion.Content, theme.Color())
	if err != nil {
		p.warn("model returned empty content", "provider", completion.Provider, "model", completion.Model)
		return nil, err
	}

	report := InspectStructure(html)
	for _, element := range report.Missing() {
		p.metrics.MissingStructure(element)
	}
	if missing := report.Missing(); len(missing) > 0 {
		p.warn("rendered document lacks expected structure", "missing", missing)
	}

	usage := completion.Usage()

	var cost domain.CostEstimate
	if p.estimator != nil {
		cost = p.estimator.Estimate(ctx, req.Model, usage.Prompt, usage.Completion)
	}
	p.metrics.AddUsage(req.Model, usage.Prompt, usage.Completion, cost.USD)

	return &domain.ProcessingResult{
		HTML:        html,
		Tokens:      usage,
		Cost:        cost,
		Model:       req.Model,
		Theme:       theme,
		Mode:        mode,
		SourceTitle: sourceTitle,
	}, nil
}

func (p *Processor) search(ctx context.Context, mode domain.Mode, req *domain.ProcessingRequest, theme domain.Theme) []domain.SearchResult {
	if p.searcher == nil {
		return nil
	}

	if mode == domain.ModeResearch {
		return p.searcher.Search(ctx, req.AITopic, researchSearchResults)
	}

	query := FallbackQuery(req.Text, theme)
	if p.synthesizer != nil {
		query = p.synthesizer.Synthesize(ctx, req.Text, theme)
	}
	p.debug("search query", "query", query)
	return p.searcher.Search(ctx, query, documentSearchResults)
}

func outcome(err error) string {
	var providerErr *domain.ProviderError
	switch {
	case errors.Is(err, domain.ErrNoInput):
		return "no_input"
	case errors.Is(err, domain.ErrExtractionFailed):
		return "extraction_failed"
	case errors.Is(err, domain.ErrEmptyResponse):
		return "empty_response"
	case errors.As(err, &providerErr):
		return "provider_error"
	default:
		return "error"
	}
}

func (p *Processor) debug(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

func (p *Processor) info(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Processor) warn(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
