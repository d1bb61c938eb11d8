package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"DocStructurer/internal/api"
	"DocStructurer/internal/config"
	"DocStructurer/internal/infrastructure/llm"
	"DocStructurer/internal/infrastructure/parser"
	"DocStructurer/internal/infrastructure/rates"
	"DocStructurer/internal/infrastructure/search"
	"DocStructurer/internal/logging"
	"DocStructurer/internal/metrics"
	"DocStructurer/internal/provider"
	"DocStructurer/internal/usecase"
)

// Application wires configs to use cases and the HTTP lifecycle.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	router *gin.Engine
}

// New builds the full dependency graph from configuration.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	collectors := metrics.New()
	httpClient := &http.Client{Timeout: cfg.Completion.Timeout + 30*time.Second}

	openAI := llm.NewOpenAIProvider(cfg.OpenAI, httpClient)
	gemini := llm.NewGeminiProvider(cfg.Gemini, httpClient)
	registry := provider.NewRegistry(openAI, gemini)
	catalog := provider.NewCatalog(registry, cfg.OpenAI.Model)

	helperRoute := catalog.HelperRoute()
	helper, err := registry.Resolve(helperRoute.Provider)
	if err != nil {
		return nil, fmt.Errorf("resolve helper provider: %w", err)
	}
	if !helper.Available() {
		baseLogger.Info("secondary provider disabled, theme and search query use defaults", "provider", helperRoute.Provider)
	}

	fetcher := parser.NewArticleFetcher(
		&http.Client{Timeout: cfg.Fetcher.Timeout},
		cfg.Fetcher.UserAgent,
		baseLogger.With("component", "fetcher"),
	)
	searcher := search.NewBraveClient(cfg.Search.Endpoint, cfg.Search.APIKey, cfg.Search.Timeout,
		baseLogger.With("component", "search.brave"))
	rateSource := rates.NewClient(cfg.Rates.Endpoint, cfg.Rates.Timeout, cfg.Rates.Fallback,
		baseLogger.With("component", "rates"))

	classifier := usecase.NewThemeClassifier(helper, helperRoute.Model, cfg.Completion.HelperTimeout, collectors,
		baseLogger.With("component", "classifier"))
	synthesizer := usecase.NewQuerySynthesizer(helper, helperRoute.Model, cfg.Completion.HelperTimeout, collectors,
		baseLogger.With("component", "query"))

	dispatcher := usecase.NewDispatcher(catalog, usecase.DispatcherConfig{
		MaxRetries: cfg.Completion.MaxRetries,
		RetryDelay: cfg.Completion.RetryDelay,
		Timeout:    cfg.Completion.Timeout,
		MaxTokens:  cfg.Completion.MaxTokens.For,
	}, collectors, baseLogger.With("component", "dispatcher"))

	processor := usecase.NewProcessor(usecase.ProcessorDeps{
		Fetcher:     fetcher,
		Searcher:    searcher,
		Classifier:  classifier,
		Synthesizer: synthesizer,
		Completer:   dispatcher,
		Estimator:   usecase.NewCostAccountant(catalog, rateSource),
		Metrics:     collectors,
		Logger:      baseLogger.With("component", "processor"),
	})

	if cfg.Environment == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.SetupRouter(api.RouterDeps{
		Processor: processor,
		Metrics:   collectors,
		Logger:    baseLogger.With("component", "http"),
		StaticDir: cfg.Server.StaticDir,
	})

	return &Application{
		cfg:    cfg,
		logger: baseLogger,
		router: router,
	}, nil
}

// Handler exposes the HTTP surface, mostly for tests.
func (a *Application) Handler() http.Handler {
	return a.router
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", srv.Addr, "environment", a.cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	a.logger.Info("shutting down http server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
