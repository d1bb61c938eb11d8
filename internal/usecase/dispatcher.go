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

type dispatchState int

const (
	stateTryPrimary dispatchState = iota
	stateTrySecondary
	stateFallback
	stateExhausted
)

func (s dispatchState) String() string {
	switch s {
	case stateTryPrimary:
		return "try_primary"
	case stateTrySecondary:
		return "try_secondary"
	case stateFallback:
		return "fallback"
	default:
		return "exhausted"
	}
}

// DispatcherConfig bounds the completion call.
type DispatcherConfig struct {
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
	MaxTokens  func(domain.Verbosity) int
}

// Dispatcher routes a logical model to a provider and retries failed attempts.
type Dispatcher struct {
	catalog *provider.Catalog
	cfg     DispatcherConfig
	metrics *metrics.Collectors
	logger  *slog.Logger
}

var _ ports.Completer = (*Dispatcher)(nil)

// NewDispatcher clamps MaxRetries to at least one attempt.
func NewDispatcher(catalog *provider.Catalog, cfg DispatcherConfig, m *metrics.Collectors, logger *slog.Logger) *Dispatcher {
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	return &Dispatcher{catalog: catalog, cfg: cfg, metrics: m, logger: logger}
}

// Complete runs up to MaxRetries attempts. Inside an attempt a secondary
// provider failure falls back once to the primary default model; a primary
// failure goes straight to the next attempt. The last error is returned as
// *domain.ProviderError.
func (d *Dispatcher) Complete(ctx context.Context, prompt, model string, verbosity domain.Verbosity) (domain.CompletionResult, error) {
	route := d.catalog.Resolve(model)
	req := domain.ChatRequest{
		System:    SystemPrompt,
		User:      prompt,
		MaxTokens: d.maxTokens(verbosity),
	}

	var lastErr error
	attempts := 0
	for attempts < d.cfg.MaxRetries {
		if attempts > 0 {
			if err := d.wait(ctx); err != nil {
				lastErr = errors.Join(lastErr, err)
				break
			}
		}
		attempts++

		res, err := d.attempt(ctx, route, req)
		if err == nil {
			return res, nil
		}
		lastErr = err
		d.warn("completion attempt failed", "attempt", attempts, "max_attempts", d.cfg.MaxRetries, "error", err)
	}

	d.metrics.ProviderTransition(stateExhausted.String(), route.Provider, "error")
	if d.logger != nil {
		d.logger.Error("completion retries exhausted", "model", route.Logical, "provider", route.Provider, "attempts", attempts, "error", lastErr)
	}
	return domain.CompletionResult{}, &domain.ProviderError{
		Provider: route.Provider,
		Model:    route.Model,
		Attempts: attempts,
		Err:      lastErr,
	}
}

func (d *Dispatcher) attempt(ctx context.Context, route provider.Route, req domain.ChatRequest) (domain.CompletionResult, error) {
	state := stateTryPrimary
	if d.catalog.IsSecondary(route) {
		state = stateTrySecondary
	}

	for {
		switch state {
		case stateTrySecondary:
			res, err := d.call(ctx, state, route, req)
			if err == nil {
				return res, nil
			}
			d.warn("secondary provider failed, falling back", "provider", route.Provider, "model", route.Model, "error", err)
			state = stateFallback
		case stateFallback:
			return d.call(ctx, state, d.catalog.Fallback(), req)
		default:
			return d.call(ctx, state, route, req)
		}
	}
}

func (d *Dispatcher) call(ctx context.Context, state dispatchState, route provider.Route, req domain.ChatRequest) (domain.CompletionResult, error) {
	p, err := d.catalog.Registry().Resolve(route.Provider)
	if err != nil {
		d.metrics.ProviderTransition(state.String(), route.Provider, "error")
		return domain.CompletionResult{}, err
	}

	ctx, cancel := withTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	req.Model = route.Model
	res, err := p.Complete(ctx, req)
	if err != nil {
		d.metrics.ProviderTransition(state.String(), route.Provider, "error")
		return domain.CompletionResult{}, fmt.Errorf("%s/%s: %w", route.Provider, route.Model, err)
	}

	d.metrics.ProviderTransition(state.String(), route.Provider, "success")
	res.TotalTokens = res.PromptTokens + res.CompletionTokens
	if res.Provider == "" {
		res.Provider = route.Provider
	}
	if res.Model == "" {
		res.Model = route.Model
	}
	return res, nil
}

func (d *Dispatcher) wait(ctx context.Context) error {
	if d.cfg.RetryDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d.cfg.RetryDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (d *Dispatcher) maxTokens(v domain.Verbosity) int {
	if d.cfg.MaxTokens == nil {
		return 0
	}
	return d.cfg.MaxTokens(v)
}

func (d *Dispatcher) warn(msg string, args ...interface{}) {
	if d.logger != nil {
		d.logger.Warn(msg, args...)
	}
}
