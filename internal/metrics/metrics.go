package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "docstructurer"

// Collectors groups every metric of the service on its own registry.
// A nil *Collectors is valid and records nothing.
type Collectors struct {
	registry *prometheus.Registry

	requests          *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	providerAttempts  *prometheus.CounterVec
	tokens            *prometheus.CounterVec
	costUSD           *prometheus.CounterVec
	degraded          *prometheus.CounterVec
	missingStructures *prometheus.CounterVec
}

// New registers all collectors plus the Go and process collectors.
func New() *Collectors {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collectors{
		registry: reg,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Processing requests by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "End-to-end processing duration in seconds",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
			},
			[]string{"mode"},
		),
		providerAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_attempts_total",
				Help:      "Completion dispatcher transitions by state, provider and outcome",
			},
			[]string{"state", "provider", "outcome"},
		),
		tokens: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tokens_total",
				Help:      "Tokens consumed by logical model and kind",
			},
			[]string{"model", "kind"},
		),
		costUSD: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cost_usd_total",
				Help:      "Estimated completion cost in USD",
			},
			[]string{"model"},
		),
		degraded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "degraded_features_total",
				Help:      "Optional features that fell back to their default",
			},
			[]string{"feature"},
		),
		missingStructures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "missing_structures_total",
				Help:      "Rendered documents lacking an expected structural element",
			},
			[]string{"element"},
		),
	}
}

// Handler exposes the registry in Prometheus text format.
func (c *Collectors) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Registry returns the underlying registry for tests and custom collectors.
func (c *Collectors) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// ObserveRequest records one processed request.
func (c *Collectors) ObserveRequest(mode, outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(mode, outcome).Inc()
	c.requestDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

// ProviderTransition records one dispatcher state visit.
func (c *Collectors) ProviderTransition(state, provider, outcome string) {
	if c == nil {
		return
	}
	c.providerAttempts.WithLabelValues(state, provider, outcome).Inc()
}

// AddUsage records tokens and cost of a completion.
func (c *Collectors) AddUsage(model string, promptTokens, completionTokens int, usd float64) {
	if c == nil {
		return
	}
	c.tokens.WithLabelValues(model, "prompt").Add(float64(promptTokens))
	c.tokens.WithLabelValues(model, "completion").Add(float64(completionTokens))
	c.costUSD.WithLabelValues(model).Add(usd)
}

// Degraded records an optional feature falling back to its default.
func (c *Collectors) Degraded(feature string) {
	if c == nil {
		return
	}
	c.degraded.WithLabelValues(feature).Inc()
}

// MissingStructure records a structural element absent from a rendered document.
func (c *Collectors) MissingStructure(element string) {
	if c == nil {
		return
	}
	c.missingStructures.WithLabelValues(element).Inc()
}
