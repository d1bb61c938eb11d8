package provider

import "strings"

// Provider names as registered in the Registry.
const (
	OpenAI = "openai"
	Gemini = "gemini"
)

// Logical model names accepted from callers.
const (
	ModelGPT4oMini = "GPT-4o-mini"
	ModelGPT5      = "GPT-5"
	ModelGeminiPro = "Gemini Pro 2.5"

	DefaultModel = ModelGPT5

	// HelperModel is the fast secondary tier used for classification and
	// query synthesis.
	HelperModel = "gemini-2.5-flash"
)

// Pricing is expressed in USD per 1000 tokens.
type Pricing struct {
	InputPerK  float64
	OutputPerK float64
}

// Entry binds a logical model name to a concrete provider model.
// When DegradeModel is set and the provider is unavailable, the entry
// silently routes to DegradeProvider/DegradeModel instead.
type Entry struct {
	Provider        string
	Model           string
	Pricing         Pricing
	DegradeProvider string
	DegradeModel    string
}

// Route is the concrete target chosen for one completion.
type Route struct {
	Logical  string
	Provider string
	Model    string
}

// DefaultEntries returns the built-in model table.
func DefaultEntries() map[string]Entry {
	return map[string]Entry{
		ModelGPT4oMini: {
			Provider: OpenAI,
			Model:    "gpt-4o-mini",
			Pricing:  Pricing{InputPerK: 0.00015, OutputPerK: 0.0006},
		},
		ModelGPT5: {
			Provider: OpenAI,
			Model:    "gpt-4o",
			Pricing:  Pricing{InputPerK: 0.005, OutputPerK: 0.015},
		},
		ModelGeminiPro: {
			Provider:        Gemini,
			Model:           "gemini-2.5-pro",
			Pricing:         Pricing{InputPerK: 0.000125, OutputPerK: 0.000375},
			DegradeProvider: OpenAI,
			DegradeModel:    "gpt-4o-mini",
		},
	}
}

// Catalog resolves logical model names against the registered providers.
type Catalog struct {
	entries      map[string]Entry
	registry     *Registry
	primaryModel string
}

// NewCatalog uses DefaultEntries; primaryModel is the primary provider's
// default model id, used for fallbacks.
func NewCatalog(registry *Registry, primaryModel string) *Catalog {
	if registry == nil {
		registry = NewRegistry()
	}
	primaryModel = strings.TrimSpace(primaryModel)
	if primaryModel == "" {
		primaryModel = DefaultEntries()[ModelGPT4oMini].Model
	}
	return &Catalog{entries: DefaultEntries(), registry: registry, primaryModel: primaryModel}
}

// Resolve maps a logical name to a route. Unknown names use DefaultModel.
func (c *Catalog) Resolve(logical string) Route {
	name, entry := c.lookup(logical)
	route := Route{Logical: name, Provider: entry.Provider, Model: entry.Model}
	if entry.DegradeModel != "" && !c.registry.Available(entry.Provider) {
		route.Provider = entry.DegradeProvider
		route.Model = entry.DegradeModel
	}
	return route
}

// Pricing returns the price tier of a logical name, defaulting like Resolve.
func (c *Catalog) Pricing(logical string) Pricing {
	_, entry := c.lookup(logical)
	return entry.Pricing
}

// Fallback is the target used when a secondary provider fails.
func (c *Catalog) Fallback() Route {
	return Route{Logical: DefaultModel, Provider: OpenAI, Model: c.primaryModel}
}

// IsSecondary reports whether the route targets a non-primary provider.
func (c *Catalog) IsSecondary(route Route) bool {
	return route.Provider != OpenAI
}

// HelperRoute targets the secondary provider's fast tier. It never degrades:
// without a secondary credential the helpers fall back to their defaults.
func (c *Catalog) HelperRoute() Route {
	return Route{Logical: HelperModel, Provider: Gemini, Model: HelperModel}
}

// Registry exposes the underlying provider registry.
func (c *Catalog) Registry() *Registry {
	return c.registry
}

func (c *Catalog) lookup(logical string) (string, Entry) {
	name := strings.TrimSpace(logical)
	if entry, ok := c.entries[name]; ok {
		return name, entry
	}
	return DefaultModel, c.entries[DefaultModel]
}
