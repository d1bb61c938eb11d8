package provider

import (
	"fmt"
	"sort"

	"DocStructurer/internal/ports"
)

// Registry keeps a mapping from provider names to their implementations.
type Registry struct {
	providers map[string]ports.ChatProvider
}

// NewRegistry builds a registry pre-filled with the given providers.
func NewRegistry(providers ...ports.ChatProvider) *Registry {
	r := &Registry{providers: map[string]ports.ChatProvider{}}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds or replaces a provider implementation.
func (r *Registry) Register(p ports.ChatProvider) {
	if p == nil {
		return
	}
	if r.providers == nil {
		r.providers = map[string]ports.ChatProvider{}
	}
	r.providers[p.Name()] = p
}

// Resolve returns a provider by name or an error if it is absent.
func (r *Registry) Resolve(name string) (ports.ChatProvider, error) {
	if p, ok := r.providers[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("provider %s is not registered", name)
}

// Available reports whether the named provider is registered and has credentials.
func (r *Registry) Available(name string) bool {
	p, ok := r.providers[name]
	return ok && p.Available()
}

// Names lists registered providers in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
