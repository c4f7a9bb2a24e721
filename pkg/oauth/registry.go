package oauth

import (
	"fmt"
	"maps"
	"slices"
)

// Registry looks providers up by name.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

// NewRegistryFromConfig registers every provider that has a client ID.
func NewRegistryFromConfig(cfg Config, opts ...Option) (*Registry, error) {
	var list []Provider
	if cfg.Google.Enabled() {
		p, err := NewGoogleProvider(cfg.Google, opts...)
		if err != nil {
			return nil, fmt.Errorf("google: %w", err)
		}
		list = append(list, p)
	}
	if cfg.GitHub.Enabled() {
		p, err := NewGitHubProvider(cfg.GitHub, opts...)
		if err != nil {
			return nil, fmt.Errorf("github: %w", err)
		}
		list = append(list, p)
	}
	return NewRegistry(list...), nil
}

// Get returns the provider or ErrUnknownProvider.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	return p, nil
}

// Names returns the registered provider names, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.providers))
}

func (r *Registry) Has(name string) bool {
	_, ok := r.providers[name]
	return ok
}
