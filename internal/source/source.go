package source

import (
	"context"
	"fmt"

	"NewsLedger/internal/domain"
)

// Endpoint describes one configured provider endpoint.
type Endpoint struct {
	Name string
	URL  string
	Kind string
}

// Fetcher captures a single retrieval strategy (RSS today, anything
// with a name and an address tomorrow).
type Fetcher interface {
	Kind() string
	Fetch(ctx context.Context, endpoint Endpoint) ([]domain.RawFeedEntry, error)
}

// Registry keeps a mapping from fetch kinds to their implementations.
type Registry struct {
	fetchers map[string]Fetcher
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{fetchers: map[string]Fetcher{}}
}

// Register adds or replaces a fetch strategy.
func (r *Registry) Register(fetcher Fetcher) {
	if r.fetchers == nil {
		r.fetchers = map[string]Fetcher{}
	}
	r.fetchers[fetcher.Kind()] = fetcher
}

// Resolve returns a fetcher by kind or an error if it is absent.
func (r *Registry) Resolve(kind string) (Fetcher, error) {
	if fetcher, ok := r.fetchers[kind]; ok {
		return fetcher, nil
	}
	return nil, fmt.Errorf("fetcher kind %s is not registered", kind)
}
