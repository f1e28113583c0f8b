package source

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"NewsLedger/internal/domain"
	"NewsLedger/internal/metrics"
	"NewsLedger/internal/ports"
)

// MultiSource implements EntrySource across all configured endpoints.
// Endpoints fetch concurrently; the aggregate keeps configuration
// order so a batch is deterministic for a given config and feed state.
type MultiSource struct {
	registry  *Registry
	endpoints []Endpoint
	metrics   *metrics.Set
	logger    *slog.Logger
}

var _ ports.EntrySource = (*MultiSource)(nil)

// NewMultiSource wires the fetcher registry with config-defined endpoints.
func NewMultiSource(reg *Registry, endpoints []Endpoint, met *metrics.Set, log *slog.Logger) *MultiSource {
	return &MultiSource{
		registry:  reg,
		endpoints: endpoints,
		metrics:   met,
		logger:    log,
	}
}

// FetchAll pulls every endpoint and aggregates the raw entries. An
// unknown fetch kind is a configuration error and fails the call
// before any fetching starts; a failing endpoint is logged, counted
// and skipped so one dead feed cannot sink the batch.
func (s *MultiSource) FetchAll(ctx context.Context) ([]domain.RawFeedEntry, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("fetcher registry is not configured")
	}

	fetchers := make([]Fetcher, len(s.endpoints))
	for i, endpoint := range s.endpoints {
		fetcher, err := s.registry.Resolve(endpoint.Kind)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", endpoint.Name, err)
		}
		fetchers[i] = fetcher
	}

	results := make([][]domain.RawFeedEntry, len(s.endpoints))
	var wg sync.WaitGroup
	for i, endpoint := range s.endpoints {
		wg.Add(1)
		go func(i int, endpoint Endpoint, fetcher Fetcher) {
			defer wg.Done()

			entries, err := fetcher.Fetch(ctx, endpoint)
			if err != nil {
				s.warn("source fetch failed", "source", endpoint.Name, "error", err)
				s.metrics.IncSourceError(endpoint.Name)
				return
			}
			for j := range entries {
				if entries[j].SourceName == "" {
					entries[j].SourceName = endpoint.Name
				}
			}
			s.debug("source produced entries", "source", endpoint.Name, "count", len(entries))
			s.metrics.AddFetched(endpoint.Name, len(entries))
			results[i] = entries
		}(i, endpoint, fetchers[i])
	}
	wg.Wait()

	var aggregated []domain.RawFeedEntry
	for _, entries := range results {
		aggregated = append(aggregated, entries...)
	}
	return aggregated, nil
}

func (s *MultiSource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *MultiSource) warn(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
