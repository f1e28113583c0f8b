// Package rss fetches configured feeds and maps their items to raw
// entries, verbatim. Everything canonical (timestamps, URLs, hashes)
// happens downstream.
package rss

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	"NewsLedger/internal/domain"
	"NewsLedger/internal/source"
)

// Fetcher pulls RSS and Atom endpoints through a shared rate limiter.
type Fetcher struct {
	parser  *gofeed.Parser
	limiter *rate.Limiter
	retries int
	backoff time.Duration
	logger  *slog.Logger
}

var _ source.Fetcher = (*Fetcher)(nil)

// NewFetcher wires an HTTP client and rate limiter; the client
// defaults to a 10s timeout, the limiter may be nil to fetch
// unthrottled.
func NewFetcher(client *http.Client, userAgent string, limiter *rate.Limiter, log *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	parser := gofeed.NewParser()
	parser.Client = client
	if userAgent != "" {
		parser.UserAgent = userAgent
	}

	return &Fetcher{
		parser:  parser,
		limiter: limiter,
		retries: 2,
		backoff: 2 * time.Second,
		logger:  log,
	}
}

// WithRetry overrides the default retry policy. Non-positive values
// leave the corresponding default in place.
func (f *Fetcher) WithRetry(retries int, backoff time.Duration) *Fetcher {
	if retries > 0 {
		f.retries = retries
	}
	if backoff > 0 {
		f.backoff = backoff
	}
	return f
}

// Kind identifies the strategy inside the registry.
func (f *Fetcher) Kind() string {
	return "rss"
}

// Fetch downloads one feed and returns its items as raw entries,
// oldest first so revisions of a story process in publication order.
func (f *Fetcher) Fetch(ctx context.Context, endpoint source.Endpoint) ([]domain.RawFeedEntry, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	feed, err := f.parseWithRetry(ctx, endpoint.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", endpoint.Name, err)
	}

	items := append([]*gofeed.Item(nil), feed.Items...)
	sort.SliceStable(items, func(i, j int) bool {
		return itemTime(items[i]).Before(itemTime(items[j]))
	})

	entries := make([]domain.RawFeedEntry, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		body := pickBody(item)
		if body == "" {
			f.debug("feed item has no content", "source", endpoint.Name, "link", item.Link)
		}
		entries = append(entries, domain.RawFeedEntry{
			SourceName:    endpoint.Name,
			GUID:          item.GUID,
			URL:           item.Link,
			Title:         item.Title,
			SummaryOrBody: body,
			PublishedRaw:  item.Published,
			UpdatedRaw:    item.Updated,
		})
	}
	return entries, nil
}

func (f *Fetcher) parseWithRetry(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	var lastErr error
	for attempt := 0; attempt <= f.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(f.backoff * time.Duration(attempt)):
			}
		}
		feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
		if err == nil {
			return feed, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// itemTime orders items for the per-feed sort; undated items sort
// oldest.
func itemTime(item *gofeed.Item) time.Time {
	if item == nil {
		return time.Time{}
	}
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{}
}

// pickBody prefers the feed summary, falling back to full content.
func pickBody(item *gofeed.Item) string {
	if item.Description != "" {
		return item.Description
	}
	return item.Content
}

func (f *Fetcher) debug(msg string, args ...interface{}) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}
