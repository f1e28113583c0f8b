package ports

import (
	"context"
	"time"

	"NewsLedger/internal/domain"
)

// EntrySource pulls raw entries from every configured news provider.
type EntrySource interface {
	FetchAll(ctx context.Context) ([]domain.RawFeedEntry, error)
}

// RecordSink appends a batch of normalized records to the audit trail
// and reports where it landed.
type RecordSink interface {
	WriteRecords(ctx context.Context, records []domain.NewsRecord, at time.Time) (string, error)
}

// ArticleCache keeps per-URL body snapshots between runs for revision
// detection.
type ArticleCache interface {
	Load(ctx context.Context) (map[string]domain.CachedArticle, error)
	Save(ctx context.Context, entries map[string]domain.CachedArticle) error
}

// TweetSource queries the X side channel for fresh posts after a
// checkpoint ID.
type TweetSource interface {
	Recent(ctx context.Context, sinceID string) ([]domain.Tweet, string, error)
}

// TweetSink appends tweet batches to the audit trail.
type TweetSink interface {
	WriteTweets(ctx context.Context, tweets []domain.Tweet, at time.Time) (string, error)
}

// Checkpoint persists the newest tweet ID seen across runs.
type Checkpoint interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, id string) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
