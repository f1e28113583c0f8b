package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"NewsLedger/internal/domain"
	"NewsLedger/internal/htmltext"
	"NewsLedger/internal/metrics"
	"NewsLedger/internal/normalize"
	"NewsLedger/internal/ports"
	"NewsLedger/internal/textdiff"
	"NewsLedger/internal/urlnorm"
)

// Summary reports what one ingest run produced.
type Summary struct {
	RunID      string
	Fetched    int
	Written    int
	Duplicates int
	Revisions  int
	BySource   map[string]int
	OutputPath string
}

// PipelineDeps wires all driven adapters into the ingest pipeline.
type PipelineDeps struct {
	Source  ports.EntrySource
	Sink    ports.RecordSink
	Cache   ports.ArticleCache
	Metrics *metrics.Set
	Logger  *slog.Logger
	Now     func() time.Time
}

// Pipeline implements the ingest workflow: fetch, normalize, dedupe,
// detect revisions, append to the audit trail.
type Pipeline struct {
	source  ports.EntrySource
	sink    ports.RecordSink
	cache   ports.ArticleCache
	metrics *metrics.Set
	logger  *slog.Logger
	now     func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		source:  deps.Source,
		sink:    deps.Sink,
		cache:   deps.Cache,
		metrics: deps.Metrics,
		logger:  deps.Logger,
		now:     now,
	}
}

// Run executes one ingest batch. The whole batch shares a single
// retrieval time so records fetched together carry the same
// t_first_seen_utc.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	start := p.now()
	retrieved := start.UTC()
	summary := Summary{RunID: uuid.NewString(), BySource: map[string]int{}}

	if p.source == nil {
		return summary, fmt.Errorf("entry source is not configured")
	}
	if p.sink == nil {
		return summary, fmt.Errorf("record sink is not configured")
	}

	entries, err := p.source.FetchAll(ctx)
	if err != nil {
		return summary, fmt.Errorf("fetch entries: %w", err)
	}
	summary.Fetched = len(entries)

	records := make([]domain.NewsRecord, 0, len(entries))
	for _, raw := range entries {
		derived := normalize.Derived{
			Body: htmltext.Flatten(raw.SummaryOrBody),
			URL:  urlnorm.Canonical(raw.URL),
		}
		rec, err := normalize.Entry(raw, derived, retrieved)
		if err != nil {
			return summary, fmt.Errorf("normalize entry %q from source %q: %w", raw.GUID, raw.SourceName, err)
		}
		records = append(records, rec)
	}

	// Stable chronological order before dedupe makes the surviving
	// copy of a duplicate the earliest-dated one and keeps batches
	// deterministic for a given feed state.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].NewsAt.Before(records[j].NewsAt)
	})

	before := countBySource(records)
	deduped := normalize.Dedupe(records)
	after := countBySource(deduped)
	for source, n := range before {
		if d := n - after[source]; d > 0 {
			p.metrics.AddDuplicates(source, d)
			summary.Duplicates += d
		}
	}

	summary.Revisions = p.attachRevisions(ctx, deduped, retrieved)

	path, err := p.sink.WriteRecords(ctx, deduped, retrieved)
	if err != nil {
		return summary, fmt.Errorf("write records: %w", err)
	}
	summary.OutputPath = path
	summary.Written = len(deduped)
	summary.BySource = after
	for source, n := range after {
		p.metrics.AddWritten(source, n)
	}

	p.metrics.ObserveRun(p.now().Sub(start))
	p.metrics.MarkSuccess(p.now())

	p.info("ingest run complete",
		"run", summary.RunID,
		"fetched", summary.Fetched,
		"written", summary.Written,
		"duplicates", summary.Duplicates,
		"revisions", summary.Revisions,
		"path", path,
	)
	if len(deduped) > 0 {
		p.info("chronological range",
			"first", deduped[0].NewsAt.Format(time.RFC3339),
			"last", deduped[len(deduped)-1].NewsAt.Format(time.RFC3339),
		)
	}
	return summary, nil
}

// attachRevisions diffs each record against its cached snapshot and
// refreshes the cache. Cache trouble degrades to a warning: revision
// info is enrichment, not a reason to lose a batch.
func (p *Pipeline) attachRevisions(ctx context.Context, records []domain.NewsRecord, retrieved time.Time) int {
	if p.cache == nil {
		return 0
	}

	snapshots, err := p.cache.Load(ctx)
	if err != nil {
		p.warn("article cache unreadable, starting fresh", "error", err)
		snapshots = map[string]domain.CachedArticle{}
	}

	revisions := 0
	for i := range records {
		rec := &records[i]
		key := rec.Source + ":" + rec.URL
		if prev, ok := snapshots[key]; ok && prev.Body != rec.Body {
			rec.Diff = textdiff.Compare(prev.Body, rec.Body)
			revisions++
			p.debug("revision detected",
				"source", rec.Source, "url", rec.URL, "change", rec.Diff.ChangeSummary)
		}
		snapshots[key] = domain.CachedArticle{
			Body:        rec.Body,
			Headline:    rec.Headline,
			LastSeen:    retrieved,
			ContentHash: rec.ContentHash,
		}
	}

	if err := p.cache.Save(ctx, snapshots); err != nil {
		p.warn("persist article cache", "error", err)
	}
	return revisions
}

func countBySource(records []domain.NewsRecord) map[string]int {
	counts := make(map[string]int, 8)
	for _, rec := range records {
		counts[rec.Source]++
	}
	return counts
}

func (p *Pipeline) debug(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

func (p *Pipeline) info(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
