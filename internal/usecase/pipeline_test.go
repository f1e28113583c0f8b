package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"NewsLedger/internal/domain"
)

var testNow = time.Date(2025, time.October, 11, 16, 0, 0, 0, time.UTC)

type fakeSource struct {
	entries []domain.RawFeedEntry
	err     error
}

func (f *fakeSource) FetchAll(ctx context.Context) ([]domain.RawFeedEntry, error) {
	return f.entries, f.err
}

type fakeSink struct {
	batches [][]domain.NewsRecord
}

func (f *fakeSink) WriteRecords(ctx context.Context, records []domain.NewsRecord, at time.Time) (string, error) {
	f.batches = append(f.batches, records)
	return "data/raw/news/2025-10-11/rss_pull_20251011_160000.jsonl", nil
}

type memCache struct {
	entries map[string]domain.CachedArticle
	loadErr error
	saves   int
}

func (m *memCache) Load(ctx context.Context) (map[string]domain.CachedArticle, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := map[string]domain.CachedArticle{}
	for k, v := range m.entries {
		out[k] = v
	}
	return out, nil
}

func (m *memCache) Save(ctx context.Context, entries map[string]domain.CachedArticle) error {
	m.entries = entries
	m.saves++
	return nil
}

func testEntries() []domain.RawFeedEntry {
	return []domain.RawFeedEntry{
		{
			SourceName:    "ESPN_NFL",
			GUID:          "espn-1",
			URL:           "https://www.espn.com/nfl/story/_/id/1?utm_source=rss",
			Title:         "Trade finalized",
			SummaryOrBody: "<p>Body A</p>",
			PublishedRaw:  "Sat, 11 Oct 2025 14:30:00 GMT",
		},
		{
			SourceName:    "CBS_NFL",
			GUID:          "cbs-1",
			URL:           "https://cbssports.com/nfl/news/2",
			Title:         "Injury update",
			SummaryOrBody: "Hamstring, day to day",
			PublishedRaw:  "Sat, 11 Oct 2025 12:00:00 GMT",
		},
		{
			SourceName:    "ESPN_NFL",
			GUID:          "espn-1-dupe",
			URL:           "https://www.espn.com/nfl/story/_/id/1?utm_source=rss",
			Title:         "Trade finalized",
			SummaryOrBody: "<p>Body A</p>",
			PublishedRaw:  "Sat, 11 Oct 2025 14:35:00 GMT",
		},
	}
}

func newTestPipeline(src *fakeSource, sink *fakeSink, cache *memCache) *Pipeline {
	return NewPipeline(PipelineDeps{
		Source: src,
		Sink:   sink,
		Cache:  cache,
		Now:    func() time.Time { return testNow },
	})
}

func TestPipelineRun(t *testing.T) {
	t.Parallel()

	sink := &fakeSink{}
	cache := &memCache{}
	p := newTestPipeline(&fakeSource{entries: testEntries()}, sink, cache)

	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if summary.Fetched != 3 || summary.Written != 2 || summary.Duplicates != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.BySource["ESPN_NFL"] != 1 || summary.BySource["CBS_NFL"] != 1 {
		t.Fatalf("BySource = %v", summary.BySource)
	}
	if summary.OutputPath == "" {
		t.Fatal("missing output path")
	}

	if len(sink.batches) != 1 {
		t.Fatalf("sink saw %d batches", len(sink.batches))
	}
	written := sink.batches[0]
	if len(written) != 2 {
		t.Fatalf("wrote %d records, want 2", len(written))
	}

	// Chronological order across sources, duplicate dropped.
	if written[0].Source != "CBS_NFL" || written[1].Source != "ESPN_NFL" {
		t.Fatalf("order = %s, %s", written[0].Source, written[1].Source)
	}
	if written[1].GUID != "espn-1" {
		t.Fatalf("surviving duplicate = %q, want first occurrence", written[1].GUID)
	}

	espn := written[1]
	if espn.Body != "Body A" {
		t.Fatalf("Body = %q, want flattened text", espn.Body)
	}
	if espn.URL != "https://espn.com/nfl/story/_/id/1" {
		t.Fatalf("URL = %q, want canonical", espn.URL)
	}
	if espn.URLRaw != "https://www.espn.com/nfl/story/_/id/1?utm_source=rss" {
		t.Fatalf("URLRaw = %q", espn.URLRaw)
	}
	if !espn.FirstSeenAt.Equal(testNow) {
		t.Fatalf("FirstSeenAt = %v, want shared retrieval time", espn.FirstSeenAt)
	}

	if cache.saves != 1 {
		t.Fatalf("cache saved %d times", cache.saves)
	}
	if _, ok := cache.entries["ESPN_NFL:https://espn.com/nfl/story/_/id/1"]; !ok {
		t.Fatalf("cache keys = %v", cache.entries)
	}
}

func TestPipelineDetectsRevisions(t *testing.T) {
	t.Parallel()

	sink := &fakeSink{}
	cache := &memCache{}
	src := &fakeSource{entries: testEntries()}
	p := newTestPipeline(src, sink, cache)

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}

	changed := testEntries()
	changed[0].SummaryOrBody = "<p>Body A, now with a correction</p>"
	changed[2].SummaryOrBody = changed[0].SummaryOrBody
	src.entries = changed

	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if summary.Revisions != 1 {
		t.Fatalf("Revisions = %d, want 1", summary.Revisions)
	}

	var espn *domain.NewsRecord
	for i := range sink.batches[1] {
		if sink.batches[1][i].Source == "ESPN_NFL" {
			espn = &sink.batches[1][i]
		}
	}
	if espn == nil || espn.Diff == nil {
		t.Fatal("revised record carries no diff")
	}
	if !espn.Diff.HasChanges || espn.Diff.ChangeSummary != "+1 -1 lines" {
		t.Fatalf("diff = %+v", espn.Diff)
	}

	unchanged := sink.batches[1][0]
	if unchanged.Source != "CBS_NFL" || unchanged.Diff != nil {
		t.Fatalf("unchanged record got a diff: %+v", unchanged.Diff)
	}
}

func TestPipelineAbortsOnInvalidEntry(t *testing.T) {
	t.Parallel()

	entries := testEntries()
	entries[1].SourceName = ""
	p := newTestPipeline(&fakeSource{entries: entries}, &fakeSink{}, &memCache{})

	if _, err := p.Run(context.Background()); err == nil {
		t.Fatal("expected error for entry without source")
	}
}

func TestPipelineToleratesBrokenCache(t *testing.T) {
	t.Parallel()

	sink := &fakeSink{}
	cache := &memCache{loadErr: errors.New("disk gone")}
	p := newTestPipeline(&fakeSource{entries: testEntries()}, sink, cache)

	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if summary.Written != 2 {
		t.Fatalf("Written = %d", summary.Written)
	}
}

func TestPipelineFetchFailure(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(&fakeSource{err: errors.New("all endpoints down")}, &fakeSink{}, &memCache{})
	if _, err := p.Run(context.Background()); err == nil || !strings.Contains(err.Error(), "fetch entries") {
		t.Fatalf("err = %v", err)
	}
}

func TestPipelineEmptyBatchStillWrites(t *testing.T) {
	t.Parallel()

	sink := &fakeSink{}
	p := newTestPipeline(&fakeSource{}, sink, &memCache{})

	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if summary.Written != 0 || len(sink.batches) != 1 {
		t.Fatalf("summary=%+v batches=%d", summary, len(sink.batches))
	}
}
