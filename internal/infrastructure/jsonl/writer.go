// Package jsonl appends ingest batches to the date-partitioned audit
// trail, one JSON object per line.
package jsonl

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"NewsLedger/internal/domain"
	"NewsLedger/internal/ports"
)

// Writer lands batches under <baseDir>/<YYYY-MM-DD>/.
type Writer struct {
	baseDir string
}

var (
	_ ports.RecordSink = (*Writer)(nil)
	_ ports.TweetSink  = (*Writer)(nil)
)

// NewWriter roots the audit trail at baseDir.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WriteRecords appends a news batch and returns the file path.
func (w *Writer) WriteRecords(ctx context.Context, records []domain.NewsRecord, at time.Time) (string, error) {
	rows := make([]any, len(records))
	for i := range records {
		rows[i] = records[i]
	}
	name := "rss_pull_" + at.UTC().Format("20060102_150405") + ".jsonl"
	return w.writeLines(at, name, rows)
}

// WriteTweets appends a tweet batch and returns the file path.
func (w *Writer) WriteTweets(ctx context.Context, tweets []domain.Tweet, at time.Time) (string, error) {
	rows := make([]any, len(tweets))
	for i := range tweets {
		rows[i] = tweets[i]
	}
	name := "tweets_recent_" + at.UTC().Format("20060102T150405Z") + ".jsonl"
	return w.writeLines(at, name, rows)
}

func (w *Writer) writeLines(at time.Time, name string, rows []any) (string, error) {
	dir := filepath.Join(w.baseDir, at.UTC().Format("2006-01-02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create output file: %w", err)
	}

	enc := json.NewEncoder(file)
	enc.SetEscapeHTML(false)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			file.Close()
			return "", fmt.Errorf("encode record: %w", err)
		}
	}

	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close output file: %w", err)
	}
	return path, nil
}
