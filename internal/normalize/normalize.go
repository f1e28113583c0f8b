// Package normalize turns raw feed entries into canonical news records
// and drops within-batch duplicates. It is pure: no I/O, no clock
// reads, no shared state. Collaborator-derived inputs (HTML-stripped
// body, canonicalized URL) come in via Derived so the raw entry stays
// verbatim for the audit copy.
package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"NewsLedger/internal/domain"
)

// ErrMissingSource reports a raw entry with an empty source name, the
// one input shape Entry refuses to normalize.
var ErrMissingSource = errors.New("raw entry has no source name")

// Derived carries collaborator-computed views of a raw entry: the
// plain-text body after HTML stripping and the canonicalized link.
// Either may be empty; an empty URL falls back to the raw link.
type Derived struct {
	Body string
	URL  string
}

// Entry normalizes one raw entry against the given retrieval time.
// Timestamp parsing is permissive and never fails the call: raw
// strings that do not parse yield nil fields and the event time falls
// back along published, updated, first seen. Every timestamp on the
// returned record is UTC.
func Entry(raw domain.RawFeedEntry, derived Derived, retrievedAt time.Time) (domain.NewsRecord, error) {
	if strings.TrimSpace(raw.SourceName) == "" {
		return domain.NewsRecord{}, ErrMissingSource
	}

	firstSeen := retrievedAt.UTC()
	published := ParseTimestamp(raw.PublishedRaw)
	updated := ParseTimestamp(raw.UpdatedRaw)

	newsAt := firstSeen
	basis := domain.TimeFirstSeen
	switch {
	case published != nil:
		newsAt = *published
		basis = domain.TimePublished
	case updated != nil:
		newsAt = *updated
		basis = domain.TimeUpdated
	}

	link := derived.URL
	if link == "" {
		link = raw.URL
	}
	guid := raw.GUID
	if guid == "" {
		guid = link
	}

	return domain.NewsRecord{
		Source:      raw.SourceName,
		GUID:        guid,
		URL:         link,
		URLRaw:      raw.URL,
		Headline:    raw.Title,
		Body:        derived.Body,
		PublishedAt: published,
		UpdatedAt:   updated,
		FirstSeenAt: firstSeen,
		NewsAt:      newsAt,
		TimeSource:  basis,
		IsUpdated:   published != nil && updated != nil && updated.After(*published),
		ContentHash: ContentHash(raw.SourceName, raw.Title, derived.Body),
		RawEntry:    raw,
	}, nil
}

// Dedupe filters records to the first occurrence of each content hash,
// preserving input order. The seen set lives and dies with the call.
func Dedupe(records []domain.NewsRecord) []domain.NewsRecord {
	out := make([]domain.NewsRecord, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.ContentHash]; ok {
			continue
		}
		seen[rec.ContentHash] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// ContentHash fingerprints an entry by source, title and cleaned body.
// Fields are lower-cased and whitespace-collapsed first, so casing and
// spacing differences do not produce distinct hashes. The collapsed
// fields cannot contain a newline, which makes it a safe joiner.
func ContentHash(source, title, body string) string {
	key := foldField(source) + "\n" + foldField(title) + "\n" + foldField(body)
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func foldField(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
