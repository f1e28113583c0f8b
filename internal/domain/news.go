package domain

import "time"

// TimeSource names which raw field produced a record's t_news_utc.
type TimeSource string

const (
	TimePublished TimeSource = "published"
	TimeUpdated   TimeSource = "updated"
	TimeFirstSeen TimeSource = "first_seen"
)

// RawFeedEntry is one entry as it came off a provider, before any
// normalization. Field values are verbatim; timestamps are the raw
// strings from the wire and may be empty or garbage.
type RawFeedEntry struct {
	SourceName    string `json:"source_name"`
	GUID          string `json:"guid"`
	URL           string `json:"url"`
	Title         string `json:"title"`
	SummaryOrBody string `json:"summary_or_body"`
	PublishedRaw  string `json:"published_raw"`
	UpdatedRaw    string `json:"updated_raw"`
}

// NewsRecord is the canonical, audit-ready form of a feed entry. All
// timestamps are UTC. PublishedAt and UpdatedAt are nil when the raw
// strings were absent or unparseable. NewsAt is the best available
// event time and TimeSource says where it came from.
type NewsRecord struct {
	Source      string       `json:"source"`
	GUID        string       `json:"guid"`
	URL         string       `json:"url"`
	URLRaw      string       `json:"url_raw"`
	Headline    string       `json:"headline"`
	Body        string       `json:"body"`
	PublishedAt *time.Time   `json:"t_published_utc"`
	UpdatedAt   *time.Time   `json:"t_updated_utc"`
	FirstSeenAt time.Time    `json:"t_first_seen_utc"`
	NewsAt      time.Time    `json:"t_news_utc"`
	TimeSource  TimeSource   `json:"t_source"`
	IsUpdated   bool         `json:"is_updated"`
	ContentHash string       `json:"content_hash"`
	Diff        *BodyDiff    `json:"diff"`
	RawEntry    RawFeedEntry `json:"raw_entry"`
}

// BodyDiff describes how an article body changed since it was last
// seen. AddedLines and RemovedLines are capped samples, TotalChanges
// is the full count.
type BodyDiff struct {
	HasChanges    bool     `json:"has_changes"`
	AddedLines    []string `json:"added_lines"`
	RemovedLines  []string `json:"removed_lines"`
	TotalChanges  int      `json:"total_changes"`
	UnifiedDiff   string   `json:"unified_diff"`
	ChangeSummary string   `json:"change_summary"`
}

// CachedArticle is the per-URL snapshot kept between runs for
// revision detection.
type CachedArticle struct {
	Body        string    `json:"body"`
	Headline    string    `json:"headline"`
	LastSeen    time.Time `json:"last_seen"`
	ContentHash string    `json:"content_hash"`
}

// Tweet is the minimal record kept from the X side channel.
type Tweet struct {
	ID             string `json:"id"`
	Text           string `json:"text"`
	AuthorUsername string `json:"author_username"`
	CreatedAt      string `json:"created_at"`
}
