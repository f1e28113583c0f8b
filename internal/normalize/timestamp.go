package normalize

import (
	"strings"
	"time"
)

// Feed dates arrive in the RFC 2822 family (classic RSS pubDate, with
// one- and two-digit days, named and numeric zones) and the ISO 8601
// family (Atom, often without a zone). Layouts without zone info parse
// as UTC, which is the assumption for naive timestamps throughout.
var timestampLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 MST",
	time.RFC822Z,
	time.RFC822,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
}

// ParseTimestamp parses a raw feed timestamp, returning nil when the
// value is empty or matches no known layout. The result is always UTC.
func ParseTimestamp(value string) *time.Time {
	s := strings.TrimSpace(value)
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			u := t.UTC()
			return &u
		}
	}
	return nil
}
