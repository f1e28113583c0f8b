package source

import (
	"context"
	"errors"
	"strings"
	"testing"

	"NewsLedger/internal/domain"
)

type stubFetcher struct {
	kind    string
	entries map[string][]domain.RawFeedEntry
	fail    map[string]bool
}

func (f *stubFetcher) Kind() string { return f.kind }

func (f *stubFetcher) Fetch(ctx context.Context, endpoint Endpoint) ([]domain.RawFeedEntry, error) {
	if f.fail[endpoint.Name] {
		return nil, errors.New("connection refused")
	}
	return f.entries[endpoint.Name], nil
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(&stubFetcher{kind: "rss"})

	if _, err := reg.Resolve("rss"); err != nil {
		t.Fatalf("Resolve(rss) error: %v", err)
	}
	if _, err := reg.Resolve("carrier-pigeon"); err == nil {
		t.Fatal("expected error for unregistered kind")
	}
}

func TestFetchAllKeepsEndpointOrder(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(&stubFetcher{
		kind: "rss",
		entries: map[string][]domain.RawFeedEntry{
			"A": {{SourceName: "A", GUID: "a1"}, {SourceName: "A", GUID: "a2"}},
			"B": {{GUID: "b1"}},
			"C": {{SourceName: "C", GUID: "c1"}},
		},
	})

	ms := NewMultiSource(reg, []Endpoint{
		{Name: "A", Kind: "rss"},
		{Name: "B", Kind: "rss"},
		{Name: "C", Kind: "rss"},
	}, nil, nil)

	entries, err := ms.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll error: %v", err)
	}

	var got []string
	for _, e := range entries {
		got = append(got, e.GUID)
	}
	if strings.Join(got, ",") != "a1,a2,b1,c1" {
		t.Fatalf("order = %v", got)
	}
	// Entries without a source name inherit the endpoint's.
	if entries[2].SourceName != "B" {
		t.Fatalf("SourceName = %q, want B", entries[2].SourceName)
	}
}

func TestFetchAllSkipsFailingEndpoint(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(&stubFetcher{
		kind: "rss",
		entries: map[string][]domain.RawFeedEntry{
			"up":   {{SourceName: "up", GUID: "u1"}},
			"also": {{SourceName: "also", GUID: "v1"}},
		},
		fail: map[string]bool{"down": true},
	})

	ms := NewMultiSource(reg, []Endpoint{
		{Name: "up", Kind: "rss"},
		{Name: "down", Kind: "rss"},
		{Name: "also", Kind: "rss"},
	}, nil, nil)

	entries, err := ms.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (failing endpoint skipped)", len(entries))
	}
	if entries[0].GUID != "u1" || entries[1].GUID != "v1" {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestFetchAllUnknownKindFails(t *testing.T) {
	t.Parallel()

	ms := NewMultiSource(NewRegistry(), []Endpoint{{Name: "A", Kind: "rss"}}, nil, nil)
	if _, err := ms.FetchAll(context.Background()); err == nil {
		t.Fatal("expected configuration error")
	}
}
