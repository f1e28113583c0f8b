package xapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRecentBuildsQueryAndMapsAuthors(t *testing.T) {
	t.Parallel()

	var gotQuery, gotSince, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotSince = r.URL.Query().Get("since_id")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [
				{"id": "1002", "text": "deal is done", "author_id": "11", "created_at": "2025-10-11T16:00:00.000Z"},
				{"id": "1001", "text": "hearing a trade is close", "author_id": "11", "created_at": "2025-10-11T15:00:00.000Z"}
			],
			"includes": {"users": [{"id": "11", "username": "AdamSchefter"}]},
			"meta": {"newest_id": "1002", "result_count": 2}
		}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "token-123", []string{"AdamSchefter", "@RapSheet"}, 50, server.Client())
	tweets, newest, err := c.Recent(context.Background(), "999")
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}

	if gotQuery != "(from:AdamSchefter OR from:RapSheet) -is:retweet -is:reply" {
		t.Fatalf("query = %q", gotQuery)
	}
	if gotSince != "999" {
		t.Fatalf("since_id = %q", gotSince)
	}
	if gotAuth != "Bearer token-123" {
		t.Fatalf("auth header = %q", gotAuth)
	}

	if len(tweets) != 2 {
		t.Fatalf("got %d tweets, want 2", len(tweets))
	}
	if tweets[0].ID != "1001" || tweets[1].ID != "1002" {
		t.Fatalf("tweets not chronological: %+v", tweets)
	}
	if tweets[0].AuthorUsername != "AdamSchefter" {
		t.Fatalf("author = %q", tweets[0].AuthorUsername)
	}
	if newest != "1002" {
		t.Fatalf("newest = %q", newest)
	}
}

func TestRecentOmitsSinceIDOnFirstRun(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("since_id") {
			t.Error("since_id sent on first run")
		}
		_, _ = w.Write([]byte(`{"meta": {"result_count": 0}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "token", []string{"AdamSchefter"}, 0, server.Client())
	tweets, newest, err := c.Recent(context.Background(), "")
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if len(tweets) != 0 || newest != "" {
		t.Fatalf("tweets=%v newest=%q, want empty", tweets, newest)
	}
}

func TestRecentErrorPaths(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"title":"Unauthorized"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	c := NewClient(server.URL, "bad-token", []string{"AdamSchefter"}, 10, server.Client())
	if _, _, err := c.Recent(context.Background(), ""); err == nil {
		t.Fatal("expected error for 401 response")
	}

	missing := NewClient(server.URL, "", []string{"AdamSchefter"}, 10, server.Client())
	if _, _, err := missing.Recent(context.Background(), ""); err == nil {
		t.Fatal("expected error for missing bearer token")
	}

	noAccounts := NewClient(server.URL, "token", nil, 10, server.Client())
	if _, _, err := noAccounts.Recent(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty account list")
	}
}
