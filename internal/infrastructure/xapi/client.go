// Package xapi queries the X API v2 recent search endpoint for posts
// from the configured reporter accounts.
package xapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"NewsLedger/internal/domain"
	"NewsLedger/internal/ports"
)

const defaultBaseURL = "https://api.twitter.com/2"

// Client implements ports.TweetSource against the v2 REST API.
type Client struct {
	baseURL    string
	bearer     string
	accounts   []string
	maxResults int
	httpClient *http.Client
}

var _ ports.TweetSource = (*Client)(nil)

// NewClient builds a recent-search client. baseURL and maxResults fall
// back to the API default and 100.
func NewClient(baseURL, bearer string, accounts []string, maxResults int, client *http.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if maxResults <= 0 {
		maxResults = 100
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		bearer:     bearer,
		accounts:   accounts,
		maxResults: maxResults,
		httpClient: client,
	}
}

type searchResponse struct {
	Data []struct {
		ID        string `json:"id"`
		Text      string `json:"text"`
		AuthorID  string `json:"author_id"`
		CreatedAt string `json:"created_at"`
	} `json:"data"`
	Includes struct {
		Users []struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"users"`
	} `json:"includes"`
	Meta struct {
		NewestID    string `json:"newest_id"`
		ResultCount int    `json:"result_count"`
	} `json:"meta"`
}

// Recent fetches posts newer than sinceID (all recent posts when empty),
// oldest first, along with the newest ID seen for the next checkpoint.
// Retweets and replies are excluded at the query level.
func (c *Client) Recent(ctx context.Context, sinceID string) ([]domain.Tweet, string, error) {
	if c == nil || c.bearer == "" {
		return nil, "", fmt.Errorf("x client has no bearer token")
	}
	if len(c.accounts) == 0 {
		return nil, "", fmt.Errorf("x client has no accounts configured")
	}

	params := url.Values{}
	params.Set("query", c.buildQuery())
	params.Set("max_results", strconv.Itoa(c.maxResults))
	params.Set("tweet.fields", "id,text,author_id,created_at")
	params.Set("expansions", "author_id")
	params.Set("user.fields", "username")
	if sinceID != "" {
		params.Set("since_id", sinceID)
	}

	endpoint := c.baseURL + "/tweets/search/recent?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("search recent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, "", fmt.Errorf("x api error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, "", fmt.Errorf("decode response: %w", err)
	}

	usernames := make(map[string]string, len(parsed.Includes.Users))
	for _, user := range parsed.Includes.Users {
		usernames[user.ID] = user.Username
	}

	// The API returns newest first; flip to chronological order.
	tweets := make([]domain.Tweet, 0, len(parsed.Data))
	for i := len(parsed.Data) - 1; i >= 0; i-- {
		item := parsed.Data[i]
		author := usernames[item.AuthorID]
		if author == "" {
			author = item.AuthorID
		}
		tweets = append(tweets, domain.Tweet{
			ID:             item.ID,
			Text:           item.Text,
			AuthorUsername: author,
			CreatedAt:      item.CreatedAt,
		})
	}

	return tweets, newestID(parsed), nil
}

func (c *Client) buildQuery() string {
	clauses := make([]string, 0, len(c.accounts))
	for _, handle := range c.accounts {
		clauses = append(clauses, "from:"+strings.TrimPrefix(handle, "@"))
	}
	return "(" + strings.Join(clauses, " OR ") + ") -is:retweet -is:reply"
}

// newestID trusts the meta block when present and otherwise finds the
// numerically largest post ID.
func newestID(parsed searchResponse) string {
	if parsed.Meta.NewestID != "" {
		return parsed.Meta.NewestID
	}
	var best uint64
	var bestRaw string
	for _, item := range parsed.Data {
		id, err := strconv.ParseUint(item.ID, 10, 64)
		if err != nil {
			continue
		}
		if id > best {
			best = id
			bestRaw = item.ID
		}
	}
	return bestRaw
}
