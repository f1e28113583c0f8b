package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"NewsLedger/internal/ports"
)

// TweetSummary reports what one side-channel pull produced.
type TweetSummary struct {
	Count      int
	NewestID   string
	OutputPath string
}

// TweetPullDeps wires the X side channel.
type TweetPullDeps struct {
	Source     ports.TweetSource
	Sink       ports.TweetSink
	Checkpoint ports.Checkpoint
	Logger     *slog.Logger
	Now        func() time.Time
}

// TweetPull fetches fresh reporter posts past the stored checkpoint
// and appends them to the audit trail.
type TweetPull struct {
	source     ports.TweetSource
	sink       ports.TweetSink
	checkpoint ports.Checkpoint
	logger     *slog.Logger
	now        func() time.Time
}

// NewTweetPull constructs the side-channel use case.
func NewTweetPull(deps TweetPullDeps) *TweetPull {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &TweetPull{
		source:     deps.Source,
		sink:       deps.Sink,
		checkpoint: deps.Checkpoint,
		logger:     deps.Logger,
		now:        now,
	}
}

// Run pulls posts newer than the checkpoint. An empty result writes
// nothing and leaves the checkpoint alone.
func (t *TweetPull) Run(ctx context.Context) (TweetSummary, error) {
	var summary TweetSummary

	if t.source == nil {
		return summary, fmt.Errorf("tweet source is not configured")
	}
	if t.sink == nil {
		return summary, fmt.Errorf("tweet sink is not configured")
	}

	sinceID := ""
	if t.checkpoint != nil {
		id, err := t.checkpoint.Load(ctx)
		if err != nil {
			t.warn("checkpoint unreadable, fetching without since_id", "error", err)
		} else {
			sinceID = id
		}
	}

	tweets, newest, err := t.source.Recent(ctx, sinceID)
	if err != nil {
		return summary, fmt.Errorf("fetch recent posts: %w", err)
	}
	summary.Count = len(tweets)
	summary.NewestID = newest

	if len(tweets) == 0 {
		t.info("no new posts", "since_id", sinceID)
		return summary, nil
	}

	path, err := t.sink.WriteTweets(ctx, tweets, t.now().UTC())
	if err != nil {
		return summary, fmt.Errorf("write tweets: %w", err)
	}
	summary.OutputPath = path

	if t.checkpoint != nil && newest != "" {
		if err := t.checkpoint.Save(ctx, newest); err != nil {
			t.warn("persist checkpoint", "error", err)
		}
	}

	t.info("tweet pull complete", "count", len(tweets), "newest_id", newest, "path", path)
	return summary, nil
}

func (t *TweetPull) info(msg string, args ...interface{}) {
	if t.logger != nil {
		t.logger.Info(msg, args...)
	}
}

func (t *TweetPull) warn(msg string, args ...interface{}) {
	if t.logger != nil {
		t.logger.Warn(msg, args...)
	}
}
