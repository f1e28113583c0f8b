package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"NewsLedger/internal/config"
	"NewsLedger/internal/infrastructure/jsonl"
	"NewsLedger/internal/infrastructure/rss"
	"NewsLedger/internal/infrastructure/scheduler"
	"NewsLedger/internal/infrastructure/state"
	"NewsLedger/internal/infrastructure/xapi"
	"NewsLedger/internal/logging"
	"NewsLedger/internal/metrics"
	"NewsLedger/internal/source"
	"NewsLedger/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	metrics  *metrics.Set
	pipeline *usecase.Pipeline
	tweets   *usecase.TweetPull
}

// Options tune construction per entry point.
type Options struct {
	// Metrics enables Prometheus registration; daemon mode sets it,
	// one-shot commands leave the nil-safe instrumentation off.
	Metrics bool
}

// New builds a fully wired application instance.
func New(cfg config.Config, baseLogger *slog.Logger, opts Options) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	var met *metrics.Set
	if opts.Metrics {
		met = metrics.NewSet(nil)
	}

	client := &http.Client{Timeout: cfg.Fetch.Timeout()}
	limiter := rate.NewLimiter(rate.Limit(cfg.Fetch.RatePerSecond), 1)

	registry := source.NewRegistry()
	fetcher := rss.NewFetcher(client, cfg.Fetch.UserAgent, limiter, baseLogger.With("component", "rss")).
		WithRetry(cfg.Fetch.Retries, cfg.Fetch.Backoff())
	registry.Register(fetcher)

	endpoints := make([]source.Endpoint, len(cfg.Sources))
	for i, src := range cfg.Sources {
		endpoints[i] = source.Endpoint{Name: src.Name, URL: src.URL, Kind: src.Kind}
	}
	entries := source.NewMultiSource(registry, endpoints, met, baseLogger.With("component", "source"))

	sink := jsonl.NewWriter(cfg.Data.NewsDir)
	cache := state.NewFileCache(filepath.Join(cfg.Data.RefDir, "article_cache.json"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:  entries,
		Sink:    sink,
		Cache:   cache,
		Metrics: met,
		Logger:  baseLogger.With("component", "pipeline"),
	})

	var tweets *usecase.TweetPull
	if len(cfg.X.Accounts) > 0 {
		tweets = usecase.NewTweetPull(usecase.TweetPullDeps{
			Source:     xapi.NewClient("", cfg.X.BearerToken, cfg.X.Accounts, cfg.X.MaxResults, client),
			Sink:       sink,
			Checkpoint: state.NewSinceIDFile(filepath.Join(cfg.Data.RefDir, "x_since_id.json")),
			Logger:     baseLogger.With("component", "tweets"),
		})
	}

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		metrics:  met,
		pipeline: pipeline,
		tweets:   tweets,
	}
}

// RunPull executes one ingest batch.
func (a *Application) RunPull(ctx context.Context) error {
	_, err := a.pipeline.Run(ctx)
	return err
}

// RunTweets executes one side-channel pull.
func (a *Application) RunTweets(ctx context.Context) error {
	if a.tweets == nil {
		return fmt.Errorf("x side channel has no accounts configured")
	}
	_, err := a.tweets.Run(ctx)
	return err
}

// RunDaemon serves metrics, runs the jobs once immediately, then keeps
// running them on the configured cron schedule until ctx is canceled.
func (a *Application) RunDaemon(ctx context.Context) error {
	if a.metrics != nil && a.cfg.Metrics.Addr != "" {
		server := metrics.NewServer(a.cfg.Metrics.Addr)
		go func() {
			if err := server.Serve(); err != nil && err != http.ErrServerClosed {
				a.logger.Error("metrics server stopped", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				a.logger.Warn("metrics server shutdown", "error", err)
			}
		}()
		a.logger.Info("metrics listening", "addr", a.cfg.Metrics.Addr)
	}

	var tweets *usecase.TweetPull
	if a.cfg.X.Enabled {
		tweets = a.tweets
	}

	driver := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, a.cfg.Scheduler.Location())
	sched := usecase.NewScheduler(driver, a.pipeline, tweets, a.logger.With("component", "scheduler"))

	sched.RunOnce(ctx, time.Now())

	if err := sched.Start(ctx); err != nil {
		return err
	}
	a.logger.Info("daemon started", "cron", a.cfg.Scheduler.CronExpression, "timezone", a.cfg.Scheduler.Timezone)

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return sched.Stop(stopCtx)
}
