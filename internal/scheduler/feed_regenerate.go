package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MrSnakeDoc/sitemapd/internal/generator"
	"github.com/MrSnakeDoc/sitemapd/internal/index"
	"github.com/MrSnakeDoc/sitemapd/internal/logger"
	"github.com/MrSnakeDoc/sitemapd/internal/sitemap"
	"github.com/MrSnakeDoc/sitemapd/internal/store/history"
	redisstore "github.com/MrSnakeDoc/sitemapd/internal/store/redis"
	"github.com/google/uuid"
)

// FeedRegenerator rebuilds the sitemap feed from the index on a timer, on
// demand and after every catalog reload.
type FeedRegenerator struct {
	pipeline *generator.Pipeline
	index    *index.MemoryIndex
	store    *redisstore.Store
	history  history.Store
	logger   logger.Logger
	interval time.Duration
	feedTTL  time.Duration
	stopCh   chan struct{}
	trigger  chan struct{}

	runMu  sync.Mutex // one generation at a time
	mu     sync.RWMutex
	latest *sitemap.Feed
}

// NewFeedRegenerator creates a new regenerator. store and hist may be nil.
func NewFeedRegenerator(
	pipeline *generator.Pipeline,
	idx *index.MemoryIndex,
	store *redisstore.Store,
	hist history.Store,
	log logger.Logger,
	interval time.Duration,
	feedTTL time.Duration,
	trigger chan struct{},
) *FeedRegenerator {
	if feedTTL == 0 {
		feedTTL = redisstore.DefaultFeedTTL
	}
	return &FeedRegenerator{
		pipeline: pipeline,
		index:    idx,
		store:    store,
		history:  hist,
		logger:   log,
		interval: interval,
		feedTTL:  feedTTL,
		stopCh:   make(chan struct{}),
		trigger:  trigger,
	}
}

// Start warms the feed from Redis, generates one immediately and keeps
// regenerating in the background.
func (fr *FeedRegenerator) Start(ctx context.Context) error {
	fr.warm(ctx)

	if _, err := fr.Regenerate(ctx); err != nil {
		fr.logger.Warn("initial feed generation failed",
			logger.Error(err))
	}
	// The initial run already covers a reload that happened before Start.
	select {
	case <-fr.trigger:
	default:
	}

	ticker := time.NewTicker(fr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := fr.Regenerate(ctx); err != nil {
					fr.logger.Error("feed generation failed",
						logger.Error(err))
				}
			case <-fr.trigger:
				fr.logger.Info("feed regeneration triggered")
				if _, err := fr.Regenerate(ctx); err != nil {
					fr.logger.Error("feed generation failed",
						logger.Error(err))
				}
			case <-fr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the regenerator
func (fr *FeedRegenerator) Stop() {
	close(fr.stopCh)
}

// Latest returns the most recent feed, or nil before the first success.
func (fr *FeedRegenerator) Latest() *sitemap.Feed {
	fr.mu.RLock()
	defer fr.mu.RUnlock()
	return fr.latest
}

// Regenerate builds a feed from the active materials. A failed run keeps
// the previous feed.
func (fr *FeedRegenerator) Regenerate(ctx context.Context) (*sitemap.Feed, error) {
	fr.runMu.Lock()
	defer fr.runMu.Unlock()

	run := history.Run{ID: uuid.New(), StartedAt: time.Now().UTC()}
	feed, stats, err := fr.pipeline.Run(ctx, fr.index.Active())
	run.FinishedAt = time.Now().UTC()
	run.Skipped = stats.Skipped
	run.Disallowed = stats.Disallowed

	if err != nil {
		run.Error = err.Error()
		fr.record(ctx, run)
		return nil, err
	}

	run.FeedID = feed.ID
	run.URLCount = feed.URLCount
	run.Parts = len(feed.Parts)
	run.Kinds = stats.Kinds()

	fr.mu.Lock()
	fr.latest = feed
	fr.mu.Unlock()

	// Cache in Redis (best effort)
	if fr.store != nil {
		if err := fr.store.SaveFeed(ctx, feed, fr.feedTTL); err != nil {
			fr.logger.Warn("failed to cache feed in redis",
				logger.Error(err))
		}
	}

	fr.record(ctx, run)
	return feed, nil
}

func (fr *FeedRegenerator) record(ctx context.Context, run history.Run) {
	if fr.history == nil {
		return
	}
	if err := fr.history.Record(ctx, run); err != nil {
		fr.logger.Warn("failed to record feed run",
			logger.String("run_id", run.ID.String()),
			logger.Error(err))
	}
}

// warm serves the feed cached by a previous process until the first run
// completes.
func (fr *FeedRegenerator) warm(ctx context.Context) {
	if fr.store == nil {
		return
	}
	feed, err := fr.store.GetFeed(ctx)
	if err != nil {
		if !errors.Is(err, redisstore.ErrFeedNotFound) {
			fr.logger.Warn("failed to load cached feed", logger.Error(err))
		}
		return
	}

	fr.mu.Lock()
	if fr.latest == nil {
		fr.latest = feed
	}
	fr.mu.Unlock()

	fr.logger.Info("loaded cached feed from redis",
		logger.String("feed_id", feed.ID.String()),
		logger.Time("generated_at", feed.GeneratedAt))
}
