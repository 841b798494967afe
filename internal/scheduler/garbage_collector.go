package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/sitemapd/internal/domain"
	"github.com/MrSnakeDoc/sitemapd/internal/index"
	"github.com/MrSnakeDoc/sitemapd/internal/logger"
	redisstore "github.com/MrSnakeDoc/sitemapd/internal/store/redis"
)

const (
	// DefaultGCThreshold is the duration after which disabled materials are deleted
	DefaultGCThreshold = 30 * 24 * time.Hour // 30 days
)

// GarbageCollector handles cleanup of old disabled materials
type GarbageCollector struct {
	store     *redisstore.Store
	index     *index.MemoryIndex
	logger    logger.Logger
	interval  time.Duration
	threshold time.Duration
	stopCh    chan struct{}
}

// NewGarbageCollector creates a new garbage collector
func NewGarbageCollector(
	store *redisstore.Store,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	threshold time.Duration,
) *GarbageCollector {
	if threshold == 0 {
		threshold = DefaultGCThreshold
	}

	return &GarbageCollector{
		store:     store,
		index:     idx,
		logger:    log,
		interval:  interval,
		threshold: threshold,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic garbage collection process
func (gc *GarbageCollector) Start(ctx context.Context) error {
	// Run immediately on start
	if err := gc.Collect(ctx); err != nil {
		gc.logger.Warn("initial garbage collection failed",
			logger.Error(err))
	}

	// Start periodic collection
	ticker := time.NewTicker(gc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := gc.Collect(ctx); err != nil {
					gc.logger.Error("garbage collection failed",
						logger.Error(err))
				}
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the garbage collector
func (gc *GarbageCollector) Stop() {
	close(gc.stopCh)
}

// Collect removes materials that have been disabled for longer than the threshold
func (gc *GarbageCollector) Collect(ctx context.Context) error {
	gc.logger.Info("running garbage collection for disabled materials")

	now := time.Now()
	all := gc.index.All()

	deleted := map[domain.Kind]int{
		domain.KindArticle: collectKind(ctx, gc, all.Articles, now),
		domain.KindProduct: collectKind(ctx, gc, all.Products, now),
		domain.KindMedia:   collectKind(ctx, gc, all.Media, now),
	}

	total := 0
	for _, n := range deleted {
		total += n
	}

	if total > 0 {
		gc.logger.Info("garbage collection completed",
			logger.Int("articles_deleted", deleted[domain.KindArticle]),
			logger.Int("products_deleted", deleted[domain.KindProduct]),
			logger.Int("media_deleted", deleted[domain.KindMedia]),
			logger.Int("total_deleted", total))
	} else {
		gc.logger.Debug("no materials to garbage collect")
	}

	return nil
}

func collectKind[T domain.Material](ctx context.Context, gc *GarbageCollector, items []T, now time.Time) int {
	deletedCount := 0

	for _, item := range items {
		// Only collect disabled materials
		if !item.IsDisabled() {
			continue
		}

		// Check if material has been disabled long enough
		updated := item.LastUpdated()
		if updated.IsZero() {
			continue
		}

		disabledDuration := now.Sub(updated)
		if disabledDuration < gc.threshold {
			continue
		}

		kind, id := item.MaterialKind(), item.MaterialID()

		// Delete from memory index
		gc.index.Delete(kind, id)

		// Delete from Redis store (best effort)
		if gc.store != nil {
			if err := gc.store.DeleteMaterial(ctx, kind, id); err != nil {
				gc.logger.Warn("failed to delete material from redis",
					logger.String("kind", string(kind)),
					logger.String("id", id),
					logger.Error(err))
			}
		}

		gc.logger.Info("garbage collected disabled material",
			logger.String("kind", string(kind)),
			logger.String("id", id),
			logger.String("disabled_for", disabledDuration.String()))

		deletedCount++
	}

	return deletedCount
}
