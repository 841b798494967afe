package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/sitemapd/internal/domain"
	"github.com/MrSnakeDoc/sitemapd/internal/index"
	"github.com/MrSnakeDoc/sitemapd/internal/logger"
	"github.com/MrSnakeDoc/sitemapd/internal/sources/catalog"
	redisstore "github.com/MrSnakeDoc/sitemapd/internal/store/redis"
)

// CatalogReloader handles periodic reloading of the catalog file
type CatalogReloader struct {
	loader        *catalog.Loader
	mapper        *catalog.Mapper
	store         *redisstore.Store
	index         *index.MemoryIndex
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
	reloaded      chan<- struct{}
}

// NewCatalogReloader creates a new catalog reloader. After each successful
// reload a non-blocking send on reloaded asks for a new feed.
func NewCatalogReloader(
	catalogFile string,
	store *redisstore.Store,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
	reloaded chan<- struct{},
) *CatalogReloader {
	return &CatalogReloader{
		loader:        catalog.NewLoader(catalogFile),
		mapper:        catalog.NewMapper(),
		store:         store,
		index:         idx,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
		reloaded:      reloaded,
	}
}

// Start begins the periodic reload process
func (cr *CatalogReloader) Start(ctx context.Context) error {
	// Load immediately on start
	if err := cr.Reload(ctx); err != nil {
		return fmt.Errorf("initial catalog reload failed: %w", err)
	}

	// Start periodic reload
	ticker := time.NewTicker(cr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload catalog",
						logger.Error(err))
				}
			case <-cr.manualTrigger:
				cr.logger.Info("manual catalog reload triggered")
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload catalog",
						logger.Error(err))
				}
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (cr *CatalogReloader) Stop() {
	close(cr.stopCh)
}

// Reload loads the catalog and updates index + store. Catalog materials
// that disappeared from the file are kept as disabled so the garbage
// collector can age them out.
func (cr *CatalogReloader) Reload(ctx context.Context) error {
	cr.logger.Info("reloading catalog")

	c, err := cr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	fresh, err := cr.mapper.Map(c)
	if err != nil {
		return fmt.Errorf("failed to map catalog: %w", err)
	}

	cr.logger.Info("loaded catalog",
		logger.Int("articles", len(fresh.Articles)),
		logger.Int("products", len(fresh.Products)),
		logger.Int("media", len(fresh.Media)))

	now := time.Now()
	existing := cr.index.All()
	var disabled, n int
	fresh.Articles, n = reconcile(existing.Articles, fresh.Articles, now)
	disabled += n
	fresh.Products, n = reconcile(existing.Products, fresh.Products, now)
	disabled += n
	fresh.Media, n = reconcile(existing.Media, fresh.Media, now)
	disabled += n

	if disabled > 0 {
		cr.logger.Info("marking removed materials as disabled",
			logger.Int("count", disabled))
	}

	cr.index.Replace(fresh)

	// Update Redis store (best effort)
	if cr.store != nil {
		if err := cr.store.SaveMaterials(ctx, fresh); err != nil {
			cr.logger.Warn("failed to save materials to redis",
				logger.Error(err))
			// Don't fail - memory index is the primary source
		} else {
			cr.logger.Info("materials saved to redis")
		}
	}

	if cr.reloaded != nil {
		select {
		case cr.reloaded <- struct{}{}:
		default:
			// a regeneration is already pending
		}
	}

	return nil
}

type lifecycled interface {
	domain.Material
	HasSource(src string) bool
	Disable(now time.Time)
	FirstSeen() time.Time
	KeepFirstSeen(t time.Time)
}

// reconcile merges fresh catalog materials with what the index already
// holds. Known materials keep their first-seen time; catalog materials
// missing from fresh come back as disabled copies; materials from other
// sources pass through unchanged.
func reconcile[E any, T interface {
	*E
	lifecycled
}](existing, fresh []T, now time.Time) ([]T, int) {
	freshByID := make(map[string]T, len(fresh))
	for _, f := range fresh {
		freshByID[f.MaterialID()] = f
	}

	out := fresh
	disabled := 0
	for _, old := range existing {
		if f, ok := freshByID[old.MaterialID()]; ok {
			f.KeepFirstSeen(old.FirstSeen())
			continue
		}
		if !old.HasSource(domain.SourceCatalog) {
			out = append(out, old)
			continue
		}
		cp := *old
		gone := T(&cp)
		if !gone.IsDisabled() {
			disabled++
		}
		gone.Disable(now)
		out = append(out, gone)
	}
	return out, disabled
}
