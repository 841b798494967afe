package scheduler

import (
	"context"

	"github.com/MrSnakeDoc/sitemapd/internal/index"
	"github.com/MrSnakeDoc/sitemapd/internal/logger"
	redisstore "github.com/MrSnakeDoc/sitemapd/internal/store/redis"
)

// RedisSyncer syncs materials from Redis to memory index on startup
type RedisSyncer struct {
	store  *redisstore.Store
	index  *index.MemoryIndex
	logger logger.Logger
}

// NewRedisSyncer creates a new Redis syncer
func NewRedisSyncer(
	store *redisstore.Store,
	idx *index.MemoryIndex,
	log logger.Logger,
) *RedisSyncer {
	return &RedisSyncer{
		store:  store,
		index:  idx,
		logger: log,
	}
}

// Sync loads materials from Redis into the memory index. It runs before
// the first catalog reload so that removed catalog entries are detected
// across restarts.
func (rs *RedisSyncer) Sync(ctx context.Context) error {
	rs.logger.Info("syncing materials from redis to memory")

	m, err := rs.store.LoadMaterials(ctx)
	if err != nil {
		return err
	}

	if m.Count() == 0 {
		rs.logger.Info("no materials found in redis")
		return nil
	}

	rs.index.Merge(m)

	rs.logger.Info("synced materials from redis",
		logger.Int("articles", len(m.Articles)),
		logger.Int("products", len(m.Products)),
		logger.Int("media", len(m.Media)))

	return nil
}
