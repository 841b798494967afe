package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/sitemapd/internal/index"
	"github.com/MrSnakeDoc/sitemapd/internal/logger"
	"github.com/MrSnakeDoc/sitemapd/internal/sitemap"
	"github.com/MrSnakeDoc/sitemapd/internal/store/history"
	redisstore "github.com/MrSnakeDoc/sitemapd/internal/store/redis"
)

// FeedSource returns the feed currently held in memory, or nil.
type FeedSource interface {
	Latest() *sitemap.Feed
}

// FeedCache reads single documents of the feed cached in Redis.
type FeedCache interface {
	GetFeedMeta(ctx context.Context) (redisstore.FeedMeta, error)
	GetFeedIndex(ctx context.Context) ([]byte, error)
	GetFeedPart(ctx context.Context, n int) ([]byte, error)
}

type Deps struct {
	Logger            logger.Logger
	StartTime         time.Time
	Version           string
	Commit            string
	BuildDate         string
	GoVersion         string
	TimeNow           func() time.Time   // for testing, defaults to time.Now
	AllowedHosts      []string           // Host headers allowed to access the server
	AllowedCIDRS      []string           // IPs allowed to access admin endpoints
	TrustProxy        bool               // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RateLimitBurst    int                // sitemap requests allowed in a burst per client
	RateLimitRefill   time.Duration      // time to regain one request
	CatalogFile       string             // Path to the catalog file
	BaseURL           string             // Public site root
	Store             *redisstore.Store  // Redis materials + feed cache (nil when unavailable)
	MemoryIndex       *index.MemoryIndex // In-memory material index
	Feeds             FeedSource         // Latest generated feed
	FeedCache         FeedCache          // Cached feed documents (nil when unavailable)
	History           history.Store      // Generation history (nil when disabled)
	ReloadTrigger     chan struct{}      // Channel to trigger manual catalog reload
	RegenerateTrigger chan struct{}      // Channel to trigger feed regeneration
}

func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
