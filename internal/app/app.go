package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/sitemapd/internal/config"
	"github.com/MrSnakeDoc/sitemapd/internal/generator"
	"github.com/MrSnakeDoc/sitemapd/internal/httpserver"
	"github.com/MrSnakeDoc/sitemapd/internal/httpserver/deps"
	"github.com/MrSnakeDoc/sitemapd/internal/index"
	"github.com/MrSnakeDoc/sitemapd/internal/logger"
	"github.com/MrSnakeDoc/sitemapd/internal/materials"
	"github.com/MrSnakeDoc/sitemapd/internal/redis"
	"github.com/MrSnakeDoc/sitemapd/internal/scheduler"
	"github.com/MrSnakeDoc/sitemapd/internal/sitemap"
	"github.com/MrSnakeDoc/sitemapd/internal/store/history"
	redisstore "github.com/MrSnakeDoc/sitemapd/internal/store/redis"
	"github.com/MrSnakeDoc/sitemapd/internal/utils"
	"github.com/MrSnakeDoc/sitemapd/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	history     history.Store
	reloader    *scheduler.CatalogReloader
	regenerator *scheduler.FeedRegenerator
	gc          *scheduler.GarbageCollector
}

func New() (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(context.Background(), redis.Options{
		Addr:         cfg.RedisAddr,
		Username:     cfg.RedisUser,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  cfg.RedisDT,
		ReadTimeout:  cfg.RedisRT,
		WriteTimeout: cfg.RedisWT,
		PoolSize:     cfg.RedisPoolSize,
		Backoff: redis.Backoff{
			Initial:     cfg.RedisRetryInterval,
			Max:         cfg.RedisMaxWait,
			Total:       cfg.RedisConnectTimeout,
			PingTimeout: cfg.RedisPingTimeout,
			WarnAfter:   cfg.RedisWarnThreshold,
		},
	}, loggerClient)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	loggerClient.Info("Redis initialized successfully")

	memIndex := index.NewMemoryIndex()
	store := redisstore.NewStore(redisClient)

	// Try to sync materials from Redis to memory on startup
	syncer := scheduler.NewRedisSyncer(store, memIndex, loggerClient)
	if err := syncer.Sync(context.Background()); err != nil {
		loggerClient.Warn("failed to sync from redis on startup, will load from catalog",
			logger.Error(err))
	}

	extractors, err := materials.NewExtractors(materials.NewSite(cfg.BaseURL, cfg.DefaultLang), sitemap.SystemClock)
	if err != nil {
		return nil, fmt.Errorf("bind extractors: %w", err)
	}

	robots, err := generator.LoadRobotsFilter(cfg.RobotsFile, cfg.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("load robots.txt: %w", err)
	}
	if robots != nil {
		loggerClient.Info("robots.txt filter enabled",
			logger.String("file", cfg.RobotsFile),
			logger.String("user_agent", cfg.UserAgent))
	}

	pipeline := generator.NewPipeline(extractors, cfg.BaseURL, generator.Options{
		Workers:    cfg.Workers,
		SkipFailed: cfg.SkipFailed,
		Robots:     robots,
		Logger:     loggerClient.With(logger.String("component", "generator")),
	})

	hist, err := history.Open(context.Background(), cfg.HistoryDSN)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	if hist == nil {
		loggerClient.Info("history DSN not configured, generation history disabled")
	}

	// Manual triggers. A finished catalog reload also feeds regenerateTrigger.
	reloadTrigger := make(chan struct{}, 1)
	regenerateTrigger := make(chan struct{}, 1)

	reloader := scheduler.NewCatalogReloader(
		cfg.CatalogFile,
		store,
		memIndex,
		loggerClient,
		cfg.ReloadInterval,
		reloadTrigger,
		regenerateTrigger,
	)

	regenerator := scheduler.NewFeedRegenerator(
		pipeline,
		memIndex,
		store,
		hist,
		loggerClient,
		cfg.RegenerateInterval,
		cfg.FeedTTL,
		regenerateTrigger,
	)

	gc := scheduler.NewGarbageCollector(
		store,
		memIndex,
		loggerClient,
		cfg.GCInterval,
		cfg.GCThreshold,
	)

	d := deps.Deps{
		Logger:            loggerClient,
		StartTime:         time.Now(),
		Version:           version.Version,
		Commit:            version.Commit,
		BuildDate:         version.BuildDate,
		GoVersion:         version.GoVersion,
		TimeNow:           time.Now,
		AllowedHosts:      cfg.AllowedHosts,
		AllowedCIDRS:      cfg.AllowedCIDRS,
		TrustProxy:        cfg.TrustProxy,
		RateLimitBurst:    cfg.RateLimitBurst,
		RateLimitRefill:   cfg.RateLimitRefill,
		CatalogFile:       cfg.CatalogFile,
		BaseURL:           cfg.BaseURL,
		Store:             store,
		MemoryIndex:       memIndex,
		Feeds:             regenerator,
		FeedCache:         store,
		History:           hist,
		ReloadTrigger:     reloadTrigger,
		RegenerateTrigger: regenerateTrigger,
	}

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      httpserver.New(cfg, loggerClient, d),
		redisClient: redisClient,
		history:     hist,
		reloader:    reloader,
		regenerator: regenerator,
		gc:          gc,
	}, nil
}

func (a *App) Run() error {
	defer func() { _ = a.logger.Sync() }()

	a.logger.Infof("🚀 Starting sitemapd v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String("sitemapd"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load the catalog first so the initial feed has something to list
	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start catalog reloader: %w", err)
	}
	a.logger.Info("catalog reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval))

	if err := a.regenerator.Start(ctx); err != nil {
		return fmt.Errorf("failed to start feed regenerator: %w", err)
	}
	a.logger.Info("feed regenerator started",
		logger.Duration("interval", a.cfg.RegenerateInterval))

	if err := a.gc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start garbage collector: %w", err)
	}
	a.logger.Info("garbage collector started",
		logger.Duration("interval", a.cfg.GCInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.reloader.Stop()
	a.regenerator.Stop()
	a.gc.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.history != nil {
		utils.MustClose(a.history, "history", a.logger)
	}
	if a.redisClient != nil {
		utils.MustClose(a.redisClient, "redis", a.logger)
	}

	a.logger.Info("✅ sitemapd stopped cleanly")
	return nil
}
