package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/sitemapd/internal/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Options configures the client backing the material store and the feed
// cache, and how long startup waits for it.
type Options struct {
	Addr     string // ex: "localhost:6379"
	Username string
	Password string
	DB       int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int

	Backoff Backoff
}

// Backoff is the startup ping schedule. Waits start at Initial and double
// up to Max until Total has elapsed.
type Backoff struct {
	Initial     time.Duration // ex: 2s
	Max         time.Duration // ex: 10s
	Total       time.Duration // ex: 30s
	PingTimeout time.Duration // per attempt
	WarnAfter   int           // attempts logged as warnings before escalating
}

// Validate reports every invalid field at once.
func (o Options) Validate() error {
	var errs []error
	if o.Addr == "" {
		errs = append(errs, errors.New("Addr must not be empty"))
	}
	b := o.Backoff
	for _, d := range []struct {
		name string
		val  time.Duration
	}{
		{"Backoff.Total", b.Total},
		{"Backoff.Initial", b.Initial},
		{"Backoff.Max", b.Max},
		{"Backoff.PingTimeout", b.PingTimeout},
	} {
		if d.val <= 0 {
			errs = append(errs, fmt.Errorf("%s must be > 0, got %v", d.name, d.val))
		}
	}
	if b.WarnAfter < 0 {
		errs = append(errs, fmt.Errorf("Backoff.WarnAfter must be >= 0, got %d", b.WarnAfter))
	}
	return errors.Join(errs...)
}

// New builds the client and blocks until Redis answers a ping or the
// backoff runs out. The client is closed when it never answers.
func New(ctx context.Context, opts Options, log logger.Logger) (*redis.Client, error) {
	if err := opts.Validate(); err != nil {
		log.Error("invalid redis options", logger.Error(err))
		return nil, fmt.Errorf("redis options: %w", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Username:     opts.Username,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolSize:     opts.PoolSize,
	})

	log = log.With(logger.String("addr", opts.Addr), logger.Int("db", opts.DB))
	ping := func(ctx context.Context) error { return client.Ping(ctx).Err() }
	if err := waitReady(ctx, ping, opts.Backoff, log); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis unavailable at %s: %w", opts.Addr, err)
	}
	return client, nil
}

// waitReady pings until one succeeds, ctx ends or b.Total elapses.
func waitReady(ctx context.Context, ping func(context.Context) error, b Backoff, log logger.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, b.Total)
	defer cancel()

	log.Info("waiting for redis (materials + feed cache)", logger.Duration("timeout", b.Total))
	start := time.Now()
	wait := b.Initial

	for attempt := 1; ; attempt++ {
		pingCtx, pingCancel := context.WithTimeout(ctx, b.PingTimeout)
		err := ping(pingCtx)
		pingCancel()

		if err == nil {
			if attempt > 1 {
				log.Warn("redis ready after retry",
					logger.Int("attempts", attempt),
					logger.Duration("elapsed", time.Since(start)))
			} else {
				log.Info("redis ready")
			}
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Error("redis unavailable, giving up",
				logger.Int("attempts", attempt),
				logger.Duration("timeout", b.Total),
				logger.Error(err))
			return fmt.Errorf("%d attempts in %v: %w", attempt, b.Total, err)
		case <-timer.C:
		}

		fields := []zap.Field{
			logger.Int("attempt", attempt),
			logger.Duration("next_retry_in", wait),
			logger.Error(err),
		}
		if escalate(attempt, timeLeft(ctx), b.WarnAfter) {
			log.Error("redis still down, feed cache unavailable", fields...)
		} else {
			log.Warn("redis ping failed, retrying", fields...)
		}
		wait = nextWait(wait, b.Max)
	}
}

// escalate reports whether a failed attempt is logged as an error: past the
// warning budget, or with less than ten seconds left.
func escalate(attempt int, remaining time.Duration, warnAfter int) bool {
	return attempt > warnAfter || remaining < 10*time.Second
}

// nextWait doubles wait, capped at maxWait.
func nextWait(wait, maxWait time.Duration) time.Duration {
	wait *= 2
	if wait > maxWait {
		return maxWait
	}
	return wait
}

// timeLeft returns the remaining time before context deadline.
func timeLeft(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}
	return time.Until(deadline)
}
