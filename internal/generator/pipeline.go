package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/sitemapd/internal/domain"
	"github.com/MrSnakeDoc/sitemapd/internal/logger"
	"github.com/MrSnakeDoc/sitemapd/internal/materials"
	"github.com/MrSnakeDoc/sitemapd/internal/sitemap"
)

// Stats summarizes one pipeline run.
type Stats struct {
	PerKind    map[domain.Kind]int
	URLCount   int
	Skipped    int
	Disallowed int
	Duration   time.Duration
}

// Kinds lists the kinds that produced at least one URL, in feed order.
func (s Stats) Kinds() []string {
	var out []string
	for _, k := range domain.KindOrder {
		if s.PerKind[k] > 0 {
			out = append(out, string(k))
		}
	}
	return out
}

// Pipeline assembles every kind of material into one feed.
type Pipeline struct {
	extractors *materials.Extractors
	baseURL    string
	opts       Options
	writerOpts []sitemap.WriterOption
	now        func() time.Time
	log        logger.Logger
}

type PipelineOption func(*Pipeline)

func WithWriterOptions(opts ...sitemap.WriterOption) PipelineOption {
	return func(p *Pipeline) { p.writerOpts = append(p.writerOpts, opts...) }
}

func WithNow(now func() time.Time) PipelineOption {
	return func(p *Pipeline) { p.now = now }
}

func NewPipeline(ex *materials.Extractors, baseURL string, opts Options, popts ...PipelineOption) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	p := &Pipeline{
		extractors: ex,
		baseURL:    baseURL,
		opts:       opts,
		now:        func() time.Time { return time.Now().UTC() },
		log:        opts.Logger,
	}
	for _, o := range popts {
		o(p)
	}
	return p
}

// Run generates a feed from the active materials of m, kind by kind in
// domain.KindOrder.
func (p *Pipeline) Run(ctx context.Context, m domain.Materials) (*sitemap.Feed, Stats, error) {
	start := p.now()
	active := m.Active()
	w := sitemap.NewWriter(p.writerOpts...)
	stats := Stats{PerKind: make(map[domain.Kind]int, len(domain.KindOrder))}

	for _, kind := range domain.KindOrder {
		var (
			res Result
			err error
		)
		switch kind {
		case domain.KindArticle:
			res, err = Generate(ctx, p.extractors.Articles, active.Articles, p.opts)
		case domain.KindProduct:
			res, err = Generate(ctx, p.extractors.Products, active.Products, p.opts)
		case domain.KindMedia:
			res, err = Generate(ctx, p.extractors.Media, active.Media, p.opts)
		}
		if err != nil {
			return nil, stats, fmt.Errorf("%s: %w", kind, err)
		}

		for _, frag := range res.Fragments {
			if err := w.Add(frag); err != nil {
				return nil, stats, fmt.Errorf("%s: %w", kind, err)
			}
		}
		stats.PerKind[kind] = res.URLCount
		stats.URLCount += res.URLCount
		stats.Skipped += res.Skipped
		stats.Disallowed += res.Disallowed
	}

	feed := sitemap.NewFeed(w, p.baseURL, start)
	stats.Duration = p.now().Sub(start)

	p.log.Info("feed generated",
		logger.String("feed_id", feed.ID.String()),
		logger.Int("urls", stats.URLCount),
		logger.Int("parts", len(feed.Parts)),
		logger.Int("skipped", stats.Skipped),
		logger.Int("disallowed", stats.Disallowed),
		logger.Duration("duration", stats.Duration),
	)
	return feed, stats, nil
}
