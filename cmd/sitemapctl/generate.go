package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/sitemapd/internal/config"
	"github.com/MrSnakeDoc/sitemapd/internal/domain"
	"github.com/MrSnakeDoc/sitemapd/internal/generator"
	"github.com/MrSnakeDoc/sitemapd/internal/logger"
	"github.com/MrSnakeDoc/sitemapd/internal/materials"
	"github.com/MrSnakeDoc/sitemapd/internal/sitemap"
	"github.com/MrSnakeDoc/sitemapd/internal/sources/catalog"
)

type generateOptions struct {
	catalogFile string
	baseURL     string
	lang        string
	out         string
	robotsFile  string
	userAgent   string
	workers     int
	skipFailed  bool
	maxURLs     int
}

func newGenerateCmd(logLevel *string) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write sitemap.xml (and sitemaps/N.xml when split) to a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.catalogFile == "" {
				return errors.New("--catalog is required")
			}
			base, err := config.NormalizeBaseURL(opts.baseURL)
			if err != nil {
				return fmt.Errorf("invalid --base-url: %w", err)
			}
			opts.baseURL = base

			log := logger.New(*logLevel, true)
			defer func() { _ = log.Sync() }()

			stats, parts, err := runGenerate(cmd.Context(), opts, log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d urls in %d file(s) to %s (%s)\n",
				stats.URLCount, parts, opts.out, strings.Join(stats.Kinds(), ", "))
			if stats.Skipped > 0 || stats.Disallowed > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "skipped %d material(s), %d url(s) disallowed by robots.txt\n",
					stats.Skipped, stats.Disallowed)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.catalogFile, "catalog", "", "Catalog YAML file")
	flags.StringVar(&opts.baseURL, "base-url", "", "Public site root, e.g. https://www.example.com")
	flags.StringVar(&opts.lang, "lang", "en", "Language served without a path prefix")
	flags.StringVar(&opts.out, "out", ".", "Output directory")
	flags.StringVar(&opts.robotsFile, "robots", "", "Optional robots.txt used to drop disallowed pages")
	flags.StringVar(&opts.userAgent, "user-agent", "sitemapd", "robots.txt group to apply")
	flags.IntVar(&opts.workers, "workers", generator.DefaultWorkers, "Generation workers per kind")
	flags.BoolVar(&opts.skipFailed, "skip-failed", false, "Skip materials that fail instead of aborting")
	flags.IntVar(&opts.maxURLs, "max-urls", sitemap.MaxURLsPerFile, "URLs per sitemap file before splitting")
	_ = cmd.MarkFlagRequired("base-url")

	return cmd
}

func loadMaterials(path string) (domain.Materials, error) {
	c, err := catalog.NewLoader(path).Load()
	if err != nil {
		return domain.Materials{}, err
	}
	return catalog.NewMapper().Map(c)
}

func runGenerate(ctx context.Context, opts generateOptions, log logger.Logger) (generator.Stats, int, error) {
	m, err := loadMaterials(opts.catalogFile)
	if err != nil {
		return generator.Stats{}, 0, err
	}

	ex, err := materials.NewExtractors(materials.NewSite(opts.baseURL, opts.lang), sitemap.SystemClock)
	if err != nil {
		return generator.Stats{}, 0, err
	}
	robots, err := generator.LoadRobotsFilter(opts.robotsFile, opts.userAgent)
	if err != nil {
		return generator.Stats{}, 0, fmt.Errorf("load robots.txt: %w", err)
	}

	p := generator.NewPipeline(ex, opts.baseURL, generator.Options{
		Workers:    opts.workers,
		SkipFailed: opts.skipFailed,
		Robots:     robots,
		Logger:     log,
	}, generator.WithWriterOptions(sitemap.WithMaxURLs(opts.maxURLs)))

	feed, stats, err := p.Run(ctx, m)
	if err != nil {
		return stats, 0, err
	}
	if err := writeFeed(opts.out, feed); err != nil {
		return stats, 0, err
	}
	return stats, len(feed.Parts), nil
}

// writeFeed lays the feed out the way the server serves it.
func writeFeed(dir string, feed *sitemap.Feed) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sitemap.xml"), feed.Root(), 0o644); err != nil {
		return fmt.Errorf("write sitemap.xml: %w", err)
	}
	if feed.Index == nil {
		return nil
	}
	for n := 1; n <= len(feed.Parts); n++ {
		doc, _ := feed.Part(n)
		path := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(sitemap.PartPath(n), "/")))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create parts dir: %w", err)
		}
		if err := os.WriteFile(path, doc, 0o644); err != nil {
			return fmt.Errorf("write part %d: %w", n, err)
		}
	}
	return nil
}
