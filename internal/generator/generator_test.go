package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/sitemapd/internal/domain"
	"github.com/MrSnakeDoc/sitemapd/internal/logger"
	"github.com/MrSnakeDoc/sitemapd/internal/materials"
	"github.com/MrSnakeDoc/sitemapd/internal/sitemap"
)

var fixedNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func newExtractors(t *testing.T) *materials.Extractors {
	t.Helper()
	ex, err := materials.NewExtractors(
		materials.NewSite("https://example.com", "en"),
		sitemap.ClockFunc(func() time.Time { return fixedNow }),
	)
	if err != nil {
		t.Fatalf("NewExtractors() error = %v", err)
	}
	return ex
}

func articles(n int) []*domain.Article {
	out := make([]*domain.Article, n)
	for i := range out {
		out[i] = &domain.Article{ID: fmt.Sprintf("a%03d", i), Slug: fmt.Sprintf("p/%03d", i)}
	}
	return out
}

func TestGeneratePreservesOrder(t *testing.T) {
	ex := newExtractors(t)
	items := articles(200)

	res, err := Generate(context.Background(), ex.Articles, items, Options{Workers: 8, Logger: logger.New("error", false)})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if res.URLCount != len(items) || len(res.Fragments) != len(items) {
		t.Fatalf("URLCount = %d, fragments = %d, want %d", res.URLCount, len(res.Fragments), len(items))
	}
	for i, frag := range res.Fragments {
		want := fmt.Sprintf("<loc>https://example.com/p/%03d</loc>", i)
		if !strings.Contains(frag, want) {
			t.Fatalf("fragment %d = %s, want %s", i, frag, want)
		}
	}
}

func TestGenerateFailurePolicy(t *testing.T) {
	items := articles(5)
	items[2].ModifiedText = "not a date"

	tests := []struct {
		name        string
		skipFailed  bool
		wantErr     bool
		wantURLs    int
		wantSkipped int
	}{
		{name: "abort", skipFailed: false, wantErr: true},
		{name: "skip", skipFailed: true, wantURLs: 4, wantSkipped: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := newExtractors(t)
			res, err := Generate(context.Background(), ex.Articles, items, Options{Workers: 3, SkipFailed: tt.skipFailed})
			if tt.wantErr {
				if err == nil {
					t.Fatal("Generate() error = nil, want error")
				}
				var me *MaterialError
				if !errors.As(err, &me) || me.ID != "a002" {
					t.Errorf("error = %v, want MaterialError for a002", err)
				}
				var le *sitemap.LastModError
				if !errors.As(err, &le) {
					t.Errorf("error = %v, want wrapped LastModError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if res.URLCount != tt.wantURLs || res.Skipped != tt.wantSkipped {
				t.Errorf("URLCount = %d, Skipped = %d, want %d, %d", res.URLCount, res.Skipped, tt.wantURLs, tt.wantSkipped)
			}
		})
	}
}

func TestGenerateRobots(t *testing.T) {
	ex := newExtractors(t)
	robots, err := NewRobotsFilter([]byte("User-agent: *\nDisallow: /private/\n\nSitemap: https://example.com/sitemap.xml\n"), "sitemapd")
	if err != nil {
		t.Fatalf("NewRobotsFilter() error = %v", err)
	}

	items := []*domain.Article{
		{ID: "a", Slug: "private/draft"},
		{ID: "b", Slug: "public/post"},
	}
	res, err := Generate(context.Background(), ex.Articles, items, Options{Robots: robots})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if res.Disallowed != 1 || res.URLCount != 1 {
		t.Errorf("Disallowed = %d, URLCount = %d, want 1, 1", res.Disallowed, res.URLCount)
	}
	if !strings.Contains(res.Fragments[0], "public/post") {
		t.Errorf("kept fragment = %s", res.Fragments[0])
	}
	if got := robots.Sitemaps(); len(got) != 1 || got[0] != "https://example.com/sitemap.xml" {
		t.Errorf("Sitemaps() = %v", got)
	}
}

func TestRobotsFilterAllowed(t *testing.T) {
	robots, err := NewRobotsFilter([]byte("User-agent: sitemapd\nDisallow: /search\n"), "sitemapd")
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		loc  string
		want bool
	}{
		{"https://example.com/", true},
		{"https://example.com", true},
		{"https://example.com/search?q=x", false},
		{"https://example.com/blog/search", true},
		{"", true},
	}
	for _, tt := range tests {
		if got := robots.Allowed(tt.loc); got != tt.want {
			t.Errorf("Allowed(%q) = %v, want %v", tt.loc, got, tt.want)
		}
	}

	var none *RobotsFilter
	if !none.Allowed("https://example.com/search") {
		t.Error("nil filter should allow everything")
	}
}

func TestGenerateCancelled(t *testing.T) {
	ex := newExtractors(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Generate(ctx, ex.Articles, articles(10), Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Generate() error = %v, want context.Canceled", err)
	}
}

func TestGenerateEmpty(t *testing.T) {
	ex := newExtractors(t)
	res, err := Generate(context.Background(), ex.Articles, nil, Options{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if res.URLCount != 0 || len(res.Fragments) != 0 {
		t.Errorf("Result = %+v, want empty", res)
	}
}

func TestPipelineRun(t *testing.T) {
	ex := newExtractors(t)
	m := domain.Materials{
		Articles: []*domain.Article{
			{ID: "a2", Slug: "blog/second"},
			{ID: "a1", Slug: "blog/first"},
			{ID: "a3", Slug: "blog/gone", Lifecycle: domain.Lifecycle{Disabled: true}},
		},
		Products: []*domain.Product{{ID: "p1", Path: "shop/lamp"}},
		Media:    []*domain.MediaAsset{{ID: "m1", Path: "watch/tour"}},
	}

	p := NewPipeline(ex, "https://example.com", Options{}, WithNow(func() time.Time { return fixedNow }))
	feed, stats, err := p.Run(context.Background(), m)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stats.URLCount != 4 || feed.URLCount != 4 {
		t.Errorf("URLCount stats = %d, feed = %d, want 4", stats.URLCount, feed.URLCount)
	}
	if stats.PerKind[domain.KindArticle] != 2 {
		t.Errorf("PerKind[article] = %d, want 2", stats.PerKind[domain.KindArticle])
	}
	if got := strings.Join(stats.Kinds(), ","); got != "article,product,media" {
		t.Errorf("Kinds() = %s", got)
	}
	if len(feed.Parts) != 1 || feed.Index != nil {
		t.Fatalf("expected a single part without index, got %d parts", len(feed.Parts))
	}
	if !feed.GeneratedAt.Equal(fixedNow) {
		t.Errorf("GeneratedAt = %v", feed.GeneratedAt)
	}

	doc := string(feed.Root())
	order := []string{"blog/first", "blog/second", "shop/lamp", "watch/tour"}
	last := -1
	for _, s := range order {
		i := strings.Index(doc, s)
		if i < 0 {
			t.Fatalf("document missing %s", s)
		}
		if i < last {
			t.Errorf("%s out of order", s)
		}
		last = i
	}
	if strings.Contains(doc, "blog/gone") {
		t.Error("disabled article listed")
	}
}

func TestPipelineSplitsParts(t *testing.T) {
	ex := newExtractors(t)
	m := domain.Materials{Articles: articles(5)}

	p := NewPipeline(ex, "https://example.com", Options{},
		WithNow(func() time.Time { return fixedNow }),
		WithWriterOptions(sitemap.WithMaxURLs(2)),
	)
	feed, _, err := p.Run(context.Background(), m)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(feed.Parts) != 3 {
		t.Fatalf("parts = %d, want 3", len(feed.Parts))
	}
	root := string(feed.Root())
	if !strings.Contains(root, "<sitemapindex") || !strings.Contains(root, "https://example.com/sitemaps/3.xml") {
		t.Errorf("root is not an index of 3 parts:\n%s", root)
	}
}

func TestPipelineFailureNamesKind(t *testing.T) {
	ex := newExtractors(t)
	m := domain.Materials{
		Products: []*domain.Product{{ID: "p1", Path: "shop/x", Freshness: domain.Freshness{ModifiedText: "???"}}},
	}
	_, _, err := NewPipeline(ex, "https://example.com", Options{}).Run(context.Background(), m)
	if err == nil || !strings.HasPrefix(err.Error(), "product:") {
		t.Errorf("Run() error = %v, want product-prefixed error", err)
	}
}
