package materials

import (
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/sitemapd/internal/domain"
	"github.com/MrSnakeDoc/sitemapd/internal/extract"
	"github.com/MrSnakeDoc/sitemapd/internal/sitemap"
)

var testSite = NewSite("https://example.com/", "en")

func testClock() sitemap.Clock {
	return sitemap.ClockFunc(func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) })
}

func TestSitePageURL(t *testing.T) {
	tests := []struct {
		path, lang, want string
	}{
		{"blog/a", "", "https://example.com/blog/a"},
		{"/blog/a", "en", "https://example.com/blog/a"},
		{"blog/a", "fr", "https://example.com/fr/blog/a"},
	}
	for _, tt := range tests {
		if got := testSite.PageURL(tt.path, tt.lang); got != tt.want {
			t.Errorf("PageURL(%q, %q) = %q, want %q", tt.path, tt.lang, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		base, ref, want string
	}{
		{"https://example.com/blog/a", "img/x.png", "https://example.com/blog/img/x.png"},
		{"https://example.com/blog/a", "/img/x.png", "https://example.com/img/x.png"},
		{"https://example.com/blog/a", "https://cdn.example.com/x.png", "https://cdn.example.com/x.png"},
		{"https://example.com/", "//cdn.example.com/x.png", "https://cdn.example.com/x.png"},
	}
	for _, tt := range tests {
		if got := Resolve(tt.base, tt.ref); got != tt.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tt.base, tt.ref, got, tt.want)
		}
	}
}

func TestArticleImagesFromBody(t *testing.T) {
	a := NewArticleAdapter(testSite)
	art := &domain.Article{
		ID:   "a1",
		Slug: "blog/launch",
		BodyHTML: `<p>Intro</p>
<img src="/img/hero.jpg" alt="Launch &amp; party" title="Hero">
<figure><img src="thumb.png"></figure>
<img src="data:image/png;base64,AAAA">
<img alt="no src">`,
	}

	images, err := a.SitemapImages(art)
	if err != nil {
		t.Fatalf("SitemapImages() error = %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("SitemapImages() returned %d images, want 2", len(images))
	}

	if images[0].Location != "https://example.com/img/hero.jpg" {
		t.Errorf("images[0].Location = %s", images[0].Location)
	}
	if images[0].Caption == nil || *images[0].Caption != "Launch & party" {
		t.Errorf("images[0].Caption = %v", images[0].Caption)
	}
	if images[0].Title == nil || *images[0].Title != "Hero" {
		t.Errorf("images[0].Title = %v", images[0].Title)
	}
	if images[1].Location != "https://example.com/blog/thumb.png" {
		t.Errorf("images[1].Location = %s", images[1].Location)
	}
	if images[1].Caption != nil || images[1].Title != nil {
		t.Errorf("images[1] should have no caption/title: %+v", images[1])
	}
}

func TestArticleVariants(t *testing.T) {
	ex, err := NewExtractors(testSite, testClock())
	if err != nil {
		t.Fatal(err)
	}

	art := &domain.Article{
		ID:   "a1",
		Slug: "blog/launch",
		Translations: map[string]domain.Translation{
			"fr": {Slug: "blog/lancement"},
			"de": {Slug: "blog/start"},
		},
		Freshness: domain.Freshness{ModifiedText: "2023-05-01 12:00:00"},
	}

	frags, err := ex.Articles.Serialize(art)
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	if len(frags) != 3 {
		t.Fatalf("Serialize() returned %d fragments, want 3", len(frags))
	}

	wantLocs := []string{
		"<loc>https://example.com/blog/launch</loc>",
		"<loc>https://example.com/de/blog/start</loc>",
		"<loc>https://example.com/fr/blog/lancement</loc>",
	}
	for i, frag := range frags {
		if !strings.Contains(frag, wantLocs[i]) {
			t.Errorf("fragment %d missing %s:\n%s", i, wantLocs[i], frag)
		}
		if !strings.Contains(frag, "<lastmod>2023-05-01T12:00:00+00:00</lastmod>") {
			t.Errorf("fragment %d missing lastmod", i)
		}
		if !strings.Contains(frag, "<changefreq>weekly</changefreq>") {
			t.Errorf("fragment %d missing default changefreq", i)
		}
		if strings.Count(frag, "<xhtml:link") != 3 {
			t.Errorf("fragment %d should list 3 alternates", i)
		}
	}
}

func TestArticleWithoutTranslationsHasNoAlternates(t *testing.T) {
	a := NewArticleAdapter(testSite)
	links, err := a.SitemapAlternateLinks(&domain.Article{ID: "x", Slug: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if links != nil {
		t.Errorf("SitemapAlternateLinks() = %v, want nil", links)
	}
}

func TestProductImagesAndPriority(t *testing.T) {
	ex, err := NewExtractors(testSite, testClock())
	if err != nil {
		t.Fatal(err)
	}

	p := &domain.Product{
		ID:   "p1",
		Path: "shop/lamp",
		Images: []domain.ProductImage{
			{URL: "/media/lamp.jpg", Caption: "Desk lamp", License: "https://example.com/license"},
			{URL: ""},
		},
		Freshness: domain.Freshness{Priority: 0.9, ChangeFreq: "hourly"},
	}

	frags, err := ex.Products.Serialize(p)
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	if len(frags) != 1 {
		t.Fatalf("Serialize() returned %d fragments, want 1", len(frags))
	}

	want := strings.Join([]string{
		"<url>",
		"\t<loc>https://example.com/shop/lamp</loc>",
		"\t<changefreq>hourly</changefreq>",
		"\t<priority>0.9</priority>",
		"\t<image:image>",
		"\t\t<image:loc>https://example.com/media/lamp.jpg</image:loc>",
		"\t\t<image:caption>Desk lamp</image:caption>",
		"\t\t<image:license>https://example.com/license</image:license>",
		"\t</image:image>",
		"</url>",
	}, "\n")
	if frags[0] != want {
		t.Errorf("fragment =\n%s\nwant\n%s", frags[0], want)
	}
}

func TestMediaVideosPerLanguage(t *testing.T) {
	ex, err := NewExtractors(testSite, testClock())
	if err != nil {
		t.Fatal(err)
	}
	if !ex.Media.Capabilities().Videos {
		t.Fatal("media extractor has no video capability")
	}

	m := &domain.MediaAsset{
		ID:        "m1",
		Path:      "watch/tour",
		Languages: []string{"fr"},
		Clips: []domain.Clip{
			{
				PlayerURL:    "/player?id=1&autoplay=0",
				ThumbnailURL: "https://cdn.example.com/1.jpg",
				Title:        "Tour",
				Localized:    map[string]domain.ClipText{"fr": {Title: "Visite"}},
			},
			{Title: "no player, dropped"},
		},
	}

	frags, err := ex.Media.Serialize(m)
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	if len(frags) != 2 {
		t.Fatalf("Serialize() returned %d fragments, want 2", len(frags))
	}

	if !strings.Contains(frags[0], "<video:title>Tour</video:title>") {
		t.Errorf("default variant should use unlocalized title:\n%s", frags[0])
	}
	if !strings.Contains(frags[1], "<video:title>Visite</video:title>") {
		t.Errorf("fr variant should use localized title:\n%s", frags[1])
	}
	for i, frag := range frags {
		if strings.Count(frag, "<video:video>") != 1 {
			t.Errorf("fragment %d should hold exactly one video", i)
		}
		if !strings.Contains(frag, "<video:player_loc>https://example.com/player?id=1&amp;autoplay=0</video:player_loc>") {
			t.Errorf("fragment %d missing escaped player location", i)
		}
		if strings.Contains(frag, "<video:description>") {
			t.Errorf("fragment %d has a description but none was set", i)
		}
	}
}

func TestLocationForUnknownLanguage(t *testing.T) {
	tests := []struct {
		name string
		got  string
	}{
		{"article", NewArticleAdapter(testSite).SitemapLocation(&domain.Article{Slug: "a"}, "it")},
		{"product", NewProductAdapter(testSite).SitemapLocation(&domain.Product{Path: "p"}, "it")},
		{"media", NewMediaAdapter(testSite).SitemapLocation(&domain.MediaAsset{Path: "m"}, "it")},
	}
	for _, tt := range tests {
		if tt.got != "" {
			t.Errorf("%s: location for untranslated language = %q, want empty", tt.name, tt.got)
		}
	}
}

func TestAdaptersSatisfyCapabilities(t *testing.T) {
	var (
		_ extract.Basic[*domain.Article]                      = (*ArticleAdapter)(nil)
		_ extract.ImageProvider[*domain.Article]              = (*ArticleAdapter)(nil)
		_ extract.AlternateLinkProvider[*domain.Article]      = (*ArticleAdapter)(nil)
		_ extract.ImageProvider[*domain.Product]              = (*ProductAdapter)(nil)
		_ extract.AlternateLinkProvider[*domain.Product]      = (*ProductAdapter)(nil)
		_ extract.VideoProvider[*domain.MediaAsset, domain.Clip] = (*MediaAdapter)(nil)
	)
}

func TestProductPriorityOptOut(t *testing.T) {
	a := NewProductAdapter(testSite)

	tests := []struct {
		name     string
		priority float64
		want     sitemap.Priority
		wantOK   bool
	}{
		{"editor value", 0.9, sitemap.Priority(0.9), true},
		{"adapter default", 0, extract.Priority8, true},
		{"negative omits", -1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := a.SitemapPriority(&domain.Product{Freshness: domain.Freshness{Priority: tt.priority}})
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("SitemapPriority() = %v, %v, want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
