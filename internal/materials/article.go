package materials

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/MrSnakeDoc/sitemapd/internal/domain"
	"github.com/MrSnakeDoc/sitemapd/internal/extract"
	"github.com/MrSnakeDoc/sitemapd/internal/sitemap"
)

// ArticleAdapter exposes articles as Basic, ImageProvider and
// AlternateLinkProvider. Images are discovered in the article body.
type ArticleAdapter struct {
	site     Site
	defaults freshness
}

func NewArticleAdapter(site Site) *ArticleAdapter {
	return &ArticleAdapter{
		site:     site,
		defaults: freshness{freq: sitemap.Weekly, priority: extract.Priority6},
	}
}

func (a *ArticleAdapter) SitemapLocation(art *domain.Article, lang string) string {
	if art.Slug == "" {
		return ""
	}
	if a.site.isDefault(lang) {
		return a.site.PageURL(art.Slug, lang)
	}
	tr, ok := art.Translations[lang]
	if !ok || tr.Slug == "" {
		return ""
	}
	return a.site.PageURL(tr.Slug, lang)
}

func (a *ArticleAdapter) SitemapLastModified(art *domain.Article) sitemap.LastMod {
	return a.defaults.lastMod(art.Freshness)
}

func (a *ArticleAdapter) SitemapChangeFrequency(art *domain.Article) sitemap.ChangeFrequency {
	return a.defaults.changeFreq(art.Freshness)
}

func (a *ArticleAdapter) SitemapPriority(art *domain.Article) (sitemap.Priority, bool) {
	return a.defaults.priorityOf(art.Freshness)
}

func (a *ArticleAdapter) SitemapAlternateLinks(art *domain.Article) ([]extract.AlternateLink, error) {
	if art.Slug == "" {
		return nil, nil
	}
	localized := make(map[string]string, len(art.Translations))
	for lang, tr := range art.Translations {
		localized[lang] = tr.Slug
	}
	return a.site.alternates(art.Slug, localized), nil
}

// SitemapImages lists every <img src> of the body, in document order.
// alt becomes the caption and title the title. Inline data: images are
// skipped.
func (a *ArticleAdapter) SitemapImages(art *domain.Article) ([]extract.Image, error) {
	if strings.TrimSpace(art.BodyHTML) == "" {
		return nil, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(art.BodyHTML))
	if err != nil {
		return nil, fmt.Errorf("parse body of article %s: %w", art.ID, err)
	}

	base := a.SitemapLocation(art, extract.DefaultLang)
	if base == "" {
		base = a.site.BaseURL + "/"
	}

	var images []extract.Image
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if src == "" || strings.HasPrefix(src, "data:") {
			return
		}
		images = append(images, extract.Image{
			Location: Resolve(base, src),
			Caption:  optional(strings.TrimSpace(s.AttrOr("alt", ""))),
			Title:    optional(strings.TrimSpace(s.AttrOr("title", ""))),
		})
	})
	return images, nil
}
