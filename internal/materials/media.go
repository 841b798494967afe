package materials

import (
	"github.com/MrSnakeDoc/sitemapd/internal/domain"
	"github.com/MrSnakeDoc/sitemapd/internal/extract"
	"github.com/MrSnakeDoc/sitemapd/internal/sitemap"
)

// MediaAdapter exposes media pages and their clips. Clip handles are
// domain.Clip values, so the adapter is registered with
// extract.WithVideos.
type MediaAdapter struct {
	site     Site
	defaults freshness
}

func NewMediaAdapter(site Site) *MediaAdapter {
	return &MediaAdapter{
		site:     site,
		defaults: freshness{freq: sitemap.Monthly, priority: extract.PriorityDefault},
	}
}

func (a *MediaAdapter) SitemapLocation(m *domain.MediaAsset, lang string) string {
	if m.Path == "" {
		return ""
	}
	if a.site.isDefault(lang) {
		return a.site.PageURL(m.Path, lang)
	}
	for _, l := range m.Languages {
		if l == lang {
			return a.site.PageURL(m.Path, lang)
		}
	}
	return ""
}

func (a *MediaAdapter) SitemapLastModified(m *domain.MediaAsset) sitemap.LastMod {
	return a.defaults.lastMod(m.Freshness)
}

func (a *MediaAdapter) SitemapChangeFrequency(m *domain.MediaAsset) sitemap.ChangeFrequency {
	return a.defaults.changeFreq(m.Freshness)
}

func (a *MediaAdapter) SitemapPriority(m *domain.MediaAsset) (sitemap.Priority, bool) {
	return a.defaults.priorityOf(m.Freshness)
}

// SitemapAlternateLinks publishes the same path under every language
// prefix.
func (a *MediaAdapter) SitemapAlternateLinks(m *domain.MediaAsset) ([]extract.AlternateLink, error) {
	if m.Path == "" {
		return nil, nil
	}
	localized := make(map[string]string, len(m.Languages))
	for _, l := range m.Languages {
		localized[l] = m.Path
	}
	return a.site.alternates(m.Path, localized), nil
}

func (a *MediaAdapter) SitemapVideos(m *domain.MediaAsset, lang string) ([]domain.Clip, error) {
	return m.Clips, nil
}

func (a *MediaAdapter) SitemapVideoPlayerLocation(c domain.Clip, lang string) string {
	if c.PlayerURL == "" {
		return ""
	}
	return Resolve(a.site.BaseURL+"/", c.PlayerURL)
}

func (a *MediaAdapter) SitemapVideoThumbnailLocation(c domain.Clip, lang string) (string, bool) {
	if c.ThumbnailURL == "" {
		return "", false
	}
	return Resolve(a.site.BaseURL+"/", c.ThumbnailURL), true
}

func (a *MediaAdapter) SitemapVideoDescription(c domain.Clip, lang string) (string, bool) {
	d := a.text(c, lang).Description
	return d, d != ""
}

func (a *MediaAdapter) SitemapVideoTitle(c domain.Clip, lang string) (string, bool) {
	t := a.text(c, lang).Title
	return t, t != ""
}

func (a *MediaAdapter) text(c domain.Clip, lang string) domain.ClipText {
	if a.site.isDefault(lang) {
		return c.Text(extract.DefaultLang)
	}
	return c.Text(lang)
}
