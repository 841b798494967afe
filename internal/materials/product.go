package materials

import (
	"github.com/MrSnakeDoc/sitemapd/internal/domain"
	"github.com/MrSnakeDoc/sitemapd/internal/extract"
	"github.com/MrSnakeDoc/sitemapd/internal/sitemap"
)

// ProductAdapter exposes products with their gallery images and localized
// pages.
type ProductAdapter struct {
	site     Site
	defaults freshness
}

func NewProductAdapter(site Site) *ProductAdapter {
	return &ProductAdapter{
		site:     site,
		defaults: freshness{freq: sitemap.Daily, priority: extract.Priority8},
	}
}

func (a *ProductAdapter) SitemapLocation(p *domain.Product, lang string) string {
	if a.site.isDefault(lang) {
		if p.Path == "" {
			return ""
		}
		return a.site.PageURL(p.Path, lang)
	}
	path := p.LocalizedPaths[lang]
	if path == "" {
		return ""
	}
	return a.site.PageURL(path, lang)
}

func (a *ProductAdapter) SitemapLastModified(p *domain.Product) sitemap.LastMod {
	return a.defaults.lastMod(p.Freshness)
}

func (a *ProductAdapter) SitemapChangeFrequency(p *domain.Product) sitemap.ChangeFrequency {
	return a.defaults.changeFreq(p.Freshness)
}

func (a *ProductAdapter) SitemapPriority(p *domain.Product) (sitemap.Priority, bool) {
	return a.defaults.priorityOf(p.Freshness)
}

func (a *ProductAdapter) SitemapAlternateLinks(p *domain.Product) ([]extract.AlternateLink, error) {
	return a.site.alternates(p.Path, p.LocalizedPaths), nil
}

func (a *ProductAdapter) SitemapImages(p *domain.Product) ([]extract.Image, error) {
	images := make([]extract.Image, 0, len(p.Images))
	for _, img := range p.Images {
		if img.URL == "" {
			continue
		}
		images = append(images, extract.Image{
			Location:    Resolve(a.site.BaseURL+"/", img.URL),
			Caption:     optional(img.Caption),
			Title:       optional(img.Title),
			License:     optional(img.License),
			GeoLocation: optional(img.GeoLocation),
		})
	}
	return images, nil
}
