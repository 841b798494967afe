// Package extract defines the capabilities a material adapter can expose to
// the sitemap generator, and the Extractor that turns one material into
// sitemap entries by querying whichever capabilities are present.
//
// A material is any application entity that has a public page. The adapter
// is a separate value that knows how to read sitemap facts from it, so the
// entity types stay free of sitemap concerns.
package extract

import "github.com/MrSnakeDoc/sitemapd/internal/sitemap"

// DefaultLang requests the unlocalized variant from a provider.
const DefaultLang = ""

// Canonical priority levels. Basic implementations should return one of
// these rather than arbitrary decimals.
const (
	Priority1       = sitemap.Priority1
	Priority2       = sitemap.Priority2
	Priority3       = sitemap.Priority3
	Priority4       = sitemap.Priority4
	Priority5       = sitemap.Priority5
	Priority6       = sitemap.Priority6
	Priority7       = sitemap.Priority7
	Priority8       = sitemap.Priority8
	Priority9       = sitemap.Priority9
	Priority10      = sitemap.Priority10
	PriorityDefault = sitemap.PriorityDefault
)

// Image describes one image of a material. Location is required, the other
// fields are nil when unknown.
type Image = sitemap.Image

// AlternateLink maps a language tag to the absolute URL of that language's
// version of the page.
type AlternateLink = sitemap.AlternateLink

// Basic is the one capability every adapter must have.
//
// SitemapLocation returns the canonical absolute URL of the material for
// lang and is called once per language variant (DefaultLang for the
// unlocalized page). An empty string drops that entry from the feed.
// SitemapLastModified may return the zero LastMod to omit <lastmod>,
// SitemapChangeFrequency may return "" to omit <changefreq> and
// SitemapPriority reports false to omit <priority>.
type Basic[M any] interface {
	SitemapLocation(material M, lang string) string
	SitemapLastModified(material M) sitemap.LastMod
	SitemapChangeFrequency(material M) sitemap.ChangeFrequency
	SitemapPriority(material M) (sitemap.Priority, bool)
}

// ImageProvider lists the images shown on a material's page. Descriptors
// with an empty Location are ignored.
type ImageProvider[M any] interface {
	SitemapImages(material M) ([]Image, error)
}

// VideoProvider lists the videos embedded in a material's page.
//
// V is an opaque handle owned by the provider: the extractor never looks
// inside it, it only hands it back to the accessors. SitemapVideos must not
// mutate the material, and the accessors must return the same values for
// the same (video, lang) pair during one generation pass. The optional
// accessors report false when the value is absent. A handle whose player
// location is empty is skipped.
type VideoProvider[M, V any] interface {
	SitemapVideos(material M, lang string) ([]V, error)
	SitemapVideoPlayerLocation(video V, lang string) string
	SitemapVideoThumbnailLocation(video V, lang string) (string, bool)
	SitemapVideoDescription(video V, lang string) (string, bool)
	SitemapVideoTitle(video V, lang string) (string, bool)
}

// AlternateLinkProvider returns every language version of a material's
// page, including the one being described. Order is kept in the output.
type AlternateLinkProvider[M any] interface {
	SitemapAlternateLinks(material M) ([]AlternateLink, error)
}
