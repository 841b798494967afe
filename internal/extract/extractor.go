package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/sitemapd/internal/sitemap"
)

// ErrNotBasic is returned when an adapter does not implement Basic for the
// requested material type.
var ErrNotBasic = errors.New("extract: adapter does not implement Basic")

// Capability names, used in errors and logs.
const (
	CapBasic         = "basic"
	CapImages        = "images"
	CapVideos        = "videos"
	CapAlternateLink = "alternate_links"
)

// ProviderError wraps a failure returned by one of the adapter's providers.
type ProviderError struct {
	Capability string
	Err        error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider: %v", e.Capability, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Capabilities reports what an Extractor found on its adapter.
type Capabilities struct {
	Images         bool
	Videos         bool
	AlternateLinks bool
}

func (c Capabilities) String() string {
	names := []string{CapBasic}
	if c.Images {
		names = append(names, CapImages)
	}
	if c.Videos {
		names = append(names, CapVideos)
	}
	if c.AlternateLinks {
		names = append(names, CapAlternateLink)
	}
	return strings.Join(names, "+")
}

// videoSource is a VideoProvider with its handle type erased.
type videoSource[M any] interface {
	addVideos(u *sitemap.URL, material M, lang string) error
}

type boundVideos[M, V any] struct {
	p VideoProvider[M, V]
}

func (b boundVideos[M, V]) addVideos(u *sitemap.URL, material M, lang string) error {
	handles, err := b.p.SitemapVideos(material, lang)
	if err != nil {
		return err
	}
	for _, h := range handles {
		var opts []sitemap.VideoOption
		if v, ok := b.p.SitemapVideoThumbnailLocation(h, lang); ok {
			opts = append(opts, sitemap.VideoThumbnail(v))
		}
		if v, ok := b.p.SitemapVideoTitle(h, lang); ok {
			opts = append(opts, sitemap.VideoTitle(v))
		}
		if v, ok := b.p.SitemapVideoDescription(h, lang); ok {
			opts = append(opts, sitemap.VideoDescription(v))
		}
		u.AddVideo(b.p.SitemapVideoPlayerLocation(h, lang), opts...)
	}
	return nil
}

// Option configures an Extractor.
type Option[M any] func(*Extractor[M])

// WithVideos registers a video provider whose handle type is not any.
// Providers using any as handle are picked up without it.
func WithVideos[M, V any](p VideoProvider[M, V]) Option[M] {
	return func(e *Extractor[M]) {
		if p != nil {
			e.videos = boundVideos[M, V]{p: p}
		}
	}
}

// WithClock sets the instant source used to resolve date text.
func WithClock[M any](c sitemap.Clock) Option[M] {
	return func(e *Extractor[M]) {
		if c != nil {
			e.clock = c
		}
	}
}

// Extractor builds sitemap entries for materials of type M. It holds no
// per-material state and is safe for concurrent use as long as the adapter
// is.
type Extractor[M any] struct {
	basic  Basic[M]
	images ImageProvider[M]
	alts   AlternateLinkProvider[M]
	videos videoSource[M]
	clock  sitemap.Clock
}

// NewExtractor inspects adapter and keeps the capabilities it implements
// for M. Basic is mandatory.
func NewExtractor[M any](adapter any, opts ...Option[M]) (*Extractor[M], error) {
	basic, ok := adapter.(Basic[M])
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotBasic, adapter)
	}

	e := &Extractor[M]{basic: basic, clock: sitemap.SystemClock}
	if p, ok := adapter.(ImageProvider[M]); ok {
		e.images = p
	}
	if p, ok := adapter.(AlternateLinkProvider[M]); ok {
		e.alts = p
	}
	if p, ok := adapter.(VideoProvider[M, any]); ok {
		e.videos = boundVideos[M, any]{p: p}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Extractor[M]) Capabilities() Capabilities {
	return Capabilities{
		Images:         e.images != nil,
		Videos:         e.videos != nil,
		AlternateLinks: e.alts != nil,
	}
}

// Entries builds the entries for one material: a single entry for the
// default page, or one entry per language variant when the adapter lists
// alternate links. Alternates are unique per language: a repeated language
// keeps its first position and its last href. Each variant's <loc> comes
// from SitemapLocation for that language and every variant carries the
// full set of alternates.
// Entries are returned unserialized; an entry whose location is empty is
// still returned and serializes to "".
func (e *Extractor[M]) Entries(material M) ([]*sitemap.URL, error) {
	var alternates []AlternateLink
	if e.alts != nil {
		links, err := e.alts.SitemapAlternateLinks(material)
		if err != nil {
			return nil, &ProviderError{Capability: CapAlternateLink, Err: err}
		}
		alternates = uniqueAlternates(links)
	}

	var images []Image
	if e.images != nil {
		imgs, err := e.images.SitemapImages(material)
		if err != nil {
			return nil, &ProviderError{Capability: CapImages, Err: err}
		}
		images = imgs
	}

	type variant struct{ lang, loc string }
	var variants []variant
	if len(alternates) == 0 {
		variants = []variant{{DefaultLang, e.basic.SitemapLocation(material, DefaultLang)}}
	} else {
		for _, alt := range alternates {
			variants = append(variants, variant{alt.Lang, e.basic.SitemapLocation(material, alt.Lang)})
		}
	}

	lastMod := e.basic.SitemapLastModified(material)
	freq := e.basic.SitemapChangeFrequency(material)
	priority, hasPriority := e.basic.SitemapPriority(material)

	entries := make([]*sitemap.URL, 0, len(variants))
	for _, v := range variants {
		u := sitemap.NewURL().
			WithClock(e.clock).
			SetLocation(v.loc).
			SetLastModified(lastMod).
			SetChangeFrequency(freq)
		if hasPriority {
			u.SetPriority(priority)
		}

		for _, img := range images {
			u.AddImage(img.Location, imageOptions(img)...)
		}

		if e.videos != nil {
			if err := e.videos.addVideos(u, material, v.lang); err != nil {
				return nil, &ProviderError{Capability: CapVideos, Err: err}
			}
		}

		for _, alt := range alternates {
			u.AddAlternateLink(alt.Lang, alt.Href)
		}
		entries = append(entries, u)
	}
	return entries, nil
}

// Serialize builds and serializes the entries of one material, skipping
// entries that render empty.
func (e *Extractor[M]) Serialize(material M) ([]string, error) {
	entries, err := e.Entries(material)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, u := range entries {
		s, err := u.Serialize()
		if err != nil {
			return nil, fmt.Errorf("serialize %s: %w", u.Location(), err)
		}
		if s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

// uniqueAlternates collapses repeated languages. The last href wins and
// the language keeps the position of its first occurrence.
func uniqueAlternates(links []AlternateLink) []AlternateLink {
	index := make(map[string]int, len(links))
	out := make([]AlternateLink, 0, len(links))
	for _, l := range links {
		if i, ok := index[l.Lang]; ok {
			out[i].Href = l.Href
			continue
		}
		index[l.Lang] = len(out)
		out = append(out, l)
	}
	return out
}

func imageOptions(img Image) []sitemap.ImageOption {
	var opts []sitemap.ImageOption
	if img.GeoLocation != nil {
		opts = append(opts, sitemap.ImageGeoLocation(*img.GeoLocation))
	}
	if img.Caption != nil {
		opts = append(opts, sitemap.ImageCaption(*img.Caption))
	}
	if img.Title != nil {
		opts = append(opts, sitemap.ImageTitle(*img.Title))
	}
	if img.License != nil {
		opts = append(opts, sitemap.ImageLicense(*img.License))
	}
	return opts
}
