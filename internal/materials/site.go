// Package materials adapts the domain entities to the extraction
// capabilities, one adapter per kind.
package materials

import (
	"net/url"
	"sort"
	"strings"

	"github.com/MrSnakeDoc/sitemapd/internal/domain"
	"github.com/MrSnakeDoc/sitemapd/internal/extract"
	"github.com/MrSnakeDoc/sitemapd/internal/sitemap"
)

// Site describes where pages are published.
type Site struct {
	// BaseURL is the site root, without trailing slash.
	// Example: https://www.example.com
	BaseURL string

	// DefaultLang is the hreflang tag of unprefixed pages. Localized pages
	// live under /{lang}/.
	DefaultLang string
}

// NewSite normalizes the base URL.
func NewSite(baseURL, defaultLang string) Site {
	return Site{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		DefaultLang: defaultLang,
	}
}

// isDefault reports whether lang selects the unprefixed page.
func (s Site) isDefault(lang string) bool {
	return lang == extract.DefaultLang || lang == s.DefaultLang
}

// PageURL returns the absolute URL of path for lang.
func (s Site) PageURL(path, lang string) string {
	path = strings.TrimLeft(path, "/")
	if s.isDefault(lang) {
		return s.BaseURL + "/" + path
	}
	return s.BaseURL + "/" + lang + "/" + path
}

// Resolve makes ref absolute against base. Unparseable references are
// returned unchanged and left for the caller to judge.
func Resolve(base, ref string) string {
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ref
	}
	if r.IsAbs() {
		return r.String()
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// alternates lists the default page first, then the localized ones in tag
// order. A material with no localized pages gets no alternates at all.
func (s Site) alternates(defaultPath string, localized map[string]string) []extract.AlternateLink {
	if len(localized) == 0 {
		return nil
	}
	langs := make([]string, 0, len(localized))
	for lang, p := range localized {
		if p == "" || s.isDefault(lang) {
			continue
		}
		langs = append(langs, lang)
	}
	if len(langs) == 0 {
		return nil
	}
	sort.Strings(langs)

	out := make([]extract.AlternateLink, 0, len(langs)+1)
	if defaultPath != "" {
		out = append(out, extract.AlternateLink{Lang: s.DefaultLang, Href: s.PageURL(defaultPath, s.DefaultLang)})
	}
	for _, lang := range langs {
		out = append(out, extract.AlternateLink{Lang: lang, Href: s.PageURL(localized[lang], lang)})
	}
	return out
}

// freshness turns editor hints into sitemap values, using fallbacks for
// the zero values.
type freshness struct {
	freq     sitemap.ChangeFrequency
	priority sitemap.Priority
}

func (d freshness) lastMod(f domain.Freshness) sitemap.LastMod {
	switch {
	case !f.Modified.IsZero():
		return sitemap.Instant(f.Modified)
	case f.ModifiedText != "":
		return sitemap.DateText(f.ModifiedText)
	default:
		return sitemap.LastMod{}
	}
}

func (d freshness) changeFreq(f domain.Freshness) sitemap.ChangeFrequency {
	if f.ChangeFreq != "" {
		return sitemap.ChangeFrequency(f.ChangeFreq)
	}
	return d.freq
}

func (d freshness) priorityOf(f domain.Freshness) (sitemap.Priority, bool) {
	switch {
	case f.Priority < 0:
		return 0, false
	case f.Priority > 0:
		return sitemap.Priority(f.Priority), true
	default:
		return d.priority, true
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
