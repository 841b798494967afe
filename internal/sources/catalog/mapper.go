package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/sitemapd/internal/domain"
	"github.com/MrSnakeDoc/sitemapd/internal/sitemap"
)

var ErrEmptyCatalog = errors.New("no materials found in catalog")

// Mapper converts catalog entries to domain materials
type Mapper struct {
	now func() time.Time
}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{now: time.Now}
}

// Map validates c and converts it. IDs must be present and unique within
// a kind; change frequencies and priorities must be valid sitemap values.
func (m *Mapper) Map(c Catalog) (domain.Materials, error) {
	now := m.now()
	var out domain.Materials

	seen := make(map[string]bool)
	for i, e := range c.Articles {
		f, err := m.freshness(e.Hints)
		if err := checkID(seen, domain.KindArticle, e.ID, i, err); err != nil {
			return domain.Materials{}, err
		}
		a := &domain.Article{
			ID:        e.ID,
			Slug:      e.Slug,
			Title:     e.Title,
			Section:   e.Section,
			BodyHTML:  e.Body,
			Freshness: f,
			Lifecycle: lifecycle(e.Disabled, now),
		}
		if len(e.Translations) > 0 {
			a.Translations = make(map[string]domain.Translation, len(e.Translations))
			for lang, t := range e.Translations {
				a.Translations[lang] = domain.Translation{Slug: t.Slug, Title: t.Title}
			}
		}
		out.Articles = append(out.Articles, a)
	}

	seen = make(map[string]bool)
	for i, e := range c.Products {
		f, err := m.freshness(e.Hints)
		if err := checkID(seen, domain.KindProduct, e.ID, i, err); err != nil {
			return domain.Materials{}, err
		}
		p := &domain.Product{
			ID:             e.ID,
			SKU:            e.SKU,
			Name:           e.Name,
			Path:           e.Path,
			LocalizedPaths: e.Paths,
			Freshness:      f,
			Lifecycle:      lifecycle(e.Disabled, now),
		}
		for _, img := range e.Images {
			p.Images = append(p.Images, domain.ProductImage{
				URL:         img.URL,
				Caption:     img.Caption,
				Title:       img.Title,
				License:     img.License,
				GeoLocation: img.GeoLocation,
			})
		}
		out.Products = append(out.Products, p)
	}

	seen = make(map[string]bool)
	for i, e := range c.Media {
		f, err := m.freshness(e.Hints)
		if err := checkID(seen, domain.KindMedia, e.ID, i, err); err != nil {
			return domain.Materials{}, err
		}
		ma := &domain.MediaAsset{
			ID:        e.ID,
			Path:      e.Path,
			Title:     e.Title,
			Languages: e.Languages,
			Freshness: f,
			Lifecycle: lifecycle(e.Disabled, now),
		}
		for _, ce := range e.Clips {
			clip := domain.Clip{
				ID:           ce.ID,
				PlayerURL:    ce.Player,
				ThumbnailURL: ce.Thumbnail,
				Title:        ce.Title,
				Description:  ce.Description,
			}
			if len(ce.Localized) > 0 {
				clip.Localized = make(map[string]domain.ClipText, len(ce.Localized))
				for lang, t := range ce.Localized {
					clip.Localized[lang] = domain.ClipText{Title: t.Title, Description: t.Description}
				}
			}
			ma.Clips = append(ma.Clips, clip)
		}
		out.Media = append(out.Media, ma)
	}

	if out.Count() == 0 {
		return domain.Materials{}, ErrEmptyCatalog
	}
	return out, nil
}

func checkID(seen map[string]bool, kind domain.Kind, id string, pos int, hintErr error) error {
	switch {
	case id == "":
		return fmt.Errorf("%s #%d: missing id", kind, pos+1)
	case seen[id]:
		return fmt.Errorf("%s %s: duplicate id", kind, id)
	case hintErr != nil:
		return fmt.Errorf("%s %s: %w", kind, id, hintErr)
	}
	seen[id] = true
	return nil
}

// freshness keeps an unparseable updated value as text; it is resolved
// against the generator's clock later.
func (m *Mapper) freshness(h Hints) (domain.Freshness, error) {
	if h.ChangeFreq != "" && !sitemap.ChangeFrequency(h.ChangeFreq).Valid() {
		return domain.Freshness{}, fmt.Errorf("invalid changefreq %q", h.ChangeFreq)
	}
	if h.Priority < 0 || h.Priority > 1 {
		return domain.Freshness{}, fmt.Errorf("priority %v out of range [0,1]", h.Priority)
	}

	f := domain.Freshness{ChangeFreq: h.ChangeFreq, Priority: h.Priority}
	if h.Updated != "" {
		if t, err := time.Parse(time.RFC3339, h.Updated); err == nil {
			f.Modified = t
		} else {
			f.ModifiedText = h.Updated
		}
	}
	return f, nil
}

func lifecycle(disabled bool, now time.Time) domain.Lifecycle {
	return domain.Lifecycle{
		Sources:   []string{domain.SourceCatalog},
		CreatedAt: now,
		UpdatedAt: now,
		Disabled:  disabled,
	}
}
