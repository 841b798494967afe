package domain

import (
	"sort"
	"time"
)

// Kind names a family of materials. Feeds list kinds in KindOrder.
type Kind string

const (
	KindArticle Kind = "article"
	KindProduct Kind = "product"
	KindMedia   Kind = "media"
)

// KindOrder is the order in which kinds appear in a generated feed.
var KindOrder = []Kind{KindArticle, KindProduct, KindMedia}

// SourceCatalog marks materials discovered from the YAML catalog.
const SourceCatalog = "catalog"

// Material is what the index, the store and the garbage collector need to
// know about any entity with a public page.
type Material interface {
	MaterialID() string
	MaterialKind() Kind
	IsDisabled() bool
	LastUpdated() time.Time
}

// Lifecycle holds provenance and soft-delete state shared by every
// material.
type Lifecycle struct {
	// ─────────────────────────────
	// Provenance & observation
	// ─────────────────────────────

	// Sources indicates where this material was discovered from.
	// Example: catalog, redis
	Sources []string

	// CreatedAt is the first time the material was discovered.
	CreatedAt time.Time

	// UpdatedAt is updated on any mutation, including being disabled.
	UpdatedAt time.Time

	// ─────────────────────────────
	// Liveness & cleanup
	// ─────────────────────────────

	// Disabled marks a material as soft-deleted. Disabled materials are
	// left out of the feed and garbage-collected later.
	Disabled bool
}

func (l Lifecycle) IsDisabled() bool       { return l.Disabled }
func (l Lifecycle) LastUpdated() time.Time { return l.UpdatedAt }

// Disable soft-deletes the material. A material that is already disabled
// keeps its original timestamp so the garbage collector can age it.
func (l *Lifecycle) Disable(now time.Time) {
	if l.Disabled {
		return
	}
	l.Disabled = true
	l.UpdatedAt = now
}

// FirstSeen returns when the material was first discovered.
func (l Lifecycle) FirstSeen() time.Time { return l.CreatedAt }

// KeepFirstSeen carries over an earlier discovery time.
func (l *Lifecycle) KeepFirstSeen(t time.Time) {
	if !t.IsZero() && (l.CreatedAt.IsZero() || t.Before(l.CreatedAt)) {
		l.CreatedAt = t
	}
}

// HasSource reports whether src is one of the material's sources.
func (l Lifecycle) HasSource(src string) bool {
	for _, s := range l.Sources {
		if s == src {
			return true
		}
	}
	return false
}

// Freshness carries the sitemap hints an editor can set on a material.
// Zero values mean "let the adapter decide".
type Freshness struct {
	// Modified is the last content change, when known precisely.
	Modified time.Time

	// ModifiedText is a free-form date from an upstream export, used when
	// Modified is zero. Example: "2023-05-01 12:00"
	ModifiedText string

	// ChangeFreq is a sitemap change frequency such as "daily".
	ChangeFreq string

	// Priority in [0,1]; 0 means default, negative omits <priority>.
	Priority float64
}

// SortByID orders materials by ID so feeds are stable across reloads.
func SortByID[T Material](items []T) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].MaterialID() < items[j].MaterialID()
	})
}

// Active returns the materials that are not disabled, sorted by ID.
func Active[T Material](items []T) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !it.IsDisabled() {
			out = append(out, it)
		}
	}
	SortByID(out)
	return out
}

// Materials is a snapshot of every material, grouped by kind.
type Materials struct {
	Articles []*Article
	Products []*Product
	Media    []*MediaAsset
}

// Count returns the total number of materials.
func (m Materials) Count() int {
	return len(m.Articles) + len(m.Products) + len(m.Media)
}

// Active drops disabled materials and sorts each kind by ID.
func (m Materials) Active() Materials {
	return Materials{
		Articles: Active(m.Articles),
		Products: Active(m.Products),
		Media:    Active(m.Media),
	}
}
