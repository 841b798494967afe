package index

import (
	"sync"
	"time"

	"github.com/MrSnakeDoc/sitemapd/internal/domain"
)

// MemoryIndex holds the current materials of every kind. It is the source
// the feed is generated from; Redis only persists it across restarts.
type MemoryIndex struct {
	mu         sync.RWMutex
	articles   map[string]*domain.Article    // ID -> Article
	products   map[string]*domain.Product    // ID -> Product
	media      map[string]*domain.MediaAsset // ID -> MediaAsset
	lastReload time.Time                     // Timestamp of last full reload
}

// NewMemoryIndex creates a new memory index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		articles: make(map[string]*domain.Article),
		products: make(map[string]*domain.Product),
		media:    make(map[string]*domain.MediaAsset),
	}
}

func byID[T domain.Material](items []T) map[string]T {
	m := make(map[string]T, len(items))
	for _, it := range items {
		m[it.MaterialID()] = it
	}
	return m
}

func values[T domain.Material](m map[string]T) []T {
	out := make([]T, 0, len(m))
	for _, it := range m {
		out = append(out, it)
	}
	domain.SortByID(out)
	return out
}

// Replace swaps every kind at once and stamps the reload time.
func (idx *MemoryIndex) Replace(m domain.Materials) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.articles = byID(m.Articles)
	idx.products = byID(m.Products)
	idx.media = byID(m.Media)
	idx.lastReload = time.Now()
}

// Merge adds or overwrites materials without dropping the others.
func (idx *MemoryIndex) Merge(m domain.Materials) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, a := range m.Articles {
		idx.articles[a.ID] = a
	}
	for _, p := range m.Products {
		idx.products[p.ID] = p
	}
	for _, ma := range m.Media {
		idx.media[ma.ID] = ma
	}
}

// UpdateArticles replaces all articles in the index
func (idx *MemoryIndex) UpdateArticles(items []*domain.Article) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.articles = byID(items)
}

// UpdateProducts replaces all products in the index
func (idx *MemoryIndex) UpdateProducts(items []*domain.Product) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.products = byID(items)
}

// UpdateMedia replaces all media assets in the index
func (idx *MemoryIndex) UpdateMedia(items []*domain.MediaAsset) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.media = byID(items)
}

func (idx *MemoryIndex) GetArticle(id string) (*domain.Article, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	a, ok := idx.articles[id]
	return a, ok
}

func (idx *MemoryIndex) GetProduct(id string) (*domain.Product, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	p, ok := idx.products[id]
	return p, ok
}

func (idx *MemoryIndex) GetMedia(id string) (*domain.MediaAsset, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	m, ok := idx.media[id]
	return m, ok
}

// All returns every material, disabled ones included, sorted by ID within
// each kind.
func (idx *MemoryIndex) All() domain.Materials {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return domain.Materials{
		Articles: values(idx.articles),
		Products: values(idx.products),
		Media:    values(idx.media),
	}
}

// Active returns the materials that belong in the feed.
func (idx *MemoryIndex) Active() domain.Materials {
	return idx.All().Active()
}

// Delete removes a material from the index
func (idx *MemoryIndex) Delete(kind domain.Kind, id string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	switch kind {
	case domain.KindArticle:
		delete(idx.articles, id)
	case domain.KindProduct:
		delete(idx.products, id)
	case domain.KindMedia:
		delete(idx.media, id)
	}
}

// Count returns the number of materials in the index
func (idx *MemoryIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.articles) + len(idx.products) + len(idx.media)
}

// CountByKind returns the number of materials of each kind.
func (idx *MemoryIndex) CountByKind() map[domain.Kind]int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return map[domain.Kind]int{
		domain.KindArticle: len(idx.articles),
		domain.KindProduct: len(idx.products),
		domain.KindMedia:   len(idx.media),
	}
}

// GetLastReload returns the timestamp of the last full reload
func (idx *MemoryIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}
