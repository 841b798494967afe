package materials

import (
	"fmt"

	"github.com/MrSnakeDoc/sitemapd/internal/domain"
	"github.com/MrSnakeDoc/sitemapd/internal/extract"
	"github.com/MrSnakeDoc/sitemapd/internal/sitemap"
)

// Extractors bundles one extractor per material kind.
type Extractors struct {
	Articles *extract.Extractor[*domain.Article]
	Products *extract.Extractor[*domain.Product]
	Media    *extract.Extractor[*domain.MediaAsset]
}

// NewExtractors wires the adapters of every kind for site. clock resolves
// free-form modification dates.
func NewExtractors(site Site, clock sitemap.Clock) (*Extractors, error) {
	articles, err := extract.NewExtractor[*domain.Article](
		NewArticleAdapter(site),
		extract.WithClock[*domain.Article](clock),
	)
	if err != nil {
		return nil, fmt.Errorf("article extractor: %w", err)
	}

	products, err := extract.NewExtractor[*domain.Product](
		NewProductAdapter(site),
		extract.WithClock[*domain.Product](clock),
	)
	if err != nil {
		return nil, fmt.Errorf("product extractor: %w", err)
	}

	media := NewMediaAdapter(site)
	mediaEx, err := extract.NewExtractor[*domain.MediaAsset](
		media,
		extract.WithVideos[*domain.MediaAsset, domain.Clip](media),
		extract.WithClock[*domain.MediaAsset](clock),
	)
	if err != nil {
		return nil, fmt.Errorf("media extractor: %w", err)
	}

	return &Extractors{Articles: articles, Products: products, Media: mediaEx}, nil
}
