package domain

// Product is a catalog item with a photo gallery.
type Product struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	ID  string
	SKU string

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	Name string

	// Path is the default-language page path, relative to the site root.
	Path string

	// LocalizedPaths maps a language tag to the localized page path.
	LocalizedPaths map[string]string

	// Images are shown in the product gallery, in display order.
	Images []ProductImage

	Freshness
	Lifecycle
}

// ProductImage is one gallery image. Empty strings mean "unknown".
type ProductImage struct {
	URL         string
	Caption     string
	Title       string
	License     string
	GeoLocation string
}

func (p *Product) MaterialID() string { return p.ID }
func (p *Product) MaterialKind() Kind { return KindProduct }
