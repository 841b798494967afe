package catalog

// Catalog is the root of the catalog YAML file.
type Catalog struct {
	Articles []ArticleEntry `yaml:"articles"`
	Products []ProductEntry `yaml:"products"`
	Media    []MediaEntry   `yaml:"media"`
}

// Hints are the optional sitemap fields every entry may carry.
type Hints struct {
	// Updated is either an RFC 3339 timestamp or a free-form date such as
	// "2023-05-01 12:00".
	Updated    string  `yaml:"updated,omitempty"`
	ChangeFreq string  `yaml:"changefreq,omitempty"`
	Priority   float64 `yaml:"priority,omitempty"`
	Disabled   bool    `yaml:"disabled,omitempty"`
}

type ArticleEntry struct {
	ID           string                      `yaml:"id"`
	Slug         string                      `yaml:"slug"`
	Title        string                      `yaml:"title,omitempty"`
	Section      string                      `yaml:"section,omitempty"`
	Body         string                      `yaml:"body,omitempty"`
	Translations map[string]TranslationEntry `yaml:"translations,omitempty"`
	Hints        `yaml:",inline"`
}

type TranslationEntry struct {
	Slug  string `yaml:"slug"`
	Title string `yaml:"title,omitempty"`
}

type ProductEntry struct {
	ID     string            `yaml:"id"`
	SKU    string            `yaml:"sku,omitempty"`
	Name   string            `yaml:"name,omitempty"`
	Path   string            `yaml:"path"`
	Paths  map[string]string `yaml:"paths,omitempty"`
	Images []ImageEntry      `yaml:"images,omitempty"`
	Hints  `yaml:",inline"`
}

type ImageEntry struct {
	URL         string `yaml:"url"`
	Caption     string `yaml:"caption,omitempty"`
	Title       string `yaml:"title,omitempty"`
	License     string `yaml:"license,omitempty"`
	GeoLocation string `yaml:"geo_location,omitempty"`
}

type MediaEntry struct {
	ID        string      `yaml:"id"`
	Path      string      `yaml:"path"`
	Title     string      `yaml:"title,omitempty"`
	Languages []string    `yaml:"languages,omitempty"`
	Clips     []ClipEntry `yaml:"clips,omitempty"`
	Hints     `yaml:",inline"`
}

type ClipEntry struct {
	ID          string                   `yaml:"id,omitempty"`
	Player      string                   `yaml:"player"`
	Thumbnail   string                   `yaml:"thumbnail,omitempty"`
	Title       string                   `yaml:"title,omitempty"`
	Description string                   `yaml:"description,omitempty"`
	Localized   map[string]ClipTextEntry `yaml:"localized,omitempty"`
}

type ClipTextEntry struct {
	Title       string `yaml:"title,omitempty"`
	Description string `yaml:"description,omitempty"`
}
