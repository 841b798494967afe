package domain

// Article is an editorial page. Its body may embed images, and it can be
// translated into other languages under a different slug.
type Article struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier.
	ID string

	// Slug is the path segment of the default-language page.
	// Example: "2023/spring-launch"
	Slug string

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	Title   string
	Section string

	// BodyHTML is the rendered body. <img> tags in it are listed as the
	// article's images.
	BodyHTML string

	// Translations maps a language tag to the localized page.
	// When empty the article is only published in the default language.
	Translations map[string]Translation

	Freshness
	Lifecycle
}

// Translation is one localized version of an article.
type Translation struct {
	Slug  string
	Title string
}

func (a *Article) MaterialID() string { return a.ID }
func (a *Article) MaterialKind() Kind { return KindArticle }
