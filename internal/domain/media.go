package domain

// MediaAsset is a page built around one or more video clips.
type MediaAsset struct {
	ID    string
	Path  string
	Title string

	// Clips are listed in page order.
	Clips []Clip

	// Languages the page is published in, besides the default one.
	Languages []string

	Freshness
	Lifecycle
}

// Clip is one embedded video. Localized overrides Title and Description
// per language tag.
type Clip struct {
	ID           string
	PlayerURL    string
	ThumbnailURL string
	Title        string
	Description  string
	Localized    map[string]ClipText
}

type ClipText struct {
	Title       string
	Description string
}

// Text returns the clip's title and description for lang, falling back to
// the unlocalized values field by field.
func (c Clip) Text(lang string) ClipText {
	out := ClipText{Title: c.Title, Description: c.Description}
	if loc, ok := c.Localized[lang]; ok {
		if loc.Title != "" {
			out.Title = loc.Title
		}
		if loc.Description != "" {
			out.Description = loc.Description
		}
	}
	return out
}

func (m *MediaAsset) MaterialID() string { return m.ID }
func (m *MediaAsset) MaterialKind() Kind { return KindMedia }
