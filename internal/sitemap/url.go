package sitemap

import "strings"

// Image is one <image:image> block. Optional fields are nil when absent.
type Image struct {
	Location    string
	GeoLocation *string
	Caption     *string
	Title       *string
	License     *string
}

// Video is one <video:video> block. Optional fields are nil when absent.
type Video struct {
	PlayerLocation    string
	ThumbnailLocation *string
	Title             *string
	Description       *string
}

// AlternateLink is one hreflang variant of the entry's page.
type AlternateLink struct {
	Lang string
	Href string
}

// ImageOption sets an optional field on an image record.
type ImageOption func(*Image)

func ImageGeoLocation(v string) ImageOption { return func(i *Image) { i.GeoLocation = &v } }
func ImageCaption(v string) ImageOption     { return func(i *Image) { i.Caption = &v } }
func ImageTitle(v string) ImageOption       { return func(i *Image) { i.Title = &v } }
func ImageLicense(v string) ImageOption     { return func(i *Image) { i.License = &v } }

// VideoOption sets an optional field on a video record.
type VideoOption func(*Video)

func VideoThumbnail(v string) VideoOption   { return func(vd *Video) { vd.ThumbnailLocation = &v } }
func VideoTitle(v string) VideoOption       { return func(vd *Video) { vd.Title = &v } }
func VideoDescription(v string) VideoOption { return func(vd *Video) { vd.Description = &v } }

// URL is a single <url> entry of a sitemap. It is built with the setters,
// serialized once and thrown away. A URL must not be shared between
// goroutines while it is being built.
type URL struct {
	location    string
	lastMod     LastMod
	changeFreq  ChangeFrequency
	priority    Priority
	hasPriority bool
	images      []Image
	videos      []Video
	alternates  []AlternateLink
	altIndex    map[string]int
	clock       Clock
}

// NewURL returns an empty entry using SystemClock.
func NewURL() *URL {
	return &URL{clock: SystemClock}
}

// WithClock sets the instant source used to resolve DateText values.
func (u *URL) WithClock(c Clock) *URL {
	if c != nil {
		u.clock = c
	}
	return u
}

func (u *URL) SetLocation(loc string) *URL {
	u.location = loc
	return u
}

func (u *URL) SetLastModified(v LastMod) *URL {
	u.lastMod = v
	return u
}

func (u *URL) SetChangeFrequency(f ChangeFrequency) *URL {
	u.changeFreq = f
	return u
}

func (u *URL) SetPriority(p Priority) *URL {
	u.priority = p
	u.hasPriority = true
	return u
}

// AddImage appends an image record. An empty location leaves the entry
// unchanged.
func (u *URL) AddImage(loc string, opts ...ImageOption) *URL {
	if loc == "" {
		return u
	}
	img := Image{Location: loc}
	for _, opt := range opts {
		opt(&img)
	}
	u.images = append(u.images, img)
	return u
}

// AddVideo appends a video record. An empty player location leaves the
// entry unchanged.
func (u *URL) AddVideo(playerLoc string, opts ...VideoOption) *URL {
	if playerLoc == "" {
		return u
	}
	v := Video{PlayerLocation: playerLoc}
	for _, opt := range opts {
		opt(&v)
	}
	u.videos = append(u.videos, v)
	return u
}

// AddAlternateLink records href as the lang variant of this page. A
// second call for the same lang replaces the href in place.
func (u *URL) AddAlternateLink(lang, href string) *URL {
	if u.altIndex == nil {
		u.altIndex = make(map[string]int)
	}
	if i, ok := u.altIndex[lang]; ok {
		u.alternates[i].Href = href
		return u
	}
	u.altIndex[lang] = len(u.alternates)
	u.alternates = append(u.alternates, AlternateLink{Lang: lang, Href: href})
	return u
}

func (u *URL) Location() string { return u.location }

func (u *URL) Images() []Image {
	return append([]Image(nil), u.images...)
}

func (u *URL) Videos() []Video {
	return append([]Video(nil), u.videos...)
}

func (u *URL) AlternateLinks() []AlternateLink {
	return append([]AlternateLink(nil), u.alternates...)
}

// Serialize renders the <url> fragment. An entry without a location
// renders as "" and no error. The only failure is date text that cannot
// be parsed, reported as *LastModError.
func (u *URL) Serialize() (string, error) {
	if u.location == "" {
		return "", nil
	}

	lines := make([]string, 0, 6+len(u.images)*6+len(u.videos)*6+len(u.alternates))
	lines = append(lines, "<url>")
	lines = append(lines, "\t<loc>"+PrepareURL(u.location)+"</loc>")

	if !u.lastMod.IsZero() {
		t, err := u.lastMod.Resolve(u.clock)
		if err != nil {
			return "", err
		}
		lines = append(lines, "\t<lastmod>"+t.Format(W3CDateTime)+"</lastmod>")
	}

	if u.changeFreq != "" {
		lines = append(lines, "\t<changefreq>"+string(u.changeFreq)+"</changefreq>")
	}

	if u.hasPriority {
		lines = append(lines, "\t<priority>"+u.priority.String()+"</priority>")
	}

	for _, img := range u.images {
		lines = append(lines, "\t<image:image>")
		lines = append(lines, "\t\t<image:loc>"+PrepareURL(img.Location)+"</image:loc>")
		lines = appendText(lines, "image:caption", img.Caption)
		lines = appendText(lines, "image:geo_location", img.GeoLocation)
		lines = appendText(lines, "image:title", img.Title)
		lines = appendText(lines, "image:license", img.License)
		lines = append(lines, "\t</image:image>")
	}

	for _, v := range u.videos {
		lines = append(lines, "\t<video:video>")
		lines = append(lines, "\t\t<video:player_loc>"+PrepareURL(v.PlayerLocation)+"</video:player_loc>")
		lines = appendText(lines, "video:thumbnail_loc", v.ThumbnailLocation)
		lines = appendText(lines, "video:title", v.Title)
		lines = appendText(lines, "video:description", v.Description)
		lines = append(lines, "\t</video:video>")
	}

	for _, alt := range u.alternates {
		lines = append(lines, "\t"+`<xhtml:link rel="alternate" hreflang="`+alt.Lang+`" href="`+PrepareURL(alt.Href)+`" />`)
	}

	lines = append(lines, "</url>")
	return strings.Join(lines, "\n"), nil
}

func appendText(lines []string, tag string, v *string) []string {
	if v == nil {
		return lines
	}
	return append(lines, "\t\t<"+tag+">"+EscapeText(*v)+"</"+tag+">")
}
