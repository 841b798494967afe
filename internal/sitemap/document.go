package sitemap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxURLsPerFile and MaxBytesPerFile are the protocol ceilings for one
	// uncompressed sitemap file.
	MaxURLsPerFile  = 50000
	MaxBytesPerFile = 50 * 1024 * 1024

	NamespaceSitemap = "http://www.sitemaps.org/schemas/sitemap/0.9"
	NamespaceImage   = "http://www.google.com/schemas/sitemap-image/1.1"
	NamespaceVideo   = "http://www.google.com/schemas/sitemap-video/1.1"
	NamespaceXHTML   = "http://www.w3.org/1999/xhtml"

	xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>`
)

var urlsetOpen = `<urlset xmlns="` + NamespaceSitemap +
	`" xmlns:image="` + NamespaceImage +
	`" xmlns:video="` + NamespaceVideo +
	`" xmlns:xhtml="` + NamespaceXHTML + `">`

const urlsetClose = "</urlset>"

// ErrFragmentTooLarge is returned when one entry alone cannot fit in a file.
var ErrFragmentTooLarge = errors.New("sitemap: entry exceeds the per-file byte limit")

// Writer assembles serialized entries into one or more <urlset> documents,
// keeping the order in which fragments were added.
type Writer struct {
	maxURLs  int
	maxBytes int
	parts    []*part
}

type part struct {
	fragments []string
	size      int
}

// WriterOption customizes a Writer.
type WriterOption func(*Writer)

func WithMaxURLs(n int) WriterOption {
	return func(w *Writer) {
		if n > 0 {
			w.maxURLs = n
		}
	}
}

func WithMaxBytes(n int) WriterOption {
	return func(w *Writer) {
		if n > 0 {
			w.maxBytes = n
		}
	}
}

func NewWriter(opts ...WriterOption) *Writer {
	w := &Writer{maxURLs: MaxURLsPerFile, maxBytes: MaxBytesPerFile}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// overhead is the byte cost of a part with no fragments.
func overhead() int {
	return len(xmlHeader) + 1 + len(urlsetOpen) + 1 + len(urlsetClose)
}

// Add appends a serialized entry. Empty fragments are ignored.
func (w *Writer) Add(fragment string) error {
	if fragment == "" {
		return nil
	}
	cost := len(fragment) + 1
	if overhead()+cost > w.maxBytes {
		return fmt.Errorf("%w (%d bytes)", ErrFragmentTooLarge, len(fragment))
	}

	cur := w.current()
	if cur == nil || len(cur.fragments) >= w.maxURLs || overhead()+cur.size+cost > w.maxBytes {
		cur = &part{}
		w.parts = append(w.parts, cur)
	}
	cur.fragments = append(cur.fragments, fragment)
	cur.size += cost
	return nil
}

func (w *Writer) current() *part {
	if len(w.parts) == 0 {
		return nil
	}
	return w.parts[len(w.parts)-1]
}

// Count returns the number of entries added so far.
func (w *Writer) Count() int {
	n := 0
	for _, p := range w.parts {
		n += len(p.fragments)
	}
	return n
}

// Parts renders every <urlset> document. A Writer with no entries yields a
// single empty urlset so the feed root always exists.
func (w *Writer) Parts() [][]byte {
	if len(w.parts) == 0 {
		return [][]byte{renderURLSet(nil)}
	}
	out := make([][]byte, 0, len(w.parts))
	for _, p := range w.parts {
		out = append(out, renderURLSet(p.fragments))
	}
	return out
}

func renderURLSet(fragments []string) []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString("\n")
	b.WriteString(urlsetOpen)
	b.WriteString("\n")
	for _, f := range fragments {
		b.WriteString(f)
		b.WriteString("\n")
	}
	b.WriteString(urlsetClose)
	return []byte(b.String())
}

// PartPath is the path a part is served under, n is 1-based.
func PartPath(n int) string {
	return fmt.Sprintf("/sitemaps/%d.xml", n)
}

// Index renders a <sitemapindex> pointing at parts 1..parts under baseURL.
func Index(baseURL string, parts int, lastmod time.Time) []byte {
	base := strings.TrimRight(baseURL, "/")
	lines := []string{
		xmlHeader,
		`<sitemapindex xmlns="` + NamespaceSitemap + `">`,
	}
	for n := 1; n <= parts; n++ {
		lines = append(lines,
			"\t<sitemap>",
			"\t\t<loc>"+PrepareURL(base+PartPath(n))+"</loc>",
		)
		if !lastmod.IsZero() {
			lines = append(lines, "\t\t<lastmod>"+lastmod.Format(W3CDateTime)+"</lastmod>")
		}
		lines = append(lines, "\t</sitemap>")
	}
	lines = append(lines, "</sitemapindex>")
	return []byte(strings.Join(lines, "\n"))
}

// Feed is one complete generation result.
type Feed struct {
	ID          uuid.UUID
	GeneratedAt time.Time
	URLCount    int
	Parts       [][]byte
	Index       []byte // nil when the feed fits in one file
}

// NewFeed finalizes w. baseURL is used for the index when w produced more
// than one part.
func NewFeed(w *Writer, baseURL string, generatedAt time.Time) *Feed {
	parts := w.Parts()
	f := &Feed{
		ID:          uuid.New(),
		GeneratedAt: generatedAt,
		URLCount:    w.Count(),
		Parts:       parts,
	}
	if len(parts) > 1 {
		f.Index = Index(baseURL, len(parts), generatedAt)
	}
	return f
}

// Root returns the document served at /sitemap.xml.
func (f *Feed) Root() []byte {
	if f.Index != nil {
		return f.Index
	}
	if len(f.Parts) == 0 {
		return nil
	}
	return f.Parts[0]
}

// Part returns part n (1-based).
func (f *Feed) Part(n int) ([]byte, bool) {
	if n < 1 || n > len(f.Parts) {
		return nil, false
	}
	return f.Parts[n-1], true
}
