package sitemap

import (
	"strings"
	"unicode/utf8"
)

// xmlEntities is the reserved character set shared by URL and text escaping.
var xmlEntities = strings.NewReplacer(
	"&", "&amp;",
	"'", "&apos;",
	`"`, "&quot;",
	">", "&gt;",
	"<", "&lt;",
)

// PrepareURL makes a URL safe to embed in XML element content or an
// attribute value. It does not percent-encode anything: the caller is
// expected to hand in a syntactically valid URL.
func PrepareURL(raw string) string {
	return xmlEntities.Replace(raw)
}

// EscapeText escapes free text (captions, titles, descriptions) for XML
// element content. Runes that XML 1.0 forbids are dropped.
func EscapeText(raw string) string {
	return xmlEntities.Replace(stripInvalidXML(raw))
}

func stripInvalidXML(s string) string {
	clean := true
	for _, r := range s {
		if !isXMLChar(r) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isXMLChar(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// isXMLChar reports whether r is in the XML 1.0 Char production.
func isXMLChar(r rune) bool {
	if r == utf8.RuneError {
		return false
	}
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}
