package sitemap

import (
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

// W3CDateTime is the <lastmod> layout. The offset is always numeric,
// UTC renders as +00:00.
const W3CDateTime = "2006-01-02T15:04:05-07:00"

// Clock is the source of the current instant used to resolve free-form
// date text (partial dates, bare times) and its default location.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock in UTC.
var SystemClock Clock = ClockFunc(func() time.Time { return time.Now().UTC() })

type lastModKind uint8

const (
	lastModNone lastModKind = iota
	lastModInstant
	lastModText
)

// LastMod is either a resolved instant or raw date text parsed at
// serialization time. The zero value means "absent".
type LastMod struct {
	kind    lastModKind
	instant time.Time
	text    string
}

// Instant wraps an already resolved timestamp.
func Instant(t time.Time) LastMod {
	return LastMod{kind: lastModInstant, instant: t}
}

// DateText wraps free-form date text.
func DateText(s string) LastMod {
	return LastMod{kind: lastModText, text: s}
}

// IsZero reports whether no value was set.
func (l LastMod) IsZero() bool { return l.kind == lastModNone }

// String returns the raw input, for logs.
func (l LastMod) String() string {
	switch l.kind {
	case lastModInstant:
		return l.instant.Format(W3CDateTime)
	case lastModText:
		return l.text
	default:
		return ""
	}
}

// LastModError is returned when date text cannot be parsed.
type LastModError struct {
	Text string
	Err  error
}

func (e *LastModError) Error() string {
	return fmt.Sprintf("unparseable lastmod %q: %v", e.Text, e.Err)
}

func (e *LastModError) Unwrap() error { return e.Err }

// dateLayouts extends the parser's defaults with the formats feeds and CMS
// exports commonly carry.
var dateLayouts = append(append([]string{}, now.TimeFormats...),
	time.RFC3339Nano,
	time.RFC3339,
	W3CDateTime,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05 -0700",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"02 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
)

// Layouts carrying a year are parsed exactly. The rest (bare times,
// month-day) are completed from the clock by jinzhu/now.
var exactLayouts, partialLayouts = splitLayouts(dateLayouts)

func splitLayouts(layouts []string) (exact, partial []string) {
	for _, l := range layouts {
		if strings.Contains(l, "06") {
			exact = append(exact, l)
		} else {
			partial = append(partial, l)
		}
	}
	return exact, partial
}

// Resolve turns l into an instant. Text carrying a full date is parsed as
// written, in the clock's location when it has no zone. Partial text is
// completed from the clock's current instant.
func (l LastMod) Resolve(clock Clock) (time.Time, error) {
	switch l.kind {
	case lastModInstant:
		return l.instant, nil
	case lastModText:
		if clock == nil {
			clock = SystemClock
		}
		ref := clock.Now()
		text := strings.TrimSpace(l.text)
		for _, layout := range exactLayouts {
			if t, err := time.ParseInLocation(layout, text, ref.Location()); err == nil {
				return t, nil
			}
		}
		cfg := &now.Config{
			WeekStartDay: time.Monday,
			TimeLocation: ref.Location(),
			TimeFormats:  partialLayouts,
		}
		t, err := cfg.With(ref).Parse(text)
		if err != nil {
			return time.Time{}, &LastModError{Text: l.text, Err: err}
		}
		return t, nil
	default:
		return time.Time{}, nil
	}
}
