package generator

import (
	"fmt"
	"net/url"
	"os"

	"github.com/temoto/robotstxt"
)

// RobotsFilter drops entries that the site's own robots.txt disallows for
// a given user agent.
type RobotsFilter struct {
	group    *robotstxt.Group
	sitemaps []string
}

// NewRobotsFilter parses robotsTxt and selects the group matching
// userAgent.
func NewRobotsFilter(robotsTxt []byte, userAgent string) (*RobotsFilter, error) {
	data, err := robotstxt.FromBytes(robotsTxt)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}
	return &RobotsFilter{
		group:    data.FindGroup(userAgent),
		sitemaps: data.Sitemaps,
	}, nil
}

// LoadRobotsFilter reads a robots.txt file from disk. An empty path
// returns a nil filter, which allows everything.
func LoadRobotsFilter(path, userAgent string) (*RobotsFilter, error) {
	if path == "" {
		return nil, nil
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read robots file: %w", err)
	}
	return NewRobotsFilter(body, userAgent)
}

// Allowed reports whether loc may be listed. Unparseable locations are
// allowed and left to the serializer.
func (f *RobotsFilter) Allowed(loc string) bool {
	if f == nil || f.group == nil || loc == "" {
		return true
	}
	u, err := url.Parse(loc)
	if err != nil {
		return true
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return f.group.Test(path)
}

// Sitemaps returns the Sitemap: lines declared in robots.txt.
func (f *RobotsFilter) Sitemaps() []string {
	if f == nil {
		return nil
	}
	return append([]string(nil), f.sitemaps...)
}
