package redis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/sitemapd/internal/domain"
)

const (
	// KeyPrefixMaterial is the prefix for material keys: sitemapd:material:{kind}:{id}
	KeyPrefixMaterial = "sitemapd:material:"
	// KeyPrefixMaterialSet is the prefix of the per-kind ID sets
	KeyPrefixMaterialSet = "sitemapd:materials:"
	// KeyPrefixFeed is the prefix for everything belonging to the cached feed
	KeyPrefixFeed = "sitemapd:feed:"
)

// MaterialKey returns the Redis key for a material
func MaterialKey(kind domain.Kind, id string) string {
	return KeyPrefixMaterial + string(kind) + ":" + id
}

// MaterialSetKey returns the key for the set of all IDs of a kind
func MaterialSetKey(kind domain.Kind) string {
	return KeyPrefixMaterialSet + string(kind)
}

// FeedMetaKey holds the JSON metadata of the cached feed
func FeedMetaKey() string { return KeyPrefixFeed + "meta" }

// FeedIndexKey holds the sitemap index of a split feed
func FeedIndexKey() string { return KeyPrefixFeed + "index" }

// FeedPartKey holds part n (1-based) of the cached feed
func FeedPartKey(n int) string { return KeyPrefixFeed + "part:" + strconv.Itoa(n) }

// ParseMaterialKey extracts kind and ID from a material key
func ParseMaterialKey(key string) (domain.Kind, string, error) {
	rest, ok := strings.CutPrefix(key, KeyPrefixMaterial)
	if !ok {
		return "", "", fmt.Errorf("invalid material key: %s", key)
	}
	kind, id, ok := strings.Cut(rest, ":")
	if !ok || kind == "" || id == "" {
		return "", "", fmt.Errorf("invalid material key: %s", key)
	}
	return domain.Kind(kind), id, nil
}
