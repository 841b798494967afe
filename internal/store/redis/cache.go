package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/sitemapd/internal/sitemap"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrFeedNotFound = errors.New("feed not cached")

// FeedMeta describes the cached feed without its documents.
type FeedMeta struct {
	ID          uuid.UUID `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	URLCount    int       `json:"url_count"`
	Parts       int       `json:"parts"`
	Split       bool      `json:"split"`
}

// NewFeedMeta describes f.
func NewFeedMeta(f *sitemap.Feed) FeedMeta {
	return FeedMeta{
		ID:          f.ID,
		GeneratedAt: f.GeneratedAt,
		URLCount:    f.URLCount,
		Parts:       len(f.Parts),
		Split:       f.Index != nil,
	}
}

// SaveFeed replaces the cached feed. Stale parts of a previous, larger feed
// are removed first.
func (s *Store) SaveFeed(ctx context.Context, f *sitemap.Feed, ttl time.Duration) error {
	meta, err := json.Marshal(NewFeedMeta(f))
	if err != nil {
		return fmt.Errorf("failed to marshal feed meta: %w", err)
	}
	if err := s.FlushFeed(ctx); err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	for i, part := range f.Parts {
		pipe.Set(ctx, FeedPartKey(i+1), part, ttl)
	}
	if f.Index != nil {
		pipe.Set(ctx, FeedIndexKey(), f.Index, ttl)
	}
	// Meta last: readers treat it as the commit marker.
	pipe.Set(ctx, FeedMetaKey(), meta, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache feed: %w", err)
	}
	return nil
}

// GetFeedMeta retrieves the metadata of the cached feed
func (s *Store) GetFeedMeta(ctx context.Context) (FeedMeta, error) {
	data, err := s.client.Get(ctx, FeedMetaKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return FeedMeta{}, ErrFeedNotFound
		}
		return FeedMeta{}, fmt.Errorf("failed to get feed meta: %w", err)
	}
	var meta FeedMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return FeedMeta{}, fmt.Errorf("failed to unmarshal feed meta: %w", err)
	}
	return meta, nil
}

// GetFeedPart retrieves part n (1-based) of the cached feed
func (s *Store) GetFeedPart(ctx context.Context, n int) ([]byte, error) {
	return s.getBytes(ctx, FeedPartKey(n))
}

// GetFeedRoot retrieves the document served at /sitemap.xml
func (s *Store) GetFeedRoot(ctx context.Context) ([]byte, error) {
	meta, err := s.GetFeedMeta(ctx)
	if err != nil {
		return nil, err
	}
	if meta.Split {
		return s.GetFeedIndex(ctx)
	}
	return s.GetFeedPart(ctx, 1)
}

// GetFeedIndex retrieves the sitemap index of a split feed
func (s *Store) GetFeedIndex(ctx context.Context) ([]byte, error) {
	return s.getBytes(ctx, FeedIndexKey())
}

// GetFeed rebuilds the whole cached feed
func (s *Store) GetFeed(ctx context.Context) (*sitemap.Feed, error) {
	meta, err := s.GetFeedMeta(ctx)
	if err != nil {
		return nil, err
	}
	f := &sitemap.Feed{
		ID:          meta.ID,
		GeneratedAt: meta.GeneratedAt,
		URLCount:    meta.URLCount,
		Parts:       make([][]byte, 0, meta.Parts),
	}
	for n := 1; n <= meta.Parts; n++ {
		part, err := s.GetFeedPart(ctx, n)
		if err != nil {
			return nil, err
		}
		f.Parts = append(f.Parts, part)
	}
	if meta.Split {
		if f.Index, err = s.getBytes(ctx, FeedIndexKey()); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (s *Store) getBytes(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrFeedNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, nil
}

// FlushFeed removes every cached feed key
func (s *Store) FlushFeed(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, KeyPrefixFeed+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete feed key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush feed: %w", err)
	}
	return nil
}
