package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrSnakeDoc/sitemapd/internal/httpserver/deps"
	"github.com/MrSnakeDoc/sitemapd/internal/logger"
	redisstore "github.com/MrSnakeDoc/sitemapd/internal/store/redis"
)

var errNoSuchPart = errors.New("no such sitemap part")

// rootDoc selects /sitemap.xml in loadDoc; parts are 1-based.
const rootDoc = 0

// feedDoc is one served document and the feed it belongs to.
type feedDoc struct {
	id          uuid.UUID
	generatedAt time.Time
	body        []byte
}

// currentMeta prefers the in-memory feed and falls back to the Redis cache.
func currentMeta(ctx context.Context, d deps.Deps) (redisstore.FeedMeta, error) {
	if d.Feeds != nil {
		if f := d.Feeds.Latest(); f != nil {
			return redisstore.NewFeedMeta(f), nil
		}
	}
	if d.FeedCache == nil {
		return redisstore.FeedMeta{}, redisstore.ErrFeedNotFound
	}
	return d.FeedCache.GetFeedMeta(ctx)
}

// loadDoc returns the root document or part n of the current feed. From the
// cache only the metadata and the requested document are read.
func loadDoc(ctx context.Context, d deps.Deps, n int) (feedDoc, error) {
	if d.Feeds != nil {
		if f := d.Feeds.Latest(); f != nil {
			doc := feedDoc{id: f.ID, generatedAt: f.GeneratedAt}
			if n == rootDoc {
				doc.body = f.Root()
				return doc, nil
			}
			body, ok := f.Part(n)
			if !ok {
				return feedDoc{}, errNoSuchPart
			}
			doc.body = body
			return doc, nil
		}
	}
	if d.FeedCache == nil {
		return feedDoc{}, redisstore.ErrFeedNotFound
	}

	meta, err := d.FeedCache.GetFeedMeta(ctx)
	if err != nil {
		return feedDoc{}, err
	}
	doc := feedDoc{id: meta.ID, generatedAt: meta.GeneratedAt}
	switch {
	case n == rootDoc && meta.Split:
		doc.body, err = d.FeedCache.GetFeedIndex(ctx)
	case n == rootDoc:
		doc.body, err = d.FeedCache.GetFeedPart(ctx, 1)
	case n < 1 || n > meta.Parts:
		return feedDoc{}, errNoSuchPart
	default:
		doc.body, err = d.FeedCache.GetFeedPart(ctx, n)
	}
	if err != nil {
		return feedDoc{}, err
	}
	return doc, nil
}

// Sitemap serves /sitemap.xml: the index of a split feed, or its only part.
func Sitemap(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveDoc(w, r, d, rootDoc, "sitemap.xml")
	}
}

// SitemapPart serves /sitemaps/{part}.xml.
func SitemapPart(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(chi.URLParam(r, "part"))
		if err != nil || n < 1 {
			http.NotFound(w, r)
			return
		}
		serveDoc(w, r, d, n, strconv.Itoa(n)+".xml")
	}
}

func serveDoc(w http.ResponseWriter, r *http.Request, d deps.Deps, n int, name string) {
	doc, err := loadDoc(r.Context(), d, n)
	switch {
	case errors.Is(err, errNoSuchPart):
		http.NotFound(w, r)
		return
	case err != nil:
		if !errors.Is(err, redisstore.ErrFeedNotFound) {
			d.Logger.Warn("failed to load feed", logger.Error(err))
		}
		w.Header().Set("Retry-After", "30")
		http.Error(w, "sitemap not generated yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("ETag", `"`+doc.id.String()+`"`)
	w.Header().Set("Cache-Control", "public, max-age=300")
	http.ServeContent(w, r, name, doc.generatedAt, bytes.NewReader(doc.body))
}
