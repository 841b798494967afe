package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/sitemapd/internal/httpserver/deps"
	"github.com/MrSnakeDoc/sitemapd/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/sitemapd/internal/httpserver/mw"
)

func init() { Register("sitemap", registerSitemap) }

func registerSitemap(r chi.Router, d deps.Deps) {
	public := r.With(
		mw.EnforceHost(d.AllowedHosts, d.Logger),
		mw.RateLimit(mw.RateLimitConfig{
			Burst:             d.RateLimitBurst,
			RefillPerIPPerMin: mw.RefillPerMinute(d.RateLimitRefill),
			MaxEntries:        10000,
			TrustProxy:        d.TrustProxy,
		}),
		middleware.Compress(5, "application/xml"),
	)
	public.Get("/sitemap.xml", handlers.Sitemap(d))
	public.Get("/sitemaps/{part}.xml", handlers.SitemapPart(d))
}
