package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/sitemapd/internal/httpserver/deps"
	"github.com/MrSnakeDoc/sitemapd/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/sitemapd/internal/httpserver/mw"
)

func init() { Register("admin", registerAdmin) }

// Liveness stays open; everything else is only reachable from the allowed CIDRs.
func registerAdmin(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))

	admin := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
	admin.Get("/readyz", handlers.Readyz(d))
	admin.Get("/infra", handlers.Infra(d))

	triggers := admin.With(mw.EnforceHost(d.AllowedHosts, d.Logger))
	triggers.Post("/reload", handlers.Reload(d))
	triggers.Post("/regenerate", handlers.Regenerate(d))
}
