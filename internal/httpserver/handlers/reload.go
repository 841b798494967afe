package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/sitemapd/internal/httpserver/deps"
	"github.com/MrSnakeDoc/sitemapd/internal/logger"
)

// Reload triggers a manual reload of the catalog. A successful reload
// regenerates the feed on its own.
func Reload(d deps.Deps) http.HandlerFunc {
	return trigger(d, d.ReloadTrigger, "catalog reload")
}

// Regenerate triggers a feed regeneration from the current index.
func Regenerate(d deps.Deps) http.HandlerFunc {
	return trigger(d, d.RegenerateTrigger, "feed regeneration")
}

func trigger(d deps.Deps, ch chan struct{}, what string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case ch <- struct{}{}:
			d.Logger.Info("manual "+what+" triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusAccepted)
			if _, err := w.Write([]byte("✅ " + what + " triggered successfully\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		default:
			d.Logger.Warn(what+" already pending",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusTooManyRequests)
			if _, err := w.Write([]byte("⏳ " + what + " already in progress, please wait\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		}
	}
}
