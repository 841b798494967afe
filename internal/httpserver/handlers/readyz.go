package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/sitemapd/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready  bool   `json:"ready"`
	FeedID string `json:"feed_id,omitempty"`
}

// Readyz reports ready once a feed can be served.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")

		meta, err := currentMeta(r.Context(), d)
		if err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(readyzResponse{Ready: false})
			return
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(readyzResponse{
			Ready:  true,
			FeedID: meta.ID.String(),
		})
	}
}
