package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/sitemapd/internal/domain"
	"github.com/MrSnakeDoc/sitemapd/internal/httpserver/deps"
	"github.com/MrSnakeDoc/sitemapd/internal/store/history"
)

type componentStatus struct {
	OK              bool                `json:"ok"`
	Source          string              `json:"source,omitempty"`
	MaterialsLoaded map[domain.Kind]int `json:"materials_loaded,omitempty"`
	LastReload      string              `json:"last_reload,omitempty"`
	FeedID          string              `json:"feed_id,omitempty"`
	GeneratedAt     string              `json:"generated_at,omitempty"`
	URLCount        *int                `json:"url_count,omitempty"`
	Parts           *int                `json:"parts,omitempty"`
	Mode            string              `json:"mode,omitempty"`
	Impact          string              `json:"impact,omitempty"`
	Error           string              `json:"error,omitempty"`
	RecentRuns      []history.Run       `json:"recent_runs,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

const recentRunsShown = 5

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		components := map[string]componentStatus{
			"catalog": checkCatalog(d),
			"redis":   checkRedis(ctx, d),
			"feed":    checkFeed(ctx, d),
			"history": checkHistory(ctx, d),
		}

		response := infraResponse{
			Status:     determineStatus(components),
			Components: components,
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

func determineStatus(components map[string]componentStatus) string {
	// No feed to serve = critical
	if feed, exists := components["feed"]; exists && !feed.OK {
		return "critical"
	}

	// Redis or catalog down = degraded (the last feed is still served)
	for _, name := range []string{"catalog", "redis"} {
		if c, exists := components[name]; exists && !c.OK {
			return "degraded"
		}
	}

	return "healthy"
}

func checkCatalog(d deps.Deps) componentStatus {
	if d.MemoryIndex == nil {
		return componentStatus{OK: false, Error: "index not initialized"}
	}
	lastReload := d.MemoryIndex.GetLastReload()
	lastReloadStr := "never"
	if !lastReload.IsZero() {
		lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
	}
	return componentStatus{
		OK:              d.MemoryIndex.Count() > 0,
		Source:          d.CatalogFile,
		MaterialsLoaded: d.MemoryIndex.CountByKind(),
		LastReload:      lastReloadStr,
	}
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.Store == nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "feed-not-persisted",
			Error:  "client not initialized",
		}
	}

	if err := d.Store.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "feed-not-persisted",
			Error:  "timeout",
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "feed-cached",
	}
}

func checkFeed(ctx context.Context, d deps.Deps) componentStatus {
	meta, err := currentMeta(ctx, d)
	if err != nil {
		return componentStatus{OK: false, Error: "no feed generated yet"}
	}
	urls, parts := meta.URLCount, meta.Parts
	return componentStatus{
		OK:          true,
		Source:      d.BaseURL,
		FeedID:      meta.ID.String(),
		GeneratedAt: meta.GeneratedAt.Format(time.RFC3339),
		URLCount:    &urls,
		Parts:       &parts,
	}
}

func checkHistory(ctx context.Context, d deps.Deps) componentStatus {
	if d.History == nil {
		return componentStatus{OK: true, Mode: "disabled"}
	}
	runs, err := d.History.Recent(ctx, recentRunsShown)
	if err != nil {
		return componentStatus{OK: false, Error: err.Error()}
	}
	return componentStatus{OK: true, Mode: "enabled", RecentRuns: runs}
}
