package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/MrSnakeDoc/sitemapd/internal/domain"
	"github.com/MrSnakeDoc/sitemapd/internal/index"
	"github.com/MrSnakeDoc/sitemapd/internal/logger"
)

func TestGarbageCollector_Collect(t *testing.T) {
	log := logger.New("error", false)
	memIndex := index.NewMemoryIndex()

	now := time.Now()
	catalogLife := func(disabled bool, updated time.Time) domain.Lifecycle {
		return domain.Lifecycle{Sources: []string{domain.SourceCatalog}, Disabled: disabled, UpdatedAt: updated}
	}

	memIndex.Replace(domain.Materials{
		Articles: []*domain.Article{
			{ID: "active", Slug: "a", Lifecycle: catalogLife(false, now.Add(-90*24*time.Hour))},
			{ID: "recently-disabled", Slug: "b", Lifecycle: catalogLife(true, now.Add(-10*24*time.Hour))}, // Disabled 10 days ago
			{ID: "old-disabled", Slug: "c", Lifecycle: catalogLife(true, now.Add(-35*24*time.Hour))},      // Disabled 35 days ago
		},
		Products: []*domain.Product{
			{ID: "old-product", Path: "p", Lifecycle: catalogLife(true, now.Add(-40*24*time.Hour))},
		},
		Media: []*domain.MediaAsset{
			{ID: "no-timestamp", Path: "m", Lifecycle: catalogLife(true, time.Time{})},
		},
	})

	// Create GC with 30 day threshold
	gc := NewGarbageCollector(
		nil, // no Redis store for this test
		memIndex,
		log,
		24*time.Hour,
		30*24*time.Hour,
	)

	if err := gc.Collect(context.Background()); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if _, ok := memIndex.GetArticle("active"); !ok {
		t.Error("Active article was incorrectly removed")
	}
	if _, ok := memIndex.GetArticle("recently-disabled"); !ok {
		t.Error("Recently disabled article was incorrectly removed")
	}
	if _, ok := memIndex.GetArticle("old-disabled"); ok {
		t.Error("Old disabled article was not removed")
	}
	if _, ok := memIndex.GetProduct("old-product"); ok {
		t.Error("Old disabled product was not removed")
	}
	if _, ok := memIndex.GetMedia("no-timestamp"); !ok {
		t.Error("Disabled media without timestamp should be kept")
	}
	if n := memIndex.Count(); n != 3 {
		t.Errorf("Expected 3 materials after GC, got %d", n)
	}
}

func TestNewGarbageCollectorDefaultThreshold(t *testing.T) {
	gc := NewGarbageCollector(nil, index.NewMemoryIndex(), logger.New("error", false), time.Hour, 0)
	if gc.threshold != DefaultGCThreshold {
		t.Errorf("threshold = %v, want %v", gc.threshold, DefaultGCThreshold)
	}
}
