package catalog

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/sitemapd/internal/domain"
)

func fixedMapper() *Mapper {
	return &Mapper{now: func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }}
}

func TestMapperMap(t *testing.T) {
	c, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatal(err)
	}

	m, err := fixedMapper().Map(c)
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	if m.Count() != 3 {
		t.Fatalf("Map() returned %d materials, want 3", m.Count())
	}

	a := m.Articles[0]
	if !a.Modified.Equal(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)) {
		t.Errorf("article Modified = %v", a.Modified)
	}
	if a.ModifiedText != "" {
		t.Errorf("article ModifiedText = %q, want empty", a.ModifiedText)
	}
	if !a.HasSource(domain.SourceCatalog) {
		t.Errorf("article Sources = %v", a.Sources)
	}
	if !strings.Contains(a.BodyHTML, "hero.jpg") {
		t.Errorf("article body not mapped: %q", a.BodyHTML)
	}

	media := m.Media[0]
	if !media.Modified.IsZero() || media.ModifiedText != "2023-05-01 12:00" {
		t.Errorf("free-form date should be kept as text, got %v / %q", media.Modified, media.ModifiedText)
	}
	if media.Clips[0].PlayerURL != "/player?id=1" {
		t.Errorf("clip PlayerURL = %q", media.Clips[0].PlayerURL)
	}

	p := m.Products[0]
	if len(p.Images) != 1 || p.Images[0].Caption != "Desk lamp" {
		t.Errorf("product images = %+v", p.Images)
	}
	if p.LocalizedPaths["de"] != "laden/lampe" {
		t.Errorf("product LocalizedPaths = %v", p.LocalizedPaths)
	}
}

func TestMapperValidation(t *testing.T) {
	tests := []struct {
		name    string
		catalog Catalog
		wantErr string
	}{
		{
			name:    "missing id",
			catalog: Catalog{Articles: []ArticleEntry{{Slug: "x"}}},
			wantErr: "article #1: missing id",
		},
		{
			name:    "duplicate id",
			catalog: Catalog{Products: []ProductEntry{{ID: "p"}, {ID: "p"}}},
			wantErr: "product p: duplicate id",
		},
		{
			name:    "invalid changefreq",
			catalog: Catalog{Media: []MediaEntry{{ID: "m", Hints: Hints{ChangeFreq: "sometimes"}}}},
			wantErr: `media m: invalid changefreq "sometimes"`,
		},
		{
			name:    "priority out of range",
			catalog: Catalog{Articles: []ArticleEntry{{ID: "a", Hints: Hints{Priority: 1.5}}}},
			wantErr: "out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fixedMapper().Map(tt.catalog)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Map() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestMapperSameIDAcrossKinds(t *testing.T) {
	c := Catalog{
		Articles: []ArticleEntry{{ID: "x", Slug: "x"}},
		Products: []ProductEntry{{ID: "x", Path: "x"}},
	}
	if _, err := fixedMapper().Map(c); err != nil {
		t.Errorf("IDs only need to be unique within a kind, got %v", err)
	}
}

func TestMapperEmptyCatalog(t *testing.T) {
	m, err := NewMapper().Map(Catalog{})
	if !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("Map() error = %v, want ErrEmptyCatalog", err)
	}
	if m.Count() != 0 {
		t.Errorf("Map() with empty catalog should return no materials, got %v", m.Count())
	}
}

func TestMapperKeepsDisabled(t *testing.T) {
	c := Catalog{Articles: []ArticleEntry{{ID: "a", Slug: "a", Hints: Hints{Disabled: true}}}}
	m, err := fixedMapper().Map(c)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Articles[0].Disabled {
		t.Error("disabled flag not mapped")
	}
}
