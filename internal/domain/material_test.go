package domain

import (
	"testing"
	"time"
)

func TestActiveFiltersAndSorts(t *testing.T) {
	items := []*Article{
		{ID: "c"},
		{ID: "a", Lifecycle: Lifecycle{Disabled: true}},
		{ID: "b"},
		{ID: "a2"},
	}

	got := Active(items)
	want := []string{"a2", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("Active() returned %d items, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("Active()[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
	if len(items) != 4 || items[0].ID != "c" {
		t.Error("Active() must not reorder its input")
	}
}

func TestClipText(t *testing.T) {
	c := Clip{
		Title:       "Tour",
		Description: "A guided tour",
		Localized: map[string]ClipText{
			"fr": {Title: "Visite"},
			"de": {Title: "Rundgang", Description: "Eine Führung"},
		},
	}

	tests := []struct {
		lang string
		want ClipText
	}{
		{"", ClipText{"Tour", "A guided tour"}},
		{"fr", ClipText{"Visite", "A guided tour"}},
		{"de", ClipText{"Rundgang", "Eine Führung"}},
		{"es", ClipText{"Tour", "A guided tour"}},
	}

	for _, tt := range tests {
		t.Run("lang="+tt.lang, func(t *testing.T) {
			if got := c.Text(tt.lang); got != tt.want {
				t.Errorf("Text(%q) = %+v, want %+v", tt.lang, got, tt.want)
			}
		})
	}
}

func TestMaterialKinds(t *testing.T) {
	tests := []struct {
		m    Material
		want Kind
	}{
		{&Article{ID: "a"}, KindArticle},
		{&Product{ID: "p"}, KindProduct},
		{&MediaAsset{ID: "m"}, KindMedia},
	}
	for _, tt := range tests {
		if got := tt.m.MaterialKind(); got != tt.want {
			t.Errorf("%s MaterialKind() = %s, want %s", tt.m.MaterialID(), got, tt.want)
		}
	}
}

func TestLifecycleHasSource(t *testing.T) {
	l := Lifecycle{Sources: []string{SourceCatalog, "redis"}}
	if !l.HasSource(SourceCatalog) {
		t.Error("HasSource(catalog) = false")
	}
	if l.HasSource("crawler") {
		t.Error("HasSource(crawler) = true")
	}
}

func TestLifecycleDisableKeepsFirstTimestamp(t *testing.T) {
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := &Article{ID: "a"}

	a.Disable(first)
	a.Disable(first.Add(48 * time.Hour))

	if !a.IsDisabled() {
		t.Fatal("Disable() did not disable")
	}
	if !a.LastUpdated().Equal(first) {
		t.Errorf("LastUpdated() = %v, want %v", a.LastUpdated(), first)
	}
}

func TestLifecycleKeepFirstSeen(t *testing.T) {
	early := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	l := Lifecycle{CreatedAt: late}
	l.KeepFirstSeen(early)
	if !l.FirstSeen().Equal(early) {
		t.Errorf("FirstSeen() = %v, want %v", l.FirstSeen(), early)
	}
	l.KeepFirstSeen(time.Time{})
	l.KeepFirstSeen(late)
	if !l.FirstSeen().Equal(early) {
		t.Errorf("FirstSeen() moved to %v", l.FirstSeen())
	}
}
