package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenEmptyDSNDisablesHistory(t *testing.T) {
	s, err := Open(context.Background(), "")
	if err != nil || s != nil {
		t.Errorf("Open(\"\") = %v, %v, want nil, nil", s, err)
	}
}

func TestSQLiteRecordAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		run := Run{
			ID:         uuid.New(),
			FeedID:     uuid.New(),
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			FinishedAt: base.Add(time.Duration(i)*time.Minute + 2*time.Second),
			URLCount:   10 * (i + 1),
			Parts:      1,
			Kinds:      []string{"article", "product"},
		}
		if i == 2 {
			run.FeedID = uuid.Nil
			run.Error = "product: boom"
			run.Kinds = nil
		}
		if err := s.Record(ctx, run); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	runs, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Recent(2) returned %d runs", len(runs))
	}

	if runs[0].Error != "product: boom" || runs[0].FeedID != uuid.Nil {
		t.Errorf("newest run = %+v, want the failed one", runs[0])
	}
	if runs[1].URLCount != 20 {
		t.Errorf("second run URLCount = %d, want 20", runs[1].URLCount)
	}
	if len(runs[1].Kinds) != 2 || runs[1].Kinds[1] != "product" {
		t.Errorf("second run Kinds = %v", runs[1].Kinds)
	}
	if !runs[1].StartedAt.Equal(base.Add(time.Minute)) {
		t.Errorf("second run StartedAt = %v", runs[1].StartedAt)
	}
}

func TestSQLiteInitializeIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	if err := s.Initialize(context.Background()); err != nil {
		t.Errorf("second Initialize() error = %v", err)
	}
}
