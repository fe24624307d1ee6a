package auditstore

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreRecentRefreshesOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := s.RecordRefresh(ctx, RefreshEvent{
			Source:     "crossReference",
			Success:    true,
			OccurredAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("RecordRefresh: %v", err)
		}
	}

	got, err := s.RecentRefreshes(ctx, "crossReference", 2)
	if err != nil {
		t.Fatalf("RecentRefreshes: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if !got[0].OccurredAt.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("expected newest event first, got %v", got[0].OccurredAt)
	}
	if !got[1].OccurredAt.Equal(base.Add(1 * time.Hour)) {
		t.Errorf("expected second-newest next, got %v", got[1].OccurredAt)
	}
}

func TestMemoryStoreRecentRefreshesUnknownSource(t *testing.T) {
	s := NewMemoryStore()
	got, err := s.RecentRefreshes(context.Background(), "nope", 10)
	if err != nil {
		t.Fatalf("RecentRefreshes: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no events for unknown source, got %d", len(got))
	}
}
