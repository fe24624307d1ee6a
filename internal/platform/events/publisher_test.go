package events

import "testing"

func TestPublisher_NilReceiver_NoPanic(t *testing.T) {
	var p *Publisher
	p.Publish(SubjectCacheInvalidated, "cache.invalidated", nil)
}

func TestPublisher_NilConn_NoPanic(t *testing.T) {
	p := New(nil, nil)
	p.Publish(AIDBRefreshedSubject("offline-catalog"), "aidb.refreshed", map[string]any{
		"source": "offline-catalog",
	})
}

func TestAIDBRefreshedSubject(t *testing.T) {
	got := AIDBRefreshedSubject("anitrakt-tv")
	want := "aidb.anitrakt-tv.refreshed"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
