package pipeline

import "testing"

func seeders(n int) *int { return &n }

func TestDeduplicateSingleResultKeepsFirstPerClass(t *testing.T) {
	streams := []ParsedStream{
		{ID: "a", Filename: "movie.2020.1080p.mkv", Size: 100, Service: &Service{ID: "rd", Cached: true}},
		{ID: "b", Filename: "movie.2020.1080p.mkv", Size: 100, Service: &Service{ID: "ad", Cached: true}},
	}
	cfg := DeduplicatorConfig{
		Enabled:             true,
		Keys:                []string{"filename", "size"},
		MultiGroupBehaviour: MultiGroupKeepAll,
		Cached:              CachedSingleResult,
	}
	out := deduplicate(streams, cfg)
	if len(out) != 1 {
		t.Fatalf("expected 1 stream, got %d", len(out))
	}
	if out[0].ID != "a" {
		t.Fatalf("expected first-in-order stream kept, got %s", out[0].ID)
	}
}

func TestDeduplicatePerServiceKeepsOnePerService(t *testing.T) {
	streams := []ParsedStream{
		{ID: "a", Filename: "movie.mkv", Size: 100, Service: &Service{ID: "rd", Cached: true}},
		{ID: "b", Filename: "movie.mkv", Size: 100, Service: &Service{ID: "ad", Cached: true}},
		{ID: "c", Filename: "movie.mkv", Size: 100, Service: &Service{ID: "rd", Cached: true}},
	}
	cfg := DeduplicatorConfig{
		Enabled:             true,
		Keys:                []string{"filename", "size"},
		MultiGroupBehaviour: MultiGroupKeepAll,
		Cached:              CachedPerService,
	}
	out := deduplicate(streams, cfg)
	if len(out) != 2 {
		t.Fatalf("expected 2 streams (one per service), got %d", len(out))
	}
}

func TestDeduplicateAggressiveDropsUncachedWhenCachedPresent(t *testing.T) {
	streams := []ParsedStream{
		{ID: "cached", Filename: "movie.mkv", Size: 100, Service: &Service{ID: "rd", Cached: true}},
		{ID: "uncached", Filename: "movie.mkv", Size: 100, Service: &Service{ID: "ad", Cached: false}},
	}
	cfg := DeduplicatorConfig{
		Enabled:             true,
		Keys:                []string{"filename", "size"},
		MultiGroupBehaviour: MultiGroupAggressive,
		Cached:              CachedDisabled,
		Uncached:            CachedDisabled,
	}
	out := deduplicate(streams, cfg)
	if len(out) != 1 || out[0].ID != "cached" {
		t.Fatalf("expected only the cached stream to survive, got %+v", out)
	}
}

func TestDeduplicateConservativeKeepsUncachedFromOtherServices(t *testing.T) {
	streams := []ParsedStream{
		{ID: "cached-rd", Filename: "movie.mkv", Size: 100, Service: &Service{ID: "rd", Cached: true}},
		{ID: "uncached-rd", Filename: "movie.mkv", Size: 100, Service: &Service{ID: "rd", Cached: false}},
		{ID: "uncached-ad", Filename: "movie.mkv", Size: 100, Service: &Service{ID: "ad", Cached: false}},
	}
	cfg := DeduplicatorConfig{
		Enabled:             true,
		Keys:                []string{"filename", "size"},
		MultiGroupBehaviour: MultiGroupConservative,
		Cached:              CachedDisabled,
		Uncached:            CachedDisabled,
	}
	out := deduplicate(streams, cfg)
	ids := map[string]bool{}
	for _, s := range out {
		ids[s.ID] = true
	}
	if !ids["cached-rd"] {
		t.Fatalf("expected cached-rd kept, got %+v", out)
	}
	if ids["uncached-rd"] {
		t.Fatalf("expected uncached-rd (same service as a kept cached stream) dropped, got %+v", out)
	}
	if !ids["uncached-ad"] {
		t.Fatalf("expected uncached-ad (different service) kept under conservative behaviour, got %+v", out)
	}
}

func TestDeduplicateDisabledReturnsAllStreams(t *testing.T) {
	streams := []ParsedStream{
		{ID: "a", Filename: "movie.mkv"},
		{ID: "b", Filename: "movie.mkv"},
	}
	out := deduplicate(streams, DeduplicatorConfig{Enabled: false})
	if len(out) != 2 {
		t.Fatalf("expected deduplicator disabled to pass through unchanged, got %d", len(out))
	}
}

func TestDeduplicateDistinctGroupsBothSurvive(t *testing.T) {
	streams := []ParsedStream{
		{ID: "a", Torrent: &Torrent{InfoHash: "hash1", Seeders: seeders(5)}, Service: &Service{ID: "rd", Cached: true}},
		{ID: "b", Torrent: &Torrent{InfoHash: "hash2", Seeders: seeders(5)}, Service: &Service{ID: "rd", Cached: true}},
	}
	cfg := DeduplicatorConfig{
		Enabled:             true,
		Keys:                []string{"infoHash"},
		MultiGroupBehaviour: MultiGroupKeepAll,
		Cached:              CachedSingleResult,
	}
	out := deduplicate(streams, cfg)
	if len(out) != 2 {
		t.Fatalf("expected both distinct info-hash groups to survive, got %d", len(out))
	}
}
