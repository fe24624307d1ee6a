package aidb

import (
	"testing"

	"github.com/example/streamweave/internal/idparser"
)

func TestEnrichParsedIdWithAnimeEntrySeasonPriority(t *testing.T) {
	p := idparser.ParsedId{Source: idparser.SourceKitsu, Value: "7936"}
	entry := &AnimeEntry{
		IMDb: &IMDbProjection{SeasonNumber: intp(3)},
		Trakt: &TraktProjection{SeasonNumber: intp(4)},
	}
	entry.TVDb.SeasonNumber = intp(5)

	got := EnrichParsedIdWithAnimeEntry(p, entry)
	if got.Season == nil || *got.Season != 3 {
		t.Errorf("expected imdb season (3) to take priority, got %v", got.Season)
	}
}

func TestEnrichParsedIdWithAnimeEntryFallsBackToSynonyms(t *testing.T) {
	p := idparser.ParsedId{Source: idparser.SourceKitsu, Value: "7936"}
	entry := &AnimeEntry{
		Synonyms: []string{"Example Show Season 2"},
	}

	got := EnrichParsedIdWithAnimeEntry(p, entry)
	if got.Season == nil || *got.Season != 2 {
		t.Errorf("expected season 2 from synonym match, got %v", got.Season)
	}
}

func TestEnrichParsedIdWithAnimeEntryRebasesMalEpisode(t *testing.T) {
	episode := 5
	p := idparser.ParsedId{Source: idparser.SourceMAL, Value: "21234", Episode: &episode}
	entry := &AnimeEntry{
		IMDb: &IMDbProjection{FromEpisode: intp(13)},
	}

	got := EnrichParsedIdWithAnimeEntry(p, entry)
	if got.Episode == nil || *got.Episode != 17 {
		t.Errorf("expected rebased episode 13+5-1=17, got %v", got.Episode)
	}
}

func TestEnrichParsedIdWithAnimeEntryDoesNotRebaseOtherSources(t *testing.T) {
	episode := 5
	p := idparser.ParsedId{Source: idparser.SourceTVDb, Value: "100", Episode: &episode}
	entry := &AnimeEntry{
		IMDb: &IMDbProjection{FromEpisode: intp(13)},
	}

	got := EnrichParsedIdWithAnimeEntry(p, entry)
	if got.Episode == nil || *got.Episode != 5 {
		t.Errorf("expected tvdb episode to stay unrebased at 5, got %v", got.Episode)
	}
}

func TestEnrichParsedIdWithAnimeEntryIdempotent(t *testing.T) {
	episode := 5
	p := idparser.ParsedId{Source: idparser.SourceMAL, Value: "21234", Episode: &episode}
	entry := &AnimeEntry{
		IMDb: &IMDbProjection{SeasonNumber: intp(2), FromEpisode: intp(13)},
	}

	once := EnrichParsedIdWithAnimeEntry(p, entry)
	twice := EnrichParsedIdWithAnimeEntry(once, entry)

	if *once.Season != *twice.Season {
		t.Errorf("season changed across repeated enrichment: %d vs %d", *once.Season, *twice.Season)
	}
	if *once.Episode != *twice.Episode {
		t.Errorf("episode changed across repeated enrichment: %d vs %d", *once.Episode, *twice.Episode)
	}
}

func TestEnrichParsedIdWithAnimeEntryNilEntry(t *testing.T) {
	p := idparser.ParsedId{Source: idparser.SourceMAL, Value: "1"}
	got := EnrichParsedIdWithAnimeEntry(p, nil)
	if got != p {
		t.Errorf("expected unchanged ParsedId for nil entry, got %+v", got)
	}
}
