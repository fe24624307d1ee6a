package aidb

import (
	"testing"

	"github.com/example/streamweave/internal/idparser"
)

func intp(n int) *int    { return &n }
func strp(s string) *string { return &s }

func TestGetEntryBySimpleMovie(t *testing.T) {
	imdbId := "tt1234567"
	a := NewForTesting(Fixtures{
		CrossReference: []MappingEntry{
			{Ids: CrossRefIds{IMDbId: &imdbId, MALId: intp(42)}, Type: TypeMovie},
		},
	})

	entry, err := a.GetEntryById(idparser.SourceIMDb, imdbId, nil, nil)
	if err != nil {
		t.Fatalf("GetEntryById: %v", err)
	}
	if entry == nil {
		t.Fatal("expected a resolved entry")
	}
	if entry.MALId == nil || *entry.MALId != 42 {
		t.Errorf("expected MALId 42, got %v", entry.MALId)
	}
}

func TestGetEntryByIdNotFound(t *testing.T) {
	a := NewForTesting(Fixtures{})
	entry, err := a.GetEntryById(idparser.SourceIMDb, "tt0000000", nil, nil)
	if err != nil {
		t.Fatalf("GetEntryById: %v", err)
	}
	if entry != nil {
		t.Errorf("expected nil entry for unknown id, got %+v", entry)
	}
}

// TestGetEntryByIdSplitCourSeasonMismatch mirrors the documented season
// resolution scenario: two mappings reachable from the same query id,
// each linked to a distinct Kitsu corpus entry; only the one whose
// fromSeason matches the requested season is a valid candidate.
func TestGetEntryByIdSplitCourSeasonMismatch(t *testing.T) {
	a := NewForTesting(Fixtures{
		CrossReference: []MappingEntry{
			{Ids: CrossRefIds{AniDBId: intp(900), KitsuId: intp(7936)}, Type: TypeTV},
			{Ids: CrossRefIds{AniDBId: intp(900), KitsuId: intp(11111)}, Type: TypeTV},
		},
		Kitsu: []KitsuImdbEntry{
			{KitsuId: 7936, FromSeason: intp(1), FromEpisode: intp(1)},
			{KitsuId: 11111, FromSeason: intp(2), FromEpisode: intp(1)},
		},
	})

	entry, err := a.GetEntryById(idparser.SourceAniDB, "900", intp(2), intp(5))
	if err != nil {
		t.Fatalf("GetEntryById: %v", err)
	}
	if entry == nil {
		t.Fatal("expected a resolved entry")
	}
	if entry.KitsuId == nil || *entry.KitsuId != 11111 {
		t.Errorf("expected the season-2 mapping (kitsuId 11111), got %v", entry.KitsuId)
	}
}

// TestGetEntryByIdSplitCourHighestFromEpisodeWins exercises the explicit
// tie-break: both candidates match fromSeason, the one with the higher
// fromEpisode (still <= the requested episode) wins.
func TestGetEntryByIdSplitCourHighestFromEpisodeWins(t *testing.T) {
	a := NewForTesting(Fixtures{
		CrossReference: []MappingEntry{
			{Ids: CrossRefIds{AniDBId: intp(900), KitsuId: intp(7936)}, Type: TypeTV},
			{Ids: CrossRefIds{AniDBId: intp(900), KitsuId: intp(22222)}, Type: TypeTV},
		},
		Kitsu: []KitsuImdbEntry{
			{KitsuId: 7936, FromSeason: intp(2), FromEpisode: intp(1)},
			{KitsuId: 22222, FromSeason: intp(2), FromEpisode: intp(13)},
		},
	})

	entry, err := a.GetEntryById(idparser.SourceAniDB, "900", intp(2), intp(15))
	if err != nil {
		t.Fatalf("GetEntryById: %v", err)
	}
	if entry == nil {
		t.Fatal("expected a resolved entry")
	}
	if entry.KitsuId == nil || *entry.KitsuId != 22222 {
		t.Errorf("expected the higher-fromEpisode mapping (kitsuId 22222), got %v", entry.KitsuId)
	}
}

func TestGetEntryByIdSynonymFallback(t *testing.T) {
	a := NewForTesting(Fixtures{
		CrossReference: []MappingEntry{
			{Ids: CrossRefIds{AniDBId: intp(900), MALId: intp(1)}, Type: TypeTV},
			{Ids: CrossRefIds{AniDBId: intp(900), MALId: intp(2)}, Type: TypeTV},
		},
		OfflineCatalog: []OfflineCatalogFixture{
			{Source: idparser.SourceMAL, Value: "1", Details: AnimeDetails{Title: "Example Show", Synonyms: []string{"Example Show Season 1"}}},
			{Source: idparser.SourceMAL, Value: "2", Details: AnimeDetails{Title: "Example Show", Synonyms: []string{"Example Show Season 2"}}},
		},
	})

	entry, err := a.GetEntryById(idparser.SourceAniDB, "900", intp(2), intp(3))
	if err != nil {
		t.Fatalf("GetEntryById: %v", err)
	}
	if entry == nil {
		t.Fatal("expected a resolved entry")
	}
	if entry.MALId == nil || *entry.MALId != 2 {
		t.Errorf("expected the season-2 synonym match (malId 2), got %v", entry.MALId)
	}
}

func TestGetEntryByIdSpecialSeasonZero(t *testing.T) {
	a := NewForTesting(Fixtures{
		CrossReference: []MappingEntry{
			{Ids: CrossRefIds{AniDBId: intp(5)}, Type: TypeTV},
			{Ids: CrossRefIds{AniDBId: intp(5), MALId: intp(99)}, Type: TypeSpecial},
		},
	})

	entry, err := a.GetEntryById(idparser.SourceAniDB, "5", intp(0), intp(1))
	if err != nil {
		t.Fatalf("GetEntryById: %v", err)
	}
	if entry == nil {
		t.Fatal("expected a resolved entry")
	}
	if entry.Type != TypeSpecial {
		t.Errorf("expected the special-type mapping for season 0, got %v", entry.Type)
	}
}

func TestIsAnimeUsesGetEntryById(t *testing.T) {
	a := NewForTesting(Fixtures{
		CrossReference: []MappingEntry{
			{Ids: CrossRefIds{MALId: intp(1)}, Type: TypeMovie},
		},
	})
	if !a.IsAnime("mal:1") {
		t.Error("expected mal:1 to resolve as anime")
	}
	if a.IsAnime("mal:999") {
		t.Error("expected mal:999 to not resolve")
	}
	if a.IsAnime("not a valid id") {
		t.Error("expected an unparseable id to return false, not error out")
	}
}
