package aidb

import (
	"testing"

	"go.uber.org/zap"
)

const animeListFixture = `<?xml version="1.0"?>
<anime-list>
	<anime anidbid="12" tvdbid="100" defaulttvdbseason="1" episodeoffset="0" imdbid="tt1234567">
		<mapping-list>
			<mapping anidbseason="2" tvdbseason="2" start="1" end="12" offset="0">1-12</mapping>
		</mapping-list>
	</anime>
	<anime anidbid="13" tvdbid="100" defaulttvdbseason="a" episodeoffset="12"/>
	<anime tvdbid="200"/>
</anime-list>`

func TestLoadAnimeListWithMappings(t *testing.T) {
	idx, err := loadAnimeList([]byte(animeListFixture), true, zap.NewNop())
	if err != nil {
		t.Fatalf("loadAnimeList: %v", err)
	}

	e, ok := idx.byAniDBId[12]
	if !ok {
		t.Fatal("expected anidbid 12 indexed")
	}
	if e.TVDbId == nil || *e.TVDbId != 100 {
		t.Errorf("expected tvdbid 100, got %v", e.TVDbId)
	}
	if e.IMDbId == nil || *e.IMDbId != "tt1234567" {
		t.Errorf("expected imdbid tt1234567, got %v", e.IMDbId)
	}
	if len(e.Mappings) != 1 || e.Mappings[0].TVDbSeason == nil || *e.Mappings[0].TVDbSeason != 2 {
		t.Errorf("expected one mapping-list row with tvdbSeason 2, got %+v", e.Mappings)
	}

	absolute, ok := idx.byAniDBId[13]
	if !ok {
		t.Fatal("expected anidbid 13 indexed")
	}
	if !absolute.AbsoluteTVDbSeason {
		t.Error("expected defaulttvdbseason='a' to set AbsoluteTVDbSeason")
	}

	byTVDb := idx.byTVDbId[100]
	if len(byTVDb) != 2 {
		t.Errorf("expected both anidbid 12 and 13 indexed under tvdbid 100, got %d", len(byTVDb))
	}

	if _, ok := idx.byAniDBId[0]; ok {
		t.Error("expected the anidbid-less row to be skipped")
	}
}

func TestLoadAnimeListSkipsMappingsWhenNotFullDetail(t *testing.T) {
	idx, err := loadAnimeList([]byte(animeListFixture), false, zap.NewNop())
	if err != nil {
		t.Fatalf("loadAnimeList: %v", err)
	}
	e := idx.byAniDBId[12]
	if len(e.Mappings) != 0 {
		t.Errorf("expected no mapping-list rows parsed at non-full detail, got %d", len(e.Mappings))
	}
}
