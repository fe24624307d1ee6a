package aidb

import (
	"go.uber.org/zap"

	"github.com/example/streamweave/internal/idparser"
)

// OfflineCatalogFixture keys one offline-catalog row by the id source
// and value under which it should be discoverable, mirroring how the
// real loader files a row under every id it carries.
type OfflineCatalogFixture struct {
	Source  idparser.IdSource
	Value   string
	Details AnimeDetails
}

// Fixtures carries pre-loaded index contents for NewForTesting.
type Fixtures struct {
	CrossReference        []MappingEntry
	OfflineCatalog        []OfflineCatalogFixture
	Kitsu                 []KitsuImdbEntry
	Anitrakt              []AnitraktEntry
	AnimeList             []AnimeListEntry
	EnableMappingTieBreak bool
	DetailLevel           DetailLevel
}

// NewForTesting builds an AIDB directly from in-memory fixtures,
// skipping disk and HTTP entirely (§9 Design Notes: tests must be able
// to inject a custom instance with in-memory fixtures). No refresh
// timers are started; the returned instance is ready for GetEntryById
// and IsAnime calls immediately.
func NewForTesting(f Fixtures) *AIDB {
	detailLevel := f.DetailLevel
	if detailLevel == "" {
		detailLevel = DetailRequired
	}

	a := &AIDB{
		detailLevel:           detailLevel,
		enableMappingTieBreak: f.EnableMappingTieBreak,
		log:                   zap.NewNop(),
		status:                map[SourceName]*SourceStatus{},
		stopCh:                make(chan struct{}),
	}
	a.publishEmptyIndices()

	crossRef := newCrossRefIndex()
	for _, m := range f.CrossReference {
		addMappingToIndex(crossRef, m)
	}
	a.crossRef.Store(crossRef)

	catalog := newOfflineCatalogIndex()
	for _, row := range f.OfflineCatalog {
		catalog.byKey[crossRefKey{source: row.Source, value: row.Value}] = row.Details
	}
	a.offlineCatalog.Store(catalog)

	kitsu := newKitsuImdbIndex()
	for _, k := range f.Kitsu {
		kitsu.byKitsuId[k.KitsuId] = k
	}
	a.kitsu.Store(kitsu)

	anitrakt := newAnitraktIndex()
	for _, e := range f.Anitrakt {
		anitrakt.byMALId[e.MALId] = e
	}
	a.anitrakt.Store(anitrakt)

	animeList := newAnimeListIndex()
	for _, e := range f.AnimeList {
		animeList.byAniDBId[e.AniDBId] = e
		if e.TVDbId != nil {
			animeList.byTVDbId[*e.TVDbId] = append(animeList.byTVDbId[*e.TVDbId], e)
		}
	}
	a.animeList.Store(animeList)

	return a
}
