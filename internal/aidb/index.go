package aidb

import "github.com/example/streamweave/internal/idparser"

// Each corpus refreshes on its own independent timer (§5), so each gets
// its own index type and its own atomic pointer in AIDB rather than one
// combined snapshot — a cross-reference refresh publishing its new map
// must not wait on, or be blocked by, an in-flight anime-list refresh.
// getEntryById reads a live, consistent view of each index exactly once
// per lookup, so it never mixes an index's old and new generation with
// itself, even though two different indices may be at different
// generations relative to each other at the moment of a single call.

type crossRefKey struct {
	source idparser.IdSource
	value  string
}

// crossRefIndex is keyed by IdSource and the id's string value; numeric
// ids are additionally stored under their decimal-string form so a
// lookup can "try both forms" regardless of how the caller held it.
type crossRefIndex struct {
	byKey map[crossRefKey][]MappingEntry
}

func newCrossRefIndex() *crossRefIndex {
	return &crossRefIndex{byKey: map[crossRefKey][]MappingEntry{}}
}

func (i *crossRefIndex) lookup(source idparser.IdSource, value string) []MappingEntry {
	if i == nil {
		return nil
	}
	return i.byKey[crossRefKey{source: source, value: value}]
}

// offlineCatalogIndex mirrors crossRefIndex's keying, one AnimeDetails
// per id.
type offlineCatalogIndex struct {
	byKey map[crossRefKey]AnimeDetails
}

func newOfflineCatalogIndex() *offlineCatalogIndex {
	return &offlineCatalogIndex{byKey: map[crossRefKey]AnimeDetails{}}
}

func (i *offlineCatalogIndex) lookup(source idparser.IdSource, value string) (AnimeDetails, bool) {
	if i == nil {
		return AnimeDetails{}, false
	}
	d, ok := i.byKey[crossRefKey{source: source, value: value}]
	return d, ok
}

type kitsuImdbIndex struct {
	byKitsuId map[int]KitsuImdbEntry
}

func newKitsuImdbIndex() *kitsuImdbIndex {
	return &kitsuImdbIndex{byKitsuId: map[int]KitsuImdbEntry{}}
}

type anitraktIndex struct {
	byMALId map[int]AnitraktEntry
}

func newAnitraktIndex() *anitraktIndex {
	return &anitraktIndex{byMALId: map[int]AnitraktEntry{}}
}

type animeListIndex struct {
	byAniDBId map[int]AnimeListEntry
	byTVDbId  map[int][]AnimeListEntry
}

func newAnimeListIndex() *animeListIndex {
	return &animeListIndex{
		byAniDBId: map[int]AnimeListEntry{},
		byTVDbId:  map[int][]AnimeListEntry{},
	}
}
