package aidb

import (
	"encoding/json"
	"fmt"

	"github.com/example/streamweave/internal/idparser"
	"go.uber.org/zap"
)

// crossRefRow is one entry of the cross-reference corpus: every known
// external id for a title plus its broadcast type and any per-catalog
// season override. Field validation is hand-written and reject-with-
// warning (§9 "Heterogeneous JSON validation") — a row missing every id
// is useless and skipped, but a row with partial ids is kept.
type crossRefRow struct {
	AniDBId          *int    `json:"anidb_id"`
	AniListId        *int    `json:"anilist_id"`
	AnimePlanetId    *string `json:"anime-planet_id"`
	AniSearchId      *int    `json:"anisearch_id"`
	IMDbId           *string `json:"imdb_id"`
	KitsuId          *int    `json:"kitsu_id"`
	LiveChartId      *int    `json:"livechart_id"`
	MALId            *int    `json:"mal_id"`
	NotifyMoeId      *string `json:"notify-moe_id"`
	SimklId          *int    `json:"simkl_id"`
	TraktId          *int    `json:"trakt_id"`
	TVDbId           *int    `json:"thetvdb_id"`
	TMDbId           *int    `json:"themoviedb_id"`
	AnimeCountdownId *int    `json:"animecountdown_id"`
	Type             string  `json:"type"`
	TVDbSeason       *int    `json:"tvdb_season"`
	TMDbSeason       *int    `json:"tmdb_season"`
}

func loadCrossReference(data []byte, log *zap.Logger) (*crossRefIndex, error) {
	var rows []crossRefRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("aidb: cross-reference decode: %w", err)
	}

	idx := newCrossRefIndex()
	skipped := 0
	for _, row := range rows {
		entry, ok := crossRefRowToMapping(row)
		if !ok {
			skipped++
			continue
		}
		addMappingToIndex(idx, entry)
	}
	if skipped > 0 {
		log.Warn("aidb: cross-reference rows skipped (no usable id)", zap.Int("count", skipped))
	}
	return idx, nil
}

func crossRefRowToMapping(row crossRefRow) (MappingEntry, bool) {
	hasAnyId := row.AniDBId != nil || row.AniListId != nil || row.AnimePlanetId != nil ||
		row.AniSearchId != nil || row.IMDbId != nil || row.KitsuId != nil || row.LiveChartId != nil ||
		row.MALId != nil || row.NotifyMoeId != nil || row.SimklId != nil || row.TraktId != nil ||
		row.TVDbId != nil || row.TMDbId != nil || row.AnimeCountdownId != nil
	if !hasAnyId {
		return MappingEntry{}, false
	}
	return MappingEntry{
		Ids: CrossRefIds{
			AniDBId:          row.AniDBId,
			AniListId:        row.AniListId,
			AnimePlanetId:    row.AnimePlanetId,
			AniSearchId:      row.AniSearchId,
			IMDbId:           row.IMDbId,
			KitsuId:          row.KitsuId,
			LiveChartId:      row.LiveChartId,
			MALId:            row.MALId,
			NotifyMoeId:      row.NotifyMoeId,
			SimklId:          row.SimklId,
			TraktId:          row.TraktId,
			TMDbId:           row.TMDbId,
			TVDbId:           row.TVDbId,
			AnimeCountdownId: row.AnimeCountdownId,
		},
		Type:       normalizeAnimeType(row.Type),
		TVDbSeason: row.TVDbSeason,
		TMDbSeason: row.TMDbSeason,
	}, true
}

func normalizeAnimeType(raw string) AnimeType {
	switch raw {
	case string(TypeTV):
		return TypeTV
	case string(TypeMovie):
		return TypeMovie
	case string(TypeSpecial):
		return TypeSpecial
	case string(TypeOVA):
		return TypeOVA
	case string(TypeONA):
		return TypeONA
	default:
		return TypeUnknown
	}
}

// addMappingToIndex files entry under every id it carries, one key per
// idparser.IdSource it has a value for. Numeric ids are stored under
// their decimal string form so lookups that arrive as either an int or
// a string hit the same bucket.
func addMappingToIndex(idx *crossRefIndex, entry MappingEntry) {
	put := func(source idparser.IdSource, value string) {
		if value == "" {
			return
		}
		key := crossRefKey{source: source, value: value}
		idx.byKey[key] = append(idx.byKey[key], entry)
	}
	putInt := func(source idparser.IdSource, value *int) {
		if value != nil {
			put(source, fmt.Sprintf("%d", *value))
		}
	}
	putStr := func(source idparser.IdSource, value *string) {
		if value != nil && *value != "" {
			put(source, *value)
		}
	}

	putInt(idparser.SourceAniDB, entry.Ids.AniDBId)
	putInt(idparser.SourceAniList, entry.Ids.AniListId)
	putStr(idparser.SourceAnimePlanet, entry.Ids.AnimePlanetId)
	putInt(idparser.SourceAniSearch, entry.Ids.AniSearchId)
	putStr(idparser.SourceIMDb, entry.Ids.IMDbId)
	putInt(idparser.SourceKitsu, entry.Ids.KitsuId)
	putInt(idparser.SourceLiveChart, entry.Ids.LiveChartId)
	putInt(idparser.SourceMAL, entry.Ids.MALId)
	putStr(idparser.SourceNotifyMoe, entry.Ids.NotifyMoeId)
	putInt(idparser.SourceSimkl, entry.Ids.SimklId)
	putInt(idparser.SourceTrakt, entry.Ids.TraktId)
	putInt(idparser.SourceTMDb, entry.Ids.TMDbId)
	putInt(idparser.SourceTVDb, entry.Ids.TVDbId)
	putInt(idparser.SourceAnimeCountdown, entry.Ids.AnimeCountdownId)
}

// cloneCrossRefIndex performs the copy-on-write clone that lets the
// Kitsu loader enrich the cross-reference index without mutating a
// published snapshot (§9): callers get an independent map that shares
// MappingEntry values (immutable once built) until a key is rewritten.
func cloneCrossRefIndex(src *crossRefIndex) *crossRefIndex {
	clone := newCrossRefIndex()
	if src == nil {
		return clone
	}
	for k, v := range src.byKey {
		cp := make([]MappingEntry, len(v))
		copy(cp, v)
		clone.byKey[k] = cp
	}
	return clone
}
