package aidb

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/example/streamweave/internal/idparser"
	"go.uber.org/zap"
)

type kitsuImdbRow struct {
	KitsuId         int      `json:"kitsuId"`
	TVDbId          *string  `json:"tvdbId"`
	IMDbId          *string  `json:"imdbId"`
	Title           *string  `json:"title"`
	FromSeason      *int     `json:"fromSeason"`
	FromEpisode     *int     `json:"fromEpisode"`
	NonImdbEpisodes []int    `json:"nonImdbEpisodes"`
	FanartLogoId    *string  `json:"fanartLogoId"`
}

// loadKitsuImdb parses the Kitsu↔IMDb corpus and performs the one
// cross-reference-index mutation outside a full rebuild (§4.1): for
// every Kitsu row carrying an imdbId, find its cross-reference
// MappingEntry and add the imdbId onto it. The mutation happens on a
// clone of the currently published cross-reference index, built fresh
// in this same pass — current is never touched, so a reader mid-lookup
// against the old cross-reference index is unaffected until this
// loader's results are atomically swapped in (§9 "Cyclic/enrichment
// mutation").
//
// enrichedCrossRef is nil when no Kitsu row actually needed an
// enrichment (no imdbId present anywhere), signalling the caller that
// the cross-reference index does not need republishing this cycle.
func loadKitsuImdb(data []byte, current *crossRefIndex, log *zap.Logger) (idx *kitsuImdbIndex, enrichedCrossRef *crossRefIndex, err error) {
	var rows []kitsuImdbRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, nil, fmt.Errorf("aidb: kitsu-imdb decode: %w", err)
	}

	idx = newKitsuImdbIndex()
	var clone *crossRefIndex
	skipped := 0

	for _, row := range rows {
		if row.KitsuId == 0 {
			skipped++
			continue
		}
		entry := KitsuImdbEntry{
			KitsuId:         row.KitsuId,
			TVDbId:          row.TVDbId,
			IMDbId:          row.IMDbId,
			Title:           row.Title,
			FromSeason:      row.FromSeason,
			FromEpisode:     row.FromEpisode,
			NonImdbEpisodes: row.NonImdbEpisodes,
			FanartLogoId:    row.FanartLogoId,
		}
		// dedupe by kitsuId, as the corpus does (§9 open question).
		idx.byKitsuId[row.KitsuId] = entry

		if row.IMDbId == nil || *row.IMDbId == "" {
			continue
		}
		if clone == nil {
			clone = cloneCrossRefIndex(current)
		}
		enrichCrossRefWithKitsuImdb(clone, row.KitsuId, *row.IMDbId)
	}

	if skipped > 0 {
		log.Warn("aidb: kitsu-imdb rows skipped (missing kitsuId)", zap.Int("count", skipped))
	}
	return idx, clone, nil
}

// enrichCrossRefWithKitsuImdb finds the cross-reference MappingEntry for
// kitsuId and, if it lacks an imdbId, adds one and re-indexes the entry
// under the IMDb key too (first occurrence only — "add that entry to
// the IMDb index if not already present").
func enrichCrossRefWithKitsuImdb(idx *crossRefIndex, kitsuId int, imdbId string) {
	kitsuKey := crossRefKey{source: idparser.SourceKitsu, value: strconv.Itoa(kitsuId)}
	mappings, ok := idx.byKey[kitsuKey]
	if !ok {
		return
	}
	for i, m := range mappings {
		if m.Ids.IMDbId != nil {
			continue
		}
		enriched := m
		idCopy := imdbId
		enriched.Ids.IMDbId = &idCopy
		mappings[i] = enriched

		imdbKey := crossRefKey{source: idparser.SourceIMDb, value: imdbId}
		if !mappingListHasKitsuId(idx.byKey[imdbKey], kitsuId) {
			idx.byKey[imdbKey] = append(idx.byKey[imdbKey], enriched)
		}
	}
	idx.byKey[kitsuKey] = mappings
}

func mappingListHasKitsuId(list []MappingEntry, kitsuId int) bool {
	for _, m := range list {
		if m.Ids.KitsuId != nil && *m.Ids.KitsuId == kitsuId {
			return true
		}
	}
	return false
}
