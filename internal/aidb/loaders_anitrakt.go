package aidb

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// anitraktExternalsRow and anitraktSeasonRow mirror the real
// db.trakt.extended-anitrakt output shape (OutputShow/OutputMovie):
// nested myanimelist/trakt/externals blocks rather than a flat record.
type anitraktExternalsRow struct {
	TVDb *int    `json:"tvdb"`
	TMDb *int    `json:"tmdb"`
	IMDb *string `json:"imdb"`
}

type anitraktSeasonExternalsRow struct {
	TVDb *int `json:"tvdb"`
	TMDb *int `json:"tmdb"`
}

type anitraktSeasonRow struct {
	Id        int                        `json:"id"`
	Number    int                        `json:"number"`
	Externals anitraktSeasonExternalsRow `json:"externals"`
}

type anitraktRow struct {
	MyAnimeList struct {
		Title string `json:"title"`
		Id    int    `json:"id"`
	} `json:"myanimelist"`
	Trakt struct {
		Title       string             `json:"title"`
		Id          int                `json:"id"`
		Slug        string             `json:"slug"`
		Season      *anitraktSeasonRow `json:"season"`
		IsSplitCour bool               `json:"is_split_cour"`
	} `json:"trakt"`
	ReleaseYear int                  `json:"release_year"`
	Externals   anitraktExternalsRow `json:"externals"`
}

func loadAnitrakt(data []byte, log *zap.Logger) (*anitraktIndex, error) {
	var rows []anitraktRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("aidb: anitrakt decode: %w", err)
	}

	idx := newAnitraktIndex()
	skipped := 0
	for _, row := range rows {
		if row.MyAnimeList.Id == 0 || row.Trakt.Id == 0 {
			skipped++
			continue
		}
		entry := AnitraktEntry{
			MALId: row.MyAnimeList.Id,
			Trakt: AnitraktTrakt{
				Id:          row.Trakt.Id,
				Slug:        row.Trakt.Slug,
				Title:       row.Trakt.Title,
				IsSplitCour: row.Trakt.IsSplitCour,
			},
			Externals: AnitraktExternals{
				TVDb: row.Externals.TVDb,
				TMDb: row.Externals.TMDb,
				IMDb: row.Externals.IMDb,
			},
			ReleaseYear: row.ReleaseYear,
		}
		if row.Trakt.Season != nil {
			entry.Trakt.Season = &AnitraktSeason{
				Id:     row.Trakt.Season.Id,
				Number: row.Trakt.Season.Number,
				Externals: AnitraktSeasonExternals{
					TVDb: row.Trakt.Season.Externals.TVDb,
					TMDb: row.Trakt.Season.Externals.TMDb,
				},
			}
		}
		idx.byMALId[row.MyAnimeList.Id] = entry
	}
	if skipped > 0 {
		log.Warn("aidb: anitrakt rows skipped (missing malId/traktId)", zap.Int("count", skipped))
	}
	return idx, nil
}
