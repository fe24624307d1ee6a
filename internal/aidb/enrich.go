package aidb

import (
	"regexp"
	"strconv"

	"github.com/example/streamweave/internal/idparser"
)

// EnrichParsedIdWithAnimeEntry fills parsedId.Season from (in order)
// imdb.seasonNumber, trakt.seasonNumber, tvdb.seasonNumber, a synonym
// regex match, tmdb.seasonNumber; and, for mal/kitsu ids carrying an
// episode, rebases the episode number as fromEpisode + episode - 1
// using imdb.fromEpisode or tvdb.fromEpisode.
//
// It is idempotent (§8): re-running it against its own output derives
// the same season (the same projections are consulted and overwrite
// rather than accumulate) and does not rebase an already-rebased
// episode a second time, because the rebase only applies to an episode
// that still looks locally-numbered (below fromEpisode).
func EnrichParsedIdWithAnimeEntry(p idparser.ParsedId, entry *AnimeEntry) idparser.ParsedId {
	if entry == nil {
		return p
	}

	if season := deriveSeason(entry); season != nil {
		p = p.WithSeason(season)
	}

	if p.Episode != nil && (p.Source == idparser.SourceMAL || p.Source == idparser.SourceKitsu) {
		fromEpisode := preferFromEpisode(entry)
		// Only rebase an episode that still looks locally-numbered (less
		// than fromEpisode); an already-absolute episode is left alone so
		// re-running enrichment on its own output doesn't rebase twice.
		if fromEpisode != nil && *p.Episode < *fromEpisode {
			rebased := *fromEpisode + *p.Episode - 1
			p = p.WithEpisode(&rebased)
		}
	}

	return p
}

func deriveSeason(entry *AnimeEntry) *int {
	if entry.IMDb != nil && entry.IMDb.SeasonNumber != nil {
		return entry.IMDb.SeasonNumber
	}
	if entry.Trakt != nil && entry.Trakt.SeasonNumber != nil {
		return entry.Trakt.SeasonNumber
	}
	if entry.TVDb.SeasonNumber != nil {
		return entry.TVDb.SeasonNumber
	}
	if season := seasonFromSynonyms(entry); season != nil {
		return season
	}
	if entry.TMDb.SeasonNumber != nil {
		return entry.TMDb.SeasonNumber
	}
	return nil
}

var synonymSeasonRe = regexp.MustCompile(`(?i)season[\s_-]*(\d+)`)

func seasonFromSynonyms(entry *AnimeEntry) *int {
	for _, syn := range entry.Synonyms {
		m := synonymSeasonRe.FindStringSubmatch(syn)
		if len(m) == 2 {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return &n
			}
		}
	}
	return nil
}

func preferFromEpisode(entry *AnimeEntry) *int {
	if entry.IMDb != nil && entry.IMDb.FromEpisode != nil {
		return entry.IMDb.FromEpisode
	}
	return entry.TVDb.FromEpisode
}
