package aidb

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/example/streamweave/internal/idparser"
	"go.uber.org/zap"
)

// offlineCatalogDoc matches the manami-project anime-offline-database
// shape: a flat list of entries, each carrying its canonical title,
// synonyms, a broadcast-quarter season, and a list of source catalog
// URLs rather than explicit id fields — ids are extracted from the URLs.
type offlineCatalogDoc struct {
	Data []offlineCatalogRow `json:"data"`
}

type offlineCatalogRow struct {
	Title       string   `json:"title"`
	Synonyms    []string `json:"synonyms"`
	AnimeSeason struct {
		Season string `json:"season"`
		Year   *int   `json:"year"`
	} `json:"animeSeason"`
	Sources []string `json:"sources"`
}

// sourceIdPattern extracts one catalog's numeric/string id from a known
// offline-catalog source URL shape.
type sourceIdPattern struct {
	source idparser.IdSource
	re     *regexp.Regexp
}

var offlineCatalogURLPatterns = []sourceIdPattern{
	{idparser.SourceMAL, regexp.MustCompile(`myanimelist\.net/anime/(\d+)`)},
	{idparser.SourceAniList, regexp.MustCompile(`anilist\.co/anime/(\d+)`)},
	{idparser.SourceAniDB, regexp.MustCompile(`anidb\.net/anime/(\d+)`)},
	{idparser.SourceKitsu, regexp.MustCompile(`kitsu\.(?:io|app)/anime/([^/?#]+)`)},
	{idparser.SourceAniSearch, regexp.MustCompile(`anisearch\.com/anime/(\d+)`)},
	{idparser.SourceLiveChart, regexp.MustCompile(`livechart\.me/anime/(\d+)`)},
	{idparser.SourceNotifyMoe, regexp.MustCompile(`notify\.moe/anime/([^/?#]+)`)},
	{idparser.SourceAnimePlanet, regexp.MustCompile(`anime-planet\.com/anime/([^/?#]+)`)},
	{idparser.SourceSimkl, regexp.MustCompile(`simkl\.com/anime/(\d+)`)},
}

func loadOfflineCatalog(data []byte, log *zap.Logger) (*offlineCatalogIndex, error) {
	var doc offlineCatalogDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("aidb: offline-catalog decode: %w", err)
	}

	idx := newOfflineCatalogIndex()
	skipped := 0
	for _, row := range doc.Data {
		ids := extractOfflineCatalogIds(row.Sources)
		if len(ids) == 0 {
			skipped++
			continue
		}
		details := AnimeDetails{
			Title:    strings.TrimSpace(row.Title),
			Synonyms: row.Synonyms,
			AnimeSeasonInfo: AnimeSeason{
				Season: normalizeSeason(row.AnimeSeason.Season),
				Year:   row.AnimeSeason.Year,
			},
		}
		for key := range ids {
			idx.byKey[key] = details
		}
	}
	if skipped > 0 {
		log.Warn("aidb: offline-catalog rows skipped (no extractable id)", zap.Int("count", skipped))
	}
	return idx, nil
}

func extractOfflineCatalogIds(sources []string) map[crossRefKey]struct{} {
	found := map[crossRefKey]struct{}{}
	for _, src := range sources {
		for _, pattern := range offlineCatalogURLPatterns {
			m := pattern.re.FindStringSubmatch(src)
			if len(m) == 2 {
				found[crossRefKey{source: pattern.source, value: m[1]}] = struct{}{}
			}
		}
	}
	return found
}

func normalizeSeason(raw string) Season {
	switch strings.ToUpper(raw) {
	case string(SeasonWinter):
		return SeasonWinter
	case string(SeasonSpring):
		return SeasonSpring
	case string(SeasonSummer):
		return SeasonSummer
	case string(SeasonFall):
		return SeasonFall
	default:
		return SeasonUndefined
	}
}
